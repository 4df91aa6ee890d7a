// Package catalog owns the on-disk layout of the achievement data set.
//
// Each title lives in its own numeric directory under the data root:
//
//	AppID/<appid>/achievements.json   unlock records (map or list form)
//	AppID/<appid>/<appid>.db          unlock records (list form)
//	AppID/<appid>/game-info.json      merged per-title achievement data
//	AppID/<appid>/<name>.platform     storefront marker, name is the platform
//	AppID/<appid>/blacklist           achievement API names to exclude, one per line
//	AppID/<appid>/skip                marker: do not refresh this title
//
// The aggregate catalog at game-data.json is rebuilt from scratch on every
// run; titles without any unlock record file are left out of it. All JSON
// writes go through a temp file and rename so a crash never leaves a
// half-written document behind.
package catalog
