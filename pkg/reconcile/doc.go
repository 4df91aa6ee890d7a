// Package reconcile merges achievement data from multiple sources into a
// single per-title set.
//
// The authoritative listing (Web API schema or browser scrape) decides which
// achievements exist and which are hidden. The community XML feed supplements
// missing display text, previously persisted data backfills descriptions that
// were recovered on earlier runs, and ranked donor profiles fill in whatever
// is still blank. Descriptions only ever improve: once a non-empty
// description has been recorded for an achievement it is never replaced by
// an empty one.
package reconcile
