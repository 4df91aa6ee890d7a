// Package pipeline drives a full refresh run: for each selected title it
// gathers store details, the XML supplement, the authoritative achievement
// listing and global percentages, merges them with previously persisted
// data, recovers hidden descriptions from donor profiles, and persists the
// result. Titles are processed one at a time and a failure in one never
// stops the rest. Every run ends by rebuilding the aggregate catalog from
// the whole data directory.
package pipeline
