package reconcile

import (
	"strings"

	"github.com/lordzed/achievement-viewer/pkg/steam"
)

// Result is the outcome of merging all sources for one title.
type Result struct {
	// Achievements is the merged set keyed by API name.
	Achievements map[string]steam.Achievement

	// Worklist holds the API names of achievements that are hidden and
	// still have no description, in authoritative listing order. Donor
	// recovery works through this list.
	Worklist []string

	// NameLookup maps lowercased display names to API names. Donor profile
	// pages only expose display names, so recovered descriptions are routed
	// back through this table.
	NameLookup map[string]string
}

// Merge combines the authoritative listing with the XML supplement and the
// previously persisted set. The listing decides membership and the hidden
// flag; achievements absent from it are dropped even if older runs knew
// about them.
func Merge(authoritative []steam.SchemaAchievement, xmlSupplement, previous map[string]steam.Achievement) Result {
	result := Result{
		Achievements: make(map[string]steam.Achievement, len(authoritative)),
		NameLookup:   make(map[string]string, len(authoritative)),
	}

	for _, entry := range authoritative {
		// The supplement's record is the starting point when it has one;
		// the listing fills whatever gaps remain.
		var merged steam.Achievement
		if supp, ok := xmlSupplement[entry.APIName]; ok {
			merged = supp
		} else {
			merged = steam.Achievement{
				Name:        entry.DisplayName,
				Description: entry.Description,
				Icon:        entry.Icon,
				IconGray:    entry.IconGray,
			}
		}

		// The listing alone decides the hidden flag.
		merged.Hidden = entry.Hidden

		if merged.Name == "" {
			merged.Name = entry.DisplayName
		}
		if merged.Description == "" {
			merged.Description = entry.Description
		}
		if merged.Icon == "" {
			merged.Icon = entry.Icon
		}
		if merged.IconGray == "" {
			merged.IconGray = entry.IconGray
		}

		// Descriptions recovered on earlier runs survive even when every
		// live source has gone blank again.
		if old, ok := previous[entry.APIName]; ok && merged.Description == "" && old.Description != "" {
			merged.Description = old.Description
		}

		if merged.Name == "" {
			merged.Name = entry.APIName
		}

		result.Achievements[entry.APIName] = merged
		result.NameLookup[strings.ToLower(merged.Name)] = entry.APIName

		if merged.Hidden && merged.Description == "" {
			result.Worklist = append(result.Worklist, entry.APIName)
		}
	}

	return result
}

// MissingCount reports how many worklist achievements still lack a
// description. The worklist itself never shrinks; recovery progress is
// always measured by recounting against the current set.
func MissingCount(achievements map[string]steam.Achievement, worklist []string) int {
	missing := 0
	for _, apiName := range worklist {
		if a, ok := achievements[apiName]; ok && a.Description == "" {
			missing++
		}
	}
	return missing
}
