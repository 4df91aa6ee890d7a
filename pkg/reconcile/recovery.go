package reconcile

import (
	"strings"
	"time"

	"github.com/lordzed/achievement-viewer/pkg/logger"
	"github.com/lordzed/achievement-viewer/pkg/steam"
)

// DonorFetcher fetches the public achievement showcase of one profile.
type DonorFetcher interface {
	FetchDonorAchievements(appID string, steamID int64) ([]steam.DonorAchievement, error)
}

// RecoveryEngine fills hidden-achievement descriptions from ranked donor
// profiles. Donors are queried in order until every worklist entry has a
// description or the pool is exhausted.
type RecoveryEngine struct {
	fetcher DonorFetcher
	limit   int
	pause   time.Duration
	logger  logger.Logger
	sleep   func(time.Duration)
}

// NewRecoveryEngine creates a recovery engine. limit caps how many donors a
// single title may consult; pause is the delay between consecutive donor
// fetches and may be zero.
func NewRecoveryEngine(fetcher DonorFetcher, limit int, pause time.Duration, log logger.Logger) *RecoveryEngine {
	if log == nil {
		log = logger.GetLogger()
	}

	return &RecoveryEngine{
		fetcher: fetcher,
		limit:   limit,
		pause:   pause,
		logger:  log,
		sleep:   time.Sleep,
	}
}

// Recover consults donors for the title until no worklist entry is missing a
// description. The merged set is updated in place; the number of entries
// still missing afterwards is returned. Individual donor failures are logged
// and skipped.
func (e *RecoveryEngine) Recover(appID string, result *Result, donorIDs []int64) int {
	missing := MissingCount(result.Achievements, result.Worklist)
	if missing == 0 || len(donorIDs) == 0 {
		return missing
	}

	donors := donorIDs
	if e.limit > 0 && len(donors) > e.limit {
		donors = donors[:e.limit]
	}

	for i, steamID := range donors {
		if i > 0 && e.pause > 0 {
			e.sleep(e.pause)
		}

		recovered, err := e.fetcher.FetchDonorAchievements(appID, steamID)
		if err != nil {
			e.logger.WarnWithFields("donor profile fetch failed", map[string]interface{}{
				"appid":    appID,
				"steam_id": steamID,
				"error":    err.Error(),
			})
			continue
		}

		applied := e.apply(result, recovered)
		missing = MissingCount(result.Achievements, result.Worklist)

		e.logger.DebugWithFields("donor consulted", map[string]interface{}{
			"appid":     appID,
			"steam_id":  steamID,
			"recovered": applied,
			"missing":   missing,
		})

		if missing == 0 {
			break
		}
	}

	return missing
}

// apply copies donor descriptions onto entries that are still blank,
// matching by lowercased display name.
func (e *RecoveryEngine) apply(result *Result, recovered []steam.DonorAchievement) int {
	applied := 0
	for _, donor := range recovered {
		if donor.Description == "" {
			continue
		}

		apiName, ok := result.NameLookup[strings.ToLower(donor.Name)]
		if !ok {
			continue
		}

		current := result.Achievements[apiName]
		if current.Description != "" {
			continue
		}

		current.Description = donor.Description
		result.Achievements[apiName] = current
		applied++
	}
	return applied
}
