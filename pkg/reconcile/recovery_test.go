package reconcile

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lordzed/achievement-viewer/pkg/logger"
	"github.com/lordzed/achievement-viewer/pkg/steam"
)

type fakeDonorFetcher struct {
	responses map[int64][]steam.DonorAchievement
	errs      map[int64]error
	queried   []int64
}

func (f *fakeDonorFetcher) FetchDonorAchievements(appID string, steamID int64) ([]steam.DonorAchievement, error) {
	f.queried = append(f.queried, steamID)
	if err, ok := f.errs[steamID]; ok {
		return nil, err
	}
	return f.responses[steamID], nil
}

func hiddenResult(apiNames ...string) *Result {
	r := &Result{
		Achievements: make(map[string]steam.Achievement),
		NameLookup:   make(map[string]string),
	}
	for _, name := range apiNames {
		r.Achievements[name] = steam.Achievement{Name: name, Hidden: true}
		r.NameLookup[toLowerName(name)] = name
		r.Worklist = append(r.Worklist, name)
	}
	return r
}

func toLowerName(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}

// Once every worklist entry has a description, remaining donors are never
// queried.
func TestRecoverStopsEarly(t *testing.T) {
	fetcher := &fakeDonorFetcher{
		responses: map[int64][]steam.DonorAchievement{
			1: {{Name: "ACH_X", Description: "first half"}},
			2: {{Name: "ACH_Y", Description: "second half"}},
			3: {{Name: "ACH_X", Description: "never used"}},
		},
	}

	engine := NewRecoveryEngine(fetcher, 32, 0, logger.NewNopLogger())
	result := hiddenResult("ACH_X", "ACH_Y")

	missing := engine.Recover("100", result, []int64{1, 2, 3})

	assert.Equal(t, 0, missing)
	assert.Equal(t, []int64{1, 2}, fetcher.queried, "third donor is never consulted")
	assert.Equal(t, "first half", result.Achievements["ACH_X"].Description)
	assert.Equal(t, "second half", result.Achievements["ACH_Y"].Description)
}

func TestRecoverSkipsFailingDonors(t *testing.T) {
	fetcher := &fakeDonorFetcher{
		errs: map[int64]error{1: errors.New("profile is private")},
		responses: map[int64][]steam.DonorAchievement{
			2: {{Name: "ACH_X", Description: "recovered"}},
		},
	}

	engine := NewRecoveryEngine(fetcher, 32, 0, logger.NewNopLogger())
	result := hiddenResult("ACH_X")

	missing := engine.Recover("100", result, []int64{1, 2})
	assert.Equal(t, 0, missing)
	assert.Equal(t, []int64{1, 2}, fetcher.queried)
}

func TestRecoverRespectsDonorLimit(t *testing.T) {
	fetcher := &fakeDonorFetcher{}
	engine := NewRecoveryEngine(fetcher, 2, 0, logger.NewNopLogger())
	result := hiddenResult("ACH_X")

	missing := engine.Recover("100", result, []int64{1, 2, 3, 4})
	assert.Equal(t, 1, missing, "nobody had it")
	assert.Equal(t, []int64{1, 2}, fetcher.queried)
}

func TestRecoverNothingMissing(t *testing.T) {
	fetcher := &fakeDonorFetcher{}
	engine := NewRecoveryEngine(fetcher, 32, 0, logger.NewNopLogger())

	result := hiddenResult("ACH_X")
	a := result.Achievements["ACH_X"]
	a.Description = "already there"
	result.Achievements["ACH_X"] = a

	missing := engine.Recover("100", result, []int64{1, 2})
	assert.Equal(t, 0, missing)
	assert.Empty(t, fetcher.queried, "no donors consulted when nothing is missing")
}

func TestRecoverIgnoresUnmatchedAndVisible(t *testing.T) {
	result := &Result{
		Achievements: map[string]steam.Achievement{
			"ACH_HIDDEN":  {Name: "Ghost", Hidden: true},
			"ACH_VISIBLE": {Name: "Plain", Description: "visible text"},
		},
		Worklist:   []string{"ACH_HIDDEN"},
		NameLookup: map[string]string{"ghost": "ACH_HIDDEN", "plain": "ACH_VISIBLE"},
	}
	fetcher := &fakeDonorFetcher{
		responses: map[int64][]steam.DonorAchievement{
			1: {
				{Name: "Unknown Name", Description: "no home"},
				{Name: "Plain", Description: "donor copy"},
				{Name: "Ghost", Description: ""},
			},
		},
	}

	engine := NewRecoveryEngine(fetcher, 32, 0, logger.NewNopLogger())
	missing := engine.Recover("100", result, []int64{1})

	assert.Equal(t, 1, missing)
	assert.Equal(t, "visible text", result.Achievements["ACH_VISIBLE"].Description, "existing descriptions are never overwritten")
	assert.Empty(t, result.Achievements["ACH_HIDDEN"].Description, "blank donor text is not applied")
}

func TestRecoverPausesBetweenDonors(t *testing.T) {
	fetcher := &fakeDonorFetcher{
		responses: map[int64][]steam.DonorAchievement{
			3: {{Name: "ACH_X", Description: "found"}},
		},
	}
	engine := NewRecoveryEngine(fetcher, 32, 1, logger.NewNopLogger())

	var pauses int
	engine.sleep = func(time.Duration) { pauses++ }

	result := hiddenResult("ACH_X")
	missing := engine.Recover("100", result, []int64{1, 2, 3})

	require.Equal(t, 0, missing)
	assert.Equal(t, 2, pauses, "no pause before the first donor")
}
