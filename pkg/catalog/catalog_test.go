package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebuild(t *testing.T) {
	s := newTestStore(t)

	// refreshed this run
	writeTitleFile(t, s, "10", "achievements.json", `{"ACH_A": {"earned": true}}`)

	// carried over from persisted state
	writeTitleFile(t, s, "440", "achievements.json", `{"ACH_B": {"earned": false}}`)
	carried := NewTitleInfo("440")
	carried.Name = "Team Fortress 2"
	require.NoError(t, s.SaveTitleInfo(carried))

	// no game-info.json, gets a stub
	writeTitleFile(t, s, "570", "570.db", `[{"apiname": "ACH_C", "achieved": 1}]`)

	// no unlock file, excluded
	require.NoError(t, os.MkdirAll(s.TitleDir("730"), 0755))

	updatedInfo := NewTitleInfo("10")
	updatedInfo.Name = "Counter-Strike"
	updated := map[string]Entry{
		"10": {
			AppID:        "10",
			Info:         updatedInfo,
			Achievements: map[string]UnlockRecord{"ACH_A": {Earned: true}},
		},
	}

	catalog, err := s.Rebuild(updated)
	require.NoError(t, err)
	require.Len(t, catalog, 3)

	assert.Equal(t, "10", catalog[0].AppID)
	assert.Equal(t, "Counter-Strike", catalog[0].Info.Name, "refreshed titles use the in-memory entry")

	assert.Equal(t, "440", catalog[1].AppID)
	assert.Equal(t, "Team Fortress 2", catalog[1].Info.Name, "untouched titles carry persisted info over")

	assert.Equal(t, "570", catalog[2].AppID)
	assert.Equal(t, "Game 570", catalog[2].Info.Name, "titles without persisted info get a stub")
	assert.True(t, catalog[2].Achievements["ACH_C"].Earned)
}

func TestRebuildIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	writeTitleFile(t, s, "440", "achievements.json", `{"ACH_A": {"earned": true}}`)
	require.NoError(t, s.SaveTitleInfo(NewTitleInfo("440")))

	first, err := s.Rebuild(nil)
	require.NoError(t, err)
	second, err := s.Rebuild(nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestWriteCatalog(t *testing.T) {
	s := newTestStore(t)
	path := filepath.Join(s.Root(), "game-data.json")

	entry := Entry{
		AppID:        "440",
		Info:         NewTitleInfo("440"),
		Achievements: map[string]UnlockRecord{"ACH_A": {Earned: true, EarnedTime: 5}},
	}
	require.NoError(t, s.WriteCatalog(path, []Entry{entry}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []Entry
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "440", decoded[0].AppID)
	assert.Equal(t, int64(5), decoded[0].Achievements["ACH_A"].EarnedTime)
}
