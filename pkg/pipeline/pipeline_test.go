package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lordzed/achievement-viewer/pkg/catalog"
	"github.com/lordzed/achievement-viewer/pkg/config"
	"github.com/lordzed/achievement-viewer/pkg/logger"
	"github.com/lordzed/achievement-viewer/pkg/reconcile"
	"github.com/lordzed/achievement-viewer/pkg/steam"
)

type fakeFetcher struct {
	details     map[string]*steam.GameDetails
	xml         map[string]map[string]steam.Achievement
	percentages map[string]map[string]float64
}

func (f *fakeFetcher) FetchStoreDetails(appID string) (*steam.GameDetails, error) {
	if d, ok := f.details[appID]; ok {
		return d, nil
	}
	return nil, errors.New("store lookup failed")
}

func (f *fakeFetcher) FetchXMLSupplement(appID string) (map[string]steam.Achievement, error) {
	if x, ok := f.xml[appID]; ok {
		return x, nil
	}
	return nil, errors.New("xml feed unavailable")
}

func (f *fakeFetcher) FetchGlobalPercentages(appID string) (map[string]float64, error) {
	if p, ok := f.percentages[appID]; ok {
		return p, nil
	}
	return nil, errors.New("percentage feed unavailable")
}

type fakeLister struct {
	listings map[string][]steam.SchemaAchievement
	errs     map[string]error
}

func (f *fakeLister) ListAchievements(appID string) ([]steam.SchemaAchievement, error) {
	if err, ok := f.errs[appID]; ok {
		return nil, err
	}
	return f.listings[appID], nil
}

type fakeDonors struct {
	achievements []steam.DonorAchievement
}

func (f *fakeDonors) FetchDonorAchievements(appID string, steamID int64) ([]steam.DonorAchievement, error) {
	return f.achievements, nil
}

func testConfig(t *testing.T, root string) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Data.AppIDDir = root
	cfg.Data.CatalogPath = filepath.Join(root, "game-data.json")
	cfg.Fetch.AdapterPause = 0
	cfg.Fetch.DonorPause = 0
	return cfg
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestRunRefreshesTitle(t *testing.T) {
	root := t.TempDir()
	cfg := testConfig(t, root)
	store := catalog.NewStore(root, logger.NewNopLogger())
	writeFile(t, filepath.Join(root, "440"), "achievements.json", `{"ACH_SECRET": {"earned": true, "earned_time": 100}}`)

	fetcher := &fakeFetcher{
		details: map[string]*steam.GameDetails{
			"440": {Name: "Team Fortress 2", Icon: "https://cdn.example/440.jpg"},
		},
		xml: map[string]map[string]steam.Achievement{
			"440": {"ACH_OPEN": {Name: "Open", Description: "From XML"}},
		},
		percentages: map[string]map[string]float64{
			"440": {"ACH_SECRET": 3.2},
		},
	}
	lister := &fakeLister{
		listings: map[string][]steam.SchemaAchievement{
			"440": {
				{APIName: "ACH_OPEN", DisplayName: "Open"},
				{APIName: "ACH_SECRET", DisplayName: "Secret", Hidden: true},
			},
		},
	}
	recovery := reconcile.NewRecoveryEngine(&fakeDonors{
		achievements: []steam.DonorAchievement{{Name: "Secret", Description: "Do the secret thing."}},
	}, 32, 0, logger.NewNopLogger())

	p := New(Options{
		Config:   cfg,
		Store:    store,
		Fetcher:  fetcher,
		Lister:   lister,
		Recovery: recovery,
		DonorIDs: []int64{1},
		Logger:   logger.NewNopLogger(),
	})

	summary, err := p.Run([]string{"440"})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Refreshed)
	assert.Zero(t, summary.Failed)
	assert.Equal(t, 1, summary.CatalogSize)
	assert.Zero(t, summary.MissingTotal)

	info := store.LoadTitleInfo("440")
	assert.Equal(t, "Team Fortress 2", info.Name)
	assert.Equal(t, "From XML", info.Achievements["ACH_OPEN"].Description)
	assert.Equal(t, "Do the secret thing.", info.Achievements["ACH_SECRET"].Description)
	require.NotNil(t, info.Achievements["ACH_SECRET"].Percent)
	assert.InDelta(t, 3.2, *info.Achievements["ACH_SECRET"].Percent, 0.001)

	_, err = os.Stat(filepath.Join(root, "440", "missing hidden achievements"))
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(cfg.Data.CatalogPath)
	assert.NoError(t, err)
}

// Two runs against identical upstream responses must leave identical bytes
// on disk, including the run that starts from the first run's persisted
// state instead of a blank slate.
func TestRunIsIdempotent(t *testing.T) {
	root := t.TempDir()
	cfg := testConfig(t, root)
	store := catalog.NewStore(root, logger.NewNopLogger())
	writeFile(t, filepath.Join(root, "440"), "achievements.json", `{"ACH_SECRET": {"earned": true, "earned_time": 100}}`)

	lister := &fakeLister{
		listings: map[string][]steam.SchemaAchievement{
			"440": {
				{APIName: "ACH_OPEN", DisplayName: "Open", Description: "Play a round."},
				{APIName: "ACH_SECRET", DisplayName: "Secret", Hidden: true},
			},
		},
	}
	fetcher := &fakeFetcher{
		percentages: map[string]map[string]float64{
			"440": {"ACH_OPEN": 80.5, "ACH_SECRET": 3.2},
		},
	}

	newPipeline := func() *Pipeline {
		return New(Options{
			Config:  cfg,
			Store:   store,
			Fetcher: fetcher,
			Lister:  lister,
			Logger:  logger.NewNopLogger(),
		})
	}

	_, err := newPipeline().Run([]string{"440"})
	require.NoError(t, err)
	firstInfo, err := os.ReadFile(filepath.Join(root, "440", "game-info.json"))
	require.NoError(t, err)
	firstCatalog, err := os.ReadFile(cfg.Data.CatalogPath)
	require.NoError(t, err)

	_, err = newPipeline().Run([]string{"440"})
	require.NoError(t, err)
	secondInfo, err := os.ReadFile(filepath.Join(root, "440", "game-info.json"))
	require.NoError(t, err)
	secondCatalog, err := os.ReadFile(cfg.Data.CatalogPath)
	require.NoError(t, err)

	assert.Equal(t, string(firstInfo), string(secondInfo))
	assert.Equal(t, string(firstCatalog), string(secondCatalog))
}

func TestRunListingFailurePreservesPersistedState(t *testing.T) {
	root := t.TempDir()
	cfg := testConfig(t, root)
	store := catalog.NewStore(root, logger.NewNopLogger())
	writeFile(t, filepath.Join(root, "440"), "achievements.json", `{"ACH_A": {"earned": true}}`)

	persisted := catalog.NewTitleInfo("440")
	persisted.Name = "Known Title"
	persisted.Achievements["ACH_A"] = steam.Achievement{Name: "Alpha", Description: "kept"}
	require.NoError(t, store.SaveTitleInfo(persisted))

	log := logger.NewTestLogger()
	p := New(Options{
		Config:  cfg,
		Store:   store,
		Fetcher: &fakeFetcher{},
		Lister:  &fakeLister{errs: map[string]error{"440": errors.New("listing down")}},
		Logger:  log,
	})

	summary, err := p.Run([]string{"440"})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
	assert.Zero(t, summary.Refreshed)
	assert.True(t, log.HasMessage("Title refresh failed"))

	info := store.LoadTitleInfo("440")
	assert.Equal(t, "Known Title", info.Name, "a failed refresh leaves persisted data alone")
	assert.Equal(t, "kept", info.Achievements["ACH_A"].Description)

	assert.Equal(t, 1, summary.CatalogSize, "the catalog still carries the title over")
}

func TestRunSkipMarker(t *testing.T) {
	root := t.TempDir()
	cfg := testConfig(t, root)
	store := catalog.NewStore(root, logger.NewNopLogger())
	writeFile(t, filepath.Join(root, "440"), "achievements.json", `{}`)
	writeFile(t, filepath.Join(root, "440"), "skip", "")
	writeFile(t, filepath.Join(root, "440"), "uplay.platform", "")

	persisted := catalog.NewTitleInfo("440")
	persisted.Name = "Frozen Title"
	require.NoError(t, store.SaveTitleInfo(persisted))

	p := New(Options{
		Config:  cfg,
		Store:   store,
		Fetcher: &fakeFetcher{},
		Lister:  &fakeLister{},
		Logger:  logger.NewNopLogger(),
	})

	summary, err := p.Run(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Skipped)
	assert.Zero(t, summary.Refreshed)

	info := store.LoadTitleInfo("440")
	assert.Equal(t, "Frozen Title", info.Name, "fetched fields stay as persisted")
	require.NotNil(t, info.Platform, "platform marker is still picked up")
	assert.Equal(t, "uplay", *info.Platform)
}

func TestRunWritesMissingMarker(t *testing.T) {
	root := t.TempDir()
	cfg := testConfig(t, root)
	store := catalog.NewStore(root, logger.NewNopLogger())
	writeFile(t, filepath.Join(root, "440"), "achievements.json", `{}`)

	lister := &fakeLister{
		listings: map[string][]steam.SchemaAchievement{
			"440": {
				{APIName: "ACH_B", DisplayName: "Bravo", Hidden: true},
				{APIName: "ACH_A", DisplayName: "Alpha", Hidden: true},
			},
		},
	}

	p := New(Options{
		Config:   cfg,
		Store:    store,
		Fetcher:  &fakeFetcher{},
		Lister:   lister,
		Recovery: reconcile.NewRecoveryEngine(&fakeDonors{}, 32, 0, logger.NewNopLogger()),
		DonorIDs: []int64{1},
		Logger:   logger.NewNopLogger(),
	})

	summary, err := p.Run([]string{"440"})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.MissingTotal)

	data, err := os.ReadFile(filepath.Join(root, "440", "missing hidden achievements"))
	require.NoError(t, err)
	assert.Equal(t, "ACH_B\nACH_A\n", string(data), "marker keeps listing order")
}

func TestRunTitleWithoutUnlocksStaysOutOfCatalog(t *testing.T) {
	root := t.TempDir()
	cfg := testConfig(t, root)
	store := catalog.NewStore(root, logger.NewNopLogger())
	require.NoError(t, os.MkdirAll(filepath.Join(root, "440"), 0755))

	lister := &fakeLister{
		listings: map[string][]steam.SchemaAchievement{
			"440": {{APIName: "ACH_A", DisplayName: "Alpha", Description: "ok"}},
		},
	}

	p := New(Options{
		Config:  cfg,
		Store:   store,
		Fetcher: &fakeFetcher{},
		Lister:  lister,
		Logger:  logger.NewNopLogger(),
	})

	summary, err := p.Run([]string{"440"})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Refreshed)
	assert.Zero(t, summary.CatalogSize)

	info := store.LoadTitleInfo("440")
	assert.Equal(t, "ok", info.Achievements["ACH_A"].Description, "merged data is still persisted")
}
