package pipeline

import (
	"fmt"
	"time"

	"github.com/lordzed/achievement-viewer/pkg/catalog"
	"github.com/lordzed/achievement-viewer/pkg/config"
	"github.com/lordzed/achievement-viewer/pkg/logger"
	"github.com/lordzed/achievement-viewer/pkg/ratelimit"
	"github.com/lordzed/achievement-viewer/pkg/reconcile"
	"github.com/lordzed/achievement-viewer/pkg/steam"
)

// Lister produces the authoritative achievement set for a title. Both the
// Web API schema adapter and the headless-browser scraper satisfy it.
type Lister interface {
	ListAchievements(appID string) ([]steam.SchemaAchievement, error)
}

// Fetcher covers the best-effort per-title adapters.
type Fetcher interface {
	FetchStoreDetails(appID string) (*steam.GameDetails, error)
	FetchXMLSupplement(appID string) (map[string]steam.Achievement, error)
	FetchGlobalPercentages(appID string) (map[string]float64, error)
}

// Pipeline refreshes titles and rebuilds the aggregate catalog.
type Pipeline struct {
	cfg      *config.Config
	store    *catalog.Store
	fetcher  Fetcher
	lister   Lister
	recovery *reconcile.RecoveryEngine
	donorIDs []int64
	limiter  ratelimit.Limiter
	logger   logger.Logger
	sleep    func(time.Duration)
}

// Options wires a Pipeline together.
type Options struct {
	Config   *config.Config
	Store    *catalog.Store
	Fetcher  Fetcher
	Lister   Lister
	Recovery *reconcile.RecoveryEngine
	DonorIDs []int64
	Limiter  ratelimit.Limiter
	Logger   logger.Logger
}

// New creates a Pipeline.
func New(opts Options) *Pipeline {
	log := opts.Logger
	if log == nil {
		log = logger.GetLogger()
	}

	return &Pipeline{
		cfg:      opts.Config,
		store:    opts.Store,
		fetcher:  opts.Fetcher,
		lister:   opts.Lister,
		recovery: opts.Recovery,
		donorIDs: opts.DonorIDs,
		limiter:  opts.Limiter,
		logger:   log,
		sleep:    time.Sleep,
	}
}

// Summary describes what a run did.
type Summary struct {
	Refreshed    int
	Skipped      int
	Failed       int
	CatalogSize  int
	MissingTotal int
}

// Run refreshes the given titles and rebuilds the catalog. An empty title
// list means every title under the data root. Per-title failures are
// recorded in the summary; only catalog assembly errors abort the run.
func (p *Pipeline) Run(titleIDs []string) (*Summary, error) {
	if len(titleIDs) == 0 {
		all, err := p.store.ListTitleIDs()
		if err != nil {
			return nil, err
		}
		titleIDs = all
	}

	summary := &Summary{}
	updated := make(map[string]catalog.Entry)

	for _, appID := range titleIDs {
		if p.store.HasSkipMarker(appID) {
			p.logger.WithField("appid", appID).Info("Skip marker present, not fetching")
			p.refreshAuxiliary(appID)
			summary.Skipped++
			continue
		}

		entry, missing, err := p.refreshTitle(appID)
		if err != nil {
			p.logger.WithError(err).WithField("appid", appID).Error("Title refresh failed")
			summary.Failed++
			continue
		}

		summary.Refreshed++
		summary.MissingTotal += missing
		if entry != nil {
			updated[appID] = *entry
		}
	}

	entries, err := p.store.Rebuild(updated)
	if err != nil {
		return summary, fmt.Errorf("catalog rebuild failed: %w", err)
	}
	if err := p.store.WriteCatalog(p.cfg.Data.CatalogPath, entries); err != nil {
		return summary, err
	}
	summary.CatalogSize = len(entries)

	p.logger.InfoWithFields("Run complete", map[string]interface{}{
		"refreshed": summary.Refreshed,
		"skipped":   summary.Skipped,
		"failed":    summary.Failed,
		"catalog":   summary.CatalogSize,
		"missing":   summary.MissingTotal,
	})

	return summary, nil
}

// refreshAuxiliary re-reads the on-disk platform marker, blacklist and
// unlock file shape for a skipped title. Everything fetched from the network
// stays as the previous run left it.
func (p *Pipeline) refreshAuxiliary(appID string) {
	info := p.store.LoadTitleInfo(appID)
	info.UsesDB = p.store.UsesDBFile(appID)
	info.Platform = p.store.Platform(appID)
	info.Blacklist = p.store.Blacklist(appID)
	if err := p.store.SaveTitleInfo(info); err != nil {
		p.logger.WithError(err).WithField("appid", appID).Warn("Could not update skipped title")
	}
}

// refreshTitle rebuilds one title's merged document and returns its catalog
// entry, or nil when the title has no unlock records. The returned count is
// how many hidden achievements still lack descriptions.
func (p *Pipeline) refreshTitle(appID string) (*catalog.Entry, int, error) {
	log := p.logger.WithField("appid", appID)
	log.Info("Refreshing title")

	previous := p.store.LoadTitleInfo(appID)

	info := catalog.NewTitleInfo(appID)
	info.UsesDB = p.store.UsesDBFile(appID)
	info.Platform = p.store.Platform(appID)
	info.Blacklist = p.store.Blacklist(appID)

	p.throttle()
	if details, err := p.fetcher.FetchStoreDetails(appID); err != nil {
		logger.LogFetch(appID, "store", false, err)
	} else {
		info.Name = details.Name
		info.Icon = details.Icon
		logger.LogFetch(appID, "store", true, nil)
	}
	p.pause()

	xmlSupplement := map[string]steam.Achievement{}
	p.throttle()
	if supp, err := p.fetcher.FetchXMLSupplement(appID); err != nil {
		logger.LogFetch(appID, "xml", false, err)
	} else {
		xmlSupplement = supp
		logger.LogFetch(appID, "xml", true, nil)
	}
	p.pause()

	// The authoritative listing is the one source that must succeed; on
	// failure the title keeps whatever an earlier run persisted.
	p.throttle()
	listing, err := p.lister.ListAchievements(appID)
	if err != nil {
		return nil, 0, fmt.Errorf("achievement listing unavailable: %w", err)
	}
	p.pause()

	result := reconcile.Merge(listing, xmlSupplement, previous.Achievements)
	log.WithField("count", len(result.Achievements)).Info("Merged achievement set")

	if len(result.Worklist) > 0 && p.recovery != nil {
		log.WithField("hidden", len(result.Worklist)).Info("Recovering hidden descriptions from donors")
		p.recovery.Recover(appID, &result, p.donorIDs)
	}

	p.throttle()
	if percentages, err := p.fetcher.FetchGlobalPercentages(appID); err != nil {
		logger.LogFetch(appID, "percentages", false, err)
	} else {
		reconcile.ApplyPercentages(result.Achievements, percentages)
		logger.LogFetch(appID, "percentages", true, nil)
	}
	p.pause()

	info.Achievements = result.Achievements

	stillMissing := missingHidden(result)
	if err := p.store.WriteMissingMarker(appID, stillMissing); err != nil {
		log.WithError(err).Warn("Could not update missing marker")
	}
	if len(stillMissing) > 0 {
		log.WithField("missing", len(stillMissing)).Warn("Hidden descriptions still missing")
	}

	if err := p.store.SaveTitleInfo(info); err != nil {
		return nil, 0, err
	}

	unlocks, source := p.store.LoadUnlocks(appID)
	if unlocks == nil {
		log.Warn("No unlock records, title stays out of the catalog")
		return nil, len(stillMissing), nil
	}
	log.WithField("source", source).Debug("Loaded unlock records")

	return &catalog.Entry{
		AppID:        appID,
		Info:         info,
		Achievements: unlocks,
	}, len(stillMissing), nil
}

// missingHidden lists the worklist entries whose descriptions recovery
// could not fill, keeping the worklist's original order so the marker file
// does not churn between runs.
func missingHidden(result reconcile.Result) []string {
	var missing []string
	for _, apiName := range result.Worklist {
		if a, ok := result.Achievements[apiName]; ok && a.Hidden && a.Description == "" {
			missing = append(missing, apiName)
		}
	}
	return missing
}

func (p *Pipeline) throttle() {
	if p.limiter != nil {
		p.limiter.Wait()
	}
}

func (p *Pipeline) pause() {
	if p.cfg.Fetch.AdapterPause > 0 {
		p.sleep(p.cfg.Fetch.AdapterPause)
	}
}
