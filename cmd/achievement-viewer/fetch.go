package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lordzed/achievement-viewer/pkg/auth"
	"github.com/lordzed/achievement-viewer/pkg/browse"
	"github.com/lordzed/achievement-viewer/pkg/catalog"
	"github.com/lordzed/achievement-viewer/pkg/config"
	"github.com/lordzed/achievement-viewer/pkg/donors"
	"github.com/lordzed/achievement-viewer/pkg/logger"
	"github.com/lordzed/achievement-viewer/pkg/pipeline"
	"github.com/lordzed/achievement-viewer/pkg/ratelimit"
	"github.com/lordzed/achievement-viewer/pkg/reconcile"
	"github.com/lordzed/achievement-viewer/pkg/steam"
	"github.com/lordzed/achievement-viewer/pkg/ui"
)

var (
	// Fetch command flags
	dataDir     string
	catalogPath string
	strategy    string
	apiKeyFlag  string
	rateLimit   int
	donorLimit  int
	noPacing    bool
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch [appid...]",
	Short: "Refresh achievement data for tracked titles",
	Long: `Refresh achievement data for the given titles, or for every title
under the data directory when none are named.

For each title the store details, community XML feed, authoritative
achievement listing and global percentages are fetched and merged with
previously persisted data. Hidden achievements without descriptions are
recovered from public donor profiles. The run ends by rebuilding the
aggregate game-data.json catalog.

A Steam Web API key is optional. With a key the achievement listing comes
from the schema endpoint; without one a headless browser scrapes a public
listing page instead.`,
	Example: `  # Refresh every tracked title
  achievement-viewer fetch

  # Refresh two specific titles
  achievement-viewer fetch 440 620

  # Force the browser listing even when a key is stored
  achievement-viewer fetch --strategy browser

  # Refresh a data directory somewhere else, without pacing delays
  achievement-viewer fetch --data-dir ./data/AppID --no-pacing`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runFetch(cmd, args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVarP(&dataDir, "data-dir", "d", "", "root of the per-title data directories (default: AppID)")
	fetchCmd.Flags().StringVar(&catalogPath, "catalog", "", "aggregate catalog path (default: game-data.json)")
	fetchCmd.Flags().StringVar(&strategy, "strategy", "", "listing strategy: auto, api or browser")
	fetchCmd.Flags().StringVar(&apiKeyFlag, "api-key", "", "Steam Web API key (overrides stored and environment keys)")
	fetchCmd.Flags().IntVar(&rateLimit, "rate-limit", 40, "requests per minute")
	fetchCmd.Flags().IntVar(&donorLimit, "donor-limit", 32, "maximum donor profiles per title")
	fetchCmd.Flags().BoolVar(&noPacing, "no-pacing", false, "disable the courtesy delays between requests")
}

func runFetch(cmd *cobra.Command, args []string) {
	// Build flags map from command line
	flags := make(map[string]interface{})
	if dataDir != "" {
		flags["data-dir"] = dataDir
	}
	if catalogPath != "" {
		flags["catalog"] = catalogPath
	}
	if strategy != "" {
		flags["strategy"] = strategy
	}
	if apiKeyFlag != "" {
		flags["api-key"] = apiKeyFlag
	}
	if rateLimit != 40 {
		flags["rate-limit"] = rateLimit
	}
	if donorLimit != 32 {
		flags["donor-limit"] = donorLimit
	}
	if noPacing {
		flags["no-pacing"] = true
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	// Load configuration
	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	// Initialize logger
	logger.Initialize(&cfg.Logging)
	log := logger.GetLogger()
	log.WithField("version", version).Info("Achievement Viewer starting")

	// Fall back to the keyring when no key came from flags, env or file
	if cfg.Steam.APIKey == "" {
		if key, err := auth.NewManager().Retrieve(); err == nil {
			cfg.Steam.APIKey = key
			log.Info("Using stored API key")
		}
	}

	// Resolve the listing strategy once for the whole run
	effective := cfg.Steam.Strategy
	if effective == config.StrategyAuto {
		if cfg.Steam.APIKey != "" {
			effective = config.StrategyAPI
		} else {
			effective = config.StrategyBrowser
		}
	}
	if effective == config.StrategyAPI && cfg.Steam.APIKey == "" {
		ui.PrintError("Listing strategy \"api\" requires a Steam Web API key", "")
		ui.PrintInfo("Store one with", "achievement-viewer auth login")
		os.Exit(1)
	}
	ui.PrintInfo("Listing strategy", string(effective))

	client := steam.NewClient(steam.Options{
		APIKey:         cfg.Steam.APIKey,
		RequestTimeout: cfg.Fetch.RequestTimeout,
		ProfileTimeout: cfg.Fetch.ProfileTimeout,
		MaxRetries:     cfg.Fetch.MaxRetries,
		UserAgent:      cfg.Steam.UserAgent,
	}, log)

	var lister pipeline.Lister = client
	if effective == config.StrategyBrowser {
		browserLister := browse.NewLister(cfg.Fetch.ProfileTimeout*2, log)
		defer browserLister.Close()
		lister = browserLister
	}

	store := catalog.NewStore(cfg.Data.AppIDDir, log)
	donorIDs := donors.Load(cfg.Data.DonorPoolPath, log)
	recovery := reconcile.NewRecoveryEngine(client, cfg.Fetch.DonorLimit, cfg.Fetch.DonorPause, log)
	limiter := ratelimit.NewTokenBucket(cfg.RateLimit.RequestsPerMinute, time.Minute)

	p := pipeline.New(pipeline.Options{
		Config:   cfg,
		Store:    store,
		Fetcher:  client,
		Lister:   lister,
		Recovery: recovery,
		DonorIDs: donorIDs,
		Limiter:  limiter,
		Logger:   log,
	})

	if len(args) > 0 {
		ui.PrintInfo("Titles", strings.Join(args, ", "))
	} else {
		ui.PrintInfo("Titles", "all tracked")
	}
	ui.PrintHighlight("[REFRESH STARTED]")

	summary, err := p.Run(args)
	if err != nil {
		log.WithError(err).Error("Refresh run failed")
		ui.PrintError("REFRESH FAILED", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("[REFRESH COMPLETED]")
	ui.PrintInfo("Refreshed", strconv.Itoa(summary.Refreshed))
	if summary.Skipped > 0 {
		ui.PrintInfo("Skipped", strconv.Itoa(summary.Skipped))
	}
	if summary.Failed > 0 {
		ui.PrintWarning("Failed titles", strconv.Itoa(summary.Failed))
	}
	if summary.MissingTotal > 0 {
		ui.PrintWarning("Hidden descriptions still missing", strconv.Itoa(summary.MissingTotal))
	}
	ui.PrintInfo("Catalog size", strconv.Itoa(summary.CatalogSize))

	if summary.Failed > 0 {
		os.Exit(1)
	}
}
