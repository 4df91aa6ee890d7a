package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lordzed/achievement-viewer/pkg/config"
	"github.com/lordzed/achievement-viewer/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage Achievement Viewer configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (ACHVIEWER_*, STEAM_API_KEY)
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as
'.achievement-viewer.yaml' unless a different path is specified with the
--config flag.`,
	Run: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the current configuration including values from all sources.

The API key is masked for security.`,
	Run: runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate a configuration file for syntax errors and invalid values.

This command checks:
  - YAML syntax
  - Value types and ranges
  - Path accessibility`,
	Run: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	configPath := configFile
	if configPath == "" {
		configPath = ".achievement-viewer.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", configPath)
		os.Exit(1)
	}

	exampleConfig := `# Achievement Viewer Configuration File
#
# You can also use environment variables prefixed with ACHVIEWER_
# For example: ACHVIEWER_DATA_DIR, ACHVIEWER_STRATEGY
# The Steam API key can also be set through STEAM_API_KEY.

# Upstream provider settings
steam:
  # Steam Web API key (optional)
  # Without a key the achievement listing falls back to a headless
  # browser scrape. Prefer 'achievement-viewer auth login' over
  # putting the key in this file.
  api_key: ""

  # Listing strategy: auto, api or browser
  # auto picks api when a key is available, browser otherwise
  strategy: "auto"

  # User agent for profile and listing page requests
  user_agent: ""

# Rate limiting configuration
rate_limit:
  # Requests per minute across all endpoints
  requests_per_minute: 40

# Fetch pacing and timeouts
fetch:
  # Per-request timeout
  request_timeout: 10s

  # Timeout for donor profile pages
  profile_timeout: 15s

  # Courtesy delay between adapter calls for one title
  adapter_pause: 1.5s

  # Courtesy delay between donor profile fetches
  donor_pause: 2s

  # Maximum donor profiles consulted per title (at most 32)
  donor_limit: 32

  # Retry attempts for retryable failures
  max_retries: 3

# Durable state locations
data:
  # Root of the per-title directories
  appid_dir: "AppID"

  # Aggregate catalog artifact
  catalog_path: "game-data.json"

  # Ranked donor pool
  donor_pool_path: "top_owners.json"

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: "info"

  # Log file path (optional)
  # Leave empty to log to stderr only
  file: ""
`

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		ui.PrintError("Failed to create configuration file", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Adjust the file to your layout, or leave the defaults")
	fmt.Println("2. Run 'achievement-viewer config validate' to check it")
	fmt.Println("3. Refresh titles with 'achievement-viewer fetch'")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	// Mask the key for display
	displayCfg := *cfg
	if displayCfg.Steam.APIKey != "" {
		if len(displayCfg.Steam.APIKey) > 8 {
			displayCfg.Steam.APIKey = displayCfg.Steam.APIKey[:4] + "..." + displayCfg.Steam.APIKey[len(displayCfg.Steam.APIKey)-4:]
		} else {
			displayCfg.Steam.APIKey = "***"
		}
	}

	data, err := yaml.Marshal(&displayCfg)
	if err != nil {
		ui.PrintError("Failed to format configuration", err.Error())
		os.Exit(1)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))

	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (ACHVIEWER_*, STEAM_API_KEY)")
	if configFile != "" {
		fmt.Printf("3. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("3. Configuration file: (not specified)")
	}
	fmt.Println("4. Default values")
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	if configFile == "" {
		possiblePaths := []string{
			".achievement-viewer.yaml",
			".achievement-viewer.yml",
			"achievement-viewer.yaml",
			filepath.Join(os.Getenv("HOME"), ".achievement-viewer.yaml"),
			filepath.Join(os.Getenv("HOME"), ".config", "achievement-viewer", "config.yaml"),
		}

		for _, path := range possiblePaths {
			if _, err := os.Stat(path); err == nil {
				configFile = path
				break
			}
		}

		if configFile == "" {
			ui.PrintError("No configuration file found", "Specify a file with --config flag")
			os.Exit(1)
		}
	}

	ui.PrintInfo("Validating configuration", configFile)

	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Configuration validation failed", err.Error())
		os.Exit(1)
	}

	warnings := []string{}
	errors := []string{}

	if cfg.Steam.APIKey == "" {
		warnings = append(warnings, "no API key configured, the browser listing strategy will be used")
	}

	if _, err := os.Stat(cfg.Data.AppIDDir); err != nil {
		warnings = append(warnings, fmt.Sprintf("data directory %q does not exist yet", cfg.Data.AppIDDir))
	}

	if cfg.Logging.File != "" {
		dir := filepath.Dir(cfg.Logging.File)
		if err := os.MkdirAll(dir, 0755); err != nil {
			errors = append(errors, fmt.Sprintf("cannot create log directory: %v", err))
		}
	}

	if len(errors) > 0 {
		ui.PrintError("Configuration has errors:", "")
		for _, err := range errors {
			fmt.Printf("  - %s\n", err)
		}
		os.Exit(1)
	}

	if len(warnings) > 0 {
		ui.PrintWarning("Configuration warnings:", "")
		for _, warn := range warnings {
			fmt.Printf("  - %s\n", warn)
		}
		fmt.Println()
	}

	ui.PrintSuccess("Configuration is valid")

	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Data directory: %s\n", cfg.Data.AppIDDir)
	fmt.Printf("  Catalog: %s\n", cfg.Data.CatalogPath)
	fmt.Printf("  Strategy: %s\n", cfg.Steam.Strategy)
	fmt.Printf("  Rate limit: %d requests/minute\n", cfg.RateLimit.RequestsPerMinute)
	fmt.Printf("  Donor limit: %d profiles/title\n", cfg.Fetch.DonorLimit)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
}
