package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ListingStrategy selects how the authoritative achievement list is fetched.
// The choice is made once per run and never mixed within a run.
type ListingStrategy string

const (
	// StrategyAuto picks the Web API when a key is available, the browser otherwise
	StrategyAuto ListingStrategy = "auto"
	// StrategyAPI forces the credentialed schema endpoint
	StrategyAPI ListingStrategy = "api"
	// StrategyBrowser forces the headless-browser listing scrape
	StrategyBrowser ListingStrategy = "browser"
)

// Config holds all configuration options for the achievement pipeline
type Config struct {
	// Steam provider settings
	Steam SteamConfig `yaml:"steam" json:"steam"`

	// Rate limiting configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Fetch pacing and timeout settings
	Fetch FetchConfig `yaml:"fetch" json:"fetch"`

	// Durable state locations
	Data DataConfig `yaml:"data" json:"data"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// SteamConfig holds upstream provider configuration
type SteamConfig struct {
	APIKey    string          `yaml:"api_key" json:"api_key"`
	Strategy  ListingStrategy `yaml:"strategy" json:"strategy"`
	UserAgent string          `yaml:"user_agent" json:"user_agent"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
}

// FetchConfig holds per-call timeouts, pacing delays and the donor cap
type FetchConfig struct {
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
	ProfileTimeout time.Duration `yaml:"profile_timeout" json:"profile_timeout"`
	AdapterPause   time.Duration `yaml:"adapter_pause" json:"adapter_pause"`
	DonorPause     time.Duration `yaml:"donor_pause" json:"donor_pause"`
	DonorLimit     int           `yaml:"donor_limit" json:"donor_limit"`
	MaxRetries     int           `yaml:"max_retries" json:"max_retries"`
}

// DataConfig holds paths to the durable pipeline state
type DataConfig struct {
	// AppIDDir is the root of the per-title directories
	AppIDDir string `yaml:"appid_dir" json:"appid_dir"`
	// CatalogPath is the single published catalog artifact
	CatalogPath string `yaml:"catalog_path" json:"catalog_path"`
	// DonorPoolPath is the persisted ranked donor list
	DonorPoolPath string `yaml:"donor_pool_path" json:"donor_pool_path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Steam: SteamConfig{
			Strategy:  StrategyAuto,
			UserAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 40,
		},
		Fetch: FetchConfig{
			RequestTimeout: 10 * time.Second,
			ProfileTimeout: 15 * time.Second,
			AdapterPause:   1500 * time.Millisecond,
			DonorPause:     2 * time.Second,
			DonorLimit:     32,
			MaxRetries:     3,
		},
		Data: DataConfig{
			AppIDDir:      "AppID",
			CatalogPath:   "game-data.json",
			DonorPoolPath: "top_owners.json",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	// STEAM_API_KEY is the historical name; the prefixed form wins if both are set
	if key := os.Getenv("STEAM_API_KEY"); key != "" {
		c.Steam.APIKey = key
	}
	if key := os.Getenv("ACHVIEWER_API_KEY"); key != "" {
		c.Steam.APIKey = key
	}
	if strategy := os.Getenv("ACHVIEWER_STRATEGY"); strategy != "" {
		c.Steam.Strategy = ListingStrategy(strings.ToLower(strategy))
	}
	if userAgent := os.Getenv("ACHVIEWER_USER_AGENT"); userAgent != "" {
		c.Steam.UserAgent = userAgent
	}

	if rpm := os.Getenv("ACHVIEWER_REQUESTS_PER_MINUTE"); rpm != "" {
		var val int
		fmt.Sscanf(rpm, "%d", &val)
		if val > 0 {
			c.RateLimit.RequestsPerMinute = val
		}
	}

	if dir := os.Getenv("ACHVIEWER_APPID_DIR"); dir != "" {
		c.Data.AppIDDir = dir
	}
	if path := os.Getenv("ACHVIEWER_CATALOG_PATH"); path != "" {
		c.Data.CatalogPath = path
	}
	if path := os.Getenv("ACHVIEWER_DONOR_POOL_PATH"); path != "" {
		c.Data.DonorPoolPath = path
	}

	if logLevel := os.Getenv("ACHVIEWER_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".achievement-viewer.yaml",
		".achievement-viewer.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "achievement-viewer", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "achievement-viewer", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".achievement-viewer.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	switch c.Steam.Strategy {
	case StrategyAuto, StrategyAPI, StrategyBrowser:
	default:
		errs = append(errs, fmt.Errorf("invalid listing strategy: %q", c.Steam.Strategy))
	}
	if c.Steam.Strategy == StrategyAPI && c.Steam.APIKey == "" {
		errs = append(errs, errors.New("listing strategy \"api\" requires an API key"))
	}

	if c.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}

	if c.Fetch.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	if c.Fetch.ProfileTimeout <= 0 {
		errs = append(errs, errors.New("profile timeout must be positive"))
	}
	if c.Fetch.AdapterPause < 0 || c.Fetch.DonorPause < 0 {
		errs = append(errs, errors.New("pacing delays cannot be negative"))
	}
	if c.Fetch.DonorLimit <= 0 {
		errs = append(errs, errors.New("donor limit must be positive"))
	}
	if c.Fetch.DonorLimit > 32 {
		errs = append(errs, errors.New("donor limit cannot exceed 32"))
	}
	if c.Fetch.MaxRetries < 0 {
		errs = append(errs, errors.New("max retries cannot be negative"))
	}

	if c.Data.AppIDDir == "" {
		errs = append(errs, errors.New("appid directory is required"))
	}
	if c.Data.CatalogPath == "" {
		errs = append(errs, errors.New("catalog path is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if apiKey, ok := flags["api-key"].(string); ok && apiKey != "" {
		c.Steam.APIKey = apiKey
	}
	if strategy, ok := flags["strategy"].(string); ok && strategy != "" {
		c.Steam.Strategy = ListingStrategy(strings.ToLower(strategy))
	}
	if dir, ok := flags["data-dir"].(string); ok && dir != "" {
		c.Data.AppIDDir = dir
	}
	if path, ok := flags["catalog"].(string); ok && path != "" {
		c.Data.CatalogPath = path
	}
	if rpm, ok := flags["rate-limit"].(int); ok && rpm > 0 {
		c.RateLimit.RequestsPerMinute = rpm
	}
	if limit, ok := flags["donor-limit"].(int); ok && limit > 0 {
		c.Fetch.DonorLimit = limit
	}
	if noPacing, ok := flags["no-pacing"].(bool); ok && noPacing {
		c.Fetch.AdapterPause = 0
		c.Fetch.DonorPause = 0
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".achievement-viewer.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
