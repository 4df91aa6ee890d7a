package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	// Test default values
	if config.Steam.Strategy != StrategyAuto {
		t.Errorf("Expected default strategy to be auto, got %s", config.Steam.Strategy)
	}

	if config.RateLimit.RequestsPerMinute != 40 {
		t.Errorf("Expected default requests per minute to be 40, got %d", config.RateLimit.RequestsPerMinute)
	}

	if config.Fetch.DonorLimit != 32 {
		t.Errorf("Expected default donor limit to be 32, got %d", config.Fetch.DonorLimit)
	}

	if config.Data.AppIDDir != "AppID" {
		t.Errorf("Expected default data directory to be AppID, got %s", config.Data.AppIDDir)
	}

	if config.Data.CatalogPath != "game-data.json" {
		t.Errorf("Expected default catalog path to be game-data.json, got %s", config.Data.CatalogPath)
	}

	if err := config.Validate(); err != nil {
		t.Errorf("Expected default config to be valid, got %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	os.Setenv("STEAM_API_KEY", "legacy-key")
	os.Setenv("ACHVIEWER_STRATEGY", "browser")
	os.Setenv("ACHVIEWER_REQUESTS_PER_MINUTE", "25")
	os.Setenv("ACHVIEWER_APPID_DIR", "/tmp/test-appid")
	os.Setenv("ACHVIEWER_LOG_LEVEL", "debug")

	defer func() {
		os.Unsetenv("STEAM_API_KEY")
		os.Unsetenv("ACHVIEWER_STRATEGY")
		os.Unsetenv("ACHVIEWER_REQUESTS_PER_MINUTE")
		os.Unsetenv("ACHVIEWER_APPID_DIR")
		os.Unsetenv("ACHVIEWER_LOG_LEVEL")
	}()

	config := DefaultConfig()
	if err := config.LoadFromEnv(); err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}

	if config.Steam.APIKey != "legacy-key" {
		t.Errorf("Expected API key from STEAM_API_KEY, got %s", config.Steam.APIKey)
	}
	if config.Steam.Strategy != StrategyBrowser {
		t.Errorf("Expected browser strategy, got %s", config.Steam.Strategy)
	}
	if config.RateLimit.RequestsPerMinute != 25 {
		t.Errorf("Expected 25 requests per minute, got %d", config.RateLimit.RequestsPerMinute)
	}
	if config.Data.AppIDDir != "/tmp/test-appid" {
		t.Errorf("Expected /tmp/test-appid, got %s", config.Data.AppIDDir)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("Expected debug log level, got %s", config.Logging.Level)
	}
}

func TestPrefixedKeyWinsOverLegacy(t *testing.T) {
	os.Setenv("STEAM_API_KEY", "legacy-key")
	os.Setenv("ACHVIEWER_API_KEY", "prefixed-key")
	defer func() {
		os.Unsetenv("STEAM_API_KEY")
		os.Unsetenv("ACHVIEWER_API_KEY")
	}()

	config := DefaultConfig()
	if err := config.LoadFromEnv(); err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}

	if config.Steam.APIKey != "prefixed-key" {
		t.Errorf("Expected the prefixed variable to win, got %s", config.Steam.APIKey)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
steam:
  strategy: "api"
  api_key: "file-key"
rate_limit:
  requests_per_minute: 10
fetch:
  request_timeout: 20s
  donor_limit: 5
data:
  appid_dir: "./data/AppID"
logging:
  level: "warn"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	config := DefaultConfig()
	if err := config.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if config.Steam.Strategy != StrategyAPI {
		t.Errorf("Expected api strategy, got %s", config.Steam.Strategy)
	}
	if config.Steam.APIKey != "file-key" {
		t.Errorf("Expected file-key, got %s", config.Steam.APIKey)
	}
	if config.RateLimit.RequestsPerMinute != 10 {
		t.Errorf("Expected 10 requests per minute, got %d", config.RateLimit.RequestsPerMinute)
	}
	if config.Fetch.RequestTimeout != 20*time.Second {
		t.Errorf("Expected 20s request timeout, got %v", config.Fetch.RequestTimeout)
	}
	if config.Fetch.DonorLimit != 5 {
		t.Errorf("Expected donor limit 5, got %d", config.Fetch.DonorLimit)
	}
	// Unset values keep defaults
	if config.Data.CatalogPath != "game-data.json" {
		t.Errorf("Expected default catalog path to survive, got %s", config.Data.CatalogPath)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"api strategy without key", func(c *Config) { c.Steam.Strategy = StrategyAPI }, true},
		{"api strategy with key", func(c *Config) { c.Steam.Strategy = StrategyAPI; c.Steam.APIKey = "k" }, false},
		{"bad strategy", func(c *Config) { c.Steam.Strategy = "psychic" }, true},
		{"zero rate limit", func(c *Config) { c.RateLimit.RequestsPerMinute = 0 }, true},
		{"donor limit too high", func(c *Config) { c.Fetch.DonorLimit = 64 }, true},
		{"negative pause", func(c *Config) { c.Fetch.AdapterPause = -time.Second }, true},
		{"missing data dir", func(c *Config) { c.Data.AppIDDir = "" }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			config := DefaultConfig()
			test.mutate(config)
			err := config.Validate()
			if test.wantErr && err == nil {
				t.Error("Expected validation error, got nil")
			}
			if !test.wantErr && err != nil {
				t.Errorf("Expected valid config, got %v", err)
			}
		})
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	config := DefaultConfig()
	config.MergeCommandLineFlags(map[string]interface{}{
		"api-key":     "flag-key",
		"strategy":    "BROWSER",
		"data-dir":    "/data/AppID",
		"donor-limit": 8,
		"no-pacing":   true,
	})

	if config.Steam.APIKey != "flag-key" {
		t.Errorf("Expected flag-key, got %s", config.Steam.APIKey)
	}
	if config.Steam.Strategy != StrategyBrowser {
		t.Errorf("Expected browser strategy, got %s", config.Steam.Strategy)
	}
	if config.Data.AppIDDir != "/data/AppID" {
		t.Errorf("Expected /data/AppID, got %s", config.Data.AppIDDir)
	}
	if config.Fetch.DonorLimit != 8 {
		t.Errorf("Expected donor limit 8, got %d", config.Fetch.DonorLimit)
	}
	if config.Fetch.AdapterPause != 0 || config.Fetch.DonorPause != 0 {
		t.Error("Expected no-pacing to zero both pauses")
	}
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "saved.yaml")

	original := DefaultConfig()
	original.Steam.Strategy = StrategyBrowser
	original.RateLimit.RequestsPerMinute = 7

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded := DefaultConfig()
	if err := reloaded.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if reloaded.Steam.Strategy != StrategyBrowser {
		t.Errorf("Expected browser strategy after reload, got %s", reloaded.Steam.Strategy)
	}
	if reloaded.RateLimit.RequestsPerMinute != 7 {
		t.Errorf("Expected 7 requests per minute after reload, got %d", reloaded.RateLimit.RequestsPerMinute)
	}
}
