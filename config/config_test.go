package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/HananelSabag/SpendWise-sub004/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load()

	if cfg.APIBaseURL != "http://localhost:8080/api/v1" {
		t.Errorf("unexpected default API URL: %q", cfg.APIBaseURL)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("expected 3 retries, got %d", cfg.MaxRetries)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("expected 5m cache TTL, got %v", cfg.CacheTTL)
	}
	if cfg.LargeFixedThreshold != 1000 || cfg.DailySmallThreshold != 10 {
		t.Errorf("unexpected classifier thresholds: %v / %v",
			cfg.LargeFixedThreshold, cfg.DailySmallThreshold)
	}
	if cfg.RegenCronSpec != "0 6 * * *" {
		t.Errorf("unexpected regeneration schedule: %q", cfg.RegenCronSpec)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SPENDWISE_API_URL", "https://api.example.com/v1")
	t.Setenv("MAX_RETRIES", "7")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("CLASSIFY_RETAIL_HIGH", "350.5")
	t.Setenv("TRACING_ENABLE", "true")

	cfg := config.Load()

	if cfg.APIBaseURL != "https://api.example.com/v1" {
		t.Errorf("API URL not overridden: %q", cfg.APIBaseURL)
	}
	if cfg.MaxRetries != 7 {
		t.Errorf("expected 7 retries, got %d", cfg.MaxRetries)
	}
	if cfg.CacheTTL != 90*time.Second {
		t.Errorf("expected 90s cache TTL, got %v", cfg.CacheTTL)
	}
	if cfg.RetailHigh != 350.5 {
		t.Errorf("expected retail high 350.5, got %v", cfg.RetailHigh)
	}
	if !cfg.TracingEnable {
		t.Error("expected tracing enabled")
	}
}

func TestLoad_MalformedEnvFallsBack(t *testing.T) {
	t.Setenv("MAX_RETRIES", "loads")
	t.Setenv("HTTP_TIMEOUT", "soon")

	cfg := config.Load()

	if cfg.MaxRetries != 3 {
		t.Errorf("malformed int must fall back to default, got %d", cfg.MaxRetries)
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Errorf("malformed duration must fall back to default, got %v", cfg.HTTPTimeout)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	contents := "# backend\n" +
		"DOTENV_TEST_URL=https://dotenv.example.com\n" +
		"DOTENV_TEST_QUOTED=\"secret value\"\n" +
		"DOTENV_TEST_PRESET=from-file\n" +
		"not a pair\n"
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("DOTENV_TEST_URL", "")
	t.Setenv("DOTENV_TEST_QUOTED", "")
	t.Setenv("DOTENV_TEST_PRESET", "from-env")

	if err := config.LoadDotEnv(path); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if got := os.Getenv("DOTENV_TEST_URL"); got != "https://dotenv.example.com" {
		t.Errorf("expected URL from file, got %q", got)
	}
	if got := os.Getenv("DOTENV_TEST_QUOTED"); got != "secret value" {
		t.Errorf("expected quotes stripped, got %q", got)
	}
	if got := os.Getenv("DOTENV_TEST_PRESET"); got != "from-env" {
		t.Errorf("existing environment must win over the file, got %q", got)
	}
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	if err := config.LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
