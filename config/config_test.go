package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// Point at a nonexistent criteria file so the built-in lists apply.
	t.Setenv("CRITERIA_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg := Load()

	if cfg.IMAPServer != "imapmail.libero.it:993" {
		t.Errorf("IMAPServer = %q", cfg.IMAPServer)
	}
	if cfg.MinArea != 60 || cfg.MaxArea != 105 || cfg.MinPricePerArea != 1700 {
		t.Errorf("area/price defaults: %v / %v / %v", cfg.MinArea, cfg.MaxArea, cfg.MinPricePerArea)
	}
	if cfg.MaxListingAge != 45*24*time.Hour {
		t.Errorf("MaxListingAge = %v", cfg.MaxListingAge)
	}
	if cfg.PriceWeight != 0.6 || cfg.RecencyWeight != 0.4 || cfg.SimilaritySequence != 5 {
		t.Errorf("scoring defaults: %v / %v / %d", cfg.PriceWeight, cfg.RecencyWeight, cfg.SimilaritySequence)
	}
	if cfg.Mode != ModeOverwrite || cfg.StorageBackend != BackendJSON {
		t.Errorf("mode/backend defaults: %q / %q", cfg.Mode, cfg.StorageBackend)
	}
	if len(cfg.Senders) != 3 || len(cfg.BlockedKeywords) != 12 {
		t.Errorf("built-in criteria: %d senders, %d blocked keywords", len(cfg.Senders), len(cfg.BlockedKeywords))
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CRITERIA_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("MIN_AREA", "50")
	t.Setenv("MAX_LISTING_AGE_DAYS", "30")
	t.Setenv("SCRAPE_MODE", "accumulate")
	t.Setenv("STORAGE_BACKEND", "postgres")

	cfg := Load()

	if cfg.MinArea != 50 {
		t.Errorf("MIN_AREA override: %v", cfg.MinArea)
	}
	if cfg.MaxListingAge != 30*24*time.Hour {
		t.Errorf("MAX_LISTING_AGE_DAYS override: %v", cfg.MaxListingAge)
	}
	if cfg.Mode != ModeAccumulate || cfg.StorageBackend != BackendPostgres {
		t.Errorf("mode/backend overrides: %q / %q", cfg.Mode, cfg.StorageBackend)
	}
}

func TestLoadInvalidModeFallsBack(t *testing.T) {
	t.Setenv("CRITERIA_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("SCRAPE_MODE", "append")
	t.Setenv("STORAGE_BACKEND", "sqlite")

	cfg := Load()

	if cfg.Mode != ModeOverwrite {
		t.Errorf("unknown mode should fall back to overwrite, got %q", cfg.Mode)
	}
	if cfg.StorageBackend != BackendJSON {
		t.Errorf("unknown backend should fall back to json, got %q", cfg.StorageBackend)
	}
}

func TestLoadCriteriaFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "criteria.yaml")
	content := "senders:\n" +
		"  - alerts@example.org\n" +
		"blocked_keywords:\n" +
		"  - cantina\n" +
		"  - rustico\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write criteria file: %v", err)
	}
	t.Setenv("CRITERIA_PATH", path)

	cfg := Load()

	if len(cfg.Senders) != 1 || cfg.Senders[0] != "alerts@example.org" {
		t.Errorf("Senders = %v", cfg.Senders)
	}
	if len(cfg.BlockedKeywords) != 2 || cfg.BlockedKeywords[0] != "cantina" {
		t.Errorf("BlockedKeywords = %v", cfg.BlockedKeywords)
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		PostgresHost:     "db.internal",
		PostgresPort:     "5433",
		PostgresUser:     "estate",
		PostgresPassword: "secret",
		PostgresDB:       "listings",
		PostgresSSLMode:  "require",
	}

	want := "host=db.internal port=5433 user=estate password=secret dbname=listings sslmode=require"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN()\n got %q\nwant %q", got, want)
	}
}
