package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("BROWSE_PAGE_SIZE", "")
	t.Setenv("QDRANT_URL", "")

	cfg := Load()

	if cfg.Server.Port != "3000" {
		t.Fatalf("expected default port, got %q", cfg.Server.Port)
	}
	if cfg.Browse.PageSize != 24 {
		t.Fatalf("expected page size 24, got %d", cfg.Browse.PageSize)
	}
	if cfg.Browse.Debounce != 300*time.Millisecond {
		t.Fatalf("expected 300ms debounce, got %v", cfg.Browse.Debounce)
	}
	if cfg.Qdrant.Enabled() {
		t.Fatalf("expected vector index to be disabled without QDRANT_URL")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("WORKER_CONCURRENCY", "7")
	t.Setenv("LOG_JSON", "true")
	t.Setenv("WORKER_POLL_INTERVAL", "not-a-duration")
	t.Setenv("GEMINI_TEMPERATURE", "0.5")

	cfg := Load()

	if cfg.Worker.Concurrency != 7 {
		t.Fatalf("expected concurrency 7, got %d", cfg.Worker.Concurrency)
	}
	if !cfg.Log.JSON {
		t.Fatalf("expected json logging")
	}
	if cfg.Worker.PollInterval != 10*time.Second {
		t.Fatalf("expected invalid duration to fall back to default, got %v", cfg.Worker.PollInterval)
	}
	if cfg.Gemini.Temperature != 0.5 {
		t.Fatalf("expected temperature 0.5, got %v", cfg.Gemini.Temperature)
	}
}

func TestGetDatabaseDSN(t *testing.T) {
	t.Parallel()

	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: "5432", User: "u", Password: "p", DBName: "screener", SSLMode: "require",
	}}

	expect := "host=db port=5432 user=u password=p dbname=screener sslmode=require"
	if got := cfg.GetDatabaseDSN(); got != expect {
		t.Fatalf("expected %q, got %q", expect, got)
	}
}
