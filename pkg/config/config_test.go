package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Search.DefaultLimit != 20 {
		t.Errorf("Search.DefaultLimit = %d, want 20", cfg.Search.DefaultLimit)
	}
	if cfg.Cache.FreshFor != 25*24*time.Hour {
		t.Errorf("Cache.FreshFor = %v, want 600h", cfg.Cache.FreshFor)
	}
	if cfg.Cache.ExpireAfter != 30*24*time.Hour {
		t.Errorf("Cache.ExpireAfter = %v, want 720h", cfg.Cache.ExpireAfter)
	}
	if cfg.Redis.TimestampKey != "search:index:built_at" {
		t.Errorf("Redis.TimestampKey = %q", cfg.Redis.TimestampKey)
	}
	if cfg.Kafka.Topics.ContentUpdates != "content-updates" {
		t.Errorf("Kafka.Topics.ContentUpdates = %q", cfg.Kafka.Topics.ContentUpdates)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9999
search:
  defaultLimit: 10
  maxResults: 50
cache:
  freshFor: 100h
  expireAfter: 200h
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Search.DefaultLimit != 10 || cfg.Search.MaxResults != 50 {
		t.Errorf("search limits = %+v", cfg.Search)
	}
	if cfg.Cache.FreshFor != 100*time.Hour {
		t.Errorf("Cache.FreshFor = %v, want 100h", cfg.Cache.FreshFor)
	}
	// Unset fields keep their defaults.
	if cfg.Postgres.Port != 5432 {
		t.Errorf("Postgres.Port = %d, want default 5432", cfg.Postgres.Port)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ML_SERVER_PORT", "7070")
	t.Setenv("ML_POSTGRES_HOST", "db.internal")
	t.Setenv("ML_CACHE_FRESH_FOR", "48h")
	t.Setenv("ML_LOGGING_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Postgres.Host != "db.internal" {
		t.Errorf("Postgres.Host = %q, want db.internal", cfg.Postgres.Host)
	}
	if cfg.Cache.FreshFor != 48*time.Hour {
		t.Errorf("Cache.FreshFor = %v, want 48h", cfg.Cache.FreshFor)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestValidateRejectsInvertedWindows(t *testing.T) {
	t.Setenv("ML_CACHE_FRESH_FOR", "720h")
	t.Setenv("ML_CACHE_EXPIRE_AFTER", "600h")
	if _, err := Load(""); err == nil {
		t.Error("expected validation error when expireAfter <= freshFor")
	}
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{
		Host: "localhost", Port: 5432, Database: "app",
		User: "app", Password: "secret", SSLMode: "disable",
	}
	want := "host=localhost port=5432 user=app password=secret dbname=app sslmode=disable"
	if got := p.DSN(); got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}
}
