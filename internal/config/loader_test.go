package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/maxviazov/catalog-service/internal/config"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

const minimalYAML = `
server:
  port: 18080

postgres:
  host: 127.0.0.1
  port: 5432
  dbname: catalog_test

mongo:
  uri: mongodb://127.0.0.1:27017
  database: catalog_test

kafka:
  brokers:
    - 127.0.0.1:9092
  productTopic: catalog.products
  offerTopic: catalog.offers
`

func TestConfigLoad_FromYAMLAndEnv(t *testing.T) {
	path := writeTempConfig(t, minimalYAML)

	// Secrets come from ENV using the canonical APP_* names
	t.Setenv("APP_POSTGRES_USER", "testuser")
	t.Setenv("APP_POSTGRES_PASSWORD", "testpass")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 18080 {
		t.Fatalf("expected server.port 18080, got %d", cfg.Server.Port)
	}
	if cfg.Postgres.User != "testuser" || cfg.Postgres.Password != "testpass" {
		t.Fatalf("env overrides not applied: user=%q pass=%q", cfg.Postgres.User, cfg.Postgres.Password)
	}
	if cfg.Postgres.Host != "127.0.0.1" || cfg.Postgres.DBName != "catalog_test" {
		t.Fatalf("yaml values not loaded: %+v", cfg.Postgres)
	}
}

func TestConfigLoad_DefaultsApplied(t *testing.T) {
	path := writeTempConfig(t, minimalYAML)
	t.Setenv("APP_POSTGRES_USER", "u")
	t.Setenv("APP_POSTGRES_PASSWORD", "p")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Pagination.DefaultPageSize != 50 {
		t.Fatalf("expected default page size 50, got %d", cfg.Pagination.DefaultPageSize)
	}
	if cfg.Postgres.SSLMode != "disable" {
		t.Fatalf("expected default sslmode, got %q", cfg.Postgres.SSLMode)
	}
	if cfg.Kafka.ClientID != "catalog-service" {
		t.Fatalf("expected default kafka client id, got %q", cfg.Kafka.ClientID)
	}
}

func TestConfigLoad_MissingRequiredFails(t *testing.T) {
	yaml := `
server:
  port: 18080

postgres:
  host: localhost
`
	path := writeTempConfig(t, yaml)
	t.Setenv("APP_POSTGRES_USER", "")
	t.Setenv("APP_POSTGRES_PASSWORD", "")

	if _, err := config.Load(path); err == nil {
		t.Fatalf("expected validation error, got nil")
	}
}

func TestConfigLoad_MissingFileFails(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
