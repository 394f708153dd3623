package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/docgate/docgate/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("expected default addr :8080, got %q", cfg.HTTPAddr)
	}
	if cfg.Env != "dev" {
		t.Errorf("expected default env=dev, got %q", cfg.Env)
	}
	if cfg.FetchDelayMs != 150 {
		t.Errorf("expected default fetch_delay_ms=150, got %d", cfg.FetchDelayMs)
	}
	if cfg.AuditRetentionDays != 0 {
		t.Errorf("expected retention disabled by default, got %d", cfg.AuditRetentionDays)
	}
	if !cfg.MetricsEnabled {
		t.Error("expected metrics enabled by default")
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docgate.yaml")
	data := []byte(`
http_addr: ":9090"
env: prod
db_path: /tmp/gate.db
fetch_delay_ms: 10
audit_retention_days: 30
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.HTTPAddr != ":9090" {
		t.Errorf("expected addr from file, got %q", cfg.HTTPAddr)
	}
	if cfg.Env != "prod" {
		t.Errorf("expected env=prod, got %q", cfg.Env)
	}
	if cfg.DBPath != "/tmp/gate.db" {
		t.Errorf("expected db_path from file, got %q", cfg.DBPath)
	}
	if cfg.FetchDelayMs != 10 {
		t.Errorf("expected fetch_delay_ms=10, got %d", cfg.FetchDelayMs)
	}
	if cfg.AuditRetentionDays != 30 {
		t.Errorf("expected audit_retention_days=30, got %d", cfg.AuditRetentionDays)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docgate.yaml")
	if err := os.WriteFile(path, []byte(`http_addr: ":9090"`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("DOCGATE_HTTP_ADDR", ":7070")
	t.Setenv("DOCGATE_ALLOW_ALL", "true")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.HTTPAddr != ":7070" {
		t.Errorf("env must win over file, got %q", cfg.HTTPAddr)
	}
	if !cfg.AllowAll {
		t.Error("expected allow_all=true from env")
	}
}

func TestLoad_UnknownEnvFallsBackToDev(t *testing.T) {
	t.Setenv("DOCGATE_ENV", "staging")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Env != "dev" {
		t.Errorf("unknown env should fall back to dev, got %q", cfg.Env)
	}
}

func TestLoad_MissingFile_Errors(t *testing.T) {
	if _, err := config.Load("/nonexistent/docgate.yaml"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
