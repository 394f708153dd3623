package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPAddr string `yaml:"http_addr"`

	// DB
	Env    string `yaml:"env"`     // "dev" | "prod"
	DBPath string `yaml:"db_path"` // e.g. "./data/docgate.db"

	// Simulated backing-store latency, per operation.
	FetchDelayMs int `yaml:"fetch_delay_ms"`

	// Policy
	AllowAll bool `yaml:"allow_all"` // dev escape hatch: grant everything

	// Metrics
	MetricsEnabled bool `yaml:"metrics_enabled"`

	// Audit retention
	AuditRetentionDays int `yaml:"audit_retention_days"` // 0 = keep forever
	PruneIntervalHours int `yaml:"prune_interval_hours"` // how often the pruner runs (default 6)
}

func defaults() Config {
	return Config{
		HTTPAddr:           ":8080",
		Env:                "dev",
		DBPath:             "./data/docgate.db",
		FetchDelayMs:       150,
		MetricsEnabled:     true,
		AuditRetentionDays: 0,
		PruneIntervalHours: 6,
	}
}

// Load builds the configuration in three layers: defaults, then the optional
// YAML file at path, then DOCGATE_* environment overrides.  Environment
// variables always win.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %q: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if cfg.Env != "dev" && cfg.Env != "prod" {
		// fail-soft: treat unknown as dev
		cfg.Env = "dev"
	}
	return cfg, nil
}

// FromEnv is Load without a config file.
func FromEnv() Config {
	cfg, _ := Load("")
	return cfg
}

func applyEnv(cfg *Config) {
	cfg.HTTPAddr = getenvDefault("DOCGATE_HTTP_ADDR", cfg.HTTPAddr)
	cfg.Env = strings.ToLower(getenvDefault("DOCGATE_ENV", cfg.Env))
	cfg.DBPath = getenvDefault("DOCGATE_DB_PATH", cfg.DBPath)

	cfg.FetchDelayMs = getenvInt("DOCGATE_FETCH_DELAY_MS", cfg.FetchDelayMs)

	if v := os.Getenv("DOCGATE_ALLOW_ALL"); v != "" {
		cfg.AllowAll = strings.EqualFold(v, "true") || v == "1"
	}
	if v := os.Getenv("DOCGATE_METRICS_ENABLED"); v != "" {
		cfg.MetricsEnabled = strings.EqualFold(v, "true") || v == "1"
	}

	cfg.AuditRetentionDays = getenvInt("DOCGATE_AUDIT_RETENTION_DAYS", cfg.AuditRetentionDays)
	cfg.PruneIntervalHours = getenvInt("DOCGATE_PRUNE_INTERVAL_HOURS", cfg.PruneIntervalHours)
}

func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
