package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvAppEnv, "dev")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if !cfg.App.IsDev() {
		t.Fatalf("expected dev env, got %q", cfg.App.Env)
	}
	if cfg.DB.Path != "data/inventory.db" {
		t.Fatalf("unexpected db path %q", cfg.DB.Path)
	}
	if cfg.DB.MaxOpenConns != 1 {
		t.Fatalf("expected single connection, got %d", cfg.DB.MaxOpenConns)
	}
	if cfg.Inventory.LowStockThreshold != 10 {
		t.Fatalf("expected low stock threshold 10, got %d", cfg.Inventory.LowStockThreshold)
	}
	if cfg.Inventory.DefaultMinStock != 0 {
		t.Fatalf("expected default min stock 0, got %d", cfg.Inventory.DefaultMinStock)
	}
	if cfg.Password.Iterations != 100000 || cfg.Password.KeyLen != 64 || cfg.Password.SaltLen != 32 {
		t.Fatalf("unexpected password params: %+v", cfg.Password)
	}
	if got := cfg.JWT.TTL(); got != 12*time.Hour {
		t.Fatalf("expected 12h ttl, got %v", got)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv(EnvDBPath, "/tmp/pos.db")
	t.Setenv(EnvLowStockDefault, "5")
	t.Setenv(EnvDBBusyTimeout, "2s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.Inventory.LowStockThreshold != 5 {
		t.Fatalf("expected threshold override, got %d", cfg.Inventory.LowStockThreshold)
	}
	dsn := cfg.DB.DSN()
	if !strings.HasPrefix(dsn, "file:/tmp/pos.db?") {
		t.Fatalf("unexpected dsn %q", dsn)
	}
	if !strings.Contains(dsn, "_foreign_keys=on") || !strings.Contains(dsn, "_busy_timeout=2000") {
		t.Fatalf("dsn missing pragmas: %q", dsn)
	}
}

func TestLoad_RejectsInvalid(t *testing.T) {
	t.Setenv(EnvLowStockDefault, "-1")
	if _, err := Load(); err == nil {
		t.Fatal("expected negative threshold to fail")
	}
}

func TestLoad_RejectsMultipleWriters(t *testing.T) {
	t.Setenv("STOCKPOS_DB_MAX_OPEN_CONNS", "4")
	if _, err := Load(); err == nil {
		t.Fatal("expected multi-connection pool to be rejected")
	}
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
}
