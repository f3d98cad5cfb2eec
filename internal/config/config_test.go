package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lucas/simhost/internal/config"
)

func TestDefault_AppliesBaselineValues(t *testing.T) {
	cfg := config.Default()
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Sim.TickRate != time.Second {
		t.Errorf("expected default tick rate 1s, got %v", cfg.Sim.TickRate)
	}
	if cfg.Admin.Token != "dev-token" {
		t.Errorf("expected default admin token, got %q", cfg.Admin.Token)
	}
}

func TestDefault_EnvOverridesAdminTokenAndTickRate(t *testing.T) {
	t.Setenv("ADMIN_TOKEN", "secret-123")
	t.Setenv("TICK_RATE", "2.5")

	cfg := config.Default()
	if cfg.Admin.Token != "secret-123" {
		t.Errorf("expected env-overridden admin token, got %q", cfg.Admin.Token)
	}
	if cfg.Sim.TickRate != 2500*time.Millisecond {
		t.Errorf("expected tick rate 2.5s, got %v", cfg.Sim.TickRate)
	}
}

func TestLoad_ParsesYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	contents := "server:\n  port: 9090\n  host: 127.0.0.1\nsim:\n  tick_rate: 1s\n  idle_interval: 15\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9090 || cfg.Server.Host != "127.0.0.1" {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Sim.IdleInterval != 15 {
		t.Errorf("expected idle_interval 15, got %d", cfg.Sim.IdleInterval)
	}
}

func TestLoad_MissingFileReturnsError(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error loading a missing config file")
	}
}
