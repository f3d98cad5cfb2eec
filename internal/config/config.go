// Package config loads server configuration from a YAML file, overlaid with
// environment variables read once at startup.
package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Sim      SimConfig      `yaml:"sim"`
	LLM      LLMConfig      `yaml:"llm"`
	Admin    AdminConfig    `yaml:"-"`
	Database DatabaseConfig `yaml:"database"`
	Dev      DevConfig      `yaml:"dev"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// SimConfig holds tick-loop and world sizing defaults.
type SimConfig struct {
	TickRate      time.Duration `yaml:"tick_rate"`
	IdleInterval  int           `yaml:"idle_interval"`  // ticks between autonomous phases
	ReactDeadline time.Duration `yaml:"react_deadline"` // per-NPC dispatch deadline
	WorldWidth    float64       `yaml:"world_width"`
	WorldHeight   float64       `yaml:"world_height"`
	EventLogCap   int           `yaml:"event_log_cap"` // WorldState retained event window
	SnapshotCap   int           `yaml:"snapshot_cap"`  // player-visible event window
	FeedCap       int           `yaml:"feed_cap"`      // not read: the feed size is fixed by feed.Cap (200)
}

// LLMConfig holds defaults applied to AI workers registered without an
// explicit timeout (API keys always come from the registration request,
// never from this file).
type LLMConfig struct {
	DefaultTimeout time.Duration `yaml:"default_timeout"`
}

// AdminConfig is populated from the environment only, never from YAML.
type AdminConfig struct {
	Token string
}

// DatabaseConfig holds optional persistence/cache connection strings.
type DatabaseConfig struct {
	PostgresURL string `yaml:"postgres_url"`
	RedisURL    string `yaml:"redis_url"`
}

// DevConfig toggles development conveniences.
type DevConfig struct {
	Enabled bool `yaml:"enabled"`
	MockLLM bool `yaml:"mock_llm"`
}

// Load reads and parses a YAML config file, then overlays environment
// variables. On read or parse failure it returns the error so the caller
// can log it and fall back to Default(), the way cmd/server/main.go does.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyEnv(&cfg)
	return &cfg, nil
}

// Default returns the built-in configuration, with environment overlays
// applied the same way Load does.
func Default() *Config {
	cfg := &Config{
		Server: ServerConfig{Port: 8080, Host: "0.0.0.0"},
		Sim: SimConfig{
			TickRate:      time.Second,
			IdleInterval:  30,
			ReactDeadline: 8 * time.Second,
			WorldWidth:    400,
			WorldHeight:   300,
			EventLogCap:   200,
			SnapshotCap:   10,
			FeedCap:       200,
		},
		LLM:      LLMConfig{DefaultTimeout: 8 * time.Second},
		Database: DatabaseConfig{PostgresURL: "", RedisURL: ""},
		Dev:      DevConfig{Enabled: false},
	}
	applyEnv(cfg)
	return cfg
}

// applyEnv overlays ADMIN_TOKEN and TICK_RATE from the environment, the way
// the teacher overlays GEMINI_API_KEY onto cfg.LLM.APIKey after unmarshal.
func applyEnv(cfg *Config) {
	cfg.Admin.Token = "dev-token"
	if tok := os.Getenv("ADMIN_TOKEN"); tok != "" {
		cfg.Admin.Token = tok
	}

	if raw := os.Getenv("TICK_RATE"); raw != "" {
		if secs, err := strconv.ParseFloat(raw, 64); err == nil && secs > 0 {
			cfg.Sim.TickRate = time.Duration(secs * float64(time.Second))
		}
	}
	if cfg.Sim.TickRate <= 0 {
		cfg.Sim.TickRate = time.Second
	}
}
