// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Log       LogConfig       `yaml:"log"`
	API       APIConfig       `yaml:"api"`
	Dashboard DashboardConfig `yaml:"dashboard"`
}

// ---- LOG ----

type LogConfig struct {
	Level       string `yaml:"level"` // debug | info | warn | error
	Development bool   `yaml:"development"`
}

// ---- BACKEND ----

type APIConfig struct {
	Listen        string        `yaml:"listen"`
	Store         string        `yaml:"store"` // memory | mongo
	MongoURI      string        `yaml:"mongo_uri"`
	MongoDatabase string        `yaml:"mongo_database"`
	StaleAfter    time.Duration `yaml:"stale_after"`
}

// ---- DASHBOARD ----

type DashboardConfig struct {
	Listen          string          `yaml:"listen"`
	Title           string          `yaml:"title"`
	ScriptRoot      string          `yaml:"script_root"`
	Locale          string          `yaml:"locale"`
	RefreshInterval time.Duration   `yaml:"refresh_interval"`
	RequestTimeout  time.Duration   `yaml:"request_timeout"`
	Legends         []string        `yaml:"legends"`
	Trackers        []TrackerConfig `yaml:"trackers"`
}

type TrackerConfig struct {
	PlayerUID  int64  `yaml:"player_uid"`
	TrackerKey string `yaml:"tracker_key"`
}

// Store backends.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		API: APIConfig{
			Listen:        ":8080",
			Store:         StoreMemory,
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "apex_legends",
			StaleAfter:    24 * time.Hour,
		},
		Dashboard: DashboardConfig{
			Listen:          ":8081",
			Title:           "Tracker Details",
			ScriptRoot:      "http://localhost:8080",
			Locale:          "en-US",
			RefreshInterval: 30 * time.Second,
			RequestTimeout:  8 * time.Second,
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// ApplyEnv overrides file values from the environment.
// PORT wins over API_PORT / DASHBOARD_PORT for whichever binary reads it.
func ApplyEnv(cfg *Config) {
	if p := getenv("API_PORT", ""); p != "" {
		cfg.API.Listen = ":" + p
	}
	if p := getenv("DASHBOARD_PORT", ""); p != "" {
		cfg.Dashboard.Listen = ":" + p
	}
	cfg.Dashboard.ScriptRoot = getenv("SCRIPT_ROOT", cfg.Dashboard.ScriptRoot)
	cfg.API.MongoURI = getenv("MONGO_URI", cfg.API.MongoURI)
	cfg.API.Store = getenv("TRACKER_STORE", cfg.API.Store)
	cfg.Log.Level = getenv("LOG_LEVEL", cfg.Log.Level)
}

// Port returns ":$PORT" when PORT is set, else def.
func Port(def string) string {
	if p := os.Getenv("PORT"); p != "" {
		return ":" + p
	}
	return def
}
