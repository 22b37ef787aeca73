// internal/config/validate.go
package config

import (
	"fmt"

	"golang.org/x/text/language"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	switch cfg.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q: must be debug, info, warn or error", cfg.Log.Level)
	}

	// ------------------------------------------------------------
	// BACKEND
	// ------------------------------------------------------------

	switch cfg.API.Store {
	case StoreMemory:
	case StoreMongo:
		if cfg.API.MongoURI == "" {
			return fmt.Errorf("api.mongo_uri is required for store %q", StoreMongo)
		}
		if cfg.API.MongoDatabase == "" {
			return fmt.Errorf("api.mongo_database is required for store %q", StoreMongo)
		}
	default:
		return fmt.Errorf("api.store %q: must be %q or %q", cfg.API.Store, StoreMemory, StoreMongo)
	}
	if cfg.API.StaleAfter < 0 {
		return fmt.Errorf("api.stale_after must not be negative")
	}

	// ------------------------------------------------------------
	// DASHBOARD
	// ------------------------------------------------------------

	if cfg.Dashboard.ScriptRoot == "" {
		return fmt.Errorf("dashboard.script_root is required")
	}
	if _, err := language.Parse(cfg.Dashboard.Locale); err != nil {
		return fmt.Errorf("dashboard.locale %q: %w", cfg.Dashboard.Locale, err)
	}
	if cfg.Dashboard.RefreshInterval < 0 {
		return fmt.Errorf("dashboard.refresh_interval must not be negative")
	}
	if cfg.Dashboard.RequestTimeout < 0 {
		return fmt.Errorf("dashboard.request_timeout must not be negative")
	}

	legends := map[string]bool{}
	for i, l := range cfg.Dashboard.Legends {
		if l == "" {
			return fmt.Errorf("dashboard.legends[%d] is empty", i)
		}
		if legends[l] {
			return fmt.Errorf("dashboard.legends: duplicate %q", l)
		}
		legends[l] = true
	}

	// Element ids carry the tracker key only, so one key maps to one player.
	seen := map[string]bool{}
	for i, t := range cfg.Dashboard.Trackers {
		if t.TrackerKey == "" {
			return fmt.Errorf("dashboard.trackers[%d].tracker_key is required", i)
		}
		if t.TrackerKey == LoadingTrackerKey {
			return fmt.Errorf("dashboard.trackers[%d].tracker_key %q is reserved", i, LoadingTrackerKey)
		}
		if seen[t.TrackerKey] {
			return fmt.Errorf("dashboard.trackers[%d]: duplicate tracker_key %q (player %d)", i, t.TrackerKey, t.PlayerUID)
		}
		seen[t.TrackerKey] = true
	}

	return nil
}

// LoadingTrackerKey is the tracker key of the loading placeholder row.
const LoadingTrackerKey = "loading"
