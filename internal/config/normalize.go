// internal/config/normalize.go
package config

import (
	"strings"
	"time"
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	// Routes are joined onto the script root, so drop trailing slashes.
	cfg.Dashboard.ScriptRoot = strings.TrimRight(cfg.Dashboard.ScriptRoot, "/")

	if cfg.Dashboard.RefreshInterval == 0 {
		cfg.Dashboard.RefreshInterval = 30 * time.Second
	}
	if cfg.Dashboard.RequestTimeout == 0 {
		cfg.Dashboard.RequestTimeout = 8 * time.Second
	}
	if cfg.Dashboard.Title == "" {
		cfg.Dashboard.Title = "Tracker Details"
	}
}
