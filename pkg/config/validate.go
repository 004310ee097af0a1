package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

var (
	validLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validFormats = map[string]bool{"json": true, "text": true, "console": true}
)

// Validate checks the configuration for invalid values. It assumes defaults
// have already been applied.
func Validate(cfg *Config) error {
	if cfg.Templates.Dir == "" {
		return fmt.Errorf("templates.dir must not be empty")
	}
	if cfg.Templates.DebounceInterval < 0 {
		return fmt.Errorf("templates.debounce_interval must not be negative")
	}

	if cfg.Engine.MaxMacroDepth < 1 {
		return fmt.Errorf("engine.max_macro_depth must be at least 1, got %d", cfg.Engine.MaxMacroDepth)
	}
	if cfg.Engine.MaxTemplateSize < 1 {
		return fmt.Errorf("engine.max_template_size must be positive, got %d", cfg.Engine.MaxTemplateSize)
	}

	if cfg.History.Enabled {
		if cfg.History.Path == "" {
			return fmt.Errorf("history.path must not be empty when history is enabled")
		}
		if cfg.History.Retention.Days < 0 {
			return fmt.Errorf("history.retention.days must not be negative")
		}
		if cfg.History.Retention.MaxRecords < 0 {
			return fmt.Errorf("history.retention.max_records must not be negative")
		}
		if cfg.History.Retention.Schedule != "" {
			if _, err := cron.ParseStandard(cfg.History.Retention.Schedule); err != nil {
				return fmt.Errorf("history.retention.schedule is not a valid cron expression: %w", err)
			}
		}
	}

	if cfg.Cache.Enabled {
		if cfg.Cache.Path == "" {
			return fmt.Errorf("cache.path must not be empty when the cache is enabled")
		}
		if cfg.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive, got %s", cfg.Cache.TTL)
		}
	}

	if !validLevels[cfg.Telemetry.Logging.Level] {
		return fmt.Errorf("telemetry.logging.level must be one of debug, info, warn, error; got %q", cfg.Telemetry.Logging.Level)
	}
	if !validFormats[cfg.Telemetry.Logging.Format] {
		return fmt.Errorf("telemetry.logging.format must be one of json, text, console; got %q", cfg.Telemetry.Logging.Format)
	}

	return nil
}
