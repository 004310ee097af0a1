package config

import "time"

// ApplyDefaults fills in default values for any unset configuration fields.
// It only sets fields that are at their zero value, so explicit settings
// are never overwritten.
func ApplyDefaults(cfg *Config) {
	if cfg.Templates.Dir == "" {
		cfg.Templates.Dir = "./prompts"
	}
	if cfg.Templates.DebounceInterval == 0 {
		cfg.Templates.DebounceInterval = 100 * time.Millisecond
	}

	if cfg.Engine.MaxMacroDepth == 0 {
		cfg.Engine.MaxMacroDepth = 8
	}
	if cfg.Engine.MaxTemplateSize == 0 {
		cfg.Engine.MaxTemplateSize = 1 << 20
	}

	if cfg.History.Path == "" {
		cfg.History.Path = "./rosetta-history.db"
	}
	if cfg.History.AsyncBuffer == 0 {
		cfg.History.AsyncBuffer = 1000
	}
	if cfg.History.WriteTimeout == 0 {
		cfg.History.WriteTimeout = 5 * time.Second
	}
	if cfg.History.Retention.Days == 0 {
		cfg.History.Retention.Days = 90
	}
	if cfg.History.Retention.MaxRecords == 0 {
		cfg.History.Retention.MaxRecords = 100000
	}
	if cfg.History.Retention.Schedule == "" {
		cfg.History.Retention.Schedule = "0 3 * * *"
	}

	if cfg.Cache.Path == "" {
		cfg.Cache.Path = "./rosetta-cache.db"
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 24 * time.Hour
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = "info"
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = "json"
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = "rosetta"
	}
	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = "127.0.0.1:9105"
	}
}
