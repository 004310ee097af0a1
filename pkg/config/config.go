package config

import "time"

// Config is the root configuration structure for Rosetta. It contains all
// configuration sections for the template store, the rendering engine,
// render history, the render cache, and telemetry.
type Config struct {
	// Templates contains configuration for the file-based template store
	// including its root directory and hot reload.
	Templates TemplatesConfig `yaml:"templates"`

	// Engine contains rendering engine limits.
	Engine EngineConfig `yaml:"engine"`

	// History contains configuration for the render history store
	// including retention settings.
	History HistoryConfig `yaml:"history"`

	// Cache contains configuration for the rendered-prompt cache.
	Cache CacheConfig `yaml:"cache"`

	// Telemetry contains configuration for logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// TemplatesConfig contains configuration for the template store.
type TemplatesConfig struct {
	// Dir is the root directory of the template library, laid out
	// dir/<category>/<stage>/<name>.md.
	// Default: "./prompts"
	Dir string `yaml:"dir"`

	// Watch enables hot reload of templates on file changes.
	// Default: false
	Watch bool `yaml:"watch"`

	// DebounceInterval is how long the watcher waits after the last file
	// event before reloading, coalescing editor write bursts.
	// Default: 100ms
	DebounceInterval time.Duration `yaml:"debounce_interval"`
}

// EngineConfig contains rendering engine limits.
type EngineConfig struct {
	// MaxMacroDepth bounds nested macro expansion. Exceeding it fails the
	// render with a macro error.
	// Default: 8
	MaxMacroDepth int `yaml:"max_macro_depth"`

	// MaxTemplateSize is the maximum template size in bytes.
	// Default: 1048576 (1MB)
	MaxTemplateSize int `yaml:"max_template_size"`
}

// HistoryConfig contains configuration for the render history store.
type HistoryConfig struct {
	// Enabled controls whether render invocations are recorded.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Path is the SQLite database file for render history.
	// Default: "./rosetta-history.db"
	Path string `yaml:"path"`

	// AsyncBuffer is the size of the in-memory record queue. When the
	// queue is full, records are dropped rather than blocking renders.
	// Default: 1000
	AsyncBuffer int `yaml:"async_buffer"`

	// WriteTimeout bounds a single history write.
	// Default: 5s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// Retention contains pruning settings for old records.
	Retention RetentionConfig `yaml:"retention"`
}

// RetentionConfig contains history pruning settings.
type RetentionConfig struct {
	// Days is how long records are kept. Zero disables age-based pruning.
	// Default: 90
	Days int `yaml:"days"`

	// MaxRecords caps the total number of records. Zero disables the cap.
	// Default: 100000
	MaxRecords int64 `yaml:"max_records"`

	// Schedule is the cron expression for the prune job.
	// Default: "0 3 * * *" (daily at 03:00)
	Schedule string `yaml:"schedule"`
}

// CacheConfig contains configuration for the rendered-prompt cache.
type CacheConfig struct {
	// Enabled controls whether rendered prompts are cached.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Path is the SQLite database file for the cache.
	// Default: "./rosetta-cache.db"
	Path string `yaml:"path"`

	// TTL is how long a cached render stays valid.
	// Default: 24h
	TTL time.Duration `yaml:"ttl"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the log output format ("json", "text", "console").
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in logs.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether engine metrics are collected.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix.
	// Default: "rosetta"
	Namespace string `yaml:"namespace"`

	// ListenAddress is where long-running commands expose the /metrics
	// endpoint.
	// Default: "127.0.0.1:9105"
	ListenAddress string `yaml:"listen_address"`
}
