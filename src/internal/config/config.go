// FILE: src/internal/config/config.go
package config

// Config is the fanlog CLI configuration
type Config struct {
	// Category used for lines read from stdin
	Category string `toml:"category"`

	// Severity for lines read from stdin
	Level string `toml:"level"`

	Quiet bool `toml:"quiet"`

	Output   OutputConfig   `toml:"output"`
	Pipe     PipeConfig     `toml:"pipe"`
	Delivery DeliveryConfig `toml:"delivery"`
	Status   StatusConfig   `toml:"status"`

	// Diagnostics logging of fanlog itself
	Logging *LogConfig `toml:"logging"`
}

type OutputConfig struct {
	// Comma separated: console, file, pipe, eventlog, all, all_non_privileged, none
	Sinks string `toml:"sinks"`

	MinSeverity string `toml:"min_severity"`

	// "auto", "always" or "never"
	Color string `toml:"color"`

	// Empty selects the path derived from the executable
	FilePath string `toml:"file_path"`

	EventLogSource string `toml:"event_log_source"`
}

type PipeConfig struct {
	Enabled bool   `toml:"enabled"`
	Name    string `toml:"name"`
	Server  string `toml:"server"`
}

type DeliveryConfig struct {
	MaxAttempts     int     `toml:"max_attempts"`
	RetryDelayMs    int64   `toml:"retry_delay_ms"`
	MaxRetryDelayMs int64   `toml:"max_retry_delay_ms"`
	Backoff         float64 `toml:"backoff"`
	DrainTimeoutMs  int64   `toml:"drain_timeout_ms"`
}

type StatusConfig struct {
	Enabled bool   `toml:"enabled"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
}

func defaults() *Config {
	return &Config{
		Category: "fanlog",
		Level:    "information",
		Output: OutputConfig{
			Sinks:       "console",
			MinSeverity: "trace",
			Color:       "auto",
		},
		Pipe: PipeConfig{
			Enabled: false,
			Name:    "fanlog",
			Server:  ".",
		},
		Delivery: DeliveryConfig{
			MaxAttempts:     3,
			RetryDelayMs:    25,
			MaxRetryDelayMs: 1000,
			Backoff:         2.0,
			DrainTimeoutMs:  5000,
		},
		Status: StatusConfig{
			Enabled: false,
			Host:    "127.0.0.1",
			Port:    9470,
		},
		Logging: DefaultLogConfig(),
	}
}

// Defaults returns a fresh copy of the built-in configuration
func Defaults() *Config {
	return defaults()
}
