// FILE: src/internal/config/validation.go
package config

import (
	"fmt"
	"strings"

	"fanlog/src/internal/core"

	lconfig "github.com/lixenwraith/config"
)

func (c *Config) validate() error {
	if err := lconfig.NonEmpty(c.Category); err != nil {
		return fmt.Errorf("category: %w", err)
	}

	if _, err := core.ParseSeverity(c.Level); err != nil {
		return fmt.Errorf("level: %w", err)
	}

	sinks, err := core.ParseSinkSet(c.Output.Sinks)
	if err != nil {
		return fmt.Errorf("output.sinks: %w", err)
	}

	if _, err := core.ParseSeverity(c.Output.MinSeverity); err != nil {
		return fmt.Errorf("output.min_severity: %w", err)
	}

	switch strings.ToLower(c.Output.Color) {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("output.color must be 'auto', 'always' or 'never': %s", c.Output.Color)
	}

	if strings.Contains(c.Output.FilePath, "..") {
		return fmt.Errorf("output.file_path contains directory traversal")
	}

	if sinks.Has(core.Pipe) && c.Pipe.Enabled && strings.TrimSpace(c.Pipe.Name) == "" {
		return fmt.Errorf("pipe.name is required when the pipe sink is enabled")
	}

	if err := c.Delivery.validate(); err != nil {
		return fmt.Errorf("delivery: %w", err)
	}

	if c.Status.Enabled {
		if c.Status.Port < 1 || c.Status.Port > 65535 {
			return fmt.Errorf("invalid status port: %d", c.Status.Port)
		}
		switch c.Status.Host {
		case "", "0.0.0.0", "localhost":
		default:
			if err := lconfig.IPAddress(c.Status.Host); err != nil {
				return fmt.Errorf("status.host: %w", err)
			}
		}
	}

	if c.Logging == nil {
		c.Logging = DefaultLogConfig()
	}
	if err := validateLogConfig(c.Logging); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

func (d *DeliveryConfig) validate() error {
	if d.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be positive: %d", d.MaxAttempts)
	}
	if d.RetryDelayMs < 1 {
		return fmt.Errorf("retry_delay_ms must be positive: %d", d.RetryDelayMs)
	}
	if d.MaxRetryDelayMs < d.RetryDelayMs {
		return fmt.Errorf("max_retry_delay_ms (%d) is below retry_delay_ms (%d)", d.MaxRetryDelayMs, d.RetryDelayMs)
	}
	if d.Backoff < 1.0 {
		return fmt.Errorf("backoff must be at least 1.0: %g", d.Backoff)
	}
	if d.DrainTimeoutMs < 0 {
		return fmt.Errorf("drain_timeout_ms must not be negative: %d", d.DrainTimeoutMs)
	}
	return nil
}
