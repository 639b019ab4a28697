// FILE: src/internal/config/settings.go
package config

import (
	"io"
	"strings"
	"time"

	"fanlog/src/internal/core"
	"fanlog/src/logging"

	"github.com/lixenwraith/log"
)

// UseColor resolves the color mode; "auto" follows whether stdout is a terminal
func (c *Config) UseColor(stdoutIsTerminal bool) bool {
	switch strings.ToLower(c.Output.Color) {
	case "always":
		return true
	case "never":
		return false
	default:
		return stdoutIsTerminal
	}
}

// StdinSeverity returns the severity for lines read from stdin
func (c *Config) StdinSeverity() core.Severity {
	sev, err := core.ParseSeverity(c.Level)
	if err != nil {
		return core.Information
	}
	return sev
}

// ToSettings converts a validated config into provider settings
func (c *Config) ToSettings(stdout io.Writer, stdoutIsTerminal bool, diagnostics *log.Logger) (logging.Settings, error) {
	s := logging.DefaultSettings()

	sinks, err := core.ParseSinkSet(c.Output.Sinks)
	if err != nil {
		return s, err
	}
	minSev, err := core.ParseSeverity(c.Output.MinSeverity)
	if err != nil {
		return s, err
	}

	s.Sinks = sinks
	s.MinSeverity = minSev
	s.Colorize = c.UseColor(stdoutIsTerminal)
	if c.Output.FilePath != "" {
		s.FilePath = c.Output.FilePath
	}
	s.EventLogSource = c.Output.EventLogSource
	if c.Pipe.Enabled {
		s.Pipe = &logging.PipeSettings{
			Enabled: true,
			Name:    c.Pipe.Name,
			Server:  c.Pipe.Server,
		}
	}
	if stdout != nil {
		s.Stdout = stdout
	}
	s.Delivery = logging.DeliverySettings{
		MaxAttempts:   c.Delivery.MaxAttempts,
		RetryDelay:    time.Duration(c.Delivery.RetryDelayMs) * time.Millisecond,
		MaxRetryDelay: time.Duration(c.Delivery.MaxRetryDelayMs) * time.Millisecond,
		Backoff:       c.Delivery.Backoff,
		DrainTimeout:  time.Duration(c.Delivery.DrainTimeoutMs) * time.Millisecond,
	}
	s.Diagnostics = diagnostics
	return s, nil
}
