// FILE: src/logging/settings.go
package logging

import (
	"io"
	"os"
	"time"

	"fanlog/src/internal/core"
	"fanlog/src/internal/delivery"
	"fanlog/src/internal/sink"

	"github.com/lixenwraith/log"
)

// Severity is the importance of a log event
type Severity = core.Severity

const (
	Trace       = core.Trace
	Debug       = core.Debug
	Information = core.Information
	Warning     = core.Warning
	Error       = core.Error
	Critical    = core.Critical
	None        = core.None
)

// SinkSet selects the active sinks
type SinkSet = core.SinkSet

// SinkKind is one output destination
type SinkKind = core.SinkKind

const (
	Console  = core.Console
	File     = core.File
	EventLog = core.EventLog
	Pipe     = core.Pipe
)

const (
	NoSinks          = core.NoSinks
	AllNonPrivileged = core.AllNonPrivileged
	AllSinks         = core.AllSinks
)

// ParseSeverity and ParseSinkSet accept the names used in configuration files
var (
	ParseSeverity = core.ParseSeverity
	ParseSinkSet  = core.ParseSinkSet
	NewSinkSet    = core.NewSinkSet
)

// PipeSettings configures the named pipe sink
type PipeSettings struct {
	Enabled bool
	Name    string
	Server  string
}

// DeliverySettings bounds retries for the queued sinks
type DeliverySettings struct {
	MaxAttempts   int
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration
	Backoff       float64
	DrainTimeout  time.Duration
}

// Settings is copied at provider construction and not consulted afterwards
type Settings struct {
	Sinks          SinkSet
	FilePath       string
	Colorize       bool
	MinSeverity    Severity
	Pipe           *PipeSettings
	EventLogSource string

	// Console output, os.Stdout when nil
	Stdout io.Writer

	Delivery DeliverySettings

	// Diagnostics receives the backend's own messages. A nil logger is silent.
	Diagnostics *log.Logger
}

// DefaultSettings returns settings with every sink disabled
func DefaultSettings() Settings {
	return Settings{
		Sinks:       NoSinks,
		FilePath:    sink.DefaultFilePath(time.Now()),
		Colorize:    true,
		MinSeverity: Trace,
		Stdout:      os.Stdout,
		Delivery: DeliverySettings{
			MaxAttempts:   core.DefaultMaxAttempts,
			RetryDelay:    core.DefaultRetryDelay,
			MaxRetryDelay: core.DefaultMaxRetryDelay,
			Backoff:       core.DefaultBackoff,
			DrainTimeout:  core.DefaultDrainTimeout,
		},
	}
}

func (s Settings) clone() Settings {
	if s.Pipe != nil {
		p := *s.Pipe
		if p.Server == "" {
			p.Server = core.DefaultPipeServer
		}
		s.Pipe = &p
	}
	if s.Stdout == nil {
		s.Stdout = os.Stdout
	}
	if s.Diagnostics == nil {
		s.Diagnostics = log.NewLogger()
	}
	return s
}

// RetryPolicy converts the settings for the delivery subsystem
func (d DeliverySettings) RetryPolicy() delivery.RetryPolicy {
	return delivery.RetryPolicy{
		MaxAttempts:   d.MaxAttempts,
		RetryDelay:    d.RetryDelay,
		MaxRetryDelay: d.MaxRetryDelay,
		Backoff:       d.Backoff,
		DrainTimeout:  d.DrainTimeout,
	}
}

func (s Settings) pipeActive() bool {
	return s.Sinks.Has(Pipe) && s.Pipe != nil && s.Pipe.Enabled && s.Pipe.Name != ""
}
