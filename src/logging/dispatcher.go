// FILE: src/logging/dispatcher.go
package logging

import (
	"fmt"
	"log/slog"
	"time"

	"fanlog/src/internal/core"
	"fanlog/src/internal/format"
)

// renderEvent produces both renderings of an event
var renderEvent = format.Render

// Dispatcher is the per-category entry point. It is safe for concurrent use.
type Dispatcher struct {
	name     string
	provider *Provider

	// Async sinks whose loops were running when the dispatcher was created
	file bool
	pipe bool
}

// Name returns the category
func (d *Dispatcher) Name() string {
	if d == nil {
		return ""
	}
	return d.name
}

// Enabled reports whether an event at sev would be emitted. This is the
// only filtering point.
func (d *Dispatcher) Enabled(sev Severity) bool {
	if d == nil || d.provider == nil {
		return false
	}
	return sev.Valid() && sev != None && sev >= d.provider.settings.MinSeverity
}

// Log renders the event once and fans it out to every active sink in the
// order console, file, pipe, event log. Sink failures never reach the caller.
func (d *Dispatcher) Log(sev Severity, msg string, err error) {
	if !d.Enabled(sev) {
		return
	}

	ev := core.LogEvent{
		Time:     time.Now(),
		Severity: sev,
		Category: d.name,
		Message:  msg,
		Err:      err,
	}
	r := renderEvent(ev)

	for _, kind := range core.AllKinds {
		d.emit(kind, ev, r)
	}
}

// Logf formats only when sev is enabled
func (d *Dispatcher) Logf(sev Severity, format string, args ...any) {
	if !d.Enabled(sev) {
		return
	}
	d.Log(sev, fmt.Sprintf(format, args...), nil)
}

func (d *Dispatcher) emit(kind core.SinkKind, ev core.LogEvent, r core.Rendered) {
	p := d.provider
	defer func() {
		if rec := recover(); rec != nil {
			p.syncFailed(kind, fmt.Errorf("%s sink panicked: %v", kind, rec))
		}
	}()

	switch kind {
	case core.Console:
		if p.console == nil {
			return
		}
		if err := p.console.Write(ev, r); err != nil {
			p.syncFailed(kind, err)
			return
		}
		p.consoleStats.ok()

	case core.File:
		if d.file {
			p.subsystem.Enqueue(core.File, r.Plain+"\n")
		}

	case core.Pipe:
		if d.pipe {
			p.subsystem.Enqueue(core.Pipe, r.Select(p.settings.Colorize))
		}

	case core.EventLog:
		if p.eventLog == nil || p.closed.Load() {
			return
		}
		if err := p.eventLog.Write(ev, r); err != nil {
			p.syncFailed(kind, err)
			return
		}
		p.eventLogStats.ok()

	default:
		panic(fmt.Sprintf("logging: unhandled sink kind %s", kind))
	}
}

func (d *Dispatcher) Trace(msg string) {
	d.Log(Trace, msg, nil)
}

func (d *Dispatcher) Debug(msg string) {
	d.Log(Debug, msg, nil)
}

func (d *Dispatcher) Info(msg string) {
	d.Log(Information, msg, nil)
}

func (d *Dispatcher) Warn(msg string) {
	d.Log(Warning, msg, nil)
}

func (d *Dispatcher) Error(msg string, err error) {
	d.Log(Error, msg, err)
}

func (d *Dispatcher) Critical(msg string, err error) {
	d.Log(Critical, msg, err)
}

// Handler returns a slog.Handler writing through this dispatcher
func (d *Dispatcher) Handler() slog.Handler {
	return NewSlogHandler(d)
}
