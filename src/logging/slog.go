// FILE: src/logging/slog.go
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// SlogHandler adapts a Dispatcher to slog.Handler. Attributes are appended
// to the message as key=value text.
type SlogHandler struct {
	dispatcher *Dispatcher
	prefix     string // pre-rendered attrs from WithAttrs
	group      string
}

// NewSlogHandler creates a handler writing through d
func NewSlogHandler(d *Dispatcher) *SlogHandler {
	return &SlogHandler{dispatcher: d}
}

func (h *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.dispatcher.Enabled(severityFromSlog(level))
}

func (h *SlogHandler) Handle(_ context.Context, record slog.Record) error {
	sev := severityFromSlog(record.Level)
	if !h.dispatcher.Enabled(sev) {
		return nil
	}

	var b strings.Builder
	b.WriteString(record.Message)
	b.WriteString(h.prefix)

	var err error
	record.Attrs(func(a slog.Attr) bool {
		if e, ok := a.Value.Resolve().Any().(error); ok && err == nil && h.group == "" && (a.Key == "err" || a.Key == "error") {
			err = e
			return true
		}
		appendAttr(&b, h.group, a)
		return true
	})

	h.dispatcher.Log(sev, b.String(), err)
	return nil
}

func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	var b strings.Builder
	b.WriteString(h.prefix)
	for _, a := range attrs {
		appendAttr(&b, h.group, a)
	}
	return &SlogHandler{
		dispatcher: h.dispatcher,
		prefix:     b.String(),
		group:      h.group,
	}
}

func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	group := name
	if h.group != "" {
		group = h.group + "." + name
	}
	return &SlogHandler{
		dispatcher: h.dispatcher,
		prefix:     h.prefix,
		group:      group,
	}
}

func appendAttr(b *strings.Builder, group string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	key := a.Key
	if group != "" {
		key = group + "." + a.Key
	}

	if a.Value.Kind() == slog.KindGroup {
		inner := key
		if a.Key == "" {
			inner = group
		}
		for _, ga := range a.Value.Group() {
			appendAttr(b, inner, ga)
		}
		return
	}

	val := a.Value.String()
	if strings.ContainsAny(val, " \t\n\"=") {
		val = fmt.Sprintf("%q", val)
	}
	b.WriteByte(' ')
	b.WriteString(key)
	b.WriteByte('=')
	b.WriteString(val)
}

// severityFromSlog maps slog levels, which are open-ended integers, onto
// the severity scale
func severityFromSlog(level slog.Level) Severity {
	switch {
	case level >= slog.LevelError+4:
		return Critical
	case level >= slog.LevelError:
		return Error
	case level >= slog.LevelWarn:
		return Warning
	case level >= slog.LevelInfo:
		return Information
	case level >= slog.LevelDebug:
		return Debug
	default:
		return Trace
	}
}
