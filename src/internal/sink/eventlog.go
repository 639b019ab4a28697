// FILE: src/internal/sink/eventlog.go
package sink

import (
	"fmt"
	"strings"
	"sync"

	"fanlog/src/internal/core"
)

// EntryType is the OS event log entry classification
type EntryType uint8

const (
	EntryInformation EntryType = iota
	EntryWarning
	EntryError
)

func (t EntryType) String() string {
	switch t {
	case EntryInformation:
		return "information"
	case EntryWarning:
		return "warning"
	case EntryError:
		return "error"
	default:
		return fmt.Sprintf("EntryType(%d)", uint8(t))
	}
}

// EntryTypeFor maps a severity to an entry type. It panics on values outside
// the Severity enum.
func EntryTypeFor(sev core.Severity) EntryType {
	switch sev {
	case core.Trace, core.Debug, core.Information, core.None:
		return EntryInformation
	case core.Warning:
		return EntryWarning
	case core.Error, core.Critical:
		return EntryError
	default:
		panic(fmt.Sprintf("sink: no event log entry type for %s", sev))
	}
}

// eventWriter matches the x/sys/windows/svc/eventlog Log methods
type eventWriter interface {
	Info(eid uint32, msg string) error
	Warning(eid uint32, msg string) error
	Error(eid uint32, msg string) error
	Close() error
}

// EventLog writes plain renderings to the OS event log synchronously
type EventLog struct {
	mu     sync.Mutex
	source string
	writer eventWriter
}

// OpenEventLog opens source for writing. The source must already be
// registered with the OS; it is never created here.
func OpenEventLog(source string) (*EventLog, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("event log sink requires a source")
	}

	registered, err := sourceRegistered(source)
	if err != nil {
		return nil, err
	}
	if !registered {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, source)
	}

	w, err := openEventWriter(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open event log source %s: %w", source, err)
	}
	return newEventLog(source, w), nil
}

func newEventLog(source string, w eventWriter) *EventLog {
	return &EventLog{source: source, writer: w}
}

func (e *EventLog) Kind() core.SinkKind {
	return core.EventLog
}

// Source returns the event log source name
func (e *EventLog) Source() string {
	return e.source
}

func (e *EventLog) Write(ev core.LogEvent, r core.Rendered) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.writer == nil {
		return fmt.Errorf("event log source %s closed", e.source)
	}

	switch EntryTypeFor(ev.Severity) {
	case EntryWarning:
		return e.writer.Warning(eventID, r.Plain)
	case EntryError:
		return e.writer.Error(eventID, r.Plain)
	default:
		return e.writer.Info(eventID, r.Plain)
	}
}

func (e *EventLog) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.writer == nil {
		return nil
	}
	err := e.writer.Close()
	e.writer = nil
	return err
}

const eventID uint32 = 1000
