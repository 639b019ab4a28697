// FILE: src/logging/provider.go
package logging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"fanlog/src/internal/core"
	"fanlog/src/internal/delivery"
	"fanlog/src/internal/sink"

	"github.com/google/uuid"
	"github.com/lixenwraith/log"
	"golang.org/x/time/rate"
)

// SinkStats is a point-in-time view of one sink
type SinkStats = delivery.Stats

// Subsystem owns the queues and delivery loops shared by providers
type Subsystem = delivery.Subsystem

// NewSubsystem creates a delivery subsystem that several providers can share
func NewSubsystem(d DeliverySettings, logger *log.Logger) *Subsystem {
	return delivery.NewSubsystem(d.RetryPolicy(), logger)
}

// Option configures a Provider
type Option func(*Provider)

// WithSubsystem makes the provider use a shared subsystem. The provider does
// not close it on shutdown.
func WithSubsystem(s *Subsystem) Option {
	return func(p *Provider) {
		if s != nil {
			p.subsystem = s
			p.ownsSubsystem = false
		}
	}
}

// Provider creates dispatchers that share one set of sinks
type Provider struct {
	id        string
	settings  Settings
	logger    *log.Logger
	startTime time.Time

	subsystem     *delivery.Subsystem
	ownsSubsystem bool

	console  *sink.Console
	eventLog *sink.EventLog
	pipeCfg  sink.PipeConfig

	consoleStats  syncStats
	eventLogStats syncStats
	warn          *rate.Limiter

	mu          sync.Mutex
	dispatchers map[string]*Dispatcher
	order       []*Dispatcher

	closed       atomic.Bool
	shutdownOnce sync.Once
	shutdownErr  error
}

// Register builds default settings, applies configure and creates a provider.
// It returns nil when no sink is selected; a nil provider is safe to use.
func Register(configure func(*Settings)) *Provider {
	s := DefaultSettings()
	if configure != nil {
		configure(&s)
	}
	if s.Sinks.Empty() {
		return nil
	}
	return NewProvider(s)
}

// NewProvider creates a provider for settings
func NewProvider(settings Settings, opts ...Option) *Provider {
	s := settings.clone()

	p := &Provider{
		id:            uuid.NewString(),
		settings:      s,
		logger:        s.Diagnostics,
		startTime:     time.Now(),
		ownsSubsystem: true,
		warn:          rate.NewLimiter(rate.Every(5*time.Second), 3),
		dispatchers:   make(map[string]*Dispatcher),
	}
	p.consoleStats.init(core.Console)
	p.eventLogStats.init(core.EventLog)

	for _, opt := range opts {
		opt(p)
	}
	if p.subsystem == nil {
		p.subsystem = delivery.NewSubsystem(s.Delivery.RetryPolicy(), p.logger)
	}

	if s.Sinks.Has(Console) {
		p.console = sink.NewConsole(s.Stdout, s.Colorize)
	}
	if s.pipeActive() {
		p.pipeCfg = sink.PipeConfig{Name: s.Pipe.Name, Server: s.Pipe.Server}
	}
	p.openEventLog()

	p.logger.Info("msg", "Logging provider created",
		"component", "provider",
		"provider_id", p.id,
		"sinks", s.Sinks.String(),
		"shared_subsystem", !p.ownsSubsystem)
	return p
}

// openEventLog checks source registration once; any failure skips the sink
func (p *Provider) openEventLog() {
	if !p.settings.Sinks.Has(EventLog) || p.settings.EventLogSource == "" {
		return
	}

	el, err := sink.OpenEventLog(p.settings.EventLogSource)
	if err != nil {
		reason := "unsupported"
		if !errors.Is(err, sink.ErrUnsupported) {
			reason = "unavailable"
		}
		p.logger.Debug("msg", "Event log sink skipped",
			"component", "provider",
			"source", p.settings.EventLogSource,
			"reason", reason,
			"error", err)
		return
	}
	p.eventLog = el
}

// ID returns the provider's unique identifier
func (p *Provider) ID() string {
	if p == nil {
		return ""
	}
	return p.id
}

// Uptime returns the time since the provider was created
func (p *Provider) Uptime() time.Duration {
	if p == nil {
		return 0
	}
	return time.Since(p.startTime)
}

// Logger returns the dispatcher for category, creating it on first use
func (p *Provider) Logger(category string) *Dispatcher {
	if p == nil {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if d, ok := p.dispatchers[category]; ok {
		return d
	}

	d := &Dispatcher{name: category, provider: p}
	d.file = p.ensureLoop(core.File)
	d.pipe = p.ensureLoop(core.Pipe)

	if !p.closed.Load() {
		p.dispatchers[category] = d
		p.order = append(p.order, d)
	}
	return d
}

// ensureLoop starts the delivery loop for an async kind if this provider
// enables it, reporting whether the dispatcher should enqueue to it
func (p *Provider) ensureLoop(kind core.SinkKind) bool {
	var factory func() (delivery.Deliverer, error)

	switch kind {
	case core.File:
		if !p.settings.Sinks.Has(File) {
			return false
		}
		factory = func() (delivery.Deliverer, error) {
			return sink.NewFileDeliverer(p.settings.FilePath, p.logger)
		}
	case core.Pipe:
		if !p.settings.pipeActive() {
			return false
		}
		factory = func() (delivery.Deliverer, error) {
			return sink.NewPipeDeliverer(p.pipeCfg, p.logger)
		}
	default:
		return false
	}

	if err := p.subsystem.Ensure(kind, factory); err != nil {
		if !errors.Is(err, delivery.ErrClosed) {
			p.logger.Warn("msg", "Sink skipped",
				"component", "provider",
				"sink", kind.String(),
				"error", err)
		}
		return false
	}
	return true
}

// Dispatchers returns the registered categories in creation order
func (p *Provider) Dispatchers() []string {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	names := make([]string, len(p.order))
	for i, d := range p.order {
		names[i] = d.name
	}
	return names
}

// Stats returns per-sink statistics in dispatch order
func (p *Provider) Stats() []SinkStats {
	if p == nil {
		return nil
	}

	async := make(map[core.SinkKind]SinkStats)
	for _, st := range p.subsystem.Stats() {
		async[st.Kind] = st
	}

	var stats []SinkStats
	for _, kind := range core.AllKinds {
		switch kind {
		case core.Console:
			if p.console != nil {
				stats = append(stats, p.consoleStats.snapshot(p.startTime))
			}
		case core.EventLog:
			if p.eventLog != nil {
				stats = append(stats, p.eventLogStats.snapshot(p.startTime))
			}
		default:
			if st, ok := async[kind]; ok {
				stats = append(stats, st)
			}
		}
	}
	return stats
}

// Shutdown logs a disposal message through every dispatcher, then stops the
// owned subsystem, waiting at most until ctx ends. Later calls return the
// first result.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}

	p.shutdownOnce.Do(func() {
		p.mu.Lock()
		dispatchers := append([]*Dispatcher(nil), p.order...)
		p.mu.Unlock()

		for _, d := range dispatchers {
			d.Debug(fmt.Sprintf("Disposing logger %q", d.name))
		}
		p.closed.Store(true)

		if p.ownsSubsystem {
			if err := p.subsystem.Close(ctx); err != nil {
				p.shutdownErr = fmt.Errorf("failed to stop delivery: %w", err)
			}
		}
		if p.eventLog != nil {
			if err := p.eventLog.Close(); err != nil {
				p.logger.Debug("msg", "Event log close failed",
					"component", "provider",
					"error", err)
			}
		}

		p.logger.Info("msg", "Logging provider shut down",
			"component", "provider",
			"provider_id", p.id,
			"dispatchers", len(dispatchers))
	})
	return p.shutdownErr
}

// syncFailed records a failed synchronous write
func (p *Provider) syncFailed(kind core.SinkKind, err error) {
	switch kind {
	case core.Console:
		p.consoleStats.fail(err)
	case core.EventLog:
		p.eventLogStats.fail(err)
	}
	if p.warn.Allow() {
		p.logger.Warn("msg", "Sink write failed",
			"component", "dispatcher",
			"sink", kind.String(),
			"error", err)
	}
}

// syncStats counts writes to the sinks served on the caller's goroutine
type syncStats struct {
	kind      core.SinkKind
	delivered atomic.Uint64
	failed    atomic.Uint64
	lastError atomic.Value // string
	lastWrite atomic.Value // time.Time
}

func (s *syncStats) init(kind core.SinkKind) {
	s.kind = kind
	s.lastError.Store("")
	s.lastWrite.Store(time.Time{})
}

func (s *syncStats) ok() {
	s.delivered.Add(1)
	s.lastWrite.Store(time.Now())
}

func (s *syncStats) fail(err error) {
	s.failed.Add(1)
	s.lastError.Store(err.Error())
}

func (s *syncStats) snapshot(start time.Time) SinkStats {
	lastErr, _ := s.lastError.Load().(string)
	lastWrite, _ := s.lastWrite.Load().(time.Time)
	n := s.delivered.Load() + s.failed.Load()
	return SinkStats{
		Kind:          s.kind,
		Type:          s.kind.String(),
		Enqueued:      n,
		Delivered:     s.delivered.Load(),
		Failed:        s.failed.Load(),
		Connected:     true,
		LastError:     lastErr,
		StartTime:     start,
		LastDelivered: lastWrite,
	}
}
