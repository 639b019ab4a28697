// FILE: src/internal/sink/pipe.go
package sink

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"fanlog/src/internal/core"
	"fanlog/src/internal/delivery"

	"github.com/lixenwraith/log"
)

// PipeConfig holds named pipe sink configuration
type PipeConfig struct {
	Name         string
	Server       string
	DialTimeout  time.Duration
	WriteTimeout time.Duration
}

// PipeDeliverer streams lines to a named pipe endpoint.
// Delivery is at-most-once: while disconnected, lines are dropped.
type PipeDeliverer struct {
	config  PipeConfig
	address string
	logger  *log.Logger

	connMu    sync.Mutex
	conn      io.WriteCloser
	connected atomic.Bool

	totalReconnects atomic.Uint64
}

// NewPipeDeliverer resolves the platform endpoint for cfg
func NewPipeDeliverer(cfg PipeConfig, logger *log.Logger) (*PipeDeliverer, error) {
	if cfg.Server == "" {
		cfg.Server = core.DefaultPipeServer
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = log.NewLogger()
	}

	addr, err := PipeAddress(cfg.Server, cfg.Name)
	if err != nil {
		return nil, err
	}

	return &PipeDeliverer{
		config:  cfg,
		address: addr,
		logger:  logger,
	}, nil
}

func (p *PipeDeliverer) Kind() core.SinkKind {
	return core.Pipe
}

// Address returns the resolved endpoint
func (p *PipeDeliverer) Address() string {
	return p.address
}

// Connected reports whether a connection is currently held
func (p *PipeDeliverer) Connected() bool {
	return p.connected.Load()
}

// Open connects to the endpoint
func (p *PipeDeliverer) Open(ctx context.Context) error {
	p.connMu.Lock()
	defer p.connMu.Unlock()
	return p.connectLocked(ctx)
}

func (p *PipeDeliverer) connectLocked(ctx context.Context) error {
	if p.conn != nil {
		return nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, p.config.DialTimeout)
	defer cancel()

	conn, err := dialPipe(dialCtx, p.address)
	if err != nil {
		return fmt.Errorf("failed to connect to pipe %s: %w", p.address, err)
	}

	p.conn = conn
	p.connected.Store(true)
	p.totalReconnects.Add(1)

	p.logger.Info("msg", "Connected to pipe endpoint",
		"component", "pipe_sink",
		"address", p.address)
	return nil
}

// Deliver writes one newline-terminated line. When disconnected it makes a
// single reconnect attempt and otherwise drops the line.
func (p *PipeDeliverer) Deliver(ctx context.Context, line string) error {
	p.connMu.Lock()
	defer p.connMu.Unlock()

	if p.conn == nil {
		if err := p.connectLocked(ctx); err != nil {
			return fmt.Errorf("%w: %v", delivery.ErrDropped, err)
		}
	}

	if d, ok := p.conn.(interface{ SetWriteDeadline(time.Time) error }); ok {
		_ = d.SetWriteDeadline(time.Now().Add(p.config.WriteTimeout))
	}

	data := line
	if !strings.HasSuffix(data, "\n") {
		data += "\n"
	}

	if _, err := io.WriteString(p.conn, data); err != nil {
		p.dropLocked()
		p.logger.Warn("msg", "Lost connection to pipe endpoint",
			"component", "pipe_sink",
			"address", p.address,
			"error", err)
		return fmt.Errorf("%w: write failed: %v", delivery.ErrDropped, err)
	}
	return nil
}

func (p *PipeDeliverer) dropLocked() {
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.conn = nil
	p.connected.Store(false)
}

func (p *PipeDeliverer) Close() error {
	p.connMu.Lock()
	defer p.connMu.Unlock()

	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	p.connected.Store(false)
	return err
}

// Reconnects returns the number of successful connections made
func (p *PipeDeliverer) Reconnects() uint64 {
	return p.totalReconnects.Load()
}
