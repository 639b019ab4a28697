// FILE: src/internal/pipeserver/listener.go
package pipeserver

import (
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/log"
)

const maxLineLength = 1 * 1024 * 1024 // 1MB max per line

// Stats describes listener activity
type Stats struct {
	Address     string    `json:"address"`
	TotalLines  uint64    `json:"total_lines"`
	Truncated   uint64    `json:"truncated"`
	ActiveConns int64     `json:"active_connections"`
	StartTime   time.Time `json:"start_time"`
}

// Listener is the receiving end of the pipe sink. It accepts any number of
// writers and copies each complete line to its output.
type Listener struct {
	address string
	logger  *log.Logger

	outMu  sync.Mutex
	output io.Writer

	startTime   time.Time
	totalLines  atomic.Uint64
	truncated   atomic.Uint64
	activeConns atomic.Int64

	platform
}

// New creates a listener for address. A nil output selects os.Stdout.
func New(address string, output io.Writer, logger *log.Logger) *Listener {
	if output == nil {
		output = os.Stdout
	}
	if logger == nil {
		logger = log.NewLogger()
	}
	return &Listener{
		address:   address,
		output:    output,
		logger:    logger,
		startTime: time.Now(),
	}
}

// Address returns the endpoint the listener serves
func (l *Listener) Address() string {
	return l.address
}

func (l *Listener) emit(line []byte) {
	l.totalLines.Add(1)

	l.outMu.Lock()
	defer l.outMu.Unlock()
	if _, err := l.output.Write(append(line, '\n')); err != nil {
		l.logger.Debug("msg", "Failed to write received line",
			"component", "pipe_listener",
			"error", err)
	}
}

func (l *Listener) GetStats() Stats {
	return Stats{
		Address:     l.address,
		TotalLines:  l.totalLines.Load(),
		Truncated:   l.truncated.Load(),
		ActiveConns: l.activeConns.Load(),
		StartTime:   l.startTime,
	}
}
