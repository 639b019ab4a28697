// FILE: src/internal/delivery/subsystem.go
package delivery

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"fanlog/src/internal/core"

	"github.com/lixenwraith/log"
)

// ErrClosed is returned when starting a loop on a closed subsystem
var ErrClosed = errors.New("delivery: subsystem closed")

// Subsystem owns at most one queue and delivery loop per asynchronous sink
// kind. Every dispatcher of a process shares one Subsystem handle.
type Subsystem struct {
	mu     sync.RWMutex
	loops  map[core.SinkKind]*Loop
	closed bool

	policy RetryPolicy
	logger *log.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSubsystem creates a subsystem with no running loops
func NewSubsystem(policy RetryPolicy, logger *log.Logger) *Subsystem {
	if logger == nil {
		logger = log.NewLogger()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Subsystem{
		loops:  make(map[core.SinkKind]*Loop),
		policy: policy.normalized(),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Ensure starts the loop for kind on first use. Later calls are no-ops and
// do not invoke factory.
func (s *Subsystem) Ensure(kind core.SinkKind, factory func() (Deliverer, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if _, exists := s.loops[kind]; exists {
		return nil
	}

	d, err := factory()
	if err != nil {
		return fmt.Errorf("failed to create %s deliverer: %w", kind, err)
	}
	if d.Kind() != kind {
		return fmt.Errorf("deliverer kind mismatch: want %s, got %s", kind, d.Kind())
	}

	loop := newLoop(d, s.policy, s.logger)
	s.loops[kind] = loop

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		loop.run(s.ctx)
	}()

	s.logger.Debug("msg", "Delivery loop registered",
		"component", "delivery",
		"sink", kind.String())
	return nil
}

// Enqueue hands line to the loop for kind. It reports false when no loop
// runs for that kind or the subsystem is closed.
func (s *Subsystem) Enqueue(kind core.SinkKind, line string) bool {
	s.mu.RLock()
	loop, ok := s.loops[kind]
	closed := s.closed
	s.mu.RUnlock()

	if !ok || closed {
		return false
	}
	loop.Enqueue(line)
	return true
}

// Running reports whether a loop exists for kind
func (s *Subsystem) Running(kind core.SinkKind) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.loops[kind]
	return ok
}

// Stats returns per-loop statistics in dispatch order
func (s *Subsystem) Stats() []Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make([]Stats, 0, len(s.loops))
	for _, kind := range core.AllKinds {
		if loop, ok := s.loops[kind]; ok {
			stats = append(stats, loop.Stats())
		}
	}
	return stats
}

// Close cancels every loop and waits for them to drain and exit, or for ctx.
// Calling Close more than once is safe.
func (s *Subsystem) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("delivery loops did not stop: %w", ctx.Err())
	}
}
