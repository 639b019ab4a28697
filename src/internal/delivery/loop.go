// FILE: src/internal/delivery/loop.go
package delivery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fanlog/src/internal/core"

	"github.com/lixenwraith/log"
	"golang.org/x/time/rate"
)

// ErrDropped marks an item that was discarded on purpose and must not be retried
var ErrDropped = errors.New("delivery: item dropped")

// Deliverer performs the I/O for one asynchronous sink kind.
// Open is called once per loop start and retried until it succeeds.
type Deliverer interface {
	Kind() core.SinkKind
	Open(ctx context.Context) error
	Deliver(ctx context.Context, line string) error
	Close() error
}

// Connector is implemented by deliverers that hold a connection
type Connector interface {
	Connected() bool
}

// Loop is the single consumer of one sink queue
type Loop struct {
	sink      Deliverer
	queue     *Queue
	policy    RetryPolicy
	logger    *log.Logger
	warn      *rate.Limiter
	stats     *counters
	startTime time.Time
	done      chan struct{}
}

func newLoop(d Deliverer, policy RetryPolicy, logger *log.Logger) *Loop {
	return &Loop{
		sink:      d,
		queue:     NewQueue(),
		policy:    policy.normalized(),
		logger:    logger,
		warn:      rate.NewLimiter(rate.Every(5*time.Second), 3),
		stats:     newCounters(),
		startTime: time.Now(),
		done:      make(chan struct{}),
	}
}

// Enqueue hands a line to the loop without blocking
func (l *Loop) Enqueue(line string) {
	l.stats.enqueued.Add(1)
	l.queue.Push(line)
}

// Done is closed once the loop has exited
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) run(ctx context.Context) {
	defer close(l.done)
	defer l.closeSink()

	kind := l.sink.Kind()
	if !l.open(ctx) {
		abandoned := l.discardPending()
		l.logger.Warn("msg", "Delivery loop cancelled before sink opened",
			"component", "delivery",
			"sink", kind.String(),
			"abandoned", abandoned)
		return
	}

	l.logger.Debug("msg", "Delivery loop started",
		"component", "delivery",
		"sink", kind.String())

	for {
		select {
		case <-l.queue.Wake():
			l.drain(ctx)
		case <-ctx.Done():
			l.finalDrain()
			l.logger.Debug("msg", "Delivery loop stopped",
				"component", "delivery",
				"sink", kind.String(),
				"delivered", l.stats.delivered.Load())
			return
		}
	}
}

// open retries the sink's Open with backoff until success or cancellation
func (l *Loop) open(ctx context.Context) bool {
	delay := l.policy.RetryDelay
	for {
		err := l.sink.Open(ctx)
		if err == nil {
			l.stats.connected.Store(true)
			if l.stats.degraded.CompareAndSwap(true, false) {
				l.logger.Info("msg", "Sink opened after failures",
					"component", "delivery",
					"sink", l.sink.Kind().String())
			}
			return true
		}
		l.markDegraded(fmt.Errorf("open: %w", err))
		if !sleep(ctx, delay) {
			return false
		}
		delay = l.policy.next(delay)
	}
}

// drain delivers every queued line in FIFO order
func (l *Loop) drain(ctx context.Context) {
	for ctx.Err() == nil {
		line, ok := l.queue.Pop()
		if !ok {
			return
		}
		l.deliver(ctx, line)
	}
}

// finalDrain flushes what is left after cancellation, bounded by DrainTimeout
func (l *Loop) finalDrain() {
	ctx, cancel := context.WithTimeout(context.Background(), l.policy.DrainTimeout)
	defer cancel()

	for {
		if ctx.Err() != nil {
			if n := l.discardPending(); n > 0 {
				l.logger.Warn("msg", "Drain timeout exceeded, pending lines discarded",
					"component", "delivery",
					"sink", l.sink.Kind().String(),
					"discarded", n)
			}
			return
		}
		line, ok := l.queue.Pop()
		if !ok {
			return
		}
		l.deliver(ctx, line)
	}
}

func (l *Loop) discardPending() int {
	n := 0
	for {
		if _, ok := l.queue.Pop(); !ok {
			break
		}
		n++
	}
	l.stats.dropped.Add(uint64(n))
	return n
}

// deliver applies the retry policy to one line
func (l *Loop) deliver(ctx context.Context, line string) {
	delay := l.policy.RetryDelay
	var err error
	for attempt := 1; attempt <= l.policy.MaxAttempts; attempt++ {
		if attempt > 1 {
			l.stats.retries.Add(1)
			if !sleep(ctx, delay) {
				break
			}
			delay = l.policy.next(delay)
		}

		err = l.attempt(ctx, line)
		if c, ok := l.sink.(Connector); ok {
			l.stats.connected.Store(c.Connected())
		}

		if err == nil {
			l.stats.delivered.Add(1)
			l.stats.lastDelivered.Store(time.Now())
			if l.stats.degraded.CompareAndSwap(true, false) {
				l.logger.Info("msg", "Sink recovered",
					"component", "delivery",
					"sink", l.sink.Kind().String())
			}
			return
		}
		if errors.Is(err, ErrDropped) {
			l.stats.dropped.Add(1)
			return
		}
	}

	l.markDegraded(err)
	l.stats.failed.Add(1)
}

// attempt converts a deliverer panic into an error so the loop survives
func (l *Loop) attempt(ctx context.Context, line string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s sink panicked: %v", l.sink.Kind(), r)
		}
	}()
	return l.sink.Deliver(ctx, line)
}

func (l *Loop) markDegraded(err error) {
	if err == nil {
		err = errors.New("unknown delivery failure")
	}
	l.stats.lastError.Store(err.Error())
	l.stats.degraded.Store(true)
	if l.warn.Allow() {
		l.logger.Warn("msg", "Sink delivery failed, sink degraded",
			"component", "delivery",
			"sink", l.sink.Kind().String(),
			"error", err)
	}
}

func (l *Loop) closeSink() {
	l.stats.connected.Store(false)
	if err := l.sink.Close(); err != nil {
		l.logger.Debug("msg", "Sink close failed",
			"component", "delivery",
			"sink", l.sink.Kind().String(),
			"error", err)
	}
}

// Stats returns the loop's counters
func (l *Loop) Stats() Stats {
	lastErr, _ := l.stats.lastError.Load().(string)
	lastDelivered, _ := l.stats.lastDelivered.Load().(time.Time)
	kind := l.sink.Kind()

	return Stats{
		Kind:          kind,
		Type:          kind.String(),
		Enqueued:      l.stats.enqueued.Load(),
		Delivered:     l.stats.delivered.Load(),
		Failed:        l.stats.failed.Load(),
		Dropped:       l.stats.dropped.Load(),
		Retries:       l.stats.retries.Load(),
		Pending:       l.queue.Len(),
		Connected:     l.stats.connected.Load(),
		Degraded:      l.stats.degraded.Load(),
		LastError:     lastErr,
		StartTime:     l.startTime,
		LastDelivered: lastDelivered,
	}
}
