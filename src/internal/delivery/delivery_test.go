// FILE: src/internal/delivery/delivery_test.go
package delivery

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"fanlog/src/internal/core"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *log.Logger {
	return log.NewLogger()
}

func fastPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:   3,
		RetryDelay:    time.Millisecond,
		MaxRetryDelay: 4 * time.Millisecond,
		Backoff:       2,
		DrainTimeout:  time.Second,
	}
}

// recordingSink collects delivered lines and can be told to fail
type recordingSink struct {
	kind core.SinkKind

	mu    sync.Mutex
	lines []string

	openFailures atomic.Int32
	failAll      atomic.Bool
	dropAll      atomic.Bool
	panicOnce    atomic.Bool
	attempts     atomic.Int32
	closed       atomic.Bool
}

func (r *recordingSink) Kind() core.SinkKind { return r.kind }

func (r *recordingSink) Open(ctx context.Context) error {
	if r.openFailures.Load() > 0 {
		r.openFailures.Add(-1)
		return errors.New("endpoint unavailable")
	}
	return nil
}

func (r *recordingSink) Deliver(ctx context.Context, line string) error {
	r.attempts.Add(1)
	if r.panicOnce.CompareAndSwap(true, false) {
		panic("boom")
	}
	if r.dropAll.Load() {
		return ErrDropped
	}
	if r.failAll.Load() {
		return errors.New("disk full")
	}
	r.mu.Lock()
	r.lines = append(r.lines, line)
	r.mu.Unlock()
	return nil
}

func (r *recordingSink) Close() error {
	r.closed.Store(true)
	return nil
}

func (r *recordingSink) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

func startLoop(t *testing.T, sink *recordingSink) (*Subsystem, func()) {
	t.Helper()
	s := NewSubsystem(fastPolicy(), newTestLogger())
	require.NoError(t, s.Ensure(sink.kind, func() (Deliverer, error) { return sink, nil }))
	return s, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		require.NoError(t, s.Close(ctx))
	}
}

func statsFor(s *Subsystem, kind core.SinkKind) Stats {
	for _, st := range s.Stats() {
		if st.Kind == kind {
			return st
		}
	}
	return Stats{}
}

func TestQueue(t *testing.T) {
	t.Run("FIFO", func(t *testing.T) {
		q := NewQueue()
		for i := 0; i < 5; i++ {
			q.Push(fmt.Sprint(i))
		}
		assert.Equal(t, 5, q.Len())
		for i := 0; i < 5; i++ {
			line, ok := q.Pop()
			require.True(t, ok)
			assert.Equal(t, fmt.Sprint(i), line)
		}
		_, ok := q.Pop()
		assert.False(t, ok)
		assert.Equal(t, 0, q.Len())
	})

	t.Run("WakeCoalesces", func(t *testing.T) {
		q := NewQueue()
		q.Push("a")
		q.Push("b")
		q.Push("c")
		assert.Len(t, q.wake, 1)

		<-q.Wake()
		select {
		case <-q.Wake():
			t.Fatal("expected a single coalesced wake")
		default:
		}
		assert.Equal(t, 3, q.Len())
	})

	t.Run("CompactsLongQueues", func(t *testing.T) {
		q := NewQueue()
		for i := 0; i < 5000; i++ {
			q.Push(fmt.Sprint(i))
		}
		for i := 0; i < 3000; i++ {
			line, ok := q.Pop()
			require.True(t, ok)
			require.Equal(t, fmt.Sprint(i), line)
		}
		assert.Equal(t, 2000, q.Len())
		line, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, "3000", line)
	})
}

func TestLoop_ConcurrentProducersFIFO(t *testing.T) {
	sink := &recordingSink{kind: core.File}
	s, stop := startLoop(t, sink)
	defer stop()

	const producers = 8
	const perProducer = 250

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				assert.True(t, s.Enqueue(core.File, fmt.Sprintf("%d:%d", p, i)))
			}
		}(p)
	}
	wg.Wait()

	require.Eventually(t, func() bool {
		return len(sink.snapshot()) == producers*perProducer
	}, 5*time.Second, 5*time.Millisecond)

	next := make([]int, producers)
	seen := make(map[string]bool)
	for _, line := range sink.snapshot() {
		require.False(t, seen[line], "duplicate %s", line)
		seen[line] = true

		var p, i int
		_, err := fmt.Sscanf(line, "%d:%d", &p, &i)
		require.NoError(t, err)
		assert.Equal(t, next[p], i, "producer %d out of order", p)
		next[p] = i + 1
	}

	st := statsFor(s, core.File)
	assert.Equal(t, uint64(producers*perProducer), st.Enqueued)
	assert.Equal(t, uint64(producers*perProducer), st.Delivered)
	assert.Zero(t, st.Failed)
}

func TestLoop_RetryThenDegrade(t *testing.T) {
	sink := &recordingSink{kind: core.File}
	sink.failAll.Store(true)
	s, stop := startLoop(t, sink)
	defer stop()

	s.Enqueue(core.File, "lost")
	require.Eventually(t, func() bool {
		return statsFor(s, core.File).Failed == 1
	}, 2*time.Second, time.Millisecond)

	st := statsFor(s, core.File)
	assert.True(t, st.Degraded)
	assert.Equal(t, uint64(2), st.Retries)
	assert.Equal(t, int32(3), sink.attempts.Load())
	assert.Contains(t, st.LastError, "disk full")

	// The loop keeps running and recovers on the next success
	sink.failAll.Store(false)
	s.Enqueue(core.File, "kept")
	require.Eventually(t, func() bool {
		return statsFor(s, core.File).Delivered == 1
	}, 2*time.Second, time.Millisecond)

	assert.False(t, statsFor(s, core.File).Degraded)
	assert.Equal(t, []string{"kept"}, sink.snapshot())
}

func TestLoop_DroppedIsNotRetried(t *testing.T) {
	sink := &recordingSink{kind: core.Pipe}
	sink.dropAll.Store(true)
	s, stop := startLoop(t, sink)
	defer stop()

	s.Enqueue(core.Pipe, "x")
	require.Eventually(t, func() bool {
		return statsFor(s, core.Pipe).Dropped == 1
	}, 2*time.Second, time.Millisecond)

	st := statsFor(s, core.Pipe)
	assert.Zero(t, st.Retries)
	assert.Zero(t, st.Failed)
	assert.False(t, st.Degraded)
	assert.Equal(t, int32(1), sink.attempts.Load())
}

func TestLoop_PanicRecovered(t *testing.T) {
	sink := &recordingSink{kind: core.File}
	sink.panicOnce.Store(true)
	s, stop := startLoop(t, sink)
	defer stop()

	s.Enqueue(core.File, "survives")
	require.Eventually(t, func() bool {
		return statsFor(s, core.File).Delivered == 1
	}, 2*time.Second, time.Millisecond)

	assert.Equal(t, uint64(1), statsFor(s, core.File).Retries)
	assert.Equal(t, []string{"survives"}, sink.snapshot())
}

func TestLoop_OpenRetried(t *testing.T) {
	sink := &recordingSink{kind: core.Pipe}
	sink.openFailures.Store(3)
	s, stop := startLoop(t, sink)
	defer stop()

	s.Enqueue(core.Pipe, "first")
	s.Enqueue(core.Pipe, "second")

	require.Eventually(t, func() bool {
		return len(sink.snapshot()) == 2
	}, 2*time.Second, time.Millisecond)
	assert.Equal(t, []string{"first", "second"}, sink.snapshot())
	assert.True(t, statsFor(s, core.Pipe).Connected)
}

func TestSubsystem_EnsureOnce(t *testing.T) {
	s := NewSubsystem(fastPolicy(), newTestLogger())
	defer s.Close(context.Background())

	calls := 0
	factory := func() (Deliverer, error) {
		calls++
		return &recordingSink{kind: core.File}, nil
	}
	require.NoError(t, s.Ensure(core.File, factory))
	require.NoError(t, s.Ensure(core.File, factory))
	assert.Equal(t, 1, calls)
	assert.True(t, s.Running(core.File))
	assert.False(t, s.Running(core.Pipe))

	assert.False(t, s.Enqueue(core.Pipe, "nobody listens"))

	err := s.Ensure(core.Pipe, func() (Deliverer, error) { return nil, errors.New("bad config") })
	assert.ErrorContains(t, err, "bad config")

	err = s.Ensure(core.Pipe, func() (Deliverer, error) { return &recordingSink{kind: core.File}, nil })
	assert.ErrorContains(t, err, "kind mismatch")
}

func TestSubsystem_CloseDrains(t *testing.T) {
	sink := &recordingSink{kind: core.File}
	s := NewSubsystem(fastPolicy(), newTestLogger())
	require.NoError(t, s.Ensure(core.File, func() (Deliverer, error) { return sink, nil }))

	for i := 0; i < 100; i++ {
		s.Enqueue(core.File, fmt.Sprint(i))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Close(ctx))

	assert.Len(t, sink.snapshot(), 100)
	assert.True(t, sink.closed.Load())

	// Idempotent and rejects new work
	require.NoError(t, s.Close(ctx))
	assert.False(t, s.Enqueue(core.File, "late"))
	assert.ErrorIs(t, s.Ensure(core.Pipe, nil), ErrClosed)
}

func TestSubsystem_CloseWhileOpening(t *testing.T) {
	sink := &recordingSink{kind: core.Pipe}
	sink.openFailures.Store(1 << 30)
	s := NewSubsystem(fastPolicy(), newTestLogger())
	require.NoError(t, s.Ensure(core.Pipe, func() (Deliverer, error) { return sink, nil }))

	// Enqueue never blocks on a sink that cannot open
	start := time.Now()
	for i := 0; i < 10; i++ {
		s.Enqueue(core.Pipe, "queued")
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	require.Eventually(t, func() bool {
		return statsFor(s, core.Pipe).Degraded
	}, time.Second, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Close(ctx))

	st := statsFor(s, core.Pipe)
	assert.Equal(t, uint64(10), st.Dropped)
	assert.Zero(t, st.Pending)
	assert.Empty(t, sink.snapshot())
}

func TestRetryPolicy(t *testing.T) {
	p := RetryPolicy{}.normalized()
	assert.Equal(t, DefaultRetryPolicy(), p)

	p = RetryPolicy{RetryDelay: 10 * time.Millisecond, MaxRetryDelay: 25 * time.Millisecond, Backoff: 2}.normalized()
	assert.Equal(t, 20*time.Millisecond, p.next(10*time.Millisecond))
	assert.Equal(t, 25*time.Millisecond, p.next(20*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, sleep(ctx, time.Hour))
}
