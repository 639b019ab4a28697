// FILE: src/internal/delivery/queue.go
package delivery

import "sync"

// Queue is an unbounded multi-producer single-consumer FIFO of rendered lines.
// Push never blocks. A push signals Wake without blocking; pushes that land
// before the consumer wakes collapse into a single pending signal.
type Queue struct {
	mu    sync.Mutex
	items []string
	head  int
	wake  chan struct{}
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{wake: make(chan struct{}, 1)}
}

// Push appends a line and signals the consumer
func (q *Queue) Push(line string) {
	q.mu.Lock()
	q.items = append(q.items, line)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Pop removes the oldest line, reporting false when the queue is empty
func (q *Queue) Pop() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.head == len(q.items) {
		return "", false
	}
	line := q.items[q.head]
	q.items[q.head] = ""
	q.head++

	// Reclaim the backing array once fully drained, or compact when the
	// consumed prefix dominates
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	} else if q.head > 1024 && q.head*2 > len(q.items) {
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
	return line, true
}

// Len returns the number of pending lines
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

// Wake returns the channel signalled after pushes
func (q *Queue) Wake() <-chan struct{} {
	return q.wake
}
