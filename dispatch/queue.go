package dispatch

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Post after the queue has been closed.
var ErrClosed = errors.New("dispatch: queue closed")

// Executor runs functions on a designated execution context.
type Executor interface {
	// Post schedules fn. It must not run fn on the calling goroutine.
	Post(fn func()) error
}

// Queue is a serial, unbounded FIFO executor backed by one goroutine.
type Queue struct {
	mu      sync.Mutex
	pending []func()
	closed  bool
	wake    chan struct{}
	done    chan struct{}
}

var _ Executor = (*Queue)(nil)

// NewQueue starts a queue.
func NewQueue() *Queue {
	q := &Queue{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go q.loop()
	return q
}

// Post appends fn to the queue.
func (q *Queue) Post(fn func()) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	q.pending = append(q.pending, fn)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return nil
}

// Len returns the number of functions waiting to run.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Close stops accepting work and waits until everything already posted
// has run, or ctx is done.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		select {
		case q.wake <- struct{}{}:
		default:
		}
	}
	q.mu.Unlock()

	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed once the queue has drained after Close.
func (q *Queue) Done() <-chan struct{} {
	return q.done
}

func (q *Queue) loop() {
	defer close(q.done)
	for {
		q.mu.Lock()
		batch := q.pending
		q.pending = nil
		closed := q.closed
		q.mu.Unlock()

		for _, fn := range batch {
			fn()
		}
		if len(batch) > 0 {
			continue
		}
		if closed {
			return
		}
		<-q.wake
	}
}

var (
	mainOnce  sync.Once
	mainQueue *Queue
)

// Main returns the process-wide default queue, started on first use.
func Main() *Queue {
	mainOnce.Do(func() {
		mainQueue = NewQueue()
	})
	return mainQueue
}
