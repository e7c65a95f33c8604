package deploy

import (
	"sync"

	"github.com/arthur-debert/windeploy/pkg/types"
)

// Sink receives progress events. It is called from the deployment
// goroutine and must not block for long; Start uses a queue so it never
// does.
type Sink func(types.Event)

// queue is an unbounded FIFO of events. push never blocks.
type queue struct {
	mu     sync.Mutex
	items  []types.Event
	notify chan struct{}
	closed bool
}

func newQueue() *queue {
	return &queue{notify: make(chan struct{}, 1)}
}

func (q *queue) push(e types.Event) {
	q.mu.Lock()
	q.items = append(q.items, e)
	q.mu.Unlock()
	q.signal()
}

func (q *queue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.signal()
}

func (q *queue) signal() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// drain moves queued events to out until the queue is closed and empty,
// then closes out
func (q *queue) drain(out chan<- types.Event) {
	defer close(out)
	for {
		q.mu.Lock()
		batch := q.items
		q.items = nil
		closed := q.closed
		q.mu.Unlock()

		for _, e := range batch {
			out <- e
		}
		if closed && len(batch) == 0 {
			return
		}
		if len(batch) == 0 {
			<-q.notify
		}
	}
}

// Run is a deployment running in the background
type Run struct {
	ID      string
	queue   *queue
	events  chan types.Event
	drain   sync.Once
	done    chan struct{}
	outcome types.Outcome
}

// Events yields every progress event in order and is closed after the
// last one. Events are delivered from the first call on; a run nobody
// subscribes to starts no delivery goroutine.
func (r *Run) Events() <-chan types.Event {
	r.drain.Do(func() { go r.queue.drain(r.events) })
	return r.events
}

// Wait blocks until the deployment finishes and returns its outcome
func (r *Run) Wait() types.Outcome {
	<-r.done
	return r.outcome
}

// Done is closed when the outcome is available
func (r *Run) Done() <-chan struct{} { return r.done }
