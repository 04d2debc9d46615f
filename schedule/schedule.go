// Package schedule defers work to the idle point of a single owner loop.
//
// An IdleQueue collects callbacks while the owner processes a batch of
// events; Flush runs them once the batch is done. A Coalescer sits on top of
// a Deferrer and collapses any number of requests made before the next idle
// point into one call. Loop is a ready-made owner goroutine that drains
// posted tasks and flushes its IdleQueue after each batch.
package schedule

import (
	"sync"
	"sync/atomic"
)

// Deferrer enqueues fn to run at the owner's next idle point.
type Deferrer interface {
	Defer(fn func())
}

// DeferFunc adapts a function to Deferrer.
type DeferFunc func(fn func())

// Defer implements Deferrer.
func (f DeferFunc) Defer(fn func()) { f(fn) }

// IdleQueue is a FIFO of callbacks run by Flush.
// It is safe for concurrent use, though callbacks always run on the
// goroutine calling Flush.
type IdleQueue struct {
	mu      sync.Mutex
	pending []func()
}

// Defer implements Deferrer.
func (q *IdleQueue) Defer(fn func()) {
	if fn == nil {
		return
	}
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()
}

// Flush runs the callbacks queued before the call and returns how many ran.
// Callbacks deferred while flushing wait for the next Flush.
func (q *IdleQueue) Flush() int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Len returns the number of queued callbacks.
func (q *IdleQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Coalescer runs fn at most once per idle point no matter how often Request
// is called before it.
//
// The queued flag is cleared before fn runs, so a Request made from inside fn
// (or while it runs) schedules one further pass.
type Coalescer struct {
	d      Deferrer
	fn     func()
	queued atomic.Bool
	closed atomic.Bool
}

// NewCoalescer returns a Coalescer deferring fn through d.
func NewCoalescer(d Deferrer, fn func()) *Coalescer {
	return &Coalescer{d: d, fn: fn}
}

// Request schedules fn for the next idle point. It reports whether this call
// armed a new pass; false means one was already pending or the Coalescer is
// stopped.
func (c *Coalescer) Request() bool {
	if c.closed.Load() {
		return false
	}
	if !c.queued.CompareAndSwap(false, true) {
		return false
	}
	c.d.Defer(c.run)
	return true
}

// Pending reports whether a pass is scheduled and has not started.
func (c *Coalescer) Pending() bool {
	return c.queued.Load()
}

// Cancel drops a pending pass. Later Requests schedule normally.
func (c *Coalescer) Cancel() {
	c.queued.Store(false)
}

// Stop cancels any pending pass and ignores all later Requests.
func (c *Coalescer) Stop() {
	c.closed.Store(true)
	c.queued.Store(false)
}

func (c *Coalescer) run() {
	if !c.queued.Swap(false) || c.closed.Load() {
		return
	}
	c.fn()
}
