package schedule

import (
	"context"
	"errors"
	"sync"
)

// ErrStopped is returned when posting to a Loop that is not running.
var ErrStopped = errors.New("schedule: loop stopped")

const taskBuffer = 64

// Loop is a single owner goroutine. Tasks posted from any goroutine run on
// it in order; after each batch of tasks the loop reaches an idle point and
// flushes its IdleQueue.
//
// Loop implements Deferrer; Defer must be called from tasks running on the
// loop.
type Loop struct {
	idle  IdleQueue
	tasks chan func()

	startOnce sync.Once
	stopOnce  sync.Once
	stopped   chan struct{}
}

// NewLoop returns a Loop ready to Run.
func NewLoop() *Loop {
	return &Loop{
		tasks:   make(chan func(), taskBuffer),
		stopped: make(chan struct{}),
	}
}

// Defer implements Deferrer.
func (l *Loop) Defer(fn func()) {
	l.idle.Defer(fn)
}

// Run processes tasks until ctx is done. It returns ctx.Err().
// Run may be called once; later calls return ErrStopped immediately.
func (l *Loop) Run(ctx context.Context) error {
	started := false
	l.startOnce.Do(func() { started = true })
	if !started {
		return ErrStopped
	}
	defer l.stopOnce.Do(func() { close(l.stopped) })

	for {
		if l.idle.Len() > 0 {
			// Work deferred during the last flush belongs to the next cycle.
			select {
			case <-ctx.Done():
				return ctx.Err()
			case fn := <-l.tasks:
				fn()
			default:
			}
		} else {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case fn := <-l.tasks:
				fn()
			}
		}
		l.drain()
		l.idle.Flush()
	}
}

// drain runs every task already queued without blocking.
func (l *Loop) drain() {
	for {
		select {
		case fn := <-l.tasks:
			fn()
		default:
			return
		}
	}
}

// Post queues fn to run on the loop without waiting for it.
func (l *Loop) Post(fn func()) error {
	select {
	case <-l.stopped:
		return ErrStopped
	default:
	}
	select {
	case l.tasks <- fn:
		return nil
	case <-l.stopped:
		return ErrStopped
	}
}

// Do runs fn on the loop and waits until the idle point that follows it has
// been flushed, so work fn deferred has completed when Do returns.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	err := l.Post(func() {
		fn()
		l.idle.Defer(func() { close(done) })
	})
	if err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.stopped:
		return ErrStopped
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.stopped
}
