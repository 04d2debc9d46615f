package schedule

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestIdleQueue_FlushSnapshot(t *testing.T) {
	var q IdleQueue
	var order []int

	q.Defer(func() {
		order = append(order, 1)
		q.Defer(func() { order = append(order, 3) })
	})
	q.Defer(func() { order = append(order, 2) })
	q.Defer(nil)

	if n := q.Flush(); n != 2 {
		t.Fatalf("Flush() = %d, want 2", n)
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("order after first flush = %v, want [1 2]", order)
	}
	if q.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", q.Len())
	}
	q.Flush()
	if len(order) != 3 || order[2] != 3 {
		t.Errorf("order after second flush = %v, want [1 2 3]", order)
	}
}

func TestCoalescer_CollapsesRequests(t *testing.T) {
	for _, n := range []int{1, 2, 10, 100} {
		var q IdleQueue
		runs := 0
		c := NewCoalescer(&q, func() { runs++ })

		armed := 0
		for range n {
			if c.Request() {
				armed++
			}
		}
		if armed != 1 {
			t.Errorf("n=%d: %d requests armed a pass, want 1", n, armed)
		}
		if !c.Pending() {
			t.Errorf("n=%d: Pending() = false before flush", n)
		}
		q.Flush()
		if runs != 1 {
			t.Errorf("n=%d: runs = %d, want 1", n, runs)
		}
		if c.Pending() {
			t.Errorf("n=%d: Pending() = true after flush", n)
		}
	}
}

func TestCoalescer_RequestDuringRunRearms(t *testing.T) {
	var q IdleQueue
	runs := 0
	var c *Coalescer
	c = NewCoalescer(&q, func() {
		runs++
		if runs == 1 {
			if !c.Request() {
				t.Error("Request() during run did not re-arm")
			}
		}
	})

	c.Request()
	q.Flush()
	if runs != 1 {
		t.Fatalf("runs after first flush = %d, want 1", runs)
	}
	q.Flush()
	if runs != 2 {
		t.Fatalf("runs after second flush = %d, want 2", runs)
	}
	q.Flush()
	if runs != 2 {
		t.Errorf("runs after idle flush = %d, want 2", runs)
	}
}

func TestCoalescer_CancelAndStop(t *testing.T) {
	var q IdleQueue
	runs := 0
	c := NewCoalescer(&q, func() { runs++ })

	c.Request()
	c.Cancel()
	q.Flush()
	if runs != 0 {
		t.Errorf("cancelled pass ran %d times", runs)
	}

	c.Request()
	q.Flush()
	if runs != 1 {
		t.Errorf("runs after cancel+request = %d, want 1", runs)
	}

	c.Request()
	c.Stop()
	if c.Request() {
		t.Error("Request() after Stop armed a pass")
	}
	q.Flush()
	if runs != 1 {
		t.Errorf("runs after Stop = %d, want 1", runs)
	}
}

func TestDeferFunc(t *testing.T) {
	var got []func()
	d := DeferFunc(func(fn func()) { got = append(got, fn) })
	c := NewCoalescer(d, func() {})
	c.Request()
	c.Request()
	if len(got) != 1 {
		t.Errorf("deferred %d callbacks, want 1", len(got))
	}
}

func startLoop(t *testing.T) (*Loop, context.CancelFunc) {
	t.Helper()
	l := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = l.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-l.Done()
	})
	return l, cancel
}

func TestLoop_DoWaitsForIdle(t *testing.T) {
	l, _ := startLoop(t)
	var runs atomic.Int32
	c := NewCoalescer(l, func() { runs.Add(1) })

	ctx := context.Background()
	err := l.Do(ctx, func() {
		for range 5 {
			c.Request()
		}
		if runs.Load() != 0 {
			t.Error("coalesced pass ran before the idle point")
		}
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if got := runs.Load(); got != 1 {
		t.Errorf("runs after Do = %d, want 1", got)
	}
}

func TestLoop_RearmWithoutNewTasks(t *testing.T) {
	l, _ := startLoop(t)
	done := make(chan struct{})
	var passes int
	var c *Coalescer
	c = NewCoalescer(l, func() {
		passes++
		if passes < 3 {
			c.Request()
			return
		}
		close(done)
	})

	if err := l.Post(func() { c.Request() }); err != nil {
		t.Fatal(err)
	}
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("re-armed passes never ran")
	}
}

func TestLoop_Stopped(t *testing.T) {
	l := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if err := l.Run(context.Background()); !errors.Is(err, ErrStopped) {
		t.Errorf("second Run() error = %v, want ErrStopped", err)
	}
	if err := l.Post(func() {}); !errors.Is(err, ErrStopped) {
		t.Errorf("Post() error = %v, want ErrStopped", err)
	}
	if err := l.Do(context.Background(), func() {}); !errors.Is(err, ErrStopped) {
		t.Errorf("Do() error = %v, want ErrStopped", err)
	}
}
