package workqueue

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDrainEmpty(t *testing.T) {
	q := New()
	if n := q.Drain(); n != 0 {
		t.Errorf("expected 0 callbacks, got %d", n)
	}
}

// TestDrainPreservesSubmissionOrder submits producers that finish in reverse
// order and checks callbacks still run in submission order.
func TestDrainPreservesSubmissionOrder(t *testing.T) {
	q := New()
	const n = 20
	var got []int
	for i := 0; i < n; i++ {
		i := i
		Submit(q, func() int {
			time.Sleep(time.Duration(n-i) * time.Millisecond)
			return i
		}, func(v int) {
			got = append(got, v)
		})
	}
	q.Wait()

	if delivered := q.Drain(); delivered != n {
		t.Fatalf("expected %d callbacks, got %d", n, delivered)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("callback %d received %d; order %v", i, v, got)
		}
	}
}

func TestCallbacksRunOnlyInDrain(t *testing.T) {
	q := New()
	var called atomic.Bool
	Submit(q, func() string { return "field" }, func(string) { called.Store(true) })
	q.Wait()

	if called.Load() {
		t.Fatal("callback ran before Drain")
	}
	if q.Queued() != 1 || q.InFlight() != 0 {
		t.Errorf("expected 1 queued / 0 in flight, got %d / %d", q.Queued(), q.InFlight())
	}
	q.Drain()
	if !called.Load() {
		t.Error("callback did not run during Drain")
	}
	if q.Queued() != 0 {
		t.Errorf("expected empty queue after Drain, got %d", q.Queued())
	}
}

// TestCallbackMaySubmit verifies a callback can submit new work without
// deadlocking, and that the new result waits for the next Drain.
func TestCallbackMaySubmit(t *testing.T) {
	q := New()
	var second bool
	Submit(q, func() int { return 1 }, func(int) {
		Submit(q, func() int { return 2 }, func(int) { second = true })
	})
	q.Wait()

	done := make(chan int)
	go func() { done <- q.Drain() }()
	select {
	case n := <-done:
		if n != 1 {
			t.Fatalf("expected 1 callback in first drain, got %d", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Drain deadlocked when a callback submitted work")
	}
	if second {
		t.Fatal("nested result delivered in the same drain")
	}

	q.Wait()
	q.Drain()
	if !second {
		t.Error("nested result never delivered")
	}
}

func TestInFlightCountsRunningProducers(t *testing.T) {
	q := New()
	release := make(chan struct{})
	for i := 0; i < 3; i++ {
		Submit(q, func() struct{} { <-release; return struct{}{} }, func(struct{}) {})
	}
	if got := q.InFlight(); got != 3 {
		t.Errorf("expected 3 in flight, got %d", got)
	}
	close(release)
	q.Wait()
	if got := q.InFlight(); got != 0 {
		t.Errorf("expected 0 in flight, got %d", got)
	}
	if got := q.Drain(); got != 3 {
		t.Errorf("expected 3 callbacks, got %d", got)
	}
}

func TestConcurrentProducers(t *testing.T) {
	q := New()
	const n = 200
	sum := 0
	for i := 1; i <= n; i++ {
		i := i
		Submit(q, func() int { return i }, func(v int) { sum += v })
	}
	q.Wait()
	q.Drain()
	if want := n * (n + 1) / 2; sum != want {
		t.Errorf("expected sum %d, got %d", want, sum)
	}
}
