package workqueue

import (
	"slices"
	"sync"
	"sync/atomic"
)

// Work pairs a finished result with the callback that consumes it.
type Work[T any] struct {
	Result   T
	OnResult func(T)
}

func (w Work[T]) deliver() {
	w.OnResult(w.Result)
}

type deliverer interface {
	deliver()
}

type queued struct {
	seq  uint64
	work deliverer
}

// Queue hands results computed on worker goroutines back to a single
// driving goroutine. Producers run on their own goroutine, one per request;
// callbacks only ever run inside Drain.
type Queue struct {
	mu    sync.Mutex
	items []queued

	seq      atomic.Uint64
	inFlight atomic.Int64
	wg       sync.WaitGroup
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{}
}

// Submit runs produce on a new goroutine and queues onResult(result) for the
// next Drain. There is no retry and no cancellation: a producer that panics
// takes the process down, so producers that can fail must report failure
// through their result type.
func Submit[T any](q *Queue, produce func() T, onResult func(T)) {
	seq := q.seq.Add(1)
	q.inFlight.Add(1)
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		result := produce()
		q.enqueue(seq, Work[T]{Result: result, OnResult: onResult})
		q.inFlight.Add(-1)
	}()
}

func (q *Queue) enqueue(seq uint64, w deliverer) {
	q.mu.Lock()
	q.items = append(q.items, queued{seq: seq, work: w})
	q.mu.Unlock()
}

// Drain delivers every result queued so far, in submission order, and
// returns how many callbacks ran. It must only be called from the driving
// goroutine. The lock is released before any callback runs, so callbacks may
// Submit more work; that work is delivered by a later Drain.
func (q *Queue) Drain() int {
	q.mu.Lock()
	items := q.items
	q.items = nil
	q.mu.Unlock()

	if len(items) == 0 {
		return 0
	}
	slices.SortFunc(items, func(a, b queued) int {
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		}
		return 0
	})
	for _, it := range items {
		it.work.deliver()
	}
	return len(items)
}

// InFlight reports producers that have not finished yet.
func (q *Queue) InFlight() int {
	return int(q.inFlight.Load())
}

// Queued reports results waiting for the next Drain.
func (q *Queue) Queued() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Wait blocks until every producer submitted so far has queued its result.
// It is meant for shutdown and tests; the driving loop never waits.
func (q *Queue) Wait() {
	q.wg.Wait()
}
