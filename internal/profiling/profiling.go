package profiling

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Profiler accumulates per-tick CPU time by name. A nil *Profiler is valid
// and records nothing, so callers never need to check for one.
type Profiler struct {
	mu     sync.Mutex
	totals map[string]time.Duration
}

func New() *Profiler {
	return &Profiler{totals: make(map[string]time.Duration)}
}

// Track returns a stop function that records the elapsed time under name.
// Usage: defer p.Track("terrain.UpdateVisibleChunks")()
func (p *Profiler) Track(name string) func() {
	if p == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		d := time.Since(start)
		p.mu.Lock()
		p.totals[name] += d
		p.mu.Unlock()
	}
}

// Reset clears the current totals. Call at the start of each tick.
func (p *Profiler) Reset() {
	if p == nil {
		return
	}
	p.mu.Lock()
	clear(p.totals)
	p.mu.Unlock()
}

// Snapshot returns a copy of the current totals.
func (p *Profiler) Snapshot() map[string]time.Duration {
	out := make(map[string]time.Duration)
	if p == nil {
		return out
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for k, v := range p.totals {
		out[k] = v
	}
	return out
}

// SumWithPrefix adds up every total whose name starts with prefix.
func (p *Profiler) SumWithPrefix(prefix string) time.Duration {
	var sum time.Duration
	for name, d := range p.Snapshot() {
		if strings.HasPrefix(name, prefix) {
			sum += d
		}
	}
	return sum
}

// TopN formats the n largest totals, e.g.
// "terrain.UpdateVisibleChunks:4.2ms, workqueue.Drain:0.3ms".
func (p *Profiler) TopN(n int) string {
	type entry struct {
		name string
		dur  time.Duration
	}
	snap := p.Snapshot()
	list := make([]entry, 0, len(snap))
	for k, v := range snap {
		list = append(list, entry{name: k, dur: v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].dur != list[j].dur {
			return list[i].dur > list[j].dur
		}
		return list[i].name < list[j].name
	})
	if n > len(list) {
		n = len(list)
	}
	parts := make([]string, 0, n)
	for _, e := range list[:n] {
		parts = append(parts, fmt.Sprintf("%s:%.1fms", e.name, float64(e.dur.Microseconds())/1000))
	}
	return strings.Join(parts, ", ")
}
