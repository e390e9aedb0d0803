package terrain

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"endless-terrain/internal/heightmap"
	"endless-terrain/internal/workqueue"

	"github.com/go-gl/mathgl/mgl32"
)

// recordingSink remembers every presentation change. It is only touched
// from the test goroutine, which drives the registry.
type recordingSink struct {
	visible   map[Coord]bool
	shown     map[Coord][]int
	colliders map[Coord]int
}

func newRecordingSink() *recordingSink {
	return &recordingSink{
		visible:   make(map[Coord]bool),
		shown:     make(map[Coord][]int),
		colliders: make(map[Coord]int),
	}
}

func (s *recordingSink) SetVisible(c Coord, visible bool) { s.visible[c] = visible }

func (s *recordingSink) ShowGeometry(c Coord, lod int, g Geometry) {
	s.shown[c] = append(s.shown[c], lod)
}

func (s *recordingSink) SetCollider(c Coord, g Geometry) { s.colliders[c]++ }

func (s *recordingSink) lastShown(c Coord) int {
	lods := s.shown[c]
	if len(lods) == 0 {
		return -1
	}
	return lods[len(lods)-1]
}

// flatHeights returns a fresh all-zero field per request so tests can tell
// chunks apart by field pointer.
type flatHeights struct{}

func (flatHeights) Build(width, height int, centre mgl32.Vec2) *heightmap.HeightField {
	return heightmap.NewHeightField(width, height, make([]float32, width*height))
}

type buildKey struct {
	field *heightmap.HeightField
	lod   int
}

type fakeMesh struct {
	lod int
}

// fakeBuilder counts requests per field and LOD. While gate is set, LOD 0
// builds block on it; LODs in panics make the build panic.
type fakeBuilder struct {
	mu      sync.Mutex
	calls   map[buildKey]int
	gate    chan struct{}
	panics  map[int]bool
	blocked atomic.Int32
}

func newFakeBuilder() *fakeBuilder {
	return &fakeBuilder{calls: make(map[buildKey]int), panics: make(map[int]bool)}
}

func (b *fakeBuilder) BuildGeometry(field *heightmap.HeightField, lod int, flatShading bool) Geometry {
	b.mu.Lock()
	b.calls[buildKey{field, lod}]++
	gate := b.gate
	fail := b.panics[lod]
	b.mu.Unlock()

	if fail {
		panic("mesh build failed")
	}
	if gate != nil && lod == 0 {
		b.blocked.Add(1)
		<-gate
		b.blocked.Add(-1)
	}
	return fakeMesh{lod: lod}
}

func (b *fakeBuilder) callCount(field *heightmap.HeightField, lod int) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[buildKey{field, lod}]
}

// closeGate releases every parked build and returns once none is still
// counted as blocked, so waitForProducers sees them as running.
func (b *fakeBuilder) closeGate() {
	b.mu.Lock()
	close(b.gate)
	b.gate = nil
	b.mu.Unlock()
	for b.blocked.Load() > 0 {
		time.Sleep(time.Millisecond)
	}
}

func (b *fakeBuilder) openGate() {
	b.mu.Lock()
	b.gate = make(chan struct{})
	b.mu.Unlock()
}

type fixture struct {
	registry *Registry
	queue    *workqueue.Queue
	sink     *recordingSink
	builder  *fakeBuilder
}

// testLadder gives a 48-unit cell a view radius of three cells.
func testLadder(t *testing.T) *Ladder {
	t.Helper()
	l, err := NewLadder([]DetailLevel{
		{LOD: 0, VisibleDistance: 48},
		{LOD: 1, VisibleDistance: 96},
		{LOD: 2, VisibleDistance: 144},
	}, 0)
	if err != nil {
		t.Fatalf("NewLadder: %v", err)
	}
	return l
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		queue:   workqueue.New(),
		sink:    newRecordingSink(),
		builder: newFakeBuilder(),
	}
	r, err := NewRegistry(Environment{
		Queue:    f.queue,
		Heights:  flatHeights{},
		Geometry: f.builder,
		Sink:     f.sink,
		Ladder:   testLadder(t),
		Layout:   Layout{VerticesPerLine: 51, MeshScale: 1},
	})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	f.registry = r
	return f
}

// waitForProducers blocks until every running producer is either finished
// or parked on the builder's gate.
func (f *fixture) waitForProducers(t *testing.T) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for f.queue.InFlight() > int(f.builder.blocked.Load()) {
		if time.Now().After(deadline) {
			t.Fatalf("producers still running: %d in flight, %d blocked", f.queue.InFlight(), f.builder.blocked.Load())
		}
		time.Sleep(time.Millisecond)
	}
}

// settle ticks at viewer until no more results arrive and no new work is
// started, ignoring builds parked on the gate.
func (f *fixture) settle(t *testing.T, viewer mgl32.Vec2) {
	t.Helper()
	for i := 0; i < 100; i++ {
		f.waitForProducers(t)
		delivered := f.registry.Tick(viewer)
		if delivered == 0 && f.queue.Queued() == 0 && f.queue.InFlight() == int(f.builder.blocked.Load()) {
			return
		}
	}
	t.Fatal("registry did not settle")
}

func (f *fixture) chunk(t *testing.T, c Coord) *Chunk {
	t.Helper()
	ch, ok := f.registry.Chunk(c)
	if !ok {
		t.Fatalf("expected chunk %v to exist", c)
	}
	return ch
}
