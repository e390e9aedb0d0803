package terrain

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"endless-terrain/internal/profiling"
	"endless-terrain/internal/workqueue"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultColliderLockIn = 5
	DefaultRescanDistance = 25
)

// Environment is everything a registry and its chunks depend on.
type Environment struct {
	Queue    *workqueue.Queue
	Heights  HeightSource
	Geometry GeometryBuilder
	Sink     Sink
	Ladder   *Ladder
	Layout   Layout

	// ColliderLockIn is the distance inside which collision shapes are
	// installed. Zero selects DefaultColliderLockIn.
	ColliderLockIn float32
	// RescanDistance is how far the viewer must move before the
	// neighbourhood is rescanned. Zero selects DefaultRescanDistance.
	RescanDistance float32

	Profiler *profiling.Profiler
}

// Stats is a point-in-time summary of the registry.
type Stats struct {
	Chunks    int
	Visible   int
	Colliders int
	InFlight  int
	Queued    int
}

func (s Stats) String() string {
	return fmt.Sprintf("chunks=%d visible=%d colliders=%d inflight=%d queued=%d",
		s.Chunks, s.Visible, s.Colliders, s.InFlight, s.Queued)
}

// Registry owns every chunk created so far and decides which cells around
// the viewer must exist. It is not safe for concurrent use; drive it from
// one goroutine.
type Registry struct {
	env    Environment
	chunks map[Coord]*Chunk

	// visible is kept in the order chunks became visible.
	visible []*Chunk

	viewer       mgl32.Vec2
	lastViewer   mgl32.Vec2
	lastRescan   mgl32.Vec2
	scanned      bool
	chunksInView int
}

// NewRegistry checks env and fills in defaults.
func NewRegistry(env Environment) (*Registry, error) {
	switch {
	case env.Queue == nil:
		return nil, errors.New("terrain: environment has no work queue")
	case env.Heights == nil:
		return nil, errors.New("terrain: environment has no height source")
	case env.Geometry == nil:
		return nil, errors.New("terrain: environment has no geometry builder")
	case env.Ladder == nil:
		return nil, ErrEmptyLadder
	}
	if env.Layout.VerticesPerLine <= 3 || env.Layout.MeshScale <= 0 {
		return nil, fmt.Errorf("terrain: invalid layout %+v", env.Layout)
	}
	if env.ColliderLockIn < 0 || env.RescanDistance < 0 {
		return nil, errors.New("terrain: distances must not be negative")
	}
	if env.Sink == nil {
		env.Sink = NopSink{}
	}
	if env.ColliderLockIn == 0 {
		env.ColliderLockIn = DefaultColliderLockIn
	}
	if env.RescanDistance == 0 {
		env.RescanDistance = DefaultRescanDistance
	}

	r := &Registry{
		env:    env,
		chunks: make(map[Coord]*Chunk),
	}
	r.chunksInView = int(math.RoundToEven(float64(env.Ladder.MaxViewDistance() / env.Layout.WorldSize())))
	return r, nil
}

// ViewerPosition implements ViewerSource for the registry's chunks.
func (r *Registry) ViewerPosition() mgl32.Vec2 { return r.viewer }

// Tick delivers finished work and then updates for viewer. It returns how
// many results were delivered.
func (r *Registry) Tick(viewer mgl32.Vec2) int {
	stop := r.env.Profiler.Track("workqueue.Drain")
	n := r.env.Queue.Drain()
	stop()
	r.Update(viewer)
	return n
}

// Update records the viewer position, runs the collider pass if the viewer
// moved, and rescans the neighbourhood on the first call and whenever the
// viewer has moved more than the rescan distance since the last scan.
func (r *Registry) Update(viewer mgl32.Vec2) {
	r.viewer = viewer
	if !viewer.ApproxEqual(r.lastViewer) {
		r.updateColliders()
	}
	r.lastViewer = viewer

	threshold := r.env.RescanDistance
	moved := viewer.Sub(r.lastRescan)
	if !r.scanned || moved.Dot(moved) > threshold*threshold {
		r.scanned = true
		r.lastRescan = viewer
		r.UpdateVisibleChunks()
	}
}

func (r *Registry) updateColliders() {
	defer r.env.Profiler.Track("terrain.UpdateColliders")()
	for _, c := range slices.Clone(r.visible) {
		c.UpdateCollider()
	}
}

// UpdateVisibleChunks refreshes every chunk visible after the previous pass,
// then creates or refreshes each cell within view radius of the viewer.
func (r *Registry) UpdateVisibleChunks() {
	defer r.env.Profiler.Track("terrain.UpdateVisibleChunks")()

	updated := make(map[Coord]struct{}, len(r.visible))
	previous := slices.Clone(r.visible)
	for i := len(previous) - 1; i >= 0; i-- {
		c := previous[i]
		updated[c.coord] = struct{}{}
		c.Update()
	}

	centre := CoordAt(r.viewer, r.env.Layout.WorldSize())
	n := r.chunksInView
	for dy := -n; dy <= n; dy++ {
		for dx := -n; dx <= n; dx++ {
			coord := Coord{X: centre.X + dx, Y: centre.Y + dy}
			if _, ok := updated[coord]; ok {
				continue
			}
			if c, ok := r.chunks[coord]; ok {
				c.Update()
				continue
			}
			c := newChunk(coord, &r.env, r)
			r.chunks[coord] = c
			c.OnVisibilityChanged(r.onVisibilityChanged)
			c.Load()
		}
	}
}

func (r *Registry) onVisibilityChanged(c *Chunk, visible bool) {
	if visible {
		r.visible = append(r.visible, c)
		return
	}
	if i := slices.Index(r.visible, c); i >= 0 {
		r.visible = slices.Delete(r.visible, i, i+1)
	}
}

// Evict removes the chunk at coord. Results still in flight for it are
// dropped on delivery. Update never evicts on its own.
func (r *Registry) Evict(coord Coord) bool {
	c, ok := r.chunks[coord]
	if !ok {
		return false
	}
	c.evict()
	delete(r.chunks, coord)
	return true
}

// EvictBeyond removes chunks farther than radius cells from centre and
// returns how many were removed.
func (r *Registry) EvictBeyond(centre Coord, radius int) int {
	removed := 0
	for coord := range r.chunks {
		dx := coord.X - centre.X
		dy := coord.Y - centre.Y
		if dx*dx+dy*dy > radius*radius {
			r.Evict(coord)
			removed++
		}
	}
	return removed
}

// Chunk returns the chunk at coord, if it exists.
func (r *Registry) Chunk(coord Coord) (*Chunk, bool) {
	c, ok := r.chunks[coord]
	return c, ok
}

func (r *Registry) Len() int { return len(r.chunks) }

// HeightAt samples the terrain height under ground point p from the height
// field of the chunk containing it, snapping to the nearest vertex. It
// reports false when that chunk has no height field yet.
func (r *Registry) HeightAt(p mgl32.Vec2) (float32, bool) {
	worldSize := r.env.Layout.WorldSize()
	c, ok := r.chunks[CoordAt(p, worldSize)]
	if !ok || !c.fieldReceived {
		return 0, false
	}
	n := r.env.Layout.VerticesPerLine
	d := r.env.Layout.MeshScale
	local := p.Sub(c.bounds.Centre)
	half := worldSize / 2
	i := clampIndex(int(math.Round(float64((local.X()+half)/d)))+1, n)
	j := clampIndex(int(math.Round(float64((half-local.Y())/d)))+1, n)
	return c.field.At(i, j), true
}

// clampIndex keeps a vertex index off the border ring.
func clampIndex(i, n int) int {
	return max(1, min(i, n-2))
}

// VisibleChunks returns the currently visible chunks.
func (r *Registry) VisibleChunks() []*Chunk {
	return slices.Clone(r.visible)
}

// ViewerCoord is the cell the viewer is in.
func (r *Registry) ViewerCoord() Coord {
	return CoordAt(r.viewer, r.env.Layout.WorldSize())
}

// ChunksInView is the neighbourhood radius in cells.
func (r *Registry) ChunksInView() int { return r.chunksInView }

func (r *Registry) Stats() Stats {
	s := Stats{
		Chunks:   len(r.chunks),
		Visible:  len(r.visible),
		InFlight: r.env.Queue.InFlight(),
		Queued:   r.env.Queue.Queued(),
	}
	for _, c := range r.chunks {
		if c.hasCollider {
			s.Colliders++
		}
	}
	return s
}
