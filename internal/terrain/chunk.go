package terrain

import (
	"fmt"
	"log"
	"math"

	"endless-terrain/internal/heightmap"
	"endless-terrain/internal/workqueue"

	"github.com/go-gl/mathgl/mgl32"
)

// SlotState tracks one LOD geometry request.
type SlotState int

const (
	NotRequested SlotState = iota
	Requested
	Available
)

func (s SlotState) String() string {
	switch s {
	case Requested:
		return "requested"
	case Available:
		return "available"
	}
	return "not-requested"
}

type lodSlot struct {
	lod      int
	state    SlotState
	geometry Geometry
}

// result carries a producer's value or the panic it recovered from.
type result[T any] struct {
	value T
	err   error
}

func guarded[T any](produce func() T) func() result[T] {
	return func() (r result[T]) {
		defer func() {
			if p := recover(); p != nil {
				r.err = fmt.Errorf("producer panic: %v", p)
			}
		}()
		return result[T]{value: produce()}
	}
}

// ViewerSource reports where the observer currently is.
type ViewerSource interface {
	ViewerPosition() mgl32.Vec2
}

// Chunk is one grid cell. All methods must be called from the goroutine
// that drains the work queue.
type Chunk struct {
	coord        Coord
	env          *Environment
	viewer       ViewerSource
	bounds       Bounds
	sampleCentre mgl32.Vec2

	field         *heightmap.HeightField
	fieldReceived bool

	slots       []lodSlot
	previousLOD int

	visible     bool
	hasCollider bool
	evicted     bool

	observers []func(c *Chunk, visible bool)
}

func newChunk(coord Coord, env *Environment, viewer ViewerSource) *Chunk {
	worldSize := env.Layout.WorldSize()
	c := &Chunk{
		coord:        coord,
		env:          env,
		viewer:       viewer,
		bounds:       Bounds{Centre: coord.Centre(worldSize), Size: worldSize},
		sampleCentre: coord.Centre(worldSize).Mul(1 / env.Layout.MeshScale),
		slots:        make([]lodSlot, env.Ladder.Len()),
		previousLOD:  -1,
	}
	for i := range c.slots {
		c.slots[i].lod = env.Ladder.Level(i).LOD
	}
	env.Sink.SetVisible(coord, false)
	return c
}

// OnVisibilityChanged registers fn to run whenever the chunk shows or hides.
func (c *Chunk) OnVisibilityChanged(fn func(c *Chunk, visible bool)) {
	c.observers = append(c.observers, fn)
}

// Load requests the height field. The chunk stays invisible until it arrives.
func (c *Chunk) Load() {
	n := c.env.Layout.VerticesPerLine
	centre := c.sampleCentre
	heights := c.env.Heights
	workqueue.Submit(c.env.Queue, guarded(func() *heightmap.HeightField {
		return heights.Build(n, n, centre)
	}), c.onHeightField)
}

func (c *Chunk) onHeightField(r result[*heightmap.HeightField]) {
	if c.evicted {
		return
	}
	if r.err != nil {
		log.Printf("chunk %v: height field: %v", c.coord, r.err)
		return
	}
	c.field = r.value
	c.fieldReceived = true
	c.Update()
}

// Update selects the LOD for the current viewer distance, swaps in the
// selected geometry if it is ready, requests it otherwise, and flips
// visibility. A chunk without its height field does nothing.
func (c *Chunk) Update() {
	if !c.fieldReceived || c.evicted {
		return
	}
	ladder := c.env.Ladder
	distance := float32(math.Sqrt(float64(c.bounds.SqrDistance(c.viewer.ViewerPosition()))))
	visible := distance <= ladder.MaxViewDistance()

	if visible {
		index := ladder.Select(distance)
		if index != c.previousLOD {
			slot := &c.slots[index]
			switch slot.state {
			case Available:
				c.previousLOD = index
				c.env.Sink.ShowGeometry(c.coord, slot.lod, slot.geometry)
			case NotRequested:
				c.request(index)
			}
		}
	}

	if visible != c.visible {
		c.setVisible(visible)
	}
}

// UpdateCollider arms the collider slot once the viewer is inside the
// collider rung's distance and installs the shape once the viewer is inside
// the lock-in distance and the geometry is ready. Installation is permanent.
func (c *Chunk) UpdateCollider() {
	if c.hasCollider || !c.fieldReceived || c.evicted {
		return
	}
	ladder := c.env.Ladder
	index := ladder.ColliderIndex()
	sqr := c.bounds.SqrDistance(c.viewer.ViewerPosition())

	threshold := ladder.Level(index).VisibleDistance
	if sqr < threshold*threshold && c.slots[index].state == NotRequested {
		c.request(index)
	}

	lockIn := c.env.ColliderLockIn
	if sqr < lockIn*lockIn && c.slots[index].state == Available {
		c.env.Sink.SetCollider(c.coord, c.slots[index].geometry)
		c.hasCollider = true
	}
}

func (c *Chunk) request(index int) {
	slot := &c.slots[index]
	slot.state = Requested
	field, lod, flat := c.field, slot.lod, c.env.Layout.FlatShading
	builder := c.env.Geometry
	workqueue.Submit(c.env.Queue, guarded(func() Geometry {
		return builder.BuildGeometry(field, lod, flat)
	}), func(r result[Geometry]) {
		c.onGeometry(index, r)
	})
}

// onGeometry stores a finished slot. A failed slot stays Requested and is
// never retried.
func (c *Chunk) onGeometry(index int, r result[Geometry]) {
	if c.evicted {
		return
	}
	if r.err != nil {
		log.Printf("chunk %v: lod %d geometry: %v", c.coord, c.slots[index].lod, r.err)
		return
	}
	slot := &c.slots[index]
	slot.geometry = r.value
	slot.state = Available
	c.Update()
	if index == c.env.Ladder.ColliderIndex() {
		c.UpdateCollider()
	}
}

func (c *Chunk) setVisible(visible bool) {
	c.visible = visible
	c.env.Sink.SetVisible(c.coord, visible)
	for _, fn := range c.observers {
		fn(c, visible)
	}
}

// evict hides the chunk and makes it ignore any results still in flight.
func (c *Chunk) evict() {
	if c.visible {
		c.setVisible(false)
	}
	c.evicted = true
}

func (c *Chunk) Coord() Coord                        { return c.coord }
func (c *Chunk) Bounds() Bounds                      { return c.bounds }
func (c *Chunk) IsVisible() bool                     { return c.visible }
func (c *Chunk) HasCollider() bool                   { return c.hasCollider }
func (c *Chunk) HeightFieldReceived() bool           { return c.fieldReceived }
func (c *Chunk) HeightField() *heightmap.HeightField { return c.field }
func (c *Chunk) Evicted() bool                       { return c.evicted }

// LODIndex is the ladder index currently shown, or -1 before any geometry.
func (c *Chunk) LODIndex() int { return c.previousLOD }

// SlotState reports the request state of ladder index i.
func (c *Chunk) SlotState(i int) SlotState { return c.slots[i].state }
