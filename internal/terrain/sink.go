package terrain

import (
	"endless-terrain/internal/heightmap"

	"github.com/go-gl/mathgl/mgl32"
)

// Geometry is whatever a GeometryBuilder produces. The terrain package only
// stores it and passes it to the Sink.
type Geometry any

// HeightSource builds the height field for a chunk centred at centre.
// *heightmap.Builder satisfies it. Build runs on worker goroutines.
type HeightSource interface {
	Build(width, height int, centre mgl32.Vec2) *heightmap.HeightField
}

// GeometryBuilder turns a height field into renderable geometry at the
// given LOD. BuildGeometry runs on worker goroutines.
type GeometryBuilder interface {
	BuildGeometry(field *heightmap.HeightField, lod int, flatShading bool) Geometry
}

// GeometryFunc adapts a plain function to GeometryBuilder.
type GeometryFunc func(field *heightmap.HeightField, lod int, flatShading bool) Geometry

func (f GeometryFunc) BuildGeometry(field *heightmap.HeightField, lod int, flatShading bool) Geometry {
	return f(field, lod, flatShading)
}

// Sink receives presentation changes. All calls come from the goroutine
// driving the Registry.
type Sink interface {
	SetVisible(c Coord, visible bool)
	ShowGeometry(c Coord, lod int, g Geometry)
	SetCollider(c Coord, g Geometry)
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) SetVisible(Coord, bool)            {}
func (NopSink) ShowGeometry(Coord, int, Geometry) {}
func (NopSink) SetCollider(Coord, Geometry)       {}
