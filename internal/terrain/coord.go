package terrain

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Coord addresses a chunk on the integer grid. World position of the chunk
// centre is Coord * Layout.WorldSize().
type Coord struct {
	X, Y int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Centre returns the world-space centre of the chunk for the given cell size.
func (c Coord) Centre(worldSize float32) mgl32.Vec2 {
	return mgl32.Vec2{float32(c.X) * worldSize, float32(c.Y) * worldSize}
}

// CoordAt returns the chunk whose cell contains p. Halfway points round to
// the even coordinate.
func CoordAt(p mgl32.Vec2, worldSize float32) Coord {
	return Coord{
		X: int(math.RoundToEven(float64(p.X() / worldSize))),
		Y: int(math.RoundToEven(float64(p.Y() / worldSize))),
	}
}

// Bounds is the axis-aligned square a chunk covers in the ground plane.
type Bounds struct {
	Centre mgl32.Vec2
	Size   float32
}

// SqrDistance is the squared distance from p to the nearest point of the
// square; zero when p is inside.
func (b Bounds) SqrDistance(p mgl32.Vec2) float32 {
	half := b.Size / 2
	dx := max(absf(p.X()-b.Centre.X())-half, 0)
	dy := max(absf(p.Y()-b.Centre.Y())-half, 0)
	return dx*dx + dy*dy
}

func (b Bounds) Contains(p mgl32.Vec2) bool {
	return b.SqrDistance(p) == 0
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
