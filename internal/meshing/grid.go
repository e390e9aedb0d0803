package meshing

import (
	"endless-terrain/internal/heightmap"
	"endless-terrain/internal/terrain"

	"github.com/go-gl/mathgl/mgl32"
)

// VertexStride is number of float32 per vertex (pos.xyz + normal.xyz)
const VertexStride = 6

// Mesh is a chunk-local triangle list centred on the chunk origin.
// Ground X maps to x, ground Y maps to z and height to y.
type Mesh struct {
	LOD         int
	FlatShading bool
	Vertices    []float32
}

// VertexCount returns the number of vertices in the triangle list.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / VertexStride
}

// Builder turns height fields into meshes. It holds no mutable state, so one
// Builder may be shared by every worker.
type Builder struct {
	meshScale float32
}

func NewBuilder(meshScale float32) *Builder {
	if meshScale <= 0 {
		meshScale = 1
	}
	return &Builder{meshScale: meshScale}
}

// BuildGeometry implements terrain.GeometryBuilder.
func (b *Builder) BuildGeometry(field *heightmap.HeightField, lod int, flatShading bool) terrain.Geometry {
	return b.Build(field, lod, flatShading)
}

// Increment is the vertex step used at lod.
func Increment(lod int) int {
	if lod == 0 {
		return 1
	}
	return lod * 2
}

// meshLines lists the sampled line indices. The outermost line on each side
// is border data used only for normals; the last mesh line is always kept
// even when the increment does not land on it.
func meshLines(verticesPerLine, increment int) []int {
	last := verticesPerLine - 2
	lines := make([]int, 0, (last-1)/increment+2)
	for i := 1; i < last; i += increment {
		lines = append(lines, i)
	}
	return append(lines, last)
}

// Build meshes field at lod. Smooth shading takes normals from central
// differences over the full-resolution field; flat shading gives each
// triangle its own face normal.
func (b *Builder) Build(field *heightmap.HeightField, lod int, flatShading bool) *Mesh {
	n := field.Width
	if n < 3 || field.Height != n {
		return &Mesh{LOD: lod, FlatShading: flatShading}
	}
	lines := meshLines(n, Increment(lod))
	quads := len(lines) - 1
	vertices := make([]float32, 0, quads*quads*6*VertexStride)

	d := b.meshScale
	half := float32(n-3) * d / 2
	position := func(i, j int) mgl32.Vec3 {
		return mgl32.Vec3{-half + float32(i-1)*d, field.At(i, j), half - float32(j-1)*d}
	}
	normal := func(i, j int) mgl32.Vec3 {
		dhi := field.At(i+1, j) - field.At(i-1, j)
		dhj := field.At(i, j+1) - field.At(i, j-1)
		return mgl32.Vec3{-dhi, 2 * d, dhj}.Normalize()
	}

	emit := func(p mgl32.Vec3, nrm mgl32.Vec3) {
		vertices = append(vertices, p[0], p[1], p[2], nrm[0], nrm[1], nrm[2])
	}
	emitTriangle := func(i0, j0, i1, j1, i2, j2 int) {
		p0, p1, p2 := position(i0, j0), position(i1, j1), position(i2, j2)
		if flatShading {
			face := p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
			emit(p0, face)
			emit(p1, face)
			emit(p2, face)
			return
		}
		emit(p0, normal(i0, j0))
		emit(p1, normal(i1, j1))
		emit(p2, normal(i2, j2))
	}

	for y := 0; y < quads; y++ {
		j0, j1 := lines[y], lines[y+1]
		for x := 0; x < quads; x++ {
			i0, i1 := lines[x], lines[x+1]
			// Both triangles wind counter-clockwise seen from above.
			emitTriangle(i0, j0, i1, j1, i0, j1)
			emitTriangle(i0, j0, i1, j0, i1, j1)
		}
	}
	return &Mesh{LOD: lod, FlatShading: flatShading, Vertices: vertices}
}
