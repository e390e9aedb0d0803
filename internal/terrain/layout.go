package terrain

import "fmt"

// MaxLevelsOfDetail is the number of supported mesh simplification steps.
// LOD 0 is full detail; LOD n keeps every (2n)th vertex.
const MaxLevelsOfDetail = 5

// SupportedChunkSizes are the per-side quad counts a chunk mesh may use.
// Every one is divisible by each LOD increment.
var SupportedChunkSizes = []int{48, 72, 96, 120, 144, 168, 192, 216, 240}

// SupportedFlatShadedChunkSizes is smaller because flat shading duplicates
// vertices per triangle.
var SupportedFlatShadedChunkSizes = []int{48, 72, 96}

// Layout fixes the sampling grid shared by every chunk.
type Layout struct {
	// VerticesPerLine includes a one-vertex border on each side used only
	// for normals, plus the two outermost mesh edge lines.
	VerticesPerLine int
	MeshScale       float32
	FlatShading     bool
}

// NewLayout picks the grid from the supported size tables.
func NewLayout(chunkSizeIndex, flatShadedChunkSizeIndex int, meshScale float32, flatShading bool) (Layout, error) {
	sizes, index := SupportedChunkSizes, chunkSizeIndex
	if flatShading {
		sizes, index = SupportedFlatShadedChunkSizes, flatShadedChunkSizeIndex
	}
	if index < 0 || index >= len(sizes) {
		return Layout{}, fmt.Errorf("chunk size index %d out of range [0,%d)", index, len(sizes))
	}
	if meshScale <= 0 {
		return Layout{}, fmt.Errorf("mesh scale must be positive, got %v", meshScale)
	}
	return Layout{
		VerticesPerLine: sizes[index] + 5,
		MeshScale:       meshScale,
		FlatShading:     flatShading,
	}, nil
}

// WorldSize is the side length of one chunk in world units.
func (l Layout) WorldSize() float32 {
	return float32(l.VerticesPerLine-3) * l.MeshScale
}
