package main

import (
	"fmt"
	"sort"
	"strings"

	"endless-terrain/internal/meshing"
	"endless-terrain/internal/terrain"
)

// countingSink stands in for a renderer. It remembers what each chunk is
// showing and tallies uploads per level of detail.
type countingSink struct {
	visible   map[terrain.Coord]bool
	showing   map[terrain.Coord]int
	uploads   map[int]int
	vertices  int
	colliders int
}

func newCountingSink() *countingSink {
	return &countingSink{
		visible: make(map[terrain.Coord]bool),
		showing: make(map[terrain.Coord]int),
		uploads: make(map[int]int),
	}
}

func (s *countingSink) SetVisible(c terrain.Coord, visible bool) {
	s.visible[c] = visible
}

func (s *countingSink) ShowGeometry(c terrain.Coord, lod int, g terrain.Geometry) {
	s.showing[c] = lod
	s.uploads[lod]++
	if m, ok := g.(*meshing.Mesh); ok {
		s.vertices += m.VertexCount()
	}
}

func (s *countingSink) SetCollider(c terrain.Coord, g terrain.Geometry) {
	s.colliders++
}

func (s *countingSink) String() string {
	lods := make([]int, 0, len(s.uploads))
	for lod := range s.uploads {
		lods = append(lods, lod)
	}
	sort.Ints(lods)

	var b strings.Builder
	for _, lod := range lods {
		fmt.Fprintf(&b, "lod%d=%d ", lod, s.uploads[lod])
	}
	fmt.Fprintf(&b, "vertices=%d colliders=%d", s.vertices, s.colliders)
	return b.String()
}
