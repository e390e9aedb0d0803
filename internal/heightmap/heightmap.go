package heightmap

import (
	"math"

	"endless-terrain/internal/noise"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Settings describes how noise turns into elevation.
type Settings struct {
	Noise      noise.Config
	Curve      *Curve
	Multiplier float32
	// UseFalloff subtracts an island mask from the normalized noise before
	// the curve is applied.
	UseFalloff bool
}

func (s Settings) curve() *Curve {
	if s.Curve == nil {
		return Linear()
	}
	return s.Curve.Clone()
}

// MinHeight is the lowest elevation the settings can produce for
// normalized noise in [0,1]. Renderers use it as the bottom of the
// colour bands.
func (s Settings) MinHeight() float32 {
	return s.Multiplier * s.curve().Evaluate(0)
}

// MaxHeight is the elevation produced by normalized noise of 1.
func (s Settings) MaxHeight() float32 {
	return s.Multiplier * s.curve().Evaluate(1)
}

// HeightField is an immutable row-major grid of elevations.
type HeightField struct {
	Width, Height int
	values        []float32
	min, max      float32
}

// NewHeightField wraps values (row-major, width*height) and computes its extrema.
func NewHeightField(width, height int, values []float32) *HeightField {
	h := &HeightField{Width: width, Height: height, values: values}
	h.min, h.max = extrema(values)
	return h
}

func extrema(values []float32) (float32, float32) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi := float32(math.MaxFloat32), -float32(math.MaxFloat32)
	for _, v := range values {
		if v > hi {
			hi = v
		}
		if v < lo {
			lo = v
		}
	}
	return lo, hi
}

// At returns the elevation at column x, row y.
func (h *HeightField) At(x, y int) float32 {
	return h.values[y*h.Width+x]
}

// Values returns a copy of the grid.
func (h *HeightField) Values() []float32 {
	return append([]float32(nil), h.values...)
}

// MinValue is the lowest post-curve elevation in the field.
func (h *HeightField) MinValue() float32 { return h.min }

// MaxValue is the highest post-curve elevation in the field.
func (h *HeightField) MaxValue() float32 { return h.max }

// Builder produces height fields for arbitrary sample centres. It holds no
// mutable state and may be shared by any number of goroutines.
type Builder struct {
	settings Settings
}

func NewBuilder(s Settings) *Builder {
	return &Builder{settings: s}
}

func (b *Builder) Settings() Settings {
	return b.settings
}

// Build samples a width x height field centred on centre.
func (b *Builder) Build(width, height int, centre mgl32.Vec2) *HeightField {
	cfg := b.settings.Noise
	cfg.Offset = cfg.Offset.Add(mgl64.Vec2{float64(centre.X()), float64(centre.Y())})
	values := noise.Generate(width, height, cfg)

	// The island mask is square; rectangular fields are left as is.
	if b.settings.UseFalloff && width == height {
		mask := noise.Falloff(width)
		for i := range values {
			values[i] = mgl32.Clamp(values[i]-mask[i], 0, 1)
		}
	}

	curve := b.settings.curve()
	for i, v := range values {
		values[i] = b.settings.Multiplier * curve.Evaluate(v)
	}
	return NewHeightField(width, height, values)
}
