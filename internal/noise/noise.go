package noise

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl64"
)

// MinScale is the smallest sampling scale accepted by the generator.
// Smaller (or non-positive) scales are clamped to it.
const MinScale = 0.0001

// Octave offsets are drawn from [-offsetRange, offsetRange).
const offsetRange = 100000

// Parameters of the single-octave perlin layer. Octaves are accumulated here,
// not inside go-perlin.
const (
	layerAlpha = 2
	layerBeta  = 2
)

// latticePeriod is the period of go-perlin's permutation lattice. Sample
// coordinates are wrapped into it so the lattice index stays inside int32.
const latticePeriod = 256

// NormalizeMode selects how raw accumulated noise is mapped into [0,1].
type NormalizeMode int

const (
	// NormalizeLocal remaps each map from its own observed extrema.
	NormalizeLocal NormalizeMode = iota
	// NormalizeGlobal remaps using the theoretical amplitude sum so
	// neighbouring maps agree without talking to each other.
	NormalizeGlobal
)

func (m NormalizeMode) String() string {
	switch m {
	case NormalizeLocal:
		return "local"
	case NormalizeGlobal:
		return "global"
	default:
		return fmt.Sprintf("NormalizeMode(%d)", int(m))
	}
}

// ParseNormalizeMode accepts "local" or "global" (case-insensitive).
func ParseNormalizeMode(s string) (NormalizeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "local", "":
		return NormalizeLocal, nil
	case "global":
		return NormalizeGlobal, nil
	default:
		return NormalizeLocal, fmt.Errorf("unknown normalize mode %q", s)
	}
}

// Config holds fractal noise parameters. It is treated as immutable once a
// generation run starts.
type Config struct {
	Seed        int64
	Scale       float64
	Octaves     int
	Persistence float64
	Lacunarity  float64
	Offset      mgl64.Vec2
	Normalize   NormalizeMode
}

// Validated returns a copy with every parameter clamped into its legal range.
func (c Config) Validated() Config {
	if c.Scale < MinScale {
		c.Scale = MinScale
	}
	if c.Octaves < 1 {
		c.Octaves = 1
	}
	c.Persistence = math.Min(math.Max(c.Persistence, 0), 1)
	if c.Lacunarity < 1 {
		c.Lacunarity = 1
	}
	return c
}

// Map is the raw, not yet normalized, octave accumulation for a grid.
// Values are row-major: Values[y*Width+x].
type Map struct {
	Width, Height int
	Values        []float32
	Min, Max      float32
	// MaxPossible is the sum of octave amplitudes.
	MaxPossible float32
}

// Sample accumulates cfg.Octaves layers of perlin noise over a width x height
// grid centred on cfg.Offset. The output depends only on its arguments.
func Sample(width, height int, cfg Config) *Map {
	cfg = cfg.Validated()
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	prng := rand.New(rand.NewSource(cfg.Seed))
	offsets := make([]mgl64.Vec2, cfg.Octaves)
	maxPossible := 0.0
	amplitude := 1.0
	for i := range offsets {
		offsets[i] = mgl64.Vec2{
			float64(prng.Intn(2*offsetRange)-offsetRange) + cfg.Offset.X(),
			float64(prng.Intn(2*offsetRange)-offsetRange) - cfg.Offset.Y(),
		}
		maxPossible += amplitude
		amplitude *= cfg.Persistence
	}

	layer := perlin.NewPerlin(layerAlpha, layerBeta, 1, cfg.Seed)

	m := &Map{
		Width:       width,
		Height:      height,
		Values:      make([]float32, width*height),
		Min:         float32(math.MaxFloat32),
		Max:         -float32(math.MaxFloat32),
		MaxPossible: float32(maxPossible),
	}

	halfWidth := float64(width) / 2
	halfHeight := float64(height) / 2

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			amplitude := 1.0
			frequency := 1.0
			value := 0.0

			for _, off := range offsets {
				sx := (float64(x) - halfWidth + off.X()) / cfg.Scale * frequency
				sy := (float64(y) - halfHeight + off.Y()) / cfg.Scale * frequency
				value += layer.Noise2D(math.Mod(sx, latticePeriod), math.Mod(sy, latticePeriod)) * amplitude

				amplitude *= cfg.Persistence
				frequency *= cfg.Lacunarity
			}

			v := float32(value)
			if v > m.Max {
				m.Max = v
			}
			if v < m.Min {
				m.Min = v
			}
			m.Values[y*width+x] = v
		}
	}
	return m
}

// Normalized returns a new slice holding the map remapped into [0,1]
// (Local) or [0,+inf) (Global). The map itself is left untouched.
func (m *Map) Normalized(mode NormalizeMode) []float32 {
	out := make([]float32, len(m.Values))
	switch mode {
	case NormalizeGlobal:
		for i, v := range m.Values {
			n := (v + 1) / m.MaxPossible
			if n < 0 {
				n = 0
			}
			out[i] = n
		}
	default:
		span := m.Max - m.Min
		for i, v := range m.Values {
			if span <= 0 {
				out[i] = 0
				continue
			}
			out[i] = (v - m.Min) / span
		}
	}
	return out
}

// Generate samples and normalizes a grid using cfg.Normalize.
func Generate(width, height int, cfg Config) []float32 {
	return Sample(width, height, cfg).Normalized(cfg.Normalize)
}
