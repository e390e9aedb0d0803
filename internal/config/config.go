package config

import (
	"errors"
	"fmt"
	"os"

	"endless-terrain/internal/heightmap"
	"endless-terrain/internal/noise"
	"endless-terrain/internal/terrain"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// MinNoiseScale is the smallest scale a config file may ask for.
const MinNoiseScale = 0.01

type Config struct {
	Noise     NoiseSection     `yaml:"noise"`
	Height    HeightSection    `yaml:"height"`
	Mesh      MeshSection      `yaml:"mesh"`
	Streaming StreamingSection `yaml:"streaming"`
}

type NoiseSection struct {
	Seed          int64      `yaml:"seed"`
	Scale         float64    `yaml:"scale"`
	Octaves       int        `yaml:"octaves"`
	Persistence   float64    `yaml:"persistence"`
	Lacunarity    float64    `yaml:"lacunarity"`
	Offset        [2]float64 `yaml:"offset,flow"`
	NormalizeMode string     `yaml:"normalize_mode"`
}

type HeightSection struct {
	Multiplier float32         `yaml:"multiplier"`
	UseFalloff bool            `yaml:"use_falloff"`
	Curve      []heightmap.Key `yaml:"curve"`
}

type MeshSection struct {
	MeshScale                float32 `yaml:"mesh_scale"`
	UseFlatShading           bool    `yaml:"use_flat_shading"`
	ChunkSizeIndex           int     `yaml:"chunk_size_index"`
	FlatShadedChunkSizeIndex int     `yaml:"flat_shaded_chunk_size_index"`
}

type StreamingSection struct {
	DetailLevels           []DetailLevel `yaml:"detail_levels"`
	ColliderLODIndex       int           `yaml:"collider_lod_index"`
	ColliderLockInDistance float32       `yaml:"collider_lock_in_distance"`
	RescanDistance         float32       `yaml:"rescan_distance"`
}

type DetailLevel struct {
	LOD             int     `yaml:"lod"`
	VisibleDistance float32 `yaml:"visible_distance"`
}

// Load reads a YAML file over the defaults and validates the result. An
// empty path yields the validated defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate clamps noise values into range, fills in streaming defaults and
// rejects anything that cannot be streamed.
func (c *Config) Validate() error {
	n := &c.Noise
	n.Scale = max(n.Scale, MinNoiseScale)
	n.Octaves = max(n.Octaves, 1)
	n.Persistence = min(max(n.Persistence, 0), 1)
	n.Lacunarity = max(n.Lacunarity, 1)
	if _, err := noise.ParseNormalizeMode(n.NormalizeMode); err != nil {
		return fmt.Errorf("noise.normalize_mode: %w", err)
	}

	if _, err := c.HeightSettings(); err != nil {
		return fmt.Errorf("height.curve: %w", err)
	}
	if _, err := c.MeshLayout(); err != nil {
		return fmt.Errorf("mesh: %w", err)
	}

	s := &c.Streaming
	if s.ColliderLockInDistance < 0 {
		return errors.New("streaming.collider_lock_in_distance cannot be negative")
	}
	if s.ColliderLockInDistance == 0 {
		s.ColliderLockInDistance = terrain.DefaultColliderLockIn
	}
	if s.RescanDistance < 0 {
		return errors.New("streaming.rescan_distance cannot be negative")
	}
	if s.RescanDistance == 0 {
		s.RescanDistance = terrain.DefaultRescanDistance
	}
	if _, err := c.Ladder(); err != nil {
		return fmt.Errorf("streaming.detail_levels: %w", err)
	}
	return nil
}

// NoiseConfig converts the noise section. Call after Validate.
func (c *Config) NoiseConfig() noise.Config {
	mode, _ := noise.ParseNormalizeMode(c.Noise.NormalizeMode)
	return noise.Config{
		Seed:        c.Noise.Seed,
		Scale:       c.Noise.Scale,
		Octaves:     c.Noise.Octaves,
		Persistence: c.Noise.Persistence,
		Lacunarity:  c.Noise.Lacunarity,
		Offset:      mgl64.Vec2{c.Noise.Offset[0], c.Noise.Offset[1]},
		Normalize:   mode,
	}
}

// HeightSettings builds the height field settings. An empty curve means the
// identity mapping.
func (c *Config) HeightSettings() (heightmap.Settings, error) {
	s := heightmap.Settings{
		Noise:      c.NoiseConfig(),
		Multiplier: c.Height.Multiplier,
		UseFalloff: c.Height.UseFalloff,
	}
	if len(c.Height.Curve) > 0 {
		curve, err := heightmap.NewCurve(c.Height.Curve...)
		if err != nil {
			return heightmap.Settings{}, err
		}
		s.Curve = curve
	}
	return s, nil
}

func (c *Config) MeshLayout() (terrain.Layout, error) {
	m := c.Mesh
	return terrain.NewLayout(m.ChunkSizeIndex, m.FlatShadedChunkSizeIndex, m.MeshScale, m.UseFlatShading)
}

func (c *Config) Ladder() (*terrain.Ladder, error) {
	levels := make([]terrain.DetailLevel, len(c.Streaming.DetailLevels))
	for i, l := range c.Streaming.DetailLevels {
		levels[i] = terrain.DetailLevel{LOD: l.LOD, VisibleDistance: l.VisibleDistance}
	}
	return terrain.NewLadder(levels, c.Streaming.ColliderLODIndex)
}
