package config

import (
	"fmt"
	"os"
	"path/filepath"

	"endless-terrain/internal/heightmap"
	"endless-terrain/internal/terrain"

	"gopkg.in/yaml.v3"
)

// Default returns a configuration that streams a rolling landscape with
// three detail levels.
func Default() Config {
	return Config{
		Noise: NoiseSection{
			Seed:          1,
			Scale:         50,
			Octaves:       6,
			Persistence:   0.5,
			Lacunarity:    2,
			NormalizeMode: "global",
		},
		Height: HeightSection{
			Multiplier: 30,
			Curve: []heightmap.Key{
				{Time: 0, Value: 0},
				{Time: 0.4, Value: 0.05},
				{Time: 0.7, Value: 0.5},
				{Time: 1, Value: 1},
			},
		},
		Mesh: MeshSection{
			MeshScale:      2.5,
			ChunkSizeIndex: 4,
		},
		Streaming: StreamingSection{
			DetailLevels: []DetailLevel{
				{LOD: 0, VisibleDistance: 200},
				{LOD: 1, VisibleDistance: 400},
				{LOD: 2, VisibleDistance: 600},
			},
			ColliderLODIndex:       0,
			ColliderLockInDistance: terrain.DefaultColliderLockIn,
			RescanDistance:         terrain.DefaultRescanDistance,
		},
	}
}

// WriteDefault writes the default configuration to the provided path.
func WriteDefault(path string) error {
	cfg := Default()

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}

	return nil
}
