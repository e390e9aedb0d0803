package config

import (
	"testing"

	"endless-terrain/internal/profiling"
	"endless-terrain/internal/terrain"
	"endless-terrain/internal/workqueue"

	"github.com/go-gl/mathgl/mgl32"
)

func TestEnvironmentStreamsWithDefaults(t *testing.T) {
	cfg := Default()
	cfg.Streaming.DetailLevels = []DetailLevel{{LOD: 0, VisibleDistance: 100}}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	queue := workqueue.New()
	env, err := cfg.Environment(queue, terrain.NopSink{}, profiling.New())
	if err != nil {
		t.Fatalf("Environment: %v", err)
	}
	if env.ColliderLockIn != cfg.Streaming.ColliderLockInDistance {
		t.Errorf("expected lock-in %v, got %v", cfg.Streaming.ColliderLockInDistance, env.ColliderLockIn)
	}

	r, err := terrain.NewRegistry(env)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	r.Tick(mgl32.Vec2{0, 0})
	queue.Wait()
	r.Tick(mgl32.Vec2{0, 0})
	queue.Wait()
	r.Tick(mgl32.Vec2{0, 0})

	c, ok := r.Chunk(terrain.Coord{})
	if !ok {
		t.Fatal("expected the viewer's chunk to exist")
	}
	if !c.IsVisible() || c.LODIndex() != 0 {
		t.Errorf("expected origin chunk visible at lod 0, got visible=%v lod=%d", c.IsVisible(), c.LODIndex())
	}
}

func TestEnvironmentRejectsBadLayout(t *testing.T) {
	cfg := Default()
	cfg.Mesh.ChunkSizeIndex = 99
	if _, err := cfg.Environment(workqueue.New(), nil, nil); err == nil {
		t.Error("expected an out-of-range chunk size to fail")
	}
}
