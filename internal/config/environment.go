package config

import (
	"fmt"

	"endless-terrain/internal/heightmap"
	"endless-terrain/internal/meshing"
	"endless-terrain/internal/profiling"
	"endless-terrain/internal/terrain"
	"endless-terrain/internal/workqueue"
)

// Environment wires the configured height builder, mesh builder, layout
// and ladder around the given queue, sink and profiler.
func (c *Config) Environment(queue *workqueue.Queue, sink terrain.Sink, profiler *profiling.Profiler) (terrain.Environment, error) {
	settings, err := c.HeightSettings()
	if err != nil {
		return terrain.Environment{}, fmt.Errorf("height settings: %w", err)
	}
	layout, err := c.MeshLayout()
	if err != nil {
		return terrain.Environment{}, fmt.Errorf("mesh layout: %w", err)
	}
	ladder, err := c.Ladder()
	if err != nil {
		return terrain.Environment{}, fmt.Errorf("detail ladder: %w", err)
	}
	return terrain.Environment{
		Queue:          queue,
		Heights:        heightmap.NewBuilder(settings),
		Geometry:       meshing.NewBuilder(layout.MeshScale),
		Sink:           sink,
		Ladder:         ladder,
		Layout:         layout,
		ColliderLockIn: c.Streaming.ColliderLockInDistance,
		RescanDistance: c.Streaming.RescanDistance,
		Profiler:       profiler,
	}, nil
}
