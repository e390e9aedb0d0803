package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"endless-terrain/internal/config"
	"endless-terrain/internal/profiling"
	"endless-terrain/internal/terrain"
	"endless-terrain/internal/ticker"
	"endless-terrain/internal/workqueue"

	"github.com/go-gl/mathgl/mgl32"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML config file (defaults when empty)")
		initPath   = flag.String("init", "", "write the default config to this path and exit")
		ticks      = flag.Int("ticks", 600, "number of ticks to run, 0 runs until interrupted")
		speed      = flag.Float64("speed", 40, "viewer speed in world units per second")
		rate       = flag.Int("rate", 60, "ticks per second, 0 runs unpaced")
		radius     = flag.Int("radius", 0, "evict chunks further than this many cells from the viewer, 0 keeps everything")
		orbit      = flag.Float64("orbit", 600, "orbit radius in world units, 0 walks in a straight line")
	)
	flag.Parse()

	if *initPath != "" {
		if err := config.WriteDefault(*initPath); err != nil {
			log.Fatalf("write default config: %v", err)
		}
		fmt.Println("Wrote default config to", *initPath)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, options{
		ticks:  *ticks,
		speed:  float32(*speed),
		rate:   *rate,
		radius: *radius,
		orbit:  float32(*orbit),
	}); err != nil {
		log.Fatal(err)
	}
}

type options struct {
	ticks  int
	speed  float32
	rate   int
	radius int
	orbit  float32
}

func run(ctx context.Context, cfg *config.Config, opts options) error {
	queue := workqueue.New()
	profiler := profiling.New()
	sink := newCountingSink()

	env, err := cfg.Environment(queue, sink, profiler)
	if err != nil {
		return err
	}
	registry, err := terrain.NewRegistry(env)
	if err != nil {
		return fmt.Errorf("create registry: %w", err)
	}

	log.Printf("streaming: world size %.1f, %d cells in view, %d detail levels",
		env.Layout.WorldSize(), registry.ChunksInView(), env.Ladder.Len())

	limiter := ticker.NewLimiter(opts.rate)
	dt := float32(1) / 60
	if opts.rate > 0 {
		dt = 1 / float32(opts.rate)
	}
	budget := limiter.Interval()
	if budget == 0 {
		budget = 16 * time.Millisecond
	}

	var (
		elapsed    float32
		delivered  int
		evicted    int
		lastReport = time.Now()
	)
	for tick := 0; opts.ticks == 0 || tick < opts.ticks; tick++ {
		if ctx.Err() != nil {
			log.Println("interrupted")
			break
		}

		start := time.Now()
		profiler.Reset()

		elapsed += dt
		viewer := viewerAt(elapsed, opts.speed, opts.orbit)
		delivered += registry.Tick(viewer)
		if opts.radius > 0 {
			evicted += registry.EvictBeyond(registry.ViewerCoord(), opts.radius)
		}

		if took := time.Since(start); took > budget {
			log.Printf("Slow tick: %v. Top tasks: %s", took, profiler.TopN(3))
		}

		if time.Since(lastReport) >= time.Second {
			log.Printf("viewer=%v cell=%v %v delivered=%d evicted=%d",
				viewer, registry.ViewerCoord(), registry.Stats(), delivered, evicted)
			lastReport = time.Now()
		}

		limiter.Wait()
	}

	// Let outstanding builds finish so the final numbers are settled.
	queue.Wait()
	delivered += registry.Tick(registry.ViewerPosition())

	log.Printf("final: %v delivered=%d evicted=%d", registry.Stats(), delivered, evicted)
	log.Printf("sink: %v", sink)
	return nil
}

// viewerAt is the simulated viewer path. A zero orbit walks along +X.
func viewerAt(t, speed, orbit float32) mgl32.Vec2 {
	if orbit <= 0 {
		return mgl32.Vec2{t * speed, 0}
	}
	angle := float64(t * speed / orbit)
	return mgl32.Vec2{
		orbit * float32(math.Cos(angle)),
		orbit * float32(math.Sin(angle)),
	}
}
