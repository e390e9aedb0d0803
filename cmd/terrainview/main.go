package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"
	"time"

	"endless-terrain/internal/camera"
	"endless-terrain/internal/config"
	"endless-terrain/internal/graphics"
	"endless-terrain/internal/profiling"
	"endless-terrain/internal/terrain"
	"endless-terrain/internal/ticker"
	"endless-terrain/internal/workqueue"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	walkSpeed   = 60
	sprintSpeed = 300
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (defaults when empty)")
	fps := flag.Int("fps", 120, "frame rate cap, 0 disables the limiter")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	window, err := setupWindow()
	if err != nil {
		panic(err)
	}

	settings, err := cfg.HeightSettings()
	if err != nil {
		log.Fatalf("height settings: %v", err)
	}
	layout, err := cfg.MeshLayout()
	if err != nil {
		log.Fatalf("mesh layout: %v", err)
	}

	renderer, err := graphics.NewTerrainRenderer(layout.WorldSize(), settings.MinHeight(), settings.MaxHeight())
	if err != nil {
		panic(err)
	}
	defer renderer.Delete()

	queue := workqueue.New()
	profiler := profiling.New()
	env, err := cfg.Environment(queue, renderer, profiler)
	if err != nil {
		log.Fatal(err)
	}
	registry, err := terrain.NewRegistry(env)
	if err != nil {
		log.Fatalf("create registry: %v", err)
	}

	width, height := window.GetFramebufferSize()
	cam := camera.New(width, height)
	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		gl.Viewport(0, 0, int32(width), int32(height))
		cam.SetViewport(width, height)
	})

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.ClearColor(0.55, 0.75, 0.95, 1.0)

	limiter := ticker.NewLimiter(*fps)
	viewer := mgl32.Vec2{0, 0}
	ground := float32(0)

	frames := 0
	lastFPSCheck := time.Now()
	lastTime := time.Now()

	for !window.ShouldClose() {
		frameStart := time.Now()
		dt := float32(frameStart.Sub(lastTime).Seconds())
		lastTime = frameStart
		profiler.Reset()

		if window.GetKey(glfw.KeyEscape) == glfw.Press {
			window.SetShouldClose(true)
		}
		viewer = viewer.Add(movement(window).Mul(dt))

		registry.Tick(viewer)

		// Ease toward the sampled ground so LOD swaps don't jolt the camera.
		if h, ok := registry.HeightAt(viewer); ok {
			ground += (h - ground) * min(1, 5*dt)
		}
		cam.Follow(viewer, ground)

		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		drawn := func() int {
			defer profiler.Track("render.Draw")()
			return renderer.Draw(cam.ViewMatrix(), cam.ProjectionMatrix())
		}()

		window.SwapBuffers()
		glfw.PollEvents()

		frames++
		if time.Since(lastFPSCheck) >= time.Second {
			stats := registry.Stats()
			window.SetTitle(fmt.Sprintf("endless-terrain | FPS %d | %d drawn | %v", frames, drawn, stats))
			fmt.Println("FPS: ", frames, stats)
			frames = 0
			lastFPSCheck = time.Now()
		}

		if target := limiter.Interval(); target > 0 {
			if took := time.Since(frameStart); took > target {
				fmt.Printf("Frame took too long: %.2fms (target: %.2fms). Top tasks: %s\n",
					float64(took.Microseconds())/1000, float64(target.Microseconds())/1000, profiler.TopN(3))
			}
		}
		limiter.Wait()
	}
}

func setupWindow() (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(1280, 720, "endless-terrain", nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		return nil, err
	}

	// Our own limiter paces frames.
	glfw.SwapInterval(0)

	return window, nil
}

// movement reads WASD or the arrow keys into a ground-plane velocity. Ground
// Y maps to world z, so forward (toward the camera's view) is -Y.
func movement(window *glfw.Window) mgl32.Vec2 {
	pressed := func(keys ...glfw.Key) bool {
		for _, k := range keys {
			if window.GetKey(k) == glfw.Press {
				return true
			}
		}
		return false
	}

	var dir mgl32.Vec2
	if pressed(glfw.KeyW, glfw.KeyUp) {
		dir[1]--
	}
	if pressed(glfw.KeyS, glfw.KeyDown) {
		dir[1]++
	}
	if pressed(glfw.KeyA, glfw.KeyLeft) {
		dir[0]--
	}
	if pressed(glfw.KeyD, glfw.KeyRight) {
		dir[0]++
	}
	if dir.Len() == 0 {
		return dir
	}

	speed := float32(walkSpeed)
	if pressed(glfw.KeyLeftShift, glfw.KeyRightShift) {
		speed = sprintSpeed
	}
	return dir.Normalize().Mul(speed)
}
