package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"

	"endless-terrain/internal/config"
	"endless-terrain/internal/heightmap"
	"endless-terrain/internal/terrain"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML config file (defaults when empty)")
		cellX      = flag.Int("x", 0, "chunk cell X")
		cellY      = flag.Int("y", 0, "chunk cell Y")
		out        = flag.String("out", "heightmap.png", "output PNG path")
		scale      = flag.Int("scale", 4, "integer upscale factor")
		label      = flag.Bool("label", true, "draw the cell and height range on the image")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	settings, err := cfg.HeightSettings()
	if err != nil {
		log.Fatalf("height settings: %v", err)
	}
	layout, err := cfg.MeshLayout()
	if err != nil {
		log.Fatalf("mesh layout: %v", err)
	}

	coord := terrain.Coord{X: *cellX, Y: *cellY}
	centre := coord.Centre(layout.WorldSize()).Mul(1 / layout.MeshScale)
	n := layout.VerticesPerLine
	field := heightmap.NewBuilder(settings).Build(n, n, centre)

	img := upscale(colourise(field, settings.MinHeight(), settings.MaxHeight()), *scale)
	if *label {
		text := fmt.Sprintf("%v  %.1f..%.1f", coord, field.MinValue(), field.MaxValue())
		if err := drawLabel(img, text, 14); err != nil {
			log.Fatalf("draw label: %v", err)
		}
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("create output: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		log.Fatalf("encode png: %v", err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("close output: %v", err)
	}
	fmt.Printf("Wrote %dx%d field for %v to %s (heights %.2f..%.2f)\n",
		n, n, coord, *out, field.MinValue(), field.MaxValue())
}
