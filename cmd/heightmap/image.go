package main

import (
	"image"
	"image/color"

	"endless-terrain/internal/heightmap"

	"golang.org/x/image/draw"
)

type band struct {
	upTo   float32
	colour color.RGBA
}

// bands maps normalised height to a colour. Heights above the last band
// take its colour.
var bands = []band{
	{0.04, color.RGBA{38, 89, 178, 255}},
	{0.10, color.RGBA{209, 194, 133, 255}},
	{0.50, color.RGBA{77, 140, 56, 255}},
	{0.80, color.RGBA{115, 107, 102, 255}},
	{1.00, color.RGBA{242, 242, 247, 255}},
}

func bandColour(t float32) color.RGBA {
	for _, b := range bands {
		if t <= b.upTo {
			return b.colour
		}
	}
	return bands[len(bands)-1].colour
}

// colourise paints one pixel per height sample, normalising against
// [lo, hi]. Row y of the field is row y of the image.
func colourise(field *heightmap.HeightField, lo, hi float32) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, field.Width, field.Height))
	span := hi - lo
	for y := 0; y < field.Height; y++ {
		for x := 0; x < field.Width; x++ {
			t := float32(0)
			if span > 0 {
				t = (field.At(x, y) - lo) / span
			}
			img.SetRGBA(x, y, bandColour(t))
		}
	}
	return img
}

// upscale resamples src by an integer factor.
func upscale(src *image.RGBA, factor int) *image.RGBA {
	if factor <= 1 {
		return src
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}
