package main

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// drawLabel writes text in the top-left corner of img using the bundled Go
// Regular face at the given pixel size.
func drawLabel(img *image.RGBA, text string, size float64) error {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return fmt.Errorf("new face: %w", err)
	}
	defer func() { _ = face.Close() }()

	ascent := face.Metrics().Ascent.Ceil()
	margin := int(size / 2)

	// Drop shadow first so the text reads on snow and water alike.
	for _, pass := range []struct {
		offset int
		colour color.Color
	}{
		{1, color.Black},
		{0, color.White},
	} {
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(pass.colour),
			Face: face,
			Dot:  fixed.P(margin+pass.offset, margin+ascent+pass.offset),
		}
		d.DrawString(text)
	}
	return nil
}
