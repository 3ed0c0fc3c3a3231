package raster

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// TextStrip rasterizes s using face into a grayscale strip sized to the
// glyph ascent/descent, for fonts without a protocol codepage (the
// IBM-Plex escalation path of spec.md §4.3). Grounded on
// other_examples/0e725ab5_rusq-thermoprint's renderTTF/PrintTextTTF
// pattern: render to an image.Image, then hand it to the dither stage.
func TextStrip(s string, face font.Face, width int) *Buffer {
	if face == nil {
		face = basicfont.Face7x13
	}
	metrics := face.Metrics()
	height := (metrics.Ascent + metrics.Descent).Ceil()
	if height < 1 {
		height = 13
	}

	img := image.NewGray(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Gray{Y: 255}), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Gray{Y: 0}),
		Face: face,
		Dot:  fixed.Point26_6{X: 0, Y: metrics.Ascent},
	}
	d.DrawString(s)

	out := NewBuffer(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// standard image.Gray is 0=black/255=white; invert to the
			// Buffer convention (0=white/255=ink) used everywhere else.
			out.Set(x, y, 255-img.GrayAt(x, y).Y)
		}
	}
	return out
}
