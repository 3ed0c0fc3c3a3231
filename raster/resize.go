package raster

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// ResizeMode selects the interpolation kernel used by Resize.
type ResizeMode int

const (
	// ResizeBilinear uses golang.org/x/image/draw's approximate bilinear
	// kernel, matching sschueller-xp-d463b-pdf-printer's
	// xdraw.ApproxBiLinear.Scale usage.
	ResizeBilinear ResizeMode = iota
	// ResizeArea averages source pixels per destination cell; preferred
	// for downscaling continuous-tone images ahead of dithering.
	ResizeArea
)

// Resize scales src to targetWidth, preserving aspect ratio, per
// spec.md §4.2 stage 1. If src already has the target width the
// original buffer is returned unchanged.
func Resize(src *Buffer, targetWidth int, mode ResizeMode) *Buffer {
	if targetWidth <= 0 || src.Width == targetWidth {
		return src
	}
	targetHeight := int(float64(src.Height) * float64(targetWidth) / float64(src.Width))
	if targetHeight < 1 {
		targetHeight = 1
	}
	switch mode {
	case ResizeArea:
		return resizeArea(src, targetWidth, targetHeight)
	default:
		return resizeBilinear(src, targetWidth, targetHeight)
	}
}

func resizeBilinear(src *Buffer, w, h int) *Buffer {
	srcImg := bufferToGray(src)
	dst := image.NewGray(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), srcImg, srcImg.Bounds(), draw.Over, nil)
	return grayToBuffer(dst)
}

func resizeArea(src *Buffer, w, h int) *Buffer {
	out := NewBuffer(w, h)
	xRatio := float64(src.Width) / float64(w)
	yRatio := float64(src.Height) / float64(h)
	for y := 0; y < h; y++ {
		sy0 := int(float64(y) * yRatio)
		sy1 := int(float64(y+1) * yRatio)
		if sy1 <= sy0 {
			sy1 = sy0 + 1
		}
		if sy1 > src.Height {
			sy1 = src.Height
		}
		for x := 0; x < w; x++ {
			sx0 := int(float64(x) * xRatio)
			sx1 := int(float64(x+1) * xRatio)
			if sx1 <= sx0 {
				sx1 = sx0 + 1
			}
			if sx1 > src.Width {
				sx1 = src.Width
			}
			sum, n := 0, 0
			for sy := sy0; sy < sy1; sy++ {
				for sx := sx0; sx < sx1; sx++ {
					sum += int(src.At(sx, sy))
					n++
				}
			}
			if n > 0 {
				out.Set(x, y, uint8(sum/n))
			}
		}
	}
	return out
}

func bufferToGray(b *Buffer) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, b.Width, b.Height))
	copy(g.Pix, b.Pix)
	return g
}

func grayToBuffer(g *image.Gray) *Buffer {
	b := NewBuffer(g.Bounds().Dx(), g.Bounds().Dy())
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			c := g.GrayAt(x, y)
			b.Set(x, y, c.Y)
		}
	}
	return b
}

// FromImage converts a decoded image.Image (a host-supplied photo, logo,
// etc.) to a grayscale Buffer using the standard luminance model.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := NewBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gr := color.GrayModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray)
			out.Set(x, y, 255-gr.Y) // invert: image luminance -> ink density
		}
	}
	return out
}
