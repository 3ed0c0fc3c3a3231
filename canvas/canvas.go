// Package canvas composites flow- and absolute-positioned children
// over a shared grayscale buffer using per-child blend modes, then
// dithers the result as one unit.
package canvas

import (
	"github.com/inkwell-labs/thermaldoc/raster"
)

// Blend selects how a child's pixel combines with the canvas beneath
// it. Buffer luminance is already an ink-density channel (0=white,
// 255=black), so every mode operates on it directly with no extra
// inversion. On this channel Add, Screen and Max raise ink (darken),
// while Multiply and Min lower it (lighten).
type Blend int

const (
	BlendNormal Blend = iota
	BlendMultiply
	BlendScreen
	BlendOverlay
	BlendAdd
	BlendDifference
	BlendMin
	BlendMax
)

// Position is an absolute child placement in canvas-local coordinates.
type Position struct{ X, Y int }

// Child is one canvas member: its rendered grayscale content plus how
// it composites. A nil Position means flow layout (stacked
// top-to-bottom in child order); a non-nil Position means absolute
// placement, contributing nothing to auto-height.
type Child struct {
	Buffer   *raster.Buffer
	Position *Position
	Blend    Blend
	Opacity  float64 // [0,1], linear mix against the destination
}

// Rect is an axis-aligned bounding box in canvas-local coordinates.
type Rect struct{ X, Y, W, H int }

// layout computes, for each child, its placed rectangle within a
// canvas of the given width. Flow children stack top-to-bottom at
// x=0; absolute children use their declared Position. This is the
// single source of truth shared by Composite and LayoutQuery, so the
// two never disagree about where anything ended up.
func layout(width int, children []Child) []Rect {
	rects := make([]Rect, len(children))
	flowY := 0
	for i, c := range children {
		w, h := width, 0
		if c.Buffer != nil {
			w, h = c.Buffer.Width, c.Buffer.Height
		}
		if c.Position != nil {
			rects[i] = Rect{X: c.Position.X, Y: c.Position.Y, W: w, H: h}
			continue
		}
		rects[i] = Rect{X: 0, Y: flowY, W: w, H: h}
		flowY += h
	}
	return rects
}

// autoHeight sums the flow children's heights; absolute children never
// extend it, per spec.
func autoHeight(children []Child, rects []Rect) int {
	h := 0
	for i, c := range children {
		if c.Position != nil {
			continue
		}
		bottom := rects[i].Y + rects[i].H
		if bottom > h {
			h = bottom
		}
	}
	return h
}

// Composite renders children onto a width x height grayscale canvas
// (height <= 0 means auto: sum of flow children's heights). Blend
// modes apply per spec.md §4.6; clamping happens at every step.
func Composite(width, height int, children []Child) *raster.Buffer {
	rects := layout(width, children)
	if height <= 0 {
		height = autoHeight(children, rects)
	}
	if height < 1 {
		height = 1
	}
	out := raster.NewBuffer(width, height)

	for i, c := range children {
		if c.Buffer == nil {
			continue
		}
		r := rects[i]
		opacity := c.Opacity
		if opacity <= 0 {
			opacity = 1
		}
		for y := 0; y < r.H; y++ {
			dy := r.Y + y
			if dy < 0 || dy >= height {
				continue
			}
			for x := 0; x < r.W && x < c.Buffer.Width; x++ {
				dx := r.X + x
				if dx < 0 || dx >= width {
					continue
				}
				srcInk := int(c.Buffer.At(x, y))
				dstInk := int(out.At(dx, dy))
				blended := blendInk(c.Blend, dstInk, srcInk)
				mixed := lerpInt(opacity, float64(dstInk), float64(blended))
				out.Set(dx, dy, uint8(clampInt(int(mixed), 0, 255)))
			}
		}
	}
	return out
}

// LayoutQuery reports each child's bounding box within a canvas of the
// given width/height, using the exact same accounting Composite uses.
func LayoutQuery(width, height int, children []Child) (canvasBox Rect, childBoxes []Rect) {
	rects := layout(width, children)
	h := height
	if h <= 0 {
		h = autoHeight(children, rects)
	}
	return Rect{X: 0, Y: 0, W: width, H: h}, rects
}

func blendInk(b Blend, dst, src int) int {
	switch b {
	case BlendMultiply:
		return dst * src / 255
	case BlendScreen:
		return 255 - (255-dst)*(255-src)/255
	case BlendOverlay:
		if dst < 128 {
			return 2 * dst * src / 255
		}
		return 255 - 2*(255-dst)*(255-src)/255
	case BlendAdd:
		return dst + src
	case BlendDifference:
		d := dst - src
		if d < 0 {
			return -d
		}
		return d
	case BlendMin:
		if dst < src {
			return dst
		}
		return src
	case BlendMax:
		if dst > src {
			return dst
		}
		return src
	default: // BlendNormal
		return src
	}
}

func lerpInt(t, a, b float64) float64 {
	return a + t*(b-a)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
