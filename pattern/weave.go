package pattern

import (
	"github.com/inkwell-labs/thermaldoc/raster"
	"github.com/inkwell-labs/thermaldoc/xerr"
)

// Curve is a weaving crossfade easing function.
type Curve int

const (
	CurveLinear Curve = iota
	CurveSmooth
	CurveEaseIn
	CurveEaseOut
)

func (c Curve) apply(t float64) float64 {
	switch c {
	case CurveSmooth:
		return t * t * (3 - 2*t)
	case CurveEaseIn:
		return t * t
	case CurveEaseOut:
		return 1 - (1-t)*(1-t)
	default:
		return t
	}
}

// WeaveSpec is one band's generator + params in a weave.
type WeaveSpec struct {
	Generator Generator
	Seed      int64
	Params    Params
}

// Weave partitions height into len(specs) equal bands, each rendered
// independently at (width, height), then crossfades the crossfadePx
// pixels centered on each band boundary using curve. Outside
// transition regions a single band's pixel passes through unmodified.
func Weave(width, height int, specs []WeaveSpec, crossfadePx int, curve Curve) (*raster.Buffer, error) {
	if len(specs) < 2 {
		return nil, xerr.InvalidParam("Weave", "specs", "weaving requires at least 2 patterns")
	}
	n := len(specs)
	bandHeight := height / n
	if bandHeight < 1 {
		return nil, xerr.InvalidParam("Weave", "height", "height too small for the requested band count")
	}

	bands := make([]*raster.Buffer, n)
	for i, s := range specs {
		buf, err := s.Generator.Render(width, height, s.Seed, s.Params)
		if err != nil {
			return nil, err
		}
		bands[i] = buf
	}

	out := raster.NewBuffer(width, height)
	half := crossfadePx / 2
	for y := 0; y < height; y++ {
		band := y / bandHeight
		if band >= n {
			band = n - 1
		}
		boundary := band * bandHeight
		row := out.Row(y)
		for x := 0; x < width; x++ {
			row[x] = bands[band].At(x, y)
		}
		if half <= 0 {
			continue
		}
		// Crossfade near the next boundary (between band and band+1).
		nextBoundary := boundary + bandHeight
		if band+1 < n {
			dist := nextBoundary - y
			if dist >= -half && dist <= half {
				t := (float64(half-dist) / float64(2*half))
				t = clampF(t, 0, 1)
				eased := curve.apply(t)
				for x := 0; x < width; x++ {
					a := float64(bands[band].At(x, y))
					b := float64(bands[band+1].At(x, y))
					row[x] = toByte(lerp(eased, a, b))
				}
			}
		}
		// Crossfade near the previous boundary (between band-1 and band).
		if band > 0 {
			dist := y - boundary
			if dist >= -half && dist <= half {
				t := clampF(float64(half+dist)/float64(2*half), 0, 1)
				eased := curve.apply(t)
				for x := 0; x < width; x++ {
					a := float64(bands[band-1].At(x, y))
					b := float64(bands[band].At(x, y))
					row[x] = toByte(lerp(eased, a, b))
				}
			}
		}
	}
	return out, nil
}
