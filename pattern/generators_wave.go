package pattern

import (
	"math"

	"github.com/inkwell-labs/thermaldoc/raster"
)

// rippleGen renders concentric sine rings from the buffer's center.
type rippleGen struct{}

func (rippleGen) Name() string { return "ripple" }

func (rippleGen) Schema() []ParamSpec {
	return []ParamSpec{
		sliderSpec("frequency", "Frequency", 0.02, 1.0, 0.01, "rings per pixel of radius"),
		sliderSpec("phase", "Phase", 0, 2*math.Pi, 0.1, "ring phase offset"),
	}
}

func (rippleGen) Golden(int64) Params { return Params{"frequency": 0.12, "phase": 0.0} }

func (rippleGen) Randomize(seed int64) Params {
	r := newSplitmix64(seed)
	return Params{"frequency": r.rangeF(0.02, 1.0), "phase": r.rangeF(0, 2*math.Pi)}
}

func (rippleGen) Render(width, height int, _ int64, p Params) (*raster.Buffer, error) {
	freq := p.float("frequency", 0.12)
	phase := p.float("phase", 0)
	buf := raster.NewBuffer(width, height)
	cx, cy := float64(width)/2, float64(height)/2
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			d := math.Sqrt(dist2(float64(x), float64(y), cx, cy))
			v := (math.Sin(d*freq+phase) + 1) / 2
			buf.Set(x, y, toByte(v*255))
		}
	}
	return buf, nil
}

// wavesGen renders horizontal sine bands.
type wavesGen struct{}

func (wavesGen) Name() string { return "waves" }

func (wavesGen) Schema() []ParamSpec {
	return []ParamSpec{
		sliderSpec("frequency", "Frequency", 0.02, 1.0, 0.01, "cycles per row"),
		sliderSpec("amplitude", "Amplitude", 0.1, 1.0, 0.05, "contrast of the bands"),
	}
}

func (wavesGen) Golden(int64) Params { return Params{"frequency": 0.08, "amplitude": 1.0} }

func (wavesGen) Randomize(seed int64) Params {
	r := newSplitmix64(seed)
	return Params{"frequency": r.rangeF(0.02, 1.0), "amplitude": r.rangeF(0.1, 1.0)}
}

func (wavesGen) Render(width, height int, _ int64, p Params) (*raster.Buffer, error) {
	freq := p.float("frequency", 0.08)
	amp := p.float("amplitude", 1.0)
	buf := raster.NewBuffer(width, height)
	for y := 0; y < height; y++ {
		v := (math.Sin(float64(y)*freq)*amp + 1) / 2
		b := toByte(v * 255)
		row := buf.Row(y)
		for x := range row {
			row[x] = b
		}
	}
	return buf, nil
}

// crosshatchGen renders two overlapping diagonal line families.
type crosshatchGen struct{}

func (crosshatchGen) Name() string { return "crosshatch" }

func (crosshatchGen) Schema() []ParamSpec {
	return []ParamSpec{
		sliderSpec("spacing", "Line spacing", 2, 40, 1, "pixels between lines"),
		sliderSpec("thickness", "Line thickness", 1, 6, 1, "line thickness in pixels"),
	}
}

func (crosshatchGen) Golden(int64) Params { return Params{"spacing": 8.0, "thickness": 1.0} }

func (crosshatchGen) Randomize(seed int64) Params {
	r := newSplitmix64(seed)
	return Params{"spacing": r.rangeF(2, 40), "thickness": r.rangeF(1, 6)}
}

func (crosshatchGen) Render(width, height int, _ int64, p Params) (*raster.Buffer, error) {
	spacing := int(p.float("spacing", 8))
	if spacing < 1 {
		spacing = 1
	}
	thick := int(p.float("thickness", 1))
	if thick < 1 {
		thick = 1
	}
	buf := raster.NewBuffer(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			a := (x + y) % spacing
			b := ((x - y) % spacing + spacing) % spacing
			if a < thick || b < thick {
				buf.Set(x, y, 255)
			}
		}
	}
	return buf, nil
}

// opArtGen renders a bent-stripe optical-art illusion: vertical stripes
// whose x-offset is perturbed by a sine function of y.
type opArtGen struct{}

func (opArtGen) Name() string { return "op_art" }

func (opArtGen) Schema() []ParamSpec {
	return []ParamSpec{
		sliderSpec("spacing", "Stripe spacing", 4, 60, 1, "pixels between stripes"),
		sliderSpec("bend", "Bend amount", 0, 40, 1, "max horizontal displacement"),
	}
}

func (opArtGen) Golden(int64) Params { return Params{"spacing": 16.0, "bend": 12.0} }

func (opArtGen) Randomize(seed int64) Params {
	r := newSplitmix64(seed)
	return Params{"spacing": r.rangeF(4, 60), "bend": r.rangeF(0, 40)}
}

func (opArtGen) Render(width, height int, _ int64, p Params) (*raster.Buffer, error) {
	spacing := p.float("spacing", 16)
	bend := p.float("bend", 12)
	buf := raster.NewBuffer(width, height)
	for y := 0; y < height; y++ {
		offset := math.Sin(float64(y)/float64(height)*2*math.Pi) * bend
		for x := 0; x < width; x++ {
			phase := math.Mod(float64(x)+offset, spacing)
			if phase < 0 {
				phase += spacing
			}
			if phase < spacing/2 {
				buf.Set(x, y, 255)
			}
		}
	}
	return buf, nil
}

// calibrationGen renders a fixed grayscale step wedge plus fine
// vertical stripes, used to visually verify dithering and printer
// contrast rather than for decorative output.
type calibrationGen struct{}

func (calibrationGen) Name() string { return "calibration_grid" }

func (calibrationGen) Schema() []ParamSpec {
	return []ParamSpec{
		sliderSpec("steps", "Gray steps", 2, 16, 1, "number of horizontal gray bands"),
	}
}

func (calibrationGen) Golden(int64) Params { return Params{"steps": 8.0} }

func (calibrationGen) Randomize(seed int64) Params {
	r := newSplitmix64(seed)
	return Params{"steps": math.Round(r.rangeF(2, 16))}
}

func (calibrationGen) Render(width, height int, _ int64, p Params) (*raster.Buffer, error) {
	steps := int(p.float("steps", 8))
	if steps < 1 {
		steps = 1
	}
	buf := raster.NewBuffer(width, height)
	bandHeight := height / steps
	if bandHeight < 1 {
		bandHeight = 1
	}
	for y := 0; y < height; y++ {
		band := y / bandHeight
		if band >= steps {
			band = steps - 1
		}
		level := byte(band * 255 / max1(steps-1))
		row := buf.Row(y)
		for x := range row {
			if x%2 == 0 {
				row[x] = level
			} else {
				row[x] = 255 - level
			}
		}
	}
	return buf, nil
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
