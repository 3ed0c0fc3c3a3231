package pattern

import (
	"math"

	"github.com/inkwell-labs/thermaldoc/raster"
)

// plasmaGen sums a handful of sine fields at different frequencies and
// angles, the classic "plasma" demo-scene effect.
type plasmaGen struct{}

func (plasmaGen) Name() string { return "plasma" }

func (plasmaGen) Schema() []ParamSpec {
	return []ParamSpec{
		sliderSpec("scale", "Scale", 0.01, 0.2, 0.005, "spatial frequency"),
		sliderSpec("complexity", "Complexity", 1, 6, 1, "number of summed sine fields"),
	}
}

func (plasmaGen) Golden(int64) Params { return Params{"scale": 0.05, "complexity": 3.0} }

func (plasmaGen) Randomize(seed int64) Params {
	r := newSplitmix64(seed)
	return Params{"scale": r.rangeF(0.01, 0.2), "complexity": math.Round(r.rangeF(1, 6))}
}

func (plasmaGen) Render(width, height int, seed int64, p Params) (*raster.Buffer, error) {
	scale := p.float("scale", 0.05)
	n := int(p.float("complexity", 3))
	if n < 1 {
		n = 1
	}
	r := newSplitmix64(seed)
	angles := make([]float64, n)
	for i := range angles {
		angles[i] = r.rangeF(0, 2*math.Pi)
	}
	buf := raster.NewBuffer(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			sum := 0.0
			for _, a := range angles {
				dx, dy := float64(x)*math.Cos(a), float64(y)*math.Sin(a)
				sum += math.Sin((dx + dy) * scale)
			}
			v := (sum/float64(n) + 1) / 2
			buf.Set(x, y, toByte(v*255))
		}
	}
	return buf, nil
}

// moireGen overlays two radial ring patterns with slightly offset
// centers to produce moiré interference fringes.
type moireGen struct{}

func (moireGen) Name() string { return "moire" }

func (moireGen) Schema() []ParamSpec {
	return []ParamSpec{
		sliderSpec("frequency", "Ring frequency", 0.05, 1.0, 0.01, "rings per pixel"),
		sliderSpec("offset", "Center offset", 1, 60, 1, "pixel distance between the two ring centers"),
	}
}

func (moireGen) Golden(int64) Params { return Params{"frequency": 0.3, "offset": 12.0} }

func (moireGen) Randomize(seed int64) Params {
	r := newSplitmix64(seed)
	return Params{"frequency": r.rangeF(0.05, 1.0), "offset": r.rangeF(1, 60)}
}

func (moireGen) Render(width, height int, _ int64, p Params) (*raster.Buffer, error) {
	freq := p.float("frequency", 0.3)
	offset := p.float("offset", 12)
	buf := raster.NewBuffer(width, height)
	cx, cy := float64(width)/2, float64(height)/2
	cx2 := cx + offset
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			d1 := math.Sqrt(dist2(float64(x), float64(y), cx, cy))
			d2 := math.Sqrt(dist2(float64(x), float64(y), cx2, cy))
			v1 := (math.Sin(d1*freq) + 1) / 2
			v2 := (math.Sin(d2*freq) + 1) / 2
			buf.Set(x, y, toByte(v1*v2*255))
		}
	}
	return buf, nil
}

// flowFieldGen streaks particles along a Perlin-like value-noise
// gradient field, accumulating ink density where particles pass.
type flowFieldGen struct{}

func (flowFieldGen) Name() string { return "flowfield" }

func (flowFieldGen) Schema() []ParamSpec {
	return []ParamSpec{
		sliderSpec("particles", "Particles", 50, 2000, 50, "number of streaklines"),
		sliderSpec("steps", "Steps", 10, 300, 10, "steps per streakline"),
		sliderSpec("scale", "Noise scale", 0.005, 0.1, 0.005, "spatial frequency of the field"),
	}
}

func (flowFieldGen) Golden(int64) Params {
	return Params{"particles": 400.0, "steps": 80.0, "scale": 0.02}
}

func (flowFieldGen) Randomize(seed int64) Params {
	r := newSplitmix64(seed)
	return Params{
		"particles": math.Round(r.rangeF(50, 2000)),
		"steps":     math.Round(r.rangeF(10, 300)),
		"scale":     r.rangeF(0.005, 0.1),
	}
}

func (flowFieldGen) Render(width, height int, seed int64, p Params) (*raster.Buffer, error) {
	particles := int(p.float("particles", 400))
	steps := int(p.float("steps", 80))
	scale := p.float("scale", 0.02)
	buf := raster.NewBuffer(width, height)
	r := newSplitmix64(seed)
	for i := 0; i < particles; i++ {
		x := r.rangeF(0, float64(width))
		y := r.rangeF(0, float64(height))
		for s := 0; s < steps; s++ {
			angle := valueNoiseAngle(x*scale, y*scale)
			x += math.Cos(angle) * 1.5
			y += math.Sin(angle) * 1.5
			ix, iy := int(x), int(y)
			if ix < 0 || iy < 0 || ix >= width || iy >= height {
				break
			}
			cur := buf.At(ix, iy)
			buf.Set(ix, iy, toByte(float64(cur)+24))
		}
	}
	return buf, nil
}

// valueNoiseAngle derives a pseudo-random flow angle from integer
// lattice hashing, avoiding a full Perlin-noise implementation while
// still giving spatially coherent directions.
func valueNoiseAngle(x, y float64) float64 {
	ix, iy := math.Floor(x), math.Floor(y)
	h := uint64(ix)*2654435761 ^ uint64(iy)*2246822519
	h = (h ^ (h >> 15)) * 0xBF58476D1CE4E5B9
	frac := float64(h>>11) / float64(1<<53)
	return frac * 2 * math.Pi
}
