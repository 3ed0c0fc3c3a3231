package pattern

import (
	"math"

	"github.com/inkwell-labs/thermaldoc/raster"
)

// voronoiGen scatters N seed points and shades each pixel by the gap
// between its distances to the two nearest seeds, producing cell
// boundaries.
type voronoiGen struct{}

func (voronoiGen) Name() string { return "voronoi" }

func (voronoiGen) Schema() []ParamSpec {
	return []ParamSpec{
		sliderSpec("cells", "Cells", 4, 200, 1, "number of seed points"),
	}
}

func (voronoiGen) Golden(int64) Params { return Params{"cells": 24.0} }

func (voronoiGen) Randomize(seed int64) Params {
	r := newSplitmix64(seed)
	return Params{"cells": math.Round(r.rangeF(4, 200))}
}

func (voronoiGen) Render(width, height int, seed int64, p Params) (*raster.Buffer, error) {
	n := int(p.float("cells", 24))
	if n < 1 {
		n = 1
	}
	r := newSplitmix64(seed)
	type pt struct{ x, y float64 }
	seeds := make([]pt, n)
	for i := range seeds {
		seeds[i] = pt{r.rangeF(0, float64(width)), r.rangeF(0, float64(height))}
	}
	buf := raster.NewBuffer(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			best, second := math.MaxFloat64, math.MaxFloat64
			for _, s := range seeds {
				d := dist2(float64(x), float64(y), s.x, s.y)
				if d < best {
					second = best
					best = d
				} else if d < second {
					second = d
				}
			}
			edge := math.Sqrt(second) - math.Sqrt(best)
			v := clampF(edge/3.0, 0, 1)
			buf.Set(x, y, toByte((1-v)*255))
		}
	}
	return buf, nil
}

// stippleGen places dots whose density follows a radial falloff from
// the center, approximating stochastic stippling.
type stippleGen struct{}

func (stippleGen) Name() string { return "stipple" }

func (stippleGen) Schema() []ParamSpec {
	return []ParamSpec{
		sliderSpec("density", "Dot density", 0.001, 0.05, 0.001, "dots per pixel at the densest point"),
	}
}

func (stippleGen) Golden(int64) Params { return Params{"density": 0.01} }

func (stippleGen) Randomize(seed int64) Params {
	r := newSplitmix64(seed)
	return Params{"density": r.rangeF(0.001, 0.05)}
}

func (stippleGen) Render(width, height int, seed int64, p Params) (*raster.Buffer, error) {
	density := p.float("density", 0.01)
	buf := raster.NewBuffer(width, height)
	r := newSplitmix64(seed)
	cx, cy := float64(width)/2, float64(height)/2
	maxD := math.Sqrt(cx*cx + cy*cy)
	n := int(density * float64(width*height))
	for i := 0; i < n; i++ {
		x := r.rangeF(0, float64(width))
		y := r.rangeF(0, float64(height))
		d := math.Sqrt(dist2(x, y, cx, cy)) / maxD
		if r.float64() > 1-d {
			continue
		}
		buf.Set(int(x), int(y), 255)
	}
	return buf, nil
}

// reactionDiffusionGen runs a Gray-Scott reaction-diffusion simulation
// for a fixed number of steps and renders the inhibitor concentration.
type reactionDiffusionGen struct{}

func (reactionDiffusionGen) Name() string { return "reaction_diffusion" }

func (reactionDiffusionGen) Schema() []ParamSpec {
	return []ParamSpec{
		sliderSpec("feed", "Feed rate", 0.01, 0.1, 0.001, "Gray-Scott feed rate"),
		sliderSpec("kill", "Kill rate", 0.03, 0.08, 0.001, "Gray-Scott kill rate"),
		sliderSpec("steps", "Steps", 20, 400, 10, "simulation iterations"),
	}
}

func (reactionDiffusionGen) Golden(int64) Params {
	return Params{"feed": 0.037, "kill": 0.06, "steps": 120.0}
}

func (reactionDiffusionGen) Randomize(seed int64) Params {
	r := newSplitmix64(seed)
	return Params{"feed": r.rangeF(0.01, 0.1), "kill": r.rangeF(0.03, 0.08), "steps": math.Round(r.rangeF(20, 400))}
}

func (reactionDiffusionGen) Render(width, height int, seed int64, p Params) (*raster.Buffer, error) {
	feed := p.float("feed", 0.037)
	kill := p.float("kill", 0.06)
	steps := int(p.float("steps", 120))

	n := width * height
	a := make([]float64, n)
	b := make([]float64, n)
	for i := range a {
		a[i] = 1
	}
	r := newSplitmix64(seed)
	for i := 0; i < n/20+1; i++ {
		x := int(r.rangeF(0, float64(width)))
		y := int(r.rangeF(0, float64(height)))
		idx := y*width + x
		if idx >= 0 && idx < n {
			b[idx] = 1
		}
	}

	const dA, dB = 1.0, 0.5
	next := make([]float64, n)
	nextB := make([]float64, n)
	for s := 0; s < steps; s++ {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				idx := y*width + x
				lapA := laplacian(a, width, height, x, y)
				lapB := laplacian(b, width, height, x, y)
				av, bv := a[idx], b[idx]
				reaction := av * bv * bv
				next[idx] = clampF(av+(dA*lapA-reaction+feed*(1-av)), 0, 1)
				nextB[idx] = clampF(bv+(dB*lapB+reaction-(kill+feed)*bv), 0, 1)
			}
		}
		a, next = next, a
		b, nextB = nextB, b
	}

	buf := raster.NewBuffer(width, height)
	for i, v := range b {
		buf.Pix[i] = toByte(v * 255)
	}
	return buf, nil
}

func laplacian(f []float64, w, h, x, y int) float64 {
	get := func(x, y int) float64 {
		if x < 0 {
			x = 0
		}
		if x >= w {
			x = w - 1
		}
		if y < 0 {
			y = 0
		}
		if y >= h {
			y = h - 1
		}
		return f[y*w+x]
	}
	sum := -f[y*w+x]
	sum += get(x-1, y)*0.2 + get(x+1, y)*0.2 + get(x, y-1)*0.2 + get(x, y+1)*0.2
	sum += get(x-1, y-1)*0.05 + get(x+1, y-1)*0.05 + get(x-1, y+1)*0.05 + get(x+1, y+1)*0.05
	return sum
}

// cellularAutomatonGen runs Conway's Game of Life for a fixed number
// of generations from a random seed and renders the final generation.
type cellularAutomatonGen struct{}

func (cellularAutomatonGen) Name() string { return "cellular_automaton" }

func (cellularAutomatonGen) Schema() []ParamSpec {
	return []ParamSpec{
		sliderSpec("density", "Initial density", 0.1, 0.9, 0.05, "fraction of cells alive at generation 0"),
		sliderSpec("generations", "Generations", 1, 200, 1, "number of simulation steps"),
	}
}

func (cellularAutomatonGen) Golden(int64) Params {
	return Params{"density": 0.4, "generations": 30.0}
}

func (cellularAutomatonGen) Randomize(seed int64) Params {
	r := newSplitmix64(seed)
	return Params{"density": r.rangeF(0.1, 0.9), "generations": math.Round(r.rangeF(1, 200))}
}

func (cellularAutomatonGen) Render(width, height int, seed int64, p Params) (*raster.Buffer, error) {
	density := p.float("density", 0.4)
	gens := int(p.float("generations", 30))
	r := newSplitmix64(seed)

	grid := make([]bool, width*height)
	for i := range grid {
		grid[i] = r.float64() < density
	}
	next := make([]bool, width*height)

	alive := func(g []bool, x, y int) int {
		n := 0
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx, ny := (x+dx+width)%width, (y+dy+height)%height
				if g[ny*width+nx] {
					n++
				}
			}
		}
		return n
	}

	for g := 0; g < gens; g++ {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				n := alive(grid, x, y)
				idx := y*width + x
				if grid[idx] {
					next[idx] = n == 2 || n == 3
				} else {
					next[idx] = n == 3
				}
			}
		}
		grid, next = next, grid
	}

	buf := raster.NewBuffer(width, height)
	for i, v := range grid {
		if v {
			buf.Pix[i] = 255
		}
	}
	return buf, nil
}

// strangeAttractorGen plots a De Jong strange attractor by iterating
// its map and splatting visited points.
type strangeAttractorGen struct{}

func (strangeAttractorGen) Name() string { return "strange_attractor" }

func (strangeAttractorGen) Schema() []ParamSpec {
	return []ParamSpec{
		sliderSpec("a", "a", -3, 3, 0.05, "De Jong parameter a"),
		sliderSpec("b", "b", -3, 3, 0.05, "De Jong parameter b"),
		sliderSpec("c", "c", -3, 3, 0.05, "De Jong parameter c"),
		sliderSpec("d", "d", -3, 3, 0.05, "De Jong parameter d"),
		sliderSpec("iterations", "Iterations", 10000, 2000000, 10000, "points plotted"),
	}
}

func (strangeAttractorGen) Golden(int64) Params {
	return Params{"a": -2.0, "b": -2.3, "c": -1.2, "d": -2.0, "iterations": 300000.0}
}

func (strangeAttractorGen) Randomize(seed int64) Params {
	r := newSplitmix64(seed)
	return Params{
		"a": r.rangeF(-3, 3), "b": r.rangeF(-3, 3), "c": r.rangeF(-3, 3), "d": r.rangeF(-3, 3),
		"iterations": 300000.0,
	}
}

func (strangeAttractorGen) Render(width, height int, _ int64, p Params) (*raster.Buffer, error) {
	a := p.float("a", -2.0)
	b := p.float("b", -2.3)
	c := p.float("c", -1.2)
	d := p.float("d", -2.0)
	iterations := int(p.float("iterations", 300000))

	buf := raster.NewBuffer(width, height)
	x, y := 0.1, 0.1
	for i := 0; i < iterations; i++ {
		nx := math.Sin(a*y) - math.Cos(b*x)
		ny := math.Sin(c*x) - math.Cos(d*y)
		x, y = nx, ny
		px := int((x + 2) / 4 * float64(width))
		py := int((y + 2) / 4 * float64(height))
		if px < 0 || py < 0 || px >= width || py >= height {
			continue
		}
		cur := buf.At(px, py)
		buf.Set(px, py, toByte(float64(cur)+40))
	}
	return buf, nil
}
