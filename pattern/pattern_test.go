package pattern

import "testing"

func TestRegistryHasAllGenerators(t *testing.T) {
	want := []string{
		"ripple", "waves", "plasma", "voronoi", "flowfield", "reaction_diffusion",
		"crosshatch", "stipple", "cellular_automaton", "strange_attractor",
		"moire", "op_art", "calibration_grid",
	}
	r := NewRegistry()
	for _, name := range want {
		if _, ok := r.Get(name); !ok {
			t.Errorf("registry missing generator %q", name)
		}
	}
	if len(r.Names()) != len(want) {
		t.Errorf("Names() len = %d, want %d", len(r.Names()), len(want))
	}
}

func TestGeneratorsRenderCorrectDimensions(t *testing.T) {
	r := NewRegistry()
	for _, name := range r.Names() {
		g, _ := r.Get(name)
		params := g.Golden(1)
		buf, err := g.Render(32, 24, 1, params)
		if err != nil {
			t.Fatalf("%s: Render error: %v", name, err)
		}
		if buf.Width != 32 || buf.Height != 24 {
			t.Fatalf("%s: dims = %dx%d, want 32x24", name, buf.Width, buf.Height)
		}
	}
}

func TestSeededRenderIsDeterministic(t *testing.T) {
	r := NewRegistry()
	g, _ := r.Get("plasma")
	p := g.Golden(7)
	a, err := g.Render(16, 16, 7, p)
	if err != nil {
		t.Fatal(err)
	}
	b, err := g.Render(16, 16, 7, p)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("plasma render is not deterministic at pixel %d: %d != %d", i, a.Pix[i], b.Pix[i])
		}
	}
}

func TestWeaveRequiresAtLeastTwoPatterns(t *testing.T) {
	r := NewRegistry()
	g, _ := r.Get("waves")
	_, err := Weave(32, 32, []WeaveSpec{{Generator: g, Seed: 1, Params: g.Golden(1)}}, 4, CurveLinear)
	if err == nil {
		t.Fatal("expected an error weaving a single pattern")
	}
}

func TestWeaveProducesRequestedDimensions(t *testing.T) {
	r := NewRegistry()
	a, _ := r.Get("waves")
	b, _ := r.Get("ripple")
	specs := []WeaveSpec{
		{Generator: a, Seed: 1, Params: a.Golden(1)},
		{Generator: b, Seed: 2, Params: b.Golden(2)},
	}
	buf, err := Weave(32, 64, specs, 8, CurveSmooth)
	if err != nil {
		t.Fatal(err)
	}
	if buf.Width != 32 || buf.Height != 64 {
		t.Fatalf("dims = %dx%d, want 32x64", buf.Width, buf.Height)
	}
}

func TestCurveEndpoints(t *testing.T) {
	for _, c := range []Curve{CurveLinear, CurveSmooth, CurveEaseIn, CurveEaseOut} {
		if c.apply(0) != 0 {
			t.Errorf("curve %d: apply(0) = %v, want 0", c, c.apply(0))
		}
		if c.apply(1) != 1 {
			t.Errorf("curve %d: apply(1) = %v, want 1", c, c.apply(1))
		}
	}
}
