package canvas

import (
	"testing"

	"github.com/inkwell-labs/thermaldoc/raster"
)

func solid(w, h int, v uint8) *raster.Buffer {
	b := raster.NewBuffer(w, h)
	for i := range b.Pix {
		b.Pix[i] = v
	}
	return b
}

func TestCompositeFlowStacksChildren(t *testing.T) {
	a := solid(10, 4, 0)
	b := solid(10, 6, 255)
	out := Composite(10, 0, []Child{{Buffer: a}, {Buffer: b}})
	if out.Height != 10 {
		t.Fatalf("auto height = %d, want 10", out.Height)
	}
	if out.At(0, 0) != 0 {
		t.Fatalf("first band should be white-ink, got %d", out.At(0, 0))
	}
	if out.At(0, 5) != 255 {
		t.Fatalf("second band should be ink, got %d", out.At(0, 5))
	}
}

func TestCompositeAbsoluteDoesNotContributeToAutoHeight(t *testing.T) {
	flow := solid(10, 4, 0)
	abs := solid(10, 4, 255)
	out := Composite(10, 0, []Child{
		{Buffer: flow},
		{Buffer: abs, Position: &Position{X: 0, Y: 100}},
	})
	if out.Height != 4 {
		t.Fatalf("auto height = %d, want 4 (absolute child must not extend it)", out.Height)
	}
}

func TestBlendAddDarkens(t *testing.T) {
	white := raster.NewBuffer(4, 4) // all 0 = white
	ink := solid(4, 4, 128)
	out := Composite(4, 4, []Child{
		{Buffer: white},
		{Buffer: ink, Blend: BlendAdd, Opacity: 1},
	})
	// Adding ink density onto a white background should move toward
	// black (higher pixel value), not lighten.
	if out.At(0, 0) < 128 {
		t.Fatalf("Add blend should darken, got %d", out.At(0, 0))
	}
}

func TestLayoutQueryAgreesWithComposite(t *testing.T) {
	children := []Child{
		{Buffer: solid(10, 4, 0)},
		{Buffer: solid(10, 4, 255), Position: &Position{X: 2, Y: 1}},
		{Buffer: solid(10, 6, 128)},
	}
	canvasBox, childBoxes := LayoutQuery(10, 0, children)
	out := Composite(10, 0, children)

	if canvasBox.H != out.Height {
		t.Fatalf("LayoutQuery height %d != Composite height %d", canvasBox.H, out.Height)
	}
	if len(childBoxes) != 3 {
		t.Fatalf("expected 3 child boxes, got %d", len(childBoxes))
	}
	// Flow children: first at y=0, third at y=4 (stacked after the
	// first, skipping over the absolute second child).
	if childBoxes[0].Y != 0 {
		t.Fatalf("first flow child Y = %d, want 0", childBoxes[0].Y)
	}
	if childBoxes[2].Y != 4 {
		t.Fatalf("third flow child Y = %d, want 4", childBoxes[2].Y)
	}
	if childBoxes[1].X != 2 || childBoxes[1].Y != 1 {
		t.Fatalf("absolute child box = %+v, want X=2,Y=1", childBoxes[1])
	}
}
