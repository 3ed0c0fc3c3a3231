package thermaldoc

import (
	"bytes"
	"context"
	"image/png"
	"testing"

	"github.com/inkwell-labs/thermaldoc/document"
	"github.com/inkwell-labs/thermaldoc/profile"
	"github.com/inkwell-labs/thermaldoc/transport"
)

func TestRenderPreviewProducesDecodablePNGAtProfileWidth(t *testing.T) {
	c := NewCore()
	doc := document.Document{Components: []document.Component{
		document.Text{Content: "hello"},
		document.Divider{},
	}}
	out, err := c.RenderPreview(context.Background(), doc)
	if err != nil {
		t.Fatalf("RenderPreview: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode preview PNG: %v", err)
	}
	// Invariant 6 (spec.md §8): preview width equals the active
	// profile's width_dots.
	if img.Bounds().Dx() != profile.Active().WidthDots {
		t.Fatalf("preview width = %d, want %d", img.Bounds().Dx(), profile.Active().WidthDots)
	}
}

func TestPrintWithoutTransportFailsDeviceUnavailable(t *testing.T) {
	c := NewCore()
	doc := document.Document{Components: []document.Component{document.Text{Content: "x"}}}
	res := c.Print(context.Background(), doc)
	if res.Success {
		t.Fatal("expected failure printing with no transport configured")
	}
	if res.Error == "" {
		t.Fatal("expected a non-empty error message")
	}
}

func TestPrintSucceedsAgainstMemSink(t *testing.T) {
	sink := transport.NewMemSink()
	c := NewCore()
	c.Transport = transport.New(sink)
	doc := document.Document{
		Cut: true,
		Components: []document.Component{
			document.Text{Content: "hi", Bold: true},
		},
	}
	res := c.Print(context.Background(), doc)
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if len(sink.All()) == 0 {
		t.Fatal("expected bytes to reach the sink")
	}
}

func TestCanvasLayoutReportsHeightAndElements(t *testing.T) {
	c := NewCore()
	doc := document.Document{Components: []document.Component{
		document.Canvas{Height: 40, Children: []document.CanvasChild{
			{Component: document.Text{Content: "a"}},
			{Component: document.Pattern{Name: "calibration_grid", Height: 20}, Position: &document.Position{X: 0, Y: 10}},
		}},
	}}
	lay, err := c.CanvasLayout(context.Background(), doc, 0)
	if err != nil {
		t.Fatalf("CanvasLayout: %v", err)
	}
	if lay.Height != 40 {
		t.Fatalf("canvas height = %d, want 40 (explicit, not auto)", lay.Height)
	}
	if len(lay.Elements) != 2 {
		t.Fatalf("expected 2 child elements, got %d", len(lay.Elements))
	}
}

func TestCanvasLayoutOutOfRangeIndexErrors(t *testing.T) {
	c := NewCore()
	doc := document.Document{Components: []document.Component{document.Text{Content: "no canvases here"}}}
	_, err := c.CanvasLayout(context.Background(), doc, 0)
	if err == nil {
		t.Fatal("expected an error indexing a canvas that doesn't exist")
	}
}

func TestPatternsListsRegisteredGenerators(t *testing.T) {
	c := NewCore()
	names := c.Patterns()
	if len(names) == 0 {
		t.Fatal("expected at least one registered pattern generator")
	}
	if _, err := c.PatternParams(names[0]); err != nil {
		t.Fatalf("PatternParams(%q): %v", names[0], err)
	}
}

func TestPatternParamsUnknownNameErrors(t *testing.T) {
	c := NewCore()
	if _, err := c.PatternParams("not-a-real-pattern"); err == nil {
		t.Fatal("expected an error for an unknown pattern name")
	}
}

func TestSetAndGetActiveProfileRoundTrips(t *testing.T) {
	c := NewCore()
	defer profile.SetActive(profile.Default203DPI576)

	got := c.SetActiveProfile(ProfileInfo{Kind: "printer", Name: "narrow", WidthDots: 384})
	if got.WidthDots != 384 {
		t.Fatalf("SetActiveProfile returned width %d, want 384", got.WidthDots)
	}
	active := c.GetActiveProfile()
	if active.Name != "narrow" || active.WidthDots != 384 {
		t.Fatalf("GetActiveProfile = %#v, want narrow/384", active)
	}
	found := false
	for _, p := range c.ListProfiles() {
		if p.Name == "narrow" {
			found = true
		}
	}
	if !found {
		t.Fatal("ListProfiles did not include the newly registered profile")
	}
}

func TestLogoKeyValidation(t *testing.T) {
	c := NewCore()
	c.Transport = transport.New(transport.NewMemSink())
	if err := c.DeleteLogo(context.Background(), "too-long"); err == nil {
		t.Fatal("expected an error for a non-2-byte logo key")
	}
	if err := c.DeleteLogo(context.Background(), "AB"); err != nil {
		t.Fatalf("DeleteLogo with a valid key: %v", err)
	}
}
