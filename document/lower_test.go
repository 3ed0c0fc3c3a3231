package document

import (
	"context"
	"testing"
	"time"

	"github.com/inkwell-labs/thermaldoc/ir"
	"github.com/inkwell-labs/thermaldoc/profile"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func lowerDoc(t *testing.T, doc Document) []ir.Op {
	t.Helper()
	prog, err := Lower(context.Background(), doc, profile.Default203DPI576, Options{})
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	return prog.Ops
}

// S1 from spec.md §8: two adjacent bold+centered text components must
// lower to a redundancy-heavy stream that the ir optimizer then
// collapses to the exact sequence spec.md gives. This test only checks
// the naive pre-optimization shape carries the right content and
// style ops; ir.TestOptimizeStyleCollapseScenario checks the collapse.
func TestLowerTwoAdjacentStyledTextLines(t *testing.T) {
	doc := Document{
		Cut: true,
		Components: []Component{
			Text{Content: "A", Bold: true, Center: true},
			Text{Content: "B", Bold: true, Center: true},
		},
	}
	ops := lowerDoc(t, doc)
	if len(ops) < 8 {
		t.Fatalf("expected at least 8 ops per spec.md S1, got %d: %#v", len(ops), ops)
	}
	if _, ok := ops[0].(ir.Init); !ok {
		t.Fatalf("first op must be Init, got %#v", ops[0])
	}
	var texts []string
	for _, op := range ops {
		if txt, ok := op.(ir.Text); ok {
			texts = append(texts, txt.S)
		}
	}
	if len(texts) != 2 || texts[0] != "A" || texts[1] != "B" {
		t.Fatalf("expected Text(A), Text(B), got %#v", texts)
	}
	if _, ok := ops[len(ops)-1].(ir.Cut); !ok {
		t.Fatalf("last op must be Cut when doc.Cut is true, got %#v", ops[len(ops)-1])
	}
}

// S2 from spec.md §8: known variables substitute, unknown placeholders
// survive literally.
func TestLowerVariableSubstitution(t *testing.T) {
	doc := Document{
		Components: []Component{
			Text{Content: "Hello {{name}}, {{missing}} remains"},
		},
		Variables: map[string]string{"name": "Ana"},
	}
	prog, err := Lower(context.Background(), doc, profile.Default203DPI576, Options{
		Clock: fixedClock{t: time.Date(2026, 7, 31, 10, 0, 0, 0, time.UTC)},
	})
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	var got string
	for _, op := range prog.Ops {
		if txt, ok := op.(ir.Text); ok {
			got = txt.S
			break
		}
	}
	want := "Hello Ana, {{missing}} remains"
	if got != want {
		t.Fatalf("Text payload = %q, want %q", got, want)
	}
}

func TestLowerBuiltinDateVariable(t *testing.T) {
	doc := Document{Components: []Component{Text{Content: "{{year}}"}}}
	clock := fixedClock{t: time.Date(2026, 7, 31, 10, 0, 0, 0, time.UTC)}
	prog, err := Lower(context.Background(), doc, profile.Default203DPI576, Options{Clock: clock})
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	for _, op := range prog.Ops {
		if txt, ok := op.(ir.Text); ok {
			if txt.S != "2026" {
				t.Fatalf("Text payload = %q, want %q", txt.S, "2026")
			}
			return
		}
	}
	t.Fatal("no Text op emitted")
}

// S5-adjacent: cut=false must never emit a Cut op.
func TestLowerNoCutWhenDocCutFalse(t *testing.T) {
	doc := Document{Cut: false, Components: []Component{Text{Content: "x"}}}
	ops := lowerDoc(t, doc)
	for _, op := range ops {
		if _, ok := op.(ir.Cut); ok {
			t.Fatalf("Cut op emitted despite doc.Cut == false: %#v", ops)
		}
	}
}

func TestLowerSpacerMMConvertsToFeedUnits(t *testing.T) {
	doc := Document{Components: []Component{Spacer{MM: 10}}}
	ops := lowerDoc(t, doc)
	var feed *ir.FeedUnits
	for _, op := range ops {
		if f, ok := op.(ir.FeedUnits); ok {
			f := f
			feed = &f
		}
	}
	if feed == nil {
		t.Fatal("expected a FeedUnits op")
	}
	want := int(10*DotsPerMM + 0.5)
	if feed.N != want {
		t.Fatalf("FeedUnits.N = %d, want %d", feed.N, want)
	}
}

func TestLowerDividerUsesProfileWidth(t *testing.T) {
	doc := Document{Components: []Component{Divider{Style: DividerSolid}}}
	ops := lowerDoc(t, doc)
	for _, op := range ops {
		if txt, ok := op.(ir.Text); ok {
			if len([]rune(txt.S)) != 48 {
				t.Fatalf("divider line length = %d, want 48 (font A columns)", len([]rune(txt.S)))
			}
			for _, r := range txt.S {
				if r != '─' {
					t.Fatalf("divider rune = %q, want solid rule", r)
				}
			}
			return
		}
	}
	t.Fatal("no Text op emitted for divider")
}

func TestLowerLineItemAndTotalFormatting(t *testing.T) {
	doc := Document{Components: []Component{
		LineItem{Name: "Coffee", Price: 3.5},
		Total{Label: "Total", Amount: 3.5},
	}}
	ops := lowerDoc(t, doc)
	var lines []string
	for _, op := range ops {
		if txt, ok := op.(ir.Text); ok {
			lines = append(lines, txt.S)
		}
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 Text lines, got %#v", lines)
	}
	for _, l := range lines {
		if !containsSuffix(l, "3.50") {
			t.Fatalf("line %q does not end in fixed 2-decimal amount", l)
		}
	}
}

func containsSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

// Unknown image source: lowering an Image component with no Images
// configured must fail with ImageFetchFailed, never panic.
func TestLowerImageWithoutSourceFails(t *testing.T) {
	doc := Document{Components: []Component{Image{URL: "http://example/logo.png"}}}
	_, err := Lower(context.Background(), doc, profile.Default203DPI576, Options{})
	if err == nil {
		t.Fatal("expected an error lowering an image with no ImageSource configured")
	}
}

func TestLowerIBMFontEscalatesToRaster(t *testing.T) {
	doc := Document{Components: []Component{Text{Content: "hi", Font: "ibm"}}}
	ops := lowerDoc(t, doc)
	sawRaster := false
	for _, op := range ops {
		if _, ok := op.(ir.Text); ok {
			t.Fatalf("ibm-font text must not emit a Text op, got %#v", ops)
		}
		if _, ok := op.(ir.Raster); ok {
			sawRaster = true
		}
	}
	if !sawRaster {
		t.Fatalf("ibm-font text must escalate to a Raster op, got %#v", ops)
	}
}

func TestLowerNvLogoDefaultsScale(t *testing.T) {
	doc := Document{Components: []Component{NvLogo{Key: "AB"}}}
	ops := lowerDoc(t, doc)
	for _, op := range ops {
		if r, ok := op.(ir.NvLogoRecall); ok {
			if r.Key != [2]byte{'A', 'B'} {
				t.Fatalf("Key = %v, want AB", r.Key)
			}
			if r.ScaleX != 1 || r.ScaleY != 1 {
				t.Fatalf("default scale = %d,%d, want 1,1", r.ScaleX, r.ScaleY)
			}
			return
		}
	}
	t.Fatal("no NvLogoRecall op emitted")
}
