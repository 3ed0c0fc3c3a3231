package document

import "testing"

func TestParseDocumentRejectsUnknownField(t *testing.T) {
	raw := `{"document":[{"type":"text","content":"hi","bogus":true}]}`
	_, err := ParseDocument([]byte(raw))
	if err == nil {
		t.Fatal("expected an error for an unknown component field")
	}
}

func TestParseDocumentRejectsUnknownType(t *testing.T) {
	raw := `{"document":[{"type":"flying_saucer"}]}`
	_, err := ParseDocument([]byte(raw))
	if err == nil {
		t.Fatal("expected an error for an unknown component type")
	}
}

func TestParseDocumentCutDefaultsTrue(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"document":[]}`))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if !doc.Cut {
		t.Fatal("Cut should default true when the top-level field is absent")
	}
}

func TestParseDocumentCanvasChildPositionBlendOpacity(t *testing.T) {
	raw := `{"document":[{"type":"canvas","height":100,"children":[
		{"type":"text","content":"hi","position":{"x":10,"y":20},"blend":"multiply","opacity":0.5}
	]}]}`
	doc, err := ParseDocument([]byte(raw))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	cv, ok := doc.Components[0].(Canvas)
	if !ok {
		t.Fatalf("expected Canvas component, got %T", doc.Components[0])
	}
	if len(cv.Children) != 1 {
		t.Fatalf("expected 1 canvas child, got %d", len(cv.Children))
	}
	ch := cv.Children[0]
	if ch.Position == nil || ch.Position.X != 10 || ch.Position.Y != 20 {
		t.Fatalf("Position = %#v, want {10 20}", ch.Position)
	}
	if ch.Blend != "multiply" || ch.Opacity != 0.5 {
		t.Fatalf("Blend/Opacity = %q/%v, want multiply/0.5", ch.Blend, ch.Opacity)
	}
}

// Round-trip: serializing then reparsing a Document yields an
// equivalent structure (spec.md §6: "key order may change").
func TestDocumentMarshalRoundTrip(t *testing.T) {
	doc := Document{
		Cut: true,
		Components: []Component{
			Text{Content: "hello", Bold: true, Center: true},
			Divider{Style: DividerSolid},
			Canvas{Height: 50, Children: []CanvasChild{
				{Component: Text{Content: "child"}, Position: &Position{X: 1, Y: 2}, Blend: "screen", Opacity: 0.25},
			}},
		},
	}
	raw, err := doc.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	back, err := ParseDocument(raw)
	if err != nil {
		t.Fatalf("ParseDocument(marshaled): %v\n%s", err, raw)
	}
	if len(back.Components) != len(doc.Components) {
		t.Fatalf("round-trip lost components: got %d, want %d", len(back.Components), len(doc.Components))
	}
	txt, ok := back.Components[0].(Text)
	if !ok || txt.Content != "hello" || !txt.Bold || !txt.Center {
		t.Fatalf("round-trip Text = %#v", back.Components[0])
	}
	div, ok := back.Components[1].(Divider)
	if !ok || div.Style != DividerSolid {
		t.Fatalf("round-trip Divider = %#v", back.Components[1])
	}
	cv, ok := back.Components[2].(Canvas)
	if !ok || cv.Height != 50 || len(cv.Children) != 1 {
		t.Fatalf("round-trip Canvas = %#v", back.Components[2])
	}
	child := cv.Children[0]
	if child.Position == nil || child.Position.X != 1 || child.Position.Y != 2 {
		t.Fatalf("round-trip canvas child position = %#v", child.Position)
	}
	if child.Blend != "screen" || child.Opacity != 0.25 {
		t.Fatalf("round-trip canvas child blend/opacity = %q/%v", child.Blend, child.Opacity)
	}
}
