package document

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/inkwell-labs/thermaldoc/xerr"
)

// Document is the root JSON document: an ordered component list plus
// the cut/variables/profile-override flags of spec.md §3 and §6.
type Document struct {
	Components []Component
	Cut        bool // defaults true
	Variables  map[string]string
	Profile    string // optional device-profile override, by name
	OpenDrawer *CashDrawerPulse
}

// documentWire is the on-the-wire shape of Document, used for both
// directions so unknown top-level fields are rejected the same way
// every component rejects its own unknown fields.
type documentWire struct {
	Document   []json.RawMessage `json:"document"`
	Cut        *bool             `json:"cut,omitempty"`
	Variables  map[string]string `json:"variables,omitempty"`
	Profile    string            `json:"profile,omitempty"`
	OpenDrawer *CashDrawerPulse  `json:"open_cash_drawer,omitempty"`
}

// ParseDocument decodes raw JSON into a Document, rejecting unknown
// fields at every level (top-level and per-component) per spec.md §6's
// "Unknown fields in a component are rejected."
func ParseDocument(raw []byte) (Document, error) {
	var w documentWire
	if err := decodeStrict(raw, &w); err != nil {
		return Document{}, xerr.InvalidDocument("document", err.Error())
	}
	doc := Document{
		Cut:        true,
		Variables:  w.Variables,
		Profile:    w.Profile,
		OpenDrawer: w.OpenDrawer,
	}
	if w.Cut != nil {
		doc.Cut = *w.Cut
	}
	doc.Components = make([]Component, 0, len(w.Document))
	for i, raw := range w.Document {
		c, _, _, _, err := parseComponentEnvelope(raw, false)
		if err != nil {
			return Document{}, xerr.InvalidDocument("document", fmt.Sprintf("component %d: %v", i, err))
		}
		doc.Components = append(doc.Components, c)
	}
	return doc, nil
}

// decodeStrict unmarshals raw into v, rejecting any field v's struct
// tags don't declare.
func decodeStrict(raw []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// canvasOnlyFields are the extra keys a canvas child's JSON object may
// carry alongside its own component fields; they are stripped before
// strict per-type decoding and re-attached to the returned CanvasChild.
var canvasOnlyFields = map[string]bool{
	"position": true, "blend": true, "opacity": true,
}

// parseComponentEnvelope decodes one component object, dispatching on
// its "type" field. When allowCanvasFields is true, "position",
// "blend" and "opacity" keys are tolerated (and returned) instead of
// causing an unknown-field rejection, for canvas children.
func parseComponentEnvelope(raw json.RawMessage, allowCanvasFields bool) (Component, *Position, string, float64, error) {
	var peek struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &peek); err != nil {
		return nil, nil, "", 0, err
	}
	if peek.Type == "" {
		return nil, nil, "", 0, fmt.Errorf("missing \"type\"")
	}

	var pos *Position
	var blend string
	var opacity float64
	body := raw
	if allowCanvasFields {
		var m map[string]json.RawMessage
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, nil, "", 0, err
		}
		if p, ok := m["position"]; ok {
			pos = &Position{}
			if err := json.Unmarshal(p, pos); err != nil {
				return nil, nil, "", 0, err
			}
			delete(m, "position")
		}
		if b, ok := m["blend"]; ok {
			if err := json.Unmarshal(b, &blend); err != nil {
				return nil, nil, "", 0, err
			}
			delete(m, "blend")
		}
		if o, ok := m["opacity"]; ok {
			if err := json.Unmarshal(o, &opacity); err != nil {
				return nil, nil, "", 0, err
			}
			delete(m, "opacity")
		}
		stripped, err := json.Marshal(m)
		if err != nil {
			return nil, nil, "", 0, err
		}
		body = stripped
	}

	c, err := parseComponent(peek.Type, body)
	if err != nil {
		return nil, nil, "", 0, err
	}
	return c, pos, blend, opacity, nil
}

func parseComponent(tag string, body json.RawMessage) (Component, error) {
	switch tag {
	case "text":
		var v Text
		if err := decodeStrictAfterType(body, &v); err != nil {
			return nil, err
		}
		return v, nil
	case "header":
		var v Header
		if err := decodeStrictAfterType(body, &v); err != nil {
			return nil, err
		}
		return v, nil
	case "banner":
		var v Banner
		if err := decodeStrictAfterType(body, &v); err != nil {
			return nil, err
		}
		return v, nil
	case "line_item":
		var v LineItem
		if err := decodeStrictAfterType(body, &v); err != nil {
			return nil, err
		}
		return v, nil
	case "total":
		var v Total
		if err := decodeStrictAfterType(body, &v); err != nil {
			return nil, err
		}
		return v, nil
	case "divider":
		var v Divider
		if err := decodeStrictAfterType(body, &v); err != nil {
			return nil, err
		}
		if v.Style == "" {
			v.Style = DividerDashed
		}
		return v, nil
	case "spacer":
		var v Spacer
		if err := decodeStrictAfterType(body, &v); err != nil {
			return nil, err
		}
		return v, nil
	case "columns":
		var v Columns
		if err := decodeStrictAfterType(body, &v); err != nil {
			return nil, err
		}
		return v, nil
	case "table":
		var v Table
		if err := decodeStrictAfterType(body, &v); err != nil {
			return nil, err
		}
		return v, nil
	case "markdown":
		var v Markdown
		if err := decodeStrictAfterType(body, &v); err != nil {
			return nil, err
		}
		return v, nil
	case "qr_code":
		var v QRCode
		if err := decodeStrictAfterType(body, &v); err != nil {
			return nil, err
		}
		return v, nil
	case "pdf417":
		var v PDF417
		if err := decodeStrictAfterType(body, &v); err != nil {
			return nil, err
		}
		return v, nil
	case "barcode":
		var v Barcode
		if err := decodeStrictAfterType(body, &v); err != nil {
			return nil, err
		}
		return v, nil
	case "image":
		var v Image
		if err := decodeStrictAfterType(body, &v); err != nil {
			return nil, err
		}
		return v, nil
	case "pattern":
		var v Pattern
		if err := decodeStrictAfterType(body, &v); err != nil {
			return nil, err
		}
		return v, nil
	case "canvas":
		return parseCanvas(body)
	case "nv_logo":
		var v NvLogo
		if err := decodeStrictAfterType(body, &v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unknown component type %q", tag)
	}
}

// decodeStrictAfterType decodes body (which still carries the "type"
// discriminator alongside the type's own fields) into v. "type" is
// removed from a generic key map and the remainder is re-marshaled and
// decoded strictly into v.
func decodeStrictAfterType(body json.RawMessage, v interface{}) error {
	m := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &m); err != nil {
		return err
	}
	delete(m, "type")
	clean, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return decodeStrict(clean, v)
}

func parseCanvas(body json.RawMessage) (Component, error) {
	var raw struct {
		Children []json.RawMessage `json:"children"`
		Height   int               `json:"height"`
		Dither   string            `json:"dither"`
	}
	m := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, err
	}
	delete(m, "type")
	clean, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	if err := decodeStrict(clean, &raw); err != nil {
		return nil, err
	}
	children := make([]CanvasChild, 0, len(raw.Children))
	for i, cr := range raw.Children {
		c, pos, blend, opacity, err := parseComponentEnvelope(cr, true)
		if err != nil {
			return nil, fmt.Errorf("canvas child %d: %w", i, err)
		}
		children = append(children, CanvasChild{Component: c, Position: pos, Blend: blend, Opacity: opacity})
	}
	return Canvas{Children: children, Height: raw.Height, DitherMode: raw.Dither}, nil
}
