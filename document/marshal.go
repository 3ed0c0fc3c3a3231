package document

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON serializes d back to the wire schema of spec.md §6. Key
// order may differ from whatever produced d; field values do not.
func (d Document) MarshalJSON() ([]byte, error) {
	comps := make([]json.RawMessage, 0, len(d.Components))
	for _, c := range d.Components {
		raw, err := marshalComponent(c, nil, "", 0)
		if err != nil {
			return nil, err
		}
		comps = append(comps, raw)
	}
	cut := d.Cut
	w := documentWire{
		Document:   comps,
		Cut:        &cut,
		Variables:  d.Variables,
		Profile:    d.Profile,
		OpenDrawer: d.OpenDrawer,
	}
	return json.Marshal(w)
}

// marshalComponent serializes one component, injecting its "type" tag
// and, for canvas children, the position/blend/opacity envelope fields.
func marshalComponent(c Component, pos *Position, blend string, opacity float64) (json.RawMessage, error) {
	if canvas, ok := c.(Canvas); ok {
		return marshalCanvas(canvas)
	}
	body, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, err
	}
	tagJSON, _ := json.Marshal(c.componentTag())
	m["type"] = tagJSON
	if pos != nil {
		pb, err := json.Marshal(pos)
		if err != nil {
			return nil, err
		}
		m["position"] = pb
	}
	if blend != "" {
		bb, _ := json.Marshal(blend)
		m["blend"] = bb
	}
	if opacity != 0 {
		ob, _ := json.Marshal(opacity)
		m["opacity"] = ob
	}
	return json.Marshal(m)
}

func marshalCanvas(c Canvas) (json.RawMessage, error) {
	children := make([]json.RawMessage, 0, len(c.Children))
	for _, ch := range c.Children {
		raw, err := marshalComponent(ch.Component, ch.Position, ch.Blend, ch.Opacity)
		if err != nil {
			return nil, fmt.Errorf("canvas child: %w", err)
		}
		children = append(children, raw)
	}
	m := map[string]interface{}{
		"type":     c.componentTag(),
		"children": children,
	}
	if c.Height != 0 {
		m["height"] = c.Height
	}
	if c.DitherMode != "" {
		m["dither"] = c.DitherMode
	}
	return json.Marshal(m)
}
