package document

import (
	"strconv"
	"strings"
	"time"
)

// Clock supplies the wall-clock time variable substitution evaluates
// against. Injected so lowering stays deterministic under test,
// mirroring spec.md §9's ImageSource seam.
type Clock interface {
	Now() time.Time
}

// SystemClock is the default Clock, backed by time.Now.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time { return time.Now() }

// builtinVar renders one of the fixed date/time placeholders
// (spec.md §4.3) against now.
func builtinVar(name string, now time.Time) (string, bool) {
	switch name {
	case "date":
		return now.Format("Monday, January 2, 2006"), true
	case "date_short":
		return now.Format("01/02/2006"), true
	case "day":
		return now.Format("Monday"), true
	case "time":
		return now.Format("15:04"), true
	case "time_12h":
		return now.Format("3:04 PM"), true
	case "datetime":
		return now.Format("01/02/2006 15:04"), true
	case "year":
		return strconv.Itoa(now.Year()), true
	case "iso_date":
		return now.Format("2006-01-02"), true
	default:
		return "", false
	}
}

// substitute replaces every {{name}} placeholder in s: built-ins first,
// then vars, leaving unknown placeholders literally untouched per
// spec.md §4.3.
func substitute(s string, vars map[string]string, now time.Time) string {
	if !strings.Contains(s, "{{") {
		return s
	}
	var out strings.Builder
	rest := s
	for {
		i := strings.Index(rest, "{{")
		if i < 0 {
			out.WriteString(rest)
			break
		}
		out.WriteString(rest[:i])
		rest = rest[i+2:]
		j := strings.Index(rest, "}}")
		if j < 0 {
			// Unterminated placeholder: emit the opener literally and stop.
			out.WriteString("{{")
			out.WriteString(rest)
			break
		}
		raw := rest[:j]
		name := strings.TrimSpace(raw)
		rest = rest[j+2:]
		if v, ok := builtinVar(name, now); ok {
			out.WriteString(v)
			continue
		}
		if v, ok := vars[name]; ok {
			out.WriteString(v)
			continue
		}
		out.WriteString("{{" + raw + "}}")
	}
	return out.String()
}

// substituteDoc returns a copy of doc with every text-bearing field
// substituted, leaving doc itself untouched (components are
// value-typed, per spec.md §3's ownership rule).
func substituteDoc(doc Document, now time.Time) Document {
	out := doc
	out.Components = make([]Component, len(doc.Components))
	for i, c := range doc.Components {
		out.Components[i] = substituteComponent(c, doc.Variables, now)
	}
	return out
}

func substituteComponent(c Component, vars map[string]string, now time.Time) Component {
	sub := func(s string) string { return substitute(s, vars, now) }
	switch v := c.(type) {
	case Text:
		v.Content = sub(v.Content)
		return v
	case Header:
		v.Content = sub(v.Content)
		return v
	case Banner:
		v.Content = sub(v.Content)
		return v
	case LineItem:
		v.Name = sub(v.Name)
		return v
	case Total:
		v.Label = sub(v.Label)
		return v
	case Columns:
		v.Left = sub(v.Left)
		v.Right = sub(v.Right)
		return v
	case Table:
		v.Headers = subSlice(v.Headers, sub)
		rows := make([][]string, len(v.Rows))
		for i, r := range v.Rows {
			rows[i] = subSlice(r, sub)
		}
		v.Rows = rows
		return v
	case Markdown:
		v.Content = sub(v.Content)
		return v
	case QRCode:
		v.Payload = sub(v.Payload)
		return v
	case PDF417:
		v.Payload = sub(v.Payload)
		return v
	case Barcode:
		v.Payload = sub(v.Payload)
		return v
	case Canvas:
		children := make([]CanvasChild, len(v.Children))
		for i, ch := range v.Children {
			ch.Component = substituteComponent(ch.Component, vars, now)
			children[i] = ch
		}
		v.Children = children
		return v
	default:
		return c
	}
}

func subSlice(ss []string, f func(string) string) []string {
	if ss == nil {
		return nil
	}
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = f(s)
	}
	return out
}
