package document

import (
	"fmt"

	"github.com/inkwell-labs/thermaldoc/ir"
)

// lineStyle is the full set of text-mode dimensions a single rendered
// line can request. It is lowering's internal vocabulary; JSON
// components translate into it via styleOf below.
type lineStyle struct {
	bold, underline, upperline, invert, upsideDown, reduced bool
	align                                                    int
	font                                                     int
	size                                                      Size
}

// defaultLineStyle is the style used by layout-only lines (dividers,
// table rules, spacer-adjacent content) that carry no component-level
// style flags of their own.
func defaultLineStyle() lineStyle {
	return lineStyle{align: ir.AlignLeft, font: ir.FontA, size: Size{H: 1, W: 1}}
}

// fontOf maps a component's font field to an ir font id and reports
// whether it names the codepage-less IBM-Plex family (spec.md §4.3's
// raster-escalation path), which this package recognizes but never
// emits as SetFont.
func fontOf(name string) (id int, isIBM bool) {
	switch name {
	case "B", "b":
		return ir.FontB, false
	case "ibm", "IBM":
		return ir.FontA, true
	default:
		return ir.FontA, false
	}
}

func styleOf(t Text) lineStyle {
	st := lineStyle{
		bold:       t.Bold,
		underline:  t.Underline,
		upperline:  t.Upperline,
		invert:     t.Invert,
		upsideDown: t.UpsideDown,
		reduced:    t.Reduced,
		size:       Size{H: 1, W: 1},
	}
	switch {
	case t.Center:
		st.align = ir.AlignCenter
	case t.Right:
		st.align = ir.AlignRight
	default:
		st.align = ir.AlignLeft
	}
	st.font, _ = fontOf(t.Font)
	if t.Size != nil {
		st.size = *t.Size
	}
	return st
}

// columnsFor returns the active font's fixed monospace column count
// (spec.md §4.3: 48 for font A, 64 for font B).
func columnsFor(font int) int {
	if font == ir.FontB {
		return 64
	}
	return 48
}

// formatCurrency renders amount with a fixed 2-decimal format, matching
// spec.md §4.3's "fixed 2-decimal currency" instruction for line_item
// price and total amount fields.
func formatCurrency(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// padColumns lays left and right out across width columns, with at
// least one space separating them; right is truncated from its left
// edge if the pair doesn't fit.
func padColumns(left, right string, width int) string {
	if width <= 0 {
		width = 48
	}
	l, r := []rune(left), []rune(right)
	if len(l)+len(r) >= width {
		room := width - len(l) - 1
		if room < 0 {
			room = 0
		}
		if len(r) > room {
			r = r[len(r)-room:]
		}
	}
	pad := width - len(l) - len(r)
	if pad < 1 {
		pad = 1
	}
	return string(l) + repeatRune(' ', pad) + string(r)
}

func repeatRune(r rune, n int) string {
	if n <= 0 {
		return ""
	}
	rs := make([]rune, n)
	for i := range rs {
		rs[i] = r
	}
	return string(rs)
}

// dividerRune maps a DividerStyle to its rule character.
func dividerRune(s DividerStyle) rune {
	switch s {
	case DividerSolid:
		return '─'
	case DividerDouble:
		return '═'
	case DividerEquals:
		return '='
	default:
		return '-'
	}
}
