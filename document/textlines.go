package document

import (
	"github.com/inkwell-labs/thermaldoc/ir"
)

// textLine is one fully-resolved printable line: the style it wants
// and its already-formatted content. Several component kinds lower to
// one or more of these through a shared path, whether the destination
// is the IR text op stream or a canvas child's rasterized strip.
type textLine struct {
	style   lineStyle
	content string
}

// headerSize is the size Header prints at, one step up from normal.
// Banner has no size of its own: bannerLines frames its content at
// normal size.
var headerSize = Size{H: 2, W: 2}

func linesForComponent(c Component, cols int) []textLine {
	switch v := c.(type) {
	case Text:
		return []textLine{{style: styleOf(v), content: v.Content}}
	case Header:
		st := defaultLineStyle()
		st.bold = true
		st.align = ir.AlignCenter
		st.size = headerSize
		return []textLine{{style: st, content: v.Content}}
	case Banner:
		return bannerLines(v, cols)
	case Divider:
		st := defaultLineStyle()
		return []textLine{{style: st, content: repeatRune(dividerRune(v.Style), cols)}}
	case Spacer:
		return nil
	case Columns:
		st := defaultLineStyle()
		return []textLine{{style: st, content: padColumns(v.Left, v.Right, cols)}}
	case LineItem:
		st := defaultLineStyle()
		return []textLine{{style: st, content: padColumns(v.Name, formatCurrency(v.Price), cols)}}
	case Total:
		st := defaultLineStyle()
		st.bold = true
		return []textLine{{style: st, content: padColumns(v.Label, formatCurrency(v.Amount), cols)}}
	case Table:
		st := defaultLineStyle()
		lines := lowerTable(v, cols)
		out := make([]textLine, len(lines))
		for i, l := range lines {
			out[i] = textLine{style: st, content: l}
		}
		return out
	case Markdown:
		return markdownLines(v, cols)
	default:
		return nil
	}
}

func bannerLines(b Banner, cols int) []textLine {
	inner := cols - 4 // "| " + content + " |"
	if inner < 1 {
		inner = cols
	}
	content := b.Content
	if r := []rune(content); len(r) > inner {
		content = string(r[:inner])
	}
	top := "+" + repeatRune('-', cols-2) + "+"
	mid := "| " + padColumns(content, "", inner) + " |"
	st := defaultLineStyle()
	st.bold = true
	st.align = ir.AlignCenter
	return []textLine{
		{style: defaultLineStyle(), content: top},
		{style: st, content: mid},
		{style: defaultLineStyle(), content: top},
	}
}

func markdownLines(md Markdown, cols int) []textLine {
	parsed := parseMarkdown(md.Content)
	out := make([]textLine, 0, len(parsed))
	for _, l := range parsed {
		st := defaultLineStyle()
		content := l.content
		switch {
		case l.heading > 0:
			st.bold = true
			st.size = headingSize(l.heading)
		case l.bold:
			st.bold = true
		}
		if l.italic {
			st.underline = true // no italic on ESC/POS; underline fallback
		}
		out = append(out, textLine{style: st, content: content})
	}
	return out
}
