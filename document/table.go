package document

import "strings"

// tableGlyphs names the eleven box-drawing characters a border style
// needs: corners, tees, cross, and the horizontal/vertical rules.
type tableGlyphs struct {
	topL, topM, topR       rune
	midL, midM, midR       rune
	botL, botM, botR       rune
	horiz, vert            rune
}

var singleGlyphs = tableGlyphs{
	topL: '┌', topM: '┬', topR: '┐',
	midL: '├', midM: '┼', midR: '┤',
	botL: '└', botM: '┴', botR: '┘',
	horiz: '─', vert: '│',
}

var doubleGlyphs = tableGlyphs{
	topL: '╔', topM: '╦', topR: '╗',
	midL: '╠', midM: '╬', midR: '╣',
	botL: '╚', botM: '╩', botR: '╝',
	horiz: '═', vert: '║',
}

// columnWidths splits width evenly across n columns, handing any
// remainder to the last column.
func columnWidths(width, n int) []int {
	if n <= 0 {
		return nil
	}
	each := width / n
	if each < 1 {
		each = 1
	}
	out := make([]int, n)
	used := 0
	for i := 0; i < n-1; i++ {
		out[i] = each
		used += each
	}
	out[n-1] = width - used
	if out[n-1] < 1 {
		out[n-1] = 1
	}
	return out
}

// wrapCell breaks s into lines of at most width runes, breaking on
// spaces where possible.
func wrapCell(s string, width int) []string {
	if width < 1 {
		width = 1
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	cur := ""
	for _, w := range words {
		candidate := w
		if cur != "" {
			candidate = cur + " " + w
		}
		if len([]rune(candidate)) > width && cur != "" {
			lines = append(lines, cur)
			cur = w
			continue
		}
		cur = candidate
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	// A single word longer than width is hard-truncated rather than
	// left to overflow the column.
	for i, l := range lines {
		if r := []rune(l); len(r) > width {
			lines[i] = string(r[:width])
		}
	}
	return lines
}

func alignCell(s string, width int, align TableAlign) string {
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	pad := width - len(r)
	switch align {
	case AlignColRight:
		return repeatRune(' ', pad) + s
	case AlignColCenter:
		left := pad / 2
		return repeatRune(' ', left) + s + repeatRune(' ', pad-left)
	default:
		return s + repeatRune(' ', pad)
	}
}

// renderRow lays one row of cells into possibly several wrapped output
// lines, each already framed with the border's vertical rule.
func renderRow(cells []string, widths []int, aligns []TableAlign, g tableGlyphs, bordered bool) []string {
	wrapped := make([][]string, len(cells))
	maxLines := 1
	for i, c := range cells {
		w := 0
		if i < len(widths) {
			w = widths[i]
		}
		wrapped[i] = wrapCell(c, w)
		if len(wrapped[i]) > maxLines {
			maxLines = len(wrapped[i])
		}
	}
	out := make([]string, maxLines)
	for ln := 0; ln < maxLines; ln++ {
		var b strings.Builder
		if bordered {
			b.WriteRune(g.vert)
		}
		for i := range cells {
			cellLine := ""
			if ln < len(wrapped[i]) {
				cellLine = wrapped[i][ln]
			}
			align := AlignColLeft
			if i < len(aligns) {
				align = aligns[i]
			}
			w := 0
			if i < len(widths) {
				w = widths[i]
			}
			b.WriteString(alignCell(cellLine, w, align))
			if bordered {
				b.WriteRune(g.vert)
			} else if i < len(cells)-1 {
				b.WriteRune(' ')
			}
		}
		out[ln] = b.String()
	}
	return out
}

func ruleLine(widths []int, left, mid, right, horiz rune) string {
	var b strings.Builder
	b.WriteRune(left)
	for i, w := range widths {
		b.WriteString(strings.Repeat(string(horiz), w))
		if i < len(widths)-1 {
			b.WriteRune(mid)
		}
	}
	b.WriteRune(right)
	return b.String()
}

// lowerTable expands a Table component into plain text lines at the
// active font's column count, per spec.md §4.3: "cells are wrapped to
// column widths; per-column alignment honored."
func lowerTable(t Table, cols int) []string {
	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}
	if numCols == 0 {
		return nil
	}
	bordered := t.Border == TableBorderSingle || t.Border == TableBorderDouble
	innerWidth := cols
	if bordered {
		innerWidth = cols - (numCols + 1)
	} else {
		innerWidth = cols - (numCols - 1)
	}
	if innerWidth < numCols {
		innerWidth = numCols
	}
	widths := columnWidths(innerWidth, numCols)
	aligns := make([]TableAlign, numCols)
	for i := range aligns {
		aligns[i] = AlignColLeft
		if i < len(t.Align) {
			aligns[i] = t.Align[i]
		}
	}
	g := singleGlyphs
	if t.Border == TableBorderDouble {
		g = doubleGlyphs
	}

	var lines []string
	if bordered {
		lines = append(lines, ruleLine(widths, g.topL, g.topM, g.topR, g.horiz))
	}
	if len(t.Headers) > 0 {
		lines = append(lines, renderRow(t.Headers, widths, aligns, g, bordered)...)
		if bordered {
			lines = append(lines, ruleLine(widths, g.midL, g.midM, g.midR, g.horiz))
		}
	}
	for i, row := range t.Rows {
		lines = append(lines, renderRow(row, widths, aligns, g, bordered)...)
		if t.RowSeparators && bordered && i < len(t.Rows)-1 {
			lines = append(lines, ruleLine(widths, g.midL, g.midM, g.midR, g.horiz))
		}
	}
	if bordered {
		lines = append(lines, ruleLine(widths, g.botL, g.botM, g.botR, g.horiz))
	}
	return lines
}
