package document

import (
	"strings"
	"testing"
)

func TestLowerTableAlignment(t *testing.T) {
	tbl := Table{
		Headers: []string{"Item", "Qty"},
		Rows:    [][]string{{"Coffee", "2"}, {"Tea", "1"}},
		Align:   []TableAlign{AlignColLeft, AlignColRight},
		Border:  TableBorderSingle,
	}
	lines := lowerTable(tbl, 48)
	if len(lines) < 5 {
		t.Fatalf("expected border + header + rows, got %d lines: %#v", len(lines), lines)
	}
	if []rune(lines[0])[0] != '┌' {
		t.Fatalf("top rule should start with ┌, got %q", lines[0])
	}
	if !strings.HasPrefix(lines[3], "│Coffee ") || !strings.HasSuffix(lines[3], " 2│") {
		t.Fatalf("row should be left-aligned then right-aligned, got %q", lines[3])
	}
}

func TestLowerTableNoBorderUsesSpaceSeparator(t *testing.T) {
	tbl := Table{
		Headers: []string{"A", "B"},
		Rows:    [][]string{{"x", "y"}},
	}
	lines := lowerTable(tbl, 48)
	for _, l := range lines {
		for _, r := range l {
			if r == '│' || r == '┌' {
				t.Fatalf("border glyph found in unbordered table: %q", l)
			}
		}
	}
}

func TestWrapCellBreaksOnSpaces(t *testing.T) {
	got := wrapCell("one two three", 7)
	if len(got) < 2 {
		t.Fatalf("expected wrapping across multiple lines, got %#v", got)
	}
	for _, l := range got {
		if len([]rune(l)) > 7 {
			t.Fatalf("line %q exceeds width 7", l)
		}
	}
}

func TestAlignCellTruncatesOverlong(t *testing.T) {
	got := alignCell("abcdefgh", 4, AlignColLeft)
	if got != "abcd" {
		t.Fatalf("alignCell truncation = %q, want %q", got, "abcd")
	}
}
