package document

import (
	"regexp"
	"strings"
)

// mdLine is one expanded output line from a Markdown component: the
// stripped text plus the style bits its original markup implies.
type mdLine struct {
	content string
	heading int // 1-6, 0 = not a heading
	bold    bool
	italic  bool // rendered via underline fallback (no italic on ESC/POS)
}

var (
	mdBulletRe   = regexp.MustCompile(`^[-*]\s+(.*)$`)
	mdNumberedRe = regexp.MustCompile(`^(\d+)\.\s+(.*)$`)
	mdBoldRe     = regexp.MustCompile(`\*\*(.+?)\*\*`)
	mdItalicRe   = regexp.MustCompile(`(?:_([^_]+)_|\*([^*]+)\*)`)
)

// parseMarkdown implements spec.md §4.3's restricted inline subset:
// headings 1-6, **bold**, _italic_/*italic*, bullet and numbered
// lists. It is line-oriented, not a general CommonMark parser.
func parseMarkdown(content string) []mdLine {
	var out []mdLine
	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimRight(raw, " \t")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if level, rest, ok := parseHeading(line); ok {
			out = append(out, mdLine{content: stripInline(rest), heading: level})
			continue
		}
		if m := mdBulletRe.FindStringSubmatch(line); m != nil {
			text, bold, italic := inlineStyle(m[1])
			out = append(out, mdLine{content: "• " + text, bold: bold, italic: italic})
			continue
		}
		if m := mdNumberedRe.FindStringSubmatch(line); m != nil {
			text, bold, italic := inlineStyle(m[2])
			out = append(out, mdLine{content: m[1] + ". " + text, bold: bold, italic: italic})
			continue
		}
		text, bold, italic := inlineStyle(line)
		out = append(out, mdLine{content: text, bold: bold, italic: italic})
	}
	return out
}

func parseHeading(line string) (level int, rest string, ok bool) {
	n := 0
	for n < len(line) && n < 6 && line[n] == '#' {
		n++
	}
	if n == 0 || n >= len(line) || line[n] != ' ' {
		return 0, "", false
	}
	return n, strings.TrimSpace(line[n+1:]), true
}

// inlineStyle strips **bold** and _italic_/*italic* markers from s,
// reporting whether either was present anywhere in the line. Partial
// (run-level) styling isn't representable in the line-based ir.Text
// op, so a line carrying any bold/italic span renders its whole line
// in that style — a deliberate simplification of true markdown.
func inlineStyle(s string) (text string, bold, italic bool) {
	if mdBoldRe.MatchString(s) {
		bold = true
		s = mdBoldRe.ReplaceAllString(s, "$1")
	}
	if mdItalicRe.MatchString(s) {
		italic = true
		s = mdItalicRe.ReplaceAllStringFunc(s, func(m string) string {
			sub := mdItalicRe.FindStringSubmatch(m)
			if sub[1] != "" {
				return sub[1]
			}
			return sub[2]
		})
	}
	return s, bold, italic
}

func stripInline(s string) string {
	text, _, _ := inlineStyle(s)
	return text
}

// headingSize maps a 1-6 markdown heading level to a text Size, larger
// numbers meaning smaller headings (h1 biggest).
func headingSize(level int) Size {
	switch {
	case level <= 1:
		return Size{H: 2, W: 2}
	case level == 2:
		return Size{H: 2, W: 1}
	default:
		return Size{H: 1, W: 1}
	}
}
