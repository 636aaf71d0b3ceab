package kraken

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// text.go covers the Plain content format and the shared measurement
// helpers text_markdown.go/text_code.go build on: column measurement via
// go-runewidth, and grapheme clustering for cursor motion via
// rivo/uniseg.

// SetContent sets a node's raw text content and format, and marks it dirty.
func (c *Context) SetContent(h Handle, content string, format ContentFormat) error {
	n, err := c.get(h)
	if err != nil {
		return err
	}
	n.content = content
	n.format = format
	c.markDirty(h)
	return nil
}

// SetLanguage sets the highlighting language used when format is Code.
func (c *Context) SetLanguage(h Handle, language string) error {
	n, err := c.get(h)
	if err != nil {
		return err
	}
	n.language = language
	c.markDirty(h)
	return nil
}

// Content returns a node's raw content string.
func (c *Context) Content(h Handle) (string, error) {
	n, err := c.get(h)
	if err != nil {
		return "", err
	}
	return n.content, nil
}

// Language returns the highlighting language set for a Code-format node.
func (c *Context) Language(h Handle) (string, error) {
	n, err := c.get(h)
	if err != nil {
		return "", err
	}
	return n.language, nil
}

// MeasureText returns the display cell width of s: CJK and emoji count as
// 2 columns, combining marks as 0, via the same grapheme-aware
// go-runewidth measurement every paint path uses.
func MeasureText(s string) int {
	return displayWidth(s)
}

// displayWidth returns the terminal column width of s, grapheme-aware for
// combining marks and wide runes alike.
func displayWidth(s string) int {
	return runewidth.StringWidth(s)
}

// graphemes splits s into its grapheme clusters.
func graphemes(s string) []string {
	var out []string
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// wrapPlain wraps plain text to width columns, breaking at grapheme
// boundaries on whitespace where possible and hard-breaking an
// unbreakable run that itself exceeds width.
func wrapPlain(text string, width int) []StyledSpan {
	if width <= 0 {
		width = 1
	}
	var spans []StyledSpan
	for _, line := range strings.Split(text, "\n") {
		spans = append(spans, wrapLine(line, width)...)
	}
	return spans
}

func wrapLine(line string, width int) []StyledSpan {
	if line == "" {
		return []StyledSpan{{Text: ""}}
	}
	words := strings.Fields(line)
	if len(words) == 0 {
		return []StyledSpan{{Text: ""}}
	}

	var out []StyledSpan
	var cur strings.Builder
	curW := 0

	flush := func() {
		out = append(out, StyledSpan{Text: cur.String()})
		cur.Reset()
		curW = 0
	}

	for _, word := range words {
		ww := displayWidth(word)
		if ww > width {
			if curW > 0 {
				flush()
			}
			for _, piece := range hardBreak(word, width) {
				out = append(out, StyledSpan{Text: piece})
			}
			continue
		}
		sep := 0
		if curW > 0 {
			sep = 1
		}
		if curW+sep+ww > width {
			flush()
			cur.WriteString(word)
			curW = ww
			continue
		}
		if sep == 1 {
			cur.WriteByte(' ')
			curW++
		}
		cur.WriteString(word)
		curW += ww
	}
	if curW > 0 || len(out) == 0 {
		flush()
	}
	return out
}

func hardBreak(word string, width int) []string {
	var out []string
	var cur strings.Builder
	curW := 0
	for _, g := range graphemes(word) {
		gw := runewidth.StringWidth(g)
		if curW+gw > width && curW > 0 {
			out = append(out, cur.String())
			cur.Reset()
			curW = 0
		}
		cur.WriteString(g)
		curW += gw
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

// measureText returns the number of wrapped display lines text occupies
// at the given column width, per content format.
func (c *Context) measureText(n *node, width int) int {
	spans := c.styledLines(n, width)
	return len(spans)
}

// styledLines renders a node's content into wrapped, styled lines according
// to its ContentFormat.
func (c *Context) styledLines(n *node, width int) [][]StyledSpan {
	switch n.format {
	case FormatMarkdown:
		return renderMarkdown(n.content, width)
	case FormatCode:
		return renderCode(n.content, n.language, width)
	default:
		flat := wrapPlain(n.content, width)
		lines := make([][]StyledSpan, len(flat))
		for i, s := range flat {
			lines[i] = []StyledSpan{s}
		}
		return lines
	}
}
