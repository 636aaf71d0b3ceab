package kraken

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// text_code.go covers the Code content format: syntax highlighting via
// chroma. The highlighter is treated as an external black box — only its
// token stream is consumed here, never its internals. attrForToken pulls
// Bold/Italic/Underline off a chroma.Style the same way a chroma-based
// viewer would before handing a token off to its own renderer.

var codeTokenColors = map[chroma.TokenType]Color{
	chroma.Keyword:        RGB(0xc6, 0x92, 0xe8),
	chroma.KeywordType:     RGB(0xc6, 0x92, 0xe8),
	chroma.NameFunction:    RGB(0x7a, 0xc9, 0xff),
	chroma.NameClass:       RGB(0x7a, 0xc9, 0xff),
	chroma.LiteralString:   RGB(0x9c, 0xd6, 0x6b),
	chroma.LiteralNumber:   RGB(0xe0, 0xaf, 0x68),
	chroma.Comment:         RGB(0x6a, 0x73, 0x80),
	chroma.CommentSingle:   RGB(0x6a, 0x73, 0x80),
	chroma.CommentMultiline: RGB(0x6a, 0x73, 0x80),
	chroma.Operator:        RGB(0xe0, 0xe0, 0xe0),
	chroma.NameBuiltin:     RGB(0xe0, 0xaf, 0x68),
}

func colorForToken(t chroma.TokenType) Color {
	if c, ok := codeTokenColors[t]; ok {
		return c
	}
	// Fall back to the sub-category, then the category (chroma numbers
	// subtypes as base+N, e.g. LiteralStringDouble sits under LiteralString,
	// which sits under Literal).
	if c, ok := codeTokenColors[t.SubCategory()]; ok {
		return c
	}
	if c, ok := codeTokenColors[t.Category()]; ok {
		return c
	}
	return DefaultColor
}

// codeStyle supplies the Bold/Italic/Underline attributes that ride along
// with the token colors above, the way formatTTY16mWithPanelBG pulls them
// from a chroma.Style via style.Get(tokenType) rather than hand-rolling an
// attribute table per token type.
var codeStyle = styles.Get("monokai")

func attrForToken(t chroma.TokenType) Attr {
	entry := codeStyle.Get(t)
	var attr Attr
	if entry.Bold == chroma.Yes {
		attr |= AttrBold
	}
	if entry.Italic == chroma.Yes {
		attr |= AttrItalic
	}
	if entry.Underline == chroma.Yes {
		attr |= AttrUnderline
	}
	return attr
}

// renderCode highlights src as language and wraps the result to width
// columns, one StyledSpan run per token. A line is broken at the column
// boundary, splitting a token mid-text if needed; each piece keeps its
// token's color and attributes.
func renderCode(src, language string, width int) [][]StyledSpan {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, src)
	if err != nil {
		return [][]StyledSpan{{{Text: src}}}
	}

	var lines [][]StyledSpan
	var cur []StyledSpan
	var curWidth int

	emit := func(text string, fg Color, attr Attr) {
		for _, part := range strings.SplitAfter(text, "\n") {
			if part == "" {
				continue
			}
			hasNL := strings.HasSuffix(part, "\n")
			clean := strings.TrimSuffix(part, "\n")
			if clean != "" {
				remaining := clean
				for remaining != "" {
					avail := width - curWidth
					if avail <= 0 {
						lines = append(lines, cur)
						cur = nil
						curWidth = 0
						avail = width
					}
					take := remaining
					if displayWidth(take) > avail {
						take = truncateToWidth(take, avail)
						if take == "" {
							take = remaining[:1]
						}
					}
					cur = append(cur, StyledSpan{Text: take, FG: fg, Attr: attr})
					curWidth += displayWidth(take)
					remaining = remaining[len(take):]
				}
			}
			if hasNL {
				lines = append(lines, cur)
				cur = nil
				curWidth = 0
			}
		}
	}

	for token := iterator(); token != chroma.EOF; token = iterator() {
		emit(token.Value, colorForToken(token.Type), attrForToken(token.Type))
	}
	if len(cur) > 0 || len(lines) == 0 {
		lines = append(lines, cur)
	}
	return lines
}

func truncateToWidth(s string, width int) string {
	w := 0
	for i, g := range graphemes(s) {
		gw := displayWidth(g)
		if w+gw > width {
			return strings.Join(graphemes(s)[:i], "")
		}
		w += gw
	}
	return s
}
