package kraken

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// quoteFG is the muted foreground applied to blockquote text, distinguishing
// it from surrounding body copy the way a terminal pager dims quoted mail.
var quoteFG = RGB(0x6a, 0x6a, 0x7a)

// text_markdown.go converts a Markdown source string into wrapped,
// per-line StyledSpans covering heading/strong/emphasis/strikethrough/
// code/blockquote/list/link/hr. It walks a goldmark AST into a styled
// intermediate form, retargeted to StyledSpan plus this package's
// Attr/Color types. The `extast.Strikethrough` case and the extension
// registration below turn on GFM strikethrough parsing, which goldmark's
// default parser configuration does not include.
var md = goldmark.New(goldmark.WithExtensions(extension.Strikethrough))
var mdParser = md.Parser()

// renderMarkdown parses src as Markdown and lays it out into lines of
// StyledSpan wrapped to width columns.
func renderMarkdown(src string, width int) [][]StyledSpan {
	reader := text.NewReader([]byte(src))
	doc := mdParser.Parse(reader)

	var out [][]StyledSpan
	mw := &mdWalker{source: []byte(src), width: width}
	_ = ast.Walk(doc, mw.visit)
	mw.flushParagraph()
	out = mw.lines
	if len(out) == 0 {
		out = [][]StyledSpan{{}}
	}
	return out
}

type mdWalker struct {
	source []byte
	width  int
	lines  [][]StyledSpan

	para       []inlineRun
	listItem   bool
	listStack  []*listState
	quoteDepth int
}

// listState tracks one level of list nesting: whether it's ordered (and if
// so, the running item counter) and its nesting depth, so flushParagraph
// can emit " n. " with a per-list counter for ordered lists and
// "  "×(depth−1)+" • " for unordered ones.
type listState struct {
	ordered bool
	counter int
	depth   int
}

type inlineRun struct {
	text string
	attr Attr
	fg   Color
}

func (w *mdWalker) visit(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch tn := n.(type) {
	case *ast.Heading:
		if entering {
			w.flushParagraph()
		} else {
			text := strings.Repeat("#", tn.Level) + " " + w.collectText(n)
			var tokens []spanToken
			for _, word := range strings.Fields(text) {
				tokens = append(tokens, spanToken{text: word, attr: AttrBold, fg: RGB(0xe0, 0xaf, 0x68)})
			}
			w.lines = append(w.lines, wrapTokens(tokens, w.width)...)
			trailingBlanks := 1
			if tn.Level == 1 {
				trailingBlanks = 2
			}
			for i := 0; i < trailingBlanks; i++ {
				w.lines = append(w.lines, []StyledSpan{{}})
			}
			return ast.WalkSkipChildren, nil
		}
	case *ast.Paragraph:
		if !entering {
			w.flushParagraph()
		}
	case *ast.ThematicBreak:
		w.flushParagraph()
		w.lines = append(w.lines, []StyledSpan{{Text: strings.Repeat("─", w.width)}})
	case *ast.Blockquote:
		if entering {
			w.flushParagraph()
			w.quoteDepth++
		} else {
			w.flushParagraph()
			w.quoteDepth--
			if w.quoteDepth == 0 {
				w.lines = append(w.lines, []StyledSpan{{}})
			}
		}
	case *ast.List:
		if entering {
			w.flushParagraph()
			w.listStack = append(w.listStack, &listState{ordered: tn.IsOrdered(), depth: len(w.listStack) + 1})
		} else {
			w.flushParagraph()
			w.listStack = w.listStack[:len(w.listStack)-1]
		}
	case *ast.ListItem:
		if entering {
			w.listItem = true
			if len(w.listStack) > 0 {
				w.listStack[len(w.listStack)-1].counter++
			}
		} else {
			w.flushParagraph()
			w.listItem = false
		}
	case *ast.CodeBlock, *ast.FencedCodeBlock:
		if entering {
			w.flushParagraph()
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				w.lines = append(w.lines, []StyledSpan{{Text: strings.TrimRight(string(seg.Value(w.source)), "\n"), FG: RGB(0x7a, 0xc9, 0xff)}})
			}
			return ast.WalkSkipChildren, nil
		}
	case *ast.Emphasis:
		if entering {
			attr := AttrItalic
			if tn.Level >= 2 {
				attr = AttrBold
			}
			w.para = append(w.para, inlineRun{text: w.collectText(n), attr: attr})
			return ast.WalkSkipChildren, nil
		}
	case *ast.CodeSpan:
		if entering {
			w.para = append(w.para, inlineRun{text: w.collectText(n), fg: RGB(0x7a, 0xc9, 0xff)})
			return ast.WalkSkipChildren, nil
		}
	case *ast.Link:
		if entering {
			w.para = append(w.para, inlineRun{text: w.collectText(n), attr: AttrUnderline, fg: RGB(0x6a, 0x9f, 0xe0)})
			return ast.WalkSkipChildren, nil
		}
	case *extast.Strikethrough:
		if entering {
			w.para = append(w.para, inlineRun{text: w.collectText(n), attr: AttrStrikethrough})
			return ast.WalkSkipChildren, nil
		}
	case *ast.Text:
		if entering {
			segment := tn.Segment
			w.para = append(w.para, inlineRun{text: string(segment.Value(w.source))})
		}
	}
	return ast.WalkContinue, nil
}

func (w *mdWalker) collectText(n ast.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(w.source))
		} else {
			buf.WriteString(w.collectText(c))
		}
	}
	return buf.String()
}

func (w *mdWalker) flushParagraph() {
	if len(w.para) == 0 {
		return
	}
	prefix := ""
	if w.listItem && len(w.listStack) > 0 {
		top := w.listStack[len(w.listStack)-1]
		if top.depth > 1 {
			prefix = strings.Repeat("  ", top.depth-1)
		}
		if top.ordered {
			prefix += fmt.Sprintf("%d. ", top.counter)
		} else {
			prefix += "• "
		}
		prefix = " " + prefix
	}
	if w.quoteDepth > 0 {
		prefix = strings.Repeat("▎ ", w.quoteDepth) + prefix
	}

	quoted := w.quoteDepth > 0

	var tokens []spanToken
	if prefix != "" {
		tok := spanToken{text: strings.TrimRight(prefix, " ")}
		if quoted {
			tok.attr |= AttrItalic
			tok.fg = quoteFG
		}
		tokens = append(tokens, tok)
	}
	for _, r := range w.para {
		attr := r.attr
		fg := r.fg
		if quoted {
			attr |= AttrItalic
			if fg == 0 {
				fg = quoteFG
			}
		}
		for _, word := range strings.Fields(r.text) {
			tokens = append(tokens, spanToken{text: word, attr: attr, fg: fg})
		}
	}
	w.lines = append(w.lines, wrapTokens(tokens, w.width)...)
	w.para = nil
}

// spanToken is one word (or word-piece) carrying the attr/fg of the inline
// run it came from, the unit wrapTokens wraps at — preserving per-run
// styling across word-wrap boundaries rather than collapsing a paragraph's
// mixed-attribute runs down to one representative style as Strong/
// Emphasis/Strikethrough toggle attribute flags across inline text.
type spanToken struct {
	text string
	attr Attr
	fg   Color
}

// wrapTokens greedily word-wraps a flat token sequence to width columns,
// inserting an unstyled single-space separator between words on the same
// line — the separator itself never carries an adjacent word's
// attributes, so a space between a bold and a plain run is itself plain.
func wrapTokens(tokens []spanToken, width int) [][]StyledSpan {
	if width <= 0 {
		width = 1
	}
	if len(tokens) == 0 {
		return [][]StyledSpan{{}}
	}

	var lines [][]StyledSpan
	var cur []StyledSpan
	curW := 0

	flush := func() {
		lines = append(lines, cur)
		cur = nil
		curW = 0
	}
	appendSpan := func(s StyledSpan) {
		cur = append(cur, s)
		curW += displayWidth(s.Text)
	}

	for _, tok := range tokens {
		tw := displayWidth(tok.text)
		if tw > width {
			if curW > 0 {
				flush()
			}
			for i, piece := range hardBreak(tok.text, width) {
				if i > 0 {
					flush()
				}
				appendSpan(StyledSpan{Text: piece, Attr: tok.attr, FG: tok.fg})
			}
			continue
		}
		sep := 0
		if curW > 0 {
			sep = 1
		}
		if curW+sep+tw > width {
			flush()
			appendSpan(StyledSpan{Text: tok.text, Attr: tok.attr, FG: tok.fg})
			continue
		}
		if sep == 1 {
			appendSpan(StyledSpan{Text: " "})
		}
		appendSpan(StyledSpan{Text: tok.text, Attr: tok.attr, FG: tok.fg})
	}
	if curW > 0 || len(lines) == 0 {
		flush()
	}
	return lines
}
