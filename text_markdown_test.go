package kraken

import "testing"

func TestRenderMarkdownHeadingBold(t *testing.T) {
	lines := renderMarkdown("# Title", 80)
	if len(lines) == 0 || len(lines[0]) == 0 {
		t.Fatal("expected at least one span for the heading line")
	}
	found := false
	for _, span := range lines[0] {
		if span.Attr.Has(AttrBold) {
			found = true
		}
	}
	if !found {
		t.Error("expected heading text to carry AttrBold")
	}
}

func TestRenderMarkdownMixedRunsPreserveAttrs(t *testing.T) {
	lines := renderMarkdown("plain **bold** plain", 80)
	if len(lines) == 0 {
		t.Fatal("expected output lines")
	}
	var sawBold, sawPlainAfterBold bool
	var sawUnstyledSeparator bool
	for _, span := range lines[0] {
		if span.Text == " " && span.Attr == 0 {
			sawUnstyledSeparator = true
		}
		if span.Attr.Has(AttrBold) {
			sawBold = true
		} else if sawBold && span.Text != " " {
			sawPlainAfterBold = true
		}
	}
	if !sawBold {
		t.Error("expected a bold run")
	}
	if !sawPlainAfterBold {
		t.Error("expected a plain run following the bold run")
	}
	if !sawUnstyledSeparator {
		t.Error("expected at least one unstyled separating space between words")
	}
}

func TestRenderMarkdownEmptyInput(t *testing.T) {
	lines := renderMarkdown("", 80)
	if len(lines) == 0 {
		t.Fatal("expected at least one (possibly empty) line for empty input")
	}
}

func TestWrapTokensRespectsWidth(t *testing.T) {
	tokens := []spanToken{
		{text: "one"}, {text: "two"}, {text: "three"}, {text: "four"},
	}
	lines := wrapTokens(tokens, 8)
	for _, line := range lines {
		w := 0
		for _, span := range line {
			w += displayWidth(span.Text)
		}
		if w > 8 {
			t.Errorf("line exceeds width 8: %+v", line)
		}
	}
}
