package kraken

import "testing"

func TestMeasureTextWidth(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abc", 3},
		{"你好", 4},
		{"é", 1}, // "é" as e + combining acute: one cell
	}
	for _, tt := range tests {
		if got := MeasureText(tt.in); got != tt.want {
			t.Errorf("MeasureText(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestGraphemes(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abc", 3},
		{"héllo", 5},
	}
	for _, tt := range tests {
		if got := len(graphemes(tt.in)); got != tt.want {
			t.Errorf("graphemes(%q) len = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestWrapPlainBreaksOnWhitespace(t *testing.T) {
	spans := wrapPlain("the quick brown fox", 10)
	if len(spans) == 0 {
		t.Fatal("expected at least one wrapped line")
	}
	for _, s := range spans {
		if displayWidth(s.Text) > 10 {
			t.Errorf("line %q exceeds width 10", s.Text)
		}
	}
}

func TestWrapPlainHardBreaksOverlongWord(t *testing.T) {
	spans := wrapPlain("supercalifragilisticexpialidocious", 10)
	if len(spans) < 3 {
		t.Fatalf("expected an overlong word to be split into multiple lines, got %d", len(spans))
	}
	for _, s := range spans {
		if displayWidth(s.Text) > 10 {
			t.Errorf("line %q exceeds width 10", s.Text)
		}
	}
}

func TestWrapPlainPreservesNewlines(t *testing.T) {
	spans := wrapPlain("one\ntwo", 80)
	if len(spans) != 2 {
		t.Fatalf("got %d lines, want 2", len(spans))
	}
	if spans[0].Text != "one" || spans[1].Text != "two" {
		t.Errorf("got %q / %q", spans[0].Text, spans[1].Text)
	}
}

func TestSetContentAndLanguage(t *testing.T) {
	c := newTestContext(t)
	n := c.CreateNode(KindText)
	if err := c.SetContent(n, "hello", FormatPlain); err != nil {
		t.Fatal(err)
	}
	got, err := c.Content(n)
	if err != nil || got != "hello" {
		t.Fatalf("Content() = %q, %v, want %q", got, err, "hello")
	}
	if err := c.SetLanguage(n, "go"); err != nil {
		t.Fatal(err)
	}
}

func TestStyledLinesPlainFormat(t *testing.T) {
	c := newTestContext(t)
	n := c.CreateNode(KindText)
	if err := c.SetContent(n, "hi there", FormatPlain); err != nil {
		t.Fatal(err)
	}
	node, _ := c.get(n)
	lines := c.styledLines(node, 80)
	if len(lines) != 1 || len(lines[0]) != 1 || lines[0][0].Text != "hi there" {
		t.Fatalf("got %+v", lines)
	}
}
