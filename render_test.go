package kraken

import "testing"

// TestRenderPaintsTextContent checks that an 80x24 root with a Text child
// at width 20 height 1 containing "Hello" spells it out in the back buffer
// with a trailing space.
func TestRenderPaintsTextContent(t *testing.T) {
	c := newContext(NewHeadlessBackend(80, 24), 80, 24, Options{})
	root := c.CreateNode(KindContainer)
	text := c.CreateNode(KindText)
	if err := c.AppendChild(root, text); err != nil {
		t.Fatal(err)
	}
	if err := c.SetLayoutDimension(text, PropWidth, 20, UnitCells); err != nil {
		t.Fatal(err)
	}
	if err := c.SetLayoutDimension(text, PropHeight, 1, UnitCells); err != nil {
		t.Fatal(err)
	}
	if err := c.SetContent(text, "Hello", FormatPlain); err != nil {
		t.Fatal(err)
	}
	if err := c.SetRoot(root); err != nil {
		t.Fatal(err)
	}
	if err := c.Render(); err != nil {
		t.Fatal(err)
	}

	want := "Hello"
	for i, ch := range want {
		got := c.back.Get(i, 0)
		if got.Ch != ch {
			t.Errorf("cell (%d,0) = %q, want %q", i, got.Ch, ch)
		}
	}
	if sp := c.back.Get(5, 0); sp.Ch != ' ' {
		t.Errorf("cell (5,0) = %q, want space", sp.Ch)
	}
}

// TestRenderBorderedBox checks that a 10x5 Container with a Single border
// draws the four corners, horizontals, and verticals in the right places.
func TestRenderBorderedBox(t *testing.T) {
	c := newContext(NewHeadlessBackend(10, 5), 10, 5, Options{})
	root := c.CreateNode(KindContainer)
	if err := c.SetStyleBorderStyle(root, BorderSingle); err != nil {
		t.Fatal(err)
	}
	if err := c.SetRoot(root); err != nil {
		t.Fatal(err)
	}
	if err := c.Render(); err != nil {
		t.Fatal(err)
	}

	check := func(x, y int, want rune) {
		t.Helper()
		if got := c.back.Get(x, y).Ch; got != want {
			t.Errorf("cell (%d,%d) = %q, want %q", x, y, got, want)
		}
	}
	check(0, 0, '┌')
	check(9, 0, '┐')
	check(0, 4, '└')
	check(9, 4, '┘')
	for x := 1; x <= 8; x++ {
		check(x, 0, '─')
		check(x, 4, '─')
	}
	for y := 1; y <= 3; y++ {
		check(0, y, '│')
		check(9, y, '│')
	}
}

// TestRenderMarkdownBoldAttribute checks that "**bold** plain" as Markdown
// content sets Bold on the "bold" run and leaves the following space and
// "plain" unbolded.
func TestRenderMarkdownBoldAttribute(t *testing.T) {
	c := newContext(NewHeadlessBackend(40, 3), 40, 3, Options{})
	root := c.CreateNode(KindContainer)
	text := c.CreateNode(KindText)
	if err := c.AppendChild(root, text); err != nil {
		t.Fatal(err)
	}
	if err := c.SetLayoutDimension(text, PropWidth, 40, UnitCells); err != nil {
		t.Fatal(err)
	}
	if err := c.SetLayoutDimension(text, PropHeight, 3, UnitCells); err != nil {
		t.Fatal(err)
	}
	if err := c.SetContent(text, "**bold** plain", FormatMarkdown); err != nil {
		t.Fatal(err)
	}
	if err := c.SetRoot(root); err != nil {
		t.Fatal(err)
	}
	if err := c.Render(); err != nil {
		t.Fatal(err)
	}

	want := "bold"
	for i, ch := range want {
		cell := c.back.Get(i, 0)
		if cell.Ch != ch {
			t.Fatalf("cell (%d,0) = %q, want %q", i, cell.Ch, ch)
		}
		if !cell.Attr.Has(AttrBold) {
			t.Errorf("cell (%d,0) = %q, want Bold set", i, cell.Ch)
		}
	}
	if sp := c.back.Get(4, 0); sp.Ch != ' ' || sp.Attr.Has(AttrBold) {
		t.Errorf("cell (4,0) = %q attr %v, want unbolded space", sp.Ch, sp.Attr)
	}
	if p := c.back.Get(5, 0); p.Ch != 'p' || p.Attr.Has(AttrBold) {
		t.Errorf("cell (5,0) = %q attr %v, want unbolded 'p'", p.Ch, p.Attr)
	}
}

// TestRenderDiffIsMinimal checks that re-rendering an unchanged tree
// produces an empty diff, and that touching one cell's content produces a
// diff containing exactly the changed cells.
func TestRenderDiffIsMinimal(t *testing.T) {
	backend := NewHeadlessBackend(20, 5)
	c := newContext(backend, 20, 5, Options{})
	root := c.CreateNode(KindContainer)
	text := c.CreateNode(KindText)
	if err := c.AppendChild(root, text); err != nil {
		t.Fatal(err)
	}
	if err := c.SetContent(text, "hi", FormatPlain); err != nil {
		t.Fatal(err)
	}
	if err := c.SetRoot(root); err != nil {
		t.Fatal(err)
	}
	if err := c.Render(); err != nil {
		t.Fatal(err)
	}
	if len(backend.LastDiff()) == 0 {
		t.Fatal("expected a nonempty diff on first render")
	}

	if err := c.Render(); err != nil {
		t.Fatal(err)
	}
	if len(backend.LastDiff()) != 0 {
		t.Errorf("re-rendering an unchanged tree produced a diff of %d cells, want 0", len(backend.LastDiff()))
	}

	if err := c.SetContent(text, "HI", FormatPlain); err != nil {
		t.Fatal(err)
	}
	if err := c.Render(); err != nil {
		t.Fatal(err)
	}
	diff := backend.LastDiff()
	if len(diff) != 2 {
		t.Fatalf("changing 2 cells produced a diff of %d cells, want 2", len(diff))
	}
	for _, u := range diff {
		if u.Y != 0 || (u.X != 0 && u.X != 1) {
			t.Errorf("unexpected diff cell at (%d,%d)", u.X, u.Y)
		}
	}
}

// TestRenderClearsAllDirty checks that after Render, no node remains dirty.
func TestRenderClearsAllDirty(t *testing.T) {
	c := newTestContext(t)
	root := c.CreateNode(KindContainer)
	child := c.CreateNode(KindText)
	if err := c.AppendChild(root, child); err != nil {
		t.Fatal(err)
	}
	if err := c.SetRoot(root); err != nil {
		t.Fatal(err)
	}
	c.markDirty(child)
	if err := c.Render(); err != nil {
		t.Fatal(err)
	}
	if c.nodes[root].dirty || c.nodes[child].dirty {
		t.Error("expected no dirty nodes after Render")
	}
}

func TestBlendFGSnapsAtExtremes(t *testing.T) {
	red := RGB(200, 0, 0)
	blue := RGB(0, 0, 200)
	if got := blendFG(red, blue, 0); got != blue {
		t.Errorf("opacity 0 = %v, want bg %v", got, blue)
	}
	if got := blendFG(red, blue, 1); got != red {
		t.Errorf("opacity 1 = %v, want fg %v", got, red)
	}
	if got := blendFG(Indexed(3), blue, 0.5); got != Indexed(3) {
		t.Errorf("indexed fg should pass through unchanged, got %v", got)
	}
}
