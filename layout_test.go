package kraken

import "testing"

func TestComputeLayoutRequiresRoot(t *testing.T) {
	c := newTestContext(t)
	if err := c.ComputeLayout(); err == nil {
		t.Fatal("expected error computing layout with no root")
	}
}

func TestLayoutFillsTerminal(t *testing.T) {
	c := newTestContext(t)
	root := c.CreateNode(KindContainer)
	if err := c.SetRoot(root); err != nil {
		t.Fatal(err)
	}
	if err := c.ComputeLayout(); err != nil {
		t.Fatal(err)
	}
	x, y, w, h, err := c.GetLayout(root)
	if err != nil {
		t.Fatal(err)
	}
	if x != 0 || y != 0 || w != c.termW || h != c.termH {
		t.Fatalf("root rect = (%d,%d,%d,%d), want (0,0,%d,%d)", x, y, w, h, c.termW, c.termH)
	}
}

func TestColumnLayoutStacksChildrenVertically(t *testing.T) {
	c := newTestContext(t)
	root := c.CreateNode(KindContainer)
	a := c.CreateNode(KindText)
	b := c.CreateNode(KindText)
	if err := c.AppendChild(root, a); err != nil {
		t.Fatal(err)
	}
	if err := c.AppendChild(root, b); err != nil {
		t.Fatal(err)
	}
	if err := c.SetLayoutDimension(a, PropHeight, 2, UnitCells); err != nil {
		t.Fatal(err)
	}
	if err := c.SetLayoutDimension(b, PropHeight, 3, UnitCells); err != nil {
		t.Fatal(err)
	}
	if err := c.SetRoot(root); err != nil {
		t.Fatal(err)
	}
	if err := c.ComputeLayout(); err != nil {
		t.Fatal(err)
	}

	_, ay, _, ah, _ := c.GetLayout(a)
	_, by, _, bh, _ := c.GetLayout(b)
	if ay != 0 || ah != 2 {
		t.Errorf("a rect y,h = %d,%d, want 0,2", ay, ah)
	}
	if by != 2 || bh != 3 {
		t.Errorf("b rect y,h = %d,%d, want 2,3", by, bh)
	}
}

func TestRowLayoutFlexGrowDistributesSlack(t *testing.T) {
	c := newTestContext(t)
	root := c.CreateNode(KindContainer)
	if err := c.SetLayoutFlex(root, PropDirection, int(DirectionRow)); err != nil {
		t.Fatal(err)
	}
	a := c.CreateNode(KindText)
	b := c.CreateNode(KindText)
	if err := c.AppendChild(root, a); err != nil {
		t.Fatal(err)
	}
	if err := c.AppendChild(root, b); err != nil {
		t.Fatal(err)
	}
	if err := c.SetLayoutDimension(a, PropWidth, 10, UnitCells); err != nil {
		t.Fatal(err)
	}
	if err := c.SetLayoutDimension(b, PropWidth, 10, UnitCells); err != nil {
		t.Fatal(err)
	}
	if err := c.SetLayoutFlexFactor(b, PropFlexGrow, 1.0); err != nil {
		t.Fatal(err)
	}
	if err := c.SetRoot(root); err != nil {
		t.Fatal(err)
	}
	if err := c.ComputeLayout(); err != nil {
		t.Fatal(err)
	}

	_, _, aw, _, _ := c.GetLayout(a)
	_, _, bw, _, _ := c.GetLayout(b)
	if aw != 10 {
		t.Errorf("a width = %d, want 10 (no flex-grow)", aw)
	}
	if bw <= 10 {
		t.Errorf("b width = %d, want > 10 (absorbed leftover space)", bw)
	}
}

func TestLayoutMinMaxClamp(t *testing.T) {
	c := newTestContext(t)
	root := c.CreateNode(KindContainer)
	child := c.CreateNode(KindText)
	if err := c.AppendChild(root, child); err != nil {
		t.Fatal(err)
	}
	if err := c.SetLayoutDimension(child, PropWidth, 5, UnitCells); err != nil {
		t.Fatal(err)
	}
	if err := c.SetLayoutDimension(child, PropMinWidth, 20, UnitCells); err != nil {
		t.Fatal(err)
	}
	if err := c.SetRoot(root); err != nil {
		t.Fatal(err)
	}
	if err := c.ComputeLayout(); err != nil {
		t.Fatal(err)
	}
	_, _, w, _, _ := c.GetLayout(child)
	if w != 20 {
		t.Errorf("width = %d, want clamped to min 20", w)
	}
}

func TestHitTestFindsDeepestNode(t *testing.T) {
	c := newTestContext(t)
	root := c.CreateNode(KindContainer)
	child := c.CreateNode(KindText)
	if err := c.AppendChild(root, child); err != nil {
		t.Fatal(err)
	}
	if err := c.SetLayoutDimension(child, PropWidth, 5, UnitCells); err != nil {
		t.Fatal(err)
	}
	if err := c.SetLayoutDimension(child, PropHeight, 2, UnitCells); err != nil {
		t.Fatal(err)
	}
	if err := c.SetRoot(root); err != nil {
		t.Fatal(err)
	}
	if err := c.ComputeLayout(); err != nil {
		t.Fatal(err)
	}

	if got := c.HitTest(0, 0); got != child {
		t.Errorf("HitTest(0,0) = %d, want child %d", got, child)
	}
	if got := c.HitTest(1000, 1000); got != InvalidHandle {
		t.Errorf("HitTest out of bounds = %d, want InvalidHandle", got)
	}
}

func TestHitTestNoRoot(t *testing.T) {
	c := newTestContext(t)
	if got := c.HitTest(0, 0); got != InvalidHandle {
		t.Errorf("HitTest with no root = %d, want InvalidHandle", got)
	}
}
