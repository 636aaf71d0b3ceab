package kraken

import "testing"

func TestScrollClampsToContentBounds(t *testing.T) {
	c := newTestContext(t)
	sc := c.CreateNode(KindScrollContainer)
	child := c.CreateNode(KindContainer)
	if err := c.AppendChild(sc, child); err != nil {
		t.Fatal(err)
	}
	if err := c.SetRoot(sc); err != nil {
		t.Fatal(err)
	}
	if err := c.SetLayoutDimension(child, PropHeight, 50, UnitCells); err != nil {
		t.Fatal(err)
	}
	if err := c.ComputeLayout(); err != nil {
		t.Fatal(err)
	}

	if err := c.SetScroll(sc, 0, 1000); err != nil {
		t.Fatal(err)
	}
	_, y, err := c.GetScroll(sc)
	if err != nil {
		t.Fatal(err)
	}
	if y <= 0 {
		t.Fatalf("expected scroll clamped to a positive max, got %d", y)
	}

	if err := c.SetScroll(sc, 0, -10); err != nil {
		t.Fatal(err)
	}
	_, y, _ = c.GetScroll(sc)
	if y != 0 {
		t.Errorf("negative scroll should clamp to 0, got %d", y)
	}
}

func TestScrollByIsRelative(t *testing.T) {
	c := newTestContext(t)
	sc := c.CreateNode(KindScrollContainer)
	child := c.CreateNode(KindContainer)
	if err := c.AppendChild(sc, child); err != nil {
		t.Fatal(err)
	}
	if err := c.SetRoot(sc); err != nil {
		t.Fatal(err)
	}
	if err := c.SetLayoutDimension(child, PropHeight, 50, UnitCells); err != nil {
		t.Fatal(err)
	}
	if err := c.ComputeLayout(); err != nil {
		t.Fatal(err)
	}
	if err := c.ScrollBy(sc, 0, 3); err != nil {
		t.Fatal(err)
	}
	if err := c.ScrollBy(sc, 0, 2); err != nil {
		t.Fatal(err)
	}
	_, y, _ := c.GetScroll(sc)
	if y != 5 {
		t.Errorf("scrollY = %d, want 5", y)
	}
}

func TestSetScrollRejectsNonScrollContainer(t *testing.T) {
	c := newTestContext(t)
	n := c.CreateNode(KindContainer)
	if err := c.SetScroll(n, 0, 0); err == nil {
		t.Fatal("expected error setting scroll on a non-ScrollContainer")
	}
}

func TestScrollByNoOpsOnNonScrollContainer(t *testing.T) {
	c := newTestContext(t)
	n := c.CreateNode(KindContainer)
	if err := c.ScrollBy(n, 5, 5); err != nil {
		t.Fatalf("expected ScrollBy on a non-ScrollContainer to silently no-op, got %v", err)
	}
	if _, _, err := c.GetScroll(n); err == nil {
		t.Fatal("expected GetScroll to still reject a non-ScrollContainer")
	}
}

func TestNearestScrollAncestor(t *testing.T) {
	c := newTestContext(t)
	sc := c.CreateNode(KindScrollContainer)
	child := c.CreateNode(KindContainer)
	grandchild := c.CreateNode(KindText)
	if err := c.AppendChild(sc, child); err != nil {
		t.Fatal(err)
	}
	if err := c.AppendChild(child, grandchild); err != nil {
		t.Fatal(err)
	}
	if got := c.nearestScrollAncestor(grandchild); got != sc {
		t.Errorf("nearestScrollAncestor(grandchild) = %d, want %d", got, sc)
	}

	orphan := c.CreateNode(KindText)
	if got := c.nearestScrollAncestor(orphan); got != InvalidHandle {
		t.Errorf("nearestScrollAncestor(orphan) = %d, want InvalidHandle", got)
	}
}
