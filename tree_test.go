package kraken

import (
	"errors"
	"testing"
)

func newTestContext(t *testing.T) *Context {
	t.Helper()
	return newContext(NewHeadlessBackend(40, 10), 40, 10, Options{})
}

func TestCreateDestroyNode(t *testing.T) {
	c := newTestContext(t)

	h := c.CreateNode(KindContainer)
	if h == InvalidHandle {
		t.Fatal("CreateNode returned InvalidHandle")
	}
	kind, err := c.NodeKind(h)
	if err != nil || kind != KindContainer {
		t.Fatalf("NodeKind() = %v, %v", kind, err)
	}

	if err := c.DestroyNode(h); err != nil {
		t.Fatalf("DestroyNode: %v", err)
	}
	if _, err := c.NodeKind(h); err == nil {
		t.Fatal("expected error reading a destroyed handle")
	}
}

func TestHandlesNeverRecycled(t *testing.T) {
	c := newTestContext(t)
	a := c.CreateNode(KindContainer)
	if err := c.DestroyNode(a); err != nil {
		t.Fatal(err)
	}
	b := c.CreateNode(KindContainer)
	if b == a {
		t.Fatalf("destroyed handle %d was reissued as %d", a, b)
	}
}

func TestInvalidHandleOps(t *testing.T) {
	c := newTestContext(t)
	if _, err := c.NodeKind(InvalidHandle); err == nil {
		t.Error("expected error for handle 0")
	}
	if _, err := c.NodeKind(Handle(999)); err == nil {
		t.Error("expected error for unknown handle")
	}
}

func TestAppendInsertRemoveChild(t *testing.T) {
	c := newTestContext(t)
	parent := c.CreateNode(KindContainer)
	a := c.CreateNode(KindText)
	b := c.CreateNode(KindText)
	cNode := c.CreateNode(KindText)

	if err := c.AppendChild(parent, a); err != nil {
		t.Fatal(err)
	}
	if err := c.AppendChild(parent, cNode); err != nil {
		t.Fatal(err)
	}
	if err := c.InsertChild(parent, b, 1); err != nil {
		t.Fatal(err)
	}

	n, err := c.ChildCount(parent)
	if err != nil || n != 3 {
		t.Fatalf("ChildCount = %d, %v, want 3", n, err)
	}
	order := []Handle{a, b, cNode}
	for i, want := range order {
		got, err := c.ChildAt(parent, i)
		if err != nil || got != want {
			t.Errorf("ChildAt(%d) = %v, %v, want %v", i, got, err, want)
		}
	}

	if err := c.RemoveChild(parent, b); err != nil {
		t.Fatal(err)
	}
	if n, _ := c.ChildCount(parent); n != 2 {
		t.Fatalf("ChildCount after remove = %d, want 2", n)
	}
	p, err := c.ParentOf(b)
	if err != nil || p != InvalidHandle {
		t.Errorf("ParentOf(removed child) = %v, %v, want InvalidHandle", p, err)
	}
}

func TestInsertChildRejectsCycle(t *testing.T) {
	c := newTestContext(t)
	a := c.CreateNode(KindContainer)
	b := c.CreateNode(KindContainer)
	if err := c.AppendChild(a, b); err != nil {
		t.Fatal(err)
	}
	if err := c.AppendChild(b, a); err == nil {
		t.Fatal("expected cycle error inserting an ancestor as a child")
	}
	if err := c.AppendChild(a, a); err == nil {
		t.Fatal("expected error appending a node to itself")
	}
}

func TestScrollContainerSingleChildConstraint(t *testing.T) {
	c := newTestContext(t)
	sc := c.CreateNode(KindScrollContainer)
	a := c.CreateNode(KindContainer)
	b := c.CreateNode(KindContainer)

	if err := c.AppendChild(sc, a); err != nil {
		t.Fatal(err)
	}
	err := c.AppendChild(sc, b)
	if err == nil {
		t.Fatal("expected ConstraintViolation adding a second child to a ScrollContainer")
	}
	if !errors.Is(err, ErrKind(KindConstraintViolation)) {
		t.Errorf("got error %v, want ConstraintViolation", err)
	}
}

func TestReparentRemovesFromOldParent(t *testing.T) {
	c := newTestContext(t)
	p1 := c.CreateNode(KindContainer)
	p2 := c.CreateNode(KindContainer)
	child := c.CreateNode(KindText)

	if err := c.AppendChild(p1, child); err != nil {
		t.Fatal(err)
	}
	if err := c.AppendChild(p2, child); err != nil {
		t.Fatal(err)
	}
	if n, _ := c.ChildCount(p1); n != 0 {
		t.Errorf("old parent still has %d children, want 0", n)
	}
	if n, _ := c.ChildCount(p2); n != 1 {
		t.Errorf("new parent has %d children, want 1", n)
	}
}

func TestDestroySubtreeRemovesDescendants(t *testing.T) {
	c := newTestContext(t)
	root := c.CreateNode(KindContainer)
	child := c.CreateNode(KindContainer)
	grandchild := c.CreateNode(KindText)
	if err := c.AppendChild(root, child); err != nil {
		t.Fatal(err)
	}
	if err := c.AppendChild(child, grandchild); err != nil {
		t.Fatal(err)
	}

	if err := c.DestroySubtree(root); err != nil {
		t.Fatal(err)
	}
	for _, h := range []Handle{root, child, grandchild} {
		if _, err := c.NodeKind(h); err == nil {
			t.Errorf("handle %d survived DestroySubtree", h)
		}
	}
}

func TestDestroyNodeOrphansChildrenWithoutCascade(t *testing.T) {
	c := newTestContext(t)
	parent := c.CreateNode(KindContainer)
	child := c.CreateNode(KindText)
	if err := c.AppendChild(parent, child); err != nil {
		t.Fatal(err)
	}
	if err := c.DestroyNode(parent); err != nil {
		t.Fatal(err)
	}
	if _, err := c.NodeKind(child); err != nil {
		t.Fatal("child should survive single DestroyNode of its parent")
	}
	p, err := c.ParentOf(child)
	if err != nil || p != InvalidHandle {
		t.Errorf("ParentOf(orphan) = %v, %v, want InvalidHandle", p, err)
	}
}

func TestMarkDirtyPropagatesToRoot(t *testing.T) {
	c := newTestContext(t)
	root := c.CreateNode(KindContainer)
	mid := c.CreateNode(KindContainer)
	leaf := c.CreateNode(KindText)
	if err := c.AppendChild(root, mid); err != nil {
		t.Fatal(err)
	}
	if err := c.AppendChild(mid, leaf); err != nil {
		t.Fatal(err)
	}
	c.clearDirtyAll()

	if err := c.MarkDirty(leaf); err != nil {
		t.Fatal(err)
	}
	for _, h := range []Handle{root, mid, leaf} {
		n, _ := c.get(h)
		if !n.dirty {
			t.Errorf("handle %d not marked dirty", h)
		}
	}
	if got := c.DirtyNodeCount(); got != 3 {
		t.Errorf("DirtyNodeCount = %d, want 3", got)
	}
}

func TestSetVisible(t *testing.T) {
	c := newTestContext(t)
	h := c.CreateNode(KindContainer)
	if v, _ := c.Visible(h); !v {
		t.Fatal("nodes should be visible by default")
	}
	if err := c.SetVisible(h, false); err != nil {
		t.Fatal(err)
	}
	if v, _ := c.Visible(h); v {
		t.Fatal("expected invisible after SetVisible(false)")
	}
}

func TestSetRootValidatesHandle(t *testing.T) {
	c := newTestContext(t)
	if err := c.SetRoot(Handle(999)); err == nil {
		t.Fatal("expected error setting root to an unknown handle")
	}
	h := c.CreateNode(KindContainer)
	if err := c.SetRoot(h); err != nil {
		t.Fatal(err)
	}
	if c.Root() != h {
		t.Fatalf("Root() = %d, want %d", c.Root(), h)
	}
}
