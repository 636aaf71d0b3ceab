package kraken

// scroll.go implements the ScrollContainer viewport model: explicit
// per-axis scroll offsets clamped against the child's measured size,
// rather than always painting from (0,0).

// maxScroll returns the largest legal scroll offset along one axis: enough
// to bring the trailing edge of the child's content flush with the
// viewport's trailing edge, never negative.
func maxScroll(childDim, viewportDim, borderInset int) int {
	max := childDim - (viewportDim - borderInset)
	if max < 0 {
		return 0
	}
	return max
}

func (c *Context) scrollBounds(n *node) (maxX, maxY int) {
	inset := 0
	if n.style.BorderStyle != BorderNone || hasExplicitBorder(n) {
		inset = 2
	}
	var childW, childH int
	if len(n.children) > 0 {
		if child, ok := c.nodes[n.children[0]]; ok {
			childW, childH = child.rect.W, child.rect.H
		}
	}
	return maxScroll(childW, n.rect.W, inset), maxScroll(childH, n.rect.H, inset)
}

// SetScroll sets a ScrollContainer's offset directly, clamped to the legal
// range.
func (c *Context) SetScroll(h Handle, x, y int) error {
	n, err := c.get(h)
	if err != nil {
		return err
	}
	if n.kind != KindScrollContainer {
		return newErr("SetScroll", KindInvalidArgument, "node %d is not a ScrollContainer", h)
	}
	maxX, maxY := c.scrollBounds(n)
	n.scrollX = clampInt(x, 0, maxX)
	n.scrollY = clampInt(y, 0, maxY)
	c.markDirty(h)
	return nil
}

// ScrollBy adjusts a ScrollContainer's offset by a relative delta, clamped
// to the legal range. Unlike SetScroll, a non-ScrollContainer target is a
// silent no-op rather than an error, since ScrollBy is meant to be wired
// to a mouse-wheel/key handler that doesn't know in advance whether the
// node under the cursor scrolls.
func (c *Context) ScrollBy(h Handle, dx, dy int) error {
	n, err := c.get(h)
	if err != nil {
		return err
	}
	if n.kind != KindScrollContainer {
		return nil
	}
	maxX, maxY := c.scrollBounds(n)
	n.scrollX = clampInt(n.scrollX+dx, 0, maxX)
	n.scrollY = clampInt(n.scrollY+dy, 0, maxY)
	c.markDirty(h)
	return nil
}

// GetScroll returns a ScrollContainer's current offset.
func (c *Context) GetScroll(h Handle) (x, y int, err error) {
	n, e := c.get(h)
	if e != nil {
		return 0, 0, e
	}
	if n.kind != KindScrollContainer {
		return 0, 0, newErr("GetScroll", KindInvalidArgument, "node %d is not a ScrollContainer", h)
	}
	return n.scrollX, n.scrollY, nil
}

// nearestScrollAncestor walks up from h (inclusive) to find the nearest
// ScrollContainer, for mouse-wheel routing.
func (c *Context) nearestScrollAncestor(h Handle) Handle {
	for h != InvalidHandle {
		n, ok := c.nodes[h]
		if !ok {
			return InvalidHandle
		}
		if n.kind == KindScrollContainer {
			return h
		}
		h = n.parent
	}
	return InvalidHandle
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
