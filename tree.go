package kraken

import "log/slog"

// node is the per-handle record owned by a Context. It carries the
// layout-facing fields alongside kind-specific widget state
// (Input/TextArea/Select) and the dirty/focus/visibility bookkeeping a
// retained tree needs, since nodes persist across frames instead of being
// rebuilt from scratch each time.
type node struct {
	kind   NodeKind
	parent Handle
	children []Handle

	content  string
	format   ContentFormat
	language string

	style VisualStyle

	dirty     bool
	focusable bool
	visible   bool

	scrollX, scrollY int

	layout layoutInput
	rect   rect

	renderOffX, renderOffY float64

	// Input
	inputCursor int // grapheme index
	inputMask   rune
	inputMaxLen int

	// TextArea: content is split into lines lazily from node.content via "\n".
	taCursorRow, taCursorCol int
	taViewRow, taViewCol     int
	taWrap                   bool

	// Select
	selectOptions  []string
	selectIndex    int
	hasSelectIndex bool
}

type rect struct {
	X, Y, W, H int
}

func newNode(kind NodeKind) *node {
	n := &node{
		kind:      kind,
		visible:   true,
		focusable: kind == KindInput || kind == KindSelect || kind == KindTextArea,
		layout:    defaultLayoutInput(),
		style:     VisualStyle{},
	}
	if kind == KindScrollContainer {
		n.layout.overflowScroll = true
	}
	return n
}

// Context owns every node, theme, animation and choreography group, and
// mediates single-writer access to them. It is the top-level object a host
// creates via New/NewHeadless.
type Context struct {
	nodes      map[Handle]*node
	nextHandle Handle

	root  Handle
	focus Handle

	themes          map[Handle]*themeRecord
	nextThemeHandle Handle
	bindings        map[Handle]Handle // node -> theme

	animations      []*animationRec
	nextAnimHandle  Handle
	chain           map[Handle]Handle // predecessor anim -> successor anim
	choreoGroups    map[Handle]*choreoGroupRec
	nextGroupHandle Handle

	events eventFIFO

	backend Backend
	front   *Buffer
	back    *Buffer
	termW, termH int

	perf perfCounters

	lastTick tickClock

	logger       *slog.Logger
	debugEnabled bool
	bound        owner
}

type perfCounters struct {
	layoutUS   uint64
	renderUS   uint64
	diffCells  uint64
}

// create allocates a handle and node record of the given kind. The opaque
// solver-node reference is realized by the node record itself carrying its
// own layout state rather than a separate structure in an external library,
// so the layout engine in layout.go operates directly on *node. This keeps
// the layout state's lifetime tied to the node's by construction.
func (c *Context) create(kind NodeKind) Handle {
	c.nextHandle++
	h := c.nextHandle
	c.nodes[h] = newNode(kind)
	return h
}

// CreateNode allocates a new node of the given kind and returns its handle.
func (c *Context) CreateNode(kind NodeKind) Handle {
	return c.create(kind)
}

func (c *Context) get(h Handle) (*node, error) {
	if h == InvalidHandle {
		return nil, newErr("", KindInvalidHandle, "handle 0")
	}
	n, ok := c.nodes[h]
	if !ok {
		return nil, newErr("", KindInvalidHandle, "unknown handle %d", h)
	}
	return n, nil
}

// NodeKind returns the kind of the given node.
func (c *Context) NodeKind(h Handle) (NodeKind, error) {
	n, err := c.get(h)
	if err != nil {
		return 0, err
	}
	return n.kind, nil
}

// DestroyNode detaches h from its parent (marking the parent dirty),
// orphans its children without cascading, removes its animations, and
// clears root/focus if they pointed at h.
func (c *Context) DestroyNode(h Handle) error {
	n, err := c.get(h)
	if err != nil {
		return err
	}
	if n.parent != InvalidHandle {
		if p, ok := c.nodes[n.parent]; ok {
			p.children = removeHandle(p.children, h)
			c.markDirty(n.parent)
		}
	}
	for _, child := range n.children {
		if cn, ok := c.nodes[child]; ok {
			cn.parent = InvalidHandle
		}
	}
	c.cancelAnimationsForNode(h)
	delete(c.bindings, h)
	if c.root == h {
		c.root = InvalidHandle
	}
	if c.focus == h {
		c.focus = InvalidHandle
	}
	delete(c.nodes, h)
	return nil
}

// DestroySubtree removes h and every descendant in post-order: for each
// descendant, animations are cancelled, theme binding dropped, FIFO events
// targeting it are scrubbed, then it is detached from the tree. Single
// DestroyNode deliberately does not scrub the FIFO; see DESIGN.md.
func (c *Context) DestroySubtree(h Handle) error {
	n, err := c.get(h)
	if err != nil {
		return err
	}
	var victims []Handle
	c.collectPostOrder(h, &victims)

	victimSet := make(map[Handle]bool, len(victims))
	for _, v := range victims {
		victimSet[v] = true
	}
	c.events.filterOut(func(e Event) bool { return victimSet[e.Target] })

	for _, v := range victims {
		c.cancelAnimationsForNode(v)
		delete(c.bindings, v)
		if c.root == v {
			c.root = InvalidHandle
		}
		if c.focus == v {
			c.focus = InvalidHandle
		}
		delete(c.nodes, v)
	}

	if n.parent != InvalidHandle {
		if p, ok := c.nodes[n.parent]; ok {
			p.children = removeHandle(p.children, h)
			c.markDirty(n.parent)
		}
	}
	return nil
}

func (c *Context) collectPostOrder(h Handle, out *[]Handle) {
	n, ok := c.nodes[h]
	if !ok {
		return
	}
	for _, child := range n.children {
		c.collectPostOrder(child, out)
	}
	*out = append(*out, h)
}

// SetRoot sets the tree root.
func (c *Context) SetRoot(h Handle) error {
	if h != InvalidHandle {
		if _, err := c.get(h); err != nil {
			return err
		}
	}
	c.root = h
	return nil
}

// Root returns the current root handle, or InvalidHandle if unset.
func (c *Context) Root() Handle { return c.root }

// AppendChild appends child to parent's child list by delegating to
// InsertChild at len(children).
func (c *Context) AppendChild(parent, child Handle) error {
	p, err := c.get(parent)
	if err != nil {
		return err
	}
	return c.InsertChild(parent, child, len(p.children))
}

// InsertChild inserts child into parent's child list at index, clamped to
// [0, len]. Fails with a cycle error if parent==child or child is an
// ancestor of parent, and with a constraint violation if parent is a
// ScrollContainer that would then hold more than one child.
func (c *Context) InsertChild(parent, child Handle, index int) error {
	p, err := c.get(parent)
	if err != nil {
		return err
	}
	cn, err := c.get(child)
	if err != nil {
		return err
	}
	if parent == child || c.isAncestor(child, parent) {
		return newErr("InsertChild", KindConstraintViolation, "cycle: %d is an ancestor of %d", child, parent)
	}

	alreadyChild := cn.parent == parent
	if p.kind == KindScrollContainer {
		if len(p.children) >= 1 && !alreadyChild {
			return newErr("InsertChild", KindConstraintViolation, "ScrollContainer already has a child")
		}
	}

	if cn.parent != InvalidHandle && cn.parent != parent {
		if oldParent, ok := c.nodes[cn.parent]; ok {
			oldParent.children = removeHandle(oldParent.children, child)
			c.markDirty(cn.parent)
		}
	} else if alreadyChild {
		p.children = removeHandle(p.children, child)
	}

	if index < 0 {
		index = 0
	}
	if index > len(p.children) {
		index = len(p.children)
	}
	p.children = insertHandleAt(p.children, child, index)
	cn.parent = parent

	if p.kind == KindScrollContainer {
		cn.layout.flexShrink = 0
	}

	c.markDirty(parent)
	if cn.parent != parent {
		c.markDirty(cn.parent)
	}
	return nil
}

// RemoveChild detaches child from parent without destroying it.
func (c *Context) RemoveChild(parent, child Handle) error {
	p, err := c.get(parent)
	if err != nil {
		return err
	}
	cn, err := c.get(child)
	if err != nil {
		return err
	}
	if cn.parent != parent {
		return newErr("RemoveChild", KindInvalidArgument, "%d is not a child of %d", child, parent)
	}
	p.children = removeHandle(p.children, child)
	cn.parent = InvalidHandle
	c.markDirty(parent)
	return nil
}

// ChildCount returns the number of children of h.
func (c *Context) ChildCount(h Handle) (int, error) {
	n, err := c.get(h)
	if err != nil {
		return 0, err
	}
	return len(n.children), nil
}

// ChildAt returns the child handle at index i.
func (c *Context) ChildAt(h Handle, i int) (Handle, error) {
	n, err := c.get(h)
	if err != nil {
		return 0, err
	}
	if i < 0 || i >= len(n.children) {
		return 0, newErr("ChildAt", KindInvalidArgument, "index %d out of range", i)
	}
	return n.children[i], nil
}

// ParentOf returns h's parent, or InvalidHandle if it has none.
func (c *Context) ParentOf(h Handle) (Handle, error) {
	n, err := c.get(h)
	if err != nil {
		return 0, err
	}
	return n.parent, nil
}

func (c *Context) isAncestor(candidate, h Handle) bool {
	n, ok := c.nodes[h]
	if !ok {
		return false
	}
	for n.parent != InvalidHandle {
		if n.parent == candidate {
			return true
		}
		n, ok = c.nodes[n.parent]
		if !ok {
			return false
		}
	}
	return false
}

// markDirty sets dirty on h and propagates upward through parent.
func (c *Context) markDirty(h Handle) {
	for h != InvalidHandle {
		n, ok := c.nodes[h]
		if !ok || n.dirty {
			if ok {
				n.dirty = true
			}
			return
		}
		n.dirty = true
		h = n.parent
	}
}

// MarkDirty is the public entry point for marking a node dirty.
func (c *Context) MarkDirty(h Handle) error {
	if _, err := c.get(h); err != nil {
		return err
	}
	c.markDirty(h)
	return nil
}

// clearDirtyAll clears every node's dirty flag. Called at the end of render.
func (c *Context) clearDirtyAll() {
	for _, n := range c.nodes {
		n.dirty = false
	}
}

// NodeCount returns the number of live nodes.
func (c *Context) NodeCount() int { return len(c.nodes) }

// DirtyNodeCount returns the number of nodes currently marked dirty.
func (c *Context) DirtyNodeCount() int {
	n := 0
	for _, nd := range c.nodes {
		if nd.dirty {
			n++
		}
	}
	return n
}

// SetVisible sets a node's visibility flag and marks it dirty.
func (c *Context) SetVisible(h Handle, visible bool) error {
	n, err := c.get(h)
	if err != nil {
		return err
	}
	n.visible = visible
	c.markDirty(h)
	return nil
}

// Visible reports a node's visibility flag.
func (c *Context) Visible(h Handle) (bool, error) {
	n, err := c.get(h)
	if err != nil {
		return false, err
	}
	return n.visible, nil
}

func removeHandle(s []Handle, h Handle) []Handle {
	for i, v := range s {
		if v == h {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}

func insertHandleAt(s []Handle, h Handle, idx int) []Handle {
	s = append(s, InvalidHandle)
	copy(s[idx+1:], s[idx:])
	s[idx] = h
	return s
}
