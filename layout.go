package kraken

import "time"

// Unit selects how a dimension value is interpreted.
type Unit uint8

const (
	UnitAuto Unit = iota
	UnitCells
	UnitPercent // value is 0-100, normalized to 0.0-1.0 internally
)

// Dimension is a value tagged with the unit it's expressed in.
type Dimension struct {
	Unit  Unit
	Value float64 // cells, or 0.0-1.0 fraction when Unit == UnitPercent
}

func autoDim() Dimension { return Dimension{Unit: UnitAuto} }

// Direction selects the main axis of a container's children. One engine
// handles both axes, parameterized by Direction, rather than splitting
// row and column layout into separate implementations.
type Direction uint8

const (
	DirectionColumn Direction = iota
	DirectionRow
)

// Align controls cross-axis alignment and main-axis justification.
type Align uint8

const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
	AlignStretch     // cross-axis only
	AlignSpaceBetween // main-axis justify only
)

// DimensionProp enumerates the six settable dimension properties.
type DimensionProp uint8

const (
	PropWidth DimensionProp = iota
	PropHeight
	PropMinWidth
	PropMinHeight
	PropMaxWidth
	PropMaxHeight
)

// FlexProp enumerates the seven settable flex-enum properties.
type FlexProp uint8

const (
	PropDirection FlexProp = iota
	PropFlexGrow
	PropFlexShrink
	PropFlexBasis
	PropAlignItems
	PropJustifyContent
	PropAlignSelf
)

// EdgeSet selects padding or margin for SetLayoutEdges.
type EdgeSet uint8

const (
	EdgePadding EdgeSet = iota
	EdgeMargin
)

type edges struct{ Top, Right, Bottom, Left int }

// layoutInput holds every per-node layout setter's current value — a
// read-modify-write shell over an internal flex engine.
type layoutInput struct {
	width, height                   Dimension
	minWidth, minHeight              Dimension
	maxWidth, maxHeight              Dimension
	direction                       Direction
	flexGrow, flexShrink             float64
	flexBasis                       Dimension
	alignItems, justifyContent      Align
	alignSelf                       Align // AlignStretch means "inherit parent's alignItems"
	padding, margin                 edges
	rowGap, colGap                  int
	offsetX, offsetY                float64 // not read by layout or render; position nudges live in node.renderOffX/renderOffY
	overflowScroll                  bool
}

func defaultLayoutInput() layoutInput {
	return layoutInput{
		width: autoDim(), height: autoDim(),
		minWidth: autoDim(), minHeight: autoDim(),
		maxWidth: autoDim(), maxHeight: autoDim(),
		flexBasis:      autoDim(),
		alignItems:     AlignStretch,
		justifyContent: AlignStart,
		alignSelf:      AlignStretch,
	}
}

// SetLayoutDimension sets one of the six dimension properties on a node.
func (c *Context) SetLayoutDimension(h Handle, prop DimensionProp, value float64, unit Unit) error {
	n, err := c.get(h)
	if err != nil {
		return err
	}
	d := Dimension{Unit: unit, Value: value}
	if unit == UnitPercent {
		d.Value = value / 100.0
	}
	switch prop {
	case PropWidth:
		n.layout.width = d
	case PropHeight:
		n.layout.height = d
	case PropMinWidth:
		n.layout.minWidth = d
	case PropMinHeight:
		n.layout.minHeight = d
	case PropMaxWidth:
		n.layout.maxWidth = d
	case PropMaxHeight:
		n.layout.maxHeight = d
	default:
		return newErr("SetLayoutDimension", KindInvalidArgument, "unknown dimension prop %d", prop)
	}
	c.markDirty(h)
	return nil
}

// SetLayoutFlex sets one of the flex-enum properties on a node. Grow,
// shrink and basis are not accepted here (they fail with InvalidArgument);
// grow/shrink are set through SetLayoutFlexFactor.
func (c *Context) SetLayoutFlex(h Handle, prop FlexProp, enumValue int) error {
	n, err := c.get(h)
	if err != nil {
		return err
	}
	switch prop {
	case PropDirection:
		n.layout.direction = Direction(enumValue)
	case PropAlignItems:
		n.layout.alignItems = Align(enumValue)
	case PropJustifyContent:
		n.layout.justifyContent = Align(enumValue)
	case PropAlignSelf:
		n.layout.alignSelf = Align(enumValue)
	default:
		return newErr("SetLayoutFlex", KindInvalidArgument, "prop %d is not enum-valued; use SetLayoutFlexFactor/SetLayoutFlexBasis", prop)
	}
	c.markDirty(h)
	return nil
}

// SetLayoutFlexFactor sets FlexGrow or FlexShrink (numeric, not enum-valued).
func (c *Context) SetLayoutFlexFactor(h Handle, prop FlexProp, value float64) error {
	n, err := c.get(h)
	if err != nil {
		return err
	}
	switch prop {
	case PropFlexGrow:
		n.layout.flexGrow = value
	case PropFlexShrink:
		n.layout.flexShrink = value
	default:
		return newErr("SetLayoutFlexFactor", KindInvalidArgument, "prop %d is not a numeric factor", prop)
	}
	c.markDirty(h)
	return nil
}

// SetLayoutFlexBasis sets FlexBasis (a Dimension, not a bare enum).
func (c *Context) SetLayoutFlexBasis(h Handle, value float64, unit Unit) error {
	n, err := c.get(h)
	if err != nil {
		return err
	}
	d := Dimension{Unit: unit, Value: value}
	if unit == UnitPercent {
		d.Value = value / 100.0
	}
	n.layout.flexBasis = d
	c.markDirty(h)
	return nil
}

// SetLayoutEdges sets padding or margin on all four sides.
func (c *Context) SetLayoutEdges(h Handle, set EdgeSet, top, right, bottom, left int) error {
	n, err := c.get(h)
	if err != nil {
		return err
	}
	e := edges{Top: top, Right: right, Bottom: bottom, Left: left}
	switch set {
	case EdgePadding:
		n.layout.padding = e
	case EdgeMargin:
		n.layout.margin = e
	default:
		return newErr("SetLayoutEdges", KindInvalidArgument, "unknown edge set %d", set)
	}
	c.markDirty(h)
	return nil
}

// SetLayoutGap sets the row/column gap between children.
func (c *Context) SetLayoutGap(h Handle, rowGap, colGap int) error {
	n, err := c.get(h)
	if err != nil {
		return err
	}
	n.layout.rowGap, n.layout.colGap = rowGap, colGap
	c.markDirty(h)
	return nil
}

// SetLayoutPosition nudges a node's rendered position relative to its
// solved position — the target of PositionX/PositionY animations.
func (c *Context) SetLayoutPosition(h Handle, x, y float64) error {
	n, err := c.get(h)
	if err != nil {
		return err
	}
	n.renderOffX, n.renderOffY = x, y
	c.markDirty(h)
	return nil
}

// GetLayout returns a node's computed rectangle in integer cells.
func (c *Context) GetLayout(h Handle) (x, y, w, hh int, err error) {
	n, e := c.get(h)
	if e != nil {
		return 0, 0, 0, 0, e
	}
	return n.rect.X, n.rect.Y, n.rect.W, n.rect.H, nil
}

// ComputeLayout runs the flex solver against the current terminal size and
// records timing into the performance counter.
func (c *Context) ComputeLayout() error {
	if c.root == InvalidHandle {
		return newErr("ComputeLayout", KindConstraintViolation, "no root set")
	}
	start := now()
	root, ok := c.nodes[c.root]
	if !ok {
		return newErr("ComputeLayout", KindInvalidHandle, "root %d is not live", c.root)
	}
	root.rect = rect{X: 0, Y: 0, W: c.termW, H: c.termH}
	c.resolveCrossAxis(c.root, root, c.termW, c.termH)
	c.layoutBottomUp(c.root, root)
	c.perf.layoutUS = uint64(time.Since(start).Microseconds())
	return nil
}

func now() time.Time { return time.Now() }

// resolveCrossAxis is the Update phase (top-down): each container, once its
// own box is known, assigns each child's cross-axis size (and explicit
// main-axis size, if any) before recursing. Grounded on
// VerticalLayout/HorizontalLayout.DistributeWidths (flexlayout.go),
// generalized to operate on whichever axis is "cross" for the container's
// Direction instead of being hard-coded to width.
func (c *Context) resolveCrossAxis(h Handle, n *node, availW, availH int) {
	if n.kind.IsLeaf() {
		return
	}
	contentW, contentH := contentBox(n, availW, availH)

	horizontal := n.layout.direction == DirectionRow
	for _, childH := range n.children {
		child, ok := c.nodes[childH]
		if !ok {
			continue
		}
		crossAvail := contentW
		if horizontal {
			crossAvail = contentH
		}
		cross := resolveDimension(child.layout.crossDim(horizontal), crossAvail)
		if cross == 0 {
			align := child.layout.alignSelf
			if align == AlignStretch {
				align = n.layout.alignItems
			}
			if align == AlignStretch {
				cross = crossAvail
			}
		}
		if horizontal {
			child.rect.H = cross
		} else {
			child.rect.W = cross
		}

		mainExplicit := resolveDimension(child.layout.mainDim(horizontal), 0)
		if mainExplicit > 0 {
			if horizontal {
				child.rect.W = mainExplicit
			} else {
				child.rect.H = mainExplicit
			}
		}
	}

	for _, childH := range n.children {
		if child, ok := c.nodes[childH]; ok {
			c.resolveCrossAxis(childH, child, child.rect.W, child.rect.H)
		}
	}
}

func (l *layoutInput) crossDim(horizontal bool) Dimension {
	if horizontal {
		return l.height
	}
	return l.width
}

func (l *layoutInput) mainDim(horizontal bool) Dimension {
	if horizontal {
		return l.width
	}
	return l.height
}

func resolveDimension(d Dimension, avail int) int {
	switch d.Unit {
	case UnitCells:
		return int(d.Value)
	case UnitPercent:
		return int(float64(avail) * d.Value)
	default:
		return 0
	}
}

func contentBox(n *node, w, h int) (int, int) {
	inset := 0
	if n.style.BorderStyle != BorderNone || hasExplicitBorder(n) {
		inset = 2
	}
	cw := w - inset - n.layout.padding.Left - n.layout.padding.Right
	ch := h - inset - n.layout.padding.Top - n.layout.padding.Bottom
	if cw < 0 {
		cw = 0
	}
	if ch < 0 {
		ch = 0
	}
	return cw, ch
}

func hasExplicitBorder(n *node) bool {
	return n.style.presence&presenceBorderStyle != 0 && n.style.BorderStyle != BorderNone
}

// layoutBottomUp is the Layout phase (bottom-up): leaves measure their
// natural main-axis size, then each container sizes itself from its
// children, distributes leftover main-axis space by flexGrow, and positions
// children along the main axis. Grounded on
// VerticalLayout/HorizontalLayout.LayoutChildren (flexlayout.go).
func (c *Context) layoutBottomUp(h Handle, n *node) {
	for _, childH := range n.children {
		if child, ok := c.nodes[childH]; ok {
			c.layoutBottomUp(childH, child)
		}
	}

	if n.kind.IsLeaf() {
		c.measureLeaf(n)
		return
	}

	horizontal := n.layout.direction == DirectionRow
	inset := 0
	if n.style.BorderStyle != BorderNone || hasExplicitBorder(n) {
		inset = 2
	}
	padTop, padLeft := n.layout.padding.Top, n.layout.padding.Left
	contentW, contentH := contentBox(n, n.rect.W, n.rect.H)

	mainAvail := contentW
	gap := n.layout.colGap
	if horizontal {
		mainAvail = contentW
	} else {
		mainAvail = contentH
		gap = n.layout.rowGap
	}

	var mainSizes []int
	var totalGrow, totalShrink float64
	var used int
	for i, childH := range n.children {
		child, ok := c.nodes[childH]
		if !ok {
			mainSizes = append(mainSizes, 0)
			continue
		}
		size := child.rect.W
		if horizontal {
			size = child.rect.W
		} else {
			size = child.rect.H
		}
		mainSizes = append(mainSizes, size)
		used += size
		if i > 0 {
			used += gap
		}
		totalGrow += child.layout.flexGrow
		totalShrink += child.layout.flexShrink
	}

	remaining := mainAvail - used
	if remaining > 0 && totalGrow > 0 {
		for i, childH := range n.children {
			child, ok := c.nodes[childH]
			if !ok {
				continue
			}
			if child.layout.flexGrow > 0 {
				extra := int(float64(remaining) * (child.layout.flexGrow / totalGrow))
				mainSizes[i] += extra
			}
		}
	} else if remaining < 0 && totalShrink > 0 {
		deficit := -remaining
		for i, childH := range n.children {
			child, ok := c.nodes[childH]
			if !ok {
				continue
			}
			if child.layout.flexShrink > 0 {
				shrink := int(float64(deficit) * (child.layout.flexShrink / totalShrink))
				mainSizes[i] -= shrink
				if mainSizes[i] < 0 {
					mainSizes[i] = 0
				}
			}
		}
	}

	justifyOffset, justifyGap := justify(n.layout.justifyContent, mainAvail, sumInts(mainSizes), gap, len(n.children))

	pos := justifyOffset
	for i, childH := range n.children {
		child, ok := c.nodes[childH]
		if !ok {
			continue
		}
		if horizontal {
			child.rect.W = mainSizes[i]
			child.rect.X = padLeft + boolInset(inset) + pos
			child.rect.Y = padTop + boolInset(inset)
		} else {
			child.rect.H = mainSizes[i]
			child.rect.Y = padTop + boolInset(inset) + pos
			child.rect.X = padLeft + boolInset(inset)
		}
		pos += mainSizes[i] + gap + justifyGap
	}

	if n.layout.height.Unit == UnitAuto && !horizontal {
		if n.rect.H == 0 {
			n.rect.H = pos - gap - justifyGap
			if n.rect.H < 0 {
				n.rect.H = 0
			}
			n.rect.H += 2 * boolInset(inset)
		}
	}
	if n.layout.width.Unit == UnitAuto && horizontal {
		if n.rect.W == 0 {
			n.rect.W = pos - gap - justifyGap
			if n.rect.W < 0 {
				n.rect.W = 0
			}
			n.rect.W += 2 * boolInset(inset)
		}
	}

	clampMinMax(n)
}

func boolInset(inset int) int {
	if inset == 2 {
		return 1
	}
	return 0
}

func sumInts(v []int) int {
	s := 0
	for _, x := range v {
		s += x
	}
	return s
}

func justify(align Align, avail, used, gap, count int) (offset, extraGap int) {
	slack := avail - used
	if slack <= 0 || count == 0 {
		return 0, 0
	}
	switch align {
	case AlignCenter:
		return slack / 2, 0
	case AlignEnd:
		return slack, 0
	case AlignSpaceBetween:
		if count > 1 {
			return 0, slack / (count - 1)
		}
		return 0, 0
	default:
		return 0, 0
	}
}

func clampMinMax(n *node) {
	if minW := resolveDimension(n.layout.minWidth, 0); minW > 0 && n.rect.W < minW {
		n.rect.W = minW
	}
	if minH := resolveDimension(n.layout.minHeight, 0); minH > 0 && n.rect.H < minH {
		n.rect.H = minH
	}
	if maxW := resolveDimension(n.layout.maxWidth, 0); maxW > 0 && n.rect.W > maxW {
		n.rect.W = maxW
	}
	if maxH := resolveDimension(n.layout.maxHeight, 0); maxH > 0 && n.rect.H > maxH {
		n.rect.H = maxH
	}
}

// measureLeaf computes a leaf's natural size when not explicitly set,
// mirroring FlexTree.measureLeaf (flexlayout.go) generalized across the
// spec's leaf kinds.
func (c *Context) measureLeaf(n *node) {
	if n.rect.W == 0 {
		if w := resolveDimension(n.layout.width, 0); w > 0 {
			n.rect.W = w
		}
	}
	if n.rect.H == 0 {
		if h := resolveDimension(n.layout.height, 0); h > 0 {
			n.rect.H = h
		} else {
			n.rect.H = naturalHeight(n)
		}
	}
	clampMinMax(n)
}

func naturalHeight(n *node) int {
	switch n.kind {
	case KindInput, KindSelect:
		return 1
	case KindTextArea:
		return 3
	default:
		return 1
	}
}

// HitTest returns the deepest visible node whose rectangle contains (x, y),
// searching children back-to-front and recursing into containers first.
// Returns InvalidHandle if the root is unset or nothing matches.
func (c *Context) HitTest(x, y int) Handle {
	if c.root == InvalidHandle {
		return InvalidHandle
	}
	return c.hitTestNode(c.root, 0, 0, x, y)
}

func (c *Context) hitTestNode(h Handle, originX, originY, x, y int) Handle {
	n, ok := c.nodes[h]
	if !ok || !n.visible {
		return InvalidHandle
	}
	absX := originX + n.rect.X
	absY := originY + n.rect.Y
	if x < absX || y < absY || x >= absX+n.rect.W || y >= absY+n.rect.H {
		return InvalidHandle
	}
	childOriginX, childOriginY := absX, absY
	if n.kind == KindScrollContainer {
		childOriginX -= n.scrollX
		childOriginY -= n.scrollY
	}
	for i := len(n.children) - 1; i >= 0; i-- {
		if hit := c.hitTestNode(n.children[i], childOriginX, childOriginY, x, y); hit != InvalidHandle {
			return hit
		}
	}
	return h
}
