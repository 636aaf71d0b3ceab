package kraken

import "time"

// render.go is the per-frame render pipeline: tick animations, compute
// layout, paint the tree into the front buffer under a clip rectangle,
// diff against the back buffer, hand the diff to the backend, swap
// buffers, clear dirty flags. The clip rectangle is threaded through the
// recursive paint walk as an explicit parameter rather than a stack. The
// renderUS perf counter times only the paint walk; layout is timed
// separately by ComputeLayout.

// clipRect is an axis-aligned rectangle in absolute screen coordinates
// bounding writes into the front buffer.
type clipRect struct {
	X, Y, W, H int
}

// intersect returns the componentwise intersection of two clips, with
// non-negative extent.
func (a clipRect) intersect(b clipRect) clipRect {
	x0 := maxInt(a.X, b.X)
	y0 := maxInt(a.Y, b.Y)
	x1 := minInt(a.X+a.W, b.X+b.W)
	y1 := minInt(a.Y+a.H, b.Y+b.H)
	w := x1 - x0
	h := y1 - y0
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return clipRect{X: x0, Y: y0, W: w, H: h}
}

func (r clipRect) contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Render executes one frame of the pipeline: measure elapsed time, tick
// animations, compute layout, resize buffers if needed, paint, diff,
// dispatch to the backend, swap, clear dirty.
func (c *Context) Render() error {
	nowNS := time.Now().UnixNano()
	var elapsedMS float64
	if c.lastTick.have {
		elapsedMS = float64(nowNS-c.lastTick.last) / 1e6
	}
	c.lastTick.have = true
	c.lastTick.last = nowNS

	c.tickAnimations(elapsedMS)

	if c.root != InvalidHandle {
		if err := c.ComputeLayout(); err != nil {
			return err
		}
	}

	if c.backend != nil {
		w, h, err := c.backend.Size()
		if err != nil {
			return newErr("Render", KindBackendError, "%v", err)
		}
		c.termW, c.termH = w, h
	}
	if c.front.Width() != c.termW || c.front.Height() != c.termH {
		c.front.Resize(c.termW, c.termH)
		c.back.Resize(c.termW, c.termH)
	}

	c.front.Clear()

	renderStart := time.Now()
	if c.root != InvalidHandle {
		full := clipRect{X: 0, Y: 0, W: c.termW, H: c.termH}
		c.renderNode(c.root, 0, 0, full)
	}
	c.perf.renderUS = uint64(time.Since(renderStart).Microseconds())

	diff := c.front.Diff(c.back)
	c.perf.diffCells = uint64(len(diff))

	if c.backend != nil {
		if err := c.backend.WriteDiff(diff); err != nil {
			return newErr("Render", KindBackendError, "%v", err)
		}
		if err := c.backend.Flush(); err != nil {
			return newErr("Render", KindBackendError, "%v", err)
		}
	}

	c.front, c.back = c.back, c.front
	c.clearDirtyAll()
	return nil
}

// blendFG linearly blends fg toward bg by opacity in RGB space, when fg is
// truecolor; indexed/default foregrounds pass through unchanged regardless
// of opacity, since their underlying RGB is unknown to the core. At opacity
// 0 the result collapses to bg regardless of fg's tag.
func blendFG(fg, bg Color, opacity float64) Color {
	if opacity <= 0 {
		return bg
	}
	if opacity >= 1 || fg.Mode() != ColorModeTrueColor {
		return fg
	}
	fr, fgg, fb := fg.RGB8()
	var br, bgg, bb uint8
	if bg.Mode() == ColorModeTrueColor {
		br, bgg, bb = bg.RGB8()
	}
	mix := func(f, b uint8) uint8 {
		return uint8(float64(b) + (float64(f)-float64(b))*opacity)
	}
	return RGB(mix(fr, br), mix(fgg, bgg), mix(fb, bb))
}

// renderNode paints one node and recurses into its children.
func (c *Context) renderNode(h Handle, parentX, parentY int, clip clipRect) {
	n, ok := c.nodes[h]
	if !ok || !n.visible {
		return
	}

	style := c.resolveStyle(h, n)

	originX := parentX + n.rect.X + roundFloat(n.renderOffX)
	originY := parentY + n.rect.Y + roundFloat(n.renderOffY)

	fg := blendFG(style.FG, style.BG, style.Opacity)

	if style.BG != DefaultColor {
		for y := 0; y < n.rect.H; y++ {
			for x := 0; x < n.rect.W; x++ {
				c.paintCell(originX+x, originY+y, clip, Cell{Ch: ' ', FG: fg, BG: style.BG, Attr: style.Attrs})
			}
		}
	}

	if style.BorderStyle != BorderNone {
		c.paintBorder(originX, originY, n.rect.W, n.rect.H, clip, style, fg)
	}

	contentX, contentY, contentW, contentH := originX, originY, n.rect.W, n.rect.H
	if style.BorderStyle != BorderNone {
		contentX, contentY = originX+1, originY+1
		contentW -= 2
		contentH -= 2
		if contentW < 0 {
			contentW = 0
		}
		if contentH < 0 {
			contentH = 0
		}
	}

	switch n.kind {
	case KindText:
		c.paintText(n, contentX, contentY, contentW, contentH, clip, fg, style.BG, style.Opacity)
	case KindInput:
		c.paintInput(h, n, contentX, contentY, contentW, clip, fg, style.BG, style.Attrs)
	case KindTextArea:
		c.paintTextArea(h, n, contentX, contentY, contentW, contentH, clip, fg, style.BG, style.Attrs)
	case KindSelect:
		c.paintSelect(h, n, contentX, contentY, contentW, contentH, clip, fg, style.BG)
	}

	switch n.kind {
	case KindScrollContainer:
		maxX, maxY := c.scrollBounds(n)
		n.scrollX = clampInt(n.scrollX, 0, maxX)
		n.scrollY = clampInt(n.scrollY, 0, maxY)
		childClip := clip.intersect(clipRect{X: contentX, Y: contentY, W: contentW, H: contentH})
		for _, child := range n.children {
			c.renderNode(child, contentX-n.scrollX, contentY-n.scrollY, childClip)
		}
	default:
		for _, child := range n.children {
			c.renderNode(child, originX, originY, clip)
		}
	}
}

func roundFloat(v float64) int {
	if v >= 0 {
		return int(v + 0.5)
	}
	return -int(-v + 0.5)
}

func (c *Context) paintCell(x, y int, clip clipRect, cell Cell) {
	if !clip.contains(x, y) {
		return
	}
	c.front.Set(x, y, cell)
}

func (c *Context) paintBorder(x, y, w, h int, clip clipRect, style VisualStyle, fg Color) {
	glyphs, ok := borderGlyphSets[style.BorderStyle]
	if !ok || w <= 0 || h <= 0 {
		return
	}
	bg := style.BG
	put := func(px, py int, ch rune) {
		c.paintCell(px, py, clip, Cell{Ch: ch, FG: fg, BG: bg})
	}
	put(x, y, glyphs.TL)
	put(x+w-1, y, glyphs.TR)
	put(x, y+h-1, glyphs.BL)
	put(x+w-1, y+h-1, glyphs.BR)
	for i := 1; i < w-1; i++ {
		put(x+i, y, glyphs.H)
		put(x+i, y+h-1, glyphs.H)
	}
	for i := 1; i < h-1; i++ {
		put(x, y+i, glyphs.V)
		put(x+w-1, y+i, glyphs.V)
	}
}

// paintText paints a Text node's content: plain wraps raw text, Markdown/
// Code render styled spans whose explicit foregrounds are themselves
// opacity-blended against the node's background, while spans left at the
// zero color inherit the already-blended node foreground unchanged.
func (c *Context) paintText(n *node, x, y, w, h int, clip clipRect, defaultFG, bg Color, opacity float64) {
	if w <= 0 || h <= 0 {
		return
	}
	lines := c.styledLines(n, w)
	for row := 0; row < h && row < len(lines); row++ {
		col := 0
		for _, span := range lines[row] {
			spanFG := defaultFG
			if !span.FG.IsZero() {
				spanFG = blendFG(span.FG, bg, opacity)
			}
			spanBG := bg
			if !span.BG.IsZero() {
				spanBG = span.BG
			}
			for _, g := range graphemes(span.Text) {
				gw := displayWidth(g)
				if gw <= 0 {
					continue
				}
				if col >= w {
					break
				}
				ch := []rune(g)
				r := ' '
				if len(ch) > 0 {
					r = ch[0]
				}
				c.paintCell(x+col, y+row, clip, Cell{Ch: r, FG: spanFG, BG: spanBG, Attr: span.Attr})
				col += gw
			}
		}
	}
}

func maskedContent(n *node) string {
	if n.inputMask == 0 {
		return n.content
	}
	gs := graphemes(n.content)
	masked := make([]rune, len(gs))
	for i := range gs {
		masked[i] = n.inputMask
	}
	return string(masked)
}

// paintInput renders an Input's (optionally masked) content and, if
// focused, overlays an inverted cell at the cursor column.
func (c *Context) paintInput(h Handle, n *node, x, y, w int, clip clipRect, fg, bg Color, attrs Attr) {
	if w <= 0 {
		return
	}
	text := maskedContent(n)
	col := 0
	for _, g := range graphemes(text) {
		gw := displayWidth(g)
		if col >= w {
			break
		}
		ch := []rune(g)
		r := ' '
		if len(ch) > 0 {
			r = ch[0]
		}
		c.paintCell(x+col, y, clip, Cell{Ch: r, FG: fg, BG: bg, Attr: attrs})
		col += gw
	}
	if c.focus == h && n.inputCursor <= w {
		cursorX := x + n.inputCursor
		existing := c.front.Get(cursorX, y)
		cell := existing
		if cell.Ch == 0 {
			cell = Cell{Ch: ' '}
		}
		cell.FG, cell.BG = bg, fg
		c.paintCell(cursorX, y, clip, cell)
	}
}

// visualLines builds a TextArea's wrapped visual lines from its logical
// lines, respecting wrap mode: in wrap mode, lines are split at
// cell-width boundaries using grapheme display width, never emitting an
// empty tail segment for a non-empty logical line; without wrapping, one
// visual line per logical line.
func visualLines(lines []string, width int, wrap bool) (visual []string, logicalOf []int) {
	for li, line := range lines {
		if !wrap {
			visual = append(visual, line)
			logicalOf = append(logicalOf, li)
			continue
		}
		if line == "" {
			visual = append(visual, "")
			logicalOf = append(logicalOf, li)
			continue
		}
		var cur []string
		curW := 0
		for _, g := range graphemes(line) {
			gw := displayWidth(g)
			if curW > 0 && curW+gw > width {
				visual = append(visual, joinStrings(cur))
				logicalOf = append(logicalOf, li)
				cur = nil
				curW = 0
			}
			cur = append(cur, g)
			curW += gw
		}
		if len(cur) > 0 {
			visual = append(visual, joinStrings(cur))
			logicalOf = append(logicalOf, li)
		}
	}
	return visual, logicalOf
}

// paintTextArea renders a TextArea's visible visual lines, updates its
// viewport so the cursor stays visible, and overlays an inverted cursor
// cell when focused.
func (c *Context) paintTextArea(h Handle, n *node, x, y, w, contentH int, clip clipRect, fg, bg Color, attrs Attr) {
	if w <= 0 || contentH <= 0 {
		return
	}
	lines := taLines(n)
	visual, logicalOf := visualLines(lines, w, n.taWrap)

	// Find the visual row/col for the logical cursor. In wrap mode, walk
	// the logical line's segments consuming cursor columns until the
	// remainder falls inside one; otherwise it's simply the logical row.
	cursorVisualRow := 0
	cursorVisualCol := n.taCursorCol
	if n.taWrap {
		remaining := n.taCursorCol
		for i, li := range logicalOf {
			if li != n.taCursorRow {
				continue
			}
			segLen := graphemeCount(visual[i])
			if remaining <= segLen {
				cursorVisualRow = i
				cursorVisualCol = remaining
				break
			}
			remaining -= segLen
			cursorVisualRow = i
		}
	} else {
		for i, li := range logicalOf {
			if li == n.taCursorRow {
				cursorVisualRow = i
				break
			}
		}
	}

	if cursorVisualRow < n.taViewRow {
		n.taViewRow = cursorVisualRow
	}
	if cursorVisualRow >= n.taViewRow+contentH {
		n.taViewRow = cursorVisualRow - contentH + 1
	}
	if n.taWrap {
		n.taViewCol = 0
	} else {
		if cursorVisualCol < n.taViewCol {
			n.taViewCol = cursorVisualCol
		}
		if cursorVisualCol >= n.taViewCol+w {
			n.taViewCol = cursorVisualCol - w + 1
		}
	}

	for row := 0; row < contentH; row++ {
		vi := n.taViewRow + row
		if vi < 0 || vi >= len(visual) {
			continue
		}
		line := visual[vi]
		gs := graphemes(line)
		startCol := 0
		if !n.taWrap {
			startCol = n.taViewCol
		}
		col := 0
		for i := startCol; i < len(gs) && col < w; i++ {
			g := gs[i]
			gw := displayWidth(g)
			ch := []rune(g)
			r := ' '
			if len(ch) > 0 {
				r = ch[0]
			}
			c.paintCell(x+col, y+row, clip, Cell{Ch: r, FG: fg, BG: bg, Attr: attrs})
			col += gw
		}
	}

	if c.focus == h {
		visRow := cursorVisualRow - n.taViewRow
		visCol := cursorVisualCol
		if !n.taWrap {
			visCol -= n.taViewCol
		}
		if visRow >= 0 && visRow < contentH && visCol >= 0 && visCol < w {
			cellX, cellY := x+visCol, y+visRow
			existing := c.front.Get(cellX, cellY)
			cell := existing
			if cell.Ch == 0 {
				cell = Cell{Ch: ' '}
			}
			cell.FG, cell.BG = bg, fg
			c.paintCell(cellX, cellY, clip, cell)
		}
	}
}

// paintSelect renders a Select's visible options, centering the viewport
// on the selected index when the option list exceeds content height; the
// selected row is painted inverted with a full-width background fill
// first.
func (c *Context) paintSelect(h Handle, n *node, x, y, w, contentH int, clip clipRect, fg, bg Color) {
	if w <= 0 || contentH <= 0 || len(n.selectOptions) == 0 {
		return
	}
	selected := 0
	if n.hasSelectIndex {
		selected = n.selectIndex
	}

	viewTop := 0
	if len(n.selectOptions) > contentH {
		viewTop = selected - contentH/2
		if viewTop < 0 {
			viewTop = 0
		}
		if viewTop > len(n.selectOptions)-contentH {
			viewTop = len(n.selectOptions) - contentH
		}
	}

	for row := 0; row < contentH; row++ {
		idx := viewTop + row
		if idx >= len(n.selectOptions) {
			break
		}
		rowFG, rowBG := fg, bg
		if n.hasSelectIndex && idx == selected {
			rowFG, rowBG = bg, fg
			for col := 0; col < w; col++ {
				c.paintCell(x+col, y+row, clip, Cell{Ch: ' ', FG: rowFG, BG: rowBG})
			}
		}
		col := 0
		for _, g := range graphemes(n.selectOptions[idx]) {
			gw := displayWidth(g)
			if col >= w {
				break
			}
			ch := []rune(g)
			r := ' '
			if len(ch) > 0 {
				r = ch[0]
			}
			c.paintCell(x+col, y+row, clip, Cell{Ch: r, FG: rowFG, BG: rowBG})
			col += gw
		}
	}
}

// GetPerfCounter returns one of the performance counter values by id:
// 0 layout_us, 1 render_us, 2 diff_cells, 3 event_buffer_len, 4 node_count,
// 5 dirty_node_count, 6 animation_count.
func (c *Context) GetPerfCounter(id int) uint64 {
	switch id {
	case 0:
		return c.perf.layoutUS
	case 1:
		return c.perf.renderUS
	case 2:
		return c.perf.diffCells
	case 3:
		return uint64(c.EventBufferLen())
	case 4:
		return uint64(c.NodeCount())
	case 5:
		return uint64(c.DirtyNodeCount())
	case 6:
		return uint64(c.AnimationCount())
	default:
		return 0
	}
}
