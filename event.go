package kraken

// event.go is the input-event pipeline: classifying raw backend input
// into semantic Events, driving the focus state machine, dispatching
// widget-specific edits to Input/TextArea/Select, hit-testing for mouse
// routing, and the FIFO the host drains via NextEvent. The focus cycle
// (Tab/Shift-Tab, wrap-around Next/Prev) follows the same "a widget either
// consumes a key or lets it fall through" pattern: a key is offered to the
// focused widget first, and only becomes a generic Key event if nothing
// consumes it.

// eventFIFO is a strict first-in-first-out queue of semantic Events.
type eventFIFO struct {
	q []Event
}

func (f *eventFIFO) push(e Event) { f.q = append(f.q, e) }

func (f *eventFIFO) pop() (Event, bool) {
	if len(f.q) == 0 {
		return Event{}, false
	}
	e := f.q[0]
	f.q = f.q[1:]
	return e, true
}

func (f *eventFIFO) len() int { return len(f.q) }

// filterOut removes every queued event for which pred returns true, used
// by DestroySubtree to scrub events targeting destroyed nodes.
func (f *eventFIFO) filterOut(pred func(Event) bool) {
	kept := f.q[:0]
	for _, e := range f.q {
		if !pred(e) {
			kept = append(kept, e)
		}
	}
	f.q = kept
}

// tickClock tracks the wall-clock instant of the previous render, so Render
// can measure elapsed time to pass to the animation tick. The core has no
// internal clock of its own.
type tickClock struct {
	have bool
	last int64 // nanoseconds, monotonic-ish via time.Now().UnixNano()
}

// NextEvent drains one entry from the FIFO. The second return value is
// false when the FIFO is empty.
func (c *Context) NextEvent() (Event, bool) {
	return c.events.pop()
}

// EventBufferLen returns the number of events currently queued, for the
// event_buffer_len performance counter.
func (c *Context) EventBufferLen() int { return c.events.len() }

// ReadInput pulls a batch of raw events from the backend and classifies
// each in the order the backend yielded them. Returns the number of raw
// events processed.
func (c *Context) ReadInput(timeoutMS int) (int, error) {
	if c.backend == nil {
		return 0, newErr("ReadInput", KindNotInitialized, "no backend bound")
	}
	raws, err := c.backend.ReadEvents(timeoutMS)
	if err != nil {
		return 0, newErr("ReadInput", KindBackendError, "%v", err)
	}
	for _, r := range raws {
		c.classify(r)
	}
	return len(raws), nil
}

func (c *Context) classify(r RawEvent) {
	switch r.Kind {
	case RawKey:
		c.classifyKey(r)
	case RawMouse:
		c.classifyMouse(r)
	case RawResize:
		c.termW, c.termH = r.Width, r.Height
		c.events.push(Event{Type: EventResize, A: uint32(r.Width), B: uint32(r.Height)})
	case RawFocusGained, RawFocusLost:
		// No TUI effect.
	}
}

func (c *Context) classifyKey(r RawEvent) {
	if r.KeyCode == KeyTab {
		c.FocusNext()
		return
	}
	if r.KeyCode == KeyBackTab {
		c.FocusPrev()
		return
	}

	if c.focus != InvalidHandle {
		if n, ok := c.nodes[c.focus]; ok {
			var consumed bool
			switch n.kind {
			case KindInput:
				consumed = c.handleInputKey(c.focus, n, r)
			case KindTextArea:
				consumed = c.handleTextAreaKey(c.focus, n, r)
			case KindSelect:
				consumed = c.handleSelectKey(c.focus, n, r)
			}
			if consumed {
				return
			}
		}
	}

	c.events.push(Event{
		Type:   EventKey,
		Target: c.focus,
		A:      uint32(r.KeyCode),
		B:      uint32(r.Modifiers),
		C:      uint32(r.Codepoint),
	})
}

func (c *Context) classifyMouse(r RawEvent) {
	target := c.HitTest(r.MouseX, r.MouseY)

	switch r.Button {
	case MouseLeft, MouseMiddle, MouseRight:
		if target != InvalidHandle && target != c.focus {
			if n, ok := c.nodes[target]; ok && n.focusable {
				c.setFocus(target)
			}
		}
	case MouseWheelUp, MouseWheelDown:
		if sc := c.nearestScrollAncestor(target); sc != InvalidHandle {
			dy := 1
			if r.Button == MouseWheelUp {
				dy = -1
			}
			c.ScrollBy(sc, 0, dy)
		}
	}

	c.events.push(Event{
		Type:   EventMouse,
		Target: target,
		A:      uint32(r.MouseX),
		B:      uint32(r.MouseY),
		C:      uint32(r.Button),
		D:      uint32(r.Modifiers),
	})
}

// --- Focus ---

// SetFocusable sets whether h may receive keyboard focus.
func (c *Context) SetFocusable(h Handle, focusable bool) error {
	n, err := c.get(h)
	if err != nil {
		return err
	}
	n.focusable = focusable
	if !focusable && c.focus == h {
		c.setFocus(InvalidHandle)
	}
	return nil
}

// Focusable reports whether h may receive keyboard focus.
func (c *Context) Focusable(h Handle) (bool, error) {
	n, err := c.get(h)
	if err != nil {
		return false, err
	}
	return n.focusable, nil
}

// Focus sets the current focus directly to h (or InvalidHandle to clear).
// No FocusChange event is queued for a direct focus.
func (c *Context) Focus(h Handle) error {
	if h != InvalidHandle {
		n, err := c.get(h)
		if err != nil {
			return err
		}
		if !n.focusable {
			return newErr("Focus", KindInvalidArgument, "node %d is not focusable", h)
		}
	}
	c.focus = h
	return nil
}

// Focused returns the currently-focused handle, or InvalidHandle.
func (c *Context) Focused() Handle { return c.focus }

func (c *Context) setFocus(to Handle) {
	if c.focus == to {
		return
	}
	from := c.focus
	c.focus = to
	c.events.push(Event{Type: EventFocusChange, A: uint32(from), B: uint32(to)})
}

// focusOrder lists every visible, focusable node in depth-first, pre-order.
func (c *Context) focusOrder() []Handle {
	var order []Handle
	if c.root == InvalidHandle {
		return order
	}
	c.collectFocusOrder(c.root, &order)
	return order
}

func (c *Context) collectFocusOrder(h Handle, out *[]Handle) {
	n, ok := c.nodes[h]
	if !ok || !n.visible {
		return
	}
	if n.focusable {
		*out = append(*out, h)
	}
	for _, child := range n.children {
		c.collectFocusOrder(child, out)
	}
}

// FocusNext moves focus to the next focusable node in depth-first order,
// wrapping from the last back to the first; from unset focus it goes to
// the first.
func (c *Context) FocusNext() {
	order := c.focusOrder()
	if len(order) == 0 {
		return
	}
	if c.focus == InvalidHandle {
		c.setFocus(order[0])
		return
	}
	for i, h := range order {
		if h == c.focus {
			c.setFocus(order[(i+1)%len(order)])
			return
		}
	}
	c.setFocus(order[0])
}

// FocusPrev is the exact inverse of FocusNext.
func (c *Context) FocusPrev() {
	order := c.focusOrder()
	if len(order) == 0 {
		return
	}
	if c.focus == InvalidHandle {
		c.setFocus(order[len(order)-1])
		return
	}
	for i, h := range order {
		if h == c.focus {
			c.setFocus(order[(i-1+len(order))%len(order)])
			return
		}
	}
	c.setFocus(order[len(order)-1])
}

// --- Input widget ---

func graphemeInsert(s string, idx int, insert string) string {
	gs := graphemes(s)
	if idx < 0 {
		idx = 0
	}
	if idx > len(gs) {
		idx = len(gs)
	}
	out := make([]string, 0, len(gs)+1)
	out = append(out, gs[:idx]...)
	out = append(out, insert)
	out = append(out, gs[idx:]...)
	return joinStrings(out)
}

func graphemeRemoveAt(s string, idx int) string {
	gs := graphemes(s)
	if idx < 0 || idx >= len(gs) {
		return s
	}
	out := append(append([]string{}, gs[:idx]...), gs[idx+1:]...)
	return joinStrings(out)
}

func joinStrings(parts []string) string {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	buf := make([]byte, 0, total)
	for _, p := range parts {
		buf = append(buf, p...)
	}
	return string(buf)
}

func graphemeCount(s string) int {
	return len(graphemes(s))
}

// handleInputKey dispatches a key to a focused Input node's editing model.
// Returns true if the key was consumed.
func (c *Context) handleInputKey(h Handle, n *node, r RawEvent) bool {
	switch r.KeyCode {
	case KeyEnter:
		c.events.push(Event{Type: EventSubmit, Target: h})
		return true
	case KeyBackspace:
		if n.inputCursor > 0 {
			n.content = graphemeRemoveAt(n.content, n.inputCursor-1)
			n.inputCursor--
			c.markDirty(h)
			c.events.push(Event{Type: EventChange, Target: h})
		}
		return true
	case KeyDelete:
		if n.inputCursor < graphemeCount(n.content) {
			n.content = graphemeRemoveAt(n.content, n.inputCursor)
			c.markDirty(h)
			c.events.push(Event{Type: EventChange, Target: h})
		}
		return true
	case KeyLeft:
		if n.inputCursor > 0 {
			n.inputCursor--
			c.markDirty(h)
		}
		return true
	case KeyRight:
		if n.inputCursor < graphemeCount(n.content) {
			n.inputCursor++
			c.markDirty(h)
		}
		return true
	case KeyHome:
		n.inputCursor = 0
		c.markDirty(h)
		return true
	case KeyEnd:
		n.inputCursor = graphemeCount(n.content)
		c.markDirty(h)
		return true
	}

	if r.KeyCode == 0 && r.Codepoint != 0 && isPrintable(r.Codepoint) {
		if n.inputMaxLen == 0 || graphemeCount(n.content) < n.inputMaxLen {
			n.content = graphemeInsert(n.content, n.inputCursor, string(r.Codepoint))
			n.inputCursor++
			c.markDirty(h)
			c.events.push(Event{Type: EventChange, Target: h})
		}
		return true
	}
	return false
}

func isPrintable(r rune) bool {
	return r >= 0x20 && r != 0x7f
}

// SetInputCursor sets an Input node's grapheme cursor, clamped to its
// content length.
func (c *Context) SetInputCursor(h Handle, pos int) error {
	n, err := c.requireKind(h, KindInput)
	if err != nil {
		return err
	}
	n.inputCursor = clampInt(pos, 0, graphemeCount(n.content))
	c.markDirty(h)
	return nil
}

// InputCursor returns an Input node's grapheme cursor.
func (c *Context) InputCursor(h Handle) (int, error) {
	n, err := c.requireKind(h, KindInput)
	if err != nil {
		return 0, err
	}
	return n.inputCursor, nil
}

// SetInputMaxLength sets the maximum grapheme count an Input will accept
// (0 = unbounded).
func (c *Context) SetInputMaxLength(h Handle, max int) error {
	n, err := c.requireKind(h, KindInput)
	if err != nil {
		return err
	}
	n.inputMaxLen = max
	return nil
}

// SetInputMask sets the mask codepoint used to render an Input's content
// (0 disables masking).
func (c *Context) SetInputMask(h Handle, mask rune) error {
	n, err := c.requireKind(h, KindInput)
	if err != nil {
		return err
	}
	n.inputMask = mask
	c.markDirty(h)
	return nil
}

// InputMaxLength returns an Input's maximum grapheme count (0 = unbounded).
func (c *Context) InputMaxLength(h Handle) (int, error) {
	n, err := c.requireKind(h, KindInput)
	if err != nil {
		return 0, err
	}
	return n.inputMaxLen, nil
}

// InputMask returns an Input's mask codepoint (0 = masking disabled).
func (c *Context) InputMask(h Handle) (rune, error) {
	n, err := c.requireKind(h, KindInput)
	if err != nil {
		return 0, err
	}
	return n.inputMask, nil
}

func (c *Context) requireKind(h Handle, kind NodeKind) (*node, error) {
	n, err := c.get(h)
	if err != nil {
		return nil, err
	}
	if n.kind != kind {
		return nil, newErr("", KindInvalidArgument, "node %d is a %s, not %s", h, n.kind, kind)
	}
	return n, nil
}

// --- TextArea widget ---

func taLines(n *node) []string {
	return splitLines(n.content)
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	lines = append(lines, s[start:])
	return lines
}

func joinLines(lines []string) string {
	out := lines[0]
	for _, l := range lines[1:] {
		out += "\n" + l
	}
	return out
}

// handleTextAreaKey dispatches a key to a focused TextArea's multi-line
// editing model. Returns true if the key was consumed.
func (c *Context) handleTextAreaKey(h Handle, n *node, r RawEvent) bool {
	lines := taLines(n)
	row, col := n.taCursorRow, n.taCursorCol
	if row >= len(lines) {
		row = len(lines) - 1
	}

	switch r.KeyCode {
	case KeyEnter:
		line := lines[row]
		gs := graphemes(line)
		if col > len(gs) {
			col = len(gs)
		}
		head, tail := joinStrings(gs[:col]), joinStrings(gs[col:])
		newLines := append(append(append([]string{}, lines[:row]...), head, tail), lines[row+1:]...)
		n.content = joinLines(newLines)
		n.taCursorRow = row + 1
		n.taCursorCol = 0
		c.markDirty(h)
		c.events.push(Event{Type: EventChange, Target: h})
		return true

	case KeyBackspace:
		if col == 0 {
			if row == 0 {
				return true
			}
			prevLen := graphemeCount(lines[row-1])
			merged := lines[row-1] + lines[row]
			newLines := append(append(append([]string{}, lines[:row-1]...), merged), lines[row+1:]...)
			n.content = joinLines(newLines)
			n.taCursorRow = row - 1
			n.taCursorCol = prevLen
		} else {
			lines[row] = graphemeRemoveAt(lines[row], col-1)
			n.content = joinLines(lines)
			n.taCursorCol = col - 1
		}
		c.markDirty(h)
		c.events.push(Event{Type: EventChange, Target: h})
		return true

	case KeyDelete:
		lineLen := graphemeCount(lines[row])
		if col >= lineLen {
			if row == len(lines)-1 {
				return true
			}
			merged := lines[row] + lines[row+1]
			newLines := append(append(append([]string{}, lines[:row]...), merged), lines[row+2:]...)
			n.content = joinLines(newLines)
		} else {
			lines[row] = graphemeRemoveAt(lines[row], col)
			n.content = joinLines(lines)
		}
		c.markDirty(h)
		c.events.push(Event{Type: EventChange, Target: h})
		return true

	case KeyLeft:
		if col > 0 {
			n.taCursorCol = col - 1
		} else if row > 0 {
			n.taCursorRow = row - 1
			n.taCursorCol = graphemeCount(lines[row-1])
		}
		c.markDirty(h)
		return true

	case KeyRight:
		if col < graphemeCount(lines[row]) {
			n.taCursorCol = col + 1
		} else if row < len(lines)-1 {
			n.taCursorRow = row + 1
			n.taCursorCol = 0
		}
		c.markDirty(h)
		return true

	case KeyUp:
		if row > 0 {
			n.taCursorRow = row - 1
			n.taCursorCol = clampInt(col, 0, graphemeCount(lines[row-1]))
		}
		c.markDirty(h)
		return true

	case KeyDown:
		if row < len(lines)-1 {
			n.taCursorRow = row + 1
			n.taCursorCol = clampInt(col, 0, graphemeCount(lines[row+1]))
		}
		c.markDirty(h)
		return true

	case KeyHome:
		n.taCursorCol = 0
		c.markDirty(h)
		return true

	case KeyEnd:
		n.taCursorCol = graphemeCount(lines[row])
		c.markDirty(h)
		return true
	}

	if r.KeyCode == 0 && r.Codepoint != 0 && isPrintable(r.Codepoint) {
		lines[row] = graphemeInsert(lines[row], col, string(r.Codepoint))
		n.content = joinLines(lines)
		n.taCursorCol = col + 1
		c.markDirty(h)
		c.events.push(Event{Type: EventChange, Target: h})
		return true
	}
	return false
}

// SetTextAreaCursor sets a TextArea's (row, col) cursor, clamped per I7
// (row < line count, col <= grapheme count of that line).
func (c *Context) SetTextAreaCursor(h Handle, row, col int) error {
	n, err := c.requireKind(h, KindTextArea)
	if err != nil {
		return err
	}
	lines := taLines(n)
	row = clampInt(row, 0, len(lines)-1)
	col = clampInt(col, 0, graphemeCount(lines[row]))
	n.taCursorRow, n.taCursorCol = row, col
	c.markDirty(h)
	return nil
}

// TextAreaCursor returns a TextArea's current (row, col) cursor.
func (c *Context) TextAreaCursor(h Handle) (row, col int, err error) {
	n, e := c.requireKind(h, KindTextArea)
	if e != nil {
		return 0, 0, e
	}
	return n.taCursorRow, n.taCursorCol, nil
}

// TextAreaLineCount returns the number of logical lines.
func (c *Context) TextAreaLineCount(h Handle) (int, error) {
	n, err := c.requireKind(h, KindTextArea)
	if err != nil {
		return 0, err
	}
	return len(taLines(n)), nil
}

// SetTextAreaWrap sets whether a TextArea wraps long lines at the content
// width (true) or scrolls horizontally (false).
func (c *Context) SetTextAreaWrap(h Handle, wrap bool) error {
	n, err := c.requireKind(h, KindTextArea)
	if err != nil {
		return err
	}
	n.taWrap = wrap
	c.markDirty(h)
	return nil
}

// TextAreaWrap reports a TextArea's wrap mode.
func (c *Context) TextAreaWrap(h Handle) (bool, error) {
	n, err := c.requireKind(h, KindTextArea)
	if err != nil {
		return false, err
	}
	return n.taWrap, nil
}

// --- Select widget ---

// handleSelectKey dispatches a key to a focused Select node.
func (c *Context) handleSelectKey(h Handle, n *node, r RawEvent) bool {
	switch r.KeyCode {
	case KeyUp:
		if len(n.selectOptions) == 0 {
			return true
		}
		idx := 0
		if n.hasSelectIndex {
			idx = n.selectIndex
		}
		if idx > 0 {
			idx--
			n.selectIndex = idx
			n.hasSelectIndex = true
			c.markDirty(h)
			c.events.push(Event{Type: EventChange, Target: h, A: uint32(idx)})
		}
		return true
	case KeyDown:
		if len(n.selectOptions) == 0 {
			return true
		}
		idx := -1
		if n.hasSelectIndex {
			idx = n.selectIndex
		}
		if idx < len(n.selectOptions)-1 {
			idx++
			n.selectIndex = idx
			n.hasSelectIndex = true
			c.markDirty(h)
			c.events.push(Event{Type: EventChange, Target: h, A: uint32(idx)})
		}
		return true
	case KeyEnter:
		c.events.push(Event{Type: EventSubmit, Target: h})
		return true
	}
	return false
}

// SelectAddOption appends an option to a Select's list.
func (c *Context) SelectAddOption(h Handle, option string) error {
	n, err := c.requireKind(h, KindSelect)
	if err != nil {
		return err
	}
	n.selectOptions = append(n.selectOptions, option)
	c.markDirty(h)
	return nil
}

// SelectRemoveOption removes the option at index i.
func (c *Context) SelectRemoveOption(h Handle, i int) error {
	n, err := c.requireKind(h, KindSelect)
	if err != nil {
		return err
	}
	if i < 0 || i >= len(n.selectOptions) {
		return newErr("SelectRemoveOption", KindInvalidArgument, "index %d out of range", i)
	}
	n.selectOptions = append(n.selectOptions[:i], n.selectOptions[i+1:]...)
	if n.hasSelectIndex {
		if n.selectIndex >= len(n.selectOptions) {
			n.hasSelectIndex = len(n.selectOptions) > 0
			n.selectIndex = len(n.selectOptions) - 1
		} else if n.selectIndex > i {
			n.selectIndex--
		}
	}
	c.markDirty(h)
	return nil
}

// SelectClearOptions removes every option and clears the selection.
func (c *Context) SelectClearOptions(h Handle) error {
	n, err := c.requireKind(h, KindSelect)
	if err != nil {
		return err
	}
	n.selectOptions = nil
	n.hasSelectIndex = false
	n.selectIndex = 0
	c.markDirty(h)
	return nil
}

// SelectOptionCount returns the number of options.
func (c *Context) SelectOptionCount(h Handle) (int, error) {
	n, err := c.requireKind(h, KindSelect)
	if err != nil {
		return 0, err
	}
	return len(n.selectOptions), nil
}

// SelectOptionAt returns the option text at index i.
func (c *Context) SelectOptionAt(h Handle, i int) (string, error) {
	n, err := c.requireKind(h, KindSelect)
	if err != nil {
		return "", err
	}
	if i < 0 || i >= len(n.selectOptions) {
		return "", newErr("SelectOptionAt", KindInvalidArgument, "index %d out of range", i)
	}
	return n.selectOptions[i], nil
}

// SetSelectedIndex sets a Select's selected index, validated against I8.
func (c *Context) SetSelectedIndex(h Handle, i int) error {
	n, err := c.requireKind(h, KindSelect)
	if err != nil {
		return err
	}
	if i < 0 || i >= len(n.selectOptions) {
		return newErr("SetSelectedIndex", KindInvalidArgument, "index %d out of range", i)
	}
	n.selectIndex = i
	n.hasSelectIndex = true
	c.markDirty(h)
	return nil
}

// SelectedIndex returns a Select's selected index and whether one is set.
func (c *Context) SelectedIndex(h Handle) (index int, ok bool, err error) {
	n, e := c.requireKind(h, KindSelect)
	if e != nil {
		return 0, false, e
	}
	return n.selectIndex, n.hasSelectIndex, nil
}
