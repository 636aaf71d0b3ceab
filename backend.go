package kraken

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// Backend is the abstract terminal capability the render pipeline
// consumes. It is a collaborator, not part of the core: the core never
// inspects a Backend's internals, only its narrow I/O contract.
type Backend interface {
	Init() error
	Shutdown() error
	Size() (w, h int, err error)
	WriteDiff(updates []CellUpdate) error
	Flush() error
	ReadEvents(timeoutMS int) ([]RawEvent, error)
}

// RawEventKind enumerates the shapes of raw input a Backend can yield
// before classification.
type RawEventKind uint8

const (
	RawKey RawEventKind = iota
	RawMouse
	RawResize
	RawFocusGained
	RawFocusLost
)

// RawEvent is an unclassified terminal input record, as produced by a
// Backend's ReadEvents and consumed by the event pipeline's classifier.
type RawEvent struct {
	Kind RawEventKind

	// Key fields
	KeyCode    KeyCode
	Codepoint  rune
	Modifiers  Modifier

	// Mouse fields
	MouseX, MouseY int
	Button         MouseButton

	// Resize fields
	Width, Height int
}

// ansiWriter renders CellUpdates as ANSI escape sequences, coalescing
// cursor movement and style transitions: only emit a style escape when it
// differs from the previously emitted style, and track cursor position to
// avoid redundant absolute moves.
type ansiWriter struct {
	w         io.Writer
	buf       bytes.Buffer
	lastStyle Cell
	haveStyle bool
	curX, curY int
	havePos   bool
}

func (a *ansiWriter) reset() {
	a.haveStyle = false
	a.havePos = false
}

func (a *ansiWriter) writeDiff(updates []CellUpdate) {
	a.buf.Reset()
	for _, u := range updates {
		if !a.havePos || a.curX != u.X || a.curY != u.Y {
			fmt.Fprintf(&a.buf, "\x1b[%d;%dH", u.Y+1, u.X+1)
			a.curX, a.curY = u.X, u.Y
			a.havePos = true
		}
		if !a.haveStyle || a.lastStyle.FG != u.Cell.FG || a.lastStyle.BG != u.Cell.BG || a.lastStyle.Attr != u.Cell.Attr {
			a.writeStyle(u.Cell)
			a.lastStyle.FG, a.lastStyle.BG, a.lastStyle.Attr = u.Cell.FG, u.Cell.BG, u.Cell.Attr
			a.haveStyle = true
		}
		a.buf.WriteRune(u.Cell.Ch)
		a.curX++
	}
}

func (a *ansiWriter) writeStyle(c Cell) {
	a.buf.WriteString("\x1b[0")
	if c.Attr.Has(AttrBold) {
		a.buf.WriteString(";1")
	}
	if c.Attr.Has(AttrItalic) {
		a.buf.WriteString(";3")
	}
	if c.Attr.Has(AttrUnderline) {
		a.buf.WriteString(";4")
	}
	if c.Attr.Has(AttrStrikethrough) {
		a.buf.WriteString(";9")
	}
	a.writeColor(c.FG, true)
	a.writeColor(c.BG, false)
	a.buf.WriteString("m")
}

func (a *ansiWriter) writeColor(c Color, fg bool) {
	switch c.Mode() {
	case ColorModeDefault:
		if fg {
			a.buf.WriteString(";39")
		} else {
			a.buf.WriteString(";49")
		}
	case ColorModeIndexed:
		if fg {
			a.buf.WriteString(";38;5;")
		} else {
			a.buf.WriteString(";48;5;")
		}
		a.buf.WriteString(strconv.Itoa(int(c.Index())))
	case ColorModeTrueColor:
		r, g, b := c.RGB8()
		if fg {
			a.buf.WriteString(";38;2;")
		} else {
			a.buf.WriteString(";48;2;")
		}
		a.buf.WriteString(strconv.Itoa(int(r)))
		a.buf.WriteByte(';')
		a.buf.WriteString(strconv.Itoa(int(g)))
		a.buf.WriteByte(';')
		a.buf.WriteString(strconv.Itoa(int(b)))
	}
}
