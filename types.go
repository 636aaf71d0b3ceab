// Package kraken is the native core of an immediate-mode terminal UI runtime:
// a retained display tree, a flex-style layout pass, styled-text parsing, a
// double-buffered cell compositor, an input-event classifier and a property
// animation engine.
package kraken

// Handle is an opaque non-zero identifier for a node, theme, animation or
// choreography group, unique within the lifetime of a Context. Handles are
// allocated sequentially from 1 and are never recycled.
type Handle uint32

// InvalidHandle is the permanent zero sentinel. It is never a key in any
// table owned by a Context.
const InvalidHandle Handle = 0

// ColorMode is the high-byte tag of a 32-bit Color.
type ColorMode uint8

const (
	ColorModeDefault   ColorMode = 0x00 // terminal default; low 24 bits ignored
	ColorModeTrueColor ColorMode = 0x01 // low 24 bits = 0xRRGGBB
	ColorModeIndexed   ColorMode = 0x02 // low 8 bits = palette index
)

// Color is a tagged 32-bit color: high byte selects the mode, low bits carry
// the payload. Any tag byte other than the three defined modes is treated as
// ColorModeDefault.
type Color uint32

// DefaultColor is the terminal's default foreground/background color.
const DefaultColor Color = Color(ColorModeDefault) << 24

// RGB builds a truecolor Color from 8-bit channels.
func RGB(r, g, b uint8) Color {
	return Color(ColorModeTrueColor)<<24 | Color(r)<<16 | Color(g)<<8 | Color(b)
}

// Indexed builds a 256-palette Color from an index.
func Indexed(idx uint8) Color {
	return Color(ColorModeIndexed)<<24 | Color(idx)
}

// Mode returns the color's mode tag, normalizing unknown tags to default.
func (c Color) Mode() ColorMode {
	switch m := ColorMode(c >> 24); m {
	case ColorModeTrueColor, ColorModeIndexed:
		return m
	default:
		return ColorModeDefault
	}
}

// RGB8 returns the truecolor channels. Only meaningful when Mode() ==
// ColorModeTrueColor; callers must check first.
func (c Color) RGB8() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Index returns the palette index. Only meaningful when Mode() ==
// ColorModeIndexed.
func (c Color) Index() uint8 {
	return uint8(c)
}

// IsZero reports whether c is the zero Color, which StyledSpan and
// VisualStyle treat as "inherit from the containing node".
func (c Color) IsZero() bool { return c == 0 }

// Attr is a bitset of text attribute flags.
type Attr uint8

const (
	AttrBold Attr = 1 << iota
	AttrItalic
	AttrUnderline
	AttrStrikethrough
)

// Has reports whether a contains attr.
func (a Attr) Has(attr Attr) bool { return a&attr != 0 }

// With returns a with attr set.
func (a Attr) With(attr Attr) Attr { return a | attr }

// Without returns a with attr cleared.
func (a Attr) Without(attr Attr) Attr { return a &^ attr }

// Cell is a single terminal glyph position: one user-perceived character
// plus its foreground, background and attributes. Equality is structural.
type Cell struct {
	Ch   rune
	FG   Color
	BG   Color
	Attr Attr
}

// DefaultCell is an empty, unstyled cell: a space on the terminal default
// colors with no attributes.
var DefaultCell = Cell{Ch: ' ', FG: DefaultColor, BG: DefaultColor}

// CellUpdate is an absolute-positioned cell write produced by the buffer
// diff and consumed by the Backend.
type CellUpdate struct {
	X, Y int
	Cell Cell
}

// StyledSpan is a run of text sharing attributes and colors. A zero Color
// means "inherit from the containing node's resolved style".
type StyledSpan struct {
	Text string
	Attr Attr
	FG   Color
	BG   Color
}

// NodeKind enumerates the kinds of nodes the tree can hold.
type NodeKind uint8

const (
	KindContainer NodeKind = iota
	KindText
	KindInput
	KindSelect
	KindTextArea
	KindScrollContainer
)

// IsLeaf reports whether nodes of this kind may never have children.
func (k NodeKind) IsLeaf() bool {
	switch k {
	case KindText, KindInput, KindSelect, KindTextArea:
		return true
	default:
		return false
	}
}

func (k NodeKind) String() string {
	switch k {
	case KindContainer:
		return "Container"
	case KindText:
		return "Text"
	case KindInput:
		return "Input"
	case KindSelect:
		return "Select"
	case KindTextArea:
		return "TextArea"
	case KindScrollContainer:
		return "ScrollContainer"
	default:
		return "Unknown"
	}
}

// ContentFormat selects how a node's content string is interpreted by the
// text pipeline.
type ContentFormat uint8

const (
	FormatPlain ContentFormat = iota
	FormatMarkdown
	FormatCode
)

// BorderStyle enumerates the supported border glyph sets.
type BorderStyle uint8

const (
	BorderNone BorderStyle = iota
	BorderSingle
	BorderDouble
	BorderRounded
	BorderBold
)

type borderGlyphs struct {
	TL, TR, BL, BR rune
	H, V           rune
}

var borderGlyphSets = map[BorderStyle]borderGlyphs{
	BorderSingle:  {'┌', '┐', '└', '┘', '─', '│'},
	BorderDouble:  {'╔', '╗', '╚', '╝', '═', '║'},
	BorderRounded: {'╭', '╮', '╰', '╯', '─', '│'},
	BorderBold:    {'┏', '┓', '┗', '┛', '━', '┃'},
}

// EventType enumerates the kinds of semantic events the classifier emits.
type EventType uint32

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
	EventFocusChange
	EventChange
	EventSubmit
)

// Modifier is a bitmask of keyboard/mouse modifiers.
type Modifier uint32

const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
)

// KeyCode identifies a key. Values below 0x0100 are Unicode codepoints;
// values at or above 0x0100 are named keys.
type KeyCode uint32

const (
	KeyNamedBase KeyCode = 0x0100 + iota
	KeyEnter
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyTab
	KeyBackTab
	KeyDelete
	KeyBackspace
	KeyInsert
	KeyEscape
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// IsNamed reports whether the code is a named key rather than a codepoint.
func (k KeyCode) IsNamed() bool { return k >= KeyNamedBase }

// MouseButton identifies which mouse button/wheel direction produced a
// Mouse event.
type MouseButton uint32

const (
	MouseLeft MouseButton = iota
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// Event is the 24-byte-equivalent semantic event record: a type tag, a
// target node handle, and up to four payload words whose meaning depends
// on Type.
type Event struct {
	Type     EventType
	Target   Handle
	A, B, C, D uint32
}

// Key decodes a Key event's payload.
func (e Event) Key() (code KeyCode, mods Modifier, codepoint rune) {
	return KeyCode(e.A), Modifier(e.B), rune(e.C)
}

// Mouse decodes a Mouse event's payload.
func (e Event) Mouse() (x, y int, button MouseButton, mods Modifier) {
	return int(e.A), int(e.B), MouseButton(e.C), Modifier(e.D)
}

// Resize decodes a Resize event's payload.
func (e Event) Resize() (w, h int) {
	return int(e.A), int(e.B)
}

// FocusChange decodes a FocusChange event's payload.
func (e Event) FocusChange() (from, to Handle) {
	return Handle(e.A), Handle(e.B)
}

// Change decodes a Change event's payload (extra is widget-specific, e.g.
// the new Select index; zero for Input/TextArea edits).
func (e Event) Change() (target Handle, extra uint32) {
	return e.Target, e.A
}

// Capabilities is a bitmask describing what the connected terminal supports.
type Capabilities uint32

const (
	CapTrueColor Capabilities = 1 << iota
	Cap256Color
	Cap16Color
	CapMouse
	CapUTF8
	CapAlternateScreen
)
