package kraken

import "unicode/utf8"

// parseAnsiInput turns a raw read of terminal input bytes into RawEvents.
// Recognizes plain UTF-8 runes, the common C0 control codes for
// Enter/Tab/Backspace/Escape, CSI cursor keys, CSI ~ keys (Home/End/Delete/
// Insert/PgUp/PgDn), SGR mouse reports (\x1b[<b;x;yM/m) and bracketed-paste
// markers (collapsed to plain key events — no new event type is
// introduced for paste).
func parseAnsiInput(buf []byte) []RawEvent {
	var events []RawEvent
	i := 0
	for i < len(buf) {
		b := buf[i]
		switch {
		case b == 0x1b && i+1 < len(buf) && buf[i+1] == '[':
			ev, n := parseCSI(buf[i:])
			if n == 0 {
				i++
				continue
			}
			events = append(events, ev...)
			i += n
		case b == 0x1b && i+1 >= len(buf):
			events = append(events, RawEvent{Kind: RawKey, KeyCode: KeyEscape})
			i++
		case b == '\r' || b == '\n':
			events = append(events, RawEvent{Kind: RawKey, KeyCode: KeyEnter})
			i++
		case b == '\t':
			events = append(events, RawEvent{Kind: RawKey, KeyCode: KeyTab})
			i++
		case b == 0x7f || b == 0x08:
			events = append(events, RawEvent{Kind: RawKey, KeyCode: KeyBackspace})
			i++
		case b < 0x20:
			// Other C0 controls: treat as Ctrl+<letter>.
			r := rune(b + 0x60)
			events = append(events, RawEvent{Kind: RawKey, Codepoint: r, Modifiers: ModCtrl})
			i++
		default:
			r, size := utf8.DecodeRune(buf[i:])
			if r == utf8.RuneError && size <= 1 {
				i++
				continue
			}
			events = append(events, RawEvent{Kind: RawKey, Codepoint: r})
			i += size
		}
	}
	return events
}

func parseCSI(buf []byte) ([]RawEvent, int) {
	if len(buf) < 3 {
		return nil, 0
	}
	// SGR mouse: ESC [ < b ; x ; y (M|m)
	if buf[2] == '<' {
		return parseSGRMouse(buf)
	}
	switch buf[2] {
	case 'A':
		return []RawEvent{{Kind: RawKey, KeyCode: KeyUp}}, 3
	case 'B':
		return []RawEvent{{Kind: RawKey, KeyCode: KeyDown}}, 3
	case 'C':
		return []RawEvent{{Kind: RawKey, KeyCode: KeyRight}}, 3
	case 'D':
		return []RawEvent{{Kind: RawKey, KeyCode: KeyLeft}}, 3
	case 'H':
		return []RawEvent{{Kind: RawKey, KeyCode: KeyHome}}, 3
	case 'F':
		return []RawEvent{{Kind: RawKey, KeyCode: KeyEnd}}, 3
	case 'Z':
		return []RawEvent{{Kind: RawKey, KeyCode: KeyBackTab}}, 3
	}
	// CSI number ~ forms, and bracketed paste 200~ / 201~
	j := 2
	for j < len(buf) && buf[j] >= '0' && buf[j] <= '9' {
		j++
	}
	if j < len(buf) && buf[j] == '~' {
		num := parseDigits(buf[2:j])
		n := j + 1
		switch num {
		case 1, 7:
			return []RawEvent{{Kind: RawKey, KeyCode: KeyHome}}, n
		case 2:
			return []RawEvent{{Kind: RawKey, KeyCode: KeyInsert}}, n
		case 3:
			return []RawEvent{{Kind: RawKey, KeyCode: KeyDelete}}, n
		case 4, 8:
			return []RawEvent{{Kind: RawKey, KeyCode: KeyEnd}}, n
		case 5:
			return []RawEvent{{Kind: RawKey, KeyCode: KeyPageUp}}, n
		case 6:
			return []RawEvent{{Kind: RawKey, KeyCode: KeyPageDown}}, n
		case 200, 201:
			// Bracketed-paste start/end marker: swallow, no event.
			return nil, n
		}
		return nil, n
	}
	return nil, 3
}

func parseDigits(b []byte) int {
	n := 0
	for _, c := range b {
		n = n*10 + int(c-'0')
	}
	return n
}

func parseSGRMouse(buf []byte) ([]RawEvent, int) {
	i := 3
	start := i
	for i < len(buf) && buf[i] != ';' {
		i++
	}
	btnCode := parseDigits(buf[start:i])
	i++
	start = i
	for i < len(buf) && buf[i] != ';' {
		i++
	}
	x := parseDigits(buf[start:i])
	i++
	start = i
	for i < len(buf) && buf[i] != 'M' && buf[i] != 'm' {
		i++
	}
	y := parseDigits(buf[start:i])
	if i >= len(buf) {
		return nil, len(buf)
	}
	i++ // consume M/m

	var button MouseButton
	var mods Modifier
	base := btnCode &^ 0x1c // strip modifier bits (shift=4, meta=8, ctrl=16)
	if btnCode&4 != 0 {
		mods |= ModShift
	}
	if btnCode&8 != 0 {
		mods |= ModAlt
	}
	if btnCode&16 != 0 {
		mods |= ModCtrl
	}
	switch {
	case base == 64:
		button = MouseWheelUp
	case base == 65:
		button = MouseWheelDown
	default:
		button = MouseButton(base & 0x3)
	}
	return []RawEvent{{Kind: RawMouse, MouseX: x - 1, MouseY: y - 1, Button: button, Modifiers: mods}}, i
}
