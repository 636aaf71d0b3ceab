package kraken

import "strings"

// HeadlessBackend is an in-memory Backend for tests and non-interactive
// use. It never touches a real terminal; events are fed in by the test or
// host via Inject.
type HeadlessBackend struct {
	w, h    int
	pending []RawEvent
	writer  ansiWriter
	lastDiff []CellUpdate
}

// NewHeadlessBackend creates a headless backend with a fixed size.
func NewHeadlessBackend(w, h int) *HeadlessBackend {
	return &HeadlessBackend{w: w, h: h}
}

func (h *HeadlessBackend) Init() error     { return nil }
func (h *HeadlessBackend) Shutdown() error { return nil }

func (h *HeadlessBackend) Size() (int, int, error) { return h.w, h.h, nil }

// Resize changes the reported terminal size, as if the host's window had
// been resized.
func (h *HeadlessBackend) Resize(w, hh int) { h.w, h.h = w, hh }

func (h *HeadlessBackend) WriteDiff(updates []CellUpdate) error {
	h.lastDiff = updates
	return nil
}

func (h *HeadlessBackend) Flush() error { return nil }

// LastDiff returns the most recent diff handed to WriteDiff, for assertions.
func (h *HeadlessBackend) LastDiff() []CellUpdate { return h.lastDiff }

// Inject queues raw events to be returned by the next ReadEvents call.
func (h *HeadlessBackend) Inject(events ...RawEvent) { h.pending = append(h.pending, events...) }

func (h *HeadlessBackend) ReadEvents(timeoutMS int) ([]RawEvent, error) {
	events := h.pending
	h.pending = nil
	return events, nil
}

// DetectCapabilities derives a Capabilities bitmask from the environment
// variables a real terminal backend would consult ($TERM, $COLORTERM).
// Pure and unit-testable without a live terminal.
func DetectCapabilities(termEnv, colortermEnv string) Capabilities {
	var caps Capabilities
	caps |= CapUTF8

	term := strings.ToLower(termEnv)
	color := strings.ToLower(colortermEnv)

	switch {
	case color == "truecolor" || color == "24bit" || strings.Contains(term, "direct"):
		caps |= CapTrueColor | Cap256Color | Cap16Color
	case strings.Contains(term, "256"):
		caps |= Cap256Color | Cap16Color
	case term != "":
		caps |= Cap16Color
	}

	if strings.Contains(term, "xterm") || strings.Contains(term, "screen") ||
		strings.Contains(term, "tmux") || strings.Contains(term, "rxvt") {
		caps |= CapMouse | CapAlternateScreen
	}

	return caps
}
