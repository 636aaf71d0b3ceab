//go:build !windows

package kraken

import (
	"bufio"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// TermBackend is the default Backend: a real terminal driven through raw
// mode and ANSI escapes, using unix.IoctlGetTermios/SetTermios for raw
// mode, TIOCGWINSZ for size, SIGWINCH for resize notification, and
// alternate-screen entry/exit.
type TermBackend struct {
	in  *os.File
	out io.Writer
	fd  int

	orig      *unix.Termios
	rawMode   bool
	sigCh     chan os.Signal
	writer    ansiWriter
	reader    *bufio.Reader
}

// NewTermBackend creates a backend over the given input/output files. Pass
// nil for both to use os.Stdin/os.Stdout.
func NewTermBackend(in, out *os.File) *TermBackend {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &TermBackend{in: in, out: out, fd: int(out.Fd()), reader: bufio.NewReader(in)}
}

func (t *TermBackend) Init() error {
	termios, err := unix.IoctlGetTermios(t.fd, ioctlGetTermios)
	if err != nil {
		return newErr("Init", KindBackendError, "get termios: %v", err)
	}
	t.orig = termios

	raw := *termios
	raw.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	raw.Oflag &^= unix.OPOST
	raw.Cflag |= unix.CS8
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.ISIG | unix.IEXTEN
	raw.Cc[unix.VMIN] = 0
	raw.Cc[unix.VTIME] = 1

	if err := unix.IoctlSetTermios(t.fd, ioctlSetTermios, &raw); err != nil {
		return newErr("Init", KindBackendError, "set raw mode: %v", err)
	}
	t.rawMode = true

	t.sigCh = make(chan os.Signal, 1)
	signal.Notify(t.sigCh, syscall.SIGWINCH)

	io.WriteString(t.out, "\x1b[?1049h\x1b[2J\x1b[H\x1b[?25l")
	t.writer.reset()
	return nil
}

func (t *TermBackend) Shutdown() error {
	if !t.rawMode {
		return nil
	}
	io.WriteString(t.out, "\x1b[?25h\x1b[?1049l")
	signal.Stop(t.sigCh)
	if t.orig != nil {
		if err := unix.IoctlSetTermios(t.fd, ioctlSetTermios, t.orig); err != nil {
			return newErr("Shutdown", KindBackendError, "restore termios: %v", err)
		}
	}
	t.rawMode = false
	return nil
}

func (t *TermBackend) Size() (int, int, error) {
	ws, err := unix.IoctlGetWinsize(t.fd, unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, newErr("Size", KindBackendError, "get winsize: %v", err)
	}
	return int(ws.Col), int(ws.Row), nil
}

func (t *TermBackend) WriteDiff(updates []CellUpdate) error {
	t.writer.writeDiff(updates)
	return nil
}

func (t *TermBackend) Flush() error {
	if t.writer.buf.Len() == 0 {
		return nil
	}
	_, err := t.out.Write(t.writer.buf.Bytes())
	t.writer.buf.Reset()
	if err != nil {
		return newErr("Flush", KindBackendError, "write: %v", err)
	}
	return nil
}

// ReadEvents blocks up to timeoutMS for terminal input, returning whatever
// raw events were parsed. A timeout of zero is non-blocking: poll once and
// return immediately.
func (t *TermBackend) ReadEvents(timeoutMS int) ([]RawEvent, error) {
	select {
	case <-t.sigCh:
		w, h, err := t.Size()
		if err != nil {
			return nil, err
		}
		return []RawEvent{{Kind: RawResize, Width: w, Height: h}}, nil
	default:
	}

	deadline := time.Now().Add(time.Duration(timeoutMS) * time.Millisecond)
	var buf []byte
	for {
		t.in.SetReadDeadline(time.Now().Add(20 * time.Millisecond))
		b, err := t.reader.ReadByte()
		if err == nil {
			buf = append(buf, b)
			for t.reader.Buffered() > 0 {
				b, _ := t.reader.ReadByte()
				buf = append(buf, b)
			}
			break
		}
		if timeoutMS == 0 || time.Now().After(deadline) {
			break
		}
	}
	if len(buf) == 0 {
		return nil, nil
	}
	return parseAnsiInput(buf), nil
}
