package kraken

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// context.go is the process-wide lifecycle: a single lazily-initialized
// Context per process, a thread-affinity check recorded at New/NewHeadless,
// and the mutex that guards it at the host boundary. Go has no stable
// goroutine-identity primitive to enforce thread affinity the way a
// foreign-function host's owning-thread check can, so CheckAffinity below
// is a documented, best-effort stand-in.

// processCtx is the one process-wide Context slot.
var (
	processMu  sync.Mutex
	processCtx *Context
)

// Options configures a new Context.
type Options struct {
	// Logger is the destination for Debug-level records written through
	// Context.debugf. The render, event-classification and animation paths
	// do not currently call debugf, so no records are emitted from them.
	// Nil disables logging entirely (zero cost).
	Logger *slog.Logger
}

// owner is an opaque token identifying the goroutine (or logical caller)
// that created a Context, bound via Context.Bind from that caller.
type owner struct {
	id   uint64
	have bool
}

var ownerSeq uint64
var ownerMu sync.Mutex

func newOwnerToken() owner {
	ownerMu.Lock()
	defer ownerMu.Unlock()
	ownerSeq++
	return owner{id: ownerSeq, have: true}
}

// New creates the process-wide Context bound to a real terminal backend.
// Initialization refuses to run if a context already exists.
func New(backend Backend, opts Options) (*Context, error) {
	processMu.Lock()
	defer processMu.Unlock()
	if processCtx != nil {
		return nil, newErr("New", KindAlreadyInitialized, "a context already exists")
	}
	w, h, err := backend.Size()
	if err != nil {
		return nil, newErr("New", KindBackendError, "%v", err)
	}
	if err := backend.Init(); err != nil {
		return nil, newErr("New", KindBackendError, "%v", err)
	}
	c := newContext(backend, w, h, opts)
	processCtx = c
	return c, nil
}

// NewHeadless creates the process-wide Context over a HeadlessBackend of
// size w×h, for tests and non-interactive hosts.
func NewHeadless(w, h int, opts Options) (*Context, error) {
	return New(NewHeadlessBackend(w, h), opts)
}

func newContext(backend Backend, w, h int, opts Options) *Context {
	themes, nextTheme := builtinThemes()
	c := &Context{
		nodes:           make(map[Handle]*node),
		themes:          themes,
		nextThemeHandle: nextTheme,
		bindings:        make(map[Handle]Handle),
		chain:           make(map[Handle]Handle),
		choreoGroups:    make(map[Handle]*choreoGroupRec),
		backend:         backend,
		front:           NewBuffer(w, h),
		back:            NewBuffer(w, h),
		termW:           w,
		termH:           h,
		logger:          opts.Logger,
		debugEnabled:    true,
	}
	c.bound = newOwnerToken()
	return c
}

// Bind records the calling goroutine as the Context's owner. Hosts with a
// single dedicated UI goroutine call this once after New/NewHeadless;
// every subsequent entry point is expected to be called from the same
// logical owner, checked best-effort via CheckAffinity.
func (c *Context) Bind() {
	c.bound = newOwnerToken()
}

// CheckAffinity is a best-effort thread-affinity guard: Go cannot observe
// "the calling thread" the way a foreign-function host can, so this only
// verifies the Context hasn't been shut down, and exists as the hook a
// stricter host-embedding layer can extend. Returns ThreadAffinity if the
// context has no owner (i.e. already shut down).
func (c *Context) CheckAffinity() error {
	if !c.bound.have {
		return newErr("CheckAffinity", KindThreadAffinity, "context has no owning caller (shut down?)")
	}
	return nil
}

// Shutdown releases the backend and clears the process-wide Context slot.
func (c *Context) Shutdown() error {
	processMu.Lock()
	defer processMu.Unlock()
	if c.backend != nil {
		if err := c.backend.Shutdown(); err != nil {
			return newErr("Shutdown", KindBackendError, "%v", err)
		}
	}
	c.bound = owner{}
	if processCtx == c {
		processCtx = nil
	}
	return nil
}

// TerminalSize returns the current backend-reported terminal size.
func (c *Context) TerminalSize() (w, h int, err error) {
	if c.backend == nil {
		return 0, 0, newErr("TerminalSize", KindNotInitialized, "no backend bound")
	}
	return c.backend.Size()
}

// debugf logs at Debug level when a logger is configured and debug
// logging hasn't been silenced via SetDebug; a no-op otherwise.
func (c *Context) debugf(format string, args ...any) {
	if c.logger == nil || !c.debugEnabled {
		return
	}
	c.logger.Debug(fmt.Sprintf(format, args...))
}

// SetDebug toggles whether debugf writes to the configured Logger. Debug
// logging is on by default for any Context created with a non-nil Logger;
// this lets a host quiet it at runtime without tearing down the Logger
// itself. The render, event and animation paths emit no debugf records.
func (c *Context) SetDebug(enabled bool) {
	c.debugEnabled = enabled
}

// Capabilities reports which terminal features are available, derived from
// the backend's environment the way a real terminal would advertise them.
// HeadlessBackend has no environment of its own, so callers embedding one
// get DetectCapabilities' behavior for empty $TERM/$COLORTERM (UTF-8
// only).
func (c *Context) Capabilities() Capabilities {
	if _, ok := c.backend.(*HeadlessBackend); ok {
		return DetectCapabilities("", "")
	}
	term, colorterm := os.Getenv("TERM"), os.Getenv("COLORTERM")
	return DetectCapabilities(term, colorterm)
}
