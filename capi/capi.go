//go:build cgo

// Command capi is the thin, mechanical wrapper translating the Go core's
// (T, error) API into the external-interface surface: numeric status
// codes, opaque handles, and a fixed-layout Event struct. It contains no
// domain logic of its own — every exported function is a few lines
// forwarding to *kraken.Context and mapping kraken.Kind to a status code.
// Built on cgo plus stdlib only: this boundary is a thin, mechanical
// wrapper, and no third-party FFI-marshalling library fits this role.
//
// Built with `go build -buildmode=c-shared` (or c-archive); package main is
// required by that build mode, and every exported symbol below is reachable
// from the generated C header as kraken_*.
package main

/*
#include <stdint.h>

typedef struct {
	uint32_t event_type;
	uint32_t target;
	uint32_t a, b, c, d;
} kraken_event_t;
*/
import "C"

import (
	"sync"
	"unsafe"

	kraken "github.com/openkraken-ai/kraken-tui"
)

// ctx is the single process-wide core instance the capi layer mediates.
var (
	mu  sync.Mutex
	ctx *kraken.Context

	lastErrMu sync.Mutex
	lastErr   string
)

const (
	statusOK       = 0
	statusError    = -1
	statusInternal = -2
)

func setLastError(err error) int {
	lastErrMu.Lock()
	lastErr = err.Error()
	lastErrMu.Unlock()
	return statusError
}

func recoverPanic() int {
	lastErrMu.Lock()
	lastErr = "internal panic"
	lastErrMu.Unlock()
	return statusInternal
}

func guard(fn func() error) (status C.int) {
	defer func() {
		if r := recover(); r != nil {
			status = C.int(recoverPanic())
		}
	}()
	if err := fn(); err != nil {
		return C.int(setLastError(err))
	}
	return statusOK
}

func guardHandle(fn func() (kraken.Handle, error)) (out C.uint32_t) {
	defer func() {
		if r := recover(); r != nil {
			recoverPanic()
			out = 0
		}
	}()
	h, err := fn()
	if err != nil {
		setLastError(err)
		return 0
	}
	return C.uint32_t(h)
}

//export kraken_init
func kraken_init() C.int {
	return guard(func() error {
		mu.Lock()
		defer mu.Unlock()
		c, err := kraken.New(kraken.NewTermBackend(nil, nil), kraken.Options{})
		if err != nil {
			return err
		}
		ctx = c
		return nil
	})
}

//export kraken_init_headless
func kraken_init_headless(w, h C.int) C.int {
	return guard(func() error {
		mu.Lock()
		defer mu.Unlock()
		c, err := kraken.NewHeadless(int(w), int(h), kraken.Options{})
		if err != nil {
			return err
		}
		ctx = c
		return nil
	})
}

//export kraken_shutdown
func kraken_shutdown() C.int {
	return guard(func() error {
		mu.Lock()
		defer mu.Unlock()
		if ctx == nil {
			return kraken.ErrKind(kraken.KindNotInitialized)
		}
		err := ctx.Shutdown()
		ctx = nil
		return err
	})
}

func requireCtx() (*kraken.Context, error) {
	if ctx == nil {
		return nil, kraken.ErrKind(kraken.KindNotInitialized)
	}
	return ctx, nil
}

//export kraken_terminal_size
func kraken_terminal_size(outW, outH *C.int) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		w, h, err := c.TerminalSize()
		if err != nil {
			return err
		}
		*outW, *outH = C.int(w), C.int(h)
		return nil
	})
}

// --- Nodes ---

//export kraken_create_node
func kraken_create_node(kindByte C.uint8_t) C.uint32_t {
	return guardHandle(func() (kraken.Handle, error) {
		c, err := requireCtx()
		if err != nil {
			return 0, err
		}
		return c.CreateNode(kraken.NodeKind(kindByte)), nil
	})
}

//export kraken_destroy_node
func kraken_destroy_node(h C.uint32_t) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.DestroyNode(kraken.Handle(h))
	})
}

//export kraken_destroy_subtree
func kraken_destroy_subtree(h C.uint32_t) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.DestroySubtree(kraken.Handle(h))
	})
}

//export kraken_get_node_type
func kraken_get_node_type(h C.uint32_t, out *C.uint8_t) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		kind, err := c.NodeKind(kraken.Handle(h))
		if err != nil {
			return err
		}
		*out = C.uint8_t(kind)
		return nil
	})
}

//export kraken_set_visible
func kraken_set_visible(h C.uint32_t, visible C.int) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.SetVisible(kraken.Handle(h), visible != 0)
	})
}

//export kraken_get_visible
func kraken_get_visible(h C.uint32_t, out *C.int) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		v, err := c.Visible(kraken.Handle(h))
		if err != nil {
			return err
		}
		*out = boolToC(v)
		return nil
	})
}

//export kraken_node_count
func kraken_node_count() C.int {
	if ctx == nil {
		return 0
	}
	return C.int(ctx.NodeCount())
}

// --- Tree ---

//export kraken_set_root
func kraken_set_root(h C.uint32_t) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.SetRoot(kraken.Handle(h))
	})
}

//export kraken_append_child
func kraken_append_child(parent, child C.uint32_t) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.AppendChild(kraken.Handle(parent), kraken.Handle(child))
	})
}

//export kraken_insert_child
func kraken_insert_child(parent, child C.uint32_t, index C.int) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.InsertChild(kraken.Handle(parent), kraken.Handle(child), int(index))
	})
}

//export kraken_remove_child
func kraken_remove_child(parent, child C.uint32_t) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.RemoveChild(kraken.Handle(parent), kraken.Handle(child))
	})
}

//export kraken_child_count
func kraken_child_count(h C.uint32_t, out *C.int) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		n, err := c.ChildCount(kraken.Handle(h))
		if err != nil {
			return err
		}
		*out = C.int(n)
		return nil
	})
}

//export kraken_child_at
func kraken_child_at(h C.uint32_t, i C.int, out *C.uint32_t) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		child, err := c.ChildAt(kraken.Handle(h), int(i))
		if err != nil {
			return err
		}
		*out = C.uint32_t(child)
		return nil
	})
}

//export kraken_parent_of
func kraken_parent_of(h C.uint32_t, out *C.uint32_t) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		p, err := c.ParentOf(kraken.Handle(h))
		if err != nil {
			return err
		}
		*out = C.uint32_t(p)
		return nil
	})
}

// --- Content ---

//export kraken_set_content
func kraken_set_content(h C.uint32_t, bytes *C.char, length C.int, format C.uint8_t) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		s := C.GoStringN(bytes, length)
		return c.SetContent(kraken.Handle(h), s, kraken.ContentFormat(format))
	})
}

//export kraken_get_content_len
func kraken_get_content_len(h C.uint32_t, out *C.int) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		s, err := c.Content(kraken.Handle(h))
		if err != nil {
			return err
		}
		*out = C.int(len(s))
		return nil
	})
}

//export kraken_get_content
func kraken_get_content(h C.uint32_t, outBuf *C.char, cap C.int) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		s, err := c.Content(kraken.Handle(h))
		if err != nil {
			return err
		}
		n := len(s)
		if n > int(cap) {
			n = int(cap)
		}
		if n > 0 {
			dst := unsafe.Slice((*byte)(unsafe.Pointer(outBuf)), n)
			copy(dst, s[:n])
		}
		return nil
	})
}

//export kraken_set_code_language
func kraken_set_code_language(h C.uint32_t, lang *C.char, length C.int) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.SetLanguage(kraken.Handle(h), C.GoStringN(lang, length))
	})
}

// --- Layout ---

//export kraken_set_layout_dimension
func kraken_set_layout_dimension(h C.uint32_t, prop C.uint8_t, value C.double, unit C.uint8_t) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.SetLayoutDimension(kraken.Handle(h), kraken.DimensionProp(prop), float64(value), kraken.Unit(unit))
	})
}

//export kraken_set_layout_flex
func kraken_set_layout_flex(h C.uint32_t, prop C.uint8_t, enumValue C.int) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.SetLayoutFlex(kraken.Handle(h), kraken.FlexProp(prop), int(enumValue))
	})
}

//export kraken_set_layout_flex_factor
func kraken_set_layout_flex_factor(h C.uint32_t, prop C.uint8_t, value C.double) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.SetLayoutFlexFactor(kraken.Handle(h), kraken.FlexProp(prop), float64(value))
	})
}

//export kraken_set_layout_flex_basis
func kraken_set_layout_flex_basis(h C.uint32_t, value C.double, unit C.uint8_t) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.SetLayoutFlexBasis(kraken.Handle(h), float64(value), kraken.Unit(unit))
	})
}

//export kraken_set_layout_position
func kraken_set_layout_position(h C.uint32_t, x, y C.double) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.SetLayoutPosition(kraken.Handle(h), float64(x), float64(y))
	})
}

//export kraken_compute_layout
func kraken_compute_layout() C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.ComputeLayout()
	})
}

//export kraken_hit_test
func kraken_hit_test(x, y C.int) C.uint32_t {
	if ctx == nil {
		return 0
	}
	return C.uint32_t(ctx.HitTest(int(x), int(y)))
}

//export kraken_set_layout_edges
func kraken_set_layout_edges(h C.uint32_t, prop C.uint8_t, top, right, bottom, left C.int) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.SetLayoutEdges(kraken.Handle(h), kraken.EdgeSet(prop), int(top), int(right), int(bottom), int(left))
	})
}

//export kraken_set_layout_gap
func kraken_set_layout_gap(h C.uint32_t, rowGap, colGap C.int) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.SetLayoutGap(kraken.Handle(h), int(rowGap), int(colGap))
	})
}

//export kraken_get_layout
func kraken_get_layout(h C.uint32_t, x, y, w, hh *C.int) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		gx, gy, gw, gh, err := c.GetLayout(kraken.Handle(h))
		if err != nil {
			return err
		}
		*x, *y, *w, *hh = C.int(gx), C.int(gy), C.int(gw), C.int(gh)
		return nil
	})
}

// --- Visual style ---

//export kraken_set_style_color
func kraken_set_style_color(h C.uint32_t, prop C.uint8_t, color32 C.uint32_t) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		col := kraken.Color(color32)
		switch prop {
		case 0:
			return c.SetStyleFG(kraken.Handle(h), col)
		case 1:
			return c.SetStyleBG(kraken.Handle(h), col)
		case 2:
			return c.SetStyleBorderColor(kraken.Handle(h), col)
		default:
			return kraken.ErrKind(kraken.KindInvalidArgument)
		}
	})
}

//export kraken_set_style_flag
func kraken_set_style_flag(h C.uint32_t, prop C.uint8_t, on C.int) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		attr, err := attrFromProp(prop)
		if err != nil {
			return err
		}
		return c.SetStyleAttr(kraken.Handle(h), attr, on != 0)
	})
}

func attrFromProp(prop C.uint8_t) (kraken.Attr, error) {
	switch prop {
	case 0:
		return kraken.AttrBold, nil
	case 1:
		return kraken.AttrItalic, nil
	case 2:
		return kraken.AttrUnderline, nil
	default:
		return 0, kraken.ErrKind(kraken.KindInvalidArgument)
	}
}

//export kraken_set_style_border
func kraken_set_style_border(h C.uint32_t, styleByte C.uint8_t) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.SetStyleBorderStyle(kraken.Handle(h), kraken.BorderStyle(styleByte))
	})
}

//export kraken_set_style_opacity
func kraken_set_style_opacity(h C.uint32_t, v C.float) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.SetStyleOpacity(kraken.Handle(h), float64(v))
	})
}

// --- Themes ---

//export kraken_create_theme
func kraken_create_theme() C.uint32_t {
	return guardHandle(func() (kraken.Handle, error) {
		c, err := requireCtx()
		if err != nil {
			return 0, err
		}
		return c.CreateTheme(), nil
	})
}

//export kraken_destroy_theme
func kraken_destroy_theme(h C.uint32_t) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.DestroyTheme(kraken.Handle(h))
	})
}

//export kraken_apply_theme
func kraken_apply_theme(theme, node C.uint32_t) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.ApplyTheme(kraken.Handle(theme), kraken.Handle(node))
	})
}

//export kraken_clear_theme
func kraken_clear_theme(node C.uint32_t) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.ClearTheme(kraken.Handle(node))
	})
}

//export kraken_switch_theme
func kraken_switch_theme(theme C.uint32_t) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.SwitchTheme(kraken.Handle(theme))
	})
}

// --- Animation ---

//export kraken_animate
func kraken_animate(h C.uint32_t, propByte C.uint8_t, targetBits C.uint32_t, durationMS C.double, easingByte C.uint8_t) C.uint32_t {
	return guardHandle(func() (kraken.Handle, error) {
		c, err := requireCtx()
		if err != nil {
			return 0, err
		}
		return c.StartAnimation(kraken.Handle(h), kraken.Property(propByte), uint32(targetBits), float64(durationMS), kraken.Easing(easingByte))
	})
}

//export kraken_cancel_animation
func kraken_cancel_animation(anim C.uint32_t) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.CancelAnimation(kraken.Handle(anim))
	})
}

//export kraken_start_spinner
func kraken_start_spinner(h C.uint32_t, intervalMS C.double) C.uint32_t {
	return guardHandle(func() (kraken.Handle, error) {
		c, err := requireCtx()
		if err != nil {
			return 0, err
		}
		return c.StartSpinner(kraken.Handle(h), float64(intervalMS))
	})
}

//export kraken_start_progress
func kraken_start_progress(h C.uint32_t, durationMS C.double, easingByte C.uint8_t) C.uint32_t {
	return guardHandle(func() (kraken.Handle, error) {
		c, err := requireCtx()
		if err != nil {
			return 0, err
		}
		return c.StartProgress(kraken.Handle(h), float64(durationMS), kraken.Easing(easingByte))
	})
}

//export kraken_start_pulse
func kraken_start_pulse(h C.uint32_t, durationMS C.double, easingByte C.uint8_t) C.uint32_t {
	return guardHandle(func() (kraken.Handle, error) {
		c, err := requireCtx()
		if err != nil {
			return 0, err
		}
		return c.StartPulse(kraken.Handle(h), float64(durationMS), kraken.Easing(easingByte))
	})
}

//export kraken_chain_animation
func kraken_chain_animation(after, next C.uint32_t) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.ChainAnimation(kraken.Handle(after), kraken.Handle(next))
	})
}

//export kraken_create_choreo_group
func kraken_create_choreo_group() C.uint32_t {
	return guardHandle(func() (kraken.Handle, error) {
		c, err := requireCtx()
		if err != nil {
			return 0, err
		}
		return c.CreateChoreoGroup(), nil
	})
}

//export kraken_choreo_add
func kraken_choreo_add(group, anim C.uint32_t, startAtMS C.double) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.ChoreoAdd(kraken.Handle(group), kraken.Handle(anim), float64(startAtMS))
	})
}

//export kraken_choreo_start
func kraken_choreo_start(group C.uint32_t) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.ChoreoStart(kraken.Handle(group))
	})
}

//export kraken_choreo_cancel
func kraken_choreo_cancel(group C.uint32_t) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.ChoreoCancel(kraken.Handle(group))
	})
}

//export kraken_destroy_choreo_group
func kraken_destroy_choreo_group(group C.uint32_t) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.DestroyChoreoGroup(kraken.Handle(group))
	})
}

// --- Focus ---

//export kraken_set_focusable
func kraken_set_focusable(h C.uint32_t, focusable C.int) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.SetFocusable(kraken.Handle(h), focusable != 0)
	})
}

//export kraken_focus
func kraken_focus(h C.uint32_t) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.Focus(kraken.Handle(h))
	})
}

//export kraken_focused
func kraken_focused() C.uint32_t {
	if ctx == nil {
		return 0
	}
	return C.uint32_t(ctx.Focused())
}

//export kraken_focus_next
func kraken_focus_next() C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		c.FocusNext()
		return nil
	})
}

//export kraken_focus_prev
func kraken_focus_prev() C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		c.FocusPrev()
		return nil
	})
}

// --- Scroll ---

//export kraken_set_scroll
func kraken_set_scroll(h C.uint32_t, x, y C.int) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.SetScroll(kraken.Handle(h), int(x), int(y))
	})
}

//export kraken_get_scroll
func kraken_get_scroll(h C.uint32_t, x, y *C.int) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		gx, gy, err := c.GetScroll(kraken.Handle(h))
		if err != nil {
			return err
		}
		*x, *y = C.int(gx), C.int(gy)
		return nil
	})
}

//export kraken_scroll_by
func kraken_scroll_by(h C.uint32_t, dx, dy C.int) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.ScrollBy(kraken.Handle(h), int(dx), int(dy))
	})
}

// --- Input & rendering ---

//export kraken_read_input
func kraken_read_input(timeoutMS C.int, out *C.int) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		n, err := c.ReadInput(int(timeoutMS))
		if err != nil {
			return err
		}
		*out = C.int(n)
		return nil
	})
}

//export kraken_next_event
func kraken_next_event(out *C.kraken_event_t) C.int {
	if ctx == nil {
		return 0
	}
	ev, ok := ctx.NextEvent()
	if !ok {
		return 0
	}
	out.event_type = C.uint32_t(ev.Type)
	out.target = C.uint32_t(ev.Target)
	out.a = C.uint32_t(ev.A)
	out.b = C.uint32_t(ev.B)
	out.c = C.uint32_t(ev.C)
	out.d = C.uint32_t(ev.D)
	return 1
}

//export kraken_render
func kraken_render() C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.Render()
	})
}

//export kraken_mark_dirty
func kraken_mark_dirty(h C.uint32_t) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.MarkDirty(kraken.Handle(h))
	})
}

// --- Diagnostics ---

//export kraken_get_last_error
func kraken_get_last_error() *C.char {
	lastErrMu.Lock()
	defer lastErrMu.Unlock()
	if lastErr == "" {
		return nil
	}
	return C.CString(lastErr)
}

//export kraken_clear_error
func kraken_clear_error() {
	lastErrMu.Lock()
	lastErr = ""
	lastErrMu.Unlock()
}

//export kraken_get_perf_counter
func kraken_get_perf_counter(id C.int) C.uint64_t {
	if ctx == nil {
		return 0
	}
	return C.uint64_t(ctx.GetPerfCounter(int(id)))
}

//export kraken_dirty_node_count
func kraken_dirty_node_count() C.int {
	if ctx == nil {
		return 0
	}
	return C.int(ctx.DirtyNodeCount())
}

//export kraken_animation_count
func kraken_animation_count() C.int {
	if ctx == nil {
		return 0
	}
	return C.int(ctx.AnimationCount())
}

//export kraken_event_buffer_len
func kraken_event_buffer_len() C.int {
	if ctx == nil {
		return 0
	}
	return C.int(ctx.EventBufferLen())
}

//export kraken_set_animation_looping
func kraken_set_animation_looping(anim C.uint32_t) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.SetAnimationLooping(kraken.Handle(anim))
	})
}

//export kraken_set_theme_color
func kraken_set_theme_color(theme C.uint32_t, prop *C.char, propLen C.int, color32 C.uint32_t) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.SetThemeColor(kraken.Handle(theme), C.GoStringN(prop, propLen), kraken.Color(color32))
	})
}

//export kraken_set_theme_flag
func kraken_set_theme_flag(theme C.uint32_t, attrProp C.uint8_t, on C.int) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		attr, err := attrFromProp(attrProp)
		if err != nil {
			return err
		}
		return c.SetThemeFlag(kraken.Handle(theme), attr, on != 0)
	})
}

//export kraken_set_theme_border
func kraken_set_theme_border(theme C.uint32_t, styleByte C.uint8_t) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.SetThemeBorder(kraken.Handle(theme), kraken.BorderStyle(styleByte))
	})
}

//export kraken_set_theme_opacity
func kraken_set_theme_opacity(theme C.uint32_t, v C.float) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.SetThemeOpacity(kraken.Handle(theme), float64(v))
	})
}

//export kraken_set_theme_type_color
func kraken_set_theme_type_color(theme C.uint32_t, kindByte C.uint8_t, prop *C.char, propLen C.int, color32 C.uint32_t) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.SetThemeTypeColor(kraken.Handle(theme), kraken.NodeKind(kindByte), C.GoStringN(prop, propLen), kraken.Color(color32))
	})
}

//export kraken_set_theme_type_flag
func kraken_set_theme_type_flag(theme C.uint32_t, kindByte C.uint8_t, attrProp C.uint8_t, on C.int) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		attr, err := attrFromProp(attrProp)
		if err != nil {
			return err
		}
		return c.SetThemeTypeFlag(kraken.Handle(theme), kraken.NodeKind(kindByte), attr, on != 0)
	})
}

//export kraken_set_theme_type_border
func kraken_set_theme_type_border(theme C.uint32_t, kindByte C.uint8_t, styleByte C.uint8_t) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.SetThemeTypeBorder(kraken.Handle(theme), kraken.NodeKind(kindByte), kraken.BorderStyle(styleByte))
	})
}

//export kraken_set_theme_type_opacity
func kraken_set_theme_type_opacity(theme C.uint32_t, kindByte C.uint8_t, v C.float) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.SetThemeTypeOpacity(kraken.Handle(theme), kraken.NodeKind(kindByte), float64(v))
	})
}

// --- Diagnostics & capability query ---

//export kraken_measure_text
func kraken_measure_text(bytes *C.char, length C.int) C.int {
	return C.int(kraken.MeasureText(C.GoStringN(bytes, length)))
}

//export kraken_capabilities
func kraken_capabilities() C.uint32_t {
	if ctx == nil {
		return 0
	}
	return C.uint32_t(ctx.Capabilities())
}

//export kraken_set_debug
func kraken_set_debug(enabled C.int) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		c.SetDebug(enabled != 0)
		return nil
	})
}

//export kraken_get_code_language
func kraken_get_code_language(h C.uint32_t, outBuf *C.char, cap C.int, outLen *C.int) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		lang, err := c.Language(kraken.Handle(h))
		if err != nil {
			return err
		}
		*outLen = C.int(len(lang))
		n := len(lang)
		if n > int(cap) {
			n = int(cap)
		}
		if n > 0 {
			dst := unsafe.Slice((*byte)(unsafe.Pointer(outBuf)), n)
			copy(dst, lang[:n])
		}
		return nil
	})
}

// --- Widget state: Input ---

//export kraken_set_input_cursor
func kraken_set_input_cursor(h C.uint32_t, pos C.int) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.SetInputCursor(kraken.Handle(h), int(pos))
	})
}

//export kraken_get_input_cursor
func kraken_get_input_cursor(h C.uint32_t, out *C.int) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		pos, err := c.InputCursor(kraken.Handle(h))
		if err != nil {
			return err
		}
		*out = C.int(pos)
		return nil
	})
}

//export kraken_set_input_max_length
func kraken_set_input_max_length(h C.uint32_t, max C.int) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.SetInputMaxLength(kraken.Handle(h), int(max))
	})
}

//export kraken_get_input_max_length
func kraken_get_input_max_length(h C.uint32_t, out *C.int) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		max, err := c.InputMaxLength(kraken.Handle(h))
		if err != nil {
			return err
		}
		*out = C.int(max)
		return nil
	})
}

//export kraken_set_input_mask
func kraken_set_input_mask(h C.uint32_t, mask C.uint32_t) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.SetInputMask(kraken.Handle(h), rune(mask))
	})
}

//export kraken_get_input_mask
func kraken_get_input_mask(h C.uint32_t, out *C.uint32_t) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		mask, err := c.InputMask(kraken.Handle(h))
		if err != nil {
			return err
		}
		*out = C.uint32_t(mask)
		return nil
	})
}

// --- Widget state: TextArea ---

//export kraken_set_textarea_cursor
func kraken_set_textarea_cursor(h C.uint32_t, row, col C.int) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.SetTextAreaCursor(kraken.Handle(h), int(row), int(col))
	})
}

//export kraken_get_textarea_cursor
func kraken_get_textarea_cursor(h C.uint32_t, outRow, outCol *C.int) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		row, col, err := c.TextAreaCursor(kraken.Handle(h))
		if err != nil {
			return err
		}
		*outRow, *outCol = C.int(row), C.int(col)
		return nil
	})
}

//export kraken_get_textarea_line_count
func kraken_get_textarea_line_count(h C.uint32_t, out *C.int) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		n, err := c.TextAreaLineCount(kraken.Handle(h))
		if err != nil {
			return err
		}
		*out = C.int(n)
		return nil
	})
}

//export kraken_set_textarea_wrap
func kraken_set_textarea_wrap(h C.uint32_t, wrap C.int) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.SetTextAreaWrap(kraken.Handle(h), wrap != 0)
	})
}

//export kraken_get_textarea_wrap
func kraken_get_textarea_wrap(h C.uint32_t, out *C.int) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		wrap, err := c.TextAreaWrap(kraken.Handle(h))
		if err != nil {
			return err
		}
		*out = boolToC(wrap)
		return nil
	})
}

// --- Widget state: Select ---

//export kraken_select_add_option
func kraken_select_add_option(h C.uint32_t, bytes *C.char, length C.int) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.SelectAddOption(kraken.Handle(h), C.GoStringN(bytes, length))
	})
}

//export kraken_select_remove_option
func kraken_select_remove_option(h C.uint32_t, index C.int) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.SelectRemoveOption(kraken.Handle(h), int(index))
	})
}

//export kraken_select_clear_options
func kraken_select_clear_options(h C.uint32_t) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.SelectClearOptions(kraken.Handle(h))
	})
}

//export kraken_select_option_count
func kraken_select_option_count(h C.uint32_t, out *C.int) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		n, err := c.SelectOptionCount(kraken.Handle(h))
		if err != nil {
			return err
		}
		*out = C.int(n)
		return nil
	})
}

//export kraken_select_option_at
func kraken_select_option_at(h C.uint32_t, index C.int, outBuf *C.char, cap C.int, outLen *C.int) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		opt, err := c.SelectOptionAt(kraken.Handle(h), int(index))
		if err != nil {
			return err
		}
		*outLen = C.int(len(opt))
		n := len(opt)
		if n > int(cap) {
			n = int(cap)
		}
		if n > 0 {
			dst := unsafe.Slice((*byte)(unsafe.Pointer(outBuf)), n)
			copy(dst, opt[:n])
		}
		return nil
	})
}

//export kraken_set_selected_index
func kraken_set_selected_index(h C.uint32_t, index C.int) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		return c.SetSelectedIndex(kraken.Handle(h), int(index))
	})
}

//export kraken_get_selected_index
func kraken_get_selected_index(h C.uint32_t, out *C.int, outOK *C.int) C.int {
	return guard(func() error {
		c, err := requireCtx()
		if err != nil {
			return err
		}
		idx, ok, err := c.SelectedIndex(kraken.Handle(h))
		if err != nil {
			return err
		}
		*out = C.int(idx)
		*outOK = boolToC(ok)
		return nil
	})
}

func boolToC(b bool) C.int {
	if b {
		return 1
	}
	return 0
}

// main is never invoked: this binary only exists to be built with
// -buildmode=c-shared/c-archive, which requires package main.
func main() {}
