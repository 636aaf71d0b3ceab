package kraken

// stylePresence bits, one per cascading VisualStyle field. A retained tree
// needs to tell "unset" apart from "explicitly set to the default value" to
// make theme cascade work, so every style setter also flips the matching
// presence bit.
type stylePresence uint8

const (
	presenceFG stylePresence = 1 << iota
	presenceBG
	presenceBorderColor
	presenceBorderStyle
	presenceAttrs
	presenceOpacity

	presenceAll = presenceFG | presenceBG | presenceBorderColor | presenceBorderStyle | presenceAttrs | presenceOpacity
)

// VisualStyle is a node's (or theme's) visual style: colors, border,
// attributes and opacity, plus a presence mask recording which fields were
// set explicitly.
type VisualStyle struct {
	FG          Color
	BG          Color
	BorderColor Color
	BorderStyle BorderStyle
	Attrs       Attr
	Opacity     float64

	presence stylePresence
}

// DefaultVisualStyle returns a style with default colors, no border, no
// attributes, full opacity, and an empty presence mask.
func DefaultVisualStyle() VisualStyle {
	return VisualStyle{FG: DefaultColor, BG: DefaultColor, BorderColor: DefaultColor, Opacity: 1.0}
}

func clampOpacity(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// SetStyleFG sets a node's foreground color.
func (c *Context) SetStyleFG(h Handle, col Color) error {
	n, err := c.get(h)
	if err != nil {
		return err
	}
	n.style.FG = col
	n.style.presence |= presenceFG
	c.markDirty(h)
	return nil
}

// SetStyleBG sets a node's background color.
func (c *Context) SetStyleBG(h Handle, col Color) error {
	n, err := c.get(h)
	if err != nil {
		return err
	}
	n.style.BG = col
	n.style.presence |= presenceBG
	c.markDirty(h)
	return nil
}

// SetStyleBorderColor sets a node's border color.
func (c *Context) SetStyleBorderColor(h Handle, col Color) error {
	n, err := c.get(h)
	if err != nil {
		return err
	}
	n.style.BorderColor = col
	n.style.presence |= presenceBorderColor
	c.markDirty(h)
	return nil
}

// SetStyleBorderStyle sets a node's border style.
func (c *Context) SetStyleBorderStyle(h Handle, b BorderStyle) error {
	n, err := c.get(h)
	if err != nil {
		return err
	}
	n.style.BorderStyle = b
	n.style.presence |= presenceBorderStyle
	c.markDirty(h)
	return nil
}

// SetStyleAttr sets (or clears) a single attribute flag on a node's style.
func (c *Context) SetStyleAttr(h Handle, attr Attr, on bool) error {
	n, err := c.get(h)
	if err != nil {
		return err
	}
	if on {
		n.style.Attrs = n.style.Attrs.With(attr)
	} else {
		n.style.Attrs = n.style.Attrs.Without(attr)
	}
	n.style.presence |= presenceAttrs
	c.markDirty(h)
	return nil
}

// SetStyleOpacity sets a node's opacity, clamped to [0, 1].
func (c *Context) SetStyleOpacity(h Handle, v float64) error {
	n, err := c.get(h)
	if err != nil {
		return err
	}
	n.style.Opacity = clampOpacity(v)
	n.style.presence |= presenceOpacity
	c.markDirty(h)
	return nil
}

// EffectiveStyle resolves a node's effective VisualStyle by walking theme
// bindings up the ancestor chain.
func (c *Context) EffectiveStyle(h Handle) (VisualStyle, error) {
	n, err := c.get(h)
	if err != nil {
		return VisualStyle{}, err
	}
	return c.resolveStyle(h, n), nil
}

func (c *Context) resolveStyle(h Handle, n *node) VisualStyle {
	result := n.style
	if result.presence == presenceAll {
		return result
	}
	if len(c.bindings) == 0 {
		return result
	}

	cur := h
	for cur != InvalidHandle {
		if themeHandle, ok := c.bindings[cur]; ok {
			theme := c.themes[themeHandle]
			if theme != nil {
				result = mergeFromTheme(result, n.kind, theme)
			}
			break
		}
		parentHandle := c.nodes[cur].parent
		cur = parentHandle
	}
	return result
}

// mergeFromTheme copies every property absent from the node's presence mask
// from the theme (per-kind override first if present, else the theme's
// general fields).
func mergeFromTheme(style VisualStyle, kind NodeKind, theme *themeRecord) VisualStyle {
	kindOverride, hasKindOverride := theme.kindOverrides[kind]

	pick := func(bit stylePresence, fromKind func(VisualStyle) (any, bool), fromBase func() (any, bool), assign func(any)) {
		if style.presence&bit != 0 {
			return
		}
		if hasKindOverride && kindOverride.presence&bit != 0 {
			if v, ok := fromKind(kindOverride); ok {
				assign(v)
				return
			}
		}
		if theme.base.presence&bit != 0 {
			if v, ok := fromBase(); ok {
				assign(v)
			}
		}
	}

	pick(presenceFG,
		func(v VisualStyle) (any, bool) { return v.FG, true },
		func() (any, bool) { return theme.base.FG, true },
		func(v any) { style.FG = v.(Color) })
	pick(presenceBG,
		func(v VisualStyle) (any, bool) { return v.BG, true },
		func() (any, bool) { return theme.base.BG, true },
		func(v any) { style.BG = v.(Color) })
	pick(presenceBorderColor,
		func(v VisualStyle) (any, bool) { return v.BorderColor, true },
		func() (any, bool) { return theme.base.BorderColor, true },
		func(v any) { style.BorderColor = v.(Color) })
	pick(presenceBorderStyle,
		func(v VisualStyle) (any, bool) { return v.BorderStyle, true },
		func() (any, bool) { return theme.base.BorderStyle, true },
		func(v any) { style.BorderStyle = v.(BorderStyle) })
	pick(presenceAttrs,
		func(v VisualStyle) (any, bool) { return v.Attrs, true },
		func() (any, bool) { return theme.base.Attrs, true },
		func(v any) { style.Attrs = v.(Attr) })
	pick(presenceOpacity,
		func(v VisualStyle) (any, bool) { return v.Opacity, true },
		func() (any, bool) { return theme.base.Opacity, true },
		func(v any) { style.Opacity = v.(float64) })

	return style
}
