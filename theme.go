package kraken

// themeRecord is a named style bundle plus per-node-kind overrides. Its
// base style carries the same presence mask as a node's VisualStyle, so
// cascade resolution can tell "theme didn't set this" from "theme set
// this to the zero value".
type themeRecord struct {
	base          VisualStyle
	kindOverrides map[NodeKind]VisualStyle
}

func newThemeRecord(base VisualStyle) *themeRecord {
	return &themeRecord{base: base, kindOverrides: make(map[NodeKind]VisualStyle)}
}

// ThemeDark and ThemeLight are the two built-in theme handles (1 and 2).
// Destroying either is a ConstraintViolation.
const (
	ThemeDark  Handle = 1
	ThemeLight Handle = 2
)

func builtinThemes() (map[Handle]*themeRecord, Handle) {
	dark := newThemeRecord(VisualStyle{
		FG: RGB(0xe6, 0xe6, 0xe6), BG: DefaultColor, BorderColor: RGB(0x55, 0x55, 0x55),
		BorderStyle: BorderSingle, Attrs: 0, Opacity: 1.0, presence: presenceAll,
	})
	light := newThemeRecord(VisualStyle{
		FG: RGB(0x1a, 0x1a, 0x1a), BG: DefaultColor, BorderColor: RGB(0xaa, 0xaa, 0xaa),
		BorderStyle: BorderSingle, Attrs: 0, Opacity: 1.0, presence: presenceAll,
	})
	return map[Handle]*themeRecord{ThemeDark: dark, ThemeLight: light}, 3
}

// CreateTheme allocates a new, empty theme (no properties present) and
// returns its handle. User themes get handles from 3 upward.
func (c *Context) CreateTheme() Handle {
	h := c.nextThemeHandle
	c.nextThemeHandle++
	c.themes[h] = newThemeRecord(VisualStyle{})
	return h
}

func (c *Context) getTheme(h Handle) (*themeRecord, error) {
	t, ok := c.themes[h]
	if !ok {
		return nil, newErr("", KindInvalidHandle, "unknown theme handle %d", h)
	}
	return t, nil
}

// DestroyTheme removes a user-created theme. Destroying ThemeDark or
// ThemeLight is a ConstraintViolation.
func (c *Context) DestroyTheme(h Handle) error {
	if h == ThemeDark || h == ThemeLight {
		return newErr("DestroyTheme", KindConstraintViolation, "cannot destroy built-in theme %d", h)
	}
	if _, err := c.getTheme(h); err != nil {
		return err
	}
	delete(c.themes, h)
	for node, bound := range c.bindings {
		if bound == h {
			delete(c.bindings, node)
		}
	}
	return nil
}

// themeSetter bits mirror the style presence bits; each theme setter sets
// the corresponding bit and marks every bound subtree dirty.

func (c *Context) SetThemeColor(h Handle, prop string, col Color) error {
	t, err := c.getTheme(h)
	if err != nil {
		return err
	}
	switch prop {
	case "fg":
		t.base.FG = col
		t.base.presence |= presenceFG
	case "bg":
		t.base.BG = col
		t.base.presence |= presenceBG
	case "border":
		t.base.BorderColor = col
		t.base.presence |= presenceBorderColor
	default:
		return newErr("SetThemeColor", KindInvalidArgument, "unknown color property %q", prop)
	}
	c.markThemeBoundDirty(h)
	return nil
}

func (c *Context) SetThemeFlag(h Handle, attr Attr, on bool) error {
	t, err := c.getTheme(h)
	if err != nil {
		return err
	}
	if on {
		t.base.Attrs = t.base.Attrs.With(attr)
	} else {
		t.base.Attrs = t.base.Attrs.Without(attr)
	}
	t.base.presence |= presenceAttrs
	c.markThemeBoundDirty(h)
	return nil
}

func (c *Context) SetThemeBorder(h Handle, b BorderStyle) error {
	t, err := c.getTheme(h)
	if err != nil {
		return err
	}
	t.base.BorderStyle = b
	t.base.presence |= presenceBorderStyle
	c.markThemeBoundDirty(h)
	return nil
}

func (c *Context) SetThemeOpacity(h Handle, v float64) error {
	t, err := c.getTheme(h)
	if err != nil {
		return err
	}
	t.base.Opacity = clampOpacity(v)
	t.base.presence |= presenceOpacity
	c.markThemeBoundDirty(h)
	return nil
}

// SetThemeTypeColor/Flag/Border/Opacity set a per-NodeKind override on a
// theme. These are stored and resolvable by EffectiveStyle's cascade, but
// most real-world cascades never populate them — that is left to the
// host.
func (c *Context) SetThemeTypeColor(h Handle, kind NodeKind, prop string, col Color) error {
	t, err := c.getTheme(h)
	if err != nil {
		return err
	}
	ov := t.kindOverrides[kind]
	switch prop {
	case "fg":
		ov.FG = col
		ov.presence |= presenceFG
	case "bg":
		ov.BG = col
		ov.presence |= presenceBG
	case "border":
		ov.BorderColor = col
		ov.presence |= presenceBorderColor
	default:
		return newErr("SetThemeTypeColor", KindInvalidArgument, "unknown color property %q", prop)
	}
	t.kindOverrides[kind] = ov
	c.markThemeBoundDirty(h)
	return nil
}

func (c *Context) SetThemeTypeFlag(h Handle, kind NodeKind, attr Attr, on bool) error {
	t, err := c.getTheme(h)
	if err != nil {
		return err
	}
	ov := t.kindOverrides[kind]
	if on {
		ov.Attrs = ov.Attrs.With(attr)
	} else {
		ov.Attrs = ov.Attrs.Without(attr)
	}
	ov.presence |= presenceAttrs
	t.kindOverrides[kind] = ov
	c.markThemeBoundDirty(h)
	return nil
}

func (c *Context) SetThemeTypeBorder(h Handle, kind NodeKind, b BorderStyle) error {
	t, err := c.getTheme(h)
	if err != nil {
		return err
	}
	ov := t.kindOverrides[kind]
	ov.BorderStyle = b
	ov.presence |= presenceBorderStyle
	t.kindOverrides[kind] = ov
	c.markThemeBoundDirty(h)
	return nil
}

func (c *Context) SetThemeTypeOpacity(h Handle, kind NodeKind, v float64) error {
	t, err := c.getTheme(h)
	if err != nil {
		return err
	}
	ov := t.kindOverrides[kind]
	ov.Opacity = clampOpacity(v)
	ov.presence |= presenceOpacity
	t.kindOverrides[kind] = ov
	c.markThemeBoundDirty(h)
	return nil
}

// ApplyTheme records a node -> theme binding and marks the subtree dirty.
func (c *Context) ApplyTheme(theme, node Handle) error {
	if _, err := c.getTheme(theme); err != nil {
		return err
	}
	if _, err := c.get(node); err != nil {
		return err
	}
	c.bindings[node] = theme
	c.markSubtreeDirty(node)
	return nil
}

// ClearTheme removes a node's theme binding and marks the subtree dirty.
func (c *Context) ClearTheme(node Handle) error {
	if _, err := c.get(node); err != nil {
		return err
	}
	delete(c.bindings, node)
	c.markSubtreeDirty(node)
	return nil
}

// SwitchTheme applies theme to the current root.
func (c *Context) SwitchTheme(theme Handle) error {
	if c.root == InvalidHandle {
		return newErr("SwitchTheme", KindConstraintViolation, "no root set")
	}
	return c.ApplyTheme(theme, c.root)
}

func (c *Context) markThemeBoundDirty(theme Handle) {
	for node, bound := range c.bindings {
		if bound == theme {
			c.markSubtreeDirty(node)
		}
	}
}

func (c *Context) markSubtreeDirty(h Handle) {
	n, ok := c.nodes[h]
	if !ok {
		return
	}
	n.dirty = true
	for _, child := range n.children {
		c.markSubtreeDirty(child)
	}
	if n.parent != InvalidHandle {
		c.markDirty(n.parent)
	}
}
