package kraken

import "testing"

func TestBuiltinThemesProtected(t *testing.T) {
	c := newTestContext(t)
	if err := c.DestroyTheme(ThemeDark); err == nil {
		t.Fatal("expected error destroying ThemeDark")
	}
	if err := c.DestroyTheme(ThemeLight); err == nil {
		t.Fatal("expected error destroying ThemeLight")
	}
}

func TestCreateAndDestroyTheme(t *testing.T) {
	c := newTestContext(t)
	h := c.CreateTheme()
	if h == ThemeDark || h == ThemeLight {
		t.Fatalf("new theme handle %d collides with a builtin", h)
	}
	if err := c.DestroyTheme(h); err != nil {
		t.Fatal(err)
	}
	if _, err := c.getTheme(h); err == nil {
		t.Fatal("expected error after destroying a theme")
	}
}

func TestDestroyThemeClearsBindings(t *testing.T) {
	c := newTestContext(t)
	h := c.CreateTheme()
	node := c.CreateNode(KindText)
	if err := c.ApplyTheme(h, node); err != nil {
		t.Fatal(err)
	}
	if err := c.DestroyTheme(h); err != nil {
		t.Fatal(err)
	}
	if _, bound := c.bindings[node]; bound {
		t.Fatal("binding should be cleared when its theme is destroyed")
	}
}

func TestSwitchThemeRequiresRoot(t *testing.T) {
	c := newTestContext(t)
	if err := c.SwitchTheme(ThemeDark); err == nil {
		t.Fatal("expected error switching theme with no root set")
	}
	root := c.CreateNode(KindContainer)
	if err := c.SetRoot(root); err != nil {
		t.Fatal(err)
	}
	if err := c.SwitchTheme(ThemeLight); err != nil {
		t.Fatal(err)
	}
	if c.bindings[root] != ThemeLight {
		t.Fatalf("bindings[root] = %d, want ThemeLight", c.bindings[root])
	}
}

func TestThemeTypeOverrideWinsOverThemeBase(t *testing.T) {
	c := newTestContext(t)
	h := c.CreateTheme()
	if err := c.SetThemeColor(h, "fg", RGB(10, 10, 10)); err != nil {
		t.Fatal(err)
	}
	if err := c.SetThemeTypeColor(h, KindText, "fg", RGB(200, 200, 200)); err != nil {
		t.Fatal(err)
	}

	textNode := c.CreateNode(KindText)
	otherNode := c.CreateNode(KindContainer)
	if err := c.ApplyTheme(h, textNode); err != nil {
		t.Fatal(err)
	}
	if err := c.ApplyTheme(h, otherNode); err != nil {
		t.Fatal(err)
	}

	textStyle, _ := c.EffectiveStyle(textNode)
	if textStyle.FG != RGB(200, 200, 200) {
		t.Errorf("Text node FG = %v, want per-kind override", textStyle.FG)
	}
	otherStyle, _ := c.EffectiveStyle(otherNode)
	if otherStyle.FG != RGB(10, 10, 10) {
		t.Errorf("Container node FG = %v, want theme base", otherStyle.FG)
	}
}

func TestMarkThemeBoundDirtyPropagates(t *testing.T) {
	c := newTestContext(t)
	h := c.CreateTheme()
	node := c.CreateNode(KindText)
	if err := c.ApplyTheme(h, node); err != nil {
		t.Fatal(err)
	}
	c.clearDirtyAll()

	if err := c.SetThemeColor(h, "fg", RGB(1, 2, 3)); err != nil {
		t.Fatal(err)
	}
	n, _ := c.get(node)
	if !n.dirty {
		t.Fatal("expected bound node to be marked dirty when its theme changes")
	}
}
