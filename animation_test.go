package kraken

import (
	"math"
	"testing"
)

func TestEaseEndpoints(t *testing.T) {
	fns := []Easing{EaseLinear, EaseIn, EaseOut, EaseInOut, EaseCubicIn, EaseCubicOut, EaseElastic, EaseBounce}
	for _, fn := range fns {
		if got := ease(fn, 0); math.Abs(got) > 1e-9 {
			t.Errorf("ease(%v, 0) = %v, want 0", fn, got)
		}
		if got := ease(fn, 1); math.Abs(got-1) > 1e-9 {
			t.Errorf("ease(%v, 1) = %v, want 1", fn, got)
		}
	}
}

func TestStartAnimationInterpolatesOpacity(t *testing.T) {
	c := newTestContext(t)
	n := c.CreateNode(KindContainer)
	if err := c.SetStyleOpacity(n, 0.0); err != nil {
		t.Fatal(err)
	}

	anim, err := c.StartAnimation(n, PropOpacity, math.Float32bits(1.0), 100, EaseLinear)
	if err != nil {
		t.Fatal(err)
	}
	c.tickAnimations(50)

	style, _ := c.EffectiveStyle(n)
	if style.Opacity < 0.4 || style.Opacity > 0.6 {
		t.Errorf("Opacity at 50%% elapsed = %v, want ~0.5", style.Opacity)
	}
	if c.AnimationCount() != 1 {
		t.Fatalf("AnimationCount = %d, want 1 (not yet complete)", c.AnimationCount())
	}

	c.tickAnimations(60)
	style, _ = c.EffectiveStyle(n)
	if style.Opacity != 1.0 {
		t.Errorf("Opacity after completion = %v, want 1.0", style.Opacity)
	}
	if c.AnimationCount() != 0 {
		t.Errorf("AnimationCount after completion = %d, want 0", c.AnimationCount())
	}
	_ = anim
}

func TestStartAnimationConflictReplacementCapturesMidflightValue(t *testing.T) {
	c := newTestContext(t)
	n := c.CreateNode(KindContainer)
	if _, err := c.StartAnimation(n, PropOpacity, math.Float32bits(1.0), 100, EaseLinear); err != nil {
		t.Fatal(err)
	}
	c.tickAnimations(50)
	midStyle, _ := c.EffectiveStyle(n)

	if _, err := c.StartAnimation(n, PropOpacity, math.Float32bits(0.0), 100, EaseLinear); err != nil {
		t.Fatal(err)
	}
	afterReplace, _ := c.EffectiveStyle(n)
	if math.Abs(afterReplace.Opacity-midStyle.Opacity) > 1e-6 {
		t.Errorf("replacement should start from the captured mid-flight value: got %v, want %v",
			afterReplace.Opacity, midStyle.Opacity)
	}
}

func TestCancelAnimationLeavesValueInPlace(t *testing.T) {
	c := newTestContext(t)
	n := c.CreateNode(KindContainer)
	anim, err := c.StartAnimation(n, PropOpacity, math.Float32bits(1.0), 100, EaseLinear)
	if err != nil {
		t.Fatal(err)
	}
	c.tickAnimations(30)
	before, _ := c.EffectiveStyle(n)

	if err := c.CancelAnimation(anim); err != nil {
		t.Fatal(err)
	}
	after, _ := c.EffectiveStyle(n)
	if before.Opacity != after.Opacity {
		t.Errorf("cancel should not change the last-written value: before %v, after %v", before.Opacity, after.Opacity)
	}
	if c.AnimationCount() != 0 {
		t.Errorf("AnimationCount after cancel = %d, want 0", c.AnimationCount())
	}
}

func TestCancelAnimationUnknownHandle(t *testing.T) {
	c := newTestContext(t)
	if err := c.CancelAnimation(Handle(999)); err == nil {
		t.Fatal("expected error cancelling an unknown animation")
	}
}

func TestChainAnimationActivatesOnCompletion(t *testing.T) {
	c := newTestContext(t)
	n := c.CreateNode(KindContainer)
	first, err := c.StartAnimation(n, PropOpacity, math.Float32bits(1.0), 10, EaseLinear)
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.StartAnimation(n, PropFgColor, uint32(RGB(255, 255, 255)), 10, EaseLinear)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.ChainAnimation(first, second); err != nil {
		t.Fatal(err)
	}

	a, _ := c.findAnim(second)
	if !a.pending {
		t.Fatal("chained successor should start pending")
	}

	c.tickAnimations(15)
	if _, i := c.findAnim(first); i >= 0 {
		t.Fatal("first animation should have completed and been removed")
	}
	a, _ = c.findAnim(second)
	if a == nil {
		t.Fatal("second animation should still exist")
	}
	if a.pending {
		t.Error("second animation should no longer be pending once released")
	}
}

func TestChoreoGroupReleasesMembersByStartTime(t *testing.T) {
	c := newTestContext(t)
	n := c.CreateNode(KindContainer)
	a1, err := c.StartAnimation(n, PropOpacity, math.Float32bits(1.0), 100, EaseLinear)
	if err != nil {
		t.Fatal(err)
	}
	a2, err := c.StartAnimation(n, PropPositionX, math.Float32bits(10.0), 100, EaseLinear)
	if err != nil {
		t.Fatal(err)
	}

	group := c.CreateChoreoGroup()
	if err := c.ChoreoAdd(group, a1, 0); err != nil {
		t.Fatal(err)
	}
	if err := c.ChoreoAdd(group, a2, 50); err != nil {
		t.Fatal(err)
	}
	if err := c.ChoreoStart(group); err != nil {
		t.Fatal(err)
	}

	rec1, _ := c.findAnim(a1)
	if rec1.pending {
		t.Fatal("member starting at 0 should release immediately on ChoreoStart")
	}
	rec2, _ := c.findAnim(a2)
	if !rec2.pending {
		t.Fatal("member starting at 50ms should still be pending right after start")
	}

	c.tickAnimations(60)
	rec2, _ = c.findAnim(a2)
	if rec2 == nil {
		t.Fatal("second member should still exist")
	}
	if rec2.pending {
		t.Error("member starting at 50ms should have released after 60ms elapsed")
	}
}

func TestStartSpinnerCyclesFrames(t *testing.T) {
	c := newTestContext(t)
	n := c.CreateNode(KindText)
	if _, err := c.StartSpinner(n, 10); err != nil {
		t.Fatal(err)
	}
	node, _ := c.get(n)
	first := node.content
	c.tickAnimations(10)
	if node.content == first {
		t.Error("expected spinner frame to advance after one interval")
	}
}

func TestStartPulseLoops(t *testing.T) {
	c := newTestContext(t)
	n := c.CreateNode(KindContainer)
	anim, err := c.StartPulse(n, 20, EaseLinear)
	if err != nil {
		t.Fatal(err)
	}
	c.tickAnimations(25)
	if c.AnimationCount() != 1 {
		t.Fatal("pulse animation should still exist after looping past its duration")
	}
	a, _ := c.findAnim(anim)
	if !a.looping {
		t.Error("pulse should be marked looping")
	}
}
