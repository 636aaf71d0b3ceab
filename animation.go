package kraken

import "math"

// animation.go is the property-animation engine: interpolation, easing,
// conflict replacement, spinner/progress/pulse primitives, chaining and
// choreography groups. Elapsed wall-clock time comes from Render, which
// passes the time since the previous Render call to tickAnimations.

// Property enumerates the animatable node properties.
type Property uint8

const (
	PropOpacity Property = iota
	PropFgColor
	PropBgColor
	PropBorderColor
	PropPositionX
	PropPositionY
)

// Easing is a normalized interpolation curve: ease(0)=0, ease(1)=1.
type Easing uint8

const (
	EaseLinear Easing = iota
	EaseIn
	EaseOut
	EaseInOut
	EaseCubicIn
	EaseCubicOut
	EaseElastic
	EaseBounce
)

// ease evaluates the named easing function at t ∈ [0, 1]. Every curve
// satisfies ease(0)=0 and ease(1)=1 within tolerance.
func ease(fn Easing, t float64) float64 {
	switch fn {
	case EaseIn:
		return t * t
	case EaseOut:
		return 1 - (1-t)*(1-t)
	case EaseInOut:
		if t < 0.5 {
			return 2 * t * t
		}
		return 1 - math.Pow(-2*t+2, 2)/2
	case EaseCubicIn:
		return t * t * t
	case EaseCubicOut:
		return 1 - math.Pow(1-t, 3)
	case EaseElastic:
		return easeElastic(t)
	case EaseBounce:
		return easeBounce(t)
	default:
		return t
	}
}

func easeElastic(t float64) float64 {
	if t == 0 || t == 1 {
		return t
	}
	const c4 = 2 * math.Pi / 3
	return math.Pow(2, -10*t)*math.Sin((t*10-0.75)*c4) + 1
}

func easeBounce(t float64) float64 {
	const n1, d1 = 7.5625, 2.75
	u := 1 - t
	var r float64
	switch {
	case u < 1/d1:
		r = n1 * u * u
	case u < 2/d1:
		u -= 1.5 / d1
		r = n1*u*u + 0.75
	case u < 2.5/d1:
		u -= 2.25 / d1
		r = n1*u*u + 0.9375
	default:
		u -= 2.625 / d1
		r = n1*u*u + 0.984375
	}
	return 1 - r
}

// spinnerFrames is the 10-frame braille spinner sequence.
var spinnerFrames = []rune{'⠋', '⠙', '⠹', '⠸', '⠼', '⠴', '⠦', '⠧', '⠇', '⠏'}

type spinnerState struct {
	intervalMS float64
	accumMS    float64
	frame      int
}

// animationRec is one entry in the flat animation registry.
type animationRec struct {
	handle   Handle
	target   Handle
	property Property

	startBits uint32
	endBits   uint32

	durationMS float64
	elapsedMS  float64
	easing     Easing
	looping    bool
	pending    bool

	spinner *spinnerState
}

func isSpinner(a *animationRec) bool { return a.spinner != nil }

// choreoMember is one animation's slot in a choreography group's timeline.
type choreoMember struct {
	anim      Handle
	startAtMS float64
	started   bool
}

// choreoGroupRec is an ordered set of animations sharing a timeline.
type choreoGroupRec struct {
	members []*choreoMember
	running bool
	elapsed float64
}

func (c *Context) findAnim(h Handle) (*animationRec, int) {
	for i, a := range c.animations {
		if a.handle == h {
			return a, i
		}
	}
	return nil, -1
}

func (c *Context) removeAnimAt(i int) {
	c.animations = append(c.animations[:i], c.animations[i+1:]...)
}

// currentPropertyBits reads a node's present value for an animatable
// property, encoded as the raw 32-bit representation used for
// interpolation and conflict-replacement capture.
func (c *Context) currentPropertyBits(n *node, prop Property) uint32 {
	switch prop {
	case PropOpacity:
		return math.Float32bits(float32(n.style.Opacity))
	case PropFgColor:
		return uint32(n.style.FG)
	case PropBgColor:
		return uint32(n.style.BG)
	case PropBorderColor:
		return uint32(n.style.BorderColor)
	case PropPositionX:
		return math.Float32bits(float32(n.renderOffX))
	case PropPositionY:
		return math.Float32bits(float32(n.renderOffY))
	default:
		return 0
	}
}

// interpolate computes the value at alpha ∈ [0,1] of elapsed/duration,
// after easing, between start and end, per property kind. Opacity and
// position interpolate as floats; colors interpolate per RGB channel when
// both endpoints are truecolor, otherwise snap.
func interpolate(prop Property, startBits, endBits uint32, alpha float64) uint32 {
	switch prop {
	case PropFgColor, PropBgColor, PropBorderColor:
		return lerpColorBits(startBits, endBits, alpha)
	default:
		return lerpFloatBits(startBits, endBits, alpha)
	}
}

func lerpFloatBits(startBits, endBits uint32, alpha float64) uint32 {
	s := float64(math.Float32frombits(startBits))
	e := float64(math.Float32frombits(endBits))
	v := s + (e-s)*alpha
	return math.Float32bits(float32(v))
}

func lerpColorBits(startBits, endBits uint32, alpha float64) uint32 {
	start := Color(startBits)
	end := Color(endBits)
	if start.Mode() != ColorModeTrueColor || end.Mode() != ColorModeTrueColor {
		if alpha < 1 {
			return startBits
		}
		return endBits
	}
	sr, sg, sb := start.RGB8()
	er, eg, eb := end.RGB8()
	lerp8 := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a) + (float64(b)-float64(a))*alpha))
	}
	return uint32(RGB(lerp8(sr, er), lerp8(sg, eg), lerp8(sb, eb)))
}

// evalCurrent returns an animation's currently-interpolated value bits at
// its present elapsed time, used by conflict replacement to capture a
// smooth hand-off.
func evalCurrent(a *animationRec) uint32 {
	if a.durationMS <= 0 {
		return a.endBits
	}
	alpha := clampFloat(a.elapsedMS/a.durationMS, 0, 1)
	return interpolate(a.property, a.startBits, a.endBits, ease(a.easing, alpha))
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// StartAnimation schedules a new animation on (target, property) from its
// current value to endBits over durationMS, using easing. If a non-spinner
// animation already targets the same (target, property), it is replaced:
// its currently-interpolated value becomes the new animation's start, and
// any chain entry or choreography membership referencing it is discarded.
func (c *Context) StartAnimation(target Handle, prop Property, endBits uint32, durationMS float64, easing Easing) (Handle, error) {
	n, err := c.get(target)
	if err != nil {
		return 0, err
	}

	var startBits uint32
	replaced := false
	for i, a := range c.animations {
		if a.target == target && a.property == prop && !isSpinner(a) {
			startBits = evalCurrent(a)
			replaced = true
			c.discardAnimLinks(a.handle)
			c.removeAnimAt(i)
			break
		}
	}
	if !replaced {
		startBits = c.currentPropertyBits(n, prop)
	}

	c.nextAnimHandle++
	h := c.nextAnimHandle
	c.animations = append(c.animations, &animationRec{
		handle: h, target: target, property: prop,
		startBits: startBits, endBits: endBits,
		durationMS: durationMS, easing: easing,
	})
	return h, nil
}

// discardAnimLinks removes any chain entry keyed on anim and prunes it
// from every choreography group.
func (c *Context) discardAnimLinks(anim Handle) {
	delete(c.chain, anim)
	for _, g := range c.choreoGroups {
		for i, m := range g.members {
			if m.anim == anim {
				g.members = append(g.members[:i], g.members[i+1:]...)
				break
			}
		}
	}
}

// StartSpinner creates a looping braille spinner on target's content,
// cycling frames every intervalMS (lower-bounded at 1ms), running until
// cancelled.
func (c *Context) StartSpinner(target Handle, intervalMS float64) (Handle, error) {
	if _, err := c.get(target); err != nil {
		return 0, err
	}
	if intervalMS < 1 {
		intervalMS = 1
	}
	c.nextAnimHandle++
	h := c.nextAnimHandle
	c.animations = append(c.animations, &animationRec{
		handle: h, target: target, property: PropOpacity,
		spinner: &spinnerState{intervalMS: intervalMS},
	})
	return h, nil
}

// StartProgress cancels any prior opacity animation on target, forces its
// opacity to 0, and schedules a 0→1 opacity animation.
func (c *Context) StartProgress(target Handle, durationMS float64, easing Easing) (Handle, error) {
	n, err := c.get(target)
	if err != nil {
		return 0, err
	}
	c.cancelPropertyFor(target, PropOpacity)
	n.style.Opacity = 0.0
	n.style.presence |= presenceOpacity
	c.markDirty(target)
	return c.StartAnimation(target, PropOpacity, math.Float32bits(1.0), durationMS, easing)
}

// StartPulse schedules a looping opacity animation from the current value
// to 0. Runs forever until cancelled.
func (c *Context) StartPulse(target Handle, durationMS float64, easing Easing) (Handle, error) {
	h, err := c.StartAnimation(target, PropOpacity, math.Float32bits(0.0), durationMS, easing)
	if err != nil {
		return 0, err
	}
	a, _ := c.findAnim(h)
	a.looping = true
	return h, nil
}

func (c *Context) cancelPropertyFor(target Handle, prop Property) {
	for i, a := range c.animations {
		if a.target == target && a.property == prop && !isSpinner(a) {
			c.discardAnimLinks(a.handle)
			c.removeAnimAt(i)
			return
		}
	}
}

// SetAnimationLooping marks an existing animation as looping.
func (c *Context) SetAnimationLooping(anim Handle) error {
	a, _ := c.findAnim(anim)
	if a == nil {
		return newErr("SetAnimationLooping", KindNotFound, "unknown animation %d", anim)
	}
	a.looping = true
	return nil
}

// ChainAnimation marks next as pending (waiting on after): its elapsed is
// reset to 0, and it activates when after completes one-shot. Cancelling
// or replacing after discards the chain entry without releasing next — it
// stays pending until explicitly cancelled. This is documented behavior,
// not a bug; see DESIGN.md.
func (c *Context) ChainAnimation(after, next Handle) error {
	if _, i := c.findAnim(after); i < 0 {
		return newErr("ChainAnimation", KindNotFound, "unknown animation %d", after)
	}
	nextA, _ := c.findAnim(next)
	if nextA == nil {
		return newErr("ChainAnimation", KindNotFound, "unknown animation %d", next)
	}
	nextA.pending = true
	nextA.elapsedMS = 0
	if c.chain == nil {
		c.chain = make(map[Handle]Handle)
	}
	c.chain[after] = next
	return nil
}

// CancelAnimation removes an animation from the registry, its chain entry,
// and any choreography membership. Cancellation does not mark the node
// dirty — the last written value stays.
func (c *Context) CancelAnimation(anim Handle) error {
	_, i := c.findAnim(anim)
	if i < 0 {
		return newErr("CancelAnimation", KindNotFound, "unknown animation %d", anim)
	}
	c.discardAnimLinks(anim)
	c.removeAnimAt(i)
	return nil
}

func (c *Context) cancelAnimationsForNode(h Handle) {
	kept := c.animations[:0]
	for _, a := range c.animations {
		if a.target == h {
			c.discardAnimLinks(a.handle)
			continue
		}
		kept = append(kept, a)
	}
	c.animations = kept
}

// CreateChoreoGroup allocates an empty, non-running choreography group.
func (c *Context) CreateChoreoGroup() Handle {
	c.nextGroupHandle++
	h := c.nextGroupHandle
	c.choreoGroups[h] = &choreoGroupRec{}
	return h
}

func (c *Context) getGroup(h Handle) (*choreoGroupRec, error) {
	g, ok := c.choreoGroups[h]
	if !ok {
		return nil, newErr("", KindNotFound, "unknown choreography group %d", h)
	}
	return g, nil
}

// ChoreoAdd adds anim to group's timeline at startAtMS, marking it pending
// until activated. Fails if the group is already running or anim is
// already a member.
func (c *Context) ChoreoAdd(group, anim Handle, startAtMS float64) error {
	g, err := c.getGroup(group)
	if err != nil {
		return err
	}
	if g.running {
		return newErr("ChoreoAdd", KindConstraintViolation, "group %d is running", group)
	}
	a, _ := c.findAnim(anim)
	if a == nil {
		return newErr("ChoreoAdd", KindNotFound, "unknown animation %d", anim)
	}
	for _, m := range g.members {
		if m.anim == anim {
			return newErr("ChoreoAdd", KindConstraintViolation, "animation %d is already a member", anim)
		}
	}
	a.pending = true
	a.elapsedMS = 0
	g.members = append(g.members, &choreoMember{anim: anim, startAtMS: startAtMS})
	sortMembers(g.members)
	return nil
}

func sortMembers(m []*choreoMember) {
	for i := 1; i < len(m); i++ {
		for j := i; j > 0 && m[j].startAtMS < m[j-1].startAtMS; j-- {
			m[j], m[j-1] = m[j-1], m[j]
		}
	}
}

// ChoreoStart begins a group's shared clock. Members whose start_at_ms is 0
// are released immediately.
func (c *Context) ChoreoStart(group Handle) error {
	g, err := c.getGroup(group)
	if err != nil {
		return err
	}
	g.running = true
	g.elapsed = 0
	for _, m := range g.members {
		m.started = false
		if m.startAtMS <= 0 {
			c.releaseMember(m, 0)
		}
	}
	return nil
}

func (c *Context) releaseMember(m *choreoMember, sliceMS float64) {
	m.started = true
	if a, _ := c.findAnim(m.anim); a != nil {
		a.pending = false
		if a.spinner == nil {
			a.elapsedMS = sliceMS
		}
	}
}

// ChoreoCancel cancels not-yet-started members and stops the group's clock;
// already-started members continue running independently.
func (c *Context) ChoreoCancel(group Handle) error {
	g, err := c.getGroup(group)
	if err != nil {
		return err
	}
	for _, m := range g.members {
		if !m.started {
			c.CancelAnimation(m.anim)
		}
	}
	g.running = false
	return nil
}

// DestroyChoreoGroup cancels pending members and removes the group.
func (c *Context) DestroyChoreoGroup(group Handle) error {
	g, err := c.getGroup(group)
	if err != nil {
		return err
	}
	for _, m := range g.members {
		if !m.started {
			c.CancelAnimation(m.anim)
		}
	}
	delete(c.choreoGroups, group)
	return nil
}

// tickChoreography advances every running group's clock, activating any
// member whose start time is crossed in this tick. The activated
// animation's elapsed is set to the partial slice past its start offset,
// so it doesn't lose a fraction of motion.
func (c *Context) tickChoreography(elapsedMS float64) {
	for _, g := range c.choreoGroups {
		if !g.running {
			continue
		}
		prevElapsed := g.elapsed
		g.elapsed += elapsedMS
		for _, m := range g.members {
			if m.started {
				continue
			}
			if g.elapsed >= m.startAtMS {
				slice := g.elapsed - m.startAtMS
				_ = prevElapsed
				c.releaseMember(m, slice)
			}
		}
	}
}

// applyAnimationValue writes an interpolated value to its target node,
// marking the node (and its ancestors) dirty, per the property's meaning:
// opacity is clamped, position writes render_offset, colors write through
// the corresponding presence bit.
func (c *Context) applyAnimationValue(a *animationRec, bits uint32) {
	n, ok := c.nodes[a.target]
	if !ok {
		return
	}
	switch a.property {
	case PropOpacity:
		n.style.Opacity = clampOpacity(float64(math.Float32frombits(bits)))
		n.style.presence |= presenceOpacity
	case PropFgColor:
		n.style.FG = Color(bits)
		n.style.presence |= presenceFG
	case PropBgColor:
		n.style.BG = Color(bits)
		n.style.presence |= presenceBG
	case PropBorderColor:
		n.style.BorderColor = Color(bits)
		n.style.presence |= presenceBorderColor
	case PropPositionX:
		n.renderOffX = float64(math.Float32frombits(bits))
	case PropPositionY:
		n.renderOffY = float64(math.Float32frombits(bits))
	}
	c.markDirty(a.target)
}

func (c *Context) tickSpinner(a *animationRec, elapsedMS float64) {
	n, ok := c.nodes[a.target]
	if !ok {
		return
	}
	sp := a.spinner
	sp.accumMS += elapsedMS
	for sp.accumMS >= sp.intervalMS {
		sp.accumMS -= sp.intervalMS
		sp.frame = (sp.frame + 1) % len(spinnerFrames)
	}
	n.content = string(spinnerFrames[sp.frame])
	c.markDirty(a.target)
}

// tickAnimations advances the animation engine by elapsedMS. Sub-
// millisecond deltas still advance; only elapsed <= 0 short-circuits,
// since there is no internal clock driving animation progress on its own.
func (c *Context) tickAnimations(elapsedMS float64) {
	if elapsedMS <= 0 {
		return
	}

	c.tickChoreography(elapsedMS)

	var completed []Handle
	for _, a := range c.animations {
		if a.pending {
			continue
		}
		if isSpinner(a) {
			c.tickSpinner(a, elapsedMS)
			continue
		}
		a.elapsedMS += elapsedMS
		if a.elapsedMS >= a.durationMS {
			if a.looping {
				if a.durationMS > 0 {
					a.elapsedMS -= a.durationMS
				} else {
					a.elapsedMS = 0
				}
				a.startBits, a.endBits = a.endBits, a.startBits
				alpha := 0.0
				if a.durationMS > 0 {
					alpha = clampFloat(a.elapsedMS/a.durationMS, 0, 1)
				}
				c.applyAnimationValue(a, interpolate(a.property, a.startBits, a.endBits, ease(a.easing, alpha)))
			} else {
				c.applyAnimationValue(a, a.endBits)
				completed = append(completed, a.handle)
			}
			continue
		}
		alpha := a.elapsedMS / a.durationMS
		c.applyAnimationValue(a, interpolate(a.property, a.startBits, a.endBits, ease(a.easing, alpha)))
	}

	for _, h := range completed {
		if next, ok := c.chain[h]; ok {
			if nextA, _ := c.findAnim(next); nextA != nil {
				nextA.pending = false
			}
			delete(c.chain, h)
		}
		if _, i := c.findAnim(h); i >= 0 {
			c.removeAnimAt(i)
		}
		for _, g := range c.choreoGroups {
			for i, m := range g.members {
				if m.anim == h {
					g.members = append(g.members[:i], g.members[i+1:]...)
					break
				}
			}
		}
	}
	c.pruneEmptyChoreoGroups()
}

func (c *Context) pruneEmptyChoreoGroups() {
	for h, g := range c.choreoGroups {
		if g.running && len(g.members) == 0 {
			delete(c.choreoGroups, h)
		}
	}
}

// AnimationCount returns the number of live animations, for the
// animation_count performance counter.
func (c *Context) AnimationCount() int { return len(c.animations) }
