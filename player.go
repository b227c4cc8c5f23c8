package timeline

import "fmt"

// Player is a playback cursor over one field. It is a plain value scoped to a
// single playback or cache fill; copies are independent cursors over the
// same keyframes. The field must not be edited while a player reads it.
type Player struct {
	field *Field
	cur   *Keyframe
	time  int
	value float64
	done  bool

	suppressed bool
	hooks      actionHooks
}

// NewPlayer returns a player positioned at time 0. Actions reached during
// playback go to invoker, which may be nil.
func (f *Field) NewPlayer(invoker ActionInvoker) (Player, error) {
	if f.owner == nil {
		return Player{}, fmt.Errorf("timeline: player for %q: %w", f.name, ErrUnknownField)
	}
	if f.owner.dirty {
		return Player{}, fmt.Errorf("timeline: player for %q: %w", f.name, ErrNotNormalized)
	}
	p := Player{field: f, hooks: actionHooks{invoker: invoker}}
	p.Reset()
	return p, nil
}

// Time returns the current frame.
func (p *Player) Time() int { return p.time }

// Value returns the field value at the current frame.
func (p *Player) Value() float64 { return p.value }

// Done reports whether the cursor passed the last keyframe and holds its
// value from now on. A player whose last keyframe loops is never done.
func (p *Player) Done() bool { return p.done }

// Current returns the keyframe whose segment the cursor is in.
func (p *Player) Current() *Keyframe { return p.cur }

// SuppressActions stops the player from firing keyframe actions.
func (p *Player) SuppressActions(suppressed bool) { p.suppressed = suppressed }

// OnActionError sets a callback for actions that failed or could not be
// resolved.
func (p *Player) OnActionError(fn func(ActionEvent, error)) { p.hooks.onError = fn }

// Reset rewinds to time 0 and clears action suppression. It does not fire
// the time-0 action.
func (p *Player) Reset() {
	p.suppressed = false
	p.cur = p.field.keyframes[0]
	p.time = 0
	p.value = p.cur.value
	p.updateDone()
}

// Update advances the cursor one tick. After reaching a loop point the next
// tick continues from its jump target instead of the following frame.
// Reaching a keyframe fires its action.
func (p *Player) Update() {
	if p.done {
		return
	}
	cur := p.cur
	next := p.time + 1
	switch {
	case p.time == cur.time && cur.IsLoop():
		next = cur.jumpTarget
		p.cur = p.field.segmentAt(next)
	case cur.next != nil && next >= cur.next.time:
		p.cur = cur.next
	}
	p.time = next
	p.value = p.cur.sample(next)
	p.arrive()
}

// Goto seeks directly to t, resuming from keyframe resume, normally a
// label's resume pointer. resume must be a keyframe of the player's field
// whose segment reaches t; anything else means the label was not
// renormalized and panics.
func (p *Player) Goto(t int, resume *Keyframe) {
	if resume == nil || resume.field != p.field || resume.time > t ||
		(resume.next != nil && t > resume.next.time) {
		panic(fmt.Sprintf("timeline: invalid resume keyframe for time %d in %q", t, p.field.name))
	}
	p.cur = resume
	if resume.next != nil && t == resume.next.time {
		p.cur = resume.next
	}
	p.time = t
	p.value = p.cur.sample(t)
	p.arrive()
}

// arrive fires the action of a keyframe the cursor landed on and refreshes
// the done state.
func (p *Player) arrive() {
	p.fireCurrent()
	p.updateDone()
}

// fireCurrent fires the action of the keyframe at the current frame, used by
// animators when playback starts at time 0.
func (p *Player) fireCurrent() {
	if p.time == p.cur.time && !p.suppressed {
		p.hooks.fire(p.field.name, p.cur)
	}
}

func (p *Player) updateDone() {
	c := p.cur
	p.done = c.next == nil && p.time >= c.time && !(p.time == c.time && c.IsLoop())
}
