package timeline

import (
	"fmt"
	"log"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// AnimatorConfig holds optional Animator settings.
type AnimatorConfig struct {
	// Actions receives keyframe actions. Nil disables them.
	Actions ActionInvoker
	// OnActionError is called after a failed action has been logged.
	OnActionError func(ActionEvent, error)
}

// Animator plays a whole timeline on one object: one player per field, each
// writing into a bound float64 property. Call Update once per tick. While an
// animator is live its timeline rejects edits; call Stop to release it.
type Animator struct {
	timeline *Timeline
	players  []Player
	targets  []*float64

	blend     *gween.Tween
	blendFrom []float64

	stopped bool
	Done    bool
}

// NewAnimator starts playback of tl at time 0. props maps field names to the
// properties they drive; fields without a property still play, so their
// actions fire, and a warning is logged.
func NewAnimator(tl *Timeline, props map[string]*float64, cfg AnimatorConfig) (*Animator, error) {
	if tl.dirty {
		return nil, fmt.Errorf("timeline: animator: %w", ErrNotNormalized)
	}
	a := &Animator{
		timeline:  tl,
		players:   make([]Player, len(tl.fields)),
		targets:   make([]*float64, len(tl.fields)),
		blendFrom: make([]float64, len(tl.fields)),
	}
	for i, f := range tl.fields {
		p, err := f.NewPlayer(cfg.Actions)
		if err != nil {
			return nil, err
		}
		p.OnActionError(cfg.OnActionError)
		a.players[i] = p
		a.targets[i] = props[f.name]
		if a.targets[i] == nil {
			log.Printf("timeline: no property bound for animated field %q", f.name)
		}
	}
	tl.running++
	for i := range a.players {
		a.players[i].fireCurrent()
	}
	a.apply(0)
	return a, nil
}

// Update advances every field one tick, writes the values to the bound
// properties and fires reached actions. It is a no-op once Done or stopped.
func (a *Animator) Update() {
	if a.timeline.debug {
		debugCheckStopped(a, "Update")
	}
	if a.Done || a.stopped {
		return
	}
	allDone := true
	for i := range a.players {
		a.players[i].Update()
		if !a.players[i].done {
			allDone = false
		}
	}
	a.apply(1)
	a.Done = allDone && a.blend == nil
}

// GotoLabel seeks every field to the named label using its resume pointers.
func (a *Animator) GotoLabel(name string) error {
	if err := a.seek(name); err != nil {
		return err
	}
	a.blend = nil
	a.apply(0)
	return nil
}

// GotoLabelBlend seeks to the named label and eases the bound properties
// from their current values into the label's animation over frames ticks.
func (a *Animator) GotoLabelBlend(name string, frames int, fn ease.TweenFunc) error {
	if frames <= 0 {
		return a.GotoLabel(name)
	}
	for i := range a.players {
		a.blendFrom[i] = a.output(i)
	}
	if err := a.seek(name); err != nil {
		return err
	}
	a.blend = gween.New(0, 1, float32(frames), fn)
	a.apply(0)
	return nil
}

func (a *Animator) seek(name string) error {
	if a.stopped {
		return fmt.Errorf("timeline: goto %q: animator stopped", name)
	}
	l := a.timeline.labels[name]
	if l == nil {
		return fmt.Errorf("timeline: goto %q: %w", name, ErrUnknownLabel)
	}
	for i := range a.players {
		a.players[i].Goto(l.time, l.resume[i])
	}
	a.Done = false
	return nil
}

// Value returns the current value of the named field.
func (a *Animator) Value(field string) (float64, bool) {
	for i := range a.players {
		if a.players[i].field.name == field {
			return a.output(i), true
		}
	}
	return 0, false
}

// Time returns the current frame of the named field.
func (a *Animator) Time(field string) (int, bool) {
	for i := range a.players {
		if a.players[i].field.name == field {
			return a.players[i].time, true
		}
	}
	return 0, false
}

// Stop ends playback and makes the timeline editable again. Further updates
// are ignored.
func (a *Animator) Stop() {
	if a.stopped {
		return
	}
	a.stopped = true
	a.timeline.running--
}

// Stopped reports whether Stop was called.
func (a *Animator) Stopped() bool { return a.stopped }

// apply writes player values, blended while a label blend is in progress.
// step advances the blend by that many ticks; seeks apply with 0 so the
// first blend frame shows on the next Update.
func (a *Animator) apply(step float32) {
	weight := 1.0
	if a.blend != nil {
		w, finished := a.blend.Update(step)
		weight = float64(w)
		if finished {
			a.blend = nil
			weight = 1
		}
	}
	for i, p := range a.players {
		v := p.value
		if weight < 1 {
			v = a.blendFrom[i] + (v-a.blendFrom[i])*weight
		}
		if a.targets[i] != nil {
			*a.targets[i] = v
		}
	}
}

func (a *Animator) output(i int) float64 {
	if a.targets[i] != nil {
		return *a.targets[i]
	}
	return a.players[i].value
}
