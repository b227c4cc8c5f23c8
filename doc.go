// Package timeline is a keyframe property animation engine for games and
// their editors.
//
// A [Timeline] belongs to one animated object. It holds a [Field] per
// animated property, each an ordered track of [Keyframe] values, and named
// [Label] instants shared by all fields. The same data drives the running
// game, through [Animator], and editor previews, through [ValueCache].
//
// # Editing
//
// Edits go through Field and Timeline methods and are batched: call
// [Timeline.Renormalize] once after a burst of edits to restore keyframe
// order, next pointers, jump coefficients and label resume pointers.
// Players, animators and caches refuse to read a timeline with pending
// edits.
//
//	tl := timeline.New()
//	x, _ := tl.AddField("x", 0)
//	x.Insert(30, 200, timeline.ModeLinear)
//	tl.AddLabel("idle", 30)
//	tl.Renormalize()
//
// [EditSession] keeps an editor's selection and drag state and renormalizes
// after each gesture.
//
// # Playback
//
// [Animator] plays every field of a timeline one tick per Update and writes
// values into bound float64 properties:
//
//	a, err := timeline.NewAnimator(tl, map[string]*float64{"x": &sprite.X}, timeline.AnimatorConfig{})
//	// each tick:
//	a.Update()
//
// Keyframes with a jump target loop playback back (or skip it ahead).
// Keyframe actions are handed to an [ActionInvoker]; failures are logged and
// playback continues. The timeline rejects edits while an animator is live,
// until [Animator.Stop].
//
// # Interpolation
//
// Each segment interpolates by the mode of its starting keyframe: SMOOTH
// (sine ease in/out via [gween]), LINEAR, DISCRETE, and JUMP_FLOOR/JUMP_ROOF,
// a damped bounce into the next value shaped by gravity and bounce.
//
// # Previews
//
// [Field.Cache] runs playback once with actions suppressed, records every
// frame, including frames only reachable by jumping to a label, and exposes
// min and max for chart scaling.
//
// Timelines persist as JSON or YAML through the standard marshalers.
//
// [gween]: https://github.com/tanema/gween
package timeline
