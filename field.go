package timeline

import (
	"fmt"
	"sort"
)

// Field is the keyframe track of one animated property. Keyframes are kept in
// ascending, unique time order and the first one is always at time 0.
type Field struct {
	name         string
	keyframes    []*Keyframe
	discreteOnly bool
	owner        *Timeline

	// version is bumped by every edit; a cache built for an older version is
	// stale.
	version uint64
	dirty   bool
	cache   *ValueCache
}

// Name returns the animated property name.
func (f *Field) Name() string { return f.name }

// DiscreteOnly reports whether the field only accepts ModeDiscrete keyframes.
func (f *Field) DiscreteOnly() bool { return f.discreteOnly }

// Version returns the edit counter of the field.
func (f *Field) Version() uint64 { return f.version }

// Keyframes returns the keyframes in time order. The slice must not be
// modified.
func (f *Field) Keyframes() []*Keyframe { return f.keyframes }

// First returns the time-0 keyframe.
func (f *Field) First() *Keyframe { return f.keyframes[0] }

// Last returns the keyframe with the greatest time.
func (f *Field) Last() *Keyframe { return f.keyframes[len(f.keyframes)-1] }

// KeyframeAt returns the keyframe at exactly time t, or nil. The lookups
// below assume the order Renormalize restores.
func (f *Field) KeyframeAt(t int) *Keyframe {
	i := sort.Search(len(f.keyframes), func(i int) bool { return f.keyframes[i].time >= t })
	if i < len(f.keyframes) && f.keyframes[i].time == t {
		return f.keyframes[i]
	}
	return nil
}

// KeyframeBefore returns the last keyframe strictly earlier than t, or nil.
func (f *Field) KeyframeBefore(t int) *Keyframe {
	i := sort.Search(len(f.keyframes), func(i int) bool { return f.keyframes[i].time >= t })
	if i == 0 {
		return nil
	}
	return f.keyframes[i-1]
}

// KeyframeAfter returns the first keyframe strictly later than t, or nil.
func (f *Field) KeyframeAfter(t int) *Keyframe {
	i := sort.Search(len(f.keyframes), func(i int) bool { return f.keyframes[i].time > t })
	if i == len(f.keyframes) {
		return nil
	}
	return f.keyframes[i]
}

// segmentAt returns the keyframe whose segment contains t: the last keyframe
// with time <= t. A miss means the time-0 anchor is gone, which no edit can
// cause, so it panics.
func (f *Field) segmentAt(t int) *Keyframe {
	i := sort.Search(len(f.keyframes), func(i int) bool { return f.keyframes[i].time > t })
	if i == 0 {
		panic(fmt.Sprintf("timeline: field %q has no keyframe enclosing time %d", f.name, t))
	}
	return f.keyframes[i-1]
}

// Evaluate returns the interpolated value at t following keyframe order only,
// without jumps. It is the same function players use inside a segment.
func (f *Field) Evaluate(t int) float64 {
	if t < 0 {
		t = 0
	}
	return f.segmentAt(t).sample(t)
}

// Insert adds a keyframe at t holding value. Its jump target equals t.
func (f *Field) Insert(t int, value float64, mode Mode) (*Keyframe, error) {
	if err := f.checkEditable(); err != nil {
		return nil, err
	}
	if t < 0 {
		return nil, fmt.Errorf("timeline: insert keyframe at %d in %q: negative time: %w", t, f.name, ErrOutOfRange)
	}
	if err := f.checkMode(mode); err != nil {
		return nil, err
	}
	if f.findTime(t) != nil {
		return nil, fmt.Errorf("timeline: insert keyframe at %d in %q: %w", t, f.name, ErrTimeOccupied)
	}
	k := &Keyframe{time: t, value: value, mode: mode, jumpTarget: t, field: f}
	f.keyframes = append(f.keyframes, k)
	f.owner.touch(f)
	return k, nil
}

// Delete removes k. The time-0 keyframe anchors the field and cannot be
// deleted; the field is left unchanged in that case.
func (f *Field) Delete(k *Keyframe) error {
	if err := f.checkEditable(); err != nil {
		return err
	}
	i := f.indexOf(k)
	if i < 0 {
		return fmt.Errorf("timeline: delete keyframe in %q: %w", f.name, ErrForeignKeyframe)
	}
	if k.time == 0 {
		return fmt.Errorf("timeline: delete keyframe in %q: %w", f.name, ErrOriginKeyframe)
	}
	f.keyframes = append(f.keyframes[:i], f.keyframes[i+1:]...)
	k.field = nil
	k.next = nil
	f.owner.touch(f)
	return nil
}

// Move changes the time of k. A keyframe that was not a loop point stays one
// that is not: its jump target follows the new time.
func (f *Field) Move(k *Keyframe, t int) error {
	if err := f.checkEditable(); err != nil {
		return err
	}
	if f.indexOf(k) < 0 {
		return fmt.Errorf("timeline: move keyframe in %q: %w", f.name, ErrForeignKeyframe)
	}
	if k.time == t {
		return nil
	}
	if k.time == 0 {
		return fmt.Errorf("timeline: move keyframe in %q: %w", f.name, ErrOriginKeyframe)
	}
	if t < 0 {
		return fmt.Errorf("timeline: move keyframe in %q to %d: %w", f.name, t, ErrOutOfRange)
	}
	if f.findTime(t) != nil {
		return fmt.Errorf("timeline: move keyframe in %q to %d: %w", f.name, t, ErrTimeOccupied)
	}
	if k.jumpTarget == k.time {
		k.jumpTarget = t
	}
	k.time = t
	f.owner.touch(f)
	return nil
}

// SetValue changes the value held at k.
func (f *Field) SetValue(k *Keyframe, v float64) error {
	if err := f.checkOwned(k, "set value"); err != nil {
		return err
	}
	k.value = v
	f.owner.touch(f)
	return nil
}

// SetMode changes the interpolation mode of the segment starting at k.
func (f *Field) SetMode(k *Keyframe, m Mode) error {
	if err := f.checkOwned(k, "set mode"); err != nil {
		return err
	}
	if err := f.checkMode(m); err != nil {
		return err
	}
	k.mode = m
	f.owner.touch(f)
	return nil
}

// CycleMode switches k to the next mode allowed on the field, wrapping
// around, and returns it.
func (f *Field) CycleMode(k *Keyframe) (Mode, error) {
	if err := f.checkOwned(k, "cycle mode"); err != nil {
		return k.mode, err
	}
	allowed := f.AllowedModes()
	next := allowed[0]
	for i, m := range allowed {
		if m == k.mode {
			next = allowed[(i+1)%len(allowed)]
			break
		}
	}
	k.mode = next
	f.owner.touch(f)
	return next, nil
}

// SetAction sets the action path fired when playback reaches k. An empty
// path clears it.
func (f *Field) SetAction(k *Keyframe, path string) error {
	if err := f.checkOwned(k, "set action"); err != nil {
		return err
	}
	k.action = path
	f.owner.touch(f)
	return nil
}

// SetJumpTarget makes k a loop point continuing from t, or clears the loop
// when t equals k's time. Targets may point backward or forward.
func (f *Field) SetJumpTarget(k *Keyframe, t int) error {
	if err := f.checkOwned(k, "set jump target"); err != nil {
		return err
	}
	if t < 0 {
		return fmt.Errorf("timeline: set jump target %d in %q: %w", t, f.name, ErrOutOfRange)
	}
	k.jumpTarget = t
	f.owner.touch(f)
	return nil
}

// SetGravity sets the gravity coefficient of a jump segment. It must be in
// (0, MaxJumpParam].
func (f *Field) SetGravity(k *Keyframe, g float64) error {
	if err := f.checkOwned(k, "set gravity"); err != nil {
		return err
	}
	if !validJumpParam(g) {
		return fmt.Errorf("timeline: gravity %v in %q: %w", g, f.name, ErrOutOfRange)
	}
	k.gravity = &g
	f.owner.touch(f)
	return nil
}

// SetBounce sets the velocity retention of a jump segment. It must be in
// (0, MaxJumpParam].
func (f *Field) SetBounce(k *Keyframe, b float64) error {
	if err := f.checkOwned(k, "set bounce"); err != nil {
		return err
	}
	if !validJumpParam(b) {
		return fmt.Errorf("timeline: bounce %v in %q: %w", b, f.name, ErrOutOfRange)
	}
	k.bounce = &b
	f.owner.touch(f)
	return nil
}

// AllowedModes lists the modes keyframes of f may use, in cycling order.
func (f *Field) AllowedModes() []Mode {
	if f.discreteOnly {
		return []Mode{ModeDiscrete}
	}
	return []Mode{ModeSmooth, ModeLinear, ModeDiscrete, ModeJumpFloor, ModeJumpRoof}
}

func validJumpParam(v float64) bool {
	return v > 0 && v <= MaxJumpParam
}

func (f *Field) checkEditable() error {
	if f.owner == nil {
		return fmt.Errorf("timeline: field %q: %w", f.name, ErrUnknownField)
	}
	return f.owner.checkEditable()
}

func (f *Field) checkOwned(k *Keyframe, op string) error {
	if err := f.checkEditable(); err != nil {
		return err
	}
	if k == nil || k.field != f {
		return fmt.Errorf("timeline: %s in %q: %w", op, f.name, ErrForeignKeyframe)
	}
	return nil
}

func (f *Field) checkMode(m Mode) error {
	if !m.Valid() {
		return fmt.Errorf("timeline: field %q: mode %d: %w", f.name, uint8(m), ErrOutOfRange)
	}
	if f.discreteOnly && m != ModeDiscrete {
		return fmt.Errorf("timeline: field %q: %v: %w", f.name, m, ErrModeNotAllowed)
	}
	return nil
}

// findTime scans linearly since keyframes may be out of order between an
// edit and the next Renormalize.
func (f *Field) findTime(t int) *Keyframe {
	for _, k := range f.keyframes {
		if k.time == t {
			return k
		}
	}
	return nil
}

func (f *Field) indexOf(k *Keyframe) int {
	for i, other := range f.keyframes {
		if other == k {
			return i
		}
	}
	return -1
}
