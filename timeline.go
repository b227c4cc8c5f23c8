package timeline

import (
	"errors"
	"fmt"
	"sort"
)

// Mode selects how the segment starting at a keyframe interpolates toward the
// next keyframe.
type Mode uint8

const (
	ModeSmooth    Mode = iota // eased in/out between the two values
	ModeLinear                // straight line between the two values
	ModeDiscrete              // holds the start value, steps at the next keyframe
	ModeJumpFloor             // falls into the next value and bounces off it
	ModeJumpRoof              // rises into the next value and bounces off it
	modeCount
)

var modeNames = [modeCount]string{"SMOOTH", "LINEAR", "DISCRETE", "JUMP_FLOOR", "JUMP_ROOF"}

func (m Mode) String() string {
	if m < modeCount {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// Valid reports whether m is one of the defined modes.
func (m Mode) Valid() bool { return m < modeCount }

// IsJump reports whether m is ModeJumpFloor or ModeJumpRoof.
func (m Mode) IsJump() bool { return m == ModeJumpFloor || m == ModeJumpRoof }

const (
	// DefaultGravity and DefaultBounce are assigned to jump keyframes that
	// lack explicit coefficients.
	DefaultGravity = 0.5
	DefaultBounce  = 0.5

	// MaxJumpParam is the inclusive upper bound for gravity and bounce.
	MaxJumpParam = 10.0

	// JumpParamsMinTime is the first frame at which keyframes keep their
	// gravity and bounce coefficients. Earlier keyframes have them stripped.
	JumpParamsMinTime = 3

	// MaxCacheIterations bounds a single value cache fill.
	MaxCacheIterations = 100000
)

var (
	ErrOriginKeyframe  = errors.New("keyframe at time 0 cannot be deleted or moved")
	ErrTimeOccupied    = errors.New("a keyframe already exists at that time")
	ErrDuplicateField  = errors.New("field name already in use")
	ErrDuplicateLabel  = errors.New("label name already in use")
	ErrUnknownField    = errors.New("unknown field")
	ErrUnknownLabel    = errors.New("unknown label")
	ErrForeignKeyframe = errors.New("keyframe does not belong to this field")
	ErrModeNotAllowed  = errors.New("mode not allowed for this field")
	ErrOutOfRange      = errors.New("value out of range")
	ErrRunning         = errors.New("timeline is being played")
	ErrNotNormalized   = errors.New("timeline was edited and not renormalized")
	ErrUnresolved      = errors.New("action target not found")
)

// RunawayError reports a value cache fill that exceeded MaxCacheIterations,
// which means the field's jump targets form a cycle that never reaches the
// last keyframe.
type RunawayError struct {
	Field      string
	Iterations int
}

func (e *RunawayError) Error() string {
	return fmt.Sprintf("timeline: value cache for field %q looped and failed after %d iterations", e.Field, e.Iterations)
}

// Keyframe is one control point of a field's curve. Its properties are read
// through accessors and changed only through the owning Field's methods, so
// every edit is seen by the running check and the cache invalidation.
type Keyframe struct {
	time       int
	value      float64
	mode       Mode
	jumpTarget int
	gravity    *float64
	bounce     *float64
	action     string

	field *Field
	next  *Keyframe
}

// Time returns the frame index of the keyframe.
func (k *Keyframe) Time() int { return k.time }

// Value returns the value the field has at Time.
func (k *Keyframe) Value() float64 { return k.value }

// Mode returns the interpolation mode of the segment starting at k.
func (k *Keyframe) Mode() Mode { return k.mode }

// JumpTarget returns the frame playback continues from after reaching k.
// It equals Time for keyframes that are not loop points.
func (k *Keyframe) JumpTarget() int { return k.jumpTarget }

// IsLoop reports whether reaching k makes playback continue from JumpTarget.
func (k *Keyframe) IsLoop() bool { return k.jumpTarget != k.time }

// Action returns the action path fired when playback reaches k.
func (k *Keyframe) Action() string { return k.action }

// Gravity returns the gravity coefficient and whether it is set.
func (k *Keyframe) Gravity() (float64, bool) {
	if k.gravity == nil {
		return 0, false
	}
	return *k.gravity, true
}

// Bounce returns the bounce coefficient and whether it is set.
func (k *Keyframe) Bounce() (float64, bool) {
	if k.bounce == nil {
		return 0, false
	}
	return *k.bounce, true
}

// Next returns the following keyframe of the same field, or nil for the last
// one. Valid only after Timeline.Renormalize.
func (k *Keyframe) Next() *Keyframe { return k.next }

// Field returns the field k belongs to, or nil once k was deleted.
func (k *Keyframe) Field() *Field { return k.field }

func (k *Keyframe) gravityOrDefault() float64 {
	if k.gravity == nil {
		return DefaultGravity
	}
	return *k.gravity
}

func (k *Keyframe) bounceOrDefault() float64 {
	if k.bounce == nil {
		return DefaultBounce
	}
	return *k.bounce
}

// Timeline owns the animation fields and labels of one animated object.
// It is not safe for concurrent mutation. Every edit must be followed by
// Renormalize before players, animators or caches read it again.
type Timeline struct {
	fields []*Field
	labels map[string]*Label

	running int
	dirty   bool
	debug   bool
}

// New creates an empty timeline.
func New() *Timeline {
	return &Timeline{labels: make(map[string]*Label)}
}

// SetDebug enables stderr diagnostics for renormalize and cache fills, and
// panics on use of a stopped animator.
func (tl *Timeline) SetDebug(enabled bool) {
	tl.debug = enabled
}

// Running reports whether an Animator is currently playing the timeline.
func (tl *Timeline) Running() bool { return tl.running > 0 }

// Normalized reports whether no edit happened since the last Renormalize.
func (tl *Timeline) Normalized() bool { return !tl.dirty }

// Fields returns the fields in track order. The slice must not be modified.
func (tl *Timeline) Fields() []*Field { return tl.fields }

// Field returns the field with the given name, or nil.
func (tl *Timeline) Field(name string) *Field {
	for _, f := range tl.fields {
		if f.name == name {
			return f
		}
	}
	return nil
}

// AddField creates a track for the named property with a time-0 keyframe
// holding initial. The keyframe mode is DefaultModeFor(name).
func (tl *Timeline) AddField(name string, initial float64) (*Field, error) {
	return tl.addField(name, initial, false)
}

// AddDiscreteField creates a track for a non-numeric property. Only
// ModeDiscrete keyframes are allowed on it.
func (tl *Timeline) AddDiscreteField(name string, initial float64) (*Field, error) {
	return tl.addField(name, initial, true)
}

func (tl *Timeline) addField(name string, initial float64, discreteOnly bool) (*Field, error) {
	if err := tl.checkEditable(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("timeline: add field: empty name: %w", ErrOutOfRange)
	}
	if tl.Field(name) != nil {
		return nil, fmt.Errorf("timeline: add field %q: %w", name, ErrDuplicateField)
	}
	f := &Field{name: name, owner: tl, discreteOnly: discreteOnly}
	mode := DefaultModeFor(name)
	if discreteOnly {
		mode = ModeDiscrete
	}
	f.keyframes = []*Keyframe{{value: initial, mode: mode, field: f}}
	tl.fields = append(tl.fields, f)
	tl.touch(f)
	// Labels hold one resume pointer per field.
	tl.dirty = true
	return f, nil
}

// RemoveField deletes the named track. Label resume pointers are realigned
// by the next Renormalize.
func (tl *Timeline) RemoveField(name string) error {
	if err := tl.checkEditable(); err != nil {
		return err
	}
	for i, f := range tl.fields {
		if f.name != name {
			continue
		}
		tl.fields = append(tl.fields[:i], tl.fields[i+1:]...)
		f.owner = nil
		f.cache = nil
		tl.dirty = true
		return nil
	}
	return fmt.Errorf("timeline: remove field %q: %w", name, ErrUnknownField)
}

func (tl *Timeline) fieldIndex(f *Field) int {
	for i, other := range tl.fields {
		if other == f {
			return i
		}
	}
	return -1
}

// Labels returns every label ordered by time, then name.
func (tl *Timeline) Labels() []*Label {
	out := make([]*Label, 0, len(tl.labels))
	for _, l := range tl.labels {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].time != out[j].time {
			return out[i].time < out[j].time
		}
		return out[i].name < out[j].name
	})
	return out
}

// Label returns the named label, or nil.
func (tl *Timeline) Label(name string) *Label {
	return tl.labels[name]
}

func (tl *Timeline) checkEditable() error {
	if tl.running > 0 {
		return fmt.Errorf("timeline: edit rejected: %w", ErrRunning)
	}
	return nil
}

// touch records an edit of f: its cache becomes stale immediately and the
// timeline needs a Renormalize pass.
func (tl *Timeline) touch(f *Field) {
	f.version++
	f.dirty = true
	tl.dirty = true
}

// touchAll invalidates every field. Label edits change which instants the
// caches sample, so they touch all tracks.
func (tl *Timeline) touchAll() {
	for _, f := range tl.fields {
		tl.touch(f)
	}
	tl.dirty = true
}

// DefaultModeFor returns the keyframe mode a new track for the named property
// starts with.
func DefaultModeFor(property string) Mode {
	switch property {
	case "alpha", "tintR", "tintG", "tintB":
		return ModeLinear
	default:
		return ModeSmooth
	}
}
