package timeline

import "fmt"

// Label is a named instant shared by all fields of a timeline. It carries one
// resume pointer per field so playback can seek to it without scanning.
type Label struct {
	name string
	time int

	// resume is index-aligned with Timeline.fields.
	resume []*Keyframe
}

// Name returns the label name.
func (l *Label) Name() string { return l.name }

// Time returns the frame the label marks.
func (l *Label) Time() int { return l.time }

// Resume returns the keyframe field f resumes from when playback jumps to
// the label, or nil if f is not part of the label's timeline.
func (l *Label) Resume(f *Field) *Keyframe {
	if f.owner == nil {
		return nil
	}
	i := f.owner.fieldIndex(f)
	if i < 0 || i >= len(l.resume) || l.resume[i].field != f {
		return nil
	}
	return l.resume[i]
}

// AddLabel creates a label at time t.
func (tl *Timeline) AddLabel(name string, t int) (*Label, error) {
	if err := tl.checkEditable(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("timeline: add label: empty name: %w", ErrOutOfRange)
	}
	if t < 0 {
		return nil, fmt.Errorf("timeline: add label %q at %d: %w", name, t, ErrOutOfRange)
	}
	if _, ok := tl.labels[name]; ok {
		return nil, fmt.Errorf("timeline: add label %q: %w", name, ErrDuplicateLabel)
	}
	l := &Label{name: name, time: t}
	tl.labels[name] = l
	tl.touchAll()
	return l, nil
}

// RenameLabel changes a label's name. Renaming onto an existing name is
// rejected.
func (tl *Timeline) RenameLabel(name, newName string) error {
	if err := tl.checkEditable(); err != nil {
		return err
	}
	l, ok := tl.labels[name]
	if !ok {
		return fmt.Errorf("timeline: rename label %q: %w", name, ErrUnknownLabel)
	}
	if name == newName {
		return nil
	}
	if newName == "" {
		return fmt.Errorf("timeline: rename label %q: empty name: %w", name, ErrOutOfRange)
	}
	if _, ok := tl.labels[newName]; ok {
		return fmt.Errorf("timeline: rename label %q to %q: %w", name, newName, ErrDuplicateLabel)
	}
	delete(tl.labels, name)
	l.name = newName
	tl.labels[newName] = l
	tl.dirty = true
	return nil
}

// MoveLabel changes the time a label marks.
func (tl *Timeline) MoveLabel(name string, t int) error {
	if err := tl.checkEditable(); err != nil {
		return err
	}
	l, ok := tl.labels[name]
	if !ok {
		return fmt.Errorf("timeline: move label %q: %w", name, ErrUnknownLabel)
	}
	if t < 0 {
		return fmt.Errorf("timeline: move label %q to %d: %w", name, t, ErrOutOfRange)
	}
	if l.time == t {
		return nil
	}
	l.time = t
	tl.touchAll()
	return nil
}

// DeleteLabel removes a label.
func (tl *Timeline) DeleteLabel(name string) error {
	if err := tl.checkEditable(); err != nil {
		return err
	}
	if _, ok := tl.labels[name]; !ok {
		return fmt.Errorf("timeline: delete label %q: %w", name, ErrUnknownLabel)
	}
	delete(tl.labels, name)
	tl.touchAll()
	return nil
}
