package timeline

import "fmt"

// EditSession holds the editor-side state of one editing session over a
// timeline: the selected keyframe and the keyframe being dragged. Each
// session owns its own state, so several editors can work on separate
// timelines side by side.
type EditSession struct {
	timeline *Timeline
	selected *Keyframe
	dragging *Keyframe
}

// NewEditSession starts a session on tl.
func NewEditSession(tl *Timeline) *EditSession {
	return &EditSession{timeline: tl}
}

// Timeline returns the edited timeline.
func (s *EditSession) Timeline() *Timeline { return s.timeline }

// Selected returns the selected keyframe, or nil.
func (s *EditSession) Selected() *Keyframe {
	if s.selected != nil && s.selected.field == nil {
		s.selected = nil
	}
	return s.selected
}

// Select makes k the selected keyframe and reports whether it already was.
// A nil k clears the selection.
func (s *EditSession) Select(k *Keyframe) bool {
	if k != nil && s.selected == k {
		return true
	}
	s.selected = k
	return false
}

// Click applies the editor's click gesture: the first click selects k, a
// click on the already selected keyframe cycles its mode.
func (s *EditSession) Click(k *Keyframe) error {
	if k == nil || k.field == nil {
		return fmt.Errorf("timeline: click: %w", ErrForeignKeyframe)
	}
	if !s.Select(k) {
		return nil
	}
	if _, err := k.field.CycleMode(k); err != nil {
		return err
	}
	s.timeline.Renormalize()
	return nil
}

// BeginDrag starts dragging k. The time-0 keyframe cannot be dragged.
func (s *EditSession) BeginDrag(k *Keyframe) error {
	if k == nil || k.field == nil {
		return fmt.Errorf("timeline: begin drag: %w", ErrForeignKeyframe)
	}
	if k.time == 0 {
		return fmt.Errorf("timeline: begin drag: %w", ErrOriginKeyframe)
	}
	s.dragging = k
	return nil
}

// Dragging returns the keyframe being dragged, or nil.
func (s *EditSession) Dragging() *Keyframe {
	if s.dragging != nil && s.dragging.field == nil {
		s.dragging = nil
	}
	return s.dragging
}

// DragTo moves the dragged keyframe to t and renormalizes. Moving onto an
// occupied frame is rejected and the keyframe stays where it was.
func (s *EditSession) DragTo(t int) error {
	k := s.dragging
	if k != nil && k.field == nil {
		s.dragging = nil
	}
	if s.dragging == nil || k.time == t {
		return nil
	}
	if err := k.field.Move(k, t); err != nil {
		return err
	}
	s.timeline.Renormalize()
	return nil
}

// EndDrag stops dragging.
func (s *EditSession) EndDrag() {
	s.dragging = nil
}

// DeleteSelected deletes the selected keyframe and clears the selection.
func (s *EditSession) DeleteSelected() error {
	k := s.Selected()
	if k == nil {
		return nil
	}
	if err := k.field.Delete(k); err != nil {
		return err
	}
	s.timeline.Renormalize()
	s.selected = nil
	if s.dragging == k {
		s.dragging = nil
	}
	return nil
}

// UpdateSelected applies edit to the selected keyframe and renormalizes.
func (s *EditSession) UpdateSelected(edit func(f *Field, k *Keyframe) error) error {
	k := s.Selected()
	if k == nil {
		return nil
	}
	if err := edit(k.field, k); err != nil {
		return err
	}
	s.timeline.Renormalize()
	return nil
}

// SelectPrevious selects the keyframe before the selected one in the same
// field and returns it, or nil at the start.
func (s *EditSession) SelectPrevious() *Keyframe {
	k := s.Selected()
	if k == nil {
		return nil
	}
	if prev := k.field.KeyframeBefore(k.time); prev != nil {
		s.selected = prev
		return prev
	}
	return nil
}

// SelectNext selects the keyframe after the selected one in the same field
// and returns it, or nil at the end.
func (s *EditSession) SelectNext() *Keyframe {
	k := s.Selected()
	if k == nil {
		return nil
	}
	if next := k.next; next != nil {
		s.selected = next
		return next
	}
	return nil
}
