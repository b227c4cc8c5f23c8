package timeline

import (
	"fmt"
	"log"
)

// ActionEvent describes a keyframe action reached during playback.
type ActionEvent struct {
	Field string
	Time  int
	Path  string
}

// ActionInvoker resolves action paths against the live object graph and runs
// them. A returned error is reported as a warning; playback continues.
type ActionInvoker interface {
	InvokeAction(event ActionEvent) error
}

// ActionInvokerFunc adapts a function to ActionInvoker.
type ActionInvokerFunc func(event ActionEvent) error

func (fn ActionInvokerFunc) InvokeAction(event ActionEvent) error {
	return fn(event)
}

// ActionMap is an ActionInvoker resolving paths by exact name.
type ActionMap map[string]func()

func (m ActionMap) InvokeAction(event ActionEvent) error {
	fn, ok := m[event.Path]
	if !ok || fn == nil {
		return fmt.Errorf("timeline: action %q: %w", event.Path, ErrUnresolved)
	}
	fn()
	return nil
}

// actionHooks is the part of a player that fires actions.
type actionHooks struct {
	invoker ActionInvoker
	onError func(ActionEvent, error)
}

func (h *actionHooks) fire(field string, k *Keyframe) {
	if h.invoker == nil || k.action == "" {
		return
	}
	ev := ActionEvent{Field: field, Time: k.time, Path: k.action}
	if err := h.invoker.InvokeAction(ev); err != nil {
		log.Printf("timeline: action %q at frame %d of %q failed: %v", ev.Path, ev.Time, ev.Field, err)
		if h.onError != nil {
			h.onError(ev, err)
		}
	}
}
