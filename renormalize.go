package timeline

import (
	"fmt"
	"sort"
)

// Renormalize restores every derived part of the timeline after a batch of
// edits: keyframe order, next pointers, jump coefficient defaults and label
// resume pointers. Caches of edited fields were already invalidated by the
// edits themselves and are rebuilt lazily on the next read.
//
// Running it again without edits in between changes nothing.
func (tl *Timeline) Renormalize() {
	for _, f := range tl.fields {
		f.sortKeyframes()
		f.relink()
		f.normalizeJumpParams()
		if tl.debug {
			debugCheckLength(f)
		}
	}
	for _, l := range tl.labels {
		tl.renormalizeLabel(l)
	}
	for _, f := range tl.fields {
		if f.dirty {
			f.cache = nil
			f.dirty = false
		}
	}
	tl.dirty = false
}

// sortKeyframes restores ascending time order. Duplicate times or a missing
// time-0 anchor cannot result from Field edits and mean the data is corrupt.
func (f *Field) sortKeyframes() {
	sort.SliceStable(f.keyframes, func(i, j int) bool {
		return f.keyframes[i].time < f.keyframes[j].time
	})
	if len(f.keyframes) == 0 || f.keyframes[0].time != 0 {
		panic(fmt.Sprintf("timeline: field %q lost its time-0 keyframe", f.name))
	}
	for i := 1; i < len(f.keyframes); i++ {
		if f.keyframes[i].time == f.keyframes[i-1].time {
			panic(fmt.Sprintf("timeline: field %q has two keyframes at time %d", f.name, f.keyframes[i].time))
		}
	}
}

func (f *Field) relink() {
	for i, k := range f.keyframes {
		if i+1 < len(f.keyframes) {
			k.next = f.keyframes[i+1]
		} else {
			k.next = nil
		}
	}
}

// normalizeJumpParams strips gravity and bounce from keyframes earlier than
// JumpParamsMinTime whatever their mode, and defaults them on later jump
// keyframes that lack them.
func (f *Field) normalizeJumpParams() {
	for _, k := range f.keyframes {
		if k.time < JumpParamsMinTime {
			k.gravity = nil
			k.bounce = nil
			continue
		}
		if !k.mode.IsJump() {
			continue
		}
		if k.gravity == nil {
			g := DefaultGravity
			k.gravity = &g
		}
		if k.bounce == nil {
			b := DefaultBounce
			k.bounce = &b
		}
	}
}

// renormalizeLabel points each field at the keyframe whose segment contains
// the frame just before the label, where playback would logically be one
// tick earlier. A label at time 0 resumes from the anchor keyframe.
func (tl *Timeline) renormalizeLabel(l *Label) {
	if cap(l.resume) < len(tl.fields) {
		l.resume = make([]*Keyframe, len(tl.fields))
	}
	l.resume = l.resume[:len(tl.fields)]
	before := l.time - 1
	if before < 0 {
		before = 0
	}
	for i, f := range tl.fields {
		l.resume[i] = f.segmentAt(before)
	}
}
