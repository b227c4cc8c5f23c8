package timeline

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

type keyframeRecord struct {
	Time       int      `json:"time" yaml:"time"`
	Value      float64  `json:"value" yaml:"value"`
	Mode       Mode     `json:"mode" yaml:"mode"`
	JumpTarget *int     `json:"jumpTarget,omitempty" yaml:"jumpTarget,omitempty"`
	Gravity    *float64 `json:"gravity,omitempty" yaml:"gravity,omitempty"`
	Bounce     *float64 `json:"bounce,omitempty" yaml:"bounce,omitempty"`
	Action     string   `json:"action,omitempty" yaml:"action,omitempty"`
}

type fieldRecord struct {
	Name         string           `json:"name" yaml:"name"`
	DiscreteOnly bool             `json:"discreteOnly,omitempty" yaml:"discreteOnly,omitempty"`
	Keyframes    []keyframeRecord `json:"keyframes" yaml:"keyframes"`
}

// labelRecord stores resume pointers as keyframe times, one per field in
// field order.
type labelRecord struct {
	Time   int   `json:"time" yaml:"time"`
	Resume []int `json:"resume" yaml:"resume"`
}

type timelineRecord struct {
	Fields []fieldRecord           `json:"fields" yaml:"fields"`
	Labels map[string]labelRecord `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// MarshalJSON encodes the persisted form of the timeline. It fails if the
// timeline has unnormalized edits.
func (tl *Timeline) MarshalJSON() ([]byte, error) {
	rec, err := tl.record()
	if err != nil {
		return nil, err
	}
	return json.Marshal(rec)
}

// UnmarshalJSON replaces the timeline's contents with the decoded data.
// Malformed data is rejected and leaves the timeline unchanged.
func (tl *Timeline) UnmarshalJSON(data []byte) error {
	var rec timelineRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("timeline: failed to parse timeline JSON: %w", err)
	}
	return tl.load(rec)
}

// MarshalYAML implements yaml.Marshaler.
func (tl *Timeline) MarshalYAML() (interface{}, error) {
	return tl.record()
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (tl *Timeline) UnmarshalYAML(value *yaml.Node) error {
	var rec timelineRecord
	if err := value.Decode(&rec); err != nil {
		return fmt.Errorf("timeline: failed to parse timeline YAML: %w", err)
	}
	return tl.load(rec)
}

// LoadJSON decodes a timeline from its JSON form.
func LoadJSON(data []byte) (*Timeline, error) {
	tl := New()
	if err := json.Unmarshal(data, tl); err != nil {
		return nil, err
	}
	return tl, nil
}

// LoadYAML decodes a timeline from its YAML form.
func LoadYAML(data []byte) (*Timeline, error) {
	tl := New()
	if err := yaml.Unmarshal(data, tl); err != nil {
		return nil, err
	}
	return tl, nil
}

func (tl *Timeline) record() (timelineRecord, error) {
	if tl.dirty {
		return timelineRecord{}, fmt.Errorf("timeline: encode: %w", ErrNotNormalized)
	}
	rec := timelineRecord{Fields: make([]fieldRecord, len(tl.fields))}
	for i, f := range tl.fields {
		fr := fieldRecord{Name: f.name, DiscreteOnly: f.discreteOnly, Keyframes: make([]keyframeRecord, len(f.keyframes))}
		for j, k := range f.keyframes {
			jump := k.jumpTarget
			fr.Keyframes[j] = keyframeRecord{
				Time:       k.time,
				Value:      k.value,
				Mode:       k.mode,
				JumpTarget: &jump,
				Gravity:    copyFloat(k.gravity),
				Bounce:     copyFloat(k.bounce),
				Action:     k.action,
			}
		}
		rec.Fields[i] = fr
	}
	if len(tl.labels) > 0 {
		rec.Labels = make(map[string]labelRecord, len(tl.labels))
		for name, l := range tl.labels {
			lr := labelRecord{Time: l.time, Resume: make([]int, len(l.resume))}
			for i, k := range l.resume {
				lr.Resume[i] = k.time
			}
			rec.Labels[name] = lr
		}
	}
	return rec, nil
}

// load validates rec completely before touching tl, then renormalizes.
func (tl *Timeline) load(rec timelineRecord) error {
	if err := tl.checkEditable(); err != nil {
		return err
	}
	fields := make([]*Field, len(rec.Fields))
	names := make(map[string]bool, len(rec.Fields))
	for i, fr := range rec.Fields {
		f, err := loadField(fr)
		if err != nil {
			return err
		}
		if names[f.name] {
			return fmt.Errorf("timeline: field %q: %w", f.name, ErrDuplicateField)
		}
		names[f.name] = true
		fields[i] = f
	}
	labels := make(map[string]*Label, len(rec.Labels))
	for name, lr := range rec.Labels {
		if name == "" {
			return fmt.Errorf("timeline: label with empty name: %w", ErrOutOfRange)
		}
		if lr.Time < 0 {
			return fmt.Errorf("timeline: label %q at time %d: %w", name, lr.Time, ErrOutOfRange)
		}
		if len(lr.Resume) != len(fields) {
			return fmt.Errorf("timeline: label %q has %d resume pointers for %d fields: %w",
				name, len(lr.Resume), len(fields), ErrUnknownField)
		}
		for i, t := range lr.Resume {
			if fields[i].findTime(t) == nil {
				return fmt.Errorf("timeline: label %q resumes field %q from missing keyframe at %d: %w",
					name, fields[i].name, t, ErrForeignKeyframe)
			}
		}
		labels[name] = &Label{name: name, time: lr.Time}
	}

	for _, f := range tl.fields {
		f.owner = nil
		f.cache = nil
	}
	tl.fields = fields
	tl.labels = labels
	for _, f := range fields {
		f.owner = tl
		tl.touch(f)
	}
	tl.dirty = true
	tl.Renormalize()
	return nil
}

func loadField(fr fieldRecord) (*Field, error) {
	if fr.Name == "" {
		return nil, fmt.Errorf("timeline: field with empty name: %w", ErrOutOfRange)
	}
	if len(fr.Keyframes) == 0 {
		return nil, fmt.Errorf("timeline: field %q has no keyframes", fr.Name)
	}
	f := &Field{name: fr.Name, discreteOnly: fr.DiscreteOnly}
	seen := make(map[int]bool, len(fr.Keyframes))
	for _, kr := range fr.Keyframes {
		if kr.Time < 0 {
			return nil, fmt.Errorf("timeline: field %q: keyframe at negative time %d: %w", fr.Name, kr.Time, ErrOutOfRange)
		}
		if seen[kr.Time] {
			return nil, fmt.Errorf("timeline: field %q: %w at %d", fr.Name, ErrTimeOccupied, kr.Time)
		}
		seen[kr.Time] = true
		if err := f.checkMode(kr.Mode); err != nil {
			return nil, err
		}
		k := &Keyframe{
			time:       kr.Time,
			value:      kr.Value,
			mode:       kr.Mode,
			jumpTarget: kr.Time,
			gravity:    copyFloat(kr.Gravity),
			bounce:     copyFloat(kr.Bounce),
			action:     kr.Action,
			field:      f,
		}
		if kr.JumpTarget != nil {
			if *kr.JumpTarget < 0 {
				return nil, fmt.Errorf("timeline: field %q: jump target %d: %w", fr.Name, *kr.JumpTarget, ErrOutOfRange)
			}
			k.jumpTarget = *kr.JumpTarget
		}
		if k.gravity != nil && !validJumpParam(*k.gravity) {
			return nil, fmt.Errorf("timeline: field %q: gravity %v: %w", fr.Name, *k.gravity, ErrOutOfRange)
		}
		if k.bounce != nil && !validJumpParam(*k.bounce) {
			return nil, fmt.Errorf("timeline: field %q: bounce %v: %w", fr.Name, *k.bounce, ErrOutOfRange)
		}
		f.keyframes = append(f.keyframes, k)
	}
	if !seen[0] {
		return nil, fmt.Errorf("timeline: field %q has no keyframe at time 0", fr.Name)
	}
	return f, nil
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
