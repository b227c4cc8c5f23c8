package timeline

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// ValueCache memoizes the values a field takes during playback, including
// frames only reachable by jumping to a label. It is built by running a
// player with actions suppressed and never changes afterwards.
type ValueCache struct {
	field   string
	version uint64
	samples map[int]float64
	min     float64
	max     float64
}

// Cache returns the value cache of f, building it if the field changed since
// the last build.
func (f *Field) Cache() (*ValueCache, error) {
	if f.owner == nil {
		return nil, fmt.Errorf("timeline: cache for %q: %w", f.name, ErrUnknownField)
	}
	if f.cache != nil && f.cache.version == f.version {
		return f.cache, nil
	}
	c, err := f.buildCache()
	if err != nil {
		return nil, err
	}
	f.cache = c
	return c, nil
}

// ValueAt returns the cached value of the named field at t. ok is false when
// playback never visits t.
func (tl *Timeline) ValueAt(field string, t int) (v float64, ok bool, err error) {
	f := tl.Field(field)
	if f == nil {
		return 0, false, fmt.Errorf("timeline: value of %q: %w", field, ErrUnknownField)
	}
	c, err := f.Cache()
	if err != nil {
		return 0, false, err
	}
	v, ok = c.At(t)
	return v, ok, nil
}

// WarmCaches builds the stale caches of all fields in parallel. The
// timeline must not be edited until it returns.
func (tl *Timeline) WarmCaches(ctx context.Context) error {
	if tl.dirty {
		return fmt.Errorf("timeline: warm caches: %w", ErrNotNormalized)
	}
	g, ctx := errgroup.WithContext(ctx)
	built := make([]*ValueCache, len(tl.fields))
	for i, f := range tl.fields {
		if f.cache != nil && f.cache.version == f.version {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := f.buildCache()
			if err != nil {
				return err
			}
			built[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for i, c := range built {
		if c != nil {
			tl.fields[i].cache = c
		}
	}
	return nil
}

func (f *Field) buildCache() (*ValueCache, error) {
	tl := f.owner
	if tl.dirty {
		return nil, fmt.Errorf("timeline: cache for %q: %w", f.name, ErrNotNormalized)
	}
	var start time.Time
	if tl.debug {
		start = time.Now()
	}

	c := &ValueCache{field: f.name, version: f.version, samples: make(map[int]float64)}
	p := Player{field: f}
	p.Reset()
	p.SuppressActions(true)

	limit := f.Last().time
	iterations := 0
	if err := c.fill(&p, limit, &iterations); err != nil {
		return nil, err
	}
	seeks := 0
	for _, l := range tl.Labels() {
		if _, ok := c.samples[l.time]; ok {
			continue
		}
		p.Goto(l.time, l.Resume(f))
		seeks++
		if err := c.fill(&p, limit, &iterations); err != nil {
			return nil, err
		}
	}
	c.updateRange()

	if tl.debug {
		debugLogCache(f.name, len(c.samples), seeks, time.Since(start))
	}
	return c, nil
}

// fill records the player's values tick by tick until it reaches a frame
// already recorded, passes limit, or finishes.
func (c *ValueCache) fill(p *Player, limit int, iterations *int) error {
	for {
		if _, ok := c.samples[p.time]; ok || p.time > limit {
			return nil
		}
		c.samples[p.time] = p.value
		*iterations++
		if *iterations > MaxCacheIterations {
			return &RunawayError{Field: c.field, Iterations: *iterations}
		}
		if p.done {
			return nil
		}
		p.Update()
	}
}

func (c *ValueCache) updateRange() {
	c.min, c.max = math.Inf(1), math.Inf(-1)
	for _, v := range c.samples {
		c.min = math.Min(c.min, v)
		c.max = math.Max(c.max, v)
	}
	if len(c.samples) == 0 {
		c.min, c.max = 0, 0
	}
}

// Field returns the name of the cached field.
func (c *ValueCache) Field() string { return c.field }

// At returns the value recorded for t.
func (c *ValueCache) At(t int) (float64, bool) {
	v, ok := c.samples[t]
	return v, ok
}

// Len returns the number of recorded frames.
func (c *ValueCache) Len() int { return len(c.samples) }

// Min returns the smallest recorded value.
func (c *ValueCache) Min() float64 { return c.min }

// Max returns the largest recorded value.
func (c *ValueCache) Max() float64 { return c.max }

// Times returns the recorded frames in ascending order.
func (c *ValueCache) Times() []int {
	out := make([]int, 0, len(c.samples))
	for t := range c.samples {
		out = append(out, t)
	}
	sort.Ints(out)
	return out
}

// ChartY maps v into a chart of the given pixel height, with Max at the top
// and Min at the bottom. A flat curve maps as if its range were 1.
func (c *ValueCache) ChartY(v, height float64) float64 {
	span := c.max - c.min
	if span == 0 {
		span = 1
	}
	scale := height / span
	shift := c.max + 1/scale
	return (shift - v) * scale
}
