package timeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRenormalizeSortsKeyframes(t *testing.T) {
	tl := New()
	f := mustField(t, tl, "x", 0, ModeLinear)
	for _, tm := range []int{30, 5, 20, 12} {
		mustInsert(t, f, tm, float64(tm), ModeLinear)
	}
	tl.Renormalize()

	kfs := f.Keyframes()
	if kfs[0].Time() != 0 {
		t.Fatalf("first time = %d, want 0", kfs[0].Time())
	}
	for i := 1; i < len(kfs); i++ {
		if kfs[i].Time() <= kfs[i-1].Time() {
			t.Errorf("keyframe %d time %d not after %d", i, kfs[i].Time(), kfs[i-1].Time())
		}
	}
}

func TestRenormalizeRebuildsNext(t *testing.T) {
	tl := New()
	f := mustField(t, tl, "x", 0, ModeLinear)
	for _, tm := range []int{30, 5, 20} {
		mustInsert(t, f, tm, 1, ModeLinear)
	}
	tl.Renormalize()

	kfs := f.Keyframes()
	for i, k := range kfs {
		var want *Keyframe
		for _, other := range kfs {
			if other.Time() > k.Time() && (want == nil || other.Time() < want.Time()) {
				want = other
			}
		}
		if k.Next() != want {
			t.Errorf("keyframe %d: Next = %v, want %v", i, k.Next(), want)
		}
	}
	if f.Last().Next() != nil {
		t.Error("last keyframe should have no next")
	}
}

func TestRenormalizeJumpParams(t *testing.T) {
	tl := New()
	f := mustField(t, tl, "y", 0, ModeLinear)
	early := mustInsert(t, f, 2, 1, ModeJumpFloor)
	earlyLinear := mustInsert(t, f, 1, 1, ModeLinear)
	jump := mustInsert(t, f, 5, 1, ModeJumpRoof)
	linear := mustInsert(t, f, 6, 1, ModeLinear)
	tuned := mustInsert(t, f, 9, 1, ModeJumpFloor)

	for _, err := range []error{
		f.SetGravity(early, 2),
		f.SetBounce(earlyLinear, 3),
		f.SetBounce(linear, 3),
		f.SetGravity(tuned, 4),
	} {
		if err != nil {
			t.Fatal(err)
		}
	}
	tl.Renormalize()

	if _, ok := early.Gravity(); ok {
		t.Error("gravity should be stripped below frame 3")
	}
	if _, ok := earlyLinear.Bounce(); ok {
		t.Error("bounce should be stripped below frame 3 regardless of mode")
	}
	if g, ok := jump.Gravity(); !ok || g != DefaultGravity {
		t.Errorf("jump gravity = %v, %v, want default", g, ok)
	}
	if b, ok := jump.Bounce(); !ok || b != DefaultBounce {
		t.Errorf("jump bounce = %v, %v, want default", b, ok)
	}
	if b, ok := linear.Bounce(); !ok || b != 3 {
		t.Errorf("linear bounce = %v, %v, want untouched 3", b, ok)
	}
	if _, ok := linear.Gravity(); ok {
		t.Error("linear keyframe should not get a default gravity")
	}
	if g, ok := tuned.Gravity(); !ok || g != 4 {
		t.Errorf("tuned gravity = %v, want 4", g)
	}
	if b, ok := tuned.Bounce(); !ok || b != DefaultBounce {
		t.Errorf("tuned bounce = %v, want default", b)
	}
}

func TestRenormalizeIdempotent(t *testing.T) {
	tl := New()
	x := mustField(t, tl, "x", 0, ModeSmooth)
	y := mustField(t, tl, "y", 10, ModeLinear)
	mustInsert(t, x, 40, 100, ModeJumpFloor)
	mustInsert(t, x, 12, 50, ModeLinear)
	k := mustInsert(t, y, 25, 3, ModeDiscrete)
	if err := y.SetJumpTarget(k, 4); err != nil {
		t.Fatal(err)
	}
	if _, err := tl.AddLabel("mid", 20); err != nil {
		t.Fatal(err)
	}
	if _, err := tl.AddLabel("start", 0); err != nil {
		t.Fatal(err)
	}

	tl.Renormalize()
	first, err := tl.record()
	if err != nil {
		t.Fatal(err)
	}
	versions := []uint64{x.Version(), y.Version()}

	tl.Renormalize()
	second, err := tl.record()
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second Renormalize changed state (-first +second):\n%s", diff)
	}
	if x.Version() != versions[0] || y.Version() != versions[1] {
		t.Error("second Renormalize should not invalidate caches")
	}
}

func TestLabelResumePointers(t *testing.T) {
	tl := New()
	a := mustField(t, tl, "a", 0, ModeLinear)
	mustInsert(t, a, 10, 1, ModeLinear)
	mustInsert(t, a, 25, 2, ModeLinear)
	b := mustField(t, tl, "b", 0, ModeLinear)
	mustInsert(t, b, 19, 1, ModeLinear)
	c := mustField(t, tl, "c", 0, ModeLinear)
	mustInsert(t, c, 20, 1, ModeLinear)

	l, err := tl.AddLabel("jump", 20)
	if err != nil {
		t.Fatal(err)
	}
	tl.Renormalize()

	for _, tc := range []struct {
		f    *Field
		want int
	}{{a, 10}, {b, 19}, {c, 0}} {
		got := l.Resume(tc.f)
		if got == nil || got.Time() != tc.want {
			t.Errorf("resume for %s = %v, want keyframe at %d", tc.f.Name(), got, tc.want)
		}
		if got != tc.f.segmentAt(19) {
			t.Errorf("resume for %s does not enclose frame 19", tc.f.Name())
		}
	}
}

func TestLabelAtTimeZeroResumesFromOrigin(t *testing.T) {
	tl, f := linearField(t, 0, 10, 100)
	l, err := tl.AddLabel("start", 0)
	if err != nil {
		t.Fatal(err)
	}
	tl.Renormalize()
	if l.Resume(f) != f.First() {
		t.Error("label at 0 should resume from the origin keyframe")
	}
}

func TestLabelFollowsKeyframeEdits(t *testing.T) {
	tl, f := linearField(t, 0, 10, 100, 30, 0)
	l, err := tl.AddLabel("l", 20)
	if err != nil {
		t.Fatal(err)
	}
	tl.Renormalize()
	if l.Resume(f).Time() != 10 {
		t.Fatalf("resume = %d, want 10", l.Resume(f).Time())
	}

	mustInsert(t, f, 15, 5, ModeLinear)
	tl.Renormalize()
	if l.Resume(f).Time() != 15 {
		t.Errorf("resume after insert = %d, want 15", l.Resume(f).Time())
	}

	if err := tl.MoveLabel("l", 5); err != nil {
		t.Fatal(err)
	}
	tl.Renormalize()
	if l.Resume(f).Time() != 0 {
		t.Errorf("resume after move = %d, want 0", l.Resume(f).Time())
	}
}

func TestRenormalizeDropsStaleCaches(t *testing.T) {
	tl, f := linearField(t, 0, 10, 100)
	c1, err := f.Cache()
	if err != nil {
		t.Fatal(err)
	}
	if err := f.SetValue(f.Last(), 50); err != nil {
		t.Fatal(err)
	}
	tl.Renormalize()

	c2, err := f.Cache()
	if err != nil {
		t.Fatal(err)
	}
	if c1 == c2 {
		t.Fatal("cache should be rebuilt after an edit")
	}
	if v, _ := c2.At(10); v != 50 {
		t.Errorf("At(10) = %v, want 50", v)
	}
}
