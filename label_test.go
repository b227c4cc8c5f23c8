package timeline

import (
	"errors"
	"testing"
)

func TestAddLabelRejections(t *testing.T) {
	tl, _ := linearField(t, 0, 10, 100)
	if _, err := tl.AddLabel("a", 3); err != nil {
		t.Fatal(err)
	}
	if _, err := tl.AddLabel("a", 7); !errors.Is(err, ErrDuplicateLabel) {
		t.Errorf("duplicate: err = %v, want ErrDuplicateLabel", err)
	}
	if _, err := tl.AddLabel("b", -1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("negative: err = %v, want ErrOutOfRange", err)
	}
	if _, err := tl.AddLabel("", 1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("empty: err = %v, want ErrOutOfRange", err)
	}
	if l := tl.Label("a"); l == nil || l.Time() != 3 {
		t.Errorf("label a = %v, want time 3", l)
	}
}

func TestRenameLabel(t *testing.T) {
	tl, f := linearField(t, 0, 10, 100)
	if _, err := tl.AddLabel("a", 5); err != nil {
		t.Fatal(err)
	}
	if _, err := tl.AddLabel("b", 8); err != nil {
		t.Fatal(err)
	}
	tl.Renormalize()
	c1, err := f.Cache()
	if err != nil {
		t.Fatal(err)
	}

	if err := tl.RenameLabel("a", "b"); !errors.Is(err, ErrDuplicateLabel) {
		t.Errorf("err = %v, want ErrDuplicateLabel", err)
	}
	if err := tl.RenameLabel("nope", "c"); !errors.Is(err, ErrUnknownLabel) {
		t.Errorf("err = %v, want ErrUnknownLabel", err)
	}
	if err := tl.RenameLabel("a", "start"); err != nil {
		t.Fatal(err)
	}
	if tl.Label("a") != nil {
		t.Error("old name still resolves")
	}
	l := tl.Label("start")
	if l == nil || l.Name() != "start" || l.Time() != 5 {
		t.Fatalf("renamed label = %+v", l)
	}

	tl.Renormalize()
	c2, _ := f.Cache()
	if c1 != c2 {
		t.Error("rename should not invalidate the cache")
	}
}

func TestDeleteLabel(t *testing.T) {
	tl, _ := linearField(t, 0, 10, 100)
	if _, err := tl.AddLabel("a", 5); err != nil {
		t.Fatal(err)
	}
	if err := tl.DeleteLabel("a"); err != nil {
		t.Fatal(err)
	}
	if tl.Label("a") != nil {
		t.Error("label still present")
	}
	if err := tl.DeleteLabel("a"); !errors.Is(err, ErrUnknownLabel) {
		t.Errorf("err = %v, want ErrUnknownLabel", err)
	}
}

func TestMoveLabelRejections(t *testing.T) {
	tl, _ := linearField(t, 0, 10, 100)
	if _, err := tl.AddLabel("a", 5); err != nil {
		t.Fatal(err)
	}
	if err := tl.MoveLabel("a", -3); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("err = %v, want ErrOutOfRange", err)
	}
	if err := tl.MoveLabel("nope", 3); !errors.Is(err, ErrUnknownLabel) {
		t.Errorf("err = %v, want ErrUnknownLabel", err)
	}
}

func TestLabelsSortedByTime(t *testing.T) {
	tl, _ := linearField(t, 0, 10, 100)
	for _, l := range []struct {
		name string
		time int
	}{{"c", 9}, {"a", 2}, {"b", 2}, {"d", 0}} {
		if _, err := tl.AddLabel(l.name, l.time); err != nil {
			t.Fatal(err)
		}
	}
	var got []string
	for _, l := range tl.Labels() {
		got = append(got, l.Name())
	}
	want := []string{"d", "a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("Labels = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Labels = %v, want %v", got, want)
			break
		}
	}
}

func TestLabelResumeForeignField(t *testing.T) {
	tl, _ := linearField(t, 0, 10, 100)
	l, err := tl.AddLabel("a", 5)
	if err != nil {
		t.Fatal(err)
	}
	tl.Renormalize()
	_, other := linearField(t, 0, 10, 100)
	if r := l.Resume(other); r != nil {
		t.Errorf("Resume(other) = %v, want nil", r)
	}
}

func TestLabelEditsWhileRunning(t *testing.T) {
	tl, _ := linearField(t, 0, 10, 100)
	a, err := NewAnimator(tl, nil, AnimatorConfig{})
	if err != nil {
		t.Fatal(err)
	}
	defer a.Stop()
	if _, err := tl.AddLabel("a", 1); !errors.Is(err, ErrRunning) {
		t.Errorf("err = %v, want ErrRunning", err)
	}
}
