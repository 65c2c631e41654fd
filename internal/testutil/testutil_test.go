package testutil

import (
	"fmt"
	"testing"
)

// recordingT captures Errorf calls so failures can be asserted on.
type recordingT struct {
	testing.TB
	errors []string
}

func (r *recordingT) Helper() {}

func (r *recordingT) Errorf(format string, args ...interface{}) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func TestAssertGridEqual(t *testing.T) {
	a := Grid(t, "010\n111\n")
	b := Grid(t, "010\n111\n")
	c := Grid(t, "010\n101\n")

	rt := &recordingT{TB: t}
	AssertGridEqual(rt, a, b)
	if len(rt.errors) != 0 {
		t.Fatalf("equal grids reported mismatch: %v", rt.errors)
	}

	AssertGridEqual(rt, a, c)
	if len(rt.errors) != 1 {
		t.Fatalf("expected one mismatch, got %d", len(rt.errors))
	}

	AssertGridEqual(rt, nil, c)
	if len(rt.errors) != 2 {
		t.Fatalf("expected nil mismatch to be reported, got %d", len(rt.errors))
	}
}

func TestSinglePixel(t *testing.T) {
	g := SinglePixel(10, 20, 4, 4)
	if g.Count() != 1 || !g.Get(4, 4) {
		t.Errorf("SinglePixel did not set exactly (4, 4): %s", g)
	}
}
