// Package testutil provides shared test helpers and grid fixtures.
package testutil

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/banshee-data/binmorph/internal/grid"
)

// Grid parses a '0'/'1' text fixture, failing the test on malformed input.
func Grid(t testing.TB, text string) *grid.Grid {
	t.Helper()
	g, err := grid.Parse(text)
	if err != nil {
		t.Fatalf("bad grid fixture: %v", err)
	}
	return g
}

// AssertGridEqual reports a row-by-row diff when got and want differ.
func AssertGridEqual(t testing.TB, got, want *grid.Grid) {
	t.Helper()
	if got == nil || want == nil {
		if got != want {
			t.Errorf("grid mismatch: got %v, want %v", got, want)
		}
		return
	}
	if got.Equal(want) {
		return
	}
	if diff := cmp.Diff(rows(want), rows(got)); diff != "" {
		t.Errorf("grid mismatch %dx%d vs %dx%d (-want +got):\n%s",
			want.Width(), want.Height(), got.Width(), got.Height(), diff)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// SinglePixel returns a width x height grid with only (x, y) set.
func SinglePixel(width, height, x, y int) *grid.Grid {
	g := grid.MustEmpty(width, height)
	g.Set(x, y, true)
	return g
}

func rows(g *grid.Grid) []string {
	return strings.Split(strings.TrimSuffix(g.String(), "\n"), "\n")
}
