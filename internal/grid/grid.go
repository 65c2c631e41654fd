package grid

import (
	"errors"
	"fmt"
)

// MaxCells caps the number of cells a single Grid may hold.
const MaxCells = 1 << 30

var (
	// ErrInvalidSize is returned when a dimension is negative.
	ErrInvalidSize = errors.New("grid: invalid size")
	// ErrTooLarge is returned when width*height overflows or exceeds MaxCells.
	ErrTooLarge = errors.New("grid: too large")
)

// Grid is a rectangular raster of boolean pixels.
type Grid struct {
	width  int
	height int
	cells  []bool
}

// Empty returns a width x height grid with every cell unset.
func Empty(width, height int) (*Grid, error) {
	return newGrid(width, height, false)
}

// Filled returns a width x height grid with every cell set.
func Filled(width, height int) (*Grid, error) {
	return newGrid(width, height, true)
}

// MustEmpty is like Empty but panics on error.
func MustEmpty(width, height int) *Grid {
	g, err := Empty(width, height)
	if err != nil {
		panic(err)
	}
	return g
}

// MustFilled is like Filled but panics on error.
func MustFilled(width, height int) *Grid {
	g, err := Filled(width, height)
	if err != nil {
		panic(err)
	}
	return g
}

func newGrid(width, height int, value bool) (*Grid, error) {
	n, err := cellCount(width, height)
	if err != nil {
		return nil, err
	}
	cells := make([]bool, n)
	if value {
		for i := range cells {
			cells[i] = true
		}
	}
	return &Grid{width: width, height: height, cells: cells}, nil
}

// cellCount validates the dimensions and returns width*height.
func cellCount(width, height int) (int, error) {
	if width < 0 || height < 0 {
		return 0, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if width != 0 && height > MaxCells/width {
		return 0, fmt.Errorf("%w: %dx%d exceeds %d cells", ErrTooLarge, width, height, MaxCells)
	}
	return width * height, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Len returns the number of cells, always Width()*Height().
func (g *Grid) Len() int { return len(g.cells) }

// inBounds reports whether (x, y) addresses a stored cell.
func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Get returns the pixel at (x, y), or false when (x, y) is outside the grid.
func (g *Grid) Get(x, y int) bool {
	if !g.inBounds(x, y) {
		return false
	}
	return g.cells[x+y*g.width]
}

// Set writes the pixel at (x, y). Writes outside the grid are ignored.
func (g *Grid) Set(x, y int, v bool) {
	if !g.inBounds(x, y) {
		return
	}
	g.cells[x+y*g.width] = v
}

// SetIndex writes the pixel at flat row-major index i. Out-of-range
// indices are ignored.
func (g *Grid) SetIndex(i int, v bool) {
	if i < 0 || i >= len(g.cells) {
		return
	}
	g.cells[i] = v
}

// Count returns the number of set pixels.
func (g *Grid) Count() int {
	n := 0
	for _, c := range g.cells {
		if c {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of g.
func (g *Grid) Clone() *Grid {
	cells := make([]bool, len(g.cells))
	copy(cells, g.cells)
	return &Grid{width: g.width, height: g.height, cells: cells}
}

// Equal reports whether g and other have the same dimensions and cells.
func (g *Grid) Equal(other *Grid) bool {
	if g == nil || other == nil {
		return g == other
	}
	if g.width != other.width || g.height != other.height {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}
