package morph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/banshee-data/binmorph/internal/grid"
)

var (
	// ErrNilGrid is returned when the input or kernel is nil.
	ErrNilGrid = errors.New("morph: nil grid")
	// ErrUnknownOp is returned by ParseOp and Apply for unsupported operations.
	ErrUnknownOp = errors.New("morph: unknown operation")
)

// Op selects a morphological operation.
type Op int

const (
	OpDilate Op = iota
	OpErode
	OpOpen
	OpClose
)

// String returns the lower-case operation name.
func (op Op) String() string {
	switch op {
	case OpDilate:
		return "dilate"
	case OpErode:
		return "erode"
	case OpOpen:
		return "open"
	case OpClose:
		return "close"
	default:
		return fmt.Sprintf("Op(%d)", int(op))
	}
}

// ParseOp maps an operation name (case-insensitive) to an Op.
func ParseOp(s string) (Op, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dilate", "dilation":
		return OpDilate, nil
	case "erode", "erosion":
		return OpErode, nil
	case "open", "opening":
		return OpOpen, nil
	case "close", "closing":
		return OpClose, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOp, s)
}

// Dilate returns a new grid where each evaluated pixel is set if any image
// pixel under the kernel footprint is set.
func Dilate(input, kernel *grid.Grid) (*grid.Grid, error) {
	return transform(input, kernel, true)
}

// Erode returns a new grid where each evaluated pixel is set only if every
// image pixel under the kernel footprint is set.
func Erode(input, kernel *grid.Grid) (*grid.Grid, error) {
	return transform(input, kernel, false)
}

// Close dilates and then erodes with the same kernel.
func Close(input, kernel *grid.Grid) (*grid.Grid, error) {
	d, err := Dilate(input, kernel)
	if err != nil {
		return nil, err
	}
	return Erode(d, kernel)
}

// Open erodes and then dilates with the same kernel.
func Open(input, kernel *grid.Grid) (*grid.Grid, error) {
	e, err := Erode(input, kernel)
	if err != nil {
		return nil, err
	}
	return Dilate(e, kernel)
}

// Apply runs op sequentially.
func Apply(op Op, input, kernel *grid.Grid) (*grid.Grid, error) {
	switch op {
	case OpDilate:
		return Dilate(input, kernel)
	case OpErode:
		return Erode(input, kernel)
	case OpOpen:
		return Open(input, kernel)
	case OpClose:
		return Close(input, kernel)
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownOp, op)
}

func transform(input, kernel *grid.Grid, flip bool) (*grid.Grid, error) {
	output, err := newOutput(input, kernel)
	if err != nil {
		return nil, err
	}
	sweepRows(input, kernel, output, 1, output.Height(), flip)
	return output, nil
}

func newOutput(input, kernel *grid.Grid) (*grid.Grid, error) {
	if input == nil || kernel == nil {
		return nil, ErrNilGrid
	}
	output, err := grid.Empty(input.Width(), input.Height())
	if err != nil {
		return nil, fmt.Errorf("allocate output: %w", err)
	}
	return output, nil
}

// sweepRows evaluates rows [y0, y1) of output, columns starting at 1.
// Calls on disjoint row ranges of the same output touch disjoint cells.
func sweepRows(input, kernel, output *grid.Grid, y0, y1 int, flip bool) {
	for y := y0; y < y1; y++ {
		sweepRow(input, kernel, output, y, flip)
	}
}

func sweepRow(input, kernel, output *grid.Grid, y int, flip bool) {
	for x := 1; x < input.Width(); x++ {
		output.Set(x, y, CheckNeighbours(input, kernel, x, y, flip))
	}
}
