package morph

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/binmorph/internal/grid"
	"github.com/banshee-data/binmorph/internal/monitoring"
)

// Engine runs morphological operations, optionally splitting the output rows
// into contiguous bands computed by separate goroutines. The result is
// identical to the sequential functions for any worker count.
type Engine struct {
	// Workers is the number of row bands. Values <= 1 run sequentially.
	Workers int
}

// NewEngine returns an Engine using the given number of workers.
func NewEngine(workers int) *Engine {
	return &Engine{Workers: workers}
}

// Run applies op to input with kernel. The context is checked between rows;
// a cancelled run returns ctx.Err() and no grid.
func (e *Engine) Run(ctx context.Context, op Op, input, kernel *grid.Grid) (*grid.Grid, error) {
	start := time.Now()

	var out *grid.Grid
	var err error
	switch op {
	case OpDilate:
		out, err = e.pass(ctx, input, kernel, true)
	case OpErode:
		out, err = e.pass(ctx, input, kernel, false)
	case OpOpen:
		out, err = e.pass(ctx, input, kernel, false)
		if err == nil {
			out, err = e.pass(ctx, out, kernel, true)
		}
	case OpClose:
		out, err = e.pass(ctx, input, kernel, true)
		if err == nil {
			out, err = e.pass(ctx, out, kernel, false)
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownOp, op)
	}
	if err != nil {
		return nil, err
	}

	monitoring.Logf("[Engine] %s %dx%d kernel=%dx%d workers=%d set=%d->%d took %s",
		op, input.Width(), input.Height(), kernel.Width(), kernel.Height(),
		e.workers(input.Height()), input.Count(), out.Count(),
		time.Since(start).Round(time.Microsecond))
	return out, nil
}

// workers returns the effective band count for a grid of the given height.
// Only rows 1..height-1 are evaluated, so there is never more than one band
// per evaluated row.
func (e *Engine) workers(height int) int {
	n := e.Workers
	if n < 1 {
		n = 1
	}
	if rows := height - 1; rows < n {
		n = max(rows, 1)
	}
	return n
}

func (e *Engine) pass(ctx context.Context, input, kernel *grid.Grid, flip bool) (*grid.Grid, error) {
	output, err := newOutput(input, kernel)
	if err != nil {
		return nil, err
	}

	n := e.workers(input.Height())
	if n == 1 {
		for y := 1; y < output.Height(); y++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			sweepRow(input, kernel, output, y, flip)
		}
		return output, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	rows := output.Height() - 1
	bandHeight := rows / n
	for band := 0; band < n; band++ {
		y0 := 1 + band*bandHeight
		y1 := y0 + bandHeight
		// The last band takes any remaining rows.
		if band == n-1 {
			y1 = output.Height()
		}
		g.Go(func() error {
			for y := y0; y < y1; y++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				sweepRow(input, kernel, output, y, flip)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return output, nil
}
