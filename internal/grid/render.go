package grid

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed is returned by Parse and UnmarshalBinary for input that does
// not describe a grid.
var ErrMalformed = errors.New("grid: malformed input")

// String renders the grid one row per line, '1' for set and '0' for unset.
// Every row, including the last, ends with a newline.
func (g *Grid) String() string {
	if g.width == 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow(len(g.cells) + g.height)
	for y := 0; y < g.height; y++ {
		row := g.cells[y*g.width : (y+1)*g.width]
		for _, c := range row {
			if c {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Parse reads the text form produced by String. Blank lines and leading or
// trailing whitespace on each line are ignored; all rows must have the same
// length.
func Parse(text string) (*Grid, error) {
	var rows []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rows = append(rows, line)
	}
	if len(rows) == 0 {
		return Empty(0, 0)
	}

	width := len(rows[0])
	g, err := Empty(width, len(rows))
	if err != nil {
		return nil, err
	}
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrMalformed, y, len(row), width)
		}
		for x := 0; x < width; x++ {
			switch row[x] {
			case '1':
				g.cells[x+y*width] = true
			case '0':
			default:
				return nil, fmt.Errorf("%w: unexpected %q at (%d, %d)", ErrMalformed, row[x], x, y)
			}
		}
	}
	return g, nil
}

// MustParse is like Parse but panics on error. Intended for fixtures.
func MustParse(text string) *Grid {
	g, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return g
}
