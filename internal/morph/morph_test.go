package morph

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/binmorph/internal/grid"
	"github.com/banshee-data/binmorph/internal/monitoring"
	"github.com/banshee-data/binmorph/internal/testutil"
)

func TestMain(m *testing.M) {
	monitoring.SetLogger(nil)
	os.Exit(m.Run())
}

// sampleInput is the 10x20 grid with flat index 44, pixel (4, 4), set.
func sampleInput() *grid.Grid {
	g := grid.MustEmpty(10, 20)
	g.SetIndex(44, true)
	return g
}

func TestDilate_SinglePixel(t *testing.T) {
	t.Parallel()

	out, err := Dilate(sampleInput(), grid.MustFilled(5, 5))
	require.NoError(t, err)

	want := grid.MustEmpty(10, 20)
	for y := 2; y <= 6; y++ {
		for x := 2; x <= 6; x++ {
			want.Set(x, y, true)
		}
	}
	testutil.AssertGridEqual(t, out, want)
}

func TestErodeOfDilate_RecoversIsolatedPixel(t *testing.T) {
	t.Parallel()

	input := sampleInput()
	kernel := grid.MustFilled(5, 5)

	dilated, err := Dilate(input, kernel)
	require.NoError(t, err)
	assert.False(t, dilated.Equal(input), "dilation must change the grid")

	eroded, err := Erode(dilated, kernel)
	require.NoError(t, err)
	testutil.AssertGridEqual(t, eroded, input)

	closed, err := Close(input, kernel)
	require.NoError(t, err)
	testutil.AssertGridEqual(t, closed, input)
}

func TestInputsNotMutated(t *testing.T) {
	t.Parallel()

	input := sampleInput()
	kernel := grid.MustFilled(3, 3)
	inCopy, kCopy := input.Clone(), kernel.Clone()

	for _, op := range []Op{OpDilate, OpErode, OpOpen, OpClose} {
		out, err := Apply(op, input, kernel)
		require.NoError(t, err, op.String())
		assert.NotSame(t, input, out)
	}
	testutil.AssertGridEqual(t, input, inCopy)
	testutil.AssertGridEqual(t, kernel, kCopy)
}

func TestRowAndColumnZeroNeverComputed(t *testing.T) {
	t.Parallel()

	input := grid.MustFilled(6, 4)
	for _, op := range []Op{OpDilate, OpErode} {
		out, err := Apply(op, input, grid.MustFilled(1, 1))
		require.NoError(t, err)
		for x := 0; x < out.Width(); x++ {
			assert.False(t, out.Get(x, 0), "%s row 0 col %d", op, x)
		}
		for y := 0; y < out.Height(); y++ {
			assert.False(t, out.Get(0, y), "%s col 0 row %d", op, y)
		}
	}

	// A 1x1 kernel copies every evaluated pixel.
	out, err := Dilate(input, grid.MustFilled(1, 1))
	require.NoError(t, err)
	testutil.AssertGridEqual(t, out, testutil.Grid(t, `
		000000
		011111
		011111
		011111
	`))
}

func TestKernelContentIgnored(t *testing.T) {
	t.Parallel()

	input := sampleInput()
	withFilled, err := Dilate(input, grid.MustFilled(3, 3))
	require.NoError(t, err)
	withEmpty, err := Dilate(input, grid.MustEmpty(3, 3))
	require.NoError(t, err)
	testutil.AssertGridEqual(t, withEmpty, withFilled)
}

func TestDegenerateKernel(t *testing.T) {
	t.Parallel()

	input := grid.MustFilled(5, 4)
	for _, kernel := range []*grid.Grid{grid.MustEmpty(0, 3), grid.MustEmpty(3, 0), grid.MustEmpty(0, 0)} {
		d, err := Dilate(input, kernel)
		require.NoError(t, err)
		assert.Equal(t, 0, d.Count(), "dilation with %dx%d kernel", kernel.Width(), kernel.Height())

		e, err := Erode(grid.MustEmpty(5, 4), kernel)
		require.NoError(t, err)
		testutil.AssertGridEqual(t, e, testutil.Grid(t, `
			00000
			01111
			01111
			01111
		`))
	}
}

func TestErosion_SingleHoleForcesFalse(t *testing.T) {
	t.Parallel()

	input := grid.MustFilled(10, 10)
	full, err := Erode(input, grid.MustFilled(3, 3))
	require.NoError(t, err)
	// Column and row 9 read past the edge, which is unset.
	assert.Equal(t, 64, full.Count())

	input.Set(5, 5, false)
	holed, err := Erode(input, grid.MustFilled(3, 3))
	require.NoError(t, err)
	assert.Equal(t, 55, holed.Count())
	for y := 4; y <= 6; y++ {
		for x := 4; x <= 6; x++ {
			assert.False(t, holed.Get(x, y), "(%d, %d)", x, y)
		}
	}
}

func TestDilation_Monotonic(t *testing.T) {
	t.Parallel()

	input := testutil.Grid(t, `
		00000000
		00000000
		00100000
		00000000
		00000100
		00000000
	`)
	kernel := grid.MustFilled(3, 3)
	out, err := Dilate(input, kernel)
	require.NoError(t, err)

	for y := 1; y < input.Height(); y++ {
		for x := 1; x < input.Width(); x++ {
			if input.Get(x, y) {
				assert.True(t, out.Get(x, y), "set pixel (%d, %d) must survive dilation", x, y)
			}
			assert.Equal(t, CheckNeighbours(input, kernel, x, y, true), out.Get(x, y))
		}
	}

	// Adding pixels never removes output pixels.
	more := input.Clone()
	more.Set(6, 1, true)
	out2, err := Dilate(more, kernel)
	require.NoError(t, err)
	for y := 0; y < out.Height(); y++ {
		for x := 0; x < out.Width(); x++ {
			if out.Get(x, y) {
				assert.True(t, out2.Get(x, y))
			}
		}
	}
}

func TestNilArguments(t *testing.T) {
	t.Parallel()

	_, err := Dilate(nil, grid.MustFilled(3, 3))
	assert.True(t, errors.Is(err, ErrNilGrid))
	_, err = Erode(grid.MustEmpty(3, 3), nil)
	assert.True(t, errors.Is(err, ErrNilGrid))
	_, err = Open(nil, nil)
	assert.True(t, errors.Is(err, ErrNilGrid))
}

func TestParseOp(t *testing.T) {
	t.Parallel()

	cases := map[string]Op{
		"dilate":   OpDilate,
		"Erosion":  OpErode,
		" open ":   OpOpen,
		"CLOSE":    OpClose,
		"dilation": OpDilate,
	}
	for in, want := range cases {
		got, err := ParseOp(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseOp("skeletonize")
	assert.True(t, errors.Is(err, ErrUnknownOp))

	_, err = Apply(Op(42), grid.MustEmpty(1, 1), grid.MustEmpty(1, 1))
	assert.True(t, errors.Is(err, ErrUnknownOp))
	assert.Equal(t, "Op(42)", Op(42).String())
}
