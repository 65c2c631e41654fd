// Package gridplot renders grids as images (gonum/plot heatmaps) and
// interactive HTML charts (go-echarts) for inspecting morphology results.
package gridplot

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/binmorph/internal/grid"
)

// ErrEmptyGrid is returned when asked to plot a grid with no cells.
var ErrEmptyGrid = errors.New("gridplot: grid has no cells")

// cellSize is the rendered edge length of one pixel in the PNG output.
const cellSize = 12 * vg.Millimeter / 4

var (
	setColor   = color.RGBA{R: 0xfd, G: 0xe7, B: 0x25, A: 0xff}
	unsetColor = color.RGBA{R: 0x44, G: 0x01, B: 0x54, A: 0xff}
)

// ToDense returns g as a height x width matrix holding 1 for set pixels and
// 0 for unset ones. Returns nil for a grid with no cells, which mat.Dense
// cannot represent.
func ToDense(g *grid.Grid) *mat.Dense {
	if g.Len() == 0 {
		return nil
	}
	m := mat.NewDense(g.Height(), g.Width(), nil)
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if g.Get(x, y) {
				m.Set(y, x, 1)
			}
		}
	}
	return m
}

// denseXYZ adapts a matrix to plotter.GridXYZ. Row 0 of the matrix is drawn
// at the top: the Y value of image row y is -y.
type denseXYZ struct {
	m *mat.Dense
}

func (d denseXYZ) Dims() (c, r int) {
	rows, cols := d.m.Dims()
	return cols, rows
}

func (d denseXYZ) Z(c, r int) float64 {
	rows, _ := d.m.Dims()
	return d.m.At(rows-1-r, c)
}

func (d denseXYZ) X(c int) float64 { return float64(c) }

func (d denseXYZ) Y(r int) float64 {
	rows, _ := d.m.Dims()
	return -float64(rows - 1 - r)
}

// twoTone is a palette.Palette of the unset and set colours.
type twoTone []color.Color

func (p twoTone) Colors() []color.Color { return p }

// SavePNG writes a heatmap of g to path. The file extension selects the
// format (png, svg, pdf, ...), as with plot.Save.
func SavePNG(g *grid.Grid, title, path string) error {
	m := ToDense(g)
	if m == nil {
		return ErrEmptyGrid
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "-y"

	hm := plotter.NewHeatMap(denseXYZ{m: m}, twoTone{unsetColor, setColor})
	// Fix the range so uniform grids still map onto the palette.
	hm.Min = 0
	hm.Max = 1
	p.Add(hm)

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}

	w := vg.Length(g.Width())*cellSize + vg.Inch
	h := vg.Length(g.Height())*cellSize + vg.Inch
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("save grid plot: %w", err)
	}
	return nil
}

// WriteHTML renders the set pixels of g as a go-echarts scatter chart.
func WriteHTML(g *grid.Grid, title string, w io.Writer) error {
	if g.Len() == 0 {
		return ErrEmptyGrid
	}

	data := make([]opts.ScatterData, 0, g.Count())
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if g.Get(x, y) {
				data = append(data, opts.ScatterData{Value: []interface{}{x, -y}})
			}
		}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("%dx%d set=%d", g.Width(), g.Height(), len(data))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: 0, Max: g.Width() - 1, Name: "x", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -(g.Height() - 1), Max: 0, Name: "-y", NameLocation: "middle", NameGap: 30}),
	)
	scatter.AddSeries("set", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 10}))

	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
