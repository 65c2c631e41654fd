// Command binmorph builds a binary grid, seeds pixels, applies a
// morphological operation with a filled rectangular kernel and prints the
// result. With no flags it dilates a 10x20 grid seeded at index 44 with a
// 5x5 kernel.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/banshee-data/binmorph/internal/config"
	"github.com/banshee-data/binmorph/internal/grid"
	"github.com/banshee-data/binmorph/internal/gridplot"
	"github.com/banshee-data/binmorph/internal/monitoring"
	"github.com/banshee-data/binmorph/internal/morph"
	"github.com/banshee-data/binmorph/internal/store"
	"github.com/banshee-data/binmorph/internal/version"
)

// pointList collects repeatable "x,y" flags.
type pointList []config.Point

func (p *pointList) String() string {
	parts := make([]string, len(*p))
	for i, pt := range *p {
		parts[i] = fmt.Sprintf("%d,%d", pt.X, pt.Y)
	}
	return strings.Join(parts, " ")
}

func (p *pointList) Set(s string) error {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return fmt.Errorf("expected x,y, got %q", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return fmt.Errorf("bad x in %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return fmt.Errorf("bad y in %q: %w", s, err)
	}
	*p = append(*p, config.Point{X: x, Y: y})
	return nil
}

// indexList collects repeatable flat-index flags.
type indexList []int

func (l *indexList) String() string { return fmt.Sprint([]int(*l)) }

func (l *indexList) Set(s string) error {
	i, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("bad index %q: %w", s, err)
	}
	*l = append(*l, i)
	return nil
}

// parseKernelSize parses "WxH", or a single "N" for an NxN kernel.
func parseKernelSize(s string) (w, h int, err error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		hs = ws
	}
	if w, err = strconv.Atoi(ws); err != nil {
		return 0, 0, fmt.Errorf("bad kernel width in %q: %w", s, err)
	}
	if h, err = strconv.Atoi(hs); err != nil {
		return 0, 0, fmt.Errorf("bad kernel height in %q: %w", s, err)
	}
	return w, h, nil
}

var (
	configFile = flag.String("config", "", "Path to a JSON run config")
	width      = flag.Int("width", 10, "Grid width")
	height     = flag.Int("height", 20, "Grid height")
	kernelSize = flag.String("kernel", "5x5", "Kernel size as WxH")
	operation  = flag.String("op", "dilate", "Operation: dilate, erode, open or close")
	workers    = flag.Int("workers", 1, "Number of row bands computed in parallel")
	pngPath    = flag.String("png", "", "Write a heatmap of the result to this path")
	htmlPath   = flag.String("html", "", "Write an HTML chart of the result to this path")
	dbPath     = flag.String("db", "", "Store input and result snapshots in this SQLite database")
	label      = flag.String("label", "", "Snapshot label")
	quiet      = flag.Bool("quiet", false, "Suppress diagnostic logging")
	showVer    = flag.Bool("version", false, "Print version and exit")
	seeds      pointList
	indices    indexList
)

func init() {
	flag.Var(&seeds, "seed", "Pixel to set as x,y (repeatable)")
	flag.Var(&indices, "index", "Flat row-major index to set (repeatable)")
}

// applyFlags overrides cfg with every flag the user set explicitly.
func applyFlags(cfg *config.RunConfig, set map[string]bool) error {
	if set["width"] {
		cfg.Width = width
	}
	if set["height"] {
		cfg.Height = height
	}
	if set["kernel"] {
		w, h, err := parseKernelSize(*kernelSize)
		if err != nil {
			return err
		}
		cfg.KernelWidth, cfg.KernelHeight = &w, &h
	}
	if set["op"] {
		cfg.Operation = operation
	}
	if set["workers"] {
		cfg.Workers = workers
	}
	if set["png"] {
		cfg.PNGPath = pngPath
	}
	if set["html"] {
		cfg.HTMLPath = htmlPath
	}
	if set["db"] {
		cfg.DBPath = dbPath
	}
	if set["label"] {
		cfg.Label = label
	}
	if set["seed"] {
		cfg.Seeds = seeds
		if !set["index"] {
			cfg.SeedIndices = nil
		}
	}
	if set["index"] {
		cfg.SeedIndices = indices
	}
	return cfg.Validate()
}

// buildInput creates the input grid and seeds it from cfg.
func buildInput(cfg *config.RunConfig) (*grid.Grid, error) {
	g, err := grid.Empty(cfg.GetWidth(), cfg.GetHeight())
	if err != nil {
		return nil, fmt.Errorf("input grid: %w", err)
	}
	for _, i := range cfg.GetSeedIndices() {
		g.SetIndex(i, true)
	}
	for _, p := range cfg.Seeds {
		g.Set(p.X, p.Y, true)
	}
	return g, nil
}

// run executes one configured morphology run and writes the text renderings
// to w.
func run(ctx context.Context, cfg *config.RunConfig, w io.Writer) error {
	input, err := buildInput(cfg)
	if err != nil {
		return err
	}
	kernel, err := grid.Filled(cfg.GetKernelWidth(), cfg.GetKernelHeight())
	if err != nil {
		return fmt.Errorf("kernel grid: %w", err)
	}

	op := cfg.GetOperation()
	output, err := morph.NewEngine(cfg.GetWorkers()).Run(ctx, op, input, kernel)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	fmt.Fprintf(w, "input %dx%d:\n%s\n", input.Width(), input.Height(), input)
	fmt.Fprintf(w, "%s with %dx%d kernel:\n%s", op, kernel.Width(), kernel.Height(), output)

	title := fmt.Sprintf("%s %dx%d", op, kernel.Width(), kernel.Height())
	if path := cfg.GetPNGPath(); path != "" {
		if err := gridplot.SavePNG(output, title, path); err != nil {
			return err
		}
		monitoring.Logf("Wrote heatmap to %s", path)
	}
	if path := cfg.GetHTMLPath(); path != "" {
		if err := writeHTML(output, title, path); err != nil {
			return err
		}
		monitoring.Logf("Wrote chart to %s", path)
	}
	if path := cfg.GetDBPath(); path != "" {
		if err := saveSnapshots(path, cfg.GetLabel(), op, input, output, kernel); err != nil {
			return err
		}
	}
	return nil
}

func writeHTML(g *grid.Grid, title, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := gridplot.WriteHTML(g, title, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func saveSnapshots(path, label string, op morph.Op, input, output, kernel *grid.Grid) error {
	s, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}
	defer s.Close()

	if _, err := s.SaveGrid(label, "input", input, nil); err != nil {
		return err
	}
	if _, err := s.SaveGrid(label, op.String(), output, kernel); err != nil {
		return err
	}
	return nil
}

func main() {
	flag.Parse()

	if *showVer {
		fmt.Println(version.String())
		return
	}

	if *quiet {
		monitoring.SetLogger(nil)
	}

	cfg := config.DefaultRunConfig()
	if *configFile != "" {
		loaded, err := config.LoadRunConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if err := applyFlags(cfg, set); err != nil {
		log.Fatalf("Invalid arguments: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdout); err != nil {
		log.Fatalf("binmorph: %v", err)
	}
}
