package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/binmorph/internal/morph"
)

// DefaultConfigPath is the path to the canonical run defaults file.
const DefaultConfigPath = "config/binmorph.defaults.json"

// Point is a pixel coordinate in a config file.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// RunConfig describes one morphology run: the input grid, the seeded pixels,
// the kernel and the operation. Unset fields fall back to the Get* defaults,
// which reproduce the sample 10x20 grid seeded at index 44 and dilated with
// a 5x5 kernel.
type RunConfig struct {
	Width       *int    `json:"width,omitempty"`
	Height      *int    `json:"height,omitempty"`
	Seeds       []Point `json:"seeds,omitempty"`
	SeedIndices []int   `json:"seed_indices,omitempty"`

	KernelWidth  *int    `json:"kernel_width,omitempty"`
	KernelHeight *int    `json:"kernel_height,omitempty"`
	Operation    *string `json:"operation,omitempty"`
	Workers      *int    `json:"workers,omitempty"`

	// Output params
	PNGPath  *string `json:"png_path,omitempty"`
	HTMLPath *string `json:"html_path,omitempty"`
	DBPath   *string `json:"db_path,omitempty"`
	Label    *string `json:"label,omitempty"`
}

func ptrInt(v int) *int          { return &v }
func ptrString(v string) *string { return &v }

// DefaultRunConfig returns a RunConfig with the scalar defaults populated.
// Seeds are left empty so GetSeedIndices supplies index 44 only when no
// other seed is configured.
func DefaultRunConfig() *RunConfig {
	return &RunConfig{
		Width:        ptrInt(10),
		Height:       ptrInt(20),
		KernelWidth:  ptrInt(5),
		KernelHeight: ptrInt(5),
		Operation:    ptrString("dilate"),
		Workers:      ptrInt(1),
	}
}

// LoadRunConfig loads a RunConfig from a JSON file. Fields omitted from the
// file stay nil and resolve through the Get* defaults.
func LoadRunConfig(path string) (*RunConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &RunConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching parent
// directories so tests can call it from any package. Panics if not found.
func MustLoadDefaultConfig() *RunConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadRunConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are usable.
func (c *RunConfig) Validate() error {
	for name, v := range map[string]*int{
		"width":         c.Width,
		"height":        c.Height,
		"kernel_width":  c.KernelWidth,
		"kernel_height": c.KernelHeight,
		"workers":       c.Workers,
	} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%s must be non-negative, got %d", name, *v)
		}
	}

	if c.Operation != nil {
		if _, err := morph.ParseOp(*c.Operation); err != nil {
			return fmt.Errorf("invalid operation: %w", err)
		}
	}

	width, height := c.GetWidth(), c.GetHeight()
	for _, p := range c.Seeds {
		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			return fmt.Errorf("seed (%d, %d) outside %dx%d grid", p.X, p.Y, width, height)
		}
	}
	for _, i := range c.SeedIndices {
		if i < 0 || i >= width*height {
			return fmt.Errorf("seed index %d outside %dx%d grid", i, width, height)
		}
	}
	return nil
}

// GetWidth returns the width value or the default.
func (c *RunConfig) GetWidth() int {
	if c.Width == nil {
		return 10
	}
	return *c.Width
}

// GetHeight returns the height value or the default.
func (c *RunConfig) GetHeight() int {
	if c.Height == nil {
		return 20
	}
	return *c.Height
}

// GetSeedIndices returns the flat seed indices. With no seeds of either kind
// configured it returns the default index 44.
func (c *RunConfig) GetSeedIndices() []int {
	if len(c.SeedIndices) == 0 && len(c.Seeds) == 0 {
		return []int{44}
	}
	return c.SeedIndices
}

// GetKernelWidth returns the kernel_width value or the default.
func (c *RunConfig) GetKernelWidth() int {
	if c.KernelWidth == nil {
		return 5
	}
	return *c.KernelWidth
}

// GetKernelHeight returns the kernel_height value or the default.
func (c *RunConfig) GetKernelHeight() int {
	if c.KernelHeight == nil {
		return 5
	}
	return *c.KernelHeight
}

// GetOperation returns the configured operation, defaulting to dilation.
// An unparseable name also yields dilation; Validate reports it.
func (c *RunConfig) GetOperation() morph.Op {
	if c.Operation == nil {
		return morph.OpDilate
	}
	op, err := morph.ParseOp(*c.Operation)
	if err != nil {
		return morph.OpDilate
	}
	return op
}

// GetWorkers returns the workers value or the default.
func (c *RunConfig) GetWorkers() int {
	if c.Workers == nil {
		return 1
	}
	return *c.Workers
}

// GetPNGPath returns the png_path value, empty when unset.
func (c *RunConfig) GetPNGPath() string {
	if c.PNGPath == nil {
		return ""
	}
	return *c.PNGPath
}

// GetHTMLPath returns the html_path value, empty when unset.
func (c *RunConfig) GetHTMLPath() string {
	if c.HTMLPath == nil {
		return ""
	}
	return *c.HTMLPath
}

// GetDBPath returns the db_path value, empty when unset.
func (c *RunConfig) GetDBPath() string {
	if c.DBPath == nil {
		return ""
	}
	return *c.DBPath
}

// GetLabel returns the snapshot label, defaulting to "binmorph".
func (c *RunConfig) GetLabel() string {
	if c.Label == nil || *c.Label == "" {
		return "binmorph"
	}
	return *c.Label
}
