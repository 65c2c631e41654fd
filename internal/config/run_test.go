package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/binmorph/internal/morph"
)

func TestDefaultRunConfig(t *testing.T) {
	cfg := DefaultRunConfig()

	if cfg.Width == nil || *cfg.Width != 10 {
		t.Errorf("Expected Width 10, got %v", cfg.Width)
	}
	if cfg.Height == nil || *cfg.Height != 20 {
		t.Errorf("Expected Height 20, got %v", cfg.Height)
	}
	if cfg.GetKernelWidth() != 5 || cfg.GetKernelHeight() != 5 {
		t.Errorf("Expected 5x5 kernel, got %dx%d", cfg.GetKernelWidth(), cfg.GetKernelHeight())
	}
	if cfg.GetOperation() != morph.OpDilate {
		t.Errorf("GetOperation() = %v, want dilate", cfg.GetOperation())
	}
	if got := cfg.GetSeedIndices(); len(got) != 1 || got[0] != 44 {
		t.Errorf("GetSeedIndices() = %v, want [44]", got)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestEmptyConfigGetters(t *testing.T) {
	cfg := &RunConfig{}

	if cfg.GetWidth() != 10 || cfg.GetHeight() != 20 {
		t.Errorf("unexpected default size %dx%d", cfg.GetWidth(), cfg.GetHeight())
	}
	if cfg.GetWorkers() != 1 {
		t.Errorf("GetWorkers() = %d, want 1", cfg.GetWorkers())
	}
	if cfg.GetPNGPath() != "" || cfg.GetHTMLPath() != "" || cfg.GetDBPath() != "" {
		t.Error("output paths should default to empty")
	}
	if cfg.GetLabel() != "binmorph" {
		t.Errorf("GetLabel() = %q, want binmorph", cfg.GetLabel())
	}

	cfg.Seeds = []Point{{X: 1, Y: 1}}
	if got := cfg.GetSeedIndices(); len(got) != 0 {
		t.Errorf("explicit seeds should suppress the default index, got %v", got)
	}

	bad := "bogus"
	cfg.Operation = &bad
	if cfg.GetOperation() != morph.OpDilate {
		t.Errorf("unparseable operation should fall back to dilate")
	}
}

func TestLoadRunConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "run.json")

	testJSON := `{
  "width": 32,
  "height": 16,
  "seeds": [{"x": 3, "y": 4}],
  "kernel_width": 3,
  "operation": "erode",
  "workers": 4,
  "png_path": "out.png",
  "label": "sample"
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadRunConfig(configPath)
	if err != nil {
		t.Fatalf("LoadRunConfig failed: %v", err)
	}

	if cfg.GetWidth() != 32 || cfg.GetHeight() != 16 {
		t.Errorf("size = %dx%d, want 32x16", cfg.GetWidth(), cfg.GetHeight())
	}
	if cfg.GetKernelWidth() != 3 {
		t.Errorf("GetKernelWidth() = %d, want 3", cfg.GetKernelWidth())
	}
	// Omitted fields keep their defaults.
	if cfg.GetKernelHeight() != 5 {
		t.Errorf("GetKernelHeight() = %d, want default 5", cfg.GetKernelHeight())
	}
	if cfg.GetOperation() != morph.OpErode {
		t.Errorf("GetOperation() = %v, want erode", cfg.GetOperation())
	}
	if cfg.GetWorkers() != 4 {
		t.Errorf("GetWorkers() = %d, want 4", cfg.GetWorkers())
	}
	if len(cfg.Seeds) != 1 || cfg.Seeds[0] != (Point{X: 3, Y: 4}) {
		t.Errorf("Seeds = %v", cfg.Seeds)
	}
	if cfg.GetPNGPath() != "out.png" || cfg.GetLabel() != "sample" {
		t.Errorf("unexpected outputs %q %q", cfg.GetPNGPath(), cfg.GetLabel())
	}
}

func TestLoadRunConfig_Errors(t *testing.T) {
	tmpDir := t.TempDir()

	write := func(name, body string) string {
		p := filepath.Join(tmpDir, name)
		if err := os.WriteFile(p, []byte(body), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		return p
	}

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"wrong extension", write("run.yaml", "{}"), ".json extension"},
		{"missing file", filepath.Join(tmpDir, "nope.json"), "failed to stat"},
		{"bad json", write("bad.json", "{"), "failed to parse"},
		{"negative width", write("neg.json", `{"width": -1}`), "width must be non-negative"},
		{"unknown op", write("op.json", `{"operation": "thin"}`), "invalid operation"},
		{"seed outside", write("seed.json", `{"width": 4, "height": 4, "seeds": [{"x": 4, "y": 0}]}`), "outside 4x4"},
		{"index outside", write("idx.json", `{"width": 4, "height": 4, "seed_indices": [16]}`), "seed index 16"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadRunConfig(tc.path)
			if err == nil {
				t.Fatalf("expected error containing %q", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not contain %q", err, tc.wantErr)
			}
		})
	}
}

func TestLoadRunConfig_TooLarge(t *testing.T) {
	p := filepath.Join(t.TempDir(), "big.json")
	if err := os.WriteFile(p, make([]byte, 1024*1024+1), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRunConfig(p); err == nil || !strings.Contains(err.Error(), "too large") {
		t.Errorf("expected too large error, got %v", err)
	}
}

func TestMustLoadDefaultConfig(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	if cfg.GetWidth() != 10 || cfg.GetHeight() != 20 {
		t.Errorf("defaults file size = %dx%d, want 10x20", cfg.GetWidth(), cfg.GetHeight())
	}
	if got := cfg.GetSeedIndices(); len(got) != 1 || got[0] != 44 {
		t.Errorf("defaults file seeds = %v", got)
	}
}
