package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
)

func TestParse_Defaults(t *testing.T) {
	for _, data := range []string{"", "max_bones: 0\n"} {
		cfg, err := Parse([]byte(data))
		if err != nil {
			t.Fatalf("Parse(%q): %v", data, err)
		}
		if *cfg != *Default() {
			t.Errorf("Parse(%q) =\n%s; expected defaults", data, spew.Sdump(cfg))
		}
	}
}

func TestParse_Values(t *testing.T) {
	data := `
max_bones: 64
default_ticks_per_second: 30
compute_workers: 4
tick_rate: 120
profiling: true
log_level: debug
skinning_binding: 2
`
	cfg, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := Config{
		MaxBones:              64,
		DefaultTicksPerSecond: 30,
		ComputeWorkers:        4,
		TickRate:              120,
		Profiling:             true,
		LogLevel:              "debug",
		SkinningBinding:       2,
	}
	if *cfg != want {
		t.Errorf("Parse =\n%s; expected\n%s", spew.Sdump(cfg), spew.Sdump(want))
	}
	if got := cfg.TickInterval(); got != time.Second/120 {
		t.Errorf("TickInterval = %v; expected %v", got, time.Second/120)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"negative bones", "max_bones: -1\n"},
		{"negative tps", "default_ticks_per_second: -5\n"},
		{"negative workers", "compute_workers: -2\n"},
		{"negative tick rate", "tick_rate: -60\n"},
		{"negative binding", "skinning_binding: -1\n"},
		{"bad level", "log_level: loud\n"},
		{"unknown key", "max_bonez: 10\n"},
		{"bad yaml", "max_bones: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if cfg, err := Parse([]byte(tt.data)); err == nil {
				t.Errorf("expected an error; got\n%s", spew.Sdump(cfg))
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	if err := os.WriteFile(path, []byte("tick_rate: 30\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TickRate != 30 || cfg.MaxBones != 100 {
		t.Errorf("Load =\n%s; expected tick_rate 30 with default max_bones", spew.Sdump(cfg))
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}
