package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/blips/fixed"
	"github.com/pthm-cable/blips/neural"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if cfg.Derived.WorldW != float64(cfg.World.FoodWidth)*cfg.World.CellSize {
		t.Errorf("WorldW = %v", cfg.Derived.WorldW)
	}
	if cfg.Derived.Cells != cfg.World.FoodWidth*cfg.World.FoodHeight {
		t.Errorf("Cells = %d", cfg.Derived.Cells)
	}
	if cfg.Derived.ClampMin != fixed.FromInt(-1) || cfg.Derived.ClampMax != fixed.FromInt(12) {
		t.Errorf("clamp = [%v, %v], want [-1, 12]", cfg.Derived.ClampMin, cfg.Derived.ClampMax)
	}
	if cfg.Derived.IndexCellSize != cfg.Blip.HearingRange {
		t.Errorf("IndexCellSize = %v, want hearing range %v", cfg.Derived.IndexCellSize, cfg.Blip.HearingRange)
	}
	if r := cfg.Mutation.WeightScale / cfg.Mutation.BiasScale; r < 9.99 || r > 10.01 {
		t.Errorf("bias scale %v should be a tenth of weight scale %v", cfg.Mutation.BiasScale, cfg.Mutation.WeightScale)
	}
	if cfg.Population.Floor > cfg.Population.Initial {
		t.Errorf("floor %d above initial population %d", cfg.Population.Floor, cfg.Population.Initial)
	}
}

func TestLoadOverlay(t *testing.T) {
	path := writeFile(t, `
world:
  food_width: 10
neural:
  brain: simple
mutation:
  distribution: gaussian
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.World.FoodWidth != 10 {
		t.Errorf("FoodWidth = %d, want 10", cfg.World.FoodWidth)
	}
	if cfg.World.FoodHeight != Default().World.FoodHeight {
		t.Error("overlay reset a field it did not mention")
	}
	if cfg.Derived.BrainKind != neural.KindSimple {
		t.Errorf("BrainKind = %v, want simple", cfg.Derived.BrainKind)
	}
	if cfg.Derived.Distribution != neural.DistGaussian {
		t.Errorf("Distribution = %v, want gaussian", cfg.Derived.Distribution)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"zero grid", "world:\n  food_width: 0\n", "food grid"},
		{"inverted clamp", "food:\n  clamp_min: 5\n  clamp_max: 1\n", "clamp_min"},
		{"inverted deposit", "food:\n  replenish_min: 6\n  replenish_max: 2\n", "replenish_min"},
		{"bad brain", "neural:\n  brain: huge\n", "neural.brain"},
		{"bad distribution", "mutation:\n  distribution: cauchy\n", "mutation.distribution"},
		{"bad dt", "physics:\n  dt: 0\n", "physics.dt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Population.Floor = 17
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load written config: %v", err)
	}
	if back.Population.Floor != 17 || back.Blip != cfg.Blip {
		t.Error("written config did not load back identically")
	}
}

func TestCfgBeforeInitPanics(t *testing.T) {
	saved := global
	global = nil
	defer func() {
		global = saved
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	Cfg()
}
