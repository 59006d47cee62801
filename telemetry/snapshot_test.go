package telemetry

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/pthm-cable/blips/blip"
	"github.com/pthm-cable/blips/components"
	"github.com/pthm-cable/blips/fixed"
	"github.com/pthm-cable/blips/neural"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	b := blip.Blip{
		Status: components.Status{
			Pos:        components.Position{X: 150.25, Y: 250},
			Vel:        components.Velocity{X: 0.5, Y: -0.3},
			Heading:    1.2,
			HP:         7.75,
			Age:        30.5,
			Generation: 4,
			Children:   2,
			Parent:     11,
			Spike:      0.1,
			Speed:      0.58,
			Eaten:      fixed.FromFloat(0.06),
		},
		Color: components.Color{R: 0.2, G: 0.4, B: 0.9},
		Brain: neural.NewBigBrain(rand.New(rand.NewPCG(1, 2))),
	}

	snapshot := &Snapshot{
		Version:    SnapshotVersion,
		Seed:       1234,
		Salt:       0xdeadbeefcafef00d,
		Tick:       1000,
		Time:       20.000000000000004,
		FoodWidth:  2,
		FoodHeight: 1,
		Food:       []int64{int64(fixed.FromFloat(3.5)), -1},
		Blips:      []BlipState{NewBlipState(7, &b)},
		Bookmark: &Bookmark{
			Type:        BookmarkFamine,
			Tick:        1000,
			Description: "Test bookmark",
		},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Snapshot file not created at %s", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if loaded.Seed != snapshot.Seed || loaded.Salt != snapshot.Salt {
		t.Errorf("seed/salt mismatch: got %d/%x", loaded.Seed, loaded.Salt)
	}
	if loaded.Time != snapshot.Time {
		t.Errorf("Time mismatch: got %v, want %v", loaded.Time, snapshot.Time)
	}
	if !slices.Equal(loaded.Food, snapshot.Food) {
		t.Errorf("Food mismatch: got %v, want %v", loaded.Food, snapshot.Food)
	}
	if len(loaded.Blips) != 1 {
		t.Fatalf("Blips count mismatch: got %d, want 1", len(loaded.Blips))
	}
	got, want := loaded.Blips[0], snapshot.Blips[0]
	if got.Handle != 7 || got.X != want.X || got.HP != want.HP || got.Eaten != want.Eaten || got.Parent != 11 {
		t.Errorf("blip mismatch: got %+v", got)
	}
	if !slices.Equal(got.Brain.Weights, want.Brain.Weights) || !slices.Equal(got.Brain.Biases, want.Brain.Biases) {
		t.Error("brain weights did not survive the round trip exactly")
	}
	if got.Brain.Kind != "big" {
		t.Errorf("brain kind = %q, want big", got.Brain.Kind)
	}
	if loaded.Bookmark == nil || loaded.Bookmark.Type != BookmarkFamine {
		t.Errorf("Bookmark not loaded: %+v", loaded.Bookmark)
	}
}

func TestSnapshotFilename(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name     string
		snapshot *Snapshot
		want     string
	}{
		{
			"with bookmark",
			&Snapshot{Version: SnapshotVersion, Tick: 5000, Bookmark: &Bookmark{Type: BookmarkPopulationCrash, Tick: 5000}},
			"snapshot_5000_population_crash.json",
		},
		{
			"without bookmark",
			&Snapshot{Version: SnapshotVersion, Tick: 3000},
			"snapshot_3000.json",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := SaveSnapshot(tt.snapshot, tmpDir)
			if err != nil {
				t.Fatalf("SaveSnapshot failed: %v", err)
			}
			if want := filepath.Join(tmpDir, tt.want); path != want {
				t.Errorf("Path mismatch: got %s, want %s", path, want)
			}
		})
	}
}

func TestLoadSnapshotRejectsVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	if err := os.WriteFile(path, []byte(`{"version": 99}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(path); err == nil {
		t.Error("expected version error")
	}
}

func TestOutputManager(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for i := range 3 {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: int64(i), Blips: 10 + i}); err != nil {
			t.Fatalf("WriteTelemetry: %v", err)
		}
	}
	if err := om.WritePerf(PerfStats{}, 2); err != nil {
		t.Fatalf("WritePerf: %v", err)
	}
	if err := om.WriteBookmark(Bookmark{Type: BookmarkFamine, Tick: 2, Description: "low"}); err != nil {
		t.Fatalf("WriteBookmark: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Errorf("telemetry.csv has %d lines, want header plus 3 rows:\n%s", len(lines), data)
	}
	for _, name := range []string{"perf.csv", "bookmarks.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestNilOutputManager(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("empty dir should disable output, got %v, %v", om, err)
	}
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}
