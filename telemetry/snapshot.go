package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/blips/blip"
	"github.com/pthm-cable/blips/neural"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the complete simulation state for offline comparison.
// Food cells are raw fixed-point values so two snapshots diff exactly.
type Snapshot struct {
	Version int    `json:"version"`
	Seed    uint64 `json:"seed"`
	Salt    uint64 `json:"salt"`

	Tick int64   `json:"tick"`
	Time float64 `json:"time"`

	FoodWidth  int     `json:"food_width"`
	FoodHeight int     `json:"food_height"`
	Food       []int64 `json:"food"`

	Blips []BlipState `json:"blips"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// BlipState holds one blip's complete state.
type BlipState struct {
	Handle int `json:"handle"`

	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	VelX    float64 `json:"vel_x"`
	VelY    float64 `json:"vel_y"`
	Heading float64 `json:"heading"`

	HP         float64 `json:"hp"`
	Age        float64 `json:"age"`
	Generation int     `json:"generation"`
	Children   int     `json:"children"`
	Parent     int     `json:"parent"`
	Spike      float64 `json:"spike"`
	Speed      float64 `json:"speed"`
	Eaten      int64   `json:"eaten"`

	Color [3]float64 `json:"color"`

	Brain neural.BrainWeights `json:"brain"`
}

// NewBlipState captures the blip at handle h.
func NewBlipState(h int, b *blip.Blip) BlipState {
	s := BlipState{
		Handle:     h,
		X:          b.Pos.X,
		Y:          b.Pos.Y,
		VelX:       b.Vel.X,
		VelY:       b.Vel.Y,
		Heading:    b.Heading,
		HP:         b.HP,
		Age:        b.Age,
		Generation: b.Generation,
		Children:   b.Children,
		Parent:     b.Parent,
		Spike:      b.Spike,
		Speed:      b.Speed,
		Eaten:      int64(b.Eaten),
		Color:      [3]float64{b.Color.R, b.Color.G, b.Color.B},
	}
	if b.Brain != nil {
		s.Brain = b.Brain.Weights()
	}
	return s
}

// SnapshotName returns the file name SaveSnapshot uses.
func SnapshotName(s *Snapshot) string {
	name := fmt.Sprintf("snapshot_%d", s.Tick)
	if s.Bookmark != nil {
		name += "_" + strings.ReplaceAll(string(s.Bookmark.Type), " ", "_")
	}
	return name + ".json"
}

// SaveSnapshot writes a snapshot into dir under SnapshotName.
// Returns the filepath where it was saved.
func SaveSnapshot(s *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}
	path := filepath.Join(dir, SnapshotName(s))
	if err := WriteSnapshot(s, path); err != nil {
		return "", err
	}
	return path, nil
}

// WriteSnapshot writes a snapshot to path.
func WriteSnapshot(s *Snapshot, path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", s.Version, SnapshotVersion)
	}
	return &s, nil
}
