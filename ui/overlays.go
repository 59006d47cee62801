package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayFood      OverlayID = "food"
	OverlayRanges    OverlayID = "ranges"
	OverlayInspector OverlayID = "inspector"
	OverlayPerf      OverlayID = "perf"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID       OverlayID
	Name     string
	Key      int32  // keyboard toggle, 0 for none
	KeyLabel string // shown next to the name
}

// OverlayRegistry keeps overlay state in registration order.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with the standard overlays. Food
// and the inspector start enabled.
func NewOverlayRegistry() *OverlayRegistry {
	r := &OverlayRegistry{enabled: make(map[OverlayID]bool)}
	r.Register(OverlayDescriptor{ID: OverlayFood, Name: "Food", Key: rl.KeyF, KeyLabel: "F"})
	r.Register(OverlayDescriptor{ID: OverlayRanges, Name: "Sense ranges", Key: rl.KeyR, KeyLabel: "R"})
	r.Register(OverlayDescriptor{ID: OverlayInspector, Name: "Inspector", Key: rl.KeyI, KeyLabel: "I"})
	r.Register(OverlayDescriptor{ID: OverlayPerf, Name: "Phase timings", Key: rl.KeyP, KeyLabel: "P"})
	r.SetEnabled(OverlayFood, true)
	r.SetEnabled(OverlayInspector, true)
	return r
}

// Register adds an overlay, initially disabled.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.enabled[desc.ID] = false
}

// Toggle flips an overlay and returns its new state.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	r.enabled[id] = !r.enabled[id]
	return r.enabled[id]
}

// SetEnabled sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	r.enabled[id] = enabled
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// All returns all overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// HandleKeys toggles every overlay whose key was pressed this frame.
func (r *OverlayRegistry) HandleKeys() {
	for _, desc := range r.descriptors {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			r.Toggle(desc.ID)
		}
	}
}
