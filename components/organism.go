package components

import "github.com/pthm-cable/blips/fixed"

// Parent values that are not handles.
const (
	NoParent   = -1 // founder
	ParentGone = -2 // parent died and its slot was compacted away
)

// Status tracks a blip's physiological state and lineage.
type Status struct {
	Pos     Position
	Vel     Velocity
	Heading float64 // radians

	HP         float64 // removed when it reaches zero
	Age        float64 // seconds alive
	Generation int     // founders are generation 0
	Children   int     // number of spawns produced
	Parent     int     // current handle of the parent, NoParent or ParentGone

	// Read by neighbours next tick.
	Spike float64 // last spike output
	Speed float64 // world units per second

	// Food consumed during the last decision.
	Eaten fixed.Rat
}
