package systems

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/pthm-cable/blips/components"
	"github.com/pthm-cable/blips/fixed"
)

// FoodGrid is a fixed W×H field of lock-free food cells. Any number of
// goroutines may Add concurrently; the final value of a cell is the same for
// every interleaving because each Add is a single atomic read-modify-write
// of an associative fixed-point value.
type FoodGrid struct {
	W, H  int
	cells []atomic.Int64
}

// NewFoodGrid creates a grid with every cell at zero.
func NewFoodGrid(w, h int) *FoodGrid {
	if w <= 0 || h <= 0 {
		panic(fmt.Sprintf("systems: invalid food grid size %dx%d", w, h))
	}
	g := &FoodGrid{W: w, H: h, cells: make([]atomic.Int64, w*h)}
	for i := range g.cells {
		g.cells[i].Store(int64(fixed.Zero))
	}
	return g
}

func (g *FoodGrid) index(x, y int) int {
	if x < 0 || x >= g.W || y < 0 || y >= g.H {
		panic(fmt.Sprintf("systems: food cell (%d,%d) outside %dx%d grid", x, y, g.W, g.H))
	}
	return y*g.W + x
}

// Add accumulates amount into cell (x, y). Safe for concurrent use.
func (g *FoodGrid) Add(x, y int, amount fixed.Rat) {
	g.cells[g.index(x, y)].Add(int64(amount))
}

// Set overwrites cell (x, y). Only for initialization and serial phases.
func (g *FoodGrid) Set(x, y int, v fixed.Rat) {
	g.cells[g.index(x, y)].Store(int64(v))
}

// Get returns the live, unclamped value of cell (x, y).
func (g *FoodGrid) Get(x, y int) fixed.Rat {
	return fixed.Rat(g.cells[g.index(x, y)].Load())
}

// Total sums every live cell.
func (g *FoodGrid) Total() fixed.Rat {
	var sum fixed.Rat
	for i := range g.cells {
		sum = sum.Add(fixed.Rat(g.cells[i].Load()))
	}
	return sum
}

// Cells copies the raw cell values in row-major order.
func (g *FoodGrid) Cells() []fixed.Rat {
	out := make([]fixed.Rat, len(g.cells))
	for i := range g.cells {
		out[i] = fixed.Rat(g.cells[i].Load())
	}
	return out
}

// Clone returns an independent copy. Must not race with Add.
func (g *FoodGrid) Clone() *FoodGrid {
	c := NewFoodGrid(g.W, g.H)
	for i := range g.cells {
		c.cells[i].Store(g.cells[i].Load())
	}
	return c
}

// Equal reports whether both grids hold identical cell values.
func (g *FoodGrid) Equal(o *FoodGrid) bool {
	if g.W != o.W || g.H != o.H {
		return false
	}
	for i := range g.cells {
		if g.cells[i].Load() != o.cells[i].Load() {
			return false
		}
	}
	return true
}

// Snapshot clamps every cell into [lo, hi] and returns the result as an
// immutable grid. The live cells are left untouched. Panics if a cell has
// overflowed the fixed-point domain.
// Must run serially, before any goroutine starts adding.
func (g *FoodGrid) Snapshot(lo, hi fixed.Rat) *FoodSnapshot {
	s := &FoodSnapshot{W: g.W, H: g.H, vals: make([]fixed.Rat, len(g.cells))}
	for i := range g.cells {
		s.vals[i] = fixed.Rat(g.cells[i].Load()).Clamp(lo, hi)
	}
	return s
}

// FoodSnapshot is the clamped, read-only view of the food grid that blips
// sense during a tick.
type FoodSnapshot struct {
	W, H int
	vals []fixed.Rat
}

// At returns the clamped value of cell (x, y).
func (s *FoodSnapshot) At(x, y int) fixed.Rat {
	return s.vals[y*s.W+x]
}

// Total sums every snapshot cell.
func (s *FoodSnapshot) Total() fixed.Rat {
	return fixed.Sum(s.vals...)
}

// CellAt maps a world position to its food cell on a toroidal grid with
// square cells of the given size.
func CellAt(pos components.Position, cellSize float64, w, h int) (x, y int) {
	x = wrapIndex(int(math.Floor(pos.X/cellSize)), w)
	y = wrapIndex(int(math.Floor(pos.Y/cellSize)), h)
	return x, y
}

func wrapIndex(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
