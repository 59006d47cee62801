// Package systems holds the shared world structures the tick pipeline
// operates on: the atomic food grid, the spatial index and the random
// stream derivation.
package systems

import (
	"iter"
	"math"

	"github.com/pthm-cable/blips/components"
)

// Entry is one indexed blip.
type Entry struct {
	Pos    components.Position
	Handle int
}

// Neighbor holds a nearby blip with precomputed spatial data.
type Neighbor struct {
	Handle int
	DX, DY float64 // Toroidal delta from query origin
	DistSq float64
}

// SpatialIndex is a cell-bucketed point index over a toroidal world.
// It is rebuilt wholesale each tick and is read-only between rebuilds, so
// queries are safe from any number of goroutines.
type SpatialIndex struct {
	cellW  float64
	cellH  float64
	cols   int
	rows   int
	width  float64
	height float64
	cells  [][]Entry
	n      int
}

// NewSpatialIndex creates an empty index covering a width×height torus.
// Cells are at most cellSize on a side and tile the world exactly.
func NewSpatialIndex(width, height, cellSize float64) *SpatialIndex {
	cols := max(1, int(math.Ceil(width/cellSize)))
	rows := max(1, int(math.Ceil(height/cellSize)))

	cells := make([][]Entry, cols*rows)
	for i := range cells {
		cells[i] = make([]Entry, 0, 8)
	}

	return &SpatialIndex{
		cellW:  width / float64(cols),
		cellH:  height / float64(rows),
		cols:   cols,
		rows:   rows,
		width:  width,
		height: height,
		cells:  cells,
	}
}

// Rebuild discards the current contents and indexes every (handle, position)
// pair in iteration order.
func (g *SpatialIndex) Rebuild(entries iter.Seq2[int, components.Position]) {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	g.n = 0
	for h, pos := range entries {
		idx := g.cellIndex(pos.X, pos.Y)
		g.cells[idx] = append(g.cells[idx], Entry{Pos: pos, Handle: h})
		g.n++
	}
}

// Len returns the number of indexed entries.
func (g *SpatialIndex) Len() int { return g.n }

// All yields every entry, cell by cell.
func (g *SpatialIndex) All() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, cell := range g.cells {
			for _, e := range cell {
				if !yield(e) {
					return
				}
			}
		}
	}
}

// MaxQueryResults caps the number of neighbors returned by spatial queries.
const MaxQueryResults = 128

// QueryRadiusInto appends blips within radius of (x, y) to dst, up to
// MaxQueryResults, skipping exclude. Results come in a fixed cell order, so
// the same index always answers the same query identically.
func (g *SpatialIndex) QueryRadiusInto(dst []Neighbor, x, y, radius float64, exclude int) []Neighbor {
	radiusSq := radius * radius
	centerCol, centerRow := g.cellOf(x, y)

	colLo, colN := span(centerCol, int(radius/g.cellW)+1, g.cols)
	rowLo, rowN := span(centerRow, int(radius/g.cellH)+1, g.rows)

	for i := 0; i < colN; i++ {
		col := wrapIndex(colLo+i, g.cols)
		for j := 0; j < rowN; j++ {
			row := wrapIndex(rowLo+j, g.rows)

			for _, e := range g.cells[row*g.cols+col] {
				if e.Handle == exclude {
					continue
				}
				dx, dy := ToroidalDelta(x, y, e.Pos.X, e.Pos.Y, g.width, g.height)
				distSq := dx*dx + dy*dy
				if distSq <= radiusSq {
					dst = append(dst, Neighbor{Handle: e.Handle, DX: dx, DY: dy, DistSq: distSq})
					if len(dst) >= MaxQueryResults {
						return dst
					}
				}
			}
		}
	}

	return dst
}

// Nearest returns the closest blip to (x, y) other than exclude. Ties go to
// the lower handle.
func (g *SpatialIndex) Nearest(x, y float64, exclude int) (Neighbor, bool) {
	var best Neighbor
	found := false

	centerCol, centerRow := g.cellOf(x, y)

	for ring := 0; ; ring++ {
		colLo, colN := span(centerCol, ring, g.cols)
		rowLo, rowN := span(centerRow, ring, g.rows)

		for i := 0; i < colN; i++ {
			col := wrapIndex(colLo+i, g.cols)
			for j := 0; j < rowN; j++ {
				row := wrapIndex(rowLo+j, g.rows)
				for _, e := range g.cells[row*g.cols+col] {
					if e.Handle == exclude {
						continue
					}
					dx, dy := ToroidalDelta(x, y, e.Pos.X, e.Pos.Y, g.width, g.height)
					d := dx*dx + dy*dy
					if !found || d < best.DistSq || (d == best.DistSq && e.Handle < best.Handle) {
						best = Neighbor{Handle: e.Handle, DX: dx, DY: dy, DistSq: d}
						found = true
					}
				}
			}
		}

		// Every unvisited cell is at least ring cell widths away.
		covered := colN == g.cols && rowN == g.rows
		reach := float64(ring) * min(g.cellW, g.cellH)
		if covered || (found && best.DistSq < reach*reach) {
			return best, found
		}
	}
}

// Equal reports whether both indexes hold the same entries in the same cells
// and order.
func (g *SpatialIndex) Equal(o *SpatialIndex) bool {
	if g.cols != o.cols || g.rows != o.rows || g.n != o.n {
		return false
	}
	for i := range g.cells {
		a, b := g.cells[i], o.cells[i]
		if len(a) != len(b) {
			return false
		}
		for k := range a {
			if a[k] != b[k] {
				return false
			}
		}
	}
	return true
}

// cellOf returns the column and row of a world position, wrapping
// coordinates outside the world.
func (g *SpatialIndex) cellOf(x, y float64) (col, row int) {
	col = wrapIndex(int(math.Floor(x/g.cellW)), g.cols)
	row = wrapIndex(int(math.Floor(y/g.cellH)), g.rows)
	return col, row
}

func (g *SpatialIndex) cellIndex(x, y float64) int {
	col, row := g.cellOf(x, y)
	return row*g.cols + col
}

// span returns the first cell and cell count of a window of the given
// radius around center on a ring of n cells. A window wider than the ring
// visits each cell once.
func span(center, radius, n int) (lo, count int) {
	if 2*radius+1 >= n {
		return 0, n
	}
	return center - radius, 2*radius + 1
}

// ToroidalDelta returns the shortest path delta from (x1,y1) to (x2,y2).
func ToroidalDelta(x1, y1, x2, y2, w, h float64) (dx, dy float64) {
	dx = x2 - x1
	dy = y2 - y1

	if dx > w/2 {
		dx -= w
	} else if dx < -w/2 {
		dx += w
	}
	if dy > h/2 {
		dy -= h
	} else if dy < -h/2 {
		dy += h
	}

	return dx, dy
}

// Wrap maps v into [0, size).
func Wrap(v, size float64) float64 {
	v = math.Mod(v, size)
	if v < 0 {
		v += size
	}
	if v >= size {
		v -= size
	}
	return v
}
