package systems

import (
	"iter"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/pthm-cable/blips/components"
)

func positions(ps ...components.Position) iter.Seq2[int, components.Position] {
	return func(yield func(int, components.Position) bool) {
		for i, p := range ps {
			if !yield(i, p) {
				return
			}
		}
	}
}

func handles(ns []Neighbor) []int {
	out := make([]int, len(ns))
	for i, n := range ns {
		out[i] = n.Handle
	}
	slices.Sort(out)
	return out
}

func TestQueryRadiusToroidal(t *testing.T) {
	g := NewSpatialIndex(100, 100, 10)
	g.Rebuild(positions(
		components.Position{X: 50, Y: 50}, // 0: query origin
		components.Position{X: 55, Y: 50}, // 1: near
		components.Position{X: 80, Y: 80}, // 2: far
		components.Position{X: 1, Y: 50},  // 3: far, no wrap involved
		components.Position{X: 99, Y: 2},  // 4: near (1,1) across the seam
	))

	tests := []struct {
		name   string
		x, y   float64
		radius float64
		skip   int
		want   []int
	}{
		{"centre", 50, 50, 10, 0, []int{1}},
		{"include self", 50, 50, 10, -1, []int{0, 1}},
		{"across seam", 1, 1, 5, -1, []int{4}},
		{"whole world", 50, 50, 200, -1, []int{0, 1, 2, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := handles(g.QueryRadiusInto(nil, tt.x, tt.y, tt.radius, tt.skip))
			if !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

// A radius wider than the grid must not report an entry twice.
func TestQueryRadiusNoDuplicates(t *testing.T) {
	g := NewSpatialIndex(30, 30, 10)
	g.Rebuild(positions(
		components.Position{X: 5, Y: 5},
		components.Position{X: 25, Y: 25},
	))

	got := handles(g.QueryRadiusInto(nil, 15, 15, 25, -1))
	if !slices.Equal(got, []int{0, 1}) {
		t.Errorf("got %v, want [0 1]", got)
	}
}

func TestQueryRadiusDelta(t *testing.T) {
	g := NewSpatialIndex(100, 100, 10)
	g.Rebuild(positions(components.Position{X: 98, Y: 50}))

	ns := g.QueryRadiusInto(nil, 2, 50, 10, -1)
	if len(ns) != 1 {
		t.Fatalf("got %d neighbours, want 1", len(ns))
	}
	if ns[0].DX != -4 || ns[0].DY != 0 || ns[0].DistSq != 16 {
		t.Errorf("neighbour = %+v, want DX=-4 DY=0 DistSq=16", ns[0])
	}
}

func TestQueryRadiusCap(t *testing.T) {
	ps := make([]components.Position, MaxQueryResults+50)
	for i := range ps {
		ps[i] = components.Position{X: 10, Y: 10}
	}
	g := NewSpatialIndex(100, 100, 10)
	g.Rebuild(positions(ps...))

	if got := len(g.QueryRadiusInto(nil, 10, 10, 1, -1)); got != MaxQueryResults {
		t.Errorf("got %d results, want cap %d", got, MaxQueryResults)
	}
}

func TestNearestMatchesBruteForce(t *testing.T) {
	const w, h = 200.0, 120.0
	rng := rand.New(rand.NewPCG(21, 21))
	ps := make([]components.Position, 300)
	for i := range ps {
		ps[i] = components.Position{X: rng.Float64() * w, Y: rng.Float64() * h}
	}
	g := NewSpatialIndex(w, h, 7)
	g.Rebuild(positions(ps...))

	for q := 0; q < 200; q++ {
		x, y := rng.Float64()*w, rng.Float64()*h
		exclude := rng.IntN(len(ps))

		want, wantD := -1, 0.0
		for i, p := range ps {
			if i == exclude {
				continue
			}
			dx, dy := ToroidalDelta(x, y, p.X, p.Y, w, h)
			d := dx*dx + dy*dy
			if want < 0 || d < wantD {
				want, wantD = i, d
			}
		}

		got, ok := g.Nearest(x, y, exclude)
		if !ok || got.Handle != want {
			t.Fatalf("Nearest(%v,%v) = %d (ok=%v), want %d", x, y, got.Handle, ok, want)
		}
	}
}

func TestNearestEmpty(t *testing.T) {
	g := NewSpatialIndex(50, 50, 10)
	g.Rebuild(positions(components.Position{X: 1, Y: 1}))
	if _, ok := g.Nearest(20, 20, 0); ok {
		t.Error("expected no result when the only entry is excluded")
	}
}

func TestRebuildDiscardsOld(t *testing.T) {
	g := NewSpatialIndex(50, 50, 10)
	g.Rebuild(positions(components.Position{X: 1, Y: 1}, components.Position{X: 2, Y: 2}))
	g.Rebuild(positions(components.Position{X: 30, Y: 30}))

	if g.Len() != 1 {
		t.Errorf("Len = %d, want 1", g.Len())
	}
	if ns := g.QueryRadiusInto(nil, 1, 1, 3, -1); len(ns) != 0 {
		t.Errorf("stale entries after rebuild: %+v", ns)
	}
}

func TestSpatialIndexEqual(t *testing.T) {
	ps := []components.Position{{X: 3, Y: 4}, {X: 40, Y: 12}}
	a := NewSpatialIndex(50, 50, 10)
	b := NewSpatialIndex(50, 50, 10)
	a.Rebuild(positions(ps...))
	b.Rebuild(positions(ps...))
	if !a.Equal(b) {
		t.Fatal("identical builds differ")
	}

	ps[1].X = 41
	b.Rebuild(positions(ps...))
	if a.Equal(b) {
		t.Error("moved entry not detected")
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		v, size, want float64
	}{
		{5, 10, 5},
		{10, 10, 0},
		{-1, 10, 9},
		{25, 10, 5},
		{-1e-18, 10, 0},
	}
	for _, tt := range tests {
		if got := Wrap(tt.v, tt.size); got != tt.want {
			t.Errorf("Wrap(%v, %v) = %v, want %v", tt.v, tt.size, got, tt.want)
		}
	}
}

func BenchmarkQueryRadius(b *testing.B) {
	rng := rand.New(rand.NewPCG(1, 1))
	ps := make([]components.Position, 2000)
	for i := range ps {
		ps[i] = components.Position{X: rng.Float64() * 1000, Y: rng.Float64() * 1000}
	}
	g := NewSpatialIndex(1000, 1000, 20)
	g.Rebuild(positions(ps...))
	dst := make([]Neighbor, 0, MaxQueryResults)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p := ps[i%len(ps)]
		dst = g.QueryRadiusInto(dst[:0], p.X, p.Y, 20, i%len(ps))
	}
}
