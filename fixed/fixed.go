// Package fixed provides an exactly associative fixed-point number type.
//
// Floating point addition is not associative, so the order in which worker
// goroutines accumulate into a shared value would change the result. Rat
// stores a Q31.32 value in an int64; addition and subtraction are integer
// operations and therefore give the same result in any order.
package fixed

import (
	"fmt"
	"math"
)

// Q31.32 layout.
const (
	Shift = 32
	Scale = 1 << Shift
)

// Rat is a Q31.32 fixed-point value.
type Rat int64

// Domain bounds. Values outside [Min, Max] are treated as an overflow of the
// simulation domain, not as a representable quantity.
const (
	Max Rat = maxInt * Scale
	Min Rat = -Max

	maxInt = 1 << 30
)

// Zero is the additive identity.
const Zero Rat = 0

// FromInt converts an integer. Panics outside the domain.
func FromInt(i int) Rat {
	if int64(i) > maxInt || int64(i) < -maxInt {
		panic(fmt.Sprintf("fixed: value %d outside domain", i))
	}
	return Rat(int64(i) << Shift)
}

// FromFloat converts f, rounding to the nearest representable value.
// Panics on NaN, infinities and values outside the domain.
func FromFloat(f float64) Rat {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		panic(fmt.Sprintf("fixed: non-finite value %v", f))
	}
	if f > Max.Float() || f < Min.Float() {
		panic(fmt.Sprintf("fixed: value %v outside domain", f))
	}
	return Rat(math.Round(f * Scale))
}

// Float returns the nearest float64. Only for reporting and for feeding
// agent decisions from an already-finalized snapshot.
func (r Rat) Float() float64 {
	return float64(r) / Scale
}

// Add returns r+o. Integer addition wraps modulo 2^64, which keeps it
// associative even through intermediate overflow; the domain is checked
// where values are read back (Clamp, InDomain).
func (r Rat) Add(o Rat) Rat { return r + o }

// Sub returns r-o.
func (r Rat) Sub(o Rat) Rat { return r - o }

// Neg returns -r.
func (r Rat) Neg() Rat { return -r }

// Cmp returns -1, 0 or +1.
func (r Rat) Cmp(o Rat) int {
	switch {
	case r < o:
		return -1
	case r > o:
		return 1
	}
	return 0
}

// Clamp saturates r into [lo, hi]. Panics if r has left the domain, since a
// wrapped value would clamp to the wrong end.
func (r Rat) Clamp(lo, hi Rat) Rat {
	r.mustInDomain()
	if r < lo {
		return lo
	}
	if r > hi {
		return hi
	}
	return r
}

// InDomain reports whether r lies within [Min, Max].
func (r Rat) InDomain() bool {
	return r >= Min && r <= Max
}

func (r Rat) mustInDomain() {
	if !r.InDomain() {
		panic(fmt.Sprintf("fixed: value %d outside domain", int64(r)))
	}
}

// Sum adds all values.
func Sum(vals ...Rat) Rat {
	var s Rat
	for _, v := range vals {
		s += v
	}
	return s
}

func (r Rat) String() string {
	return fmt.Sprintf("%.6f", r.Float())
}
