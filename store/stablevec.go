// Package store provides a slot vector with stable integer handles.
package store

import (
	"fmt"
	"iter"
	"slices"
)

// StableVec holds elements in slots addressed by integer handles. A handle
// stays valid for as long as its element is alive: removals leave a hole
// instead of shifting later elements, and pushes always append.
//
// Distinct slots are distinct memory, so workers may mutate disjoint
// slots concurrently without synchronization.
type StableVec[T any] struct {
	items []T
	live  []bool
	n     int
}

// New creates an empty vector with room for capacity elements.
func New[T any](capacity int) *StableVec[T] {
	return &StableVec[T]{
		items: make([]T, 0, capacity),
		live:  make([]bool, 0, capacity),
	}
}

// Len returns the number of live elements.
func (v *StableVec[T]) Len() int { return v.n }

// Slots returns the number of slots, live or not. Handles are in [0, Slots()).
func (v *StableVec[T]) Slots() int { return len(v.items) }

// Push appends x and returns its handle.
func (v *StableVec[T]) Push(x T) int {
	v.items = append(v.items, x)
	v.live = append(v.live, true)
	v.n++
	return len(v.items) - 1
}

// Extend appends all elements in order.
func (v *StableVec[T]) Extend(xs ...T) {
	for _, x := range xs {
		v.Push(x)
	}
}

// Get returns a pointer to the element at handle h, or false if the slot is
// empty or out of range. The pointer is valid until the next Push.
func (v *StableVec[T]) Get(h int) (*T, bool) {
	if h < 0 || h >= len(v.items) || !v.live[h] {
		return nil, false
	}
	return &v.items[h], true
}

// Live reports whether handle h refers to a live element.
func (v *StableVec[T]) Live(h int) bool {
	return h >= 0 && h < len(v.live) && v.live[h]
}

// All yields (handle, element) pairs of live elements in ascending handle order.
func (v *StableVec[T]) All() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for i := range v.items {
			if !v.live[i] {
				continue
			}
			if !yield(i, &v.items[i]) {
				return
			}
		}
	}
}

// Retain removes every live element for which keep returns false.
// Surviving handles are unchanged.
func (v *StableVec[T]) Retain(keep func(*T) bool) {
	var zero T
	for i := range v.items {
		if !v.live[i] {
			continue
		}
		if !keep(&v.items[i]) {
			v.items[i] = zero
			v.live[i] = false
			v.n--
		}
	}
}

// Remove deletes the element at handle h. Returns false if it was not live.
func (v *StableVec[T]) Remove(h int) bool {
	if !v.Live(h) {
		return false
	}
	var zero T
	v.items[h] = zero
	v.live[h] = false
	v.n--
	return true
}

// Clone returns a copy of the vector with the same handles. Elements are
// copied by value.
func (v *StableVec[T]) Clone() *StableVec[T] {
	return &StableVec[T]{
		items: slices.Clone(v.items),
		live:  slices.Clone(v.live),
		n:     v.n,
	}
}

// CopyTo makes dst an element-wise copy of v with the same handles, reusing
// dst's storage.
func (v *StableVec[T]) CopyTo(dst *StableVec[T]) {
	clear(dst.items)
	dst.items = append(dst.items[:0], v.items...)
	dst.live = append(dst.live[:0], v.live...)
	dst.n = v.n
}

// ZipRange calls fn for every handle in [lo, hi) that is live in both dst and
// src, pairing the slot of dst with the slot of src at the same handle.
// Calls for disjoint ranges touch disjoint dst memory and may run in parallel.
func ZipRange[T any](dst, src *StableVec[T], lo, hi int, fn func(h int, d, s *T)) {
	if hi > len(src.items) {
		hi = len(src.items)
	}
	if hi > len(dst.items) {
		hi = len(dst.items)
	}
	for i := lo; i < hi; i++ {
		if dst.live[i] && src.live[i] {
			fn(i, &dst.items[i], &src.items[i])
		}
	}
}

// Range calls fn for every live handle in [lo, hi).
func (v *StableVec[T]) Range(lo, hi int, fn func(h int, x *T)) {
	if hi > len(v.items) {
		hi = len(v.items)
	}
	for i := lo; i < hi; i++ {
		if v.live[i] {
			fn(i, &v.items[i])
		}
	}
}

// Holes returns the number of dead slots.
func (v *StableVec[T]) Holes() int { return len(v.items) - v.n }

// Compact moves live elements down to fill holes, preserving their relative
// order, and returns the old-to-new handle mapping (-1 for dead slots).
// Every handle held outside the vector is invalidated.
func (v *StableVec[T]) Compact() []int {
	remap := make([]int, len(v.items))
	var zero T
	j := 0
	for i := range v.items {
		if !v.live[i] {
			remap[i] = -1
			continue
		}
		remap[i] = j
		if i != j {
			v.items[j] = v.items[i]
			v.live[j] = true
		}
		j++
	}
	for i := j; i < len(v.items); i++ {
		v.items[i] = zero
	}
	v.items = v.items[:j]
	v.live = v.live[:j]
	if j != v.n {
		panic(fmt.Sprintf("store: live count %d disagrees with compacted length %d", v.n, j))
	}
	return remap
}

// Equal reports whether a and b have the same live handles and pairwise
// equal elements.
func Equal[T any](a, b *StableVec[T], eq func(x, y *T) bool) bool {
	if a.n != b.n {
		return false
	}
	n := max(len(a.items), len(b.items))
	for i := 0; i < n; i++ {
		al, bl := a.Live(i), b.Live(i)
		if al != bl {
			return false
		}
		if al && !eq(&a.items[i], &b.items[i]) {
			return false
		}
	}
	return true
}
