package systems

import (
	"encoding/binary"
	"math"
	"math/rand/v2"
)

// NewRootStream returns the orchestrator's serial random stream.
func NewRootStream(seed uint64) *rand.Rand {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], seed)
	binary.LittleEndian.PutUint64(key[8:16], mix64(seed, 1))
	binary.LittleEndian.PutUint64(key[16:24], mix64(seed, 2))
	binary.LittleEndian.PutUint64(key[24:], mix64(seed, 3))
	return rand.New(rand.NewChaCha8(key))
}

// StreamSeed derives the seed of a blip's private stream for one tick. It
// depends only on the run salt, the bits of the simulation time and the
// blip's slot, never on which goroutine asks.
func StreamSeed(salt uint64, time float64, index int) uint64 {
	return mix64(salt^math.Float64bits(time), uint64(index))
}

// NewStream returns a small generator seeded from seed.
func NewStream(seed uint64) *rand.Rand {
	src := &rand.PCG{}
	ReseedStream(src, seed)
	return rand.New(src)
}

// ReseedStream resets src to the state NewStream(seed) starts from, so a
// worker can reuse one generator across blips.
func ReseedStream(src *rand.PCG, seed uint64) {
	src.Seed(seed, mix64(seed, 0x9e3779b97f4a7c15))
}

// mix64 is the SplitMix64 finalizer applied to a+b.
func mix64(a, b uint64) uint64 {
	x := a + b*0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
