// Package random provides seed generation and independent pseudo-random streams.
//
// A run is reproducible from a single int64 seed: every consumer of
// randomness asks for its own stream, so concurrent workers never share or
// contend on a generator.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// New returns a generator for the given seed and stream. Distinct streams
// under the same seed produce independent sequences; the same (seed, stream)
// pair always produces the same sequence.
func New(seed int64, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), mix(stream)))
}

// Stream packs a scenario index and a worker index into a stream id.
func Stream(scenario, worker int) uint64 {
	return uint64(uint32(scenario))<<32 | uint64(uint32(worker))
}

// mix is the splitmix64 finalizer; it spreads adjacent stream ids across the
// PCG increment space.
func mix(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
