// Package random provides the chance source used by the turn engine.
package random

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand/v2"
	"sync"
)

// Source is a PCG-backed ports.Random safe for concurrent use.
type Source struct {
	mu   sync.Mutex
	rng  *mrand.Rand
	seed uint64
}

// NewSource returns a source seeded with seed. A zero seed is replaced by
// one read from crypto/rand.
func NewSource(seed uint64) *Source {
	if seed == 0 {
		seed = cryptoSeed()
	}
	return &Source{
		rng:  mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		seed: seed,
	}
}

// Seed returns the seed in use, so a run can be replayed.
func (s *Source) Seed() uint64 {
	return s.seed
}

// Float64 returns a number in [0.0, 1.0).
func (s *Source) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// IntN returns a number in [0, n). It panics if n <= 0.
func (s *Source) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

func cryptoSeed() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 1
	}
	seed := binary.LittleEndian.Uint64(b[:])
	if seed == 0 {
		seed = 1
	}
	return seed
}
