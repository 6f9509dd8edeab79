package simulator

import (
	"math/rand"
	"time"
)

// Source produces shocks uniformly distributed on [-1, 1).
// Implementations need not be safe for concurrent use.
type Source interface {
	Uniform() float64
}

// RandSource adapts a *rand.Rand to Source.
type RandSource struct {
	rng *rand.Rand
}

// NewSource returns a deterministic source for the given seed.
func NewSource(seed int64) *RandSource {
	return &RandSource{rng: rand.New(rand.NewSource(seed))}
}

// NewRandomSource returns a source seeded from the wall clock.
func NewRandomSource() *RandSource {
	return NewSource(time.Now().UnixNano())
}

// Uniform maps [0, 1) onto [-1, 1).
func (s *RandSource) Uniform() float64 {
	return s.rng.Float64()*2 - 1
}

// SourceFunc lets a plain function act as a Source.
type SourceFunc func() float64

func (f SourceFunc) Uniform() float64 { return f() }
