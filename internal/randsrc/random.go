// Package randsrc provides the randomness source injected into the
// ActionEngine (for steal rolls) and the Generator (for resource-scatter
// decisions), so tests can pin outcomes deterministically
// while production uses a system-seeded source.
package randsrc

import (
	"math/rand"
	"time"
)

// Source is the minimal randomness surface consumed by the action engine.
type Source interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
}

type rngSource struct {
	r *rand.Rand
}

func (s *rngSource) Float64() float64 { return s.r.Float64() }

// NewSeeded returns a deterministic source for tests.
func NewSeeded(seed int64) Source {
	return &rngSource{r: rand.New(rand.NewSource(seed))}
}

// NewSystem returns a system-randomness source for production use.
func NewSystem() Source {
	return &rngSource{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}
