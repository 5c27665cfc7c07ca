// Package draw provides the per-account random draw source used by the game
// engines.
//
// A Stream is fully determined by an account's seed and the nonce of the wager
// being resolved, so any stored wager can be replayed for a fairness audit.
// Streams are not safe for concurrent use; callers hold the account lock.
package draw

import (
	"math/rand/v2"
)

// Stream is a deterministic source of uniform draws for one wager
type Stream struct {
	rng   *rand.Rand
	nonce uint64
	draws int
}

// NewStream positions a stream at the given seed and nonce
func NewStream(seed int64, nonce uint64) *Stream {
	return &Stream{
		rng:   rand.New(rand.NewPCG(uint64(seed), nonce)),
		nonce: nonce,
	}
}

// Float64 returns a uniform value in [0, 1)
func (s *Stream) Float64() float64 {
	s.draws++
	return s.rng.Float64()
}

// IntN returns a uniform integer in [0, n). It panics if n <= 0.
func (s *Stream) IntN(n int) int {
	s.draws++
	return s.rng.IntN(n)
}

// Nonce returns the wager nonce this stream was created for
func (s *Stream) Nonce() uint64 {
	return s.nonce
}

// Draws returns how many values have been consumed
func (s *Stream) Draws() int {
	return s.draws
}
