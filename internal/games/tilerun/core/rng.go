package core

import (
	crand "crypto/rand"
	"encoding/binary"
	"time"
)

// Linear-congruential recurrence constants. The whole engine's
// reproducibility contract is defined against these numbers: changing them
// changes every dice roll and every track layout for a given seed.
const (
	lcgMultiplier = 9301
	lcgIncrement  = 49297
	lcgModulus    = 233280
)

// RNG is a deterministic pseudo-random number generator backed by a
// linear-congruential recurrence. A given seed always reproduces the same
// sequence of draws, which is what makes whole matches replayable.
//
// An RNG is owned by exactly one Match; sharing one across matches breaks
// replay determinism for both.
type RNG struct {
	state int64
}

// NewRNG creates a generator from the given seed.
func NewRNG(seed int64) *RNG {
	// Reduce into [0, modulus) up front. The recurrence then keeps the state
	// below the modulus, so the multiply can never overflow int64.
	state := seed % lcgModulus
	if state < 0 {
		state += lcgModulus
	}
	return &RNG{state: state}
}

// Float advances the generator and returns a value in [0, 1).
func (r *RNG) Float() float64 {
	r.state = (r.state*lcgMultiplier + lcgIncrement) % lcgModulus
	return float64(r.state) / float64(lcgModulus)
}

// IntBetween returns an integer in [min, max] inclusive.
// Requires max >= min; if violated, min is returned without a draw.
func (r *RNG) IntBetween(min, max int) int {
	if max < min {
		return min
	}
	return int(r.Float()*float64(max-min+1)) + min
}

// Pick returns one element of items chosen uniformly.
// Panics if items is empty.
func Pick[T any](r *RNG, items []T) T {
	return items[r.IntBetween(0, len(items)-1)]
}

// Shuffle returns a shuffled copy of items using a Fisher-Yates pass driven
// by the generator, walking from the last index down to 1. The input slice is
// never mutated.
func Shuffle[T any](r *RNG, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i >= 1; i-- {
		j := int(r.Float() * float64(i+1))
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// NewSeed mints a high-entropy, non-zero seed from crypto/rand, falling back
// to the wall clock if the system source is unavailable. Callers that want a
// replayable match should record the returned value.
func NewSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	seed := int64(binary.LittleEndian.Uint64(b[:]) &^ (1 << 63))
	if seed == 0 {
		seed = 1
	}
	return seed
}
