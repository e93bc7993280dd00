package sim

import (
	"math/rand"
	"time"
)

// === RunKey ===

// RunKey uniquely identifies a reproducible simulation run.
// Two runs with the same RunKey and identical configuration MUST produce
// bit-for-bit identical event sequences.
type RunKey int64

// NewRunKey creates a RunKey from a seed value.
func NewRunKey(seed int64) RunKey {
	return RunKey(seed)
}

// === Shared stream ===

// NewRand returns the single random stream for a run, seeded from key.
//
// Every stochastic choice in a run draws from this one stream: locus draws,
// the exponential waiting-time draw, event selection, and any process-level
// seeding. The stream is passed by reference and never copied, so replacing
// it at construction time affects every consumer identically.
//
// Thread-safety: NOT thread-safe. A run is single-threaded; concurrent runs
// each get their own stream.
func NewRand(key RunKey) *rand.Rand {
	return rand.New(rand.NewSource(int64(key)))
}

// DefaultRunKey derives a RunKey from the wall clock, for callers that do not
// care about reproducibility.
func DefaultRunKey() RunKey {
	return RunKey(time.Now().UnixNano())
}
