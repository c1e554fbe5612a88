package eviction

/*
This file defines how the cache decides what to remove when it grows past its size budget.
*/

import "time"

// Candidate is one live entry considered for eviction.
type Candidate struct {
	Key       string
	Size      int64
	WrittenAt time.Time
}

/*
Policy picks which entries to drop once the cache is over budget.

Victims receives every live candidate and their combined size, and returns keys
in removal order. Removing them must bring the running total to target or below,
unless the candidates run out first.
*/
type Policy interface {
	Victims(candidates []Candidate, total, target int64) []string
}

// PolicyType is a simple identifier for supported eviction strategies.
type PolicyType string

const (
	// FIFO evicts the entry with the oldest write time first.
	// Reads do not count: an entry read constantly but written long ago still goes first.
	FIFO PolicyType = "FIFO"
)

// Valid reports whether t names a known policy.
func (t PolicyType) Valid() bool {
	return t == FIFO
}

// NewEvictionPolicy is a small factory function.
// Given a PolicyType, it creates the correct eviction policy.
func NewEvictionPolicy(t PolicyType) Policy {
	switch t {
	case FIFO:
		return newFIFO()
	default:
		panic("unknown eviction policy")
	}
}

// Target is the size the cache shrinks to once eviction starts: budget * fraction.
func Target(budget int64, fraction float64) int64 {
	return int64(float64(budget) * fraction)
}
