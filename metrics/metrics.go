// Package metrics provides types.Metrics implementations.
package metrics

import "sync/atomic"

// Counters counts cache events in process. The zero value is ready to use.
type Counters struct {
	hits        atomic.Uint64
	misses      atomic.Uint64
	evictions   atomic.Uint64
	expirations atomic.Uint64
	corruptions atomic.Uint64
}

func (c *Counters) Hit()        { c.hits.Add(1) }
func (c *Counters) Miss()       { c.misses.Add(1) }
func (c *Counters) Eviction()   { c.evictions.Add(1) }
func (c *Counters) Expire()     { c.expirations.Add(1) }
func (c *Counters) Corruption() { c.corruptions.Add(1) }

// Snapshot is a point-in-time copy of Counters.
type Snapshot struct {
	Hits        uint64
	Misses      uint64
	Evictions   uint64
	Expirations uint64
	Corruptions uint64
}

// HitRatio is Hits / (Hits + Misses), or 0 before any lookup.
func (s Snapshot) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Snapshot reads every counter.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Evictions:   c.evictions.Load(),
		Expirations: c.expirations.Load(),
		Corruptions: c.corruptions.Load(),
	}
}
