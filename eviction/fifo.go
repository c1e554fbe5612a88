// This file implements FIFO eviction over write timestamps.

package eviction

import (
	"slices"
	"strings"
)

type fifo struct{}

func newFIFO() *fifo {
	return &fifo{}
}

/*
Victims sorts candidates by write time, oldest first, and takes them one at a
time until the running total is at or below target. Ties on write time fall back
to key order so the choice is deterministic.
*/
func (f *fifo) Victims(candidates []Candidate, total, target int64) []string {
	if total <= target {
		return nil
	}

	sorted := slices.Clone(candidates)
	slices.SortFunc(sorted, func(a, b Candidate) int {
		if c := a.WrittenAt.Compare(b.WrittenAt); c != 0 {
			return c
		}
		return strings.Compare(a.Key, b.Key)
	})

	var victims []string
	for _, c := range sorted {
		if total <= target {
			break
		}
		victims = append(victims, c.Key)
		total -= c.Size
	}
	return victims
}
