package cache

import (
	"context"

	"github.com/krisalay/store-cache/config"
	"github.com/krisalay/store-cache/eviction"
)

func evictionTarget(cfg config.Config) int64 {
	return eviction.Target(cfg.MaxBytes, cfg.TargetFraction)
}

func totalSize(entries []scanned) int64 {
	var total int64
	for _, e := range entries {
		if e.state == stateLive {
			total += e.ent.Size
		}
	}
	return total
}

/*
enforceBudget runs after every successful write.

It sums the size of every registered entry and stops if that fits the budget.
Otherwise expired entries are swept and the total recomputed. If the cache is
still over budget, the engine's policy evicts the oldest writes until the total
is back to the target fraction of the budget.

Every step reads every registered entry, so the cost is O(registered keys) per
write. Failures are logged; they never fail the write that triggered them.
*/
func (c *StoreCache) enforceBudget(ctx context.Context) {
	log := c.engine.Logger

	all, err := c.registry.ListAll(ctx)
	if err != nil {
		log.Warn("Eviction skipped, registry unreadable", "error", err)
		return
	}
	entries := c.scan(ctx, all)
	total := totalSize(entries)
	if total <= c.maxBytes {
		return
	}

	_, survivors, err := c.sweep(ctx, entries)
	if err != nil {
		log.Warn("Eviction sweep failed", "error", err)
		return
	}
	total = totalSize(survivors)
	if total <= c.maxBytes {
		return
	}

	candidates := make([]eviction.Candidate, 0, len(survivors))
	for _, e := range survivors {
		candidates = append(candidates, eviction.Candidate{Key: e.key, Size: e.ent.Size, WrittenAt: e.ent.WrittenAt})
	}
	victims := c.engine.Eviction.Victims(candidates, total, c.target)
	if len(victims) == 0 {
		return
	}

	if err := c.store.MultiRemove(ctx, victims); err != nil {
		log.Warn("Eviction failed", "keys", len(victims), "error", err)
		return
	}
	if err := c.registry.Unregister(ctx, victims...); err != nil {
		log.Warn("Failed to unregister evicted entries", "keys", len(victims), "error", err)
	}
	for range victims {
		c.engine.Metrics.Eviction()
	}
	log.Info("Evicted cache entries", "keys", len(victims), "size_before", total, "budget", c.maxBytes, "target", c.target)
}
