package cache

import (
	"context"

	"github.com/krisalay/store-cache/types"
)

// Stats aggregates every readable registered entry. Missing, corrupt and
// unreadable entries are skipped rather than failing the report.
func (c *StoreCache) Stats(ctx context.Context) (types.Stats, error) {
	stats := types.Stats{Namespaces: map[string]types.NamespaceStats{}}
	if c.closed.Load() {
		return stats, ErrClosed
	}

	all, err := c.registry.ListAll(ctx)
	if err != nil {
		return stats, err
	}

	for _, e := range c.scan(ctx, all) {
		if e.state != stateLive {
			continue
		}
		ns, _, ok := c.enc.Parse(e.key)
		if !ok {
			continue
		}

		stats.TotalKeys++
		stats.TotalSize += e.ent.Size
		if c.engine.IsExpired(e.ent) {
			stats.ExpiredKeys++
		}

		n := stats.Namespaces[ns]
		n.Keys++
		n.Size += e.ent.Size
		stats.Namespaces[ns] = n
	}
	return stats, nil
}
