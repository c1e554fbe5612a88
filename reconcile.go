package cache

import (
	"context"
	"slices"

	"github.com/jmgilman/go/errors"

	"github.com/krisalay/store-cache/types"
)

/*
Reconcile repairs the registry after crashes or partial writes.

Registered keys with no entry behind them are dropped, and registered corrupt
records are deleted and dropped. If the store can list its keys, entries under
the app prefix that parse but are not registered are adopted; unparsable ones
are deleted.

Expired entries are left to ClearExpired.
*/
func (c *StoreCache) Reconcile(ctx context.Context) (types.ReconcileReport, error) {
	var report types.ReconcileReport
	if c.closed.Load() {
		return report, ErrClosed
	}

	registered, err := c.registry.ListAll(ctx)
	if err != nil {
		return report, err
	}
	for _, e := range c.scan(ctx, registered) {
		switch e.state {
		case stateMissing:
			report.Dropped = append(report.Dropped, e.key)
		case stateCorrupt:
			report.Purged = append(report.Purged, e.key)
		}
	}

	if lister, ok := c.store.(types.KeyLister); ok {
		stored, err := lister.Keys(ctx, c.enc.AppPrefix())
		if err != nil {
			return report, errors.Wrap(err, errors.CodeDatabase, "list stored keys")
		}
		var orphans []string
		for _, sk := range stored {
			if _, _, ok := c.enc.Parse(sk); !ok || sk == c.enc.Registry() || slices.Contains(registered, sk) {
				continue
			}
			orphans = append(orphans, sk)
		}
		for _, e := range c.scan(ctx, orphans) {
			switch e.state {
			case stateLive:
				report.Adopted = append(report.Adopted, e.key)
			case stateCorrupt:
				report.Purged = append(report.Purged, e.key)
			}
		}
	}

	if len(report.Purged) > 0 {
		if err := c.store.MultiRemove(ctx, report.Purged); err != nil {
			return report, errors.Wrap(err, errors.CodeDatabase, "remove corrupt entries")
		}
	}
	if err := c.registry.Unregister(ctx, append(slices.Clone(report.Dropped), report.Purged...)...); err != nil {
		return report, err
	}
	if err := c.registry.Adopt(ctx, report.Adopted...); err != nil {
		return report, err
	}

	c.engine.Logger.Info("Reconciled cache registry",
		"dropped", len(report.Dropped),
		"adopted", len(report.Adopted),
		"purged", len(report.Purged),
	)
	return report, nil
}
