package cache

import (
	"context"

	"github.com/jmgilman/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/krisalay/store-cache/types"
)

// entryState classifies what a read found under a storage key.
type entryState int

const (
	stateLive entryState = iota
	stateMissing
	stateCorrupt
	stateUnreadable
)

// scanned is one registered key and what is behind it.
type scanned struct {
	key   string
	ent   *types.CacheEntry // set only for stateLive
	state entryState
}

// read loads and parses the record at sk. Expiry is not checked here.
func (c *StoreCache) read(ctx context.Context, sk string) (*types.CacheEntry, entryState, error) {
	record, ok, err := c.store.Get(ctx, sk)
	if err != nil {
		return nil, stateUnreadable, err
	}
	if !ok {
		return nil, stateMissing, nil
	}
	ent, err := c.engine.Codec.Unmarshal(record)
	if err != nil {
		return nil, stateCorrupt, err
	}
	return ent, stateLive, nil
}

/*
scan reads every key in sks, at most scanLimit at a time, and returns one result
per key in the same order. Read failures never abort the scan; they show up as
stateUnreadable.
*/
func (c *StoreCache) scan(ctx context.Context, sks []string) []scanned {
	out := make([]scanned, len(sks))

	var g errgroup.Group
	g.SetLimit(c.scanLimit)
	for i, sk := range sks {
		g.Go(func() error {
			ent, state, err := c.read(ctx, sk)
			if state == stateUnreadable {
				c.engine.Logger.Warn("Skipping unreadable cache entry", "key", sk, "error", err)
			}
			out[i] = scanned{key: sk, ent: ent, state: state}
			return nil
		})
	}
	_ = g.Wait()

	return out
}

/*
sweep deletes expired and corrupt entries in one bulk delete and updates the
registry once, also dropping keys whose entries have vanished. It returns the
number of entries deleted and the live, unexpired survivors.
Unreadable entries are left alone: they may be fine on the next attempt.
*/
func (c *StoreCache) sweep(ctx context.Context, entries []scanned) (int, []scanned, error) {
	var (
		doomed    []string
		dangling  []string
		survivors []scanned
		expired   int
	)
	for _, e := range entries {
		switch e.state {
		case stateMissing:
			dangling = append(dangling, e.key)
		case stateCorrupt:
			doomed = append(doomed, e.key)
		case stateLive:
			if c.engine.IsExpired(e.ent) {
				doomed = append(doomed, e.key)
				expired++
				continue
			}
			survivors = append(survivors, e)
		}
	}

	if len(doomed) > 0 {
		if err := c.store.MultiRemove(ctx, doomed); err != nil {
			return 0, survivors, errors.WithContext(
				errors.Wrap(err, errors.CodeDatabase, "remove expired entries"),
				"keys", len(doomed),
			)
		}
	}
	if err := c.registry.Unregister(ctx, append(doomed, dangling...)...); err != nil {
		return len(doomed), survivors, err
	}

	for range expired {
		c.engine.Metrics.Expire()
	}
	for range len(doomed) - expired {
		c.engine.Metrics.Corruption()
	}
	if len(doomed)+len(dangling) > 0 {
		c.engine.Logger.Info("Swept cache",
			"expired", expired,
			"corrupt", len(doomed)-expired,
			"dangling", len(dangling),
		)
	}
	return len(doomed), survivors, nil
}
