// Package registry keeps the persisted index of every storage key the cache wrote.
package registry

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/jmgilman/go/errors"

	"github.com/krisalay/store-cache/keys"
	"github.com/krisalay/store-cache/types"
)

// ErrClosed is returned by every operation issued after Close.
var ErrClosed = errors.New(errors.CodeUnavailable, "registry is closed")

// request is one registry operation waiting for the worker.
type request struct {
	ctx   context.Context
	run   func(ctx context.Context) error
	reply chan error
}

/*
Registry is the list of storage keys believed to hold live entries, stored as a
single JSON array under the reserved registry key.

Every operation is a read-modify-write of that one record. To keep concurrent
callers from overwriting each other's updates, all operations run one at a time
on a single worker goroutine; callers block until their turn completes.

The registry is not transactional with the entries it indexes. A crash between
writing an entry and registering it leaves the two out of step; callers must
tolerate registered keys with no entry behind them.
*/
type Registry struct {
	store  types.Store
	enc    keys.Encoder
	logger *slog.Logger

	// ch is unbuffered: a send completes only when the worker takes the request.
	ch   chan request
	stop chan struct{}
	once sync.Once

	// wg is used to wait for the worker to finish during shutdown.
	wg sync.WaitGroup
}

// New creates a registry over store and starts its worker.
func New(store types.Store, enc keys.Encoder, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		store:  store,
		enc:    enc,
		logger: logger,
		ch:     make(chan request),
		stop:   make(chan struct{}),
	}

	r.wg.Add(1)
	go r.worker()

	return r
}

func (r *Registry) worker() {
	defer r.wg.Done()

	for {
		select {
		case req := <-r.ch:
			req.reply <- req.run(req.ctx)
		case <-r.stop:
			return
		}
	}
}

// do queues run on the worker and waits for it to finish.
func (r *Registry) do(ctx context.Context, run func(ctx context.Context) error) error {
	req := request{ctx: ctx, run: run, reply: make(chan error, 1)}
	select {
	case r.ch <- req:
	case <-r.stop:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	return <-req.reply
}

// Register adds key if it is not already present.
func (r *Registry) Register(ctx context.Context, key string) error {
	return r.do(ctx, func(ctx context.Context) error {
		list, err := r.load(ctx)
		if err != nil {
			return err
		}
		if slices.Contains(list, key) {
			return nil
		}
		return r.save(ctx, append(list, key))
	})
}

// Unregister drops every key in drop in a single read-modify-write.
// Keys that are not registered are ignored.
func (r *Registry) Unregister(ctx context.Context, drop ...string) error {
	if len(drop) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(drop))
	for _, k := range drop {
		set[k] = struct{}{}
	}

	return r.do(ctx, func(ctx context.Context) error {
		list, err := r.load(ctx)
		if err != nil {
			return err
		}
		kept := slices.DeleteFunc(list, func(k string) bool {
			_, ok := set[k]
			return ok
		})
		if len(kept) == len(list) {
			return nil
		}
		return r.save(ctx, kept)
	})
}

// Adopt registers every key in add that is not already present, in one write.
func (r *Registry) Adopt(ctx context.Context, add ...string) error {
	if len(add) == 0 {
		return nil
	}
	return r.do(ctx, func(ctx context.Context) error {
		list, err := r.load(ctx)
		if err != nil {
			return err
		}
		n := len(list)
		for _, k := range add {
			if !slices.Contains(list, k) {
				list = append(list, k)
			}
		}
		if len(list) == n {
			return nil
		}
		return r.save(ctx, list)
	})
}

// ListAll returns every registered key in registration order.
func (r *Registry) ListAll(ctx context.Context) ([]string, error) {
	var out []string
	err := r.do(ctx, func(ctx context.Context) error {
		list, err := r.load(ctx)
		out = list
		return err
	})
	return out, err
}

// ListByNamespace returns the registered keys that belong to namespace.
func (r *Registry) ListByNamespace(ctx context.Context, namespace string) ([]string, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	prefix := r.enc.NamespacePrefix(namespace)
	return slices.DeleteFunc(all, func(k string) bool {
		return !strings.HasPrefix(k, prefix)
	}), nil
}

/*
Reset removes every registered entry and the registry record itself in one bulk
delete, and returns the keys it removed.
*/
func (r *Registry) Reset(ctx context.Context) ([]string, error) {
	var removed []string
	err := r.do(ctx, func(ctx context.Context) error {
		list, err := r.load(ctx)
		if err != nil {
			return err
		}
		if err := r.store.MultiRemove(ctx, append(slices.Clone(list), r.enc.Registry())); err != nil {
			return errors.WithContext(
				errors.Wrap(err, errors.CodeDatabase, "clear registered entries"),
				"keys", len(list),
			)
		}
		removed = list
		return nil
	})
	return removed, err
}

/*
Close shuts the worker down. An operation already handed to the worker completes;
operations issued afterwards fail with ErrClosed. Close is idempotent.
*/
func (r *Registry) Close() {
	r.once.Do(func() { close(r.stop) })
	r.wg.Wait()
}

// load reads the registry record. A missing record is an empty registry; an
// unreadable one is logged and also treated as empty.
func (r *Registry) load(ctx context.Context) ([]string, error) {
	raw, ok, err := r.store.Get(ctx, r.enc.Registry())
	if err != nil {
		return nil, errors.WithContext(
			errors.Wrap(err, errors.CodeDatabase, "read registry"),
			"storage_key", r.enc.Registry(),
		)
	}
	if !ok {
		return nil, nil
	}

	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		r.logger.Warn("Registry record is corrupt, starting empty", "storage_key", r.enc.Registry(), "error", err)
		return nil, nil
	}

	// Drop duplicates left behind by older writers.
	seen := make(map[string]struct{}, len(list))
	return slices.DeleteFunc(list, func(k string) bool {
		if _, dup := seen[k]; dup {
			return true
		}
		seen[k] = struct{}{}
		return false
	}), nil
}

func (r *Registry) save(ctx context.Context, list []string) error {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "encode registry")
	}
	if err := r.store.Set(ctx, r.enc.Registry(), string(b)); err != nil {
		return errors.WithContext(
			errors.Wrap(err, errors.CodeDatabase, "write registry"),
			"storage_key", r.enc.Registry(),
		)
	}
	return nil
}
