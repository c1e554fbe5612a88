package types

import "context"

// Store is the contract between the cache and the persistent key/value store.
//
// Values are plain strings. There are no transactions and no atomic multi-key
// updates; every method may fail with an I/O error.
type Store interface {

	/*
		Get returns the value stored under key.
		A missing key is reported as ok=false with a nil error, never as an error.
	*/
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key string, value string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error

	// MultiRemove deletes every key in keys. Missing keys are ignored.
	MultiRemove(ctx context.Context, keys []string) error
}

/*
KeyLister is implemented by stores that can enumerate their keys natively.

The cache never requires it. When available, Reconcile uses it to find entries
that exist in the store but are missing from the registry.
*/
type KeyLister interface {
	Keys(ctx context.Context, prefix string) ([]string, error)
}
