// Package store provides persistent key/value backends for the cache.
package store

import (
	"fmt"

	"github.com/go-git/go-billy/v5/osfs"

	"github.com/krisalay/store-cache/types"
)

// Driver names accepted by Open.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverFS     = "fs"
)

// Backend is a Store that owns resources released by Close.
type Backend interface {
	types.Store
	types.KeyLister
	Close() error
}

// Open returns the backend for driver. path is the database file for sqlite and
// the base directory for fs; memory ignores it.
func Open(driver, path string) (Backend, error) {
	switch driver {
	case DriverMemory, "":
		return NewMemory(), nil
	case DriverSQLite:
		s, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverFS:
		if path == "" {
			return nil, fmt.Errorf("storage path is required")
		}
		s, err := NewFilesystem(osfs.New(path))
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
