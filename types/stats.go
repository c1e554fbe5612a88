package types

// NamespaceStats aggregates the entries of one namespace.
type NamespaceStats struct {
	Keys int   `json:"keys"`
	Size int64 `json:"size"`
}

// Stats is the read-only size report over every readable registered entry.
// Expired entries that have not been swept yet are counted, and also tallied in ExpiredKeys.
type Stats struct {
	TotalKeys   int                       `json:"totalKeys"`
	TotalSize   int64                     `json:"totalSize"`
	ExpiredKeys int                       `json:"expiredKeys"`
	Namespaces  map[string]NamespaceStats `json:"namespaces"`
}

// ReconcileReport describes what Reconcile changed.
type ReconcileReport struct {
	// Dropped are registered keys that had no entry in the store.
	Dropped []string `json:"dropped"`
	// Adopted are stored entries that were missing from the registry.
	Adopted []string `json:"adopted"`
	// Purged are corrupt records that were deleted.
	Purged []string `json:"purged"`
}
