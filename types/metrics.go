package types

// This file defines how the cache reports what it is doing.

/*
Metrics is an interface that defines what the cache wants to measure.
Each method represents an event in the cache lifecycle.
*/
type Metrics interface {

	// Hit is called when Get returns a live value.
	Hit()

	// Miss is called when Get finds nothing usable: absent, expired, corrupt or unreadable.
	Miss()

	// Eviction is called once per entry removed to bring the cache back under budget.
	Eviction()

	// Expire is called once per entry removed because it passed its expiresAt.
	Expire()

	// Corruption is called when a stored record fails to parse or decompress.
	Corruption()
}

/*
NoopMetrics is a "do nothing" implementation of Metrics.
It is installed whenever no Metrics is configured, so callers never check for nil.
*/
type NoopMetrics struct{}

func (NoopMetrics) Hit()        {}
func (NoopMetrics) Miss()       {}
func (NoopMetrics) Eviction()   {}
func (NoopMetrics) Expire()     {}
func (NoopMetrics) Corruption() {}
