package catalogs

import "sync/atomic"

// Catalog is the published-catalog abstraction: a holder for the latest
// complete snapshot. Reads never block and never trigger a refresh; writers
// replace the snapshot wholesale.
type Catalog interface {
	// Snapshot returns the most recently published snapshot. It is never
	// nil; before the first publish it is an empty snapshot.
	Snapshot() *Snapshot

	// Publish atomically replaces the current snapshot. Readers holding the
	// previous snapshot continue to see it complete and unchanged.
	Publish(*Snapshot)
}

// memoryCatalog publishes snapshots through an atomic pointer swap. Because a
// snapshot is immutable, concurrent readers need no locks: they observe either
// the old or the new complete snapshot, never a mix.
type memoryCatalog struct {
	current atomic.Pointer[Snapshot]
}

// New creates an in-memory catalog holding an empty snapshot.
func New() Catalog {
	c := &memoryCatalog{}
	c.current.Store(NewSnapshot(nil, Metadata{}))
	return c
}

// Snapshot returns the currently published snapshot.
func (c *memoryCatalog) Snapshot() *Snapshot {
	return c.current.Load()
}

// Publish replaces the published snapshot. A nil snapshot is ignored so a
// failed refresh can never unpublish the previous catalog.
func (c *memoryCatalog) Publish(s *Snapshot) {
	if s == nil {
		return
	}
	c.current.Store(s)
}
