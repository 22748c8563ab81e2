package catalog

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"inventory/pkg/logger"
)

// Store holds the current snapshot and swaps it atomically on refresh.
// Readers keep whatever snapshot they obtained, so an order being edited is
// never affected by a concurrent refresh.
type Store struct {
	source  Source
	timeout time.Duration
	current atomic.Pointer[Snapshot]
	loaded  atomic.Bool
}

// NewStore creates a store backed by source. The store starts with an empty
// snapshot until Refresh succeeds.
func NewStore(source Source, timeout time.Duration) *Store {
	s := &Store{source: source, timeout: timeout}
	s.current.Store(Empty())
	return s
}

// Snapshot returns the current snapshot.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Ready reports whether at least one refresh has succeeded.
func (s *Store) Ready() bool {
	return s.loaded.Load()
}

// Refresh reloads the catalog from the source. On failure the previous
// snapshot stays in place.
func (s *Store) Refresh(ctx context.Context) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	products, err := s.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	snap := NewSnapshot(products)
	s.current.Store(snap)
	s.loaded.Store(true)

	logger.Info(ctx, "catalog snapshot refreshed", "products", snap.Len())
	return nil
}
