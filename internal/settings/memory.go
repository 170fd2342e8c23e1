// Package settings provides the in-memory SettingsStore implementation.
package settings

import (
	"context"

	"github.com/jellydator/ttlcache/v3"

	"github.com/sakif/plsleave/internal/model"
	"github.com/sakif/plsleave/internal/repository"
)

// compile-time check that *MemoryStore implements repository.SettingsStore
var _ repository.SettingsStore = (*MemoryStore)(nil)

// MemoryStore keeps settings in process memory, keyed by user email.
//
// VOLATILITY WARNING:
// Everything here is lost on restart. This store is a transient cache of
// preferences, not a source of truth — it exists for tests and for running
// without a database. Production wiring uses the SQLite-backed store instead.
//
// Entries are held in a ttlcache with ttlcache.NoTTL, so nothing ever
// expires; the cache gives us a concurrency-safe map with the same shape as
// the other stores in this codebase.
type MemoryStore struct {
	cache *ttlcache.Cache[string, model.Settings]
}

// NewMemoryStore creates an empty in-memory settings store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: ttlcache.New[string, model.Settings](),
	}
}

// Get implements repository.SettingsStore.
func (s *MemoryStore) Get(_ context.Context, email string) (model.Settings, bool, error) {
	item := s.cache.Get(email)
	if item == nil {
		return model.Settings{}, false, nil
	}
	return item.Value(), true, nil
}

// Put implements repository.SettingsStore. Last write wins.
func (s *MemoryStore) Put(_ context.Context, email string, settings model.Settings) error {
	s.cache.Set(email, settings, ttlcache.NoTTL)
	return nil
}
