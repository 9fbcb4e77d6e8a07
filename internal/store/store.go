// Package store provides the Badger-backed persistence layer for the MyFi
// recommendation pipeline: the book catalog, per-user reading profiles, and
// each user's last computed recommendation set.
package store

import (
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/JovelRamos/myfi-server/internal/domain"
)

// Key prefixes for the entity keyspaces.
const (
	prefixBook            = "book:"
	prefixProfile         = "profile:"
	prefixRecommendations = "recs:"
)

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	// Generic entities.
	Books           *Entity[domain.Book]
	Profiles        *Entity[domain.ReadingProfile]
	Recommendations *Entity[domain.SavedRecommendations]
}

// New creates a new Store at the given database path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Sync writes to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	store := &Store{
		db:     db,
		logger: logger,
	}

	store.Books = NewEntity[domain.Book](store, prefixBook)
	store.Profiles = NewEntity[domain.ReadingProfile](store, prefixProfile)
	store.Recommendations = NewEntity[domain.SavedRecommendations](store, prefixRecommendations)

	if logger != nil {
		logger.Info("badger database opened", "path", path)
	}

	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
