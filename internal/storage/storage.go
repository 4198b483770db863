package storage

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"mindmark/internal/config"
	"mindmark/internal/log"
)

// Storage combines the document database with a cache of stored document
// text keyed by name.
type Storage struct {
	db     *Database
	stored *lru.Cache[string, string]
	logger *log.Logger
}

// NewStorage opens the database named by cfg.
func NewStorage(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Storage, error) {
	if logger == nil {
		logger = log.Discard()
	}

	size := cfg.CacheSize
	if size <= 0 {
		size = config.Default().CacheSize
	}
	stored, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create document cache: %w", err)
	}

	db, err := OpenDatabase(ctx, cfg.DatabasePath(), logger)
	if err != nil {
		return nil, err
	}

	return &Storage{db: db, stored: stored, logger: logger}, nil
}

// Close releases the cache and the database.
func (s *Storage) Close() error {
	s.stored.Purge()
	return s.db.Close()
}
