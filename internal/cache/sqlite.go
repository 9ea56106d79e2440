package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/spotkit/internal/shared"
)

// SQLiteStore keeps entries in the token_cache table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore runs pending migrations on db and returns a store backed by it.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if err := shared.RunMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to migrate token cache: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// OpenSQLiteStore opens the database at path and prepares it for use as a token cache.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, err
	}

	store, err := NewSQLiteStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Read(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, "SELECT payload FROM token_cache WHERE cache_key = ?", key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrCacheMiss, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query token cache: %w", err)
	}
	return payload, nil
}

// Write upserts the entry so concurrent writers never observe a missing row.
func (s *SQLiteStore) Write(ctx context.Context, key string, data []byte) error {
	query := `
		INSERT INTO token_cache (cache_key, payload, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(cache_key) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := s.db.ExecContext(ctx, query, key, data); err != nil {
		return fmt.Errorf("failed to write token cache: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM token_cache WHERE cache_key = ?", key); err != nil {
		return fmt.Errorf("failed to delete token cache: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
