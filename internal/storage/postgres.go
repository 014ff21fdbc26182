package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"storefront_admin/internal/domain"
)

const createClientStateTable = `
CREATE TABLE IF NOT EXISTS admin_client_state (
    state_key   TEXT PRIMARY KEY,
    state_value TEXT NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

type PostgresStore struct {
	db     *sql.DB
	prefix string
	log    *logrus.Logger
}

var _ domain.KeyValueStore = (*PostgresStore)(nil)

// NewPostgresStore makes sure the state table exists.
func NewPostgresStore(ctx context.Context, db *sql.DB, prefix string, logger *logrus.Logger) (*PostgresStore, error) {
	if _, err := db.ExecContext(ctx, createClientStateTable); err != nil {
		logger.Errorf("PostgresStore: Failed to create admin_client_state table: %v", err)
		return nil, fmt.Errorf("failed to prepare client state table: %w", err)
	}
	return &PostgresStore{db: db, prefix: prefix, log: logger}, nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	query := `SELECT state_value FROM admin_client_state WHERE state_key = $1`
	var value string
	err := s.db.QueryRowContext(ctx, query, s.prefix+key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		s.log.Errorf("PostgresStore: Failed to read key %s: %v", key, err)
		return "", false, fmt.Errorf("postgres get %s: %w", key, err)
	}
	return value, true, nil
}

func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	query := `
        INSERT INTO admin_client_state (state_key, state_value, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (state_key) DO UPDATE SET state_value = EXCLUDED.state_value, updated_at = NOW()`
	if _, err := s.db.ExecContext(ctx, query, s.prefix+key, value); err != nil {
		s.log.Errorf("PostgresStore: Failed to write key %s: %v", key, err)
		return fmt.Errorf("postgres set %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Remove(ctx context.Context, key string) error {
	query := `DELETE FROM admin_client_state WHERE state_key = $1`
	if _, err := s.db.ExecContext(ctx, query, s.prefix+key); err != nil {
		s.log.Errorf("PostgresStore: Failed to delete key %s: %v", key, err)
		return fmt.Errorf("postgres remove %s: %w", key, err)
	}
	return nil
}
