package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Driver names accepted by NewSQLSlotStore.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var sqlitePlaceholders = strings.NewReplacer("$1", "?", "$2", "?", "$3", "?")

// SQLSlotStore keeps design slots in a design_slots table. The statements are portable
// between Postgres (lib/pq) and SQLite (modernc.org/sqlite).
type SQLSlotStore struct {
	db     *sql.DB
	driver string
}

// NewSQLSlotStore wraps db; call Migrate before first use.
func NewSQLSlotStore(db *sql.DB, driver string) *SQLSlotStore {
	return &SQLSlotStore{db: db, driver: driver}
}

// rebind rewrites $N placeholders for drivers that only take ?.
func (s *SQLSlotStore) rebind(q string) string {
	if s.driver == DriverSQLite {
		return sqlitePlaceholders.Replace(q)
	}
	return q
}

// Migrate creates the slot table if it does not exist.
func (s *SQLSlotStore) Migrate(ctx context.Context) error {
	const q = `
CREATE TABLE IF NOT EXISTS design_slots (
  slot       TEXT PRIMARY KEY,
  data       TEXT NOT NULL,
  updated_at TIMESTAMP NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("failed to migrate design_slots: %w", err)
	}
	return nil
}

// Put upserts the slot
func (s *SQLSlotStore) Put(ctx context.Context, key string, data []byte) error {
	const q = `
INSERT INTO design_slots (slot, data, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (slot) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at;
`
	if _, err := s.db.ExecContext(ctx, s.rebind(q), key, string(data), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to write slot: %w", err)
	}
	return nil
}

// Get reads the slot
func (s *SQLSlotStore) Get(ctx context.Context, key string) ([]byte, error) {
	const q = `SELECT data FROM design_slots WHERE slot = $1`

	var data string
	err := s.db.QueryRowContext(ctx, s.rebind(q), key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot: %w", err)
	}
	return []byte(data), nil
}

func (s *SQLSlotStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM design_slots WHERE slot = $1`), key); err != nil {
		return fmt.Errorf("failed to delete slot: %w", err)
	}
	return nil
}

func (s *SQLSlotStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
