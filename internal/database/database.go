package database

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/entrepages/diary-api/internal/config"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// ErrDuplicate marks a uniqueness violation reported by the store. The
// boundary maps it to a 400 instead of a generic storage failure.
var ErrDuplicate = errors.New("duplicate diary entry")

const ddl = `
CREATE TABLE IF NOT EXISTS diary_entries (
    id           SERIAL PRIMARY KEY,
    title        TEXT NOT NULL,
    content      TEXT NOT NULL,
    entry_date   DATE NOT NULL DEFAULT CURRENT_DATE,
    mood         TEXT,
    tags         TEXT[] NOT NULL DEFAULT '{}',
    photo        TEXT,
    is_favorite  BOOLEAN NOT NULL DEFAULT FALSE,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_diary_entries_entry_date  ON diary_entries(entry_date);
CREATE INDEX IF NOT EXISTS idx_diary_entries_mood        ON diary_entries(mood);
CREATE INDEX IF NOT EXISTS idx_diary_entries_is_favorite ON diary_entries(is_favorite);
CREATE INDEX IF NOT EXISTS idx_diary_entries_tags        ON diary_entries USING GIN (tags);
`

// Database wraps the shared connection pool. A single instance is created at
// startup and injected into everything that touches the store.
type Database struct {
	Db *sqlx.DB
}

func Connect(cfg config.Database) (*Database, error) {
	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	d := &Database{Db: db}
	if err := d.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

func (d *Database) migrate(ctx context.Context) error {
	if _, err := d.Db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

func (d *Database) Close() error {
	if d.Db != nil {
		return d.Db.Close()
	}
	return nil
}
