package database

import (
	"context"
	"fmt"

	"github.com/yourusername/encore-edge/internal/config"
)

// Initialize creates a database connection pool and ensures the
// update-log schema exists. The schema is one append-only table, so it
// is created in place rather than through a migration tool.
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := ensureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func ensureSchema(ctx context.Context, db *DB) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS update_log (
			id UUID PRIMARY KEY,
			version TEXT NOT NULL,
			entity TEXT NOT NULL,
			old_value DOUBLE PRECISION NOT NULL,
			new_value DOUBLE PRECISION NOT NULL,
			changes TEXT NOT NULL,
			author TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_update_log_created_at ON update_log (created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_update_log_entity ON update_log (entity);
	`

	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure update_log schema: %w", err)
	}
	return nil
}
