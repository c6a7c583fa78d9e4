package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/encore-edge/internal/database"
	"github.com/yourusername/encore-edge/internal/models"
)

// PostgresUpdateLogRepository implements UpdateLogRepository for PostgreSQL
type PostgresUpdateLogRepository struct {
	db *database.DB
}

// NewPostgresUpdateLogRepository creates a new update-log repository
func NewPostgresUpdateLogRepository(db *database.DB) UpdateLogRepository {
	return &PostgresUpdateLogRepository{db: db}
}

// SaveEntry appends one update-log entry
func (r *PostgresUpdateLogRepository) SaveEntry(ctx context.Context, entry models.UpdateLogEntry) error {
	query := `
		INSERT INTO update_log (id, version, entity, old_value, new_value, changes, author, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		entry.ID, entry.Version, entry.Entity, entry.OldValue, entry.NewValue, entry.Changes, entry.Author, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save update-log entry: %w", err)
	}

	return nil
}

// Recent returns the most recent entries, newest first
func (r *PostgresUpdateLogRepository) Recent(ctx context.Context, limit int) ([]models.UpdateLogEntry, error) {
	query := `
		SELECT id, version, entity, old_value, new_value, changes, author, created_at
		FROM update_log
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query update log: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ByEntity returns all entries for one entity, newest first
func (r *PostgresUpdateLogRepository) ByEntity(ctx context.Context, entity string) ([]models.UpdateLogEntry, error) {
	query := `
		SELECT id, version, entity, old_value, new_value, changes, author, created_at
		FROM update_log
		WHERE entity = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, entity)
	if err != nil {
		return nil, fmt.Errorf("failed to query update log by entity: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Count returns the total number of persisted entries
func (r *PostgresUpdateLogRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetPool().QueryRow(ctx, "SELECT COUNT(*) FROM update_log").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count update-log entries: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanEntries(rows rowScanner) ([]models.UpdateLogEntry, error) {
	var entries []models.UpdateLogEntry
	for rows.Next() {
		var entry models.UpdateLogEntry
		err := rows.Scan(
			&entry.ID, &entry.Version, &entry.Entity, &entry.OldValue, &entry.NewValue,
			&entry.Changes, &entry.Author, &entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan update-log entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
