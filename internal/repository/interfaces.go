// Package repository provides data access for durably persisted state.
// The only state worth persisting is the append-only update log; model
// probabilities live in memory and are reseeded on restart.
package repository

import (
	"context"

	"github.com/yourusername/encore-edge/internal/models"
)

// UpdateLogRepository persists administrative update-log entries.
type UpdateLogRepository interface {
	// SaveEntry appends one entry. Entries are immutable once written.
	SaveEntry(ctx context.Context, entry models.UpdateLogEntry) error

	// Recent returns the most recent entries, newest first.
	Recent(ctx context.Context, limit int) ([]models.UpdateLogEntry, error)

	// ByEntity returns all entries for one entity, newest first.
	ByEntity(ctx context.Context, entity string) ([]models.UpdateLogEntry, error)

	// Count returns the total number of persisted entries.
	Count(ctx context.Context) (int64, error)
}
