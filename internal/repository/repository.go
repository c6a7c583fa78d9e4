package repository

import (
	"github.com/yourusername/encore-edge/internal/database"
)

// Repositories aggregates all data access repositories
type Repositories struct {
	UpdateLog UpdateLogRepository
}

// NewRepositories creates all repositories backed by one database pool
func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		UpdateLog: NewPostgresUpdateLogRepository(db),
	}
}
