package repository

import (
	"testing"
)

const skipIntegrationMsg = "Integration test - requires database setup"

// TestUpdateLogRepositoryRoundTrip tests saving and reading entries
func TestUpdateLogRepositoryRoundTrip(t *testing.T) {
	// db := database.SetupTestDB(t)
	// defer database.TeardownTestDB(t, db)

	// repos := NewRepositories(db)

	// entry := models.UpdateLogEntry{
	// 	ID:        uuid.New(),
	// 	Version:   "2.0",
	// 	Entity:    "NUEVAYoL",
	// 	OldValue:  0.28,
	// 	NewValue:  0.40,
	// 	Changes:   "probability: 0.28 -> 0.40",
	// 	Author:    "analyst",
	// 	CreatedAt: time.Now().UTC(),
	// }

	// ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	// defer cancel()

	// if err := repos.UpdateLog.SaveEntry(ctx, entry); err != nil {
	// 	t.Fatalf("failed to save entry: %v", err)
	// }

	// recent, err := repos.UpdateLog.Recent(ctx, 1)
	// if err != nil {
	// 	t.Fatalf("failed to load recent entries: %v", err)
	// }

	// if len(recent) != 1 || recent[0].ID != entry.ID {
	// 	t.Errorf("expected the saved entry back, got %+v", recent)
	// }
	t.Skip(skipIntegrationMsg)
}

// TestUpdateLogRepositoryByEntity tests per-entity history queries
func TestUpdateLogRepositoryByEntity(t *testing.T) {
	// db := database.SetupTestDB(t)
	// defer database.TeardownTestDB(t, db)

	// repos := NewRepositories(db)

	// ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	// defer cancel()

	// history, err := repos.UpdateLog.ByEntity(ctx, "NUEVAYoL")
	// if err != nil {
	// 	t.Fatalf("failed to load entity history: %v", err)
	// }

	// for i := 1; i < len(history); i++ {
	// 	if history[i].CreatedAt.After(history[i-1].CreatedAt) {
	// 		t.Error("expected entries newest first")
	// 	}
	// }
	t.Skip(skipIntegrationMsg)
}
