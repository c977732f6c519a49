package helpers

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SetupTestDB creates a test database connection, skipping the test if no
// database is configured.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL or DATABASE_URL not set, skipping database test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	return pool
}

// CleanupUser removes every row written for the given test user.
func CleanupUser(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID) {
	ctx := context.Background()
	tables := []string{
		"notifications",
		"notification_preferences",
		"achievements",
		"workout_logs",
		"meal_logs",
		"daily_goals",
		"streaks",
	}
	for _, table := range tables {
		if _, err := pool.Exec(ctx, "DELETE FROM "+table+" WHERE user_id = $1", userID); err != nil {
			t.Logf("Warning: failed to cleanup %s: %v", table, err)
		}
	}
}

// CleanupTestDB removes test data and closes the pool.
func CleanupTestDB(t *testing.T, pool *pgxpool.Pool, userIDs ...uuid.UUID) {
	for _, id := range userIDs {
		CleanupUser(t, pool, id)
	}
	pool.Close()
}
