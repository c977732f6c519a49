package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fitCoachAPI/internal/metrics"
)

type MetricsService struct {
	db *pgxpool.Pool
}

func NewMetricsService(db *pgxpool.Pool) *MetricsService {
	return &MetricsService{db: db}
}

// Snapshot aggregates the user's behavioral counters as of now. The
// result is computed fresh on every call and never cached, so every
// achievement evaluation sees the latest persisted state.
func (s *MetricsService) Snapshot(ctx context.Context, userID uuid.UUID, now time.Time) (*metrics.Metrics, error) {
	m := &metrics.Metrics{}

	err := s.db.QueryRow(ctx, `SELECT current_streak FROM streaks WHERE user_id = $1`, userID).Scan(&m.Streak)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to read streak: %w", err)
	}

	// Current calendar week, Monday through Sunday. The full week is the
	// denominator, so targets pre-seeded for days not yet reached hold the
	// percentage down until they are actually met. Per-day completions are
	// capped at their targets so the percentage tops out at 100.
	weekQuery := `
	SELECT
		COALESCE(SUM(LEAST(completed_workouts, target_workouts) + LEAST(completed_meals, target_meals)), 0),
		COALESCE(SUM(target_workouts + target_meals), 0)
	FROM daily_goals
	WHERE user_id = $1 AND date >= $2 AND date <= $3
	`

	var completed, target int
	err = s.db.QueryRow(ctx, weekQuery, userID, metrics.WeekStart(now), metrics.WeekEnd(now)).Scan(&completed, &target)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate weekly goals: %w", err)
	}
	m.WeeklyCompletionPercentage = metrics.CompletionPercentage(completed, target)

	fullDaysQuery := `
	SELECT COUNT(*)
	FROM daily_goals
	WHERE user_id = $1
	  AND target_workouts + target_meals > 0
	  AND completed_workouts >= target_workouts
	  AND completed_meals >= target_meals
	`

	var fullDays int
	if err := s.db.QueryRow(ctx, fullDaysQuery, userID).Scan(&fullDays); err != nil {
		return nil, fmt.Errorf("failed to count completed days: %w", err)
	}
	m.WeeksFullyCompleted = metrics.WeeksFromFullDays(fullDays)

	err = s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM workout_logs WHERE user_id = $1 AND completed = true`,
		userID).Scan(&m.TotalWorkoutsCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to count workouts: %w", err)
	}

	err = s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM meal_logs WHERE user_id = $1 AND logged = true`,
		userID).Scan(&m.TotalMealsLogged)
	if err != nil {
		return nil, fmt.Errorf("failed to count meals: %w", err)
	}

	return m, nil
}
