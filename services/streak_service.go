package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fitCoachAPI/internal/streak"
	"fitCoachAPI/utils"
)

type StreakService struct {
	db           *pgxpool.Pool
	achievements *AchievementService
	notifier     utils.NotificationCreator
}

func NewStreakService(db *pgxpool.Pool, achievements *AchievementService, notifier utils.NotificationCreator) *StreakService {
	return &StreakService{db: db, achievements: achievements, notifier: notifier}
}

// GetStreak returns the user's streak record. A user with no recorded
// activity gets an empty record, not an error.
func (s *StreakService) GetStreak(ctx context.Context, userID uuid.UUID) (*streak.Record, error) {
	query := `
	SELECT id, user_id, current_streak, longest_streak, last_activity_date, created_at, updated_at
	FROM streaks
	WHERE user_id = $1
	`

	rec := &streak.Record{}
	err := s.db.QueryRow(ctx, query, userID).Scan(
		&rec.ID,
		&rec.UserID,
		&rec.CurrentStreak,
		&rec.LongestStreak,
		&rec.LastActivityDate,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &streak.Record{UserID: userID}, nil
		}
		return nil, fmt.Errorf("failed to get streak: %w", err)
	}

	return rec, nil
}

// RecordActivity applies one day of qualifying activity to the user's
// streak. Called whenever a day's goal becomes satisfied; a repeat call
// for the same date is a no-op. After any persisted change the achievement
// engine is kicked off in the background; its failure never rolls back
// the streak update.
func (s *StreakService) RecordActivity(ctx context.Context, userID uuid.UUID, date time.Time) (*streak.Record, error) {
	rec, err := s.GetStreak(ctx, userID)
	if err != nil {
		return nil, err
	}

	outcome := streak.Apply(rec, streak.Activity{Date: date})
	if outcome == streak.Unchanged {
		return rec, nil
	}

	query := `
	INSERT INTO streaks (user_id, current_streak, longest_streak, last_activity_date)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (user_id)
	DO UPDATE SET
		current_streak = $2,
		longest_streak = $3,
		last_activity_date = $4,
		updated_at = NOW()
	RETURNING id, created_at, updated_at
	`

	err = s.db.QueryRow(ctx, query, userID, rec.CurrentStreak, rec.LongestStreak, rec.LastActivityDate).Scan(
		&rec.ID,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to persist streak: %w", err)
	}

	if s.achievements != nil {
		go func() {
			bgCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if _, err := s.achievements.CheckAchievements(bgCtx, userID); err != nil {
				log.Printf("Achievement check after activity failed for user %s: %v", userID, err)
			}
		}()
	}

	return rec, nil
}

// SweepBreaks zeroes current_streak for every user whose last activity is
// older than yesterday, leaving longest_streak and last_activity_date
// alone. Runs on its own schedule, independent of any user action, and is
// safe to run alongside RecordActivity: the row update is atomic.
func (s *StreakService) SweepBreaks(ctx context.Context, now time.Time) (int, error) {
	query := `
	UPDATE streaks
	SET current_streak = 0, updated_at = NOW()
	WHERE current_streak > 0 AND last_activity_date < $1
	`

	result, err := s.db.Exec(ctx, query, streak.BreakCutoff(now))
	if err != nil {
		return 0, fmt.Errorf("failed to sweep streaks: %w", err)
	}

	broken := int(result.RowsAffected())
	if broken > 0 {
		streaksBrokenTotal.Add(float64(broken))
	}
	return broken, nil
}

// IsAtRisk reports whether the user has not yet satisfied today's goal.
// Pure query, no mutation: a missing goal row means nothing is done yet.
func (s *StreakService) IsAtRisk(ctx context.Context, userID uuid.UUID, today time.Time) (bool, error) {
	query := `
	SELECT target_workouts + target_meals > 0
	   AND completed_workouts >= target_workouts
	   AND completed_meals >= target_meals
	FROM daily_goals
	WHERE user_id = $1 AND date = $2
	`

	var satisfied bool
	err := s.db.QueryRow(ctx, query, userID, streak.Day(today)).Scan(&satisfied)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return true, nil
		}
		return false, fmt.Errorf("failed to check today's goal: %w", err)
	}

	return !satisfied, nil
}

// NotifyAtRisk sends a reminder to every user whose live streak would
// break tomorrow because today's goal is still unsatisfied. Returns the
// number of reminders queued.
func (s *StreakService) NotifyAtRisk(ctx context.Context, now time.Time) (int, error) {
	if s.notifier == nil {
		return 0, nil
	}

	query := `
	SELECT st.user_id, st.current_streak
	FROM streaks st
	LEFT JOIN daily_goals dg ON dg.user_id = st.user_id AND dg.date = $1
	WHERE st.current_streak > 0
	  AND (dg.user_id IS NULL
	       OR dg.target_workouts + dg.target_meals = 0
	       OR dg.completed_workouts < dg.target_workouts
	       OR dg.completed_meals < dg.target_meals)
	`

	rows, err := s.db.Query(ctx, query, streak.Day(now))
	if err != nil {
		return 0, fmt.Errorf("failed to find at-risk streaks: %w", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var userID uuid.UUID
		var current int
		if err := rows.Scan(&userID, &current); err != nil {
			log.Printf("Failed to scan at-risk streak row: %v", err)
			continue
		}
		utils.StreakAtRisk(s.notifier, userID, current)
		count++
	}
	if err := rows.Err(); err != nil {
		return count, fmt.Errorf("failed to read at-risk streaks: %w", err)
	}

	return count, nil
}
