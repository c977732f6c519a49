package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fitCoachAPI/internal/dailygoal"
	"fitCoachAPI/internal/metrics"
	"fitCoachAPI/internal/streak"
)

type GoalService struct {
	db      *pgxpool.Pool
	streaks *StreakService
}

func NewGoalService(db *pgxpool.Pool, streaks *StreakService) *GoalService {
	return &GoalService{db: db, streaks: streaks}
}

// LogWorkout records a workout entry. A completed workout bumps the day's
// goal counters, and satisfying the whole day's goal feeds the streak.
func (g *GoalService) LogWorkout(ctx context.Context, userID uuid.UUID, req *dailygoal.LogWorkoutRequest) (*dailygoal.WorkoutLog, error) {
	date, err := resolveDate(req.Date)
	if err != nil {
		return nil, err
	}

	entry := &dailygoal.WorkoutLog{
		UserID:          userID,
		Name:            req.Name,
		DurationMinutes: req.DurationMinutes,
		Completed:       req.Completed,
		Date:            date,
	}

	query := `
	INSERT INTO workout_logs (user_id, name, duration_minutes, completed, date)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, created_at
	`

	err = g.db.QueryRow(ctx, query,
		userID, req.Name, req.DurationMinutes, req.Completed, date,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to log workout: %w", err)
	}

	if req.Completed {
		if err := g.bumpGoal(ctx, userID, date, 1, 0); err != nil {
			return nil, err
		}
	}

	return entry, nil
}

// LogMeal records a meal entry; a logged meal bumps the day's counters.
func (g *GoalService) LogMeal(ctx context.Context, userID uuid.UUID, req *dailygoal.LogMealRequest) (*dailygoal.MealLog, error) {
	date, err := resolveDate(req.Date)
	if err != nil {
		return nil, err
	}

	entry := &dailygoal.MealLog{
		UserID:   userID,
		Name:     req.Name,
		Calories: req.Calories,
		Logged:   req.Logged,
		Date:     date,
	}

	query := `
	INSERT INTO meal_logs (user_id, name, calories, logged, date)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, created_at
	`

	err = g.db.QueryRow(ctx, query,
		userID, req.Name, req.Calories, req.Logged, date,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to log meal: %w", err)
	}

	if req.Logged {
		if err := g.bumpGoal(ctx, userID, date, 0, 1); err != nil {
			return nil, err
		}
	}

	return entry, nil
}

// SetTargets upserts the day's targets without touching completions.
func (g *GoalService) SetTargets(ctx context.Context, userID uuid.UUID, req *dailygoal.SetTargetsRequest) (*dailygoal.DailyGoal, error) {
	if req.TargetWorkouts < 0 || req.TargetMeals < 0 {
		return nil, fmt.Errorf("targets must not be negative")
	}

	date, err := resolveDate(req.Date)
	if err != nil {
		return nil, err
	}

	query := `
	INSERT INTO daily_goals (user_id, date, target_workouts, target_meals)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (user_id, date)
	DO UPDATE SET
		target_workouts = $3,
		target_meals = $4,
		updated_at = NOW()
	RETURNING id, user_id, date, target_workouts, completed_workouts, target_meals, completed_meals, created_at, updated_at
	`

	goal := &dailygoal.DailyGoal{}
	err = g.db.QueryRow(ctx, query, userID, date, req.TargetWorkouts, req.TargetMeals).Scan(
		&goal.ID, &goal.UserID, &goal.Date,
		&goal.TargetWorkouts, &goal.CompletedWorkouts,
		&goal.TargetMeals, &goal.CompletedMeals,
		&goal.CreatedAt, &goal.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set targets: %w", err)
	}

	return goal, nil
}

// GetGoal returns the day's goal row, or a default-target row with zero
// completions when the user has not touched that day yet.
func (g *GoalService) GetGoal(ctx context.Context, userID uuid.UUID, date time.Time) (*dailygoal.DailyGoal, error) {
	query := `
	SELECT id, user_id, date, target_workouts, completed_workouts, target_meals, completed_meals, created_at, updated_at
	FROM daily_goals
	WHERE user_id = $1 AND date = $2
	`

	goal := &dailygoal.DailyGoal{}
	err := g.db.QueryRow(ctx, query, userID, streak.Day(date)).Scan(
		&goal.ID, &goal.UserID, &goal.Date,
		&goal.TargetWorkouts, &goal.CompletedWorkouts,
		&goal.TargetMeals, &goal.CompletedMeals,
		&goal.CreatedAt, &goal.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &dailygoal.DailyGoal{
				UserID:         userID,
				Date:           streak.Day(date),
				TargetWorkouts: dailygoal.DefaultTargetWorkouts,
				TargetMeals:    dailygoal.DefaultTargetMeals,
			}, nil
		}
		return nil, fmt.Errorf("failed to get daily goal: %w", err)
	}

	return goal, nil
}

// WeekProgress summarizes the current calendar week for display.
func (g *GoalService) WeekProgress(ctx context.Context, userID uuid.UUID, now time.Time) (*dailygoal.WeekProgress, error) {
	query := `
	SELECT
		COALESCE(COUNT(*) FILTER (
			WHERE target_workouts + target_meals > 0
			  AND completed_workouts >= target_workouts
			  AND completed_meals >= target_meals), 0),
		COALESCE(SUM(LEAST(completed_workouts, target_workouts) + LEAST(completed_meals, target_meals)), 0),
		COALESCE(SUM(target_workouts + target_meals), 0)
	FROM daily_goals
	WHERE user_id = $1 AND date >= $2 AND date <= $3
	`

	var satisfied, completed, target int
	err := g.db.QueryRow(ctx, query, userID, metrics.WeekStart(now), metrics.WeekEnd(now)).Scan(&satisfied, &completed, &target)
	if err != nil {
		return nil, fmt.Errorf("failed to get week progress: %w", err)
	}

	return &dailygoal.WeekProgress{
		DaysSatisfied: satisfied,
		TotalDays:     7,
		Completion:    metrics.CompletionPercentage(completed, target),
	}, nil
}

// bumpGoal adds completed units to the day's goal row, creating it with
// default targets when absent, and feeds the streak once the day's goal
// is satisfied. The streak tracker dedups repeat same-day triggers, so
// calling it on every satisfied bump is harmless.
func (g *GoalService) bumpGoal(ctx context.Context, userID uuid.UUID, date time.Time, workouts, meals int) error {
	query := `
	INSERT INTO daily_goals (user_id, date, target_workouts, target_meals, completed_workouts, completed_meals)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (user_id, date)
	DO UPDATE SET
		completed_workouts = daily_goals.completed_workouts + $5,
		completed_meals = daily_goals.completed_meals + $6,
		updated_at = NOW()
	RETURNING target_workouts, completed_workouts, target_meals, completed_meals
	`

	goal := &dailygoal.DailyGoal{UserID: userID, Date: date}
	err := g.db.QueryRow(ctx, query,
		userID, date,
		dailygoal.DefaultTargetWorkouts, dailygoal.DefaultTargetMeals,
		workouts, meals,
	).Scan(&goal.TargetWorkouts, &goal.CompletedWorkouts, &goal.TargetMeals, &goal.CompletedMeals)
	if err != nil {
		return fmt.Errorf("failed to update daily goal: %w", err)
	}

	if goal.Satisfied() {
		if _, err := g.streaks.RecordActivity(ctx, userID, date); err != nil {
			return fmt.Errorf("failed to record streak activity: %w", err)
		}
	}

	return nil
}

// resolveDate parses an optional YYYY-MM-DD request field, defaulting to
// today. Dates are day-granular throughout.
func resolveDate(raw string) (time.Time, error) {
	if raw == "" {
		return streak.Day(time.Now()), nil
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	return streak.Day(d), nil
}
