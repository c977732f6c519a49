package dailygoal

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTargetWorkouts and DefaultTargetMeals seed a day's goal row when
// activity arrives before a trainer has set explicit targets.
const (
	DefaultTargetWorkouts = 1
	DefaultTargetMeals    = 3
)

// DailyGoal holds one client's targets and completions for a single date.
type DailyGoal struct {
	ID                uuid.UUID `json:"id" db:"id"`
	UserID            uuid.UUID `json:"user_id" db:"user_id"`
	Date              time.Time `json:"date" db:"date"`
	TargetWorkouts    int       `json:"target_workouts" db:"target_workouts"`
	CompletedWorkouts int       `json:"completed_workouts" db:"completed_workouts"`
	TargetMeals       int       `json:"target_meals" db:"target_meals"`
	CompletedMeals    int       `json:"completed_meals" db:"completed_meals"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// TargetUnits is the day's denominator for completion percentages.
func (g *DailyGoal) TargetUnits() int {
	return g.TargetWorkouts + g.TargetMeals
}

// CompletedUnits counts completions, capping each component at its target
// so overshooting one target cannot mask a miss on the other.
func (g *DailyGoal) CompletedUnits() int {
	return min(g.CompletedWorkouts, g.TargetWorkouts) + min(g.CompletedMeals, g.TargetMeals)
}

// Satisfied reports whether every target for the day has been met. A day
// with no targets at all is never satisfied; it cannot feed a streak.
func (g *DailyGoal) Satisfied() bool {
	if g.TargetUnits() == 0 {
		return false
	}
	return g.CompletedWorkouts >= g.TargetWorkouts && g.CompletedMeals >= g.TargetMeals
}

type LogWorkoutRequest struct {
	Name            string `json:"name" validate:"required"`
	DurationMinutes int    `json:"duration_minutes"`
	Completed       bool   `json:"completed"`
	Date            string `json:"date,omitempty"` // YYYY-MM-DD, defaults to today
}

type LogMealRequest struct {
	Name     string `json:"name" validate:"required"`
	Calories int    `json:"calories"`
	Logged   bool   `json:"logged"`
	Date     string `json:"date,omitempty"` // YYYY-MM-DD, defaults to today
}

type SetTargetsRequest struct {
	TargetWorkouts int    `json:"target_workouts"`
	TargetMeals    int    `json:"target_meals"`
	Date           string `json:"date,omitempty"`
}

// WorkoutLog is one workout entry; only completed entries count toward
// goals and metrics.
type WorkoutLog struct {
	ID              uuid.UUID `json:"id" db:"id"`
	UserID          uuid.UUID `json:"user_id" db:"user_id"`
	Name            string    `json:"name" db:"name"`
	DurationMinutes int       `json:"duration_minutes" db:"duration_minutes"`
	Completed       bool      `json:"completed" db:"completed"`
	Date            time.Time `json:"date" db:"date"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// MealLog is one meal entry; only logged entries count toward goals and
// metrics.
type MealLog struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Calories  int       `json:"calories" db:"calories"`
	Logged    bool      `json:"logged" db:"logged"`
	Date      time.Time `json:"date" db:"date"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// WeekProgress is a display-facing summary of the current week.
type WeekProgress struct {
	DaysSatisfied int     `json:"days_satisfied"`
	TotalDays     int     `json:"total_days"`
	Completion    float64 `json:"completion_percentage"`
}
