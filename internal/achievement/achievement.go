package achievement

import (
	"time"

	"github.com/google/uuid"

	"fitCoachAPI/internal/metrics"
)

type Category string

const (
	CategoryStreak    Category = "streak"
	CategoryMilestone Category = "milestone"
	CategoryChallenge Category = "challenge"
)

// CriteriaType selects which metric a definition's threshold is compared
// against. Keeping criteria as data rather than closures lets the catalog
// be inspected and tested in isolation.
type CriteriaType string

const (
	CriteriaStreakDays    CriteriaType = "streak_days"
	CriteriaPerfectWeek   CriteriaType = "perfect_week"
	CriteriaFirstFullWeek CriteriaType = "first_full_week"
	CriteriaTotalWorkouts CriteriaType = "total_workouts"
	CriteriaTotalMeals    CriteriaType = "total_meals"
)

// Definition is one entry of the static rule catalog. Title doubles as
// the identifier for the "already granted" check, so titles are unique.
type Definition struct {
	ID          string       `json:"id"`
	Category    Category     `json:"category"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Icon        string       `json:"icon"`
	Points      int          `json:"points"`
	Criteria    CriteriaType `json:"criteria_type"`
	Threshold   int          `json:"criteria_value"`
}

// Met evaluates the definition's predicate against a metrics snapshot.
// Pure: no rule depends on another rule having been granted first.
func (d Definition) Met(m *metrics.Metrics) bool {
	switch d.Criteria {
	case CriteriaStreakDays:
		return m.Streak >= d.Threshold
	case CriteriaPerfectWeek:
		return m.WeeklyCompletionPercentage == 100
	case CriteriaFirstFullWeek:
		return m.WeeklyCompletionPercentage == 100 && m.WeeksFullyCompleted == 1
	case CriteriaTotalWorkouts:
		return m.TotalWorkoutsCompleted >= d.Threshold
	case CriteriaTotalMeals:
		return m.TotalMealsLogged >= d.Threshold
	}
	return false
}

// Achievement is one unlock event, immutable once created. At most one
// row per (user_id, title) ever exists; the database enforces this.
type Achievement struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Category    Category  `json:"category" db:"category"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Icon        string    `json:"icon" db:"icon"`
	Points      int       `json:"points" db:"points"`
	EarnedAt    time.Time `json:"earned_at" db:"earned_at"`
}

// WithStatus pairs a catalog definition with a user's unlock state for
// profile screens.
type WithStatus struct {
	Definition
	Unlocked bool       `json:"unlocked"`
	EarnedAt *time.Time `json:"earned_at,omitempty"`
}
