package metrics

import "time"

// Metrics is a point-in-time aggregation of a client's behavior, computed
// fresh for every achievement evaluation and never cached.
type Metrics struct {
	Streak                     int     `json:"streak"`
	WeeklyCompletionPercentage float64 `json:"weekly_completion_percentage"`
	WeeksFullyCompleted        int     `json:"weeks_fully_completed"`
	TotalWorkoutsCompleted     int     `json:"total_workouts_completed"`
	TotalMealsLogged           int     `json:"total_meals_logged"`
}

// CompletionPercentage converts completed/target unit counts to 0-100.
// A zero target yields 0, not a division error.
func CompletionPercentage(completed, target int) float64 {
	if target <= 0 {
		return 0
	}
	return float64(completed) / float64(target) * 100
}

// WeekStart returns midnight UTC of the Monday of t's calendar week.
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	return day.AddDate(0, 0, -offset)
}

// WeekEnd returns midnight UTC of the Sunday of t's calendar week. Weekly
// aggregates span the whole week, not just the elapsed part, so goal rows
// a trainer plans ahead already count against the week's denominator.
func WeekEnd(t time.Time) time.Time {
	return WeekStart(t).AddDate(0, 0, 6)
}

// WeeksFromFullDays approximates "complete weeks" as full-completion days
// divided by seven. Rule predicates only gate on reaching a first full
// week, so exact calendar-week boundaries are not required here.
func WeeksFromFullDays(fullDays int) int {
	if fullDays < 0 {
		return 0
	}
	return fullDays / 7
}
