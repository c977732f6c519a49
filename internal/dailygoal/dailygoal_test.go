package dailygoal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSatisfied(t *testing.T) {
	tests := []struct {
		name string
		goal DailyGoal
		want bool
	}{
		{"all targets met", DailyGoal{TargetWorkouts: 1, CompletedWorkouts: 1, TargetMeals: 3, CompletedMeals: 3}, true},
		{"meals short", DailyGoal{TargetWorkouts: 1, CompletedWorkouts: 1, TargetMeals: 3, CompletedMeals: 2}, false},
		{"workouts short", DailyGoal{TargetWorkouts: 2, CompletedWorkouts: 1, TargetMeals: 3, CompletedMeals: 3}, false},
		{"overshoot still satisfied", DailyGoal{TargetWorkouts: 1, CompletedWorkouts: 2, TargetMeals: 3, CompletedMeals: 5}, true},
		{"no targets never satisfies", DailyGoal{}, false},
		{"meals-only day", DailyGoal{TargetMeals: 3, CompletedMeals: 3}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.goal.Satisfied())
		})
	}
}

func TestCompletedUnitsCapsOvershoot(t *testing.T) {
	g := DailyGoal{TargetWorkouts: 1, CompletedWorkouts: 4, TargetMeals: 3, CompletedMeals: 1}
	assert.Equal(t, 4, g.TargetUnits())
	// 1 capped workout + 1 meal: overshooting workouts cannot stand in for meals.
	assert.Equal(t, 2, g.CompletedUnits())
}
