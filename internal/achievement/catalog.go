package achievement

import "fitCoachAPI/internal/metrics"

// Catalog is the fixed rule set. Entries are only ever added, never
// removed or mutated, so earned rows always have a matching definition.
var Catalog = []Definition{
	{
		ID:          "streak_3",
		Category:    CategoryStreak,
		Title:       "On a Roll",
		Description: "Hit your daily goal 3 days in a row",
		Icon:        "flame",
		Points:      50,
		Criteria:    CriteriaStreakDays,
		Threshold:   3,
	},
	{
		ID:          "streak_7",
		Category:    CategoryStreak,
		Title:       "Week Strong",
		Description: "Hit your daily goal 7 days in a row",
		Icon:        "bolt",
		Points:      100,
		Criteria:    CriteriaStreakDays,
		Threshold:   7,
	},
	{
		ID:          "streak_30",
		Category:    CategoryStreak,
		Title:       "Iron Month",
		Description: "Hit your daily goal 30 days in a row",
		Icon:        "trophy",
		Points:      300,
		Criteria:    CriteriaStreakDays,
		Threshold:   30,
	},
	{
		ID:          "first_week_complete",
		Category:    CategoryMilestone,
		Title:       "First Full Week",
		Description: "Complete every target in a week for the first time",
		Icon:        "calendar-check",
		Points:      150,
		Criteria:    CriteriaFirstFullWeek,
		Threshold:   1,
	},
	{
		ID:          "perfect_week",
		Category:    CategoryChallenge,
		Title:       "Perfect Week",
		Description: "Reach 100% completion for the current week",
		Icon:        "star",
		Points:      200,
		Criteria:    CriteriaPerfectWeek,
		Threshold:   100,
	},
	{
		ID:          "workout_warrior",
		Category:    CategoryChallenge,
		Title:       "Workout Warrior",
		Description: "Complete 20 workouts",
		Icon:        "dumbbell",
		Points:      250,
		Criteria:    CriteriaTotalWorkouts,
		Threshold:   20,
	},
	{
		ID:          "nutrition_master",
		Category:    CategoryChallenge,
		Title:       "Nutrition Master",
		Description: "Log 100 meals",
		Icon:        "apple",
		Points:      250,
		Criteria:    CriteriaTotalMeals,
		Threshold:   100,
	},
}

// NewlyQualifying returns the catalog entries whose predicate holds for m
// and whose title is not in earned, in catalog order.
func NewlyQualifying(m *metrics.Metrics, earned map[string]bool) []Definition {
	var out []Definition
	for _, def := range Catalog {
		if earned[def.Title] {
			continue
		}
		if def.Met(m) {
			out = append(out, def)
		}
	}
	return out
}
