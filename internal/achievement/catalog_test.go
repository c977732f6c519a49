package achievement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitCoachAPI/internal/metrics"
)

func titlesOf(defs []Definition) []string {
	var out []string
	for _, d := range defs {
		out = append(out, d.ID)
	}
	return out
}

func TestCatalogTitlesAreUnique(t *testing.T) {
	seenTitle := map[string]bool{}
	seenID := map[string]bool{}
	for _, def := range Catalog {
		assert.False(t, seenTitle[def.Title], "duplicate title %q", def.Title)
		assert.False(t, seenID[def.ID], "duplicate id %q", def.ID)
		seenTitle[def.Title] = true
		seenID[def.ID] = true
	}
}

func TestCatalogEntriesAreWellFormed(t *testing.T) {
	require.Len(t, Catalog, 7)
	for _, def := range Catalog {
		assert.Positive(t, def.Points, "%s must award points", def.ID)
		assert.NotEmpty(t, def.Title, "%s needs a title", def.ID)
		assert.NotEmpty(t, def.Description, "%s needs a description", def.ID)
		assert.NotEmpty(t, def.Icon, "%s needs an icon", def.ID)
	}
}

func TestNewlyQualifyingSevenDayStreakWithFullFirstWeek(t *testing.T) {
	m := &metrics.Metrics{
		Streak:                     7,
		WeeklyCompletionPercentage: 100,
		WeeksFullyCompleted:        1,
		TotalWorkoutsCompleted:     2,
		TotalMealsLogged:           3,
	}

	got := NewlyQualifying(m, nil)

	assert.ElementsMatch(t,
		[]string{"streak_3", "streak_7", "first_week_complete", "perfect_week"},
		titlesOf(got))
}

func TestNewlyQualifyingExcludesEarned(t *testing.T) {
	m := &metrics.Metrics{Streak: 7}

	earned := map[string]bool{"On a Roll": true}
	got := NewlyQualifying(m, earned)

	assert.ElementsMatch(t, []string{"streak_7"}, titlesOf(got))
}

func TestNewlyQualifyingEmptyMetrics(t *testing.T) {
	got := NewlyQualifying(&metrics.Metrics{}, nil)
	assert.Empty(t, got)
}

func TestStreakThresholds(t *testing.T) {
	tests := []struct {
		streak int
		want   []string
	}{
		{0, nil},
		{2, nil},
		{3, []string{"streak_3"}},
		{7, []string{"streak_3", "streak_7"}},
		{29, []string{"streak_3", "streak_7"}},
		{30, []string{"streak_3", "streak_7", "streak_30"}},
		{365, []string{"streak_3", "streak_7", "streak_30"}},
	}
	for _, tt := range tests {
		got := NewlyQualifying(&metrics.Metrics{Streak: tt.streak}, nil)
		assert.ElementsMatch(t, tt.want, titlesOf(got), "streak=%d", tt.streak)
	}
}

func TestFirstFullWeekRequiresExactlyOneWeek(t *testing.T) {
	first := &metrics.Metrics{WeeklyCompletionPercentage: 100, WeeksFullyCompleted: 1}
	assert.Contains(t, titlesOf(NewlyQualifying(first, nil)), "first_week_complete")

	// A second full week no longer counts as the first.
	second := &metrics.Metrics{WeeklyCompletionPercentage: 100, WeeksFullyCompleted: 2}
	got := titlesOf(NewlyQualifying(second, nil))
	assert.NotContains(t, got, "first_week_complete")
	assert.Contains(t, got, "perfect_week")
}

func TestPerfectWeekRequiresFullCompletion(t *testing.T) {
	almost := &metrics.Metrics{WeeklyCompletionPercentage: 99.5}
	assert.NotContains(t, titlesOf(NewlyQualifying(almost, nil)), "perfect_week")
}

func TestVolumeThresholds(t *testing.T) {
	m := &metrics.Metrics{TotalWorkoutsCompleted: 20, TotalMealsLogged: 99}
	got := titlesOf(NewlyQualifying(m, nil))
	assert.Contains(t, got, "workout_warrior")
	assert.NotContains(t, got, "nutrition_master")

	m.TotalMealsLogged = 100
	assert.Contains(t, titlesOf(NewlyQualifying(m, nil)), "nutrition_master")
}

func TestMetUnknownCriteriaIsFalse(t *testing.T) {
	def := Definition{Criteria: CriteriaType("bogus"), Threshold: 0}
	assert.False(t, def.Met(&metrics.Metrics{Streak: 100}))
}
