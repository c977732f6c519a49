package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCompletionPercentage(t *testing.T) {
	assert.Equal(t, 0.0, CompletionPercentage(0, 0), "no targets means zero, not NaN")
	assert.Equal(t, 0.0, CompletionPercentage(5, 0))
	assert.Equal(t, 100.0, CompletionPercentage(10, 10))
	assert.Equal(t, 50.0, CompletionPercentage(5, 10))
	assert.Equal(t, 0.0, CompletionPercentage(0, 7))
}

func TestWeekStart(t *testing.T) {
	monday := time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   time.Time
	}{
		{"monday itself", time.Date(2024, time.January, 8, 9, 30, 0, 0, time.UTC)},
		{"midweek", time.Date(2024, time.January, 10, 23, 0, 0, 0, time.UTC)},
		{"sunday belongs to the preceding monday", time.Date(2024, time.January, 14, 12, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, monday, WeekStart(tt.in))
		})
	}
}

func TestWeekEnd(t *testing.T) {
	sunday := time.Date(2024, time.January, 14, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   time.Time
	}{
		{"monday", time.Date(2024, time.January, 8, 9, 30, 0, 0, time.UTC)},
		{"midweek", time.Date(2024, time.January, 10, 23, 0, 0, 0, time.UTC)},
		{"sunday itself", time.Date(2024, time.January, 14, 12, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, sunday, WeekEnd(tt.in))
			assert.Equal(t, WeekStart(tt.in).AddDate(0, 0, 6), WeekEnd(tt.in))
		})
	}
}

func TestWeeksFromFullDays(t *testing.T) {
	assert.Equal(t, 0, WeeksFromFullDays(0))
	assert.Equal(t, 0, WeeksFromFullDays(6))
	assert.Equal(t, 1, WeeksFromFullDays(7))
	assert.Equal(t, 1, WeeksFromFullDays(13))
	assert.Equal(t, 2, WeeksFromFullDays(14))
	assert.Equal(t, 0, WeeksFromFullDays(-3))
}
