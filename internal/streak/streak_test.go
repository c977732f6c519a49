package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func recordWith(current, longest int, last time.Time) *Record {
	l := last
	return &Record{CurrentStreak: current, LongestStreak: longest, LastActivityDate: &l}
}

func TestApplyActivityFirstEver(t *testing.T) {
	rec := &Record{}

	outcome := Apply(rec, Activity{Date: date(2024, time.January, 1)})

	assert.Equal(t, Started, outcome)
	assert.Equal(t, 1, rec.CurrentStreak)
	assert.Equal(t, 1, rec.LongestStreak)
	require.NotNil(t, rec.LastActivityDate)
	assert.Equal(t, date(2024, time.January, 1), *rec.LastActivityDate)
}

func TestApplyActivityConsecutiveDay(t *testing.T) {
	rec := recordWith(5, 9, date(2024, time.January, 5))

	outcome := Apply(rec, Activity{Date: date(2024, time.January, 6)})

	assert.Equal(t, Extended, outcome)
	assert.Equal(t, 6, rec.CurrentStreak)
	assert.Equal(t, 9, rec.LongestStreak)
	assert.Equal(t, date(2024, time.January, 6), *rec.LastActivityDate)
}

func TestApplyActivityGapResets(t *testing.T) {
	rec := recordWith(5, 9, date(2024, time.January, 5))

	outcome := Apply(rec, Activity{Date: date(2024, time.January, 8)})

	assert.Equal(t, Reset, outcome)
	assert.Equal(t, 1, rec.CurrentStreak)
	assert.Equal(t, 9, rec.LongestStreak, "longest keeps the historical peak")
	assert.Equal(t, date(2024, time.January, 8), *rec.LastActivityDate)
}

func TestApplyActivitySameDayIsNoOp(t *testing.T) {
	rec := recordWith(3, 3, date(2024, time.March, 10))

	outcome := Apply(rec, Activity{Date: date(2024, time.March, 10)})

	assert.Equal(t, Unchanged, outcome)
	assert.Equal(t, 3, rec.CurrentStreak)
	assert.Equal(t, 3, rec.LongestStreak)
}

func TestApplyActivityIsIdempotentPerDay(t *testing.T) {
	once := &Record{}
	Apply(once, Activity{Date: date(2024, time.May, 1)})

	twice := &Record{}
	Apply(twice, Activity{Date: date(2024, time.May, 1)})
	Apply(twice, Activity{Date: date(2024, time.May, 1)})

	assert.Equal(t, *once.LastActivityDate, *twice.LastActivityDate)
	assert.Equal(t, once.CurrentStreak, twice.CurrentStreak)
	assert.Equal(t, once.LongestStreak, twice.LongestStreak)
}

func TestApplyActivityEarlierDateTreatedAsGap(t *testing.T) {
	rec := recordWith(4, 4, date(2024, time.June, 10))

	outcome := Apply(rec, Activity{Date: date(2024, time.June, 7)})

	assert.Equal(t, Reset, outcome)
	assert.Equal(t, 1, rec.CurrentStreak)
	assert.Equal(t, 4, rec.LongestStreak)
	assert.Equal(t, date(2024, time.June, 7), *rec.LastActivityDate)
}

func TestApplyActivityNewRecordLongest(t *testing.T) {
	rec := recordWith(9, 9, date(2024, time.January, 9))

	outcome := Apply(rec, Activity{Date: date(2024, time.January, 10)})

	assert.Equal(t, Extended, outcome)
	assert.Equal(t, 10, rec.CurrentStreak)
	assert.Equal(t, 10, rec.LongestStreak)
}

func TestApplyActivityIgnoresTimeOfDay(t *testing.T) {
	rec := recordWith(2, 2, date(2024, time.April, 1))

	late := time.Date(2024, time.April, 2, 23, 45, 12, 0, time.UTC)
	outcome := Apply(rec, Activity{Date: late})

	assert.Equal(t, Extended, outcome)
	assert.Equal(t, date(2024, time.April, 2), *rec.LastActivityDate)
}

// CurrentStreak must always equal the length of the maximal run of
// consecutive days ending at the most recent activity date.
func TestApplyActivitySequences(t *testing.T) {
	tests := []struct {
		name        string
		days        []time.Time
		wantCurrent int
		wantLongest int
	}{
		{
			name: "uninterrupted week",
			days: []time.Time{
				date(2024, time.February, 1), date(2024, time.February, 2),
				date(2024, time.February, 3), date(2024, time.February, 4),
				date(2024, time.February, 5), date(2024, time.February, 6),
				date(2024, time.February, 7),
			},
			wantCurrent: 7,
			wantLongest: 7,
		},
		{
			name: "gap in the middle",
			days: []time.Time{
				date(2024, time.February, 1), date(2024, time.February, 2),
				date(2024, time.February, 3),
				date(2024, time.February, 6), date(2024, time.February, 7),
			},
			wantCurrent: 2,
			wantLongest: 3,
		},
		{
			name: "same day repeated",
			days: []time.Time{
				date(2024, time.February, 1), date(2024, time.February, 1),
				date(2024, time.February, 2), date(2024, time.February, 2),
			},
			wantCurrent: 2,
			wantLongest: 2,
		},
		{
			name: "two gaps",
			days: []time.Time{
				date(2024, time.February, 1),
				date(2024, time.February, 5), date(2024, time.February, 6),
				date(2024, time.February, 7), date(2024, time.February, 8),
				date(2024, time.February, 20),
			},
			wantCurrent: 1,
			wantLongest: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &Record{}
			longestSeen := 0
			for _, d := range tt.days {
				Apply(rec, Activity{Date: d})
				assert.GreaterOrEqual(t, rec.LongestStreak, longestSeen, "longest never decreases")
				assert.GreaterOrEqual(t, rec.LongestStreak, rec.CurrentStreak)
				longestSeen = rec.LongestStreak
			}
			assert.Equal(t, tt.wantCurrent, rec.CurrentStreak)
			assert.Equal(t, tt.wantLongest, rec.LongestStreak)
		})
	}
}

func TestApplyTickBreaksStaleStreak(t *testing.T) {
	rec := recordWith(6, 8, date(2024, time.March, 1))

	outcome := Apply(rec, Tick{Now: date(2024, time.March, 4)})

	assert.Equal(t, Broken, outcome)
	assert.Equal(t, 0, rec.CurrentStreak)
	assert.Equal(t, 8, rec.LongestStreak, "sweep leaves longest untouched")
	assert.Equal(t, date(2024, time.March, 1), *rec.LastActivityDate, "sweep leaves last activity untouched")
}

func TestApplyTickKeepsLiveStreak(t *testing.T) {
	// Active yesterday: still within the grace window.
	rec := recordWith(6, 8, date(2024, time.March, 3))

	outcome := Apply(rec, Tick{Now: date(2024, time.March, 4)})

	assert.Equal(t, Unchanged, outcome)
	assert.Equal(t, 6, rec.CurrentStreak)
}

func TestApplyTickKeepsTodayStreak(t *testing.T) {
	rec := recordWith(1, 1, date(2024, time.March, 4))

	outcome := Apply(rec, Tick{Now: date(2024, time.March, 4)})

	assert.Equal(t, Unchanged, outcome)
	assert.Equal(t, 1, rec.CurrentStreak)
}

func TestApplyTickIgnoresAlreadyBroken(t *testing.T) {
	rec := recordWith(0, 8, date(2024, time.January, 1))

	outcome := Apply(rec, Tick{Now: date(2024, time.March, 4)})

	assert.Equal(t, Unchanged, outcome)
}

func TestApplyTickIgnoresEmptyRecord(t *testing.T) {
	rec := &Record{}

	outcome := Apply(rec, Tick{Now: date(2024, time.March, 4)})

	assert.Equal(t, Unchanged, outcome)
	assert.Equal(t, 0, rec.CurrentStreak)
}

func TestBreakCutoffMatchesTick(t *testing.T) {
	now := time.Date(2024, time.March, 4, 15, 30, 0, 0, time.UTC)
	cutoff := BreakCutoff(now)
	assert.Equal(t, date(2024, time.March, 3), cutoff)

	// A record exactly on the cutoff survives the tick; one day earlier breaks.
	alive := recordWith(2, 2, cutoff)
	assert.Equal(t, Unchanged, Apply(alive, Tick{Now: now}))

	stale := recordWith(2, 2, cutoff.AddDate(0, 0, -1))
	assert.Equal(t, Broken, Apply(stale, Tick{Now: now}))
}

func TestDayNormalizes(t *testing.T) {
	ts := time.Date(2024, time.July, 14, 22, 5, 9, 123, time.UTC)
	assert.Equal(t, date(2024, time.July, 14), Day(ts))
}
