package streak

import (
	"time"

	"github.com/google/uuid"
)

// Record tracks the run of consecutive days on which a client satisfied
// their daily goal. One row per user, updated in place.
type Record struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	UserID           uuid.UUID  `json:"user_id" db:"user_id"`
	CurrentStreak    int        `json:"current_streak" db:"current_streak"`
	LongestStreak    int        `json:"longest_streak" db:"longest_streak"`
	LastActivityDate *time.Time `json:"last_activity_date" db:"last_activity_date"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// Event is an external input to the streak state machine. Both the
// on-path activity update and the periodic inactivity sweep run through
// Apply so the two mutation paths cannot disagree on transition rules.
type Event interface {
	isEvent()
}

// Activity reports that the user's daily goal became satisfied on Date.
type Activity struct {
	Date time.Time
}

// Tick is the sweep's view of the clock: "it is Now, break anything stale".
type Tick struct {
	Now time.Time
}

func (Activity) isEvent() {}
func (Tick) isEvent()     {}

// Outcome describes what Apply did to the record.
type Outcome int

const (
	// Unchanged means the event was absorbed without modifying the record
	// (same-day repeat activity, or a tick against a live/empty streak).
	Unchanged Outcome = iota
	// Started means the first streak day was recorded.
	Started
	// Extended means the streak grew by one consecutive day.
	Extended
	// Reset means a gap ended the previous run and a new one began.
	Reset
	// Broken means the sweep zeroed a stale streak.
	Broken
)

// Apply advances rec by one event and reports what happened. The caller
// persists the record iff the outcome is not Unchanged.
func Apply(rec *Record, ev Event) Outcome {
	switch e := ev.(type) {
	case Activity:
		return applyActivity(rec, Day(e.Date))
	case Tick:
		return applyTick(rec, Day(e.Now))
	}
	return Unchanged
}

func applyActivity(rec *Record, d time.Time) Outcome {
	if rec.LastActivityDate == nil {
		rec.CurrentStreak = 1
		if rec.LongestStreak < 1 {
			rec.LongestStreak = 1
		}
		rec.LastActivityDate = &d
		return Started
	}

	last := Day(*rec.LastActivityDate)
	switch {
	case d.Equal(last):
		// Satisfying the goal twice in one day must not double-increment.
		return Unchanged
	case d.Equal(last.AddDate(0, 0, 1)):
		rec.CurrentStreak++
		if rec.CurrentStreak > rec.LongestStreak {
			rec.LongestStreak = rec.CurrentStreak
		}
		rec.LastActivityDate = &d
		return Extended
	default:
		// A gap of two or more days, or a date behind the recorded one.
		// Either way the old run is over and a new one starts at d.
		// LongestStreak already holds the historical peak.
		rec.CurrentStreak = 1
		if rec.LongestStreak < 1 {
			rec.LongestStreak = 1
		}
		rec.LastActivityDate = &d
		return Reset
	}
}

func applyTick(rec *Record, today time.Time) Outcome {
	if rec.CurrentStreak == 0 || rec.LastActivityDate == nil {
		return Unchanged
	}
	if Day(*rec.LastActivityDate).Before(BreakCutoff(today)) {
		// Only the sweep ever zeroes a streak. LastActivityDate stays put
		// so the record still shows when the run ended.
		rec.CurrentStreak = 0
		return Broken
	}
	return Unchanged
}

// Day strips the time-of-day component. Streaks are day-granular.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// BreakCutoff returns the oldest last-activity date that still counts as
// alive at the given moment: yesterday. Anything earlier is a break. The
// SQL sweep and the Tick event both derive their boundary from here.
func BreakCutoff(now time.Time) time.Time {
	return Day(now).AddDate(0, 0, -1)
}
