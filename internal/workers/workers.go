package workers

import (
	"context"
	"log"
	"time"
)

// StreakSweeper is the slice of the streak service the worker needs.
type StreakSweeper interface {
	SweepBreaks(ctx context.Context, now time.Time) (int, error)
}

// StartStreakSweeper runs the inactivity sweep once immediately and then
// on every tick of interval. Display paths read current_streak straight
// from the table, so the sweep has to run at least once a day to keep
// stale nonzero streaks from lingering. Returns a channel that stops the
// worker when closed.
func StartStreakSweeper(sweeper StreakSweeper, interval time.Duration) chan struct{} {
	stop := make(chan struct{})

	run := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		broken, err := sweeper.SweepBreaks(ctx, time.Now())
		if err != nil {
			log.Printf("Streak sweep failed: %v", err)
			return
		}
		if broken > 0 {
			log.Printf("Streak sweep broke %d inactive streaks", broken)
		}
	}

	go func() {
		run()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				run()
			case <-stop:
				return
			}
		}
	}()

	return stop
}

// AtRiskNotifier is the slice of the streak service the reminder worker needs.
type AtRiskNotifier interface {
	NotifyAtRisk(ctx context.Context, now time.Time) (int, error)
}

// StartAtRiskReminder periodically nudges users whose streak would break
// tomorrow. Unlike the sweeper it does not run at startup; a reminder
// burst on every deploy would be noise.
func StartAtRiskReminder(notifier AtRiskNotifier, interval time.Duration) chan struct{} {
	stop := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
				sent, err := notifier.NotifyAtRisk(ctx, time.Now())
				cancel()
				if err != nil {
					log.Printf("At-risk reminder pass failed: %v", err)
					continue
				}
				if sent > 0 {
					log.Printf("Queued %d streak-risk reminders", sent)
				}
			case <-stop:
				return
			}
		}
	}()

	return stop
}
