package workers

import (
	"context"
	"testing"
	"time"
)

type stubSweeper struct {
	calls chan time.Time
}

func (s *stubSweeper) SweepBreaks(ctx context.Context, now time.Time) (int, error) {
	select {
	case s.calls <- now:
	default:
	}
	return 0, nil
}

func TestStartStreakSweeperRunsImmediately(t *testing.T) {
	sweeper := &stubSweeper{calls: make(chan time.Time, 1)}

	stop := StartStreakSweeper(sweeper, time.Hour)
	defer close(stop)

	select {
	case <-sweeper.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("sweep did not run on startup")
	}
}

func TestStartStreakSweeperTicks(t *testing.T) {
	sweeper := &stubSweeper{calls: make(chan time.Time, 16)}

	stop := StartStreakSweeper(sweeper, 10*time.Millisecond)
	defer close(stop)

	// Startup run plus at least one tick.
	for i := 0; i < 2; i++ {
		select {
		case <-sweeper.calls:
		case <-time.After(2 * time.Second):
			t.Fatalf("expected sweep call %d", i+1)
		}
	}
}
