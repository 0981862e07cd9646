package loop

import (
	"context"
	"time"
)

// Clock is the wall-clock collaborator of the loop.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done.
	Sleep(ctx context.Context, d time.Duration) error
}

// RealClock reads the system clock and sleeps on a timer.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

func (RealClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pace picks the step length for the next tick from the mean of recent tick
// durations. Below the minimum the loop waits out the difference and steps
// by the minimum; otherwise it steps by the mean and falls behind wall
// clock rather than skipping or catching up.
func Pace(mean, minimum time.Duration) (wait, step time.Duration) {
	if mean < minimum {
		return minimum - mean, minimum
	}
	return 0, mean
}
