package timing

import (
	"context"
	"time"
)

// Sleeper is the only suspension primitive the engine uses
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// RealSleeper blocks on a timer and returns early with ctx.Err() on cancellation
type RealSleeper struct{}

func (RealSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
