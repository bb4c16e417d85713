package human

import (
	"context"
	"time"

	"human-input/timing"
)

// HumanDelay sleeps a uniform random duration in [min,max]. A non-empty
// reason is logged.
func (e *Engine) HumanDelay(ctx context.Context, min, max time.Duration, reason string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	d := e.rng.Duration(min, max)
	if reason != "" {
		e.log.Info("Waiting", "reason", reason, "duration", d)
	}
	return e.sleep(ctx, d)
}

// Pause sleeps for a duration typical of the given action. intensity scales
// the action's window; values <= 0 mean 1.
func (e *Engine) Pause(ctx context.Context, action timing.ActionType, intensity float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if intensity <= 0 {
		intensity = 1
	}
	d := e.rng.Within(timing.WindowFor(action).Scale(intensity))
	e.log.Debug("Pausing", "action", string(action), "intensity", intensity, "duration", d)
	return e.sleep(ctx, d)
}

// IdleDelay hovers around the element a random number of times in
// [minTimes,maxTimes] without clicking.
func (e *Engine) IdleDelay(ctx context.Context, selector string, minTimes, maxTimes int) (err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	times := e.rng.IntRange(minTimes, maxTimes)
	id := e.begin("idle", "selector", selector, "times", times)
	defer func() { e.end("idle", id, err) }()

	for i := 0; i < times; i++ {
		if _, err := e.approach(ctx, selector); err != nil {
			return err
		}
	}
	return nil
}
