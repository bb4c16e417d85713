package human

import (
	"context"
	"time"
)

// Scroll scrolls vertically by pixels with a decaying wheel velocity. The
// sign picks the direction. The wheel may stop early once the velocity has
// collapsed, so the returned amount can be smaller than requested.
func (e *Engine) Scroll(ctx context.Context, pixels int) (scrolled int, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.begin("scroll", "pixels", pixels)
	defer func() { e.end("scroll", id, err) }()

	sc := e.cfg.Scroll
	dir := 1
	remaining := pixels
	if pixels < 0 {
		dir, remaining = -1, -pixels
	}

	velocity := e.rng.Uniform(sc.MinVelocity, sc.MaxVelocity)
	for remaining > 0 {
		velocity *= e.rng.Uniform(sc.DecayMin, sc.DecayMax)

		step := int(velocity)
		if step < sc.MinStep {
			step = sc.MinStep
		}
		step += e.rng.IntRange(-sc.StepJitter, sc.StepJitter)
		if step > remaining {
			step = remaining
		}

		if err := e.surface.Wheel(ctx, 0, float64(dir*step)); err != nil {
			return scrolled, dispatchErr("wheel", err)
		}
		remaining -= step
		scrolled += step

		if err := e.sleep(ctx, wheelDelay(velocity, sc.MinDelay, sc.MaxDelay)); err != nil {
			return scrolled, err
		}
		if velocity < sc.StopVelocity {
			break
		}
	}

	if remaining > 0 {
		e.log.Debug("Scroll stopped early", "requested", pixels, "scrolled", scrolled, "residual", remaining)
	}
	return scrolled, nil
}

// wheelDelay is inversely proportional to velocity, clamped to [min,max]
func wheelDelay(velocity float64, min, max time.Duration) time.Duration {
	d := time.Duration(float64(time.Second) / (velocity + 1))
	if d < min {
		return min
	}
	if d > max {
		return max
	}
	return d
}
