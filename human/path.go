package human

import (
	"context"
	"math"

	"human-input/geom"
)

// stepDecayDistance is the distance in pixels over which the step count
// approaches its nominal value
const stepDecayDistance = 75.0

// MoveTo moves the cursor along a randomized curve from its committed
// position to target.
func (e *Engine) MoveTo(ctx context.Context, target geom.Point) (err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.begin("move", "x", target.X, "y", target.Y)
	defer func() { e.end("move", id, err) }()

	_, err = e.moveCurved(ctx, target, e.cfg.Movement.Steps)
	return err
}

// pathSteps shrinks the nominal step count for short moves so that motion
// time tracks distance. Never below 2, which gives at least three points.
func pathSteps(nominal int, distance float64) int {
	steps := int(math.Round(float64(nominal) * (1 - math.Exp(-distance/stepDecayDistance))))
	if steps < 2 {
		return 2
	}
	return steps
}

// moveCurved walks a quadratic Bézier from the committed cursor to target.
// Each point is dispatched and committed before the next is computed, so a
// store read mid-path sees the latest point. Returns the final committed point.
func (e *Engine) moveCurved(ctx context.Context, target geom.Point, nominalSteps int) (geom.Point, error) {
	start, err := e.store.Read()
	if err != nil {
		return geom.Point{}, err
	}
	size, err := e.viewport(ctx)
	if err != nil {
		return start, err
	}

	// Control point sits between the ends, pulled off the straight line
	ctrl := geom.Point{
		X: start.X + (target.X-start.X)*e.rng.Uniform(0.3, 0.7),
		Y: start.Y + (target.Y-start.Y)*e.rng.Uniform(0.2, 0.8),
	}
	steps := pathSteps(nominalSteps, start.Dist(target))

	last := start
	for i := 0; i <= steps; i++ {
		p := target
		if i < steps {
			p = geom.QuadBezier(start, ctrl, target, float64(i)/float64(steps))
		}
		p = size.Clamp(p)

		if err := e.surface.MoveMouse(ctx, p.X, p.Y); err != nil {
			return last, dispatchErr("move", err)
		}
		if err := e.commit(p); err != nil {
			return last, err
		}
		last = p
	}
	return last, nil
}
