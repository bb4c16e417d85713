package human

import (
	"context"
	"math"

	"human-input/geom"
)

// Hover moves the cursor onto a random point of the element through the
// staged approach, without clicking.
func (e *Engine) Hover(ctx context.Context, selector string) (err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.begin("hover", "selector", selector)
	defer func() { e.end("hover", id, err) }()

	_, err = e.approach(ctx, selector)
	return err
}

// approach runs one imprecise first glance near the element center, then
// two or three stages with shrinking offsets, the last landing exactly on a
// random point inside the box. Returns the final committed point.
func (e *Engine) approach(ctx context.Context, selector string) (geom.Point, error) {
	mv := e.cfg.Movement

	// 1. Resolve the box and the point we will actually land on
	box, err := e.locate(ctx, selector)
	if err != nil {
		return geom.Point{}, err
	}
	center := box.Center()
	target := geom.Point{
		X: e.rng.Uniform(box.Left, box.Right),
		Y: e.rng.Uniform(box.Top, box.Bottom),
	}

	// 2. First glance somewhere around the center
	initial, err := e.randomizeNear(ctx, center, mv.InitialOffset)
	if err != nil {
		return geom.Point{}, err
	}
	current, err := e.moveCurved(ctx, initial, mv.Steps)
	if err != nil {
		return current, err
	}

	// 3. The axis already closest to the center may overshoot more
	maxX, maxY := e.offsetBounds(current, center)

	// 4. Decaying corrections, final stage exact
	stages := e.rng.IntRange(mv.MinStages, mv.MaxStages)
	for i := 0; i < stages; i++ {
		next := target
		if i < stages-1 {
			factor := float64(stages-i) / float64(stages)
			next = target.Add(
				e.rng.Uniform(-maxX, maxX)*factor,
				e.rng.Uniform(-maxY, maxY)*factor,
			)
		}
		if current, err = e.moveCurved(ctx, next, mv.Steps); err != nil {
			return current, err
		}
	}

	e.log.Debug("Approach finished",
		"selector", selector, "stages", stages, "x", current.X, "y", current.Y)
	return current, nil
}

// randomizeNear offsets p by up to offset on each axis, clamped to the surface
func (e *Engine) randomizeNear(ctx context.Context, p geom.Point, offset float64) (geom.Point, error) {
	size, err := e.viewport(ctx)
	if err != nil {
		return geom.Point{}, err
	}
	return size.Clamp(p.Add(
		e.rng.Uniform(-offset, offset),
		e.rng.Uniform(-offset, offset),
	)), nil
}

// offsetBounds picks per-axis offset bounds. The axis with the larger
// distance to the center gets the tight bound, the other one the overshoot
// bound. A tie picks the overshoot axis at random.
func (e *Engine) offsetBounds(current, center geom.Point) (maxX, maxY float64) {
	tight := e.cfg.Movement.MaxNonOvershootOffset
	wide := e.cfg.Movement.MaxOvershootOffset

	dx := math.Abs(current.X - center.X)
	dy := math.Abs(current.Y - center.Y)

	overshootX := dx < dy
	if dx == dy {
		overshootX = e.rng.Bool()
	}
	if overshootX {
		return wide, tight
	}
	return tight, wide
}
