package human

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"human-input/config"
	"human-input/geom"
	"human-input/timing"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPathSteps(t *testing.T) {
	assert.Equal(t, 2, pathSteps(25, 0))
	assert.Equal(t, 2, pathSteps(25, 1))
	assert.Equal(t, 16, pathSteps(25, 75))
	assert.Equal(t, 25, pathSteps(25, 5000))
}

func TestMoveToEndsOnTarget(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		h := newHarness(t, seed, nil)
		target := geom.Point{X: 431.5, Y: 212.25}

		require.NoError(t, h.engine.MoveTo(context.Background(), target))

		require.GreaterOrEqual(t, len(h.surface.moves), 3)
		assert.Equal(t, target, h.surface.moves[len(h.surface.moves)-1])
		cur, err := h.engine.Cursor()
		require.NoError(t, err)
		assert.Equal(t, target, cur)
	}
}

func TestMoveToClampsToSurface(t *testing.T) {
	h := newHarness(t, 7, nil)
	h.surface.size = geom.SurfaceSize{Width: 320, Height: 240}

	require.NoError(t, h.engine.MoveTo(context.Background(), geom.Point{X: 1000, Y: -50}))

	for _, p := range h.surface.moves {
		assert.True(t, h.surface.size.Contains(p), "point %+v outside surface", p)
	}
	assert.Equal(t, geom.Point{X: 320, Y: 0}, h.surface.moves[len(h.surface.moves)-1])
}

func TestMoveToIsDeterministicForSeed(t *testing.T) {
	a := newHarness(t, 42, nil)
	b := newHarness(t, 42, nil)
	target := geom.Point{X: 600, Y: 400}

	require.NoError(t, a.engine.MoveTo(context.Background(), target))
	require.NoError(t, b.engine.MoveTo(context.Background(), target))
	assert.Equal(t, a.surface.moves, b.surface.moves)
}

func TestClickLandsOnLastMove(t *testing.T) {
	for _, stages := range []int{2, 3} {
		for seed := int64(1); seed <= 10; seed++ {
			h := newHarness(t, seed, func(c *config.Config) {
				c.Movement.MinStages, c.Movement.MaxStages = stages, stages
			})
			box := geom.BoxFromRect(300, 200, 120, 40)
			h.surface.boxes["#submit"] = box

			require.NoError(t, h.engine.Click(context.Background(), "#submit"))

			require.Len(t, h.surface.clicks, 1)
			click := h.surface.clicks[0]
			assert.Equal(t, h.surface.moves[len(h.surface.moves)-1], click)
			assert.True(t, box.Contains(click), "click %+v outside box", click)
		}
	}
}

func TestClickScenario(t *testing.T) {
	h := newHarness(t, 3, nil)
	box := geom.BoundingBox{Left: 100, Top: 100, Right: 200, Bottom: 150, X: 150, Y: 125}
	h.surface.boxes["a.link"] = box

	require.NoError(t, h.engine.Click(context.Background(), "a.link"))

	for _, p := range h.surface.moves {
		assert.True(t, h.surface.size.Contains(p), "point %+v outside 800x600", p)
	}
	require.Len(t, h.surface.clicks, 1)
	click := h.surface.clicks[0]
	assert.True(t, box.Contains(click))

	cur, err := h.engine.Cursor()
	require.NoError(t, err)
	assert.Equal(t, click, cur)

	// click delay is the only sleep in a click
	require.Len(t, h.sleeper.slept, 1)
	assert.GreaterOrEqual(t, h.sleeper.slept[0], h.cfg.Mouse.MinClickDelay)
	assert.LessOrEqual(t, h.sleeper.slept[0], h.cfg.Mouse.MaxClickDelay)
}

func TestClickTargetNotVisible(t *testing.T) {
	h := newHarness(t, 1, nil)

	err := h.engine.Click(context.Background(), "#missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTargetNotVisible)
	assert.Empty(t, h.surface.moves)
	assert.Empty(t, h.surface.clicks)
}

func TestClickRejectsInvalidBox(t *testing.T) {
	h := newHarness(t, 1, nil)
	h.surface.boxes["#weird"] = geom.BoundingBox{Left: 50, Right: 10, Top: 0, Bottom: 10}

	err := h.engine.Click(context.Background(), "#weird")
	assert.ErrorIs(t, err, ErrTargetNotVisible)
}

func TestDispatchFailureKeepsCommittedPosition(t *testing.T) {
	h := newHarness(t, 5, nil)
	h.surface.failMoveAt = 5

	err := h.engine.MoveTo(context.Background(), geom.Point{X: 700, Y: 500})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDispatchFailed)
	assert.ErrorIs(t, err, errInjected)

	var de *DispatchError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "move", de.Op)

	require.Len(t, h.surface.moves, 4)
	cur, err := h.engine.Cursor()
	require.NoError(t, err)
	assert.Equal(t, h.surface.moves[3], cur)
}

func TestClickDispatchFailure(t *testing.T) {
	h := newHarness(t, 5, nil)
	h.surface.boxes["#btn"] = geom.BoxFromRect(10, 10, 30, 30)
	h.surface.failClick = true

	err := h.engine.Click(context.Background(), "#btn")
	assert.ErrorIs(t, err, ErrDispatchFailed)

	// the approach itself completed and stays committed
	cur, err := h.engine.Cursor()
	require.NoError(t, err)
	assert.Equal(t, h.surface.moves[len(h.surface.moves)-1], cur)
}

func TestClickCancelledDuringDelay(t *testing.T) {
	h := newHarness(t, 9, nil)
	h.surface.boxes["#btn"] = geom.BoxFromRect(10, 10, 30, 30)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := h.engine.Click(ctx, "#btn")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, h.surface.clicks)
}

func TestOffsetBounds(t *testing.T) {
	h := newHarness(t, 1, nil)
	tight, wide := h.cfg.Movement.MaxNonOvershootOffset, h.cfg.Movement.MaxOvershootOffset

	x, y := h.engine.offsetBounds(geom.Point{X: 0, Y: 0}, geom.Point{X: 100, Y: 10})
	assert.Equal(t, tight, x)
	assert.Equal(t, wide, y)

	x, y = h.engine.offsetBounds(geom.Point{X: 95, Y: 0}, geom.Point{X: 100, Y: 80})
	assert.Equal(t, wide, x)
	assert.Equal(t, tight, y)
}

func TestHoverDoesNotClick(t *testing.T) {
	h := newHarness(t, 2, nil)
	box := geom.BoxFromRect(500, 300, 60, 60)
	h.surface.boxes["img"] = box

	require.NoError(t, h.engine.Hover(context.Background(), "img"))
	assert.Empty(t, h.surface.clicks)
	assert.True(t, box.Contains(h.surface.moves[len(h.surface.moves)-1]))
}

func TestIdleDelaySingleApproach(t *testing.T) {
	h := newHarness(t, 4, nil)
	h.surface.boxes["h1"] = geom.BoxFromRect(40, 40, 300, 50)

	require.NoError(t, h.engine.IdleDelay(context.Background(), "h1", 1, 1))
	assert.Equal(t, 1, h.surface.lookups)
	assert.Empty(t, h.surface.clicks)
}

func TestIdleDelayRange(t *testing.T) {
	h := newHarness(t, 4, nil)
	h.surface.boxes["h1"] = geom.BoxFromRect(40, 40, 300, 50)

	require.NoError(t, h.engine.IdleDelay(context.Background(), "h1", 2, 4))
	assert.GreaterOrEqual(t, h.surface.lookups, 2)
	assert.LessOrEqual(t, h.surface.lookups, 4)
}

func TestFailedActionWarnCarriesActionID(t *testing.T) {
	h := newHarness(t, 5, nil)
	h.surface.boxes["#btn"] = geom.BoxFromRect(10, 10, 30, 30)
	h.surface.failClick = true

	log := &recordingLogger{}
	e := New(h.cfg, h.surface, h.store, log, WithSource(timing.NewSource(5)), WithSleeper(h.sleeper))
	require.Error(t, e.Click(context.Background(), "#btn"))

	var started, failed *logEntry
	for i := range log.entries {
		switch log.entries[i].msg {
		case "Action started":
			started = &log.entries[i]
		case "Action failed":
			failed = &log.entries[i]
		}
	}
	require.NotNil(t, started)
	require.NotNil(t, failed)
	assert.Equal(t, "warn", failed.level)
	assert.Equal(t, "click", failed.field("action"))
	assert.NotEmpty(t, failed.field("action_id"))
	assert.Equal(t, started.field("action_id"), failed.field("action_id"))
}
