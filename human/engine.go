// Package human turns targets (an element, a string, a scroll distance)
// into sequences of input primitives with human-plausible timing, curvature,
// error and correction.
package human

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"human-input/config"
	"human-input/geom"
	"human-input/logger"
	"human-input/storage"
	"human-input/timing"
)

// Engine drives one logical cursor. Its public methods block until the whole
// interaction, sleeps included, has finished, and never run concurrently.
type Engine struct {
	// mu serialises public operations: every step reads the last committed
	// position, so two interleaved operations would corrupt each other.
	mu sync.Mutex

	cfg     config.Config
	surface Surface
	store   storage.CursorStore
	log     logger.Logger
	rng     *timing.Source
	sleeper timing.Sleeper
}

// Option customises New
type Option func(*Engine)

// WithSource replaces the random source, typically with a seeded one
func WithSource(src *timing.Source) Option {
	return func(e *Engine) { e.rng = src }
}

// WithSleeper replaces the real timer-based sleeper
func WithSleeper(s timing.Sleeper) Option {
	return func(e *Engine) { e.sleeper = s }
}

// New creates an Engine. cfg is copied and must already be validated.
func New(cfg *config.Config, surface Surface, store storage.CursorStore, log logger.Logger, opts ...Option) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	e := &Engine{
		cfg:     *cfg,
		surface: surface,
		store:   store,
		log:     log,
		sleeper: timing.RealSleeper{},
	}
	for _, o := range opts {
		o(e)
	}
	if e.rng == nil {
		e.rng = timing.SourceFromSeed(cfg.Seed)
	}
	return e
}

// Cursor returns the last committed cursor position
func (e *Engine) Cursor() (geom.Point, error) {
	return e.store.Read()
}

func (e *Engine) sleep(ctx context.Context, d time.Duration) error {
	return e.sleeper.Sleep(ctx, d)
}

// commit records p after its primitive has been applied
func (e *Engine) commit(p geom.Point) error {
	if err := e.store.Write(p); err != nil {
		return fmt.Errorf("human: commit cursor: %w", err)
	}
	return nil
}

// locate resolves a selector to a usable box
func (e *Engine) locate(ctx context.Context, selector string) (geom.BoundingBox, error) {
	box, err := e.surface.BoundingBox(ctx, selector)
	if err != nil {
		return geom.BoundingBox{}, fmt.Errorf("human: locate %q: %w", selector, err)
	}
	if !box.Valid() {
		return geom.BoundingBox{}, fmt.Errorf("human: locate %q: invalid box %+v: %w", selector, box, ErrTargetNotVisible)
	}
	return box, nil
}

// viewport returns the surface size current at this moment
func (e *Engine) viewport(ctx context.Context) (geom.SurfaceSize, error) {
	size, err := e.surface.ViewportSize(ctx)
	if err != nil {
		return geom.SurfaceSize{}, fmt.Errorf("human: viewport size: %w", err)
	}
	if !size.Valid() {
		return geom.SurfaceSize{}, fmt.Errorf("human: viewport size %dx%d is empty", size.Width, size.Height)
	}
	return size, nil
}

// begin tags a public operation for log correlation
func (e *Engine) begin(op string, keyvals ...interface{}) string {
	id := uuid.NewString()
	e.log.Debug("Action started", append([]interface{}{"action", op, "action_id", id}, keyvals...)...)
	return id
}

func (e *Engine) end(op, id string, err error) {
	if err != nil {
		e.log.Warn("Action failed", "action", op, "action_id", id, "error", err)
		return
	}
	e.log.Debug("Action finished", "action", op, "action_id", id)
}
