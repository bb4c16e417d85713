package human

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"human-input/config"
	"human-input/geom"
	"human-input/storage"
	"human-input/timing"
)

var errInjected = errors.New("injected failure")

// fakeSurface records every primitive and keeps the text a real input field
// would end up holding.
type fakeSurface struct {
	mu sync.Mutex

	size  geom.SurfaceSize
	boxes map[string]geom.BoundingBox

	moves   []geom.Point
	clicks  []geom.Point
	typed   []rune
	keys    []string
	wheels  []float64
	focused []string
	lookups int
	buffer  []rune

	// failMoveAt makes the n-th MoveMouse call (1-based) fail
	failMoveAt int
	failClick  bool
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{
		size:  geom.SurfaceSize{Width: 800, Height: 600},
		boxes: map[string]geom.BoundingBox{},
	}
}

func (f *fakeSurface) MoveMouse(_ context.Context, x, y float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failMoveAt > 0 && len(f.moves)+1 == f.failMoveAt {
		return errInjected
	}
	f.moves = append(f.moves, geom.Point{X: x, Y: y})
	return nil
}

func (f *fakeSurface) Click(_ context.Context, x, y float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failClick {
		return errInjected
	}
	f.clicks = append(f.clicks, geom.Point{X: x, Y: y})
	return nil
}

func (f *fakeSurface) TypeChar(_ context.Context, r rune) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.typed = append(f.typed, r)
	f.buffer = append(f.buffer, r)
	return nil
}

func (f *fakeSurface) PressKey(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	if key == KeyBackspace && len(f.buffer) > 0 {
		f.buffer = f.buffer[:len(f.buffer)-1]
	}
	return nil
}

func (f *fakeSurface) Wheel(_ context.Context, _, dy float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.wheels = append(f.wheels, dy)
	return nil
}

func (f *fakeSurface) BoundingBox(_ context.Context, selector string) (geom.BoundingBox, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	box, ok := f.boxes[selector]
	if !ok {
		return geom.BoundingBox{}, ErrTargetNotVisible
	}
	return box, nil
}

func (f *fakeSurface) ViewportSize(context.Context) (geom.SurfaceSize, error) {
	return f.size, nil
}

func (f *fakeSurface) Focus(_ context.Context, selector string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.boxes[selector]; !ok {
		return ErrTargetNotVisible
	}
	f.focused = append(f.focused, selector)
	return nil
}

func (f *fakeSurface) backspaces() int {
	n := 0
	for _, k := range f.keys {
		if k == KeyBackspace {
			n++
		}
	}
	return n
}

// recordingSleeper returns immediately and remembers what it was asked for
type recordingSleeper struct {
	mu    sync.Mutex
	slept []time.Duration
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slept = append(s.slept, d)
	return ctx.Err()
}

type harness struct {
	engine  *Engine
	surface *fakeSurface
	store   *storage.MemoryStore
	sleeper *recordingSleeper
	cfg     *config.Config
}

func newHarness(t *testing.T, seed int64, tweak func(*config.Config)) *harness {
	t.Helper()
	cfg := config.Default()
	cfg.Mouse.DefaultX, cfg.Mouse.DefaultY = 0, 0
	if tweak != nil {
		tweak(cfg)
	}

	h := &harness{
		surface: newFakeSurface(),
		store:   storage.NewMemoryStore(geom.Point{X: cfg.Mouse.DefaultX, Y: cfg.Mouse.DefaultY}),
		sleeper: &recordingSleeper{},
		cfg:     cfg,
	}
	h.engine = New(cfg, h.surface, h.store, nil,
		WithSource(timing.NewSource(seed)),
		WithSleeper(h.sleeper),
	)
	return h
}

type logEntry struct {
	level   string
	msg     string
	keyvals []interface{}
}

// recordingLogger keeps every entry for later inspection
type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) add(level, msg string, keyvals []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg, keyvals: keyvals})
}

func (l *recordingLogger) Info(msg string, kv ...interface{})  { l.add("info", msg, kv) }
func (l *recordingLogger) Error(msg string, kv ...interface{}) { l.add("error", msg, kv) }
func (l *recordingLogger) Debug(msg string, kv ...interface{}) { l.add("debug", msg, kv) }
func (l *recordingLogger) Warn(msg string, kv ...interface{})  { l.add("warn", msg, kv) }

// field returns the value logged under key, or nil
func (e logEntry) field(key string) interface{} {
	for i := 0; i+1 < len(e.keyvals); i += 2 {
		if e.keyvals[i] == key {
			return e.keyvals[i+1]
		}
	}
	return nil
}
