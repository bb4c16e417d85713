package cdpsurface

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"human-input/human"
)

// namedKeys maps the engine's key names to chromedp key strings
var namedKeys = map[string]string{
	human.KeyBackspace: kb.Backspace,
	human.KeyEnter:     kb.Enter,
	human.KeyTab:       kb.Tab,
	human.KeyEscape:    kb.Escape,
	"Delete":           kb.Delete,
	"ArrowUp":          kb.ArrowUp,
	"ArrowDown":        kb.ArrowDown,
	"ArrowLeft":        kb.ArrowLeft,
	"ArrowRight":       kb.ArrowRight,
	"Home":             kb.Home,
	"End":              kb.End,
	"PageUp":           kb.PageUp,
	"PageDown":         kb.PageDown,
}

// MoveMouse dispatches a mouseMoved event
func (s *Surface) MoveMouse(ctx context.Context, x, y float64) error {
	if err := s.run(ctx, input.DispatchMouseEvent(input.MouseMoved, x, y)); err != nil {
		return err
	}
	s.track(x, y)
	return nil
}

// Click presses and releases the left button
func (s *Surface) Click(ctx context.Context, x, y float64) error {
	err := s.run(ctx,
		input.DispatchMouseEvent(input.MousePressed, x, y).WithButton(input.Left).WithClickCount(1),
		input.DispatchMouseEvent(input.MouseReleased, x, y).WithButton(input.Left).WithClickCount(1),
	)
	if err != nil {
		return err
	}
	s.track(x, y)
	return nil
}

// Wheel scrolls at the last pointer position, or at the viewport centre
// before the pointer has moved
func (s *Surface) Wheel(ctx context.Context, dx, dy float64) error {
	x, y, err := s.wheelPoint(ctx)
	if err != nil {
		return err
	}
	return s.run(ctx, input.DispatchMouseEvent(input.MouseWheel, x, y).WithDeltaX(dx).WithDeltaY(dy))
}

func (s *Surface) wheelPoint(ctx context.Context) (float64, float64, error) {
	s.mu.Lock()
	x, y, moved := s.lastX, s.lastY, s.moved
	s.mu.Unlock()
	if moved {
		return x, y, nil
	}
	size, err := s.ViewportSize(ctx)
	if err != nil {
		return 0, 0, err
	}
	return float64(size.Width) / 2, float64(size.Height) / 2, nil
}

func (s *Surface) track(x, y float64) {
	s.mu.Lock()
	s.lastX, s.lastY = x, y
	s.moved = true
	s.mu.Unlock()
}

// TypeChar sends the key events for a single character
func (s *Surface) TypeChar(ctx context.Context, r rune) error {
	return s.run(ctx, chromedp.KeyEvent(string(r)))
}

// PressKey sends a named key
func (s *Surface) PressKey(ctx context.Context, name string) error {
	k, ok := namedKeys[name]
	if !ok {
		return fmt.Errorf("cdpsurface: unknown key %q", name)
	}
	return s.run(ctx, chromedp.KeyEvent(k))
}
