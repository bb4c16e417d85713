package browser

import (
	"context"
	"fmt"

	"github.com/go-rod/rod/lib/proto"
)

// MoveMouse moves the pointer to an absolute viewport position
func (p *Page) MoveMouse(ctx context.Context, x, y float64) error {
	err := proto.InputDispatchMouseEvent{
		Type: proto.InputDispatchMouseEventTypeMouseMoved,
		X:    x,
		Y:    y,
	}.Call(p.rod.Context(ctx))
	if err != nil {
		return fmt.Errorf("failed to move mouse: %w", err)
	}
	p.track(x, y)
	return nil
}

// Click presses and releases the left button at x, y
func (p *Page) Click(ctx context.Context, x, y float64) error {
	page := p.rod.Context(ctx)

	err := proto.InputDispatchMouseEvent{
		Type:       proto.InputDispatchMouseEventTypeMousePressed,
		X:          x,
		Y:          y,
		Button:     proto.InputMouseButtonLeft,
		ClickCount: 1,
	}.Call(page)
	if err != nil {
		return fmt.Errorf("failed to press mouse: %w", err)
	}

	err = proto.InputDispatchMouseEvent{
		Type:       proto.InputDispatchMouseEventTypeMouseReleased,
		X:          x,
		Y:          y,
		Button:     proto.InputMouseButtonLeft,
		ClickCount: 1,
	}.Call(page)
	if err != nil {
		return fmt.Errorf("failed to release mouse: %w", err)
	}
	p.track(x, y)
	return nil
}

func (p *Page) track(x, y float64) {
	p.mu.Lock()
	p.LastMouseX, p.LastMouseY = x, y
	p.moved = true
	p.mu.Unlock()
}

func (p *Page) lastMouse() (x, y float64, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.LastMouseX, p.LastMouseY, p.moved
}
