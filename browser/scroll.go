package browser

import (
	"context"
	"fmt"

	"github.com/go-rod/rod/lib/proto"
)

// Wheel dispatches one wheel event where the pointer currently rests.
// deltaY: positive for scrolling down, negative for scrolling up
func (p *Page) Wheel(ctx context.Context, dx, dy float64) error {
	x, y, err := p.wheelPoint(ctx)
	if err != nil {
		return fmt.Errorf("failed to scroll: %w", err)
	}
	err = proto.InputDispatchMouseEvent{
		Type:   proto.InputDispatchMouseEventTypeMouseWheel,
		X:      x,
		Y:      y,
		DeltaX: dx,
		DeltaY: dy,
	}.Call(p.rod.Context(ctx))
	if err != nil {
		return fmt.Errorf("failed to scroll: %w", err)
	}
	return nil
}

// wheelPoint is the last pointer position, or the viewport centre on a tab
// the pointer has not moved in yet
func (p *Page) wheelPoint(ctx context.Context) (float64, float64, error) {
	if x, y, ok := p.lastMouse(); ok {
		return x, y, nil
	}
	size, err := p.ViewportSize(ctx)
	if err != nil {
		return 0, 0, err
	}
	return float64(size.Width) / 2, float64(size.Height) / 2, nil
}
