package human

import (
	"context"

	"human-input/geom"
)

// Named keys understood by every Dispatcher
const (
	KeyBackspace = "Backspace"
	KeyEnter     = "Enter"
	KeyTab       = "Tab"
	KeyEscape    = "Escape"
)

// Dispatcher sends raw input primitives to the page
type Dispatcher interface {
	MoveMouse(ctx context.Context, x, y float64) error
	Click(ctx context.Context, x, y float64) error
	// TypeChar types one character into the focused element
	TypeChar(ctx context.Context, r rune) error
	// PressKey presses and releases a named key such as KeyBackspace
	PressKey(ctx context.Context, key string) error
	Wheel(ctx context.Context, dx, dy float64) error
}

// Geometry answers layout questions about the page.
// BoundingBox scrolls the element into view first and returns an error
// wrapping ErrTargetNotVisible when it has no visible box.
type Geometry interface {
	BoundingBox(ctx context.Context, selector string) (geom.BoundingBox, error)
	ViewportSize(ctx context.Context) (geom.SurfaceSize, error)
	Focus(ctx context.Context, selector string) error
}

// Surface is everything the engine needs from a page
type Surface interface {
	Dispatcher
	Geometry
}
