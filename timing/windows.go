package timing

import "time"

// ActionType defines the context for a delay
type ActionType string

const (
	ActionTypeClick  ActionType = "click"
	ActionTypeType   ActionType = "type"
	ActionTypeRead   ActionType = "read"
	ActionTypeScroll ActionType = "scroll"
	ActionTypeThink  ActionType = "think"
)

// Window is an inclusive [Min, Max] delay range
type Window struct {
	Min time.Duration `yaml:"min"`
	Max time.Duration `yaml:"max"`
}

// Scale stretches both bounds by factor; factor < 1 speeds up, > 1 slows down
func (w Window) Scale(factor float64) Window {
	return Window{
		Min: time.Duration(float64(w.Min) * factor),
		Max: time.Duration(float64(w.Max) * factor),
	}
}

// DefaultWindows are the pauses used when the caller names an action
// instead of explicit bounds.
var DefaultWindows = map[ActionType]Window{
	ActionTypeClick:  {Min: 100 * time.Millisecond, Max: 300 * time.Millisecond},
	ActionTypeType:   {Min: 50 * time.Millisecond, Max: 150 * time.Millisecond}, // Per keystroke
	ActionTypeRead:   {Min: 2 * time.Second, Max: 5 * time.Second},
	ActionTypeScroll: {Min: 500 * time.Millisecond, Max: 1500 * time.Millisecond},
	ActionTypeThink:  {Min: 1 * time.Second, Max: 3 * time.Second},
}

// fallbackWindow is used for unknown actions
var fallbackWindow = Window{Min: 500 * time.Millisecond, Max: 1000 * time.Millisecond}

// WindowFor returns the delay window for an action
func WindowFor(action ActionType) Window {
	if w, ok := DefaultWindows[action]; ok {
		return w
	}
	return fallbackWindow
}
