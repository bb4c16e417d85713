package browser

import (
	"context"
	"fmt"

	"github.com/go-rod/rod/lib/input"

	"human-input/human"
)

// namedKeys maps the engine's key names to rod keys
var namedKeys = map[string]input.Key{
	human.KeyBackspace: input.Backspace,
	human.KeyEnter:     input.Enter,
	human.KeyTab:       input.Tab,
	human.KeyEscape:    input.Escape,
	"Delete":           input.Delete,
	"ArrowUp":          input.ArrowUp,
	"ArrowDown":        input.ArrowDown,
	"ArrowLeft":        input.ArrowLeft,
	"ArrowRight":       input.ArrowRight,
	"Home":             input.Home,
	"End":              input.End,
	"PageUp":           input.PageUp,
	"PageDown":         input.PageDown,
}

func keyFor(name string) (input.Key, bool) {
	k, ok := namedKeys[name]
	return k, ok
}

// typable reports whether rod has a key definition for r. Anything else
// goes through InsertText.
func typable(r rune) bool {
	return r >= ' ' && r <= '~'
}

// TypeChar types one character into the focused element
func (p *Page) TypeChar(ctx context.Context, r rune) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	var err error
	if typable(r) {
		err = p.rod.Keyboard.Type(input.Key(r))
	} else {
		err = p.rod.Context(ctx).InsertText(string(r))
	}
	if err != nil {
		return fmt.Errorf("failed to type %q: %w", r, err)
	}
	return nil
}

// PressKey presses and releases a named key
func (p *Page) PressKey(ctx context.Context, name string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	k, ok := keyFor(name)
	if !ok {
		return fmt.Errorf("unknown key %q", name)
	}
	if err := p.rod.Keyboard.Press(k); err != nil {
		return fmt.Errorf("failed to press %s: %w", name, err)
	}
	return nil
}
