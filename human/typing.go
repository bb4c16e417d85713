package human

import (
	"context"
	"fmt"
	"time"
)

// TypeOptions tune one typing call. Zero fields fall back to the keyboard config.
type TypeOptions struct {
	// TypoChance is the per-character probability of hitting a neighbour key
	TypoChance *float64
	MinDelay   time.Duration
	MaxDelay   time.Duration
}

// TypoChance is a helper for building TypeOptions
func TypoChance(p float64) *float64 {
	return &p
}

func (e *Engine) typeOptions(opts *TypeOptions) (float64, time.Duration, time.Duration) {
	kb := e.cfg.Keyboard
	p, min, max := kb.TypoChance, kb.MinKeyDelay, kb.MaxKeyDelay
	if opts == nil {
		return p, min, max
	}
	if opts.TypoChance != nil {
		p = *opts.TypoChance
	}
	if opts.MinDelay > 0 || opts.MaxDelay > 0 {
		min, max = opts.MinDelay, opts.MaxDelay
	}
	return p, min, max
}

// Type focuses the element and types text into it
func (e *Engine) Type(ctx context.Context, selector, text string, opts *TypeOptions) (err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.begin("type", "selector", selector, "length", len(text))
	defer func() { e.end("type", id, err) }()

	if err := e.surface.Focus(ctx, selector); err != nil {
		return fmt.Errorf("human: focus %q: %w", selector, err)
	}
	return e.typeText(ctx, text, opts)
}

// TypeText types into whatever currently has focus
func (e *Engine) TypeText(ctx context.Context, text string, opts *TypeOptions) (err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.begin("type", "length", len(text))
	defer func() { e.end("type", id, err) }()

	return e.typeText(ctx, text, opts)
}

// PressKey presses a single named key such as KeyEnter
func (e *Engine) PressKey(ctx context.Context, key string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.surface.PressKey(ctx, key); err != nil {
		return dispatchErr("key "+key, err)
	}
	return nil
}

// typeText types in bursts of a few characters. A burst that came out wrong
// is noticed after a short pause, erased and retyped, so the final text
// always equals the input.
func (e *Engine) typeText(ctx context.Context, text string, opts *TypeOptions) error {
	p, minDelay, maxDelay := e.typeOptions(opts)
	kb := e.cfg.Keyboard
	adj := kb.Adjacency()

	runes := []rune(text)
	for i := 0; i < len(runes); {
		end := i + e.rng.IntRange(kb.ChunkMin, kb.ChunkMax)
		if end > len(runes) {
			end = len(runes)
		}
		chunk := runes[i:end]

		// Type chunk with possible typos
		typed := make([]rune, 0, len(chunk))
		for _, r := range chunk {
			out := r
			if neighbors := adj.Neighbors(r); len(neighbors) > 0 && e.rng.Float64() < p {
				out = neighbors[e.rng.Intn(len(neighbors))]
			}
			if err := e.keystroke(ctx, out, minDelay, maxDelay); err != nil {
				return err
			}
			typed = append(typed, out)
		}

		// Correct if a typo occurred
		if string(typed) != string(chunk) {
			e.log.Debug("Typo noticed, correcting chunk", "typed", string(typed), "want", string(chunk))

			if err := e.sleep(ctx, e.rng.Duration(kb.RealizationMin, kb.RealizationMax)); err != nil {
				return err
			}
			for range typed {
				if err := e.surface.PressKey(ctx, KeyBackspace); err != nil {
					return dispatchErr("key "+KeyBackspace, err)
				}
				if err := e.sleep(ctx, e.rng.Duration(minDelay, maxDelay)); err != nil {
					return err
				}
			}
			for _, r := range chunk {
				if err := e.keystroke(ctx, r, minDelay, maxDelay); err != nil {
					return err
				}
			}
		}

		i = end
	}
	return nil
}

func (e *Engine) keystroke(ctx context.Context, r rune, minDelay, maxDelay time.Duration) error {
	if err := e.surface.TypeChar(ctx, r); err != nil {
		return dispatchErr(fmt.Sprintf("type %q", r), err)
	}
	return e.sleep(ctx, e.rng.Duration(minDelay, maxDelay))
}
