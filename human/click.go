package human

import "context"

// Click approaches the element, hesitates for the configured click delay and
// clicks exactly where the cursor came to rest.
func (e *Engine) Click(ctx context.Context, selector string) (err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.begin("click", "selector", selector)
	defer func() { e.end("click", id, err) }()

	final, err := e.approach(ctx, selector)
	if err != nil {
		return err
	}

	if err := e.sleep(ctx, e.rng.Duration(e.cfg.Mouse.MinClickDelay, e.cfg.Mouse.MaxClickDelay)); err != nil {
		return err
	}
	if err := e.surface.Click(ctx, final.X, final.Y); err != nil {
		return dispatchErr("click", err)
	}
	return e.commit(final)
}
