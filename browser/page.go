package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-rod/rod"

	"human-input/config"
	"human-input/geom"
	"human-input/human"
	"human-input/logger"
)

var _ human.Surface = (*Page)(nil)

// Page drives one rod tab and is the surface the engine talks to
type Page struct {
	rod *rod.Page
	cfg config.BrowserConfig
	log logger.Logger

	// LastMouseX and LastMouseY are only meaningful once moved is set by
	// the first MoveMouse or Click on this tab
	mu         sync.Mutex
	moved      bool
	LastMouseX float64
	LastMouseY float64
}

func newPage(rp *rod.Page, cfg config.BrowserConfig, log logger.Logger) *Page {
	return &Page{rod: rp, cfg: cfg, log: log}
}

// Close closes the tab
func (p *Page) Close() error {
	return p.rod.Close()
}

// element looks a selector up, waiting at most the lookup timeout
func (p *Page) element(ctx context.Context, selector string) (*rod.Element, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, p.cfg.LookupTimeout)
	defer cancel()

	el, err := p.rod.Context(lookupCtx).Element(selector)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("no element matches %q: %w", selector, human.ErrTargetNotVisible)
		}
		return nil, err
	}
	// Detach from the lookup deadline
	return el.Context(ctx), nil
}

// BoundingBox scrolls the element into view and returns its content box
func (p *Page) BoundingBox(ctx context.Context, selector string) (geom.BoundingBox, error) {
	el, err := p.element(ctx, selector)
	if err != nil {
		return geom.BoundingBox{}, err
	}
	if err := el.ScrollIntoView(); err != nil {
		return geom.BoundingBox{}, fmt.Errorf("scroll %q into view: %w", selector, err)
	}

	shape, err := el.Shape()
	if err != nil {
		return geom.BoundingBox{}, fmt.Errorf("%q has no layout: %w", selector, human.ErrTargetNotVisible)
	}
	rect := shape.Box()
	if rect == nil {
		return geom.BoundingBox{}, fmt.Errorf("%q has no box: %w", selector, human.ErrTargetNotVisible)
	}
	return geom.BoxFromRect(rect.X, rect.Y, rect.Width, rect.Height), nil
}

// ViewportSize returns the configured viewport, falling back to measuring
// the window from inside the page.
func (p *Page) ViewportSize(ctx context.Context) (geom.SurfaceSize, error) {
	if p.cfg.ViewportWidth > 0 && p.cfg.ViewportHeight > 0 {
		return geom.SurfaceSize{Width: p.cfg.ViewportWidth, Height: p.cfg.ViewportHeight}, nil
	}

	res, err := p.rod.Context(ctx).Eval(`() => ({width: window.innerWidth, height: window.innerHeight})`)
	if err != nil {
		return geom.SurfaceSize{}, fmt.Errorf("measure viewport: %w", err)
	}
	return geom.SurfaceSize{
		Width:  res.Value.Get("width").Int(),
		Height: res.Value.Get("height").Int(),
	}, nil
}

// Focus gives the element keyboard focus
func (p *Page) Focus(ctx context.Context, selector string) error {
	el, err := p.element(ctx, selector)
	if err != nil {
		return err
	}
	return el.Focus()
}

// cursorOverlayJS draws a red dot that trails the real pointer
const cursorOverlayJS = `() => {
	if (window.__humanCursor) return;
	window.__humanCursor = true;
	const box = document.createElement("div");
	Object.assign(box.style, {
		position: "fixed", width: "10px", height: "10px", background: "red",
		borderRadius: "8px", pointerEvents: "none",
		transform: "translate(-50%, -50%)", zIndex: 999999,
	});
	const attach = () => document.body.appendChild(box);
	if (document.body) attach(); else document.addEventListener("DOMContentLoaded", attach);
	let mouseX = 0, mouseY = 0, x = 0, y = 0;
	document.addEventListener("mousemove", e => { mouseX = e.clientX; mouseY = e.clientY; });
	(function follow() {
		x += 0.15 * (mouseX - x);
		y += 0.15 * (mouseY - y);
		box.style.left = x + "px";
		box.style.top = y + "px";
		requestAnimationFrame(follow);
	})();
}`

// EnableCursorOverlay renders the pointer position for debugging, on the
// current document and every later navigation.
func (p *Page) EnableCursorOverlay(ctx context.Context) error {
	if _, err := p.rod.Context(ctx).EvalOnNewDocument("(" + cursorOverlayJS + ")()"); err != nil {
		return fmt.Errorf("install cursor overlay: %w", err)
	}
	if _, err := p.rod.Context(ctx).Eval(cursorOverlayJS); err != nil {
		return fmt.Errorf("draw cursor overlay: %w", err)
	}
	return nil
}
