// Package cdpsurface drives a Chromium tab with chromedp. It is the
// alternative to the rod surface in package browser and satisfies the same
// engine interface.
package cdpsurface

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/go-rod/rod/lib/launcher"

	"human-input/config"
	"human-input/geom"
	"human-input/human"
	"human-input/logger"
	"human-input/utils"
)

var _ human.Surface = (*Surface)(nil)

// Surface is one chromedp tab
type Surface struct {
	tabCtx      context.Context
	tabCancel   context.CancelFunc
	allocCancel context.CancelFunc

	cfg config.BrowserConfig
	log logger.Logger

	// lastX and lastY hold once moved is set
	mu           sync.Mutex
	moved        bool
	lastX, lastY float64
}

// Connect attaches to the browser at cfg.RemoteURL, or launches one when
// cfg.Launch is set, and opens a fresh tab.
func Connect(ctx context.Context, cfg config.BrowserConfig, log logger.Logger) (*Surface, error) {
	if log == nil {
		log = logger.Nop()
	}

	var allocCtx context.Context
	var allocCancel context.CancelFunc
	if cfg.Launch {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", cfg.Headless),
			chromedp.Flag("disable-blink-features", "AutomationControlled"),
		)
		if cfg.UserDataDir != "" {
			opts = append(opts, chromedp.UserDataDir(cfg.UserDataDir))
		}
		if cfg.ViewportWidth > 0 && cfg.ViewportHeight > 0 {
			opts = append(opts, chromedp.WindowSize(cfg.ViewportWidth, cfg.ViewportHeight))
		}
		allocCtx, allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
		log.Info("Launching local browser", "headless", cfg.Headless)
	} else {
		var wsURL string
		err := utils.RetryWithBackoff(ctx, func() error {
			u, err := launcher.ResolveURL(cfg.RemoteURL)
			if err != nil {
				return err
			}
			wsURL = u
			return nil
		}, 3, time.Second, 5*time.Second)
		if err != nil {
			return nil, fmt.Errorf("cdpsurface: resolve %s: %w", cfg.RemoteURL, err)
		}
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(context.Background(), wsURL)
		log.Info("Connecting to browser via CDP", "url", wsURL)
	}

	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	// The first Run attaches the target
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("cdpsurface: attach tab: %w", err)
	}

	return &Surface{
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
		allocCancel: allocCancel,
		cfg:         cfg,
		log:         log,
	}, nil
}

// Close closes the tab and releases the allocator. Best effort.
func (s *Surface) Close() error {
	s.tabCancel()
	s.allocCancel()
	return nil
}

// run executes actions against the tab while honouring the caller's ctx
func (s *Surface) run(ctx context.Context, actions ...chromedp.Action) error {
	c := chromedp.FromContext(s.tabCtx)
	if c == nil || c.Target == nil {
		return errors.New("cdpsurface: no target attached")
	}
	if err := s.tabCtx.Err(); err != nil {
		return fmt.Errorf("cdpsurface: tab closed: %w", err)
	}
	return chromedp.Tasks(actions).Do(cdp.WithExecutor(ctx, c.Target))
}

// Navigate loads url and waits for the body, retrying transient failures
func (s *Surface) Navigate(ctx context.Context, url string) error {
	s.log.Info("Navigating to", "url", url)
	return utils.RetryWithBackoff(ctx, func() error {
		navCtx, cancel := context.WithTimeout(ctx, s.cfg.NavTimeout)
		defer cancel()
		return s.run(navCtx, chromedp.Navigate(url), chromedp.WaitReady("body", chromedp.ByQuery))
	}, 3, 2*time.Second, 10*time.Second)
}

type rectResult struct {
	Found   bool    `json:"found"`
	Visible bool    `json:"visible"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

const rectScript = `(function(sel) {
	const el = document.querySelector(sel);
	if (!el) return {found: false};
	el.scrollIntoView({block: "center", inline: "center"});
	const r = el.getBoundingClientRect();
	const style = window.getComputedStyle(el);
	const visible = r.width > 0 && r.height > 0 && style.visibility !== "hidden" && style.display !== "none";
	return {found: true, visible: visible, x: r.x, y: r.y, width: r.width, height: r.height};
})(%s)`

// BoundingBox waits for the element, scrolls it into view and measures it
func (s *Surface) BoundingBox(ctx context.Context, selector string) (geom.BoundingBox, error) {
	if err := s.waitFor(ctx, selector); err != nil {
		return geom.BoundingBox{}, err
	}

	sel, err := json.Marshal(selector)
	if err != nil {
		return geom.BoundingBox{}, err
	}
	var res rectResult
	if err := s.run(ctx, chromedp.Evaluate(fmt.Sprintf(rectScript, sel), &res)); err != nil {
		return geom.BoundingBox{}, fmt.Errorf("cdpsurface: measure %q: %w", selector, err)
	}
	if !res.Found || !res.Visible {
		return geom.BoundingBox{}, fmt.Errorf("cdpsurface: %q: %w", selector, human.ErrTargetNotVisible)
	}
	return geom.BoxFromRect(res.X, res.Y, res.Width, res.Height), nil
}

// waitFor blocks until selector matches, up to the lookup timeout
func (s *Surface) waitFor(ctx context.Context, selector string) error {
	lookupCtx, cancel := context.WithTimeout(ctx, s.cfg.LookupTimeout)
	defer cancel()

	err := s.run(lookupCtx, chromedp.WaitReady(selector, chromedp.ByQuery))
	if err != nil && errors.Is(lookupCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return fmt.Errorf("cdpsurface: no element matches %q: %w", selector, human.ErrTargetNotVisible)
	}
	return err
}

// ViewportSize prefers the configured size and otherwise measures the window
func (s *Surface) ViewportSize(ctx context.Context) (geom.SurfaceSize, error) {
	if s.cfg.ViewportWidth > 0 && s.cfg.ViewportHeight > 0 {
		return geom.SurfaceSize{Width: s.cfg.ViewportWidth, Height: s.cfg.ViewportHeight}, nil
	}
	var size geom.SurfaceSize
	var res struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	}
	err := s.run(ctx, chromedp.Evaluate(`({width: window.innerWidth, height: window.innerHeight})`, &res))
	if err != nil {
		return size, fmt.Errorf("cdpsurface: measure viewport: %w", err)
	}
	size.Width, size.Height = res.Width, res.Height
	return size, nil
}

// Focus gives the element keyboard focus
func (s *Surface) Focus(ctx context.Context, selector string) error {
	if err := s.waitFor(ctx, selector); err != nil {
		return err
	}
	return s.run(ctx, chromedp.Focus(selector, chromedp.ByQuery))
}
