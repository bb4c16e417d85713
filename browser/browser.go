package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"human-input/config"
	"human-input/logger"
	"human-input/utils"
)

// Manager owns the connection to one Chromium browser and hands out pages
type Manager struct {
	RodBrowser *rod.Browser
	Log        logger.Logger
	Cfg        config.BrowserConfig

	// Overlay draws the pointer on pages opened from now on
	Overlay bool

	lnch *launcher.Launcher
}

// Connect attaches to a running browser over CDP, or launches a local one
// when browser.launch is set. Connection attempts are retried with backoff.
func Connect(ctx context.Context, cfg config.BrowserConfig, log logger.Logger) (*Manager, error) {
	if log == nil {
		log = logger.Nop()
	}
	m := &Manager{Log: log, Cfg: cfg, Overlay: cfg.CursorOverlay}

	var wsURL string
	if cfg.Launch {
		l := launcher.New().Headless(cfg.Headless)
		if cfg.UserDataDir != "" {
			l = l.UserDataDir(cfg.UserDataDir)
		}
		// Anti-detection flag
		l = l.Set("disable-blink-features", "AutomationControlled")

		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("failed to launch browser: %w", err)
		}
		wsURL = u
		m.lnch = l
		log.Info("Launched local browser", "url", wsURL, "headless", cfg.Headless)
	} else {
		log.Info("Connecting to browser via CDP", "url", cfg.RemoteURL)
		err := utils.RetryWithBackoff(ctx, func() error {
			u, err := launcher.ResolveURL(cfg.RemoteURL)
			if err != nil {
				return err
			}
			wsURL = u
			return nil
		}, 3, time.Second, 5*time.Second)
		if err != nil {
			log.Error("Failed to reach browser", "url", cfg.RemoteURL, "error", err)
			log.Warn("Make sure Chrome is running with --remote-debugging-port")
			return nil, fmt.Errorf("failed to resolve %s: %w", cfg.RemoteURL, err)
		}
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		if m.lnch != nil {
			m.lnch.Kill()
		}
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	m.RodBrowser = b

	log.Info("Connected to browser", "url", wsURL)
	return m, nil
}

// NewPage opens a tab, applies stealth when configured and navigates to url.
// An empty url leaves the tab blank.
func (m *Manager) NewPage(ctx context.Context, url string) (*Page, error) {
	var rp *rod.Page
	var err error
	if m.Cfg.Stealth {
		rp, err = stealth.Page(m.RodBrowser)
	} else {
		rp, err = m.RodBrowser.Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	if m.Cfg.ViewportWidth > 0 && m.Cfg.ViewportHeight > 0 {
		err = rp.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:             m.Cfg.ViewportWidth,
			Height:            m.Cfg.ViewportHeight,
			DeviceScaleFactor: 1,
			Mobile:            false,
		})
		if err != nil {
			_ = rp.Close()
			return nil, fmt.Errorf("failed to set viewport: %w", err)
		}
	}

	page := newPage(rp, m.Cfg, m.Log)
	if url != "" {
		if err := page.NavigateTo(ctx, url); err != nil {
			m.Log.Error("Failed to navigate", "url", url, "error", err)
			_ = rp.Close()
			return nil, err
		}
	}
	if m.Overlay {
		if err := page.EnableCursorOverlay(ctx); err != nil {
			m.Log.Warn("Cursor overlay not installed", "error", err)
		}
	}
	return page, nil
}

// RestartPage replaces old with a fresh page. Closing old is a best-effort
// release: a failure there is logged and otherwise ignored.
func (m *Manager) RestartPage(ctx context.Context, old *Page, reason, url string) (*Page, error) {
	m.Log.Warn("Restarting page", "reason", reason)

	if old != nil {
		if err := old.Close(); err != nil {
			m.Log.Debug("Old page close failed", "error", err)
		}
	}
	return m.NewPage(ctx, url)
}

// Close cleans up the browser resources. A browser we only connected to is
// left running. Callers on shutdown paths may discard the error.
func (m *Manager) Close() error {
	var errs []error
	if m.RodBrowser != nil && m.lnch != nil {
		if err := m.RodBrowser.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	m.cleanupLauncher()
	return errors.Join(errs...)
}

// cleanupLauncher waits for a launched browser to exit. Cleanup removes the
// user data dir, so a configured profile is only killed.
func (m *Manager) cleanupLauncher() {
	if m.lnch == nil {
		return
	}
	if m.Cfg.UserDataDir != "" {
		m.lnch.Kill()
	} else {
		m.lnch.Cleanup()
	}
	m.lnch = nil
}

// NavigateTo goes to a URL with retry logic and waits for the load event
func (p *Page) NavigateTo(ctx context.Context, url string) error {
	p.log.Info("Navigating to", "url", url)

	op := func() error {
		navCtx, cancel := context.WithTimeout(ctx, p.cfg.NavTimeout)
		defer cancel()
		if err := p.rod.Context(navCtx).Navigate(url); err != nil {
			return err
		}
		if err := p.rod.Context(navCtx).WaitLoad(); err != nil {
			p.log.Warn("Wait load timeout", "url", url, "error", err)
		}
		return nil
	}

	// Retry up to 3 times with 2s initial backoff
	// 2s -> 4s -> 8s
	return utils.RetryWithBackoff(ctx, op, 3, 2*time.Second, 10*time.Second)
}
