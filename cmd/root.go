package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"human-input/browser"
	"human-input/cdpsurface"
	"human-input/config"
	"human-input/geom"
	"human-input/human"
	"human-input/logger"
	"human-input/storage"
	"human-input/timing"
)

// app is everything a subcommand needs, built once in PersistentPreRunE
type app struct {
	cfg   *config.Config
	log   logger.Logger
	store storage.Store
	rng   *timing.Source

	configFile string
	url        string
	seed       int64

	// overlay forces the cursor overlay on for this run only
	overlay bool
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "humaninput",
		Short:         "Drive a browser page with human-like mouse, keyboard and scroll input",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.shutdown()
		},
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "config.yaml", "Path to configuration file")
	root.PersistentFlags().StringVar(&a.url, "url", "", "Page to open before acting")
	root.PersistentFlags().Int64Var(&a.seed, "seed", 0, "Random seed, 0 picks one from the clock")

	root.AddCommand(
		newClickCmd(a),
		newHoverCmd(a),
		newTypeCmd(a),
		newScrollCmd(a),
		newIdleCmd(a),
		newDelayCmd(a),
		newPauseCmd(a),
		newCursorCmd(a),
		newDemoCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(a.configFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = a.seed
	}
	a.cfg = cfg

	log, err := logger.FromOptions(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.log = log

	store, err := storage.Open(cfg.State, a.defaultCursor(), log)
	if err != nil {
		return fmt.Errorf("open cursor store: %w", err)
	}
	a.store = store
	a.rng = timing.SourceFromSeed(cfg.Seed)

	log.Debug("Initialized", "config", a.configFile, "driver", cfg.Browser.Driver, "state", cfg.State.Backend)
	return nil
}

func (a *app) shutdown() error {
	var err error
	if a.store != nil {
		err = a.store.Close()
	}
	if s, ok := a.log.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}
	return err
}

func (a *app) defaultCursor() geom.Point {
	return geom.Point{X: a.cfg.Mouse.DefaultX, Y: a.cfg.Mouse.DefaultY}
}

func (a *app) overlayEnabled() bool {
	return a.overlay || a.cfg.Browser.CursorOverlay
}

// engine binds a fresh Engine to surface. Engines share the store and the
// random source, so switching pages keeps the cursor and the seed sequence.
func (a *app) engine(surface human.Surface) *human.Engine {
	return human.New(a.cfg, surface, a.store, a.log, human.WithSource(a.rng))
}

// session is an open page on either driver
type session interface {
	Surface() human.Surface
	// Open loads url, in a fresh page where the driver supports it
	Open(ctx context.Context, url string) error
	Close() error
}

func (a *app) connect(ctx context.Context) (session, error) {
	switch a.cfg.Browser.Driver {
	case "chromedp":
		s, err := cdpsurface.Connect(ctx, a.cfg.Browser, a.log)
		if err != nil {
			return nil, err
		}
		sess := &cdpSession{s: s}
		if a.url != "" {
			if err := sess.Open(ctx, a.url); err != nil {
				_ = s.Close()
				return nil, err
			}
		}
		return sess, nil
	default:
		mgr, err := browser.Connect(ctx, a.cfg.Browser, a.log)
		if err != nil {
			return nil, err
		}
		mgr.Overlay = a.overlayEnabled()
		sess := &rodSession{mgr: mgr}
		if err := sess.Open(ctx, a.url); err != nil {
			_ = mgr.Close()
			return nil, err
		}
		return sess, nil
	}
}

// withEngine opens a session, runs fn against it and always closes it
func (a *app) withEngine(ctx context.Context, fn func(context.Context, *human.Engine) error) error {
	sess, err := a.connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	return fn(ctx, a.engine(sess.Surface()))
}

type rodSession struct {
	mgr  *browser.Manager
	page *browser.Page
}

func (s *rodSession) Surface() human.Surface { return s.page }

func (s *rodSession) Open(ctx context.Context, url string) error {
	var page *browser.Page
	var err error
	if s.page == nil {
		page, err = s.mgr.NewPage(ctx, url)
	} else {
		page, err = s.mgr.RestartPage(ctx, s.page, "opening "+url, url)
	}
	if err != nil {
		return err
	}
	s.page = page
	return nil
}

func (s *rodSession) Close() error {
	if s.page != nil {
		_ = s.page.Close()
	}
	return s.mgr.Close()
}

type cdpSession struct {
	s *cdpsurface.Surface
}

func (c *cdpSession) Surface() human.Surface { return c.s }

func (c *cdpSession) Open(ctx context.Context, url string) error {
	return c.s.Navigate(ctx, url)
}

func (c *cdpSession) Close() error { return c.s.Close() }
