package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"human-input/human"
	"human-input/timing"
)

// demoFlow is the scripted walk-through run by the demo command
type demoFlow struct {
	FirstURL     string
	Heading      string
	Link         string
	SearchURL    string
	SearchBox    string
	SearchQuery  string
	MinIdle      int
	MaxIdle      int
	ReadMin      time.Duration
	ReadMax      time.Duration
	ReadingLabel string

	// Scale the read pause after the link and the think pause before typing
	ReadIntensity  float64
	ThinkIntensity float64
}

func defaultDemoFlow() demoFlow {
	return demoFlow{
		FirstURL:     "https://example.com",
		Heading:      "h1",
		Link:         "a[href]",
		SearchURL:    "https://google.com",
		SearchBox:    `textarea[name="q"], input[name="q"]`,
		SearchQuery:  "github",
		MinIdle:      1,
		MaxIdle:      5,
		ReadMin:      2 * time.Second,
		ReadMax:      5 * time.Second,
		ReadingLabel: "reading the linked page",

		ReadIntensity:  0.5,
		ThinkIntensity: 1,
	}
}

func newDemoCmd(a *app) *cobra.Command {
	flow := defaultDemoFlow()
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Read a heading, follow a link, then search for something",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.prepareDemo(flow)
			return a.runDemo(cmd.Context(), flow)
		},
	}
	cmd.Flags().StringVar(&flow.SearchQuery, "query", flow.SearchQuery, "Text typed into the search box")
	cmd.Flags().StringVar(&flow.SearchURL, "search-url", flow.SearchURL, "Page holding the search box")
	return cmd
}

// prepareDemo shows the pointer while the demo runs and defaults the start page
func (a *app) prepareDemo(flow demoFlow) {
	a.overlay = true
	if a.url == "" {
		a.url = flow.FirstURL
	}
}

func (a *app) runDemo(ctx context.Context, flow demoFlow) error {
	sess, err := a.connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	e := a.engine(sess.Surface())

	// Simulate interest in the heading by idling over it
	if err := e.IdleDelay(ctx, flow.Heading, flow.MinIdle, flow.MaxIdle); err != nil {
		return err
	}

	if err := e.Click(ctx, flow.Link); err != nil {
		return err
	}
	a.log.Info("Clicked link", "selector", flow.Link)

	if err := e.HumanDelay(ctx, flow.ReadMin, flow.ReadMax, flow.ReadingLabel); err != nil {
		return err
	}
	if err := e.Pause(ctx, timing.ActionTypeRead, flow.ReadIntensity); err != nil {
		return err
	}

	if err := sess.Open(ctx, flow.SearchURL); err != nil {
		return err
	}
	e = a.engine(sess.Surface())

	if err := e.Click(ctx, flow.SearchBox); err != nil {
		return err
	}
	if err := e.Pause(ctx, timing.ActionTypeThink, flow.ThinkIntensity); err != nil {
		return err
	}
	if err := e.Type(ctx, flow.SearchBox, flow.SearchQuery, nil); err != nil {
		return err
	}
	if err := e.PressKey(ctx, human.KeyEnter); err != nil {
		return err
	}

	a.log.Info("Demo finished", "query", flow.SearchQuery)
	return nil
}
