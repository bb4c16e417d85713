package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"human-input/human"
	"human-input/timing"
)

func newClickCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "click <selector>",
		Short: "Approach an element with overshoot and click it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(cmd.Context(), func(ctx context.Context, e *human.Engine) error {
				return e.Click(ctx, args[0])
			})
		},
	}
}

func newHoverCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "hover <selector>",
		Short: "Move onto an element without clicking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(cmd.Context(), func(ctx context.Context, e *human.Engine) error {
				return e.Hover(ctx, args[0])
			})
		},
	}
}

func newTypeCmd(a *app) *cobra.Command {
	var (
		typo  float64
		enter bool
		click bool
	)
	cmd := &cobra.Command{
		Use:   "type <selector> <text>",
		Short: "Type text into an element, with typos that get corrected",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := &human.TypeOptions{}
			if cmd.Flags().Changed("typo") {
				opts.TypoChance = human.TypoChance(typo)
			}
			return a.withEngine(cmd.Context(), func(ctx context.Context, e *human.Engine) error {
				if click {
					if err := e.Click(ctx, args[0]); err != nil {
						return err
					}
				}
				if err := e.Type(ctx, args[0], args[1], opts); err != nil {
					return err
				}
				if enter {
					return e.PressKey(ctx, human.KeyEnter)
				}
				return nil
			})
		},
	}
	cmd.Flags().Float64Var(&typo, "typo", 0, "Per-character typo probability (default from config)")
	cmd.Flags().BoolVar(&enter, "enter", false, "Press Enter afterwards")
	cmd.Flags().BoolVar(&click, "click", true, "Click the element before typing")
	return cmd
}

func newScrollCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scroll <pixels>",
		Short: "Scroll vertically with decaying wheel velocity; negative scrolls up",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pixels, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid pixel count %q: %w", args[0], err)
			}
			return a.withEngine(cmd.Context(), func(ctx context.Context, e *human.Engine) error {
				scrolled, err := e.Scroll(ctx, pixels)
				if err != nil {
					return err
				}
				a.log.Info("Scroll finished", "requested", pixels, "scrolled", scrolled)
				return nil
			})
		},
	}
}

func newIdleCmd(a *app) *cobra.Command {
	var minTimes, maxTimes int
	cmd := &cobra.Command{
		Use:   "idle <selector>",
		Short: "Hover around an element a few times, as if reading it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(cmd.Context(), func(ctx context.Context, e *human.Engine) error {
				return e.IdleDelay(ctx, args[0], minTimes, maxTimes)
			})
		},
	}
	cmd.Flags().IntVar(&minTimes, "min", 1, "Minimum number of approaches")
	cmd.Flags().IntVar(&maxTimes, "max", 5, "Maximum number of approaches")
	return cmd
}

func newDelayCmd(a *app) *cobra.Command {
	var (
		min, max time.Duration
		reason   string
	)
	cmd := &cobra.Command{
		Use:   "delay",
		Short: "Sleep a random human-scale duration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// No page is touched, so no browser is needed
			return a.engine(nil).HumanDelay(cmd.Context(), min, max, reason)
		},
	}
	cmd.Flags().DurationVar(&min, "min", time.Second, "Shortest delay")
	cmd.Flags().DurationVar(&max, "max", 3*time.Second, "Longest delay")
	cmd.Flags().StringVar(&reason, "reason", "", "Logged with the delay")
	return cmd
}

func newPauseCmd(a *app) *cobra.Command {
	var (
		action    string
		intensity float64
	)
	cmd := &cobra.Command{
		Use:   "pause",
		Short: "Sleep as long as a person would before the named action",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := timing.ActionType(action)
			if _, ok := timing.DefaultWindows[kind]; !ok {
				return fmt.Errorf("unknown action %q", action)
			}
			return a.engine(nil).Pause(cmd.Context(), kind, intensity)
		},
	}
	cmd.Flags().StringVar(&action, "action", string(timing.ActionTypeThink), "One of click, type, read, scroll, think")
	cmd.Flags().Float64Var(&intensity, "intensity", 1, "Multiplier applied to the action's delay window")
	return cmd
}

func newCursorCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cursor",
		Short: "Print the persisted cursor position",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.store.Read()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%g %g\n", p.X, p.Y)
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Move the persisted cursor back to the configured default",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := a.defaultCursor()
			if err := a.store.Write(p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%g %g\n", p.X, p.Y)
			return nil
		},
	})
	return cmd
}
