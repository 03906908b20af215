package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danmuck/arplace/internal/asset"
	"github.com/danmuck/arplace/internal/config"
	"github.com/danmuck/arplace/internal/observability"
	"github.com/danmuck/arplace/internal/placement"
	"github.com/danmuck/arplace/internal/server"
	"github.com/danmuck/arplace/internal/xr/sim"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const settleTimeout = 5 * time.Second

type simulateOptions struct {
	realtime bool
	hold     bool
	admin    string
}

func simulateCmd() *cobra.Command {
	var opts simulateOptions
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the scenario's frame script against the simulated platform",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := scenario
			if opts.admin != "" {
				cfg.Admin.Addr = opts.admin
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			shutdown, err := observability.SetupTracing(ctx, appName)
			if err != nil {
				return fmt.Errorf("setup tracing: %w", err)
			}
			defer func() {
				if err := shutdown(context.WithoutCancel(ctx)); err != nil {
					log.Warn().Err(err).Msg("arplacectl.simulate tracing shutdown failed")
				}
			}()

			st, err := runScenario(ctx, cfg, opts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			summary, err := json.MarshalIndent(st, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", summary)
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.realtime, "realtime", false, "pace frames at the scenario frame interval")
	cmd.Flags().BoolVar(&opts.hold, "hold", false, "keep the admin server up after the script until interrupted")
	cmd.Flags().StringVar(&opts.admin, "admin", "", "admin listen address (overrides [admin].addr)")
	return cmd
}

// runScenario drives one session through the scripted frames and returns
// the final status.
func runScenario(ctx context.Context, cfg config.Config, opts simulateOptions, out io.Writer) (placement.Status, error) {
	placeable, err := loadPlaceable(cfg.Asset)
	if err != nil {
		return placement.Status{}, err
	}

	c := &console{out: out}
	renderer := &consoleRenderer{c: c}
	slot := &asset.Slot{}
	slot.Set(placeable)
	life, err := placement.NewLifecycle(sim.NewPlatform(cfg.Platform), slot, renderer, consoleUI{c: c}, cfg.Session)
	if err != nil {
		return placement.Status{}, err
	}

	g, gctx := errgroup.WithContext(ctx)
	adminCtx, stopAdmin := context.WithCancel(gctx)
	defer stopAdmin()
	if cfg.Admin.Addr != "" {
		admin := server.New(appName, life, cfg.Admin.CorsOrigins)
		g.Go(func() error { return admin.Serve(adminCtx, cfg.Admin.Addr) })
	}

	g.Go(func() error {
		defer stopAdmin()
		if err := life.Start(gctx); err != nil {
			if errors.Is(err, placement.ErrCapabilityUnsupported) || errors.Is(err, placement.ErrSessionRequestFailed) {
				return nil
			}
			return err
		}
		if !opts.realtime {
			settle(gctx, life, func(st placement.Status) bool { return st.ReferenceSpace != "" })
		}
		err := play(gctx, life, cfg, opts, c)
		if life.State() == placement.StateActive {
			if stopErr := life.Stop(); stopErr != nil && err == nil {
				err = stopErr
			}
		}
		life.Wait()
		if err != nil {
			return err
		}

		if opts.hold && cfg.Admin.Addr != "" {
			c.printf("holding admin server on %s\n", cfg.Admin.Addr)
			<-gctx.Done()
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return life.Status(), err
	}
	log.Info().Int("frames", renderer.Frames()).Msg("arplacectl.simulate done")
	return life.Status(), nil
}

func play(ctx context.Context, life *placement.Lifecycle, cfg config.Config, opts simulateOptions, c *console) error {
	var ticker *time.Ticker
	if opts.realtime {
		ticker = time.NewTicker(cfg.FrameInterval)
		defer ticker.Stop()
	}

	for i, step := range cfg.Steps() {
		if ticker != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		life.FrameTick(step.Frame)
		if i == 0 && !opts.realtime {
			settle(ctx, life, func(st placement.Status) bool {
				return st.HitTestReady || st.LastError != ""
			})
		}
		if step.Tap {
			outcome := life.PlacementInput()
			c.printf("[%8s] tap      %s\n", step.Frame.T, outcome)
		}
		if life.State() != placement.StateActive {
			return nil
		}
	}
	return nil
}

// settle waits for async setup so unpaced runs are deterministic.
func settle(ctx context.Context, life *placement.Lifecycle, done func(placement.Status) bool) {
	deadline := time.NewTimer(settleTimeout)
	defer deadline.Stop()
	poll := time.NewTicker(time.Millisecond)
	defer poll.Stop()
	for {
		st := life.Status()
		if st.State != placement.StateActive || done(st) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-deadline.C:
			log.Warn().Msg("arplacectl.settle timed out")
			return
		case <-poll.C:
		}
	}
}

func loadPlaceable(cfg config.AssetConfig) (asset.Placeable, error) {
	meta := asset.DefaultObjectMeta()
	if cfg.MetaPath != "" {
		var err error
		if meta, err = asset.LoadMeta(cfg.MetaPath); err != nil {
			return asset.Placeable{}, err
		}
	}
	if cfg.Name != "" {
		meta.Name = cfg.Name
	}
	return asset.NewPlaceable("mesh:"+meta.Name, meta), nil
}
