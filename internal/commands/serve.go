package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	appLog "weekplan/internal/log"
	"weekplan/internal/web"
)

const shutdownTimeout = 5 * time.Second

func addServe(topLevel *cobra.Command, o *rootOptions) {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the planner API and calendar page",
		Example: `
weekplan serve
weekplan serve --listen :9090
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.open()
			if err != nil {
				return err
			}
			if listen != "" {
				a.cfg.Listen = listen
			}

			// Root context with cancellation on SIGINT/SIGTERM.
			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, cancel := context.WithCancel(parent)
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)
			go func() {
				select {
				case sig := <-sigCh:
					appLog.Info("signal received, shutting down", "signal", sig.String())
					cancel()
				case <-ctx.Done():
				}
			}()

			srv := web.NewServer(a.cfg, a.planner)
			httpSrv := &http.Server{
				Addr:              a.cfg.Listen,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			snap := &snapshotter{cfg: a.cfg, server: srv, loc: a.loc, baseURL: localURL(a.cfg.Listen), now: time.Now}
			sched, err := scheduleSnapshots(ctx, a.cfg.Snapshot.Cron, snap)
			if err != nil {
				return err
			}
			if sched != nil {
				sched.Start()
				defer func() { <-sched.Stop().Done() }()
			}

			errCh := make(chan error, 1)
			go func() {
				appLog.Info("starting HTTP server", "listen", "http://"+a.cfg.Listen)
				errCh <- httpSrv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer shutdownCancel()
			if err := httpSrv.Shutdown(shutdownCtx); err != nil {
				appLog.Error("HTTP shutdown failed", err)
				return err
			}
			appLog.Info("weekplan exiting")
			return nil
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "HTTP listen address (overrides config if set).")

	topLevel.AddCommand(cmd)
}

// scheduleSnapshots registers the snapshot job on a cron scheduler. It
// returns nil when no schedule or output is configured.
func scheduleSnapshots(ctx context.Context, spec string, snap *snapshotter) (*cron.Cron, error) {
	if spec == "" || (!snap.cfg.Snapshot.ICS && !snap.cfg.Snapshot.Capture) {
		appLog.Info("snapshot job disabled")
		return nil, nil
	}
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if err := snap.run(ctx); err != nil {
			appLog.Error("snapshot job failed", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot cron %q: %w", spec, err)
	}
	appLog.Info("snapshot job scheduled", "cron", spec, "ics", snap.cfg.Snapshot.ICS, "capture", snap.cfg.Snapshot.Capture)
	return c, nil
}
