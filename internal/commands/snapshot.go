package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"weekplan/internal/capture"
	"weekplan/internal/config"
	"weekplan/internal/ics"
	appLog "weekplan/internal/log"
	"weekplan/internal/model"
	"weekplan/internal/planner"
	"weekplan/internal/web"
)

// snapshotter writes week.ics and, when enabled, a PNG of /calendar into the
// data directory.
type snapshotter struct {
	cfg     *config.Config
	server  *web.Server
	loc     *time.Location
	baseURL string
	now     func() time.Time
}

func (s *snapshotter) run(ctx context.Context) error {
	var (
		events []model.Event
		week   planner.WeekView
	)
	s.server.Locked(func(p *planner.Planner) {
		events = p.Events()
		week = p.Week()
	})

	var errs []error
	if s.cfg.Snapshot.ICS {
		now := s.now().In(s.loc)
		body, err := ics.Export(events, ics.WeekStart(now, s.loc), now)
		if err == nil {
			err = writeFileAtomic(filepath.Join(s.cfg.DataDir, "week.ics"), body)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("ics snapshot: %w", err))
		} else {
			appLog.Info("ics snapshot written", "events", len(events))
		}
	}

	if s.cfg.Snapshot.Capture {
		w, h := capture.Viewport(week.ColumnHeight, s.cfg.Grid.ColumnWidth)
		opts := capture.Options{
			URL:        s.baseURL + "/calendar",
			OutputPath: filepath.Join(s.cfg.DataDir, "preview.png"),
			Width:      max(w, s.cfg.Snapshot.Width),
			Height:     max(h, s.cfg.Snapshot.Height),
		}
		if ba := s.cfg.BasicAuth; ba != nil {
			opts.Username, opts.Password = ba.Username, ba.Password
		}
		if err := capture.CalendarPNG(ctx, opts); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// writeFileAtomic writes data next to path and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// localURL turns a listen address into a URL reachable from this host.
func localURL(listen string) string {
	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		return "http://" + listen
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port)
}

func addSnapshot(topLevel *cobra.Command, o *rootOptions) {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Run the snapshot job once and exit",
		Long: `Snapshot writes week.ics into the data directory and, with
snapshot.capture enabled, renders /calendar to preview.png through headless
Chromium using a temporary loopback server.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.open()
			if err != nil {
				return err
			}
			srv := web.NewServer(a.cfg, a.planner)
			snap := &snapshotter{cfg: a.cfg, server: srv, loc: a.loc, now: time.Now}

			if a.cfg.Snapshot.Capture {
				ln, err := net.Listen("tcp", "127.0.0.1:0")
				if err != nil {
					return err
				}
				httpSrv := &http.Server{Handler: srv.Handler(), ReadHeaderTimeout: 10 * time.Second}
				go func() {
					if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
						appLog.Error("snapshot: loopback server failed", err)
					}
				}()
				defer httpSrv.Close()
				snap.baseURL = "http://" + ln.Addr().String()
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if err := snap.run(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "snapshot written to", a.cfg.DataDir)
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
