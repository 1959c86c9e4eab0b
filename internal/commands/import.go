package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"weekplan/internal/config"
	"weekplan/internal/ics"
	appLog "weekplan/internal/log"
	"weekplan/internal/model"
)

func addImport(topLevel *cobra.Command, o *rootOptions) {
	var (
		week   string
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "import [file.ics|url...]",
		Short: "Copy timed entries of one week from iCalendar files or the configured feeds",
		Long: `Import reads the given .ics files and http(s) URLs, or every feed under "import:" in the
config when no file is named, and adds each timed occurrence inside the chosen
week as a plain entry. Recurring events are flattened; all-day events and
entries already planned are skipped.`,
		Example: `
weekplan import team.ics
weekplan import https://calendar.example.com/team.ics
weekplan import --week 2026-01-12
weekplan import --dry-run
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.open()
			if err != nil {
				return err
			}
			start, err := a.weekStart(week)
			if err != nil {
				return err
			}

			var bodies [][]byte
			if len(args) > 0 {
				bodies, err = readSources(cmd.Context(), a.cfg, args)
			} else {
				bodies, err = fetchFeeds(cmd.Context(), a.cfg, a.cfg.Import)
			}
			if err != nil {
				return err
			}

			var events []model.Event
			for i, body := range bodies {
				evs, err := ics.Import(body, start)
				if err != nil {
					appLog.Error("import: parse failed", err, "source", i)
					continue
				}
				events = append(events, evs...)
			}

			if dryRun {
				sortEvents(events)
				printEvents(cmd.OutOrStdout(), events, a.planner.Use24h())
				return nil
			}
			added, err := a.planner.Import(events)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d entries for the week of %s\n", added, len(events), start.Format(layoutISO))
			return nil
		},
	}
	cmd.Flags().StringVar(&week, "week", "", "Any date inside the week to import, YYYY-MM-DD. Defaults to this week.")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List what would be imported without saving.")

	topLevel.AddCommand(cmd)
}

// readSources loads local files and fetches URLs, in argument order.
func readSources(ctx context.Context, cfg *config.Config, args []string) ([][]byte, error) {
	bodies := make([][]byte, 0, len(args))
	for _, arg := range args {
		if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
			fetched, err := fetchFeeds(ctx, cfg, []config.ImportSource{{ID: "arg", URL: arg}})
			if err != nil {
				return nil, err
			}
			bodies = append(bodies, fetched...)
			continue
		}
		b, err := os.ReadFile(arg)
		if err != nil {
			return nil, err
		}
		bodies = append(bodies, b)
	}
	return bodies, nil
}

// fetchFeeds downloads feeds through the on-disk cache. A feed that fails is
// logged and skipped; it is an error only when all of them fail.
func fetchFeeds(ctx context.Context, cfg *config.Config, sources []config.ImportSource) ([][]byte, error) {
	if len(sources) == 0 {
		return nil, errors.New("no files given and no import feeds configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	fetcher := ics.NewFetcher(filepath.Join(cfg.DataDir, "ics-cache"), nil)
	var (
		bodies [][]byte
		errs   []error
	)
	for _, src := range sources {
		id := src.ID
		if id == "" {
			id = src.Name
		}
		res, err := fetcher.Fetch(ctx, ics.Feed{ID: id, URL: src.URL})
		if err != nil {
			appLog.Error("import: feed failed", err, "id", id)
			errs = append(errs, err)
			continue
		}
		bodies = append(bodies, res.Body)
	}
	if len(bodies) == 0 {
		return nil, errors.Join(errs...)
	}
	return bodies, nil
}
