package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"weekplan/internal/model"
	"weekplan/internal/timeval"
)

var swatchAttr = map[model.Color]color.Attribute{
	model.Blue:   color.FgBlue,
	model.Green:  color.FgGreen,
	model.Rose:   color.FgRed,
	model.Purple: color.FgMagenta,
	model.Orange: color.FgYellow,
	model.Grey:   color.FgHiBlack,
}

func addList(topLevel *cobra.Command, o *rootOptions) {
	var (
		day    string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List planned entries by day and start time",
		Example: `
weekplan list
weekplan list --day tue
weekplan list --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.open()
			if err != nil {
				return err
			}
			events := a.planner.Events()
			if day != "" {
				d, err := model.ParseDay(day)
				if err != nil {
					return err
				}
				events = filterDay(events, d)
			}
			sortEvents(events)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(events)
			}
			printEvents(cmd.OutOrStdout(), events, a.planner.Use24h())
			return nil
		},
	}
	cmd.Flags().StringVar(&day, "day", "", "Only list one weekday, example: --day=fri.")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON.")

	topLevel.AddCommand(cmd)
}

func filterDay(events []model.Event, d model.Day) []model.Event {
	out := make([]model.Event, 0, len(events))
	for _, ev := range events {
		if ev.Day == d {
			out = append(out, ev)
		}
	}
	return out
}

// sortEvents orders by day, then start, keeping insertion order for ties.
func sortEvents(events []model.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Day != events[j].Day {
			return events[i].Day < events[j].Day
		}
		si, _ := timeval.Bounds(events[i].Start, events[i].End)
		sj, _ := timeval.Bounds(events[j].Start, events[j].End)
		return si < sj
	})
}

func printEvents(w io.Writer, events []model.Event, use24h bool) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No entries planned.")
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 48
	tbl.AddRow("ID", "DAY", "TIME", "TITLE", "COLOR")
	for _, ev := range events {
		tbl.AddRow(
			ev.ID,
			ev.Day.String(),
			timeval.FormatRange(ev.Start, ev.End, use24h),
			ev.DisplayTitle(),
			color.New(swatchAttr[ev.Color]).Sprint(ev.Color.String()),
		)
	}
	fmt.Fprintln(w, tbl)
}
