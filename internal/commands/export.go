package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"weekplan/internal/ics"
	appLog "weekplan/internal/log"
)

func addExport(topLevel *cobra.Command, o *rootOptions) {
	var (
		week   string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the week as an iCalendar file",
		Example: `
weekplan export > week.ics
weekplan export --week 2026-01-12 -o /tmp/week.ics
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.open()
			if err != nil {
				return err
			}
			start, err := a.weekStart(week)
			if err != nil {
				return err
			}
			body, err := ics.Export(a.planner.Events(), start, time.Now())
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(body)
				return err
			}
			if err := os.WriteFile(output, body, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			appLog.Info("week exported", "path", output, "week_start", start.Format(layoutISO))
			return nil
		},
	}
	cmd.Flags().StringVar(&week, "week", "", "Any date inside the week to anchor on, YYYY-MM-DD. Defaults to this week.")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout.")

	topLevel.AddCommand(cmd)
}
