package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"weekplan/internal/model"
	"weekplan/internal/timeval"
)

func addSlot(topLevel *cobra.Command, o *rootOptions) {
	var (
		day     string
		offsetY float64
		create  bool
		title   string
	)
	cmd := &cobra.Command{
		Use:   "slot",
		Short: "Resolve a click offset in a day column to a one-hour slot",
		Long: `Slot maps a vertical offset, in grid units from the top of a day column,
to the half-hour aligned one-hour entry the grid would propose for it.`,
		Example: `
weekplan slot --day wed --offset 150
weekplan slot --day wed --offset 150 --create --title "Focus time"
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.open()
			if err != nil {
				return err
			}
			d, err := model.ParseDay(day)
			if err != nil {
				return err
			}

			draft := a.planner.ResolveSlot(offsetY, d)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", draft.Day, timeval.FormatRange(draft.Start, draft.End, a.planner.Use24h()))
			if !create {
				return nil
			}
			draft.Title = strings.TrimSpace(title)
			id, err := a.planner.Save(draft)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	cmd.Flags().StringVar(&day, "day", "mon", "Weekday of the column.")
	cmd.Flags().Float64Var(&offsetY, "offset", 0, "Offset from the column top in grid units.")
	cmd.Flags().BoolVar(&create, "create", false, "Save the proposed entry.")
	cmd.Flags().StringVar(&title, "title", "", "Title for --create.")

	topLevel.AddCommand(cmd)
}
