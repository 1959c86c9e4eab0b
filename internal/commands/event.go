package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"weekplan/internal/planner"
	"weekplan/internal/timeval"
)

func addAdd(topLevel *cobra.Command, o *rootOptions) {
	f := &eventFlags{}
	cmd := &cobra.Command{
		Use:   "add [title...]",
		Short: "Add an entry to the week",
		Example: `
weekplan add --day tue --start 9:00 --end 9:30 Standup
weekplan add --day fri --start "10:00 pm" --end 00:00 --color rose Late shift
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.open()
			if err != nil {
				return err
			}
			d := planner.NewDraft()
			if err := f.apply(cmd, &d, true); err != nil {
				return err
			}
			if len(args) > 0 && !cmd.Flags().Changed("title") {
				d.Title = strings.Join(args, " ")
			}

			id, err := a.planner.Save(d)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	addEventArgs(cmd, f, planner.NewDraft())

	topLevel.AddCommand(cmd)
}

func addEdit(topLevel *cobra.Command, o *rootOptions) {
	f := &eventFlags{}
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an existing entry",
		Example: `
weekplan edit 0192f1c4 --end 11:00
weekplan edit 0192f1c4 --day wed --color green
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.open()
			if err != nil {
				return err
			}
			ev, err := resolveID(a.planner, args[0])
			if err != nil {
				return err
			}
			d := planner.DraftFrom(ev)
			if err := f.apply(cmd, &d, false); err != nil {
				return err
			}
			if _, err := a.planner.Save(d); err != nil {
				return err
			}
			updated, _ := a.planner.Event(ev.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s  %s\n",
				updated.ID, updated.Day, timeval.FormatRange(updated.Start, updated.End, a.planner.Use24h()), updated.DisplayTitle())
			return nil
		},
	}
	addEventArgs(cmd, f, planner.NewDraft())

	topLevel.AddCommand(cmd)
}

func addRemove(topLevel *cobra.Command, o *rootOptions) {
	cmd := &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"delete"},
		Short:   "Delete entries",
		Example: `
weekplan rm 0192f1c4
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.open()
			if err != nil {
				return err
			}
			for _, ref := range args {
				ev, err := resolveID(a.planner, ref)
				if err != nil {
					return err
				}
				if _, err := a.planner.Delete(ev.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s (%s)\n", ev.ID, ev.DisplayTitle())
			}
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
