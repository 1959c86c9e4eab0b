package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"weekplan/internal/config"
)

func addFormat(topLevel *cobra.Command, o *rootOptions) {
	cmd := &cobra.Command{
		Use:       "format [12h|24h|toggle]",
		Short:     "Show or change the clock format",
		ValidArgs: []string{config.TimeFormat12h, config.TimeFormat24h, "toggle"},
		Example: `
weekplan format
weekplan format 12h
weekplan format toggle
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.open()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				switch strings.ToLower(args[0]) {
				case config.TimeFormat12h:
					err = a.planner.SetUse24h(false)
				case config.TimeFormat24h:
					err = a.planner.SetUse24h(true)
				case "toggle":
					_, err = a.planner.ToggleFormat()
				default:
					return fmt.Errorf("unknown format %q, want 12h, 24h or toggle", args[0])
				}
				if err != nil {
					return err
				}
			}
			if a.planner.Use24h() {
				fmt.Fprintln(cmd.OutOrStdout(), config.TimeFormat24h)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), config.TimeFormat12h)
			}
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
