package commands

import (
	"github.com/spf13/cobra"
)

const defaultConfigPath = "/etc/weekplan/config.yaml"

// New builds the weekplan command tree.
func New() *cobra.Command {
	o := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "weekplan",
		Short:        "Plan one week of timed entries from the command line or the browser.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	addRootArgs(cmd, o)

	addCommands(cmd, o)
	return cmd
}

func addCommands(topLevel *cobra.Command, o *rootOptions) {
	addServe(topLevel, o)
	addSnapshot(topLevel, o)
	addList(topLevel, o)
	addAdd(topLevel, o)
	addEdit(topLevel, o)
	addRemove(topLevel, o)
	addSlot(topLevel, o)
	addFormat(topLevel, o)
	addExport(topLevel, o)
	addImport(topLevel, o)
}
