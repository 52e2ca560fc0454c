package commands

import (
	"github.com/fatih/color"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"tableflip.dev/wherein/pkg/commands/options"
)

var (
	lo = &options.LogOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "wherein",
		Short: options.Wrap80("Browse the country directory, keep a list of saved countries and see how often each one is viewed."),
		PersistentPreRun: func(*cobra.Command, []string) {
			if termenv.EnvNoColor() {
				color.NoColor = true
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	options.AddLogArgs(cmd, lo)
	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addCountries(topLevel)
	addRegions(topLevel)
	addShow(topLevel)
	addSaved(topLevel)
	addToggle(topLevel)
	addProfile(topLevel)
	addBrowse(topLevel)
	addMCP(topLevel)
	addInfo(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}
