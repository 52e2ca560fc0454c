package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/wherein/pkg/commands/options"
	"tableflip.dev/wherein/pkg/runner/countries"
)

func addCountries(topLevel *cobra.Command) {
	qo := &options.QueryOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "countries",
		Aliases: []string{"ls", "list"},
		Short:   "List countries, optionally filtered by name and region.",
		Example: `
wherein countries
wherein countries --search land
wherein countries --region Europe --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			sess, err := newSession(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			defer sess.Close()

			s := countries.Countries{
				Session: sess,
				Search:  qo.Search,
				Region:  qo.Region,
				JSON:    oo.JSON,
				Out:     cmd.OutOrStdout(),
			}
			return oo.HandleError(s.Do(cmd.Context()))
		},
	}

	options.AddQueryArgs(cmd, qo)
	options.AddOutputArg(cmd, oo)

	_ = cmd.RegisterFlagCompletionFunc("region", func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return regionCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
	})

	topLevel.AddCommand(cmd)
}
