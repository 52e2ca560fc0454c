package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/wherein/pkg/commands/options"
	"tableflip.dev/wherein/pkg/runner/regions"
)

func addRegions(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "regions",
		Short: "List the regions countries can be filtered by.",
		Example: `
wherein regions
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			sess, err := newSession(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			defer sess.Close()

			s := regions.Regions{
				Session: sess,
				JSON:    oo.JSON,
				Out:     cmd.OutOrStdout(),
			}
			return oo.HandleError(s.Do(cmd.Context()))
		},
	}

	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
