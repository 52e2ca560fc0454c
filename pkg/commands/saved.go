package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/wherein/pkg/commands/options"
	"tableflip.dev/wherein/pkg/runner/saved"
)

func addSaved(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "saved",
		Short: "List your saved countries.",
		Example: `
wherein saved
wherein saved --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			sess, err := newSession(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			defer sess.Close()

			s := saved.Saved{
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
