package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/wherein/pkg/runner/browse"
)

func addBrowse(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "browse",
		Aliases: []string{"ui"},
		Short:   "Browse countries interactively.",
		Example: `
wherein browse
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			sess, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			b := browse.Browse{
				Session: sess,
				Log:     sess.Logger(),
			}
			return b.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}
