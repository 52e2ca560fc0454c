package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/wherein/pkg/commands/options"
	"tableflip.dev/wherein/pkg/runner/profile"
)

func addProfile(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the newest profile and greet its owner.",
		Example: `
wherein profile
wherein profile submit --name Ada --email ada@example.com --country France
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			sess, err := newSession(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			defer sess.Close()

			s := profile.Show{
				Session: sess,
				JSON:    oo.JSON,
				Out:     cmd.OutOrStdout(),
			}
			return oo.HandleError(s.Do(cmd.Context()))
		},
	}

	options.AddOutputArg(cmd, oo)
	addProfileSubmit(cmd)

	topLevel.AddCommand(cmd)
}

func addProfileSubmit(parent *cobra.Command) {
	po := &options.ProfileOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "submit",
		Short: options.Wrap80("Submit a profile. Flags are merged over any pending draft, and a failed submit keeps the form as the draft."),
		Example: `
wherein profile submit --name Ada --email ada@example.com --country France --bio "Explorer"
wherein profile submit --email ada@example.org
wherein profile submit --discard
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			sess, err := newSession(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			defer sess.Close()

			s := profile.Submit{
				Session: sess,
				Form:    po.Form,
				Discard: po.Discard,
				JSON:    oo.JSON,
				Out:     cmd.OutOrStdout(),
			}
			return oo.HandleError(s.Do(cmd.Context()))
		},
	}

	options.AddProfileArgs(cmd, po)
	options.AddOutputArg(cmd, oo)

	_ = cmd.RegisterFlagCompletionFunc("country", func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return countryCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
	})

	parent.AddCommand(cmd)
}
