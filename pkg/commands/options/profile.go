package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/wherein/pkg/profile"
)

// ProfileOptions
type ProfileOptions struct {
	Form    profile.Form
	Discard bool
}

func AddProfileArgs(cmd *cobra.Command, o *ProfileOptions) {
	cmd.Flags().StringVar(&o.Form.Name, "name", "",
		"Your name.")
	cmd.Flags().StringVar(&o.Form.Email, "email", "",
		"Your email address.")
	cmd.Flags().StringVar(&o.Form.Country, "country", "",
		"The country you are from.")
	cmd.Flags().StringVar(&o.Form.Bio, "bio", "",
		"A short bio (optional).")
	cmd.Flags().BoolVar(&o.Discard, "discard", false,
		"Discard the pending draft instead of submitting.")
}
