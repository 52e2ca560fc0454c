package options

import (
	"github.com/spf13/cobra"
)

// QueryOptions
type QueryOptions struct {
	Search string
	Region string
}

func AddQueryArgs(cmd *cobra.Command, o *QueryOptions) {
	cmd.Flags().StringVarP(&o.Search, "search", "s", "",
		"Case-insensitive substring of the country name.")
	cmd.Flags().StringVarP(&o.Region, "region", "r", "",
		Wrap80("Only countries of this region, for example Europe. See `wherein regions`."))
}
