package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/wherein/pkg/session"
	"tableflip.dev/wherein/pkg/store"
)

// newSession loads the config and resolves the dataset for one command run.
func newSession(cmd *cobra.Command) (*session.Session, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	log := lo.Logger(cfg.LogLevel())
	return session.New(cmd.Context(), cfg, session.WithLogger(log))
}
