package options

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// LogOptions
type LogOptions struct {
	Level string
}

func AddLogArgs(cmd *cobra.Command, o *LogOptions) {
	cmd.PersistentFlags().StringVar(&o.Level, "log-level", "",
		"Diagnostic log level: debug, info, warn or error. Overrides log.level from the config.")
}

// Logger returns a stderr text logger. The flag wins over configured.
func (o *LogOptions) Logger(configured string) *slog.Logger {
	level := configured
	if o != nil && o.Level != "" {
		level = o.Level
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// ParseLevel maps a level name to a slog.Level, defaulting to warn.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
