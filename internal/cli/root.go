// Package cli provides the command-line interface for taskping.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskping/taskping/internal/config"
)

func NewRootCommand(version string) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "taskping",
		Short:         "chat-driven task tracker with cadence reminders",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default: ./taskping.yaml)")

	root.AddCommand(newServeCommand(&configPath))
	root.AddCommand(newMigrateCommand(&configPath))
	root.AddCommand(newTasksCommand(&configPath))
	return root
}

func loadConfig(path string) (config.Config, error) {
	return config.Load(path)
}

func newLogger(level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(level),
	}))
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
