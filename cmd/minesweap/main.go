package main

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/vancomm/minesweap/internal/config"
)

var rootCmd = &cobra.Command{
	Use:           "minesweap",
	Short:         "Minesweeper game server and board tools",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func newLogger() *slog.Logger {
	var handler slog.Handler = slog.NewJSONHandler(os.Stderr, nil)
	if config.Development() {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level: slog.LevelDebug,
		})
	}
	return slog.New(handler)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		newLogger().Error("command failed", slog.Any("error", err))
		os.Exit(1)
	}
}
