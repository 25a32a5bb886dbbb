package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vancomm/minesweap/internal/app"
)

func init() {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the game server",
		Long: `Run the HTTP and websocket game server.

Configuration is read from the environment, see APP_PORT, SESSION_SECRET
and GAME_ROWS/GAME_COLS/GAME_MINES.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return app.New(newLogger()).Start(ctx)
}
