package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweap/internal/config"
	"github.com/vancomm/minesweap/internal/mines"
	"github.com/vancomm/minesweap/internal/session"
)

const shutdownTimeout = 30 * time.Second

type App struct {
	logger   *slog.Logger
	store    *session.Store
	tokens   *session.Tokens
	ws       *config.WebSocket
	defaults mines.GameParams
	sessions *config.Session
}

func New(logger *slog.Logger) *App {
	app := &App{
		logger: logger,
	}

	return app
}

func (a *App) configure() error {
	if err := setupGameLog(config.GameLogFile(), config.Development()); err != nil {
		return err
	}

	defaults, err := config.NewGameDefaults()
	if err != nil {
		return err
	}
	a.defaults = *defaults

	sessions, err := config.NewSession()
	if err != nil {
		return err
	}
	a.sessions = sessions

	ws, err := config.NewWebSocket()
	if err != nil {
		return err
	}
	a.ws = ws

	a.store = session.NewStore(a.logger, createRand(), sessions.TTL)
	a.tokens = session.NewTokens(sessions.Secret, sessions.TTL)
	return nil
}

func (a *App) Start(ctx context.Context) error {
	if err := a.configure(); err != nil {
		return fmt.Errorf("unable to configure app: %w", err)
	}

	addr := config.Port()
	server := &http.Server{
		Addr:    addr,
		Handler: a.handler(config.BasePath()),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("server listening",
			slog.String("addr", addr),
			slog.String("defaults", a.defaults.Seed()),
		)
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(ctx)
	})
	g.Go(func() error {
		return a.store.Run(gctx, a.sessions.ReapInterval)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("unable to listen and serve: %w", err)
	}
	a.logger.Info("server stopped", slog.Int("sessions", a.store.Len()))
	return nil
}
