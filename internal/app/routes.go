package app

import (
	"hash/maphash"
	"math/rand/v2"
	"net/http"
	"strings"

	"github.com/vancomm/minesweap/internal/handlers"
	"github.com/vancomm/minesweap/internal/middleware"
)

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func (a *App) handler(basePath string) http.Handler {
	game := handlers.NewGameHandler(
		a.logger, a.store, a.tokens, a.ws, a.defaults,
	)

	var router http.Handler = game.ServeMux()
	if basePath = strings.TrimRight(basePath, "/"); basePath != "" {
		router = http.StripPrefix(basePath, router)
	}

	return middleware.Wrap(
		router,
		middleware.Handle(),
		middleware.Cors(a.ws.AllowedOrigins),
		middleware.Logging(a.logger),
	)
}
