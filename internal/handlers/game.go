package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/vancomm/minesweap/internal/config"
	"github.com/vancomm/minesweap/internal/middleware"
	"github.com/vancomm/minesweap/internal/mines"
	"github.com/vancomm/minesweap/internal/session"
)

type GameHandler struct {
	logger   *slog.Logger
	store    *session.Store
	tokens   *session.Tokens
	ws       *config.WebSocket
	defaults mines.GameParams
}

func NewGameHandler(
	logger *slog.Logger,
	store *session.Store,
	tokens *session.Tokens,
	ws *config.WebSocket,
	defaults mines.GameParams,
) *GameHandler {
	handler := &GameHandler{
		logger:   logger,
		store:    store,
		tokens:   tokens,
		ws:       ws,
		defaults: defaults,
	}
	return handler
}

var ErrBadGameID = fmt.Errorf("game id must be an integer")

// sessionFromRequest resolves {id} and checks the caller's game handle.
// On failure the response has already been written.
func (g GameHandler) sessionFromRequest(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sessionID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		SendErrorOrLog(w, g.logger, http.StatusBadRequest, ErrBadGameID)
		return nil, false
	}

	s, err := g.store.Get(sessionID)
	if errors.Is(err, session.ErrNotFound) {
		SendErrorOrLog(w, g.logger, http.StatusNotFound, err)
		return nil, false
	}
	if err != nil {
		SendErrorOrLog(w, g.logger, http.StatusInternalServerError, err)
		return nil, false
	}

	if err := g.tokens.Authorize(middleware.GameHandle(r.Context()), s.ID); err != nil {
		g.logger.Debug("rejected game handle", slog.Int64("id", s.ID), slog.Any("error", err))
		SendErrorOrLog(w, g.logger, http.StatusForbidden, session.ErrForbidden)
		return nil, false
	}
	return s, true
}

func (g GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	params, err := ParseNewGameDTO(r.URL.Query(), g.defaults)
	if err != nil {
		SendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}

	s, err := g.store.Create(params)
	var ce mines.InvalidConfigurationError
	if errors.As(err, &ce) {
		SendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		g.logger.Error("unable to create a new game", slog.Any("error", err))
		SendErrorOrLog(w, g.logger, http.StatusInternalServerError, err)
		return
	}

	token, err := g.tokens.Sign(s.ID)
	if err != nil {
		g.store.Delete(s.ID)
		g.logger.Error("unable to sign game handle", slog.Any("error", err))
		SendErrorOrLog(w, g.logger, http.StatusInternalServerError, err)
		return
	}

	snapshot, _ := s.Do(g.store.Now(), nil)
	SendJSONOrLog(w, g.logger, http.StatusCreated, &NewGameResponse{
		Game:  NewGameDTOFromSnapshot(snapshot),
		Token: token,
	})
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	s, ok := g.sessionFromRequest(w, r)
	if !ok {
		return
	}
	snapshot, _ := s.Do(g.store.Now(), nil)
	SendJSONOrLog(w, g.logger, http.StatusOK, NewGameDTOFromSnapshot(snapshot))
}

func (g GameHandler) MakeAMove(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	move, err := ParseGameMove(query.Get("move"))
	if err != nil {
		SendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}

	p, err := ParsePoint(query)
	if err != nil {
		SendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}

	s, ok := g.sessionFromRequest(w, r)
	if !ok {
		return
	}

	snapshot, err := s.Do(g.store.Now(), func(game *mines.Game) error {
		return move.Apply(game, p)
	})
	var ce mines.InvalidCoordinateError
	if errors.As(err, &ce) {
		SendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		g.logger.Error("unable to apply move", slog.Any("error", err))
		SendErrorOrLog(w, g.logger, http.StatusInternalServerError, err)
		return
	}

	g.logger.Debug("applied move",
		slog.Int64("id", s.ID),
		slog.String("move", move.String()),
		slog.Int("row", p.Row),
		slog.Int("col", p.Col),
		slog.String("status", snapshot.Status.String()),
	)
	SendJSONOrLog(w, g.logger, http.StatusOK, NewMoveResponse(snapshot))
}

func (g GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	s, ok := g.sessionFromRequest(w, r)
	if !ok {
		return
	}
	if err := g.store.Delete(s.ID); err != nil && !errors.Is(err, session.ErrNotFound) {
		SendErrorOrLog(w, g.logger, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (g GameHandler) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /game", g.NewGame)
	mux.HandleFunc("GET /game/{id}", g.Fetch)
	mux.HandleFunc("POST /game/{id}/move", g.MakeAMove)
	mux.HandleFunc("DELETE /game/{id}", g.Delete)
	mux.HandleFunc("GET /game/{id}/connect", g.ConnectWS)
	mux.HandleFunc("GET /healthz", Healthz)
	return mux
}
