package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweap/internal/config"
	"github.com/vancomm/minesweap/internal/middleware"
	"github.com/vancomm/minesweap/internal/mines"
	"github.com/vancomm/minesweap/internal/session"
)

type testEnv struct {
	server *httptest.Server
	store  *session.Store
	tokens *session.Tokens
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("WS_ALLOWED_ORIGINS", "")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := session.NewStore(logger, rand.New(rand.NewPCG(1, 2)), time.Hour)
	tokens := session.NewTokens([]byte("test secret"), time.Hour)
	ws, err := config.NewWebSocket()
	require.NoError(t, err)

	h := NewGameHandler(logger, store, tokens, ws,
		mines.GameParams{Rows: 4, Cols: 4, MineCount: 2},
	)
	server := httptest.NewServer(middleware.Wrap(h.ServeMux(), middleware.Handle()))
	t.Cleanup(server.Close)

	return &testEnv{server, store, tokens}
}

// addFixedGame registers the 4x4 game with mines at (0,0) and (3,3).
func (env *testEnv) addFixedGame(t *testing.T) (*session.Session, string) {
	t.Helper()
	b, err := mines.NewBoardFromMines(4, 4, []mines.Point{{Row: 0, Col: 0}, {Row: 3, Col: 3}})
	require.NoError(t, err)
	s := env.store.Add(mines.NewGameFromBoard(b))
	token, err := env.tokens.Sign(s.ID)
	require.NoError(t, err)
	return s, token
}

func (env *testEnv) do(t *testing.T, method, path, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, env.server.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func gameURL(s *session.Session, suffix string) string {
	return "/game/" + strconv.FormatInt(s.ID, 10) + suffix
}

func TestNewGame(t *testing.T) {
	env := setupTestEnv(t)

	resp := env.do(t, http.MethodPost, "/game?rows=9&cols=12&mine_count=10", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody[NewGameResponse](t, resp)

	assert.NotEmpty(t, body.Token)
	assert.Equal(t, 9, body.Game.Rows)
	assert.Equal(t, 12, body.Game.Cols)
	assert.Equal(t, 10, body.Game.MineCount)
	assert.Equal(t, 10, body.Game.MinesRemainingGuess)
	assert.Equal(t, mines.InProgress, body.Game.Status)
	assert.Len(t, body.Game.Grid, 9*12)
	assert.Nil(t, body.Game.EndedAt)
	for _, v := range body.Game.Grid {
		assert.Equal(t, mines.CellView{State: mines.Hidden, Value: mines.HiddenValue}, v)
	}

	claims, err := env.tokens.Parse(body.Token)
	require.NoError(t, err)
	assert.Equal(t, body.Game.GameID, strconv.FormatInt(claims.SessionID, 10))
	assert.Equal(t, 1, env.store.Len())
}

func TestNewGameDefaults(t *testing.T) {
	env := setupTestEnv(t)

	resp := env.do(t, http.MethodPost, "/game?mine_count=3", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody[NewGameResponse](t, resp)
	assert.Equal(t, 4, body.Game.Rows)
	assert.Equal(t, 4, body.Game.Cols)
	assert.Equal(t, 3, body.Game.MineCount)
}

func TestNewGameInvalid(t *testing.T) {
	env := setupTestEnv(t)

	for _, query := range []string{
		"?mine_count=16",
		"?rows=0",
		"?rows=abc",
	} {
		resp := env.do(t, http.MethodPost, "/game"+query, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, query)
		body := decodeBody[map[string]string](t, resp)
		assert.NotEmpty(t, body["error"], query)
	}
	assert.Zero(t, env.store.Len())
}

func TestNewGameOversized(t *testing.T) {
	env := setupTestEnv(t)

	for _, query := range []string{
		"?rows=3037000499&cols=3037000499&mine_count=1",
		"?rows=8589934592&cols=2147483649&mine_count=1",
		"?rows=1000&cols=1000&mine_count=1",
	} {
		resp := env.do(t, http.MethodPost, "/game"+query, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, query)
	}

	resp := env.do(t, http.MethodPost, "/game", "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 1, env.store.Len())
}

func TestMoveFlow(t *testing.T) {
	env := setupTestEnv(t)
	s, token := env.addFixedGame(t)

	resp := env.do(t, http.MethodPost, gameURL(s, "/move?move=reveal&row=0&col=3"), token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[MoveResponse](t, resp)
	assert.Len(t, body.Changes, 14)
	assert.Equal(t, mines.InProgress, body.Game.Status)
	assert.Equal(t, mines.CellView{State: mines.Revealed, Value: 1}, body.Game.Grid[1])
	assert.Equal(t, mines.Hidden, body.Game.Grid[0].State)

	resp = env.do(t, http.MethodPost, gameURL(s, "/move?move=reveal&row=0&col=3"), token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody[MoveResponse](t, resp)
	assert.NotNil(t, body.Changes)
	assert.Empty(t, body.Changes)

	resp = env.do(t, http.MethodPost, gameURL(s, "/move?move=flag&row=0&col=0"), token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody[MoveResponse](t, resp)
	assert.Equal(t, 1, body.Game.MinesRemainingGuess)

	resp = env.do(t, http.MethodPost, gameURL(s, "/move?move=unflag&row=0&col=0"), token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody[MoveResponse](t, resp)
	assert.Equal(t, 2, body.Game.MinesRemainingGuess)

	for _, p := range []string{"row=0&col=0", "row=3&col=3"} {
		resp = env.do(t, http.MethodPost, gameURL(s, "/move?move=flag&"+p), token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body = decodeBody[MoveResponse](t, resp)
	}
	assert.Equal(t, mines.Won, body.Game.Status)
	assert.NotNil(t, body.Game.EndedAt)

	resp = env.do(t, http.MethodGet, gameURL(s, ""), token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	game := decodeBody[GameDTO](t, resp)
	assert.Equal(t, mines.Won, game.Status)
	assert.Equal(t, body.Game.EndedAt, game.EndedAt)
}

func TestMoveLoses(t *testing.T) {
	env := setupTestEnv(t)
	s, token := env.addFixedGame(t)

	resp := env.do(t, http.MethodPost, gameURL(s, "/move?move=flag&row=1&col=1"), token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodPost, gameURL(s, "/move?move=open&row=3&col=3"), token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[MoveResponse](t, resp)
	assert.Equal(t, mines.Lost, body.Game.Status)
	assert.Len(t, body.Changes, 3)
	assert.True(t, body.Game.Grid[15].Exploded)
	assert.Equal(t, mines.MineValue, body.Game.Grid[0].Value)
	assert.True(t, body.Game.Grid[5].WrongFlag)
}

func TestMoveErrors(t *testing.T) {
	env := setupTestEnv(t)
	s, token := env.addFixedGame(t)
	other, otherToken := env.addFixedGame(t)
	require.NotEqual(t, s.ID, other.ID)

	tests := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"no handle", gameURL(s, "/move?move=reveal&row=0&col=0"), "", http.StatusForbidden},
		{"foreign handle", gameURL(s, "/move?move=reveal&row=0&col=0"), otherToken, http.StatusForbidden},
		{"garbage handle", gameURL(s, "/move?move=reveal&row=0&col=0"), "garbage", http.StatusForbidden},
		{"bad move", gameURL(s, "/move?move=chord&row=0&col=0"), token, http.StatusBadRequest},
		{"missing col", gameURL(s, "/move?move=flag&row=0"), token, http.StatusBadRequest},
		{"out of range", gameURL(s, "/move?move=flag&row=4&col=0"), token, http.StatusBadRequest},
		{"negative", gameURL(s, "/move?move=reveal&row=-1&col=0"), token, http.StatusBadRequest},
		{"unknown id", "/game/999/move?move=flag&row=0&col=0", token, http.StatusNotFound},
		{"bad id", "/game/abc/move?move=flag&row=0&col=0", token, http.StatusBadRequest},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			resp := env.do(t, http.MethodPost, test.path, test.token)
			assert.Equal(t, test.status, resp.StatusCode)
			body := decodeBody[map[string]string](t, resp)
			assert.NotEmpty(t, body["error"])
		})
	}

	resp := env.do(t, http.MethodGet, gameURL(s, ""), token)
	game := decodeBody[GameDTO](t, resp)
	assert.Equal(t, 2, game.MinesRemainingGuess)
	assert.Equal(t, mines.InProgress, game.Status)
}

func TestDelete(t *testing.T) {
	env := setupTestEnv(t)
	s, token := env.addFixedGame(t)

	resp := env.do(t, http.MethodDelete, gameURL(s, ""), "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodDelete, gameURL(s, ""), token)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = env.do(t, http.MethodGet, gameURL(s, ""), token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	env := setupTestEnv(t)
	resp := env.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestParseGameMove(t *testing.T) {
	testCases := []struct {
		input string
		move  GameMove
	}{
		{"reveal", Reveal},
		{"Open", Reveal},
		{"flag", Flag},
		{"UNFLAG", Unflag},
	}
	for _, test := range testCases {
		move, err := ParseGameMove(test.input)
		require.NoError(t, err)
		assert.Equal(t, test.move, move)
	}
	_, err := ParseGameMove("chord")
	assert.ErrorIs(t, err, ErrBadMove)
	assert.Equal(t, "unflag", Unflag.String())
}
