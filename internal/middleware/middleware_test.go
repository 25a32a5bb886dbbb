package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandle(t *testing.T) {
	tests := []struct {
		name   string
		target string
		header string
		want   string
	}{
		{"none", "/game/1", "", ""},
		{"bearer", "/game/1", "Bearer abc.def.ghi", "abc.def.ghi"},
		{"query", "/game/1/connect?token=q.r.s", "", "q.r.s"},
		{"header wins", "/game/1?token=q.r.s", "Bearer abc", "abc"},
		{"not bearer", "/game/1", "Basic Zm9vOmJhcg==", ""},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var got string
			h := Handle()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = GameHandle(r.Context())
			}))
			r := httptest.NewRequest(http.MethodGet, test.target, nil)
			if test.header != "" {
				r.Header.Set("Authorization", test.header)
			}
			h.ServeHTTP(httptest.NewRecorder(), r)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestWrapOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Wrap(http.NotFoundHandler(), mark("inner"), mark("outer"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/game", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "POST /game", entry["msg"])
	assert.Equal(t, float64(http.StatusTeapot), entry["statusCode"])
	assert.Equal(t, false, entry["hijacked"])
}

func TestCorsPreflight(t *testing.T) {
	h := Cors([]string{"https://mines.example"})(http.NotFoundHandler())

	preflight := func(origin, headers string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodOptions, "/game/1/move", nil)
		r.Header.Set("Origin", origin)
		r.Header.Set("Access-Control-Request-Method", http.MethodPost)
		r.Header.Set("Access-Control-Request-Headers", headers)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w
	}

	for _, headers := range []string{
		"authorization",
		"authorization,content-type",
		"Authorization",
	} {
		w := preflight("https://mines.example", headers)
		assert.Equal(t, "https://mines.example",
			w.Header().Get("Access-Control-Allow-Origin"), headers)
	}

	w := preflight("https://evil.example", "authorization")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = preflight("https://mines.example", "x-not-allowed")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
