package config

import (
	"net/http"
	"os"
	"slices"
	"strings"

	"github.com/gorilla/websocket"
)

type WebSocket struct {
	Upgrader       websocket.Upgrader
	AllowedOrigins []string
}

func allowedOrigins() []string {
	s := os.Getenv("WS_ALLOWED_ORIGINS")
	if s == "" {
		return nil
	}
	var origins []string
	for _, origin := range strings.Split(s, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// NewWebSocket accepts any origin unless WS_ALLOWED_ORIGINS lists them.
func NewWebSocket() (*WebSocket, error) {
	ws := &WebSocket{AllowedOrigins: allowedOrigins()}
	ws.Upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if len(ws.AllowedOrigins) == 0 {
				return true
			}
			return slices.Contains(ws.AllowedOrigins, r.Header.Get("Origin"))
		},
	}
	return ws, nil
}
