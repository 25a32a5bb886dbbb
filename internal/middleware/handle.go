package middleware

import (
	"context"
	"net/http"
	"strings"
)

type CtxKey int

const (
	CtxGameHandle CtxKey = iota
)

// Handle moves the game handle from the Authorization header, or from the
// token query parameter for websocket clients that cannot set headers, into
// the request context.
func Handle() Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.URL.Query().Get("token")
			if auth := r.Header.Get("Authorization"); auth != "" {
				if bearer, ok := strings.CutPrefix(auth, "Bearer "); ok {
					token = strings.TrimSpace(bearer)
				}
			}
			if token == "" {
				h.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), CtxGameHandle, token)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GameHandle(ctx context.Context) string {
	token, _ := ctx.Value(CtxGameHandle).(string)
	return token
}
