package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/cors"
)

// Cors allows the listed origins, or every origin when none are given.
// The game handle travels in the Authorization header, so it has to be
// allowed explicitly. Requested headers are lowercased first, as browsers
// send them, so non-browser clients using canonical casing pass too.
func Cors(origins []string) Middleware {
	options := cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
		},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}
	if len(origins) == 0 {
		options.AllowOriginFunc = func(string) bool { return true }
	}
	c := cors.New(options)
	return func(h http.Handler) http.Handler {
		next := c.Handler(h)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const requestHeaders = "Access-Control-Request-Headers"
			if v := r.Header.Get(requestHeaders); v != "" {
				r.Header.Set(requestHeaders, strings.ToLower(v))
			}
			next.ServeHTTP(w, r)
		})
	}
}
