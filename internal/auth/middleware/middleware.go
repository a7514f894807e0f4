package middleware

import (
	"net/http"

	"github.com/brizzai/cms-oauth-bridge/internal/auth/constants"
)

// OriginMatcher reports whether an Origin may read responses.
type OriginMatcher interface {
	IsAllowedOrigin(origin string) bool
}

// AllowOrigin returns the value echoed in Access-Control-Allow-Origin: the
// request origin when it is allowed, otherwise the empty string.
func AllowOrigin(origins OriginMatcher, r *http.Request) string {
	origin := r.Header.Get("Origin")
	if origins.IsAllowedOrigin(origin) {
		return origin
	}
	return ""
}

// SetCORSHeaders writes the CORS headers for r onto w. The allow-origin
// header is always present; unknown origins get an empty value, never "*".
func SetCORSHeaders(w http.ResponseWriter, r *http.Request, origins OriginMatcher) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", AllowOrigin(origins, r))
	h.Set("Access-Control-Allow-Headers", constants.AllowHeaders)
	h.Set("Access-Control-Allow-Methods", constants.AllowMethods)
	h.Add("Vary", "Origin")
}

// CORSWithOrigins sets CORS headers on every response of next. Preflight
// requests are passed through so the wrapped handler decides their status.
func CORSWithOrigins(origins OriginMatcher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			SetCORSHeaders(w, r, origins)
			next.ServeHTTP(w, r)
		})
	}
}
