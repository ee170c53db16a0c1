package middleware

import (
	"net/http"
	"strings"

	"weedoo/internal/config"
)

// CORSMiddleware answers preflight requests for the browser app. The proxy is
// meant to be reachable from any origin by default; the credential lives
// server-side, so CORS here gates nothing sensitive.
func CORSMiddleware(cfg config.CORSConfig) func(http.Handler) http.Handler {
	allowAll := strings.TrimSpace(cfg.AllowedOrigins) == "*"
	allowed := make(map[string]bool)
	for _, o := range strings.Split(cfg.AllowedOrigins, ",") {
		allowed[strings.TrimSpace(o)] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			switch {
			case allowAll:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case allowed[origin]:
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
			}

			w.Header().Set("Access-Control-Allow-Methods", cfg.AllowedMethods)
			w.Header().Set("Access-Control-Allow-Headers", cfg.AllowedHeaders)
			w.Header().Set("Access-Control-Max-Age", "3600")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
