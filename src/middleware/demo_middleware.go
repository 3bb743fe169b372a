package middleware

import (
	"net/http"
	"strings"
)

// DemoModeMiddleware makes the API read-only. Sign-in and fare lookups are
// POSTs that change nothing, so they stay open.
func DemoModeMiddleware(isDemo bool) func(http.Handler) http.Handler {
	allowedPosts := map[string]bool{
		"/api/login":    true,
		"/api/register": true,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isDemo && r.Method != http.MethodGet && r.Method != http.MethodOptions {
				if r.Method == http.MethodPost && (allowedPosts[r.URL.Path] || strings.HasPrefix(r.URL.Path, "/api/travel/")) {
					next.ServeHTTP(w, r)
					return
				}
				http.Error(w, "Demo mode: only GET requests are allowed", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
