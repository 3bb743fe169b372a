package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"financeio-server/src/util"
)

type ctxKey int

const tenantKey ctxKey = iota

// UserHeader carries the tenant on clients that have no token.
const UserHeader = "user"

func WithTenant(ctx context.Context, tenant string) context.Context {
	return context.WithValue(ctx, tenantKey, tenant)
}

func TenantFromContext(ctx context.Context) (string, bool) {
	tenant, ok := ctx.Value(tenantKey).(string)
	return tenant, ok && tenant != ""
}

// TenantMiddleware resolves the tenant of a request. A bearer token always
// wins over the user header; with requireToken set the header is ignored.
func TenantMiddleware(tokens *util.TokenManager, requireToken bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth := r.Header.Get("Authorization"); auth != "" {
				tokenString, ok := strings.CutPrefix(auth, "Bearer ")
				if !ok || tokens == nil {
					http.Error(w, "invalid token", http.StatusUnauthorized)
					return
				}
				tenant, err := tokens.Parse(strings.TrimSpace(tokenString))
				if err != nil {
					log.Printf("ERROR: Rejected token from %s: %v", r.RemoteAddr, err)
					http.Error(w, "invalid token", http.StatusUnauthorized)
					return
				}
				next.ServeHTTP(w, r.WithContext(WithTenant(r.Context(), tenant)))
				return
			}

			if requireToken {
				http.Error(w, "missing token", http.StatusUnauthorized)
				return
			}

			tenant := strings.TrimSpace(r.Header.Get(UserHeader))
			if tenant == "" {
				http.Error(w, "user header is required", http.StatusBadRequest)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithTenant(r.Context(), tenant)))
		})
	}
}
