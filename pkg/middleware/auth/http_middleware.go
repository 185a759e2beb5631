package auth

import (
	"context"
	"net/http"
)

// Middleware attaches the caller to the request context when it can be
// identified. Unidentified requests continue; route hooks decide.
func (m *Middleware) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if u, err := m.identify(r); err == nil && u.Username != "" {
				ctx := context.WithValue(r.Context(), userCtxKey, u)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}
