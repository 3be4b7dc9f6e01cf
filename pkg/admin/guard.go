package admin

import (
	"net/http"

	"github.com/joeydtaylor/steeze-client/pkg/middleware/auth"
)

// withGuard admits authenticated callers holding the admin role.
func withGuard(next http.HandlerFunc, a *auth.Middleware, roles ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// No auth wired: nothing can satisfy the guard.
		if a == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if !a.IsAuthenticated(r.Context()) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if !a.HasRole(r.Context(), roles...) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}
