package auth

import (
	"context"
	"net/http"
	"strings"
)

func (m *Middleware) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Dev bypass for local testing (NEVER enable in prod)
			if m.devBypass {
				if u := devUserFromHeaders(r); u.Username != "" {
					report(r.Context(), u)
					next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
					return
				}
			}

			raw, ok := bearerToken(r)
			if !ok {
				// no credentials; guards decide
				next.ServeHTTP(w, r)
				return
			}
			u, err := m.validateBearer(raw)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			report(r.Context(), u)
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "Bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(h[7:])
	return tok, tok != ""
}

// WithUser attaches an authenticated user to ctx.
func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userCtxKey, u)
}

type userSlot struct{ u User }

// TrackUser lets middleware mounted outside Middleware() see the user it
// resolves: GetUser on the returned ctx reports that user once auth has run.
// An existing slot is reused so nested trackers share one.
func TrackUser(ctx context.Context) context.Context {
	if _, ok := ctx.Value(slotCtxKey).(*userSlot); ok {
		return ctx
	}
	return context.WithValue(ctx, slotCtxKey, &userSlot{})
}

func report(ctx context.Context, u User) {
	if s, ok := ctx.Value(slotCtxKey).(*userSlot); ok {
		s.u = u
	}
}
