package logger

import (
	"bytes"
	"io"
	"net/http"
	"time"

	chimd "github.com/go-chi/chi/v5/middleware"
	"github.com/joeydtaylor/steeze-client/pkg/middleware/auth"
	"go.uber.org/zap"
)

// Middleware writes one access-log line per admin request.
type Middleware struct {
	access *zap.Logger
}

func NewMiddleware(access *zap.Logger) *Middleware {
	if access == nil {
		access = zap.NewNop()
	}
	return &Middleware{access: access}
}

func (m *Middleware) Middleware(ca *auth.Middleware) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimd.NewWrapResponseWriter(w, r.ProtoMajor)

			// Peek at most maxLoggedBody+1 bytes and hand the rest on untouched,
			// so downstream size limits still see the whole stream.
			var body []byte
			if r.Body != nil && r.Body != http.NoBody {
				body, _ = io.ReadAll(io.LimitReader(r.Body, maxLoggedBody+1))
				r.Body = replayBody{Reader: io.MultiReader(bytes.NewReader(body), r.Body), Closer: r.Body}
			}

			// auth runs further in; give it a slot to report the caller back
			r = r.WithContext(auth.TrackUser(r.Context()))

			scheme := "http"
			if r.TLS != nil {
				scheme = "https"
			}

			start := time.Now()
			defer func() {
				lat := time.Since(start)

				// nil-safe auth lookups
				var u auth.User
				isAuth := false
				if ca != nil {
					isAuth = ca.IsAuthenticated(r.Context())
					u = ca.GetUser(r.Context())
				}

				log := m.access.With(
					zap.String("dateTime", start.UTC().Format(time.RFC1123)),
					zap.String("requestId", chimd.GetReqID(r.Context())),
					zap.String("httpScheme", scheme),
					zap.Bool("isAuthenticated", isAuth),
					zap.String("username", u.Username),
					zap.String("role", u.Role.Name),
					zap.String("authenticationProvider", u.AuthenticationSource.Provider),
					zap.String("httpProto", r.Proto),
					zap.String("httpMethod", r.Method),
					zap.String("remoteAddr", r.RemoteAddr),
					zap.String("uri", r.URL.Path),
					zap.Duration("lat", lat),
					zap.Int("responseSize", ww.BytesWritten()),
					zap.Int("status", ww.Status()),
				)

				// Redact by default; allowlist small JSON bodies only.
				if shouldLogBody(r, body) {
					log.Info("", zap.ByteString("requestData", body))
				} else {
					log.Info("")
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

type replayBody struct {
	io.Reader
	io.Closer
}
