package metrics

import (
	"net/http"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/middleware"
	"github.com/joeydtaylor/steeze-client/pkg/middleware/auth"
)

// Collect produces the admin HTTP middleware that records the counters/histogram.
func Collect(ca *auth.Middleware) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			startTime := time.Now()
			r = r.WithContext(auth.TrackUser(r.Context()))

			defer func() {
				// self-scrape, heartbeat and admin.metrics_skip_paths
				if isSkipPath(r) {
					return
				}

				role := ""
				if ca != nil {
					role = ca.GetUser(r.Context()).Role.Name
				}

				code := strconv.Itoa(ww.Status())
				totalHttpRequestsFromRole.WithLabelValues(role).Inc()
				totalHttpRequestsToUri.WithLabelValues(code, routePattern(r), r.Method).Inc()
				responseTime.Observe(time.Since(startTime).Seconds())
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
