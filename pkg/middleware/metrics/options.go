package metrics

import (
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

var (
	skipMu    sync.RWMutex
	skipPaths = map[string]struct{}{"/metrics": {}, "/ping": {}}
)

// AddMetricsSkipPaths extends the skip list (defaults: /metrics, /ping).
func AddMetricsSkipPaths(paths ...string) {
	skipMu.Lock()
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p != "" {
			skipPaths[p] = struct{}{}
		}
	}
	skipMu.Unlock()
}

// routePattern prefers the matched chi pattern so path params don't blow up
// label cardinality.
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

func isSkipPath(r *http.Request) bool {
	skipMu.RLock()
	_, ok := skipPaths[r.URL.Path]
	skipMu.RUnlock()
	return ok
}
