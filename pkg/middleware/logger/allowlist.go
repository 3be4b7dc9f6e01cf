package logger

import (
	"net/http"
	"strings"
	"sync"
)

const maxLoggedBody = 1 << 16 // 64 KiB

var (
	bodyLogMu    sync.RWMutex
	bodyLogPaths = map[string]struct{}{
		"/probe": {},
	}
)

// AddBodyLogPaths extends the allowlist (admin.log_body_paths).
func AddBodyLogPaths(paths ...string) {
	bodyLogMu.Lock()
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p != "" {
			bodyLogPaths[p] = struct{}{}
		}
	}
	bodyLogMu.Unlock()
}

// Only log small JSON request bodies on allowlisted routes.
func shouldLogBody(r *http.Request, body []byte) bool {
	if r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodPatch {
		return false
	}
	if len(body) == 0 || len(body) > maxLoggedBody {
		return false
	}
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return false
	}
	bodyLogMu.RLock()
	_, ok := bodyLogPaths[r.URL.Path]
	bodyLogMu.RUnlock()
	return ok
}
