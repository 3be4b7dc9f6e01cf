// pkg/admin/router.go
package admin

import (
	"net/http"

	chimd "github.com/go-chi/chi/v5/middleware"
	"github.com/joeydtaylor/steeze-client/pkg/connspec"
	"github.com/joeydtaylor/steeze-client/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-client/pkg/middleware/logger"
	hmetrics "github.com/joeydtaylor/steeze-client/pkg/middleware/metrics"
	"github.com/joeydtaylor/steeze-client/pkg/transport/httpx"
	"go.uber.org/zap"
)

type Deps struct {
	Auth     *auth.Middleware
	LogMW    *logger.Middleware
	Metrics  http.Handler
	Router   httpx.Router
	Client   *http.Client
	Policies []connspec.ConnectionPolicy
	Log      *zap.Logger
}

// BuildRouter mounts the admin endpoints:
//
//	GET  /ping      heartbeat
//	GET  /metrics   prometheus
//	GET  /policies  active connection policies
//	POST /probe     fetch a URL through the policy client (admin only)
func BuildRouter(d Deps) http.Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	r := d.Router
	r.Use(chimd.RequestID, chimd.Recoverer, chimd.Heartbeat("/ping"))

	// access log and metrics wrap auth: 401s from bad tokens are logged and counted
	if d.LogMW != nil {
		r.Use(d.LogMW.Middleware(d.Auth))
	}
	r.Use(hmetrics.Collect(d.Auth))
	if d.Auth != nil {
		r.Use(d.Auth.Middleware())
	}

	if d.Metrics != nil {
		r.Get("/metrics", d.Metrics)
	}
	r.Get("/policies", policiesHandler(d.Policies))
	r.Post("/probe", withGuard(probeHandler(d.Client, d.Log), d.Auth))
	return r.Mux()
}
