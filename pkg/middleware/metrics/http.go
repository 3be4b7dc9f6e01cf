package metrics

import (
	"net/http"

	"github.com/joeydtaylor/steeze-client/pkg/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

// NewPromHttpHandler returns the /metrics handler.
func NewPromHttpHandler() http.Handler { return promhttp.Handler() }

// ProvideMetrics is the Fx provider used by the admin wiring. It also applies
// admin.metrics_skip_paths.
func ProvideMetrics(cfg config.Config) http.Handler {
	AddMetricsSkipPaths(cfg.Admin.MetricsSkipPaths...)
	return NewPromHttpHandler()
}

var Module = fx.Options(
	fx.Provide(fx.Annotate(ProvideMetrics, fx.ResultTags(`name:"metrics"`))),
)
