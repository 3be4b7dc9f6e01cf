package metrics

import "github.com/prometheus/client_golang/prometheus"

// Admin surface.
var (
	responseTime = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "admin_response_time",
			Help:    "admin http response time.",
			Buckets: []float64{0.005, 0.05, 0.5, 1, 5},
		},
	)

	totalHttpRequestsFromRole = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "admin_http_requests_from_role", Help: "admin http requests from role"},
		[]string{"role"},
	)

	totalHttpRequestsToUri = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "admin_http_requests_to_uri", Help: "admin http requests to uri"},
		[]string{"code", "uri", "method"},
	)
)

// Outbound client.
var (
	policyAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "client_policy_attempts_total", Help: "connection attempts by policy kind and outcome"},
		[]string{"policy", "outcome"},
	)

	clientRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "client_http_requests_total", Help: "outbound http requests by code, method and policy"},
		[]string{"code", "method", "policy"},
	)

	clientResponseTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "client_response_time",
			Help:    "outbound http response time.",
			Buckets: []float64{0.05, 0.25, 0.5, 1, 5, 10, 30},
		},
		[]string{"policy"},
	)
)

func init() {
	prometheus.MustRegister(
		responseTime,
		totalHttpRequestsFromRole,
		totalHttpRequestsToUri,
		policyAttempts,
		clientRequests,
		clientResponseTime,
	)
}
