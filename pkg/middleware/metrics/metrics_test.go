package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/joeydtaylor/steeze-client/pkg/config"
	"github.com/joeydtaylor/steeze-client/pkg/middleware/auth"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservePolicyAttempt(t *testing.T) {
	before := testutil.ToFloat64(policyAttempts.WithLabelValues("tls", OutcomeRejected))
	ObservePolicyAttempt("tls", OutcomeRejected)
	assert.Equal(t, before+1, testutil.ToFloat64(policyAttempts.WithLabelValues("tls", OutcomeRejected)))
}

func TestObserveClientResponse(t *testing.T) {
	before := testutil.ToFloat64(clientRequests.WithLabelValues("200", http.MethodGet, "cleartext"))
	ObserveClientResponse(200, http.MethodGet, "cleartext", 10*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(clientRequests.WithLabelValues("200", http.MethodGet, "cleartext")))
}

func TestCollect_SkipsMetricsPath(t *testing.T) {
	h := Collect(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	before := testutil.ToFloat64(totalHttpRequestsToUri.WithLabelValues("202", "/policies", http.MethodGet))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/policies", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, before+1, testutil.ToFloat64(totalHttpRequestsToUri.WithLabelValues("202", "/policies", http.MethodGet)))
	assert.Equal(t, 0.0, testutil.ToFloat64(totalHttpRequestsToUri.WithLabelValues("202", "/metrics", http.MethodGet)))
}

func TestPromHandlerExposesClientSeries(t *testing.T) {
	ObservePolicyAttempt("tls", OutcomeOK)

	rec := httptest.NewRecorder()
	NewPromHttpHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "client_policy_attempts_total"))
}

func TestProvideMetrics_AppliesConfiguredSkipPaths(t *testing.T) {
	cfg := config.Default()
	cfg.Admin.MetricsSkipPaths = []string{" /healthz "}
	require.NotNil(t, ProvideMetrics(cfg))

	h := Collect(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	before := testutil.ToFloat64(totalHttpRequestsToUri.WithLabelValues("200", "/healthz", http.MethodGet))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, before, testutil.ToFloat64(totalHttpRequestsToUri.WithLabelValues("200", "/healthz", http.MethodGet)))
}

func TestCollect_RoleFromInnerAuth(t *testing.T) {
	a := auth.New(auth.Options{DevBypass: true})
	h := Collect(a)(a.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})))

	before := testutil.ToFloat64(totalHttpRequestsFromRole.WithLabelValues("auditor"))
	r := httptest.NewRequest(http.MethodGet, "/policies", nil)
	r.Header.Set("X-Dev-User", "ann")
	r.Header.Set("X-Dev-Role", "auditor")
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, before+1, testutil.ToFloat64(totalHttpRequestsFromRole.WithLabelValues("auditor")))
}

