package metrics

import (
	"strconv"
	"time"
)

// Attempt outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected" // handshake refused, next policy tried
	OutcomeError    = "error"
)

func ObservePolicyAttempt(policy, outcome string) {
	policyAttempts.WithLabelValues(policy, outcome).Inc()
}

func ObserveClientResponse(code int, method, policy string, d time.Duration) {
	clientRequests.WithLabelValues(strconv.Itoa(code), method, policy).Inc()
	clientResponseTime.WithLabelValues(policy).Observe(d.Seconds())
}
