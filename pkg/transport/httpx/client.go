// pkg/transport/httpx/client.go
package httpx

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joeydtaylor/steeze-client/pkg/connspec"
	"github.com/joeydtaylor/steeze-client/pkg/middleware/metrics"
	"go.uber.org/zap"
)

var (
	// ErrCleartextNotPermitted: http:// request but no cleartext policy configured.
	ErrCleartextNotPermitted = errors.New("httpx: cleartext communication not permitted by connection policies")
	// ErrNoCompatiblePolicy: nothing in the list can carry the URL scheme.
	ErrNoCompatiblePolicy = errors.New("httpx: no connection policy compatible with request")
)

const (
	RequestIDHeader = "X-Request-Id"
	DefaultTimeout  = 15 * time.Second
)

type clientOptions struct {
	timeout         time.Duration
	log             *zap.Logger
	metrics         bool
	insecure        bool
	rootCAs         *x509.CertPool
	maxIdleConns    int
	idleConnTimeout time.Duration
}

// ClientOption configures NewClient / NewPolicyTransport.
type ClientOption func(*clientOptions)

func WithTimeout(d time.Duration) ClientOption { return func(o *clientOptions) { o.timeout = d } }
func WithLogger(l *zap.Logger) ClientOption    { return func(o *clientOptions) { o.log = l } }
func WithMetrics(on bool) ClientOption         { return func(o *clientOptions) { o.metrics = on } }
func WithRootCAs(p *x509.CertPool) ClientOption {
	return func(o *clientOptions) { o.rootCAs = p }
}
func WithIdleConns(max int, timeout time.Duration) ClientOption {
	return func(o *clientOptions) { o.maxIdleConns, o.idleConnTimeout = max, timeout }
}

// WithInsecureSkipVerify disables certificate checks. Tests only.
func WithInsecureSkipVerify(skip bool) ClientOption {
	return func(o *clientOptions) { o.insecure = skip }
}

func defaultClientOptions() clientOptions {
	return clientOptions{
		timeout:         DefaultTimeout,
		log:             zap.NewNop(),
		metrics:         true,
		maxIdleConns:    20,
		idleConnTimeout: 90 * time.Second,
	}
}

// NewClient returns an http.Client whose connections follow policies in order.
func NewClient(policies []connspec.ConnectionPolicy, opts ...ClientOption) *http.Client {
	o := defaultClientOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return &http.Client{
		Timeout:   o.timeout,
		Transport: newPolicyTransport(policies, o),
	}
}

// ---------- round tripper ----------

type policyLeg struct {
	policy connspec.ConnectionPolicy
	rt     *http.Transport
}

// PolicyTransport routes each request through the first policy that can carry
// its scheme and that the peer accepts. https is never downgraded to
// cleartext; a rejected TLS policy only hands over to the next TLS policy.
type PolicyTransport struct {
	tls       []policyLeg
	cleartext *policyLeg
	log       *zap.Logger
	metrics   bool
}

// NewPolicyTransport builds the RoundTripper NewClient uses.
func NewPolicyTransport(policies []connspec.ConnectionPolicy, opts ...ClientOption) *PolicyTransport {
	o := defaultClientOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return newPolicyTransport(policies, o)
}

func newPolicyTransport(policies []connspec.ConnectionPolicy, o clientOptions) *PolicyTransport {
	if o.log == nil {
		o.log = zap.NewNop()
	}
	t := &PolicyTransport{log: o.log, metrics: o.metrics}
	for _, p := range policies {
		switch p.Kind() {
		case connspec.KindTLS:
			cfg := p.TLSConfig()
			cfg.RootCAs = o.rootCAs
			cfg.InsecureSkipVerify = o.insecure
			t.tls = append(t.tls, policyLeg{policy: p, rt: baseTransport(o, cfg)})
		case connspec.KindCleartext:
			if t.cleartext == nil {
				t.cleartext = &policyLeg{policy: p, rt: baseTransport(o, nil)}
			}
		}
	}
	return t
}

func baseTransport(o clientOptions, cfg *tls.Config) *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSClientConfig:     cfg,
		ForceAttemptHTTP2:   cfg != nil,
		TLSHandshakeTimeout: 10 * time.Second,
		MaxIdleConns:        o.maxIdleConns,
		MaxIdleConnsPerHost: o.maxIdleConns,
		IdleConnTimeout:     o.idleConnTimeout,
	}
}

func (t *PolicyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	kind, ok := connspec.KindForScheme(req.URL.Scheme)
	if !ok {
		closeBody(req)
		return nil, fmt.Errorf("%w: scheme %q", ErrNoCompatiblePolicy, req.URL.Scheme)
	}

	if req.Header.Get(RequestIDHeader) == "" {
		req = req.Clone(req.Context())
		req.Header.Set(RequestIDHeader, uuid.NewString())
	}

	if kind == connspec.KindCleartext {
		if t.cleartext == nil {
			closeBody(req)
			return nil, ErrCleartextNotPermitted
		}
		return t.attempt(*t.cleartext, req, true)
	}

	if len(t.tls) == 0 {
		closeBody(req)
		return nil, fmt.Errorf("%w: no TLS policy for %s", ErrNoCompatiblePolicy, req.URL.Host)
	}
	for i, leg := range t.tls {
		last := i == len(t.tls)-1
		if !last && req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
			// body can't be replayed on the next policy
			last = true
		}
		resp, err := t.attempt(leg, req, last)
		if err == nil || last || !isHandshakeRejection(err) {
			return resp, err
		}
		if req, err = rewind(req); err != nil {
			return nil, err
		}
	}
	return nil, ErrNoCompatiblePolicy // unreachable
}

func (t *PolicyTransport) attempt(leg policyLeg, req *http.Request, last bool) (*http.Response, error) {
	name := leg.policy.Kind().String()
	start := time.Now()
	resp, err := leg.rt.RoundTrip(req.WithContext(context.WithValue(req.Context(), policyCtxKey{}, leg.policy)))
	lat := time.Since(start)

	log := t.log.With(
		zap.String("requestId", req.Header.Get(RequestIDHeader)),
		zap.String("policy", leg.policy.String()),
		zap.String("httpMethod", req.Method),
		zap.String("host", req.URL.Host),
		zap.String("uri", req.URL.Path),
		zap.Duration("lat", lat),
	)

	if err != nil {
		outcome := metrics.OutcomeError
		if !last && isHandshakeRejection(err) {
			outcome = metrics.OutcomeRejected
		}
		if t.metrics {
			metrics.ObservePolicyAttempt(name, outcome)
		}
		log.Warn("", zap.String("outcome", outcome), zap.Error(err))
		return nil, err
	}

	if t.metrics {
		metrics.ObservePolicyAttempt(name, metrics.OutcomeOK)
		metrics.ObserveClientResponse(resp.StatusCode, req.Method, name, lat)
	}
	log.Info("", zap.String("outcome", metrics.OutcomeOK), zap.Int("status", resp.StatusCode))
	return resp, nil
}

// CloseIdleConnections lets http.Client.CloseIdleConnections reach every leg.
func (t *PolicyTransport) CloseIdleConnections() {
	for _, leg := range t.tls {
		leg.rt.CloseIdleConnections()
	}
	if t.cleartext != nil {
		t.cleartext.rt.CloseIdleConnections()
	}
}

// Policies lists the legs in the order they are tried.
func (t *PolicyTransport) Policies() []connspec.ConnectionPolicy {
	out := make([]connspec.ConnectionPolicy, 0, len(t.tls)+1)
	for _, leg := range t.tls {
		out = append(out, leg.policy)
	}
	if t.cleartext != nil {
		out = append(out, t.cleartext.policy)
	}
	return out
}

// ---------- negotiated policy ----------

type policyCtxKey struct{}

// NegotiatedPolicy reports which policy carried resp.
func NegotiatedPolicy(resp *http.Response) (connspec.ConnectionPolicy, bool) {
	if resp == nil || resp.Request == nil {
		return connspec.ConnectionPolicy{}, false
	}
	p, ok := resp.Request.Context().Value(policyCtxKey{}).(connspec.ConnectionPolicy)
	return p, ok
}

// ---------- helpers ----------

// isHandshakeRejection is true when the peer refused or could not agree on the
// TLS parameters. Certificate failures are not rejections: another policy
// would hit the same certificate.
func isHandshakeRejection(err error) bool {
	if err == nil {
		return false
	}
	var cv *tls.CertificateVerificationError
	if errors.As(err, &cv) {
		return false
	}
	var ae tls.AlertError
	if errors.As(err, &ae) {
		return true
	}
	var rh tls.RecordHeaderError
	if errors.As(err, &rh) {
		return true
	}
	var op *net.OpError
	if errors.As(err, &op) && op.Op == "remote error" {
		return true
	}
	return strings.Contains(err.Error(), "tls: ")
}

func rewind(req *http.Request) (*http.Request, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return req, nil
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("httpx: rewind body: %w", err)
	}
	r := req.Clone(req.Context())
	r.Body = body
	return r, nil
}

func closeBody(req *http.Request) {
	if req.Body != nil {
		req.Body.Close()
	}
}
