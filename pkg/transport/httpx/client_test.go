package httpx

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/joeydtaylor/steeze-client/pkg/connspec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// newTLSServer starts an HTTPS test server limited to [minV, maxV] and
// returns it with a pool that trusts its certificate.
func newTLSServer(t *testing.T, minV, maxV uint16, h http.Handler) (*httptest.Server, *x509.CertPool) {
	t.Helper()
	srv := httptest.NewUnstartedServer(h)
	srv.TLS = &tls.Config{MinVersion: minV, MaxVersion: maxV}
	srv.StartTLS()
	t.Cleanup(srv.Close)

	pool := x509.NewCertPool()
	pool.AddCert(srv.Certificate())
	return srv, pool
}

func okHandler(hits *int32) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		w.Header().Set("X-Seen-Request-Id", r.Header.Get(RequestIDHeader))
		w.Header().Set("X-TLS-Version", tlsVersion(r))
		_, _ = io.WriteString(w, "ok")
	})
}

func tlsVersion(r *http.Request) string {
	if r.TLS == nil {
		return "none"
	}
	return connspec.TLSVersion(r.TLS.Version).String()
}

func TestClient_HTTPSUsesModernTLS(t *testing.T) {
	srv, pool := newTLSServer(t, tls.VersionTLS12, tls.VersionTLS13, okHandler(nil))
	c := NewClient(connspec.Policies(), WithRootCAs(pool), WithMetrics(false))

	resp, err := c.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "TLS_1_2", resp.Header.Get("X-TLS-Version"))
	assert.NotEmpty(t, resp.Header.Get("X-Seen-Request-Id"))
	require.NotNil(t, resp.TLS)
	assert.Contains(t,
		[]uint16{tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256, tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384},
		resp.TLS.CipherSuite,
	)

	p, ok := NegotiatedPolicy(resp)
	require.True(t, ok)
	assert.True(t, p.Equal(connspec.ModernTLS()))
}

func TestClient_CleartextAllowedWhenListed(t *testing.T) {
	srv := httptest.NewServer(okHandler(nil))
	defer srv.Close()

	resp, err := NewClient(connspec.Policies(), WithMetrics(false)).Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "none", resp.Header.Get("X-TLS-Version"))
	p, ok := NegotiatedPolicy(resp)
	require.True(t, ok)
	assert.Equal(t, connspec.KindCleartext, p.Kind())
}

func TestClient_CleartextRejectedWhenNotListed(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(okHandler(&hits))
	defer srv.Close()

	_, err := NewClient([]connspec.ConnectionPolicy{connspec.ModernTLS()}, WithMetrics(false)).Get(srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCleartextNotPermitted))
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestClient_NoDowngradeWhenTLSRejected(t *testing.T) {
	var hits int32
	srv, pool := newTLSServer(t, tls.VersionTLS13, tls.VersionTLS13, okHandler(&hits))

	_, err := NewClient(connspec.Policies(), WithRootCAs(pool), WithMetrics(false)).Get(srv.URL)
	require.Error(t, err)
	assert.True(t, isHandshakeRejection(err), "unexpected error: %v", err)
	assert.False(t, errors.Is(err, ErrCleartextNotPermitted))
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestClient_FallsThroughToNextTLSPolicy(t *testing.T) {
	srv, pool := newTLSServer(t, tls.VersionTLS13, tls.VersionTLS13, okHandler(nil))
	tls13 := connspec.NewTLSPolicy([]connspec.TLSVersion{connspec.TLS13}, nil)

	core, logs := observer.New(zapcore.InfoLevel)
	c := NewClient(
		[]connspec.ConnectionPolicy{connspec.ModernTLS(), tls13, connspec.Cleartext},
		WithRootCAs(pool), WithMetrics(false), WithLogger(zap.New(core)),
	)

	resp, err := c.Post(srv.URL, "text/plain", strings.NewReader("payload"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "TLS_1_3", resp.Header.Get("X-TLS-Version"))
	p, ok := NegotiatedPolicy(resp)
	require.True(t, ok)
	assert.True(t, p.Equal(tls13))

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "rejected", logs.All()[0].ContextMap()["outcome"])
	assert.Equal(t, "ok", logs.All()[1].ContextMap()["outcome"])
}

func TestClient_CertificateFailureIsNotRetried(t *testing.T) {
	srv, _ := newTLSServer(t, tls.VersionTLS12, tls.VersionTLS13, okHandler(nil))
	tls13 := connspec.NewTLSPolicy([]connspec.TLSVersion{connspec.TLS13}, nil)

	core, logs := observer.New(zapcore.InfoLevel)
	_, err := NewClient(
		[]connspec.ConnectionPolicy{connspec.ModernTLS(), tls13},
		WithMetrics(false), WithLogger(zap.New(core)),
	).Get(srv.URL)
	require.Error(t, err)

	var cv *tls.CertificateVerificationError
	assert.True(t, errors.As(err, &cv))
	assert.Equal(t, 1, logs.Len())
}

func TestClient_UnknownScheme(t *testing.T) {
	tr := NewPolicyTransport(connspec.Policies())
	req := httptest.NewRequest(http.MethodGet, "ftp://example.com/x", nil)
	_, err := tr.RoundTrip(req)
	assert.ErrorIs(t, err, ErrNoCompatiblePolicy)
}

func TestClient_KeepsCallerRequestID(t *testing.T) {
	srv := httptest.NewServer(okHandler(nil))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "fixed-id")

	resp, err := NewClient(connspec.Policies(), WithMetrics(false)).Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "fixed-id", resp.Header.Get("X-Seen-Request-Id"))
}

func TestPolicyTransport_Policies(t *testing.T) {
	tr := NewPolicyTransport([]connspec.ConnectionPolicy{connspec.Cleartext, connspec.ModernTLS()})
	got := tr.Policies()
	require.Len(t, got, 2)
	assert.True(t, got[0].IsTLS())
	assert.Equal(t, connspec.KindCleartext, got[1].Kind())
	tr.CloseIdleConnections()
}

func TestNegotiatedPolicy_Nil(t *testing.T) {
	_, ok := NegotiatedPolicy(nil)
	assert.False(t, ok)
	_, ok = NegotiatedPolicy(&http.Response{})
	assert.False(t, ok)
}

func TestClient_InsecureSkipVerify(t *testing.T) {
	srv, _ := newTLSServer(t, tls.VersionTLS12, tls.VersionTLS12, okHandler(nil))

	_, err := NewClient(connspec.Policies(), WithMetrics(false)).Get(srv.URL)
	var cv *tls.CertificateVerificationError
	require.ErrorAs(t, err, &cv)

	resp, err := NewClient(connspec.Policies(), WithMetrics(false), WithInsecureSkipVerify(true)).Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestClient_TimeoutAndIdleOptions(t *testing.T) {
	c := NewClient(connspec.Policies(), WithTimeout(2*time.Second), WithIdleConns(3, time.Minute))
	assert.Equal(t, 2*time.Second, c.Timeout)

	tr, ok := c.Transport.(*PolicyTransport)
	require.True(t, ok)
	require.Len(t, tr.tls, 1)
	require.NotNil(t, tr.cleartext)
	for _, rt := range []*http.Transport{tr.tls[0].rt, tr.cleartext.rt} {
		assert.Equal(t, 3, rt.MaxIdleConns)
		assert.Equal(t, 3, rt.MaxIdleConnsPerHost)
		assert.Equal(t, time.Minute, rt.IdleConnTimeout)
	}
	assert.Nil(t, tr.cleartext.rt.TLSClientConfig)
	assert.False(t, tr.tls[0].rt.TLSClientConfig.InsecureSkipVerify)

	assert.Equal(t, DefaultTimeout, NewClient(connspec.Policies()).Timeout)
}

func TestClient_TimeoutApplies(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewClient(connspec.Policies(), WithMetrics(false), WithTimeout(50*time.Millisecond)).Get(srv.URL)
	require.Error(t, err)
	var ne interface{ Timeout() bool }
	require.ErrorAs(t, err, &ne)
	assert.True(t, ne.Timeout())
}

