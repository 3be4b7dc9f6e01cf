package admin

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/joeydtaylor/steeze-client/pkg/codec"
	"github.com/joeydtaylor/steeze-client/pkg/connspec"
	"github.com/joeydtaylor/steeze-client/pkg/transport/httpx"
	"go.uber.org/zap"
)

const maxProbeBody = 4 << 10

type ProbeRequest struct {
	URL string `json:"url"`
}

type ProbeResult struct {
	URL        string `json:"url"`
	Status     int    `json:"status,omitempty"`
	Policy     string `json:"policy,omitempty"`
	TLSVersion string `json:"tlsVersion,omitempty"`
	Cipher     string `json:"cipherSuite,omitempty"`
	Error      string `json:"error,omitempty"`
}

func policiesHandler(policies []connspec.ConnectionPolicy) http.HandlerFunc {
	views := connspec.Describe(policies)
	return func(w http.ResponseWriter, r *http.Request) {
		_ = codec.Write(codec.JSONStrict, w, http.StatusOK, views)
	}
}

func probeHandler(c *http.Client, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in ProbeRequest
		if err := codec.ReadRequest(codec.JSONStrict, r, maxProbeBody, &in); err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, codec.ErrBodyTooLarge) {
				status = http.StatusRequestEntityTooLarge
			}
			_ = codec.Write(codec.JSONStrict, w, status, ProbeResult{Error: err.Error()})
			return
		}
		u, err := url.Parse(in.URL)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			_ = codec.Write(codec.JSONStrict, w, http.StatusBadRequest, ProbeResult{URL: in.URL, Error: "url must be absolute http(s)"})
			return
		}
		if c == nil {
			_ = codec.Write(codec.JSONStrict, w, http.StatusServiceUnavailable, ProbeResult{URL: in.URL, Error: "no client configured"})
			return
		}

		res := Probe(r.Context(), c, u.String())
		status := http.StatusOK
		if res.Error != "" {
			status = http.StatusBadGateway
			log.Warn("probe failed", zap.String("url", res.URL), zap.String("error", res.Error))
		}
		_ = codec.Write(codec.JSONStrict, w, status, res)
	}
}

// Probe issues a GET through c and reports which policy carried it.
func Probe(ctx context.Context, c *http.Client, target string) ProbeResult {
	res := ProbeResult{URL: target}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	resp, err := c.Do(req)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	return describeResponse(res, resp)
}

func describeResponse(res ProbeResult, resp *http.Response) ProbeResult {
	res.Status = resp.StatusCode
	if p, ok := httpx.NegotiatedPolicy(resp); ok {
		res.Policy = p.String()
	}
	if resp.TLS != nil {
		res.TLSVersion = connspec.TLSVersion(resp.TLS.Version).String()
		res.Cipher = connspec.CipherSuite(resp.TLS.CipherSuite).String()
	}
	return res
}
