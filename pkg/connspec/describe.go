package connspec

import "strings"

// PolicyView is the wire shape of a policy for diagnostics endpoints.
type PolicyView struct {
	Kind         string   `json:"kind"`
	TLSVersions  []string `json:"tlsVersions,omitempty"`
	CipherSuites []string `json:"cipherSuites,omitempty"`
}

func Describe(policies []ConnectionPolicy) []PolicyView {
	out := make([]PolicyView, 0, len(policies))
	for _, p := range policies {
		v := PolicyView{Kind: p.kind.String()}
		for _, tv := range p.versions {
			v.TLSVersions = append(v.TLSVersions, tv.String())
		}
		for _, s := range p.suites {
			v.CipherSuites = append(v.CipherSuites, s.String())
		}
		out = append(out, v)
	}
	return out
}

// Supports reports whether any policy in the list can carry a URL scheme.
// https/wss need a TLS policy; http/ws need the cleartext one.
func Supports(policies []ConnectionPolicy, scheme string) bool {
	want, ok := kindForScheme(scheme)
	if !ok {
		return false
	}
	for _, p := range policies {
		if p.kind == want {
			return true
		}
	}
	return false
}

// KindForScheme maps a URL scheme to the policy kind able to carry it.
func KindForScheme(scheme string) (Kind, bool) { return kindForScheme(scheme) }

func kindForScheme(scheme string) (Kind, bool) {
	switch strings.ToLower(scheme) {
	case "https", "wss":
		return KindTLS, true
	case "http", "ws":
		return KindCleartext, true
	default:
		return 0, false
	}
}
