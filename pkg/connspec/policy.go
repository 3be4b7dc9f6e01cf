// pkg/connspec/policy.go
package connspec

import (
	"crypto/tls"
	"strings"
)

// Kind separates encrypted policies from the plaintext one.
type Kind int

const (
	KindTLS Kind = iota
	KindCleartext
)

func (k Kind) String() string {
	switch k {
	case KindTLS:
		return "tls"
	case KindCleartext:
		return "cleartext"
	default:
		return "unknown"
	}
}

// ConnectionPolicy is one alternative an HTTP client may use to open a
// connection. Values are read-only; accessors hand out copies.
type ConnectionPolicy struct {
	kind     Kind
	versions []TLSVersion
	suites   []CipherSuite
}

// Cleartext permits unencrypted transport (http:// URLs).
var Cleartext = ConnectionPolicy{kind: KindCleartext}

var (
	modernVersions = []TLSVersion{TLS12}
	modernSuites   = []CipherSuite{
		ECDHERSAWithAES128GCMSHA256,
		ECDHERSAWithAES256GCMSHA384,
	}
)

// ModernTLS pins TLS 1.2 and the two ECDHE-RSA AES-GCM suites. Narrower than
// the crypto/tls defaults on purpose: no negotiation down to legacy ciphers.
func ModernTLS() ConnectionPolicy {
	return ConnectionPolicy{
		kind:     KindTLS,
		versions: append([]TLSVersion(nil), modernVersions...),
		suites:   append([]CipherSuite(nil), modernSuites...),
	}
}

// NewTLSPolicy builds a custom TLS policy. Suites only constrain TLS 1.0-1.2;
// crypto/tls does not allow configuring TLS 1.3 suites.
func NewTLSPolicy(versions []TLSVersion, suites []CipherSuite) ConnectionPolicy {
	return ConnectionPolicy{
		kind:     KindTLS,
		versions: append([]TLSVersion(nil), versions...),
		suites:   append([]CipherSuite(nil), suites...),
	}
}

// Policies returns the ordered list a client should try, most preferred first:
// ModernTLS, then Cleartext. Every call returns a fresh slice.
func Policies() []ConnectionPolicy {
	return []ConnectionPolicy{ModernTLS(), Cleartext}
}

func (p ConnectionPolicy) Kind() Kind  { return p.kind }
func (p ConnectionPolicy) IsTLS() bool { return p.kind == KindTLS }

func (p ConnectionPolicy) TLSVersions() []TLSVersion {
	return append([]TLSVersion(nil), p.versions...)
}

func (p ConnectionPolicy) CipherSuites() []CipherSuite {
	return append([]CipherSuite(nil), p.suites...)
}

// TLSConfig derives a fresh client config for the policy, nil for cleartext.
// Min/Max span the allowed versions; CipherSuites keeps declaration order.
func (p ConnectionPolicy) TLSConfig() *tls.Config {
	if !p.IsTLS() {
		return nil
	}
	cfg := &tls.Config{}
	for i, v := range p.versions {
		if i == 0 || uint16(v) < cfg.MinVersion {
			cfg.MinVersion = uint16(v)
		}
		if uint16(v) > cfg.MaxVersion {
			cfg.MaxVersion = uint16(v)
		}
	}
	if len(p.suites) > 0 {
		cfg.CipherSuites = make([]uint16, 0, len(p.suites))
		for _, s := range p.suites {
			cfg.CipherSuites = append(cfg.CipherSuites, uint16(s))
		}
	}
	return cfg
}

// Equal reports structural equality (kind, versions and suites in order).
func (p ConnectionPolicy) Equal(o ConnectionPolicy) bool {
	if p.kind != o.kind || len(p.versions) != len(o.versions) || len(p.suites) != len(o.suites) {
		return false
	}
	for i := range p.versions {
		if p.versions[i] != o.versions[i] {
			return false
		}
	}
	for i := range p.suites {
		if p.suites[i] != o.suites[i] {
			return false
		}
	}
	return true
}

func (p ConnectionPolicy) String() string {
	if !p.IsTLS() {
		return p.kind.String()
	}
	vs := make([]string, 0, len(p.versions))
	for _, v := range p.versions {
		vs = append(vs, v.String())
	}
	ss := make([]string, 0, len(p.suites))
	for _, s := range p.suites {
		ss = append(ss, s.String())
	}
	return "tls(" + strings.Join(vs, ",") + "; " + strings.Join(ss, ",") + ")"
}
