package connspec

import (
	"crypto/tls"
	"fmt"
)

// TLSVersion wraps the crypto/tls version constants.
type TLSVersion uint16

const (
	TLS12 TLSVersion = tls.VersionTLS12
	TLS13 TLSVersion = tls.VersionTLS13
)

var versionNames = map[TLSVersion]string{
	TLS12: "TLS_1_2",
	TLS13: "TLS_1_3",
}

func (v TLSVersion) String() string {
	if n, ok := versionNames[v]; ok {
		return n
	}
	return fmt.Sprintf("TLS_0x%04x", uint16(v))
}

// CipherSuite wraps the crypto/tls cipher suite IDs.
type CipherSuite uint16

const (
	ECDHERSAWithAES128GCMSHA256 CipherSuite = CipherSuite(tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256)
	ECDHERSAWithAES256GCMSHA384 CipherSuite = CipherSuite(tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384)
)

// OpenSSL-style names, the way ops tooling and server configs spell them.
var suiteNames = map[CipherSuite]string{
	ECDHERSAWithAES128GCMSHA256: "ECDHE-RSA-AES128-GCM-SHA256",
	ECDHERSAWithAES256GCMSHA384: "ECDHE-RSA-AES256-GCM-SHA384",
}

func (s CipherSuite) String() string {
	if n, ok := suiteNames[s]; ok {
		return n
	}
	return tls.CipherSuiteName(uint16(s))
}

// IANAName is the RFC name, e.g. TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256.
func (s CipherSuite) IANAName() string { return tls.CipherSuiteName(uint16(s)) }
