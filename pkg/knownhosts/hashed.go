package knownhosts

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net"
	"strings"
)

// hmacSHA1Magic is the only hash type OpenSSH has ever emitted.
const hmacSHA1Magic = "1"

// hashedHost matches a host against a salted HMAC-SHA1 digest instead of a
// plaintext pattern, as produced by `ssh-keygen -H` or HashKnownHosts.
type hashedHost struct {
	salt   []byte
	digest []byte
}

// newHashedHost parses a pattern field of the form |1|b64(salt)|b64(digest).
// The caller has already checked the leading '|'.
func newHashedHost(pattern string) (*hashedHost, error) {
	parts := strings.Split(pattern[1:], "|")
	if len(parts) != 3 {
		return nil, &ParseError{Kind: InvalidHashFormat, Text: pattern}
	}

	salt, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, &ParseError{Kind: InvalidHashFormat, Text: pattern}
	}
	digest, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return nil, &ParseError{Kind: InvalidHashFormat, Text: pattern}
	}

	if parts[0] != hmacSHA1Magic {
		return nil, &ParseError{Kind: UnsupportedHashType, Text: parts[0]}
	}

	return &hashedHost{salt: salt, digest: digest}, nil
}

func (h *hashedHost) match(value string) bool {
	mac := hmac.New(sha1.New, h.salt)
	mac.Write([]byte(value))
	return hmac.Equal(mac.Sum(nil), h.digest)
}

func (h *hashedHost) Matches(host, addr string, ip net.IP) bool {
	return (host != "" && h.match(host)) || (addr != "" && h.match(addr))
}
