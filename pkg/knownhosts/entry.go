package knownhosts

import (
	"bytes"
	"net"
	"strings"

	"golang.org/x/crypto/ssh"
)

// Marker classifies how a known_hosts entry's key is to be trusted.
type Marker int

const (
	// MarkerNone marks an ordinary host key entry.
	MarkerNone Marker = iota

	// MarkerCertAuthority marks a key trusted to sign host certificates.
	MarkerCertAuthority

	// MarkerRevoked marks a key that is explicitly distrusted.
	MarkerRevoked
)

// Entry is one parsed known_hosts line: a host matcher, an optional trust
// marker, and the decoded public key.
type Entry struct {
	Marker Marker
	Key    ssh.PublicKey

	matcher hostMatcher
}

// Matches reports whether the entry's pattern matches the given hostname,
// address string, and parsed IP.
func (e Entry) Matches(host, addr string, ip net.IP) bool {
	return e.matcher.Matches(host, addr, ip)
}

// Parse reads a known_hosts file into an ordered list of entries.
//
// Blank lines and comments are skipped. Lines whose key uses an algorithm
// the decoder does not recognize are skipped as well, so files written by
// newer OpenSSH releases stay usable. Structural errors (bad token shape,
// bad marker, bad hash field) abort the parse with a *ParseError.
func Parse(data []byte) ([]Entry, error) {
	var entries []Entry

	for _, raw := range bytes.Split(data, []byte("\n")) {
		line := strings.TrimSpace(string(raw))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		marker := MarkerNone
		rest := line
		var markerField string

		if strings.HasPrefix(line, "@") {
			var ok bool
			markerField, rest, ok = nextField(rest)
			if !ok {
				return nil, &ParseError{Kind: InvalidEntry, Text: line}
			}
		}

		pattern, keyMaterial, ok := nextField(rest)
		if !ok {
			return nil, &ParseError{Kind: InvalidEntry, Text: line}
		}

		switch markerField {
		case "":
		case "@cert-authority":
			marker = MarkerCertAuthority
		case "@revoked":
			marker = MarkerRevoked
		default:
			return nil, &ParseError{Kind: InvalidMarker, Text: markerField[1:]}
		}

		var matcher hostMatcher
		var err error
		if strings.HasPrefix(pattern, "|") {
			matcher, err = newHashedHost(pattern)
		} else {
			matcher, err = newHostList(pattern)
		}
		if err != nil {
			return nil, err
		}

		key, _, _, _, err := ssh.ParseAuthorizedKey([]byte(keyMaterial))
		if err != nil {
			// Unrecognized key algorithm or undecodable key material.
			// Tolerate it so one forward-incompatible line does not
			// invalidate the rest of the trust database.
			continue
		}

		entries = append(entries, Entry{Marker: marker, Key: key, matcher: matcher})
	}

	return entries, nil
}

// nextField splits off the first whitespace-delimited token. ok is false
// when there is no whitespace left to split on.
func nextField(s string) (field, rest string, ok bool) {
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, "", false
	}
	return s[:i], strings.TrimLeft(s[i:], " \t"), true
}
