// Package knownhosts parses OpenSSH known_hosts files and matches hosts
// against them, classifying matching entries into host keys, certificate
// authority keys, and revoked keys.
package knownhosts

import (
	"net"
	"strings"

	"github.com/gobwas/glob"
)

// hostMatcher tests a single known_hosts pattern against a candidate
// hostname, address string, and parsed IP.
type hostMatcher interface {
	Matches(host, addr string, ip net.IP) bool
}

// wildcardPattern matches hostnames with '*' and '?' wildcards.
type wildcardPattern struct {
	g glob.Glob
}

func newWildcardPattern(pattern string) (*wildcardPattern, error) {
	g, err := glob.Compile(quoteGlobMeta(pattern))
	if err != nil {
		return nil, &ParseError{Kind: InvalidEntry, Text: pattern}
	}
	return &wildcardPattern{g: g}, nil
}

// quoteGlobMeta escapes glob metacharacters other than '*' and '?'.
// The known_hosts wildcard grammar has no character classes or alternation,
// so '[', ']', '{', '}' and '\' must match literally.
func quoteGlobMeta(pattern string) string {
	var b strings.Builder
	b.Grow(len(pattern))
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '[', ']', '{', '}', '\\':
			b.WriteByte('\\')
		}
		b.WriteByte(pattern[i])
	}
	return b.String()
}

func (p *wildcardPattern) Matches(host, addr string, ip net.IP) bool {
	return (host != "" && p.g.Match(host)) || (addr != "" && p.g.Match(addr))
}

// cidrPattern matches a literal IPv4/IPv6 address or CIDR-style subnet.
// It only ever matches the parsed IP, never the name-based fields.
type cidrPattern struct {
	network *net.IPNet
}

// newCIDRPattern parses pattern as an IP address or CIDR network. The
// second return value reports whether the pattern is CIDR-shaped at all;
// false means the caller should fall back to a wildcard pattern.
func newCIDRPattern(pattern string) (*cidrPattern, bool) {
	if ip, network, err := net.ParseCIDR(pattern); err == nil {
		// Host bits set in the prefix is not a valid network.
		if !ip.Equal(network.IP) {
			return nil, false
		}
		return &cidrPattern{network: network}, true
	}

	ip := net.ParseIP(pattern)
	if ip == nil {
		return nil, false
	}
	bits := 128
	if v4 := ip.To4(); v4 != nil {
		ip = v4
		bits = 32
	}
	return &cidrPattern{network: &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)}}, true
}

func (p *cidrPattern) Matches(host, addr string, ip net.IP) bool {
	return ip != nil && p.network.Contains(ip)
}

// hostList aggregates the comma-separated patterns of one entry into a
// single inclusion test. A leading '!' on a pattern negates it.
type hostList struct {
	positive []hostMatcher
	negative []hostMatcher
}

func newHostList(pattern string) (*hostList, error) {
	l := &hostList{}

	for _, p := range strings.Split(pattern, ",") {
		negated := strings.HasPrefix(p, "!")
		if negated {
			p = p[1:]
		}

		var m hostMatcher
		if c, ok := newCIDRPattern(p); ok {
			m = c
		} else {
			w, err := newWildcardPattern(p)
			if err != nil {
				return nil, err
			}
			m = w
		}

		if negated {
			l.negative = append(l.negative, m)
		} else {
			l.positive = append(l.positive, m)
		}
	}

	return l, nil
}

// Matches reports whether at least one positive pattern matches and no
// negative pattern does. A list with only negative patterns never matches.
func (l *hostList) Matches(host, addr string, ip net.IP) bool {
	matched := false
	for _, m := range l.positive {
		if m.Matches(host, addr, ip) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}

	for _, m := range l.negative {
		if m.Matches(host, addr, ip) {
			return false
		}
	}
	return true
}
