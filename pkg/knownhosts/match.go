package knownhosts

import (
	"fmt"
	"net"
	"os"

	"golang.org/x/crypto/ssh"
)

// DefaultPort is the standard SSH port. Entries for other ports use the
// bracketed [host]:port form.
const DefaultPort = 22

// Keys holds the result of a known_hosts lookup, split by trust marker.
// An entry contributes to exactly one of the three lists.
type Keys struct {
	Host    []ssh.PublicKey
	CA      []ssh.PublicKey
	Revoked []ssh.PublicKey
}

// MatchEntries looks up host, ip, and port in pre-parsed entries.
//
// When port is not DefaultPort, the lookup first uses the bracketed
// [host]:port form. If that pass finds no host or CA keys, the lookup is
// repeated without the port qualifier and the second pass's result is
// returned in full, matching files written without port-specific entries.
func MatchEntries(entries []Entry, host string, ip net.IP, port int) Keys {
	addr := ""
	if ip != nil {
		addr = ip.String()
	}

	keys := matchOnce(entries, host, addr, ip, port)
	if port != DefaultPort && len(keys.Host) == 0 && len(keys.CA) == 0 {
		keys = matchOnce(entries, host, addr, ip, DefaultPort)
	}
	return keys
}

func matchOnce(entries []Entry, host, addr string, ip net.IP, port int) Keys {
	if port != DefaultPort {
		host = fmt.Sprintf("[%s]:%d", host, port)
		if addr != "" {
			addr = fmt.Sprintf("[%s]:%d", addr, port)
		}
	}

	var keys Keys
	for _, e := range entries {
		if !e.Matches(host, addr, ip) {
			continue
		}
		switch e.Marker {
		case MarkerRevoked:
			keys.Revoked = append(keys.Revoked, e.Key)
		case MarkerCertAuthority:
			keys.CA = append(keys.CA, e.Key)
		default:
			keys.Host = append(keys.Host, e.Key)
		}
	}
	return keys
}

// Match parses known_hosts data and looks up host, ip, and port in it.
// ip may be nil when only the hostname is known.
func Match(data []byte, host string, ip net.IP, port int) (Keys, error) {
	entries, err := Parse(data)
	if err != nil {
		return Keys{}, err
	}
	return MatchEntries(entries, host, ip, port), nil
}

// MatchFile reads a known_hosts file and looks up host, ip, and port in it.
func MatchFile(path string, host string, ip net.IP, port int) (Keys, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Keys{}, err
	}
	return Match(data, host, ip, port)
}
