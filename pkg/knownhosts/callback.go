package knownhosts

import (
	"bytes"
	"fmt"
	"net"
	"os"
	"strconv"

	"golang.org/x/crypto/ssh"
)

// UnknownHostError is returned by the host key callback when no known_hosts
// entry matches the host.
type UnknownHostError struct {
	Host string
}

func (e *UnknownHostError) Error() string {
	return fmt.Sprintf("no known_hosts entry for %s", e.Host)
}

// KeyMismatchError is returned when the host is known but presented a key
// that differs from every pinned key. This can indicate a MITM attack.
type KeyMismatchError struct {
	Host string

	// Want holds the keys known_hosts pins for this host.
	Want []ssh.PublicKey
}

func (e *KeyMismatchError) Error() string {
	return fmt.Sprintf("host key mismatch for %s: presented key not in known_hosts", e.Host)
}

// RevokedKeyError is returned when the host presented a key marked @revoked.
type RevokedKeyError struct {
	Host        string
	Fingerprint string
}

func (e *RevokedKeyError) Error() string {
	return fmt.Sprintf("host %s presented revoked key %s", e.Host, e.Fingerprint)
}

// HostKeyCallback builds an ssh.HostKeyCallback that verifies presented
// host keys against pre-parsed known_hosts entries.
//
// A presented key matching a @revoked entry fails with *RevokedKeyError
// regardless of any other match. CA keys are not consulted here;
// certificate validation is the transport's concern and matching CA keys
// are available through MatchEntries for callers that do it.
func HostKeyCallback(entries []Entry) ssh.HostKeyCallback {
	return func(hostname string, remote net.Addr, key ssh.PublicKey) error {
		host, port := splitHostPort(hostname)

		var ip net.IP
		if tcp, ok := remote.(*net.TCPAddr); ok {
			ip = tcp.IP
		}

		keys := MatchEntries(entries, host, ip, port)
		presented := key.Marshal()

		for _, k := range keys.Revoked {
			if bytes.Equal(k.Marshal(), presented) {
				return &RevokedKeyError{Host: host, Fingerprint: ssh.FingerprintSHA256(key)}
			}
		}
		for _, k := range keys.Host {
			if bytes.Equal(k.Marshal(), presented) {
				return nil
			}
		}
		if len(keys.Host) > 0 {
			return &KeyMismatchError{Host: host, Want: keys.Host}
		}
		return &UnknownHostError{Host: host}
	}
}

// HostKeyCallbackFromFile reads and parses a known_hosts file once and
// returns a callback that matches against it.
func HostKeyCallbackFromFile(path string) (ssh.HostKeyCallback, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	entries, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return HostKeyCallback(entries), nil
}

// splitHostPort splits the "host:port" form ssh callbacks receive.
// A bare hostname is treated as the default port.
func splitHostPort(hostname string) (string, int) {
	host, portStr, err := net.SplitHostPort(hostname)
	if err != nil {
		return hostname, DefaultPort
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return hostname, DefaultPort
	}
	return host, port
}
