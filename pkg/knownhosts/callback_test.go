package knownhosts

import (
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/ssh"
)

func parseTestKey(t *testing.T, authorized string) ssh.PublicKey {
	t.Helper()
	key, _, _, _, err := ssh.ParseAuthorizedKey([]byte(authorized))
	if err != nil {
		t.Fatalf("failed to parse test key: %v", err)
	}
	return key
}

func TestHostKeyCallback(t *testing.T) {
	data := "server.example.com " + testEd25519Key + "\n" +
		"@revoked revoked.example.com " + testECDSA256Key + "\n"
	entries, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	cb := HostKeyCallback(entries)

	ed25519Key := parseTestKey(t, testEd25519Key)
	ecdsaKey := parseTestKey(t, testECDSA256Key)

	t.Run("accepts pinned key", func(t *testing.T) {
		if err := cb("server.example.com:22", nil, ed25519Key); err != nil {
			t.Errorf("expected key to be accepted, got %v", err)
		}
	})

	t.Run("rejects mismatched key", func(t *testing.T) {
		err := cb("server.example.com:22", nil, ecdsaKey)
		var mismatch *KeyMismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("expected KeyMismatchError, got %v", err)
		}
		if len(mismatch.Want) != 1 {
			t.Errorf("got %d wanted keys, want 1", len(mismatch.Want))
		}
	})

	t.Run("rejects unknown host", func(t *testing.T) {
		err := cb("stranger.example.com:22", nil, ed25519Key)
		var unknown *UnknownHostError
		if !errors.As(err, &unknown) {
			t.Fatalf("expected UnknownHostError, got %v", err)
		}
		if unknown.Host != "stranger.example.com" {
			t.Errorf("Host = %q, want stranger.example.com", unknown.Host)
		}
	})

	t.Run("rejects revoked key", func(t *testing.T) {
		err := cb("revoked.example.com:22", nil, ecdsaKey)
		var revoked *RevokedKeyError
		if !errors.As(err, &revoked) {
			t.Fatalf("expected RevokedKeyError, got %v", err)
		}
		if revoked.Fingerprint == "" {
			t.Error("RevokedKeyError should carry the key fingerprint")
		}
	})

	t.Run("uses remote address for IP entries", func(t *testing.T) {
		ipData := "192.0.2.0/24 " + testEd25519Key + "\n"
		ipEntries, err := Parse([]byte(ipData))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		ipCB := HostKeyCallback(ipEntries)

		remote := &net.TCPAddr{IP: net.ParseIP("192.0.2.5"), Port: 22}
		if err := ipCB("server.example.com:22", remote, ed25519Key); err != nil {
			t.Errorf("expected CIDR entry to match via remote address, got %v", err)
		}
	})

	t.Run("port fallback applies", func(t *testing.T) {
		if err := cb("server.example.com:2222", nil, ed25519Key); err != nil {
			t.Errorf("expected unqualified entry to cover non-default port, got %v", err)
		}
	})
}

func TestHostKeyCallbackFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "known_hosts")
	data := "server.example.com " + testEd25519Key + "\n"
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cb, err := HostKeyCallbackFromFile(path)
	if err != nil {
		t.Fatalf("HostKeyCallbackFromFile failed: %v", err)
	}
	if err := cb("server.example.com:22", nil, parseTestKey(t, testEd25519Key)); err != nil {
		t.Errorf("expected key to be accepted, got %v", err)
	}

	if _, err := HostKeyCallbackFromFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}
