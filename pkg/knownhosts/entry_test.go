package knownhosts

import (
	"errors"
	"testing"
)

// Real keys generated with ssh-keygen for test fixtures.
const (
	testEd25519Key = "ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAIOMqqnkVzrm0SdG6UOoqKLsabgH5C9okWi0dh2l9GKJl test-ed25519"

	testECDSA256Key = "ecdsa-sha2-nistp256 AAAAE2VjZHNhLXNoYTItbmlzdHAyNTYAAAAIbmlzdHAyNTYAAABBBEmKSENjQEezOmxkZMy7opKgwFB9nkt5YRrYMjNuG5N87uRgg6CLrbo5wAdT/y6v0mKV0U2w0WZ2YB/++Tpockg= test-ecdsa-256"

	testRSA2048Key = "ssh-rsa AAAAB3NzaC1yc2EAAAADAQABAAABAQDAUGZx+2UmVBvfcjF9lWMlDbae4vSjLJtDWrfNX3jFNcfugZhYiLA63wV3qvhrB4dmf4Pl1IkNafXm8JwAe+ALqbEDnUZ738uD9/CWMB6GJg5KqZ25x9IAsO/sqeMkp6U6XBP+Ntzh1gPjV7WCq06EafZGUq+yxKTbPFnTVpr6EB1ktaApQp5wkPhndM4BeYdxw4/rONndmmZCNBgqZb/3D3AQJIjhH2+ZHWpyISUTPNyfWqW9gOcocBcfzV4MK0DEC8iW6xO8uzKdD/2GAbOMoj7NDguJlE/9LsPrAHQX7zrKvuMIxTM4yuMujrXFu8aS0igWcQrSBmJeHAV6qYlp test-rsa-2048"
)

func TestParse(t *testing.T) {
	t.Run("plain entry", func(t *testing.T) {
		entries, err := Parse([]byte("server.example.com " + testEd25519Key + "\n"))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("got %d entries, want 1", len(entries))
		}
		if entries[0].Marker != MarkerNone {
			t.Errorf("Marker = %v, want MarkerNone", entries[0].Marker)
		}
		if entries[0].Key.Type() != "ssh-ed25519" {
			t.Errorf("Key.Type() = %q, want ssh-ed25519", entries[0].Key.Type())
		}
		if !entries[0].Matches("server.example.com", "", nil) {
			t.Error("entry should match its own pattern")
		}
	})

	t.Run("skips comments and blank lines", func(t *testing.T) {
		data := "# header comment\n\n   \n\t\nserver.example.com " + testEd25519Key + "\n  # indented comment\n"
		entries, err := Parse([]byte(data))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("got %d entries, want 1", len(entries))
		}
	})

	t.Run("markers", func(t *testing.T) {
		data := "@cert-authority *.example.com " + testRSA2048Key + "\n" +
			"@revoked server.example.com " + testEd25519Key + "\n" +
			"server.example.com " + testECDSA256Key + "\n"
		entries, err := Parse([]byte(data))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if len(entries) != 3 {
			t.Fatalf("got %d entries, want 3", len(entries))
		}
		want := []Marker{MarkerCertAuthority, MarkerRevoked, MarkerNone}
		for i, m := range want {
			if entries[i].Marker != m {
				t.Errorf("entries[%d].Marker = %v, want %v", i, entries[i].Marker, m)
			}
		}
	})

	t.Run("hashed entry", func(t *testing.T) {
		pattern := hashedPattern([]byte("salt-salt-salt"), "server.example.com")
		entries, err := Parse([]byte(pattern + " " + testEd25519Key + "\n"))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("got %d entries, want 1", len(entries))
		}
		if !entries[0].Matches("server.example.com", "", nil) {
			t.Error("hashed entry should match the hashed host")
		}
		if entries[0].Matches("other.example.com", "", nil) {
			t.Error("hashed entry should not match other hosts")
		}
	})

	t.Run("unknown key algorithm is skipped", func(t *testing.T) {
		data := "bad.example.com ssh-quantum3000 AAAAB3NzaC1yc2EAAAA= comment\n" +
			"good.example.com " + testEd25519Key + "\n"
		entries, err := Parse([]byte(data))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("got %d entries, want 1 (bad-key line skipped)", len(entries))
		}
		if !entries[0].Matches("good.example.com", "", nil) {
			t.Error("surviving entry should be the valid line")
		}
	})

	t.Run("invalid marker", func(t *testing.T) {
		_, err := Parse([]byte("@banned server.example.com " + testEd25519Key + "\n"))
		var perr *ParseError
		if !errors.As(err, &perr) || perr.Kind != InvalidMarker {
			t.Fatalf("expected InvalidMarker, got %v", err)
		}
		if perr.Text != "banned" {
			t.Errorf("error text = %q, want %q", perr.Text, "banned")
		}
	})

	t.Run("marker line with too few tokens", func(t *testing.T) {
		// Token shape is checked before marker validity.
		_, err := Parse([]byte("@banned server.example.com\n"))
		var perr *ParseError
		if !errors.As(err, &perr) || perr.Kind != InvalidEntry {
			t.Fatalf("expected InvalidEntry, got %v", err)
		}
	})

	t.Run("line with a single token", func(t *testing.T) {
		_, err := Parse([]byte("server.example.com\n"))
		var perr *ParseError
		if !errors.As(err, &perr) || perr.Kind != InvalidEntry {
			t.Fatalf("expected InvalidEntry, got %v", err)
		}
	})

	t.Run("structural error aborts whole parse", func(t *testing.T) {
		data := "good.example.com " + testEd25519Key + "\nbroken-line\n"
		if _, err := Parse([]byte(data)); err == nil {
			t.Fatal("expected parse to fail on the malformed line")
		}
	})

	t.Run("unsupported hash magic aborts", func(t *testing.T) {
		_, err := Parse([]byte("|2|c2FsdA==|ZGlnZXN0 " + testEd25519Key + "\n"))
		var perr *ParseError
		if !errors.As(err, &perr) || perr.Kind != UnsupportedHashType {
			t.Fatalf("expected UnsupportedHashType, got %v", err)
		}
	})

	t.Run("comment after key is ignored", func(t *testing.T) {
		entries, err := Parse([]byte("server.example.com " + testEd25519Key + " trailing words here\n"))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("got %d entries, want 1", len(entries))
		}
	})

	t.Run("order preserved", func(t *testing.T) {
		data := "a.example.com " + testEd25519Key + "\n" +
			"b.example.com " + testECDSA256Key + "\n"
		entries, err := Parse([]byte(data))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("got %d entries, want 2", len(entries))
		}
		if entries[0].Key.Type() != "ssh-ed25519" || entries[1].Key.Type() != "ecdsa-sha2-nistp256" {
			t.Error("entries should preserve file order")
		}
	})
}
