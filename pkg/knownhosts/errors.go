package knownhosts

import (
	"fmt"
	"strings"
)

// ErrorKind identifies the class of a known_hosts parse failure.
type ErrorKind int

const (
	// InvalidEntry indicates a line with the wrong token shape.
	InvalidEntry ErrorKind = iota

	// InvalidMarker indicates an @-prefixed line with an unrecognized marker.
	InvalidMarker

	// InvalidHashFormat indicates a hashed host field with the wrong part
	// count or undecodable base64.
	InvalidHashFormat

	// UnsupportedHashType indicates a hashed host field with a hash magic
	// other than the supported HMAC-SHA1 tag.
	UnsupportedHashType
)

// ParseError is returned when a known_hosts line cannot be parsed.
// Text carries the offending line or field for diagnostics.
type ParseError struct {
	Kind ErrorKind
	Text string
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case InvalidMarker:
		return fmt.Sprintf("invalid known hosts marker: %s", asciiSafe(e.Text))
	case InvalidHashFormat:
		return fmt.Sprintf("invalid known hosts hash entry: %s", asciiSafe(e.Text))
	case UnsupportedHashType:
		return fmt.Sprintf("invalid known hosts hash type: %s", asciiSafe(e.Text))
	default:
		return fmt.Sprintf("invalid known hosts entry: %s", asciiSafe(e.Text))
	}
}

// asciiSafe replaces non-printable and non-ASCII bytes so raw file content
// can be embedded in error messages.
func asciiSafe(s string) string {
	return strings.Map(func(r rune) rune {
		if r < ' ' || r > '~' {
			return '?'
		}
		return r
	}, s)
}
