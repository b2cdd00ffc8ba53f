// Package mailbox implements the validated hierarchical path identifying a
// message stream, e.g. "backups/nightly/errors".
package mailbox

import (
	"strings"

	"github.com/canac/mailbox/internal/mailerr"
)

// Mailbox is a non-empty, "/"-separated path of non-empty segments. It is
// immutable once constructed; Parse is the only constructor and enforces
// the syntax rules the rest of the system relies on (in particular, that
// '%' never appears; '_' and '\' are allowed, and the SQL filter escapes
// them in its LIKE prefix pattern).
type Mailbox struct {
	path string
}

// Parse validates s and returns a Mailbox, or a mailerr.KindValidation
// error describing why s is not a valid mailbox path.
func Parse(s string) (Mailbox, error) {
	if s == "" {
		return Mailbox{}, mailerr.Wrap(mailerr.KindValidation, errEmpty)
	}
	if strings.HasPrefix(s, "/") || strings.HasSuffix(s, "/") {
		return Mailbox{}, mailerr.Wrap(mailerr.KindValidation, errSlashBoundary)
	}
	if strings.Contains(s, "//") {
		return Mailbox{}, mailerr.Wrap(mailerr.KindValidation, errDoubleSlash)
	}
	if strings.Contains(s, "%") {
		return Mailbox{}, mailerr.Wrap(mailerr.KindValidation, errPercent)
	}
	for _, seg := range strings.Split(s, "/") {
		if seg == "" {
			return Mailbox{}, mailerr.Wrap(mailerr.KindValidation, errEmptySegment)
		}
	}
	return Mailbox{path: s}, nil
}

// MustParse is Parse but panics on error; used for literal mailboxes in
// tests and constant-ish call sites.
func MustParse(s string) Mailbox {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// String returns the mailbox's full path.
func (m Mailbox) String() string {
	return m.path
}

// IsZero reports whether m is the zero value (no mailbox constraint).
func (m Mailbox) IsZero() bool {
	return m.path == ""
}

// Leaf returns the final path segment: the substring after the last "/",
// or the whole path if there is no "/".
func (m Mailbox) Leaf() string {
	if i := strings.LastIndexByte(m.path, '/'); i >= 0 {
		return m.path[i+1:]
	}
	return m.path
}

// Ancestors returns every prefix of m ending on a "/" boundary, from the
// shallowest to m itself. For "a/b/c" this yields ["a", "a/b", "a/b/c"].
func (m Mailbox) Ancestors() []Mailbox {
	segs := strings.Split(m.path, "/")
	out := make([]Mailbox, 0, len(segs))
	for i := range segs {
		out = append(out, Mailbox{path: strings.Join(segs[:i+1], "/")})
	}
	return out
}

// Depth returns the number of path segments (1 for a top-level mailbox).
func (m Mailbox) Depth() int {
	return strings.Count(m.path, "/") + 1
}

// Contains reports whether m equals other or other is a descendant of m
// (other == m, or other begins with m + "/").
func (m Mailbox) Contains(other Mailbox) bool {
	if m.path == other.path {
		return true
	}
	return strings.HasPrefix(other.path, m.path+"/")
}

// Less orders mailboxes lexicographically by path, for sorted listings.
func (m Mailbox) Less(other Mailbox) bool {
	return m.path < other.path
}

// MarshalText implements encoding.TextMarshaler, so a Mailbox serializes as
// its bare path string in JSON bodies and URL query values.
func (m Mailbox) MarshalText() ([]byte, error) {
	return []byte(m.path), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, validating the path on
// decode the same way Parse does.
func (m *Mailbox) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
