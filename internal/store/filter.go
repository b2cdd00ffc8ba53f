package store

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/canac/mailbox/internal/mailbox"
	"github.com/canac/mailbox/internal/mailerr"
)

// idSet is a small set of message ids, kept as a map for O(1) membership
// tests and rendered sorted wherever order matters (SQL placeholder order,
// URL serialization).
type idSet map[uint32]struct{}

func (s idSet) sorted() []uint32 {
	out := make([]uint32, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Filter is a composable predicate over the three constraints a message
// query can have: an explicit id set, a mailbox subtree, and a state set.
// A message matches a Filter iff every present constraint holds. Each
// field is optional; the zero Filter matches every message.
type Filter struct {
	ids     idSet
	hasIds  bool
	mailbox mailbox.Mailbox
	states  StateSet
	hasStates bool
}

// NewFilter returns an unconstrained filter (matches every message).
func NewFilter() Filter {
	return Filter{}
}

// WithIds sets the id constraint (builder-style; returns a copy).
func (f Filter) WithIds(ids ...uint32) Filter {
	set := make(idSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	f.ids = set
	f.hasIds = true
	return f
}

// WithMailbox sets the mailbox-subtree constraint.
func (f Filter) WithMailbox(m mailbox.Mailbox) Filter {
	f.mailbox = m
	return f
}

// WithMailboxOption sets the mailbox constraint only if m is present; a
// no-op otherwise. Mirrors the source's with_mailbox_option convenience
// for callers threading an Option<Mailbox> through unconditionally.
func (f Filter) WithMailboxOption(m *mailbox.Mailbox) Filter {
	if m != nil {
		f.mailbox = *m
	}
	return f
}

// WithStates sets the state-set constraint. An empty, non-nil set of
// states is a valid (distinct from absent) constraint that matches
// nothing.
func (f Filter) WithStates(states ...State) Filter {
	f.states = NewStateSet(states...)
	f.hasStates = true
	return f
}

// WithStateSet is WithStates taking an already-built StateSet.
func (f Filter) WithStateSet(set StateSet) Filter {
	f.states = set
	f.hasStates = true
	return f
}

// HasMailbox reports whether the mailbox constraint is present.
func (f Filter) HasMailbox() bool {
	return !f.mailbox.IsZero()
}

// Mailbox returns the mailbox constraint, if present.
func (f Filter) Mailbox() mailbox.Mailbox {
	return f.mailbox
}

// Ids returns the id constraint, sorted ascending, and whether it is
// present.
func (f Filter) Ids() ([]uint32, bool) {
	if !f.hasIds {
		return nil, false
	}
	return f.ids.sorted(), true
}

// States returns the state-set constraint, and whether it is present.
func (f Filter) States() (StateSet, bool) {
	if !f.hasStates {
		return nil, false
	}
	return f.states, true
}

// MatchesAll reports whether f has no constraint at all — true iff none of
// ids, mailbox, or states is present.
func (f Filter) MatchesAll() bool {
	return !f.hasIds && !f.HasMailbox() && !f.hasStates
}

// MatchesMessage is the in-memory matcher, kept in lock-step with the SQL
// predicate below so optimistic TUI updates never diverge from what the
// next load would return from the backend.
func (f Filter) MatchesMessage(m Message) bool {
	if f.hasIds {
		if _, ok := f.ids[m.Id]; !ok {
			return false
		}
	}
	if f.HasMailbox() && !f.mailbox.Contains(m.Mailbox) {
		return false
	}
	if f.hasStates {
		if !f.states.Contains(m.State) {
			return false
		}
	}
	return true
}

// SQLPredicate builds the conjunction of present constraints as a
// parameterized WHERE clause (without the leading "WHERE"), returning the
// clause and its bind arguments in order. An unconstrained filter returns
// ("1=1", nil) so callers can always append it to a query.
func (f Filter) SQLPredicate() (string, []any) {
	var clauses []string
	var args []any

	if f.hasIds {
		ids := f.ids.sorted()
		if len(ids) == 0 {
			// Present-but-empty: matches nothing.
			return "1=0", nil
		}
		placeholders := make([]string, len(ids))
		for i, id := range ids {
			placeholders[i] = "?"
			args = append(args, id)
		}
		clauses = append(clauses, fmt.Sprintf("id IN (%s)", strings.Join(placeholders, ", ")))
	}

	if f.HasMailbox() {
		mb := f.mailbox.String()
		// '%' is forbidden in mailbox paths (see internal/mailbox), but '_'
		// (a single-character LIKE wildcard) and '\' are not, so the prefix
		// is escaped before "/%" is appended; without it "a_b" would also
		// match descendants of "axb".
		clauses = append(clauses, "(mailbox = ? OR mailbox LIKE ? ESCAPE '\\')")
		args = append(args, mb, escapeLikePattern(mb)+"/%")
	}

	if f.hasStates {
		states := f.states.Slice()
		if len(states) == 0 {
			return "1=0", nil
		}
		placeholders := make([]string, len(states))
		for i, s := range states {
			placeholders[i] = "?"
			args = append(args, s.Code())
		}
		clauses = append(clauses, fmt.Sprintf("state IN (%s)", strings.Join(placeholders, ", ")))
	}

	if len(clauses) == 0 {
		return "1=1", nil
	}
	return strings.Join(clauses, " AND "), args
}

func escapeLikePattern(s string) string {
	r := strings.NewReplacer("\\", "\\\\", "%", "\\%", "_", "\\_")
	return r.Replace(s)
}

// Encode serializes the present fields of f to URL query form:
// ids=1,2,3&mailbox=a/b&states=unread,read. Absent fields are omitted
// entirely; a present-but-empty states set serializes as "states=" (and is
// distinct on decode from an absent states field).
func (f Filter) Encode() string {
	v := url.Values{}
	if f.hasIds {
		ids := f.ids.sorted()
		parts := make([]string, len(ids))
		for i, id := range ids {
			parts[i] = strconv.FormatUint(uint64(id), 10)
		}
		v.Set("ids", strings.Join(parts, ","))
	}
	if f.HasMailbox() {
		v.Set("mailbox", f.mailbox.String())
	}
	if f.hasStates {
		states := f.states.Slice()
		parts := make([]string, len(states))
		for i, s := range states {
			parts[i] = s.String()
		}
		v.Set("states", strings.Join(parts, ","))
	}
	return v.Encode()
}

// ParseFilter decodes the URL query form produced by Encode (and, for the
// HTTP server, any GET/DELETE query string using the same field names).
func ParseFilter(values url.Values) (Filter, error) {
	f := NewFilter()

	if raw, ok := firstIfPresent(values, "ids"); ok {
		var ids []uint32
		if raw != "" {
			for _, part := range strings.Split(raw, ",") {
				n, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
				if err != nil {
					return Filter{}, mailerr.Wrap(mailerr.KindValidation,
						fmt.Errorf("invalid id %q in filter: %w", part, err))
				}
				ids = append(ids, uint32(n))
			}
		}
		f = f.WithIds(ids...)
	}

	if raw, ok := firstIfPresent(values, "mailbox"); ok {
		mb, err := mailbox.Parse(raw)
		if err != nil {
			return Filter{}, mailerr.Wrap(mailerr.KindValidation,
				fmt.Errorf("invalid mailbox %q in filter: %w", raw, err))
		}
		f = f.WithMailbox(mb)
	}

	if raw, ok := firstIfPresent(values, "states"); ok {
		var states []State
		if raw != "" {
			for _, part := range strings.Split(raw, ",") {
				s, err := ParseState(strings.TrimSpace(part))
				if err != nil {
					return Filter{}, mailerr.Wrap(mailerr.KindValidation,
						fmt.Errorf("invalid state %q in filter: %w", part, err))
				}
				states = append(states, s)
			}
		}
		f = f.WithStates(states...)
	}

	return f, nil
}

func firstIfPresent(values url.Values, key string) (string, bool) {
	if _, ok := values[key]; !ok {
		return "", false
	}
	return values.Get(key), true
}

// Equal reports whether f and other are the same filter: present/absent
// status and contents agree for every field. Used by tests pinning the
// URL round-trip property.
func (f Filter) Equal(other Filter) bool {
	if f.hasIds != other.hasIds {
		return false
	}
	if f.hasIds {
		a, b := f.ids.sorted(), other.ids.sorted()
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
	}
	if f.mailbox != other.mailbox {
		return false
	}
	if f.hasStates != other.hasStates {
		return false
	}
	if f.hasStates {
		a, b := f.states.Slice(), other.states.Slice()
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
	}
	return true
}
