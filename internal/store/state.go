package store

import (
	"fmt"

	"github.com/canac/mailbox/internal/mailerr"
)

// State is a message's lifecycle stage. The zero value is Unread.
type State int

const (
	Unread State = iota
	Read
	Archived
)

// stateNames is the textual codec; order matches the State constants.
var stateNames = [...]string{"unread", "read", "archived"}

// String implements fmt.Stringer, and is the textual codec used by the
// config file's [overrides] table, the URL filter form, and the CLI's
// state-selector flag.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Valid reports whether s is one of the three defined states.
func (s State) Valid() bool {
	return s >= Unread && s <= Archived
}

// ParseState decodes the textual codec ("unread"|"read"|"archived").
func ParseState(s string) (State, error) {
	for i, name := range stateNames {
		if name == s {
			return State(i), nil
		}
	}
	return 0, mailerr.Wrap(mailerr.KindValidation, fmt.Errorf("invalid state %q", s))
}

// StateFromCode decodes the persistent integer codec (0|1|2), as stored in
// the "state" column.
func StateFromCode(code int64) (State, error) {
	s := State(code)
	if !s.Valid() {
		return 0, mailerr.Wrap(mailerr.KindStorageIO, fmt.Errorf("invalid state code %d", code))
	}
	return s, nil
}

// Code returns the persistent integer codec.
func (s State) Code() int64 {
	return int64(s)
}

// MarshalText implements encoding.TextMarshaler so a State serializes using
// the textual codec ("unread"|"read"|"archived") in JSON bodies.
func (s State) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid state %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	parsed, err := ParseState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// AllStates lists every defined state, in codec order.
func AllStates() []State {
	return []State{Unread, Read, Archived}
}

// StateSet is a set of States, used by Filter and by the CLI's state
// selector grammar.
type StateSet map[State]struct{}

// NewStateSet builds a StateSet from the given states, de-duplicating.
func NewStateSet(states ...State) StateSet {
	set := make(StateSet, len(states))
	for _, s := range states {
		set[s] = struct{}{}
	}
	return set
}

// Contains reports whether s is a member.
func (set StateSet) Contains(s State) bool {
	_, ok := set[s]
	return ok
}

// Slice returns the set's members in codec order, for deterministic SQL
// generation and serialization.
func (set StateSet) Slice() []State {
	out := make([]State, 0, len(set))
	for _, s := range AllStates() {
		if set.Contains(s) {
			out = append(out, s)
		}
	}
	return out
}

// ParseStateSelector decodes the CLI's selector grammar:
// unread|read|archived|unarchived|all. "unarchived" expands to
// {Unread, Read}; "all" expands to every state.
func ParseStateSelector(s string) (StateSet, error) {
	switch s {
	case "all":
		return NewStateSet(AllStates()...), nil
	case "unarchived":
		return NewStateSet(Unread, Read), nil
	default:
		state, err := ParseState(s)
		if err != nil {
			return nil, mailerr.Wrap(mailerr.KindValidation,
				fmt.Errorf("invalid state selector %q: %w", s, err))
		}
		return NewStateSet(state), nil
	}
}
