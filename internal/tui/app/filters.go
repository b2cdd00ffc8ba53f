package app

import "github.com/canac/mailbox/internal/store"

// DisplayFilter drives both panes' rendering: the mailbox subtree under the
// mailbox-pane cursor (if any) narrowed to the active state set.
func (s *State) DisplayFilter() store.Filter {
	f := store.NewFilter().WithStateSet(s.ActiveStates)
	if mb, ok := s.CursorMailbox(); ok {
		f = f.WithMailbox(mb)
	}
	return f
}

// ActionFilter is the filter a mutation (state change, delete) is scoped
// to: every selected message if any are selected, else just the
// message-pane cursor, else an empty (matches-nothing-by-id) filter when
// there is no selection and no cursor to act on.
func (s *State) ActionFilter() store.Filter {
	if s.Messages.SelectedCount() > 0 {
		return store.NewFilter().WithIds(s.Messages.SelectedKeys()...)
	}
	if item, ok := s.Messages.CursorItem(); ok {
		return store.NewFilter().WithIds(item.Key())
	}
	return store.NewFilter().WithIds()
}
