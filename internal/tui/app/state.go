// Package app holds the TUI's application state machine: the synthesized
// mailbox tree, the message list, the active filter, optimistic updates,
// and the bubbletea model that drives the event loop.
package app

import (
	"github.com/canac/mailbox/internal/mailbox"
	"github.com/canac/mailbox/internal/store"
	"github.com/canac/mailbox/internal/tui/list"
)

// Pane identifies which side of the dual-pane layout has focus.
type Pane int

const (
	PaneMailboxes Pane = iota
	PaneMessages
)

// State is the UI's in-memory model, independent of bubbletea or
// rendering. It is mutated by keypress handlers and by worker responses.
type State struct {
	Mailboxes *list.TreeList[string, MailboxRow]
	Messages  *list.MultiselectList[uint32, store.Message]

	ActiveStates store.StateSet
	ActivePane   Pane

	// lastMailbox is the display-filter mailbox at the time of the last
	// load, used to detect the local-vs-global navigation optimization of
	// a descendant move.
	lastMailbox mailbox.Mailbox
}

// NewState builds an empty state with every state active and the mailbox
// pane focused.
func NewState() *State {
	return &State{
		Mailboxes:    list.NewTreeList[string, MailboxRow](nil),
		Messages:     list.NewMultiselectList[uint32, store.Message](nil),
		ActiveStates: store.NewStateSet(store.AllStates()...),
		ActivePane:   PaneMailboxes,
	}
}

// JumpToMailbox moves the mailbox-pane cursor to mb if it is present among
// the currently loaded rows, reporting whether it found one. Used both by
// the parent-navigation keybinding and to seed the TUI's starting cursor
// from the `tui -m` flag once the first mailbox load lands.
func (s *State) JumpToMailbox(mb mailbox.Mailbox) bool {
	for i, row := range s.Mailboxes.Items() {
		if row.Mailbox == mb {
			s.Mailboxes.SetCursor(i)
			return true
		}
	}
	return false
}

// CursorMailbox returns the mailbox under the mailbox-pane cursor, if any.
func (s *State) CursorMailbox() (mailbox.Mailbox, bool) {
	row, ok := s.Mailboxes.CursorItem()
	if !ok {
		return mailbox.Mailbox{}, false
	}
	return row.Mailbox, true
}

// ReplaceMailboxes rebuilds the mailbox tree from a fresh backend load,
// preserving the cursor by mailbox path.
func (s *State) ReplaceMailboxes(infos []store.MailboxInfo) {
	s.Mailboxes.ReplaceItems(SynthesizeMailboxTree(infos))
}

// ReplaceMessages rebuilds the message list from a fresh backend load,
// narrowing to the current display filter (a no-op for loads the worker
// already filtered, but required for InitialLoad's unconstrained fetch to
// respect the active state/mailbox filter), preserving cursor and
// selection by message id, and records the mailbox this load was filtered
// to for the local-navigation optimization.
func (s *State) ReplaceMessages(messages []store.Message) {
	f := s.DisplayFilter()
	kept := make([]store.Message, 0, len(messages))
	for _, m := range messages {
		if f.MatchesMessage(m) {
			kept = append(kept, m)
		}
	}
	s.Messages.ReplaceItems(kept)
	if mb, ok := s.CursorMailbox(); ok {
		s.lastMailbox = mb
	} else {
		s.lastMailbox = mailbox.Mailbox{}
	}
}

// CanNavigateLocally reports whether moving the mailbox cursor to mb can be
// served by filtering the already-loaded messages in memory rather than
// asking the worker for a fresh load: true when mb is a descendant of (or
// equal to) the mailbox the current message list was loaded against, or
// when there was no prior mailbox context at all.
func (s *State) CanNavigateLocally(mb mailbox.Mailbox) bool {
	if s.lastMailbox.IsZero() {
		return true
	}
	return s.lastMailbox.Contains(mb)
}

// FilterMessagesLocally narrows the in-memory message list to the current
// display filter without a backend round-trip, for the local-navigation
// optimization.
func (s *State) FilterMessagesLocally() {
	f := s.DisplayFilter()
	kept := make([]store.Message, 0, s.Messages.Len())
	for _, m := range s.Messages.Items() {
		if f.MatchesMessage(m) {
			kept = append(kept, m)
		}
	}
	s.Messages.ReplaceItems(kept)
	if mb, ok := s.CursorMailbox(); ok {
		s.lastMailbox = mb
	}
}
