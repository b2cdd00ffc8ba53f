package app

import "github.com/canac/mailbox/internal/store"

// applyOptimistic is the shared shape behind SetSelectedMessageStates and
// DeleteSelectedMessages: classify every message as kept or removed per
// mutate, replace the message list with the kept set (key-preserving, so
// the surviving selection is unaffected), and walk every removed message's
// mailbox ancestors to decrement the synthesized tree. It reports whether
// the mailbox under the cursor vanished from the tree as a result, which
// means the worker mutation this optimistic update anticipates must be
// enqueued with refresh=true so authoritative state is re-read once it
// lands.
func (s *State) applyOptimistic(mutate func(store.Message) (store.Message, bool)) bool {
	cursorMailbox, hadCursorMailbox := s.CursorMailbox()

	oldItems := s.Messages.Items()
	kept := make([]store.Message, 0, len(oldItems))
	var removed []store.Message
	for _, m := range oldItems {
		updated, isRemoved := mutate(m)
		if isRemoved {
			removed = append(removed, updated)
		} else {
			kept = append(kept, updated)
		}
	}
	s.Messages.ReplaceItems(kept)
	s.decrementMailboxCounts(removed)

	if !hadCursorMailbox {
		return false
	}
	for _, row := range s.Mailboxes.Items() {
		if row.Mailbox == cursorMailbox {
			return false
		}
	}
	return true
}

// decrementMailboxCounts walks every removed message's mailbox ancestors,
// decrementing the corresponding row's count in the synthesized tree and
// dropping rows that reach zero.
func (s *State) decrementMailboxCounts(removed []store.Message) {
	if len(removed) == 0 {
		return
	}
	decrements := make(map[string]int)
	for _, m := range removed {
		for _, ancestor := range m.Mailbox.Ancestors() {
			decrements[ancestor.String()]++
		}
	}

	rows := s.Mailboxes.Items()
	newRows := make([]MailboxRow, 0, len(rows))
	for _, row := range rows {
		row.MessageCount -= decrements[row.Key()]
		if row.MessageCount > 0 {
			newRows = append(newRows, row)
		}
	}
	s.Mailboxes.ReplaceItems(newRows)
}

// ApplyStateChange optimistically applies newState to every message
// matching scope and removes any that no longer match the display filter,
// returning whether the caller should enqueue the corresponding worker
// request with refresh=true.
func (s *State) ApplyStateChange(scope store.Filter, newState store.State) bool {
	displayFilter := s.DisplayFilter()
	return s.applyOptimistic(func(m store.Message) (store.Message, bool) {
		if scope.MatchesMessage(m) {
			m.State = newState
		}
		return m, !displayFilter.MatchesMessage(m)
	})
}

// ApplyDelete optimistically removes every message matching scope,
// returning whether the caller should enqueue the corresponding worker
// request with refresh=true.
func (s *State) ApplyDelete(scope store.Filter) bool {
	return s.applyOptimistic(func(m store.Message) (store.Message, bool) {
		return m, scope.MatchesMessage(m)
	})
}

// SetSelectedMessageStates is ApplyStateChange scoped to the message-pane
// action filter (selection, or the cursor message, or nothing).
func (s *State) SetSelectedMessageStates(newState store.State) bool {
	return s.ApplyStateChange(s.ActionFilter(), newState)
}

// DeleteSelectedMessages is ApplyDelete scoped to the message-pane action
// filter.
func (s *State) DeleteSelectedMessages() bool {
	return s.ApplyDelete(s.ActionFilter())
}
