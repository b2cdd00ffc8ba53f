package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/canac/mailbox/internal/store"
	"github.com/canac/mailbox/internal/tui/list"
)

// handleKey routes a keypress: first through the global table (pane
// toggle, state-filter toggles, forced reload, quit), then, if
// unconsumed, to the active pane.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "tab":
		m.togglePane()
		return m, nil
	case "r":
		return m, m.sendRequest(reloadRequest())
	case "1":
		m.toggleState(store.Unread)
		return m, m.reloadOrFilterLocally(store.Unread)
	case "2":
		m.toggleState(store.Read)
		return m, m.reloadOrFilterLocally(store.Read)
	case "3":
		m.toggleState(store.Archived)
		return m, m.reloadOrFilterLocally(store.Archived)
	}

	switch m.state.ActivePane {
	case PaneMailboxes:
		return m.handleMailboxKey(msg)
	default:
		return m.handleMessageKey(msg)
	}
}

func (m *Model) togglePane() {
	if m.state.ActivePane == PaneMailboxes {
		m.state.ActivePane = PaneMessages
	} else {
		m.state.ActivePane = PaneMailboxes
	}
}

func (m *Model) toggleState(s store.State) {
	if m.state.ActiveStates.Contains(s) {
		delete(m.state.ActiveStates, s)
	} else {
		m.state.ActiveStates[s] = struct{}{}
	}
}

// reloadOrFilterLocally re-derives the message list after a state-filter
// toggle. Turning a state off only narrows the display filter, so the
// already-loaded messages are filtered in memory; turning one on widens it
// past what is loaded, so both panes are reloaded.
func (m Model) reloadOrFilterLocally(toggled store.State) tea.Cmd {
	if m.state.ActiveStates.Contains(toggled) {
		return m.sendRequest(reloadRequest())
	}
	m.state.FilterMessagesLocally()
	return nil
}

func (m Model) handleMailboxKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		return m.moveMailboxCursor(func() { m.state.Mailboxes.Previous() })
	case "down", "j":
		return m.moveMailboxCursor(func() { m.state.Mailboxes.Next() })
	case "shift+down", "J":
		return m.moveMailboxCursor(func() { m.state.Mailboxes.NextSibling() })
	case "shift+up", "K":
		return m.moveMailboxCursor(func() { m.state.Mailboxes.PreviousSibling() })
	case "h", "left":
		return m.moveMailboxCursor(m.jumpToParentMailbox)
	case "u":
		return m.changeMailboxSubtreeState(store.Unread)
	case "e":
		return m.changeMailboxSubtreeState(store.Read)
	case "a":
		return m.changeMailboxSubtreeState(store.Archived)
	}
	return m, nil
}

func (m Model) jumpToParentMailbox() {
	mb, ok := m.state.CursorMailbox()
	if !ok {
		return
	}
	ancestors := mb.Ancestors()
	if len(ancestors) < 2 {
		return
	}
	parent := ancestors[len(ancestors)-2]
	m.state.JumpToMailbox(parent)
}

// moveMailboxCursor runs move, then applies the local-vs-global navigation
// optimization: a descendant move filters the already-loaded messages in
// memory, anything else asks the worker for a fresh load.
func (m Model) moveMailboxCursor(move func()) (Model, tea.Cmd) {
	move()
	mb, ok := m.state.CursorMailbox()
	if !ok {
		return m, nil
	}
	if m.state.CanNavigateLocally(mb) {
		m.state.FilterMessagesLocally()
		return m, nil
	}
	return m, m.sendRequest(loadMessagesRequest(m.state.DisplayFilter()))
}

func (m Model) changeMailboxSubtreeState(newState store.State) (Model, tea.Cmd) {
	mb, ok := m.state.CursorMailbox()
	if !ok {
		return m, nil
	}
	scope := store.NewFilter().WithMailbox(mb)
	refresh := m.state.ApplyStateChange(scope, newState)
	return m, m.sendRequest(changeStateRequest(scope, newState, refresh))
}

func (m Model) handleMessageKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.state.Messages.Previous()
	case "down", "j":
		m.state.Messages.Next()
	case "ctrl+up":
		m.state.Messages.MoveCursorRelative(-10)
	case "ctrl+down":
		m.state.Messages.MoveCursorRelative(10)
	case "v":
		m.state.Messages.SetMode(toggleSelectionMode(m.state.Messages.Mode(), list.SelectionSelect))
	case "V":
		m.state.Messages.SetMode(toggleSelectionMode(m.state.Messages.Mode(), list.SelectionDeselect))
	case "esc":
		m.state.Messages.SetMode(list.SelectionNone)
	case "ctrl+a":
		m.state.Messages.SetAllSelected(true)
	case "ctrl+d":
		m.state.Messages.SetAllSelected(false)
	case " ":
		m.state.Messages.ToggleCursorSelected()
	case "u":
		return m.changeSelectedMessageState(store.Unread)
	case "e":
		return m.changeSelectedMessageState(store.Read)
	case "a":
		return m.changeSelectedMessageState(store.Archived)
	case "x", "delete":
		return m.deleteSelectedMessages()
	}
	return m, nil
}

func (m Model) changeSelectedMessageState(newState store.State) (Model, tea.Cmd) {
	scope := m.state.ActionFilter()
	refresh := m.state.SetSelectedMessageStates(newState)
	return m, m.sendRequest(changeStateRequest(scope, newState, refresh))
}

func (m Model) deleteSelectedMessages() (Model, tea.Cmd) {
	scope := m.state.ActionFilter()
	refresh := m.state.DeleteSelectedMessages()
	return m, m.sendRequest(deleteRequest(scope, refresh))
}

// toggleSelectionMode leaves back to None when target is already the
// current mode (pressing the same selection key again cancels
// selection-paint mode); otherwise it switches to target, whether from None
// or from the other selection mode.
func toggleSelectionMode(current, target list.SelectionMode) list.SelectionMode {
	if current == target {
		return list.SelectionNone
	}
	return target
}
