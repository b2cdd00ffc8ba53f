package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/canac/mailbox/internal/store"
	"github.com/canac/mailbox/internal/tui/list"
)

var (
	mailboxStyle         = lipgloss.NewStyle().PaddingLeft(1)
	selectedMailboxStyle = lipgloss.NewStyle().PaddingLeft(1).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))

	messageStyle         = lipgloss.NewStyle().PaddingLeft(1)
	selectedMessageStyle = lipgloss.NewStyle().PaddingLeft(1).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	markedMessageStyle   = lipgloss.NewStyle().PaddingLeft(1).Foreground(lipgloss.Color("220"))

	unreadStyle = lipgloss.NewStyle().Bold(true)
	paneStyle   = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, true, false, false).BorderForeground(lipgloss.Color("240"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	loadingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// render composes the dual-pane layout: a content row (25%/75% mailboxes/
// messages) above a one-line footer (state toggles and selection mode on
// the left, loading indicator on the right).
func (m Model) render() string {
	if m.width == 0 {
		return "loading..."
	}

	mailboxWidth := m.width / 4
	messageWidth := m.width - mailboxWidth

	content := lipgloss.JoinHorizontal(lipgloss.Top,
		paneStyle.Width(mailboxWidth).Render(m.renderMailboxes(mailboxWidth)),
		lipgloss.NewStyle().Width(messageWidth).Render(m.renderMessages(messageWidth)),
	)

	return lipgloss.JoinVertical(lipgloss.Left, content, m.renderFooter())
}

func (m Model) renderMailboxes(width int) string {
	var b strings.Builder
	cursor, _ := m.state.Mailboxes.Cursor()
	for i, row := range m.state.Mailboxes.Items() {
		line := fmt.Sprintf("%s%s (%d)", strings.Repeat("  ", row.TreeDepth), row.Mailbox.Leaf(), row.MessageCount)
		style := mailboxStyle
		if i == cursor && m.state.ActivePane == PaneMailboxes {
			style = selectedMailboxStyle
		}
		b.WriteString(style.Width(width).Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderMessages(width int) string {
	var b strings.Builder
	cursor, _ := m.state.Messages.Cursor()
	for i, msg := range m.state.Messages.Items() {
		line := formatMessageLine(msg)
		style := messageStyle
		switch {
		case i == cursor && m.state.ActivePane == PaneMessages:
			style = selectedMessageStyle
		case m.state.Messages.IsSelected(msg.Id):
			style = markedMessageStyle
		}
		if msg.State == store.Unread {
			line = unreadStyle.Render(line)
		}
		b.WriteString(style.Width(width).Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func formatMessageLine(msg store.Message) string {
	return fmt.Sprintf("[%s] %s: %s", msg.State, msg.Mailbox, msg.Content)
}

func (m Model) renderFooter() string {
	status := m.renderStateToggles() + "  " + m.renderSelectionMode()
	loading := ""
	if m.worker.PendingCount() > 0 {
		loading = loadingStyle.Render("loading…")
	}
	if m.lastErr != nil {
		status = errorStyle.Render(m.lastErr.Error())
	}

	pad := m.width - lipgloss.Width(status) - lipgloss.Width(loading)
	if pad < 1 {
		pad = 1
	}
	return footerStyle.Render(status) + strings.Repeat(" ", pad) + loading
}

func (m Model) renderStateToggles() string {
	var parts []string
	for _, s := range store.AllStates() {
		marker := "-"
		if m.state.ActiveStates.Contains(s) {
			marker = "+"
		}
		parts = append(parts, marker+s.String())
	}
	return strings.Join(parts, " ")
}

func (m Model) renderSelectionMode() string {
	switch m.state.Messages.Mode() {
	case list.SelectionSelect:
		return "SELECT"
	case list.SelectionDeselect:
		return "DESELECT"
	default:
		return ""
	}
}
