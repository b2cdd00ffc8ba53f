package render

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/canac/mailbox/internal/store"
)

var unreadLineStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))

// Options controls how FormatMessage renders a single message line.
type Options struct {
	Color          bool
	TimestampMode  TimestampMode
	FullOutput     bool
	ContentColumns int
	Now            time.Time
}

// FormatMessage renders a single message as one line (or the full content
// unwrapped when FullOutput is set): "[state] timestamp mailbox: content".
func FormatMessage(m store.Message, opts Options) string {
	ts := FormatTimestamp(m.Timestamp, opts.TimestampMode, opts.Now)
	content := m.Content
	if !opts.FullOutput && opts.ContentColumns > 0 {
		content, _ = Truncate(content, opts.ContentColumns)
	}

	line := fmt.Sprintf("[%s] %s %s: %s", m.State, ts, m.Mailbox, content)
	if !opts.Color {
		return line
	}
	return colorize(m.State, line)
}

func colorize(state store.State, line string) string {
	if state == store.Unread {
		return unreadLineStyle.Render(line)
	}
	return line
}
