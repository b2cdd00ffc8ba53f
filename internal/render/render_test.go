package render_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canac/mailbox/internal/mailbox"
	"github.com/canac/mailbox/internal/render"
	"github.com/canac/mailbox/internal/store"
)

func TestTruncate_shortStringUnchanged(t *testing.T) {
	out, width := render.Truncate("hello", 10)
	assert.Equal(t, "hello", out)
	assert.Equal(t, 5, width)
}

func TestTruncate_longStringGetsEllipsis(t *testing.T) {
	out, width := render.Truncate("hello, world", 6)
	assert.Equal(t, "hello…", out)
	assert.Equal(t, 6, width)
}

func TestTruncate_zeroWidth(t *testing.T) {
	out, width := render.Truncate("hello", 0)
	assert.Equal(t, "", out)
	assert.Equal(t, 0, width)
}

func TestParseTimestampMode(t *testing.T) {
	_, err := render.ParseTimestampMode("relative")
	require.NoError(t, err)
	_, err = render.ParseTimestampMode("nonsense")
	assert.Error(t, err)
}

func TestFormatTimestamp_relative(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	five := now.Add(-5 * time.Minute)
	assert.Equal(t, "5 minutes ago", render.FormatTimestamp(five, render.TimestampRelative, now))

	justNow := now.Add(-2 * time.Second)
	assert.Equal(t, "just now", render.FormatTimestamp(justNow, render.TimestampRelative, now))
}

func TestFormatTimestamp_utc(t *testing.T) {
	ts := time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-08-01T12:30:00Z", render.FormatTimestamp(ts, render.TimestampUTC, time.Time{}))
}

func TestFormatMessage_truncatesContentUnlessFullOutput(t *testing.T) {
	m := store.Message{
		Timestamp: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Mailbox:   mailbox.MustParse("a/b"),
		Content:   "a very long message body that exceeds the column budget",
		State:     store.Unread,
	}
	opts := render.Options{TimestampMode: render.TimestampUTC, ContentColumns: 10, Now: time.Now()}
	line := render.FormatMessage(m, opts)
	assert.Contains(t, line, "…")

	opts.FullOutput = true
	full := render.FormatMessage(m, opts)
	assert.Contains(t, full, m.Content)
}
