package app_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canac/mailbox/internal/mailbox"
	"github.com/canac/mailbox/internal/store"
	"github.com/canac/mailbox/internal/tui/app"
)

func TestSynthesizeMailboxTree_ancestorsAndSorting(t *testing.T) {
	rows := app.SynthesizeMailboxTree([]store.MailboxInfo{
		{Mailbox: mailbox.MustParse("a/b/c"), MessageCount: 2},
		{Mailbox: mailbox.MustParse("a"), MessageCount: 1},
		{Mailbox: mailbox.MustParse("z"), MessageCount: 5},
	})

	require.Len(t, rows, 4) // a, a/b, a/b/c, z
	assert.Equal(t, "a", rows[0].Mailbox.String())
	assert.Equal(t, 3, rows[0].MessageCount) // 1 own + 2 from descendant leaf
	assert.Equal(t, 0, rows[0].Depth())
	assert.Equal(t, "a/b", rows[1].Mailbox.String())
	assert.Equal(t, 2, rows[1].MessageCount)
	assert.Equal(t, 1, rows[1].Depth())
	assert.Equal(t, "a/b/c", rows[2].Mailbox.String())
	assert.Equal(t, "z", rows[3].Mailbox.String())
}

func newMessage(id uint32, mb string, state store.State) store.Message {
	return store.Message{Id: id, Mailbox: mailbox.MustParse(mb), Content: "x", State: state}
}

func TestDisplayFilter_usesCursorMailboxAndActiveStates(t *testing.T) {
	s := app.NewState()
	s.ReplaceMailboxes([]store.MailboxInfo{{Mailbox: mailbox.MustParse("a/b"), MessageCount: 1}})
	s.Mailboxes.SetCursor(1) // a/b

	f := s.DisplayFilter()
	assert.True(t, f.HasMailbox())
	assert.Equal(t, "a/b", f.Mailbox().String())
}

func TestActionFilter_prefersSelectionOverCursor(t *testing.T) {
	s := app.NewState()
	s.ReplaceMessages([]store.Message{
		newMessage(1, "a", store.Unread),
		newMessage(2, "a", store.Unread),
	})
	s.Messages.SetCursor(0)

	// No selection: falls back to cursor message.
	f := s.ActionFilter()
	ids, ok := f.Ids()
	require.True(t, ok)
	assert.Equal(t, []uint32{1}, ids)

	s.Messages.ToggleCursorSelected()
	s.Messages.SetCursor(1)
	s.Messages.ToggleCursorSelected()

	f = s.ActionFilter()
	ids, ok = f.Ids()
	require.True(t, ok)
	assert.ElementsMatch(t, []uint32{1, 2}, ids)
}

func TestApplyStateChange_removesMessageThatLeavesActiveStateFilter(t *testing.T) {
	s := app.NewState()
	s.ActiveStates = store.NewStateSet(store.Unread)
	s.ReplaceMailboxes([]store.MailboxInfo{{Mailbox: mailbox.MustParse("a"), MessageCount: 1}})
	s.ReplaceMessages([]store.Message{newMessage(1, "a", store.Unread)})
	s.Messages.SetCursor(0)

	refresh := s.SetSelectedMessageStates(store.Archived)

	assert.Empty(t, s.Messages.Items())
	assert.False(t, refresh, "no mailbox cursor was set, so nothing can have vanished")
}

func TestApplyStateChange_refreshesWhenCursorMailboxVanishes(t *testing.T) {
	s := app.NewState()
	s.ActiveStates = store.NewStateSet(store.Unread)
	s.ReplaceMailboxes([]store.MailboxInfo{{Mailbox: mailbox.MustParse("a"), MessageCount: 1}})
	s.Mailboxes.SetCursor(0) // a
	s.ReplaceMessages([]store.Message{newMessage(1, "a", store.Unread)})
	s.Messages.SetCursor(0)

	refresh := s.SetSelectedMessageStates(store.Archived)

	assert.Empty(t, s.Messages.Items())
	assert.Empty(t, s.Mailboxes.Items(), "mailbox a's count reached zero and should be dropped")
	assert.True(t, refresh)
}

func TestApplyDelete_decrementsAncestorCounts(t *testing.T) {
	s := app.NewState()
	s.ReplaceMailboxes([]store.MailboxInfo{
		{Mailbox: mailbox.MustParse("a/b"), MessageCount: 1},
		{Mailbox: mailbox.MustParse("a/c"), MessageCount: 1},
	})
	s.ReplaceMessages([]store.Message{
		newMessage(1, "a/b", store.Unread),
		newMessage(2, "a/c", store.Unread),
	})
	s.Messages.SetCursor(0)

	s.DeleteSelectedMessages()

	assert.Len(t, s.Messages.Items(), 1)
	var remainingMailboxes []string
	for _, row := range s.Mailboxes.Items() {
		remainingMailboxes = append(remainingMailboxes, row.Mailbox.String())
	}
	assert.ElementsMatch(t, []string{"a", "a/c"}, remainingMailboxes)
}

func TestCanNavigateLocally(t *testing.T) {
	s := app.NewState()
	s.ReplaceMailboxes([]store.MailboxInfo{
		{Mailbox: mailbox.MustParse("a/b"), MessageCount: 1},
		{Mailbox: mailbox.MustParse("c"), MessageCount: 1},
	})
	s.Mailboxes.SetCursor(0) // a
	s.ReplaceMessages(nil)   // records lastMailbox = a

	assert.True(t, s.CanNavigateLocally(mailbox.MustParse("a/b")))
	assert.False(t, s.CanNavigateLocally(mailbox.MustParse("c")))
}
