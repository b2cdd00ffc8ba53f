package sqlitestore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canac/mailbox/internal/mailbox"
	"github.com/canac/mailbox/internal/store"
	"github.com/canac/mailbox/internal/store/sqlitestore"
)

func newTestStore(t *testing.T) *sqlitestore.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mailbox.db")
	s, err := sqlitestore.Open(path, sqlitestore.Options{WAL: false})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func ptrState(s store.State) *store.State { return &s }

func TestAddAndLoad_orderingAndFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	input := []store.NewMessage{
		{Mailbox: mailbox.MustParse("m2"), Content: "x"},
		{Mailbox: mailbox.MustParse("m1"), Content: "y"},
		{Mailbox: mailbox.MustParse("m1"), Content: "z"},
	}
	added, err := s.AddMessages(ctx, input)
	require.NoError(t, err)
	require.Len(t, added, 3)
	assert.Equal(t, []string{"x", "y", "z"}, []string{added[0].Content, added[1].Content, added[2].Content})

	all, err := s.LoadMessages(ctx, store.NewFilter())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"z", "y", "x"}, []string{all[0].Content, all[1].Content, all[2].Content})

	m1, err := s.LoadMessages(ctx, store.NewFilter().WithMailbox(mailbox.MustParse("m1")))
	require.NoError(t, err)
	require.Len(t, m1, 2)
	assert.Equal(t, []string{"z", "y"}, []string{m1[0].Content, m1[1].Content})
}

func TestAddMessages_emptyInputNoOp(t *testing.T) {
	s := newTestStore(t)
	out, err := s.AddMessages(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestAddMessages_defaultsToUnread(t *testing.T) {
	s := newTestStore(t)
	added, err := s.AddMessages(context.Background(), []store.NewMessage{
		{Mailbox: mailbox.MustParse("a"), Content: "hi"},
	})
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.Equal(t, store.Unread, added[0].State)
}

func TestChangeState_returnsModifiedRows(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.AddMessages(ctx, []store.NewMessage{
		{Mailbox: mailbox.MustParse("a"), Content: "one"},
		{Mailbox: mailbox.MustParse("a"), Content: "two", State: ptrState(store.Read)},
	})
	require.NoError(t, err)

	changed, err := s.ChangeState(ctx, store.NewFilter().WithMailbox(mailbox.MustParse("a")), store.Read)
	require.NoError(t, err)
	require.Len(t, changed, 2)
	for _, m := range changed {
		assert.Equal(t, store.Read, m.State)
	}
}

func TestDeleteMessages(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	added, err := s.AddMessages(ctx, []store.NewMessage{
		{Mailbox: mailbox.MustParse("a"), Content: "one"},
	})
	require.NoError(t, err)

	deleted, err := s.DeleteMessages(ctx, store.NewFilter().WithIds(added[0].Id))
	require.NoError(t, err)
	require.Len(t, deleted, 1)

	remaining, err := s.LoadMessages(ctx, store.NewFilter())
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestLoadMailboxes_aggregation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.AddMessages(ctx, []store.NewMessage{
		{Mailbox: mailbox.MustParse("a"), Content: "1"},
		{Mailbox: mailbox.MustParse("a/b"), Content: "2"},
		{Mailbox: mailbox.MustParse("c"), Content: "3"},
		{Mailbox: mailbox.MustParse("a"), Content: "4"},
	})
	require.NoError(t, err)

	infos, err := s.LoadMailboxes(ctx, store.NewFilter())
	require.NoError(t, err)
	require.Len(t, infos, 3)
	assert.Equal(t, "a", infos[0].Mailbox.String())
	assert.Equal(t, 2, infos[0].MessageCount)
	assert.Equal(t, "a/b", infos[1].Mailbox.String())
	assert.Equal(t, "c", infos[2].Mailbox.String())
}

func TestContentValidation_rejectedBeforeBackend(t *testing.T) {
	facade := store.New(newTestStore(t))
	_, err := facade.AddMessages(context.Background(), []store.NewMessage{
		{Mailbox: mailbox.MustParse("a"), Content: ""},
	})
	assert.Error(t, err)
}
