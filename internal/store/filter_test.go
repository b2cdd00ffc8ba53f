package store_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canac/mailbox/internal/mailbox"
	"github.com/canac/mailbox/internal/store"
)

func TestFilter_MatchesAll(t *testing.T) {
	assert.True(t, store.NewFilter().MatchesAll())
	assert.False(t, store.NewFilter().WithIds(1).MatchesAll())
	assert.False(t, store.NewFilter().WithMailbox(mailbox.MustParse("a")).MatchesAll())
	assert.False(t, store.NewFilter().WithStates(store.Unread).MatchesAll())
}

func TestFilter_MatchesMessage_mailboxSubtree(t *testing.T) {
	f := store.NewFilter().WithMailbox(mailbox.MustParse("a/b"))
	msg := func(mb string) store.Message {
		return store.Message{Mailbox: mailbox.MustParse(mb)}
	}
	assert.True(t, f.MatchesMessage(msg("a/b")))
	assert.True(t, f.MatchesMessage(msg("a/b/c")))
	assert.False(t, f.MatchesMessage(msg("a/bc")))
	assert.False(t, f.MatchesMessage(msg("a")))
}

func TestFilter_MatchesMessage_allConstraints(t *testing.T) {
	f := store.NewFilter().
		WithIds(1, 2).
		WithMailbox(mailbox.MustParse("a")).
		WithStates(store.Unread)

	match := store.Message{Id: 1, Mailbox: mailbox.MustParse("a/b"), State: store.Unread}
	assert.True(t, f.MatchesMessage(match))

	wrongID := match
	wrongID.Id = 3
	assert.False(t, f.MatchesMessage(wrongID))

	wrongMailbox := match
	wrongMailbox.Mailbox = mailbox.MustParse("c")
	assert.False(t, f.MatchesMessage(wrongMailbox))

	wrongState := match
	wrongState.State = store.Read
	assert.False(t, f.MatchesMessage(wrongState))
}

func TestFilter_EmptyStatesMatchesNothing(t *testing.T) {
	f := store.NewFilter().WithStates()
	assert.False(t, f.MatchesMessage(store.Message{State: store.Unread}))
	pred, args := f.SQLPredicate()
	assert.Equal(t, "1=0", pred)
	assert.Nil(t, args)
}

func TestFilter_URLRoundTrip(t *testing.T) {
	f := store.NewFilter().
		WithIds(1, 2, 3).
		WithMailbox(mailbox.MustParse("foo")).
		WithStates(store.Unread, store.Read)

	encoded := f.Encode()
	assert.Equal(t, "ids=1%2C2%2C3&mailbox=foo&states=unread%2Cread", encoded)

	values, err := url.ParseQuery(encoded)
	require.NoError(t, err)

	decoded, err := store.ParseFilter(values)
	require.NoError(t, err)
	assert.True(t, f.Equal(decoded))
}

func TestFilter_ParseRejectsBadState(t *testing.T) {
	values, err := url.ParseQuery("states=unread,foo")
	require.NoError(t, err)
	_, err = store.ParseFilter(values)
	assert.Error(t, err)
}

func TestFilter_EmptyStatesFieldDistinctFromAbsent(t *testing.T) {
	values, err := url.ParseQuery("states=")
	require.NoError(t, err)
	f, err := store.ParseFilter(values)
	require.NoError(t, err)
	set, present := f.States()
	require.True(t, present)
	assert.Empty(t, set)

	noValues, err := url.ParseQuery("")
	require.NoError(t, err)
	f2, err := store.ParseFilter(noValues)
	require.NoError(t, err)
	_, present2 := f2.States()
	assert.False(t, present2)
}

func TestFilter_SQLPredicate_unconstrained(t *testing.T) {
	pred, args := store.NewFilter().SQLPredicate()
	assert.Equal(t, "1=1", pred)
	assert.Empty(t, args)
}
