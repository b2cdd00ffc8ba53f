package server_test

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canac/mailbox/internal/mailbox"
	"github.com/canac/mailbox/internal/server"
	"github.com/canac/mailbox/internal/store"
	"github.com/canac/mailbox/internal/store/httpstore"
	"github.com/canac/mailbox/internal/store/sqlitestore"
)

func newTestServer(t *testing.T, opts ...server.Option) *httptest.Server {
	t.Helper()
	backend, err := sqlitestore.Open(filepath.Join(t.TempDir(), "mailbox.db"), sqlitestore.Options{WAL: false})
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	srv := server.New(store.New(backend), opts...)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts
}

func TestServer_DeleteWithoutFilterRejected(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/messages", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_CORSHeaderPresent(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/messages")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestServer_AuthGate(t *testing.T) {
	ts := newTestServer(t, server.WithToken("secret"))

	resp, err := http.Get(ts.URL + "/messages")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/messages", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer secret")
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
}

func TestHTTPStore_RoundTripsThroughServer(t *testing.T) {
	ts := newTestServer(t)
	client := httpstore.New(ts.URL, "")
	facade := store.New(client)
	ctx := t.Context()

	added, err := facade.AddMessages(ctx, []store.NewMessage{
		{Mailbox: mailbox.MustParse("a/b"), Content: "hello"},
	})
	require.NoError(t, err)
	require.Len(t, added, 1)

	loaded, err := facade.LoadMessages(ctx, store.NewFilter())
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "hello", loaded[0].Content)

	changed, err := facade.ChangeState(ctx, store.NewFilter().WithIds(added[0].Id), store.Archived)
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.Equal(t, store.Archived, changed[0].State)

	mailboxes, err := facade.LoadMailboxes(ctx, store.NewFilter())
	require.NoError(t, err)
	require.Len(t, mailboxes, 1)
	assert.Equal(t, 1, mailboxes[0].MessageCount)

	deleted, err := facade.DeleteMessages(ctx, store.NewFilter().WithIds(added[0].Id))
	require.NoError(t, err)
	require.Len(t, deleted, 1)
}

func TestHTTPStore_NonOKWrapsURLStatusBody(t *testing.T) {
	ts := newTestServer(t)
	client := httpstore.New(ts.URL, "")
	_, err := client.DeleteMessages(t.Context(), store.NewFilter())
	require.Error(t, err)
	assert.Contains(t, err.Error(), ts.URL)
	assert.Contains(t, err.Error(), "400")
}
