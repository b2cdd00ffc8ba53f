package worker_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/canac/mailbox/internal/mailbox"
	"github.com/canac/mailbox/internal/store"
	"github.com/canac/mailbox/internal/store/sqlitestore"
	"github.com/canac/mailbox/internal/tui/worker"
)

func newTestWorker(t *testing.T) (*worker.Worker, *store.Store) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mailbox.db")
	backend, err := sqlitestore.Open(path, sqlitestore.Options{WAL: false})
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	st := store.New(backend)
	w := worker.New(st, nil)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go w.Run(ctx)
	t.Cleanup(func() { close(w.Requests()) })

	return w, st
}

func recvResponse(t *testing.T, w *worker.Worker) worker.Response {
	t.Helper()
	select {
	case resp := <-w.Responses():
		return resp
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for worker response")
		return worker.Response{}
	}
}

func TestWorker_initialLoadFansOutBothQueries(t *testing.T) {
	w, st := newTestWorker(t)
	ctx := context.Background()

	_, err := st.AddMessages(ctx, []store.NewMessage{
		{Mailbox: mailbox.MustParse("a"), Content: "hello"},
	})
	require.NoError(t, err)

	w.Requests() <- worker.Request{Kind: worker.KindInitialLoad}

	var sawMessages, sawMailboxes bool
	for i := 0; i < 2; i++ {
		resp := recvResponse(t, w)
		switch resp.Kind {
		case worker.ResponseMessages:
			sawMessages = true
			require.Len(t, resp.Messages, 1)
		case worker.ResponseMailboxes:
			sawMailboxes = true
			require.Len(t, resp.Mailboxes, 1)
		default:
			t.Fatalf("unexpected response kind %v", resp.Kind)
		}
	}
	require.True(t, sawMessages)
	require.True(t, sawMailboxes)
}

func TestWorker_staleLoadIsDropped(t *testing.T) {
	w, _ := newTestWorker(t)

	// Two loads issued back to back; only the second's response should ever
	// arrive, since by the time the first's query returns, the counter has
	// already moved on.
	w.Requests() <- worker.Request{Kind: worker.KindLoadMessages}
	w.Requests() <- worker.Request{Kind: worker.KindLoadMessages}

	resp := recvResponse(t, w)
	require.Equal(t, worker.ResponseMessages, resp.Kind)

	select {
	case extra := <-w.Responses():
		t.Fatalf("expected exactly one response, got a second: %+v", extra)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWorker_changeStateEmitsRefreshWhenRequested(t *testing.T) {
	w, st := newTestWorker(t)
	ctx := context.Background()

	added, err := st.AddMessages(ctx, []store.NewMessage{
		{Mailbox: mailbox.MustParse("a"), Content: "hello"},
	})
	require.NoError(t, err)

	w.Requests() <- worker.Request{
		Kind:     worker.KindChangeMessageStates,
		Filter:   store.NewFilter().WithIds(added[0].Id),
		NewState: store.Read,
		Refresh:  true,
	}

	resp := recvResponse(t, w)
	require.Equal(t, worker.ResponseRefresh, resp.Kind)
}

func TestWorker_deleteWithoutRefreshEmitsNothing(t *testing.T) {
	w, st := newTestWorker(t)
	ctx := context.Background()

	added, err := st.AddMessages(ctx, []store.NewMessage{
		{Mailbox: mailbox.MustParse("a"), Content: "hello"},
	})
	require.NoError(t, err)

	w.Requests() <- worker.Request{
		Kind:   worker.KindDeleteMessages,
		Filter: store.NewFilter().WithIds(added[0].Id),
	}

	select {
	case resp := <-w.Responses():
		t.Fatalf("expected no response without Refresh, got %+v", resp)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWorker_pendingCountTracksInFlightRequests(t *testing.T) {
	w, _ := newTestWorker(t)

	w.Requests() <- worker.Request{Kind: worker.KindLoadMessages}
	recvResponse(t, w)

	require.Eventually(t, func() bool {
		return w.PendingCount() == 0
	}, time.Second, 10*time.Millisecond)
}
