// Package worker implements the TUI's background request queue: a single
// goroutine serializes incoming requests off one channel, and spawns an
// async task per request so that, e.g., InitialLoad's two queries run
// concurrently. Responses are serialized onto one output channel; stale
// load responses (per internal/tui/counter) are silently dropped.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/canac/mailbox/internal/store"
	"github.com/canac/mailbox/internal/tui/counter"
)

// RequestKind distinguishes the five request shapes the worker accepts.
type RequestKind int

const (
	KindInitialLoad RequestKind = iota
	KindLoadMessages
	KindLoadMailboxes
	KindChangeMessageStates
	KindDeleteMessages
)

// Request is sent on the worker's input channel. Only the fields relevant
// to Kind are read.
type Request struct {
	Kind     RequestKind
	Filter   store.Filter
	NewState store.State
	// Refresh, for mutation requests, tells the worker to emit a Refresh
	// response once the mutation completes (see ResponseKind).
	Refresh bool
}

// ResponseKind distinguishes the shapes sent on the worker's output
// channel.
type ResponseKind int

const (
	ResponseMessages ResponseKind = iota
	ResponseMailboxes
	ResponseRefresh
	ResponseError
)

// Response is received on the worker's output channel.
type Response struct {
	Kind      ResponseKind
	Messages  []store.Message
	Mailboxes []store.MailboxInfo
	Err       error
}

// Worker serializes Store calls off a request channel, running each on its
// own goroutine, and tracks how many are in flight for the UI's loading
// indicator.
type Worker struct {
	store *store.Store

	requests  chan Request
	responses chan Response

	messageCounter  counter.Counter
	mailboxCounter  counter.Counter
	pendingRequests sync.WaitGroup
	pendingCount    atomic.Int64

	logger *slog.Logger
}

// New builds a Worker over st. Call Run in its own goroutine to start
// serving requests; send on Requests() to enqueue work, and read
// Responses() for results. Closing the Requests() channel causes Run to
// return once in-flight work drains.
func New(st *store.Store, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		store:     st,
		requests:  make(chan Request),
		responses: make(chan Response),
		logger:    logger,
	}
}

// Requests returns the channel used to enqueue work.
func (w *Worker) Requests() chan<- Request {
	return w.requests
}

// Responses returns the channel the UI polls non-blockingly each tick.
func (w *Worker) Responses() <-chan Response {
	return w.responses
}

// PendingCount returns the number of in-flight requests, for the UI's
// loading indicator.
func (w *Worker) PendingCount() int64 {
	return w.pendingCount.Load()
}

// Run is the worker's main loop: it owns the request channel and, for
// every request received, spawns a goroutine to handle it, incrementing
// and decrementing PendingCount around the handler's I/O. Run returns when
// the UI closes the requests channel (graceful shutdown) after every
// spawned handler has finished.
func (w *Worker) Run(ctx context.Context) {
	for req := range w.requests {
		// Stamp load requests with their counter value here, synchronously
		// in dispatch order, before the handler goroutine is even spawned.
		// If the increment happened inside the goroutine instead, the
		// scheduler could run two handlers' Next() calls out of issue
		// order and defeat the staleness check entirely.
		var loadID uint64
		switch req.Kind {
		case KindLoadMessages, KindInitialLoad:
			loadID = w.messageCounter.Next()
		}
		var mailboxLoadID uint64
		switch req.Kind {
		case KindLoadMailboxes, KindInitialLoad:
			mailboxLoadID = w.mailboxCounter.Next()
		}

		w.pendingRequests.Add(1)
		w.pendingCount.Add(1)
		go func(req Request, loadID, mailboxLoadID uint64) {
			defer w.pendingRequests.Done()
			defer w.pendingCount.Add(-1)
			w.handle(ctx, req, loadID, mailboxLoadID)
		}(req, loadID, mailboxLoadID)
	}
	w.pendingRequests.Wait()
	close(w.responses)
}

func (w *Worker) handle(ctx context.Context, req Request, loadID, mailboxLoadID uint64) {
	switch req.Kind {
	case KindInitialLoad:
		w.handleInitialLoad(ctx, loadID, mailboxLoadID)
	case KindLoadMessages:
		w.handleLoadMessages(ctx, req.Filter, loadID)
	case KindLoadMailboxes:
		w.handleLoadMailboxes(ctx, req.Filter, mailboxLoadID)
	case KindChangeMessageStates:
		w.handleMutation(ctx, req.Refresh, func() error {
			_, err := w.store.ChangeState(ctx, req.Filter, req.NewState)
			return err
		})
	case KindDeleteMessages:
		w.handleMutation(ctx, req.Refresh, func() error {
			_, err := w.store.DeleteMessages(ctx, req.Filter)
			return err
		})
	}
}

func (w *Worker) handleInitialLoad(ctx context.Context, loadID, mailboxLoadID uint64) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		w.handleLoadMessages(ctx, store.NewFilter(), loadID)
	}()
	go func() {
		defer wg.Done()
		w.handleLoadMailboxes(ctx, store.NewFilter(), mailboxLoadID)
	}()
	wg.Wait()
}

func (w *Worker) handleLoadMessages(ctx context.Context, filter store.Filter, id uint64) {
	messages, err := w.store.LoadMessages(ctx, filter)
	if w.messageCounter.IsStale(id) {
		w.logger.Debug("dropping stale message load response")
		return
	}
	if err != nil {
		w.emit(Response{Kind: ResponseError, Err: err})
		return
	}
	w.emit(Response{Kind: ResponseMessages, Messages: messages})
}

func (w *Worker) handleLoadMailboxes(ctx context.Context, filter store.Filter, id uint64) {
	mailboxes, err := w.store.LoadMailboxes(ctx, filter)
	if w.mailboxCounter.IsStale(id) {
		w.logger.Debug("dropping stale mailbox load response")
		return
	}
	if err != nil {
		w.emit(Response{Kind: ResponseError, Err: err})
		return
	}
	w.emit(Response{Kind: ResponseMailboxes, Mailboxes: mailboxes})
}

func (w *Worker) handleMutation(ctx context.Context, refresh bool, fn func() error) {
	if err := fn(); err != nil {
		w.emit(Response{Kind: ResponseError, Err: err})
		return
	}
	if refresh {
		w.emit(Response{Kind: ResponseRefresh})
	}
}

func (w *Worker) emit(resp Response) {
	w.responses <- resp
}
