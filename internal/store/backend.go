package store

import "context"

// Backend is the five-operation contract both the embedded sqlite store
// and the remote HTTP client implement. Every operation may block on I/O
// and fails with a mailerr-classified error (validation, storage, or
// transport, depending on the implementation).
type Backend interface {
	// AddMessages inserts messages and returns them with assigned Id and
	// Timestamp, in the same order as the input. An empty input returns an
	// empty output without performing any I/O.
	AddMessages(ctx context.Context, messages []NewMessage) ([]Message, error)

	// LoadMessages returns messages matching filter, newest-id-first. An
	// unconstrained filter returns every row.
	LoadMessages(ctx context.Context, filter Filter) ([]Message, error)

	// ChangeState sets the state of every message matching filter and
	// returns the modified rows, timestamp-descending. Rows already at the
	// target state are still returned.
	ChangeState(ctx context.Context, filter Filter, newState State) ([]Message, error)

	// DeleteMessages deletes every message matching filter and returns the
	// deleted rows, timestamp-descending.
	DeleteMessages(ctx context.Context, filter Filter) ([]Message, error)

	// LoadMailboxes returns distinct mailboxes (among messages matching
	// filter) with per-mailbox counts, sorted by mailbox name ascending.
	LoadMailboxes(ctx context.Context, filter Filter) ([]MailboxInfo, error)
}
