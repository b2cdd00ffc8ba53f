package store

import (
	"context"
	"fmt"

	"github.com/canac/mailbox/internal/mailerr"
)

// Store is the user-facing facade: one method per Backend operation, plus
// input validation that happens before any backend call (so a malformed
// NewMessage never reaches the SQL layer or goes over the wire). It owns
// its backend by value, and is polymorphic over which Backend
// implementation it was constructed with.
type Store struct {
	backend Backend
}

// New wraps backend in a Store.
func New(backend Backend) *Store {
	return &Store{backend: backend}
}

// AddMessages validates every message, then delegates to the backend. On
// the first invalid message, no I/O is performed and that message's error
// is returned.
func (s *Store) AddMessages(ctx context.Context, messages []NewMessage) ([]Message, error) {
	for i, m := range messages {
		if err := m.Validate(); err != nil {
			return nil, mailerr.Wrapf(mailerr.KindValidation, err, "message %d", i)
		}
	}
	if len(messages) == 0 {
		return []Message{}, nil
	}
	return s.backend.AddMessages(ctx, messages)
}

// LoadMessages delegates to the backend.
func (s *Store) LoadMessages(ctx context.Context, filter Filter) ([]Message, error) {
	return s.backend.LoadMessages(ctx, filter)
}

// ChangeState delegates to the backend after validating newState.
func (s *Store) ChangeState(ctx context.Context, filter Filter, newState State) ([]Message, error) {
	if !newState.Valid() {
		return nil, mailerr.Wrap(mailerr.KindValidation, fmt.Errorf("invalid state %v", newState))
	}
	return s.backend.ChangeState(ctx, filter, newState)
}

// DeleteMessages delegates to the backend.
func (s *Store) DeleteMessages(ctx context.Context, filter Filter) ([]Message, error) {
	return s.backend.DeleteMessages(ctx, filter)
}

// LoadMailboxes delegates to the backend.
func (s *Store) LoadMailboxes(ctx context.Context, filter Filter) ([]MailboxInfo, error) {
	return s.backend.LoadMailboxes(ctx, filter)
}
