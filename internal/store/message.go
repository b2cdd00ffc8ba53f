package store

import (
	"fmt"
	"time"

	"github.com/canac/mailbox/internal/mailbox"
	"github.com/canac/mailbox/internal/mailerr"
)

// Message is a persisted notification. Identity is Id; every field but
// State is immutable once inserted.
type Message struct {
	Id        uint32         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Mailbox   mailbox.Mailbox `json:"mailbox"`
	Content   string         `json:"content"`
	State     State          `json:"state"`
}

// NewMessage is the pending shape accepted by add_messages. State is
// optional; a missing state defaults to Unread at insert.
type NewMessage struct {
	Mailbox mailbox.Mailbox `json:"mailbox"`
	Content string         `json:"content"`
	State   *State         `json:"state,omitempty"`
}

// Key identifies the message by id, satisfying list.Keyed so a Message can
// live directly in a NavigableList/MultiselectList.
func (m Message) Key() uint32 {
	return m.Id
}

// EffectiveState returns the message's state, defaulting to Unread.
func (m NewMessage) EffectiveState() State {
	if m.State == nil {
		return Unread
	}
	return *m.State
}

// Validate checks the invariants required before a NewMessage is handed to
// a Backend: non-empty content, and (if present) a valid state.
func (m NewMessage) Validate() error {
	if m.Content == "" {
		return mailerr.Wrap(mailerr.KindValidation, fmt.Errorf("message content must not be empty"))
	}
	if m.Mailbox.IsZero() {
		return mailerr.Wrap(mailerr.KindValidation, fmt.Errorf("message mailbox must not be empty"))
	}
	if m.State != nil && !m.State.Valid() {
		return mailerr.Wrap(mailerr.KindValidation, fmt.Errorf("invalid state %v", *m.State))
	}
	return nil
}

// MailboxInfo is the aggregation result from load_mailboxes: one row per
// distinct stored mailbox, with the count of messages matching the query
// filter under that mailbox.
type MailboxInfo struct {
	Mailbox      mailbox.Mailbox `json:"name"`
	MessageCount int             `json:"message_count"`
}
