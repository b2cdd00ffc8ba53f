// Package sqlitestore is the embedded SQL backend: a single "message"
// table in a local sqlite file, accessed through modernc.org/sqlite (a
// pure-Go driver, so this package never requires cgo).
package sqlitestore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	"github.com/canac/mailbox/internal/mailbox"
	"github.com/canac/mailbox/internal/mailerr"
	"github.com/canac/mailbox/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store is the embedded sqlite Backend.
type Store struct {
	db *sql.DB
}

// Options configures how the database file is opened.
type Options struct {
	// WAL enables write-ahead-log journaling, the production mode. Tests
	// disable it (rollback-journal mode) so writes on the same *sql.DB
	// handle are immediately visible to subsequent reads without the
	// extra WAL checkpoint machinery.
	WAL bool
}

// Open opens (creating if necessary) the sqlite database at path, creating
// its parent directory if needed, applying pragmas per opts, and running
// the embedded schema migration. The returned Store implements
// store.Backend and is safe for concurrent use by multiple goroutines
// (database/sql pools connections internally).
func Open(path string, opts Options) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, mailerr.Wrapf(mailerr.KindStorageIO, err, "create database directory %s", dir)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, mailerr.Wrapf(mailerr.KindStorageIO, err, "open database %s", path)
	}

	journalMode := "DELETE"
	if opts.WAL {
		journalMode = "WAL"
	}
	pragmas := []string{
		fmt.Sprintf("PRAGMA journal_mode=%s", journalMode),
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, mailerr.Wrapf(mailerr.KindStorageIO, err, "set pragma %q", pragma)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// migrate applies the embedded schema migration. It is idempotent: running
// it against an already-current database is a no-op.
func (s *Store) migrate() error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return mailerr.Wrapf(mailerr.KindStorageIO, err, "load embedded migrations")
	}

	dbDriver, err := sqlite3.WithInstance(s.db, &sqlite3.Config{})
	if err != nil {
		return mailerr.Wrapf(mailerr.KindStorageIO, err, "create migration driver")
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", dbDriver)
	if err != nil {
		return mailerr.Wrapf(mailerr.KindStorageIO, err, "create migrator")
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return mailerr.Wrapf(mailerr.KindStorageIO, err, "apply schema migration")
	}
	return nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// AddMessages implements store.Backend.
func (s *Store) AddMessages(ctx context.Context, messages []store.NewMessage) ([]store.Message, error) {
	if len(messages) == 0 {
		return []store.Message{}, nil
	}

	placeholders := make([]string, len(messages))
	args := make([]any, 0, len(messages)*3)
	for i, m := range messages {
		placeholders[i] = "(?, ?, ?)"
		args = append(args, m.Mailbox.String(), m.Content, m.EffectiveState().Code())
	}

	query := fmt.Sprintf(
		"INSERT INTO message (mailbox, content, state) VALUES %s RETURNING id, timestamp, mailbox, content, state",
		strings.Join(placeholders, ", "),
	)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mailerr.Wrapf(mailerr.KindStorageIO, err, "insert messages")
	}
	inserted, err := scanMessages(rows)
	if err != nil {
		return nil, err
	}

	// The engine's RETURNING row order for a multi-row INSERT is not
	// something callers should rely on; ids are assigned in insertion
	// order (ascending), which is also the caller's input order, so
	// sorting by id ascending recovers the input order regardless of how
	// RETURNING happened to stream the rows back.
	sort.Slice(inserted, func(i, j int) bool { return inserted[i].Id < inserted[j].Id })
	return inserted, nil
}

// LoadMessages implements store.Backend.
func (s *Store) LoadMessages(ctx context.Context, filter store.Filter) ([]store.Message, error) {
	pred, args := filter.SQLPredicate()
	query := fmt.Sprintf(
		"SELECT id, timestamp, mailbox, content, state FROM message WHERE %s ORDER BY id DESC",
		pred,
	)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mailerr.Wrapf(mailerr.KindStorageIO, err, "load messages")
	}
	return scanMessages(rows)
}

// ChangeState implements store.Backend.
func (s *Store) ChangeState(ctx context.Context, filter store.Filter, newState store.State) ([]store.Message, error) {
	pred, args := filter.SQLPredicate()
	query := fmt.Sprintf(
		"UPDATE message SET state = ? WHERE %s RETURNING id, timestamp, mailbox, content, state",
		pred,
	)
	rows, err := s.db.QueryContext(ctx, query, append([]any{newState.Code()}, args...)...)
	if err != nil {
		return nil, mailerr.Wrapf(mailerr.KindStorageIO, err, "change message state")
	}
	changed, err := scanMessages(rows)
	if err != nil {
		return nil, err
	}
	sortByTimestampDesc(changed)
	return changed, nil
}

// DeleteMessages implements store.Backend.
func (s *Store) DeleteMessages(ctx context.Context, filter store.Filter) ([]store.Message, error) {
	pred, args := filter.SQLPredicate()
	query := fmt.Sprintf(
		"DELETE FROM message WHERE %s RETURNING id, timestamp, mailbox, content, state",
		pred,
	)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mailerr.Wrapf(mailerr.KindStorageIO, err, "delete messages")
	}
	deleted, err := scanMessages(rows)
	if err != nil {
		return nil, err
	}
	sortByTimestampDesc(deleted)
	return deleted, nil
}

// LoadMailboxes implements store.Backend.
func (s *Store) LoadMailboxes(ctx context.Context, filter store.Filter) ([]store.MailboxInfo, error) {
	pred, args := filter.SQLPredicate()
	query := fmt.Sprintf(
		"SELECT mailbox, COUNT(*) FROM message WHERE %s GROUP BY mailbox ORDER BY mailbox ASC",
		pred,
	)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mailerr.Wrapf(mailerr.KindStorageIO, err, "load mailboxes")
	}
	defer rows.Close()

	var out []store.MailboxInfo
	for rows.Next() {
		var path string
		var count int
		if err := rows.Scan(&path, &count); err != nil {
			return nil, mailerr.Wrapf(mailerr.KindStorageIO, err, "scan mailbox row")
		}
		mb, err := mailbox.Parse(path)
		if err != nil {
			return nil, mailerr.Wrapf(mailerr.KindStorageIO, err, "stored mailbox %q is invalid", path)
		}
		out = append(out, store.MailboxInfo{Mailbox: mb, MessageCount: count})
	}
	if err := rows.Err(); err != nil {
		return nil, mailerr.Wrapf(mailerr.KindStorageIO, err, "iterate mailbox rows")
	}
	return out, nil
}

func scanMessages(rows *sql.Rows) ([]store.Message, error) {
	defer rows.Close()

	var out []store.Message
	for rows.Next() {
		var (
			id        int64
			timestamp string
			mbPath    string
			content   string
			stateCode int64
		)
		if err := rows.Scan(&id, &timestamp, &mbPath, &content, &stateCode); err != nil {
			return nil, mailerr.Wrapf(mailerr.KindStorageIO, err, "scan message row")
		}
		mb, err := mailbox.Parse(mbPath)
		if err != nil {
			return nil, mailerr.Wrapf(mailerr.KindStorageIO, err, "stored mailbox %q is invalid", mbPath)
		}
		state, err := store.StateFromCode(stateCode)
		if err != nil {
			return nil, err
		}
		ts, err := parseTimestamp(timestamp)
		if err != nil {
			return nil, mailerr.Wrapf(mailerr.KindStorageIO, err, "stored timestamp %q is invalid", timestamp)
		}
		out = append(out, store.Message{
			Id:        uint32(id),
			Timestamp: ts,
			Mailbox:   mb,
			Content:   content,
			State:     state,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, mailerr.Wrapf(mailerr.KindStorageIO, err, "iterate message rows")
	}
	return out, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	layouts := []string{
		"2006-01-02T15:04:05.000Z",
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	var lastErr error
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC(), nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, lastErr
}

func sortByTimestampDesc(messages []store.Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Timestamp.After(messages[j].Timestamp)
	})
}

var _ store.Backend = (*Store)(nil)
