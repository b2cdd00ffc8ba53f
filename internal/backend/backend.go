// Package backend resolves a config.Config's database section into a live
// store.Backend, shared by the CLI and the HTTP server entrypoint so the
// two never disagree about what "sqlite" or "http" means.
package backend

import (
	"fmt"
	"io"

	"github.com/canac/mailbox/internal/config"
	"github.com/canac/mailbox/internal/mailerr"
	"github.com/canac/mailbox/internal/store"
	"github.com/canac/mailbox/internal/store/httpstore"
	"github.com/canac/mailbox/internal/store/sqlitestore"
)

// Open connects the Backend described by cfg.Database. For the sqlite
// provider, the returned io.Closer closes the underlying database file; for
// the http provider it is a no-op closer, since the client owns no
// persistent resource.
func Open(cfg config.Config) (store.Backend, io.Closer, error) {
	switch cfg.Database.Provider {
	case config.ProviderSQLite:
		path := cfg.Database.URL
		if path == "" {
			var err error
			path, err = config.DefaultDatabasePath()
			if err != nil {
				return nil, nil, err
			}
		}
		st, err := sqlitestore.Open(path, sqlitestore.Options{WAL: true})
		if err != nil {
			return nil, nil, err
		}
		return st, st, nil
	case config.ProviderHTTP:
		return httpstore.New(cfg.Database.URL, cfg.Database.Token), nopCloser{}, nil
	default:
		return nil, nil, mailerr.Wrap(mailerr.KindValidation, fmt.Errorf("unknown database provider %q", cfg.Database.Provider))
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
