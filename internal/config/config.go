// Package config loads and resolves the TOML configuration file: which
// backend to talk to, and the per-mailbox state overrides applied on
// import.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/canac/mailbox/internal/mailbox"
	"github.com/canac/mailbox/internal/mailerr"
	"github.com/canac/mailbox/internal/store"
)

// Provider selects which Backend implementation the CLI and TUI talk to.
type Provider string

const (
	ProviderSQLite Provider = "sqlite"
	ProviderHTTP   Provider = "http"
)

// DatabaseConfig is the [database] table.
type DatabaseConfig struct {
	Provider Provider `toml:"provider"`
	URL      string   `toml:"url,omitempty"`
	Token    string   `toml:"token,omitempty"`
}

// Config is the full decoded configuration file.
type Config struct {
	Database  DatabaseConfig    `toml:"database"`
	Overrides map[string]string `toml:"overrides,omitempty"`
}

// Default returns the configuration used when no file is present: an
// embedded sqlite database at the conventional path, no overrides.
func Default() Config {
	return Config{Database: DatabaseConfig{Provider: ProviderSQLite}}
}

// Validate checks the decoded config's invariants: a known provider, a URL
// present for the http provider, every override key a valid mailbox, and
// every override value a single state ("unread"|"read"|"archived") or
// "ignored".
func (c Config) Validate() error {
	switch c.Database.Provider {
	case ProviderSQLite:
	case ProviderHTTP:
		if c.Database.URL == "" {
			return mailerr.Wrap(mailerr.KindValidation, fmt.Errorf("database.url is required for the http provider"))
		}
	default:
		return mailerr.Wrap(mailerr.KindValidation, fmt.Errorf("unknown database.provider %q", c.Database.Provider))
	}

	for path, value := range c.Overrides {
		if _, err := mailbox.Parse(path); err != nil {
			return mailerr.Wrapf(mailerr.KindValidation, err, "override key %q", path)
		}
		if _, err := ParseOverrideValue(value); err != nil {
			return mailerr.Wrapf(mailerr.KindValidation, err, "override value for %q", path)
		}
	}
	return nil
}

// Load reads and decodes the TOML file at path. A missing file is not an
// error; Default is returned instead, matching the CLI's "works out of the
// box with no config" behavior.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, mailerr.Wrap(mailerr.KindStorageIO, fmt.Errorf("reading config %s: %w", path, err))
	}

	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, mailerr.Wrap(mailerr.KindValidation, fmt.Errorf("parsing config %s: %w", path, err))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save encodes cfg as TOML and writes it to path, creating parent
// directories as needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return mailerr.Wrap(mailerr.KindStorageIO, fmt.Errorf("creating config directory: %w", err))
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return mailerr.Wrap(mailerr.KindStorageIO, fmt.Errorf("encoding config: %w", err))
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return mailerr.Wrap(mailerr.KindStorageIO, fmt.Errorf("writing config %s: %w", path, err))
	}
	return nil
}

// DefaultPath returns the conventional per-user config file location
// ($XDG_CONFIG_HOME or ~/.config on Unix, via os.UserConfigDir)
// joined with the application's config directory and filename.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", mailerr.Wrap(mailerr.KindStorageIO, fmt.Errorf("locating config directory: %w", err))
	}
	return filepath.Join(dir, "mailbox", "config.toml"), nil
}

// DefaultDatabasePath returns the conventional per-user database file
// location, alongside the config file.
func DefaultDatabasePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", mailerr.Wrap(mailerr.KindStorageIO, fmt.Errorf("locating data directory: %w", err))
	}
	return filepath.Join(dir, "mailbox", "mailbox.db"), nil
}

// DefaultLogPath returns the conventional per-user log file location,
// alongside the config file. The TUI writes here instead of stderr since
// its alternate screen owns the terminal while it runs.
func DefaultLogPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", mailerr.Wrap(mailerr.KindStorageIO, fmt.Errorf("locating log directory: %w", err))
	}
	return filepath.Join(dir, "mailbox", "mailbox.log"), nil
}

// overrideIgnored is the sentinel override value dropping a message on
// import, distinct from every State's textual codec.
const overrideIgnored = "ignored"

// ParseOverrideValue decodes an [overrides] table value: a State's textual
// form, or "ignored".
func ParseOverrideValue(value string) (OverrideAction, error) {
	if value == overrideIgnored {
		return OverrideAction{Ignored: true}, nil
	}
	state, err := store.ParseState(value)
	if err != nil {
		return OverrideAction{}, mailerr.Wrap(mailerr.KindValidation, fmt.Errorf("invalid override value %q", value))
	}
	return OverrideAction{State: state}, nil
}

// OverrideAction is the decoded effect of an [overrides] entry: either a
// forced initial state, or "ignored" (drop the message entirely).
type OverrideAction struct {
	Ignored bool
	State   store.State
}

// Overrides wraps the raw config table with longest-mailbox-prefix
// resolution for import.
type Overrides struct {
	entries map[mailbox.Mailbox]OverrideAction
}

// NewOverrides parses the raw [overrides] table into a resolver. Invalid
// entries are rejected by Config.Validate before this is ever called, so
// parse errors here are treated as programmer error.
func NewOverrides(raw map[string]string) (Overrides, error) {
	entries := make(map[mailbox.Mailbox]OverrideAction, len(raw))
	for path, value := range raw {
		mb, err := mailbox.Parse(path)
		if err != nil {
			return Overrides{}, err
		}
		action, err := ParseOverrideValue(value)
		if err != nil {
			return Overrides{}, err
		}
		entries[mb] = action
	}
	return Overrides{entries: entries}, nil
}

// Resolve finds the longest-prefix override applicable to mb, if any: the
// override on mb itself, or on its closest configured ancestor.
func (o Overrides) Resolve(mb mailbox.Mailbox) (OverrideAction, bool) {
	ancestors := mb.Ancestors()
	for i := len(ancestors) - 1; i >= 0; i-- {
		if action, ok := o.entries[ancestors[i]]; ok {
			return action, true
		}
	}
	return OverrideAction{}, false
}

// String renders the override table back to its TOML key form, one
// `"mailbox" = "value"` line per entry in map iteration order.
func (o Overrides) String() string {
	var b strings.Builder
	for mb, action := range o.entries {
		value := overrideIgnored
		if !action.Ignored {
			value = action.State.String()
		}
		fmt.Fprintf(&b, "%q = %q\n", mb.String(), value)
	}
	return b.String()
}
