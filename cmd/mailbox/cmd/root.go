// Package cmd implements the mailbox CLI: one file per subcommand group,
// following the pack's cobra convention of package-level `var xCmd =
// &cobra.Command{...}` values wired together in init().
package cmd

import (
	"context"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/canac/mailbox/internal/backend"
	"github.com/canac/mailbox/internal/config"
	"github.com/canac/mailbox/internal/mailbox"
	"github.com/canac/mailbox/internal/mailerr"
	"github.com/canac/mailbox/internal/render"
	"github.com/canac/mailbox/internal/store"
)

var globalFlags struct {
	configPath      string
	color           bool
	noColor         bool
	timestampFormat string
}

var rootCmd = &cobra.Command{
	Use:   "mailbox",
	Short: "A personal notification inbox",
	Long: `mailbox is a personal notification inbox: pipe structured messages into
named, hierarchical mailboxes from scripts and cron jobs, then browse,
triage, and clear them from the command line or an interactive TUI.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalFlags.configPath, "config", "", "path to the config file (default: platform config dir)")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.color, "color", false, "force colored output")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&globalFlags.timestampFormat, "timestamp-format", "relative", "timestamp format: relative|local|utc")
}

// Execute runs the root command, returning the error main should translate
// into an exit code.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig resolves --config (or the platform default) into a validated
// Config.
func loadConfig() (config.Config, error) {
	path := globalFlags.configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return config.Config{}, err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// resolveOverrides decodes cfg's [overrides] table, already validated by
// loadConfig's Validate call.
func resolveOverrides(cfg config.Config) (config.Overrides, error) {
	return config.NewOverrides(cfg.Overrides)
}

// openStore loads the config and connects the backend it describes,
// returning a ready Store and the io.Closer that releases its resources.
func openStore() (*store.Store, io.Closer, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	be, closer, err := backend.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	return store.New(be), closer, nil
}

// renderOptions decodes the global --color/--no-color/--timestamp-format
// flags into render.Options, leaving ContentColumns/FullOutput for the
// caller to fill in.
func renderOptions() (render.Options, error) {
	mode, err := render.ParseTimestampMode(globalFlags.timestampFormat)
	if err != nil {
		return render.Options{}, err
	}
	return render.Options{
		Color:         globalFlags.color && !globalFlags.noColor,
		TimestampMode: mode,
		Now:           time.Now(),
	}, nil
}

// stateSelectorFlag decodes the -s/--state flag, defaulting to
// "unarchived" (Unread and Read) when unset, matching the semantics a
// triage-focused inbox view wants by default.
func stateSelectorFlag(raw string) (store.StateSet, error) {
	if raw == "" {
		raw = "unarchived"
	}
	return store.ParseStateSelector(raw)
}

// mailboxFlag decodes the -m/--mailbox flag; an empty string means "no
// mailbox constraint" rather than an error, so callers can pass the result
// straight to Filter.WithMailboxOption.
func mailboxFlag(raw string) (*mailbox.Mailbox, error) {
	if raw == "" {
		return nil, nil
	}
	mb, err := mailbox.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &mb, nil
}

// requestContext returns a background context with a generous timeout for
// one-shot CLI operations; the TUI and server build their own.
func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// ExitCode maps an error into the process exit code per spec: 0 for nil,
// non-zero otherwise, with mailerr kinds producing distinguishable codes
// for scripting.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if kind, ok := mailerr.KindOf(err); ok {
		switch kind {
		case mailerr.KindValidation:
			return 2
		case mailerr.KindStorageIO:
			return 3
		case mailerr.KindTransport:
			return 4
		case mailerr.KindUISetup:
			return 5
		}
	}
	return 1
}
