package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/canac/mailbox/internal/config"
	"github.com/canac/mailbox/internal/mailerr"
	"github.com/canac/mailbox/internal/tui/app"
	"github.com/canac/mailbox/internal/tui/worker"
)

var tuiFlags struct {
	mailbox string
	state   string
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse and triage messages interactively",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	tuiCmd.Flags().StringVarP(&tuiFlags.mailbox, "mailbox", "m", "", "starting mailbox cursor")
	tuiCmd.Flags().StringVarP(&tuiFlags.state, "state", "s", "unread", "starting state filter: unread|read|archived|unarchived|all")
}

func runTUI(cmd *cobra.Command, args []string) error {
	mb, err := mailboxFlag(tuiFlags.mailbox)
	if err != nil {
		return err
	}
	states, err := stateSelectorFlag(tuiFlags.state)
	if err != nil {
		return err
	}

	st, closer, err := openStore()
	if err != nil {
		return err
	}
	defer closer.Close()

	logger, closeLog, err := tuiLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := worker.New(st, logger)
	go w.Run(ctx)

	opts := app.Options{InitialStates: states}
	if mb != nil {
		opts.InitialMailbox = *mb
	}

	program := tea.NewProgram(app.NewModel(w, opts), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return mailerr.Wrapf(mailerr.KindUISetup, err, "run tui")
	}
	return nil
}

// tuiLogger opens the log file the TUI writes to instead of stderr, since
// its alternate screen owns the terminal for the duration of the run.
func tuiLogger() (*slog.Logger, func(), error) {
	path, err := config.DefaultLogPath()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, mailerr.Wrapf(mailerr.KindUISetup, err, "create log directory")
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, mailerr.Wrapf(mailerr.KindUISetup, err, "open log file")
	}
	logger := slog.New(slog.NewJSONHandler(f, nil))
	return logger, func() { f.Close() }, nil
}
