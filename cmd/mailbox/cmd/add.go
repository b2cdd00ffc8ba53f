package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/canac/mailbox/internal/mailbox"
	"github.com/canac/mailbox/internal/render"
	"github.com/canac/mailbox/internal/store"
)

var addFlags struct {
	state string
}

var addCmd = &cobra.Command{
	Use:   "add MAILBOX CONTENT",
	Short: "Add a message to a mailbox",
	Args:  cobra.ExactArgs(2),
	RunE:  runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addFlags.state, "state", "s", "unread", "initial message state: unread|read|archived")
}

func runAdd(cmd *cobra.Command, args []string) error {
	mb, err := mailbox.Parse(args[0])
	if err != nil {
		return err
	}
	state, err := store.ParseState(addFlags.state)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	overrides, err := resolveOverrides(cfg)
	if err != nil {
		return err
	}

	msg, ok := applyOverride(overrides, store.NewMessage{Mailbox: mb, Content: args[1], State: &state})
	if !ok {
		return nil
	}

	st, closer, err := openStore()
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, cancel := requestContext()
	defer cancel()

	messages, err := st.AddMessages(ctx, []store.NewMessage{msg})
	if err != nil {
		return err
	}
	return printMessages(cmd, messages, false)
}

func printMessages(cmd *cobra.Command, messages []store.Message, fullOutput bool) error {
	opts, err := renderOptions()
	if err != nil {
		return err
	}
	opts.FullOutput = fullOutput
	if !fullOutput {
		opts.ContentColumns = defaultContentColumns
	}
	for _, m := range messages {
		if err := writeLine(cmd.OutOrStdout(), render.FormatMessage(m, opts)); err != nil {
			return err
		}
	}
	return nil
}

// defaultContentColumns bounds non-full-output content width when the CLI
// isn't attached to a terminal wide enough to query (piped output, cron).
const defaultContentColumns = 100

// writeLine writes line+"\n" to w, treating a broken pipe (the reader end
// closed early, e.g. piping into `head`) as a clean exit rather than a
// fatal write error.
func writeLine(w io.Writer, line string) error {
	_, err := fmt.Fprintln(w, line)
	if isEPIPE(err) {
		return nil
	}
	return err
}
