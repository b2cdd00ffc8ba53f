package cmd

import (
	"github.com/spf13/cobra"

	"github.com/canac/mailbox/internal/store"
)

var viewFlags struct {
	mailbox    string
	state      string
	fullOutput bool
}

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "List messages matching a mailbox and state filter",
	Args:  cobra.NoArgs,
	RunE:  runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
	viewCmd.Flags().StringVarP(&viewFlags.mailbox, "mailbox", "m", "", "restrict to a mailbox and its descendants")
	viewCmd.Flags().StringVarP(&viewFlags.state, "state", "s", "unread", "state selector: unread|read|archived|unarchived|all")
	viewCmd.Flags().BoolVarP(&viewFlags.fullOutput, "full-output", "f", false, "print full message content, unelided")
}

func runView(cmd *cobra.Command, args []string) error {
	mb, err := mailboxFlag(viewFlags.mailbox)
	if err != nil {
		return err
	}
	states, err := stateSelectorFlag(viewFlags.state)
	if err != nil {
		return err
	}

	st, closer, err := openStore()
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, cancel := requestContext()
	defer cancel()

	filter := store.NewFilter().WithMailboxOption(mb).WithStateSet(states)
	messages, err := st.LoadMessages(ctx, filter)
	if err != nil {
		return err
	}
	return printMessages(cmd, messages, viewFlags.fullOutput)
}
