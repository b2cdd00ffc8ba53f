package cmd

import (
	"github.com/spf13/cobra"

	"github.com/canac/mailbox/internal/store"
)

var readFlags struct {
	mailbox string
}

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Mark unread messages as read",
	Args:  cobra.NoArgs,
	RunE:  runRead,
}

var archiveFlags struct {
	mailbox string
}

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Archive unread and read messages",
	Args:  cobra.NoArgs,
	RunE:  runArchive,
}

var clearFlags struct {
	mailbox string
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete archived messages",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

func init() {
	rootCmd.AddCommand(readCmd)
	readCmd.Flags().StringVarP(&readFlags.mailbox, "mailbox", "m", "", "restrict to a mailbox and its descendants")

	rootCmd.AddCommand(archiveCmd)
	archiveCmd.Flags().StringVarP(&archiveFlags.mailbox, "mailbox", "m", "", "restrict to a mailbox and its descendants")

	rootCmd.AddCommand(clearCmd)
	clearCmd.Flags().StringVarP(&clearFlags.mailbox, "mailbox", "m", "", "restrict to a mailbox and its descendants")
}

// runRead promotes Unread messages to Read. The state scope is fixed, not a
// flag: reading only ever means un-reading the unread.
func runRead(cmd *cobra.Command, args []string) error {
	return runChangeState(cmd, readFlags.mailbox, store.NewStateSet(store.Unread), store.Read)
}

// runArchive promotes Unread and Read messages to Archived.
func runArchive(cmd *cobra.Command, args []string) error {
	return runChangeState(cmd, archiveFlags.mailbox, store.NewStateSet(store.Unread, store.Read), store.Archived)
}

func runChangeState(cmd *cobra.Command, mailboxRaw string, from store.StateSet, to store.State) error {
	mb, err := mailboxFlag(mailboxRaw)
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

	filter := store.NewFilter().WithMailboxOption(mb).WithStateSet(from)
	messages, err := st.ChangeState(ctx, filter, to)
	if err != nil {
		return err
	}
	return printMessages(cmd, messages, false)
}

// runClear deletes Archived messages: the only state clear ever removes.
func runClear(cmd *cobra.Command, args []string) error {
	mb, err := mailboxFlag(clearFlags.mailbox)
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

	filter := store.NewFilter().WithMailboxOption(mb).WithStateSet(store.NewStateSet(store.Archived))
	messages, err := st.DeleteMessages(ctx, filter)
	if err != nil {
		return err
	}
	return printMessages(cmd, messages, false)
}
