package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/canac/mailbox/internal/importer"
)

var importFlags struct {
	format string
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Add multiple messages from stdin",
	Long: `Import reads one message per line from stdin: header-less TSV
(mailbox<TAB>content[<TAB>state]) or newline-delimited JSON
({"mailbox":…, "content":…, "state"?:…}). Malformed lines are skipped with
a warning printed to stderr; well-formed lines are still imported.`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVar(&importFlags.format, "format", "tsv", "import format: tsv|json")
}

func runImport(cmd *cobra.Command, args []string) error {
	format, err := importer.ParseFormat(importFlags.format)
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

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	newMessages, err := importer.Import(cmd.InOrStdin(), format, overrides, logger)
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

	messages, err := st.AddMessages(ctx, newMessages)
	if err != nil {
		return err
	}
	return printMessages(cmd, messages, false)
}
