package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/canac/mailbox/internal/config"
	"github.com/canac/mailbox/internal/mailerr"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or edit the config file",
}

var configLocateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Print the path to the config file",
	Args:  cobra.NoArgs,
	RunE:  runConfigLocate,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the config file in $EDITOR",
	Args:  cobra.NoArgs,
	RunE:  runConfigEdit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configLocateCmd)
	configCmd.AddCommand(configEditCmd)
}

func configPath() (string, error) {
	if globalFlags.configPath != "" {
		return globalFlags.configPath, nil
	}
	return config.DefaultPath()
}

func runConfigLocate(cmd *cobra.Command, args []string) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	return writeLine(cmd.OutOrStdout(), path)
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		return mailerr.Wrapf(mailerr.KindValidation, fmt.Errorf("EDITOR not set"), "open config in editor")
	}
	path, err := configPath()
	if err != nil {
		return err
	}
	editCmd := exec.Command(editor, path)
	editCmd.Stdin = os.Stdin
	editCmd.Stdout = os.Stdout
	editCmd.Stderr = os.Stderr
	if err := editCmd.Run(); err != nil {
		return mailerr.Wrapf(mailerr.KindValidation, err, "run editor %q", editor)
	}
	return nil
}
