package main

import (
	"os"

	"github.com/sagarc03/stash/clientcli"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <remote-path> [remote-path...]",
	Aliases: []string{"rm"},
	Short:   "Delete files from the server",
	Long: `Delete one or more stored files.

Examples:
  stash-cli delete docs/notes.md
  stash-cli delete old/a.txt old/b.txt old/c.txt
  stash-cli delete -q temp.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	results, err := client.Delete(cmd.Context(), clientcli.DeleteOptions{Paths: args})
	if err != nil {
		return err
	}

	if err := getFormatter().FormatDelete(os.Stdout, results); err != nil {
		return err
	}

	if clientcli.HasDeleteErrors(results) {
		return &exitError{code: 1}
	}

	return nil
}
