package main

import (
	"io"
	"os"

	"github.com/sagarc03/stash/clientcli"
	"github.com/spf13/cobra"
)

var pasteFetch bool

var pasteCmd = &cobra.Command{
	Use:   "paste <remote-path>",
	Short: "Show the paste page for a stored text file",
	Long: `Check that a stored file renders as a paste page and print its URL.

Binary files and missing objects fail with not found.

Examples:
  stash-cli paste snippets/main.go
  stash-cli paste --fetch notes.md > notes.html`,
	Args: cobra.ExactArgs(1),
	RunE: runPaste,
}

func init() {
	pasteCmd.Flags().BoolVar(&pasteFetch, "fetch", false, "write the rendered HTML to stdout")
}

func runPaste(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	result, page, err := client.Paste(cmd.Context(), clientcli.PasteOptions{
		RemotePath: args[0],
		Fetch:      pasteFetch,
	})
	if err != nil {
		return err
	}

	if page != nil {
		defer func() { _ = page.Close() }()
		_, err := io.Copy(os.Stdout, page)
		return err
	}

	return getFormatter().FormatPaste(os.Stdout, result)
}
