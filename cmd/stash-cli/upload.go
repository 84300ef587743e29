package main

import (
	"os"

	"github.com/sagarc03/stash/clientcli"
	"github.com/spf13/cobra"
)

var (
	uploadDirectory string
	uploadFilename  string
	uploadSafe      bool
	uploadRecursive bool
)

var uploadCmd = &cobra.Command{
	Use:   "upload <local-path>",
	Short: "Upload files to the server",
	Long: `Upload files to the server.

The object is stored as <directory>/<filename>. The directory is a single
path segment; leave it empty to store at the root. With --safe the server
refuses to replace an existing object. When --directory or --safe is not
given, the selected profile's upload defaults are used.

Examples:
  stash-cli upload ./notes.md
  stash-cli upload -d docs ./notes.md
  stash-cli upload -f readme.txt ./README
  stash-cli upload --safe -r ./site`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVarP(&uploadDirectory, "directory", "d", "", "target directory (single segment, default: profile directory)")
	uploadCmd.Flags().StringVarP(&uploadFilename, "filename", "f", "", "stored file name (default: local base name)")
	uploadCmd.Flags().BoolVarP(&uploadSafe, "safe", "n", false, "do not overwrite existing objects (default: profile setting)")
	uploadCmd.Flags().BoolVarP(&uploadRecursive, "recursive", "r", false, "upload directory recursively")
}

func runUpload(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateWithAuth(); err != nil {
		return err
	}

	client, err := clientcli.New(cfg)
	if err != nil {
		return err
	}

	// The profile's upload defaults apply unless the flags were given.
	directory, safe := cfg.Directory, cfg.Safe
	if cmd.Flags().Changed("directory") {
		directory = uploadDirectory
	}
	if cmd.Flags().Changed("safe") {
		safe = uploadSafe
	}

	results, err := client.Upload(cmd.Context(), clientcli.UploadOptions{
		LocalPath: args[0],
		Directory: directory,
		Filename:  uploadFilename,
		Safe:      safe,
		Recursive: uploadRecursive,
	})
	if err != nil && len(results) == 0 {
		return err
	}

	formatter := getFormatter()
	if fmtErr := formatter.FormatUpload(os.Stdout, results); fmtErr != nil {
		return fmtErr
	}
	if err != nil {
		return err
	}

	for i := range results {
		if results[i].Err != nil {
			return &exitError{code: 1}
		}
	}

	return nil
}
