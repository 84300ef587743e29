package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sagarc03/stash"
	"github.com/sagarc03/stash/config"
)

var removeCmd = &cobra.Command{
	Use:   "remove [flags] <path1> [path2] ...",
	Short: "Remove files from stash storage",
	Long: `Delete stored files by their logical path.

Paths are the ones returned by upload, with or without the leading slash.

Examples:
  # Remove a single file
  stash remove /docs/readme.md

  # Remove multiple files
  stash remove file1.txt file2.txt file3.txt

  # Remove quietly (suppress per-file output)
  stash remove -q file.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRemove,
}

var removeQuiet bool

func init() {
	removeCmd.Flags().BoolVarP(&removeQuiet, "quiet", "q", false, "suppress per-file output")
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	service, closeStorage, err := openService(cfg)
	if err != nil {
		return err
	}
	defer closeStorage()

	removed := 0
	notFound := 0

	for _, path := range args {
		key := strings.TrimPrefix(path, "/")

		deleteErr := service.Delete(ctx, key)
		if errors.Is(deleteErr, stash.ErrNotFound) {
			notFound++
			if !removeQuiet {
				slog.Warn("not found", "path", path)
			}
			continue
		}
		if deleteErr != nil {
			return fmt.Errorf("remove %s: %w", path, deleteErr)
		}
		removed++
		if !removeQuiet {
			slog.Info("removed", "path", path)
		}
	}

	slog.Info("remove complete", "removed", removed, "not_found", notFound)
	return nil
}
