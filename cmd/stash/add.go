package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sagarc03/stash"
	"github.com/sagarc03/stash/config"
)

var addCmd = &cobra.Command{
	Use:   "add [flags] <file1> [file2] ...",
	Short: "Import files into stash storage",
	Long: `Import files from local paths into stash storage.

Files go through the same pipeline as HTTP uploads: the size cap,
path validation and the no-overwrite guard all apply.

Examples:
  # Add a single file at the root
  stash add /path/to/file.txt

  # Add into a directory
  stash add --directory images /path/to/photo.jpg

  # Add a directory recursively, keeping its layout
  stash add -r /path/to/assets

  # Skip existing files
  stash add --no-clobber /path/to/file.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var (
	addDirectory string
	addRecursive bool
	addNoClobber bool
	addQuiet     bool
)

func init() {
	addCmd.Flags().StringVarP(&addDirectory, "directory", "d", "", "destination directory (single segment)")
	addCmd.Flags().BoolVarP(&addRecursive, "recursive", "r", false, "recursively add directories")
	addCmd.Flags().BoolVarP(&addNoClobber, "no-clobber", "n", false, "skip existing files instead of overwriting")
	addCmd.Flags().BoolVarP(&addQuiet, "quiet", "q", false, "suppress per-file output")
	rootCmd.AddCommand(addCmd)
}

// fileEntry represents a file to be added with its source path and stored file name.
type fileEntry struct {
	sourcePath string
	filename   string
}

func runAdd(cmd *cobra.Command, args []string) error {
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

	var directory *string
	if cmd.Flags().Changed("directory") {
		directory = &addDirectory
	}

	var files []fileEntry
	for _, arg := range args {
		entries, collectErr := collectFiles(arg, addRecursive)
		if collectErr != nil {
			return fmt.Errorf("collect files from %s: %w", arg, collectErr)
		}
		files = append(files, entries...)
	}

	if len(files) == 0 {
		slog.Info("no files to add")
		return nil
	}

	added := 0
	skipped := 0

	for _, entry := range files {
		f, openErr := os.Open(entry.sourcePath)
		if openErr != nil {
			return fmt.Errorf("open %s: %w", entry.sourcePath, openErr)
		}

		result, uploadErr := service.Upload(ctx, stash.UploadObject{
			Directory: directory,
			Filename:  entry.filename,
			Safe:      addNoClobber,
		}, f)
		_ = f.Close()

		if errors.Is(uploadErr, stash.ErrConflict) {
			skipped++
			if !addQuiet {
				slog.Info("skipped (exists)", "file", entry.filename)
			}
			continue
		}
		if uploadErr != nil {
			return fmt.Errorf("add %s: %w", entry.sourcePath, uploadErr)
		}

		added++
		if !addQuiet {
			slog.Info("added", "path", result.Path, "size", result.SizeBytes)
		}
	}

	slog.Info("add complete", "added", added, "skipped", skipped)
	return nil
}

// collectFiles gathers files from a path, optionally recursively.
// Files found while walking keep their path relative to the walked directory.
func collectFiles(path string, recursive bool) ([]fileEntry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return []fileEntry{{sourcePath: path, filename: filepath.Base(path)}}, nil
	}

	if !recursive {
		return nil, fmt.Errorf("%s is a directory (use -r to add recursively)", path)
	}

	var entries []fileEntry
	walkErr := filepath.WalkDir(path, func(walkPath string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if d.IsDir() {
			return nil
		}

		relPath, relErr := filepath.Rel(path, walkPath)
		if relErr != nil {
			return relErr
		}

		entries = append(entries, fileEntry{
			sourcePath: walkPath,
			filename:   filepath.ToSlash(relPath),
		})
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return entries, nil
}
