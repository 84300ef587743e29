// Package filesystem provides a file system storage backend for stash.
// It writes atomically through temp files, computes SHA256-based etags, and
// confines every operation to one directory through an os.Root.
package filesystem

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sagarc03/stash"
)

// Store provides file system storage operations.
type Store struct {
	root *os.Root
}

// NewFileStorage creates a new Store with the given root directory.
// The root provides sandboxed file operations preventing path traversal.
func NewFileStorage(root *os.Root) *Store {
	return &Store{root: root}
}

// Read returns the content of the file at path.
// Returns stash.ErrNotFound if no regular file exists there.
func (s *Store) Read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.requireFile(path); err != nil {
		return nil, err
	}

	data, err := s.root.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, stash.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return data, nil
}

// Write stores content at path using a temp file that is synced and then published.
//
// By default the temp file is renamed over path, replacing whatever was there.
// With opts.Exclusive the temp file is hard-linked to path instead, which fails
// if path already exists; that case returns stash.ErrConflict. Intermediate
// directories are created as needed and the temp file never outlives the call.
func (s *Store) Write(ctx context.Context, path string, content []byte, opts stash.WriteOptions) (stash.SaveResult, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return stash.SaveResult{}, ctxErr
	}

	if err := s.root.MkdirAll(stash.StagingDir, 0o700); err != nil {
		return stash.SaveResult{}, fmt.Errorf("could not create staging directory: %w", err)
	}

	tmpFile := tmpFileName()
	t, createErr := s.root.Create(tmpFile)
	if createErr != nil {
		return stash.SaveResult{}, fmt.Errorf("could not open temp file: %w", createErr)
	}

	published := false
	closed := false
	defer func() {
		if !closed {
			if closeErr := t.Close(); closeErr != nil {
				slog.Warn("failed to close tmp file", "err", closeErr)
			}
		}
		if !published || opts.Exclusive {
			if rmErr := s.root.Remove(tmpFile); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				slog.Warn("failed to remove tmp file", "err", rmErr)
			}
		}
	}()

	n, err := t.Write(content)
	if err != nil {
		return stash.SaveResult{}, fmt.Errorf("could not write file contents: %w", err)
	}

	if err = t.Sync(); err != nil {
		return stash.SaveResult{}, fmt.Errorf("could not sync written file: %w", err)
	}

	closed = true
	if err = t.Close(); err != nil {
		return stash.SaveResult{}, fmt.Errorf("could not close written file: %w", err)
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return stash.SaveResult{}, ctxErr
	}

	destDir := filepath.Dir(path)
	if destDir != "." {
		if err := s.root.MkdirAll(destDir, 0o755); err != nil {
			return stash.SaveResult{}, fmt.Errorf("could not create intermediate directories: %w", err)
		}
	}

	if opts.Exclusive {
		if linkErr := s.root.Link(tmpFile, path); linkErr != nil {
			if errors.Is(linkErr, fs.ErrExist) {
				return stash.SaveResult{}, stash.ErrConflict
			}
			return stash.SaveResult{}, fmt.Errorf("failed to link file: %w", linkErr)
		}
	} else {
		if renameErr := s.root.Rename(tmpFile, path); renameErr != nil {
			return stash.SaveResult{}, fmt.Errorf("failed to rename file: %w", renameErr)
		}
	}
	published = true

	sum := sha256.Sum256(content)
	return stash.SaveResult{BytesWritten: int64(n), Etag: hex.EncodeToString(sum[:])}, nil
}

// Delete removes a file. Returns stash.ErrNotFound if no regular file exists at path.
func (s *Store) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.requireFile(path); err != nil {
		return err
	}

	err := s.root.Remove(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return stash.ErrNotFound
		}
		return fmt.Errorf("could not delete file: %w", err)
	}
	return nil
}

// Exists reports whether anything is stored at path.
func (s *Store) Exists(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	_, err := s.root.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("could not stat file: %w", err)
}

// requireFile maps a missing path or a directory to stash.ErrNotFound.
func (s *Store) requireFile(path string) error {
	info, err := s.root.Lstat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return stash.ErrNotFound
		}
		return fmt.Errorf("could not stat file: %w", err)
	}
	if info.IsDir() {
		return stash.ErrNotFound
	}
	return nil
}

// tmpFileName returns a fresh name inside stash.StagingDir, which IsValidPath
// rejects, so leftovers from an interrupted write are never served.
func tmpFileName() string {
	return filepath.Join(stash.StagingDir, ".t"+uuid.New().String())
}
