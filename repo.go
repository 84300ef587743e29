package stash

import (
	"context"
)

// FileStorage defines the interface for physical object storage.
//
// Keys are root-relative paths that already passed IsValidPath.
// All methods accept a context and should return its error without touching
// storage once it is cancelled.
type FileStorage interface {
	// Read returns the full content stored at key.
	// Returns ErrNotFound if nothing is stored there.
	Read(ctx context.Context, key string) ([]byte, error)

	// Write stores content at key, creating parent directories as needed.
	//
	// The content becomes visible at key all at once; readers never see a
	// partially written object. Without opts.Exclusive an existing object is
	// replaced. With opts.Exclusive the write fails with ErrConflict if an
	// object already exists, and this check is atomic with the publish.
	Write(ctx context.Context, key string, content []byte, opts WriteOptions) (SaveResult, error)

	// Delete removes the object at key.
	// Returns ErrNotFound if nothing is stored there.
	Delete(ctx context.Context, key string) error

	// Exists reports whether an object is stored at key.
	Exists(ctx context.Context, key string) (bool, error)
}
