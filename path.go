package stash

import (
	"fmt"
	"strings"
)

// RootDirectory is the logical directory of objects uploaded without one.
const RootDirectory = "/"

// ResolvePath maps an optional directory and a multipart file name to an ObjectPath.
//
// A nil or empty directory, or the literal "/", resolves to the root. Any other
// directory must be a single segment and is wrapped as "/seg/". The filename is
// used verbatim as the final part of the path, but the resulting key must pass
// IsValidPath, so names like "../x" are rejected rather than escaping the root.
func ResolvePath(directory *string, filename string) (ObjectPath, error) {
	dir := RootDirectory
	if directory != nil && *directory != "" && *directory != RootDirectory {
		d := *directory
		if strings.Contains(d, "/") {
			return ObjectPath{}, fmt.Errorf("resolve path: %w: directory %q must be a single segment", ErrInvalidInput, d)
		}
		dir = "/" + strings.Trim(d, "/") + "/"
	}

	if filename == "" {
		return ObjectPath{}, fmt.Errorf("resolve path: %w: filename cannot be empty", ErrInvalidInput)
	}

	logical := dir + filename
	key := strings.TrimPrefix(logical, "/")
	if !IsValidPath(key) {
		return ObjectPath{}, fmt.Errorf("resolve path %q: %w", logical, ErrInvalidInput)
	}

	return ObjectPath{
		Directory: dir,
		Filename:  filename,
		Path:      logical,
		Key:       key,
	}, nil
}

// LastSegment returns the part of a key after its final "/".
func LastSegment(key string) string {
	if i := strings.LastIndex(key, "/"); i >= 0 {
		return key[i+1:]
	}
	return key
}
