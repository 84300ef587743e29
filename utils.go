package stash

import (
	"strings"
	"unicode/utf8"
)

// StagingDir is the directory under the storage root where writes are staged
// before they are published. Keys inside it are never valid.
const StagingDir = ".stash-staging"

// IsValidPath reports whether p is a canonical storage key.
// It checks that the key:
//   - is not empty, ".", or "/"
//   - is relative (does not start with "/")
//   - does not end with "/"
//   - does not contain "//" (empty segments)
//   - does not contain "." or ".." segments
//   - does not contain a backslash
//   - is valid UTF-8
//   - does not contain null bytes, control characters (< 0x20) or DEL (0x7f)
//   - does not point into StagingDir
//
// A key that passes stays lexically beneath the storage root once joined to it.
func IsValidPath(p string) bool {
	if p == "" || p == "/" || p == "." {
		return false
	}

	if p[0] == '/' {
		return false
	}

	if strings.HasSuffix(p, "/") {
		return false
	}

	if strings.Contains(p, "//") {
		return false
	}

	if strings.Contains(p, `\`) {
		return false
	}

	if !utf8.ValidString(p) {
		return false
	}

	if p == StagingDir || strings.HasPrefix(p, StagingDir+"/") {
		return false
	}

	for _, seg := range strings.Split(p, "/") {
		if seg == "." || seg == ".." {
			return false
		}
	}

	for _, r := range p {
		if r < 0x20 || r == 0x7f {
			return false
		}
	}

	return true
}
