// Package pathsafe guards filesystem mutations against path traversal.
//
// Relative paths supplied by packs, configuration, or users may contain
// traversal sequences (".." segments, symlink indirection) that would escape
// the directory they are meant to stay inside. Every write or delete driven
// by such a path goes through SafePath first.
package pathsafe

import (
	"os"
	"path/filepath"
	"strings"
)

// IsContained reports whether path equals root or lies strictly under it.
// This is a pure segment-boundary predicate: "/a/bar" is not contained in
// "/a/b". It is only valid for already-canonicalized inputs; SafePath is the
// symlink-aware entry point.
func IsContained(path, root string) bool {
	if path == root {
		return true
	}
	return strings.HasPrefix(path, root+string(os.PathSeparator))
}

// SafePath resolves rel against root and returns the joined, cleaned absolute
// path if it remains inside root after resolving "." and ".." segments and
// any symbolic links along the existing portion of the path. The second
// return value is false when the path escapes root.
func SafePath(rel, root string) (string, bool) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", false
	}
	absRoot = filepath.Clean(absRoot)

	joined := filepath.Join(absRoot, rel)
	if !IsContained(joined, absRoot) {
		return "", false
	}

	resolvedRoot := resolveExisting(absRoot)
	resolvedPath := resolveExisting(joined)
	if !IsContained(resolvedPath, resolvedRoot) {
		return "", false
	}

	return joined, true
}

// resolveExisting canonicalizes path through the deepest ancestor that exists
// on disk, then reattaches the non-existent remainder. A path whose every
// component exists resolves fully; a path about to be created resolves
// through its existing parent so a symlinked ancestor cannot smuggle the
// write outside the root.
func resolveExisting(path string) string {
	remainder := ""
	current := path
	for {
		resolved, err := filepath.EvalSymlinks(current)
		if err == nil {
			if remainder == "" {
				return resolved
			}
			return filepath.Join(resolved, remainder)
		}
		parent := filepath.Dir(current)
		if parent == current {
			// Hit the filesystem root without finding an existing ancestor.
			return path
		}
		if remainder == "" {
			remainder = filepath.Base(current)
		} else {
			remainder = filepath.Join(filepath.Base(current), remainder)
		}
		current = parent
	}
}
