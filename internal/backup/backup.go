// Package backup captures original file contents before a mutation so the
// caller can roll the mutation back.
package backup

import (
	"fmt"
	"os"
	"path/filepath"
)

// entry records one file's pre-mutation state. A file that did not exist is
// recorded as absent and restored by deletion.
type entry struct {
	path    string
	content []byte
	mode    os.FileMode
	existed bool
}

// FileBackup accumulates pre-mutation snapshots of files. The first capture
// of a path wins; later captures of the same path are no-ops so a multi-step
// mutation restores to the state before the first step.
type FileBackup struct {
	entries []entry
	seen    map[string]bool
}

// New creates an empty FileBackup.
func New() *FileBackup {
	return &FileBackup{seen: make(map[string]bool)}
}

// Capture records the current content of path, or its absence.
func (b *FileBackup) Capture(path string) error {
	if b.seen[path] {
		return nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to capture %s: %w", path, err)
		}
		b.seen[path] = true
		b.entries = append(b.entries, entry{path: path, existed: false})
		return nil
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	b.seen[path] = true
	b.entries = append(b.entries, entry{path: path, content: content, mode: mode, existed: true})
	return nil
}

// Len returns the number of captured files.
func (b *FileBackup) Len() int {
	return len(b.entries)
}

// Restore writes every captured file back, newest capture first. Files that
// were captured as absent are deleted. Individual failures do not stop the
// sweep; all failures are returned.
func (b *FileBackup) Restore() []error {
	var errs []error

	for i := len(b.entries) - 1; i >= 0; i-- {
		e := b.entries[i]
		if !e.existed {
			if err := os.Remove(e.path); err != nil && !os.IsNotExist(err) {
				errs = append(errs, fmt.Errorf("failed to remove %s: %w", e.path, err))
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(e.path), 0755); err != nil {
			errs = append(errs, fmt.Errorf("failed to restore %s: %w", e.path, err))
			continue
		}
		if err := os.WriteFile(e.path, e.content, e.mode); err != nil {
			errs = append(errs, fmt.Errorf("failed to restore %s: %w", e.path, err))
		}
	}

	return errs
}
