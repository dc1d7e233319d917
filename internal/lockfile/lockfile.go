// Package lockfile provides an advisory lock guarding concurrent installer
// runs against the same project.
//
// The lock is a file created with O_EXCL under the project's .claude
// directory, carrying the holder's pid. It serializes whole commands around
// the load, mutate, save cycle; nothing below the command layer takes it.
package lockfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// LockFileName is the lock file name inside the project's .claude directory.
const LockFileName = ".mcs.lock"

// Lock represents a held advisory lock.
type Lock struct {
	path string
}

// LockPath returns the lock file path for a project.
func LockPath(projectPath string) string {
	return filepath.Join(projectPath, ".claude", LockFileName)
}

// Acquire takes the advisory lock for a project. It fails if another run
// holds the lock, naming the holder's pid.
func Acquire(projectPath string) (*Lock, error) {
	path := LockPath(projectPath)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			if pid, ok := holderPid(path); ok {
				return nil, fmt.Errorf("another mcs run (pid %d) holds the lock at %s", pid, path)
			}
			return nil, fmt.Errorf("another mcs run holds the lock at %s", path)
		}
		return nil, fmt.Errorf("failed to create lock file: %w", err)
	}

	_, werr := fmt.Fprintf(f, "%d\n", os.Getpid())
	cerr := f.Close()
	if werr != nil || cerr != nil {
		os.Remove(path)
		if werr != nil {
			return nil, fmt.Errorf("failed to write lock file: %w", werr)
		}
		return nil, fmt.Errorf("failed to write lock file: %w", cerr)
	}

	return &Lock{path: path}, nil
}

// Release removes the lock file. Safe to call once per acquired lock.
func (l *Lock) Release() error {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}

// holderPid reads the pid recorded in an existing lock file.
func holderPid(path string) (int, bool) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(content)))
	if err != nil {
		return 0, false
	}
	return pid, true
}
