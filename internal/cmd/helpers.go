package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mcsetup/mcs/internal/lockfile"
	"github.com/mcsetup/mcs/internal/output"
	"github.com/mcsetup/mcs/internal/settings"
)

// resolveProject returns the absolute project directory from the --project
// flag, defaulting to the current directory.
func resolveProject() (string, error) {
	dir := projectFlag
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to determine working directory: %w", err)
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project directory: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("project directory %s: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("project path %s is not a directory", abs)
	}
	return abs, nil
}

// newEnv builds the settings environment for a project.
func newEnv(projectPath string) (settings.Env, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return settings.Env{}, fmt.Errorf("failed to determine home directory: %w", err)
	}
	return settings.Env{ProjectPath: projectPath, HomeDir: home}, nil
}

// newOutputWriter builds a stdout writer for the --output flag.
func newOutputWriter() (*output.Writer, error) {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return nil, err
	}
	return output.NewWriter(os.Stdout, format), nil
}

// withLock runs fn while holding the project's advisory lock. Mutating
// commands wrap their whole load, mutate, save cycle in it.
func withLock(projectPath string, fn func() error) error {
	lock, err := lockfile.Acquire(projectPath)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := lock.Release(); rerr != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", rerr)
		}
	}()
	return fn()
}
