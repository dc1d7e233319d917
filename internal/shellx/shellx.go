// Package shellx runs external commands behind a mockable interface.
package shellx

import (
	"fmt"
	"os/exec"
	"strings"
)

// CommandRunner is an interface for running external commands.
// This allows for mocking in tests.
type CommandRunner interface {
	Run(name string, args ...string) ([]byte, error)
	LookPath(name string) (string, error)
}

// DefaultRunner uses os/exec to run commands.
type DefaultRunner struct{}

func (r *DefaultRunner) Run(name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	return cmd.CombinedOutput()
}

func (r *DefaultRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// BrewInstall installs a package via `brew install`.
func BrewInstall(runner CommandRunner, pkg string) error {
	output, err := runner.Run("brew", "install", pkg)
	if err != nil {
		return fmt.Errorf("failed to brew install %s: %w\nOutput: %s", pkg, err, string(output))
	}
	return nil
}

// BrewUninstall removes a package via `brew uninstall`. Uninstalling a
// package that is not installed is treated as success-with-no-effect.
func BrewUninstall(runner CommandRunner, pkg string) error {
	output, err := runner.Run("brew", "uninstall", pkg)
	if err != nil {
		if strings.Contains(string(output), "No such keg") {
			return nil
		}
		return fmt.Errorf("failed to brew uninstall %s: %w\nOutput: %s", pkg, err, string(output))
	}
	return nil
}

// RunShell executes a command line through the shell.
func RunShell(runner CommandRunner, command string) error {
	output, err := runner.Run("sh", "-c", command)
	if err != nil {
		return fmt.Errorf("command failed: %s: %w\nOutput: %s", command, err, string(output))
	}
	return nil
}

// CommandExists reports whether name resolves on PATH.
func CommandExists(runner CommandRunner, name string) bool {
	_, err := runner.LookPath(name)
	return err == nil
}
