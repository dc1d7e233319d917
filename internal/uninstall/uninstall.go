// Package uninstall reverses recorded pack artifacts.
//
// Uninstall consumes the ledger entry for a pack and reverses every artifact
// category. A single failing artifact never aborts the sweep: failures are
// collected into the summary, and the ledger entry is pruned only when every
// removal succeeded so a retry can attempt the remaining items. Removing an
// already-absent artifact is a no-op, reported as a skip.
package uninstall

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mcsetup/mcs/internal/executor"
	"github.com/mcsetup/mcs/internal/hookinject"
	"github.com/mcsetup/mcs/internal/settings"
	"github.com/mcsetup/mcs/internal/shellx"
	"github.com/mcsetup/mcs/internal/state"
)

// TemplateFileName mirrors the executor's template file constant for callers
// of this package.
const TemplateFileName = executor.TemplateFileName

// RemovalError records one failed individual removal.
type RemovalError struct {
	Category string `json:"category"`
	Item     string `json:"item"`
	Message  string `json:"message"`
}

// RemovalSummary reports the outcome of one pack uninstall.
type RemovalSummary struct {
	Pack         string         `json:"pack"`
	TotalRemoved int            `json:"totalRemoved"`
	Errors       []RemovalError `json:"errors,omitempty"`
	Skipped      []string       `json:"skipped,omitempty"`
}

// Succeeded reports whether every removal succeeded.
func (s *RemovalSummary) Succeeded() bool {
	return len(s.Errors) == 0
}

// Uninstaller reverses pack installations recorded in the ledger.
type Uninstaller struct {
	exec   *executor.Executor
	st     *state.ProjectState
	runner shellx.CommandRunner
}

// New creates an Uninstaller. A nil runner defaults to the real shell runner.
func New(exec *executor.Executor, st *state.ProjectState, runner shellx.CommandRunner) *Uninstaller {
	if runner == nil {
		runner = &shellx.DefaultRunner{}
	}
	return &Uninstaller{exec: exec, st: st, runner: runner}
}

// Uninstall reverses every artifact recorded for packID and returns the
// removal summary. On full success the pack's ledger entry is dropped;
// persisting the ledger remains the caller's explicit save.
func (u *Uninstaller) Uninstall(packID string) (*RemovalSummary, error) {
	record := u.st.Artifacts(packID)
	if record == nil {
		return nil, fmt.Errorf("pack %s is not installed", packID)
	}

	summary := &RemovalSummary{Pack: packID}
	u.removeFiles(record, summary)
	u.removeMCPServers(record, summary)
	u.removeHookCommands(record, summary)
	u.removeTemplateSections(record, summary)
	u.removeSettingsKeys(record, summary)
	u.removeBrewPackages(record, summary)
	u.removePlugins(record, summary)

	if summary.Succeeded() {
		u.st.RemovePack(packID)
	}
	return summary, nil
}

func (u *Uninstaller) removeFiles(record *state.PackArtifactRecord, summary *RemovalSummary) {
	for _, rel := range record.Files {
		if !u.exec.ProjectFileExists(rel) {
			summary.Skipped = append(summary.Skipped, fmt.Sprintf("file %s already absent", rel))
			continue
		}
		if err := u.exec.RemoveProjectFile(rel); err != nil {
			summary.Errors = append(summary.Errors, RemovalError{Category: "file", Item: rel, Message: err.Error()})
			continue
		}
		summary.TotalRemoved++
	}
}

func (u *Uninstaller) removeMCPServers(record *state.PackArtifactRecord, summary *RemovalSummary) {
	for _, server := range record.MCPServers {
		removed, err := u.exec.Env().UnregisterMCP(server.Name, server.Scope)
		if err != nil {
			summary.Errors = append(summary.Errors, RemovalError{Category: "mcpServer", Item: server.Name, Message: err.Error()})
			continue
		}
		if !removed {
			summary.Skipped = append(summary.Skipped, fmt.Sprintf("MCP server %s already unregistered", server.Name))
			continue
		}
		summary.TotalRemoved++
	}
}

// removeHookCommands strips each recorded fragment from whichever installed
// hook script carries it.
func (u *Uninstaller) removeHookCommands(record *state.PackArtifactRecord, summary *RemovalSummary) {
	for _, identifier := range record.HookCommands {
		removed, err := u.removeFragmentFromHooks(identifier)
		if err != nil {
			summary.Errors = append(summary.Errors, RemovalError{Category: "hookCommand", Item: identifier, Message: err.Error()})
			continue
		}
		if !removed {
			summary.Skipped = append(summary.Skipped, fmt.Sprintf("hook fragment %s already absent", identifier))
			continue
		}
		summary.TotalRemoved++
	}
}

func (u *Uninstaller) removeFragmentFromHooks(identifier string) (bool, error) {
	hookDir := u.exec.Env().HookDir()
	entries, err := os.ReadDir(hookDir)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read hook directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		removed, err := hookinject.Remove(filepath.Join(hookDir, entry.Name()), identifier)
		if err != nil {
			return false, err
		}
		if removed {
			return true, nil
		}
	}
	return false, nil
}

// removeTemplateSections strips matching versioned sections out of the
// shared template-derived file. Sections are recorded as "identifier@vN";
// removal is by identifier.
func (u *Uninstaller) removeTemplateSections(record *state.PackArtifactRecord, summary *RemovalSummary) {
	templatePath := filepath.Join(u.exec.Env().ProjectPath, TemplateFileName)
	for _, section := range record.TemplateSections {
		identifier, _, _ := strings.Cut(section, "@")
		removed, err := hookinject.Remove(templatePath, identifier)
		if err != nil {
			summary.Errors = append(summary.Errors, RemovalError{Category: "templateSection", Item: section, Message: err.Error()})
			continue
		}
		if !removed {
			summary.Skipped = append(summary.Skipped, fmt.Sprintf("template section %s already absent", section))
			continue
		}
		summary.TotalRemoved++
	}
}

func (u *Uninstaller) removeSettingsKeys(record *state.PackArtifactRecord, summary *RemovalSummary) {
	settingsPath := u.exec.Env().SettingsPath()
	for _, key := range record.SettingsKeys {
		removed, err := settings.DeleteKey(settingsPath, key)
		if err != nil {
			summary.Errors = append(summary.Errors, RemovalError{Category: "settingsKey", Item: key, Message: err.Error()})
			continue
		}
		if !removed {
			summary.Skipped = append(summary.Skipped, fmt.Sprintf("settings key %s already absent", key))
			continue
		}
		summary.TotalRemoved++
	}
}

func (u *Uninstaller) removeBrewPackages(record *state.PackArtifactRecord, summary *RemovalSummary) {
	for _, pkg := range record.BrewPackages {
		if err := shellx.BrewUninstall(u.runner, pkg); err != nil {
			summary.Errors = append(summary.Errors, RemovalError{Category: "brewPackage", Item: pkg, Message: err.Error()})
			continue
		}
		summary.TotalRemoved++
	}
}

func (u *Uninstaller) removePlugins(record *state.PackArtifactRecord, summary *RemovalSummary) {
	settingsPath := u.exec.Env().SettingsPath()
	for _, ref := range record.Plugins {
		removed, err := settings.DisablePlugin(settingsPath, ref)
		if err != nil {
			summary.Errors = append(summary.Errors, RemovalError{Category: "plugin", Item: ref, Message: err.Error()})
			continue
		}
		if !removed {
			summary.Skipped = append(summary.Skipped, fmt.Sprintf("plugin %s already disabled", ref))
			continue
		}
		summary.TotalRemoved++
	}
}
