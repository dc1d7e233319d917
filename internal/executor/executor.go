// Package executor interprets component install actions and performs the
// corresponding filesystem and registry mutations.
//
// Every project write driven by a pack-supplied relative path passes through
// the pathsafe guard; home-relative side effects are confined to the fixed
// environment paths in settings.Env. External commands run through the
// shellx collaborator so tests can intercept them.
package executor

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mcsetup/mcs/internal/backup"
	"github.com/mcsetup/mcs/internal/component"
	"github.com/mcsetup/mcs/internal/hookinject"
	"github.com/mcsetup/mcs/internal/settings"
	"github.com/mcsetup/mcs/internal/shellx"
	"github.com/mcsetup/mcs/internal/state"
)

// TemplateFileName is the template-derived file at the project root that
// holds injected template sections.
const TemplateFileName = "CLAUDE.md"

// Executor applies install actions for one project/home environment.
type Executor struct {
	env    settings.Env
	runner shellx.CommandRunner
}

// New creates an Executor. A nil runner defaults to the real shell runner.
func New(env settings.Env, runner shellx.CommandRunner) *Executor {
	if runner == nil {
		runner = &shellx.DefaultRunner{}
	}
	return &Executor{env: env, runner: runner}
}

// Env returns the environment the executor mutates.
func (e *Executor) Env() settings.Env {
	return e.env
}

// Apply performs comp's install action. Source paths inside the action are
// resolved against packRoot; placeholder values substitute __KEY__ tokens in
// copied files. Artifacts produced are accumulated into record for the
// ledger.
func (e *Executor) Apply(comp *component.ComponentDefinition, packRoot string, values map[string]string, record *state.PackArtifactRecord) error {
	switch action := comp.Install.(type) {
	case component.CopyFileAction:
		installed, err := e.InstallProjectFile(resolveSource(packRoot, action.Source), action.Destination, action.FileType, values)
		if err != nil {
			return fmt.Errorf("component %s: %w", comp.ID, err)
		}
		for _, rel := range installed {
			record.AddFile(rel)
		}
		return nil

	case component.CopyHookAction:
		if err := e.InstallHook(resolveSource(packRoot, action.Source), action.Destination); err != nil {
			return fmt.Errorf("component %s: %w", comp.ID, err)
		}
		return nil

	case component.MCPServerAction:
		cfg := action.Config
		cfg.Scope = cfg.Scope.Default()
		if err := e.env.RegisterMCP(action.Name, cfg); err != nil {
			return fmt.Errorf("component %s: %w", comp.ID, err)
		}
		record.AddMCPServer(action.Name, cfg.Scope)
		return nil

	case component.PluginAction:
		ref, err := component.ParsePluginRef(action.Name)
		if err != nil {
			return fmt.Errorf("component %s: %w", comp.ID, err)
		}
		if err := settings.EnablePlugin(e.env.SettingsPath(), ref.FullName()); err != nil {
			return fmt.Errorf("component %s: %w", comp.ID, err)
		}
		record.AddPlugin(ref.FullName())
		return nil

	case component.BrewInstallAction:
		if err := shellx.BrewInstall(e.runner, action.Package); err != nil {
			return fmt.Errorf("component %s: %w", comp.ID, err)
		}
		record.AddBrewPackage(action.Package)
		return nil

	case component.ShellCommandAction:
		if err := shellx.RunShell(e.runner, action.Command); err != nil {
			return fmt.Errorf("component %s: %w", comp.ID, err)
		}
		return nil

	case component.SettingsMergeAction:
		keys, err := e.MergeSettings(resolveSource(packRoot, action.Source))
		if err != nil {
			return fmt.Errorf("component %s: %w", comp.ID, err)
		}
		for _, key := range keys {
			record.AddSettingsKey(key)
		}
		return nil

	case component.GitignoreAction:
		if _, err := e.AppendGitignoreEntries(action.Entries); err != nil {
			return fmt.Errorf("component %s: %w", comp.ID, err)
		}
		return nil

	default:
		return fmt.Errorf("component %s: unknown install action %T", comp.ID, comp.Install)
	}
}

// InjectHookFragment layers a component's fragment into an installed hook
// script and records the fragment identifier into the ledger record. The
// hook script is addressed by its file name inside the home hook directory.
func (e *Executor) InjectHookFragment(hookName, identifier, version, fragment string, bk *backup.FileBackup, record *state.PackArtifactRecord) error {
	hookPath, ok := pathInDir(hookName, e.env.HookDir())
	if !ok {
		return fmt.Errorf("hook name %q escapes the hook directory", hookName)
	}
	if err := hookinject.Inject(hookPath, identifier, version, fragment, bk); err != nil {
		return err
	}
	record.AddHookCommand(identifier)
	return nil
}

// InstallTemplateSection layers a versioned section into the project's
// template-derived file, creating the file and its extension marker when
// absent, and records "identifier@vN" into the ledger record.
func (e *Executor) InstallTemplateSection(identifier, version, fragment string, bk *backup.FileBackup, record *state.PackArtifactRecord) error {
	path := e.env.ProjectPath + string(os.PathSeparator) + TemplateFileName
	if err := ensureExtensionMarker(path, bk); err != nil {
		return err
	}
	if err := hookinject.Inject(path, identifier, version, fragment, bk); err != nil {
		return err
	}
	record.AddTemplateSection(identifier + "@v" + version)
	return nil
}

// ensureExtensionMarker guarantees path exists and carries the extension
// marker line so fragment injection has an anchor.
func ensureExtensionMarker(path string, bk *backup.FileBackup) error {
	if bk != nil {
		if err := bk.Capture(path); err != nil {
			return err
		}
	}
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return os.WriteFile(path, []byte(hookinject.ExtensionMarker+"\n"), 0644)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	for _, line := range strings.Split(string(content), "\n") {
		if line == hookinject.ExtensionMarker {
			return nil
		}
	}
	if len(content) > 0 && content[len(content)-1] != '\n' {
		content = append(content, '\n')
	}
	content = append(content, []byte("\n"+hookinject.ExtensionMarker+"\n")...)
	return os.WriteFile(path, content, 0644)
}

// MergeSettings deep-merges the JSON fragment at sourcePath into the shared
// settings file and returns the dotted keys touched.
func (e *Executor) MergeSettings(sourcePath string) ([]string, error) {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings fragment: %w", err)
	}
	var fragment map[string]interface{}
	if err := json.Unmarshal(data, &fragment); err != nil {
		return nil, fmt.Errorf("failed to parse settings fragment %s: %w", sourcePath, err)
	}
	return settings.Merge(e.env.SettingsPath(), fragment)
}

// resolveSource resolves an action source path against the pack root.
// Absolute sources are used as-is.
func resolveSource(packRoot, source string) string {
	if packRoot == "" || source == "" || os.IsPathSeparator(source[0]) {
		return source
	}
	return packRoot + string(os.PathSeparator) + source
}
