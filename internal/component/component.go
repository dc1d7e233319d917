// Package component defines the declarative model for installable units.
//
// A ComponentDefinition describes one unit (a file, hook, MCP server, plugin,
// package, or settings fragment) declaratively; the executor interprets its
// install action, and the doctor derives verification checks from it. The
// model never performs I/O itself.
package component

import (
	"fmt"

	"github.com/mcsetup/mcs/internal/types"
)

// ComponentDefinition is an immutable descriptor of one installable unit.
type ComponentDefinition struct {
	// ID is the globally unique component identifier.
	ID string
	// DisplayName is the human-readable name shown in summaries and doctor output.
	DisplayName string
	// Description explains what the component provides.
	Description string
	// Type classifies the component.
	Type types.ComponentType
	// Pack is the identifier of the owning pack, if any.
	Pack string
	// Dependencies lists other component ids this one expects to be installed.
	// Informational only: execution order is caller-driven, not resolved here.
	Dependencies []string
	// Required marks components whose failure should fail the whole pack install.
	Required bool
	// Install is the action performed to install this component.
	// Exactly one action variant per definition.
	Install InstallAction
	// SupplementaryChecks are pre-built doctor checks not derivable from the
	// install action.
	SupplementaryChecks []Check
}

// Validate checks structural invariants of the definition.
func (c *ComponentDefinition) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("component id is required")
	}
	if err := c.Type.Validate(); err != nil {
		return fmt.Errorf("component %s: %w", c.ID, err)
	}
	if c.Install == nil {
		return fmt.Errorf("component %s: install action is required", c.ID)
	}
	return nil
}

// InstallAction is the closed variant set of things installation can do.
// Exactly one concrete type exists per ActionKind; the executor and the
// doctor deriver both switch exhaustively over these types.
type InstallAction interface {
	// Kind identifies the variant.
	Kind() types.ActionKind
}

// CopyFileAction copies a file or directory tree into the project.
type CopyFileAction struct {
	// Source is the path of the file or tree to copy, relative to the pack root.
	Source string
	// Destination is the path inside the type-specific destination subtree.
	Destination string
	// FileType selects the destination subtree (file, skill, command, agent).
	FileType types.ComponentType
}

func (CopyFileAction) Kind() types.ActionKind { return types.ActionCopyFile }

// CopyHookAction copies a hook script template into the home hook directory.
type CopyHookAction struct {
	// Source is the hook script template path.
	Source string
	// Destination is the hook script file name inside the hook directory.
	Destination string
}

func (CopyHookAction) Kind() types.ActionKind { return types.ActionCopyHook }

// MCPServerAction registers a named MCP server configuration.
type MCPServerAction struct {
	Name   string
	Config MCPServerConfig
}

func (MCPServerAction) Kind() types.ActionKind { return types.ActionMCPServer }

// PluginAction enables a plugin reference in the shared settings store.
type PluginAction struct {
	// Name is the raw plugin reference ("name", "name@alias", "name@org/repo").
	Name string
}

func (PluginAction) Kind() types.ActionKind { return types.ActionPlugin }

// BrewInstallAction installs a package through Homebrew.
type BrewInstallAction struct {
	Package string
}

func (BrewInstallAction) Kind() types.ActionKind { return types.ActionBrewInstall }

// ShellCommandAction runs an arbitrary command through the shell collaborator.
// Not mechanically reversible and not derivable into a doctor check.
type ShellCommandAction struct {
	Command string
}

func (ShellCommandAction) Kind() types.ActionKind { return types.ActionShellCommand }

// SettingsMergeAction deep-merges a JSON fragment into the shared settings.
type SettingsMergeAction struct {
	// Source is the path of the JSON fragment to merge.
	Source string
}

func (SettingsMergeAction) Kind() types.ActionKind { return types.ActionSettingsMerge }

// GitignoreAction appends entries to the project .gitignore.
type GitignoreAction struct {
	Entries []string
}

func (GitignoreAction) Kind() types.ActionKind { return types.ActionGitignoreEntries }

// MCPServerConfig describes an MCP server registration.
type MCPServerConfig struct {
	Transport string            `json:"transport"`
	Command   string            `json:"command,omitempty"`
	Args      []string          `json:"args,omitempty"`
	URL       string            `json:"url,omitempty"`
	Env       map[string]string `json:"env,omitempty"`
	Headers   map[string]string `json:"headers,omitempty"`
	Scope     types.Scope       `json:"-"`
}
