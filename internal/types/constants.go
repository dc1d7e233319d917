// Package types provides type-safe constants for the mcs installer.
//
// This package centralizes all enumerated types used throughout the codebase,
// replacing magic strings with typed constants that provide compile-time safety
// and validation methods.
package types

import (
	"fmt"
	"strings"
)

// ComponentType represents the kind of installable unit a component is.
type ComponentType string

const (
	// ComponentTypeFile indicates a plain project file or directory tree.
	ComponentTypeFile ComponentType = "file"
	// ComponentTypeSkill indicates a skill installed under .claude/skills.
	ComponentTypeSkill ComponentType = "skill"
	// ComponentTypeCommand indicates a slash command under .claude/commands.
	ComponentTypeCommand ComponentType = "command"
	// ComponentTypeAgent indicates an agent definition under .claude/agents.
	ComponentTypeAgent ComponentType = "agent"
	// ComponentTypeHookFile indicates a hook script installed into the home hook directory.
	ComponentTypeHookFile ComponentType = "hookFile"
	// ComponentTypeMCPServer indicates an MCP server registration.
	ComponentTypeMCPServer ComponentType = "mcpServer"
	// ComponentTypePlugin indicates a Claude plugin reference.
	ComponentTypePlugin ComponentType = "plugin"
	// ComponentTypeBrewPackage indicates a Homebrew-installed dependency.
	ComponentTypeBrewPackage ComponentType = "brewPackage"
	// ComponentTypeConfiguration indicates a settings or gitignore mutation.
	ComponentTypeConfiguration ComponentType = "configuration"
)

// AllComponentTypes returns all valid component types.
func AllComponentTypes() []ComponentType {
	return []ComponentType{
		ComponentTypeFile,
		ComponentTypeSkill,
		ComponentTypeCommand,
		ComponentTypeAgent,
		ComponentTypeHookFile,
		ComponentTypeMCPServer,
		ComponentTypePlugin,
		ComponentTypeBrewPackage,
		ComponentTypeConfiguration,
	}
}

// Validate checks if the ComponentType is a valid value.
func (c ComponentType) Validate() error {
	for _, t := range AllComponentTypes() {
		if c == t {
			return nil
		}
	}
	if c == "" {
		return fmt.Errorf("component type is required")
	}
	return fmt.Errorf("invalid component type '%s'", c)
}

// String returns the string representation of the ComponentType.
func (c ComponentType) String() string {
	return string(c)
}

// ParseComponentType parses a string into a ComponentType.
// Returns an error if the string is not a valid component type.
func ParseComponentType(s string) (ComponentType, error) {
	ct := ComponentType(s)
	if err := ct.Validate(); err != nil {
		return "", err
	}
	return ct, nil
}

// ActionKind identifies which install action variant a component carries.
type ActionKind string

const (
	// ActionCopyFile copies a file or tree into the project.
	ActionCopyFile ActionKind = "copyFile"
	// ActionCopyHook copies a hook script into the home hook directory.
	ActionCopyHook ActionKind = "copyHook"
	// ActionMCPServer registers an MCP server configuration.
	ActionMCPServer ActionKind = "mcpServer"
	// ActionPlugin enables a plugin reference.
	ActionPlugin ActionKind = "plugin"
	// ActionBrewInstall installs a package via Homebrew.
	ActionBrewInstall ActionKind = "brewInstall"
	// ActionShellCommand runs an arbitrary shell command.
	ActionShellCommand ActionKind = "shellCommand"
	// ActionSettingsMerge deep-merges a JSON fragment into shared settings.
	ActionSettingsMerge ActionKind = "settingsMerge"
	// ActionGitignoreEntries appends entries to the project .gitignore.
	ActionGitignoreEntries ActionKind = "gitignoreEntries"
)

// AllActionKinds returns all valid action kinds.
func AllActionKinds() []ActionKind {
	return []ActionKind{
		ActionCopyFile,
		ActionCopyHook,
		ActionMCPServer,
		ActionPlugin,
		ActionBrewInstall,
		ActionShellCommand,
		ActionSettingsMerge,
		ActionGitignoreEntries,
	}
}

// Validate checks if the ActionKind is a valid value.
func (a ActionKind) Validate() error {
	for _, k := range AllActionKinds() {
		if a == k {
			return nil
		}
	}
	if a == "" {
		return fmt.Errorf("action kind is required")
	}
	return fmt.Errorf("invalid action kind '%s'", a)
}

// String returns the string representation of the ActionKind.
func (a ActionKind) String() string {
	return string(a)
}

// Scope represents where a registration lands (user or project).
type Scope string

const (
	// ScopeUser indicates user-level scope (applies to all projects).
	ScopeUser Scope = "user"
	// ScopeProject indicates project-level scope (applies only to the current project).
	ScopeProject Scope = "project"
)

// AllScopes returns all valid scopes.
func AllScopes() []Scope {
	return []Scope{ScopeUser, ScopeProject}
}

// Validate checks if the Scope is a valid value.
// Empty scope is considered valid (defaults to user scope).
func (s Scope) Validate() error {
	switch s {
	case ScopeUser, ScopeProject, "":
		return nil
	default:
		return fmt.Errorf("invalid scope '%s' (must be user or project)", s)
	}
}

// String returns the string representation of the Scope.
func (s Scope) String() string {
	return string(s)
}

// IsUser returns true if the scope is user.
func (s Scope) IsUser() bool {
	return s == ScopeUser || s == ""
}

// IsProject returns true if the scope is project.
func (s Scope) IsProject() bool {
	return s == ScopeProject
}

// Default returns the default scope if empty, otherwise returns the current scope.
func (s Scope) Default() Scope {
	if s == "" {
		return ScopeUser
	}
	return s
}

// ParseScope parses a string into a Scope.
// Returns an error if the string is not a valid scope.
func ParseScope(s string) (Scope, error) {
	scope := Scope(strings.ToLower(s))
	if err := scope.Validate(); err != nil {
		return "", err
	}
	return scope, nil
}

// TransportType represents the MCP server transport protocol.
type TransportType string

const (
	// TransportStdio indicates a subprocess server spoken to over stdio.
	TransportStdio TransportType = "stdio"
	// TransportHTTP indicates a server reached over HTTP.
	TransportHTTP TransportType = "http"
	// TransportSSE indicates a server reached over server-sent events.
	TransportSSE TransportType = "sse"
)

// AllTransportTypes returns all valid transport types.
func AllTransportTypes() []TransportType {
	return []TransportType{TransportStdio, TransportHTTP, TransportSSE}
}

// Validate checks if the TransportType is a valid value.
func (t TransportType) Validate() error {
	switch t {
	case TransportStdio, TransportHTTP, TransportSSE:
		return nil
	case "":
		return fmt.Errorf("transport is required")
	default:
		return fmt.Errorf("invalid transport '%s' (must be stdio, http, or sse)", t)
	}
}

// String returns the string representation of the TransportType.
func (t TransportType) String() string {
	return string(t)
}

// RequiresCommand returns true if the transport launches a subprocess.
func (t TransportType) RequiresCommand() bool {
	return t == TransportStdio
}

// RequiresURL returns true if the transport connects to a remote endpoint.
func (t TransportType) RequiresURL() bool {
	return t == TransportHTTP || t == TransportSSE
}

// CheckStatus represents the outcome of a single doctor check.
type CheckStatus string

const (
	// CheckPass indicates the probed state matches what installation produces.
	CheckPass CheckStatus = "pass"
	// CheckWarn indicates a degraded but functional state (legacy file, unresolved placeholder).
	CheckWarn CheckStatus = "warn"
	// CheckFail indicates the artifact is missing or unusable.
	CheckFail CheckStatus = "fail"
)

// AllCheckStatuses returns all valid check statuses.
func AllCheckStatuses() []CheckStatus {
	return []CheckStatus{CheckPass, CheckWarn, CheckFail}
}

// Validate checks if the CheckStatus is a valid value.
func (c CheckStatus) Validate() error {
	switch c {
	case CheckPass, CheckWarn, CheckFail:
		return nil
	case "":
		return fmt.Errorf("check status is required")
	default:
		return fmt.Errorf("invalid check status '%s' (must be pass, warn, or fail)", c)
	}
}

// String returns the string representation of the CheckStatus.
func (c CheckStatus) String() string {
	return string(c)
}

// IsPass returns true if the status is pass.
func (c CheckStatus) IsPass() bool {
	return c == CheckPass
}

// IsWarn returns true if the status is warn.
func (c CheckStatus) IsWarn() bool {
	return c == CheckWarn
}

// IsFail returns true if the status is fail.
func (c CheckStatus) IsFail() bool {
	return c == CheckFail
}
