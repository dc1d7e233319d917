// Package doctor audits installed state against declared components.
//
// Checks are derived mechanically from each component's install action, so
// packs get verification without hand-writing a check per component. Doctor
// never consults the ledger: every probe reads actual on-disk or registered
// state.
package doctor

import (
	"path/filepath"

	"github.com/mcsetup/mcs/internal/component"
	"github.com/mcsetup/mcs/internal/executor"
)

// ManagedMarker is the literal token embedded in generated files that marks
// them as owned and overwritable by the installer. Files without it are
// treated as legacy or hand-edited.
const ManagedMarker = "<!-- managed-by: mcs -->"

// DeriveCheck maps a component's install action to its verification probe,
// or nil when the action has no mechanical way to verify. Shell commands,
// settings merges, and gitignore entries are deliberately non-derivable;
// components carrying those verify only through supplementary checks.
func DeriveCheck(comp *component.ComponentDefinition) *component.Check {
	name := comp.DisplayName
	if name == "" {
		name = comp.ID
	}

	switch action := comp.Install.(type) {
	case component.CopyHookAction:
		return &component.Check{
			Name:    name,
			Section: "Hooks",
			Kind:    component.CheckKindFileMarker,
			Path:    action.Destination,
		}

	case component.MCPServerAction:
		return &component.Check{
			Name:    name,
			Section: "MCP Servers",
			Kind:    component.CheckKindMCPRegistered,
			Server:  action.Name,
			Scope:   action.Config.Scope.Default(),
		}

	case component.PluginAction:
		ref, err := component.ParsePluginRef(action.Name)
		if err != nil {
			return nil
		}
		return &component.Check{
			Name:    name,
			Section: "Plugins",
			Kind:    component.CheckKindPluginRegistered,
			Plugin:  ref.FullName(),
		}

	case component.BrewInstallAction:
		return &component.Check{
			Name:    name,
			Section: "Dependencies",
			Kind:    component.CheckKindCommandExists,
			Command: action.Package,
		}

	case component.CopyFileAction:
		path := executor.DestinationFor(action.FileType, action.Destination)
		return &component.Check{
			Name:    name,
			Section: "Files",
			Kind:    component.CheckKindContentMarker,
			Path:    filepath.ToSlash(path),
		}

	case component.ShellCommandAction, component.SettingsMergeAction, component.GitignoreAction:
		return nil

	default:
		return nil
	}
}

// AllChecks returns the derived check (if any) followed by the component's
// supplementary checks. A component with only a non-derivable action and no
// supplementary checks contributes zero checks.
func AllChecks(comp *component.ComponentDefinition) []component.Check {
	var checks []component.Check
	if derived := DeriveCheck(comp); derived != nil {
		checks = append(checks, *derived)
	}
	return append(checks, comp.SupplementaryChecks...)
}
