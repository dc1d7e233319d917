// Package state persists the ledger of installed packs and their artifacts.
package state

import (
	"strings"

	"github.com/mcsetup/mcs/internal/types"
)

// MCPServerArtifact identifies one recorded MCP server registration.
type MCPServerArtifact struct {
	Name  string      `json:"name"`
	Scope types.Scope `json:"scope"`
}

// PackArtifactRecord accumulates everything installing one pack produced.
// Older ledgers predate the brewPackages and plugins fields; absent fields
// decode as empty collections.
type PackArtifactRecord struct {
	MCPServers       []MCPServerArtifact `json:"mcpServers"`
	Files            []string            `json:"files"`
	TemplateSections []string            `json:"templateSections"`
	HookCommands     []string            `json:"hookCommands"`
	SettingsKeys     []string            `json:"settingsKeys"`
	BrewPackages     []string            `json:"brewPackages,omitempty"`
	Plugins          []string            `json:"plugins,omitempty"`
}

// IsEmpty reports whether every artifact collection is empty.
func (r *PackArtifactRecord) IsEmpty() bool {
	return len(r.MCPServers) == 0 &&
		len(r.Files) == 0 &&
		len(r.TemplateSections) == 0 &&
		len(r.HookCommands) == 0 &&
		len(r.SettingsKeys) == 0 &&
		len(r.BrewPackages) == 0 &&
		len(r.Plugins) == 0
}

// AddFile records an installed file path. Duplicates are dropped.
func (r *PackArtifactRecord) AddFile(path string) {
	r.Files = appendUnique(r.Files, path)
}

// AddMCPServer records an MCP server registration. Duplicates are dropped.
func (r *PackArtifactRecord) AddMCPServer(name string, scope types.Scope) {
	for _, s := range r.MCPServers {
		if s.Name == name && s.Scope == scope {
			return
		}
	}
	r.MCPServers = append(r.MCPServers, MCPServerArtifact{Name: name, Scope: scope})
}

// AddTemplateSection records an injected template section ("id@vN"). A
// later version of the same identifier replaces the earlier entry, since the
// injector keeps one block per identifier.
func (r *PackArtifactRecord) AddTemplateSection(section string) {
	identifier, _, _ := strings.Cut(section, "@")
	for i, existing := range r.TemplateSections {
		existingID, _, _ := strings.Cut(existing, "@")
		if existingID == identifier {
			r.TemplateSections[i] = section
			return
		}
	}
	r.TemplateSections = append(r.TemplateSections, section)
}

// AddHookCommand records an injected hook fragment identifier.
func (r *PackArtifactRecord) AddHookCommand(identifier string) {
	r.HookCommands = appendUnique(r.HookCommands, identifier)
}

// AddSettingsKey records a dotted settings key path.
func (r *PackArtifactRecord) AddSettingsKey(key string) {
	r.SettingsKeys = appendUnique(r.SettingsKeys, key)
}

// AddBrewPackage records a brew-installed package name.
func (r *PackArtifactRecord) AddBrewPackage(pkg string) {
	r.BrewPackages = appendUnique(r.BrewPackages, pkg)
}

// AddPlugin records a full plugin reference.
func (r *PackArtifactRecord) AddPlugin(ref string) {
	r.Plugins = appendUnique(r.Plugins, ref)
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}
