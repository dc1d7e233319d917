// Package config handles pack manifest parsing and location resolution.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mcsetup/mcs/internal/component"
	"github.com/mcsetup/mcs/internal/types"
)

// Manifest is the parsed, validated form of a pack manifest file.
type Manifest struct {
	// Version is the manifest schema version.
	Version int
	// ID is the pack identifier recorded in the project ledger.
	ID string
	// Name is the human-readable pack name.
	Name string
	// Description explains what the pack provides.
	Description string
	// Values are the pack's template substitution values (placeholder name
	// to replacement, without the surrounding underscores).
	Values map[string]string
	// Components are the pack's installable units, in manifest order.
	Components []*component.ComponentDefinition
	// HookFragments are versioned blocks injected into existing hook scripts.
	HookFragments []Fragment
	// TemplateSections are versioned blocks appended to the project template
	// file.
	TemplateSections []Fragment
}

// Fragment is a versioned managed block sourced from a pack file.
type Fragment struct {
	// ID is the fragment identifier used in the block markers.
	ID string
	// Version is the fragment version recorded in the begin marker.
	Version string
	// Hook is the target hook script name; empty for template sections.
	Hook string
	// Source is the fragment body file, relative to the pack root.
	Source string
}

// manifestFileNames are the manifest file variants searched for inside a
// pack directory, in order of precedence.
var manifestFileNames = []string{
	"mcs-pack.yaml",
	"mcs-pack.yml",
	"mcs-pack.toml",
	"mcs-pack.json",
	"mcs-pack",
}

// FindManifest locates the manifest file inside a pack directory.
func FindManifest(packRoot string) (string, error) {
	for _, name := range manifestFileNames {
		path := filepath.Join(packRoot, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no pack manifest found in %s", packRoot)
}

// Load reads, parses, and validates a pack manifest from the given path.
func Load(path string) (*Manifest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pack manifest: %w", err)
	}

	format := detectFormat(path, content)
	if format == FormatUnknown {
		return nil, fmt.Errorf("unable to detect file format for %s", path)
	}

	raw, err := parse(content, format)
	if err != nil {
		return nil, err
	}

	if err := validate(raw); err != nil {
		return nil, err
	}

	return convert(raw), nil
}

// convert builds the public manifest from a validated raw manifest.
func convert(raw *rawManifest) *Manifest {
	m := &Manifest{
		Version:     raw.Version,
		ID:          raw.Pack.ID,
		Name:        raw.Pack.Name,
		Description: raw.Pack.Description,
		Values:      raw.Values,
	}
	if m.Version == 0 {
		m.Version = supportedVersion
	}

	for i := range raw.Components {
		m.Components = append(m.Components, convertComponent(m.ID, &raw.Components[i]))
	}
	for _, f := range raw.HookFragments {
		m.HookFragments = append(m.HookFragments, Fragment(f))
	}
	for _, f := range raw.TemplateSections {
		m.TemplateSections = append(m.TemplateSections, Fragment(f))
	}

	return m
}

func convertComponent(packID string, c *rawComponent) *component.ComponentDefinition {
	def := &component.ComponentDefinition{
		ID:           c.ID,
		DisplayName:  c.Name,
		Description:  c.Description,
		Type:         types.ComponentType(c.Type),
		Pack:         packID,
		Dependencies: c.Dependencies,
		Required:     c.Required,
		Install:      convertAction(c),
	}

	for _, check := range c.Checks {
		def.SupplementaryChecks = append(def.SupplementaryChecks, component.Check{
			Name:    check.Name,
			Section: check.Section,
			Kind:    component.CheckKind(check.Kind),
			Path:    check.Path,
			Command: check.Command,
			Server:  check.Server,
			Scope:   types.Scope(check.Scope),
			Plugin:  check.Plugin,
		})
	}

	return def
}

// convertAction maps the single populated action field to its variant.
// Validation guarantees exactly one is set.
func convertAction(c *rawComponent) component.InstallAction {
	switch {
	case c.CopyFile != nil:
		return component.CopyFileAction{
			Source:      c.CopyFile.Source,
			Destination: c.CopyFile.Destination,
			FileType:    types.ComponentType(c.Type),
		}
	case c.CopyHook != nil:
		return component.CopyHookAction{
			Source:      c.CopyHook.Source,
			Destination: c.CopyHook.Destination,
		}
	case c.MCPServer != nil:
		return component.MCPServerAction{
			Name: c.MCPServer.Name,
			Config: component.MCPServerConfig{
				Transport: c.MCPServer.Transport,
				Command:   c.MCPServer.Command,
				Args:      c.MCPServer.Args,
				URL:       c.MCPServer.URL,
				Env:       c.MCPServer.Env,
				Headers:   c.MCPServer.Headers,
				Scope:     types.Scope(c.MCPServer.Scope),
			},
		}
	case c.Plugin != "":
		return component.PluginAction{Name: c.Plugin}
	case c.Brew != "":
		return component.BrewInstallAction{Package: c.Brew}
	case c.Shell != "":
		return component.ShellCommandAction{Command: c.Shell}
	case c.SettingsMerge != "":
		return component.SettingsMergeAction{Source: c.SettingsMerge}
	case len(c.Gitignore) > 0:
		return component.GitignoreAction{Entries: c.Gitignore}
	}
	return nil
}
