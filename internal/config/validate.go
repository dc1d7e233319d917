package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mcsetup/mcs/internal/component"
	"github.com/mcsetup/mcs/internal/types"
)

// pluginRefPattern validates plugin references: a bare name, "name@alias",
// or "name@org/repo".
var pluginRefPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+(@[a-zA-Z0-9_./-]+)?$`)

// supportedVersion is the manifest schema version this loader understands.
// Version 0 (field omitted) is treated as the current version.
const supportedVersion = 1

// ValidationError represents a manifest validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// validate checks the raw manifest for required fields and valid values.
func validate(m *rawManifest) error {
	var errors []string

	if m.Version != 0 && m.Version != supportedVersion {
		errors = append(errors, ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported manifest version %d (supported: %d)", m.Version, supportedVersion),
		}.Error())
	}

	if m.Pack.ID == "" {
		errors = append(errors, ValidationError{
			Field:   "pack.id",
			Message: "pack id is required",
		}.Error())
	}

	ids := make(map[string]bool, len(m.Components))
	for i := range m.Components {
		id := m.Components[i].ID
		if id != "" && ids[id] {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("components[%d].id", i),
				Message: fmt.Sprintf("duplicate component id '%s'", id),
			}.Error())
		}
		ids[id] = true
	}

	for i := range m.Components {
		if errs := validateComponent(i, &m.Components[i], ids); len(errs) > 0 {
			errors = append(errors, errs...)
		}
	}

	errors = append(errors, validateFragments("hook_fragments", m.HookFragments, true)...)
	errors = append(errors, validateFragments("template_sections", m.TemplateSections, false)...)

	if len(errors) > 0 {
		return fmt.Errorf("validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func validateComponent(index int, c *rawComponent, ids map[string]bool) []string {
	field := func(name string) string {
		return fmt.Sprintf("components[%d].%s", index, name)
	}
	var errs []string
	fail := func(name, msg string) {
		errs = append(errs, ValidationError{Field: field(name), Message: msg}.Error())
	}

	if c.ID == "" {
		fail("id", "id is required")
	}

	compType, err := types.ParseComponentType(c.Type)
	if err != nil {
		fail("type", err.Error())
	}

	for _, dep := range c.Dependencies {
		if !ids[dep] {
			fail("dependencies", fmt.Sprintf("references unknown component '%s'", dep))
		}
	}

	// Exactly one action variant per component.
	actions := 0
	if c.CopyFile != nil {
		actions++
		if c.CopyFile.Source == "" {
			fail("copy_file.source", "source is required")
		}
		if c.CopyFile.Destination == "" {
			fail("copy_file.destination", "destination is required")
		}
		switch compType {
		case types.ComponentTypeFile, types.ComponentTypeSkill, types.ComponentTypeCommand, types.ComponentTypeAgent:
		default:
			fail("type", fmt.Sprintf("type '%s' cannot carry a copy_file action", c.Type))
		}
	}
	if c.CopyHook != nil {
		actions++
		if c.CopyHook.Source == "" {
			fail("copy_hook.source", "source is required")
		}
		if c.CopyHook.Destination == "" {
			fail("copy_hook.destination", "destination is required")
		}
	}
	if c.MCPServer != nil {
		actions++
		errs = append(errs, validateMCPServer(field("mcp_server"), c.MCPServer)...)
	}
	if c.Plugin != "" {
		actions++
		if !pluginRefPattern.MatchString(c.Plugin) {
			fail("plugin", fmt.Sprintf("invalid plugin reference '%s'", c.Plugin))
		}
	}
	if c.Brew != "" {
		actions++
	}
	if c.Shell != "" {
		actions++
	}
	if c.SettingsMerge != "" {
		actions++
	}
	if len(c.Gitignore) > 0 {
		actions++
		for _, entry := range c.Gitignore {
			if strings.TrimSpace(entry) == "" {
				fail("gitignore", "entries must be non-empty")
			}
		}
	}

	if actions == 0 {
		fail("", "an install action is required")
	} else if actions > 1 {
		fail("", fmt.Sprintf("exactly one install action allowed, found %d", actions))
	}

	for j, check := range c.Checks {
		if check.Name == "" {
			fail(fmt.Sprintf("checks[%d].name", j), "name is required")
		}
		if !validCheckKind(check.Kind) {
			fail(fmt.Sprintf("checks[%d].kind", j), fmt.Sprintf("invalid check kind '%s'", check.Kind))
		}
		if _, err := types.ParseScope(check.Scope); err != nil {
			fail(fmt.Sprintf("checks[%d].scope", j), err.Error())
		}
	}

	return errs
}

func validateFragments(section string, fragments []rawFragment, needsHook bool) []string {
	var errs []string
	seen := make(map[string]bool, len(fragments))
	for i, f := range fragments {
		fail := func(name, msg string) {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%s[%d].%s", section, i, name),
				Message: msg,
			}.Error())
		}
		if f.ID == "" {
			fail("id", "id is required")
		} else if seen[f.ID] {
			fail("id", fmt.Sprintf("duplicate fragment id '%s'", f.ID))
		}
		seen[f.ID] = true
		if f.Version == "" {
			fail("version", "version is required")
		}
		if f.Source == "" {
			fail("source", "source is required")
		}
		if needsHook && f.Hook == "" {
			fail("hook", "hook is required")
		}
	}
	return errs
}

func validateMCPServer(field string, s *rawMCPServer) []string {
	var errs []string
	fail := func(name, msg string) {
		errs = append(errs, ValidationError{Field: field + "." + name, Message: msg}.Error())
	}

	if s.Name == "" {
		fail("name", "name is required")
	}

	transport := types.TransportType(s.Transport)
	if err := transport.Validate(); err != nil {
		fail("transport", err.Error())
	}

	if transport.RequiresCommand() && s.Command == "" {
		fail("command", "command is required for stdio transport")
	}
	if transport.RequiresURL() && s.URL == "" {
		fail("url", "url is required for http/sse transport")
	}

	if _, err := types.ParseScope(s.Scope); err != nil {
		fail("scope", err.Error())
	}

	return errs
}

func validCheckKind(kind string) bool {
	switch component.CheckKind(kind) {
	case component.CheckKindFileMarker,
		component.CheckKindContentMarker,
		component.CheckKindCommandExists,
		component.CheckKindMCPRegistered,
		component.CheckKindPluginRegistered:
		return true
	}
	return false
}
