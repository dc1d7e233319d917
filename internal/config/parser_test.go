package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mcsetup/mcs/internal/component"
	"github.com/mcsetup/mcs/internal/types"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		content  string
		expected Format
	}{
		{"yaml extension", "mcs-pack.yaml", "", FormatYAML},
		{"yml extension", "mcs-pack.yml", "", FormatYAML},
		{"toml extension", "mcs-pack.toml", "", FormatTOML},
		{"json extension", "mcs-pack.json", "", FormatJSON},
		{"json content", "mcs-pack", `{"version": 1}`, FormatJSON},
		{"yaml content", "mcs-pack", `version: 1`, FormatYAML},
		{"toml content", "mcs-pack", `version = 1`, FormatTOML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectFormat(tt.path, []byte(tt.content))
			if got != tt.expected {
				t.Errorf("detectFormat() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("TEST_VAR", "test_value")
	os.Setenv("EMPTY_VAR", "")
	defer os.Unsetenv("TEST_VAR")
	defer os.Unsetenv("EMPTY_VAR")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple var", "${TEST_VAR}", "test_value"},
		{"var with default", "${MISSING_VAR:-default_value}", "default_value"},
		{"existing var ignores default", "${TEST_VAR:-default_value}", "test_value"},
		{"empty var uses default", "${EMPTY_VAR:-default_value}", "default_value"},
		{"no var", "plain text", "plain text"},
		{"mixed content", "prefix ${TEST_VAR} suffix", "prefix test_value suffix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(expandEnvVars([]byte(tt.input)))
			if got != tt.expected {
				t.Errorf("expandEnvVars() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestParseYAML(t *testing.T) {
	content := []byte(`
version: 1
pack:
  id: go-backend
  name: Go Backend
values:
  BRANCH_PREFIX: feature
components:
  - id: dev-guide
    name: Development Guide
    type: file
    required: true
    copy_file:
      source: docs/guide.md
      destination: docs/guide.md
  - id: docs-mcp
    type: mcpServer
    dependencies: [dev-guide]
    mcp_server:
      name: docs
      transport: stdio
      command: npx
      args: ["@modelcontextprotocol/server-filesystem", "/tmp"]
  - id: review-plugin
    type: plugin
    plugin: code-review@official
    checks:
      - name: Reviewer enabled
        section: Plugins
        kind: pluginRegistered
        plugin: code-review
`)

	raw, err := parse(content, FormatYAML)
	if err != nil {
		t.Fatalf("parse() error = %v", err)
	}

	if raw.Version != 1 {
		t.Errorf("Version = %d, want 1", raw.Version)
	}
	if raw.Pack.ID != "go-backend" {
		t.Errorf("Pack.ID = %s, want go-backend", raw.Pack.ID)
	}
	if raw.Values["BRANCH_PREFIX"] != "feature" {
		t.Errorf("Values[BRANCH_PREFIX] = %s, want feature", raw.Values["BRANCH_PREFIX"])
	}
	if len(raw.Components) != 3 {
		t.Fatalf("Components count = %d, want 3", len(raw.Components))
	}

	if raw.Components[0].CopyFile == nil || raw.Components[0].CopyFile.Source != "docs/guide.md" {
		t.Error("component 0 should carry a copy_file action")
	}
	if !raw.Components[0].Required {
		t.Error("component 0 should be required")
	}
	if raw.Components[1].MCPServer == nil || raw.Components[1].MCPServer.Command != "npx" {
		t.Error("component 1 should carry an mcp_server action")
	}
	if len(raw.Components[1].Dependencies) != 1 || raw.Components[1].Dependencies[0] != "dev-guide" {
		t.Errorf("component 1 Dependencies = %v, want [dev-guide]", raw.Components[1].Dependencies)
	}
	if raw.Components[2].Plugin != "code-review@official" {
		t.Errorf("component 2 Plugin = %s", raw.Components[2].Plugin)
	}
	if len(raw.Components[2].Checks) != 1 || raw.Components[2].Checks[0].Kind != "pluginRegistered" {
		t.Error("component 2 should carry a supplementary check")
	}
}

func TestParseTOML(t *testing.T) {
	content := []byte(`
version = 1

[pack]
id = "go-backend"

[[components]]
id = "jq-dep"
type = "brewPackage"
brew = "jq"
`)

	raw, err := parse(content, FormatTOML)
	if err != nil {
		t.Fatalf("parse() error = %v", err)
	}
	if raw.Pack.ID != "go-backend" {
		t.Errorf("Pack.ID = %s, want go-backend", raw.Pack.ID)
	}
	if len(raw.Components) != 1 || raw.Components[0].Brew != "jq" {
		t.Error("expected a single brew component")
	}
}

func TestParseJSON(t *testing.T) {
	content := []byte(`{
  "version": 1,
  "pack": {"id": "go-backend"},
  "components": [
    {"id": "ignores", "type": "configuration", "gitignore": [".cache/", "dist/"]}
  ]
}`)

	raw, err := parse(content, FormatJSON)
	if err != nil {
		t.Fatalf("parse() error = %v", err)
	}
	if len(raw.Components) != 1 || len(raw.Components[0].Gitignore) != 2 {
		t.Error("expected a single gitignore component with two entries")
	}
}

func TestLoadConvertsComponents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mcs-pack.yaml")
	content := `
version: 1
pack:
  id: go-backend
values:
  REPO_NAME: my-app
components:
  - id: review-skill
    name: Go Review
    type: skill
    copy_file:
      source: skills/go-review
      destination: go-review
  - id: docs-mcp
    type: mcpServer
    mcp_server:
      name: docs
      transport: http
      url: https://docs.example.com/mcp
      scope: project
  - id: perms
    type: configuration
    settings_merge: settings/permissions.json
hook_fragments:
  - id: go-env
    version: "2"
    hook: session-start.sh
    source: fragments/go-env.sh
template_sections:
  - id: conventions
    version: "1"
    source: sections/conventions.md
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if m.ID != "go-backend" {
		t.Errorf("ID = %s, want go-backend", m.ID)
	}
	if m.Values["REPO_NAME"] != "my-app" {
		t.Errorf("Values[REPO_NAME] = %s, want my-app", m.Values["REPO_NAME"])
	}
	if len(m.Components) != 3 {
		t.Fatalf("Components count = %d, want 3", len(m.Components))
	}

	skill := m.Components[0]
	if skill.Pack != "go-backend" {
		t.Errorf("Pack = %s, want go-backend", skill.Pack)
	}
	action, ok := skill.Install.(component.CopyFileAction)
	if !ok {
		t.Fatalf("Install = %T, want CopyFileAction", skill.Install)
	}
	if action.FileType != types.ComponentTypeSkill {
		t.Errorf("FileType = %s, want skill", action.FileType)
	}

	mcp, ok := m.Components[1].Install.(component.MCPServerAction)
	if !ok {
		t.Fatalf("Install = %T, want MCPServerAction", m.Components[1].Install)
	}
	if mcp.Config.Scope != types.ScopeProject {
		t.Errorf("Scope = %s, want project", mcp.Config.Scope)
	}

	if _, ok := m.Components[2].Install.(component.SettingsMergeAction); !ok {
		t.Fatalf("Install = %T, want SettingsMergeAction", m.Components[2].Install)
	}

	for _, comp := range m.Components {
		if err := comp.Validate(); err != nil {
			t.Errorf("converted component %s fails Validate(): %v", comp.ID, err)
		}
	}

	if len(m.HookFragments) != 1 || m.HookFragments[0].Hook != "session-start.sh" {
		t.Errorf("HookFragments = %+v, want the session-start fragment", m.HookFragments)
	}
	if len(m.TemplateSections) != 1 || m.TemplateSections[0].ID != "conventions" {
		t.Errorf("TemplateSections = %+v, want the conventions section", m.TemplateSections)
	}
}

func TestFindManifest(t *testing.T) {
	dir := t.TempDir()
	if _, err := FindManifest(dir); err == nil {
		t.Error("FindManifest() should fail in an empty directory")
	}

	path := filepath.Join(dir, "mcs-pack.toml")
	if err := os.WriteFile(path, []byte("version = 1\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	found, err := FindManifest(dir)
	if err != nil {
		t.Fatalf("FindManifest() error = %v", err)
	}
	if found != path {
		t.Errorf("FindManifest() = %s, want %s", found, path)
	}
}
