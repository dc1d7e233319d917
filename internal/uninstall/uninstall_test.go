package uninstall

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mcsetup/mcs/internal/component"
	"github.com/mcsetup/mcs/internal/executor"
	"github.com/mcsetup/mcs/internal/hookinject"
	"github.com/mcsetup/mcs/internal/settings"
	"github.com/mcsetup/mcs/internal/state"
	"github.com/mcsetup/mcs/internal/types"
)

type mockRunner struct {
	commands []string
	errors   map[string]error
	outputs  map[string][]byte
}

func (m *mockRunner) Run(name string, args ...string) ([]byte, error) {
	cmd := name + " " + strings.Join(args, " ")
	m.commands = append(m.commands, cmd)
	if err, ok := m.errors[cmd]; ok {
		return m.outputs[cmd], err
	}
	return []byte("success"), nil
}

func (m *mockRunner) LookPath(name string) (string, error) {
	return "", fmt.Errorf("%s: not found", name)
}

type fixture struct {
	exec   *executor.Executor
	st     *state.ProjectState
	runner *mockRunner
	un     *Uninstaller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	env := settings.Env{ProjectPath: t.TempDir(), HomeDir: t.TempDir()}
	runner := &mockRunner{errors: make(map[string]error), outputs: make(map[string][]byte)}
	exec := executor.New(env, runner)
	st := state.Load(env.ProjectPath)
	return &fixture{exec: exec, st: st, runner: runner, un: New(exec, st, runner)}
}

func (f *fixture) writeProjectFile(t *testing.T, rel, content string) {
	t.Helper()
	path := filepath.Join(f.exec.Env().ProjectPath, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestUninstallUnknownPack(t *testing.T) {
	f := newFixture(t)
	if _, err := f.un.Uninstall("nope"); err == nil {
		t.Error("Uninstall() of unknown pack should return error")
	}
}

func TestUninstallMixedPresence(t *testing.T) {
	f := newFixture(t)

	// Two recorded files, one manually deleted already, plus one MCP server.
	f.writeProjectFile(t, "docs/setup.md", "x")
	cfg := state.MCPServerArtifact{Name: "docs", Scope: types.ScopeUser}
	if err := f.exec.Env().RegisterMCP("docs", mcpConfig(types.ScopeUser)); err != nil {
		t.Fatalf("RegisterMCP() error = %v", err)
	}

	f.st.RecordPack("go-pack")
	f.st.SetArtifacts("go-pack", &state.PackArtifactRecord{
		Files:      []string{"docs/setup.md", "docs/deleted.md"},
		MCPServers: []state.MCPServerArtifact{cfg},
	})

	summary, err := f.un.Uninstall("go-pack")
	if err != nil {
		t.Fatalf("Uninstall() error = %v", err)
	}

	if summary.TotalRemoved != 2 {
		t.Errorf("TotalRemoved = %d, want 2 (present file + MCP server)", summary.TotalRemoved)
	}
	if len(summary.Errors) != 0 {
		t.Errorf("Errors = %v, want none", summary.Errors)
	}
	if len(summary.Skipped) != 1 || !strings.Contains(summary.Skipped[0], "docs/deleted.md") {
		t.Errorf("Skipped = %v, want one informational skip for the absent file", summary.Skipped)
	}
	if f.st.IsInstalled("go-pack") {
		t.Error("ledger entry should be cleared on full success")
	}
}

func TestUninstallHookFragments(t *testing.T) {
	f := newFixture(t)

	hookDir := f.exec.Env().HookDir()
	if err := os.MkdirAll(hookDir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	hookPath := filepath.Join(hookDir, "pre-commit.sh")
	base := "#!/bin/sh\n" + hookinject.ExtensionMarker + "\n"
	if err := os.WriteFile(hookPath, []byte(base), 0755); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := hookinject.Inject(hookPath, "go-vet", "1", "go vet ./...", nil); err != nil {
		t.Fatalf("Inject() error = %v", err)
	}
	if err := hookinject.Inject(hookPath, "other-pack-check", "1", "other", nil); err != nil {
		t.Fatalf("Inject() error = %v", err)
	}

	f.st.RecordPack("go-pack")
	f.st.SetArtifacts("go-pack", &state.PackArtifactRecord{HookCommands: []string{"go-vet"}})

	summary, err := f.un.Uninstall("go-pack")
	if err != nil {
		t.Fatalf("Uninstall() error = %v", err)
	}
	if summary.TotalRemoved != 1 {
		t.Errorf("TotalRemoved = %d, want 1", summary.TotalRemoved)
	}

	content, _ := os.ReadFile(hookPath)
	if strings.Contains(string(content), "go vet") {
		t.Error("recorded fragment should be removed")
	}
	if !strings.Contains(string(content), "other-pack-check") {
		t.Error("another pack's fragment must survive")
	}
}

func TestUninstallTemplateSections(t *testing.T) {
	f := newFixture(t)

	template := "# Project conventions\n\n" +
		hookinject.BeginMarker("go-conventions", "2") + "\nUse table tests.\n" + hookinject.EndMarker("go-conventions") + "\n\nHand-written tail.\n"
	f.writeProjectFile(t, TemplateFileName, template)

	f.st.RecordPack("go-pack")
	f.st.SetArtifacts("go-pack", &state.PackArtifactRecord{TemplateSections: []string{"go-conventions@v2"}})

	summary, err := f.un.Uninstall("go-pack")
	if err != nil {
		t.Fatalf("Uninstall() error = %v", err)
	}
	if summary.TotalRemoved != 1 {
		t.Errorf("TotalRemoved = %d, want 1", summary.TotalRemoved)
	}

	content, _ := os.ReadFile(filepath.Join(f.exec.Env().ProjectPath, TemplateFileName))
	if strings.Contains(string(content), "go-conventions") {
		t.Error("template section should be stripped")
	}
	if !strings.Contains(string(content), "Hand-written tail.") {
		t.Error("surrounding template content must survive")
	}
}

func TestUninstallSettingsKeysAndPlugins(t *testing.T) {
	f := newFixture(t)
	settingsPath := f.exec.Env().SettingsPath()

	if _, err := settings.Merge(settingsPath, map[string]interface{}{
		"statusLine": map[string]interface{}{"command": "mcs-status"},
	}); err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if err := settings.EnablePlugin(settingsPath, "code-review"); err != nil {
		t.Fatalf("EnablePlugin() error = %v", err)
	}

	f.st.RecordPack("go-pack")
	f.st.SetArtifacts("go-pack", &state.PackArtifactRecord{
		SettingsKeys: []string{"statusLine.command"},
		Plugins:      []string{"code-review"},
	})

	summary, err := f.un.Uninstall("go-pack")
	if err != nil {
		t.Fatalf("Uninstall() error = %v", err)
	}
	if summary.TotalRemoved != 2 {
		t.Errorf("TotalRemoved = %d, want 2", summary.TotalRemoved)
	}
	if settings.IsPluginEnabled(settingsPath, "code-review") {
		t.Error("plugin should be disabled")
	}
}

func TestUninstallPartialFailureKeepsLedgerEntry(t *testing.T) {
	f := newFixture(t)
	f.runner.errors["brew uninstall jq"] = fmt.Errorf("exit status 1")
	f.runner.outputs["brew uninstall jq"] = []byte("brew exploded")

	f.writeProjectFile(t, "docs/setup.md", "x")
	f.st.RecordPack("go-pack")
	f.st.SetArtifacts("go-pack", &state.PackArtifactRecord{
		Files:        []string{"docs/setup.md"},
		BrewPackages: []string{"jq"},
	})

	summary, err := f.un.Uninstall("go-pack")
	if err != nil {
		t.Fatalf("Uninstall() error = %v", err)
	}

	// The failing brew removal must not stop the file removal.
	if summary.TotalRemoved != 1 {
		t.Errorf("TotalRemoved = %d, want 1", summary.TotalRemoved)
	}
	if len(summary.Errors) != 1 || summary.Errors[0].Category != "brewPackage" {
		t.Errorf("Errors = %v, want one brewPackage error", summary.Errors)
	}
	if !f.st.IsInstalled("go-pack") {
		t.Error("ledger entry must stay intact on partial failure for retry")
	}

	// Retry after the external failure clears: already-removed artifacts
	// are skips, not errors.
	f.runner.errors = map[string]error{}
	summary, err = f.un.Uninstall("go-pack")
	if err != nil {
		t.Fatalf("retry Uninstall() error = %v", err)
	}
	if !summary.Succeeded() {
		t.Errorf("retry Errors = %v, want none", summary.Errors)
	}
	if f.st.IsInstalled("go-pack") {
		t.Error("ledger entry should be cleared after successful retry")
	}
}

func mcpConfig(scope types.Scope) component.MCPServerConfig {
	return component.MCPServerConfig{Transport: "stdio", Command: "docs-server", Scope: scope}
}
