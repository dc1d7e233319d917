package hookinject

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mcsetup/mcs/internal/backup"
)

const baseHook = `#!/usr/bin/env bash
# shared pre-commit hook

run_linters() {
  true
}

` + ExtensionMarker + `

run_linters
`

func writeHook(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pre-commit.sh")
	if err := os.WriteFile(path, []byte(content), 0755); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func readHook(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	return string(content)
}

func TestInjectNewBlock(t *testing.T) {
	path := writeHook(t, baseHook)

	if err := Inject(path, "go-vet", "1", "go vet ./...", nil); err != nil {
		t.Fatalf("Inject() error = %v", err)
	}

	content := readHook(t, path)
	if !strings.Contains(content, BeginMarker("go-vet", "1")) {
		t.Error("begin marker missing")
	}
	if !strings.Contains(content, "go vet ./...") {
		t.Error("fragment body missing")
	}
	if !strings.Contains(content, EndMarker("go-vet")) {
		t.Error("end marker missing")
	}

	// Block must sit before the extension marker, which survives exactly once.
	if strings.Count(content, ExtensionMarker) != 1 {
		t.Error("extension marker should appear exactly once")
	}
	if strings.Index(content, EndMarker("go-vet")) > strings.Index(content, ExtensionMarker) {
		t.Error("block should be inserted before the extension marker")
	}
	if !strings.Contains(content, "run_linters\n") {
		t.Error("content after the marker should be preserved")
	}
}

func TestInjectReplacesExistingBlock(t *testing.T) {
	path := writeHook(t, baseHook)

	if err := Inject(path, "go-vet", "1", "go vet ./...", nil); err != nil {
		t.Fatalf("Inject() error = %v", err)
	}
	if err := Inject(path, "go-vet", "2", "go vet -tags extra ./...", nil); err != nil {
		t.Fatalf("Inject() error = %v", err)
	}

	content := readHook(t, path)
	if strings.Count(content, "mcs:begin go-vet") != 1 {
		t.Error("exactly one block for the identifier should survive")
	}
	if !strings.Contains(content, BeginMarker("go-vet", "2")) {
		t.Error("version should be bumped to 2")
	}
	if strings.Contains(content, "go vet ./...\n") && !strings.Contains(content, "-tags extra") {
		t.Error("old body should be replaced")
	}
	if strings.Contains(content, BeginMarker("go-vet", "1")) {
		t.Error("old version marker should be gone")
	}

	if got := InstalledVersion(path, "go-vet"); got != "2" {
		t.Errorf("InstalledVersion() = %q, want %q", got, "2")
	}
}

func TestInjectCapturesBackup(t *testing.T) {
	path := writeHook(t, baseHook)

	bk := backup.New()
	if err := Inject(path, "go-vet", "1", "go vet ./...", bk); err != nil {
		t.Fatalf("Inject() error = %v", err)
	}

	if errs := bk.Restore(); len(errs) != 0 {
		t.Fatalf("Restore() errors = %v", errs)
	}
	if readHook(t, path) != baseHook {
		t.Error("restore should bring back the pre-injection content")
	}
}

func TestInjectMissingMarker(t *testing.T) {
	path := writeHook(t, "#!/usr/bin/env bash\necho hi\n")

	if err := Inject(path, "go-vet", "1", "go vet ./...", nil); err == nil {
		t.Error("Inject() should fail when the extension marker is absent")
	}
}

func TestRemoveBlock(t *testing.T) {
	path := writeHook(t, baseHook)
	if err := Inject(path, "go-vet", "1", "go vet ./...", nil); err != nil {
		t.Fatalf("Inject() error = %v", err)
	}

	removed, err := Remove(path, "go-vet")
	if err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if !removed {
		t.Fatal("Remove() should report a removal")
	}

	content := readHook(t, path)
	if strings.Contains(content, "go-vet") {
		t.Error("block should be fully removed")
	}
	if strings.Count(content, ExtensionMarker) != 1 {
		t.Error("extension marker should be preserved")
	}
	if content != baseHook {
		t.Errorf("file should return to its original content\ngot:\n%s\nwant:\n%s", content, baseHook)
	}
}

func TestRemoveAbsentIdentifier(t *testing.T) {
	path := writeHook(t, baseHook)

	removed, err := Remove(path, "not-there")
	if err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if removed {
		t.Error("Remove() should report no removal for an absent identifier")
	}
	if readHook(t, path) != baseHook {
		t.Error("file content must stay byte-identical")
	}
}

func TestRemoveMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.sh")

	removed, err := Remove(path, "go-vet")
	if err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if removed {
		t.Error("Remove() should report no removal for a missing file")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Remove() must never create the target file")
	}
}

func TestSiblingBlocksIndependent(t *testing.T) {
	path := writeHook(t, baseHook)
	if err := Inject(path, "go-vet", "1", "go vet ./...", nil); err != nil {
		t.Fatalf("Inject() error = %v", err)
	}
	if err := Inject(path, "secret-scan", "3", "scan --staged", nil); err != nil {
		t.Fatalf("Inject() error = %v", err)
	}

	before := readHook(t, path)
	if !strings.Contains(before, "go vet ./...") || !strings.Contains(before, "scan --staged") {
		t.Fatal("both blocks should coexist")
	}

	removed, err := Remove(path, "go-vet")
	if err != nil || !removed {
		t.Fatalf("Remove() = %v, %v", removed, err)
	}

	after := readHook(t, path)
	if strings.Contains(after, "go-vet") {
		t.Error("removed block should be gone")
	}
	if !strings.Contains(after, BeginMarker("secret-scan", "3")) ||
		!strings.Contains(after, "scan --staged") ||
		!strings.Contains(after, EndMarker("secret-scan")) {
		t.Error("sibling block must be fully intact")
	}
	if !strings.Contains(after, ExtensionMarker) {
		t.Error("extension marker must be preserved")
	}
	if !strings.Contains(after, "run_linters() {") {
		t.Error("surrounding code must be preserved")
	}
}

func TestReinjectDoesNotPerturbSiblingSpacing(t *testing.T) {
	path := writeHook(t, baseHook)
	if err := Inject(path, "a", "1", "body-a", nil); err != nil {
		t.Fatalf("Inject() error = %v", err)
	}
	if err := Inject(path, "b", "1", "body-b", nil); err != nil {
		t.Fatalf("Inject() error = %v", err)
	}

	before := readHook(t, path)
	if err := Inject(path, "a", "2", "body-a2", nil); err != nil {
		t.Fatalf("Inject() error = %v", err)
	}
	after := readHook(t, path)

	// Replacing block a must leave block b's region byte-identical.
	bStart := strings.Index(after, BeginMarker("b", "1"))
	bEnd := strings.Index(after, EndMarker("b")) + len(EndMarker("b"))
	if bStart < 0 || bEnd <= bStart {
		t.Fatal("block b missing after reinject")
	}
	if !strings.Contains(before, after[bStart:bEnd]) {
		t.Error("sibling block region changed across reinjection")
	}
}
