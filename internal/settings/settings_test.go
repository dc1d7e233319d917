package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func readJSON(t *testing.T, path string) map[string]interface{} {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var obj map[string]interface{}
	if err := json.Unmarshal(data, &obj); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	return obj
}

func TestMergeReportsDottedKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	touched, err := Merge(path, map[string]interface{}{
		"statusLine": map[string]interface{}{"command": "mcs-status", "padding": float64(0)},
		"model":      "default",
	})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	want := []string{"model", "statusLine.command", "statusLine.padding"}
	if !reflect.DeepEqual(touched, want) {
		t.Errorf("touched = %v, want %v", touched, want)
	}
}

func TestMergePreservesUnrelatedKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"theme":"dark","statusLine":{"padding":1}}`), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := Merge(path, map[string]interface{}{
		"statusLine": map[string]interface{}{"command": "mcs-status"},
	}); err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	obj := readJSON(t, path)
	if obj["theme"] != "dark" {
		t.Error("unrelated top-level key should survive")
	}
	sl := obj["statusLine"].(map[string]interface{})
	if sl["padding"] != float64(1) {
		t.Error("sibling key inside merged object should survive")
	}
	if sl["command"] != "mcs-status" {
		t.Error("merged key should be present")
	}
}

func TestMergeMalformedFileReadsAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := Merge(path, map[string]interface{}{"model": "default"}); err != nil {
		t.Fatalf("Merge() over malformed file error = %v", err)
	}
	if readJSON(t, path)["model"] != "default" {
		t.Error("merge over malformed file should start from empty settings")
	}
}

func TestDeleteKeyPrunesEmptyParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if _, err := Merge(path, map[string]interface{}{
		"statusLine": map[string]interface{}{"command": "mcs-status"},
		"theme":      "dark",
	}); err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	removed, err := DeleteKey(path, "statusLine.command")
	if err != nil {
		t.Fatalf("DeleteKey() error = %v", err)
	}
	if !removed {
		t.Error("DeleteKey() should report removal")
	}

	obj := readJSON(t, path)
	if _, ok := obj["statusLine"]; ok {
		t.Error("emptied parent object should be pruned")
	}
	if obj["theme"] != "dark" {
		t.Error("unrelated key should survive deletion")
	}
}

func TestDeleteAbsentKeyIsNoOp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	removed, err := DeleteKey(path, "nothing.here")
	if err != nil {
		t.Errorf("DeleteKey() on missing file error = %v", err)
	}
	if removed {
		t.Error("DeleteKey() on missing file should report no removal")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("deleting from a missing file should not create it")
	}
}

func TestEnableDisablePlugin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	if err := EnablePlugin(path, "code-review"); err != nil {
		t.Fatalf("EnablePlugin() error = %v", err)
	}
	if !IsPluginEnabled(path, "code-review") {
		t.Error("plugin should be enabled")
	}

	removed, err := DisablePlugin(path, "code-review")
	if err != nil {
		t.Fatalf("DisablePlugin() error = %v", err)
	}
	if !removed {
		t.Error("DisablePlugin() should report removal")
	}
	if IsPluginEnabled(path, "code-review") {
		t.Error("plugin should be disabled")
	}

	removed, err = DisablePlugin(path, "code-review")
	if err != nil {
		t.Fatalf("DisablePlugin() error = %v", err)
	}
	if removed {
		t.Error("disabling an absent plugin should report no removal")
	}
}
