// Package settings provides typed access to the shared configuration stores
// the installer mutates: the settings JSON, the MCP server registry, and the
// enabled-plugins map.
//
// All reads are tolerant: a missing or malformed file reads as empty. Writes
// rewrite the whole file atomically.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Env locates the shared stores for one project/home pair.
type Env struct {
	// ProjectPath is the target project directory.
	ProjectPath string
	// HomeDir is the user home directory.
	HomeDir string
}

// SettingsPath returns the shared settings file location.
func (e Env) SettingsPath() string {
	return filepath.Join(e.HomeDir, ".claude", "settings.json")
}

// RegistryPath returns the user-scope MCP registry location.
func (e Env) RegistryPath() string {
	return filepath.Join(e.HomeDir, ".claude.json")
}

// ProjectMCPPath returns the project-scope MCP registry location.
func (e Env) ProjectMCPPath() string {
	return filepath.Join(e.ProjectPath, ".mcp.json")
}

// HookDir returns the home hook script directory.
func (e Env) HookDir() string {
	return filepath.Join(e.HomeDir, ".claude", "hooks")
}

// loadObject reads a JSON object from path. Missing and malformed files both
// read as an empty object; the stores are best-effort shared state and a
// parse failure must not take the whole command down.
func loadObject(path string) map[string]interface{} {
	data, err := os.ReadFile(path)
	if err != nil {
		return map[string]interface{}{}
	}
	var obj map[string]interface{}
	if err := json.Unmarshal(data, &obj); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not parse %s, treating as empty: %v\n", path, err)
		return map[string]interface{}{}
	}
	if obj == nil {
		obj = map[string]interface{}{}
	}
	return obj
}

// saveObject writes obj to path via write-then-rename so a failed write never
// leaves a truncated store behind.
func saveObject(path string, obj map[string]interface{}) error {
	data, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Merge deep-merges fragment into the settings file at path, key by key,
// without disturbing unrelated keys. It returns the dotted key paths of the
// leaves it set, sorted, for later precise removal.
func Merge(path string, fragment map[string]interface{}) ([]string, error) {
	obj := loadObject(path)

	var touched []string
	mergeInto(obj, fragment, "", &touched)
	sort.Strings(touched)

	if err := saveObject(path, obj); err != nil {
		return nil, err
	}
	return touched, nil
}

func mergeInto(dst, src map[string]interface{}, prefix string, touched *[]string) {
	for key, value := range src {
		dotted := key
		if prefix != "" {
			dotted = prefix + "." + key
		}

		srcMap, srcIsMap := value.(map[string]interface{})
		dstMap, dstIsMap := dst[key].(map[string]interface{})
		if srcIsMap && dstIsMap {
			mergeInto(dstMap, srcMap, dotted, touched)
			continue
		}
		if srcIsMap {
			fresh := map[string]interface{}{}
			dst[key] = fresh
			mergeInto(fresh, srcMap, dotted, touched)
			continue
		}

		dst[key] = value
		*touched = append(*touched, dotted)
	}
}

// DeleteKey removes the value at the dotted key path from the settings file,
// pruning parent objects that become empty. Deleting an absent key is a
// no-op. Reports whether a value was removed.
func DeleteKey(path, dottedKey string) (bool, error) {
	obj := loadObject(path)

	if !deleteDotted(obj, strings.Split(dottedKey, ".")) {
		return false, nil
	}
	return true, saveObject(path, obj)
}

// deleteDotted removes the leaf at segs from obj and reports whether
// anything was removed.
func deleteDotted(obj map[string]interface{}, segs []string) bool {
	if len(segs) == 0 {
		return false
	}
	if len(segs) == 1 {
		if _, ok := obj[segs[0]]; !ok {
			return false
		}
		delete(obj, segs[0])
		return true
	}
	child, ok := obj[segs[0]].(map[string]interface{})
	if !ok {
		return false
	}
	if !deleteDotted(child, segs[1:]) {
		return false
	}
	if len(child) == 0 {
		delete(obj, segs[0])
	}
	return true
}

// EnablePlugin records fullName as enabled in the settings file.
func EnablePlugin(path, fullName string) error {
	obj := loadObject(path)
	plugins, _ := obj["enabledPlugins"].(map[string]interface{})
	if plugins == nil {
		plugins = map[string]interface{}{}
		obj["enabledPlugins"] = plugins
	}
	plugins[fullName] = true
	return saveObject(path, obj)
}

// DisablePlugin drops fullName from the enabled-plugins map. Reports whether
// the entry existed.
func DisablePlugin(path, fullName string) (bool, error) {
	obj := loadObject(path)
	plugins, _ := obj["enabledPlugins"].(map[string]interface{})
	if plugins == nil {
		return false, nil
	}
	if _, ok := plugins[fullName]; !ok {
		return false, nil
	}
	delete(plugins, fullName)
	if len(plugins) == 0 {
		delete(obj, "enabledPlugins")
	}
	return true, saveObject(path, obj)
}

// IsPluginEnabled reports whether fullName is enabled in the settings file.
func IsPluginEnabled(path, fullName string) bool {
	obj := loadObject(path)
	plugins, _ := obj["enabledPlugins"].(map[string]interface{})
	enabled, _ := plugins[fullName].(bool)
	return enabled
}
