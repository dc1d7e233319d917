package state

import (
	"fmt"
	"os"
	"path/filepath"
)

// LegacyManifestName is the pre-ledger manifest file at the project root.
const LegacyManifestName = ".mcs-manifest"

// LegacyManifestPath returns the legacy manifest location for a project.
func LegacyManifestPath(projectPath string) string {
	return filepath.Join(projectPath, LegacyManifestName)
}

// MigrateLegacy moves a legacy key=value manifest byte-for-byte to the new
// ledger path. It reports whether a migration happened: false when the new
// path already exists or the legacy file is absent. Running it twice yields
// exactly one effective migration.
func MigrateLegacy(projectPath string) (bool, error) {
	legacyPath := LegacyManifestPath(projectPath)
	newPath := StatePath(projectPath)

	if _, err := os.Stat(newPath); err == nil {
		return false, nil
	}

	content, err := os.ReadFile(legacyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read legacy manifest: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(newPath), 0755); err != nil {
		return false, fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := os.WriteFile(newPath, content, 0644); err != nil {
		return false, fmt.Errorf("failed to write migrated state: %w", err)
	}
	if err := os.Remove(legacyPath); err != nil {
		return false, fmt.Errorf("failed to remove legacy manifest: %w", err)
	}
	return true, nil
}
