package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// StateFileName is the ledger file name under the project's .claude directory.
const StateFileName = "mcs-state.json"

// StatePath returns the ledger location for a project.
func StatePath(projectPath string) string {
	return filepath.Join(projectPath, ".claude", StateFileName)
}

// ProjectState is the persisted pack → artifacts ledger.
//
// The ledger is best-effort bookkeeping, not the source of truth for what is
// on disk: loading a missing or malformed file yields an empty ledger, and
// doctor probes disk state independently. There is no internal locking;
// exactly one ProjectState should be live per state file, and callers
// serialize mutating commands externally.
type ProjectState struct {
	path  string
	packs map[string]*PackArtifactRecord
}

// Load reads the ledger for projectPath. A missing or unparseable file
// yields an empty ledger rather than an error.
func Load(projectPath string) *ProjectState {
	s := &ProjectState{
		path:  StatePath(projectPath),
		packs: make(map[string]*PackArtifactRecord),
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return s
	}

	var packs map[string]*PackArtifactRecord
	if err := json.Unmarshal(data, &packs); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not parse %s, starting with empty state: %v\n", s.path, err)
		return s
	}
	for id, record := range packs {
		if record == nil {
			record = &PackArtifactRecord{}
		}
		s.packs[id] = record
	}
	return s
}

// RecordPack marks a pack as installed. Idempotent: an already-recorded pack
// keeps its artifacts.
func (s *ProjectState) RecordPack(packID string) {
	if _, ok := s.packs[packID]; !ok {
		s.packs[packID] = &PackArtifactRecord{}
	}
}

// SetArtifacts replaces a pack's record wholesale, marking it installed if it
// was not.
func (s *ProjectState) SetArtifacts(packID string, record *PackArtifactRecord) {
	if record == nil {
		record = &PackArtifactRecord{}
	}
	s.packs[packID] = record
}

// Artifacts returns the record for a pack, or nil when the pack is not
// installed.
func (s *ProjectState) Artifacts(packID string) *PackArtifactRecord {
	return s.packs[packID]
}

// IsInstalled reports whether the ledger has an entry for the pack.
func (s *ProjectState) IsInstalled(packID string) bool {
	_, ok := s.packs[packID]
	return ok
}

// RemovePack drops a pack's ledger entry.
func (s *ProjectState) RemovePack(packID string) {
	delete(s.packs, packID)
}

// InstalledPacks returns the recorded pack identifiers, sorted.
func (s *ProjectState) InstalledPacks() []string {
	ids := make([]string, 0, len(s.packs))
	for id := range s.packs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Save atomically rewrites the ledger file. Saving is always explicit; no
// mutation autosaves.
func (s *ProjectState) Save() error {
	data, err := json.MarshalIndent(s.packs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	// Write-then-rename so an interrupted save never leaves a half-written
	// ledger behind.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}
