package executor

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mcsetup/mcs/internal/pathsafe"
	"github.com/mcsetup/mcs/internal/types"
)

// DestinationFor composes the project-relative destination for a file type.
// Skills, commands, and agents live in fixed .claude subtrees; plain files
// land where the pack says. The doctor uses the same mapping to locate
// installed files without consulting the ledger.
func DestinationFor(fileType types.ComponentType, destination string) string {
	switch fileType {
	case types.ComponentTypeSkill:
		return filepath.Join(".claude", "skills", destination)
	case types.ComponentTypeCommand:
		return filepath.Join(".claude", "commands", destination)
	case types.ComponentTypeAgent:
		return filepath.Join(".claude", "agents", destination)
	default:
		return destination
	}
}

// pathInDir guard-checks a relative name against dir.
func pathInDir(name, dir string) (string, bool) {
	return pathsafe.SafePath(name, dir)
}

// InstallProjectFile copies a file or directory tree from source into the
// type-specific destination subtree of the project, substitutes __KEY__
// placeholders from values in every copied text file, and returns the
// project-relative paths written (slash-separated, for the ledger).
//
// The composed destination is guard-checked before anything is written; a
// destination escaping the project aborts the install with no partial writes.
func (e *Executor) InstallProjectFile(source, destination string, fileType types.ComponentType, values map[string]string) ([]string, error) {
	destRel := DestinationFor(fileType, destination)
	destAbs, ok := pathsafe.SafePath(destRel, e.env.ProjectPath)
	if !ok {
		return nil, fmt.Errorf("destination %q escapes the project directory", destRel)
	}

	info, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("failed to read source %s: %w", source, err)
	}

	var installed []string
	if info.IsDir() {
		installed, err = e.copyTree(source, destAbs)
	} else {
		err = copyFile(source, destAbs)
		if err == nil {
			installed = []string{destAbs}
		}
	}
	if err != nil {
		return nil, err
	}

	relPaths := make([]string, 0, len(installed))
	for _, abs := range installed {
		if err := substituteFile(abs, values); err != nil {
			return nil, err
		}
		rel, err := filepath.Rel(e.env.ProjectPath, abs)
		if err != nil {
			return nil, fmt.Errorf("failed to relativize %s: %w", abs, err)
		}
		relPaths = append(relPaths, filepath.ToSlash(rel))
	}
	return relPaths, nil
}

// RemoveProjectFile deletes the file or directory at the project-relative
// path. An unsafe path is logged and skipped; an absent target is a silent
// no-op.
func (e *Executor) RemoveProjectFile(relativePath string) error {
	abs, ok := pathsafe.SafePath(filepath.FromSlash(relativePath), e.env.ProjectPath)
	if !ok {
		fmt.Fprintf(os.Stderr, "Warning: skipping unsafe path %s\n", relativePath)
		return nil
	}
	if _, err := os.Stat(abs); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat %s: %w", abs, err)
	}
	if err := os.RemoveAll(abs); err != nil {
		return fmt.Errorf("failed to remove %s: %w", abs, err)
	}
	return nil
}

// ProjectFileExists reports whether the project-relative path exists and is
// safely contained.
func (e *Executor) ProjectFileExists(relativePath string) bool {
	abs, ok := pathsafe.SafePath(filepath.FromSlash(relativePath), e.env.ProjectPath)
	if !ok {
		return false
	}
	_, err := os.Stat(abs)
	return err == nil
}

// InstallHook copies a hook script template into the home hook directory.
// An already-installed hook is left alone so fragments layered into it by
// other components survive.
func (e *Executor) InstallHook(source, destination string) error {
	hookPath, ok := pathInDir(destination, e.env.HookDir())
	if !ok {
		return fmt.Errorf("hook destination %q escapes the hook directory", destination)
	}
	if _, err := os.Stat(hookPath); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(hookPath), 0755); err != nil {
		return fmt.Errorf("failed to create hook directory: %w", err)
	}
	if err := copyFile(source, hookPath); err != nil {
		return err
	}
	return os.Chmod(hookPath, 0755)
}

// AppendGitignoreEntries appends each entry not already present to the
// project .gitignore, preserving existing content and ordering. Returns the
// entries actually added.
func (e *Executor) AppendGitignoreEntries(entries []string) ([]string, error) {
	path := filepath.Join(e.env.ProjectPath, ".gitignore")

	existing := map[string]bool{}
	var lines []string
	content, err := os.ReadFile(path)
	if err == nil {
		lines = strings.Split(strings.TrimRight(string(content), "\n"), "\n")
		for _, line := range lines {
			existing[strings.TrimSpace(line)] = true
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read .gitignore: %w", err)
	}

	var added []string
	for _, entry := range entries {
		if entry == "" || existing[entry] {
			continue
		}
		lines = append(lines, entry)
		existing[entry] = true
		added = append(added, entry)
	}
	if len(added) == 0 {
		return nil, nil
	}

	out := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(out), 0644); err != nil {
		return nil, fmt.Errorf("failed to write .gitignore: %w", err)
	}
	return added, nil
}

// copyTree copies every regular file under source into dest, returning the
// absolute destination paths written.
func (e *Executor) copyTree(source, dest string) ([]string, error) {
	var written []string
	err := filepath.WalkDir(source, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(source, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)
		if !pathsafe.IsContained(target, dest) && target != dest {
			return fmt.Errorf("entry %q escapes the destination tree", rel)
		}
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if err := copyFile(path, target); err != nil {
			return err
		}
		written = append(written, target)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return written, nil
}

func copyFile(source, dest string) error {
	content, err := os.ReadFile(source)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", source, err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", dest, err)
	}
	mode := os.FileMode(0644)
	if info, err := os.Stat(source); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(dest, content, mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return nil
}

// substituteFile performs literal __KEY__ replacement over a copied text
// file. Binary files are left untouched.
func substituteFile(path string, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if bytes.IndexByte(content, 0) >= 0 {
		return nil
	}

	replaced := content
	for key, value := range values {
		replaced = bytes.ReplaceAll(replaced, []byte("__"+key+"__"), []byte(value))
	}
	if bytes.Equal(replaced, content) {
		return nil
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, replaced, mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
