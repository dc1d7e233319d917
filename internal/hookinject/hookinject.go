// Package hookinject manages versioned text fragments inside shared hook
// scripts.
//
// A managed hook file carries one fixed extension marker line. Fragments
// contributed by components are delimited by begin/end marker comments that
// carry the fragment identifier and version, and are inserted immediately
// before the extension marker. Injection is idempotent: re-injecting an
// identifier replaces its block in place.
package hookinject

import (
	"fmt"
	"os"
	"strings"

	"github.com/mcsetup/mcs/internal/backup"
)

// ExtensionMarker is the fixed anchor line inside a managed hook file.
// It appears exactly once and is never removed or duplicated.
const ExtensionMarker = "# --- mcs:extensions ---"

const (
	beginPrefix = "# --- mcs:begin "
	endPrefix   = "# --- mcs:end "
	markerSuffix = " ---"
)

// BeginMarker renders the begin delimiter for an identifier and version.
func BeginMarker(identifier, version string) string {
	return fmt.Sprintf("%s%s v%s%s", beginPrefix, identifier, version, markerSuffix)
}

// EndMarker renders the end delimiter for an identifier.
func EndMarker(identifier string) string {
	return endPrefix + identifier + markerSuffix
}

// segment is either a run of unmanaged lines or one managed block. Keeping
// unmanaged runs in place means sibling content survives byte-for-byte when
// a single block is replaced or removed.
type segment struct {
	raw   []string
	block *fragmentBlock
}

type fragmentBlock struct {
	identifier string
	version    string
	body       []string
}

// hookFile is the parsed shape of a managed hook file: segments before the
// extension marker, the marker itself, and everything after it.
type hookFile struct {
	segments        []segment
	hasMarker       bool
	tail            []string
	trailingNewline bool
}

// Inject inserts or replaces the block for identifier in the hook file at
// path. An existing block with the same identifier is replaced in place and
// its version bumped; otherwise a new block is appended immediately before
// the extension marker. The original file content is captured into bk before
// mutation so the caller can roll back.
func Inject(path, identifier, version, fragment string, bk *backup.FileBackup) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read hook file %s: %w", path, err)
	}

	hf := parse(string(content))
	if !hf.hasMarker {
		return fmt.Errorf("hook file %s has no extension marker", path)
	}

	if bk != nil {
		if err := bk.Capture(path); err != nil {
			return err
		}
	}

	body := splitLines(fragment)
	replaced := false
	for i := range hf.segments {
		if b := hf.segments[i].block; b != nil && b.identifier == identifier {
			hf.segments[i].block = &fragmentBlock{identifier: identifier, version: version, body: body}
			replaced = true
			break
		}
	}
	if !replaced {
		hf.segments = append(hf.segments, segment{
			block: &fragmentBlock{identifier: identifier, version: version, body: body},
		})
	}

	return writeHookFile(path, hf)
}

// Remove deletes the block for identifier from the hook file at path,
// begin line through end line inclusive. It reports whether a removal
// occurred. A missing file or an absent identifier is a no-op, never an
// error, and never creates the file.
func Remove(path, identifier string) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read hook file %s: %w", path, err)
	}

	hf := parse(string(content))

	found := false
	kept := hf.segments[:0]
	for _, seg := range hf.segments {
		if seg.block != nil && seg.block.identifier == identifier {
			found = true
			continue
		}
		kept = append(kept, seg)
	}
	if !found {
		return false, nil
	}
	hf.segments = kept

	if err := writeHookFile(path, hf); err != nil {
		return false, err
	}
	return true, nil
}

// InstalledVersion returns the version of the block for identifier, or ""
// when the file or block is absent.
func InstalledVersion(path, identifier string) string {
	content, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	for _, seg := range parse(string(content)).segments {
		if seg.block != nil && seg.block.identifier == identifier {
			return seg.block.version
		}
	}
	return ""
}

// parse splits content into (segments, marker, tail). Blocks after the
// extension marker are left in the tail untouched; injection only manages
// the region before the marker.
func parse(content string) *hookFile {
	hf := &hookFile{trailingNewline: strings.HasSuffix(content, "\n")}
	lines := splitLines(content)

	i := 0
	var raw []string
	flushRaw := func() {
		if len(raw) > 0 {
			hf.segments = append(hf.segments, segment{raw: raw})
			raw = nil
		}
	}

	for i < len(lines) {
		line := lines[i]

		if line == ExtensionMarker {
			flushRaw()
			hf.hasMarker = true
			hf.tail = lines[i+1:]
			return hf
		}

		if id, version, ok := parseBeginMarker(line); ok {
			end := findEnd(lines, i+1, id)
			if end >= 0 {
				flushRaw()
				hf.segments = append(hf.segments, segment{
					block: &fragmentBlock{identifier: id, version: version, body: lines[i+1 : end]},
				})
				i = end + 1
				continue
			}
			// Unterminated block: treat the begin line as plain content.
		}

		raw = append(raw, line)
		i++
	}
	flushRaw()
	return hf
}

func parseBeginMarker(line string) (identifier, version string, ok bool) {
	if !strings.HasPrefix(line, beginPrefix) || !strings.HasSuffix(line, markerSuffix) {
		return "", "", false
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(line, beginPrefix), markerSuffix)
	name, v, found := strings.Cut(inner, " v")
	if !found || name == "" || v == "" {
		return "", "", false
	}
	return name, v, true
}

func findEnd(lines []string, from int, identifier string) int {
	end := EndMarker(identifier)
	for i := from; i < len(lines); i++ {
		if lines[i] == end {
			return i
		}
	}
	return -1
}

func writeHookFile(path string, hf *hookFile) error {
	var out []string
	for _, seg := range hf.segments {
		if seg.block != nil {
			out = append(out, BeginMarker(seg.block.identifier, seg.block.version))
			out = append(out, seg.block.body...)
			out = append(out, EndMarker(seg.block.identifier))
			continue
		}
		out = append(out, seg.raw...)
	}
	if hf.hasMarker {
		out = append(out, ExtensionMarker)
		out = append(out, hf.tail...)
	}

	content := strings.Join(out, "\n")
	if hf.trailingNewline {
		content += "\n"
	}
	mode := os.FileMode(0755)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return fmt.Errorf("failed to write hook file %s: %w", path, err)
	}
	return nil
}

// splitLines splits content into lines without a phantom trailing element
// for the final newline.
func splitLines(content string) []string {
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}
