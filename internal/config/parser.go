// Package config handles pack manifest parsing and location resolution.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format represents the file format of a pack manifest.
type Format int

const (
	FormatUnknown Format = iota
	FormatYAML
	FormatTOML
	FormatJSON
)

// detectFormat determines the file format based on extension or content.
func detectFormat(path string, content []byte) Format {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".json":
		return FormatJSON
	}

	// Content sniffing for extensionless files
	return sniffFormat(content)
}

// sniffFormat attempts to detect format from content.
func sniffFormat(content []byte) Format {
	trimmed := strings.TrimSpace(string(content))

	// JSON starts with { or [
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return FormatJSON
	}

	// TOML typically has [sections] or key = value; YAML uses key: value.
	if strings.Contains(trimmed, " = ") || strings.HasPrefix(trimmed, "[") {
		lines := strings.Split(trimmed, "\n")
		for _, line := range lines {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			if strings.Contains(line, " = ") || strings.HasPrefix(line, "[") {
				return FormatTOML
			}
			// If we see : without =, it's likely YAML
			if strings.Contains(line, ":") && !strings.Contains(line, "=") {
				return FormatYAML
			}
		}
	}

	// Default to YAML if we see colons
	if strings.Contains(trimmed, ":") {
		return FormatYAML
	}

	return FormatUnknown
}

// rawManifest is the intermediate representation a manifest file parses into.
// Validation and conversion to component definitions happen afterwards.
type rawManifest struct {
	Version          int               `yaml:"version" toml:"version" json:"version"`
	Pack             rawPackMeta       `yaml:"pack" toml:"pack" json:"pack"`
	Values           map[string]string `yaml:"values" toml:"values" json:"values"`
	Components       []rawComponent    `yaml:"components" toml:"components" json:"components"`
	HookFragments    []rawFragment     `yaml:"hook_fragments,omitempty" toml:"hook_fragments,omitempty" json:"hook_fragments,omitempty"`
	TemplateSections []rawFragment     `yaml:"template_sections,omitempty" toml:"template_sections,omitempty" json:"template_sections,omitempty"`
}

// rawFragment declares a versioned managed block: a hook fragment injected
// into an existing hook script, or a section appended to the project
// template file. Template sections ignore the Hook field.
type rawFragment struct {
	ID      string `yaml:"id" toml:"id" json:"id"`
	Version string `yaml:"version" toml:"version" json:"version"`
	Hook    string `yaml:"hook,omitempty" toml:"hook,omitempty" json:"hook,omitempty"`
	Source  string `yaml:"source" toml:"source" json:"source"`
}

type rawPackMeta struct {
	ID          string `yaml:"id" toml:"id" json:"id"`
	Name        string `yaml:"name,omitempty" toml:"name,omitempty" json:"name,omitempty"`
	Description string `yaml:"description,omitempty" toml:"description,omitempty" json:"description,omitempty"`
}

// rawComponent carries one field per action variant; validation enforces
// that exactly one of them is set.
type rawComponent struct {
	ID           string   `yaml:"id" toml:"id" json:"id"`
	Name         string   `yaml:"name,omitempty" toml:"name,omitempty" json:"name,omitempty"`
	Description  string   `yaml:"description,omitempty" toml:"description,omitempty" json:"description,omitempty"`
	Type         string   `yaml:"type" toml:"type" json:"type"`
	Dependencies []string `yaml:"dependencies,omitempty" toml:"dependencies,omitempty" json:"dependencies,omitempty"`
	Required     bool     `yaml:"required,omitempty" toml:"required,omitempty" json:"required,omitempty"`

	CopyFile      *rawCopy      `yaml:"copy_file,omitempty" toml:"copy_file,omitempty" json:"copy_file,omitempty"`
	CopyHook      *rawCopy      `yaml:"copy_hook,omitempty" toml:"copy_hook,omitempty" json:"copy_hook,omitempty"`
	MCPServer     *rawMCPServer `yaml:"mcp_server,omitempty" toml:"mcp_server,omitempty" json:"mcp_server,omitempty"`
	Plugin        string        `yaml:"plugin,omitempty" toml:"plugin,omitempty" json:"plugin,omitempty"`
	Brew          string        `yaml:"brew,omitempty" toml:"brew,omitempty" json:"brew,omitempty"`
	Shell         string        `yaml:"shell,omitempty" toml:"shell,omitempty" json:"shell,omitempty"`
	SettingsMerge string        `yaml:"settings_merge,omitempty" toml:"settings_merge,omitempty" json:"settings_merge,omitempty"`
	Gitignore     []string      `yaml:"gitignore,omitempty" toml:"gitignore,omitempty" json:"gitignore,omitempty"`

	Checks []rawCheck `yaml:"checks,omitempty" toml:"checks,omitempty" json:"checks,omitempty"`
}

type rawCopy struct {
	Source      string `yaml:"source" toml:"source" json:"source"`
	Destination string `yaml:"destination" toml:"destination" json:"destination"`
}

type rawMCPServer struct {
	Name      string            `yaml:"name" toml:"name" json:"name"`
	Transport string            `yaml:"transport" toml:"transport" json:"transport"`
	Command   string            `yaml:"command,omitempty" toml:"command,omitempty" json:"command,omitempty"`
	Args      []string          `yaml:"args,omitempty" toml:"args,omitempty" json:"args,omitempty"`
	URL       string            `yaml:"url,omitempty" toml:"url,omitempty" json:"url,omitempty"`
	Env       map[string]string `yaml:"env,omitempty" toml:"env,omitempty" json:"env,omitempty"`
	Headers   map[string]string `yaml:"headers,omitempty" toml:"headers,omitempty" json:"headers,omitempty"`
	Scope     string            `yaml:"scope,omitempty" toml:"scope,omitempty" json:"scope,omitempty"`
}

type rawCheck struct {
	Name    string `yaml:"name" toml:"name" json:"name"`
	Section string `yaml:"section,omitempty" toml:"section,omitempty" json:"section,omitempty"`
	Kind    string `yaml:"kind" toml:"kind" json:"kind"`
	Path    string `yaml:"path,omitempty" toml:"path,omitempty" json:"path,omitempty"`
	Command string `yaml:"command,omitempty" toml:"command,omitempty" json:"command,omitempty"`
	Server  string `yaml:"server,omitempty" toml:"server,omitempty" json:"server,omitempty"`
	Scope   string `yaml:"scope,omitempty" toml:"scope,omitempty" json:"scope,omitempty"`
	Plugin  string `yaml:"plugin,omitempty" toml:"plugin,omitempty" json:"plugin,omitempty"`
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns in content.
func expandEnvVars(content []byte) []byte {
	return envVarPattern.ReplaceAllFunc(content, func(match []byte) []byte {
		parts := envVarPattern.FindSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := string(parts[1])
		value := os.Getenv(varName)

		if value == "" && len(parts) >= 3 && len(parts[2]) > 0 {
			// Use default value
			value = string(parts[2])
		}

		return []byte(value)
	})
}

// parse parses the content according to the specified format.
func parse(content []byte, format Format) (*rawManifest, error) {
	// Expand environment variables first
	content = expandEnvVars(content)

	var raw rawManifest

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(content, &raw); err != nil {
			return nil, fmt.Errorf("YAML parse error: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(content, &raw); err != nil {
			return nil, fmt.Errorf("TOML parse error: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(content, &raw); err != nil {
			return nil, fmt.Errorf("JSON parse error: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown file format")
	}

	if raw.Values == nil {
		raw.Values = make(map[string]string)
	}

	return &raw, nil
}
