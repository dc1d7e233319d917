package component

import "github.com/mcsetup/mcs/internal/types"

// CheckKind identifies the probe a doctor check performs.
type CheckKind string

const (
	// CheckKindFileMarker probes for the presence of an installed file.
	CheckKindFileMarker CheckKind = "fileMarker"
	// CheckKindContentMarker probes a managed file's content for the managed
	// marker and unresolved placeholders.
	CheckKindContentMarker CheckKind = "contentMarker"
	// CheckKindCommandExists probes for a command on PATH.
	CheckKindCommandExists CheckKind = "commandExists"
	// CheckKindMCPRegistered probes the MCP registry for a named server.
	CheckKindMCPRegistered CheckKind = "mcpRegistered"
	// CheckKindPluginRegistered probes settings for an enabled plugin.
	CheckKindPluginRegistered CheckKind = "pluginRegistered"
)

// Check is a declarative verification probe. Derived checks are produced from
// install actions by the doctor deriver; supplementary checks are declared
// directly on a component for states the action cannot describe.
type Check struct {
	// Name is the human-readable label for the probe.
	Name string
	// Section groups checks in doctor output ("Hooks", "MCP Servers", ...).
	Section string
	// Kind selects the probe.
	Kind CheckKind

	// Path is the probed file, relative to the project or hook directory,
	// for file and content probes.
	Path string
	// Command is the binary name for command-existence probes.
	Command string
	// Server is the MCP server name for registration probes.
	Server string
	// Scope qualifies which registry a server probe consults.
	Scope types.Scope
	// Plugin is the full plugin reference for plugin probes.
	Plugin string
}
