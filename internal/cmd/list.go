package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcsetup/mcs/internal/output"
	"github.com/mcsetup/mcs/internal/state"
)

// PackListing summarizes one installed pack for list output.
type PackListing struct {
	Pack      string `json:"pack"`
	Files     int    `json:"files"`
	Servers   int    `json:"mcpServers"`
	Hooks     int    `json:"hookCommands"`
	Sections  int    `json:"templateSections"`
	Settings  int    `json:"settingsKeys"`
	Brews     int    `json:"brewPackages"`
	Plugins   int    `json:"plugins"`
}

// PackList is the list command's output value.
type PackList struct {
	Packs []PackListing `json:"packs"`
}

// String renders the pack list as text.
func (l *PackList) String() string {
	if len(l.Packs) == 0 {
		return "No packs installed."
	}
	var b strings.Builder
	for i, p := range l.Packs {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %d files, %d MCP servers, %d hook fragments, %d template sections, %d settings keys, %d brew packages, %d plugins",
			p.Pack, p.Files, p.Servers, p.Hooks, p.Sections, p.Settings, p.Brews, p.Plugins)
	}
	return b.String()
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List installed packs and their recorded artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList()
		},
	}
	return cmd
}

func runList() error {
	projectPath, err := resolveProject()
	if err != nil {
		return err
	}
	writer, err := newOutputWriter()
	if err != nil {
		return err
	}

	st := state.Load(projectPath)
	list := &PackList{Packs: []PackListing{}}
	for _, packID := range st.InstalledPacks() {
		record := st.Artifacts(packID)
		if record == nil {
			continue
		}
		list.Packs = append(list.Packs, PackListing{
			Pack:     packID,
			Files:    len(record.Files),
			Servers:  len(record.MCPServers),
			Hooks:    len(record.HookCommands),
			Sections: len(record.TemplateSections),
			Settings: len(record.SettingsKeys),
			Brews:    len(record.BrewPackages),
			Plugins:  len(record.Plugins),
		})
	}

	if writer.Format() == output.FormatText {
		writer.Textf("%s", list.String())
		return nil
	}
	return writer.Write(list)
}
