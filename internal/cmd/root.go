// Package cmd contains the CLI command implementations.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	outputFormat string
	projectFlag  string
	verbose      bool
	quiet        bool
)

func Execute(version, commit, date string) error {
	rootCmd := &cobra.Command{
		Use:   "mcs",
		Short: "Declarative installer for Claude project components",
		Long: `mcs installs tech-pack components into a project and its Claude
environment: files, skills, commands, agents, hook scripts, MCP servers,
plugins, Homebrew packages, and settings fragments.

Every install is tracked in a per-project ledger so packs can be verified
with mcs doctor and removed cleanly with mcs uninstall.`,
		Version:      fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "Output format: text, json, yaml")
	rootCmd.PersistentFlags().StringVarP(&projectFlag, "project", "p", "", "Project directory (default: current directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")

	// Add subcommands
	rootCmd.AddCommand(newInstallCmd())
	rootCmd.AddCommand(newUninstallCmd())
	rootCmd.AddCommand(newDoctorCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newMigrateStateCmd())

	// Register completion function for output flag
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})

	return rootCmd.Execute()
}
