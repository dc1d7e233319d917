package cmd

import (
	"github.com/spf13/cobra"
)

func newInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install <pack-dir>",
		Short: "Install a tech pack into the project",
		Long: `Install reads the pack's manifest and applies every component: project
files, skills, hook scripts, MCP server registrations, plugins, Homebrew
packages, shell setup, settings fragments, and gitignore entries.

Installed artifacts are recorded in the project ledger (.claude/mcs-state.json)
so the pack can be verified with doctor and removed with uninstall. Re-running
install re-applies the pack; a failing required component aborts the run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(args[0])
		},
	}
	return cmd
}

func runInstall(packArg string) error {
	projectPath, err := resolveProject()
	if err != nil {
		return err
	}
	env, err := newEnv(projectPath)
	if err != nil {
		return err
	}
	writer, err := newOutputWriter()
	if err != nil {
		return err
	}

	return withLock(projectPath, func() error {
		service := NewInstallService(projectPath, env, nil)
		summary, runErr := service.Run(packArg, InstallOptions{Verbose: verbose, Quiet: quiet})
		if summary != nil && !quiet {
			if err := writer.Write(summary); err != nil {
				return err
			}
		}
		return runErr
	})
}
