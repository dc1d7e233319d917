package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcsetup/mcs/internal/executor"
	"github.com/mcsetup/mcs/internal/output"
	"github.com/mcsetup/mcs/internal/state"
	"github.com/mcsetup/mcs/internal/types"
	"github.com/mcsetup/mcs/internal/uninstall"
)

func newUninstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uninstall <pack-id>",
		Short: "Remove an installed pack's artifacts",
		Long: `Uninstall reverses every artifact the ledger records for a pack: files,
MCP server registrations, hook fragments, template sections, settings keys,
Homebrew packages, and plugins.

Individual failures never abort the sweep; the ledger entry is kept on
partial failure so the command can be re-run for the remaining items.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUninstall(args[0])
		},
	}
	return cmd
}

func runUninstall(packID string) error {
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
		st := state.Load(projectPath)
		u := uninstall.New(executor.New(env, nil), st, nil)

		summary, err := u.Uninstall(packID)
		if err != nil {
			return err
		}
		if err := st.Save(); err != nil {
			return fmt.Errorf("failed to save install state: %w", err)
		}

		if !quiet {
			if writer.Format() == output.FormatText {
				printRemovalText(writer, summary)
			} else if err := writer.Write(summary); err != nil {
				return err
			}
		}

		if !summary.Succeeded() {
			return fmt.Errorf("uninstall of %s completed with %d failures", packID, len(summary.Errors))
		}
		return nil
	})
}

func printRemovalText(writer *output.Writer, summary *uninstall.RemovalSummary) {
	writer.Textf("Pack %s: %d removed", summary.Pack, summary.TotalRemoved)
	for _, skip := range summary.Skipped {
		writer.Textf("%s", output.StatusLine(types.CheckWarn, skip, ""))
	}
	for _, e := range summary.Errors {
		item := strings.TrimSpace(e.Category + " " + e.Item)
		writer.Textf("%s", output.StatusLine(types.CheckFail, item, e.Message))
	}
}
