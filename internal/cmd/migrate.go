package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mcsetup/mcs/internal/state"
)

func newMigrateStateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate-state",
		Short: "Move a legacy state file to the current ledger path",
		Long: `Migrate-state moves an old-layout state file (.mcs-manifest at the
project root) to the current ledger path (.claude/mcs-state.json),
byte-for-byte. Nothing happens when the legacy file is absent or the
current ledger already exists.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrateState()
		},
	}
	return cmd
}

func runMigrateState() error {
	projectPath, err := resolveProject()
	if err != nil {
		return err
	}
	writer, err := newOutputWriter()
	if err != nil {
		return err
	}

	return withLock(projectPath, func() error {
		migrated, err := state.MigrateLegacy(projectPath)
		if err != nil {
			return err
		}
		if quiet {
			return nil
		}
		if migrated {
			writer.Successf("Migrated %s to %s", state.LegacyManifestName, state.StatePath(projectPath))
		} else {
			writer.Textf("Nothing to migrate.")
		}
		return nil
	})
}
