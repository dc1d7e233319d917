package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcsetup/mcs/internal/config"
	"github.com/mcsetup/mcs/internal/doctor"
	"github.com/mcsetup/mcs/internal/output"
)

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor <pack-dir>",
		Short: "Verify a pack's installed state",
		Long: `Doctor derives verification checks from the pack's manifest and probes
the actual state: files on disk, managed content markers, commands on PATH,
MCP server registrations, and enabled plugins. The ledger is never
consulted, so doctor reports drift the ledger cannot see.

Exit status is non-zero when any check fails.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(args[0])
		},
	}
	return cmd
}

func runDoctor(packArg string) error {
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

	service := NewInstallService(projectPath, env, nil)
	manifestPath, _, err := service.ResolveManifest(packArg)
	if err != nil {
		return err
	}
	manifest, err := config.Load(manifestPath)
	if err != nil {
		return fmt.Errorf("failed to load pack manifest: %w", err)
	}

	runner := doctor.NewRunner(env, nil)
	report := runner.Audit(manifest.Components)

	if writer.Format() == output.FormatText {
		printReportText(writer, report)
	} else if err := writer.Write(report); err != nil {
		return err
	}

	if !report.Healthy() {
		_, _, fail := report.Counts()
		return fmt.Errorf("%d checks failed", fail)
	}
	return nil
}

// printReportText groups results by section in first-seen order.
func printReportText(writer *output.Writer, report *doctor.Report) {
	var sections []string
	grouped := make(map[string][]doctor.Result)
	for _, result := range report.Results {
		if _, seen := grouped[result.Section]; !seen {
			sections = append(sections, result.Section)
		}
		grouped[result.Section] = append(grouped[result.Section], result)
	}

	for _, section := range sections {
		writer.Textf("%s", output.SectionHeader(section))
		for _, result := range grouped[section] {
			writer.Textf("%s", output.StatusLine(result.Status, result.Name, result.Message))
		}
	}

	pass, warn, fail := report.Counts()
	writer.Textf("\n%d passed, %d warnings, %d failed", pass, warn, fail)
}
