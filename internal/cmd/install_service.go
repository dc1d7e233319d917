package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mcsetup/mcs/internal/backup"
	"github.com/mcsetup/mcs/internal/config"
	"github.com/mcsetup/mcs/internal/executor"
	"github.com/mcsetup/mcs/internal/output"
	"github.com/mcsetup/mcs/internal/settings"
	"github.com/mcsetup/mcs/internal/shellx"
	"github.com/mcsetup/mcs/internal/state"
	"github.com/mcsetup/mcs/internal/types"
)

// InstallOptions configures install behavior.
type InstallOptions struct {
	Verbose bool
	Quiet   bool
}

// ComponentResult reports the outcome of installing one component.
type ComponentResult struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// InstallSummary reports the outcome of one pack install.
type InstallSummary struct {
	Pack       string            `json:"pack"`
	Installed  int               `json:"installed"`
	Failed     int               `json:"failed"`
	Fragments  int               `json:"fragments,omitempty"`
	Sections   int               `json:"sections,omitempty"`
	Components []ComponentResult `json:"components"`
}

// String renders the summary as human-readable text.
func (s *InstallSummary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Pack %s: %d installed", s.Pack, s.Installed)
	if s.Failed > 0 {
		fmt.Fprintf(&b, ", %d failed", s.Failed)
	}
	if s.Fragments > 0 {
		fmt.Fprintf(&b, ", %d hook fragments", s.Fragments)
	}
	if s.Sections > 0 {
		fmt.Fprintf(&b, ", %d template sections", s.Sections)
	}
	for _, c := range s.Components {
		name := c.Name
		if name == "" {
			name = c.ID
		}
		if c.Error != "" {
			fmt.Fprintf(&b, "\n%s", output.StatusLine(types.CheckFail, name, c.Error))
		} else {
			fmt.Fprintf(&b, "\n%s", output.StatusLine(types.CheckPass, name, ""))
		}
	}
	return b.String()
}

// InstallService orchestrates the install workflow: resolve and load the
// pack manifest, migrate and load the ledger, apply each component, layer
// hook fragments and template sections, and save the ledger.
type InstallService struct {
	projectPath string
	env         settings.Env
	runner      shellx.CommandRunner
}

// NewInstallService creates an install service. A nil runner defaults to the
// real shell runner.
func NewInstallService(projectPath string, env settings.Env, runner shellx.CommandRunner) *InstallService {
	return &InstallService{projectPath: projectPath, env: env, runner: runner}
}

// ResolveManifest locates the manifest for a pack argument, which may be a
// pack directory or a manifest file path. Returns the manifest path and the
// pack root the manifest's sources resolve against.
func (s *InstallService) ResolveManifest(packArg string) (string, string, error) {
	info, err := os.Stat(packArg)
	if err != nil {
		return "", "", fmt.Errorf("pack %s: %w", packArg, err)
	}
	if info.IsDir() {
		manifestPath, err := config.FindManifest(packArg)
		if err != nil {
			return "", "", err
		}
		return manifestPath, packArg, nil
	}
	return packArg, filepath.Dir(packArg), nil
}

// Run executes the complete install workflow for one pack. The returned
// summary is non-nil whenever a manifest was loaded, including aborted runs.
func (s *InstallService) Run(packArg string, opts InstallOptions) (*InstallSummary, error) {
	manifestPath, packRoot, err := s.ResolveManifest(packArg)
	if err != nil {
		return nil, err
	}

	manifest, err := config.Load(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load pack manifest: %w", err)
	}

	if opts.Verbose {
		fmt.Fprintf(os.Stderr, "Using manifest: %s\n", manifestPath)
	}

	migrated, err := state.MigrateLegacy(s.projectPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: legacy state migration failed: %v\n", err)
	} else if migrated && opts.Verbose {
		fmt.Fprintln(os.Stderr, "Migrated legacy state file")
	}

	st := state.Load(s.projectPath)
	exec := executor.New(s.env, s.runner)

	record := st.Artifacts(manifest.ID)
	if record == nil {
		record = &state.PackArtifactRecord{}
	}

	summary := &InstallSummary{Pack: manifest.ID}
	var abort error

	for _, comp := range manifest.Components {
		result := ComponentResult{ID: comp.ID, Name: comp.DisplayName}
		err := comp.Validate()
		if err == nil {
			err = exec.Apply(comp, packRoot, manifest.Values, record)
		}
		if err != nil {
			result.Status = "failed"
			result.Error = err.Error()
			summary.Failed++
			summary.Components = append(summary.Components, result)
			if comp.Required {
				abort = fmt.Errorf("required component %s failed: %w", comp.ID, err)
				break
			}
			continue
		}
		result.Status = "installed"
		summary.Installed++
		summary.Components = append(summary.Components, result)
	}

	if abort == nil {
		if err := s.applyFragments(exec, manifest, packRoot, record, summary); err != nil {
			abort = err
		}
	}

	// Persist whatever was applied so an aborted install can be cleaned up
	// with uninstall.
	st.RecordPack(manifest.ID)
	st.SetArtifacts(manifest.ID, record)
	if err := st.Save(); err != nil {
		return summary, fmt.Errorf("failed to save install state: %w", err)
	}

	return summary, abort
}

// applyFragments layers the manifest's hook fragments and template sections.
// Any failure restores the files touched in this pass and aborts.
func (s *InstallService) applyFragments(exec *executor.Executor, manifest *config.Manifest, packRoot string, record *state.PackArtifactRecord, summary *InstallSummary) error {
	if len(manifest.HookFragments) == 0 && len(manifest.TemplateSections) == 0 {
		return nil
	}

	bk := backup.New()
	restore := func() {
		for _, err := range bk.Restore() {
			fmt.Fprintf(os.Stderr, "Warning: restore failed: %v\n", err)
		}
	}

	// Fragment artifacts go into a scratch record first: a failure restores
	// the touched files, so nothing from this pass may reach the ledger.
	scratch := &state.PackArtifactRecord{}

	for _, frag := range manifest.HookFragments {
		body, err := os.ReadFile(filepath.Join(packRoot, frag.Source))
		if err != nil {
			restore()
			return fmt.Errorf("hook fragment %s: %w", frag.ID, err)
		}
		if err := exec.InjectHookFragment(frag.Hook, frag.ID, frag.Version, string(body), bk, scratch); err != nil {
			restore()
			return fmt.Errorf("hook fragment %s: %w", frag.ID, err)
		}
		summary.Fragments++
	}

	for _, section := range manifest.TemplateSections {
		body, err := os.ReadFile(filepath.Join(packRoot, section.Source))
		if err != nil {
			restore()
			return fmt.Errorf("template section %s: %w", section.ID, err)
		}
		if err := exec.InstallTemplateSection(section.ID, section.Version, string(body), bk, scratch); err != nil {
			restore()
			return fmt.Errorf("template section %s: %w", section.ID, err)
		}
		summary.Sections++
	}

	for _, identifier := range scratch.HookCommands {
		record.AddHookCommand(identifier)
	}
	for _, section := range scratch.TemplateSections {
		record.AddTemplateSection(section)
	}

	return nil
}
