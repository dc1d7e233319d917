package doctor

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mcsetup/mcs/internal/component"
	"github.com/mcsetup/mcs/internal/settings"
	"github.com/mcsetup/mcs/internal/shellx"
	"github.com/mcsetup/mcs/internal/types"
)

// placeholderPattern matches unsubstituted __NAME__ tokens.
var placeholderPattern = regexp.MustCompile(`__[A-Za-z0-9_]+__`)

// Result is the outcome of running one check.
type Result struct {
	Name    string            `json:"name"`
	Section string            `json:"section"`
	Status  types.CheckStatus `json:"status"`
	Message string            `json:"message,omitempty"`
}

// Report aggregates check results for a set of components.
type Report struct {
	Results []Result `json:"results"`
}

// Counts returns the number of pass, warn, and fail results.
func (r *Report) Counts() (pass, warn, fail int) {
	for _, result := range r.Results {
		switch result.Status {
		case types.CheckPass:
			pass++
		case types.CheckWarn:
			warn++
		case types.CheckFail:
			fail++
		}
	}
	return pass, warn, fail
}

// Healthy reports whether no check failed.
func (r *Report) Healthy() bool {
	_, _, fail := r.Counts()
	return fail == 0
}

// Runner executes checks against disk and registered state.
type Runner struct {
	env    settings.Env
	runner shellx.CommandRunner
}

// NewRunner creates a Runner. A nil runner defaults to the real shell runner.
func NewRunner(env settings.Env, runner shellx.CommandRunner) *Runner {
	if runner == nil {
		runner = &shellx.DefaultRunner{}
	}
	return &Runner{env: env, runner: runner}
}

// Audit derives and runs every check for the given components.
func (r *Runner) Audit(components []*component.ComponentDefinition) *Report {
	report := &Report{}
	for _, comp := range components {
		for _, check := range AllChecks(comp) {
			report.Results = append(report.Results, r.Run(check))
		}
	}
	return report
}

// Run executes one check.
func (r *Runner) Run(check component.Check) Result {
	result := Result{Name: check.Name, Section: check.Section}

	switch check.Kind {
	case component.CheckKindFileMarker:
		path := filepath.Join(r.env.HookDir(), check.Path)
		if _, err := os.Stat(path); err != nil {
			result.Status = types.CheckFail
			result.Message = fmt.Sprintf("hook script %s is not installed", check.Path)
			return result
		}
		result.Status = types.CheckPass
		return result

	case component.CheckKindContentMarker:
		return r.runContentCheck(check, result)

	case component.CheckKindCommandExists:
		if !shellx.CommandExists(r.runner, check.Command) {
			result.Status = types.CheckFail
			result.Message = fmt.Sprintf("command %s not found on PATH", check.Command)
			return result
		}
		result.Status = types.CheckPass
		return result

	case component.CheckKindMCPRegistered:
		if !r.env.IsMCPRegistered(check.Server, check.Scope) {
			result.Status = types.CheckFail
			result.Message = fmt.Sprintf("MCP server %s is not registered", check.Server)
			return result
		}
		result.Status = types.CheckPass
		return result

	case component.CheckKindPluginRegistered:
		if !settings.IsPluginEnabled(r.env.SettingsPath(), check.Plugin) {
			result.Status = types.CheckFail
			result.Message = fmt.Sprintf("plugin %s is not enabled", check.Plugin)
			return result
		}
		result.Status = types.CheckPass
		return result

	default:
		result.Status = types.CheckWarn
		result.Message = fmt.Sprintf("unknown check kind %s", check.Kind)
		return result
	}
}

// runContentCheck verifies a managed file: fail when missing, warn when the
// managed marker is absent (legacy or hand-edited file) or when any
// placeholder token survived substitution, pass otherwise.
func (r *Runner) runContentCheck(check component.Check, result Result) Result {
	path := filepath.Join(r.env.ProjectPath, filepath.FromSlash(check.Path))
	info, err := os.Stat(path)
	if err != nil {
		result.Status = types.CheckFail
		result.Message = fmt.Sprintf("file %s is missing", check.Path)
		return result
	}
	// Tree installs have no single content to probe; existence is enough.
	if info.IsDir() {
		result.Status = types.CheckPass
		return result
	}

	content, err := os.ReadFile(path)
	if err != nil {
		result.Status = types.CheckFail
		result.Message = fmt.Sprintf("file %s is unreadable: %v", check.Path, err)
		return result
	}

	text := string(content)
	if placeholder := placeholderPattern.FindString(text); placeholder != "" {
		result.Status = types.CheckWarn
		result.Message = fmt.Sprintf("file %s has unsubstituted placeholder %s", check.Path, placeholder)
		return result
	}
	if !strings.Contains(text, ManagedMarker) {
		result.Status = types.CheckWarn
		result.Message = fmt.Sprintf("file %s is missing the managed marker (legacy or hand-edited)", check.Path)
		return result
	}

	result.Status = types.CheckPass
	return result
}
