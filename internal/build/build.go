// Package build drives make in a configured build tree and names the
// targets a user can ask for.
package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"

	"p4studio/internal/runner"
	"p4studio/internal/workspace"
)

// AllSwitchProfiles lists the switch-p4-16 profiles a build can target.
var AllSwitchProfiles = []string{
	"x1_tofino",
	"x2_tofino",
	"g1_tofino",
	"y1_tofino2",
	"y2_tofino2",
	"y3_tofino2",
	"z2_tofino2",
}

// DefaultSwitchProfile is selected when a switch build names no profile.
const DefaultSwitchProfile = "x1_tofino"

// ErrNotConfigured is returned by Build when the build tree is missing.
var ErrNotConfigured = errors.New("Build not configured. check p4studio configure --help for more details")

// Group is a named list of targets.
type Group struct {
	Name    string
	Targets []string
}

// TargetsByGroup returns the P4 program groups of w followed by the
// "Profiles" and "Grouped" pseudo groups.
func TargetsByGroup(w *workspace.Workspace) ([]Group, error) {
	programs, err := w.Programs()
	if err != nil {
		return nil, err
	}
	var groups []Group
	index := map[string]int{}
	for _, p := range programs {
		i, ok := index[p.Group]
		if !ok {
			i = len(groups)
			index[p.Group] = i
			groups = append(groups, Group{Name: p.Group})
		}
		groups[i].Targets = append(groups[i].Targets, p.Name)
	}
	groups = append(groups, Group{Name: "Profiles", Targets: append([]string(nil), AllSwitchProfiles...)})

	var grouped []string
	for _, d := range w.P4Dirs() {
		grouped = append(grouped, d.Group)
	}
	groups = append(groups, Group{Name: "Grouped", Targets: append(grouped, "p4-examples")})
	return groups, nil
}

// AllTargets returns every target of TargetsByGroup, sorted.
func AllTargets(w *workspace.Workspace) ([]string, error) {
	groups, err := TargetsByGroup(w)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, g := range groups {
		out = append(out, g.Targets...)
	}
	sort.Strings(out)
	return out, nil
}

// JobsFlag renders make's parallelism flag; zero means unlimited.
func JobsFlag(jobs int) string {
	if jobs > 0 {
		return "--jobs=" + strconv.Itoa(jobs)
	}
	return "--jobs"
}

// MakeCommand returns a make invocation in dir.
func MakeCommand(name, dir string, jobs int, targets []string) runner.Command {
	args := append([]string{"make", JobsFlag(jobs)}, targets...)
	return runner.Command{Description: name, Args: args, Dir: dir}
}

// StepError reports a failed make step.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string { return e.Step + " completed unsuccessfully" }

func (e *StepError) Unwrap() error { return e.Err }

// Builder runs make for the requested targets and then make install.
type Builder struct {
	Runner   runner.Runner
	BuildDir string
	Jobs     int
	// Progress, when set, receives a line per step.
	Progress func(msg string)
}

func (b *Builder) progress(format string, args ...any) {
	if b.Progress != nil {
		b.Progress(fmt.Sprintf(format, args...))
	}
}

// Build builds targets (make's default when empty) and installs them.
func (b *Builder) Build(ctx context.Context, targets []string) error {
	if fi, err := os.Stat(b.BuildDir); err != nil || !fi.IsDir() {
		return ErrNotConfigured
	}
	b.progress("Building...")
	if err := b.Runner.Run(ctx, MakeCommand("building", b.BuildDir, b.Jobs, targets)); err != nil {
		return &StepError{Step: "Build", Err: err}
	}
	b.progress("Built successfully")
	b.progress("Installing...")
	if err := b.Runner.Run(ctx, MakeCommand("installing", b.BuildDir, b.Jobs, []string{"install"})); err != nil {
		return &StepError{Step: "Installation", Err: err}
	}
	b.progress("Installed successfully")
	return nil
}
