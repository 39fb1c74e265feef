package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"p4studio/internal/runner"
	"p4studio/internal/testutil"
	"p4studio/internal/workspace"
)

func TestTargetsByGroup(t *testing.T) {
	w, err := workspace.Open(testutil.DefaultWorkspace(t))
	if err != nil {
		t.Fatal(err)
	}
	groups, err := TargetsByGroup(w)
	if err != nil {
		t.Fatalf("TargetsByGroup: %v", err)
	}
	want := []Group{
		{"p4-14-programs", []string{"basic_switching"}},
		{"p4-16-programs", []string{"tna_counter", "tna_exact_match"}},
		{"Profiles", AllSwitchProfiles},
		{"Grouped", []string{"p4-14-programs", "p4-16-programs", "p4-examples"}},
	}
	if !reflect.DeepEqual(groups, want) {
		t.Errorf("groups = %v\nwant %v", groups, want)
	}

	all, err := AllTargets(w)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 13 || all[0] != "basic_switching" || all[len(all)-1] != "z2_tofino2" {
		t.Errorf("AllTargets = %v", all)
	}
}

func TestBuildRunsMakeThenInstall(t *testing.T) {
	dir := t.TempDir()
	fake := &runner.FakeRunner{}
	var progress []string
	b := &Builder{Runner: fake, BuildDir: dir, Jobs: 4, Progress: func(m string) { progress = append(progress, m) }}

	if err := b.Build(context.Background(), []string{"tna_counter", "x1_tofino"}); err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := []string{"make --jobs=4 tna_counter x1_tofino", "make --jobs=4 install"}
	if !reflect.DeepEqual(fake.Lines(), want) {
		t.Errorf("commands = %v", fake.Lines())
	}
	for _, c := range fake.Calls {
		if c.Dir != dir {
			t.Errorf("dir = %s, want %s", c.Dir, dir)
		}
	}
	if len(progress) != 4 || progress[3] != "Installed successfully" {
		t.Errorf("progress = %v", progress)
	}
}

func TestBuildUnlimitedJobs(t *testing.T) {
	fake := &runner.FakeRunner{}
	b := &Builder{Runner: fake, BuildDir: t.TempDir()}
	if err := b.Build(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if got := fake.Lines()[0]; got != "make --jobs" {
		t.Errorf("command = %s", got)
	}
}

func TestBuildNotConfigured(t *testing.T) {
	fake := &runner.FakeRunner{}
	missing := filepath.Join(t.TempDir(), "build")
	b := &Builder{Runner: fake, BuildDir: missing}
	if err := b.Build(context.Background(), nil); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("error = %v, want ErrNotConfigured", err)
	}
	// A file in place of the build tree is not a configured build either.
	if err := os.WriteFile(missing, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := b.Build(context.Background(), nil); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("error = %v, want ErrNotConfigured", err)
	}
	if len(fake.Calls) != 0 {
		t.Errorf("unexpected commands: %v", fake.Lines())
	}
}

func TestBuildStepFailure(t *testing.T) {
	boom := errors.New("exit status 2")
	fake := &runner.FakeRunner{FailOn: func(c runner.Command) error {
		if c.Args[len(c.Args)-1] == "install" {
			return boom
		}
		return nil
	}}
	b := &Builder{Runner: fake, BuildDir: t.TempDir(), Jobs: 1}
	err := b.Build(context.Background(), nil)
	var se *StepError
	if !errors.As(err, &se) || se.Step != "Installation" {
		t.Fatalf("error = %v, want Installation StepError", err)
	}
	if err.Error() != "Installation completed unsuccessfully" {
		t.Errorf("message = %q", err.Error())
	}
	if !errors.Is(err, boom) {
		t.Error("StepError does not wrap the command error")
	}
}
