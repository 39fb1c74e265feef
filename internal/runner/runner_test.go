package runner

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
)

func TestExecRunnerStreamsOutput(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	var buf strings.Builder
	logger := hclog.New(&hclog.LoggerOptions{Level: hclog.Debug, Output: &buf})
	r := NewExecRunner(logger)

	err := r.Run(context.Background(), Command{Args: []string{"sh", "-c", "echo hello; echo oops >&2"}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"hello", "oops", "command finished"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestExecRunnerLongLine(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	var buf strings.Builder
	logger := hclog.New(&hclog.LoggerOptions{Level: hclog.Debug, Output: &buf})
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 3 MB without a newline, then more output the child must be able to write.
	script := `head -c 3000000 /dev/zero | tr '\0' a; echo; i=0; while [ $i -lt 2000 ]; do echo line $i; i=$((i+1)); done; echo done`
	if err := NewExecRunner(logger).Run(ctx, Command{Args: []string{"sh", "-c", script}}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(buf.String(), "done") {
		t.Errorf("log missing trailing output")
	}
}

func TestExecRunnerFailure(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	r := NewExecRunner(nil)
	err := r.Run(context.Background(), Command{Description: "installing boost", Args: []string{"sh", "-c", "exit 3"}})
	var ext *ExternalCommandError
	if !errors.As(err, &ext) {
		t.Fatalf("error = %v, want *ExternalCommandError", err)
	}
	if !strings.Contains(err.Error(), "problem occurred while installing boost") {
		t.Errorf("message = %q", err.Error())
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 3 {
		t.Errorf("wrapped error = %v, want exit status 3", ext.Err)
	}
}

func TestExecRunnerMissingBinary(t *testing.T) {
	err := NewExecRunner(nil).Run(context.Background(), Command{Args: []string{"/nonexistent/p4studio-tool"}})
	var ext *ExternalCommandError
	if !errors.As(err, &ext) {
		t.Fatalf("error = %v, want *ExternalCommandError", err)
	}
	if err := NewExecRunner(nil).Run(context.Background(), Command{}); !errors.As(err, &ext) {
		t.Errorf("empty command error = %v", err)
	}
}

func TestFakeRunner(t *testing.T) {
	f := &FakeRunner{}
	_ = f.Run(context.Background(), Command{Args: Sudo("apt-get", "install", "cmake")})
	_ = f.Run(context.Background(), Command{Args: []string{"make", "--jobs=4"}})
	got := strings.Join(f.Lines(), "\n")
	want := "sudo -E apt-get install cmake\nmake --jobs=4"
	if got != want {
		t.Errorf("Lines = %q, want %q", got, want)
	}

	f = &FakeRunner{FailOn: func(c Command) error {
		if c.Args[0] == "make" {
			return errors.New("boom")
		}
		return nil
	}}
	if err := f.Run(context.Background(), Command{Args: []string{"cmake"}}); err != nil {
		t.Errorf("cmake: %v", err)
	}
	if err := f.Run(context.Background(), Command{Args: []string{"make"}}); err == nil {
		t.Error("make: expected error")
	}
}
