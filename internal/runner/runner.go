// Package runner executes the external commands p4studio delegates to:
// package managers, installation scripts, cmake and make.
package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"p4studio/internal/shell"
)

// Command is one external invocation.
type Command struct {
	// Description names the step for error messages, e.g. "installing boost".
	Description string
	Args        []string
	Dir         string
	// Env holds KEY=VALUE pairs added to the inherited environment.
	Env []string
}

// String renders the command as a shell line.
func (c Command) String() string {
	return shell.Join(c.Args)
}

// Runner executes commands.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExternalCommandError reports a command that could not be started or
// exited unsuccessfully.
type ExternalCommandError struct {
	Command Command
	Err     error
}

func (e *ExternalCommandError) Error() string {
	if e.Command.Description != "" {
		return fmt.Sprintf("problem occurred while %s: %v", e.Command.Description, e.Err)
	}
	return fmt.Sprintf("running %s: %v", e.Command, e.Err)
}

func (e *ExternalCommandError) Unwrap() error { return e.Err }

// Sudo prefixes args with "sudo -E" so the caller's environment survives.
func Sudo(args ...string) []string {
	return append([]string{"sudo", "-E"}, args...)
}

// ExecRunner runs commands as subprocesses. Combined stdout and stderr is
// streamed line by line to the logger at debug level.
type ExecRunner struct {
	Logger hclog.Logger
}

// NewExecRunner returns an ExecRunner logging through logger.
func NewExecRunner(logger hclog.Logger) *ExecRunner {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &ExecRunner{Logger: logger}
}

func (r *ExecRunner) Run(ctx context.Context, cmd Command) error {
	if len(cmd.Args) == 0 {
		return &ExternalCommandError{Command: cmd, Err: fmt.Errorf("empty command")}
	}
	r.Logger.Debug("executing", "command", cmd.String(), "dir", cmd.Dir)
	start := time.Now()

	c := exec.CommandContext(ctx, cmd.Args[0], cmd.Args[1:]...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}
	stdout, err := c.StdoutPipe()
	if err != nil {
		return &ExternalCommandError{Command: cmd, Err: err}
	}
	c.Stderr = c.Stdout

	if err := c.Start(); err != nil {
		return &ExternalCommandError{Command: cmd, Err: err}
	}
	r.logLines(stdout)
	waitErr := c.Wait()

	r.Logger.Debug("command finished", "command", cmd.String(), "took", time.Since(start).Round(time.Millisecond))
	if waitErr != nil {
		return &ExternalCommandError{Command: cmd, Err: waitErr}
	}
	return nil
}

// logLines logs each line of out until EOF. The pipe is always drained so
// the child never blocks on a full pipe.
func (r *ExecRunner) logLines(out io.Reader) {
	br := bufio.NewReader(out)
	for {
		line, err := br.ReadString('\n')
		if err == nil || line != "" {
			r.Logger.Debug(strings.TrimRight(line, "\r\n"))
		}
		if err == nil {
			continue
		}
		if err != io.EOF {
			r.Logger.Warn("reading command output", "error", err)
			_, _ = io.Copy(io.Discard, br)
		}
		return
	}
}

// FakeRunner records commands instead of running them. Used in tests.
type FakeRunner struct {
	Calls []Command
	Err   error
	// FailOn, when set, decides the error per command and overrides Err.
	FailOn func(Command) error
}

func (f *FakeRunner) Run(ctx context.Context, cmd Command) error {
	f.Calls = append(f.Calls, cmd)
	if f.FailOn != nil {
		if err := f.FailOn(cmd); err != nil {
			return &ExternalCommandError{Command: cmd, Err: err}
		}
		return nil
	}
	if f.Err != nil {
		return &ExternalCommandError{Command: cmd, Err: f.Err}
	}
	return nil
}

// Lines returns every recorded command rendered as a shell line.
func (f *FakeRunner) Lines() []string {
	out := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		out[i] = c.String()
	}
	return out
}
