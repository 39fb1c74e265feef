package main

// app.go: state shared by every subcommand: output, workspace, logging
// and the runner external commands go through.

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/hashicorp/go-hclog"

	"p4studio/internal/config"
	"p4studio/internal/logging"
	"p4studio/internal/osinfo"
	"p4studio/internal/prompt"
	"p4studio/internal/runner"
	"p4studio/internal/settings"
	"p4studio/internal/workspace"
)

type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	out    *logging.Printer
	errors *logging.Printer
	logger hclog.InterceptLogger

	// flags
	logLevel string
	logFile  string

	// Injected in tests.
	dir      string
	runner   runner.Runner
	asker    prompt.Asker
	osInfo   func() (*osinfo.Info, error)
	now      func() time.Time
	numCPU   int
	execPath func() (string, error)

	ws       *workspace.Workspace
	settings *settings.Settings
	defs     *config.CachedProvider
	file     *os.File
}

func newApp() *app {
	dir, _ := os.Getwd()
	return &app{
		stdin:    os.Stdin,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		dir:      dir,
		osInfo:   osinfo.Detect,
		now:      time.Now,
		numCPU:   runtime.NumCPU(),
		execPath: os.Executable,
	}
}

func (a *app) printers() {
	if a.out == nil {
		a.out = logging.NewPrinter(a.stdout)
	}
	if a.errors == nil {
		a.errors = logging.NewPrinter(a.stderr)
	}
}

// setup runs before every command.
func (a *app) setup() error {
	a.printers()
	if ws, err := a.workspace(); err == nil {
		if a.settings, err = settings.Load(ws.Root); err != nil {
			return err
		}
	}
	level := a.logLevel
	if level == "" {
		level = a.resolved().LogLevel
	}
	if !logging.ValidLevel(level) {
		return fmt.Errorf("invalid log level: %s", level)
	}
	a.logger = logging.NewLogger("p4studio", level, a.stderr)
	if a.runner == nil {
		a.runner = runner.NewExecRunner(a.logger)
	}
	if a.asker == nil {
		a.asker = &prompt.Terminal{In: a.stdin, Out: a.stdout}
	}
	workspace.ConfigureLocale()
	if a.logFile != "" {
		return a.openLogFile(a.logFile)
	}
	return nil
}

// openLogFile copies logger records and printed messages to path.
func (a *app) openLogFile(path string) error {
	if a.file != nil {
		return nil
	}
	f, err := logging.OpenLogFile(path)
	if err != nil {
		return err
	}
	a.file = f
	logging.AttachFile(a.logger, f)
	a.out.SetLog(f)
	a.errors.SetLog(f)
	return nil
}

// defaultLogFile opens the workspace's timestamped log file unless
// --log-file was given.
func (a *app) defaultLogFile() error {
	if a.logFile != "" {
		return nil
	}
	ws, err := a.workspace()
	if err != nil {
		return err
	}
	return a.openLogFile(ws.DefaultLogFile(a.now()))
}

func (a *app) close() {
	if a.file != nil {
		a.out.SetLog(nil)
		a.errors.SetLog(nil)
		a.file.Close()
		a.file = nil
	}
}

// workspace discovers the workspace once.
func (a *app) workspace() (*workspace.Workspace, error) {
	if a.ws != nil {
		return a.ws, nil
	}
	ws, err := workspace.Discover(a.dir)
	if err != nil {
		return nil, err
	}
	a.ws = ws
	return ws, nil
}

// configManager returns a Manager with no options selected. Declarations
// are parsed once per process.
func (a *app) configManager() (*config.Manager, error) {
	ws, err := a.workspace()
	if err != nil {
		return nil, err
	}
	if a.defs == nil {
		a.defs = config.NewCachedProvider(config.FileProvider(ws.CMakeLists()))
	}
	return config.Load(a.defs)
}

// resolved returns the settings with environment overrides and defaults.
func (a *app) resolved() settings.Settings {
	return a.settings.Resolve(a.numCPU)
}

// installDir resolves an --install-dir style flag.
func (a *app) installDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if dir := a.resolved().InstallDir; dir != "" {
		return dir, nil
	}
	ws, err := a.workspace()
	if err != nil {
		return "", err
	}
	return ws.DefaultInstallDir(), nil
}
