// Package workspace locates an SDE source tree and the well-known paths
// inside it.
//
// Directory layout:
//
//	<root>/
//	    CMakeLists.txt                           # option declarations
//	    p4studio/dependencies/dependencies.yaml  # dependency data
//	    p4studio/dependencies/source/install_<pkg>.py
//	    p4studio/profiles/<name>.yaml            # shipped profiles
//	    packages/<name>-<version>.tgz            # compressed packages
//	    pkgsrc/<name>/                           # extracted packages
//	    build/                                   # cmake build tree
//	    install/                                 # default install prefix
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Name is the product name used in messages.
const Name = "SDE"

// EnvRoot overrides workspace discovery.
const EnvRoot = "P4STUDIO_WORKSPACE"

// ErrNotWorkspace is returned when no workspace root can be found.
var ErrNotWorkspace = errors.New("not a SDE directory")

var requiredFiles = []string{
	filepath.Join("p4studio", "dependencies", "dependencies.yaml"),
	"CMakeLists.txt",
}

// Workspace is an SDE source tree.
type Workspace struct {
	Root string
}

// IsRoot reports whether dir holds every file a workspace root requires.
func IsRoot(dir string) bool {
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		return false
	}
	for _, f := range requiredFiles {
		fi, err := os.Stat(filepath.Join(dir, f))
		if err != nil || !fi.Mode().IsRegular() {
			return false
		}
	}
	return true
}

// Open returns the workspace rooted at root.
func Open(root string) (*Workspace, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}
	if !IsRoot(abs) {
		return nil, fmt.Errorf("%s is %w", abs, ErrNotWorkspace)
	}
	return &Workspace{Root: abs}, nil
}

// Find returns the workspace containing dir: dir itself or its nearest
// ancestor that is a workspace root.
func Find(dir string) (*Workspace, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}
	for cur := abs; ; {
		if IsRoot(cur) {
			return &Workspace{Root: cur}, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, fmt.Errorf("%s is %w", abs, ErrNotWorkspace)
		}
		cur = parent
	}
}

// Discover uses $P4STUDIO_WORKSPACE when set and searches from dir otherwise.
func Discover(dir string) (*Workspace, error) {
	if root := os.Getenv(EnvRoot); root != "" {
		return Open(root)
	}
	return Find(dir)
}

// P4StudioPath is the directory of the p4studio tool inside the workspace.
func (w *Workspace) P4StudioPath() string { return filepath.Join(w.Root, "p4studio") }

// BuildPath is the cmake build directory.
func (w *Workspace) BuildPath() string { return filepath.Join(w.Root, "build") }

// CMakeLists is the top-level CMakeLists.txt.
func (w *Workspace) CMakeLists() string { return filepath.Join(w.Root, "CMakeLists.txt") }

// SubmodulesPath holds extracted packages.
func (w *Workspace) SubmodulesPath() string { return filepath.Join(w.Root, "pkgsrc") }

// CompressedPackagesPath holds the package archives shipped with the SDE.
func (w *Workspace) CompressedPackagesPath() string { return filepath.Join(w.Root, "packages") }

// DefaultInstallDir is the install prefix used when none is given.
func (w *Workspace) DefaultInstallDir() string { return filepath.Join(w.Root, "install") }

// ProfilesPath holds shipped profiles.
func (w *Workspace) ProfilesPath() string { return filepath.Join(w.P4StudioPath(), "profiles") }

// LogsPath holds p4studio log files.
func (w *Workspace) LogsPath() string { return filepath.Join(w.P4StudioPath(), "logs") }

// DefaultLogFile names a log file for a run started at t.
func (w *Workspace) DefaultLogFile(t time.Time) string {
	return filepath.Join(w.LogsPath(), t.Format("p4studio_2006-01-02_15:04:05.log"))
}

// DependencyFiles lists the dependency documents, base file first.
func (w *Workspace) DependencyFiles() []string {
	return []string{filepath.Join(w.P4StudioPath(), "dependencies", "dependencies.yaml")}
}

// InstallationScript returns the script that builds a source package.
func (w *Workspace) InstallationScript(pkg string) (string, error) {
	dir := filepath.Join(w.P4StudioPath(), "dependencies", "source")
	switch pkg {
	case "boost", "grpc", "libcli", "pi", "thrift":
		return filepath.Join(dir, "install_"+pkg+".py"), nil
	case "bridge":
		return filepath.Join(dir, "install_bridge_utils.py"), nil
	}
	return "", fmt.Errorf("package %s is not supported", pkg)
}

// Profiles returns the names of the *.yaml files in the profiles directory.
func (w *Workspace) Profiles() ([]string, error) {
	entries, err := os.ReadDir(w.ProfilesPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read profiles dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".yaml") {
			names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
		}
	}
	sort.Strings(names)
	return names, nil
}

// ProfilePath resolves a profile argument: an existing file path, or the
// name of a shipped profile.
func (w *Workspace) ProfilePath(arg string) string {
	if _, err := os.Stat(arg); err == nil {
		return arg
	}
	candidate := filepath.Join(w.ProfilesPath(), arg)
	if !strings.HasSuffix(candidate, ".yaml") {
		candidate += ".yaml"
	}
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return arg
}
