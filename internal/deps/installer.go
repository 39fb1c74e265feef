package deps

// installer.go: running the package managers and source installation scripts.

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"

	"p4studio/internal/runner"
)

// Dependency types selectable with "dependencies install --types".
const (
	TypeOS     = "os"
	TypePip3   = "pip3"
	TypeSource = "source"
)

// AllTypes lists every dependency type.
var AllTypes = []string{TypeOS, TypePip3, TypeSource}

// ParseTypes splits a comma separated list of dependency types.
func ParseTypes(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []string
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if !contains(AllTypes, t) {
			return nil, fmt.Errorf("invalid dependency type: %s", t)
		}
		out = append(out, t)
	}
	return out, nil
}

// ParsePackageList splits a comma separated list of source packages. An
// empty string selects no packages.
func ParsePackageList(s string) []string {
	if s == "" {
		return []string{}
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Installer installs dependencies through a Runner.
type Installer struct {
	Runner         runner.Runner
	Logger         hclog.Logger
	OSName         string
	OSVersion      string
	PackageManager string
	Jobs           int
	InstallDir     string
	// Script returns the installation script of a source package.
	Script func(pkg string) string
	// Resolver orders source packages; DefaultResolver when nil.
	Resolver *Resolver
}

func (in *Installer) logger() hclog.Logger {
	if in.Logger == nil {
		return hclog.NewNullLogger()
	}
	return in.Logger
}

func (in *Installer) sudo(ctx context.Context, description string, args ...string) error {
	return in.Runner.Run(ctx, runner.Command{Description: description, Args: runner.Sudo(args...)})
}

// UpdatePackageLists refreshes the OS package index. On CentOS this enables
// the PowerTools repository instead.
func (in *Installer) UpdatePackageLists(ctx context.Context) error {
	const name = "updating list of packages"
	if in.OSName != "CentOS" {
		return in.sudo(ctx, name, in.PackageManager, "update")
	}
	if err := in.sudo(ctx, name, "yum", "install", "-y", "dnf-plugins-core"); err != nil {
		return err
	}
	if in.OSVersion == "7" {
		return in.sudo(ctx, name, "yum-config-manager", "--enable", "PowerTools")
	}
	return in.sudo(ctx, name, "yum", "config-manager", "--set-enabled", "PowerTools")
}

// InstallOSPackages installs packages with the OS package manager.
func (in *Installer) InstallOSPackages(ctx context.Context, pkgs []string) error {
	if len(pkgs) == 0 {
		in.logger().Debug("no OS packages to install")
		return nil
	}
	args := append([]string{in.PackageManager, "install", "-y"}, pkgs...)
	return in.sudo(ctx, "installing OS dependencies", args...)
}

// InstallPip3Packages installs Python packages with pip3.
func (in *Installer) InstallPip3Packages(ctx context.Context, pkgs []string) error {
	if len(pkgs) == 0 {
		in.logger().Debug("no pip3 packages to install")
		return nil
	}
	args := append([]string{"env", "pip3", "install"}, pkgs...)
	return in.sudo(ctx, "installing pip3 dependencies", args...)
}

// SourceCommands returns the installation script invocations for pkgs in
// resolved order.
func (in *Installer) SourceCommands(pkgs []string) ([]runner.Command, error) {
	res := in.Resolver
	if res == nil {
		res = DefaultResolver
	}
	ordered, err := res.Resolve(pkgs)
	if err != nil {
		return nil, err
	}
	withProto := "no"
	if contains(ordered, "grpc") {
		withProto = "yes"
	}
	cmds := make([]runner.Command, 0, len(ordered))
	for _, pkg := range ordered {
		cmds = append(cmds, runner.Command{
			Description: "installing " + pkg,
			Args: []string{
				"env", "python3", in.Script(pkg),
				"--os-name", in.OSName,
				"--os-version", in.OSVersion,
				"--jobs", strconv.Itoa(in.Jobs),
				"--sde-install", in.InstallDir,
				"--keyword", in.PackageManager,
				"--with-proto", withProto,
			},
		})
	}
	return cmds, nil
}

// InstallSourcePackages builds and installs source packages in dependency order.
func (in *Installer) InstallSourcePackages(ctx context.Context, pkgs []string) error {
	cmds, err := in.SourceCommands(pkgs)
	if err != nil {
		return err
	}
	for _, c := range cmds {
		in.logger().Info(c.Description)
		if err := in.Runner.Run(ctx, c); err != nil {
			return err
		}
	}
	return nil
}
