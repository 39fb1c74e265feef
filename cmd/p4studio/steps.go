package main

// steps.go: the install, configure, build, check and extract steps. Each
// is a command of its own and a stage of "profile apply".

import (
	"context"
	"fmt"
	"os"
	"strings"

	"p4studio/internal/build"
	"p4studio/internal/cmake"
	"p4studio/internal/deps"
	"p4studio/internal/osinfo"
	"p4studio/internal/system"
	"p4studio/internal/workspace"
)

// detectOS fills in whichever of name and version is empty from the
// running system. A given name is canonicalized like a detected one.
func (a *app) detectOS(name, version string) (string, string, error) {
	name = osinfo.Canonicalize(name)
	if name != "" && version != "" {
		return name, version, nil
	}
	info, err := a.osInfo()
	if err != nil {
		return "", "", fmt.Errorf("detect OS: %w", err)
	}
	if name == "" {
		name = info.Name()
	}
	if version == "" {
		version = info.Version()
	}
	return name, version, nil
}

// dependencyManager loads the workspace's dependency files and those named
// in settings.
func (a *app) dependencyManager(ctx context.Context, osName, osVersion string) (*deps.Manager, error) {
	ws, err := a.workspace()
	if err != nil {
		return nil, err
	}
	osName, osVersion, err = a.detectOS(osName, osVersion)
	if err != nil {
		return nil, err
	}
	files := append(ws.DependencyFiles(), a.settings.ExtraDependencyFiles(ws.Root)...)
	return deps.Open(ctx, osName, osVersion, files...)
}

type installOptions struct {
	osName, osVersion string
	// types lists the dependency types to install; see deps.AllTypes.
	types []string
	// sourcePackages is nil to install every source package.
	sourcePackages *string
	installDir     string
	jobs           int
}

func (a *app) installDependencies(ctx context.Context, o installOptions) error {
	ws, err := a.workspace()
	if err != nil {
		return err
	}
	a.out.Green("Installing %s dependencies...", workspace.Name)
	installDir, err := a.installDir(o.installDir)
	if err != nil {
		return err
	}
	if err := workspace.SetupPathVariables(installDir); err != nil {
		return err
	}
	mgr, err := a.dependencyManager(ctx, o.osName, o.osVersion)
	if err != nil {
		return err
	}
	jobs := o.jobs
	if jobs <= 0 {
		jobs = a.resolved().Jobs
	}

	source := mgr.Packages(deps.SourcePackages, deps.AllGroups)
	if o.sourcePackages != nil {
		source = deps.ParsePackageList(*o.sourcePackages)
	}
	for _, pkg := range source {
		if _, err := ws.InstallationScript(pkg); err != nil {
			return err
		}
	}

	in := &deps.Installer{
		Runner:         a.runner,
		Logger:         a.logger.Named("dependencies"),
		OSName:         mgr.OSName(),
		OSVersion:      mgr.OSVersion(),
		PackageManager: mgr.PackageManager(),
		Jobs:           jobs,
		InstallDir:     installDir,
		Script: func(pkg string) string {
			script, _ := ws.InstallationScript(pkg)
			return script
		},
	}
	if contains(o.types, deps.TypeOS) {
		a.out.Green("Updating list of packages...")
		if err := in.UpdatePackageLists(ctx); err != nil {
			return err
		}
		a.out.Green("List of packages updated")
		err := a.section("OS", func() error {
			return in.InstallOSPackages(ctx, mgr.Packages(deps.OSPackages, deps.AllGroups))
		})
		if err != nil {
			return err
		}
	}
	if contains(o.types, deps.TypePip3) {
		err := a.section("pip3", func() error {
			return in.InstallPip3Packages(ctx, mgr.Packages(deps.Pip3Packages, deps.AllGroups))
		})
		if err != nil {
			return err
		}
	}
	if contains(o.types, deps.TypeSource) {
		if err := a.section("source", func() error { return in.InstallSourcePackages(ctx, source) }); err != nil {
			return err
		}
	}
	a.out.Green("%s dependencies installed.", workspace.Name)
	return nil
}

func (a *app) section(name string, fn func() error) error {
	a.out.Green("Installing %s dependencies...", name)
	if err := fn(); err != nil {
		return err
	}
	a.out.Green("%s dependencies installed", name)
	return nil
}

type configureOptions struct {
	options       []string
	buildType     string
	installPrefix string
	bspPath       string
	p4ppflags     string
	p4flags       string
	extraCPPFlags string
	kdir          string
}

func (a *app) configure(ctx context.Context, o configureOptions) error {
	ws, err := a.workspace()
	if err != nil {
		return err
	}
	a.out.Green("Configuring %s build...", workspace.Name)
	cm, err := a.configManager()
	if err != nil {
		return err
	}
	for _, opt := range o.options {
		if err := cm.AddOption(opt); err != nil {
			return err
		}
	}
	if o.bspPath != "" {
		if err := cm.AddOption("bsp"); err != nil {
			return err
		}
	}
	buildType := o.buildType
	if buildType == "" {
		buildType = a.resolved().BuildType
	}
	if !cmake.ValidBuildType(buildType) {
		return fmt.Errorf("invalid build type %q, expected one of: %s", buildType, strings.Join(cmake.BuildTypes, ", "))
	}

	if err := a.extractPackages(ctx, false, o.bspPath); err != nil {
		return err
	}
	prefix, err := a.installDir(o.installPrefix)
	if err != nil {
		return err
	}

	flags := cm.BuildFlags()
	flags = append(flags,
		cmake.Define("CMAKE_BUILD_TYPE", buildType),
		cmake.Define("CMAKE_INSTALL_PREFIX", prefix),
	)
	for _, extra := range []struct{ name, value string }{
		{"EXTRA_CPPFLAGS", o.extraCPPFlags},
		{"P4FLAGS", o.p4flags},
		{"P4PPFLAGS", o.p4ppflags},
		{"KDIR", o.kdir},
	} {
		if extra.value != "" {
			flags = append(flags, cmake.Define(extra.name, extra.value))
		}
	}

	if err := workspace.SetupPathVariables(prefix); err != nil {
		return err
	}
	if err := cmake.Configure(ctx, a.runner, ws.Root, ws.BuildPath(), flags); err != nil {
		return err
	}
	a.out.Green("%s build configured.", workspace.Name)
	return nil
}

type buildOptions struct {
	targets         []string
	jobs            int
	dependenciesDir string
}

func (a *app) build(ctx context.Context, o buildOptions) error {
	ws, err := a.workspace()
	if err != nil {
		return err
	}
	a.out.Green("Building and installing %s...", workspace.Name)
	allowed, err := a.allTargets()
	if err != nil {
		return err
	}
	for _, t := range o.targets {
		if !contains(allowed, t) {
			return fmt.Errorf("invalid target %q, see p4studio build --help", t)
		}
	}
	depsDir, err := a.installDir(o.dependenciesDir)
	if err != nil {
		return err
	}
	if err := workspace.SetupPathVariables(depsDir); err != nil {
		return err
	}
	jobs := o.jobs
	if jobs <= 0 {
		jobs = a.resolved().Jobs
	}
	b := &build.Builder{
		Runner:   a.runner,
		BuildDir: ws.BuildPath(),
		Jobs:     jobs,
		Progress: func(msg string) { a.out.Green("%s", msg) },
	}
	if err := b.Build(ctx, o.targets); err != nil {
		return err
	}
	a.out.Green("%s built and installed.", workspace.Name)
	return nil
}

// targetsByGroup is build.TargetsByGroup without the programs excluded in
// settings.
func (a *app) targetsByGroup() ([]build.Group, error) {
	ws, err := a.workspace()
	if err != nil {
		return nil, err
	}
	groups, err := build.TargetsByGroup(ws)
	if err != nil {
		return nil, err
	}
	for i, g := range groups {
		kept := g.Targets[:0:0]
		for _, t := range g.Targets {
			if !a.settings.IsExcluded(g.Name, t) {
				kept = append(kept, t)
			}
		}
		groups[i].Targets = kept
	}
	return groups, nil
}

func (a *app) allTargets() ([]string, error) {
	groups, err := a.targetsByGroup()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, g := range groups {
		out = append(out, g.Targets...)
	}
	return out, nil
}

type checkOptions struct {
	installDir string
	asic       bool
	kdir       string
}

func (a *app) checkSystem(o checkOptions) error {
	dir := o.installDir
	if dir == "" {
		ws, err := a.workspace()
		if err != nil {
			return err
		}
		dir = ws.P4StudioPath()
	}
	checks, err := system.Run(system.Options{InstallDir: dir, ASIC: o.asic, KDir: o.kdir})
	if err != nil {
		return err
	}
	a.out.Green("Checking system capabilities to build and install %s:", workspace.Name)
	for _, c := range checks {
		a.out.Check(c.OK, c.Name+": "+c.Info)
	}
	if system.Failed(checks) {
		return system.ErrCheckFailed
	}
	a.out.Green("Checking system completed successfully.")
	return nil
}

func (a *app) extractPackages(ctx context.Context, force bool, bspPath string) error {
	ws, err := a.workspace()
	if err != nil {
		return err
	}
	if bspPath != "" {
		if _, err := os.Stat(bspPath); err != nil {
			return fmt.Errorf("BSP %s does not exist", bspPath)
		}
	}
	x := &workspace.Extractor{
		Workspace: ws,
		Runner:    a.runner,
		Force:     force,
		Notify:    func(archive, dest string) { a.out.Normal("Extracting %s", archive) },
	}
	return x.ExtractPackages(ctx, bspPath)
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
