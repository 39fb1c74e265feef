// Package plan turns a profile into the dependencies-install, configure
// and build steps that realise it, and renders those steps as the
// equivalent p4studio command lines.
package plan

import (
	"strings"

	"p4studio/internal/logging"
	"p4studio/internal/profile"
)

// InstallArgs are the arguments of "p4studio dependencies install".
type InstallArgs struct {
	SourcePackages string
	Jobs           int
}

// ConfigureArgs are the arguments of "p4studio configure".
type ConfigureArgs struct {
	Options       []string
	BSPPath       string
	P4PPFlags     string
	P4Flags       string
	ExtraCPPFlags string
	KDir          string
}

// BuildArgs are the arguments of "p4studio build".
type BuildArgs struct {
	Jobs    int
	Targets []string
}

// Plan is the execution plan of one profile.
type Plan struct {
	Profile *profile.Profile
	// BSPPath is the BSP archive to install, "" for none.
	BSPPath string
	Jobs    int
}

// New returns the plan of p. A non-empty bspPath overrides the profile's.
func New(p *profile.Profile, bspPath string, jobs int) *Plan {
	if bspPath == "" {
		bspPath = p.BSPPath()
	}
	return &Plan{Profile: p, BSPPath: bspPath, Jobs: jobs}
}

// DependenciesInstallArgs selects the profile's source packages.
func (pl *Plan) DependenciesInstallArgs() InstallArgs {
	return InstallArgs{
		SourcePackages: strings.Join(pl.Profile.SourcePackages(), ","),
		Jobs:           pl.Jobs,
	}
}

// ConfigureArgs carries the profile's options and free-form flags.
func (pl *Plan) ConfigureArgs() ConfigureArgs {
	p := pl.Profile
	return ConfigureArgs{
		Options:       p.ConfigArgs(),
		BSPPath:       pl.BSPPath,
		P4PPFlags:     p.Flag(profile.P4PPFlags),
		P4Flags:       p.Flag(profile.P4Flags),
		ExtraCPPFlags: p.Flag(profile.ExtraCPPFlags),
		KDir:          p.Flag(profile.KDir),
	}
}

// BuildArgs lists the profile's build targets.
func (pl *Plan) BuildArgs() BuildArgs {
	return BuildArgs{Jobs: pl.Jobs, Targets: pl.Profile.BuildTargets()}
}

// Describe prints what the profile installs, configures and builds.
func (pl *Plan) Describe(pr *logging.Printer) {
	pr.Green("Source packages to install:")
	for _, pkg := range pl.Profile.SourcePackages() {
		pr.Normal(" - %s", pkg)
	}
	pr.Green("Configuration options:")
	for _, o := range pl.Profile.ConfigOptions() {
		pr.Check(o.Enabled, o.Name)
	}
	pr.Green("Targets to build:")
	for _, t := range pl.Profile.BuildTargets() {
		pr.Normal(" - %s", t)
	}
	pr.Separator()
}

// ShowCommands prints Commands under a heading.
func (pl *Plan) ShowCommands(pr *logging.Printer) {
	pr.Green("Profile is equivalent to below list of commands:")
	for _, c := range pl.Commands() {
		pr.Normal("%s", c)
	}
}
