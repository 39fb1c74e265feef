package plan

// render.go: command lines from argument records.
//
// Each record type has a static table of flags rendered in order. A flag
// whose values are nil is left out; a table entry without a flag emits
// its values alone.

import (
	"strconv"

	"p4studio/internal/shell"
)

// Tool is the program name the rendered commands start with.
const Tool = "p4studio"

type flagSpec[R any] struct {
	flag   string
	values func(R) []string
}

var installFlags = []flagSpec[InstallArgs]{
	{"--source-packages", func(a InstallArgs) []string { return []string{a.SourcePackages} }},
	{"--jobs", func(a InstallArgs) []string { return optionalInt(a.Jobs) }},
}

var configureFlags = []flagSpec[ConfigureArgs]{
	{"", func(a ConfigureArgs) []string { return a.Options }},
	{"--bsp-path", func(a ConfigureArgs) []string { return optional(a.BSPPath) }},
	{"--p4ppflags", func(a ConfigureArgs) []string { return optional(a.P4PPFlags) }},
	{"--p4flags", func(a ConfigureArgs) []string { return optional(a.P4Flags) }},
	{"--extra-cppflags", func(a ConfigureArgs) []string { return optional(a.ExtraCPPFlags) }},
	{"--kdir", func(a ConfigureArgs) []string { return optional(a.KDir) }},
}

var buildFlags = []flagSpec[BuildArgs]{
	{"--jobs", func(a BuildArgs) []string { return optionalInt(a.Jobs) }},
	{"", func(a BuildArgs) []string { return a.Targets }},
}

func optional(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}

func optionalInt(n int) []string {
	if n == 0 {
		return nil
	}
	return []string{strconv.Itoa(n)}
}

func render[R any](record R, specs []flagSpec[R]) []string {
	var out []string
	for _, spec := range specs {
		values := spec.values(record)
		if len(values) == 0 {
			continue
		}
		if spec.flag != "" {
			out = append(out, spec.flag)
		}
		out = append(out, values...)
	}
	return out
}

// Args renders the record as "dependencies install" arguments.
func (a InstallArgs) Args() []string { return render(a, installFlags) }

// Args renders the record as "configure" arguments.
func (a ConfigureArgs) Args() []string { return render(a, configureFlags) }

// Args renders the record as "build" arguments.
func (a BuildArgs) Args() []string { return render(a, buildFlags) }

var commandSpecs = []struct {
	path []string
	args func(*Plan) []string
}{
	{[]string{"dependencies", "install"}, func(pl *Plan) []string { return pl.DependenciesInstallArgs().Args() }},
	{[]string{"configure"}, func(pl *Plan) []string { return pl.ConfigureArgs().Args() }},
	{[]string{"build"}, func(pl *Plan) []string { return pl.BuildArgs().Args() }},
}

// Commands returns the p4studio command lines equivalent to the plan.
func (pl *Plan) Commands() []string {
	out := make([]string, len(commandSpecs))
	for i, spec := range commandSpecs {
		args := append([]string{Tool}, spec.path...)
		out[i] = shell.Join(append(args, spec.args(pl)...))
	}
	return out
}
