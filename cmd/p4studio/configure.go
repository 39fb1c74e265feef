package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"p4studio/internal/cmake"
)

func newConfigureCmd(a *app) *cobra.Command {
	var o configureOptions
	cmd := &cobra.Command{
		Use:   "configure [OPTIONS]...",
		Short: "Configure SDE build",
		RunE: func(cmd *cobra.Command, args []string) error {
			o.options = args
			return a.configure(cmd.Context(), o)
		},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			mgr, err := a.configManager()
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			return mgr.KnownOptionsIncludingNegated(), cobra.ShellCompDirectiveNoFileComp
		},
	}
	withHelp(cmd, a.configureHelp)

	f := cmd.Flags()
	f.StringVar(&o.buildType, "build-type", "", fmt.Sprintf("Build type (%s), defaults to %s", strings.Join(cmake.BuildTypes, ", "), cmake.DefaultBuildType))
	f.StringVar(&o.installPrefix, "install-prefix", "", "Directory where SDE should be installed")
	f.StringVar(&o.bspPath, "bsp-path", "", "Path to BSP package")
	f.StringVar(&o.p4ppflags, "p4ppflags", "", "P4 preprocessor flags")
	f.StringVar(&o.extraCPPFlags, "extra-cppflags", "", "Extra C++ compiler flags")
	f.StringVar(&o.p4flags, "p4flags", "", "P4 compiler flags")
	f.StringVar(&o.kdir, "kdir", "", "Path to kernel headers")
	cmd.RegisterFlagCompletionFunc("build-type", cobra.FixedCompletions(cmake.BuildTypes, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

// configureHelp lists the options a workspace declares, by category.
func (a *app) configureHelp() (string, error) {
	mgr, err := a.configManager()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("Configure SDE build.\n\n")
	b.WriteString("OPTIONS enable a component by name or disable it with a ^ prefix, e.g. ^tofino2.\n")
	for _, category := range mgr.Categories() {
		fmt.Fprintf(&b, "\n%s options:\n", category)
		for _, def := range mgr.DefinitionsByCategory(category) {
			state := "disabled"
			if def.Default {
				state = "enabled"
			}
			fmt.Fprintf(&b, "  - %-27s %s. Default: %s\n", def.ShortName, def.Description, state)
		}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// withHelp computes the long description of cmd when help is shown, so
// that commands listing workspace content still work outside one.
func withHelp(cmd *cobra.Command, long func() (string, error)) {
	help := cmd.HelpFunc()
	cmd.SetHelpFunc(func(c *cobra.Command, args []string) {
		if text, err := long(); err == nil {
			c.Long = text
		}
		help(c, args)
	})
}
