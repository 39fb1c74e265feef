package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"p4studio/internal/build"
	"p4studio/internal/config"
	"p4studio/internal/deps"
	"p4studio/internal/plan"
	"p4studio/internal/profile"
)

func newProfileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage SDE profiles",
	}
	withHelp(cmd, a.profileHelp)
	cmd.AddCommand(newProfileCreateCmd(a), newProfileDescribeCmd(a), newProfileApplyCmd(a))
	return cmd
}

// profileHelp lists the keys a profile may carry in this workspace.
func (a *app) profileHelp() (string, error) {
	mgr, err := a.configManager()
	if err != nil {
		return "", err
	}
	s := profile.Schema(mgr)
	var b strings.Builder
	b.WriteString("Manage SDE profiles.\n\n")
	fmt.Fprintf(&b, "Profile keys: %s\n", strings.Join(s.PropertyNames(), ", "))
	for _, key := range []string{"global-options", "features"} {
		fmt.Fprintf(&b, "  %s: %s\n", key, strings.Join(s.Properties[key].PropertyNames(), ", "))
	}
	return b.String(), nil
}

func newProfileCreateCmd(a *app) *cobra.Command {
	var (
		configure     string
		switchProfile string
		p4Examples    string
		bspPath       string
	)
	cmd := &cobra.Command{
		Use:   "create FILE",
		Short: "Create a profile, - writes it to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := a.configManager()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("configure") {
				configure = defaultOptions(mgr)
			}
			p := profile.New(mgr)
			if bspPath != "" {
				if _, err := os.Stat(bspPath); err != nil {
					return fmt.Errorf("BSP %s does not exist", bspPath)
				}
				if err := p.SetBSPPath(bspPath); err != nil {
					return err
				}
			}
			for _, opt := range splitList(configure) {
				if err := mgr.AddOption(opt); err != nil {
					return err
				}
			}
			for _, opt := range mgr.Options() {
				if err := p.SetOption(opt.Name, opt.Enabled); err != nil {
					return err
				}
			}
			if switchProfile != "" {
				if !contains(build.AllSwitchProfiles, switchProfile) {
					return fmt.Errorf("invalid switch profile %q, expected one of: %s", switchProfile, strings.Join(build.AllSwitchProfiles, ", "))
				}
				if err := p.SetSwitchProfile(switchProfile); err != nil {
					return err
				}
			}
			for _, prog := range splitList(p4Examples) {
				if err := p.AddP4Program(prog); err != nil {
					return err
				}
			}
			out, err := p.Marshal()
			if err != nil {
				return err
			}
			if args[0] == "-" {
				_, err = a.stdout.Write(out)
				return err
			}
			if err := os.WriteFile(args[0], out, 0o644); err != nil {
				return err
			}
			a.out.Green("Profile written to %s", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&configure, "configure", "", "Comma separated configure options, defaults of the workspace when omitted")
	cmd.Flags().StringVar(&switchProfile, "switch-profile", "", "Profile to build switch with")
	cmd.Flags().StringVar(&p4Examples, "p4-examples", "tna_exact_match", "Comma separated P4 programs to build")
	cmd.Flags().StringVar(&bspPath, "bsp-path", "", "Path to BSP package")
	cmd.RegisterFlagCompletionFunc("switch-profile", cobra.FixedCompletions(build.AllSwitchProfiles, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

// defaultOptions renders every declared option at its default, with
// switch and bf-diags turned on.
func defaultOptions(mgr *config.Manager) string {
	enabled := map[string]bool{"switch": true, "bf-diags": true}
	var args []string
	for _, def := range mgr.Definitions() {
		opt := config.Option{Name: def.ShortName, Enabled: def.Default || enabled[def.ShortName]}
		args = append(args, opt.String())
	}
	return strings.Join(args, ",")
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func newProfileDescribeCmd(a *app) *cobra.Command {
	var bspPath string
	cmd := &cobra.Command{
		Use:   "describe PROFILE",
		Short: "Describe a profile and show the equivalent commands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pl, err := a.createPlan(args[0], bspPath, 0)
			if err != nil {
				return err
			}
			pl.Describe(a.out)
			pl.ShowCommands(a.out)
			return nil
		},
		ValidArgsFunction: a.completeProfiles,
	}
	cmd.Flags().StringVar(&bspPath, "bsp-path", "", "Path to BSP package")
	return cmd
}

func newProfileApplyCmd(a *app) *cobra.Command {
	var (
		jobs             int
		bspPath          string
		skipDependencies bool
		skipSystemCheck  bool
	)
	cmd := &cobra.Command{
		Use:   "apply PROFILE",
		Short: "Install dependencies, configure and build SDE as a profile describes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.defaultLogFile(); err != nil {
				return err
			}
			if jobs <= 0 {
				jobs = a.resolved().Jobs
			}
			pl, err := a.createPlan(args[0], bspPath, jobs)
			if err != nil {
				return err
			}
			if !skipSystemCheck {
				err := a.checkSystem(checkOptions{
					asic: contains(pl.Profile.ConfigArgs(), "asic"),
					kdir: pl.Profile.Flag(profile.KDir),
				})
				if err != nil {
					return err
				}
			}
			return a.executePlan(cmd.Context(), pl, skipDependencies)
		},
		ValidArgsFunction: a.completeProfiles,
	}
	cmd.Flags().IntVar(&jobs, "jobs", 0, "Allow N jobs at once, defaults to the number of CPUs")
	cmd.Flags().StringVar(&bspPath, "bsp-path", "", "Path to BSP package")
	cmd.Flags().BoolVar(&skipDependencies, "skip-dependencies", false, "Do not install dependencies")
	cmd.Flags().BoolVar(&skipSystemCheck, "skip-system-check", false, "Do not check system capabilities")
	return cmd
}

// createPlan loads and validates a profile, given as a path or as the name
// of a shipped profile.
func (a *app) createPlan(arg, bspPath string, jobs int) (*plan.Plan, error) {
	ws, err := a.workspace()
	if err != nil {
		return nil, err
	}
	mgr, err := a.configManager()
	if err != nil {
		return nil, err
	}
	path := ws.ProfilePath(arg)
	a.out.Green("Loading profile from %s file...", path)
	p, err := profile.LoadFile(mgr, path)
	if err != nil {
		return nil, err
	}
	for _, w := range p.Warnings() {
		a.out.Warning("%s", w)
	}
	if bspPath != "" {
		if err := p.Enable("bsp"); err != nil {
			return nil, err
		}
	}
	a.out.Green("Profile is correct.")
	a.out.Separator()
	return plan.New(p, bspPath, jobs), nil
}

// executePlan runs the steps of pl: dependencies, configure, build.
func (a *app) executePlan(ctx context.Context, pl *plan.Plan, skipDependencies bool) error {
	a.logger.Debug("executing plan", "commands", pl.Commands())
	a.out.Separator()
	pl.Describe(a.out)
	a.out.Separator()
	if !skipDependencies {
		ia := pl.DependenciesInstallArgs()
		err := a.installDependencies(ctx, installOptions{
			types:          deps.AllTypes,
			sourcePackages: &ia.SourcePackages,
			jobs:           ia.Jobs,
		})
		if err != nil {
			return err
		}
		a.out.Separator()
	}
	ca := pl.ConfigureArgs()
	err := a.configure(ctx, configureOptions{
		options:       ca.Options,
		bspPath:       ca.BSPPath,
		p4ppflags:     ca.P4PPFlags,
		p4flags:       ca.P4Flags,
		extraCPPFlags: ca.ExtraCPPFlags,
		kdir:          ca.KDir,
	})
	if err != nil {
		return err
	}
	a.out.Separator()
	ba := pl.BuildArgs()
	return a.build(ctx, buildOptions{targets: ba.Targets, jobs: ba.Jobs})
}

func (a *app) completeProfiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	ws, err := a.workspace()
	if err != nil {
		return nil, cobra.ShellCompDirectiveDefault
	}
	names, _ := ws.Profiles()
	return names, cobra.ShellCompDirectiveDefault
}
