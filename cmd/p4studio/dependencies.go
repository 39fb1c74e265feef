package main

import (
	"strings"

	"github.com/spf13/cobra"

	"p4studio/internal/deps"
	"p4studio/internal/doc"
)

func newDependenciesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dependencies",
		Short: "Manage SDE dependencies",
	}
	cmd.AddCommand(newDependenciesListCmd(a), newDependenciesInstallCmd(a))
	return cmd
}

func newDependenciesListCmd(a *app) *cobra.Command {
	var (
		osName, osVersion string
		raw               bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List SDE dependencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := a.dependencyManager(cmd.Context(), osName, osVersion)
			if err != nil {
				return err
			}
			if raw {
				out, err := doc.Encode(mgr.Data())
				if err != nil {
					return err
				}
				_, err = a.stdout.Write(out)
				return err
			}
			for _, s := range []struct{ title, kind string }{
				{"OS", deps.OSPackages},
				{"pip3", deps.Pip3Packages},
				{"Source", deps.SourcePackages},
			} {
				a.out.Green("%s dependencies:", s.title)
				a.out.Normal("%s", strings.Join(mgr.Packages(s.kind, deps.AllGroups), " "))
				a.out.Separator()
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&osName, "os-name", "", "OS name, detected when omitted")
	cmd.Flags().StringVar(&osVersion, "os-version", "", "OS version, detected when omitted")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the merged dependency document")
	return cmd
}

func newDependenciesInstallCmd(a *app) *cobra.Command {
	var (
		o              installOptions
		sourcePackages string
		types          string
	)
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install SDE dependencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if o.types, err = deps.ParseTypes(types); err != nil {
				return err
			}
			if cmd.Flags().Changed("source-packages") {
				o.sourcePackages = &sourcePackages
			}
			return a.installDependencies(cmd.Context(), o)
		},
	}
	cmd.Flags().StringVar(&o.osName, "os-name", "", "OS name, detected when omitted")
	cmd.Flags().StringVar(&o.osVersion, "os-version", "", "OS version, detected when omitted")
	cmd.Flags().IntVar(&o.jobs, "jobs", 0, "Allow N jobs at once, defaults to the number of CPUs")
	cmd.Flags().StringVar(&o.installDir, "install-dir", "", "Directory where dependencies are installed")
	cmd.Flags().StringVar(&sourcePackages, "source-packages", "", "Comma separated source packages to install, all when omitted")
	cmd.Flags().StringVar(&types, "types", strings.Join(deps.AllTypes, ","), "Comma separated dependency types to install")
	return cmd
}
