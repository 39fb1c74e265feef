package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"p4studio/internal/logging"
)

func newBuildCmd(a *app) *cobra.Command {
	var o buildOptions
	cmd := &cobra.Command{
		Use:   "build [TARGETS]...",
		Short: "Build and install SDE",
		RunE: func(cmd *cobra.Command, args []string) error {
			o.targets = args
			return a.build(cmd.Context(), o)
		},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			targets, err := a.allTargets()
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			return targets, cobra.ShellCompDirectiveNoFileComp
		},
	}
	withHelp(cmd, a.buildHelp)
	cmd.Flags().IntVar(&o.jobs, "jobs", 0, "Allow N jobs at once, defaults to the number of CPUs")
	cmd.Flags().StringVar(&o.dependenciesDir, "dependencies-dir", "", "Directory where dependencies are installed")
	return cmd
}

func (a *app) buildHelp() (string, error) {
	groups, err := a.targetsByGroup()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("Build and install SDE.\n\nWithout TARGETS every configured component is built. Available targets:\n")
	for _, g := range groups {
		if len(g.Targets) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n", g.Name)
		for _, line := range strings.Split(logging.Columnize(g.Targets, 2, 1), "\n") {
			fmt.Fprintf(&b, "  %s\n", strings.TrimRight(line, " "))
		}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
