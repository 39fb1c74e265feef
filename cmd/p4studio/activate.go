package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"p4studio/internal/workspace"
)

func newAppCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "app",
		Short: "Manage p4studio itself",
	}
	cmd.AddCommand(newActivateCmd(a))
	return cmd
}

func newActivateCmd(a *app) *cobra.Command {
	var withWorkspace bool
	cmd := &cobra.Command{
		Use:   "activate",
		Short: "Print a script enabling completion and putting p4studio on PATH",
		Long: `Print a script enabling completion and putting p4studio on PATH.

Use it as below:
  source <(p4studio app activate)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Root().GenBashCompletionV2(a.stdout, true); err != nil {
				return err
			}
			exe, err := a.execPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout)
			fmt.Fprintln(a.stdout, workspace.PathScript("PATH", filepath.Dir(exe)))
			if withWorkspace {
				ws, err := a.workspace()
				if err != nil {
					return err
				}
				fmt.Fprintln(a.stdout, workspace.ActivationScript(ws.DefaultInstallDir()))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&withWorkspace, "with-workspace", false, "Also export the paths of the default install directory")
	return cmd
}
