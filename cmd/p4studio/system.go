package main

import "github.com/spf13/cobra"

func newCheckSystemCmd(a *app) *cobra.Command {
	var o checkOptions
	cmd := &cobra.Command{
		Use:   "check-system",
		Short: "Verify that system is capable to build and install SDE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.checkSystem(o)
		},
	}
	cmd.Flags().StringVar(&o.installDir, "install-dir", "", "Directory where SDE should be installed")
	cmd.Flags().BoolVar(&o.asic, "asic", false, "Check requirements for building for the ASIC")
	cmd.Flags().StringVar(&o.kdir, "kdir", "", "Path to kernel headers")
	return cmd
}
