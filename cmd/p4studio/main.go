package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "p4studio",
		Short: "Manage the SDE and its environment",
		Long: `p4studio helps to manage SDE and its environment by:

  - installing dependencies,
  - building and installing SDE components,
  - building and installing P4 programs.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return a.setup() },
		PersistentPostRun: func(cmd *cobra.Command, args []string) { a.close() },
	}
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.logFile, "log-file", "", "Save logs to file")

	root.AddCommand(
		newAppCmd(a),
		newCheckSystemCmd(a),
		newPackagesCmd(a),
		newDependenciesCmd(a),
		newConfigureCmd(a),
		newBuildCmd(a),
		newProfileCmd(a),
		newProgramCmd(a),
		newInteractiveCmd(a),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, newApp(), os.Args[1:])
	stop()
	os.Exit(code)
}

// run executes args and returns the process exit code.
func run(ctx context.Context, a *app, args []string) int {
	a.printers()
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		a.close()
		a.errors.Error(err.Error())
		return 1
	}
	return 0
}
