package main

import (
	"bytes"
	"fmt"
	"os"
	"text/template"
	"time"

	"github.com/spf13/cobra"

	"p4studio/internal/devconfig"
	"p4studio/internal/workspace"
)

// defaultProgramFormat lays programs out in aligned columns.
const defaultProgramFormat = `{{printf "%-24s %-41s" .Group .Name}}`

func newProgramCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "program",
		Short: "Manage P4 programs",
	}
	cmd.AddCommand(newProgramListCmd(a), newPackConfigCmd(a))
	return cmd
}

func newProgramListCmd(a *app) *cobra.Command {
	var (
		format     string
		skipHeader bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List P4 programs available in the workspace",
		Long: `List P4 programs available in the workspace.

--format is a Go template executed for every program with the fields
.Name, .Group and .Path.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tmpl, err := template.New("program").Parse(format)
			if err != nil {
				return fmt.Errorf("invalid format: %w", err)
			}
			ws, err := a.workspace()
			if err != nil {
				return err
			}
			programs, err := ws.Programs()
			if err != nil {
				return err
			}
			render := func(p workspace.Program) (string, error) {
				var buf bytes.Buffer
				if err := tmpl.Execute(&buf, p); err != nil {
					return "", err
				}
				return buf.String(), nil
			}
			if !skipHeader {
				header, err := render(workspace.Program{Name: "NAME:", Group: "GROUP:", Path: "PATH:"})
				if err != nil {
					return err
				}
				a.out.Green("%s", header)
			}
			for _, p := range programs {
				if a.settings.IsExcluded(p.Group, p.Name) {
					continue
				}
				line, err := render(p)
				if err != nil {
					return err
				}
				a.out.Normal("%s", line)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", defaultProgramFormat, "Go template used to print every program")
	cmd.Flags().BoolVar(&skipHeader, "skip-header", false, "Do not print the header")
	return cmd
}

type packConfigOptions struct {
	program    string
	testDir    string
	p4info     string
	name       string
	arch       string
	installDir string
	output     string

	switchdPort    int
	switchdTimeout time.Duration
}

func newPackConfigCmd(a *app) *cobra.Command {
	var o packConfigOptions
	cmd := &cobra.Command{
		Use:   "pack-config",
		Short: "Pack a compiled program into P4Runtime device config",
		Long: `Pack a compiled program into the device config of a P4Runtime
SetForwardingPipelineConfig request.

The program artifacts are located through the conf file of an installed
program (--p4-program) or in a compiler output directory (--testdir).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.packConfig(cmd, o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.program, "p4-program", "", "Name of an installed P4 program")
	f.StringVar(&o.testDir, "testdir", "", "Compiler output directory")
	f.StringVar(&o.p4info, "p4info", "", "P4info text protobuf, required with --testdir")
	f.StringVar(&o.name, "name", "", "Program name stored in the device config")
	f.StringVar(&o.arch, "arch", "tofino", "Architecture of the installed program")
	f.StringVar(&o.installDir, "install-dir", "", "Directory where SDE is installed")
	f.StringVarP(&o.output, "output", "o", "", "Output file")
	f.IntVar(&o.switchdPort, "switchd-status-port", 0, "Wait for switchd on this status port first, 0 to skip")
	f.DurationVar(&o.switchdTimeout, "switchd-timeout", time.Minute, "How long to wait for switchd")
	cmd.MarkFlagRequired("output")
	cmd.MarkFlagsMutuallyExclusive("p4-program", "testdir")
	cmd.MarkFlagsOneRequired("p4-program", "testdir")
	return cmd
}

func (a *app) packConfig(cmd *cobra.Command, o packConfigOptions) error {
	var artifacts devconfig.Artifacts
	if o.testDir != "" {
		if o.p4info == "" {
			return fmt.Errorf("--p4info is required with --testdir")
		}
		artifacts = devconfig.FromTestDir(o.testDir, o.p4info)
	} else {
		installDir, err := a.installDir(o.installDir)
		if err != nil {
			return err
		}
		if artifacts, err = devconfig.FromInstall(installDir, o.arch, o.program); err != nil {
			return err
		}
	}
	if err := artifacts.Check(); err != nil {
		return err
	}
	name := o.name
	if name == "" {
		name = o.program
	}
	if name == "" {
		name = devconfig.DefaultProgramName
	}
	data, err := artifacts.Build(name)
	if err != nil {
		return err
	}
	if o.switchdPort > 0 {
		a.out.Normal("Waiting for switchd on port %d...", o.switchdPort)
		if err := devconfig.WaitForSwitchd(cmd.Context(), o.switchdPort, time.Second, o.switchdTimeout); err != nil {
			return err
		}
	}
	if err := os.WriteFile(o.output, data, 0o644); err != nil {
		return err
	}
	a.logger.Info("device config written", "name", name, "p4info", artifacts.P4Info, "bytes", len(data))
	a.out.Green("Device config for %s written to %s", name, o.output)
	return nil
}
