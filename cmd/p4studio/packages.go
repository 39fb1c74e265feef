package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type sdePackage struct {
	name, kind, description string
}

var sdePackages = []sdePackage{
	{"bf-syslibs", "source", "System utilities for logging, memory management, etc."},
	{"bf-utils", "source", "Third-party libraries adapted for Intel P4 Studio SDE and internal tools"},
	{"bf-drivers", "source", "Low-level driver package including BF Runtime, pipemgr, etc."},
	{"bf-diags", "source", "Diagnostics package for the Intel Tofino ASIC"},
	{"switch-p4.16", "source", "A reference, feature-rich data plane program, written in P4-16, the semantic API for it and the SAI implementation on top of it"},
	{"p4-examples", "source", "P4 examples for Intel Tofino features in p4-14 and p4-16 languages"},
	{"ptf-modules", "source", "Intel-specific fork of Packet Test Framework (PTF)"},
	{"p4-compilers", "binary", "Intel P4 compiler (bf-p4c) and associated files"},
	{"tofino-model", "binary", "Intel Tofino ASIC simulation model"},
}

func newPackagesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "packages",
		Short: "Manage SDE packages",
	}
	cmd.AddCommand(newPackagesListCmd(a), newPackagesExtractCmd(a))
	return cmd
}

func newPackagesListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List SDE packages",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			a.out.Green("%-13s %-12s %s", "name", "type", "description")
			for _, p := range sdePackages {
				fmt.Fprintf(a.stdout, "%-13s %-12s %s\n", p.name, p.kind, p.description)
			}
		},
	}
}

func newPackagesExtractCmd(a *app) *cobra.Command {
	var (
		force   bool
		bspPath string
	)
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract SDE packages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.extractPackages(cmd.Context(), force, bspPath); err != nil {
				return err
			}
			a.out.Green("Packages extracted.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Extract packages even if already extracted")
	cmd.Flags().StringVar(&bspPath, "bsp-path", "", "Path to BSP package")
	return cmd
}
