package main

import (
	"os"

	"github.com/spf13/cobra"

	"p4studio/internal/build"
	"p4studio/internal/config"
	"p4studio/internal/plan"
	"p4studio/internal/profile"
	"p4studio/internal/prompt"
)

func newInteractiveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Run p4studio in interactive mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.defaultLogFile(); err != nil {
				return err
			}
			return a.interactive(cmd)
		},
	}
}

func (a *app) interactive(cmd *cobra.Command) error {
	mgr, err := a.configManager()
	if err != nil {
		return err
	}
	p := profile.New(mgr)
	ask := a.asker

	if yes, err := prompt.AskConfirm(ask, "Do you want to install dependencies?", true); err != nil {
		return err
	} else if !yes {
		p.SkipDependencies()
	}

	if yes, err := prompt.AskConfirm(ask, "Do you want to build switch-p4-16?", false); err != nil {
		return err
	} else if yes {
		sp, err := prompt.AskChoice(ask, "Please provide the profile to build switch with", build.AllSwitchProfiles, build.DefaultSwitchProfile)
		if err != nil {
			return err
		}
		if err := p.SetSwitchProfile(sp); err != nil {
			return err
		}
	}

	archRequired := false
	if yes, err := prompt.AskConfirm(ask, "Do you want to build bf-diags?", false); err != nil {
		return err
	} else if yes {
		if err := p.Enable("bf-diags"); err != nil {
			return err
		}
		archRequired = true
	}
	for _, ex := range []struct {
		question string
		group    string
		def      bool
	}{
		{"Do you want to build P4-14 examples?", "p4-14-programs", false},
		{"Do you want to build P4-16 examples?", "p4-16-programs", true},
	} {
		yes, err := prompt.AskConfirm(ask, ex.question, ex.def)
		if err != nil {
			return err
		}
		if yes {
			if err := p.AddP4Program(ex.group); err != nil {
				return err
			}
			archRequired = true
		}
	}

	if archRequired {
		archs := architectures(mgr)
		arch, err := prompt.AskChoice(ask, "Please provide architecture for bf-diags and p4-examples", append(archs, "all"), "tofino")
		if err != nil {
			return err
		}
		if arch != "all" {
			archs = []string{arch}
		}
		for _, name := range archs {
			if err := p.Enable(name); err != nil {
				return err
			}
		}
	}

	if yes, err := prompt.AskConfirm(ask, "Do you want to build for HW?", false); err != nil {
		return err
	} else if yes {
		if err := p.Enable("asic"); err != nil {
			return err
		}
		if yes, err := prompt.AskConfirm(ask, "Do you want to build BSP?", false); err != nil {
			return err
		} else if yes {
			path, err := a.askExistingPath("Please provide the path to BSP")
			if err != nil {
				return err
			}
			if err := p.SetBSPPath(path); err != nil {
				return err
			}
		}
		if yes, err := prompt.AskConfirm(ask, "Do you want to use custom kernel headers?", false); err != nil {
			return err
		} else if yes {
			path, err := a.askExistingPath("Please provide path to kernel headers")
			if err != nil {
				return err
			}
			if err := p.SetFlag(profile.KDir, path); err != nil {
				return err
			}
		}
	}

	if yes, err := prompt.AskConfirm(ask, "Do you want to enable P4Runtime?", false); err != nil {
		return err
	} else if yes {
		if err := p.Enable("p4rt"); err != nil {
			return err
		}
	}

	out, err := p.Marshal()
	if err != nil {
		return err
	}
	a.out.Separator()
	a.out.Normal("Created profile:\n%s", out)

	if yes, err := prompt.AskConfirm(ask, "Do you want to write it to a file?", false); err != nil {
		return err
	} else if yes {
		file, err := prompt.AskText(ask, "Please provide the profile filename - [Example:profiles/my-profile.yaml]", "")
		if err != nil {
			return err
		}
		if err := os.WriteFile(file, out, 0o644); err != nil {
			return err
		}
	}

	yes, err := prompt.AskConfirm(ask, "Do you want to continue building SDE?", false)
	if err != nil || !yes {
		return err
	}
	return a.executePlan(cmd.Context(), plan.New(p, "", a.resolved().Jobs), false)
}

// askExistingPath asks until the answer names an existing file.
func (a *app) askExistingPath(question string) (string, error) {
	for {
		path, err := prompt.AskText(a.asker, question, "")
		if err != nil {
			return "", err
		}
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		a.errors.Warning("Path '%s' does not exist.", path)
	}
}

func architectures(mgr *config.Manager) []string {
	var names []string
	for _, def := range mgr.DefinitionsByCategory("Architecture") {
		names = append(names, def.ShortName)
	}
	return names
}
