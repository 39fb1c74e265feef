package workspace

// programs.go: P4 example programs shipped in the workspace.

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// P4Dir is a directory of P4 programs built as one group target.
type P4Dir struct {
	Group string
	Path  string
}

// Program is a P4 program: <dir>/<name>/<name>.p4.
type Program struct {
	Name  string
	Group string
	Path  string
}

// P4Dirs returns the program directories in group order.
func (w *Workspace) P4Dirs() []P4Dir {
	examples := filepath.Join(w.SubmodulesPath(), "p4-examples")
	return []P4Dir{
		{Group: "p4-14-programs", Path: filepath.Join(examples, "programs")},
		{Group: "p4-16-programs", Path: filepath.Join(examples, "p4_16_programs")},
	}
}

// Programs lists every program found in P4Dirs, sorted by group then name.
func (w *Workspace) Programs() ([]Program, error) {
	var out []Program
	for _, d := range w.P4Dirs() {
		entries, err := os.ReadDir(d.Path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("read %s: %w", d.Path, err)
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			dir := filepath.Join(d.Path, e.Name())
			fi, err := os.Stat(filepath.Join(dir, e.Name()+".p4"))
			if err != nil || !fi.Mode().IsRegular() {
				continue
			}
			out = append(out, Program{Name: e.Name(), Group: d.Group, Path: dir})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}
