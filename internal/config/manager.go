package config

// manager.go: the set of requested options, validated against the
// workspace's declarations.

import (
	"fmt"
	"sort"

	"p4studio/internal/cmake"
)

// UnknownOptionError reports an option the workspace does not declare.
type UnknownOptionError struct {
	Name string
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("unknown configuration option: %s", e.Name)
}

// AmbiguousOptionError reports an option requested both enabled and disabled.
type AmbiguousOptionError struct {
	Name string
}

func (e *AmbiguousOptionError) Error() string {
	return fmt.Sprintf("ambiguous configuration for %s option", e.Name)
}

// Manager holds the declared options and the options requested so far.
// Selected options keep insertion order.
type Manager struct {
	defs     []cmake.OptionDefinition
	byName   map[string]int
	selected []Option
}

// NewManager returns a Manager over defs.
func NewManager(defs []cmake.OptionDefinition) *Manager {
	m := &Manager{byName: make(map[string]int, len(defs))}
	for _, d := range defs {
		if _, dup := m.byName[d.ShortName]; dup {
			continue
		}
		m.byName[d.ShortName] = len(m.defs)
		m.defs = append(m.defs, d)
	}
	return m
}

// Load builds a Manager from a provider.
func Load(p DefinitionProvider) (*Manager, error) {
	defs, err := p.Definitions()
	if err != nil {
		return nil, fmt.Errorf("load option definitions: %w", err)
	}
	return NewManager(defs), nil
}

// AddOption parses arg and records it. Adding an option already present is a
// no-op. The selection is left unchanged when an error is returned.
func (m *Manager) AddOption(arg string) error {
	opt, err := ParseOption(arg)
	if err != nil {
		return err
	}
	return m.Add(opt)
}

// Add records an already parsed option. See AddOption.
func (m *Manager) Add(opt Option) error {
	if !m.IsKnown(opt.Name) {
		return &UnknownOptionError{Name: opt.Name}
	}
	neg := opt.Negate()
	for _, o := range m.selected {
		if o == neg {
			return &AmbiguousOptionError{Name: opt.Name}
		}
	}
	for _, o := range m.selected {
		if o == opt {
			return nil
		}
	}
	m.selected = append(m.selected, opt)
	return nil
}

// Options returns a copy of the selected options.
func (m *Manager) Options() []Option {
	return append([]Option(nil), m.selected...)
}

// BuildFlags renders the selected options as -D flags in insertion order.
func (m *Manager) BuildFlags() []string {
	flags := make([]string, len(m.selected))
	for i, o := range m.selected {
		flags[i] = o.BuildFlag()
	}
	return flags
}

// IsKnown reports whether name is a declared short name.
func (m *Manager) IsKnown(name string) bool {
	_, ok := m.byName[name]
	return ok
}

// Definition returns the declaration of name.
func (m *Manager) Definition(name string) (cmake.OptionDefinition, error) {
	i, ok := m.byName[name]
	if !ok {
		return cmake.OptionDefinition{}, &UnknownOptionError{Name: name}
	}
	return m.defs[i], nil
}

// Definitions returns every declaration in file order.
func (m *Manager) Definitions() []cmake.OptionDefinition {
	return append([]cmake.OptionDefinition(nil), m.defs...)
}

// DefinitionsByCategory returns the declarations of one category in file order.
func (m *Manager) DefinitionsByCategory(category string) []cmake.OptionDefinition {
	var out []cmake.OptionDefinition
	for _, d := range m.defs {
		if d.Category == category {
			out = append(out, d)
		}
	}
	return out
}

// Categories returns the distinct categories, sorted.
func (m *Manager) Categories() []string {
	seen := map[string]bool{}
	var out []string
	for _, d := range m.defs {
		if !seen[d.Category] {
			seen[d.Category] = true
			out = append(out, d.Category)
		}
	}
	sort.Strings(out)
	return out
}

// KnownOptions returns every declared short name in file order.
func (m *Manager) KnownOptions() []string {
	out := make([]string, len(m.defs))
	for i, d := range m.defs {
		out[i] = d.ShortName
	}
	return out
}

// KnownOptionsIncludingNegated returns name, ^name pairs for every option.
func (m *Manager) KnownOptionsIncludingNegated() []string {
	out := make([]string, 0, 2*len(m.defs))
	for _, d := range m.defs {
		out = append(out, d.ShortName, "^"+d.ShortName)
	}
	return out
}
