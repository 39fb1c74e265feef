// Package cmake reads build options declared by a workspace's CMakeLists.txt
// and drives the cmake configure step.
package cmake

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// GlobalCategory is the category of options whose description carries no
// "Category:" prefix.
const GlobalCategory = "Global"

// OptionDefinition is one option(...) declaration.
type OptionDefinition struct {
	BuildFlagName string // as declared, e.g. THRIFT-DRIVER
	ShortName     string // lower-cased, e.g. thrift-driver
	Default       bool
	Category      string
	Description   string
}

var descriptionPattern = regexp.MustCompile(`^(?:([a-zA-Z0-9-]+):)? +(.+)$`)

// NewOptionDefinition builds a definition, splitting a "Category: text"
// description. A description that does not follow that form is kept whole
// under GlobalCategory.
func NewOptionDefinition(name string, def bool, description string) OptionDefinition {
	d := OptionDefinition{
		BuildFlagName: name,
		ShortName:     strings.ToLower(name),
		Default:       def,
		Category:      GlobalCategory,
		Description:   description,
	}
	if m := descriptionPattern.FindStringSubmatch(description); m != nil {
		if m[1] != "" {
			d.Category = m[1]
		}
		d.Description = m[2]
	}
	return d
}

// ParseOptions extracts every option(NAME "description" DEFAULT) invocation.
// Other commands are ignored. A missing default means OFF. Redeclarations
// of the same name keep the first declaration.
func ParseOptions(filename string, r io.Reader) ([]OptionDefinition, error) {
	cmds, err := Parse(filename, r)
	if err != nil {
		return nil, err
	}
	var defs []OptionDefinition
	seen := map[string]bool{}
	for _, c := range cmds {
		if !strings.EqualFold(c.Name, "option") || len(c.Args) == 0 {
			continue
		}
		name := c.Args[0].Value
		if seen[name] {
			continue
		}
		seen[name] = true
		var desc string
		if len(c.Args) > 1 {
			desc = c.Args[1].Value
		}
		on := len(c.Args) > 2 && strings.EqualFold(c.Args[2].Value, "on")
		defs = append(defs, NewOptionDefinition(name, on, desc))
	}
	return defs, nil
}

// LoadOptions reads the option declarations of a CMakeLists.txt.
func LoadOptions(path string) ([]OptionDefinition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ParseOptions(path, f)
}
