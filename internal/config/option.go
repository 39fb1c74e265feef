// Package config maps p4studio option names onto CMake cache flags and
// keeps a consistent set of requested options.
//
// An option has two spellings: the short form used on the command line and
// in profiles ("switch", "^switch" when disabled) and the build flag form
// passed to cmake ("-DSWITCH=OFF").
package config

import (
	"fmt"
	"regexp"
	"strings"
)

var optionPattern = regexp.MustCompile(`^(\^)?([a-zA-Z_][a-zA-Z0-9_-]*)$`)

// Option is a named build toggle with its requested state.
type Option struct {
	Name    string
	Enabled bool
}

// FormatError reports an option argument that does not follow the
// [^]name grammar.
type FormatError struct {
	Arg string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("incorrect format of configuration option: %q", e.Arg)
}

// ParseOption parses "name" (enabled) or "^name" (disabled).
func ParseOption(arg string) (Option, error) {
	m := optionPattern.FindStringSubmatch(arg)
	if m == nil {
		return Option{}, &FormatError{Arg: arg}
	}
	return Option{Name: m[2], Enabled: m[1] == ""}, nil
}

// FlagName is the CMake cache variable name.
func (o Option) FlagName() string { return strings.ToUpper(o.Name) }

// String renders the short form, the inverse of ParseOption.
func (o Option) String() string {
	if o.Enabled {
		return o.Name
	}
	return "^" + o.Name
}

// BuildFlag renders -DNAME=ON or -DNAME=OFF.
func (o Option) BuildFlag() string {
	value := "OFF"
	if o.Enabled {
		value = "ON"
	}
	return fmt.Sprintf("-D%s=%s", o.FlagName(), value)
}

// Negate returns the same option with the opposite state.
func (o Option) Negate() Option {
	return Option{Name: o.Name, Enabled: !o.Enabled}
}
