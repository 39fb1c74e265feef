package workspace

// env.go: environment variables pointing tools at an install prefix.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathVariable is an environment variable extended with a directory below
// the install prefix.
type PathVariable struct {
	Name   string
	Subdir string
}

// PathVariables lists what SetupPathVariables updates.
var PathVariables = []PathVariable{
	{"PATH", "bin"},
	{"CMAKE_LIBRARY_PATH", "lib"},
	{"CMAKE_INCLUDE_PATH", "include"},
	{"LIBRARY_PATH", "lib"},
	{"LD_RUN_PATH", "lib"},
	{"CPLUS_INCLUDE_PATH", "include"},
	{"PKG_CONFIG_PATH", filepath.Join("lib", "pkgconfig")},
}

// SetupPathVariables appends the install prefix directories to the
// process environment so child processes find installed dependencies.
func SetupPathVariables(installDir string) error {
	for _, v := range PathVariables {
		if err := AddPath(v.Name, filepath.Join(installDir, v.Subdir)); err != nil {
			return err
		}
	}
	return nil
}

// AddPath appends dir to a list variable unless it is already present.
func AddPath(name, dir string) error {
	current := os.Getenv(name)
	if current == "" {
		return os.Setenv(name, dir)
	}
	for _, p := range filepath.SplitList(current) {
		if p == dir {
			return nil
		}
	}
	return os.Setenv(name, current+string(os.PathListSeparator)+dir)
}

// PathScript returns a shell snippet prepending dir to name once.
func PathScript(name, dir string) string {
	return fmt.Sprintf(`if [[ ":$%[1]s:" != *":%[2]s:"* ]]; then export %[1]s="%[2]s:$%[1]s"; fi`, name, dir)
}

// ActivationScript returns PathScript lines for every PathVariable of
// installDir.
func ActivationScript(installDir string) string {
	lines := make([]string, len(PathVariables))
	for i, v := range PathVariables {
		lines[i] = PathScript(v.Name, filepath.Join(installDir, v.Subdir))
	}
	return strings.Join(lines, "\n")
}

// ConfigureLocale gives child processes a UTF-8 locale when none is set.
func ConfigureLocale() {
	if os.Getenv("LANG") == "" {
		os.Setenv("LANG", "C.UTF-8")
	}
	if os.Getenv("LC_ALL") == "" {
		os.Setenv("LC_ALL", os.Getenv("LANG"))
	}
}
