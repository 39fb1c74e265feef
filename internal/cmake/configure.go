package cmake

// configure.go: the cmake configure step.

import (
	"context"
	"fmt"
	"os"

	"p4studio/internal/runner"
)

// BuildTypes lists the accepted CMAKE_BUILD_TYPE values.
var BuildTypes = []string{"debug", "release", "relwithdebinfo", "minsizerel"}

// DefaultBuildType is used when no build type is requested.
const DefaultBuildType = "relwithdebinfo"

// Define renders a -DNAME=value cache entry.
func Define(name, value string) string {
	return fmt.Sprintf("-D%s=%s", name, value)
}

// ConfigureCommand returns the cmake invocation for sourceDir run in buildDir.
func ConfigureCommand(sourceDir, buildDir string, flags []string) runner.Command {
	args := append([]string{"cmake", sourceDir}, flags...)
	return runner.Command{Description: "configuring build", Args: args, Dir: buildDir}
}

// Configure creates buildDir when needed and runs cmake in it.
func Configure(ctx context.Context, r runner.Runner, sourceDir, buildDir string, flags []string) error {
	if fi, err := os.Stat(buildDir); err == nil {
		if !fi.IsDir() {
			return fmt.Errorf("%s is not a directory", buildDir)
		}
	} else if err := os.MkdirAll(buildDir, 0o755); err != nil {
		return fmt.Errorf("create build dir: %w", err)
	}
	return r.Run(ctx, ConfigureCommand(sourceDir, buildDir, flags))
}

// ValidBuildType reports whether t is one of BuildTypes.
func ValidBuildType(t string) bool {
	for _, bt := range BuildTypes {
		if bt == t {
			return true
		}
	}
	return false
}
