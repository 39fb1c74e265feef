// Package settings loads per-workspace defaults from
// <workspace>/.p4studio/settings.yaml.
//
//	jobs: 8
//	log-level: debug
//	install-dir: /opt/sde
//	build-type: debug
//	dependency-files: [p4studio/dependencies/site.yaml]
//	exclude-programs: ["p4-14-programs/**", "p4-16-programs/tna_*"]
//
// Environment variables override the file.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"p4studio/internal/cmake"
	"p4studio/internal/logging"
)

// Environment overrides.
const (
	EnvJobs       = "P4STUDIO_JOBS"
	EnvInstallDir = "P4STUDIO_INSTALL_DIR"
	EnvBuildType  = "P4STUDIO_BUILD_TYPE"
)

// Settings holds p4studio configuration from .p4studio/settings.yaml.
type Settings struct {
	Jobs       int    `yaml:"jobs"`
	LogLevel   string `yaml:"log-level"`
	InstallDir string `yaml:"install-dir"`
	BuildType  string `yaml:"build-type"`
	// DependencyFiles are merged after the workspace's own dependency
	// file, in order. Relative paths are relative to the workspace root.
	DependencyFiles []string `yaml:"dependency-files"`
	// ExcludePrograms hides P4 programs, matched as "<group>/<name>",
	// from listings and build targets.
	ExcludePrograms []string `yaml:"exclude-programs"`
}

// Path is the settings file of the workspace at root.
func Path(root string) string {
	return filepath.Join(root, ".p4studio", "settings.yaml")
}

// Load reads .p4studio/settings.yaml relative to root.
// Returns nil (not an error) if the file does not exist.
func Load(root string) (*Settings, error) {
	path := Path(root)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", path, err)
	}
	if s.BuildType != "" && !cmake.ValidBuildType(s.BuildType) {
		return nil, fmt.Errorf("%s: invalid build-type %q", path, s.BuildType)
	}
	return &s, nil
}

// Resolve returns the settings with environment overrides applied and
// defaults filled in; jobs defaults to cpus. Safe to call on a nil
// *Settings receiver.
func (s *Settings) Resolve(cpus int) Settings {
	var out Settings
	if s != nil {
		out = *s
	}
	if out.Jobs <= 0 {
		out.Jobs = cpus
	}
	out.Jobs = getenvInt(EnvJobs, out.Jobs)
	if out.LogLevel == "" || os.Getenv(logging.EnvLogLevel) != "" {
		out.LogLevel = logging.GetLogLevel()
	}
	out.InstallDir = getenv(EnvInstallDir, out.InstallDir)
	if out.BuildType == "" {
		out.BuildType = cmake.DefaultBuildType
	}
	out.BuildType = getenv(EnvBuildType, out.BuildType)
	return out
}

// ExtraDependencyFiles returns DependencyFiles resolved against root.
func (s *Settings) ExtraDependencyFiles(root string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.DependencyFiles))
	for i, f := range s.DependencyFiles {
		if !filepath.IsAbs(f) {
			f = filepath.Join(root, f)
		}
		out[i] = f
	}
	return out
}

// IsExcluded reports whether the program group/name matches any
// exclude-programs pattern. Safe to call on a nil *Settings receiver.
func (s *Settings) IsExcluded(group, name string) bool {
	if s == nil {
		return false
	}
	target := group + "/" + name
	for _, pattern := range s.ExcludePrograms {
		if matchPattern(strings.TrimPrefix(pattern, "./"), target) {
			return true
		}
	}
	return false
}

// matchPattern reports whether path matches a glob pattern.
//
// "prefix/**" matches the prefix itself and every path beneath it.
// All other patterns use filepath.Match semantics (single * does not cross /).
func matchPattern(pattern, path string) bool {
	if strings.HasSuffix(pattern, "/**") {
		prefix := strings.TrimSuffix(pattern, "/**")
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}
	matched, _ := filepath.Match(pattern, path)
	return matched
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
