package settings

// settings_test.go: Tests for settings loading, overrides and program
// exclusion.

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeSettings(t *testing.T, root, content string) {
	t.Helper()
	path := Path(root)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func clearEnv(t *testing.T) {
	for _, k := range []string{EnvJobs, EnvInstallDir, EnvBuildType, "P4STUDIO_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

// ---------------------------------------------------------------------------
// Load
// ---------------------------------------------------------------------------

func TestLoadMissing(t *testing.T) {
	s, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s != nil {
		t.Errorf("Load = %+v, want nil", s)
	}
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	writeSettings(t, root, "jobs: 3\nlog-level: debug\nbuild-type: debug\ndependency-files: [extra.yaml, /abs.yaml]\n")
	s, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Jobs != 3 || s.LogLevel != "debug" || s.BuildType != "debug" {
		t.Errorf("Load = %+v", s)
	}
	want := []string{filepath.Join(root, "extra.yaml"), "/abs.yaml"}
	if got := s.ExtraDependencyFiles(root); !reflect.DeepEqual(got, want) {
		t.Errorf("ExtraDependencyFiles = %v", got)
	}
}

func TestLoadErrors(t *testing.T) {
	root := t.TempDir()
	writeSettings(t, root, "jobs: [\n")
	if _, err := Load(root); err == nil {
		t.Error("expected unmarshal error")
	}
	writeSettings(t, root, "build-type: fast\n")
	if _, err := Load(root); err == nil {
		t.Error("expected build-type error")
	}
}

// ---------------------------------------------------------------------------
// Resolve
// ---------------------------------------------------------------------------

func TestResolveDefaults(t *testing.T) {
	clearEnv(t)
	var s *Settings
	got := s.Resolve(6)
	if got.Jobs != 6 || got.LogLevel != "info" || got.BuildType != "relwithdebinfo" || got.InstallDir != "" {
		t.Errorf("Resolve = %+v", got)
	}
}

func TestResolveEnvironmentWins(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvJobs, "7")
	t.Setenv(EnvInstallDir, "/opt/sde")
	s := &Settings{Jobs: 2, InstallDir: "/usr/local"}
	got := s.Resolve(1)
	if got.Jobs != 7 || got.InstallDir != "/opt/sde" {
		t.Errorf("Resolve = %+v", got)
	}
	// Invalid numbers fall back to the file value.
	t.Setenv(EnvJobs, "many")
	if got := s.Resolve(1); got.Jobs != 2 {
		t.Errorf("Jobs = %d", got.Jobs)
	}
}

// ---------------------------------------------------------------------------
// IsExcluded
// ---------------------------------------------------------------------------

func TestIsExcluded(t *testing.T) {
	s := &Settings{ExcludePrograms: []string{"p4-14-programs/**", "./p4-16-programs/tna_*"}}
	tests := []struct {
		group, name string
		want        bool
	}{
		{"p4-14-programs", "basic_switching", true},
		{"p4-16-programs", "tna_counter", true},
		{"p4-16-programs", "bri_handle", false},
	}
	for _, tc := range tests {
		if got := s.IsExcluded(tc.group, tc.name); got != tc.want {
			t.Errorf("IsExcluded(%s, %s) = %v, want %v", tc.group, tc.name, got, tc.want)
		}
	}
	var none *Settings
	if none.IsExcluded("p4-14-programs", "x") {
		t.Error("nil settings excluded a program")
	}
}

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		// /** matches the prefix itself.
		{"p4-14-programs/**", "p4-14-programs", true},
		{"p4-14-programs/**", "p4-14-programs/basic_switching", true},
		// /** does not match sibling groups.
		{"p4-14-programs/**", "p4-16-programs/basic_switching", false},
		// Single * matches within one segment.
		{"*/tna_counter", "p4-16-programs/tna_counter", true},
		{"*", "p4-16-programs/tna_counter", false},
	}
	for _, tc := range tests {
		if got := matchPattern(tc.pattern, tc.path); got != tc.want {
			t.Errorf("matchPattern(%q, %q) = %v, want %v", tc.pattern, tc.path, got, tc.want)
		}
	}
}
