package workspace_test

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"p4studio/internal/runner"
	"p4studio/internal/testutil"
	"p4studio/internal/workspace"
)

func TestFindFromSubdirectory(t *testing.T) {
	root := testutil.DefaultWorkspace(t)
	sub := filepath.Join(root, "pkgsrc", "p4-examples", "programs")

	w, err := workspace.Find(sub)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if w.Root != root {
		t.Errorf("Root = %s, want %s", w.Root, root)
	}
}

func TestFindPrefersNearestRoot(t *testing.T) {
	outer := testutil.DefaultWorkspace(t)
	inner := filepath.Join(outer, "nested")
	for _, f := range []string{"CMakeLists.txt", "p4studio/dependencies/dependencies.yaml"} {
		path := filepath.Join(inner, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	w, err := workspace.Find(filepath.Join(inner, "p4studio"))
	if err != nil {
		t.Fatal(err)
	}
	if w.Root != inner {
		t.Errorf("Root = %s, want %s", w.Root, inner)
	}
}

func TestFindOutsideWorkspace(t *testing.T) {
	_, err := workspace.Find(t.TempDir())
	if !errors.Is(err, workspace.ErrNotWorkspace) {
		t.Fatalf("error = %v, want ErrNotWorkspace", err)
	}
	if !strings.Contains(err.Error(), "is not a SDE directory") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestDiscoverUsesEnvironment(t *testing.T) {
	root := testutil.DefaultWorkspace(t)
	t.Setenv(workspace.EnvRoot, root)
	w, err := workspace.Discover(t.TempDir())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if w.Root != root {
		t.Errorf("Root = %s", w.Root)
	}
	t.Setenv(workspace.EnvRoot, t.TempDir())
	if _, err := workspace.Discover(root); !errors.Is(err, workspace.ErrNotWorkspace) {
		t.Errorf("Discover with bad env = %v", err)
	}
}

func TestPaths(t *testing.T) {
	w := &workspace.Workspace{Root: "/sde"}
	script, err := w.InstallationScript("bridge")
	if err != nil || script != "/sde/p4studio/dependencies/source/install_bridge_utils.py" {
		t.Errorf("InstallationScript(bridge) = %s, %v", script, err)
	}
	if script, _ := w.InstallationScript("grpc"); script != "/sde/p4studio/dependencies/source/install_grpc.py" {
		t.Errorf("InstallationScript(grpc) = %s", script)
	}
	if _, err := w.InstallationScript("scapy"); err == nil {
		t.Error("expected error for unsupported package")
	}
	at := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)
	if got := w.DefaultLogFile(at); got != "/sde/p4studio/logs/p4studio_2021-03-04_05:06:07.log" {
		t.Errorf("DefaultLogFile = %s", got)
	}
	if got := w.DependencyFiles(); !reflect.DeepEqual(got, []string{"/sde/p4studio/dependencies/dependencies.yaml"}) {
		t.Errorf("DependencyFiles = %v", got)
	}
}

func TestProgramsAndProfiles(t *testing.T) {
	root := testutil.DefaultWorkspace(t)
	// A directory without a matching .p4 file is not a program.
	if err := os.MkdirAll(filepath.Join(root, "pkgsrc", "p4-examples", "p4_16_programs", "common"), 0o755); err != nil {
		t.Fatal(err)
	}
	w, err := workspace.Open(root)
	if err != nil {
		t.Fatal(err)
	}
	progs, err := w.Programs()
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, p := range progs {
		got = append(got, p.Group+"/"+p.Name)
	}
	want := []string{"p4-14-programs/basic_switching", "p4-16-programs/tna_counter", "p4-16-programs/tna_exact_match"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Programs = %v, want %v", got, want)
	}

	profiles, err := w.Profiles()
	if err != nil || !reflect.DeepEqual(profiles, []string{"switch"}) {
		t.Errorf("Profiles = %v, %v", profiles, err)
	}
	if got := w.ProfilePath("switch"); got != filepath.Join(w.ProfilesPath(), "switch.yaml") {
		t.Errorf("ProfilePath(switch) = %s", got)
	}
	if got := w.ProfilePath("nope.yaml"); got != "nope.yaml" {
		t.Errorf("ProfilePath(nope.yaml) = %s", got)
	}
}

func TestSetupPathVariables(t *testing.T) {
	for _, v := range workspace.PathVariables {
		t.Setenv(v.Name, "")
	}
	t.Setenv("PATH", "/usr/bin")
	if err := workspace.SetupPathVariables("/opt/sde"); err != nil {
		t.Fatal(err)
	}
	if err := workspace.SetupPathVariables("/opt/sde"); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("PATH"); got != "/usr/bin:/opt/sde/bin" {
		t.Errorf("PATH = %s", got)
	}
	if got := os.Getenv("PKG_CONFIG_PATH"); got != "/opt/sde/lib/pkgconfig" {
		t.Errorf("PKG_CONFIG_PATH = %s", got)
	}
	script := workspace.ActivationScript("/opt/sde")
	if !strings.Contains(script, `export LD_RUN_PATH="/opt/sde/lib:$LD_RUN_PATH"`) {
		t.Errorf("ActivationScript:\n%s", script)
	}
}

// ---------------------------------------------------------------------------
// Package extraction
// ---------------------------------------------------------------------------

func writeTarGz(t *testing.T, path string, names ...string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	for _, name := range names {
		if err := tw.WriteHeader(&tar.Header{Name: name, Mode: 0o644, Size: 1}); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte("x")); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestExtractPackages(t *testing.T) {
	root := testutil.DefaultWorkspace(t)
	w, _ := workspace.Open(root)
	pkgDir := w.CompressedPackagesPath()
	if err := os.MkdirAll(pkgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"bf-drivers-9.7.0.tgz", "p4-examples-9.7.0.tgz", "README"} {
		if err := os.WriteFile(filepath.Join(pkgDir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	bsp := filepath.Join(t.TempDir(), "bf-reference-bsp-9.7.0.tgz")
	writeTarGz(t, bsp, "bf-reference-bsp-9.7.0/packages/bf-platforms-9.7.0.tgz", "bf-reference-bsp-9.7.0/README")

	fake := &runner.FakeRunner{}
	x := &workspace.Extractor{Workspace: w, Runner: fake}
	if err := x.ExtractPackages(context.Background(), bsp); err != nil {
		t.Fatalf("ExtractPackages: %v", err)
	}
	lines := fake.Lines()
	// p4-examples already exists in pkgsrc; the BSP takes two extractions.
	if len(lines) != 3 {
		t.Fatalf("commands = %v", lines)
	}
	want := "tar xf " + filepath.Join(pkgDir, "bf-drivers-9.7.0.tgz") + " -C " + filepath.Join(w.SubmodulesPath(), "bf-drivers") + " --strip-components 1"
	if lines[0] != want {
		t.Errorf("first command = %s\nwant %s", lines[0], want)
	}
	if !strings.HasSuffix(lines[2], "packages/bf-platforms-9.7.0.tgz -C "+filepath.Join(w.SubmodulesPath(), "bf-platforms")+" --strip-components 1") {
		t.Errorf("BSP command = %s", lines[2])
	}
}

func TestFindInnerArchive(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "plain.tgz")
	writeTarGz(t, plain, "bsp/src/a.c")
	if inner, err := workspace.FindInnerArchive(plain); err != nil || inner != "" {
		t.Errorf("FindInnerArchive(plain) = %q, %v", inner, err)
	}
	if _, err := workspace.FindInnerArchive(filepath.Join(dir, "missing.tgz")); err == nil {
		t.Error("expected error for missing archive")
	}
}
