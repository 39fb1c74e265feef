// Package testutil builds throwaway SDE workspaces for tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/tools/txtar"
)

// Workspace is a minimal SDE tree: option declarations, dependency data,
// a P4 example and a profile.
const Workspace = `-- CMakeLists.txt --
cmake_minimum_required(VERSION 3.5)
project(BF-SDE)

option(ASIC "Build for ASIC" OFF)
option(CPUVETH "Use CPU eth port, applicable for ASIC" ON)
option(GRPC "Drivers: Build with support for GRPC/protobuf" ON)
option(P4RT "Drivers: Build with P4Runtime support" OFF)
option(PI "Drivers: Build with PI support" OFF)
option(THRIFT-DRIVER "Drivers: Build with thrift support for bf-drivers" ON)
option(BFRT "Drivers: Build with BFRuntime support" ON)
option(TOFINO "Architecture: Build P4 programs for tofino" ON)
option(TOFINO2 "Architecture: Build P4 programs for tofino2" OFF)
option(TOFINO2M "Architecture: Build P4 programs for tofino2m" OFF)
option(SWITCH "Switch: Build switch-p4-16 package" OFF)
option(THRIFT-SWITCH "Switch: Build switch-p4-16 with thrift" ON)
option(SAI "Switch: Build switch-p4-16 SAI implementation" OFF)
option(BF-DIAGS "BF-Diags: Build bf-diags package" OFF)
option(THRIFT-DIAGS "BF-Diags: Build bf-diags with thrift" ON)
option(BF-PLATFORMS "BF-Platforms: Build bf-platforms package" OFF)
option(BSP "BF-Platforms: Build reference BSP" OFF)
option(NEWPORT "BF-Platforms: Build newport platform" OFF)
option(TCLONLY "BF-Platforms: Build tcl server only" OFF)
option(ACCTON-DIAGS "BF-Platforms: Build accton diags" OFF)
option(NEWPORT-DIAGS "BF-Platforms: Build newport diags" OFF)
option(COVERAGE "Build with gcov support" OFF)
-- p4studio/dependencies/dependencies.yaml --
OS_based:
  defaults:
    minimal:
      os_packages: [cmake, python3]
      pip3_packages: [setuptools]
    grpc:
      pip3_packages: [grpcio]
    source_packages:
      boost: {version: 1.67.0, url: boost.tar.gz}
      grpc: {version: 1.17.0}
      thrift: {version: 0.13.0}
      pi: {version: 0.1.0}
      libcli: {version: 1.9.7}
      bridge: {version: 1.5}
  Ubuntu:
    keyword: apt-get
    defaults:
      minimal:
        os_packages: [libssl-dev, cmake]
    "20.04":
      thrift:
        os_packages: [bison]
  CentOS:
    keyword: yum
    "8":
      minimal:
        os_packages: [openssl-devel]
-- pkgsrc/p4-examples/programs/basic_switching/basic_switching.p4 --
// P4-14
-- pkgsrc/p4-examples/p4_16_programs/tna_exact_match/tna_exact_match.p4 --
// P4-16
-- pkgsrc/p4-examples/p4_16_programs/tna_counter/tna_counter.p4 --
// P4-16
-- p4studio/profiles/switch.yaml --
global-options: {}
features:
  switch:
    profile: x1_tofino
  p4-examples:
    - tna_exact_match
architectures:
  - tofino
`

// WriteWorkspace extracts archive (txtar format) into a fresh temporary
// directory and returns its path.
func WriteWorkspace(t testing.TB, archive string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range txtar.Parse([]byte(archive)).Files {
		path := filepath.Join(root, filepath.FromSlash(f.Name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, f.Data, 0o644); err != nil {
			t.Fatalf("write %s: %v", f.Name, err)
		}
	}
	return root
}

// DefaultWorkspace writes Workspace and returns its root.
func DefaultWorkspace(t testing.TB) string {
	t.Helper()
	return WriteWorkspace(t, Workspace)
}
