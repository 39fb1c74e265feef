package cmake

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"p4studio/internal/runner"
)

const cmakeLists = `cmake_minimum_required(VERSION 3.5)
project(BF-SDE)

# Feature toggles
option(SWITCH "Switch: Build switch-p4-16 package" OFF)
option(THRIFT-DRIVER "Drivers: Build with thrift support for bf-drivers" ON)
OPTION(TOFINO "Architecture: Build P4 programs for tofino" on)
option(COVERAGE "Build with gcov support" OFF)
option(ASIC "Global:missing space keeps the text" OFF)
option(LEGACY "Legacy: no default")
option(SWITCH "Switch: redeclared" ON)

if(SWITCH)
  set(X "a (nested) \"value\"" [=[bracket ) arg]=])
endif() #[[ a bracket
comment ]]
`

func TestParseOptions(t *testing.T) {
	defs, err := ParseOptions("CMakeLists.txt", strings.NewReader(cmakeLists))
	if err != nil {
		t.Fatalf("ParseOptions: %v", err)
	}
	want := []OptionDefinition{
		{"SWITCH", "switch", false, "Switch", "Build switch-p4-16 package"},
		{"THRIFT-DRIVER", "thrift-driver", true, "Drivers", "Build with thrift support for bf-drivers"},
		{"TOFINO", "tofino", true, "Architecture", "Build P4 programs for tofino"},
		{"COVERAGE", "coverage", false, "Global", "Build with gcov support"},
		{"ASIC", "asic", false, "Global", "Global:missing space keeps the text"},
		{"LEGACY", "legacy", false, "Legacy", "no default"},
	}
	if len(defs) != len(want) {
		t.Fatalf("got %d definitions, want %d: %+v", len(defs), len(want), defs)
	}
	for i := range want {
		if defs[i] != want[i] {
			t.Errorf("defs[%d] = %+v\nwant %+v", i, defs[i], want[i])
		}
	}
}

func TestParseCommands(t *testing.T) {
	cmds, err := Parse("x.cmake", strings.NewReader(cmakeLists))
	if err != nil {
		t.Fatal(err)
	}
	var set Command
	for _, c := range cmds {
		if c.Name == "set" {
			set = c
		}
	}
	if len(set.Args) != 3 {
		t.Fatalf("set args = %+v", set.Args)
	}
	if set.Args[1].Value != `a (nested) "value"` || !set.Args[1].Quoted {
		t.Errorf("quoted arg = %+v", set.Args[1])
	}
	if set.Args[2].Value != "bracket ) arg" {
		t.Errorf("bracket arg = %+v", set.Args[2])
	}
	if set.Pos.Line != 14 {
		t.Errorf("set position = %s", set.Pos)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name, src, msg string
		line           int
	}{
		{"unterminated call", "option(A \"x\" ON\n", "unterminated command invocation", 1},
		{"unterminated string", "project(x)\noption(A \"x ON)\n", "unterminated quoted argument", 2},
		{"unterminated bracket", "set(A [[never closed)\n", "unterminated bracket argument", 1},
		{"missing paren", "option A\n", "expected '('", 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseOptions("CMakeLists.txt", strings.NewReader(tc.src))
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error = %v, want *ParseError", err)
			}
			if !strings.Contains(pe.Error(), tc.msg) {
				t.Errorf("error = %q, want %q", pe.Error(), tc.msg)
			}
			if pe.Pos.Line != tc.line || pe.Pos.Filename != "CMakeLists.txt" {
				t.Errorf("position = %s, want line %d", pe.Pos, tc.line)
			}
		})
	}
}

func TestLoadOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "CMakeLists.txt")
	if err := os.WriteFile(path, []byte(cmakeLists), 0o644); err != nil {
		t.Fatal(err)
	}
	defs, err := LoadOptions(path)
	if err != nil {
		t.Fatalf("LoadOptions: %v", err)
	}
	if len(defs) != 6 {
		t.Errorf("got %d definitions", len(defs))
	}
	if _, err := LoadOptions(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestConfigure(t *testing.T) {
	buildDir := filepath.Join(t.TempDir(), "build")
	fake := &runner.FakeRunner{}
	flags := []string{"-DSWITCH=OFF", Define("CMAKE_BUILD_TYPE", DefaultBuildType)}

	if err := Configure(context.Background(), fake, "/sde", buildDir, flags); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if fi, err := os.Stat(buildDir); err != nil || !fi.IsDir() {
		t.Fatalf("build dir not created: %v", err)
	}
	if len(fake.Calls) != 1 {
		t.Fatalf("calls = %d", len(fake.Calls))
	}
	if got := fake.Calls[0].String(); got != "cmake /sde -DSWITCH=OFF -DCMAKE_BUILD_TYPE=relwithdebinfo" {
		t.Errorf("command = %s", got)
	}
	if fake.Calls[0].Dir != buildDir {
		t.Errorf("dir = %s", fake.Calls[0].Dir)
	}
}

func TestConfigureBuildDirIsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Configure(context.Background(), &runner.FakeRunner{}, "/sde", path, nil); err == nil {
		t.Error("expected error when build dir is a file")
	}
}

func TestValidBuildType(t *testing.T) {
	if !ValidBuildType("debug") || ValidBuildType("Debug") {
		t.Error("ValidBuildType mismatch")
	}
}
