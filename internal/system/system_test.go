//go:build linux

package system

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"golang.org/x/sys/unix"
)

func fakeStatfs(t *testing.T, bsize int64, bavail uint64) {
	t.Helper()
	orig := statfs
	statfs = func(path string, fs *unix.Statfs_t) error {
		fs.Bsize = bsize
		fs.Bavail = bavail
		return nil
	}
	t.Cleanup(func() { statfs = orig })
}

func TestDiskSpace(t *testing.T) {
	fakeStatfs(t, 4096, 21*1024*256) // 21GB
	c, err := DiskSpace("/")
	if err != nil {
		t.Fatalf("DiskSpace: %v", err)
	}
	want := Check{Name: "Free space >= 20GB", Info: "21.00GB", OK: true}
	if c != want {
		t.Errorf("DiskSpace = %+v, want %+v", c, want)
	}

	fakeStatfs(t, 4096, 1024*256)
	if c, _ := DiskSpace("/"); c.OK || c.Info != "1.00GB" {
		t.Errorf("DiskSpace = %+v", c)
	}
}

func TestDiskSpaceRealFilesystem(t *testing.T) {
	c, err := DiskSpace(t.TempDir())
	if err != nil {
		t.Fatalf("DiskSpace: %v", err)
	}
	if !strings.HasSuffix(c.Info, "GB") {
		t.Errorf("Info = %q", c.Info)
	}
	if _, err := DiskSpace(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestKernelHeaders(t *testing.T) {
	dir := t.TempDir()
	c, err := KernelHeaders(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !c.OK || c.Info != dir+" exists" || c.Name != "Kernel headers installed" {
		t.Errorf("KernelHeaders = %+v", c)
	}
	missing := filepath.Join(dir, "nope")
	if c, _ := KernelHeaders(missing); c.OK || c.Info != missing+" not exist" {
		t.Errorf("KernelHeaders = %+v", c)
	}
}

func TestDefaultKernelHeaders(t *testing.T) {
	orig := uname
	uname = func(u *unix.Utsname) error {
		copy(u.Release[:], "5.4.0-80-generic")
		return nil
	}
	t.Cleanup(func() { uname = orig })

	got, err := DefaultKernelHeaders()
	if err != nil || got != "/lib/modules/5.4.0-80-generic/build" {
		t.Errorf("DefaultKernelHeaders = %s, %v", got, err)
	}
}

func TestRun(t *testing.T) {
	fakeStatfs(t, 4096, 30*1024*256)
	kdir := t.TempDir()
	checks, err := Run(Options{InstallDir: "/", ASIC: true, KDir: kdir})
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, c := range checks {
		names = append(names, c.Name)
	}
	if !reflect.DeepEqual(names, []string{"Free space >= 20GB", "Kernel headers installed"}) {
		t.Errorf("checks = %v", names)
	}
	if Failed(checks) {
		t.Error("Failed = true")
	}
	if !Failed(append(checks, Check{OK: false})) {
		t.Error("Failed = false")
	}
}
