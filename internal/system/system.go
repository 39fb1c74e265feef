// Package system checks that the host can build and install the SDE.
package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// MinFreeSpaceGB is the free space required at the install location.
const MinFreeSpaceGB = 20

// ErrCheckFailed is returned by Report when any check failed.
var ErrCheckFailed = errors.New("At least one check failed")

// Check is the outcome of one capability check.
type Check struct {
	Name string
	Info string
	OK   bool
}

var (
	statfs = unix.Statfs
	uname  = unix.Uname
)

// DiskSpace checks the free space of the filesystem holding path.
func DiskSpace(path string) (Check, error) {
	var fs unix.Statfs_t
	if err := statfs(path, &fs); err != nil {
		return Check{}, fmt.Errorf("statfs %s: %w", path, err)
	}
	free := float64(fs.Bsize) * float64(fs.Bavail) / 1024 / 1024 / 1024
	return Check{
		Name: fmt.Sprintf("Free space >= %dGB", MinFreeSpaceGB),
		Info: fmt.Sprintf("%.2fGB", free),
		OK:   free >= MinFreeSpaceGB,
	}, nil
}

// KernelRelease returns the running kernel release, as uname -r prints it.
func KernelRelease() (string, error) {
	var u unix.Utsname
	if err := uname(&u); err != nil {
		return "", fmt.Errorf("uname: %w", err)
	}
	return unix.ByteSliceToString(u.Release[:]), nil
}

// DefaultKernelHeaders is /lib/modules/<release>/build.
func DefaultKernelHeaders() (string, error) {
	release, err := KernelRelease()
	if err != nil {
		return "", err
	}
	return filepath.Join("/lib/modules", release, "build"), nil
}

// KernelHeaders checks that kdir, or the running kernel's headers when
// kdir is empty, exist.
func KernelHeaders(kdir string) (Check, error) {
	if kdir == "" {
		var err error
		if kdir, err = DefaultKernelHeaders(); err != nil {
			return Check{}, err
		}
	}
	_, err := os.Stat(kdir)
	ok := err == nil
	info := kdir + " exists"
	if !ok {
		info = kdir + " not exist"
	}
	return Check{Name: "Kernel headers installed", Info: info, OK: ok}, nil
}

// Options selects the checks Run performs.
type Options struct {
	InstallDir string
	ASIC       bool
	KDir       string
}

// Run performs the disk space check and, for ASIC builds, the kernel
// headers check.
func Run(opts Options) ([]Check, error) {
	disk, err := DiskSpace(opts.InstallDir)
	if err != nil {
		return nil, err
	}
	checks := []Check{disk}
	if opts.ASIC {
		kernel, err := KernelHeaders(opts.KDir)
		if err != nil {
			return nil, err
		}
		checks = append(checks, kernel)
	}
	return checks, nil
}

// Failed reports whether any check failed.
func Failed(checks []Check) bool {
	for _, c := range checks {
		if !c.OK {
			return true
		}
	}
	return false
}
