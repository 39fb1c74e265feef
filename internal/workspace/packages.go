package workspace

// packages.go: unpacking the compressed packages and the BSP into pkgsrc.

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"p4studio/internal/runner"
)

var packagePattern = regexp.MustCompile(`^([a-z0-9-]+)-(.*)\.tgz$`)

// Package is a compressed package shipped in the workspace.
type Package struct {
	Name    string
	Archive string
}

// CompressedPackages lists the archives in CompressedPackagesPath whose
// names follow <name>-<version>.tgz.
func (w *Workspace) CompressedPackages() ([]Package, error) {
	entries, err := os.ReadDir(w.CompressedPackagesPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read packages dir: %w", err)
	}
	var out []Package
	for _, e := range entries {
		m := packagePattern.FindStringSubmatch(e.Name())
		if m == nil || e.IsDir() {
			continue
		}
		out = append(out, Package{Name: m[1], Archive: filepath.Join(w.CompressedPackagesPath(), e.Name())})
	}
	return out, nil
}

// ExtractCommand unpacks archive into dest, dropping the top directory.
func ExtractCommand(archive, dest string) runner.Command {
	return runner.Command{
		Description: "extracting package",
		Args:        []string{"tar", "xf", archive, "-C", dest, "--strip-components", "1"},
	}
}

// Extractor unpacks workspace packages through a Runner.
type Extractor struct {
	Workspace *Workspace
	Runner    runner.Runner
	// Force re-extracts packages whose destination already exists.
	Force bool
	// Notify, when set, is told about every archive being unpacked.
	Notify func(archive, dest string)
}

// ExtractPackages unpacks every compressed package whose destination under
// pkgsrc is missing, then installs the BSP when bspPath is set.
func (x *Extractor) ExtractPackages(ctx context.Context, bspPath string) error {
	pkgs, err := x.Workspace.CompressedPackages()
	if err != nil {
		return err
	}
	for _, p := range pkgs {
		dest := filepath.Join(x.Workspace.SubmodulesPath(), p.Name)
		if !x.needed(dest) {
			continue
		}
		if err := x.extract(ctx, p.Archive, dest); err != nil {
			return err
		}
	}
	if bspPath == "" {
		return nil
	}
	dest := filepath.Join(x.Workspace.SubmodulesPath(), "bf-platforms")
	if !x.needed(dest) {
		return nil
	}
	return x.installBSP(ctx, bspPath, dest)
}

func (x *Extractor) needed(dest string) bool {
	if x.Force {
		return true
	}
	_, err := os.Stat(dest)
	return os.IsNotExist(err)
}

func (x *Extractor) extract(ctx context.Context, archive, dest string) error {
	if x.Notify != nil {
		x.Notify(archive, dest)
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	return x.Runner.Run(ctx, ExtractCommand(archive, dest))
}

// installBSP unpacks a BSP. A BSP release wraps the real package as
// <top>/packages/<name>.tgz; that inner archive is what gets installed.
func (x *Extractor) installBSP(ctx context.Context, bspPath, dest string) error {
	inner, err := FindInnerArchive(bspPath)
	if err != nil {
		return err
	}
	if inner == "" {
		return x.extract(ctx, bspPath, dest)
	}
	tmp, err := os.MkdirTemp("", "p4studio-bsp-")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmp)
	if err := x.extract(ctx, bspPath, tmp); err != nil {
		return err
	}
	parts := strings.SplitN(inner, "/", 2)
	return x.extract(ctx, filepath.Join(tmp, filepath.FromSlash(parts[len(parts)-1])), dest)
}

// FindInnerArchive returns the first */packages/*.tgz entry of a gzipped
// tarball, or "" when there is none.
func FindInnerArchive(archive string) (string, error) {
	f, err := os.Open(archive)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", archive, err)
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", archive, err)
	}
	defer gz.Close()
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return "", nil
		}
		if err != nil {
			return "", fmt.Errorf("read %s: %w", archive, err)
		}
		name := strings.TrimPrefix(hdr.Name, "./")
		if ok, _ := path.Match("*/packages/*.tgz", name); ok {
			return name, nil
		}
	}
}
