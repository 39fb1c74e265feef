// Package deps answers which OS, pip3 and source packages a workspace needs
// on a given OS, and installs them.
//
// Dependency documents are YAML files rooted at OS_based:
//
//	OS_based:
//	  defaults:            # every OS
//	    <group>: {os_packages: [...], pip3_packages: [...], source_packages: {...}}
//	  Ubuntu:
//	    keyword: apt-get   # package manager
//	    defaults: {...}    # every Ubuntu version
//	    "20.04": {...}     # exact version, required for the OS to be supported
//
// Several documents merge in order with doc.Merge semantics.
package deps

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"p4studio/internal/doc"
)

// AllGroups lists every dependency group in installation order.
var AllGroups = []string{
	"minimal",
	"optional_packages",
	"source_packages",
	"bf_diags",
	"bf_platforms",
	"grpc",
	"thrift",
	"switch",
	"pi",
	"switch_p4_16",
	"p4i",
}

// AllSourcePackages lists the source packages in canonical order.
var AllSourcePackages = []string{"boost", "grpc", "thrift", "bridge", "libcli", "pi"}

// Installer types accepted by Manager.Packages.
const (
	OSPackages     = "os_packages"
	Pip3Packages   = "pip3_packages"
	SourcePackages = "source_packages"
)

// UnsupportedOSError reports an OS version with no entry in the documents.
type UnsupportedOSError struct {
	Name, Version string
}

func (e *UnsupportedOSError) Error() string {
	return fmt.Sprintf("detected OS %s:%s not supported", e.Name, e.Version)
}

// Manager holds the dependency data effective for one OS version.
type Manager struct {
	osName, osVersion string
	keyword           string
	data              *doc.Node
}

// NewManager merges docs in order and selects the data for the given OS.
func NewManager(osName, osVersion string, docs ...*doc.Node) (*Manager, error) {
	merged := doc.NewMap()
	for _, d := range docs {
		if d.IsNull() {
			continue
		}
		merged = doc.Merge(merged, d)
	}
	osBased := doc.GetOr(merged, "OS_based", doc.NewMap())
	osNode, _ := osBased.Get(osName)
	version, ok := osNode.Get(osVersion)
	if !ok || version.IsNull() {
		return nil, &UnsupportedOSError{Name: osName, Version: osVersion}
	}

	m := &Manager{osName: osName, osVersion: osVersion}
	if kw, ok := osNode.Get("keyword"); ok {
		m.keyword = kw.Text()
	}
	defaults, ok := osBased.Get("defaults")
	if !ok {
		defaults = doc.NewMap()
	}
	osDefaults, ok := osNode.Get("defaults")
	if !ok {
		osDefaults = doc.NewMap()
	}
	m.data = doc.MergeAll(defaults, osDefaults, version)
	return m, nil
}

// Open loads the dependency documents at paths and builds a Manager.
func Open(ctx context.Context, osName, osVersion string, paths ...string) (*Manager, error) {
	docs, err := LoadDocuments(ctx, paths)
	if err != nil {
		return nil, err
	}
	return NewManager(osName, osVersion, docs...)
}

// LoadDocuments reads every path concurrently. The result keeps the order of
// paths. Scalars are kept as strings so versions such as 20.04 survive.
func LoadDocuments(ctx context.Context, paths []string) ([]*doc.Node, error) {
	docs := make([]*doc.Node, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open dependency file: %w", err)
			}
			defer f.Close()
			n, err := doc.DecodeRaw(f)
			if err != nil {
				return fmt.Errorf("parse %s: %w", path, err)
			}
			docs[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// OSName returns the OS the manager was built for.
func (m *Manager) OSName() string { return m.osName }

// OSVersion returns the OS version the manager was built for.
func (m *Manager) OSVersion() string { return m.osVersion }

// PackageManager returns the OS package manager command, e.g. apt-get.
func (m *Manager) PackageManager() string { return m.keyword }

// Data returns the effective dependency tree.
func (m *Manager) Data() *doc.Node { return m.data }

// Packages returns the packages of an installer type needed by groups, in
// first-seen order without duplicates. For SourcePackages the groups are
// ignored and the known source packages present in the data are returned in
// canonical order.
func (m *Manager) Packages(installerType string, groups []string) []string {
	if installerType == SourcePackages {
		defined, _ := m.data.Get(SourcePackages)
		var out []string
		for _, p := range AllSourcePackages {
			if _, ok := defined.Get(p); ok {
				out = append(out, p)
			}
		}
		return out
	}
	var out []string
	seen := map[string]bool{}
	for _, g := range groups {
		group, _ := m.data.Get(g)
		list, _ := group.Get(installerType)
		for _, p := range list.StringItems() {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out
}

// SourcePackage returns the attributes of a source package (version, url...).
func (m *Manager) SourcePackage(name string) (*doc.Node, bool) {
	defined, _ := m.data.Get(SourcePackages)
	return defined.Get(name)
}
