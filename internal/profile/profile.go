// Package profile holds SDE build profiles: YAML documents naming the
// features, architectures and global options of a build, plus the package
// selection and build targets derived from them.
//
//	global-options: {asic: true, p4flags: "-g"}
//	features:
//	  switch: {profile: x1_tofino}
//	  bf-platforms: {bsp-path: /tmp/bsp.tgz}
//	  p4-examples: [tna_exact_match]
//	architectures: [tofino]
//	dependencies: {source-packages: [boost]}   # optional override
package profile

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"p4studio/internal/config"
	"p4studio/internal/doc"
	"p4studio/internal/schema"
)

// Global options that carry free-form flags rather than option toggles.
const (
	P4PPFlags     = "p4ppflags"
	P4Flags       = "p4flags"
	ExtraCPPFlags = "extra-cppflags"
	KDir          = "kdir"
)

var flagKeys = []string{P4PPFlags, P4Flags, ExtraCPPFlags, KDir}

const (
	globalCategory       = "global"
	architectureCategory = "architecture"
	p4ExamplesKey        = "p4-examples"
)

// Profile is a validated profile document bound to the options of a workspace.
type Profile struct {
	mgr      *config.Manager
	raw      *doc.Node
	warnings []string
}

// New returns an empty profile.
func New(mgr *config.Manager) *Profile {
	raw := doc.NewMap()
	raw.Set("global-options", doc.NewMap())
	raw.Set("features", doc.NewMap())
	raw.Set("architectures", doc.Seq())
	return &Profile{mgr: mgr, raw: raw}
}

// Load parses and validates a profile. Deprecated option locations are
// moved first and reported through Warnings.
func Load(mgr *config.Manager, r io.Reader) (*Profile, error) {
	raw, err := doc.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("profile is not valid YAML: %w", err)
	}
	warnings := AdjustForBackwardCompatibility(raw)
	if err := schema.Validate(Schema(mgr), raw); err != nil {
		return nil, err
	}
	return &Profile{mgr: mgr, raw: raw, warnings: warnings}, nil
}

// LoadFile loads the profile at path.
func LoadFile(mgr *config.Manager, path string) (*Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open profile: %w", err)
	}
	defer f.Close()
	p, err := Load(mgr, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Warnings returns the deprecation notices raised while loading.
func (p *Profile) Warnings() []string { return p.warnings }

// Document returns the underlying document. Callers must not modify it.
func (p *Profile) Document() *doc.Node { return p.raw }

// Marshal renders the profile as YAML.
func (p *Profile) Marshal() ([]byte, error) { return doc.Encode(p.raw) }

// ---------------------------------------------------------------------------
// Setters
// ---------------------------------------------------------------------------

// SetOption writes an option where its category keeps it: global options
// under global-options, architectures in the architectures list, feature
// toggles as features/<category>, anything else as
// features/<category>/<name>.
func (p *Profile) SetOption(name string, value bool) error {
	def, err := p.mgr.Definition(name)
	if err != nil {
		return err
	}
	category := strings.ToLower(def.Category)
	switch {
	case category == globalCategory:
		return doc.SetPath(p.raw, "global-options/"+name, doc.Bool(value))
	case category == architectureCategory:
		archs := p.architecturesNode()
		if value && !archs.Contains(name) {
			archs.Append(doc.String(name))
		} else if !value {
			archs.Remove(name)
		}
		return nil
	case name == category:
		if !value {
			return doc.SetPath(p.raw, "features/"+category, doc.Bool(false))
		}
		_, err := p.featureBlock(category)
		return err
	default:
		block, err := p.featureBlock(category)
		if err != nil {
			return err
		}
		block.Set(name, doc.Bool(value))
		return nil
	}
}

// Enable is SetOption(name, true).
func (p *Profile) Enable(name string) error { return p.SetOption(name, true) }

// featureBlock returns features/<category> as a mapping, replacing a
// boolean (or any other scalar) toggle with an empty mapping.
func (p *Profile) featureBlock(category string) (*doc.Node, error) {
	path := "features/" + category
	block, ok, err := doc.Lookup(p.raw, path)
	if err != nil {
		return nil, err
	}
	if ok && block.IsMap() {
		return block, nil
	}
	block = doc.NewMap()
	if err := doc.SetPath(p.raw, path, block); err != nil {
		return nil, err
	}
	return block, nil
}

func (p *Profile) architecturesNode() *doc.Node {
	archs, ok := p.raw.Get("architectures")
	if !ok || !archs.IsSeq() {
		archs = doc.Seq()
		p.raw.Set("architectures", archs)
	}
	return archs
}

// AddP4Program appends a program (or program group) to features/p4-examples.
func (p *Profile) AddP4Program(name string) error {
	list, ok, err := doc.Lookup(p.raw, "features/"+p4ExamplesKey)
	if err != nil {
		return err
	}
	if !ok || !list.IsSeq() {
		list = doc.Seq()
		if err := doc.SetPath(p.raw, "features/"+p4ExamplesKey, list); err != nil {
			return err
		}
	}
	list.Append(doc.String(name))
	return nil
}

// SkipDependencies pins the source package selection to nothing.
func (p *Profile) SkipDependencies() {
	deps := doc.NewMap()
	deps.Set("source-packages", doc.Seq())
	p.raw.Set("dependencies", deps)
}

// SwitchProfile returns features/switch/profile, or "" when unset.
func (p *Profile) SwitchProfile() string {
	return p.stringAt("features/switch/profile")
}

// SetSwitchProfile enables the switch feature and selects its profile.
func (p *Profile) SetSwitchProfile(name string) error {
	if err := p.SetOption("switch", true); err != nil {
		return err
	}
	block, err := p.featureBlock("switch")
	if err != nil {
		return err
	}
	block.Set("profile", doc.String(name))
	return nil
}

// BSPPath returns features/bf-platforms/bsp-path, or "".
func (p *Profile) BSPPath() string { return p.stringAt("features/bf-platforms/bsp-path") }

// SetBSPPath stores the BSP archive location.
func (p *Profile) SetBSPPath(path string) error {
	block, err := p.featureBlock("bf-platforms")
	if err != nil {
		return err
	}
	block.Set("bsp-path", doc.String(path))
	return nil
}

// Flag returns one of the free-form global flags (P4PPFlags, P4Flags,
// ExtraCPPFlags, KDir), or "" when unset.
func (p *Profile) Flag(key string) string { return p.stringAt("global-options/" + key) }

// SetFlag stores a free-form global flag.
func (p *Profile) SetFlag(key, value string) error {
	return doc.SetPath(p.raw, "global-options/"+key, doc.String(value))
}

func (p *Profile) stringAt(path string) string {
	n, ok, err := doc.Lookup(p.raw, path)
	if err != nil || !ok {
		return ""
	}
	s, _ := n.AsString()
	return s
}

// ---------------------------------------------------------------------------
// Derived views
// ---------------------------------------------------------------------------

// GlobalOptions returns a copy of global-options.
func (p *Profile) GlobalOptions() *doc.Node {
	return doc.GetOr(p.raw, "global-options", doc.NewMap()).Clone()
}

// Features returns a copy of features.
func (p *Profile) Features() *doc.Node {
	return doc.GetOr(p.raw, "features", doc.NewMap()).Clone()
}

// Architectures returns the enabled architectures.
func (p *Profile) Architectures() []string {
	return doc.GetOr(p.raw, "architectures", doc.Seq()).StringItems()
}

// ConfigOptions returns the option states the profile implies, in order:
// global options, then options found in features, then one entry per
// declared architecture. Later entries override earlier ones.
func (p *Profile) ConfigOptions() []config.Option {
	merged := doc.MergeAll(p.globalToggles(), p.featureToggles(), p.architectureToggles())
	opts := make([]config.Option, 0, merged.Len())
	for _, k := range merged.Keys() {
		v, _ := merged.Get(k)
		opts = append(opts, config.Option{Name: k, Enabled: v.Truthy()})
	}
	return opts
}

func (p *Profile) globalToggles() *doc.Node {
	out := p.GlobalOptions()
	for _, k := range flagKeys {
		out.Delete(k)
	}
	return out
}

func (p *Profile) featureToggles() *doc.Node {
	out := doc.NewMap()
	features := p.Features()
	for _, name := range features.Keys() {
		value, _ := features.Get(name)
		if p.mgr.IsKnown(name) {
			b, isBool := value.AsBool()
			out.Set(name, doc.Bool(!isBool || b))
		}
		if !value.IsMap() {
			continue
		}
		for _, attr := range value.Keys() {
			if p.mgr.IsKnown(attr) {
				av, _ := value.Get(attr)
				out.Set(attr, doc.Bool(av.Truthy()))
			}
		}
	}
	return out
}

func (p *Profile) architectureToggles() *doc.Node {
	out := doc.NewMap()
	archs := doc.GetOr(p.raw, "architectures", doc.Seq())
	for _, d := range p.mgr.DefinitionsByCategory("Architecture") {
		out.Set(d.ShortName, doc.Bool(archs.Contains(d.ShortName)))
	}
	return out
}

// ConfigArgs returns ConfigOptions in short form ("name" or "^name"),
// sorted.
func (p *Profile) ConfigArgs() []string {
	seen := map[string]bool{}
	var out []string
	for _, o := range p.ConfigOptions() {
		if s := o.String(); !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

// IsEnabled reports the state of name in ConfigOptions, or def when the
// profile does not mention it.
func (p *Profile) IsEnabled(name string, def bool) bool {
	for _, o := range p.ConfigOptions() {
		if o.Name == name {
			return o.Enabled
		}
	}
	return def
}

// SourcePackages returns dependencies/source-packages when present.
// Otherwise bridge and libcli are always selected, thrift when any thrift
// flavour is in use, grpc unless disabled, and pi for PI or P4Runtime.
func (p *Profile) SourcePackages() []string {
	if list, ok, err := doc.Lookup(p.raw, "dependencies/source-packages"); err == nil && ok {
		return list.StringItems()
	}
	opts := map[string]bool{}
	for _, o := range p.ConfigOptions() {
		opts[o.Name] = o.Enabled
	}
	get := func(name string, def bool) bool {
		if v, ok := opts[name]; ok {
			return v
		}
		return def
	}

	out := []string{"bridge", "libcli"}
	if get("thrift-driver", true) ||
		(get("switch", false) && get("thrift-switch", true)) ||
		(get("bf-diags", false) && get("thrift-diags", true)) {
		out = append(out, "thrift")
	}
	if get("grpc", true) {
		out = append(out, "grpc")
	}
	if get("pi", false) || get("p4rt", false) {
		out = append(out, "pi")
	}
	return out
}

// BuildTargets returns features/p4-examples followed by the switch profile.
func (p *Profile) BuildTargets() []string {
	targets := doc.GetOr(p.raw, "features/"+p4ExamplesKey, doc.Seq()).StringItems()
	if sp := p.SwitchProfile(); sp != "" {
		targets = append(targets, sp)
	}
	return targets
}
