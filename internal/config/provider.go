package config

// provider.go: where option definitions come from.

import (
	"sync"

	"p4studio/internal/cmake"
)

// DefinitionProvider supplies the options a workspace declares.
type DefinitionProvider interface {
	Definitions() ([]cmake.OptionDefinition, error)
}

// ProviderFunc adapts a function to DefinitionProvider.
type ProviderFunc func() ([]cmake.OptionDefinition, error)

func (f ProviderFunc) Definitions() ([]cmake.OptionDefinition, error) { return f() }

// FileProvider parses the option declarations of a CMakeLists.txt on every call.
func FileProvider(path string) DefinitionProvider {
	return ProviderFunc(func() ([]cmake.OptionDefinition, error) {
		return cmake.LoadOptions(path)
	})
}

// StaticProvider returns a fixed set of definitions.
func StaticProvider(defs ...cmake.OptionDefinition) DefinitionProvider {
	return ProviderFunc(func() ([]cmake.OptionDefinition, error) {
		return defs, nil
	})
}

// CachedProvider loads definitions once and hands the same result to every
// caller, errors included, until Reset.
type CachedProvider struct {
	source DefinitionProvider

	mu     sync.Mutex
	loaded bool
	defs   []cmake.OptionDefinition
	err    error
}

// NewCachedProvider wraps source.
func NewCachedProvider(source DefinitionProvider) *CachedProvider {
	return &CachedProvider{source: source}
}

func (c *CachedProvider) Definitions() ([]cmake.OptionDefinition, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		c.defs, c.err = c.source.Definitions()
		c.loaded = true
	}
	return c.defs, c.err
}

// Reset drops the cached result so the next call reloads.
func (c *CachedProvider) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
	c.defs = nil
	c.err = nil
}
