package deps

// resolver.go: installation order of source packages.

import (
	"fmt"
	"strings"
)

// Table maps a package to the packages that must be installed before it.
type Table map[string][]string

// ConditionalEdge orders Prerequisite before Package when both are requested.
type ConditionalEdge struct {
	Package      string
	Prerequisite string
}

// DefaultTable is the fixed prerequisite table of the source packages.
var DefaultTable = Table{
	"grpc":   {"boost"},
	"thrift": {"boost"},
}

// DefaultResolver orders source packages with DefaultTable. PI is built
// after gRPC when both are installed so it can use the proto support.
var DefaultResolver = &Resolver{
	Table:       DefaultTable,
	Conditional: []ConditionalEdge{{Package: "pi", Prerequisite: "grpc"}},
}

// CyclicDependencyError reports packages that wait on each other.
type CyclicDependencyError struct {
	Cycle []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("cyclic dependency between packages: %s", strings.Join(e.Cycle, " -> "))
}

// Resolver orders packages so that prerequisites come first.
type Resolver struct {
	Table       Table
	Conditional []ConditionalEdge
}

// Resolve returns requested in installation order. Prerequisites missing
// from requested are added. Among packages that are ready, the requested
// order is kept.
//
// Candidates are taken from a worklist; a candidate with unresolved
// prerequisites goes back on the list underneath them.
func (r *Resolver) Resolve(requested []string) ([]string, error) {
	pending := make([]string, 0, len(requested))
	for i := len(requested) - 1; i >= 0; i-- {
		pending = append(pending, requested[i])
	}
	var result []string
	resolved := map[string]bool{}
	// deferred holds packages put back on the worklist, with the prerequisite
	// that was pushed above them.
	deferred := map[string]string{}

	for len(pending) > 0 {
		pkg := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if resolved[pkg] {
			continue
		}
		var missing []string
		for _, dep := range r.prerequisites(pkg, requested) {
			if resolved[dep] {
				continue
			}
			if dep == pkg {
				return nil, &CyclicDependencyError{Cycle: []string{pkg, pkg}}
			}
			if _, waiting := deferred[dep]; waiting {
				return nil, &CyclicDependencyError{Cycle: cycleFrom(deferred, dep, pkg)}
			}
			missing = append(missing, dep)
		}
		if len(missing) > 0 {
			deferred[pkg] = missing[len(missing)-1]
			pending = append(pending, pkg)
			pending = append(pending, missing...)
			continue
		}
		delete(deferred, pkg)
		resolved[pkg] = true
		result = append(result, pkg)
	}
	return result, nil
}

func (r *Resolver) prerequisites(pkg string, requested []string) []string {
	deps := append([]string(nil), r.Table[pkg]...)
	for _, e := range r.Conditional {
		if e.Package == pkg && contains(requested, e.Prerequisite) {
			deps = append(deps, e.Prerequisite)
		}
	}
	return deps
}

// cycleFrom follows the deferred chain from start until it reaches end and
// closes the loop.
func cycleFrom(deferred map[string]string, start, end string) []string {
	cycle := []string{start}
	for cur := start; cur != end && len(cycle) <= len(deferred)+1; {
		next, ok := deferred[cur]
		if !ok {
			break
		}
		cycle = append(cycle, next)
		cur = next
	}
	if cycle[len(cycle)-1] != end {
		cycle = append(cycle, end)
	}
	return append(cycle, start)
}

// Resolve orders packages with DefaultResolver.
func Resolve(requested []string) ([]string, error) {
	return DefaultResolver.Resolve(requested)
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
