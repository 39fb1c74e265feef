package profile

// compat.go: profiles written for older layouts.

import (
	"fmt"

	"p4studio/internal/doc"
)

var movedOptions = []struct{ from, to string }{
	{"global-options/bsp", "features/bf-platforms/bsp"},
	{"global-options/newport", "features/bf-platforms/newport"},
	{"global-options/tclonly", "features/bf-platforms/tclonly"},
	{"global-options/accton-diags", "features/bf-platforms/accton-diags"},
	{"global-options/newport-diags", "features/bf-platforms/newport-diags"},
}

// AdjustForBackwardCompatibility moves options from their deprecated
// locations in place and returns one warning per moved option. A
// bf-platforms feature set to a boolean becomes a mapping to receive them.
func AdjustForBackwardCompatibility(raw *doc.Node) []string {
	if !raw.IsMap() {
		return nil
	}
	var warnings []string
	for _, m := range movedOptions {
		v, ok, err := doc.Lookup(raw, m.from)
		if err != nil || !ok || v.IsNull() {
			continue
		}
		if block, ok, err := doc.Lookup(raw, "features/bf-platforms"); err == nil && ok && !block.IsMap() {
			_ = doc.SetPath(raw, "features/bf-platforms", doc.NewMap())
		}
		if err := doc.SetPath(raw, m.to, v); err != nil {
			continue
		}
		_ = doc.DeletePath(raw, m.from)
		warnings = append(warnings, fmt.Sprintf("'%s' has been deprecated and will be removed in future. Use '%s'.", m.from, m.to))
	}
	return warnings
}
