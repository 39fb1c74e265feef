package profile

// schema.go: the profile schema, derived from the workspace's declared options.

import (
	"strings"

	"p4studio/internal/build"
	"p4studio/internal/config"
	"p4studio/internal/deps"
	"p4studio/internal/schema"
)

// Schema builds the profile schema for the options mgr knows about.
func Schema(mgr *config.Manager) *schema.Schema {
	return schema.Object(map[string]*schema.Schema{
		"dependencies": schema.Object(map[string]*schema.Schema{
			"source-packages": schema.Array(schema.Enum(deps.AllSourcePackages...)),
		}),
		"global-options": globalOptionsSchema(mgr),
		"features":       featuresSchema(mgr),
		"architectures":  schema.Array(schema.Enum(shortNames(mgr, "Architecture")...)),
		"install-prefix": schema.String(),
	}, "global-options", "features", "architectures")
}

func globalOptionsSchema(mgr *config.Manager) *schema.Schema {
	props := map[string]*schema.Schema{}
	for _, name := range shortNames(mgr, "Global") {
		props[name] = schema.Boolean()
	}
	for _, k := range flagKeys {
		props[k] = schema.NullableString()
	}
	return schema.Object(props)
}

func featuresSchema(mgr *config.Manager) *schema.Schema {
	props := map[string]*schema.Schema{
		p4ExamplesKey: schema.Array(schema.String()),
	}
	for _, category := range mgr.Categories() {
		if category == "Global" || category == "Architecture" {
			continue
		}
		feature := map[string]*schema.Schema{}
		for _, name := range shortNames(mgr, category) {
			feature[name] = schema.Boolean()
		}
		switch category {
		case "BF-Platforms":
			feature["bsp-path"] = schema.String()
		case "Switch":
			feature["profile"] = schema.Enum(build.AllSwitchProfiles...)
		}
		props[strings.ToLower(category)] = schema.OneOf(schema.Object(feature), schema.Boolean())
	}
	return schema.Object(props)
}

func shortNames(mgr *config.Manager, category string) []string {
	defs := mgr.DefinitionsByCategory(category)
	out := make([]string, len(defs))
	for i, d := range defs {
		out[i] = d.ShortName
	}
	return out
}
