package component

import (
	"fmt"
	"strings"
)

// DefaultMarketplace is the canonical marketplace repository plugin names
// resolve to when no explicit repository is given.
const DefaultMarketplace = "anthropics/claude-plugins-official"

// shortAliases maps recognized marketplace shorthands to full repositories.
var shortAliases = map[string]string{
	"official":               DefaultMarketplace,
	"claude-plugins-official": DefaultMarketplace,
}

// PluginRef is a parsed plugin identifier.
//
// Accepted forms: "name", "name@shortAlias", "name@org/repo". A bare name or
// a recognized alias resolves to the default marketplace; an org/repo form is
// preserved verbatim; an unrecognized alias passes through unresolved and is
// treated as a literal repository identifier.
type PluginRef struct {
	Name string
	Repo string
}

// ParsePluginRef parses and resolves a plugin identifier.
func ParsePluginRef(ref string) (PluginRef, error) {
	name, repo, found := strings.Cut(ref, "@")
	if name == "" {
		return PluginRef{}, fmt.Errorf("plugin reference %q: name is required", ref)
	}
	if !found || repo == "" {
		return PluginRef{Name: name, Repo: DefaultMarketplace}, nil
	}
	if strings.Contains(repo, "/") {
		return PluginRef{Name: name, Repo: repo}, nil
	}
	if full, ok := shortAliases[repo]; ok {
		return PluginRef{Name: name, Repo: full}, nil
	}
	return PluginRef{Name: name, Repo: repo}, nil
}

// FullName reconstructs the canonical display form: the bare name when the
// repository is the default marketplace, "name@repo" otherwise.
func (r PluginRef) FullName() string {
	if r.Repo == "" || r.Repo == DefaultMarketplace {
		return r.Name
	}
	return r.Name + "@" + r.Repo
}
