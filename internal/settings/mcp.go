package settings

import (
	"encoding/json"
	"fmt"

	"github.com/mcsetup/mcs/internal/component"
	"github.com/mcsetup/mcs/internal/types"
)

// mcpTarget resolves which registry file and object path a scope maps to.
// User scope lands in the home registry under the home directory's project
// entry; project scope lands in the project's own registry at the top level.
func (e Env) mcpTarget(scope types.Scope) (path, projectKey string) {
	if scope.IsProject() {
		return e.ProjectMCPPath(), ""
	}
	return e.RegistryPath(), e.HomeDir
}

// serverMap walks to the mcpServers object for projectKey inside obj,
// creating intermediate objects when create is set. Returns nil when absent
// and create is false.
func serverMap(obj map[string]interface{}, projectKey string, create bool) map[string]interface{} {
	container := obj
	if projectKey != "" {
		projects, ok := obj["projects"].(map[string]interface{})
		if !ok {
			if !create {
				return nil
			}
			projects = map[string]interface{}{}
			obj["projects"] = projects
		}
		project, ok := projects[projectKey].(map[string]interface{})
		if !ok {
			if !create {
				return nil
			}
			project = map[string]interface{}{}
			projects[projectKey] = project
		}
		container = project
	}

	servers, ok := container["mcpServers"].(map[string]interface{})
	if !ok {
		if !create {
			return nil
		}
		servers = map[string]interface{}{}
		container["mcpServers"] = servers
	}
	return servers
}

// RegisterMCP merges the named server configuration into the registry for
// its scope. Sibling server entries and unrelated registry content are left
// untouched; an existing entry with the same name is replaced.
func (e Env) RegisterMCP(name string, cfg component.MCPServerConfig) error {
	path, projectKey := e.mcpTarget(cfg.Scope)
	obj := loadObject(path)

	// Round-trip through JSON so the entry is stored in the registry's
	// generic object shape.
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode MCP server %s: %w", name, err)
	}
	var entry map[string]interface{}
	if err := json.Unmarshal(raw, &entry); err != nil {
		return fmt.Errorf("failed to encode MCP server %s: %w", name, err)
	}

	serverMap(obj, projectKey, true)[name] = entry
	return saveObject(path, obj)
}

// UnregisterMCP removes the named server from the registry for scope.
// Reports whether an entry was removed; an absent entry is a no-op.
func (e Env) UnregisterMCP(name string, scope types.Scope) (bool, error) {
	path, projectKey := e.mcpTarget(scope)
	obj := loadObject(path)

	servers := serverMap(obj, projectKey, false)
	if servers == nil {
		return false, nil
	}
	if _, ok := servers[name]; !ok {
		return false, nil
	}
	delete(servers, name)
	return true, saveObject(path, obj)
}

// IsMCPRegistered reports whether the named server exists in the registry
// for scope.
func (e Env) IsMCPRegistered(name string, scope types.Scope) bool {
	path, projectKey := e.mcpTarget(scope)
	servers := serverMap(loadObject(path), projectKey, false)
	if servers == nil {
		return false
	}
	_, ok := servers[name]
	return ok
}
