package proxy

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// defaultVersion applies when a declaration omits its version.
const defaultVersion = "1.0.0"

// ServiceDecl declares one remote service the proxy may address. Version is
// semver; its major feeds the call subject so callers and callees agree on
// the wire contract generation.
type ServiceDecl struct {
	Name    string
	Version string
}

// ParseDecl parses a "name" or "name@version" declaration string, the form
// used in RPC_SERVICES configuration.
func ParseDecl(s string) (ServiceDecl, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ServiceDecl{}, fmt.Errorf("proxy: empty service declaration")
	}

	name, version, found := strings.Cut(s, "@")
	if name == "" {
		return ServiceDecl{}, fmt.Errorf("proxy: service declaration %q has no name", s)
	}
	if found && version == "" {
		return ServiceDecl{}, fmt.Errorf("proxy: service declaration %q has empty version", s)
	}

	decl := ServiceDecl{Name: name, Version: version}
	if _, err := decl.major(); err != nil {
		return ServiceDecl{}, err
	}
	return decl, nil
}

// ParseDecls parses a list of declaration strings.
func ParseDecls(items []string) ([]ServiceDecl, error) {
	decls := make([]ServiceDecl, 0, len(items))
	for _, item := range items {
		decl, err := ParseDecl(item)
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}
	return decls, nil
}

// major resolves the routing major version of the declaration.
func (d ServiceDecl) major() (int, error) {
	raw := d.Version
	if raw == "" {
		raw = defaultVersion
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return 0, fmt.Errorf("proxy: service %q has invalid version %q: %w", d.Name, raw, err)
	}
	return int(v.Major()), nil
}
