package auth

import (
	"net/http"
	"strings"
)

type Access int

const (
	Allowed Access = iota
	Public
	Protected
)

func (a Access) String() string {
	switch a {
	case Public:
		return "public"
	case Protected:
		return "protected"
	default:
		return "allowed"
	}
}

// Rule matches a path, exactly or as a segment prefix, and optionally a set of methods.
type Rule struct {
	Path    string
	Exact   bool
	Methods []string // empty matches any method
	Access  Access
}

func (r Rule) matches(method, path string) bool {
	if r.Exact {
		if path != r.Path {
			return false
		}
	} else if path != r.Path && !strings.HasPrefix(path, r.Path+"/") {
		return false
	}

	if len(r.Methods) == 0 {
		return true
	}
	for _, m := range r.Methods {
		if m == method {
			return true
		}
	}
	return false
}

var (
	readMethods  = []string{http.MethodGet, http.MethodHead}
	writeMethods = []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}
)

// DefaultRules is evaluated top to bottom; the first match wins.
var DefaultRules = []Rule{
	{Path: "/api/auth", Access: Public},
	{Path: "/api/projects", Methods: readMethods, Access: Public},
	{Path: "/api/contact", Access: Public},
	{Path: "/api/settings", Exact: true, Methods: readMethods, Access: Public},
	{Path: "/api/admin", Access: Protected},
	{Path: "/api/projects", Methods: writeMethods, Access: Protected},
	{Path: "/api/upload", Access: Protected},
	{Path: "/api/settings", Exact: true, Methods: []string{http.MethodPut}, Access: Protected},
}

type AccessTable []Rule

// Decide returns the access level of the first matching rule, Allowed if none match.
func (t AccessTable) Decide(method, path string) Access {
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	for _, rule := range t {
		if rule.matches(method, path) {
			return rule.Access
		}
	}
	return Allowed
}
