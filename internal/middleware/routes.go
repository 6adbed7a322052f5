// Package middleware implements the ordered admission pipeline wrapped
// around every route.
package middleware

import (
	"strings"
)

// RouteClass is the access classification of a route.
type RouteClass int

const (
	RoutePublic RouteClass = iota
	RouteProtected
)

// routePattern is a parsed route key. Supported forms are the exact
// "METHOD:/path", ":param" segments matching exactly one path segment, and a
// trailing "*" matching the rest of the path.
type routePattern struct {
	method   string
	segments []string
}

func parsePattern(key string) routePattern {
	method, path, ok := strings.Cut(key, ":")
	if !ok || strings.Contains(method, "/") {
		// No method prefix; the colon, if any, starts a :param segment.
		method = ""
		path = key
	}
	path = strings.Trim(path, "/")
	var segments []string
	if path != "" {
		segments = strings.Split(path, "/")
	}
	return routePattern{method: strings.ToUpper(method), segments: segments}
}

// exact reports whether the pattern carries no wildcard segments.
func (p routePattern) exact() bool {
	for _, seg := range p.segments {
		if seg == "*" || strings.HasPrefix(seg, ":") {
			return false
		}
	}
	return true
}

func (p routePattern) matches(method string, segments []string) bool {
	if p.method != "" && p.method != method {
		return false
	}
	for i, seg := range p.segments {
		if seg == "*" && i == len(p.segments)-1 {
			return true
		}
		if i >= len(segments) {
			return false
		}
		if seg == "*" || strings.HasPrefix(seg, ":") {
			continue
		}
		if seg != segments[i] {
			return false
		}
	}
	return len(p.segments) == len(segments)
}

// RouteTable classifies requests as public or protected. Classification is
// table-driven; exact keys beat wildcard patterns, and within the same
// specificity the protected classification wins, so a sloppy wildcard can
// never open an authenticated route.
type RouteTable struct {
	public    []routePattern
	protected []routePattern
}

// NewRouteTable builds a classifier from two pattern lists. Keys are either
// "METHOD:/path" or a bare "/path" matching every method.
func NewRouteTable(public, protected []string) *RouteTable {
	t := &RouteTable{}
	for _, key := range public {
		t.public = append(t.public, parsePattern(key))
	}
	for _, key := range protected {
		t.protected = append(t.protected, parsePattern(key))
	}
	return t
}

// Classify returns the class of the route. Unlisted routes are protected.
func (t *RouteTable) Classify(method, path string) RouteClass {
	method = strings.ToUpper(method)
	trimmed := strings.Trim(path, "/")
	var segments []string
	if trimmed != "" {
		segments = strings.Split(trimmed, "/")
	}

	for _, p := range t.protected {
		if p.exact() && p.matches(method, segments) {
			return RouteProtected
		}
	}
	for _, p := range t.public {
		if p.exact() && p.matches(method, segments) {
			return RoutePublic
		}
	}
	for _, p := range t.protected {
		if p.matches(method, segments) {
			return RouteProtected
		}
	}
	for _, p := range t.public {
		if p.matches(method, segments) {
			return RoutePublic
		}
	}
	return RouteProtected
}
