// pkg/convention/parse.go
package convention

import (
	"regexp"
	"strings"
)

// ParsedRoute is what a route file name says about its URL and verbs.
// An empty Methods slice means "infer from the module's exports".
type ParsedRoute struct {
	Pattern  string
	Methods  []Method
	Resource string
	Proxy    bool
}

const (
	indexName     = "index"
	proxyResource = "[module]"
	wildcard      = "*"
)

var paramSegment = regexp.MustCompile(`^\[(\.\.\.)?([^\]]+)\]$`)

// ParseRoute derives the URL pattern and verbs for a file name (extension
// already removed) living under basePath.
//
//	index           -> basePath
//	users.get       -> basePath/users        [GET]
//	[id].get        -> basePath/:id          [GET]
//	[...rest]       -> basePath/*
//	users.info      -> basePath/users        (unknown tokens are not verbs)
//	[module]        -> basePath/:module/*    (proxy mount)
func ParseRoute(name, basePath string) ParsedRoute {
	var methods []Method
	stem := name
	if i := strings.LastIndex(name, "."); i > 0 {
		if m, ok := ParseMethod(name[i+1:]); ok {
			methods = []Method{m}
			stem = name[:i]
		}
	}

	// Only the leading dot token names the resource; the rest is dropped.
	first := firstSegment(stem)
	resource := first

	out := ParsedRoute{Methods: methods, Resource: resource}
	switch {
	case first == indexName:
		out.Pattern = basePath
		if out.Pattern == "" {
			out.Pattern = "/"
		}
	case resource == proxyResource:
		out.Proxy = true
		out.Pattern = basePath + "/:module/" + wildcard
	default:
		out.Pattern = basePath + "/" + segmentFor(resource)
	}
	out.Pattern = terminateWildcard(out.Pattern)
	return out
}

// SegmentFor maps a directory name onto its URL segment. A directory named
// index collapses into its parent and yields "".
func SegmentFor(dirName string) string {
	if dirName == indexName {
		return ""
	}
	return segmentFor(dirName)
}

// IsWildcard reports whether a pattern ends in a catch-all segment.
func IsWildcard(pattern string) bool {
	return pattern == wildcard || strings.HasSuffix(pattern, "/"+wildcard)
}

func segmentFor(resource string) string {
	m := paramSegment.FindStringSubmatch(resource)
	if m == nil {
		return resource
	}
	if m[1] != "" {
		return wildcard
	}
	return ":" + m[2]
}

// firstSegment returns the leading dot-separated token; a bracket group
// such as [...rest] is one token even though it contains dots.
func firstSegment(s string) string {
	if strings.HasPrefix(s, "[") {
		if j := strings.Index(s, "]"); j >= 0 {
			return s[:j+1]
		}
	}
	if i := strings.Index(s, "."); i >= 0 {
		return s[:i]
	}
	return s
}

// terminateWildcard drops every segment after the first "*": a wildcard
// consumes the remainder of the path.
func terminateWildcard(pattern string) string {
	parts := strings.Split(pattern, "/")
	for i, p := range parts {
		if p == wildcard {
			return strings.Join(parts[:i+1], "/")
		}
	}
	return pattern
}
