package convention

import (
	"regexp"
	"strings"
)

var repeatedSlash = regexp.MustCompile(`/+`)

// CleanPath collapses repeated separators and drops a trailing one. The
// empty pattern and the root both clean to "/".
func CleanPath(p string) string {
	p = repeatedSlash.ReplaceAllString(p, "/")
	p = strings.TrimSuffix(p, "/")
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}
