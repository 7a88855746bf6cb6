// Package pathutil holds URL path helpers shared by handlers and middleware.
package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern maps a dynamic route onto a fixed template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// pathPatterns are evaluated in order, most specific first.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/api/listings/featured$`), Template: "/api/listings/featured"},
	{Pattern: regexp.MustCompile(`^/api/listings/[^/]+$`), Template: "/api/listings/:slug"},
	{Pattern: regexp.MustCompile(`^/api/communities/[^/]+/listings$`), Template: "/api/communities/:community/listings"},
}

// NormalizePath collapses slugs and community names in a request path so that
// metric labels stay bounded. Unknown paths are returned unchanged.
//
//	NormalizePath("/api/listings/harbor-view")             // "/api/listings/:slug"
//	NormalizePath("/api/listings/featured")                // "/api/listings/featured"
//	NormalizePath("/api/communities/bayside/listings/")    // "/api/communities/:community/listings"
//	NormalizePath("/api/cache/monitor?action=health")      // "/api/cache/monitor"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}
	return path
}
