// Package pathutil maps request paths to route templates for metric labels.
package pathutil

import (
	"regexp"
	"strings"
)

// UnmatchedPath labels every path outside the API's routes.
const UnmatchedPath = "other"

// PathPattern pairs a dynamic route regex with its template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// More specific patterns first.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/collections/[^/]+/stats$`), Template: "/collections/{name}/stats"},
	{Pattern: regexp.MustCompile(`^/collections/[^/]+$`), Template: "/collections/{name}"},
	{Pattern: regexp.MustCompile(`^/awards/[^/]+$`), Template: "/awards/{ceremony}"},
}

var staticPaths = map[string]bool{
	"/":             true,
	"/awards":       true,
	"/health":       true,
	"/health/ready": true,
	"/health/live":  true,
	"/metrics":      true,
}

// NormalizePath returns the route template of path, so that label
// cardinality stays bounded by the number of routes.
//
//	NormalizePath("/awards/bafta")            // "/awards/{ceremony}"
//	NormalizePath("/collections/bond/stats/") // "/collections/{name}/stats"
//	NormalizePath("/health?verbose=1")        // "/health"
//	NormalizePath("/wp-admin")                // "other"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	if staticPaths[path] {
		return path
	}
	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}
	return UnmatchedPath
}
