package utils

import (
	"net/url"
	"strings"
)

// ResolveImageURL returns absolute URLs untouched and prefixes everything else
// with the CMS origin. An empty path stays empty.
func ResolveImageURL(origin, path string) string {
	if path == "" {
		return ""
	}
	if u, err := url.Parse(path); err == nil && u.Scheme != "" {
		return path
	}
	origin = strings.TrimSuffix(origin, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return origin + path
}
