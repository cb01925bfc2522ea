// Package hostname canonicalizes website strings into bare hostnames and
// derives candidate hostnames from free-text company names.
package hostname

import (
	"net/url"
	"strings"
)

// Normalize canonicalizes raw into a bare hostname: no scheme, no path, no
// trailing slash. When forceWww is true and the host does not already start
// with "www.", the prefix is prepended. Character case is preserved; callers
// that need a lowercase value lowercase it themselves before persisting.
//
// Normalize is idempotent: Normalize(Normalize(x), f) == Normalize(x, f).
// An empty input returns an empty string, not an error.
func Normalize(raw string, forceWww bool) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	parsed := raw
	if !strings.Contains(parsed, "://") {
		parsed = "https://" + parsed
	}
	if u, err := url.Parse(parsed); err == nil && u.Hostname() != "" {
		return applyWwwPolicy(u.Hostname(), forceWww)
	}

	// Unparseable input: strip scheme and path textually.
	host := raw
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")
	if i := strings.Index(host, "/"); i >= 0 {
		host = host[:i]
	}
	host = strings.TrimPrefix(host, "www.")
	return applyWwwPolicy(host, forceWww)
}

func applyWwwPolicy(host string, forceWww bool) string {
	if forceWww && host != "" && !strings.HasPrefix(host, "www.") {
		return "www." + host
	}
	return host
}

// StripWww removes a single leading "www." label, if present.
func StripWww(host string) string {
	return strings.TrimPrefix(host, "www.")
}
