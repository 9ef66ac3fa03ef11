package apibase

import (
	"net/url"
	"strings"
)

// NormalizeOrigin trims whitespace and trailing slashes, lowercases the
// scheme and host, collapses repeated slashes in the path and drops the
// fragment and any empty query.
func NormalizeOrigin(origin string) string {
	origin = strings.TrimSpace(origin)
	if origin == "" {
		return ""
	}

	u, err := url.Parse(origin)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return collapsePath(origin)
	}

	out := strings.ToLower(u.Scheme) + "://"
	if u.User != nil {
		out += u.User.String() + "@"
	}
	out += strings.ToLower(u.Host) + collapsePath(u.EscapedPath())
	if u.RawQuery != "" {
		out += "?" + u.RawQuery
	}
	return out
}

// collapsePath squeezes repeated slashes and strips trailing ones, leaving a
// scheme separator alone.
func collapsePath(s string) string {
	prefix := ""
	if i := strings.Index(s, "://"); i >= 0 {
		prefix, s = s[:i+3], s[i+3:]
	}
	for strings.Contains(s, "//") {
		s = strings.ReplaceAll(s, "//", "/")
	}
	return prefix + strings.TrimRight(s, "/")
}

// HealthURL joins an origin and a health-check path with exactly one slash.
//
//	HealthURL("http://localhost:8000/api/", "/sessions") == "http://localhost:8000/api/sessions"
//	HealthURL("https://api.openf1.org", "sessions")      == "https://api.openf1.org/sessions"
func HealthURL(origin, path string) string {
	base := NormalizeOrigin(origin)
	path = strings.Trim(strings.TrimSpace(path), "/")
	if path == "" {
		return base
	}
	return base + "/" + path
}

// normalizeCandidates drops blanks and duplicates (after normalization) and
// keeps the first occurrence so priority order survives.
func normalizeCandidates(candidates []string) []string {
	seen := make(map[string]bool, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		n := NormalizeOrigin(c)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
