// Package dedup decides whether an incoming listing is already tracked for an
// owner, using site-aware URL canonicalization with a title+company fallback,
// plus the text repair applied to scraped fields before the check.
package dedup

import (
	"net/url"
	"strings"
)

// queryIDSites maps host suffixes to the query parameter that carries the job
// id on boards that encode it in the query string.
var queryIDSites = map[string]string{
	"indeed.com": "jk",
}

// slugPathSites are hosts whose job URLs identify the posting by a path
// segment; everything else in the URL is tracking noise.
var slugPathSites = []string{
	"greenhouse.io",
	"lever.co",
	"linkedin.com",
	"myworkdayjobs.com",
	"reed.co.uk",
}

// CanonicalURL reduces a listing URL to its site-aware canonical form used
// for duplicate detection. An empty input yields an empty canonical form.
func CanonicalURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Host == "" {
		// Not a parseable absolute URL; fall back to plain normalization.
		stripped := trimmed
		if i := strings.IndexAny(stripped, "?#"); i >= 0 {
			stripped = stripped[:i]
		}
		return strings.ToLower(strings.TrimRight(stripped, "/"))
	}

	host := strings.TrimPrefix(strings.ToLower(parsed.Host), "www.")

	// Query-id boards: the job id parameter is the whole identity.
	if param, ok := queryIDParam(host); ok {
		if id := parsed.Query().Get(param); id != "" {
			return host + "?" + param + "=" + strings.ToLower(id)
		}
	}

	// Slug-in-path boards: the last path segment identifies the job.
	if isSlugPathSite(host) {
		if seg := lastPathSegment(parsed.Path); seg != "" {
			return host + "/" + strings.ToLower(seg)
		}
	}

	// Generic form: scheme+host+path, query and fragment stripped, trailing
	// slash removed, lower-cased.
	path := strings.TrimRight(parsed.Path, "/")
	return strings.ToLower(parsed.Scheme + "://" + host + path)
}

// queryIDParam returns the job-id query parameter for a query-id site host.
func queryIDParam(host string) (string, bool) {
	for site, param := range queryIDSites {
		if host == site || strings.HasSuffix(host, "."+site) {
			return param, true
		}
	}
	return "", false
}

func isSlugPathSite(host string) bool {
	for _, site := range slugPathSites {
		if host == site || strings.HasSuffix(host, "."+site) {
			return true
		}
	}
	return false
}

// lastPathSegment returns the final non-empty path segment.
func lastPathSegment(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			return segments[i]
		}
	}
	return ""
}
