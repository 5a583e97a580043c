package urlutil

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

// Normalize returns the canonical form of a URL used for visited-set
// deduplication and cache keys.
//
// Design decision: We strip both the fragment and the query string because:
//  1. Fragments never change the fetched content
//  2. Documentation pages are keyed by path; query strings carry tracking noise
//  3. One canonical form per page keeps the visited set and the cache aligned
//
// Normalize is idempotent: applying it to its own output is a no-op.
func Normalize(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	// Remove fragment and query
	u.Fragment = ""
	u.RawQuery = ""

	// Normalize scheme and host to lowercase
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)

	// Empty path and "/" are the same page
	if u.Path == "" {
		u.Path = "/"
	}

	return u.String()
}

// Resolve resolves href against base and returns an absolute URL.
// It returns "" when the href cannot produce a fetchable page
// (script and mail links, bare fragments, unparseable values).
func Resolve(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}

	if strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") ||
		strings.HasPrefix(href, "#") {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	return base.ResolveReference(u).String()
}

// InScope reports whether rawURL falls under the allowed prefix.
// The comparison runs on the normalized form so fragments and letter
// case cannot leak pages past the scope check. An empty prefix allows
// everything.
func InScope(rawURL, prefix string) bool {
	if prefix == "" {
		return true
	}
	return strings.HasPrefix(Normalize(rawURL), prefix)
}

// Hash returns the hex-encoded SHA-256 digest of the normalized URL.
// Cache entries and output files are addressed by this value.
//
// Design decision: We use SHA-256 rather than a shorter digest because:
//  1. A collision would silently serve the wrong cached page
//  2. The digest doubles as a stable on-disk identifier
//  3. It is one standard library call; cost is irrelevant at crawl scale
func Hash(rawURL string) string {
	sum := sha256.Sum256([]byte(Normalize(rawURL)))
	return hex.EncodeToString(sum[:])
}
