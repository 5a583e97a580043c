package model

import "time"

// Page represents one fetched and converted documentation page.
// A Page is immutable once built; the crawl session that created it
// owns the slice it lives in.
//
// Design decision: We store the converted Document rather than raw HTML
// because:
// 1. Raw bytes already live in the cache, keyed by the same URL
// 2. Downstream consumers (renderer, JSON output) only need structure
// 3. Keeping both would double memory for no caller benefit
type Page struct {
	// URL is the canonical absolute URL of the page.
	// Exactly one Page exists per URL within a crawl result.
	URL string `json:"url"`

	// Title is the page title: the first h1 if present, otherwise the
	// <title> text, otherwise "Untitled". A configured site suffix
	// (for example " | Unreal Engine Documentation") is trimmed.
	Title string `json:"title"`

	// Document is the structural content extracted from the page body.
	// May be empty for pages with no extractable content.
	Document Document `json:"document"`

	// OutboundLinks are the in-scope URLs discovered on this page, in
	// first-occurrence order with duplicates removed. Links are recorded
	// even when depth limits prevented them from being fetched.
	OutboundLinks []string `json:"outbound_links,omitempty"`

	// FetchedAt is when the body left the origin server. For a cache
	// hit this is the stored entry's fetch time, not the crawl time.
	FetchedAt time.Time `json:"fetched_at"`

	// Depth is the frontier depth the page was fetched at.
	// The start page has depth 0.
	Depth int `json:"depth"`

	// FromCache records whether the body was served from the local
	// cache. Diagnostic only; it does not affect conversion.
	FromCache bool `json:"from_cache,omitempty"`
}

// MaxBodySize is the maximum response body size read from the network.
// Larger bodies are truncated at this boundary before conversion.
const MaxBodySize = 5 * 1024 * 1024 // 5 MB

// DefaultTitle is used when a page has neither an h1 nor a <title>.
const DefaultTitle = "Untitled"

// Skip records a URL that was claimed by the crawl but produced no Page.
// Skips are first-class output: a crawl that fetched nothing still
// reports what it tried.
type Skip struct {
	// URL is the canonical URL that failed.
	URL string `json:"url"`

	// Depth is the frontier depth the failure happened at.
	Depth int `json:"depth"`

	// Reason is a short human-readable cause, such as
	// "permanent: status 404" or "transient: 3 attempts exhausted".
	Reason string `json:"reason"`
}
