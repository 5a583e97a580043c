package model

import "time"

// CrawlSummary is a summarized, human-readable view of one crawl session.
//
// Design decision: We build a separate summary rather than printing
// parts of the crawl result directly because:
// 1. It provides a consistent, curated view of what the session did
// 2. It serializes to JSON for tools that want structured, simple output
// 3. It separates presentation concerns from the crawl data itself
type CrawlSummary struct {
	// StartURL is the URL the session began from.
	StartURL string `json:"start_url"`

	// StartedAt is when the session began.
	StartedAt time.Time `json:"started_at"`

	// Elapsed is the wall-clock duration of the session.
	Elapsed time.Duration `json:"elapsed"`

	// PagesFetched is the number of pages that yielded a Document.
	PagesFetched int `json:"pages_fetched"`

	// PagesSkipped is the number of visited URLs that failed.
	PagesSkipped int `json:"pages_skipped"`

	// CacheHits is how many fetched pages came from the local cache.
	CacheHits int `json:"cache_hits"`

	// Cancelled reports whether the session ended early on a signal
	// or deadline. The page counts still cover everything completed
	// before the stop.
	Cancelled bool `json:"cancelled,omitempty"`

	// Error carries the session-level error message, if any.
	Error string `json:"error,omitempty"`
}

// NewCrawlSummary counts pages and skips into a summary.
// The caller fills in timing and cancellation afterward.
func NewCrawlSummary(startURL string, pages []*Page, skips []Skip) *CrawlSummary {
	s := &CrawlSummary{
		StartURL:     startURL,
		PagesFetched: len(pages),
		PagesSkipped: len(skips),
	}
	for _, p := range pages {
		if p.FromCache {
			s.CacheHits++
		}
	}
	return s
}

// Visited returns the total number of URLs the session claimed.
// It always equals PagesFetched plus PagesSkipped.
func (s *CrawlSummary) Visited() int {
	return s.PagesFetched + s.PagesSkipped
}
