// Package crawler walks documentation sites breadth-first and converts
// every visited page into a structured Document.
//
// # Architecture
//
// The package is designed around the Crawler type, which processes URLs
// in depth waves: every page at depth d is visited before any page at
// depth d+1. Within a wave a bounded worker pool fetches pages
// concurrently; claims on the shared visited set guarantee each URL is
// fetched at most once per crawl.
//
// Design decision: We crawl in depth waves rather than with a single
// shared queue because:
//  1. Page order stays breadth-first and reproducible
//  2. The depth bound becomes a loop condition instead of bookkeeping
//  3. Wave boundaries are natural cancellation points
//
// # Components
//
//   - Crawler: coordinates waves, claims, and depth accounting
//   - ExtractLinks: pulls normalized in-scope anchors out of a page
//   - Result: the crawled pages plus a skip record per failed URL
//
// # Failure handling
//
// A page that cannot be fetched never aborts the crawl. The URL is
// recorded in Result.Skipped with the fetch failure's reason, and the
// crawl moves on. Every visited URL therefore appears in exactly one of
// Result.Pages or Result.Skipped.
//
// # Usage
//
//	c := crawler.New(fetcher, converter, crawler.WithMaxDepth(2))
//	result, err := c.Crawl(ctx, "https://docs.example.com/guide")
package crawler
