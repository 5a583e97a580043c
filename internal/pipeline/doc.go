// Package pipeline runs crawl sessions for multiple targets.
//
// A docgrab invocation can name several topics or URLs. Each one becomes
// its own crawl session, and the Batch runs those sessions with bounded
// concurrency while keeping results in argument order. Sessions are
// built through a SessionFactory, so every target can carry its own site
// configuration while sharing the HTTP client, cache, and per-host rate
// limiter underneath.
//
// Design decision: We run whole sessions concurrently instead of merging
// all targets into one crawl because:
// 1. Each target keeps its own scope prefix, depth, and site profile
// 2. Per-target summaries stay meaningful (counts, timing, failures)
// 3. A failed or cancelled target never contaminates the others
//
// Per-host politeness is unaffected by batch concurrency: the shared
// fetcher serializes requests to the same host regardless of how many
// sessions are in flight.
package pipeline
