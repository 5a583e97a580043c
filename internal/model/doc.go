// Package model defines the core data structures used throughout docgrab.
//
// This package contains the following main types:
//   - Page: a fetched documentation page with its converted Document
//   - Document: the ordered structural content of a page (closed Block set)
//   - Skip: a visited page that never yielded a Document
//   - CrawlSummary: a summarized, human-readable view of a crawl session
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (crawler, convert, render) need to use these
// types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for machine-readable
// output.
package model
