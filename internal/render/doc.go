// Package render serializes crawled pages to GitHub-flavored Markdown
// and JSON.
//
// Three markdown artifacts are produced. Per-page files carry a YAML
// frontmatter header (title, source, fetched_at) and the page body.
// The combined file prepends a table of contents whose entries link to
// explicit per-section anchors. The context file is a condensed variant
// for offline reference: images are dropped and whitespace is reduced.
//
// Design decision: We use the nao1215/markdown library for fluent
// markdown generation which provides:
//  1. Type-safe markdown generation
//  2. Support for tables, lists, and code blocks
//  3. Inline helpers for bold, italic, code, links, and images
package render
