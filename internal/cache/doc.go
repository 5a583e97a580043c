// Package cache persists raw page bodies between crawl sessions.
//
// The cache is a write-through companion to the fetcher: every
// successful network fetch is stored, and later sessions serve the
// stored body without touching the origin. Entries are keyed by the
// SHA-256 of the normalized page URL and are never evicted.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of a
// directory of files or another database because:
// 1. No external dependencies - the cache is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. One file survives partial writes better than thousands of small files
// 4. WAL mode provides good concurrent read performance
package cache
