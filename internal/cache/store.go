package cache

import (
	"context"
	"time"
)

// Entry is one cached page body.
type Entry struct {
	// URL is the canonical URL the body was fetched from.
	URL string

	// Body is the raw response body as received from the origin.
	Body []byte

	// FetchedAt is when the body left the origin server.
	FetchedAt time.Time
}

// Store persists raw page bodies keyed by canonical URL.
//
// Design decision: Get returns (nil, nil) on a miss rather than a
// sentinel error because:
// 1. A miss is the common case on a first crawl, not a failure
// 2. Callers always branch on presence; forcing errors.Is on every
//    lookup adds noise without adding safety
// 3. It mirrors how we treat sql.ErrNoRows at the SQLite layer
type Store interface {
	// Get returns the cached entry for url, or (nil, nil) when absent.
	// The entry is trusted as-is; staleness is the caller's policy.
	Get(ctx context.Context, url string) (*Entry, error)

	// Put stores an entry, replacing any previous body for the same URL.
	Put(ctx context.Context, entry *Entry) error

	// Close releases the store's resources.
	Close() error
}
