// Package urlutil provides URL normalization, resolution, scope checks,
// and hashing shared by the cache, fetch, and crawler packages.
package urlutil
