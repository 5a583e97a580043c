package cache

import (
	"context"
	"sync"

	"github.com/docgrab/docgrab/internal/urlutil"
)

// MemoryStore is an in-process Store. It backs tests and sessions where
// the on-disk cache could not be opened; contents vanish with the process.
type MemoryStore struct {
	// mu protects entries.
	mu sync.RWMutex

	// entries maps normalized URL hashes to stored entries.
	entries map[string]Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]Entry),
	}
}

// Get returns the cached entry for url, or (nil, nil) when absent.
func (m *MemoryStore) Get(_ context.Context, url string) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[urlutil.Hash(url)]
	if !ok {
		return nil, nil
	}

	// Copy the struct so callers cannot mutate the stored value.
	out := entry
	return &out, nil
}

// Put stores an entry, replacing any previous body for the same URL.
func (m *MemoryStore) Put(_ context.Context, entry *Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *entry
	stored.Body = make([]byte, len(entry.Body))
	copy(stored.Body, entry.Body)

	m.entries[urlutil.Hash(entry.URL)] = stored
	return nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}

// Len returns the number of cached pages.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
