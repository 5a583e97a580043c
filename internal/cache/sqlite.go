package cache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/docgrab/docgrab/internal/urlutil"
)

// SQLiteStore is a Store backed by a single SQLite database file.
//
// Design decision: We keep one database file for all sites rather than
// a file per site. Cache entries are keyed by full URL hash, so sites
// cannot collide, and a single file keeps backup and cleanup trivial.
type SQLiteStore struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures SQLiteStore behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default cache options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// OpenSQLite opens or creates the page cache at dir/docgrab.db.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is
// returned.
func OpenSQLite(dir string, opts Options) (*SQLiteStore, error) {
	dbPath := filepath.Join(dir, "docgrab.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("cache not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check cache path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to refuse creating new files and
	// mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	// SQLite supports one writer; a second connection only buys lock
	// contention errors.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &SQLiteStore{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the location of the database file.
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

// createTables creates the cache schema if it doesn't exist.
func (s *SQLiteStore) createTables() error {
	schema := `
	-- Page bodies, content-addressed by normalized URL hash
	CREATE TABLE IF NOT EXISTS pages (
		url_hash TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		body BLOB NOT NULL,
		fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_pages_url ON pages(url);
	CREATE INDEX IF NOT EXISTS idx_pages_fetched_at ON pages(fetched_at);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// Get returns the cached entry for url, or (nil, nil) when absent.
func (s *SQLiteStore) Get(ctx context.Context, url string) (*Entry, error) {
	query := `
	SELECT url, body, fetched_at FROM pages
	WHERE url_hash = ?
	`

	var entry Entry
	var fetchedAt string

	err := s.db.QueryRowContext(ctx, query, urlutil.Hash(url)).Scan(
		&entry.URL,
		&entry.Body,
		&fetchedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}

	entry.FetchedAt = parseTimestamp(fetchedAt)

	return &entry, nil
}

// Put stores an entry, replacing any previous body for the same URL.
// Uses UPSERT so re-fetching a page refreshes its body and timestamp.
func (s *SQLiteStore) Put(ctx context.Context, entry *Entry) error {
	query := `
	INSERT INTO pages (url_hash, url, body, fetched_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(url_hash) DO UPDATE SET
		url = excluded.url,
		body = excluded.body,
		fetched_at = excluded.fetched_at
	`

	fetchedAt := entry.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, query,
		urlutil.Hash(entry.URL),
		entry.URL,
		entry.Body,
		fetchedAt.UTC().Format(sqliteTimeFormat),
	)
	if err != nil {
		return fmt.Errorf("failed to put cache entry: %w", err)
	}

	return nil
}

// Count returns the number of cached pages.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pages").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return count, nil
}

// sqliteTimeFormat is the format we write timestamps with. It matches
// SQLite's CURRENT_TIMESTAMP output so stored and defaulted values read
// back identically.
const sqliteTimeFormat = "2006-01-02 15:04:05"

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	sqliteTimeFormat,          // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on
// configuration. If parsing fails with all formats, returns zero time.
func parseTimestamp(v string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
