// Package log provides slog-based logging for docgrab with automatic
// truncation of oversized attribute values.
//
// This package extends slog to provide:
//   - Truncation of long attribute values (URLs, titles, response excerpts)
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//
// # Truncation
//
// The TruncateHandler caps every string attribute value at a fixed number
// of runes before the record reaches the underlying handler. Crawl logs
// quote remote content, and a single malformed page can otherwise flood
// the terminal with a megabyte-long log line. The cut is made on rune
// boundaries, so multibyte characters are never split.
//
// # Usage
//
//	// Create a logger
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//
//	// Use as a standard slog.Logger
//	logger.Debug("page fetched",
//	    "url", page.URL,
//	    "title", page.Title, // truncated past 256 runes
//	)
//
// Loggers are passed to components explicitly; nothing in docgrab relies
// on the slog default logger.
package log
