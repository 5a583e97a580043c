package log

import (
	"context"
	"io"
	"log/slog"
	"unicode/utf8"
)

// DefaultMaxValueLen is the maximum length, in runes, of a logged string
// attribute value before it is truncated.
const DefaultMaxValueLen = 256

// TruncateMarker is appended to attribute values that were cut short.
const TruncateMarker = "...(truncated)"

// TruncateHandler wraps an slog.Handler and caps the length of string
// attribute values. Crawl logs quote remote content (URLs, page titles,
// response excerpts in error messages), and a single malformed page must
// not turn one log line into megabytes of output.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Components that accept *slog.Logger need no changes
type TruncateHandler struct {
	// handler is the underlying slog handler that receives shortened records.
	handler slog.Handler

	// maxLen is the maximum string value length in runes.
	maxLen int
}

// NewTruncateHandler creates a new TruncateHandler wrapping the given handler.
// String attribute values longer than maxLen runes are cut and suffixed with
// TruncateMarker before being passed on. If handler is nil, the returned
// TruncateHandler uses slog.Default().Handler(). If maxLen is zero or
// negative, DefaultMaxValueLen is used.
func NewTruncateHandler(handler slog.Handler, maxLen int) *TruncateHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	if maxLen <= 0 {
		maxLen = DefaultMaxValueLen
	}
	return &TruncateHandler{handler: handler, maxLen: maxLen}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *TruncateHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle shortens the record's attributes and passes it to the underlying handler.
func (h *TruncateHandler) Handle(ctx context.Context, r slog.Record) error {
	// Create a new record with shortened attributes
	shortened := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		shortened.AddAttrs(h.truncateAttr(a))
		return true
	})

	return h.handler.Handle(ctx, shortened)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are shortened before being added.
func (h *TruncateHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	shortenedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		shortenedAttrs[i] = h.truncateAttr(a)
	}
	return &TruncateHandler{handler: h.handler.WithAttrs(shortenedAttrs), maxLen: h.maxLen}
}

// WithGroup returns a new handler with the given group name.
func (h *TruncateHandler) WithGroup(name string) slog.Handler {
	return &TruncateHandler{handler: h.handler.WithGroup(name), maxLen: h.maxLen}
}

// truncateAttr shortens a single attribute, recursively handling groups.
func (h *TruncateHandler) truncateAttr(a slog.Attr) slog.Attr {
	// Handle groups recursively
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		shortenedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			shortenedAttrs[i] = h.truncateAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(shortenedAttrs...)}
	}

	if a.Value.Kind() == slog.KindString {
		if strVal := a.Value.String(); utf8.RuneCountInString(strVal) > h.maxLen {
			return slog.String(a.Key, truncate(strVal, h.maxLen))
		}
	}

	return a
}

// truncate cuts s to maxLen runes and appends TruncateMarker. The cut is
// made on a rune boundary so multibyte characters are never split.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + TruncateMarker
}

// NewLogger creates a new slog.Logger writing human-readable text output
// with truncation of oversized attribute values.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
//
// Returns a *slog.Logger that can be passed to components that accept
// *slog.Logger (fetcher, converter, crawler).
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	textHandler := slog.NewTextHandler(w, opts)
	truncateHandler := NewTruncateHandler(textHandler, DefaultMaxValueLen)

	return slog.New(truncateHandler)
}
