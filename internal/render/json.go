package render

import (
	"encoding/json"
	"io"

	"github.com/docgrab/docgrab/internal/model"
)

// JSONWriter outputs crawl results in JSON format.
// This format is designed for tool integration and programmatic processing.
//
// Design decision: We use standard encoding/json rather than a third-party
// JSON library because:
// 1. It's part of the standard library (no extra dependencies)
// 2. It's sufficient for our needs
// 3. It provides consistent behavior across Go versions
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = ""
		w.indentString = "  "
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter:   newBaseWriter(output),
		indent:       false,
		indentPrefix: "",
		indentString: "",
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full crawl report in JSON format.
func (w *JSONWriter) Write(report *JSONReport) (int, error) {
	return w.writeJSON(report)
}

// WriteSummary outputs only the crawl summary in JSON format.
// This is useful for quick status checks without full page contents.
func (w *JSONWriter) WriteSummary(summary *model.CrawlSummary) (int, error) {
	return w.writeJSON(summary)
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v interface{}) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}

// JSONReport is the full crawl result with metadata for tool consumption.
//
// Design decision: We wrap the crawl output rather than serializing the
// page slice directly because this allows us to add output-specific
// fields without polluting the core data structures.
type JSONReport struct {
	// Version is the docgrab version that generated this report.
	Version string `json:"version"`

	// Summary is the session overview for quick access.
	Summary *model.CrawlSummary `json:"summary"`

	// Pages holds every successfully converted page.
	Pages []*model.Page `json:"pages"`

	// Skipped holds every visited URL that produced no page.
	Skipped []model.Skip `json:"skipped,omitempty"`
}

// NewJSONReport creates a JSONReport wrapper with version information.
func NewJSONReport(version string, summary *model.CrawlSummary, pages []*model.Page, skipped []model.Skip) *JSONReport {
	return &JSONReport{
		Version: version,
		Summary: summary,
		Pages:   pages,
		Skipped: skipped,
	}
}
