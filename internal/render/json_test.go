package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/docgrab/docgrab/internal/model"
)

// createTestReport creates a JSON report wrapper with sample data.
func createTestReport() *JSONReport {
	pages := createTestPages()
	skipped := []model.Skip{
		{URL: "https://docs.example.com/gone", Depth: 1, Reason: "permanent: status 404"},
	}
	summary := model.NewCrawlSummary("https://docs.example.com/guide/intro", pages, skipped)

	return NewJSONReport("1.2.3", summary, pages, skipped)
}

// TestJSONWriter tests the JSON report writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("outputs valid JSON", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)

		_, err := w.Write(createTestReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var parsed struct {
			Version string `json:"version"`
			Summary struct {
				PagesFetched int `json:"pages_fetched"`
				PagesSkipped int `json:"pages_skipped"`
			} `json:"summary"`
			Pages []struct {
				URL   string `json:"url"`
				Title string `json:"title"`
			} `json:"pages"`
			Skipped []struct {
				Reason string `json:"reason"`
			} `json:"skipped"`
		}
		if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}

		if parsed.Version != "1.2.3" {
			t.Errorf("expected version %q, got %q", "1.2.3", parsed.Version)
		}
		if parsed.Summary.PagesFetched != 2 {
			t.Errorf("expected 2 pages fetched, got %d", parsed.Summary.PagesFetched)
		}
		if parsed.Summary.PagesSkipped != 1 {
			t.Errorf("expected 1 page skipped, got %d", parsed.Summary.PagesSkipped)
		}
		if len(parsed.Pages) != 2 {
			t.Fatalf("expected 2 pages, got %d", len(parsed.Pages))
		}
		if parsed.Pages[0].Title != "Getting Started" {
			t.Errorf("expected first page title %q, got %q", "Getting Started", parsed.Pages[0].Title)
		}
		if len(parsed.Skipped) != 1 || !strings.Contains(parsed.Skipped[0].Reason, "404") {
			t.Errorf("expected one skip with a 404 reason, got %+v", parsed.Skipped)
		}
	})

	t.Run("compact output by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)

		n, err := w.Write(createTestReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if n != buf.Len() {
			t.Errorf("expected %d bytes written, got %d", buf.Len(), n)
		}

		// Compact JSON should be on one line.
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) > 1 {
			t.Errorf("expected compact output (1 line), got %d lines", len(lines))
		}
	})

	t.Run("pretty print with indent", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithPrettyPrint())

		_, err := w.Write(createTestReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) < 5 {
			t.Errorf("expected multi-line output, got %d lines", len(lines))
		}
	})

	t.Run("custom indent prefix", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithIndent("", "\t"))

		_, err := w.Write(createTestReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "\t\"version\"") {
			t.Error("expected tab-indented output")
		}
	})

	t.Run("WriteSummary outputs only the summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)

		summary := model.NewCrawlSummary("https://docs.example.com", createTestPages(), nil)
		_, err := w.WriteSummary(summary)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var parsed model.CrawlSummary
		if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}

		if parsed.PagesFetched != 2 {
			t.Errorf("expected 2 pages fetched, got %d", parsed.PagesFetched)
		}
		if strings.Contains(buf.String(), "\"pages\":") {
			t.Error("expected summary output to omit full pages")
		}
	})

	t.Run("output ends with newline", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)

		_, err := w.Write(createTestReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.HasSuffix(buf.String(), "\n") {
			t.Error("expected output to end with a newline")
		}
	})
}
