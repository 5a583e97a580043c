package render

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"gopkg.in/yaml.v3"

	"github.com/docgrab/docgrab/internal/model"
)

var (
	// slugStripRe removes everything that is not a word character,
	// whitespace, or a hyphen. Unicode classes match how titles in
	// non-English documentation keep their letters.
	slugStripRe = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)

	// slugSpaceRe collapses whitespace runs into a single separator.
	slugSpaceRe = regexp.MustCompile(`\s+`)

	// blankRunRe matches runs of three or more newlines.
	blankRunRe = regexp.MustCompile(`\n{3,}`)
)

// MarkdownWriter outputs crawl results in Markdown format.
// This format is designed for documentation and offline reading.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// WritePage outputs one page as a standalone markdown document.
func (w *MarkdownWriter) WritePage(page *model.Page) (int, error) {
	content, err := PageMarkdown(page)
	if err != nil {
		return 0, err
	}
	return io.WriteString(w.output, content)
}

// WriteCombined outputs all pages as one combined document with a
// table of contents.
func (w *MarkdownWriter) WriteCombined(title string, pages []*model.Page) (int, error) {
	content, err := CombinedMarkdown(title, pages)
	if err != nil {
		return 0, err
	}
	return io.WriteString(w.output, content)
}

// WriteContext outputs all pages as one condensed reference document.
func (w *MarkdownWriter) WriteContext(title string, pages []*model.Page) (int, error) {
	return io.WriteString(w.output, ContextMarkdown(title, pages))
}

// Slug derives a filename- and anchor-safe identifier from a title:
// punctuation removed, whitespace replaced by hyphens, lowercased.
func Slug(title string) string {
	slug := slugStripRe.ReplaceAllString(title, "")
	slug = slugSpaceRe.ReplaceAllString(strings.TrimSpace(slug), "-")
	slug = strings.ToLower(slug)
	if slug == "" {
		return "untitled"
	}
	return slug
}

// pageFrontmatter is the YAML header of a per-page file.
type pageFrontmatter struct {
	Title     string    `yaml:"title"`
	Source    string    `yaml:"source"`
	FetchedAt time.Time `yaml:"fetched_at"`
}

// combinedFrontmatter is the YAML header of the combined file.
type combinedFrontmatter struct {
	Title       string    `yaml:"title"`
	GeneratedAt time.Time `yaml:"generated_at"`
	PageCount   int       `yaml:"page_count"`
}

// PageMarkdown renders one page as a standalone markdown file with a
// YAML frontmatter header.
func PageMarkdown(page *model.Page) (string, error) {
	header, err := frontmatter(pageFrontmatter{
		Title:     page.Title,
		Source:    page.URL,
		FetchedAt: page.FetchedAt.UTC(),
	})
	if err != nil {
		return "", err
	}

	md := markdown.NewMarkdown(io.Discard)
	md.H1(page.Title)
	md.PlainText("")
	renderDocument(md, page.Document, true)

	return header + "\n" + collapseBlankLines(md.String()) + "\n", nil
}

// CombinedMarkdown renders all pages as one document: frontmatter, a
// table of contents, then one anchored section per page.
func CombinedMarkdown(title string, pages []*model.Page) (string, error) {
	header, err := frontmatter(combinedFrontmatter{
		Title:       title,
		GeneratedAt: time.Now().UTC(),
		PageCount:   len(pages),
	})
	if err != nil {
		return "", err
	}

	md := markdown.NewMarkdown(io.Discard)

	md.H1("Table of Contents")
	md.PlainText("")
	for i, page := range pages {
		md.PlainTextf("%d. %s", i+1, markdown.Link(page.Title, "#"+Slug(page.Title)))
	}

	for _, page := range pages {
		md.PlainText("")
		md.HorizontalRule()
		md.PlainText("")
		md.PlainTextf(`<a name=%q></a>`, Slug(page.Title))
		md.PlainText("")
		md.H1(page.Title)
		md.PlainText("")
		md.PlainText(markdown.Bold("Source:") + " " + page.URL)
		md.PlainText("")
		renderDocument(md, page.Document, true)
	}

	return header + "\n" + collapseBlankLines(md.String()) + "\n", nil
}

// ContextMarkdown renders all pages as one condensed reference file:
// images are dropped and blank runs collapsed, trading completeness for
// size.
func ContextMarkdown(title string, pages []*model.Page) string {
	md := markdown.NewMarkdown(io.Discard)

	md.H1(title)
	md.PlainText("")
	md.PlainText("This file contains crawled documentation condensed for offline reference.")
	md.PlainTextf("Generated: %s", time.Now().UTC().Format(time.RFC3339))
	md.PlainTextf("Pages: %d", len(pages))
	md.PlainText("")

	for _, page := range pages {
		md.HorizontalRule()
		md.PlainText("")
		md.H2(page.Title)
		md.PlainText("")
		renderDocument(md, page.Document, false)
	}

	return collapseBlankLines(md.String()) + "\n"
}

// frontmatter marshals a header struct into a fenced YAML block.
func frontmatter(v interface{}) (string, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal frontmatter: %w", err)
	}
	return "---\n" + string(data) + "---\n", nil
}

// renderDocument appends every block of a document to the builder.
func renderDocument(md *markdown.Markdown, doc model.Document, withImages bool) {
	for _, block := range doc.Blocks {
		renderBlock(md, block, withImages)
	}
}

// renderBlock appends one block and a separating blank line.
func renderBlock(md *markdown.Markdown, block model.Block, withImages bool) {
	switch b := block.(type) {
	case model.Heading:
		renderHeading(md, b)

	case model.Paragraph:
		md.PlainText(renderSpans(b.Text))

	case model.CodeBlock:
		md.CodeBlocks(markdown.SyntaxHighlight(b.Language), b.Code)

	case model.List:
		items := make([]string, 0, len(b.Items))
		for _, item := range b.Items {
			items = append(items, renderSpans(item))
		}
		if b.Ordered {
			md.OrderedList(items...)
		} else {
			md.BulletList(items...)
		}

	case model.Table:
		// CustomTable keeps header text verbatim; Table would
		// auto-format it.
		headers, rows := rectangular(b)
		md.CustomTable(markdown.TableSet{Header: headers, Rows: rows},
			markdown.TableOptions{AutoWrapText: false, AutoFormatHeaders: false})

	case model.Blockquote:
		md.Blockquote(strings.Join(b.Lines, "\n"))

	case model.ImageRef:
		if !withImages {
			return
		}
		md.PlainText(markdown.Image(b.Alt, b.URL))

	case model.LinkRef:
		md.PlainText(markdown.Link(b.Text, b.URL))

	case model.PlainText:
		md.PlainText(b.Text)
	}

	md.PlainText("")
}

// renderHeading maps a heading level to the builder call, clamping
// out-of-range levels.
func renderHeading(md *markdown.Markdown, h model.Heading) {
	text := renderSpans(h.Text)
	switch {
	case h.Level <= 1:
		md.H1(text)
	case h.Level == 2:
		md.H2(text)
	case h.Level == 3:
		md.H3(text)
	case h.Level == 4:
		md.H4(text)
	case h.Level == 5:
		md.H5(text)
	default:
		md.H6(text)
	}
}

// renderSpans assembles inline spans into one markdown string.
func renderSpans(spans []model.Span) string {
	var sb strings.Builder
	for _, s := range spans {
		switch s.Kind {
		case model.SpanBold:
			sb.WriteString(markdown.Bold(s.Text))
		case model.SpanItalic:
			sb.WriteString(markdown.Italic(s.Text))
		case model.SpanCode:
			sb.WriteString(markdown.Code(s.Text))
		case model.SpanLink:
			sb.WriteString(markdown.Link(s.Text, s.Href))
		default:
			sb.WriteString(s.Text)
		}
	}
	return sb.String()
}

// rectangular pads a possibly ragged table so every row matches the
// widest row. The model keeps rows verbatim; markdown requires a
// rectangle.
func rectangular(t model.Table) ([]string, [][]string) {
	width := len(t.Headers)
	for _, row := range t.Rows {
		if len(row) > width {
			width = len(row)
		}
	}

	headers := padRow(t.Headers, width)
	rows := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		rows = append(rows, padRow(row, width))
	}
	return headers, rows
}

// padRow extends a row with empty cells up to width.
func padRow(row []string, width int) []string {
	if len(row) >= width {
		return row
	}
	padded := make([]string, width)
	copy(padded, row)
	return padded
}

// collapseBlankLines reduces runs of blank lines to a single blank line
// and trims the outer whitespace.
func collapseBlankLines(s string) string {
	return strings.TrimSpace(blankRunRe.ReplaceAllString(s, "\n\n"))
}
