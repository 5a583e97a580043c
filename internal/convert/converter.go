package convert

import (
	"bytes"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/docgrab/docgrab/internal/model"
)

// noiseSelector matches elements that never carry content.
const noiseSelector = "script, style, nav, footer, header, aside"

// chromeSelector matches site chrome identified by class or role.
const chromeSelector = ".breadcrumb, .sidebar, .toc, .navigation, [role='navigation']"

// defaultContentSelectors are tried in order to find the content root.
// The document body is the fallback when none match.
var defaultContentSelectors = []string{"main", "article", ".content"}

// defaultCodeLanguages are class tokens accepted as a language hint on
// code listings even without a "language-" prefix.
var defaultCodeLanguages = []string{"cpp", "c++", "python", "blueprint", "ini", "json"}

// Converter turns HTML bodies into Documents. One Converter serves one
// site: it carries the base URL for link resolution and the site's
// title and selector conventions.
type Converter struct {
	// base resolves relative link and image targets.
	base *url.URL

	// titleTrimSuffix is removed from the end of extracted titles.
	titleTrimSuffix string

	// contentSelectors are tried in order to locate the content root.
	contentSelectors []string

	// codeLanguages maps accepted bare language class tokens.
	codeLanguages map[string]bool

	// logger records degradations at debug level.
	logger *slog.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithTitleTrimSuffix removes a site-wide suffix from page titles,
// such as " | Unreal Engine Documentation".
func WithTitleTrimSuffix(suffix string) Option {
	return func(c *Converter) {
		c.titleTrimSuffix = suffix
	}
}

// WithContentSelectors overrides the selectors tried when locating the
// content root. The document body remains the fallback.
func WithContentSelectors(selectors []string) Option {
	return func(c *Converter) {
		if len(selectors) > 0 {
			c.contentSelectors = selectors
		}
	}
}

// WithCodeLanguages adds bare class tokens accepted as code language
// hints, on top of the built-in set.
func WithCodeLanguages(languages []string) Option {
	return func(c *Converter) {
		for _, lang := range languages {
			c.codeLanguages[strings.ToLower(lang)] = true
		}
	}
}

// WithLogger sets the logger for degradation diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) {
		c.logger = logger
	}
}

// New creates a Converter for pages fetched from baseURL.
func New(baseURL string, opts ...Option) (*Converter, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	c := &Converter{
		base:             base,
		contentSelectors: defaultContentSelectors,
		codeLanguages:    make(map[string]bool, len(defaultCodeLanguages)),
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, lang := range defaultCodeLanguages {
		c.codeLanguages[lang] = true
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Result is the outcome of converting one page.
type Result struct {
	// Title is the extracted page title, never empty.
	Title string

	// Document is the structural content. Empty when the page had none.
	Document model.Document
}

// Convert extracts the title and structural content from an HTML body.
// It never fails: unparseable input yields an empty Document and the
// default title.
func (c *Converter) Convert(body []byte) *Result {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		c.logger.Debug("html parse failed, emitting empty document", "error", err)
		return &Result{Title: model.DefaultTitle}
	}

	// Title comes first: pruning below may remove the header that
	// holds the h1.
	title := c.extractTitle(doc)

	root := c.contentRoot(doc)
	root.Find(noiseSelector).Remove()
	root.Find(chromeSelector).Remove()

	var blocks []model.Block
	for _, n := range root.Nodes {
		c.processNode(n, &blocks)
	}

	return &Result{
		Title:    title,
		Document: model.Document{Blocks: mergePlainText(blocks)},
	}
}

// extractTitle picks the first h1, then the <title> tag, then the
// default, and trims the configured site suffix.
func (c *Converter) extractTitle(doc *goquery.Document) string {
	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	if c.titleTrimSuffix != "" {
		title = strings.TrimSpace(strings.TrimSuffix(title, c.titleTrimSuffix))
	}
	if title == "" {
		return model.DefaultTitle
	}
	return title
}

// contentRoot locates the element the walk starts from.
func (c *Converter) contentRoot(doc *goquery.Document) *goquery.Selection {
	for _, selector := range c.contentSelectors {
		if s := doc.Find(selector).First(); s.Length() > 0 {
			return s
		}
	}
	if body := doc.Find("body").First(); body.Length() > 0 {
		return body
	}
	return doc.Selection
}

// processNode dispatches one node to its block rule. The role set is
// closed: every element is either a known block, a known container, or
// a leaf that degrades to plain text.
func (c *Converter) processNode(n *html.Node, blocks *[]model.Block) {
	switch n.Type {
	case html.TextNode:
		if text := strings.TrimSpace(n.Data); text != "" {
			*blocks = append(*blocks, model.PlainText{Text: text})
		}
		return
	case html.DocumentNode:
		c.processChildren(n, blocks)
		return
	case html.ElementNode:
		// Dispatched below
	default:
		// Comments, doctypes
		return
	}

	switch n.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level := int(n.Data[1] - '0')
		if spans := c.inlineSpans(n); len(spans) > 0 {
			*blocks = append(*blocks, model.Heading{Level: level, Text: spans})
		}

	case "p":
		if spans := c.inlineSpans(n); len(spans) > 0 {
			*blocks = append(*blocks, model.Paragraph{Text: spans})
		}

	case "pre":
		code := strings.Trim(nodeText(n), "\n")
		if code != "" {
			*blocks = append(*blocks, model.CodeBlock{
				Language: c.codeLanguage(n),
				Code:     code,
			})
		}

	case "code":
		// Inline code standing alone outside a listing
		if text := strings.TrimSpace(nodeText(n)); text != "" {
			*blocks = append(*blocks, model.Paragraph{
				Text: []model.Span{{Kind: model.SpanCode, Text: text}},
			})
		}

	case "ul", "ol":
		if items := c.listItems(n); len(items) > 0 {
			*blocks = append(*blocks, model.List{
				Ordered: n.Data == "ol",
				Items:   items,
			})
		}

	case "table":
		if table, ok := convertTable(n); ok {
			*blocks = append(*blocks, table)
		}

	case "blockquote":
		if lines := quoteLines(n); len(lines) > 0 {
			*blocks = append(*blocks, model.Blockquote{Lines: lines})
		}

	case "a":
		href := c.resolve(getAttr(n, "href"))
		text := strings.TrimSpace(nodeText(n))
		switch {
		case href != "" && text != "":
			*blocks = append(*blocks, model.LinkRef{Text: text, URL: href})
		case text != "":
			// An anchor without a destination still carries its text
			*blocks = append(*blocks, model.PlainText{Text: text})
		}

	case "img":
		if src := getAttr(n, "src"); src != "" {
			alt := "Image"
			if v, ok := lookupAttr(n, "alt"); ok {
				alt = strings.TrimSpace(v)
			}
			*blocks = append(*blocks, model.ImageRef{Alt: alt, URL: c.resolve(src)})
		}

	case "div":
		if hasClassToken(n, "callout") {
			if lines := quoteLines(n); len(lines) > 0 {
				*blocks = append(*blocks, model.Blockquote{Lines: lines})
			}
			return
		}
		c.processChildren(n, blocks)

	case "section", "article", "main", "span", "body":
		c.processChildren(n, blocks)

	default:
		// Unknown structure degrades to its text
		if text := strings.TrimSpace(nodeText(n)); text != "" {
			*blocks = append(*blocks, model.PlainText{Text: text})
		}
	}
}

// processChildren recurses into each child of a container node.
func (c *Converter) processChildren(n *html.Node, blocks *[]model.Block) {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.processNode(child, blocks)
	}
}

// listItems collects the inline content of each direct li child.
// Nested lists inside an item contribute their text to that item;
// the Document's list structure stays flat.
func (c *Converter) listItems(n *html.Node) [][]model.Span {
	var items [][]model.Span
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode || child.Data != "li" {
			continue
		}
		if spans := c.inlineSpans(child); len(spans) > 0 {
			items = append(items, spans)
		}
	}
	return items
}

// codeLanguage inspects a listing's code child for a language hint:
// either a "language-" prefixed class or a bare token from the
// accepted set.
func (c *Converter) codeLanguage(pre *html.Node) string {
	code := findElement(pre, "code")
	if code == nil {
		return ""
	}

	for _, class := range strings.Fields(getAttr(code, "class")) {
		if lang, ok := strings.CutPrefix(class, "language-"); ok {
			return lang
		}
		if c.codeLanguages[strings.ToLower(class)] {
			return strings.ToLower(class)
		}
	}
	return ""
}

// convertTable reads the first row as headers and the rest as data
// rows. Rows without cells are skipped; ragged rows are kept verbatim.
func convertTable(n *html.Node) (model.Table, bool) {
	rows := findElements(n, "tr")
	if len(rows) == 0 {
		return model.Table{}, false
	}

	table := model.Table{Headers: cellTexts(rows[0])}
	for _, row := range rows[1:] {
		if cells := cellTexts(row); len(cells) > 0 {
			table.Rows = append(table.Rows, cells)
		}
	}

	if len(table.Headers) == 0 && len(table.Rows) == 0 {
		return model.Table{}, false
	}
	return table, true
}

// cellTexts returns the trimmed text of each th and td in a row.
func cellTexts(row *html.Node) []string {
	var cells []string
	for _, cell := range findElements(row, "th", "td") {
		cells = append(cells, strings.TrimSpace(nodeText(cell)))
	}
	return cells
}

// quoteLines splits a quote's text into trimmed non-empty lines.
func quoteLines(n *html.Node) []string {
	var lines []string
	for _, line := range strings.Split(nodeText(n), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// mergePlainText joins runs of consecutive PlainText blocks with a
// newline, the structural equivalent of collapsing blank-line runs in
// rendered output.
func mergePlainText(blocks []model.Block) []model.Block {
	out := make([]model.Block, 0, len(blocks))
	for _, b := range blocks {
		pt, ok := b.(model.PlainText)
		if ok && len(out) > 0 {
			if prev, isPT := out[len(out)-1].(model.PlainText); isPT {
				prev.Text += "\n" + pt.Text
				out[len(out)-1] = prev
				continue
			}
		}
		out = append(out, b)
	}
	return out
}
