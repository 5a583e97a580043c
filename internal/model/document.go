package model

import (
	"encoding/json"
	"strings"
)

// Document is the ordered structural content of one page.
// Block order follows a pre-order traversal of the page's content root,
// so reading the blocks top to bottom reads the page top to bottom.
// An empty Document is valid.
type Document struct {
	Blocks []Block `json:"blocks"`
}

// Block is one structural element of a Document.
//
// Design decision: The implementation set is closed (sealed by an
// unexported method) because:
// 1. Converter and renderer switch over the concrete types; a variant
//    neither knows about is a bug, not an extension point
// 2. Consumers can rely on the JSON "type" discriminator being one of
//    a fixed set
// 3. New variants force a compile-visible decision at every switch
type Block interface {
	// Kind returns the discriminator emitted in JSON output.
	Kind() BlockKind

	sealed()
}

// BlockKind identifies the concrete type of a Block in JSON output.
type BlockKind string

// Block kinds, one per variant.
const (
	KindHeading    BlockKind = "heading"
	KindParagraph  BlockKind = "paragraph"
	KindCodeBlock  BlockKind = "code_block"
	KindList       BlockKind = "list"
	KindTable      BlockKind = "table"
	KindBlockquote BlockKind = "blockquote"
	KindImageRef   BlockKind = "image_ref"
	KindLinkRef    BlockKind = "link_ref"
	KindPlainText  BlockKind = "plain_text"
)

// SpanKind identifies the inline role of a Span.
type SpanKind string

// Span kinds.
const (
	SpanText   SpanKind = "text"
	SpanBold   SpanKind = "bold"
	SpanItalic SpanKind = "italic"
	SpanCode   SpanKind = "code"
	SpanLink   SpanKind = "link"
)

// Span is an inline run of text within a heading, paragraph, or list item.
type Span struct {
	// Kind is the inline role of this run.
	Kind SpanKind `json:"kind"`

	// Text is the run's text content.
	Text string `json:"text"`

	// Href is the resolved absolute link target. Set only for SpanLink.
	Href string `json:"href,omitempty"`
}

// Heading is a section heading, h1 through h6.
type Heading struct {
	// Level is the heading level, 1 through 6.
	Level int `json:"level"`

	// Text is the heading's inline content.
	Text []Span `json:"text"`
}

// Paragraph is a run of inline content.
type Paragraph struct {
	Text []Span `json:"text"`
}

// CodeBlock is a preformatted code listing.
type CodeBlock struct {
	// Language is the detected language hint, or "" when unknown.
	Language string `json:"language,omitempty"`

	// Code is the verbatim listing with internal whitespace preserved.
	Code string `json:"code"`
}

// List is a flat bulleted or numbered list.
// Nested lists are flattened into their parent item's text; the
// Document schema deliberately has no recursive list structure.
type List struct {
	// Ordered is true for numbered lists.
	Ordered bool `json:"ordered"`

	// Items holds one inline-content slice per list item.
	Items [][]Span `json:"items"`
}

// Table is a rectangular-ish data table. Rows are preserved exactly as
// found: a row may have more or fewer cells than there are headers.
type Table struct {
	// Headers are the cells of the first table row.
	Headers []string `json:"headers"`

	// Rows are the remaining rows. Ragged rows are kept verbatim.
	Rows [][]string `json:"rows"`
}

// Blockquote is a quoted or called-out passage, one entry per
// non-empty line.
type Blockquote struct {
	Lines []string `json:"lines"`
}

// ImageRef records an image reference. The image bytes are never
// fetched; only the resolved URL and alternate text are kept.
type ImageRef struct {
	// Alt is the image's alternate text. A missing alt attribute is
	// recorded as "Image"; an explicitly empty alt stays empty.
	Alt string `json:"alt"`

	// URL is the resolved image source.
	URL string `json:"url"`
}

// LinkRef is a standalone link that is not part of a paragraph.
type LinkRef struct {
	// Text is the link's visible text.
	Text string `json:"text"`

	// URL is the resolved link target.
	URL string `json:"url"`
}

// PlainText is loose text that belongs to no richer structure.
type PlainText struct {
	Text string `json:"text"`
}

// Kind implementations, one per variant.

func (Heading) Kind() BlockKind    { return KindHeading }
func (Paragraph) Kind() BlockKind  { return KindParagraph }
func (CodeBlock) Kind() BlockKind  { return KindCodeBlock }
func (List) Kind() BlockKind       { return KindList }
func (Table) Kind() BlockKind      { return KindTable }
func (Blockquote) Kind() BlockKind { return KindBlockquote }
func (ImageRef) Kind() BlockKind   { return KindImageRef }
func (LinkRef) Kind() BlockKind    { return KindLinkRef }
func (PlainText) Kind() BlockKind  { return KindPlainText }

func (Heading) sealed()    {}
func (Paragraph) sealed()  {}
func (CodeBlock) sealed()  {}
func (List) sealed()       {}
func (Table) sealed()      {}
func (Blockquote) sealed() {}
func (ImageRef) sealed()   {}
func (LinkRef) sealed()    {}
func (PlainText) sealed()  {}

// MarshalJSON emits each block as an object carrying a "type"
// discriminator alongside the variant's own fields, so consumers can
// decode the closed set without guessing at shapes.
func (d Document) MarshalJSON() ([]byte, error) {
	blocks := make([]json.RawMessage, 0, len(d.Blocks))
	for _, b := range d.Blocks {
		raw, err := marshalBlock(b)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, raw)
	}

	return json.Marshal(struct {
		Blocks []json.RawMessage `json:"blocks"`
	}{Blocks: blocks})
}

// marshalBlock tags a block's JSON object with its kind.
func marshalBlock(b Block) (json.RawMessage, error) {
	payload, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}

	var fields map[string]any
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, err
	}
	fields["type"] = b.Kind()

	return json.Marshal(fields)
}

// SpansText joins a span slice into plain text with no separators,
// matching how the spans were cut from the source.
func SpansText(spans []Span) string {
	var sb strings.Builder
	for _, s := range spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// IsEmpty reports whether the document holds no blocks.
func (d Document) IsEmpty() bool {
	return len(d.Blocks) == 0
}
