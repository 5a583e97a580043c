package convert

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/docgrab/docgrab/internal/model"
	"github.com/docgrab/docgrab/internal/urlutil"
)

// inlineSpans converts the direct children of a paragraph-like element
// into spans. The assembled list has its outer whitespace trimmed;
// whitespace between spans is preserved so words do not fuse.
func (c *Converter) inlineSpans(n *html.Node) []model.Span {
	var spans []model.Span
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if span, ok := c.inlineSpan(child); ok {
			spans = append(spans, span)
		}
	}
	return trimSpans(spans)
}

// inlineSpan maps one child node to its span. Elements with no inline
// role contribute their subtree text as a plain span, so nested
// structure flattens instead of vanishing.
func (c *Converter) inlineSpan(n *html.Node) (model.Span, bool) {
	if n.Type == html.TextNode {
		return model.Span{Kind: model.SpanText, Text: n.Data}, true
	}
	if n.Type != html.ElementNode {
		return model.Span{}, false
	}

	switch n.Data {
	case "b", "strong":
		return model.Span{Kind: model.SpanBold, Text: nodeText(n)}, true
	case "i", "em":
		return model.Span{Kind: model.SpanItalic, Text: nodeText(n)}, true
	case "code":
		return model.Span{Kind: model.SpanCode, Text: nodeText(n)}, true
	case "a":
		text := nodeText(n)
		href := c.resolve(getAttr(n, "href"))
		if href == "" {
			// Destination-less anchors keep their text
			return model.Span{Kind: model.SpanText, Text: text}, true
		}
		return model.Span{Kind: model.SpanLink, Text: text, Href: href}, true
	default:
		return model.Span{Kind: model.SpanText, Text: nodeText(n)}, true
	}
}

// trimSpans drops empty spans, then trims whitespace from the list's
// outer ends. Interior whitespace-only spans survive; they separate
// words between styled runs.
func trimSpans(spans []model.Span) []model.Span {
	out := make([]model.Span, 0, len(spans))
	for _, s := range spans {
		if s.Text != "" {
			out = append(out, s)
		}
	}

	for len(out) > 0 {
		out[0].Text = strings.TrimLeft(out[0].Text, " \t\r\n")
		if out[0].Text != "" {
			break
		}
		out = out[1:]
	}
	for len(out) > 0 {
		last := len(out) - 1
		out[last].Text = strings.TrimRight(out[last].Text, " \t\r\n")
		if out[last].Text != "" {
			break
		}
		out = out[:last]
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

// resolve makes href absolute against the converter's base URL.
func (c *Converter) resolve(href string) string {
	return urlutil.Resolve(c.base, href)
}

// nodeText returns the concatenated text of n's subtree, matching how
// a DOM textContent read would see it.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return sb.String()
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// lookupAttr retrieves an attribute and whether it was present, for
// attributes where absence and emptiness mean different things.
func lookupAttr(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

// hasClassToken reports whether the node's class list contains token.
func hasClassToken(n *html.Node, token string) bool {
	for _, class := range strings.Fields(getAttr(n, "class")) {
		if class == token {
			return true
		}
	}
	return false
}

// findElement returns the first descendant element with the given name,
// in document order, or nil.
func findElement(n *html.Node, name string) *html.Node {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && child.Data == name {
			return child
		}
		if found := findElement(child, name); found != nil {
			return found
		}
	}
	return nil
}

// findElements returns all descendant elements matching any of the
// given names, in document order.
func findElements(n *html.Node, names ...string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == html.ElementNode {
				for _, name := range names {
					if child.Data == name {
						out = append(out, child)
						break
					}
				}
			}
			walk(child)
		}
	}
	walk(n)
	return out
}
