package crawler

import (
	"bytes"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/docgrab/docgrab/internal/urlutil"
)

// ExtractLinks walks the anchors of an HTML body and returns the
// normalized crawl candidates, in first-occurrence order.
//
// Design decision: We use golang.org/x/net/html for parsing rather than
// regex because:
//  1. It correctly handles malformed HTML common on the web
//  2. Provides a proper DOM-like structure
//  3. More maintainable than complex regex patterns
//
// Relative hrefs are resolved against base. Links outside allowedPrefix
// are dropped, as are non-HTTP schemes and href values that never name
// a page (javascript:, mailto:, tel:, data:, bare fragments). The
// returned URLs have fragments and query strings stripped, so the same
// page never appears twice.
func ExtractLinks(body []byte, base *url.URL, allowedPrefix string) []string {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	links := make([]string, 0)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if link, ok := candidate(base, getAttr(n, "href"), allowedPrefix); ok && !seen[link] {
				seen[link] = true
				links = append(links, link)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links
}

// candidate resolves one href and reports whether it is crawlable.
func candidate(base *url.URL, href, allowedPrefix string) (string, bool) {
	resolved := urlutil.Resolve(base, href)
	if resolved == "" {
		return "", false
	}

	if !strings.HasPrefix(resolved, "http://") && !strings.HasPrefix(resolved, "https://") {
		return "", false
	}

	normalized := urlutil.Normalize(resolved)
	if !urlutil.InScope(normalized, allowedPrefix) {
		return "", false
	}
	return normalized, true
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
