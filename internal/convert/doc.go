// Package convert turns raw HTML into a structural model.Document.
//
// Conversion is pure and total: the same bytes and base URL always
// produce the same Document, and no input returns an error. Structure
// the converter does not understand degrades to plain text instead of
// failing, so a crawl never loses a page to odd markup.
//
// The converter walks the page's content root in pre-order and
// dispatches on a closed set of element roles (headings, paragraphs,
// code listings, lists, tables, callouts, images, links, containers).
// Navigation chrome is pruned before the walk so the Document holds
// only content.
//
// Design decision: We parse with goquery over golang.org/x/net/html
// because:
//  1. Selector-based root selection and pruning stays readable
//  2. The html5 parser recovers from the malformed markup real
//     documentation sites serve
//  3. The underlying *html.Node tree remains available for the
//     role-dispatch walk
package convert
