// Package security provides the sanitization and URL-vetting services used
// around admin-supplied content.
package security

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// PlainTextSanitizerService flattens inline-edit drafts to plain text.
// Inline texts render as text only; stripping markup at save time is the XSS
// guard, not a formatting feature.
type PlainTextSanitizerService interface {
	// Sanitize strips all markup from the draft and returns plain text with
	// whitespace runs collapsed. Same input, same output.
	Sanitize(draft string) string
}

// plainTextSanitizer implements PlainTextSanitizerService on x/net/html:
// the draft is parsed as a fragment and only text nodes survive, so pasted
// rich content degrades to its visible text.
type plainTextSanitizer struct{}

// NewPlainTextSanitizer returns a PlainTextSanitizerService.
func NewPlainTextSanitizer() *plainTextSanitizer {
	return &plainTextSanitizer{}
}

// droppedSubtrees are elements whose text content is code, not prose, and is
// dropped entirely rather than flattened.
var droppedSubtrees = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Iframe:   true,
	atom.Noscript: true,
	atom.Object:   true,
	atom.Template: true,
}

// Sanitize strips all markup from the draft.
func (s *plainTextSanitizer) Sanitize(draft string) string {
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(draft), ctx)
	if err != nil {
		// The html5 parser does not fail on malformed input; an error here
		// means an unreadable draft, and nothing of it is kept.
		return ""
	}

	var b strings.Builder
	for _, n := range nodes {
		collectText(n, &b)
	}
	return collapseWhitespace(b.String())
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode && droppedSubtrees[n.DataAtom] {
		return
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
