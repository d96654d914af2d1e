package security

import (
	"net/url"

	"github.com/microcosm-cc/bluemonday"
)

// RichTextSanitizerService sanitizes the long-form HTML fields edited in the
// admin dashboard (reference long descriptions, the founder bio). An
// allowlist-based bluemonday policy keeps basic formatting and drops script,
// iframe, style and all on* event attributes.
type RichTextSanitizerService interface {
	// Sanitize returns safe HTML. Empty input yields empty output, and the
	// function is idempotent.
	Sanitize(rawHTML string) string
}

// richTextSanitizer implements RichTextSanitizerService over a bluemonday
// policy built once at construction and safe for concurrent use.
type richTextSanitizer struct {
	policy *bluemonday.Policy
}

// NewRichTextSanitizer returns a RichTextSanitizerService.
// Policy:
//   - allowed tags: p, br, ul, ol, li, blockquote, strong, em, h3, h4
//   - links: href only, absolute URLs, target="_blank" and
//     rel="noopener noreferrer" forced
//   - everything else, including on* attributes, is removed
func NewRichTextSanitizer() *richTextSanitizer {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"p", "br", "ul", "ol", "li",
		"blockquote", "strong", "em",
		"h3", "h4",
	)

	p.AllowAttrs("href").OnElements("a")
	p.AllowRelativeURLs(false)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnLinks(true)
	p.AllowURLSchemeWithCustomPolicy("https", func(u *url.URL) bool {
		return true
	})

	return &richTextSanitizer{policy: p}
}

// Sanitize returns safe HTML.
func (s *richTextSanitizer) Sanitize(rawHTML string) string {
	return s.policy.Sanitize(rawHTML)
}
