package extraction

import (
	"regexp"
	"strings"
)

var (
	htmlScriptRE = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	htmlBlockRE  = regexp.MustCompile(`(?i)</(p|div|li|h[1-6]|tr|section|article|blockquote)>|<br\s*/?>`)
	htmlTagRE    = regexp.MustCompile(`(?s)<[^>]*>`)

	mdCodeFenceRE = regexp.MustCompile("(?s)```.*?```")
	mdHeadingRE   = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	mdEmphasisRE  = regexp.MustCompile(`[*_]{1,3}([^*_]+)[*_]{1,3}`)
	mdLinkRE      = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
)

// stripHTML reduces an HTML document to plain text. Block-level close tags
// become paragraph breaks so the splitter keeps structural boundaries.
func stripHTML(markup string) string {
	text := htmlScriptRE.ReplaceAllString(markup, "")
	text = htmlBlockRE.ReplaceAllString(text, "\n\n")
	text = htmlTagRE.ReplaceAllString(text, " ")
	text = strings.NewReplacer("&nbsp;", " ", "&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&#39;", "'").Replace(text)
	return text
}

// stripMarkdown removes the markdown syntax that would otherwise pollute
// units: code fences, heading markers, emphasis, and link targets.
func stripMarkdown(markup string) string {
	text := mdCodeFenceRE.ReplaceAllString(markup, "")
	text = mdHeadingRE.ReplaceAllString(text, "")
	text = mdEmphasisRE.ReplaceAllString(text, "$1")
	text = mdLinkRE.ReplaceAllString(text, "$1")
	return text
}
