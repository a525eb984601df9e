package render

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// StripHTML extracts the visible text of an HTML fragment, collapsing whitespace.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return stripHTMLFallback(s)
	}

	var buf strings.Builder
	extractText(doc, &buf)
	return strings.TrimSpace(collapseWhitespace(buf.String()))
}

// Block elements separate their text from neighbours with a space.
var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "pre": true,
	"blockquote": true, "tr": true, "td": true, "th": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

func extractText(n *html.Node, buf *strings.Builder) {
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return
	}
	if n.Type == html.TextNode {
		buf.WriteString(n.Data)
	}
	if n.Type == html.ElementNode && blockElements[n.Data] {
		buf.WriteString(" ")
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractText(c, buf)
	}

	if n.Type == html.ElementNode && blockElements[n.Data] {
		buf.WriteString(" ")
	}
}

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

func stripHTMLFallback(s string) string {
	s = htmlTagRegex.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return strings.TrimSpace(collapseWhitespace(s))
}

var whitespaceRegex = regexp.MustCompile(`\s+`)

func collapseWhitespace(s string) string {
	return whitespaceRegex.ReplaceAllString(s, " ")
}
