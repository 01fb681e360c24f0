// Package ingest turns reference material (plain files, HTML pages, inline
// text) into the document strings the validation pipeline consumes.
package ingest

import (
	"strings"

	"golang.org/x/net/html"
)

// Elements whose text never belongs in a reference document
var skipElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"iframe":   true,
}

// Elements that end a block of prose. Keeping these boundaries as newlines
// preserves paragraph structure for the decomposition prompt.
var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "section": true, "article": true, "table": true,
}

// StripHTML reduces markup to its visible text, skipping scripts and
// styles. Input that does not parse as HTML is returned unchanged.
func StripHTML(content string) string {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return content
	}

	var b strings.Builder
	var last byte

	write := func(s string) {
		if s == "" {
			return
		}
		if b.Len() > 0 && last != '\n' {
			b.WriteByte(' ')
		}
		b.WriteString(s)
		last = s[len(s)-1]
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipElements[n.Data] {
			return
		}

		if n.Type == html.TextNode {
			write(strings.TrimSpace(n.Data))
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && blockElements[n.Data] && b.Len() > 0 && last != '\n' {
			b.WriteByte('\n')
			last = '\n'
		}
	}

	walk(doc)
	return strings.TrimSpace(b.String())
}

// LooksLikeHTML reports whether text is plainly markup rather than prose
func LooksLikeHTML(text string) bool {
	t := strings.TrimSpace(text)
	if strings.HasPrefix(t, "<") && strings.Contains(t, ">") {
		return true
	}

	lower := strings.ToLower(t)
	for _, marker := range []string{"<html", "<body", "<p>", "<div", "<br"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
