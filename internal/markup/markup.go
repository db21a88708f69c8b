// Package markup sanitizes rich-text job descriptions and derives plain-text
// previews from them.
//
// Descriptions are authored in a structured editor that produces a small set
// of formatting tags (bold, italic, strike, lists, quote, code, link). The
// server sanitizes on every write so that stored markup is safe to render
// verbatim in detail and review views.
package markup

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// allowedTags is the markup vocabulary the description editor produces.
var allowedTags = map[string]bool{
	"b": true, "strong": true,
	"i": true, "em": true,
	"s": true, "del": true, "u": true,
	"p": true, "br": true,
	"ul": true, "ol": true, "li": true,
	"blockquote": true,
	"code":       true, "pre": true,
	"a":  true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// droppedTags are removed together with their content.
var droppedTags = map[string]bool{
	"script": true, "style": true, "iframe": true,
	"object": true, "embed": true, "form": true,
	"input": true, "textarea": true, "button": true,
}

// voidTags have no closing tag.
var voidTags = map[string]bool{
	"br": true,
}

// Sanitize reduces arbitrary HTML to the allowed description markup.
// Disallowed elements are unwrapped (their text survives), dangerous elements
// are removed entirely, and all attributes except a safe href on anchors are
// stripped.
func Sanitize(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
	if err != nil {
		// Unparseable input degrades to escaped text.
		return html.EscapeString(input)
	}

	var b strings.Builder
	for _, node := range doc.Find("body").Nodes {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			renderNode(&b, c)
		}
	}
	return strings.TrimSpace(b.String())
}

// StripTags returns the plain text of the given markup with whitespace
// collapsed, for truncated catalog previews.
func StripTags(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
	if err != nil {
		return strings.Join(strings.Fields(input), " ")
	}

	doc.Find("script, style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Preview returns the plain text of the markup truncated to at most n runes.
func Preview(input string, n int) string {
	text := StripTags(input)
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return strings.TrimSpace(string(runes[:n])) + "…"
}

func renderNode(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(html.EscapeString(n.Data))
		return
	case html.ElementNode:
		// Fall through to element handling below.
	default:
		// Comments, doctypes and the like are dropped.
		return
	}

	tag := strings.ToLower(n.Data)
	if droppedTags[tag] {
		return
	}

	if !allowedTags[tag] {
		// Unwrap: keep the children, drop the element itself.
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			renderNode(b, c)
		}
		return
	}

	b.WriteString("<" + tag)
	if tag == "a" {
		if href, ok := safeHref(n); ok {
			b.WriteString(` href="` + html.EscapeString(href) + `" rel="noopener noreferrer"`)
		}
	}
	b.WriteString(">")

	if voidTags[tag] {
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderNode(b, c)
	}
	b.WriteString("</" + tag + ">")
}

// safeHref returns the href attribute when it carries no scriptable scheme.
func safeHref(n *html.Node) (string, bool) {
	for _, attr := range n.Attr {
		if strings.ToLower(attr.Key) != "href" {
			continue
		}
		href := strings.TrimSpace(attr.Val)
		lower := strings.ToLower(href)
		switch {
		case strings.HasPrefix(lower, "http://"),
			strings.HasPrefix(lower, "https://"),
			strings.HasPrefix(lower, "mailto:"),
			strings.HasPrefix(lower, "/"),
			strings.HasPrefix(lower, "#"):
			return href, true
		}
		return "", false
	}
	return "", false
}
