package mailparse

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Part is one decoded text part of a message
type Part struct {
	ContentType string // "text/plain" or "text/html"
	Text        string
}

var (
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	htmlNoisePattern  = regexp.MustCompile(`&nbsp;|\\n|\\r|\\t|\x{00a0}`)
	bracketPattern    = regexp.MustCompile(`[【】（）()]`)
	whitespacePattern = regexp.MustCompile(`[\s\p{Z}]{2,}`)
)

// Normalize picks the text that field extraction runs on: the first plain-text part verbatim,
// otherwise the last HTML part with its markup stripped. No usable part yields "".
func Normalize(parts []Part) string {
	var htmlBody string
	for _, p := range parts {
		switch p.ContentType {
		case "text/plain":
			return p.Text
		case "text/html":
			htmlBody = p.Text
		}
	}
	if htmlBody == "" {
		return ""
	}
	return StripHTML(htmlBody)
}

// StripHTML reduces an HTML document to one line of text. Every tag becomes a space,
// whitespace runs collapse to one space, and bracket punctuation is dropped.
func StripHTML(src string) string {
	text, err := htmlText(src)
	if err != nil {
		text = src
	}

	// also catches markup that was entity-escaped in the source
	text = tagPattern.ReplaceAllString(text, " ")
	text = htmlNoisePattern.ReplaceAllString(text, " ")
	text = bracketPattern.ReplaceAllString(text, " ")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// htmlText joins the document's text nodes with spaces, skipping script and style content
func htmlText(src string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return "", err
	}
	doc.Find("script, style").Remove()

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteByte(' ')
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}
	return b.String(), nil
}
