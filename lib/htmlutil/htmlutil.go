package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

// CleanText strips non-printable runes, trims the edges and collapses
// runs of inner whitespace. Table cells scraped from rendered pages tend
// to carry zero-width characters and layout whitespace.
func CleanText(s string) string {
	var cleaned strings.Builder
	for _, c := range s {
		if unicode.IsPrint(c) {
			cleaned.WriteRune(c)
		}
	}
	out := strings.TrimSpace(cleaned.String())
	return innerWhitespace.ReplaceAllString(out, " ")
}
