package htmlutil

import (
	"bytes"
	"strings"

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

// FirstChildText returns the text of the first child node of node, it fails
// when node has no children.
func FirstChildText(node *html.Node) (string, bool) {
	if node == nil || node.FirstChild == nil {
		return "", false
	}
	return GetText(node.FirstChild), true
}

var quoteReplacer = strings.NewReplacer("“", `"`, "”", `"`)

// NormalizeQuotes turns curly double quotes into straight ones.
func NormalizeQuotes(text string) string {
	return quoteReplacer.Replace(text)
}

// Decode unescapes html entities and trims surrounding whitespace.
func Decode(text string) string {
	return strings.TrimSpace(html.UnescapeString(text))
}

var ampReplacer = strings.NewReplacer("&", "&amp;")

// EscapeAttr gives back the attribute value as the exported document
// writes it, the parser having decoded its entities. Exports only escape
// ampersands in attribute values.
func EscapeAttr(value string) string {
	return ampReplacer.Replace(value)
}
