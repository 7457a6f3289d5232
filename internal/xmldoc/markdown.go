package xmldoc

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// MarkupToMarkdown converts a description markup fragment to
// Markdown-flavoured plain text: paragraphs become text blocks,
// unordered lists become dash bullets and ordered lists numbered ones.
// Inline elements are flattened to their text content.
func MarkupToMarkdown(markup string) (string, error) {
	root := etree.NewElement("description")
	if err := AppendMarkup(root, markup); err != nil {
		return "", err
	}

	var blocks []string
	for _, child := range root.ChildElements() {
		switch child.Tag {
		case "p":
			if text := collapseWhitespace(flattenText(child)); text != "" {
				blocks = append(blocks, text)
			}
		case "ul":
			var lines []string
			for _, li := range child.SelectElements("li") {
				lines = append(lines, "- "+collapseWhitespace(flattenText(li)))
			}
			if len(lines) > 0 {
				blocks = append(blocks, strings.Join(lines, "\n"))
			}
		case "ol":
			var lines []string
			for i, li := range child.SelectElements("li") {
				lines = append(lines, fmt.Sprintf("%d. %s", i+1, collapseWhitespace(flattenText(li))))
			}
			if len(lines) > 0 {
				blocks = append(blocks, strings.Join(lines, "\n"))
			}
		}
	}
	return strings.Join(blocks, "\n\n"), nil
}

// flattenText collects the character data of el and all its
// descendants in document order.
func flattenText(el *etree.Element) string {
	var sb strings.Builder
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			sb.WriteString(t.Data)
		case *etree.Element:
			sb.WriteString(flattenText(t))
		}
	}
	return sb.String()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
