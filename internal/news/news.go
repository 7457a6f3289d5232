// Package news converts between Markdown release notes and release
// metadata records. A level-one or level-two heading starts a release
// entry; the heading may carry a parenthesized date, or a "Released:"
// line below it may date the entry. Paragraphs and lists under the
// heading become the description markup.
package news

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/beevik/etree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/carlosdem/appstream/internal/release"
	"github.com/carlosdem/appstream/internal/xmldoc"
)

// ParseMarkdown reads Markdown release notes into a release container.
// Content before the first release heading is ignored; deeper headings
// inside an entry become plain description paragraphs. It is an error
// for the input to contain no release entries at all.
func ParseMarkdown(data []byte) (*release.Releases, error) {
	root := goldmark.New().Parser().Parse(text.NewReader(data))

	rels := release.NewReleases()
	var cur *release.Release
	var desc *etree.Element

	flush := func() {
		if cur == nil {
			return
		}
		if markup := xmldoc.DumpChildren(desc); markup != "" {
			cur.SetDescription(markup, "C")
		}
		rels.Add(cur)
		cur = nil
	}

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			if node.Level > 2 {
				if cur != nil {
					desc.CreateElement("p").SetText(nodeText(node, data))
				}
				continue
			}
			flush()
			cur = release.New()
			desc = etree.NewElement("description")
			version, date, development := splitHeading(nodeText(node, data))
			cur.SetVersion(version)
			if date != "" {
				cur.SetDate(date)
			}
			if development {
				cur.SetKind(release.KindDevelopment)
			}
		case *ast.Paragraph:
			if cur == nil {
				continue
			}
			body := nodeText(node, data)
			if rest, ok := strings.CutPrefix(body, "Released:"); ok {
				cur.SetDate(strings.TrimSpace(rest))
				continue
			}
			desc.CreateElement("p").SetText(body)
		case *ast.List:
			if cur == nil {
				continue
			}
			tag := "ul"
			if node.IsOrdered() {
				tag = "ol"
			}
			list := desc.CreateElement(tag)
			for li := node.FirstChild(); li != nil; li = li.NextSibling() {
				list.CreateElement("li").SetText(nodeText(li, data))
			}
		}
	}
	flush()

	if rels.IsEmpty() {
		return nil, fmt.Errorf("no release entries found in news data")
	}
	return rels, nil
}

// WriteMarkdown renders the container as Markdown release notes, most
// recent release first. A positive limit caps how many entries are
// written. Every entry needs a version to become a heading.
func WriteMarkdown(rels *release.Releases, limit int) ([]byte, error) {
	rels.Sort()
	entries := rels.Entries()
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	var sb strings.Builder
	for i, rel := range entries {
		if rel.Version() == "" {
			return nil, fmt.Errorf("release %d has no version", i+1)
		}
		if i > 0 {
			sb.WriteString("\n")
		}
		heading := "## " + rel.Version()
		if rel.Kind() == release.KindDevelopment {
			heading += " (unreleased)"
		}
		sb.WriteString(heading + "\n")
		if ts := rel.Timestamp(); ts > 0 {
			sb.WriteString("\nReleased: " + release.FormatISO8601(ts)[:10] + "\n")
		}
		body, err := rel.DescriptionMarkdown()
		if err != nil {
			return nil, fmt.Errorf("converting description of release %s: %w", rel.Version(), err)
		}
		if body != "" {
			sb.WriteString("\n" + body + "\n")
		}
	}
	return []byte(sb.String()), nil
}

var headingDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// splitHeading takes a release heading apart: an optional "Version"
// prefix word, the version itself, and an optional parenthesized
// suffix holding either a date or an "unreleased" marker.
func splitHeading(s string) (version, date string, development bool) {
	if open := strings.LastIndexByte(s, '('); open >= 0 && strings.HasSuffix(s, ")") {
		inner := strings.TrimSpace(s[open+1 : len(s)-1])
		s = strings.TrimSpace(s[:open])
		if headingDate.MatchString(inner) {
			date = inner
		} else if strings.EqualFold(inner, "unreleased") {
			development = true
		}
	}

	fields := strings.Fields(s)
	if len(fields) > 1 && strings.EqualFold(fields[0], "version") {
		fields = fields[1:]
	}
	return strings.Join(fields, " "), date, development
}

// nodeText flattens a Markdown node to its text content. Soft line
// breaks collapse to single spaces.
func nodeText(n ast.Node, src []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := node.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		case *ast.AutoLink:
			sb.Write(t.URL(src))
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
