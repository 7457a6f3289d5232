package xmldoc

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/carlosdem/appstream/internal/metadata"
)

// NodeLocale returns the effective locale tag of el: the value of its
// xml:lang attribute, or "C" when the element is untagged. It returns
// the empty string when the context's locale policy filters the tag
// out, which callers treat as "skip this node".
func NodeLocale(ctx *metadata.Context, el *etree.Element) string {
	lang := el.SelectAttrValue("xml:lang", "")
	if lang == "" {
		return "C"
	}
	if metadata.LocaleCompatible(ctx, lang) {
		return lang
	}
	return ""
}

// ParseMetainfoDescription reads the fused multi-locale description
// form, where translated paragraphs sit next to their originals and
// list items carry their own locale tags, and appends each block to
// the matching locale buffer in table. Untagged blocks belong to "C";
// a list item without its own tag inherits the tag of its list.
func ParseMetainfoDescription(ctx *metadata.Context, el *etree.Element, table metadata.LocalizedText) {
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "p":
			lang := NodeLocale(ctx, child)
			if lang == "" {
				continue
			}
			table.Append(lang, renderBlock(child))
		case "ul", "ol":
			listLang := NodeLocale(ctx, child)
			opened := make(map[string]bool)
			for _, item := range child.ChildElements() {
				if item.Tag != "li" {
					ctx.Log().Info("unknown element in description list",
						"tag", item.Tag, "file", ctx.Filename)
					continue
				}
				lang := listLang
				if item.SelectAttr("xml:lang") != nil {
					lang = NodeLocale(ctx, item)
				}
				if lang == "" {
					continue
				}
				if !opened[lang] {
					table.Append(lang, "<"+child.Tag+">")
					opened[lang] = true
				}
				table.Append(lang, renderBlock(item))
			}
			for lang := range opened {
				table.Append(lang, "</"+child.Tag+">")
			}
		default:
			ctx.Log().Info("unknown description element",
				"tag", child.Tag, "file", ctx.Filename)
		}
	}
}

// EmitDescription writes the description table under parent. Catalog
// style produces one description node per locale with the tag on the
// node; metainfo style produces a single fused node with untagged "C"
// blocks first and every translated block tagged individually. The
// writer is a no-op when the table is empty, unless metainfo style
// needs to record that the text is not translatable.
func EmitDescription(ctx *metadata.Context, parent *etree.Element, table metadata.LocalizedText, translatable bool) {
	if ctx.Style == metadata.StyleCatalog {
		for _, locale := range table.Locales() {
			el := parent.CreateElement("description")
			if locale != "C" {
				el.CreateAttr("xml:lang", locale)
			}
			if err := AppendMarkup(el, table[locale]); err != nil {
				ctx.Log().Warn("description markup does not parse, keeping it as text",
					"locale", locale, "file", ctx.Filename)
				el.SetText(table[locale])
			}
		}
		return
	}

	if len(table) == 0 && translatable {
		return
	}
	el := parent.CreateElement("description")
	if !translatable {
		el.CreateAttr("translatable", "no")
	}
	for _, locale := range table.Locales() {
		tokens, err := ParseFragment(table[locale])
		if err != nil {
			ctx.Log().Warn("description markup does not parse, skipping locale",
				"locale", locale, "file", ctx.Filename)
			continue
		}
		for _, tok := range tokens {
			block, ok := tok.(*etree.Element)
			if !ok {
				// Stray character data between blocks is whitespace.
				continue
			}
			if locale != "C" {
				block.CreateAttr("xml:lang", locale)
			}
			el.AddChild(block)
		}
	}
}

// renderBlock serializes one description block without its locale tag.
func renderBlock(el *etree.Element) string {
	c := el.Copy()
	c.RemoveAttr("xml:lang")
	doc := etree.NewDocument()
	doc.SetRoot(c)
	s, err := doc.WriteToString()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}
