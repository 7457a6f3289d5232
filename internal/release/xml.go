package release

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/carlosdem/appstream/internal/metadata"
	"github.com/carlosdem/appstream/internal/xmldoc"
)

// LoadXML populates the release from a release element. Malformed
// scalars keep their prior value, malformed issue and artifact entries
// are dropped individually; the load itself never fails on optional
// data, partial records are an accepted outcome.
func (r *Release) LoadXML(ctx *metadata.Context, el *etree.Element) {
	r.SetContext(ctx)

	if prop := el.SelectAttrValue("type", ""); prop != "" {
		r.kind = KindFromString(prop)
	}

	r.version = el.SelectAttrValue("version", "")

	if prop := el.SelectAttrValue("date", ""); prop != "" {
		if t, err := ParseISO8601(prop); err == nil {
			r.timestamp = t.Unix()
			r.date = prop
		} else {
			ctx.Log().Warn("ignoring invalid release date",
				"date", prop, "file", ctx.Filename)
		}
	}

	if prop := el.SelectAttrValue("date_eol", ""); prop != "" {
		r.dateEOL = prop
	}

	// A timestamp attribute wins over a value derived from the date
	// attribute above.
	if prop := el.SelectAttrValue("timestamp", ""); prop != "" {
		if ts, err := strconv.ParseInt(prop, 10, 64); err == nil {
			r.timestamp = ts
		} else {
			ctx.Log().Warn("ignoring invalid release timestamp",
				"timestamp", prop, "file", ctx.Filename)
		}
	}

	if prop := el.SelectAttrValue("urgency", ""); prop != "" {
		r.urgency = UrgencyFromString(prop)
	}

	descSeen := false
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "artifacts":
			for _, sub := range child.ChildElements() {
				artifact := NewArtifact()
				if artifact.loadXML(ctx, sub) {
					r.artifacts = append(r.artifacts, artifact)
				}
			}
		case "description":
			// The table is reset once per load, so sibling description
			// nodes for different locales accumulate.
			if !descSeen {
				clear(r.description)
				descSeen = true
			}
			if ctx.Style == metadata.StyleCatalog {
				// In catalog style each description node carries its
				// own language tag.
				if lang := xmldoc.NodeLocale(ctx, child); lang != "" {
					r.description.Set(ctx, lang, xmldoc.DumpChildren(child))
				}
			} else {
				xmldoc.ParseMetainfoDescription(ctx, child, r.description)
				r.translatable = child.SelectAttrValue("translatable", "") != "no"
			}
		case "url":
			// Every release URL is a details URL so far.
			r.urlDetails = strings.TrimSpace(child.Text())
		case "issues":
			for _, sub := range child.ChildElements() {
				issue := NewIssue()
				if issue.loadXML(ctx, sub) {
					r.issues = append(r.issues, issue)
				}
			}
		default:
			ctx.Log().Info("unknown release element",
				"tag", child.Tag, "file", ctx.Filename)
		}
	}
}

// ToXML serializes the release as a release element under parent. The
// instant is written as a numeric timestamp attribute in catalog style
// and as a formatted date attribute otherwise, never both.
func (r *Release) ToXML(ctx *metadata.Context, parent *etree.Element) {
	el := parent.CreateElement("release")
	el.CreateAttr("type", r.kind.String())
	if r.version != "" {
		el.CreateAttr("version", r.version)
	}

	if r.timestamp > 0 {
		if ctx.Style == metadata.StyleCatalog {
			el.CreateAttr("timestamp", strconv.FormatInt(r.timestamp, 10))
		} else {
			el.CreateAttr("date", FormatISO8601(r.timestamp))
		}
	}

	if r.dateEOL != "" {
		el.CreateAttr("date_eol", r.dateEOL)
	}

	if r.urgency != UrgencyUnknown {
		el.CreateAttr("urgency", r.urgency.String())
	}

	xmldoc.EmitDescription(ctx, el, r.description, r.translatable)

	if r.urlDetails != "" {
		el.CreateElement("url").SetText(r.urlDetails)
	}

	if len(r.issues) > 0 {
		wrap := el.CreateElement("issues")
		for _, issue := range r.issues {
			issue.toXML(ctx, wrap)
		}
	}

	if len(r.artifacts) > 0 {
		wrap := el.CreateElement("artifacts")
		for _, artifact := range r.artifacts {
			artifact.toXML(ctx, wrap)
		}
	}
}
