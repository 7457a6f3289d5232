package release

import (
	"strings"

	"github.com/beevik/etree"
	"gopkg.in/yaml.v3"

	"github.com/carlosdem/appstream/internal/metadata"
	"github.com/carlosdem/appstream/internal/yamldoc"
)

// IssueKind describes what kind of tracker reference an issue is.
type IssueKind int

const (
	IssueKindUnknown IssueKind = iota
	IssueKindGeneric
	IssueKindCVE
)

// String returns the serialized form of the issue kind.
func (k IssueKind) String() string {
	switch k {
	case IssueKindGeneric:
		return "generic"
	case IssueKindCVE:
		return "cve"
	}
	return "unknown"
}

// IssueKindFromString parses an issue kind token. An absent token
// means IssueKindGeneric.
func IssueKindFromString(s string) IssueKind {
	switch s {
	case "", "generic":
		return IssueKindGeneric
	case "cve":
		return IssueKindCVE
	}
	return IssueKindUnknown
}

// Issue is a reference to a bug or security vulnerability that a
// release resolves.
type Issue struct {
	kind IssueKind
	id   string
	url  string
}

// NewIssue creates an empty issue of generic kind.
func NewIssue() *Issue {
	return &Issue{kind: IssueKindGeneric}
}

// Kind returns the issue kind.
func (i *Issue) Kind() IssueKind { return i.kind }

// SetKind sets the issue kind.
func (i *Issue) SetKind(kind IssueKind) { i.kind = kind }

// ID returns the issue identifier, a bug number or CVE id.
func (i *Issue) ID() string { return i.id }

// SetID sets the issue identifier.
func (i *Issue) SetID(id string) { i.id = id }

// URL returns the link to more information about the issue. CVE issues
// without an explicit link get one derived from the CVE registry.
func (i *Issue) URL() string {
	if i.url == "" && i.kind == IssueKindCVE && i.id != "" {
		return "https://www.cve.org/CVERecord?id=" + i.id
	}
	return i.url
}

// SetURL sets the link to more information about the issue.
func (i *Issue) SetURL(url string) { i.url = url }

// loadXML reads one issue element. It reports false for entries
// without an identifier, which callers drop.
func (i *Issue) loadXML(ctx *metadata.Context, el *etree.Element) bool {
	i.kind = IssueKindFromString(el.SelectAttrValue("type", ""))
	i.url = el.SelectAttrValue("url", "")
	i.id = strings.TrimSpace(el.Text())
	if i.id == "" {
		ctx.Log().Warn("dropping issue without an id", "file", ctx.Filename)
		return false
	}
	return true
}

func (i *Issue) toXML(_ *metadata.Context, parent *etree.Element) {
	el := parent.CreateElement("issue")
	if i.kind != IssueKindGeneric {
		el.CreateAttr("type", i.kind.String())
	}
	if i.url != "" {
		el.CreateAttr("url", i.url)
	}
	el.SetText(i.id)
}

// loadYAML reads one issue mapping. It reports false for entries
// without an identifier, which callers drop.
func (i *Issue) loadYAML(ctx *metadata.Context, node *yaml.Node) bool {
	yamldoc.EachEntry(node, func(key string, value *yaml.Node) {
		switch key {
		case "type":
			i.kind = IssueKindFromString(yamldoc.ScalarValue(value))
		case "id":
			i.id = yamldoc.ScalarValue(value)
		case "url":
			i.url = yamldoc.ScalarValue(value)
		default:
			ctx.Log().Info("unknown issue key", "key", key, "file", ctx.Filename)
		}
	})
	if i.id == "" {
		ctx.Log().Warn("dropping issue without an id", "file", ctx.Filename)
		return false
	}
	return true
}

func (i *Issue) emitYAML(_ *metadata.Context) *yaml.Node {
	m := yamldoc.Mapping()
	if i.kind != IssueKindGeneric {
		yamldoc.AddScalarEntry(m, "type", i.kind.String())
	}
	yamldoc.AddScalarEntry(m, "id", i.id)
	yamldoc.AddScalarEntry(m, "url", i.url)
	return m
}
