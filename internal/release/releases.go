package release

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/beevik/etree"
	"gopkg.in/yaml.v3"

	"github.com/carlosdem/appstream/internal/metadata"
	"github.com/carlosdem/appstream/internal/xmldoc"
	"github.com/carlosdem/appstream/internal/yamldoc"
)

// ReleasesKind describes how a component ships its release metadata:
// embedded in the document itself or in an external file referenced by
// URL.
type ReleasesKind int

const (
	ReleasesKindUnknown ReleasesKind = iota
	ReleasesKindEmbedded
	ReleasesKindExternal
)

// String returns the serialized form of the releases kind.
func (k ReleasesKind) String() string {
	switch k {
	case ReleasesKindEmbedded:
		return "embedded"
	case ReleasesKindExternal:
		return "external"
	}
	return "unknown"
}

// ReleasesKindFromString parses a releases kind token. An absent token
// means embedded, which is what documents without an explicit type
// have always shipped.
func ReleasesKindFromString(s string) ReleasesKind {
	switch s {
	case "", "embedded":
		return ReleasesKindEmbedded
	case "external":
		return ReleasesKindExternal
	}
	return ReleasesKindUnknown
}

// Releases holds the ordered release entries of one component together
// with the metadata that applies to the whole group.
type Releases struct {
	kind    ReleasesKind
	url     string
	entries []*Release
	ctx     *metadata.Context
}

// NewReleases creates an empty embedded releases container.
func NewReleases() *Releases {
	return &Releases{kind: ReleasesKindEmbedded}
}

// Kind returns how the release metadata is shipped.
func (rels *Releases) Kind() ReleasesKind { return rels.kind }

// SetKind sets how the release metadata is shipped.
func (rels *Releases) SetKind(kind ReleasesKind) { rels.kind = kind }

// URL returns the location of external release data, or "" when the
// data is embedded.
func (rels *Releases) URL() string { return rels.url }

// SetURL sets the location of external release data.
func (rels *Releases) SetURL(url string) { rels.url = url }

// Entries returns the release entries in their current order.
func (rels *Releases) Entries() []*Release { return rels.entries }

// Len returns the number of release entries.
func (rels *Releases) Len() int { return len(rels.entries) }

// IsEmpty reports whether the container has no entries.
func (rels *Releases) IsEmpty() bool { return len(rels.entries) == 0 }

// At returns the release at the given index, or nil when the index is
// out of range.
func (rels *Releases) At(i int) *Release {
	if i < 0 || i >= len(rels.entries) {
		return nil
	}
	return rels.entries[i]
}

// Add appends a release entry to the container.
func (rels *Releases) Add(rel *Release) {
	rels.entries = append(rels.entries, rel)
}

// Clear removes all release entries.
func (rels *Releases) Clear() {
	rels.entries = nil
}

// Context returns the document context bound to this container.
func (rels *Releases) Context() *metadata.Context { return rels.ctx }

// SetContext binds a document context to the container and to every
// entry it currently holds.
func (rels *Releases) SetContext(ctx *metadata.Context) {
	rels.ctx = ctx
	for _, rel := range rels.entries {
		rel.SetContext(ctx)
	}
}

// Sort orders the entries by version, most recent release first.
// Entries with equal versions keep their relative order.
func (rels *Releases) Sort() {
	sort.SliceStable(rels.entries, func(i, j int) bool {
		return rels.entries[i].CompareVersion(rels.entries[j]) > 0
	})
}

// LoadXML populates the container from a releases element, replacing
// any existing entries. External containers record the data URL,
// resolved against the context's media base URL, and carry no inline
// entries.
func (rels *Releases) LoadXML(ctx *metadata.Context, el *etree.Element) {
	rels.Clear()
	rels.SetContext(ctx)

	rels.kind = ReleasesKindFromString(el.SelectAttrValue("type", ""))
	if rels.kind == ReleasesKindExternal {
		if prop := el.SelectAttrValue("url", ""); prop != "" {
			rels.url = ctx.MediaURL(prop)
		}
		return
	}

	for _, child := range el.ChildElements() {
		if child.Tag != "release" {
			continue
		}
		rel := New()
		rel.LoadXML(ctx, child)
		rels.entries = append(rels.entries, rel)
	}
}

// ToXML serializes the container as a releases element under parent.
// External containers keep their short form in metainfo style; in any
// other case the entries are sorted most recent first and written
// inline, and nothing at all is written when there are none.
func (rels *Releases) ToXML(ctx *metadata.Context, parent *etree.Element) {
	if rels.kind == ReleasesKindExternal && ctx.Style == metadata.StyleMetainfo {
		el := parent.CreateElement("releases")
		el.CreateAttr("type", ReleasesKindExternal.String())
		if rels.url != "" {
			el.CreateAttr("url", rels.url)
		}
		return
	}

	if len(rels.entries) == 0 {
		return
	}

	el := parent.CreateElement("releases")
	rels.Sort()
	for _, rel := range rels.entries {
		rel.ToXML(ctx, el)
	}
}

// LoadYAML appends entries from a DEP-11 sequence node.
func (rels *Releases) LoadYAML(ctx *metadata.Context, node *yaml.Node) {
	rels.SetContext(ctx)
	if node == nil || node.Kind != yaml.SequenceNode {
		return
	}
	for _, item := range node.Content {
		rel := New()
		rel.LoadYAML(ctx, item)
		rels.entries = append(rels.entries, rel)
	}
}

// EmitYAML adds a Releases entry holding the sorted release sequence
// to the given document root mapping. Empty containers add nothing.
func (rels *Releases) EmitYAML(ctx *metadata.Context, root *yaml.Node) {
	if len(rels.entries) == 0 {
		return
	}

	rels.Sort()
	seq := yamldoc.Sequence()
	for _, rel := range rels.entries {
		yamldoc.AppendItem(seq, rel.EmitYAML(ctx))
	}
	yamldoc.AddEntry(root, "Releases", seq)
}

// LoadDocumentXML parses a standalone XML release document. The root
// must be a releases element, or a component element wrapping one.
func LoadDocumentXML(ctx *metadata.Context, data []byte) (*Releases, error) {
	doc, err := xmldoc.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse release data: %w", err)
	}

	root := doc.Root()
	if root.Tag == "component" {
		inner := root.SelectElement("releases")
		if inner == nil {
			return nil, fmt.Errorf("component element has no releases")
		}
		root = inner
	}
	if root.Tag != "releases" {
		return nil, fmt.Errorf("unexpected root element %q, want releases", root.Tag)
	}

	rels := NewReleases()
	rels.LoadXML(ctx, root)
	return rels, nil
}

// LoadDocumentYAML parses a standalone DEP-11 release document: either
// a mapping with a Releases key or a bare release sequence.
func LoadDocumentYAML(ctx *metadata.Context, data []byte) (*Releases, error) {
	root, err := yamldoc.ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("parse release data: %w", err)
	}

	rels := NewReleases()
	switch root.Kind {
	case yaml.SequenceNode:
		rels.LoadYAML(ctx, root)
	case yaml.MappingNode:
		seq := yamldoc.Entry(root, "Releases")
		if seq == nil {
			return nil, fmt.Errorf("yaml document has no Releases key")
		}
		rels.LoadYAML(ctx, seq)
	default:
		return nil, fmt.Errorf("unexpected yaml document structure")
	}
	return rels, nil
}

// DocumentXML serializes the container as a complete XML document. An
// empty container yields a document with an empty releases root.
func (rels *Releases) DocumentXML(ctx *metadata.Context, indent int) ([]byte, error) {
	doc := xmldoc.NewDocument()
	rels.ToXML(ctx, &doc.Element)
	if doc.Root() == nil {
		doc.CreateElement("releases")
	}
	return xmldoc.Serialize(doc, indent)
}

// DocumentYAML serializes the container as a complete DEP-11 document.
func (rels *Releases) DocumentYAML(ctx *metadata.Context, indent int) ([]byte, error) {
	root := yamldoc.Mapping()
	rels.EmitYAML(ctx, root)
	return yamldoc.SerializeDocument(root, indent)
}

// LoadBytes parses release entries from raw XML document data and
// appends them to the container. The root element's children are
// scanned for release entries regardless of the root's own tag.
func (rels *Releases) LoadBytes(data []byte) error {
	ctx := rels.ctx
	if ctx == nil {
		ctx = metadata.NewContext(metadata.StyleMetainfo)
	}

	doc, err := xmldoc.Parse(data)
	if err != nil {
		return fmt.Errorf("parse external release data: %w", err)
	}

	for _, child := range doc.Root().ChildElements() {
		if child.Tag != "release" {
			continue
		}
		rel := New()
		rel.LoadXML(ctx, child)
		rels.entries = append(rels.entries, rel)
	}
	return nil
}

// LoadExternal reads externally stored release data for a component
// from the releases directory next to the metainfo file named in the
// context. Network locations are not fetched. Containers that already
// hold entries are left alone unless reload is set.
func (rels *Releases) LoadExternal(componentID string, reload bool) error {
	if rels.kind != ReleasesKindExternal {
		return nil
	}
	if len(rels.entries) > 0 && !reload {
		return nil
	}
	if rels.ctx == nil || rels.ctx.Filename == "" {
		return fmt.Errorf("cannot locate external release data without a source filename")
	}
	if componentID == "" {
		return fmt.Errorf("cannot locate external release data without a component id")
	}

	if reload {
		rels.Clear()
	}

	path := filepath.Join(filepath.Dir(rels.ctx.Filename),
		"releases", componentID+".releases.xml")
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read external release data: %w", err)
	}
	return rels.LoadBytes(data)
}
