// Package yamldoc builds and reads yaml.v3 node trees for the DEP-11
// dialect. Emitters assemble mapping and sequence nodes by hand so key
// order stays exactly as written, and loaders walk the raw node tree
// instead of unmarshaling into structs, since most keys are optional
// and order carries meaning.
package yamldoc

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/carlosdem/appstream/internal/metadata"
)

// Mapping returns an empty mapping node.
func Mapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

// Sequence returns an empty sequence node.
func Sequence() *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
}

// Scalar returns a string scalar node.
func Scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

// blockScalar returns a string scalar that switches to literal block
// style when the value spans multiple lines.
func blockScalar(value string) *yaml.Node {
	n := Scalar(value)
	if strings.Contains(value, "\n") {
		n.Style = yaml.LiteralStyle
	}
	return n
}

// AddEntry appends a key/value pair to a mapping node.
func AddEntry(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, Scalar(key), value)
}

// AddScalarEntry appends a string entry. It writes nothing when the
// value is empty, so optional keys vanish instead of serializing as
// empty scalars.
func AddScalarEntry(m *yaml.Node, key, value string) {
	if value == "" {
		return
	}
	AddEntry(m, key, blockScalar(value))
}

// AddIntEntry appends an integer entry, serialized unquoted.
func AddIntEntry(m *yaml.Node, key string, v int64) {
	AddEntry(m, key, &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!int",
		Value: strconv.FormatInt(v, 10),
	})
}

// AddLocalizedEntry appends key with a locale-to-text mapping built
// from table, locales in byte order with the untranslated "C" entry
// first. It writes nothing when the table is empty.
func AddLocalizedEntry(m *yaml.Node, key string, table metadata.LocalizedText) {
	if len(table) == 0 {
		return
	}
	lm := Mapping()
	for _, locale := range table.Locales() {
		AddEntry(lm, locale, blockScalar(table[locale]))
	}
	AddEntry(m, key, lm)
}

// AppendItem appends an item to a sequence node.
func AppendItem(seq, item *yaml.Node) {
	seq.Content = append(seq.Content, item)
}

// EachEntry calls fn for every key/value pair of a mapping node, in
// document order. Non-mapping nodes yield nothing.
func EachEntry(m *yaml.Node, fn func(key string, value *yaml.Node)) {
	if m == nil || m.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		fn(m.Content[i].Value, m.Content[i+1])
	}
}

// Entry returns the value node stored under key in a mapping, or nil
// when the key is absent.
func Entry(m *yaml.Node, key string) *yaml.Node {
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// ScalarValue returns the text of a scalar node, or "" for anything
// else.
func ScalarValue(n *yaml.Node) string {
	if n == nil || n.Kind != yaml.ScalarNode {
		return ""
	}
	return n.Value
}

// IntValue parses a scalar node as a base-10 integer.
func IntValue(n *yaml.Node) (int64, bool) {
	if n == nil || n.Kind != yaml.ScalarNode {
		return 0, false
	}
	v, err := strconv.ParseInt(strings.TrimSpace(n.Value), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// LoadLocalizedTable reads a locale-to-text mapping node into table,
// skipping locales the context filters out.
func LoadLocalizedTable(ctx *metadata.Context, n *yaml.Node, table metadata.LocalizedText) {
	EachEntry(n, func(locale string, value *yaml.Node) {
		if !metadata.LocaleCompatible(ctx, locale) {
			return
		}
		table.Set(ctx, locale, ScalarValue(value))
	})
}

// ParseDocument parses data and returns the root node of the first
// document.
func ParseDocument(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("yaml document has no content")
	}
	return doc.Content[0], nil
}

// SerializeDocument renders root as a single YAML document. An indent
// of zero keeps the encoder default.
func SerializeDocument(root *yaml.Node, indent int) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	if indent > 0 {
		enc.SetIndent(indent)
	}
	if err := enc.Encode(root); err != nil {
		enc.Close()
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}
