// Package xmldoc provides the XML tree primitives the metadata mappers
// are built on: whole-document parsing, markup fragment handling with
// inline elements preserved, and the localized description node logic
// shared by every record type.
package xmldoc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// NewDocument returns an empty XML document with the standard
// declaration already in place.
func NewDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	return doc
}

// Parse reads a complete XML document from raw bytes.
func Parse(data []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parsing XML document: %w", err)
	}
	if doc.Root() == nil {
		return nil, errors.New("XML document has no root element")
	}
	return doc, nil
}

// Serialize renders the document, indented by indent spaces when
// positive and compact otherwise.
func Serialize(doc *etree.Document, indent int) ([]byte, error) {
	if indent > 0 {
		doc.Indent(indent)
	}
	return doc.WriteToBytes()
}

// DumpChildren serializes the children of el, elements and character
// data alike, into one markup string. Inline markup and its order are
// preserved; surrounding whitespace is trimmed.
func DumpChildren(el *etree.Element) string {
	doc := etree.NewDocument()
	wrap := doc.CreateElement("m")
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.Element:
			wrap.AddChild(t.Copy())
		case *etree.CharData:
			wrap.CreateText(t.Data)
		}
	}

	s, err := doc.WriteToString()
	if err != nil {
		return ""
	}
	if s == "<m/>" {
		return ""
	}
	s = strings.TrimPrefix(s, "<m>")
	s = strings.TrimSuffix(s, "</m>")
	return strings.TrimSpace(s)
}

// ParseFragment parses a markup string into a list of tokens that can
// be attached to any element. The fragment may contain several
// top-level elements and bare text.
func ParseFragment(markup string) ([]etree.Token, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString("<m>" + markup + "</m>"); err != nil {
		return nil, fmt.Errorf("invalid markup fragment: %w", err)
	}
	root := doc.Root()
	tokens := make([]etree.Token, len(root.Child))
	copy(tokens, root.Child)
	return tokens, nil
}

// AppendMarkup parses a markup string and attaches its content as
// children of parent.
func AppendMarkup(parent *etree.Element, markup string) error {
	tokens, err := ParseFragment(markup)
	if err != nil {
		return err
	}
	for _, tok := range tokens {
		parent.AddChild(tok)
	}
	return nil
}
