package xmldoc

import (
	"strings"
	"testing"

	"github.com/beevik/etree"
)

func parseElement(t *testing.T, src string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromString(src); err != nil {
		t.Fatalf("ReadFromString(%q): %v", src, err)
	}
	return doc.Root()
}

func TestDumpChildren(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			"single paragraph",
			"<description><p>Hello.</p></description>",
			"<p>Hello.</p>",
		},
		{
			"mixed inline markup preserved in order",
			"<description><p>Use <code>--force</code> with <em>care</em>.</p></description>",
			"<p>Use <code>--force</code> with <em>care</em>.</p>",
		},
		{
			"multiple blocks",
			"<description><p>One.</p><ul><li>a</li><li>b</li></ul></description>",
			"<p>One.</p><ul><li>a</li><li>b</li></ul>",
		},
		{
			"bare text escaped",
			"<description>5 &gt; 4 &amp; 3 &lt; 4</description>",
			"5 &gt; 4 &amp; 3 &lt; 4",
		},
		{
			"empty element",
			"<description></description>",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := parseElement(t, tt.src)
			if got := DumpChildren(el); got != tt.want {
				t.Errorf("DumpChildren() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAppendMarkup(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		parent := etree.NewElement("description")
		markup := "<p>Fixed <em>many</em> bugs.</p><ul><li>one</li></ul>"
		if err := AppendMarkup(parent, markup); err != nil {
			t.Fatalf("AppendMarkup: %v", err)
		}
		if got := DumpChildren(parent); got != markup {
			t.Errorf("round trip = %q, want %q", got, markup)
		}
	})

	t.Run("malformed markup rejected", func(t *testing.T) {
		parent := etree.NewElement("description")
		if err := AppendMarkup(parent, "<p>unterminated"); err == nil {
			t.Error("AppendMarkup accepted unterminated markup")
		}
	})

	t.Run("plain text fragment", func(t *testing.T) {
		parent := etree.NewElement("description")
		if err := AppendMarkup(parent, "plain words"); err != nil {
			t.Fatalf("AppendMarkup: %v", err)
		}
		if got := parent.Text(); got != "plain words" {
			t.Errorf("Text() = %q", got)
		}
	})
}

func TestParseDocument(t *testing.T) {
	doc, err := Parse([]byte(`<?xml version="1.0"?><releases><release version="1.0"/></releases>`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Root().Tag != "releases" {
		t.Errorf("root tag = %q", doc.Root().Tag)
	}

	if _, err := Parse([]byte("<unclosed")); err == nil {
		t.Error("Parse accepted a malformed document")
	}
	if _, err := Parse([]byte("   ")); err == nil {
		t.Error("Parse accepted a document with no root")
	}
}

func TestSerializeIndent(t *testing.T) {
	doc := NewDocument()
	root := doc.CreateElement("releases")
	rel := root.CreateElement("release")
	rel.CreateAttr("version", "1.0")

	out, err := Serialize(doc, 2)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Errorf("missing declaration: %s", s)
	}
	if !strings.Contains(s, "\n  <release") {
		t.Errorf("expected indented release element: %s", s)
	}
}
