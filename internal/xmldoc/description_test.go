package xmldoc

import (
	"log/slog"
	"testing"

	"github.com/beevik/etree"

	"github.com/carlosdem/appstream/internal/metadata"
)

func testCtx(style metadata.FormatStyle, locale string) (*metadata.Context, *metadata.Recorder) {
	rec := metadata.NewRecorder()
	ctx := metadata.NewContext(style)
	ctx.Locale = locale
	ctx.Logger = rec.Logger()
	return ctx, rec
}

func TestNodeLocale(t *testing.T) {
	all, _ := testCtx(metadata.StyleMetainfo, "ALL")
	untranslated, _ := testCtx(metadata.StyleMetainfo, "C")

	tests := []struct {
		name string
		ctx  *metadata.Context
		src  string
		want string
	}{
		{"untagged is untranslated", all, "<p>hi</p>", "C"},
		{"tagged kept under ALL", all, `<p xml:lang="de">hallo</p>`, "de"},
		{"tagged filtered under C", untranslated, `<p xml:lang="de">hallo</p>`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := parseElement(t, tt.src)
			if got := NodeLocale(tt.ctx, el); got != tt.want {
				t.Errorf("NodeLocale() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseMetainfoDescription(t *testing.T) {
	t.Run("fused paragraphs and lists", func(t *testing.T) {
		ctx, _ := testCtx(metadata.StyleMetainfo, "ALL")
		el := parseElement(t, `<description>`+
			`<p>First.</p>`+
			`<p xml:lang="de">Erste.</p>`+
			`<ul><li>one</li><li xml:lang="de">eins</li><li>two</li></ul>`+
			`</description>`)

		table := metadata.LocalizedText{}
		ParseMetainfoDescription(ctx, el, table)

		wantC := "<p>First.</p><ul><li>one</li><li>two</li></ul>"
		wantDE := "<p>Erste.</p><ul><li>eins</li></ul>"
		if table["C"] != wantC {
			t.Errorf("C = %q, want %q", table["C"], wantC)
		}
		if table["de"] != wantDE {
			t.Errorf("de = %q, want %q", table["de"], wantDE)
		}
	})

	t.Run("items inherit the list tag", func(t *testing.T) {
		ctx, _ := testCtx(metadata.StyleMetainfo, "ALL")
		el := parseElement(t, `<description>`+
			`<ul xml:lang="fr"><li>un</li><li xml:lang="de">eins</li></ul>`+
			`</description>`)

		table := metadata.LocalizedText{}
		ParseMetainfoDescription(ctx, el, table)

		if got := table["fr"]; got != "<ul><li>un</li></ul>" {
			t.Errorf("fr = %q", got)
		}
		if got := table["de"]; got != "<ul><li>eins</li></ul>" {
			t.Errorf("de = %q", got)
		}
	})

	t.Run("translations filtered under C locale", func(t *testing.T) {
		ctx, _ := testCtx(metadata.StyleMetainfo, "C")
		el := parseElement(t, `<description>`+
			`<p>First.</p>`+
			`<p xml:lang="de">Erste.</p>`+
			`</description>`)

		table := metadata.LocalizedText{}
		ParseMetainfoDescription(ctx, el, table)

		if len(table) != 1 || table["C"] != "<p>First.</p>" {
			t.Errorf("table = %v", table)
		}
	})

	t.Run("unknown elements noted and skipped", func(t *testing.T) {
		ctx, rec := testCtx(metadata.StyleMetainfo, "ALL")
		el := parseElement(t, `<description><blockquote>no</blockquote><p>ok</p></description>`)

		table := metadata.LocalizedText{}
		ParseMetainfoDescription(ctx, el, table)

		if table["C"] != "<p>ok</p>" {
			t.Errorf("C = %q", table["C"])
		}
		if len(rec.Notices()) != 1 {
			t.Fatalf("notices = %v", rec.Notices())
		}
	})
}

func TestEmitDescriptionCatalog(t *testing.T) {
	t.Run("one node per locale", func(t *testing.T) {
		ctx, _ := testCtx(metadata.StyleCatalog, "ALL")
		table := metadata.LocalizedText{
			"C":  "<p>Hello.</p>",
			"de": "<p>Hallo.</p>",
		}
		parent := etree.NewElement("release")
		EmitDescription(ctx, parent, table, true)

		descs := parent.SelectElements("description")
		if len(descs) != 2 {
			t.Fatalf("got %d description nodes", len(descs))
		}
		if lang := descs[0].SelectAttrValue("xml:lang", ""); lang != "" {
			t.Errorf("first node xml:lang = %q, want none", lang)
		}
		if got := DumpChildren(descs[0]); got != "<p>Hello.</p>" {
			t.Errorf("first node = %q", got)
		}
		if lang := descs[1].SelectAttrValue("xml:lang", ""); lang != "de" {
			t.Errorf("second node xml:lang = %q", lang)
		}
		if got := DumpChildren(descs[1]); got != "<p>Hallo.</p>" {
			t.Errorf("second node = %q", got)
		}
	})

	t.Run("unparseable markup kept as text", func(t *testing.T) {
		ctx, rec := testCtx(metadata.StyleCatalog, "ALL")
		table := metadata.LocalizedText{"C": "<p>unterminated"}
		parent := etree.NewElement("release")
		EmitDescription(ctx, parent, table, true)

		desc := parent.SelectElement("description")
		if desc == nil {
			t.Fatal("no description node")
		}
		if desc.Text() != "<p>unterminated" {
			t.Errorf("Text() = %q", desc.Text())
		}
		if rec.CountAtLeast(slog.LevelWarn) == 0 {
			t.Error("expected a warning notice")
		}
	})

	t.Run("empty table writes nothing", func(t *testing.T) {
		ctx, _ := testCtx(metadata.StyleCatalog, "ALL")
		parent := etree.NewElement("release")
		EmitDescription(ctx, parent, metadata.LocalizedText{}, true)
		if len(parent.ChildElements()) != 0 {
			t.Errorf("expected no children, got %d", len(parent.ChildElements()))
		}
	})
}

func TestEmitDescriptionMetainfo(t *testing.T) {
	t.Run("fused node round trips", func(t *testing.T) {
		ctx, _ := testCtx(metadata.StyleMetainfo, "ALL")
		table := metadata.LocalizedText{
			"C":  "<p>One.</p><ul><li>a</li></ul>",
			"de": "<p>Eins.</p>",
		}
		parent := etree.NewElement("component")
		EmitDescription(ctx, parent, table, true)

		desc := parent.SelectElement("description")
		if desc == nil {
			t.Fatal("no description node")
		}
		blocks := desc.ChildElements()
		if len(blocks) != 3 {
			t.Fatalf("got %d blocks", len(blocks))
		}
		if blocks[0].Tag != "p" || blocks[0].SelectAttr("xml:lang") != nil {
			t.Errorf("block 0 = <%s>, lang %v", blocks[0].Tag, blocks[0].SelectAttr("xml:lang"))
		}
		if blocks[1].Tag != "ul" || blocks[1].SelectAttr("xml:lang") != nil {
			t.Errorf("block 1 = <%s>", blocks[1].Tag)
		}
		if blocks[2].Tag != "p" || blocks[2].SelectAttrValue("xml:lang", "") != "de" {
			t.Errorf("block 2 = <%s xml:lang=%q>", blocks[2].Tag, blocks[2].SelectAttrValue("xml:lang", ""))
		}

		got := metadata.LocalizedText{}
		ParseMetainfoDescription(ctx, desc, got)
		if got["C"] != table["C"] || got["de"] != table["de"] {
			t.Errorf("round trip = %v, want %v", got, table)
		}
	})

	t.Run("empty translatable table writes nothing", func(t *testing.T) {
		ctx, _ := testCtx(metadata.StyleMetainfo, "ALL")
		parent := etree.NewElement("component")
		EmitDescription(ctx, parent, metadata.LocalizedText{}, true)
		if len(parent.ChildElements()) != 0 {
			t.Errorf("expected no children, got %d", len(parent.ChildElements()))
		}
	})

	t.Run("untranslatable flag survives an empty table", func(t *testing.T) {
		ctx, _ := testCtx(metadata.StyleMetainfo, "ALL")
		parent := etree.NewElement("component")
		EmitDescription(ctx, parent, metadata.LocalizedText{}, false)

		desc := parent.SelectElement("description")
		if desc == nil {
			t.Fatal("no description node")
		}
		if desc.SelectAttrValue("translatable", "") != "no" {
			t.Errorf("translatable = %q", desc.SelectAttrValue("translatable", ""))
		}
	})
}
