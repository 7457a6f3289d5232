package metadata

import "testing"

func TestStripEncoding(t *testing.T) {
	tests := []struct {
		name   string
		locale string
		want   string
	}{
		{"plain language", "de", "de"},
		{"language and region", "de_DE", "de_DE"},
		{"codeset stripped", "de_DE.UTF-8", "de_DE"},
		{"codeset with modifier", "ca_ES.UTF-8@valencia", "ca_ES@valencia"},
		{"modifier only", "sr@latin", "sr@latin"},
		{"empty", "", ""},
		{"sentinel", "C", "C"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripEncoding(tt.locale); got != tt.want {
				t.Errorf("StripEncoding(%q) = %q, want %q", tt.locale, got, tt.want)
			}
		})
	}
}

func TestLanguageOf(t *testing.T) {
	tests := []struct {
		name   string
		locale string
		want   string
	}{
		{"bare language", "de", "de"},
		{"region dropped", "de_DE", "de"},
		{"codeset and region dropped", "pt_BR.UTF-8", "pt"},
		{"hyphen separator", "fr-CH", "fr"},
		{"modifier dropped", "sr@latin", "sr"},
		{"sentinel C", "C", "C"},
		{"sentinel POSIX", "POSIX", "POSIX"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LanguageOf(tt.locale); got != tt.want {
				t.Errorf("LanguageOf(%q) = %q, want %q", tt.locale, got, tt.want)
			}
		})
	}
}

func TestLocaleCompatible(t *testing.T) {
	tests := []struct {
		name      string
		ctxLocale string
		locale    string
		want      bool
	}{
		{"all keeps everything", "ALL", "ja", true},
		{"untranslated always accepted", "de", "C", true},
		{"empty tag always accepted", "de", "", true},
		{"exact language", "de", "de", true},
		{"region variant accepted", "de_DE", "de_CH", true},
		{"language root accepted", "de_DE", "de", true},
		{"different language rejected", "de", "fr", false},
		{"c context rejects translations", "C", "de", false},
		{"default context rejects translations", "", "de", false},
		{"codeset ignored", "de_DE.UTF-8", "de", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := NewContext(StyleMetainfo)
			ctx.Locale = tt.ctxLocale
			if got := LocaleCompatible(ctx, tt.locale); got != tt.want {
				t.Errorf("LocaleCompatible(ctx %q, %q) = %v, want %v", tt.ctxLocale, tt.locale, got, tt.want)
			}
		})
	}

	t.Run("nil context accepts everything", func(t *testing.T) {
		if !LocaleCompatible(nil, "ja") {
			t.Error("LocaleCompatible(nil, ja) = false, want true")
		}
	})
}

func TestContextDisplayLocale(t *testing.T) {
	ctx := NewContext(StyleCatalog)
	if got := ctx.DisplayLocale(); got != "C" {
		t.Errorf("DisplayLocale() = %q, want %q", got, "C")
	}

	ctx.Locale = "ALL"
	if got := ctx.DisplayLocale(); got != "C" {
		t.Errorf("DisplayLocale() with ALL = %q, want %q", got, "C")
	}
	if !ctx.AllLocaleEnabled() {
		t.Error("AllLocaleEnabled() = false, want true")
	}

	ctx.Locale = "de_DE.UTF-8"
	if got := ctx.DisplayLocale(); got != "de_DE" {
		t.Errorf("DisplayLocale() = %q, want %q", got, "de_DE")
	}
}

func TestContextMediaURL(t *testing.T) {
	ctx := NewContext(StyleCatalog)
	if got := ctx.MediaURL("org/example/releases.xml"); got != "org/example/releases.xml" {
		t.Errorf("MediaURL() without base = %q, want unchanged ref", got)
	}

	ctx.MediaBaseURL = "https://cdn.example.com/pool"
	want := "https://cdn.example.com/pool/org/example/releases.xml"
	if got := ctx.MediaURL("org/example/releases.xml"); got != want {
		t.Errorf("MediaURL() = %q, want %q", got, want)
	}
}
