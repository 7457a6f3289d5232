package metadata

import "sort"

// LocalizedText maps a locale tag to a markup string. The key "C"
// holds the untranslated value. Keys are stored with their codeset
// suffix stripped, so "de_DE.UTF-8" and "de_DE" address the same
// entry.
type LocalizedText map[string]string

// Set stores a value for the given locale. An empty locale resolves to
// the context's display locale; an empty value removes the entry.
func (lt LocalizedText) Set(ctx *Context, locale, value string) {
	key := resolveLocale(ctx, locale)
	if value == "" {
		delete(lt, key)
		return
	}
	lt[key] = value
}

// Append concatenates value onto the entry for locale, creating the
// entry if missing. The fused description parser assembles each
// locale's markup block by block through this.
func (lt LocalizedText) Append(locale, value string) {
	if value == "" {
		return
	}
	lt[StripEncoding(locale)] += value
}

// Get returns the value for the given locale, trying the exact locale,
// then its bare language subtag, then the untranslated "C" entry. An
// empty locale resolves to the context's display locale.
func (lt LocalizedText) Get(ctx *Context, locale string) string {
	if len(lt) == 0 {
		return ""
	}
	want := resolveLocale(ctx, locale)
	if v, ok := lt[want]; ok {
		return v
	}
	if lang := LanguageOf(want); lang != want {
		if v, ok := lt[lang]; ok {
			return v
		}
	}
	return lt["C"]
}

// Localized reports whether a translation exists for the given locale,
// via an exact or language-subtag match. The untranslated "C" fallback
// does not count.
func (lt LocalizedText) Localized(ctx *Context, locale string) bool {
	want := resolveLocale(ctx, locale)
	if want == "C" {
		return false
	}
	if _, ok := lt[want]; ok {
		return true
	}
	if lang := LanguageOf(want); lang != want {
		if _, ok := lt[lang]; ok {
			return true
		}
	}
	return false
}

// Locales returns the stored locale keys in byte order, which places
// the untranslated "C" entry before all lowercase language tags.
// Serializers rely on this for deterministic output.
func (lt LocalizedText) Locales() []string {
	keys := make([]string, 0, len(lt))
	for k := range lt {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func resolveLocale(ctx *Context, locale string) string {
	if locale == "" {
		if ctx == nil {
			return "C"
		}
		return ctx.DisplayLocale()
	}
	return StripEncoding(locale)
}
