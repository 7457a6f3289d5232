package metadata

import (
	"strings"

	"golang.org/x/text/language"
)

// StripEncoding removes the codeset part of a POSIX locale name while
// keeping any modifier: "de_DE.UTF-8" becomes "de_DE" and
// "ca_ES.UTF-8@valencia" becomes "ca_ES@valencia".
func StripEncoding(locale string) string {
	dot := strings.IndexByte(locale, '.')
	if dot < 0 {
		return locale
	}
	at := strings.IndexByte(locale[dot:], '@')
	if at < 0 {
		return locale[:dot]
	}
	return locale[:dot] + locale[dot+at:]
}

// LanguageOf reduces a locale tag to its bare language subtag: "de"
// for "de_DE.UTF-8". The sentinels "C" and "POSIX" and the empty
// string pass through unchanged.
func LanguageOf(locale string) string {
	locale = StripEncoding(locale)
	if locale == "" || locale == "C" || locale == "POSIX" {
		return locale
	}
	if tag, err := language.Parse(locale); err == nil {
		base, conf := tag.Base()
		if conf != language.No {
			return base.String()
		}
	}
	// Not a parseable BCP 47 tag; cut at the first separator.
	if idx := strings.IndexAny(locale, "_-@"); idx >= 0 {
		return locale[:idx]
	}
	return locale
}

// LocaleCompatible reports whether a value tagged with locale should
// be accepted under the context's locale policy. Untranslated values
// ("C", "POSIX", empty) are always accepted; everything is accepted
// when the context locale is "ALL"; a context locale of "C" accepts
// only untranslated values; otherwise the language subtags must match,
// so a "de_DE" context accepts "de" and "de_CH" values.
func LocaleCompatible(ctx *Context, locale string) bool {
	if ctx == nil || ctx.AllLocaleEnabled() {
		return true
	}
	locale = StripEncoding(locale)
	if locale == "" || locale == "C" || locale == "POSIX" {
		return true
	}
	want := ctx.DisplayLocale()
	if want == "C" {
		return false
	}
	return LanguageOf(want) == LanguageOf(locale)
}
