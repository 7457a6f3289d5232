// Package metadata carries the document-wide state shared by every
// record during one parse or emit pass: the format style, the locale
// policy, and the diagnostics sink. A single Context is shared by many
// sibling records and is treated as read-only by the mappers.
package metadata

import (
	"log/slog"
	"strings"
)

// FormatStyle selects between the two document flavors of the metadata
// format: the compact catalog style used for multi-component
// collections and the verbose metainfo style used for per-application
// descriptor files.
type FormatStyle int

const (
	StyleUnknown FormatStyle = iota
	StyleMetainfo
	StyleCatalog
)

// String returns the lowercase name of the style.
func (s FormatStyle) String() string {
	switch s {
	case StyleMetainfo:
		return "metainfo"
	case StyleCatalog:
		return "catalog"
	}
	return "unknown"
}

// StyleFromString parses a style name. Unrecognized input maps to
// StyleUnknown.
func StyleFromString(s string) FormatStyle {
	switch s {
	case "metainfo":
		return StyleMetainfo
	case "catalog", "collection":
		return StyleCatalog
	}
	return StyleUnknown
}

// FormatKind identifies the serialization format of a document.
type FormatKind int

const (
	FormatUnknown FormatKind = iota
	FormatXML
	FormatYAML
)

// String returns the lowercase name of the format.
func (f FormatKind) String() string {
	switch f {
	case FormatXML:
		return "xml"
	case FormatYAML:
		return "yaml"
	}
	return "unknown"
}

// FormatFromString parses a format name. Unrecognized input maps to
// FormatUnknown.
func FormatFromString(s string) FormatKind {
	switch s {
	case "xml":
		return FormatXML
	case "yaml", "yml":
		return FormatYAML
	}
	return FormatUnknown
}

// Context is the shared state of one metadata document. Mappers read
// it to decide how fields are encoded and where diagnostics go; they
// must never mutate it.
type Context struct {
	// Style is the active document style (catalog or metainfo).
	Style FormatStyle

	// Locale is the display locale used to filter localized values.
	// The sentinel "ALL" keeps every translation; the empty string and
	// "C" both select only untranslated values.
	Locale string

	// Filename names the source document for diagnostics.
	Filename string

	// MediaBaseURL is the base for resolving relative media references
	// in catalog documents.
	MediaBaseURL string

	// Logger receives parse diagnostics. When nil, slog.Default() is
	// used.
	Logger *slog.Logger
}

// NewContext returns a context for the given style with the default
// "C" locale.
func NewContext(style FormatStyle) *Context {
	return &Context{Style: style, Locale: "C"}
}

// AllLocaleEnabled reports whether the context keeps values for every
// locale instead of filtering to one.
func (c *Context) AllLocaleEnabled() bool {
	return c.Locale == "ALL"
}

// DisplayLocale returns the locale used for value lookups: "C" when
// the locale is unset or "ALL", otherwise the configured locale with
// any codeset suffix stripped.
func (c *Context) DisplayLocale() string {
	if c.Locale == "" || c.Locale == "ALL" {
		return "C"
	}
	return StripEncoding(c.Locale)
}

// HasMediaBaseURL reports whether a media base URL is configured.
func (c *Context) HasMediaBaseURL() bool {
	return c.MediaBaseURL != ""
}

// MediaURL joins a relative reference with the media base URL. An
// already absolute reference or a missing base returns ref unchanged.
func (c *Context) MediaURL(ref string) string {
	if !c.HasMediaBaseURL() || ref == "" {
		return ref
	}
	if strings.Contains(ref, "://") {
		return ref
	}
	return c.MediaBaseURL + "/" + ref
}

// Log returns the diagnostics logger, never nil.
func (c *Context) Log() *slog.Logger {
	if c == nil || c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}
