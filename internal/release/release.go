// Package release models software release metadata records: a version
// with its timing, urgency, localized description, resolved issues and
// downloadable artifacts, plus the container grouping the releases of
// one component. Records convert losslessly between an XML dialect and
// the DEP-11 YAML dialect, each in a compact catalog or a verbose
// metainfo style.
package release

import (
	"github.com/carlosdem/appstream/internal/metadata"
	"github.com/carlosdem/appstream/internal/vercmp"
	"github.com/carlosdem/appstream/internal/xmldoc"
)

// Release describes a single upstream release of a software component.
// The timestamp and date fields are two views of the same instant and
// are kept in sync by the mutators; a timestamp of 0 means unset. The
// end-of-life date is stored only as a string, its numeric form is
// derived on demand.
type Release struct {
	kind         Kind
	version      string
	description  metadata.LocalizedText
	timestamp    int64
	date         string
	dateEOL      string
	urgency      Urgency
	urlDetails   string
	translatable bool
	issues       []*Issue
	artifacts    []*Artifact
	ctx          *metadata.Context
}

// New creates an empty release. Releases are assumed stable and their
// descriptions translatable unless marked otherwise.
func New() *Release {
	return &Release{
		kind:         KindStable,
		description:  metadata.LocalizedText{},
		translatable: true,
	}
}

// Kind returns the release kind.
func (r *Release) Kind() Kind { return r.kind }

// SetKind sets the release kind.
func (r *Release) SetKind(kind Kind) { r.kind = kind }

// Version returns the release version string, or "" when unset.
func (r *Release) Version() string { return r.version }

// SetVersion sets the release version string.
func (r *Release) SetVersion(version string) { r.version = version }

// CompareVersion compares the version of r against other, returning
// a positive number when r is newer, 0 when both are equal and a
// negative number when r is older.
func (r *Release) CompareVersion(other *Release) int {
	return vercmp.Compare(r.version, other.version)
}

// Timestamp returns the release instant as UNIX seconds, 0 when unset.
func (r *Release) Timestamp() int64 { return r.timestamp }

// SetTimestamp stores the release instant and rewrites the date string
// from it. A timestamp of 0 means unset and leaves the date string
// alone.
func (r *Release) SetTimestamp(ts int64) {
	r.timestamp = ts
	if ts > 0 {
		r.date = FormatISO8601(ts)
	}
}

// Date returns the release date in ISO 8601 form, or "" when unset.
func (r *Release) Date() string { return r.date }

// SetDate parses an ISO 8601 date and stores both the verbatim string
// and the timestamp derived from it. Unparseable input is rejected,
// logged and changes nothing.
func (r *Release) SetDate(date string) {
	t, err := ParseISO8601(date)
	if err != nil {
		r.ctx.Log().Warn("rejecting invalid release date", "date", date)
		return
	}
	r.timestamp = t.Unix()
	r.date = date
}

// DateEOL returns the end-of-life date in ISO 8601 form, or "" when
// unset.
func (r *Release) DateEOL() string { return r.dateEOL }

// SetDateEOL stores the end-of-life date verbatim. The string is not
// validated here; TimestampEOL reports unparseable values when asked.
func (r *Release) SetDateEOL(date string) { r.dateEOL = date }

// TimestampEOL derives the end-of-life instant from the EOL date
// string, parsing it on every call. It returns 0 when the date is
// unset or unparseable.
func (r *Release) TimestampEOL() int64 {
	if r.dateEOL == "" {
		return 0
	}
	t, err := ParseISO8601(r.dateEOL)
	if err != nil {
		r.ctx.Log().Warn("unable to parse end-of-life date", "date_eol", r.dateEOL)
		return 0
	}
	return t.Unix()
}

// SetTimestampEOL formats an end-of-life instant into the EOL date
// string. A timestamp of 0 is ignored; the EOL date cannot be cleared
// this way.
func (r *Release) SetTimestampEOL(ts int64) {
	if ts == 0 {
		return
	}
	r.dateEOL = FormatISO8601(ts)
}

// Urgency returns how important it is to install this release.
func (r *Release) Urgency() Urgency { return r.urgency }

// SetUrgency sets the release urgency.
func (r *Release) SetUrgency(urgency Urgency) { r.urgency = urgency }

// Description returns the description markup for the context's display
// locale, falling back to the untranslated text.
func (r *Release) Description() string {
	return r.description.Get(r.ctx, "")
}

// SetDescription stores description markup for the given locale. An
// empty locale means the context's display locale.
func (r *Release) SetDescription(text, locale string) {
	r.description.Set(r.ctx, locale, text)
}

// DescriptionTable returns the locale table backing the description.
func (r *Release) DescriptionTable() metadata.LocalizedText {
	return r.description
}

// DescriptionMarkdown returns the description for the context's
// display locale as Markdown-flavoured plain text.
func (r *Release) DescriptionMarkdown() (string, error) {
	return xmldoc.MarkupToMarkdown(r.Description())
}

// DescriptionTranslatable reports whether the description is marked
// for translation by translators.
func (r *Release) DescriptionTranslatable() bool { return r.translatable }

// SetDescriptionTranslatable marks the description as translatable or
// not.
func (r *Release) SetDescriptionTranslatable(translatable bool) {
	r.translatable = translatable
}

// URL returns the release URL of the given kind, or "" when unset.
func (r *Release) URL(kind URLKind) string {
	if kind == URLKindDetails {
		return r.urlDetails
	}
	return ""
}

// SetURL sets a release URL of the given kind.
func (r *Release) SetURL(kind URLKind, url string) {
	if kind == URLKindDetails {
		r.urlDetails = url
	}
}

// Issues returns the issues resolved by this release.
func (r *Release) Issues() []*Issue { return r.issues }

// AddIssue records an issue resolved by this release.
func (r *Release) AddIssue(issue *Issue) {
	r.issues = append(r.issues, issue)
}

// Artifacts returns the downloadable artifacts of this release.
func (r *Release) Artifacts() []*Artifact { return r.artifacts }

// AddArtifact records a downloadable artifact of this release.
func (r *Release) AddArtifact(artifact *Artifact) {
	r.artifacts = append(r.artifacts, artifact)
}

// Context returns the document context this release is bound to. It
// may be nil for releases built directly through mutators.
func (r *Release) Context() *metadata.Context { return r.ctx }

// SetContext binds the document context used for locale resolution and
// diagnostics.
func (r *Release) SetContext(ctx *metadata.Context) { r.ctx = ctx }
