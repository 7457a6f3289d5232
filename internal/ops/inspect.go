package ops

import (
	"github.com/carlosdem/appstream/internal/config"
	"github.com/carlosdem/appstream/internal/errors"
	"github.com/carlosdem/appstream/internal/release"
)

// InspectInput contains parameters for the Inspect operation.
type InspectInput struct {
	Path    string // document to summarize, required
	Format  string // source format, empty = detect
	Style   string // source style, empty = conventional for the format
	Version string // select a single release by version
	Locale  string // display locale for descriptions, empty = config default
}

// InspectOutput contains the result of the Inspect operation.
type InspectOutput struct {
	Path     string           `json:"path"`
	Format   string           `json:"format"`
	Kind     string           `json:"kind"`
	URL      string           `json:"url,omitempty"`
	Releases []ReleaseSummary `json:"releases"`
}

// ReleaseSummary is the per-release digest produced by Inspect.
type ReleaseSummary struct {
	Version     string   `json:"version"`
	Kind        string   `json:"kind"`
	Date        string   `json:"date,omitempty"`
	Timestamp   int64    `json:"timestamp,omitempty"`
	DateEOL     string   `json:"date_eol,omitempty"`
	Urgency     string   `json:"urgency,omitempty"`
	Locales     []string `json:"locales,omitempty"`
	Issues      int      `json:"issues"`
	Artifacts   int      `json:"artifacts"`
	Description string   `json:"description,omitempty"`
}

// Inspect loads a release document and summarizes its entries in
// document order. A version argument narrows the output to that one
// release.
func Inspect(cfg *config.Config, input InspectInput) (*InspectOutput, error) {
	if input.Path == "" {
		return nil, errors.NewInvalidRequest("path is required")
	}

	data, err := readDocument(input.Path, cfg)
	if err != nil {
		return nil, err
	}

	format, err := resolveFormat(input.Format, input.Path, data)
	if err != nil {
		return nil, err
	}
	style, err := resolveStyle(input.Style, format, cfg)
	if err != nil {
		return nil, err
	}

	rels, err := loadReleases(data, format, style, input.Path, "", "", nil)
	if err != nil {
		return nil, err
	}

	// Documents load with every translation; the display locale only
	// picks which description the summaries show.
	locale := input.Locale
	if locale == "" && cfg != nil {
		locale = cfg.DefaultLocale
	}
	if locale != "" {
		rels.Context().Locale = locale
	}

	out := &InspectOutput{
		Path:   input.Path,
		Format: format.String(),
		Kind:   rels.Kind().String(),
		URL:    rels.URL(),
	}

	if input.Version != "" {
		for _, rel := range rels.Entries() {
			if rel.Version() == input.Version {
				out.Releases = []ReleaseSummary{summarize(rel)}
				return out, nil
			}
		}
		return nil, errors.NewReleaseNotFound(input.Version)
	}

	out.Releases = make([]ReleaseSummary, 0, rels.Len())
	for _, rel := range rels.Entries() {
		out.Releases = append(out.Releases, summarize(rel))
	}
	return out, nil
}

// summarize digests one release. The date is the ISO 8601 rendering of
// the timestamp when one is known, otherwise the verbatim date string.
func summarize(rel *release.Release) ReleaseSummary {
	sum := ReleaseSummary{
		Version:   rel.Version(),
		Kind:      rel.Kind().String(),
		Timestamp: rel.Timestamp(),
		DateEOL:   rel.DateEOL(),
		Issues:    len(rel.Issues()),
		Artifacts: len(rel.Artifacts()),
	}
	if ts := rel.Timestamp(); ts > 0 {
		sum.Date = release.FormatISO8601(ts)
	} else {
		sum.Date = rel.Date()
	}
	if u := rel.Urgency(); u != release.UrgencyUnknown {
		sum.Urgency = u.String()
	}
	if table := rel.DescriptionTable(); len(table) > 0 {
		sum.Locales = table.Locales()
	}
	if md, err := rel.DescriptionMarkdown(); err == nil {
		sum.Description = md
	}
	return sum
}
