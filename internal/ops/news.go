package ops

import (
	"fmt"

	"github.com/carlosdem/appstream/internal/config"
	"github.com/carlosdem/appstream/internal/errors"
	"github.com/carlosdem/appstream/internal/metadata"
	"github.com/carlosdem/appstream/internal/news"
)

// NewsToReleasesInput contains parameters for the NewsToReleases
// operation.
type NewsToReleasesInput struct {
	Path   string // Markdown release notes, required
	Output string // destination path; empty returns the document inline
	Format string // target format, default from the output path, else xml
	Style  string // target style, empty = conventional for the format
}

// NewsToReleasesOutput contains the result of the NewsToReleases
// operation.
type NewsToReleasesOutput struct {
	Path     string `json:"path,omitempty"`
	Format   string `json:"format"`
	Releases int    `json:"releases"`
	Document string `json:"document,omitempty"`
}

// NewsToReleases parses Markdown release notes into a release document.
func NewsToReleases(cfg *config.Config, input NewsToReleasesInput) (*NewsToReleasesOutput, error) {
	if input.Path == "" {
		return nil, errors.NewInvalidRequest("path is required")
	}

	data, err := readDocument(input.Path, cfg)
	if err != nil {
		return nil, err
	}

	rels, err := news.ParseMarkdown(data)
	if err != nil {
		return nil, errors.NewParseFailed("news", err)
	}

	format := metadata.FormatFromString(input.Format)
	if input.Format == "" {
		format = formatFromExt(input.Output)
		if format == metadata.FormatUnknown {
			format = metadata.FormatXML
		}
	} else if format == metadata.FormatUnknown {
		return nil, errors.NewUnsupportedFormat(fmt.Sprintf("%q (want xml or yaml)", input.Format))
	}

	style, err := resolveStyle(input.Style, format, cfg)
	if err != nil {
		return nil, err
	}

	out, err := emitReleases(rels, format, style, resolveIndent(cfg))
	if err != nil {
		return nil, err
	}

	result := &NewsToReleasesOutput{
		Format:   format.String(),
		Releases: rels.Len(),
	}
	if input.Output == "" {
		result.Document = string(out)
		return result, nil
	}
	if err := writeDocument(input.Output, out, cfg); err != nil {
		return nil, err
	}
	result.Path = input.Output
	return result, nil
}

// ReleasesToNewsInput contains parameters for the ReleasesToNews
// operation.
type ReleasesToNewsInput struct {
	Path   string // source release document, required
	Output string // destination path; empty returns the notes inline
	Format string // source format, empty = detect
	Style  string // source style, empty = conventional for the format
	Limit  int    // cap on rendered entries, 0 = all
}

// ReleasesToNewsOutput contains the result of the ReleasesToNews
// operation.
type ReleasesToNewsOutput struct {
	Path     string `json:"path,omitempty"`
	Releases int    `json:"releases"`
	Document string `json:"document,omitempty"`
}

// ReleasesToNews renders a release document as Markdown release notes,
// most recent release first.
func ReleasesToNews(cfg *config.Config, input ReleasesToNewsInput) (*ReleasesToNewsOutput, error) {
	if input.Path == "" {
		return nil, errors.NewInvalidRequest("path is required")
	}
	if input.Limit < 0 {
		return nil, errors.NewInvalidRequest("limit must not be negative")
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

	notes, err := news.WriteMarkdown(rels, input.Limit)
	if err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("cannot render release notes: %v", err))
	}

	rendered := rels.Len()
	if input.Limit > 0 && input.Limit < rendered {
		rendered = input.Limit
	}
	result := &ReleasesToNewsOutput{Releases: rendered}
	if input.Output == "" {
		result.Document = string(notes)
		return result, nil
	}
	if err := writeDocument(input.Output, notes, cfg); err != nil {
		return nil, err
	}
	result.Path = input.Output
	return result, nil
}
