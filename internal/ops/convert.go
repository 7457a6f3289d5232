package ops

import (
	"fmt"

	"github.com/carlosdem/appstream/internal/config"
	"github.com/carlosdem/appstream/internal/errors"
	"github.com/carlosdem/appstream/internal/metadata"
)

// ConvertInput contains parameters for the Convert operation.
type ConvertInput struct {
	Path         string // source document, required
	Output       string // destination path; empty returns the document inline
	From         string // source format, empty = detect from path and content
	To           string // target format, empty = taken from the output path
	Style        string // source style, empty = conventional for the source format
	TargetStyle  string // target style, empty = conventional for the target format
	Locale       string // load locale filter, empty = keep all translations
	MediaBaseURL string // base URL for resolving relative media references
}

// ConvertOutput contains the result of the Convert operation.
type ConvertOutput struct {
	Path     string `json:"path,omitempty"`
	Format   string `json:"format"`
	Style    string `json:"style"`
	Releases int    `json:"releases"`
	Document string `json:"document,omitempty"`
}

// Convert reads a release document, re-expresses it in the requested
// format and style, and writes it to the output path or returns it
// inline. Translations survive the trip unless a locale filter is set.
func Convert(cfg *config.Config, input ConvertInput) (*ConvertOutput, error) {
	if input.Path == "" {
		return nil, errors.NewInvalidRequest("path is required")
	}

	data, err := readDocument(input.Path, cfg)
	if err != nil {
		return nil, err
	}

	from, err := resolveFormat(input.From, input.Path, data)
	if err != nil {
		return nil, err
	}
	fromStyle, err := resolveStyle(input.Style, from, cfg)
	if err != nil {
		return nil, err
	}

	to, err := targetFormat(input.To, input.Output)
	if err != nil {
		return nil, err
	}
	toStyle, err := resolveStyle(input.TargetStyle, to, cfg)
	if err != nil {
		return nil, err
	}

	mediaBaseURL := input.MediaBaseURL
	if mediaBaseURL == "" && cfg != nil {
		mediaBaseURL = cfg.MediaBaseURL
	}

	rels, err := loadReleases(data, from, fromStyle, input.Path, input.Locale, mediaBaseURL, nil)
	if err != nil {
		return nil, err
	}

	out, err := emitReleases(rels, to, toStyle, resolveIndent(cfg))
	if err != nil {
		return nil, err
	}

	result := &ConvertOutput{
		Format:   to.String(),
		Style:    toStyle.String(),
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

// targetFormat resolves the conversion target: an explicit format name
// wins, otherwise the output path extension decides.
func targetFormat(name, output string) (metadata.FormatKind, error) {
	if name != "" {
		format := metadata.FormatFromString(name)
		if format == metadata.FormatUnknown {
			return format, errors.NewUnsupportedFormat(fmt.Sprintf("%q (want xml or yaml)", name))
		}
		return format, nil
	}
	if format := formatFromExt(output); format != metadata.FormatUnknown {
		return format, nil
	}
	return metadata.FormatUnknown, errors.NewInvalidRequest("target format is required when the output path does not name one")
}
