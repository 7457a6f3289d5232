package ops

import (
	stderrors "errors"
	"log/slog"

	"github.com/carlosdem/appstream/internal/config"
	"github.com/carlosdem/appstream/internal/errors"
	"github.com/carlosdem/appstream/internal/metadata"
)

// ValidateInput contains parameters for the Validate operation.
type ValidateInput struct {
	Path   string // document to check, required
	Format string // source format, empty = detect
	Style  string // source style, empty = conventional for the format
}

// ValidateOutput contains the result of the Validate operation. Valid
// means the document parsed and no data was dropped along the way;
// informational notices (unknown keys) do not fail a document.
type ValidateOutput struct {
	Path     string            `json:"path"`
	Format   string            `json:"format,omitempty"`
	Valid    bool              `json:"valid"`
	Releases int               `json:"releases"`
	Warnings int               `json:"warnings"`
	Notices  []metadata.Notice `json:"notices,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// Validate loads a release document with a collecting diagnostics
// handler and reports what the parser had to complain about. Content
// problems land in the output; only an unreadable path is an error.
func Validate(cfg *config.Config, input ValidateInput) (*ValidateOutput, error) {
	if input.Path == "" {
		return nil, errors.NewInvalidRequest("path is required")
	}

	data, err := readDocument(input.Path, cfg)
	if err != nil {
		return nil, err
	}

	format, err := resolveFormat(input.Format, input.Path, data)
	if err != nil {
		// A bad format name is a usage error; an undetectable document
		// is a verdict.
		if input.Format != "" {
			return nil, err
		}
		return &ValidateOutput{Path: input.Path, Error: messageOf(err)}, nil
	}

	style, err := resolveStyle(input.Style, format, cfg)
	if err != nil {
		return nil, err
	}

	rec := metadata.NewRecorder()
	rels, err := loadReleases(data, format, style, input.Path, "", "", rec.Logger())
	if err != nil {
		return &ValidateOutput{
			Path:   input.Path,
			Format: format.String(),
			Error:  messageOf(err),
		}, nil
	}

	warnings := rec.CountAtLeast(slog.LevelWarn)
	return &ValidateOutput{
		Path:     input.Path,
		Format:   format.String(),
		Valid:    warnings == 0,
		Releases: rels.Len(),
		Warnings: warnings,
		Notices:  rec.Notices(),
	}, nil
}

// messageOf extracts the bare message from a structured error, falling
// back to the error string.
func messageOf(err error) string {
	var me *errors.MetaError
	if stderrors.As(err, &me) {
		return me.Message
	}
	return err.Error()
}
