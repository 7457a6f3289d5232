package ops

import (
	"github.com/carlosdem/appstream/internal/config"
	"github.com/carlosdem/appstream/internal/errors"
)

// SortInput contains parameters for the Sort operation.
type SortInput struct {
	Path   string // document to sort, required
	Output string // destination path; empty rewrites the document in place
	Format string // source format, empty = detect
	Style  string // document style, empty = conventional for the format
}

// SortOutput contains the result of the Sort operation.
type SortOutput struct {
	Path     string   `json:"path"`
	Releases int      `json:"releases"`
	Versions []string `json:"versions"`
}

// Sort orders a release document most recent first and rewrites it in
// the same format and style it was read in.
func Sort(cfg *config.Config, input SortInput) (*SortOutput, error) {
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
	rels.Sort()

	out, err := emitReleases(rels, format, style, resolveIndent(cfg))
	if err != nil {
		return nil, err
	}

	dest := input.Output
	if dest == "" {
		dest = input.Path
	}
	if err := writeDocument(dest, out, cfg); err != nil {
		return nil, err
	}

	versions := make([]string, 0, rels.Len())
	for _, rel := range rels.Entries() {
		versions = append(versions, rel.Version())
	}
	return &SortOutput{
		Path:     dest,
		Releases: rels.Len(),
		Versions: versions,
	}, nil
}
