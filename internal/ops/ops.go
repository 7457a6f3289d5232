// Package ops implements the operations behind the CLI and the MCP
// tools. Every operation takes the resolved configuration plus an
// Input struct, works on release documents on disk, and returns an
// Output struct that serializes cleanly to JSON. Documents are loaded
// with the ALL locale so no translation is lost between formats.
package ops

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/carlosdem/appstream/internal/config"
	"github.com/carlosdem/appstream/internal/errors"
	"github.com/carlosdem/appstream/internal/metadata"
	"github.com/carlosdem/appstream/internal/release"
)

// formatFromExt maps a path extension to a document format, returning
// FormatUnknown when the extension names neither.
func formatFromExt(path string) metadata.FormatKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return metadata.FormatXML
	case ".yml", ".yaml":
		return metadata.FormatYAML
	}
	return metadata.FormatUnknown
}

// DetectFormat determines a document's format from its path extension,
// falling back to content sniffing. A document whose first non-blank
// byte is '<' is XML; anything else non-empty is treated as YAML.
func DetectFormat(path string, data []byte) (metadata.FormatKind, error) {
	if format := formatFromExt(path); format != metadata.FormatUnknown {
		return format, nil
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return metadata.FormatUnknown, errors.NewUnsupportedFormat("empty document")
	}
	if trimmed[0] == '<' {
		return metadata.FormatXML, nil
	}
	return metadata.FormatYAML, nil
}

// resolveFormat returns the format named by the user, or detects it
// from the path and content when the name is empty.
func resolveFormat(name, path string, data []byte) (metadata.FormatKind, error) {
	if name == "" {
		return DetectFormat(path, data)
	}
	format := metadata.FormatFromString(name)
	if format == metadata.FormatUnknown {
		return format, errors.NewUnsupportedFormat(fmt.Sprintf("%q (want xml or yaml)", name))
	}
	return format, nil
}

// resolveStyle returns the style named by the user or configured as
// the default, falling back to the conventional style for the format:
// metainfo for XML documents, catalog for YAML, which only exists in
// catalog data.
func resolveStyle(name string, format metadata.FormatKind, cfg *config.Config) (metadata.FormatStyle, error) {
	if name == "" && cfg != nil {
		name = cfg.DefaultStyle
	}
	if name != "" {
		style := metadata.StyleFromString(name)
		if style == metadata.StyleUnknown {
			return style, errors.NewInvalidRequest(fmt.Sprintf("unknown style %q (want metainfo or catalog)", name))
		}
		return style, nil
	}
	if format == metadata.FormatYAML {
		return metadata.StyleCatalog, nil
	}
	return metadata.StyleMetainfo, nil
}

// resolveIndent maps the config knob onto the serializer contract:
// zero means the built-in default, negative means compact output.
func resolveIndent(cfg *config.Config) int {
	indent := config.DefaultConfig().PrettyIndent
	if cfg != nil && cfg.PrettyIndent != 0 {
		indent = cfg.PrettyIndent
	}
	if indent < 0 {
		return 0
	}
	return indent
}

// maxDocumentBytes returns the configured document size limit.
func maxDocumentBytes(cfg *config.Config) int64 {
	if cfg != nil && cfg.MaxDocumentBytes > 0 {
		return cfg.MaxDocumentBytes
	}
	return config.DefaultConfig().MaxDocumentBytes
}

// readDocument validates the path and reads the file, enforcing the
// configured document size limit.
func readDocument(path string, cfg *config.Config) ([]byte, error) {
	if err := ValidatePath(path, PathCheckRead, cfg); err != nil {
		return nil, err
	}

	f, err := openFileNoFollowRead(path)
	if err != nil {
		var me *errors.MetaError
		if stderrors.As(err, &me) {
			return nil, err
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open %s: %w", path, err))
	}
	defer f.Close()

	limit := maxDocumentBytes(cfg)
	info, err := f.Stat()
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	if info.Size() > limit {
		return nil, errors.NewDocumentTooLarge(limit, info.Size())
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return data, nil
}

// writeDocument validates the path and writes data through a temp file
// plus rename so a failed write never clobbers an existing document.
func writeDocument(path string, data []byte, cfg *config.Config) error {
	if err := ValidatePath(path, PathCheckWrite, cfg); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to create output directory: %w", err))
	}

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := path + "." + hex.EncodeToString(randBytes) + ".tmp"
	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		var me *errors.MetaError
		if stderrors.As(err, &me) {
			return err
		}
		return errors.NewInternal(fmt.Errorf("failed to create output file: %w", err))
	}

	// Clean up the temp file on failure; the original file is preserved.
	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	if _, err := file.Write(data); err != nil {
		return errors.NewInternal(err)
	}
	if err := file.Sync(); err != nil {
		return errors.NewInternal(err)
	}

	// Close before the rename (required on Windows; fine elsewhere).
	if err := file.Close(); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to close output file: %w", err))
	}
	file = nil

	// os.Rename would follow a symlink destination.
	if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return errors.NewInvalidRequest("output path must not be a symlink")
	}

	// On Windows os.Rename fails when the destination exists. Fail
	// safely, keeping the existing file, instead of a non-atomic
	// delete+rename that could lose it.
	if err := os.Rename(tempPath, path); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(path); statErr == nil {
				return errors.NewInvalidRequest("output destination already exists; overwriting is not supported on Windows yet (choose a new path or delete the existing file)")
			}
		}
		return errors.NewInternal(fmt.Errorf("failed to finalize output: %w", err))
	}

	success = true
	return nil
}

// loadReleases parses document data into a release container. An empty
// locale loads every translation so later emission is lossless.
func loadReleases(data []byte, format metadata.FormatKind, style metadata.FormatStyle, path, locale, mediaBaseURL string, logger *slog.Logger) (*release.Releases, error) {
	ctx := metadata.NewContext(style)
	ctx.Locale = "ALL"
	if locale != "" {
		ctx.Locale = locale
	}
	ctx.Filename = path
	ctx.MediaBaseURL = mediaBaseURL
	ctx.Logger = logger

	var rels *release.Releases
	var err error
	switch format {
	case metadata.FormatXML:
		rels, err = release.LoadDocumentXML(ctx, data)
	case metadata.FormatYAML:
		rels, err = release.LoadDocumentYAML(ctx, data)
	default:
		return nil, errors.NewUnsupportedFormat("document format could not be determined")
	}
	if err != nil {
		return nil, errors.NewParseFailed(format.String(), err)
	}
	return rels, nil
}

// emitReleases serializes a release container in the given format and
// style, carrying every loaded translation through.
func emitReleases(rels *release.Releases, format metadata.FormatKind, style metadata.FormatStyle, indent int) ([]byte, error) {
	ctx := metadata.NewContext(style)
	ctx.Locale = "ALL"

	var data []byte
	var err error
	switch format {
	case metadata.FormatXML:
		data, err = rels.DocumentXML(ctx, indent)
	case metadata.FormatYAML:
		data, err = rels.DocumentYAML(ctx, indent)
	default:
		return nil, errors.NewUnsupportedFormat("document format could not be determined")
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return data, nil
}
