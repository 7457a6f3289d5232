package ops

import (
	"path/filepath"
	"testing"

	"github.com/carlosdem/appstream/internal/errors"
)

func TestValidateCleanDocument(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := testConfig(tmpDir)
	path := writeTestDoc(t, tmpDir, "releases.xml", sampleXML)

	out, err := Validate(cfg, ValidateInput{Path: path})
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	if !out.Valid {
		t.Errorf("Valid = false, notices: %+v", out.Notices)
	}
	if out.Releases != 2 {
		t.Errorf("Releases = %d, want 2", out.Releases)
	}
	if out.Warnings != 0 {
		t.Errorf("Warnings = %d, want 0", out.Warnings)
	}
	if out.Format != "xml" {
		t.Errorf("Format = %q, want xml", out.Format)
	}
}

func TestValidateDroppedChildren(t *testing.T) {
	const damaged = `<releases>
  <release type="stable" version="1.0" timestamp="oops">
    <issues>
      <issue url="https://bugs.example.org/9"/>
    </issues>
  </release>
</releases>
`
	tmpDir := t.TempDir()
	cfg := testConfig(tmpDir)
	path := writeTestDoc(t, tmpDir, "releases.xml", damaged)

	out, err := Validate(cfg, ValidateInput{Path: path})
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	if out.Valid {
		t.Error("Valid = true for document with dropped data")
	}
	if out.Releases != 1 {
		t.Errorf("Releases = %d, want 1", out.Releases)
	}
	// One warning for the unparseable timestamp, one for the id-less
	// issue entry.
	if out.Warnings < 2 {
		t.Errorf("Warnings = %d, want at least 2", out.Warnings)
	}
	if len(out.Notices) < 2 {
		t.Errorf("Notices = %+v, want at least 2 entries", out.Notices)
	}
}

func TestValidateUnknownKeyIsInformational(t *testing.T) {
	const odd = `Releases:
- version: "1.0"
  type: stable
  flavour: cherry
`
	tmpDir := t.TempDir()
	cfg := testConfig(tmpDir)
	path := writeTestDoc(t, tmpDir, "releases.yml", odd)

	out, err := Validate(cfg, ValidateInput{Path: path})
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	if !out.Valid {
		t.Errorf("Valid = false, unknown keys should not fail a document; notices: %+v", out.Notices)
	}
	if out.Warnings != 0 {
		t.Errorf("Warnings = %d, want 0", out.Warnings)
	}

	found := false
	for _, n := range out.Notices {
		if n.Message == "unknown release key" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an unknown release key notice, got: %+v", out.Notices)
	}
}

func TestValidateStructuralError(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"malformed xml", "bad.xml", "<releases><release"},
		{"wrong root", "bad.xml", "<components/>"},
		{"yaml scalar document", "bad.yml", `"just a string"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			cfg := testConfig(tmpDir)
			path := writeTestDoc(t, tmpDir, tt.file, tt.content)

			out, err := Validate(cfg, ValidateInput{Path: path})
			if err != nil {
				t.Fatalf("Validate() error: %v", err)
			}
			if out.Valid {
				t.Error("Valid = true for structurally broken document")
			}
			if out.Error == "" {
				t.Error("Error is empty for structurally broken document")
			}
		})
	}
}

func TestValidateEmptyDocument(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := testConfig(tmpDir)
	// A .md path skips extension-based detection, so the empty content
	// is what fails.
	path := writeTestDoc(t, tmpDir, "empty.md", "")

	out, err := Validate(cfg, ValidateInput{Path: path})
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if out.Valid {
		t.Error("Valid = true for empty document")
	}
	if out.Error == "" {
		t.Error("Error is empty for empty document")
	}
}

func TestValidateForcedBadFormatIsUsageError(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := testConfig(tmpDir)
	path := writeTestDoc(t, tmpDir, "releases.xml", sampleXML)

	_, err := Validate(cfg, ValidateInput{Path: path, Format: "jsonx"})
	if err == nil {
		t.Fatal("expected error for bogus format name, got nil")
	}
	if !errors.Is(err, errors.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got: %v", err)
	}
}

func TestValidateMissingPath(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := testConfig(tmpDir)

	if _, err := Validate(cfg, ValidateInput{}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest for empty path, got: %v", err)
	}

	_, err := Validate(cfg, ValidateInput{Path: filepath.Join(tmpDir, "absent.xml")})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing file, got: %v", err)
	}
}
