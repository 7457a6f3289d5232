package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/carlosdem/appstream/internal/config"
	"github.com/carlosdem/appstream/internal/errors"
)

// testSetup creates a config for testing.
func testSetup(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.AllowUnsafePaths = true // Allow temp dirs in tests
	return cfg
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// writeDoc writes a document fixture and returns its path.
func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

const sampleReleasesXML = `<?xml version="1.0" encoding="UTF-8"?>
<releases>
  <release type="stable" version="1.2" timestamp="1700000000" urgency="high">
    <description>
      <p>Bug fixes.</p>
    </description>
    <url>https://example.org/news/1.2.html</url>
    <issues>
      <issue url="https://bugs.example.org/1234">bug#1234</issue>
    </issues>
  </release>
  <release type="development" version="1.1" timestamp="1460412000"/>
</releases>
`

const sampleNewsMarkdown = `## 2.0 (2026-02-01)

Second release.

- Faster startup.
- New exporter.

## 1.0 (2025-01-01)

First release.
`

// TestHandleConvert tests the releases_convert handler.
func TestHandleConvert(t *testing.T) {
	cfg := testSetup(t)
	tmpDir := t.TempDir()
	src := writeDoc(t, tmpDir, "releases.xml", sampleReleasesXML)

	h := NewHandlers(cfg)
	ctx := context.Background()

	tests := []struct {
		name      string
		args      map[string]any
		wantError bool
		errorCode string
	}{
		{
			name: "convert to yaml inline",
			args: map[string]any{
				"path": src,
				"to":   "yaml",
			},
			wantError: false,
		},
		{
			name:      "missing path",
			args:      map[string]any{"to": "yaml"},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
		{
			name: "unknown source format",
			args: map[string]any{
				"path": src,
				"from": "toml",
				"to":   "yaml",
			},
			wantError: true,
			errorCode: "UNSUPPORTED_FORMAT",
		},
		{
			name: "target format required",
			args: map[string]any{
				"path": src,
			},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
		{
			name: "missing file",
			args: map[string]any{
				"path": filepath.Join(tmpDir, "absent.xml"),
				"to":   "yaml",
			},
			wantError: true,
			errorCode: "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := makeRequest(tt.args)
			result, err := h.HandleConvert(ctx, req)

			if err != nil {
				t.Fatalf("handler returned error: %v", err)
			}

			if tt.wantError {
				if !result.IsError {
					t.Errorf("expected error result, got success")
				}
				if tt.errorCode != "" {
					assertErrorCode(t, result, tt.errorCode)
				}
			} else {
				if result.IsError {
					t.Errorf("expected success, got error: %v", extractErrorMessage(result))
				}
			}
		})
	}
}

// TestHandleConvertInline verifies the inline conversion payload.
func TestHandleConvertInline(t *testing.T) {
	cfg := testSetup(t)
	tmpDir := t.TempDir()
	src := writeDoc(t, tmpDir, "releases.xml", sampleReleasesXML)

	h := NewHandlers(cfg)
	result, err := h.HandleConvert(context.Background(), makeRequest(map[string]any{
		"path": src,
		"to":   "yaml",
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	out := parseOutput(t, result)
	if out["format"] != "yaml" {
		t.Errorf("format = %v, want yaml", out["format"])
	}
	if out["style"] != "catalog" {
		t.Errorf("style = %v, want catalog", out["style"])
	}
	if out["releases"] != float64(2) {
		t.Errorf("releases = %v, want 2", out["releases"])
	}
	doc, _ := out["document"].(string)
	if !strings.Contains(doc, "unix-timestamp: 1700000000") {
		t.Errorf("document missing catalog timestamp:\n%s", doc)
	}
}

// TestHandleConvertToFile verifies conversion to an output path.
func TestHandleConvertToFile(t *testing.T) {
	cfg := testSetup(t)
	tmpDir := t.TempDir()
	src := writeDoc(t, tmpDir, "releases.xml", sampleReleasesXML)
	dst := filepath.Join(tmpDir, "releases.yml")

	h := NewHandlers(cfg)
	result, err := h.HandleConvert(context.Background(), makeRequest(map[string]any{
		"path":   src,
		"output": dst,
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	out := parseOutput(t, result)
	if p, _ := out["path"].(string); p == "" {
		t.Error("expected output path in payload")
	}
	if _, ok := out["document"]; ok {
		t.Error("document should be omitted when writing to a file")
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("output file not written: %v", err)
	}
	if !strings.HasPrefix(string(data), "Releases:") {
		t.Errorf("output file is not a catalog YAML document:\n%s", data)
	}
}

// TestHandleValidate tests the releases_validate handler.
func TestHandleValidate(t *testing.T) {
	cfg := testSetup(t)
	tmpDir := t.TempDir()

	clean := writeDoc(t, tmpDir, "clean.xml", sampleReleasesXML)
	broken := writeDoc(t, tmpDir, "broken.xml", `<?xml version="1.0"?>
<releases>
  <release type="stable" version="1.0" timestamp="oops"/>
</releases>
`)
	malformed := writeDoc(t, tmpDir, "malformed.xml", "<releases><release")

	h := NewHandlers(cfg)
	ctx := context.Background()

	t.Run("clean document", func(t *testing.T) {
		result, err := h.HandleValidate(ctx, makeRequest(map[string]any{"path": clean}))
		if err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		out := parseOutput(t, result)
		if out["valid"] != true {
			t.Errorf("valid = %v, want true", out["valid"])
		}
		if out["releases"] != float64(2) {
			t.Errorf("releases = %v, want 2", out["releases"])
		}
		if out["warnings"] != float64(0) {
			t.Errorf("warnings = %v, want 0", out["warnings"])
		}
	})

	t.Run("dropped data fails the document", func(t *testing.T) {
		result, err := h.HandleValidate(ctx, makeRequest(map[string]any{"path": broken}))
		if err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		out := parseOutput(t, result)
		if out["valid"] != false {
			t.Errorf("valid = %v, want false", out["valid"])
		}
		if out["warnings"].(float64) < 1 {
			t.Errorf("warnings = %v, want at least 1", out["warnings"])
		}
		if _, ok := out["notices"]; !ok {
			t.Error("expected notices in payload")
		}
	})

	t.Run("structural error is a verdict not a tool error", func(t *testing.T) {
		result, err := h.HandleValidate(ctx, makeRequest(map[string]any{"path": malformed}))
		if err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		out := parseOutput(t, result)
		if out["valid"] != false {
			t.Errorf("valid = %v, want false", out["valid"])
		}
		msg, _ := out["error"].(string)
		if msg == "" {
			t.Error("expected parse error message in payload")
		}
	})

	t.Run("missing path", func(t *testing.T) {
		result, err := h.HandleValidate(ctx, makeRequest(map[string]any{}))
		if err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		if !result.IsError {
			t.Fatal("expected error result")
		}
		assertErrorCode(t, result, "INVALID_REQUEST")
	})
}

// TestHandleInspect tests the releases_inspect handler.
func TestHandleInspect(t *testing.T) {
	cfg := testSetup(t)
	tmpDir := t.TempDir()
	src := writeDoc(t, tmpDir, "releases.xml", sampleReleasesXML)

	h := NewHandlers(cfg)
	ctx := context.Background()

	t.Run("all releases", func(t *testing.T) {
		result, err := h.HandleInspect(ctx, makeRequest(map[string]any{"path": src}))
		if err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		out := parseOutput(t, result)
		if out["kind"] != "embedded" {
			t.Errorf("kind = %v, want embedded", out["kind"])
		}

		releases, ok := out["releases"].([]any)
		if !ok || len(releases) != 2 {
			t.Fatalf("releases = %v, want 2 summaries", out["releases"])
		}

		first := releases[0].(map[string]any)
		if first["version"] != "1.2" {
			t.Errorf("version = %v, want 1.2", first["version"])
		}
		if first["kind"] != "stable" {
			t.Errorf("kind = %v, want stable", first["kind"])
		}
		if first["urgency"] != "high" {
			t.Errorf("urgency = %v, want high", first["urgency"])
		}
		if first["timestamp"] != float64(1700000000) {
			t.Errorf("timestamp = %v, want 1700000000", first["timestamp"])
		}
		if first["issues"] != float64(1) {
			t.Errorf("issues = %v, want 1", first["issues"])
		}
	})

	t.Run("single version", func(t *testing.T) {
		result, err := h.HandleInspect(ctx, makeRequest(map[string]any{
			"path":    src,
			"version": "1.1",
		}))
		if err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		out := parseOutput(t, result)
		releases := out["releases"].([]any)
		if len(releases) != 1 {
			t.Fatalf("got %d summaries, want 1", len(releases))
		}
		if releases[0].(map[string]any)["version"] != "1.1" {
			t.Errorf("version = %v, want 1.1", releases[0].(map[string]any)["version"])
		}
	})

	t.Run("version not found", func(t *testing.T) {
		result, err := h.HandleInspect(ctx, makeRequest(map[string]any{
			"path":    src,
			"version": "9.9",
		}))
		if err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		if !result.IsError {
			t.Fatal("expected error result")
		}
		assertErrorCode(t, result, "NOT_FOUND")
	})
}

// TestHandleSort tests the releases_sort handler.
func TestHandleSort(t *testing.T) {
	cfg := testSetup(t)
	tmpDir := t.TempDir()
	src := writeDoc(t, tmpDir, "releases.xml", `<?xml version="1.0"?>
<releases>
  <release type="stable" version="1.0" date="2025-01-01"/>
  <release type="stable" version="2.0" date="2026-02-01"/>
</releases>
`)

	h := NewHandlers(cfg)
	result, err := h.HandleSort(context.Background(), makeRequest(map[string]any{"path": src}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	out := parseOutput(t, result)
	versions, ok := out["versions"].([]any)
	if !ok || len(versions) != 2 {
		t.Fatalf("versions = %v, want 2 entries", out["versions"])
	}
	if versions[0] != "2.0" || versions[1] != "1.0" {
		t.Errorf("versions = %v, want [2.0 1.0]", versions)
	}

	data, err := os.ReadFile(src)
	if err != nil {
		t.Fatalf("failed to read sorted file: %v", err)
	}
	content := string(data)
	if strings.Index(content, `version="2.0"`) > strings.Index(content, `version="1.0"`) {
		t.Errorf("document was not rewritten most recent first:\n%s", content)
	}
}

// TestHandleNewsConvert tests the news_convert handler.
func TestHandleNewsConvert(t *testing.T) {
	cfg := testSetup(t)
	tmpDir := t.TempDir()
	news := writeDoc(t, tmpDir, "NEWS.md", sampleNewsMarkdown)
	releases := writeDoc(t, tmpDir, "releases.xml", sampleReleasesXML)

	h := NewHandlers(cfg)
	ctx := context.Background()

	t.Run("to-releases inline", func(t *testing.T) {
		result, err := h.HandleNewsConvert(ctx, makeRequest(map[string]any{
			"direction": "to-releases",
			"path":      news,
		}))
		if err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		out := parseOutput(t, result)
		if out["format"] != "xml" {
			t.Errorf("format = %v, want xml", out["format"])
		}
		if out["releases"] != float64(2) {
			t.Errorf("releases = %v, want 2", out["releases"])
		}
		doc, _ := out["document"].(string)
		if !strings.Contains(doc, `version="2.0"`) {
			t.Errorf("document missing release 2.0:\n%s", doc)
		}
	})

	t.Run("from-releases inline", func(t *testing.T) {
		result, err := h.HandleNewsConvert(ctx, makeRequest(map[string]any{
			"direction": "from-releases",
			"path":      releases,
		}))
		if err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		out := parseOutput(t, result)
		doc, _ := out["document"].(string)
		if !strings.HasPrefix(doc, "## 1.2\n") {
			t.Errorf("notes should start with the most recent release:\n%s", doc)
		}
	})

	t.Run("from-releases with limit", func(t *testing.T) {
		result, err := h.HandleNewsConvert(ctx, makeRequest(map[string]any{
			"direction": "from-releases",
			"path":      releases,
			"limit":     1,
		}))
		if err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		out := parseOutput(t, result)
		if out["releases"] != float64(1) {
			t.Errorf("releases = %v, want 1", out["releases"])
		}
		doc, _ := out["document"].(string)
		if strings.Contains(doc, "## 1.1") {
			t.Errorf("notes should stop after the first release:\n%s", doc)
		}
	})

	t.Run("unknown direction", func(t *testing.T) {
		result, err := h.HandleNewsConvert(ctx, makeRequest(map[string]any{
			"direction": "sideways",
			"path":      news,
		}))
		if err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		if !result.IsError {
			t.Fatal("expected error result")
		}
		assertErrorCode(t, result, "INVALID_REQUEST")
	})

	t.Run("missing direction", func(t *testing.T) {
		result, err := h.HandleNewsConvert(ctx, makeRequest(map[string]any{
			"path": news,
		}))
		if err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		if !result.IsError {
			t.Fatal("expected error result")
		}
		assertErrorCode(t, result, "INVALID_REQUEST")
	})
}

// Registry tests

func TestToolRegistryNamesMatchDefinitions(t *testing.T) {
	for name, entry := range toolRegistry {
		if entry.def.Name != name {
			t.Errorf("registry key %q has tool definition named %q", name, entry.def.Name)
		}
	}
}

func TestAllToolNames(t *testing.T) {
	names := AllToolNames()

	if len(names) != 5 {
		t.Errorf("AllToolNames() returned %d names, want 5", len(names))
	}

	// All returned names should be valid
	unknown := ValidateDisabledTools(names)
	if len(unknown) != 0 {
		t.Errorf("AllToolNames() returned invalid names: %v", unknown)
	}
}

func TestValidateDisabledTools(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		wantLen int
	}{
		{
			name:    "all valid",
			input:   []string{"releases_sort", "news_convert"},
			wantLen: 0,
		},
		{
			name:    "one unknown",
			input:   []string{"releases_sort", "fake_tool"},
			wantLen: 1,
		},
		{
			name:    "all unknown",
			input:   []string{"foo", "bar", "baz"},
			wantLen: 3,
		},
		{
			name:    "empty list",
			input:   []string{},
			wantLen: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unknown := ValidateDisabledTools(tt.input)
			if len(unknown) != tt.wantLen {
				t.Errorf("ValidateDisabledTools() returned %d unknown, want %d", len(unknown), tt.wantLen)
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	cfg := testSetup(t)
	if s := NewServer(cfg, "test"); s == nil {
		t.Fatal("NewServer returned nil")
	}

	// Disabling every tool still yields a usable server
	cfg.DisabledTools = AllToolNames()
	if s := NewServer(cfg, "test"); s == nil {
		t.Fatal("NewServer with all tools disabled returned nil")
	}
}

// Error payload tests

func TestErrorResult_InternalDoesNotExposeDetails(t *testing.T) {
	r := errorResult(errors.NewInternal(fmt.Errorf("open /tmp/secret.xml: permission denied")))
	if !r.IsError {
		t.Fatal("expected IsError=true")
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(r.Content[0].(mcp.TextContent).Text), &payload); err != nil {
		t.Fatalf("failed to unmarshal error payload: %v", err)
	}
	errObj := payload["error"].(map[string]any)

	if errObj["code"] != string(errors.ErrInternal) {
		t.Fatalf("code=%v, want %v", errObj["code"], errors.ErrInternal)
	}
	if _, ok := errObj["details"]; ok {
		t.Fatal("expected INTERNAL errors to omit details")
	}
}

func TestErrorResult_WrappedErrorPreservesContext(t *testing.T) {
	originalErr := errors.NewParseFailed("xml", fmt.Errorf("unexpected end of document"))
	wrappedErr := fmt.Errorf("line 3: %w", originalErr)

	r := errorResult(wrappedErr)
	if !r.IsError {
		t.Fatal("expected IsError=true")
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(r.Content[0].(mcp.TextContent).Text), &payload); err != nil {
		t.Fatalf("failed to unmarshal error payload: %v", err)
	}
	errObj := payload["error"].(map[string]any)

	// Should extract the correct code from wrapped error
	if errObj["code"] != string(errors.ErrParseFailed) {
		t.Errorf("code=%v, want %v", errObj["code"], errors.ErrParseFailed)
	}

	// Message should include the wrapper context "line 3:"
	msg := errObj["message"].(string)
	if !strings.Contains(msg, "line 3") {
		t.Errorf("message should contain wrapper context 'line 3', got: %s", msg)
	}
}

func TestErrorResult_NonInternalIncludesDetails(t *testing.T) {
	r := errorResult(errors.NewNotFound("releases.xml"))
	if !r.IsError {
		t.Fatal("expected IsError=true")
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(r.Content[0].(mcp.TextContent).Text), &payload); err != nil {
		t.Fatalf("failed to unmarshal error payload: %v", err)
	}
	errObj := payload["error"].(map[string]any)

	if errObj["code"] != string(errors.ErrNotFound) {
		t.Fatalf("code=%v, want %v", errObj["code"], errors.ErrNotFound)
	}
	if _, ok := errObj["details"]; !ok {
		t.Fatal("expected non-INTERNAL errors to include details when present")
	}
}

func TestErrorResult_PlainErrorStaysGeneric(t *testing.T) {
	r := errorResult(fmt.Errorf("boom"))
	if !r.IsError {
		t.Fatal("expected IsError=true")
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(r.Content[0].(mcp.TextContent).Text), &payload); err != nil {
		t.Fatalf("failed to unmarshal error payload: %v", err)
	}
	errObj := payload["error"].(map[string]any)

	if errObj["code"] != "INTERNAL" {
		t.Errorf("code=%v, want INTERNAL", errObj["code"])
	}
	if errObj["message"] != "an internal error occurred" {
		t.Errorf("message=%v, want the generic message", errObj["message"])
	}
}

// Helper functions

// parseOutput extracts and unmarshals the JSON output from an MCP result.
func parseOutput(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	if result.IsError {
		t.Fatalf("expected success, got error: %v", extractErrorMessage(result))
	}
	var output map[string]any
	if err := json.Unmarshal([]byte(result.Content[0].(mcp.TextContent).Text), &output); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return output
}

func assertErrorCode(t *testing.T, result *mcp.CallToolResult, expectedCode string) {
	t.Helper()

	if len(result.Content) == 0 {
		t.Errorf("no content in error result")
		return
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Errorf("content is not TextContent")
		return
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(text.Text), &payload); err != nil {
		t.Errorf("failed to unmarshal error payload: %v", err)
		return
	}

	errorObj, ok := payload["error"].(map[string]any)
	if !ok {
		t.Errorf("no error object in payload")
		return
	}

	code, ok := errorObj["code"].(string)
	if !ok {
		t.Errorf("no code in error object")
		return
	}

	if code != expectedCode {
		t.Errorf("got error code %q, want %q", code, expectedCode)
	}
}

func extractErrorMessage(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return "<no content>"
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		return "<not text content>"
	}

	return text.Text
}
