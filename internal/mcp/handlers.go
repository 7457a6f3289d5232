package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/carlosdem/appstream/internal/config"
	"github.com/carlosdem/appstream/internal/errors"
	"github.com/carlosdem/appstream/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	cfg *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(cfg *config.Config) *Handlers {
	return &Handlers{cfg: cfg}
}

// Request types for each tool

// ConvertRequest represents the arguments for releases_convert.
type ConvertRequest struct {
	Path         string `json:"path"`
	Output       string `json:"output,omitempty"`
	From         string `json:"from,omitempty"`
	To           string `json:"to,omitempty"`
	Style        string `json:"style,omitempty"`
	TargetStyle  string `json:"target_style,omitempty"`
	Locale       string `json:"locale,omitempty"`
	MediaBaseURL string `json:"media_baseurl,omitempty"`
}

// ValidateRequest represents the arguments for releases_validate.
type ValidateRequest struct {
	Path   string `json:"path"`
	Format string `json:"format,omitempty"`
	Style  string `json:"style,omitempty"`
}

// InspectRequest represents the arguments for releases_inspect.
type InspectRequest struct {
	Path    string `json:"path"`
	Format  string `json:"format,omitempty"`
	Style   string `json:"style,omitempty"`
	Version string `json:"version,omitempty"`
	Locale  string `json:"locale,omitempty"`
}

// SortRequest represents the arguments for releases_sort.
type SortRequest struct {
	Path   string `json:"path"`
	Output string `json:"output,omitempty"`
	Format string `json:"format,omitempty"`
	Style  string `json:"style,omitempty"`
}

// NewsConvertRequest represents the arguments for news_convert.
type NewsConvertRequest struct {
	Direction string `json:"direction"`
	Path      string `json:"path"`
	Output    string `json:"output,omitempty"`
	Format    string `json:"format,omitempty"`
	Style     string `json:"style,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}

// Handler implementations

// HandleConvert handles the releases_convert tool call.
func (h *Handlers) HandleConvert(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ConvertRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Convert(h.cfg, ops.ConvertInput{
		Path:         input.Path,
		Output:       input.Output,
		From:         input.From,
		To:           input.To,
		Style:        input.Style,
		TargetStyle:  input.TargetStyle,
		Locale:       input.Locale,
		MediaBaseURL: input.MediaBaseURL,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleValidate handles the releases_validate tool call.
func (h *Handlers) HandleValidate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ValidateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Validate(h.cfg, ops.ValidateInput{
		Path:   input.Path,
		Format: input.Format,
		Style:  input.Style,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleInspect handles the releases_inspect tool call.
func (h *Handlers) HandleInspect(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[InspectRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Inspect(h.cfg, ops.InspectInput{
		Path:    input.Path,
		Format:  input.Format,
		Style:   input.Style,
		Version: input.Version,
		Locale:  input.Locale,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleSort handles the releases_sort tool call.
func (h *Handlers) HandleSort(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SortRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Sort(h.cfg, ops.SortInput{
		Path:   input.Path,
		Output: input.Output,
		Format: input.Format,
		Style:  input.Style,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleNewsConvert handles the news_convert tool call. The direction
// argument picks between parsing Markdown notes into a release document
// and rendering a release document as Markdown notes.
func (h *Handlers) HandleNewsConvert(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[NewsConvertRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	switch input.Direction {
	case "to-releases":
		result, err := ops.NewsToReleases(h.cfg, ops.NewsToReleasesInput{
			Path:   input.Path,
			Output: input.Output,
			Format: input.Format,
			Style:  input.Style,
		})
		if err != nil {
			return errorResult(err), nil
		}
		return successResult(result)

	case "from-releases":
		result, err := ops.ReleasesToNews(h.cfg, ops.ReleasesToNewsInput{
			Path:   input.Path,
			Output: input.Output,
			Format: input.Format,
			Style:  input.Style,
			Limit:  input.Limit,
		})
		if err != nil {
			return errorResult(err), nil
		}
		return successResult(result)

	default:
		msg := fmt.Sprintf("unknown direction %q (want to-releases or from-releases)", input.Direction)
		return errorResult(errors.NewInvalidRequest(msg)), nil
	}
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking
// sensitive info like file paths.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var metaErr *errors.MetaError
	if stderrors.As(err, &metaErr) {
		// Keep wrapper context added along the way, but don't repeat
		// the code prefix for a bare MetaError.
		message := metaErr.Message
		if err.Error() != metaErr.Error() {
			message = err.Error()
		}

		errorObj := map[string]any{
			"code":    metaErr.Code,
			"message": message,
			"status":  metaErr.Status,
		}
		if metaErr.Code != errors.ErrInternal && metaErr.Details != nil {
			errorObj["details"] = metaErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
