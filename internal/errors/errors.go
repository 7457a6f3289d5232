package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode classifies a metadata operation failure.
type ErrorCode string

const (
	ErrInvalidRequest    ErrorCode = "INVALID_REQUEST"    // 400
	ErrNotFound          ErrorCode = "NOT_FOUND"          // 404
	ErrUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT" // 415
	ErrDocumentTooLarge  ErrorCode = "DOCUMENT_TOO_LARGE" // 413
	ErrParseFailed       ErrorCode = "PARSE_FAILED"       // 422
	ErrInternal          ErrorCode = "INTERNAL"           // 500
)

// MetaError represents a structured error with code, status, and details.
type MetaError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *MetaError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *MetaError {
	return &MetaError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a document that cannot be found.
func NewNotFound(path string) *MetaError {
	return &MetaError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("document not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewReleaseNotFound creates a 404 error for a release version that is
// not present in the document.
func NewReleaseNotFound(version string) *MetaError {
	return &MetaError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("release not found: %s", version),
		Details: map[string]any{"version": version},
	}
}

// NewUnsupportedFormat creates a 415 error for input that is neither
// XML, YAML nor Markdown release data.
func NewUnsupportedFormat(hint string) *MetaError {
	return &MetaError{
		Code:    ErrUnsupportedFormat,
		Status:  415,
		Message: fmt.Sprintf("unsupported document format: %s", hint),
		Details: map[string]any{"hint": hint},
	}
}

// NewDocumentTooLarge creates a 413 error when a document exceeds the
// configured size limit.
func NewDocumentTooLarge(max, actual int64) *MetaError {
	return &MetaError{
		Code:    ErrDocumentTooLarge,
		Status:  413,
		Message: fmt.Sprintf("document exceeds maximum size: %d bytes (max %d)", actual, max),
		Details: map[string]any{"max_bytes": max, "actual_bytes": actual},
	}
}

// NewParseFailed creates a 422 error for a document that cannot be
// parsed. The parse error is surfaced in the message since the caller
// can act on it.
func NewParseFailed(format string, err error) *MetaError {
	return &MetaError{
		Code:    ErrParseFailed,
		Status:  422,
		Message: fmt.Sprintf("cannot parse %s document: %v", format, err),
		Details: map[string]any{"format": format},
	}
}

// NewInternal creates a 500 error for unexpected internal errors. The
// message stays generic; the original error is kept in the details for
// logging.
func NewInternal(err error) *MetaError {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &MetaError{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
	}
}

// Is checks if an error is, or wraps, a MetaError with the given code.
func Is(err error, code ErrorCode) bool {
	var mErr *MetaError
	if stderrors.As(err, &mErr) {
		return mErr.Code == code
	}
	return false
}
