package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	HttpInternalError     = "internal_error"
	HttpValidationError   = "validation_failed"
	HttpUnauthorizedError = "unauthorized"
	HttpForbiddenError    = "forbidden"
	HttpNotFoundError     = "not_found"
	HttpConflictError     = "conflict"
	HttpUpstreamError     = "upstream_error"

	HttpMissingTokenError = "missing_token"
	HttpInvalidTokenError = "invalid_token"
	HttpCatalogEmptyError = "catalog_empty"
	HttpAlreadyOwnedError = "already_owned"
)

// ErrorResponse is the error response body shared by every service.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}

// Kind classifies a failure. Callers decide retries and HTTP status from it.
type Kind int

const (
	KindInternal Kind = iota
	// KindValidation is malformed or missing input. Never retried.
	KindValidation
	// KindAuth is a missing, invalid or expired token. Never retried.
	KindAuth
	KindForbidden
	// KindNotFound covers unknown ids and ids not owned by the caller.
	KindNotFound
	// KindConflict covers duplicates, exhausted capacity and capped skills.
	KindConflict
	// KindUpstream is a dependent service that was unreachable or answered
	// with an unexpected status.
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUpstream:
		return "upstream"
	default:
		return "internal"
	}
}

// Error is a classified failure carrying an optional cause. Code overrides
// the error_type derived from Kind.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithCode sets the error_type reported to clients. A coded internal error
// also reports its message.
func (e *Error) WithCode(code string) *Error {
	e.Code = code
	return e
}

// New returns a classified error without a cause.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies err with a message describing the failed step.
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func Validation(format string, args ...interface{}) *Error {
	return New(KindValidation, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return New(KindNotFound, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return New(KindConflict, format, args...)
}

func Forbidden(format string, args ...interface{}) *Error {
	return New(KindForbidden, format, args...)
}

func Unauthorized(format string, args ...interface{}) *Error {
	return New(KindAuth, format, args...)
}

// Upstream marks err as a failed call to a dependent service.
func Upstream(err error, format string, args ...interface{}) *Error {
	return Wrap(KindUpstream, err, format, args...)
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// CodeOf returns the error_type the first *Error in err's chain reports, or
// "" when there is none.
func CodeOf(err error) string {
	var e *Error
	if !stderrors.As(err, &e) {
		return ""
	}
	if e.Code != "" {
		return e.Code
	}
	return ErrorType(e.Kind)
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Status maps a kind to its HTTP status code.
func Status(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorType maps a kind to the error_type field of ErrorResponse.
func ErrorType(kind Kind) string {
	switch kind {
	case KindValidation:
		return HttpValidationError
	case KindAuth:
		return HttpUnauthorizedError
	case KindForbidden:
		return HttpForbiddenError
	case KindNotFound:
		return HttpNotFoundError
	case KindConflict:
		return HttpConflictError
	case KindUpstream:
		return HttpUpstreamError
	default:
		return HttpInternalError
	}
}

// Write serializes err as the JSON response and aborts the handler chain.
// Internal errors are logged and their message is not leaked to the client.
func Write(c *gin.Context, err error) {
	var e *Error
	if !stderrors.As(err, &e) {
		slog.Error("Unhandled error", "path", c.FullPath(), "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			ErrorType: HttpInternalError,
			Message:   "Internal server error",
		})
		return
	}

	status := Status(e.Kind)
	if status >= http.StatusInternalServerError {
		slog.Error("Request failed", "path", c.FullPath(), "kind", e.Kind.String(), "error", err)
	}

	errorType := ErrorType(e.Kind)
	if e.Code != "" {
		errorType = e.Code
	}

	message := e.Message
	if e.Kind == KindInternal && e.Code == "" {
		message = "Internal server error"
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		ErrorType: errorType,
		Message:   message,
		Details:   e.Details,
	})
}

// BindingError converts a gin binding failure into a validation error.
func BindingError(err error) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: "Invalid request body",
		Details: err.Error(),
		Err:     err,
	}
}
