// Package apperr defines the closed taxonomy of domain failures and the
// single point where failures become wire responses.
//
// Every recognized failure serializes as {"detail": "<message>"} with its
// status code and optional extra headers. Request validation failures keep
// the framework's per-field list alongside the detail; the two shapes are
// deliberately not unified.
package apperr

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/mkarvo/profile-api/internal/platform/auth"
	applog "github.com/mkarvo/profile-api/internal/platform/logging"
)

// Default messages per failure kind.
const (
	MsgInternal     = "Internal error"
	MsgNotFound     = "Resource not found"
	MsgConflict     = "Resource conflict"
	MsgUnauthorized = "Unauthorized"
)

// Error is a domain failure carrying HTTP semantics. It implements
// huma.StatusError so handlers can return it directly.
type Error struct {
	status  int
	headers http.Header

	Detail string              `json:"detail"`
	Errors []*huma.ErrorDetail `json:"errors,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Detail }

// GetStatus implements huma.StatusError.
func (e *Error) GetStatus() int { return e.status }

// GetHeaders implements huma.HeadersError; huma copies these onto the
// response before writing the body.
func (e *Error) GetHeaders() http.Header { return e.headers }

// New builds a failure with an explicit status.
func New(status int, detail string) *Error {
	if strings.TrimSpace(detail) == "" {
		detail = defaultMessage(status)
	}
	return &Error{status: status, Detail: detail}
}

// WithHeader attaches an extra response header, e.g. a retry hint.
func (e *Error) WithHeader(key, value string) *Error {
	if e.headers == nil {
		e.headers = http.Header{}
	}
	e.headers.Set(key, value)
	return e
}

// Internal is the generic 500 failure. The detail must already be safe to
// show; callers never pass internal error text here.
func Internal(detail string) *Error { return New(http.StatusInternalServerError, detail) }

// NotFound is the 404 failure kind.
func NotFound(detail string) *Error { return New(http.StatusNotFound, detail) }

// Conflict is the 409 failure kind.
func Conflict(detail string) *Error { return New(http.StatusConflict, detail) }

// Unauthorized is the 401 failure kind.
func Unauthorized(detail string) *Error { return New(http.StatusUnauthorized, detail) }

// Forbidden is the 403 failure kind.
func Forbidden(detail string) *Error { return New(http.StatusForbidden, detail) }

// Unavailable is the 503 failure kind with a Retry-After hint.
func Unavailable(detail, retryAfter string) *Error {
	e := New(http.StatusServiceUnavailable, detail)
	if retryAfter != "" {
		e.WithHeader("Retry-After", retryAfter)
	}
	return e
}

var installOnce sync.Once

// Install routes every error huma raises (including request validation)
// through this taxonomy, so all error responses share the documented shape.
// Call once during startup, before the first request.
func Install() {
	installOnce.Do(func() {
		huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
			return newStatusError(context.Background(), status, msg, errs)
		}
		huma.NewErrorWithContext = func(hctx huma.Context, status int, msg string, errs ...error) huma.StatusError {
			ctx := context.Background()
			if hctx != nil {
				ctx = hctx.Context()
			}
			return newStatusError(ctx, status, msg, errs)
		}
	})
}

// Write serializes a failure directly to a ResponseWriter. Used by
// middleware that must respond before the router runs (body limit, panic
// recovery).
func Write(w http.ResponseWriter, e *Error) {
	for key, values := range e.headers {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(e.status)
	_ = json.NewEncoder(w).Encode(e)
}

func newStatusError(ctx context.Context, status int, msg string, errs []error) *Error {
	e := New(status, msg)
	e.Errors = issuesFromErrors(errs)
	logFailure(ctx, e)
	return e
}

// logFailure records the failure with the acting principal's id when
// available. 5xx logs at error severity, 4xx at warn.
func logFailure(ctx context.Context, e *Error) {
	principal := auth.PrincipalFromContext(ctx)
	var uid *string
	if principal != nil {
		uid = &principal.UID
	}
	fields := []zap.Field{
		zap.Int("status", e.status),
		applog.NullString("user_id", uid),
	}
	if len(e.Errors) > 0 {
		fields = append(fields, zap.Any("issues", e.Errors))
	}
	if e.status >= http.StatusInternalServerError {
		applog.LogError(ctx, e.Detail, nil, fields...)
		return
	}
	applog.LogWarn(ctx, e.Detail, fields...)
}

func issuesFromErrors(errs []error) []*huma.ErrorDetail {
	if len(errs) == 0 {
		return nil
	}
	issues := make([]*huma.ErrorDetail, 0, len(errs))
	for _, err := range errs {
		if err == nil {
			continue
		}
		if detailer, ok := err.(huma.ErrorDetailer); ok {
			issues = append(issues, detailer.ErrorDetail())
			continue
		}
		issues = append(issues, &huma.ErrorDetail{Message: err.Error()})
	}
	if len(issues) == 0 {
		return nil
	}
	return issues
}

func defaultMessage(status int) string {
	switch status {
	case http.StatusNotFound:
		return MsgNotFound
	case http.StatusConflict:
		return MsgConflict
	case http.StatusUnauthorized:
		return MsgUnauthorized
	case http.StatusInternalServerError:
		return MsgInternal
	default:
		if text := http.StatusText(status); text != "" {
			return text
		}
		return MsgInternal
	}
}

// Compile-time interface checks
var _ huma.StatusError = (*Error)(nil)
