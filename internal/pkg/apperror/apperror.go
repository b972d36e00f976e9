// Package apperror defines the closed set of failure kinds the API can
// report, together with the HTTP status, title and stable error code of each.
package apperror

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/http"

	"github.com/cmlabs-hris/company-backend-go/internal/pkg/validator"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindInvalidArgument
	KindValidation
	KindUnauthorized
	KindForbidden
	KindRateLimited
	KindUpstream
	KindMethodNotAllowed
)

type kindInfo struct {
	status int
	title  string
	code   string
}

var kinds = map[Kind]kindInfo{
	KindInternal:         {http.StatusInternalServerError, "Internal Server Error", "INTERNAL_ERROR"},
	KindNotFound:         {http.StatusNotFound, "Resource Not Found", "RESOURCE_NOT_FOUND"},
	KindConflict:         {http.StatusConflict, "Data Integrity Violation", "DATA_INTEGRITY_VIOLATION"},
	KindInvalidArgument:  {http.StatusBadRequest, "Invalid Argument", "INVALID_ARGUMENT"},
	KindValidation:       {http.StatusBadRequest, "Validation Failed", "VALIDATION_FAILED"},
	KindUnauthorized:     {http.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED"},
	KindForbidden:        {http.StatusForbidden, "Forbidden", "FORBIDDEN"},
	KindRateLimited:      {http.StatusTooManyRequests, "Too Many Requests", "RATE_LIMITED"},
	KindUpstream:         {http.StatusInternalServerError, "Upstream Service Failure", "UPSTREAM_SERVICE_FAILURE"},
	KindMethodNotAllowed: {http.StatusMethodNotAllowed, "Method Not Allowed", "METHOD_NOT_ALLOWED"},
}

// Status is the default HTTP status of the kind.
func (k Kind) Status() int { return kinds[k].status }

func (k Kind) Title() string { return kinds[k].title }

// Code is the machine-readable error code clients branch on.
func (k Kind) Code() string { return kinds[k].code }

func (k Kind) String() string { return kinds[k].code }

// InternalDetail replaces the detail of internal failures in responses.
const InternalDetail = "An unexpected error occurred"

const (
	PropUpstreamStatus = "upstream_status"
	PropUpstreamBody   = "upstream_body"
	PropErrors         = "errors"
	PropCauseType      = "cause_type"
)

// Error is a classified failure. Values are treated as immutable: With and
// WithCause return copies, so package-level sentinels can be shared.
type Error struct {
	Kind   Kind
	Detail string
	Props  map[string]any
	Err    error
}

func newError(kind Kind, format string, args ...any) *Error {
	detail := format
	if len(args) > 0 {
		detail = fmt.Sprintf(format, args...)
	}
	return &Error{Kind: kind, Detail: detail}
}

func NotFound(format string, args ...any) *Error {
	return newError(KindNotFound, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return newError(KindConflict, format, args...)
}

func InvalidArgument(format string, args ...any) *Error {
	return newError(KindInvalidArgument, format, args...)
}

func Unauthorized(format string, args ...any) *Error {
	return newError(KindUnauthorized, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return newError(KindForbidden, format, args...)
}

func MethodNotAllowed(format string, args ...any) *Error {
	return newError(KindMethodNotAllowed, format, args...)
}

func RateLimited(format string, args ...any) *Error {
	return newError(KindRateLimited, format, args...)
}

// Internal wraps an unclassified failure. The cause is kept for logging only.
func Internal(cause error) *Error {
	e := newError(KindInternal, InternalDetail)
	e.Err = cause
	return e
}

// Upstream reports a failed call to an external service. statusCode and body
// are optional (zero values are omitted from the properties).
func Upstream(statusCode int, body string, format string, args ...any) *Error {
	e := newError(KindUpstream, format, args...)
	e.Props = map[string]any{}
	if statusCode != 0 {
		e.Props[PropUpstreamStatus] = statusCode
	}
	if body != "" {
		e.Props[PropUpstreamBody] = body
	}
	return e
}

// Validation turns field errors into a Validation failure.
func Validation(errs validator.ValidationErrors) *Error {
	e := newError(KindValidation, "Validation failed")
	e.Props = map[string]any{PropErrors: errs.ToMap()}
	e.Err = errs
	return e
}

func (e *Error) Error() string {
	if e.Err != nil && e.Kind == KindInternal {
		return e.Err.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Detail, e.Err)
	}
	return e.Detail
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind and detail, so copies made by
// With still match the sentinel they were derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e == t || (e.Kind == t.Kind && e.Detail == t.Detail)
}

func (e *Error) clone() *Error {
	c := *e
	c.Props = maps.Clone(e.Props)
	return &c
}

// With returns a copy carrying an extra diagnostic property.
func (e *Error) With(key string, value any) *Error {
	c := e.clone()
	if c.Props == nil {
		c.Props = map[string]any{}
	}
	c.Props[key] = value
	return c
}

// WithCause returns a copy wrapping cause.
func (e *Error) WithCause(cause error) *Error {
	c := e.clone()
	c.Err = cause
	return c
}

// Status resolves the HTTP status. Upstream failures reuse the upstream
// status when it is a known HTTP status code.
func (e *Error) Status() int {
	if e.Kind == KindUpstream {
		if code, ok := e.Props[PropUpstreamStatus].(int); ok && http.StatusText(code) != "" {
			return code
		}
	}
	return e.Kind.Status()
}

// PublicDetail is the detail safe to show to callers.
func (e *Error) PublicDetail() string {
	if e.Kind == KindInternal {
		return InternalDetail
	}
	return e.Detail
}

// From classifies any error. A *Error anywhere in the chain wins; validation
// errors become Validation; everything else, including context cancellation,
// is Internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return Validation(validationErrs)
	}
	internal := Internal(err)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return internal.With(PropCauseType, "timeout")
	}
	return internal
}

// KindOf is a shortcut for From(err).Kind. A nil error reports KindInternal.
func KindOf(err error) Kind {
	if e := From(err); e != nil {
		return e.Kind
	}
	return KindInternal
}
