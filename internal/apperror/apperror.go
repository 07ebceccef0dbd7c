// Package apperror carries the service error taxonomy across the HTTP and gRPC
// transports.
package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
)

type Kind string

const (
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindNotFound   Kind = "not_found"
	KindInternal   Kind = "internal"
)

// DetailConflict is the detail key holding the record a mutation collided with.
const DetailConflict = "conflict"

// Error is a classified service error with optional details and cause.
type Error struct {
	kind    Kind
	message string
	details map[string]any
	cause   error
}

type Option func(*Error)

// WithCause attaches the underlying error.
func WithCause(err error) Option {
	return func(e *Error) {
		e.cause = err
	}
}

// WithDetail adds a named detail value.
func WithDetail(key string, value any) Option {
	return func(e *Error) {
		if e.details == nil {
			e.details = make(map[string]any)
		}
		e.details[key] = value
	}
}

// WithConflict records the colliding record.
func WithConflict(record any) Option {
	return WithDetail(DetailConflict, record)
}

func New(kind Kind, message string, opts ...Option) *Error {
	if message == "" {
		message = string(kind)
	}
	e := &Error{kind: kind, message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func Validation(message string, opts ...Option) *Error {
	return New(KindValidation, message, opts...)
}

func Validationf(format string, args ...any) *Error {
	return New(KindValidation, fmt.Sprintf(format, args...))
}

func Conflict(message string, opts ...Option) *Error {
	return New(KindConflict, message, opts...)
}

func NotFound(message string, opts ...Option) *Error {
	return New(KindNotFound, message, opts...)
}

func Internal(message string, opts ...Option) *Error {
	return New(KindInternal, message, opts...)
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func (e *Error) Kind() Kind {
	if e == nil {
		return KindInternal
	}
	return e.kind
}

// Message is the caller-facing text, without the cause.
func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() map[string]any {
	if e == nil {
		return nil
	}
	return e.details
}

// Detail returns a single detail value.
func (e *Error) Detail(key string) (any, bool) {
	if e == nil || e.details == nil {
		return nil, false
	}
	v, ok := e.details[key]
	return v, ok
}

// HTTPStatus resolves the HTTP status for the error kind.
func (e *Error) HTTPStatus() int {
	switch e.Kind() {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// GRPCCode maps the error kind onto a gRPC status code.
func (e *Error) GRPCCode() codes.Code {
	switch e.Kind() {
	case KindValidation:
		return codes.InvalidArgument
	case KindConflict:
		return codes.AlreadyExists
	case KindNotFound:
		return codes.NotFound
	default:
		return codes.Internal
	}
}

// From classifies any error, wrapping unclassified ones as internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal("internal error", WithCause(err))
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.kind == kind
}
