// Package apperr defines the error taxonomy shared by handlers and the
// components they call, and maps it onto HTTP statuses.
package apperr

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/samber/oops"
)

// Error kinds. Concrete errors unwrap to exactly one of these.
var (
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrTooLarge     = errors.New("payload too large")
	ErrStorage      = errors.New("storage error")
)

// InternalMessage is the only message clients see for 5xx responses.
const InternalMessage = "Internal server error"

// Error is an error with a client-facing message.
type Error struct {
	kind  error
	cause error
	msg   string
}

// New returns an error of the given kind carrying msg.
func New(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// Wrap is like New but keeps cause in the chain.
func Wrap(kind, cause error, msg string) *Error {
	return &Error{kind: kind, cause: cause, msg: msg}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() []error {
	if e.cause != nil {
		return []error{e.kind, e.cause}
	}
	return []error{e.kind}
}

// Message is the text that is safe to show to a client.
func (e *Error) Message() string { return e.msg }

func Validation(msg string) *Error { return New(ErrValidation, msg) }

func NotFound(msg string) *Error { return New(ErrNotFound, msg) }

func Storage(cause error, msg string) *Error { return Wrap(ErrStorage, cause, msg) }

// Status maps err onto an HTTP status code.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing text for err. Anything that maps to a
// 5xx status gets InternalMessage so internals never leak.
func Message(err error) string {
	if Status(err) >= http.StatusInternalServerError {
		return InternalMessage
	}
	var e *Error
	if errors.As(err, &e) {
		return e.msg
	}
	return err.Error()
}

// Log writes err at error level. oops errors contribute their code and
// context attributes.
func Log(logger *slog.Logger, msg string, err error, attrs ...any) {
	attrs = append(attrs, "error", err.Error())
	if oopsErr, ok := oops.AsOops(err); ok {
		if code := oopsErr.Code(); code != nil {
			attrs = append(attrs, "code", code)
		}
		if ctx := oopsErr.Context(); len(ctx) > 0 {
			attrs = append(attrs, "context", ctx)
		}
	}
	logger.Error(msg, attrs...)
}
