package apperror

import "errors"

// Kind classifies an application error for boundary mapping.
type Kind int

const (
	KindBadRequest Kind = iota
	KindNotFound
	KindConflict
	KindUnauthorized
	KindForbidden
	KindInternal
)

// AppError is the typed failure carried through service pipelines.
// It is mapped to an HTTP status exactly once, in the server error handler.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newError(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func BadRequest(message string) *AppError   { return newError(KindBadRequest, message) }
func NotFound(message string) *AppError     { return newError(KindNotFound, message) }
func Conflict(message string) *AppError     { return newError(KindConflict, message) }
func Unauthorized(message string) *AppError { return newError(KindUnauthorized, message) }
func Forbidden(message string) *AppError    { return newError(KindForbidden, message) }

// Internal wraps an unexpected failure (unreadable upload stream, storage I/O).
func Internal(message string, err error) *AppError {
	return &AppError{Kind: KindInternal, Message: message, Err: err}
}

// KindOf extracts the error kind; unrecognized errors are internal.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
