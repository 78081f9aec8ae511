package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind classifies failures at the boundary where they are caught.
type Kind string

const (
	ErrOversizedInput    Kind = "OVERSIZED_INPUT"    // 413
	ErrUnusableInput     Kind = "UNUSABLE_INPUT"     // 422
	ErrEncodingFailure   Kind = "ENCODING_FAILURE"   // 422
	ErrUploadFailure     Kind = "UPLOAD_FAILURE"     // 502
	ErrUploadInProgress  Kind = "UPLOAD_IN_PROGRESS" // 409
	ErrPersistence       Kind = "PERSISTENCE_FAILURE"
	ErrNotFound          Kind = "NOT_FOUND"       // 404
	ErrInvalidRequest    Kind = "INVALID_REQUEST" // 400
	ErrInternal          Kind = "INTERNAL"        // 500
)

// Error is a classified failure with an optional cause.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Details map[string]any
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// NewOversizedInput reports a file above the size ceiling.
func NewOversizedInput(name string, size, max int64) *Error {
	return &Error{
		Kind:    ErrOversizedInput,
		Status:  http.StatusRequestEntityTooLarge,
		Message: fmt.Sprintf("file %q is too large: %d bytes (max %d)", name, size, max),
		Details: map[string]any{"name": name, "size": size, "max_size": max},
	}
}

// NewUnusableInput reports an event that produced no usable payload.
func NewUnusableInput() *Error {
	return &Error{
		Kind:    ErrUnusableInput,
		Status:  http.StatusUnprocessableEntity,
		Message: "nothing usable in input",
	}
}

// NewEncodingFailure reports a payload the QR encoder rejected.
func NewEncodingFailure(err error) *Error {
	return &Error{
		Kind:    ErrEncodingFailure,
		Status:  http.StatusUnprocessableEntity,
		Message: "content too large for QR code",
		Err:     err,
	}
}

// NewUploadFailure reports a network or service failure of the upload call.
func NewUploadFailure(msg string, err error) *Error {
	return &Error{
		Kind:    ErrUploadFailure,
		Status:  http.StatusBadGateway,
		Message: msg,
		Err:     err,
	}
}

// NewUploadInProgress rejects a re-entrant upload.
func NewUploadInProgress() *Error {
	return &Error{
		Kind:    ErrUploadInProgress,
		Status:  http.StatusConflict,
		Message: "an upload is already in progress",
	}
}

// NewPersistence wraps a durable storage failure.
func NewPersistence(op string, err error) *Error {
	return &Error{
		Kind:    ErrPersistence,
		Status:  http.StatusInternalServerError,
		Message: op,
		Err:     err,
	}
}

// NewNotFound reports a missing history record or event handler.
func NewNotFound(what, identifier string) *Error {
	return &Error{
		Kind:    ErrNotFound,
		Status:  http.StatusNotFound,
		Message: fmt.Sprintf("%s not found: %s", what, identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewInvalidRequest reports malformed caller input.
func NewInvalidRequest(msg string) *Error {
	return &Error{
		Kind:    ErrInvalidRequest,
		Status:  http.StatusBadRequest,
		Message: msg,
	}
}

// NewInternal wraps an unexpected failure.
func NewInternal(err error) *Error {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &Error{
		Kind:    ErrInternal,
		Status:  http.StatusInternalServerError,
		Message: msg,
		Err:     err,
	}
}

// Is reports whether err, or anything it wraps, is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// StatusOf returns the HTTP status for err, 500 when unclassified.
func StatusOf(err error) int {
	var e *Error
	if stderrors.As(err, &e) && e.Status != 0 {
		return e.Status
	}
	return http.StatusInternalServerError
}

// KindOf returns the kind of err, ErrInternal when unclassified.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ErrInternal
}
