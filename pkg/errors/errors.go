// Package errors provides classified errors for the transcript QA
// pipeline. Every failure surfaced by the core carries a Code identifying
// the failure kind and a Class that drives the retry policy: only
// transient failures are retried, and only within a bounded budget.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
)

// Code identifies the kind of a pipeline failure.
type Code string

const (
	// CodeInvalidVideoID indicates a malformed video identifier or URL.
	CodeInvalidVideoID Code = "invalid_video_id"
	// CodeTranscriptUnavailable indicates no transcript exists for the
	// requested video/language combination.
	CodeTranscriptUnavailable Code = "transcript_unavailable"
	// CodeInvalidConfiguration indicates bad pipeline configuration,
	// such as chunk/overlap sizes violating their precondition.
	CodeInvalidConfiguration Code = "invalid_configuration"
	// CodeEmbeddingFailure indicates an embedding call failed or returned
	// a vector of unexpected dimension.
	CodeEmbeddingFailure Code = "embedding_failure"
	// CodeAnswerGenerationFailure indicates the LLM collaborator failed
	// (quota, malformed response, refusal).
	CodeAnswerGenerationFailure Code = "answer_generation_failure"
	// CodeTimeout indicates a bounded network operation did not complete
	// in time.
	CodeTimeout Code = "timeout"
)

// Class is the retry classification of an error.
type Class int

const (
	// ClassPermanent errors are surfaced immediately, never retried.
	ClassPermanent Class = iota
	// ClassTransient errors may be retried within the retry budget.
	ClassTransient
)

// Error is a classified pipeline error. It wraps an optional cause and
// supports errors.Is/errors.As.
type Error struct {
	Code    Code
	Class   Class
	Op      string
	Message string
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Op, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// New creates a permanent classified error.
func New(code Code, op, message string) *Error {
	return &Error{Code: code, Class: ClassPermanent, Op: op, Message: message}
}

// NewTransient creates a transient classified error.
func NewTransient(code Code, op, message string) *Error {
	return &Error{Code: code, Class: ClassTransient, Op: op, Message: message}
}

// Wrap wraps a cause in a permanent classified error.
func Wrap(code Code, op string, cause error) *Error {
	return &Error{Code: code, Class: ClassPermanent, Op: op, Message: cause.Error(), cause: cause}
}

// WrapTransient wraps a cause in a transient classified error.
func WrapTransient(code Code, op string, cause error) *Error {
	return &Error{Code: code, Class: ClassTransient, Op: op, Message: cause.Error(), cause: cause}
}

// CodeOf returns the Code carried by err, or the empty Code when err is
// not classified. Context deadline expiry is reported as CodeTimeout even
// when unwrapped.
func CodeOf(err error) Code {
	var ce *Error
	if stderrors.As(err, &ce) {
		return ce.Code
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return CodeTimeout
	}
	return ""
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// IsTransient reports whether err should be retried. Unclassified errors
// are treated as permanent, except context deadline expiry which is a
// transient timeout.
func IsTransient(err error) bool {
	var ce *Error
	if stderrors.As(err, &ce) {
		return ce.Class == ClassTransient
	}
	return stderrors.Is(err, context.DeadlineExceeded)
}
