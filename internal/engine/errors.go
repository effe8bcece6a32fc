package engine

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies pipeline failures. Every error that leaves the
// pipeline carries exactly one kind, so front ends can pick an exit
// code or HTTP status without inspecting internals.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidURL
	KindCaptionsUnavailable
	KindDownload
	KindGenerationAuth
	KindGenerationExhausted
	KindUnparseableResponse
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindInvalidURL:
		return "invalid_url"
	case KindCaptionsUnavailable:
		return "captions_unavailable"
	case KindDownload:
		return "download_failed"
	case KindGenerationAuth:
		return "generation_auth"
	case KindGenerationExhausted:
		return "generation_exhausted"
	case KindUnparseableResponse:
		return "unparseable_response"
	case KindPersistence:
		return "persistence_failed"
	}
	return "unknown"
}

// HTTPStatus maps a kind to the status the REST front end returns:
// 4xx for caller-caused failures, 5xx for service-caused ones.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidURL:
		return http.StatusBadRequest
	case KindCaptionsUnavailable:
		return http.StatusUnprocessableEntity
	case KindDownload, KindUnparseableResponse:
		return http.StatusBadGateway
	case KindGenerationExhausted:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// Error is the pipeline's terminal error: a kind plus a human message,
// optionally wrapping the underlying cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// E builds a pipeline error wrapping err (err may be nil).
func E(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// Ef builds a pipeline error with a formatted message.
func Ef(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from an error chain; KindUnknown when the
// chain carries no pipeline error.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}
