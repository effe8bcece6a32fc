package engine

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"direct", E(KindInvalidURL, "bad", nil), KindInvalidURL},
		{"wrapped", fmt.Errorf("outer: %w", E(KindDownload, "inner", nil)), KindDownload},
		{"double wrapped", fmt.Errorf("a: %w", fmt.Errorf("b: %w", Ef(KindCaptionsUnavailable, "x"))), KindCaptionsUnavailable},
		{"plain error", errors.New("plain"), KindUnknown},
		{"nil", nil, KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	cause := errors.New("connection reset")
	err := E(KindDownload, "fetch captions", cause)
	if err.Error() != "fetch captions: connection reset" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("cause not reachable through Unwrap")
	}

	bare := E(KindPersistence, "write failed", nil)
	if bare.Error() != "write failed" {
		t.Errorf("Error() = %q", bare.Error())
	}
}

func TestKindHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindInvalidURL, http.StatusBadRequest},
		{KindCaptionsUnavailable, http.StatusUnprocessableEntity},
		{KindDownload, http.StatusBadGateway},
		{KindUnparseableResponse, http.StatusBadGateway},
		{KindGenerationExhausted, http.StatusServiceUnavailable},
		{KindGenerationAuth, http.StatusInternalServerError},
		{KindPersistence, http.StatusInternalServerError},
		{KindUnknown, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := tt.kind.HTTPStatus(); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	if KindCaptionsUnavailable.String() != "captions_unavailable" {
		t.Errorf("String() = %q", KindCaptionsUnavailable.String())
	}
	if Kind(99).String() != "unknown" {
		t.Errorf("String() = %q", Kind(99).String())
	}
}
