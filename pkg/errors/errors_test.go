package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppErrorUnwrap(t *testing.T) {
	err := New(ErrSourceUnavailable, http.StatusServiceUnavailable, "content db down")
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Error("expected errors.Is to match the sentinel")
	}
	wrapped := fmt.Errorf("building index: %w", err)
	if !errors.Is(wrapped, ErrSourceUnavailable) {
		t.Error("sentinel should survive further wrapping")
	}
}

func TestHTTPStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error with code", New(ErrSourceUnavailable, 503, "down"), 503},
		{"wrapped app error", fmt.Errorf("ctx: %w", New(ErrInvalidInput, 400, "bad")), 400},
		{"bare invalid input", ErrInvalidInput, http.StatusBadRequest},
		{"bare source unavailable", ErrSourceUnavailable, http.StatusServiceUnavailable},
		{"bare index not built", ErrIndexNotBuilt, http.StatusServiceUnavailable},
		{"bare timeout", ErrTimeout, http.StatusServiceUnavailable},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatusCode(tt.err); got != tt.want {
				t.Errorf("HTTPStatusCode = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAppErrorMessage(t *testing.T) {
	err := Newf(ErrInternal, 500, "shard %d failed", 3)
	want := "internal error: shard 3 failed"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
