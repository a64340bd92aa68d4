package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestKindOf(t *testing.T) {
	err := New(KindNotFound, "session %s not found", "abc")
	if KindOf(err) != KindNotFound {
		t.Errorf("KindOf = %q", KindOf(err))
	}

	wrapped := fmt.Errorf("outer: %w", err)
	if KindOf(wrapped) != KindNotFound {
		t.Errorf("kind must survive wrapping, got %q", KindOf(wrapped))
	}

	if KindOf(errors.New("plain")) != "" {
		t.Error("plain errors have no kind")
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(KindServiceUnavailable, cause, "ollama unreachable")

	if !errors.Is(err, cause) {
		t.Error("wrapped cause must be reachable via errors.Is")
	}
	if !Is(err, KindServiceUnavailable) {
		t.Error("Is should match the kind")
	}
	if Is(err, KindNotFound) {
		t.Error("Is must not match a different kind")
	}
}

func TestStatusCode(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{KindInvalidConfiguration, fiber.StatusBadRequest},
		{KindCollectionNotFound, fiber.StatusNotFound},
		{KindNotFound, fiber.StatusNotFound},
		{KindInvalidTransition, fiber.StatusConflict},
		{KindAlreadyAnswered, fiber.StatusConflict},
		{KindMalformedModelOutput, fiber.StatusBadGateway},
		{KindServiceUnavailable, fiber.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		if got := StatusCode(New(tc.kind, "x")); got != tc.want {
			t.Errorf("StatusCode(%s) = %d, want %d", tc.kind, got, tc.want)
		}
	}

	if got := StatusCode(errors.New("plain")); got != fiber.StatusInternalServerError {
		t.Errorf("plain error status = %d", got)
	}
}
