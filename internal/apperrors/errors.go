package apperrors

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind is the machine-readable error category returned to API clients.
type Kind string

const (
	KindInvalidConfiguration Kind = "INVALID_CONFIGURATION"
	KindCollectionNotFound   Kind = "COLLECTION_NOT_FOUND"
	KindNotFound             Kind = "NOT_FOUND"
	KindInvalidTransition    Kind = "INVALID_TRANSITION"
	KindAlreadyAnswered      Kind = "ALREADY_ANSWERED"
	KindMalformedModelOutput Kind = "MALFORMED_MODEL_OUTPUT"
	KindServiceUnavailable   Kind = "SERVICE_UNAVAILABLE"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the kind of an error, or empty string for plain errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// StatusCode maps an error kind to its HTTP status.
func StatusCode(err error) int {
	switch KindOf(err) {
	case KindInvalidConfiguration:
		return fiber.StatusBadRequest
	case KindCollectionNotFound, KindNotFound:
		return fiber.StatusNotFound
	case KindInvalidTransition, KindAlreadyAnswered:
		return fiber.StatusConflict
	case KindMalformedModelOutput:
		return fiber.StatusBadGateway
	case KindServiceUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
