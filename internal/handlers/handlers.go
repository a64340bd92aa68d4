package handlers

import (
	"github.com/gofiber/fiber/v2"

	"interview-platform/internal/apperrors"
)

// respondError shapes a service error into the API error envelope:
// machine-readable kind plus a human-readable message, with the status
// derived from the error taxonomy.
func respondError(c *fiber.Ctx, err error) error {
	kind := apperrors.KindOf(err)
	if kind == "" {
		kind = "INTERNAL"
	}
	return c.Status(apperrors.StatusCode(err)).JSON(fiber.Map{
		"error": err.Error(),
		"kind":  kind,
	})
}
