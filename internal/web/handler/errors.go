package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/eirs-ng/vras/internal/access"
)

// AccessError renders an access denial as the matching HTTP status. Denials
// keep their machine-readable reason; anything else is a plain 500.
func AccessError(c *fiber.Ctx, err error) error {
	reason, ok := access.DeniedReason(err)
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	status := fiber.StatusForbidden
	message := "forbidden"

	if reason == access.ReasonUnauthenticated {
		status = fiber.StatusUnauthorized
		message = "unauthorized"
	}

	return c.Status(status).JSON(fiber.Map{
		"error":  message,
		"reason": string(reason),
	})
}
