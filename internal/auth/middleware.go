package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/eirs-ng/vras/internal/access"
	"github.com/eirs-ng/vras/internal/db/models"
	"github.com/eirs-ng/vras/internal/web/session"
)

const (
	// LocalsUser is the fiber.Locals key holding the session user.
	LocalsUser = "user"
)

// UserFromContext returns the session user stored by RequireAuthenticated.
func UserFromContext(c *fiber.Ctx) *models.User {
	u, ok := c.Locals(LocalsUser).(*models.User)
	if !ok {
		return nil
	}

	return u
}

// readSessionUser resolves the session cookie into a user, nil when the
// session is missing or invalid.
func readSessionUser(c *fiber.Ctx) *models.User {
	sessionID := c.Cookies("session")
	if sessionID == "" {
		return nil
	}

	sessData := new(session.Data)
	if err := sessData.Read(sessionID); err != nil {
		return nil
	}

	if sessData.User.ID == 0 {
		return nil
	}

	return &sessData.User
}

// RequireAuthenticated creates Fiber middleware that rejects requests
// without a valid session. Restricted accounts are rejected even when the
// session predates the restriction.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := readSessionUser(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":  "unauthorized",
				"reason": string(access.ReasonUnauthenticated),
			})
		}

		if Principal(user).Restricted() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":  "forbidden",
				"reason": string(access.ReasonAccountRestricted),
			})
		}

		c.Locals(LocalsUser, user)

		return c.Next()
	}
}

// RequireCapability creates Fiber middleware that requires a capability on
// top of authentication.
func RequireCapability(cap access.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := readSessionUser(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":  "unauthorized",
				"reason": string(access.ReasonUnauthenticated),
			})
		}

		p := Principal(user)

		if p.Restricted() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":  "forbidden",
				"reason": string(access.ReasonAccountRestricted),
			})
		}

		if !access.Can(p.Role, cap) {
			log.Warn().Uint64("user_id", user.ID).Str("role", user.Role).Str("capability", string(cap)).
				Msg("user lacks required capability")

			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":  "forbidden",
				"reason": string(access.ReasonRoleNotPermitted),
			})
		}

		c.Locals(LocalsUser, user)

		return c.Next()
	}
}

// RequireRoles creates Fiber middleware gating a route on an explicit
// allow/deny role pair using the open base rule.
func RequireRoles(allowed, denied []access.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := readSessionUser(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":  "unauthorized",
				"reason": string(access.ReasonUnauthenticated),
			})
		}

		p := Principal(user)

		if p.Restricted() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":  "forbidden",
				"reason": string(access.ReasonAccountRestricted),
			})
		}

		if !access.IsAuthorized(p.Role, allowed, denied) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":  "forbidden",
				"reason": string(access.ReasonRoleNotPermitted),
			})
		}

		c.Locals(LocalsUser, user)

		return c.Next()
	}
}
