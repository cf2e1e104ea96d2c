// Package audittrail serves the scoped audit trail listing.
package audittrail

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/eirs-ng/vras/internal/access"
	"github.com/eirs-ng/vras/internal/auth"
	"github.com/eirs-ng/vras/internal/config"
	audittrailctrl "github.com/eirs-ng/vras/internal/db/controller/audittrail"
	"github.com/eirs-ng/vras/internal/web/handler"
)

const (
	// Path is the path to the audit trail endpoint.
	Path = "/audit"
)

// Service is the audit trail handler service.
type Service struct {
	handler.Service
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
}

// Handler is the audit trail handler.
var Handler = Service{}

// Init initializes the audit trail handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) error {
	if app == nil || cfg == nil || db == nil || authService == nil {
		return errors.New("app, cfg, db or authService is nil")
	}

	s.cfg = cfg
	s.db = db
	s.authService = authService

	app.Get(Path, auth.RequireCapability(access.CapViewAuditTrail), s.List)

	return nil
}

// List serves audit entries within the caller's scope: everything for
// state admins, the actor-or-vehicle OR filter for LGA admins and own
// actions only for agents.
func (s *Service) List(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	f, err := s.authService.Authorize(user, access.OpView, access.ResourceAuditTrail)
	if err != nil {
		return handler.AccessError(c, err)
	}

	limit, offset := handler.Page(c.QueryInt("limit"), c.QueryInt("offset"))

	entries, total, err := audittrailctrl.List(s.db, f, limit, offset)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("failed to list audit entries")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"entries": entries,
		"total":   total,
	})
}
