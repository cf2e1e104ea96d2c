// Package scan serves the scoped scan history listing. Recording scans
// lives with the vehicle endpoints; this package only reads.
package scan

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/eirs-ng/vras/internal/access"
	"github.com/eirs-ng/vras/internal/auth"
	"github.com/eirs-ng/vras/internal/config"
	scanctrl "github.com/eirs-ng/vras/internal/db/controller/scan"
	"github.com/eirs-ng/vras/internal/web/handler"
)

const (
	// Path is the path to the scan history endpoint.
	Path = "/scans"
)

// Service is the scan history handler service.
type Service struct {
	handler.Service
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
}

// Handler is the scan history handler.
var Handler = Service{}

// Init initializes the scan history handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) error {
	if app == nil || cfg == nil || db == nil || authService == nil {
		return errors.New("app, cfg, db or authService is nil")
	}

	s.cfg = cfg
	s.db = db
	s.authService = authService

	app.Get(Path, auth.RequireAuthenticated(), s.List)

	return nil
}

// List serves scans within the caller's scope. Agents get their own scans,
// LGA admins their territory, state admins everything.
func (s *Service) List(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	f, err := s.authService.Authorize(user, access.OpView, access.ResourceScan)
	if err != nil {
		return handler.AccessError(c, err)
	}

	limit, offset := handler.Page(c.QueryInt("limit"), c.QueryInt("offset"))

	scans, total, err := scanctrl.List(s.db, f, limit, offset)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("failed to list scans")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"scans": scans,
		"total": total,
	})
}
