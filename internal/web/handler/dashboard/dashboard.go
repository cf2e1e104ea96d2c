// Package dashboard serves the role-aware landing payload. Every figure is
// resolved through the caller's scope filter, so the same endpoint renders
// a state-wide overview for an admin, a territory overview for LGA staff
// and a personal one for a vehicle owner.
package dashboard

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/eirs-ng/vras/internal/access"
	"github.com/eirs-ng/vras/internal/auth"
	"github.com/eirs-ng/vras/internal/config"
	scanctrl "github.com/eirs-ng/vras/internal/db/controller/scan"
	transactionctrl "github.com/eirs-ng/vras/internal/db/controller/transaction"
	vehiclectrl "github.com/eirs-ng/vras/internal/db/controller/vehicle"
	"github.com/eirs-ng/vras/internal/web/handler"
)

const (
	// Path is the path to the dashboard endpoint.
	Path = "/dashboard"
)

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) error {
	if app == nil || cfg == nil || db == nil || authService == nil {
		return errors.New("app, cfg, db or authService is nil")
	}

	s.cfg = cfg
	s.db = db
	s.authService = authService

	app.Get(Path, auth.RequireAuthenticated(), s.Get)

	return nil
}

// Get renders the dashboard payload for the session user. Sections the
// role cannot see are omitted rather than zeroed, so a missing key means
// "not yours to know" while a zero means an empty territory.
//
// For field agents the vehicle figure follows the territory (registered
// LGA) while the scan figure follows the agent's own actions. The two
// deliberately disagree.
func (s *Service) Get(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	payload := fiber.Map{
		"role":  user.Role,
		"lgaId": user.LgaID,
	}

	if f, err := s.authService.Authorize(user, access.OpView, access.ResourceVehicle); err == nil {
		count, countErr := vehiclectrl.Count(s.db, f)
		if countErr != nil {
			log.Error().Err(countErr).Uint64("user_id", user.ID).Msg("failed to count vehicles")

			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "internal server error",
			})
		}

		payload["vehicles"] = count
	}

	if f, err := s.authService.Authorize(user, access.OpView, access.ResourceScan); err == nil {
		count, countErr := scanctrl.Count(s.db, f)
		if countErr != nil {
			log.Error().Err(countErr).Uint64("user_id", user.ID).Msg("failed to count scans")

			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "internal server error",
			})
		}

		payload["scans"] = count
	}

	if f, err := s.authService.Authorize(user, access.OpView, access.ResourceTransaction); err == nil {
		total, totalErr := transactionctrl.TotalConfirmed(s.db, f)
		if totalErr != nil {
			log.Error().Err(totalErr).Uint64("user_id", user.ID).Msg("failed to total revenue")

			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "internal server error",
			})
		}

		payload["revenueKobo"] = total
	}

	if f, err := s.authService.PendingCompliance(user); err == nil {
		count, countErr := vehiclectrl.CompliancePendingCount(s.db, f, time.Now())
		if countErr != nil {
			log.Error().Err(countErr).Uint64("user_id", user.ID).Msg("failed to count pending vehicles")

			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "internal server error",
			})
		}

		payload["compliancePending"] = count
	}

	return c.JSON(payload)
}
