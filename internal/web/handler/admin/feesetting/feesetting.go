// Package feesetting serves the fee schedule administration endpoints.
package feesetting

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/eirs-ng/vras/internal/access"
	"github.com/eirs-ng/vras/internal/auth"
	"github.com/eirs-ng/vras/internal/config"
	feesettingctrl "github.com/eirs-ng/vras/internal/db/controller/feesetting"
	"github.com/eirs-ng/vras/internal/db/models"
	"github.com/eirs-ng/vras/internal/web/handler"
)

const (
	// Path is the base path of the fee schedule endpoints.
	Path = "/admin/fees"
)

// Service is the fee schedule handler service.
type Service struct {
	handler.Service
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
}

// Handler is the fee schedule handler.
var Handler = Service{}

var validate = validator.New()

// CreateRequest is the fee creation payload.
type CreateRequest struct {
	Name       string `json:"name" validate:"required"`
	Category   string `json:"category" validate:"required"`
	AmountKobo int64  `json:"amountKobo" validate:"required,gt=0"`
	PeriodDays int    `json:"periodDays" validate:"required,gt=0"`
}

// UpdateRequest is the fee update payload.
type UpdateRequest struct {
	AmountKobo int64 `json:"amountKobo" validate:"required,gt=0"`
	PeriodDays int   `json:"periodDays" validate:"required,gt=0"`
	Active     bool  `json:"active"`
}

// Init initializes the fee schedule handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) error {
	if app == nil || cfg == nil || db == nil || authService == nil {
		return errors.New("app, cfg, db or authService is nil")
	}

	s.cfg = cfg
	s.db = db
	s.authService = authService

	manage := auth.RequireCapability(access.CapManageFeeSettings)

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, auth.RequireAuthenticated(), s.List)
		router.Post(handler.RootPath, manage, s.Create)
		router.Put("/:id", manage, s.Update)
		router.Delete("/:id", manage, s.Delete)
	})

	return nil
}

// List serves the full fee schedule.
func (s *Service) List(c *fiber.Ctx) error {
	fees, err := feesettingctrl.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list fee settings")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.JSON(fiber.Map{"fees": fees})
}

// Create creates a fee setting.
func (s *Service) Create(c *fiber.Ctx) error {
	req := new(CreateRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	fee := &models.FeeSetting{
		Name:       req.Name,
		Category:   req.Category,
		AmountKobo: req.AmountKobo,
		PeriodDays: req.PeriodDays,
		Active:     true,
	}

	if err := feesettingctrl.Create(s.db, fee); err != nil {
		log.Error().Err(err).Str("category", req.Category).Msg("failed to create fee setting")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fee)
}

// Update updates a fee setting.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid fee id",
		})
	}

	req := new(UpdateRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	fee, err := feesettingctrl.Update(s.db, id, req.AmountKobo, req.PeriodDays, req.Active)
	if err != nil {
		if errors.Is(err, feesettingctrl.ErrFeeSettingNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		log.Error().Err(err).Uint64("fee_id", id).Msg("failed to update fee setting")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.JSON(fee)
}

// Delete deletes a fee setting.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid fee id",
		})
	}

	if err := feesettingctrl.Delete(s.db, id); err != nil {
		if errors.Is(err, feesettingctrl.ErrFeeSettingNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		log.Error().Err(err).Uint64("fee_id", id).Msg("failed to delete fee setting")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.JSON(fiber.Map{"status": "ok"})
}
