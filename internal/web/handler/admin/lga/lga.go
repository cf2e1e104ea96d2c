// Package lga serves the LGA catalog endpoints. The catalog read is open
// to every authenticated role; mutations are capability-gated.
package lga

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
	lgactrl "github.com/eirs-ng/vras/internal/db/controller/lga"
	"github.com/eirs-ng/vras/internal/web/handler"
)

const (
	// Path is the base path of the LGA catalog endpoints.
	Path = "/admin/lgas"
)

// Service is the LGA catalog handler service.
type Service struct {
	handler.Service
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
}

// Handler is the LGA catalog handler.
var Handler = Service{}

var validate = validator.New()

// Request is the LGA create/update payload.
type Request struct {
	Code  string `json:"code" validate:"required"`
	Name  string `json:"name" validate:"required"`
	State string `json:"state" validate:"required"`
}

// Init initializes the LGA catalog handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) error {
	if app == nil || cfg == nil || db == nil || authService == nil {
		return errors.New("app, cfg, db or authService is nil")
	}

	s.cfg = cfg
	s.db = db
	s.authService = authService

	manage := auth.RequireCapability(access.CapManageLgas)

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, auth.RequireAuthenticated(), s.List)
		router.Post(handler.RootPath, manage, s.Create)
		router.Put("/:id", manage, s.Update)
		router.Delete("/:id", manage, s.Delete)
	})

	return nil
}

// List serves the full LGA catalog.
func (s *Service) List(c *fiber.Ctx) error {
	lgas, err := lgactrl.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list lgas")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.JSON(fiber.Map{"lgas": lgas})
}

// Create creates an LGA record.
func (s *Service) Create(c *fiber.Ctx) error {
	req := new(Request)
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

	l, err := lgactrl.Create(s.db, req.Code, req.Name, req.State)
	if err != nil {
		if errors.Is(err, lgactrl.ErrLgaAlreadyExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		log.Error().Err(err).Str("code", req.Code).Msg("failed to create lga")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(l)
}

// Update updates an LGA record.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid lga id",
		})
	}

	req := new(Request)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	l, err := lgactrl.Update(s.db, id, req.Name, req.State)
	if err != nil {
		if errors.Is(err, lgactrl.ErrLgaNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		log.Error().Err(err).Uint64("lga_id", id).Msg("failed to update lga")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.JSON(l)
}

// Delete deletes an LGA record.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid lga id",
		})
	}

	if err := lgactrl.Delete(s.db, id); err != nil {
		if errors.Is(err, lgactrl.ErrLgaNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		log.Error().Err(err).Uint64("lga_id", id).Msg("failed to delete lga")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.JSON(fiber.Map{"status": "ok"})
}
