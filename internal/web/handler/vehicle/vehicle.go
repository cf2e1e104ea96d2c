// Package vehicle serves the vehicle registry endpoints: scoped listing
// and lookup, registration, edits and roadside compliance scans.
package vehicle

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/eirs-ng/vras/internal/access"
	"github.com/eirs-ng/vras/internal/auth"
	"github.com/eirs-ng/vras/internal/config"
	audittrailctrl "github.com/eirs-ng/vras/internal/db/controller/audittrail"
	feesettingctrl "github.com/eirs-ng/vras/internal/db/controller/feesetting"
	scanctrl "github.com/eirs-ng/vras/internal/db/controller/scan"
	vehiclectrl "github.com/eirs-ng/vras/internal/db/controller/vehicle"
	"github.com/eirs-ng/vras/internal/db/models"
	"github.com/eirs-ng/vras/internal/web/handler"
)

const (
	// Path is the base path of the vehicle endpoints.
	Path = "/vehicles"

	// ScanPath is the roadside scan endpoint.
	ScanPath = "/vehicles/scan"
)

// Service is the vehicle handler service.
type Service struct {
	handler.Service
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
}

// Handler is the vehicle handler.
var Handler = Service{}

var validate = validator.New()

// CreateRequest is the vehicle registration payload.
type CreateRequest struct {
	PlateNumber     string `json:"plateNumber" validate:"required"`
	ChassisNumber   string `json:"chassisNumber"`
	Make            string `json:"make"`
	Model           string `json:"model"`
	Color           string `json:"color"`
	Category        string `json:"category" validate:"required"`
	OwnerID         uint64 `json:"ownerId" validate:"required"`
	RegisteredLgaID uint64 `json:"registeredLgaId" validate:"required"`
}

// UpdateRequest is the vehicle edit payload.
type UpdateRequest struct {
	Make   string `json:"make"`
	Model  string `json:"model"`
	Color  string `json:"color"`
	Status string `json:"status" validate:"omitempty,oneof=active inactive impounded"`
}

// ScanRequest is the roadside scan payload.
type ScanRequest struct {
	PlateNumber string  `json:"plateNumber" validate:"required"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// Init initializes the vehicle handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) error {
	if app == nil || cfg == nil || db == nil || authService == nil {
		return errors.New("app, cfg, db or authService is nil")
	}

	s.cfg = cfg
	s.db = db
	s.authService = authService

	app.Post(ScanPath, auth.RequireCapability(access.CapScanVehicles), s.Scan)

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, auth.RequireAuthenticated(), s.List)
		router.Post(handler.RootPath, auth.RequireCapability(access.CapCreateVehicles), s.Create)
		router.Get("/:id", auth.RequireAuthenticated(), s.Get)
		router.Put("/:id", auth.RequireCapability(access.CapEditVehicles), s.Update)
	})

	return nil
}

// List serves vehicles within the caller's scope.
func (s *Service) List(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	f, err := s.authService.Authorize(user, access.OpView, access.ResourceVehicle)
	if err != nil {
		return handler.AccessError(c, err)
	}

	params := vehiclectrl.ListParams{
		Page:   c.QueryInt("page", 1),
		Size:   c.QueryInt("size", vehiclectrl.DefaultPageSize),
		Search: c.Query("plate"),
	}

	vehicles, total, err := vehiclectrl.List(s.db, f, params)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("failed to list vehicles")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"vehicles": vehicles,
		"total":    total,
	})
}

// Get serves a single vehicle within the caller's scope.
func (s *Service) Get(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	f, err := s.authService.Authorize(user, access.OpView, access.ResourceVehicle)
	if err != nil {
		return handler.AccessError(c, err)
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid vehicle id",
		})
	}

	v, err := vehiclectrl.Get(s.db, f, id)
	if err != nil {
		if errors.Is(err, vehiclectrl.ErrVehicleNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": vehiclectrl.ErrVehicleNotFound.Error(),
			})
		}

		log.Error().Err(err).Uint64("user_id", user.ID).Uint64("vehicle_id", id).
			Msg("failed to get vehicle")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.JSON(v)
}

// Create registers a new vehicle. The target LGA is validated against the
// caller's write-time allow-list, which for LGA staff holds exactly their
// own LGA.
func (s *Service) Create(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

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

	allow, err := s.authService.CreatableLgas(user)
	if err != nil {
		return handler.AccessError(c, err)
	}

	v := &models.Vehicle{
		PlateNumber:     req.PlateNumber,
		ChassisNumber:   req.ChassisNumber,
		Make:            req.Make,
		Model:           req.Model,
		Color:           req.Color,
		Category:        req.Category,
		OwnerID:         req.OwnerID,
		RegisteredLgaID: req.RegisteredLgaID,
		RegisteredByID:  user.ID,
	}

	if err := vehiclectrl.Create(s.db, v, allow); err != nil {
		switch {
		case errors.Is(err, vehiclectrl.ErrLgaNotAllowed):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": err.Error(),
			})
		case errors.Is(err, vehiclectrl.ErrPlateNumberExists),
			errors.Is(err, vehiclectrl.ErrPlateNumberEmpty):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
			})
		default:
			log.Error().Err(err).Uint64("user_id", user.ID).Msg("failed to create vehicle")

			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "internal server error",
			})
		}
	}

	s.audit(user, "vehicle.create", v.ID, &v.RegisteredLgaID, v.PlateNumber)

	return c.Status(fiber.StatusCreated).JSON(v)
}

// Update edits a vehicle within the caller's scope.
func (s *Service) Update(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	f, err := s.authService.Authorize(user, access.OpEdit, access.ResourceVehicle)
	if err != nil {
		return handler.AccessError(c, err)
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid vehicle id",
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

	updates := map[string]interface{}{}
	if req.Make != "" {
		updates["make"] = req.Make
	}

	if req.Model != "" {
		updates["model"] = req.Model
	}

	if req.Color != "" {
		updates["color"] = req.Color
	}

	if req.Status != "" {
		updates["status"] = req.Status
	}

	if err := vehiclectrl.Update(s.db, f, id, updates); err != nil {
		if errors.Is(err, vehiclectrl.ErrVehicleNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": vehiclectrl.ErrVehicleNotFound.Error(),
			})
		}

		log.Error().Err(err).Uint64("user_id", user.ID).Uint64("vehicle_id", id).
			Msg("failed to update vehicle")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	v, err := vehiclectrl.Get(s.db, f, id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	s.audit(user, "vehicle.edit", v.ID, &v.RegisteredLgaID, v.PlateNumber)

	return c.JSON(v)
}

// Scan records a roadside compliance scan. The plate lookup is not scope
// filtered: an agent can scan any vehicle physically in front of them, the
// scope rules govern what they can list afterwards.
func (s *Service) Scan(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	req := new(ScanRequest)
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

	var v models.Vehicle

	err := s.db.Where("plate_number = ?", req.PlateNumber).First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Nothing to attach a scan row to; the caller still learns
			// the plate is not in the registry.
			return c.JSON(fiber.Map{
				"plateNumber": req.PlateNumber,
				"result":      models.ScanResultUnregistered,
			})
		}

		log.Error().Err(err).Str("plate", req.PlateNumber).Msg("failed to look up plate")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	result := s.complianceResult(&v)

	scanLga := v.RegisteredLgaID
	if user.LgaID != nil {
		scanLga = *user.LgaID
	}

	scan := &models.Scan{
		VehicleID:   v.ID,
		ScannedByID: user.ID,
		LgaID:       scanLga,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Result:      result,
	}

	if err := scanctrl.Record(s.db, scan); err != nil {
		log.Error().Err(err).Uint64("vehicle_id", v.ID).Msg("failed to record scan")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	s.audit(user, "scan.record", v.ID, &v.RegisteredLgaID, v.PlateNumber)

	return c.Status(fiber.StatusCreated).JSON(scan)
}

// complianceResult decides the scan verdict: a vehicle is compliant when a
// confirmed transaction exists inside the fee period for its category.
func (s *Service) complianceResult(v *models.Vehicle) models.ScanResult {
	if v.Status != models.VehicleStatusActive {
		return models.ScanResultDefaulting
	}

	fee, err := feesettingctrl.ActiveForCategory(s.db, v.Category)
	if err != nil {
		if !errors.Is(err, feesettingctrl.ErrNoActiveFee) {
			log.Error().Err(err).Str("category", v.Category).Msg("failed to load fee setting")
		}

		return models.ScanResultDefaulting
	}

	cutoff := time.Now().AddDate(0, 0, -fee.PeriodDays)

	var count int64

	err = s.db.Model(&models.Transaction{}).
		Where("vehicle_id = ? AND status = ? AND paid_at >= ?",
			v.ID, models.TransactionStatusConfirmed, cutoff).
		Count(&count).Error
	if err != nil {
		log.Error().Err(err).Uint64("vehicle_id", v.ID).Msg("failed to check payments")

		return models.ScanResultDefaulting
	}

	if count == 0 {
		return models.ScanResultDefaulting
	}

	return models.ScanResultCompliant
}

// audit appends an audit entry, logging instead of failing the request
// when the append itself errors.
func (s *Service) audit(user *models.User, action string, vehicleID uint64, vehicleLga *uint64, detail string) {
	entry := &models.AuditTrail{
		ActorID:      user.ID,
		ActorLgaID:   user.LgaID,
		Action:       action,
		Entity:       "vehicle",
		EntityID:     vehicleID,
		VehicleLgaID: vehicleLga,
		Detail:       detail,
	}

	if err := audittrailctrl.Append(s.db, entry); err != nil {
		log.Error().Err(err).Str("action", action).Uint64("vehicle_id", vehicleID).
			Msg("failed to append audit entry")
	}
}
