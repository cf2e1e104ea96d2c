// Package transaction serves the revenue endpoints: recording payments
// against the fee schedule, gateway-backed confirmation and scoped
// reporting.
package transaction

import (
	"errors"
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
	transactionctrl "github.com/eirs-ng/vras/internal/db/controller/transaction"
	vehiclectrl "github.com/eirs-ng/vras/internal/db/controller/vehicle"
	"github.com/eirs-ng/vras/internal/db/models"
	"github.com/eirs-ng/vras/internal/paygate"
	"github.com/eirs-ng/vras/internal/web/handler"
)

const (
	// Path is the base path of the transaction endpoints.
	Path = "/transactions"

	// SummaryPath is the revenue summary endpoint.
	SummaryPath = "/transactions/summary"

	defaultSummaryWindow = 30 * 24 * time.Hour
)

// Service is the transaction handler service.
type Service struct {
	handler.Service
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
}

// Handler is the transaction handler.
var Handler = Service{}

var validate = validator.New()

// RecordRequest is the payment recording payload.
type RecordRequest struct {
	VehicleID uint64 `json:"vehicleId" validate:"required"`
	Channel   string `json:"channel" validate:"required,oneof=cash pos online"`
}

// Init initializes the transaction handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) error {
	if app == nil || cfg == nil || db == nil || authService == nil {
		return errors.New("app, cfg, db or authService is nil")
	}

	s.cfg = cfg
	s.db = db
	s.authService = authService

	app.Get(SummaryPath, auth.RequireAuthenticated(), s.Summary)

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, auth.RequireAuthenticated(), s.List)
		router.Post(handler.RootPath, auth.RequireCapability(access.CapRecordTransactions), s.Record)
		router.Get("/:reference", auth.RequireAuthenticated(), s.Get)
		router.Post("/:reference/confirm", auth.RequireCapability(access.CapRecordTransactions), s.Confirm)
	})

	return nil
}

// List serves transactions within the caller's scope.
func (s *Service) List(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	f, err := s.authService.Authorize(user, access.OpView, access.ResourceTransaction)
	if err != nil {
		return handler.AccessError(c, err)
	}

	limit, offset := handler.Page(c.QueryInt("limit"), c.QueryInt("offset"))

	txs, total, err := transactionctrl.List(s.db, f, limit, offset)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("failed to list transactions")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"transactions": txs,
		"total":        total,
	})
}

// Get serves a single transaction by receipt reference within scope.
func (s *Service) Get(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	f, err := s.authService.Authorize(user, access.OpView, access.ResourceTransaction)
	if err != nil {
		return handler.AccessError(c, err)
	}

	tx, err := transactionctrl.GetByReference(s.db, f, c.Params("reference"))
	if err != nil {
		if errors.Is(err, transactionctrl.ErrTransactionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": transactionctrl.ErrTransactionNotFound.Error(),
			})
		}

		log.Error().Err(err).Uint64("user_id", user.ID).Msg("failed to get transaction")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.JSON(tx)
}

// Record creates a pending transaction priced from the active fee setting
// of the vehicle's category.
func (s *Service) Record(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	req := new(RecordRequest)
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

	f, err := s.authService.Authorize(user, access.OpCreate, access.ResourceTransaction)
	if err != nil {
		return handler.AccessError(c, err)
	}

	// The recording scope resolves the vehicle: owners pay for their own
	// vehicles, LGA staff for vehicles registered in their territory.
	v, err := vehiclectrl.Get(s.db, f, req.VehicleID)
	if err != nil {
		if errors.Is(err, vehiclectrl.ErrVehicleNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": vehiclectrl.ErrVehicleNotFound.Error(),
			})
		}

		log.Error().Err(err).Uint64("vehicle_id", req.VehicleID).Msg("failed to load vehicle")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	fee, err := feesettingctrl.ActiveForCategory(s.db, v.Category)
	if err != nil {
		if errors.Is(err, feesettingctrl.ErrNoActiveFee) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		log.Error().Err(err).Str("category", v.Category).Msg("failed to load fee setting")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	tx := &models.Transaction{
		VehicleID:    v.ID,
		OwnerID:      v.OwnerID,
		LgaID:        v.RegisteredLgaID,
		FeeSettingID: fee.ID,
		AmountKobo:   fee.AmountKobo,
		Channel:      req.Channel,
	}

	if err := transactionctrl.Record(s.db, tx); err != nil {
		log.Error().Err(err).Uint64("vehicle_id", v.ID).Msg("failed to record transaction")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	s.audit(user, "transaction.record", tx.ID, &v.RegisteredLgaID, tx.Reference)

	return c.Status(fiber.StatusCreated).JSON(tx)
}

// Confirm verifies a pending transaction against the payment gateway and
// settles it. The reference must resolve within the caller's scope, and
// settled transactions stay immutable.
func (s *Service) Confirm(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)
	reference := c.Params("reference")

	f, err := s.authService.Authorize(user, access.OpCreate, access.ResourceTransaction)
	if err != nil {
		return handler.AccessError(c, err)
	}

	if _, err := transactionctrl.GetByReference(s.db, f, reference); err != nil {
		if errors.Is(err, transactionctrl.ErrTransactionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": transactionctrl.ErrTransactionNotFound.Error(),
			})
		}

		log.Error().Err(err).Str("reference", reference).Msg("failed to load transaction")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	verification, err := paygate.Engine.Verify(c.Context(), reference)
	if err != nil {
		if errors.Is(err, paygate.ErrVerificationFailed) {
			if settleErr := transactionctrl.Settle(s.db, reference, models.TransactionStatusFailed, time.Time{}); settleErr != nil &&
				!errors.Is(settleErr, transactionctrl.ErrAlreadySettled) {
				log.Error().Err(settleErr).Str("reference", reference).Msg("failed to mark transaction failed")
			}

			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": paygate.ErrVerificationFailed.Error(),
			})
		}

		log.Error().Err(err).Str("reference", reference).Msg("paygate verification error")

		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "payment gateway unavailable",
		})
	}

	if err := transactionctrl.Settle(s.db, reference, models.TransactionStatusConfirmed, verification.PaidAt); err != nil {
		switch {
		case errors.Is(err, transactionctrl.ErrTransactionNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		case errors.Is(err, transactionctrl.ErrAlreadySettled):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
			})
		default:
			log.Error().Err(err).Str("reference", reference).Msg("failed to settle transaction")

			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "internal server error",
			})
		}
	}

	tx, err := transactionctrl.GetByReference(s.db, f, reference)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	s.audit(user, "transaction.confirm", tx.ID, &tx.LgaID, reference)

	return c.JSON(tx)
}

// Summary serves the per-LGA revenue aggregate within the caller's scope
// and time window. The window defaults to the last 30 days.
func (s *Service) Summary(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	f, err := s.authService.Authorize(user, access.OpView, access.ResourceTransaction)
	if err != nil {
		return handler.AccessError(c, err)
	}

	to := time.Now()
	from := to.Add(-defaultSummaryWindow)

	if v := c.Query("from"); v != "" {
		parsed, parseErr := time.Parse(time.RFC3339, v)
		if parseErr != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid from timestamp",
			})
		}

		from = parsed
	}

	if v := c.Query("to"); v != "" {
		parsed, parseErr := time.Parse(time.RFC3339, v)
		if parseErr != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid to timestamp",
			})
		}

		to = parsed
	}

	rows, err := transactionctrl.RevenueSummary(s.db, f, from, to)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("failed to build revenue summary")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"from":    from,
		"to":      to,
		"revenue": rows,
	})
}

func (s *Service) audit(user *models.User, action string, txID uint64, vehicleLga *uint64, detail string) {
	entry := &models.AuditTrail{
		ActorID:      user.ID,
		ActorLgaID:   user.LgaID,
		Action:       action,
		Entity:       "transaction",
		EntityID:     txID,
		VehicleLgaID: vehicleLga,
		Detail:       detail,
	}

	if err := audittrailctrl.Append(s.db, entry); err != nil {
		log.Error().Err(err).Str("action", action).Msg("failed to append audit entry")
	}
}
