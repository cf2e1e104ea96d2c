// Package user serves the account administration endpoints.
package user

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
	audittrailctrl "github.com/eirs-ng/vras/internal/db/controller/audittrail"
	userctrl "github.com/eirs-ng/vras/internal/db/controller/user"
	"github.com/eirs-ng/vras/internal/db/models"
	"github.com/eirs-ng/vras/internal/web/handler"
)

const (
	// Path is the base path of the account administration endpoints.
	Path = "/admin/users"
)

// Service is the account administration handler service.
type Service struct {
	handler.Service
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
	provider    *auth.LocalProvider
}

// Handler is the account administration handler.
var Handler = Service{}

var validate = validator.New()

// CreateRequest is the account creation payload.
type CreateRequest struct {
	Username  string  `json:"username" validate:"required"`
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=8"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Phone     string  `json:"phone"`
	Role      string  `json:"role" validate:"required"`
	LgaID     *uint64 `json:"lgaId"`
}

// UpdateRequest is the profile update payload.
type UpdateRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

// RoleRequest is the role assignment payload.
type RoleRequest struct {
	Role  string  `json:"role" validate:"required"`
	LgaID *uint64 `json:"lgaId"`
}

// BlacklistRequest is the blacklist toggle payload.
type BlacklistRequest struct {
	Blacklisted bool `json:"blacklisted"`
}

// PasswordRequest is the password reset payload.
type PasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

// Init initializes the account administration handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) error {
	if app == nil || cfg == nil || db == nil || authService == nil {
		return errors.New("app, cfg, db or authService is nil")
	}

	s.cfg = cfg
	s.db = db
	s.authService = authService
	s.provider = auth.NewLocalProvider(db)

	manage := auth.RequireCapability(access.CapManageUsers)

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, auth.RequireAuthenticated(), s.List)
		router.Post(handler.RootPath, manage, s.Create)
		router.Get("/:id", auth.RequireAuthenticated(), s.Get)
		router.Put("/:id", manage, s.Update)
		router.Post("/:id/role", manage, s.AssignRole)
		router.Post("/:id/activate", manage, s.Activate)
		router.Post("/:id/deactivate", manage, s.Deactivate)
		router.Post("/:id/blacklist", manage, s.Blacklist)
		router.Post("/:id/password", manage, s.ResetPassword)
		router.Delete("/:id", manage, s.Delete)
	})

	return nil
}

func paramID(c *fiber.Ctx) (uint64, error) {
	return strconv.ParseUint(c.Params("id"), 10, 64)
}

// List serves user accounts within the caller's scope. LGA admins see their
// own LGA's staff, state admins see everyone.
func (s *Service) List(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	f, err := s.authService.Authorize(user, access.OpView, access.ResourceUser)
	if err != nil {
		return handler.AccessError(c, err)
	}

	limit, offset := handler.Page(c.QueryInt("limit"), c.QueryInt("offset"))

	users, total, err := userctrl.List(s.db, f, c.Query("role"), limit, offset)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("failed to list users")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"users": users,
		"total": total,
	})
}

// Get serves a single account within the caller's scope.
func (s *Service) Get(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	f, err := s.authService.Authorize(user, access.OpView, access.ResourceUser)
	if err != nil {
		return handler.AccessError(c, err)
	}

	id, err := paramID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid user id",
		})
	}

	target, err := userctrl.Get(s.db, f, id)
	if err != nil {
		if errors.Is(err, userctrl.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": userctrl.ErrUserNotFound.Error(),
			})
		}

		log.Error().Err(err).Uint64("target_id", id).Msg("failed to get user")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.JSON(target)
}

// Create creates a new account.
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

	target := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  models.HashPassword(req.Password),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      req.Role,
		LgaID:     req.LgaID,
	}

	if err := userctrl.Create(s.db, target); err != nil {
		switch {
		case errors.Is(err, userctrl.ErrUserNameOrEmailExists):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
			})
		case errors.Is(err, userctrl.ErrLgaRequired):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": err.Error(),
			})
		default:
			log.Error().Err(err).Str("username", req.Username).Msg("failed to create user")

			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "internal server error",
			})
		}
	}

	s.audit(user, "user.create", target.ID, target.Username)

	return c.Status(fiber.StatusCreated).JSON(target)
}

// Update applies a profile update to an account.
func (s *Service) Update(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	id, err := paramID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid user id",
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

	if err := userctrl.Update(s.db, id, req.Email, req.FirstName, req.LastName, req.Phone); err != nil {
		log.Error().Err(err).Uint64("target_id", id).Msg("failed to update user")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	s.audit(user, "user.update", id, req.Email)

	return c.JSON(fiber.Map{"status": "ok"})
}

// AssignRole assigns a role, and an LGA for LGA-scoped roles.
func (s *Service) AssignRole(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	id, err := paramID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid user id",
		})
	}

	req := new(RoleRequest)
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

	if !access.ParseRole(req.Role).Known() {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "unknown role",
		})
	}

	if err := userctrl.AssignRole(s.db, id, req.Role, req.LgaID); err != nil {
		if errors.Is(err, userctrl.ErrLgaRequired) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		log.Error().Err(err).Uint64("target_id", id).Msg("failed to assign role")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	s.audit(user, "user.assign_role", id, req.Role)

	return c.JSON(fiber.Map{"status": "ok"})
}

// Activate activates an account.
func (s *Service) Activate(c *fiber.Ctx) error {
	return s.setActive(c, true)
}

// Deactivate deactivates an account.
func (s *Service) Deactivate(c *fiber.Ctx) error {
	return s.setActive(c, false)
}

func (s *Service) setActive(c *fiber.Ctx, active bool) error {
	user := auth.UserFromContext(c)

	id, err := paramID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid user id",
		})
	}

	action := "user.deactivate"
	fn := userctrl.Deactivate

	if active {
		action = "user.activate"
		fn = userctrl.Activate
	}

	if err := fn(s.db, id); err != nil {
		log.Error().Err(err).Uint64("target_id", id).Msg("failed to change activation")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	s.audit(user, action, id, "")

	return c.JSON(fiber.Map{"status": "ok"})
}

// Blacklist toggles the blacklist flag. A blacklisted account keeps its
// role but loses every permission until cleared.
func (s *Service) Blacklist(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	id, err := paramID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid user id",
		})
	}

	req := new(BlacklistRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := userctrl.Blacklist(s.db, id, req.Blacklisted); err != nil {
		log.Error().Err(err).Uint64("target_id", id).Msg("failed to change blacklist flag")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	action := "user.unblacklist"
	if req.Blacklisted {
		action = "user.blacklist"
	}

	s.audit(user, action, id, "")

	return c.JSON(fiber.Map{"status": "ok"})
}

// ResetPassword resets an account's password.
func (s *Service) ResetPassword(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	id, err := paramID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid user id",
		})
	}

	req := new(PasswordRequest)
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

	if err := s.provider.ResetPassword(id, req.Password); err != nil {
		log.Error().Err(err).Uint64("target_id", id).Msg("failed to reset password")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	s.audit(user, "user.reset_password", id, "")

	return c.JSON(fiber.Map{"status": "ok"})
}

// Delete soft deletes an account.
func (s *Service) Delete(c *fiber.Ctx) error {
	user := auth.UserFromContext(c)

	id, err := paramID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid user id",
		})
	}

	if err := userctrl.Delete(s.db, id); err != nil {
		log.Error().Err(err).Uint64("target_id", id).Msg("failed to delete user")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	s.audit(user, "user.delete", id, "")

	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Service) audit(user *models.User, action string, targetID uint64, detail string) {
	entry := &models.AuditTrail{
		ActorID:    user.ID,
		ActorLgaID: user.LgaID,
		Action:     action,
		Entity:     "user",
		EntityID:   targetID,
		Detail:     detail,
	}

	if err := audittrailctrl.Append(s.db, entry); err != nil {
		log.Error().Err(err).Str("action", action).Msg("failed to append audit entry")
	}
}
