package login

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/eirs-ng/vras/internal/auth"
	"github.com/eirs-ng/vras/internal/config"
	"github.com/eirs-ng/vras/internal/web/handler"
	"github.com/eirs-ng/vras/internal/web/session"
)

const (
	// Path is the path to the login endpoint.
	Path = "/login"

	// LogoutPath is the path to the logout endpoint.
	LogoutPath = "/logout"
)

// Service is the login handler service.
type Service struct {
	handler.Service
	cfg      *config.Config
	db       *gorm.DB
	provider *auth.LocalProvider
}

// Handler is the login handler.
var Handler = Service{}

var validate = validator.New()

// Request is the login request payload.
type Request struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, _ *auth.Service) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New("app, cfg or db is nil")
	}

	s.db = db
	s.cfg = cfg
	s.provider = auth.NewLocalProvider(db)

	app.Post(Path, s.Post)
	app.Post(LogoutPath, s.Logout)

	return nil
}

// Post handles the login request.
func (s *Service) Post(c *fiber.Ctx) error {
	req := new(Request)

	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": ErrInvalidRequestBody.Error(),
		})
	}

	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": ErrInvalidRequestBody.Error(),
		})
	}

	user, err := s.provider.Authenticate(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserBlacklisted), errors.Is(err, auth.ErrUserAccountDisabled):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": ErrAccountRestricted.Error(),
			})
		case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrInvalidPassword):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": ErrInvalidCredentials.Error(),
			})
		default:
			log.Error().Err(err).Str("username", req.Username).Msg("login failed")

			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": ErrInternalServerError.Error(),
			})
		}
	}

	sessionID, err := session.GenerateSessionID()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate session ID")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": ErrInternalServerError.Error(),
		})
	}

	userSession := &session.Data{
		User: *user,
	}

	if err = userSession.Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		log.Error().Err(err).Msg("failed to write session")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": ErrInternalServerError.Error(),
		})
	}

	cookieSettings := &fiber.Cookie{
		Name:     "session",
		Value:    sessionID,
		MaxAge:   int(s.cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: "Lax",
	}

	if s.cfg.DevMode {
		cookieSettings.Secure = false
	}

	c.Cookie(cookieSettings)

	return c.JSON(fiber.Map{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
		"lgaId":    user.LgaID,
	})
}

// Logout invalidates the current session.
func (s *Service) Logout(c *fiber.Ctx) error {
	sessionID := c.Cookies("session")
	if sessionID != "" {
		sessData := new(session.Data)
		if err := sessData.Delete(sessionID); err != nil {
			log.Error().Err(err).Msg("failed to delete session")
		}
	}

	c.ClearCookie("session")

	return c.JSON(fiber.Map{"status": "ok"})
}
