// Package web wires the Fiber application: middleware, handler
// registration and the graceful shutdown dance.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/eirs-ng/vras/internal/auth"
	"github.com/eirs-ng/vras/internal/config"
	admfeesetting "github.com/eirs-ng/vras/internal/web/handler/admin/feesetting"
	admlga "github.com/eirs-ng/vras/internal/web/handler/admin/lga"
	admuser "github.com/eirs-ng/vras/internal/web/handler/admin/user"
	"github.com/eirs-ng/vras/internal/web/handler/audittrail"
	"github.com/eirs-ng/vras/internal/web/handler/dashboard"
	"github.com/eirs-ng/vras/internal/web/handler/login"
	"github.com/eirs-ng/vras/internal/web/handler/scan"
	"github.com/eirs-ng/vras/internal/web/handler/transaction"
	"github.com/eirs-ng/vras/internal/web/handler/vehicle"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	authService  *auth.Service
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	s.alive.Store(true)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for graceful shutdown of the portal.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New())
	}

	authService := auth.NewService(db)

	service := &Service{
		cfg:         cfg,
		App:         app,
		db:          db,
		authService: authService,
	}

	// liveness probe for load balancers
	app.Get("/checkalive", func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendString("OK")
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// init handlers (they register their own routes with capability checks)
	mustInit(login.Handler.Init(app, cfg, db, authService))
	mustInit(dashboard.Handler.Init(app, cfg, db, authService))
	mustInit(vehicle.Handler.Init(app, cfg, db, authService))
	mustInit(scan.Handler.Init(app, cfg, db, authService))
	mustInit(transaction.Handler.Init(app, cfg, db, authService))
	mustInit(audittrail.Handler.Init(app, cfg, db, authService))
	mustInit(admuser.Handler.Init(app, cfg, db, authService))
	mustInit(admlga.Handler.Init(app, cfg, db, authService))
	mustInit(admfeesetting.Handler.Init(app, cfg, db, authService))

	// redirect root to dashboard
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect(dashboard.Path)
	})

	return service
}

func mustInit(err error) {
	if err != nil {
		log.Fatal().Err(err).Msg("handler init failed")
	}
}
