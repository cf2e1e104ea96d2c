// Package daemon assembles the portal: database, sessions, payment
// gateway and the web service.
package daemon

import (
	"fmt"

	sessionmysql "github.com/gofiber/storage/mysql/v2"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/eirs-ng/vras/internal/config"
	"github.com/eirs-ng/vras/internal/db/dsn"
	"github.com/eirs-ng/vras/internal/db/models"
	"github.com/eirs-ng/vras/internal/logger"
	"github.com/eirs-ng/vras/internal/paygate"
	"github.com/eirs-ng/vras/internal/web"
	"github.com/eirs-ng/vras/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService web.Service
}

// Start starts the Daemon's web service and blocks until shutdown.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	if err := logger.Init(cfg.Log); err != nil {
		panic(err)
	}

	dbDriver := gormmysql.Open(dsn.Create(cfg)) // open db with gorm mysql driver

	db, err := gorm.Open(dbDriver, &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	if err = db.AutoMigrate(
		&models.Lga{},
		&models.User{},
		&models.Vehicle{},
		&models.Transaction{},
		&models.Scan{},
		&models.AuditTrail{},
		&models.FeeSetting{},
		&models.Setting{},
	); err != nil {
		panic("failed to migrate database")
	}

	seed(cfg, db)

	// Initialize fiber session store
	sessionStorage := sessionmysql.New(sessionmysql.Config{
		ConnectionURI: dsn.Create(cfg),
		Table:         "sessions",
	})

	session.Init(sessionStorage)

	paygate.Open(cfg)

	return &Daemon{
		cfg:        cfg,
		webService: *web.New(cfg, db),
	}
}
