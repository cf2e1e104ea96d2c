package config

import (
	"time"

	"github.com/eirs-ng/vras/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Paygate   Paygate
	Seed      Seed
}

// Webserver implement webserver settings.
type Webserver struct {
	CleanPath      bool    // use clean path middleware to allow multi slash requests
	DisableRecover bool    // disable recover middleware
	Domain         string  // domain name for the webserver
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver
	Session        Session // session settings
}

// Paygate holds settings for the external payment verification service.
type Paygate struct {
	Enabled bool          // false = transactions confirm without remote verification
	URL     string        // base url of the payment gateway API
	APIKey  string        // bearer token for the payment gateway API
	Timeout time.Duration // per-request timeout
}

// Seed holds first-run seeding settings.
type Seed struct {
	AdminUsername string // username for the default superadmin
	AdminPassword string // initial password for the default superadmin
}
