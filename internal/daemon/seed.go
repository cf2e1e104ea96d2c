package daemon

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/eirs-ng/vras/internal/access"
	"github.com/eirs-ng/vras/internal/config"
	"github.com/eirs-ng/vras/internal/db/controller/setting"
	"github.com/eirs-ng/vras/internal/db/models"
)

const seededKey = "seeded"

// defaultFees is the fee schedule installed on first run. Amounts are in
// kobo; each payment covers a year.
var defaultFees = []models.FeeSetting{ //nolint:gochecknoglobals
	{Name: "Tricycle annual levy", Category: "tricycle", AmountKobo: 1_500_000, PeriodDays: 365, Active: true},
	{Name: "Minibus annual levy", Category: "minibus", AmountKobo: 3_000_000, PeriodDays: 365, Active: true},
	{Name: "Truck annual levy", Category: "truck", AmountKobo: 6_000_000, PeriodDays: 365, Active: true},
}

// seed installs the default superadmin and fee schedule on first run. The
// seeded marker keeps restarts from re-creating rows an admin has since
// edited or removed.
func seed(cfg *config.Config, db *gorm.DB) {
	var seeded bool
	if err := setting.Get(db, seededKey, &seeded); err == nil && seeded {
		return
	}

	username := cfg.Seed.AdminUsername
	if username == "" {
		username = "admin"
	}

	password := cfg.Seed.AdminPassword
	if password == "" {
		password = "changeme"
	}

	var count int64

	db.Model(&models.User{}).Count(&count)
	if count == 0 {
		db.Create(
			&models.User{
				Username: username,
				Password: models.HashPassword(password),
				Active:   true,
				Role:     string(access.RoleSuperAdmin),
			},
		)

		log.Info().Str("username", username).Msg("seeded default superadmin")
	}

	db.Model(&models.FeeSetting{}).Count(&count)
	if count == 0 {
		for i := range defaultFees {
			db.Create(&defaultFees[i])
		}

		log.Info().Int("count", len(defaultFees)).Msg("seeded default fee schedule")
	}

	if err := setting.Set(db, seededKey, true); err != nil {
		log.Error().Err(err).Msg("failed to store seed marker")
	}
}
