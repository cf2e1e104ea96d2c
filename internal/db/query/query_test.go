package query

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/eirs-ng/vras/internal/access"
	"github.com/eirs-ng/vras/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(
		&models.Lga{},
		&models.User{},
		&models.Vehicle{},
		&models.Transaction{},
		&models.Scan{},
		&models.AuditTrail{},
	)
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func lgaPtr(id uint64) *uint64 {
	return &id
}

func TestScopedDeniedNeverReachesSQL(t *testing.T) {
	db := setupTestDB(t)

	_, err := Scoped(db.Model(&models.Vehicle{}), access.DeniedFilter(), Vehicles)
	assert.ErrorIs(t, err, ErrDeniedScope)

	// The zero-value filter is denied too.
	var zero access.ScopeFilter
	_, err = Scoped(db.Model(&models.Vehicle{}), zero, Vehicles)
	assert.ErrorIs(t, err, ErrDeniedScope)
}

func TestScopedVehicles(t *testing.T) {
	db := setupTestDB(t)

	vehicles := []models.Vehicle{
		{PlateNumber: "AAA-111", Category: "minibus", Status: models.VehicleStatusActive, OwnerID: 41, RegisteredLgaID: 1},
		{PlateNumber: "BBB-222", Category: "minibus", Status: models.VehicleStatusActive, OwnerID: 41, RegisteredLgaID: 2},
		{PlateNumber: "CCC-333", Category: "truck", Status: models.VehicleStatusActive, OwnerID: 42, RegisteredLgaID: 1},
	}
	for i := range vehicles {
		require.NoError(t, db.Create(&vehicles[i]).Error)
	}

	var count int64

	// Territory scope sees both LGA-1 vehicles.
	q, err := Scoped(db.Model(&models.Vehicle{}), access.ByLga(1), Vehicles)
	require.NoError(t, err)
	require.NoError(t, q.Count(&count).Error)
	assert.Equal(t, int64(2), count)

	// Owner scope sees both of owner 41's vehicles across LGAs.
	q, err = Scoped(db.Model(&models.Vehicle{}), access.ByOwner(41), Vehicles)
	require.NoError(t, err)
	require.NoError(t, q.Count(&count).Error)
	assert.Equal(t, int64(2), count)

	// Unrestricted sees everything.
	q, err = Scoped(db.Model(&models.Vehicle{}), access.Unrestricted(), Vehicles)
	require.NoError(t, err)
	require.NoError(t, q.Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

// TestScopedLgaActivity proves the audit filter is a two-path OR: a row
// matches on the actor's LGA or on the affected vehicle's LGA.
func TestScopedLgaActivity(t *testing.T) {
	db := setupTestDB(t)

	rows := []models.AuditTrail{
		// Actor-path match: actor in LGA 1, vehicle in LGA 2.
		{ActorID: 10, ActorLgaID: lgaPtr(1), Action: "vehicle.edit", Entity: "vehicle", EntityID: 5, VehicleLgaID: lgaPtr(2)},
		// Vehicle-path match: actor in LGA 2, vehicle in LGA 1.
		{ActorID: 11, ActorLgaID: lgaPtr(2), Action: "scan.record", Entity: "vehicle", EntityID: 6, VehicleLgaID: lgaPtr(1)},
		// No match: both paths in LGA 2.
		{ActorID: 12, ActorLgaID: lgaPtr(2), Action: "vehicle.edit", Entity: "vehicle", EntityID: 7, VehicleLgaID: lgaPtr(2)},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}

	q, err := Scoped(db.Model(&models.AuditTrail{}), access.LgaActivity(1), AuditTrails)
	require.NoError(t, err)

	var got []models.AuditTrail
	require.NoError(t, q.Order("id").Find(&got).Error)
	require.Len(t, got, 2)
	assert.Equal(t, uint64(10), got[0].ActorID, "actor-path row must match")
	assert.Equal(t, uint64(11), got[1].ActorID, "vehicle-path row must match")
}

func TestScopedOwnActivity(t *testing.T) {
	db := setupTestDB(t)

	rows := []models.Scan{
		{RequestID: "r1", VehicleID: 1, ScannedByID: 21, LgaID: 7, Result: models.ScanResultCompliant},
		{RequestID: "r2", VehicleID: 2, ScannedByID: 22, LgaID: 7, Result: models.ScanResultDefaulting},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}

	q, err := Scoped(db.Model(&models.Scan{}), access.OwnActivity(21), Scans)
	require.NoError(t, err)

	var count int64
	require.NoError(t, q.Count(&count).Error)
	assert.Equal(t, int64(1), count, "agent must see own scans only, not the territory")
}

// TestCompliancePendingVehicles proves the anti-join semantics: a recently
// scanned vehicle is excluded, one with no recent scan is included.
func TestCompliancePendingVehicles(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()

	scanned := models.Vehicle{PlateNumber: "SCN-001", Category: "minibus", Status: models.VehicleStatusActive, OwnerID: 41, RegisteredLgaID: 1}
	stale := models.Vehicle{PlateNumber: "STL-002", Category: "minibus", Status: models.VehicleStatusActive, OwnerID: 42, RegisteredLgaID: 1}
	inactive := models.Vehicle{PlateNumber: "INA-003", Category: "minibus", Status: models.VehicleStatusInactive, OwnerID: 42, RegisteredLgaID: 1}
	foreign := models.Vehicle{PlateNumber: "FRN-004", Category: "minibus", Status: models.VehicleStatusActive, OwnerID: 43, RegisteredLgaID: 2}

	for _, v := range []*models.Vehicle{&scanned, &stale, &inactive, &foreign} {
		require.NoError(t, db.Create(v).Error)
	}

	// Recent scan for the first vehicle, an old one for the second.
	require.NoError(t, db.Create(&models.Scan{
		RequestID: "recent", VehicleID: scanned.ID, ScannedByID: 31, LgaID: 1,
		Result: models.ScanResultCompliant, CreatedAt: now.Add(-24 * time.Hour),
	}).Error)
	require.NoError(t, db.Create(&models.Scan{
		RequestID: "old", VehicleID: stale.ID, ScannedByID: 31, LgaID: 1,
		Result: models.ScanResultCompliant, CreatedAt: now.Add(-40 * 24 * time.Hour),
	}).Error)

	q, err := CompliancePendingVehicles(db, access.CompliancePending(1), now)
	require.NoError(t, err)

	var got []models.Vehicle
	require.NoError(t, q.Find(&got).Error)
	require.Len(t, got, 1)
	assert.Equal(t, stale.ID, got[0].ID,
		"only the active, unscanned vehicle in the LGA is pending")

	// State-wide filter additionally picks up the foreign-LGA vehicle.
	q, err = CompliancePendingVehicles(db, access.CompliancePending(0), now)
	require.NoError(t, err)

	var count int64
	require.NoError(t, q.Count(&count).Error)
	assert.Equal(t, int64(2), count)

	// A denied filter errors instead of counting anything.
	_, err = CompliancePendingVehicles(db, access.DeniedFilter(), now)
	assert.ErrorIs(t, err, ErrDeniedScope)
}
