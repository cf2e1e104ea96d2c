package transaction

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/eirs-ng/vras/internal/access"
	"github.com/eirs-ng/vras/internal/db/models"
	"github.com/eirs-ng/vras/internal/db/query"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.Transaction{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func TestRecord(t *testing.T) {
	db := setupTestDB(t)

	tx := models.Transaction{VehicleID: 1, OwnerID: 41, LgaID: 1, AmountKobo: 500000, Channel: "card"}
	require.NoError(t, Record(db, &tx))
	assert.Len(t, tx.Reference, ReferenceLen, "a receipt reference is generated")
	assert.Equal(t, models.TransactionStatusPending, tx.Status)

	err := Record(db, &models.Transaction{VehicleID: 1, OwnerID: 41, LgaID: 1, AmountKobo: 0})
	assert.ErrorIs(t, err, ErrAmountNotPositive)

	err = Record(db, &models.Transaction{VehicleID: 1, OwnerID: 41, LgaID: 1, AmountKobo: -5})
	assert.ErrorIs(t, err, ErrAmountNotPositive)
}

func TestSettle(t *testing.T) {
	db := setupTestDB(t)
	paidAt := time.Now()

	tx := models.Transaction{VehicleID: 1, OwnerID: 41, LgaID: 1, AmountKobo: 500000, Channel: "card"}
	require.NoError(t, Record(db, &tx))

	require.NoError(t, Settle(db, tx.Reference, models.TransactionStatusConfirmed, paidAt))

	got, err := GetByReference(db, access.Unrestricted(), tx.Reference)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusConfirmed, got.Status)
	require.NotNil(t, got.PaidAt)

	// Settled transactions are immutable.
	err = Settle(db, tx.Reference, models.TransactionStatusFailed, paidAt)
	assert.ErrorIs(t, err, ErrAlreadySettled)

	err = Settle(db, "missing-ref", models.TransactionStatusConfirmed, paidAt)
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestGetByReferenceScoped(t *testing.T) {
	db := setupTestDB(t)

	tx := models.Transaction{VehicleID: 1, OwnerID: 41, LgaID: 2, AmountKobo: 500000}
	require.NoError(t, Record(db, &tx))

	// Owner scope sees the owner's receipt.
	got, err := GetByReference(db, access.ByOwner(41), tx.Reference)
	require.NoError(t, err)
	assert.Equal(t, tx.ID, got.ID)

	// A foreign LGA scope reports not found, never leaks.
	_, err = GetByReference(db, access.ByLga(1), tx.Reference)
	assert.ErrorIs(t, err, ErrTransactionNotFound)

	_, err = GetByReference(db, access.DeniedFilter(), tx.Reference)
	assert.ErrorIs(t, err, query.ErrDeniedScope)
}

func seedRevenue(t *testing.T, db *gorm.DB, now time.Time) {
	t.Helper()

	rows := []models.Transaction{
		{VehicleID: 1, OwnerID: 41, LgaID: 1, AmountKobo: 100000},
		{VehicleID: 2, OwnerID: 41, LgaID: 1, AmountKobo: 200000},
		{VehicleID: 3, OwnerID: 42, LgaID: 2, AmountKobo: 400000},
		// Stays pending, must never count as revenue.
		{VehicleID: 4, OwnerID: 42, LgaID: 1, AmountKobo: 800000},
	}
	for i := range rows {
		require.NoError(t, Record(db, &rows[i]))
	}

	for _, ref := range []string{rows[0].Reference, rows[1].Reference, rows[2].Reference} {
		require.NoError(t, Settle(db, ref, models.TransactionStatusConfirmed, now.Add(-time.Hour)))
	}
}

func TestRevenueSummaryScoped(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()
	seedRevenue(t, db, now)

	from := now.Add(-24 * time.Hour)

	// State-level view aggregates per LGA.
	rows, err := RevenueSummary(db, access.Unrestricted(), from, now)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, uint64(1), rows[0].LgaID)
	assert.Equal(t, int64(300000), rows[0].AmountKobo)
	assert.Equal(t, int64(2), rows[0].Count)
	assert.Equal(t, uint64(2), rows[1].LgaID)
	assert.Equal(t, int64(400000), rows[1].AmountKobo)

	// LGA scope collapses to its own row.
	rows, err = RevenueSummary(db, access.ByLga(1), from, now)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(300000), rows[0].AmountKobo)

	// A window before any payment is empty.
	rows, err = RevenueSummary(db, access.Unrestricted(), from.Add(-48*time.Hour), from)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestTotalConfirmed(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()
	seedRevenue(t, db, now)

	total, err := TotalConfirmed(db, access.Unrestricted())
	require.NoError(t, err)
	assert.Equal(t, int64(700000), total, "pending rows are excluded")

	total, err = TotalConfirmed(db, access.ByLga(2))
	require.NoError(t, err)
	assert.Equal(t, int64(400000), total)

	// An empty scope sums to zero, not an error.
	total, err = TotalConfirmed(db, access.ByOwner(999))
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestListScoped(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()
	seedRevenue(t, db, now)

	got, total, err := List(db, access.ByLga(1), 50, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, got, 3)
	assert.Greater(t, got[0].ID, got[2].ID, "newest first")

	got, total, err = List(db, access.ByOwner(42), 50, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, got, 2)
}
