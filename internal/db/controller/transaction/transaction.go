// Package transaction provides scoped operations for revenue transactions.
package transaction

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/eirs-ng/vras/internal/access"
	"github.com/eirs-ng/vras/internal/db/models"
	"github.com/eirs-ng/vras/internal/db/query"
	"github.com/eirs-ng/vras/internal/uniuri"
)

const (
	referenceQueryPattern = "reference = ?"

	// ReferenceLen is the length of a generated receipt reference.
	ReferenceLen = 20
)

var (
	// ErrTransactionNotFound is returned when a transaction is not visible within scope.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrAmountNotPositive is returned when recording a non-positive amount.
	ErrAmountNotPositive = errors.New("transaction amount must be positive")
	// ErrAlreadySettled is returned when confirming a transaction twice.
	ErrAlreadySettled = errors.New("transaction already settled")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Record creates a pending transaction with a fresh receipt reference.
func Record(db *gorm.DB, tx *models.Transaction) error {
	if db == nil {
		return ErrDBNil
	}

	if tx.AmountKobo <= 0 {
		return ErrAmountNotPositive
	}

	if tx.Reference == "" {
		tx.Reference = uniuri.NewLen(ReferenceLen)
	}

	tx.Status = models.TransactionStatusPending

	return db.Create(tx).Error
}

// GetByReference retrieves a transaction by receipt reference within scope.
func GetByReference(db *gorm.DB, f access.ScopeFilter, reference string) (*models.Transaction, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	q, err := query.Scoped(db.Model(&models.Transaction{}), f, query.Transactions)
	if err != nil {
		return nil, err
	}

	var tx models.Transaction

	result := q.Where(referenceQueryPattern, reference).First(&tx)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}

		return nil, result.Error
	}

	return &tx, nil
}

// Settle marks a pending transaction confirmed or failed. Settled
// transactions are immutable.
func Settle(db *gorm.DB, reference string, status models.TransactionStatus, paidAt time.Time) error {
	if db == nil {
		return ErrDBNil
	}

	var tx models.Transaction

	result := db.Where(referenceQueryPattern, reference).First(&tx)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ErrTransactionNotFound
		}

		return result.Error
	}

	if tx.Status != models.TransactionStatusPending {
		return ErrAlreadySettled
	}

	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if status == models.TransactionStatusConfirmed {
		updates["paid_at"] = paidAt
	}

	return db.Model(&models.Transaction{}).
		Where(referenceQueryPattern, reference).
		Updates(updates).Error
}

// List retrieves transactions within the caller's scope, newest first.
func List(db *gorm.DB, f access.ScopeFilter, limit, offset int) ([]models.Transaction, int64, error) {
	if db == nil {
		return nil, 0, ErrDBNil
	}

	q, err := query.Scoped(db.Model(&models.Transaction{}), f, query.Transactions)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txs []models.Transaction
	if err := q.Order("id DESC").Limit(limit).Offset(offset).Find(&txs).Error; err != nil {
		return nil, 0, err
	}

	return txs, total, nil
}

// LgaRevenue is one row of the revenue summary aggregate.
type LgaRevenue struct {
	LgaID      uint64
	AmountKobo int64
	Count      int64
}

// RevenueSummary aggregates confirmed revenue per LGA within the caller's
// scope and time window.
func RevenueSummary(db *gorm.DB, f access.ScopeFilter, from, to time.Time) ([]LgaRevenue, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	q, err := query.Scoped(db.Model(&models.Transaction{}), f, query.Transactions)
	if err != nil {
		return nil, err
	}

	var rows []LgaRevenue

	err = q.Select("lga_id AS lga_id, SUM(amount_kobo) AS amount_kobo, COUNT(*) AS count").
		Where("status = ?", models.TransactionStatusConfirmed).
		Where("paid_at >= ? AND paid_at < ?", from, to).
		Group("lga_id").
		Order("lga_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// TotalConfirmed returns the confirmed revenue total within scope.
func TotalConfirmed(db *gorm.DB, f access.ScopeFilter) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	q, err := query.Scoped(db.Model(&models.Transaction{}), f, query.Transactions)
	if err != nil {
		return 0, err
	}

	var total *int64

	err = q.Select("SUM(amount_kobo)").
		Where("status = ?", models.TransactionStatusConfirmed).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}

	if total == nil {
		return 0, nil
	}

	return *total, nil
}
