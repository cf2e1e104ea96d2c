// Package feesetting provides CRUD operations for fee settings.
package feesetting

import (
	"errors"

	"gorm.io/gorm"

	"github.com/eirs-ng/vras/internal/db/models"
)

var (
	// ErrFeeSettingNotFound is returned when a fee setting is not found.
	ErrFeeSettingNotFound = errors.New("fee setting not found")
	// ErrNoActiveFee is returned when no active fee exists for a category.
	ErrNoActiveFee = errors.New("no active fee setting for category")
	// ErrAmountNotPositive is returned when the fee amount is not positive.
	ErrAmountNotPositive = errors.New("fee amount must be positive")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Create creates a new fee setting.
func Create(db *gorm.DB, fee *models.FeeSetting) error {
	if db == nil {
		return ErrDBNil
	}

	if fee.AmountKobo <= 0 {
		return ErrAmountNotPositive
	}

	return db.Create(fee).Error
}

// Get retrieves a fee setting by id.
func Get(db *gorm.DB, id uint64) (*models.FeeSetting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var fee models.FeeSetting

	result := db.First(&fee, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrFeeSettingNotFound
		}

		return nil, result.Error
	}

	return &fee, nil
}

// GetAll retrieves all fee settings.
func GetAll(db *gorm.DB) ([]models.FeeSetting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var fees []models.FeeSetting

	result := db.Order("category").Find(&fees)
	if result.Error != nil {
		return nil, result.Error
	}

	return fees, nil
}

// ActiveForCategory retrieves the active fee for a vehicle category.
func ActiveForCategory(db *gorm.DB, category string) (*models.FeeSetting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var fee models.FeeSetting

	result := db.Where("category = ? AND active = ?", category, true).
		Order("id DESC").
		First(&fee)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveFee
		}

		return nil, result.Error
	}

	return &fee, nil
}

// Update updates a fee setting by id.
func Update(db *gorm.DB, id uint64, amountKobo int64, periodDays int, active bool) (*models.FeeSetting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if amountKobo <= 0 {
		return nil, ErrAmountNotPositive
	}

	var fee models.FeeSetting

	result := db.First(&fee, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrFeeSettingNotFound
		}

		return nil, result.Error
	}

	fee.AmountKobo = amountKobo
	fee.PeriodDays = periodDays
	fee.Active = active

	result = db.Save(&fee)
	if result.Error != nil {
		return nil, result.Error
	}

	return &fee, nil
}

// Delete deletes a fee setting by id.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.FeeSetting{}, id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrFeeSettingNotFound
	}

	return nil
}
