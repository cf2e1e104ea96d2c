package models

import "time"

// FeeSetting represents a configured fee for a vehicle category. The active
// setting for a category determines the amount of new transactions.
type FeeSetting struct {
	// ID is the unique identifier for the fee setting.
	ID uint64 `gorm:"primaryKey"`
	// Name is the display name of the fee.
	Name string `gorm:"size:100;not null"`
	// Category is the vehicle category the fee applies to.
	Category string `gorm:"size:50;not null"`
	// AmountKobo is the fee amount in kobo.
	AmountKobo int64 `gorm:"not null"`
	// PeriodDays is the validity period a payment covers.
	PeriodDays int `gorm:"not null"`
	// Active indicates whether the fee is currently charged.
	Active bool `gorm:"default:true"`
	// CreatedAt is the timestamp when the fee was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the fee was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the FeeSetting model.
func (FeeSetting) TableName() string {
	return "fee_settings"
}
