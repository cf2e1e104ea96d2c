package models

import "time"

// TransactionStatus represents the settlement state of a revenue transaction.
type TransactionStatus string

const (
	// TransactionStatusPending indicates a recorded but unverified payment.
	TransactionStatusPending TransactionStatus = "pending"
	// TransactionStatusConfirmed indicates a verified payment.
	TransactionStatusConfirmed TransactionStatus = "confirmed"
	// TransactionStatusFailed indicates a payment that could not be verified.
	TransactionStatusFailed TransactionStatus = "failed"
)

// Transaction represents a revenue payment against a vehicle. Transactions
// carry both the owner and the LGA so that owner-scoped and LGA-scoped
// queries filter on their own columns.
type Transaction struct {
	// ID is the unique identifier for the transaction.
	ID uint64 `gorm:"primaryKey"`
	// Reference is the unique receipt reference handed to the payer.
	Reference string `gorm:"unique;size:40;not null"`
	// VehicleID is the vehicle the payment applies to.
	VehicleID uint64 `gorm:"column:vehicle_id;not null"`
	// Vehicle is the associated vehicle (loaded via foreign key).
	Vehicle *Vehicle `gorm:"foreignKey:VehicleID;references:ID;constraint:OnDelete:RESTRICT,OnUpdate:CASCADE"`
	// OwnerID is the paying owner's user id.
	OwnerID uint64 `gorm:"column:owner_id;not null"`
	// LgaID is the LGA the revenue is attributed to.
	LgaID uint64 `gorm:"column:lga_id;not null"`
	// FeeSettingID is the fee setting the amount was derived from.
	FeeSettingID uint64 `gorm:"column:fee_setting_id"`
	// AmountKobo is the amount in kobo (minor currency unit).
	AmountKobo int64 `gorm:"not null"`
	// Channel is the payment channel (e.g., "cash", "pos", "online").
	Channel string `gorm:"size:20;not null"`
	// Status is the settlement state.
	Status TransactionStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	// PaidAt is when the payment was confirmed (nil while pending).
	PaidAt *time.Time
	// CreatedAt is the timestamp when the transaction was recorded (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the transaction was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Transaction model.
func (Transaction) TableName() string {
	return "transactions"
}
