package models

import "time"

// VehicleStatus represents the administrative status of a vehicle record.
type VehicleStatus string

const (
	// VehicleStatusActive indicates a registered, operating vehicle.
	VehicleStatusActive VehicleStatus = "active"
	// VehicleStatusInactive indicates a deregistered or dormant vehicle.
	VehicleStatusInactive VehicleStatus = "inactive"
	// VehicleStatusImpounded indicates a vehicle held by enforcement.
	VehicleStatusImpounded VehicleStatus = "impounded"
)

// Vehicle represents a registered vehicle. Every vehicle belongs to an
// owner and is registered in exactly one LGA; both fields feed the
// row-level scoping filters.
type Vehicle struct {
	// ID is the unique identifier for the vehicle.
	ID uint64 `gorm:"primaryKey"`
	// PlateNumber is the unique licence plate.
	PlateNumber string `gorm:"unique;size:20;not null"`
	// ChassisNumber is the vehicle identification number.
	ChassisNumber string `gorm:"size:50"`
	// Make is the manufacturer name.
	Make string `gorm:"size:50"`
	// Model is the manufacturer model name.
	Model string `gorm:"size:50"`
	// Color is the registered body color.
	Color string `gorm:"size:30"`
	// Category is the fee category (e.g., "tricycle", "minibus", "truck").
	Category string `gorm:"size:50;not null"`
	// Status is the administrative status of the record.
	Status VehicleStatus `gorm:"type:varchar(20);not null;default:'active'"`
	// OwnerID is the owning user's id.
	OwnerID uint64 `gorm:"column:owner_id;not null"`
	// Owner is the owning user (loaded via foreign key).
	Owner *User `gorm:"foreignKey:OwnerID;references:ID;constraint:OnDelete:RESTRICT,OnUpdate:CASCADE"`
	// RegisteredLgaID is the LGA the vehicle is registered in.
	RegisteredLgaID uint64 `gorm:"column:registered_lga_id;not null"`
	// RegisteredLga is the registering LGA (loaded via foreign key).
	RegisteredLga *Lga `gorm:"foreignKey:RegisteredLgaID;references:ID;constraint:OnDelete:RESTRICT,OnUpdate:CASCADE"`
	// RegisteredByID is the id of the staff user who registered the vehicle.
	RegisteredByID uint64 `gorm:"column:registered_by_id"`
	// CreatedAt is the timestamp when the vehicle was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the vehicle was last updated (managed by GORM).
	UpdatedAt time.Time
	// DeletedAt is the soft delete timestamp (nil if not deleted, managed by GORM).
	DeletedAt *time.Time
}

// TableName specifies the database table name for the Vehicle model.
func (Vehicle) TableName() string {
	return "vehicles"
}
