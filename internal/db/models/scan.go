package models

import "time"

// ScanResult represents the outcome of a compliance scan.
type ScanResult string

const (
	// ScanResultCompliant indicates the vehicle's fees are settled.
	ScanResultCompliant ScanResult = "compliant"
	// ScanResultDefaulting indicates outstanding fees.
	ScanResultDefaulting ScanResult = "defaulting"
	// ScanResultUnregistered indicates the plate was not found.
	ScanResultUnregistered ScanResult = "unregistered"
)

// Scan represents a field compliance scan of a vehicle. Scans are scoped
// two ways: by the scanning agent (own-activity dashboards) and by LGA
// (territory dashboards); the compliance-pending count anti-joins on them.
type Scan struct {
	// ID is the unique identifier for the scan.
	ID uint64 `gorm:"primaryKey"`
	// RequestID is the unique id handed back to the scanning device.
	RequestID string `gorm:"unique;size:40;not null"`
	// VehicleID is the scanned vehicle.
	VehicleID uint64 `gorm:"column:vehicle_id;not null"`
	// Vehicle is the associated vehicle (loaded via foreign key).
	Vehicle *Vehicle `gorm:"foreignKey:VehicleID;references:ID;constraint:OnDelete:CASCADE"`
	// ScannedByID is the agent who performed the scan.
	ScannedByID uint64 `gorm:"column:scanned_by_id;not null"`
	// LgaID is the LGA the scan happened in.
	LgaID uint64 `gorm:"column:lga_id;not null"`
	// Latitude is the recorded scan position.
	Latitude float64
	// Longitude is the recorded scan position.
	Longitude float64
	// Result is the scan outcome.
	Result ScanResult `gorm:"type:varchar(20);not null"`
	// CreatedAt is the timestamp when the scan was recorded (managed by GORM).
	CreatedAt time.Time
}

// TableName specifies the database table name for the Scan model.
func (Scan) TableName() string {
	return "scans"
}
