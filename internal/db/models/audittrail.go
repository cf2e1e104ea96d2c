package models

import "time"

// AuditTrail represents a recorded action in the portal. A row carries two
// independent LGA foreign keys: the actor's LGA and the affected vehicle's
// LGA. LGA-admin visibility is the OR of both paths, which is why they are
// separate columns rather than one.
type AuditTrail struct {
	// ID is the unique identifier for the audit entry.
	ID uint64 `gorm:"primaryKey"`
	// ActorID is the user who performed the action.
	ActorID uint64 `gorm:"column:actor_id;not null"`
	// ActorLgaID is the actor's assigned LGA at the time of the action.
	ActorLgaID *uint64 `gorm:"column:actor_lga_id"`
	// Action is the performed action (e.g., "vehicle.create", "scan.record").
	Action string `gorm:"size:50;not null"`
	// Entity is the affected entity kind (e.g., "vehicle", "user").
	Entity string `gorm:"size:30;not null"`
	// EntityID is the affected entity's id.
	EntityID uint64 `gorm:"column:entity_id"`
	// VehicleLgaID is the affected vehicle's registered LGA, when the
	// action touched a vehicle.
	VehicleLgaID *uint64 `gorm:"column:vehicle_lga_id"`
	// Detail is a human-readable summary of the action.
	Detail string `gorm:"size:255"`
	// CreatedAt is the timestamp when the entry was appended (managed by GORM).
	CreatedAt time.Time
}

// TableName specifies the database table name for the AuditTrail model.
func (AuditTrail) TableName() string {
	return "audit_trails"
}
