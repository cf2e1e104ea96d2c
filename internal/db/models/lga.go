// Package models contains database model definitions.
package models

import "time"

// Lga represents a local government area, the administrative scoping unit
// used throughout the permission model. Vehicles, users and transactions
// all carry an LGA reference that row-level scoping filters on.
type Lga struct {
	// ID is the unique identifier for the LGA.
	ID uint64 `gorm:"primaryKey"`
	// Code is the short administrative code (e.g., "BRN-01").
	Code string `gorm:"unique;size:20;not null"`
	// Name is the display name of the LGA.
	Name string `gorm:"size:100;not null"`
	// State is the state the LGA belongs to.
	State string `gorm:"size:100;not null"`
	// CreatedAt is the timestamp when the LGA was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the LGA was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Lga model.
func (Lga) TableName() string {
	return "lgas"
}
