// Package lga provides CRUD operations for local government area records.
// The LGA catalog is reference data visible to every authenticated role;
// mutations are capability-gated by the callers.
package lga

import (
	"errors"

	"gorm.io/gorm"

	"github.com/eirs-ng/vras/internal/db/models"
)

const (
	codeQueryPattern = "code = ?"
)

var (
	// ErrLgaNotFound is returned when an LGA is not found.
	ErrLgaNotFound = errors.New("lga not found")
	// ErrLgaCodeEmpty is returned when creating an LGA with an empty code.
	ErrLgaCodeEmpty = errors.New("lga code cannot be empty")
	// ErrLgaAlreadyExists is returned when an LGA with the code already exists.
	ErrLgaAlreadyExists = errors.New("lga already exists")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves an LGA by its id.
func Get(db *gorm.DB, id uint64) (*models.Lga, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var l models.Lga

	result := db.First(&l, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrLgaNotFound
		}

		return nil, result.Error
	}

	return &l, nil
}

// GetByCode retrieves an LGA by its administrative code.
func GetByCode(db *gorm.DB, code string) (*models.Lga, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if code == "" {
		return nil, ErrLgaCodeEmpty
	}

	var l models.Lga

	result := db.Where(codeQueryPattern, code).First(&l)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrLgaNotFound
		}

		return nil, result.Error
	}

	return &l, nil
}

// GetAll retrieves all LGAs ordered by name.
func GetAll(db *gorm.DB) ([]models.Lga, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var lgas []models.Lga

	result := db.Order("name").Find(&lgas)
	if result.Error != nil {
		return nil, result.Error
	}

	return lgas, nil
}

// Create creates a new LGA record.
func Create(db *gorm.DB, code, name, state string) (*models.Lga, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if code == "" {
		return nil, ErrLgaCodeEmpty
	}

	var existing models.Lga

	result := db.Where(codeQueryPattern, code).First(&existing)
	if result.Error == nil {
		return nil, ErrLgaAlreadyExists
	}

	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	l := &models.Lga{
		Code:  code,
		Name:  name,
		State: state,
	}

	result = db.Create(l)
	if result.Error != nil {
		return nil, result.Error
	}

	return l, nil
}

// Update updates an existing LGA by id.
func Update(db *gorm.DB, id uint64, name, state string) (*models.Lga, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var l models.Lga

	result := db.First(&l, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrLgaNotFound
		}

		return nil, result.Error
	}

	l.Name = name
	l.State = state

	result = db.Save(&l)
	if result.Error != nil {
		return nil, result.Error
	}

	return &l, nil
}

// Delete deletes an LGA by id.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.Lga{}, id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrLgaNotFound
	}

	return nil
}
