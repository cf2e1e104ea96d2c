// Package setting provides get and set operations for portal settings.
package setting

import (
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	"github.com/eirs-ng/vras/internal/db/models"
)

const (
	whereName = "name = ?"
)

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrNameEmpty is returned when the setting name is empty.
	ErrNameEmpty = errors.New("setting name cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a setting by name and unmarshals its value into out.
func Get(db *gorm.DB, name string, out interface{}) error {
	if db == nil {
		return ErrDBNil
	}

	if name == "" {
		return ErrNameEmpty
	}

	var s models.Setting

	result := db.Where(whereName, name).First(&s)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ErrSettingNotFound
		}

		return result.Error
	}

	return json.Unmarshal(s.Value, out)
}

// Set stores a setting by name, creating or replacing the value.
func Set(db *gorm.DB, name string, value interface{}) error {
	if db == nil {
		return ErrDBNil
	}

	if name == "" {
		return ErrNameEmpty
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	var s models.Setting

	result := db.Where(whereName, name).First(&s)
	if result.Error != nil {
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return result.Error
		}

		s = models.Setting{
			Name:  name,
			Value: raw,
		}

		return db.Create(&s).Error
	}

	s.Value = raw

	return db.Save(&s).Error
}
