// Package scan provides scoped operations for compliance scan records.
package scan

import (
	"errors"

	"gorm.io/gorm"

	"github.com/eirs-ng/vras/internal/access"
	"github.com/eirs-ng/vras/internal/db/models"
	"github.com/eirs-ng/vras/internal/db/query"
	"github.com/eirs-ng/vras/internal/uniuri"
)

// RequestIDLen is the length of a generated scan request id.
const RequestIDLen = 20

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Record appends a scan row with a fresh request id.
func Record(db *gorm.DB, s *models.Scan) error {
	if db == nil {
		return ErrDBNil
	}

	if s.RequestID == "" {
		s.RequestID = uniuri.NewLen(RequestIDLen)
	}

	return db.Create(s).Error
}

// List retrieves scans within the caller's scope, newest first.
func List(db *gorm.DB, f access.ScopeFilter, limit, offset int) ([]models.Scan, int64, error) {
	if db == nil {
		return nil, 0, ErrDBNil
	}

	q, err := query.Scoped(db.Model(&models.Scan{}), f, query.Scans)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var scans []models.Scan
	if err := q.Order("id DESC").Limit(limit).Offset(offset).Find(&scans).Error; err != nil {
		return nil, 0, err
	}

	return scans, total, nil
}

// Count returns the number of scans within the caller's scope.
func Count(db *gorm.DB, f access.ScopeFilter) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	q, err := query.Scoped(db.Model(&models.Scan{}), f, query.Scans)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
