// Package audittrail provides append and scoped read operations for the
// audit trail. Entries are appended by the system on every mutating action
// and are never edited or deleted.
package audittrail

import (
	"errors"

	"gorm.io/gorm"

	"github.com/eirs-ng/vras/internal/access"
	"github.com/eirs-ng/vras/internal/db/models"
	"github.com/eirs-ng/vras/internal/db/query"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Append records an action in the audit trail.
func Append(db *gorm.DB, entry *models.AuditTrail) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Create(entry).Error
}

// List retrieves audit entries within the caller's scope, newest first.
// For LGA admins the scope is the two-path OR filter: entries produced by
// actors in their LGA and entries touching vehicles registered in their
// LGA, which are different join paths on the same row.
func List(db *gorm.DB, f access.ScopeFilter, limit, offset int) ([]models.AuditTrail, int64, error) {
	if db == nil {
		return nil, 0, ErrDBNil
	}

	q, err := query.Scoped(db.Model(&models.AuditTrail{}), f, query.AuditTrails)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.AuditTrail
	if err := q.Order("id DESC").Limit(limit).Offset(offset).Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
