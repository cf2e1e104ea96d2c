// Package vehicle provides scoped CRUD operations for vehicle records.
// Every read applies the caller's access.ScopeFilter; writes validate the
// target LGA against the caller's allow-list.
package vehicle

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/eirs-ng/vras/internal/access"
	"github.com/eirs-ng/vras/internal/db/models"
	"github.com/eirs-ng/vras/internal/db/query"
)

const (
	idQueryPattern    = "id = ?"
	plateQueryPattern = "plate_number = ?"

	// DefaultPageSize is the default number of rows per page.
	DefaultPageSize = 25
	// MaxPageSize caps a caller-supplied page size.
	MaxPageSize = 100
)

var (
	// ErrVehicleNotFound is returned when a vehicle is not visible within scope.
	ErrVehicleNotFound = errors.New("vehicle not found")
	// ErrPlateNumberEmpty is returned when creating a vehicle without a plate number.
	ErrPlateNumberEmpty = errors.New("plate number cannot be empty")
	// ErrPlateNumberExists is returned when the plate number is already registered.
	ErrPlateNumberExists = errors.New("plate number already registered")
	// ErrLgaNotAllowed is returned when the target LGA is outside the caller's allow-list.
	ErrLgaNotAllowed = errors.New("target lga not in caller's allow-list")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// ListParams holds pagination and search parameters for List.
type ListParams struct {
	Page   int
	Size   int
	Search string // matches plate number prefix
}

// normalize clamps pagination values into range.
func (p *ListParams) normalize() {
	if p.Page < 1 {
		p.Page = 1
	}

	if p.Size < 1 || p.Size > MaxPageSize {
		p.Size = DefaultPageSize
	}
}

// Create registers a new vehicle after validating the target LGA against
// the caller's allow-list. The allow-list is a write-time restriction, not
// a read filter: an out-of-list LGA is rejected before any insert.
func Create(db *gorm.DB, v *models.Vehicle, allow access.LgaAllowList) error {
	if db == nil {
		return ErrDBNil
	}

	if v.PlateNumber == "" {
		return ErrPlateNumberEmpty
	}

	if !allow.Allows(v.RegisteredLgaID) {
		return ErrLgaNotAllowed
	}

	var existing models.Vehicle

	result := db.Where(plateQueryPattern, v.PlateNumber).First(&existing)
	if result.Error == nil {
		return ErrPlateNumberExists
	}

	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	if v.Status == "" {
		v.Status = models.VehicleStatusActive
	}

	return db.Create(v).Error
}

// Get retrieves a vehicle by id within the caller's scope. A vehicle
// outside scope is reported as not found, never leaked.
func Get(db *gorm.DB, f access.ScopeFilter, id uint64) (*models.Vehicle, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	q, err := query.Scoped(db.Model(&models.Vehicle{}), f, query.Vehicles)
	if err != nil {
		return nil, err
	}

	var vehicle models.Vehicle

	result := q.Where(idQueryPattern, id).First(&vehicle)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}

		return nil, result.Error
	}

	return &vehicle, nil
}

// List retrieves vehicles within the caller's scope, paginated.
func List(db *gorm.DB, f access.ScopeFilter, params ListParams) ([]models.Vehicle, int64, error) {
	if db == nil {
		return nil, 0, ErrDBNil
	}

	params.normalize()

	q, err := query.Scoped(db.Model(&models.Vehicle{}), f, query.Vehicles)
	if err != nil {
		return nil, 0, err
	}

	if params.Search != "" {
		q = q.Where("plate_number LIKE ?", params.Search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var vehicles []models.Vehicle

	offset := (params.Page - 1) * params.Size
	if err := q.Order("id").Limit(params.Size).Offset(offset).Find(&vehicles).Error; err != nil {
		return nil, 0, err
	}

	return vehicles, total, nil
}

// Update applies field updates to a vehicle within the caller's scope.
func Update(db *gorm.DB, f access.ScopeFilter, id uint64, updates map[string]interface{}) error {
	if db == nil {
		return ErrDBNil
	}

	// Resolve within scope first so out-of-scope rows 404 instead of
	// silently matching zero rows.
	if _, err := Get(db, f, id); err != nil {
		return err
	}

	updates["updated_at"] = time.Now()

	return db.Model(&models.Vehicle{}).
		Where(idQueryPattern, id).
		Updates(updates).Error
}

// SetStatus changes the administrative status of a vehicle within scope.
func SetStatus(db *gorm.DB, f access.ScopeFilter, id uint64, status models.VehicleStatus) error {
	return Update(db, f, id, map[string]interface{}{"status": status})
}

// Count returns the number of vehicles within the caller's scope.
func Count(db *gorm.DB, f access.ScopeFilter) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	q, err := query.Scoped(db.Model(&models.Vehicle{}), f, query.Vehicles)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

// CompliancePendingCount returns the number of active vehicles in scope
// with no scan inside the compliance window (anti-join).
func CompliancePendingCount(db *gorm.DB, f access.ScopeFilter, now time.Time) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	q, err := query.CompliancePendingVehicles(db, f, now)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
