// Package user provides scoped CRUD operations for user accounts.
package user

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/eirs-ng/vras/internal/access"
	"github.com/eirs-ng/vras/internal/db/models"
	"github.com/eirs-ng/vras/internal/db/query"
)

const (
	whereID = "id = ?"
)

var (
	// ErrUserNotFound is returned when a user is not visible within scope.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserNameOrEmailExists is returned when attempting to create a user
	// with a username or email that already exists.
	ErrUserNameOrEmailExists = errors.New("user with username or email already exists")
	// ErrLgaRequired is returned when creating an LGA-scoped user without an LGA.
	ErrLgaRequired = errors.New("lga is required for lga-scoped roles")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Create creates a new user account. LGA-scoped roles must carry an
// assigned LGA; a missing assignment would otherwise make every later
// operation a no_scope denial for that user.
func Create(db *gorm.DB, u *models.User) error {
	if db == nil {
		return ErrDBNil
	}

	if access.IsLGARole(access.ParseRole(u.Role)) && u.LgaID == nil {
		return ErrLgaRequired
	}

	var existing models.User

	err := db.Where("username = ? OR email = ?", u.Username, u.Email).First(&existing).Error
	if err == nil {
		return ErrUserNameOrEmailExists
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	u.Active = true

	return db.Create(u).Error
}

// Get retrieves a user by id within the caller's scope.
func Get(db *gorm.DB, f access.ScopeFilter, id uint64) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	q, err := query.Scoped(db.Model(&models.User{}), f, query.Users)
	if err != nil {
		return nil, err
	}

	var user models.User

	result := q.Where(whereID, id).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, result.Error
	}

	return &user, nil
}

// GetByUsername retrieves a user by username without scoping. It exists
// for the authentication path only; authenticated reads go through Get.
func GetByUsername(db *gorm.DB, username string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var user models.User

	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return &user, nil
}

// List retrieves users within the caller's scope with optional role filter.
func List(db *gorm.DB, f access.ScopeFilter, role string, limit, offset int) ([]models.User, int64, error) {
	if db == nil {
		return nil, 0, ErrDBNil
	}

	q, err := query.Scoped(db.Model(&models.User{}), f, query.Users)
	if err != nil {
		return nil, 0, err
	}

	if role != "" {
		q = q.Where("role = ?", role)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := q.Order("id").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// Update applies profile updates to a user.
func Update(db *gorm.DB, id uint64, email, firstName, lastName, phone string) error {
	if db == nil {
		return ErrDBNil
	}

	updates := map[string]interface{}{
		"email":      email,
		"first_name": firstName,
		"last_name":  lastName,
		"phone":      phone,
		"updated_at": time.Now(),
	}

	return db.Model(&models.User{}).
		Where(whereID, id).
		Updates(updates).Error
}

// AssignRole assigns a role (and LGA for LGA-scoped roles) to a user.
func AssignRole(db *gorm.DB, id uint64, role string, lgaID *uint64) error {
	if db == nil {
		return ErrDBNil
	}

	if access.IsLGARole(access.ParseRole(role)) && lgaID == nil {
		return ErrLgaRequired
	}

	return db.Model(&models.User{}).
		Where(whereID, id).
		Updates(map[string]interface{}{"role": role, "lga_id": lgaID}).Error
}

// Activate activates a user account.
func Activate(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Model(&models.User{}).
		Where(whereID, id).
		Update("active", true).Error
}

// Deactivate deactivates a user account.
func Deactivate(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Model(&models.User{}).
		Where(whereID, id).
		Update("active", false).Error
}

// Blacklist marks a user account as blacklisted, invalidating every
// permission regardless of role.
func Blacklist(db *gorm.DB, id uint64, blacklisted bool) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Model(&models.User{}).
		Where(whereID, id).
		Update("blacklisted", blacklisted).Error
}

// Delete soft deletes a user.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Model(&models.User{}).
		Where(whereID, id).
		Update("deleted_at", time.Now()).Error
}
