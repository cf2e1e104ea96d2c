package auth

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/eirs-ng/vras/internal/access"
	"github.com/eirs-ng/vras/internal/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open sqlite in-memory db")

	require.NoError(t, db.AutoMigrate(&models.User{}), "failed to migrate user model")

	return db
}

func seedUser(t *testing.T, db *gorm.DB, username, password string, active, blacklisted bool) *models.User {
	t.Helper()

	u := &models.User{
		Username:    username,
		Email:       username + "@example.org",
		Password:    models.HashPassword(password),
		Role:        string(access.RoleLgaAgent),
		Active:      active,
		Blacklisted: blacklisted,
	}
	require.NoError(t, db.Create(u).Error)

	return u
}

func TestAuthenticate(t *testing.T) {
	db := newTestDB(t)
	p := NewLocalProvider(db)

	seedUser(t, db, "alice", "secretpass", true, false)

	user, err := p.Authenticate("alice", "secretpass")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = p.Authenticate("alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	_, err = p.Authenticate("nobody", "secretpass")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

// TestAuthenticateRestrictionBeforePassword pins the check order: a
// restricted account is refused before the password is even looked at.
func TestAuthenticateRestrictionBeforePassword(t *testing.T) {
	db := newTestDB(t)
	p := NewLocalProvider(db)

	seedUser(t, db, "inactive", "secretpass", false, false)
	seedUser(t, db, "listed", "secretpass", true, true)

	_, err := p.Authenticate("inactive", "wrong-password")
	assert.ErrorIs(t, err, ErrUserAccountDisabled)

	_, err = p.Authenticate("listed", "wrong-password")
	assert.ErrorIs(t, err, ErrUserBlacklisted)
}

func TestChangePassword(t *testing.T) {
	db := newTestDB(t)
	p := NewLocalProvider(db)

	u := seedUser(t, db, "bob", "oldpassword", true, false)

	err := p.ChangePassword(u.ID, "nope", "newpassword")
	assert.ErrorIs(t, err, ErrInvalidOldPassword)

	require.NoError(t, p.ChangePassword(u.ID, "oldpassword", "newpassword"))

	_, err = p.Authenticate("bob", "newpassword")
	assert.NoError(t, err)
}

func TestResetPassword(t *testing.T) {
	db := newTestDB(t)
	p := NewLocalProvider(db)

	u := seedUser(t, db, "carol", "oldpassword", true, false)

	require.NoError(t, p.ResetPassword(u.ID, "resetpass"))

	_, err := p.Authenticate("carol", "resetpass")
	assert.NoError(t, err)

	_, err = p.Authenticate("carol", "oldpassword")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}
