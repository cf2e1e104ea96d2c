package auth

import "errors"

var (
	// ErrInvalidOldPassword is returned when the provided old password does not match the user's current password.
	ErrInvalidOldPassword = errors.New("invalid old password")

	// ErrUserAccountDisabled is returned when attempting to authenticate an inactive user account.
	ErrUserAccountDisabled = errors.New("user account is disabled")

	// ErrUserBlacklisted is returned when attempting to authenticate a blacklisted user account.
	ErrUserBlacklisted = errors.New("user account is blacklisted")

	// ErrInvalidPassword is returned when the provided password is incorrect during authentication.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrUserNotFound is returned when a user cannot be found in the database.
	ErrUserNotFound = errors.New("user not found")
)
