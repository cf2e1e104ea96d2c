package login

import "errors"

var (
	// ErrInvalidRequestBody is returned when the login payload cannot be parsed
	// or fails validation.
	ErrInvalidRequestBody = errors.New("invalid request body")

	// ErrInvalidCredentials is returned when the provided username and/or
	// password are not valid. The same message covers unknown users so the
	// endpoint does not leak which usernames exist.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrAccountRestricted is returned when the account is inactive or
	// blacklisted.
	ErrAccountRestricted = errors.New("account is restricted")

	// ErrInternalServerError is returned for unexpected failures during login.
	ErrInternalServerError = errors.New("internal server error")
)
