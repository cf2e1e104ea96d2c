package paygate

import (
	"errors"
)

var (
	// ErrEngineNotInitialized is returned when the paygate engine is not initialized.
	ErrEngineNotInitialized = errors.New("paygate engine not initialized")

	// ErrVerificationFailed is returned when the gateway rejects the reference.
	ErrVerificationFailed = errors.New("payment verification failed")
)
